package handler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"alignify/src-server/ical"
	"alignify/src-server/manager"
	"alignify/src-server/model"
	"alignify/src-server/utils"
)

type ImportResult struct {
	Name      string        `json:"name"`
	Imported  []model.Event `json:"imported"`
	Skipped   int           `json:"skipped"`
	Truncated []string      `json:"truncated,omitempty"`
}

// FetchCalendar reads and parses a calendar from an http(s)/webcal URL or a
// file path, bounded by FETCH_TIMEOUT. The hash is only set for URLs.
func FetchCalendar(ctx context.Context, as *utils.AppState, source string) (*ical.Report, string, error) {
	if !ical.IsRemote(source) {
		report, err := ical.ParseFile(source, as.ImportOptions())
		if err != nil {
			return nil, "", fmt.Errorf("FetchCalendar: %w", err)
		}
		return report, "", nil
	}

	url, err := ical.NormalizeURL(source)
	if err != nil {
		return nil, "", fmt.Errorf("FetchCalendar: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, as.Config.GetFetchTimeout())
	defer cancel()

	startTimer := time.Now()
	body, hash, err := utils.FetchWithHash(ctx, as.HTTPClient, url)
	if err != nil {
		return nil, "", fmt.Errorf("FetchCalendar: %w", err)
	}
	utils.Observe(as.MetricChans.CalendarFetch, float64(time.Since(startTimer).Microseconds()))

	report, err := ical.ParseBytes(body, as.ImportOptions())
	if err != nil {
		return nil, "", fmt.Errorf("FetchCalendar: %w", err)
	}
	return report, hash, nil
}

// ImportCalendar appends the events of source to a user's calendar.
func ImportCalendar(ctx context.Context, as *utils.AppState, userID int64, source string) (*ImportResult, error) {
	report, _, err := FetchCalendar(ctx, as, source)
	if err != nil {
		return nil, fmt.Errorf("ImportCalendar: %w", err)
	}
	return importReport(ctx, as, userID, report)
}

// ImportICS appends the events of raw ICS content to a user's calendar.
func ImportICS(ctx context.Context, as *utils.AppState, userID int64, r io.Reader) (*ImportResult, error) {
	report, err := ical.Parse(r, as.ImportOptions())
	if err != nil {
		return nil, fmt.Errorf("ImportICS: %w", err)
	}
	return importReport(ctx, as, userID, report)
}

func importReport(ctx context.Context, as *utils.AppState, userID int64, report *ical.Report) (*ImportResult, error) {
	events, err := as.Registry.ImportEvents(ctx, userID, report.Builders())
	if err != nil {
		return nil, err
	}
	slog.Info("calendar imported",
		"user", userID,
		"name", report.Name,
		"events", len(events),
		"skipped", report.Skipped,
		"truncated", report.Truncated,
	)
	return &ImportResult{
		Name:      report.Name,
		Imported:  events,
		Skipped:   report.Skipped,
		Truncated: report.Truncated,
	}, nil
}

// NewUser is the "add user" form: names plus a calendar given either as ICS
// text or as a source (file path or URL).
type NewUser struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	ICS       string `json:"ics"`
	Source    string `json:"source"`
}

// CreateUser parses the calendar first, so a broken calendar never leaves a
// user without events behind.
func CreateUser(ctx context.Context, as *utils.AppState, in NewUser) (model.User, *ImportResult, error) {
	var report *ical.Report
	var err error
	switch {
	case in.ICS != "":
		report, err = ical.ParseBytes([]byte(in.ICS), as.ImportOptions())
	case in.Source != "":
		report, _, err = FetchCalendar(ctx, as, in.Source)
	default:
		return model.User{}, nil, fmt.Errorf("CreateUser: %w", &manager.FieldError{Fields: []string{"calendar"}})
	}
	if err != nil {
		return model.User{}, nil, fmt.Errorf("CreateUser: %w", err)
	}

	user, err := as.Registry.CreateUser(ctx, in.FirstName, in.LastName, in.Source)
	if err != nil {
		return model.User{}, nil, fmt.Errorf("CreateUser: %w", err)
	}
	result, err := importReport(ctx, as, user.ID, report)
	if err != nil {
		if _, rmErr := as.Registry.DeleteUser(ctx, user.ID); rmErr != nil {
			slog.Error("can't roll back user", "id", user.ID, "error", rmErr)
		}
		return model.User{}, nil, fmt.Errorf("CreateUser: %w", err)
	}
	return user, result, nil
}
