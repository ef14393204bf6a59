// The `ical` package turns iCalendar (RFC 5545) files into events that can be
// imported into a user's calendar, and writes calendars back out.
//
// # Notes:
//   - Only VEVENT blocks are read. VTIMEZONE and VALARM are ignored, a TZID
//     parameter on DTSTART/DTEND is still honored.
//   - A VEVENT without SUMMARY or without a readable DTSTART is skipped.
//   - Recurring events are expanded into one event per occurrence inside the
//     configured horizon. An instance edited through RECURRENCE-ID replaces
//     its slot; a cancelled one removes it.
//   - Every time is expressed in the configured location.
//
// # Example usage:
//
//	report, err := ical.ParseFile("path/to/calendar.ics", ical.Options{Location: loc})
//	events, err := registry.ImportEvents(ctx, userID, report.Builders())
package ical

import (
	"bytes"
	"io"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"alignify/src-server/model"

	ics "github.com/arran4/golang-ical"
)

const defaultMaxOccurrences = 1000

type Options struct {
	// Location the times are expressed in; time.Local when nil.
	Location *time.Location
	// Occurrences of recurring events are kept only inside
	// [HorizonStart, HorizonEnd]. A zero window keeps the first occurrence
	// only.
	HorizonStart time.Time
	HorizonEnd   time.Time
	// Cap on occurrences per recurring event.
	MaxOccurrences int
}

func (o Options) withDefaults() Options {
	if o.Location == nil {
		o.Location = time.Local
	}
	if o.MaxOccurrences <= 0 {
		o.MaxOccurrences = defaultMaxOccurrences
	}
	return o
}

// ParsedEvent is one concrete event (recurrences already expanded).
type ParsedEvent struct {
	UID         string
	Title       string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
	AllDay      bool

	rrule        string
	exDates      []time.Time
	recurrenceID time.Time
	cancelled    bool
}

func (p ParsedEvent) in(loc *time.Location) ParsedEvent {
	p.Start = p.Start.In(loc)
	p.End = p.End.In(loc)
	return p
}

func (p ParsedEvent) isOverride() bool {
	return !p.recurrenceID.IsZero() && p.UID != ""
}

// Builder turns the parsed event into a model.EventBuilder, leaving ID and
// owner to the registry.
func (p ParsedEvent) Builder() *model.EventBuilder {
	return model.NewEventBuilder().
		SetUID(p.UID).
		SetTitle(p.Title).
		SetDescription(p.Description).
		SetLocation(p.Location).
		SetStart(p.Start).
		SetEnd(p.End).
		SetWholeDay(p.AllDay)
}

type Report struct {
	Name      string
	Events    []ParsedEvent
	Skipped   int
	Truncated []string
}

func (r *Report) Builders() []*model.EventBuilder {
	builders := make([]*model.EventBuilder, 0, len(r.Events))
	for _, e := range r.Events {
		builders = append(builders, e.Builder())
	}
	return builders
}

// Parse reads a whole iCalendar stream.
func Parse(r io.Reader, opts Options) (*Report, error) {
	opts = opts.withDefaults()

	// real-world exports put stray properties between components
	cal, err := ics.ParseCalendarWithOptions(r, ics.WithUnknownPropertyHandler(ics.AcceptUnknownPropertyHandler))
	if err != nil {
		return nil, NewCustomError("can't parse calendar", map[string]any{
			"err": err,
		})
	}

	report := &Report{Events: make([]ParsedEvent, 0)}
	for _, prop := range cal.CalendarProperties {
		if strings.EqualFold(prop.IANAToken, "X-WR-CALNAME") {
			report.Name = prop.Value
		}
	}

	masters := make([]ParsedEvent, 0)
	overrides := make(map[string][]ParsedEvent)
	overrideUIDs := make([]string, 0)
	for i, vevent := range cal.Events() {
		parsed, err := parseVEvent(vevent, opts.Location)
		if err != nil {
			slog.Debug("skipping vevent", "index", i, "error", err)
			report.Skipped++
			continue
		}
		if parsed.isOverride() {
			if _, ok := overrides[parsed.UID]; !ok {
				overrideUIDs = append(overrideUIDs, parsed.UID)
			}
			overrides[parsed.UID] = append(overrides[parsed.UID], parsed)
			continue
		}
		masters = append(masters, parsed)
	}

	for _, master := range masters {
		occurrences := []ParsedEvent{master.in(opts.Location)}
		if master.rrule != "" {
			var truncated bool
			occurrences, truncated = expand(master, opts)
			if truncated {
				report.Truncated = append(report.Truncated, master.UID)
			}
		}
		if moved, ok := overrides[master.UID]; ok && master.UID != "" {
			occurrences = applyOverrides(master, occurrences, moved, opts)
			delete(overrides, master.UID)
		}
		report.Events = append(report.Events, occurrences...)
	}

	// instances whose series is not in this file
	for _, uid := range overrideUIDs {
		for _, o := range overrides[uid] {
			if o.cancelled {
				continue
			}
			if o.Title == "" {
				slog.Debug("skipping instance without SUMMARY", "uid", uid)
				report.Skipped++
				continue
			}
			o.UID = occurrenceUID(uid, o.recurrenceID)
			report.Events = append(report.Events, o.in(opts.Location))
		}
	}

	slog.Debug("ical parsed", "name", report.Name, "events", len(report.Events), "skipped", report.Skipped)
	return report, nil
}

// applyOverrides swaps the instances named by a RECURRENCE-ID for their
// edited version, and drops cancelled ones.
func applyOverrides(master ParsedEvent, occurrences []ParsedEvent, moved []ParsedEvent, opts Options) []ParsedEvent {
	bySlot := make(map[int64]ParsedEvent, len(moved))
	for _, o := range moved {
		bySlot[o.recurrenceID.Unix()] = o
	}

	out := make([]ParsedEvent, 0, len(occurrences))
	for _, occurrence := range occurrences {
		slot := occurrence.Start.Unix()
		o, ok := bySlot[slot]
		if !ok {
			out = append(out, occurrence)
			continue
		}
		delete(bySlot, slot)
		if !o.cancelled {
			out = append(out, overrideOf(master, o, occurrence.UID, opts))
		}
	}

	// the original slot was outside the horizon or past the cap
	if opts.HorizonStart.IsZero() && opts.HorizonEnd.IsZero() {
		return out
	}
	exDates := make(map[int64]struct{}, len(master.exDates))
	for _, exDate := range master.exDates {
		exDates[exDate.Unix()] = struct{}{}
	}
	for _, o := range moved {
		slot := o.recurrenceID.Unix()
		if _, ok := bySlot[slot]; !ok || o.cancelled {
			continue
		}
		if _, ok := exDates[slot]; ok {
			continue
		}
		if o.Start.Before(opts.HorizonStart) || (!opts.HorizonEnd.IsZero() && o.Start.After(opts.HorizonEnd)) {
			continue
		}
		out = append(out, overrideOf(master, o, occurrenceUID(master.UID, o.recurrenceID), opts))
	}
	return out
}

func overrideOf(master, o ParsedEvent, uid string, opts Options) ParsedEvent {
	if o.Title == "" {
		o.Title = master.Title
	}
	if o.End.Equal(o.Start) {
		o.End = o.Start.Add(master.End.Sub(master.Start))
	}
	o.UID = uid
	o.rrule = ""
	o.exDates = nil
	return o.in(opts.Location)
}

func parseVEvent(vevent *ics.VEvent, loc *time.Location) (ParsedEvent, error) {
	var out ParsedEvent

	text := func(p ics.ComponentProperty) string {
		if prop := vevent.GetProperty(p); prop != nil {
			return strings.TrimSpace(prop.Value)
		}
		return ""
	}

	out.UID = text(ics.ComponentPropertyUniqueId)
	if prop := vevent.GetProperty(ics.ComponentPropertyRecurrenceId); prop != nil {
		recurrenceID, _, err := parseDate(prop.Value, prop.ICalParameters, loc)
		if err != nil {
			return out, NewCustomError("invalid RECURRENCE-ID", map[string]any{
				"uid":   out.UID,
				"value": prop.Value,
				"err":   err,
			})
		}
		out.recurrenceID = recurrenceID
	}
	out.cancelled = strings.EqualFold(text(ics.ComponentPropertyStatus), "CANCELLED")

	// an edited instance may leave SUMMARY to its series
	out.Title = text(ics.ComponentPropertySummary)
	if out.Title == "" && !out.isOverride() {
		return out, NewCustomError("missing SUMMARY", nil)
	}
	out.Description = text(ics.ComponentPropertyDescription)
	out.Location = text(ics.ComponentPropertyLocation)

	startProp := vevent.GetProperty(ics.ComponentPropertyDtStart)
	if startProp == nil {
		return out, NewCustomError("missing DTSTART", map[string]any{"uid": out.UID})
	}
	start, allDay, err := parseDate(startProp.Value, startProp.ICalParameters, loc)
	if err != nil {
		return out, NewCustomError("invalid DTSTART", map[string]any{
			"uid":   out.UID,
			"value": startProp.Value,
			"err":   err,
		})
	}
	out.Start, out.AllDay, out.End = start, allDay, start

	if endProp := vevent.GetProperty(ics.ComponentPropertyDtEnd); endProp != nil {
		end, _, err := parseDate(endProp.Value, endProp.ICalParameters, loc)
		switch {
		case err != nil:
			slog.Debug("ignoring invalid DTEND", "uid", out.UID, "value", endProp.Value, "error", err)
		case end.Before(start):
			slog.Debug("ignoring DTEND before DTSTART", "uid", out.UID)
		default:
			out.End = end
		}
	}

	out.rrule = text(ics.ComponentPropertyRrule)
	for _, prop := range vevent.GetProperties(ics.ComponentPropertyExdate) {
		for _, part := range strings.Split(prop.Value, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			exDate, _, err := parseDate(part, prop.ICalParameters, loc)
			if err != nil {
				slog.Debug("ignoring invalid EXDATE", "uid", out.UID, "value", part)
				continue
			}
			out.exDates = append(out.exDates, exDate)
		}
	}

	return out, nil
}

func ParseBytes(b []byte, opts Options) (*Report, error) {
	return Parse(bytes.NewReader(b), opts)
}

// ParseFile reads an .ics file from disk.
func ParseFile(path string, opts Options) (*Report, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, NewCustomError("can't open file", map[string]any{
			"path": path,
			"err":  err,
		})
	}
	defer file.Close()
	return Parse(file, opts)
}

// NormalizeURL validates a calendar URL. webcal:// is fetched over https.
func NormalizeURL(rawURL string) (string, error) {
	if strings.HasPrefix(strings.ToLower(rawURL), "webcal://") {
		rawURL = "https://" + rawURL[len("webcal://"):]
	}
	validURL, err := url.ParseRequestURI(rawURL)
	if err != nil {
		return "", NewCustomError("can't parse URL", map[string]any{
			"url": rawURL,
			"err": err,
		})
	}
	return validURL.String(), nil
}

func IsRemote(source string) bool {
	lower := strings.ToLower(source)
	return strings.HasPrefix(lower, "http://") ||
		strings.HasPrefix(lower, "https://") ||
		strings.HasPrefix(lower, "webcal://")
}
