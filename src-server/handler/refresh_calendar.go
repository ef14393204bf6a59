package handler

import (
	"context"
	"fmt"
	"log/slog"

	"alignify/src-server/ical"
	"alignify/src-server/model"
	"alignify/src-server/utils"
)

// RefreshCalendar re-fetches a user's remote calendar and replaces their
// events with it. Nothing changes when the content hash equals lastHash.
func RefreshCalendar(ctx context.Context, as *utils.AppState, user model.User, lastHash string) (string, bool, error) {
	if !ical.IsRemote(user.Source) {
		return lastHash, false, fmt.Errorf("RefreshCalendar: user %d has no remote calendar", user.ID)
	}
	report, hash, err := FetchCalendar(ctx, as, user.Source)
	if err != nil {
		return lastHash, false, fmt.Errorf("RefreshCalendar: %w", err)
	}
	if hash != "" && hash == lastHash {
		slog.Debug("calendar unchanged", "user", user.ID, "hash", hash)
		return hash, false, nil
	}
	events, err := as.Registry.ReplaceImported(ctx, user.ID, report.Builders())
	if err != nil {
		return lastHash, false, fmt.Errorf("RefreshCalendar: %w", err)
	}
	slog.Info("calendar refreshed", "user", user.ID, "events", len(events), "skipped", report.Skipped)
	return hash, true, nil
}
