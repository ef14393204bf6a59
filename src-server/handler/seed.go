package handler

import (
	"context"
	"log/slog"

	"alignify/src-server/utils"
)

// ApplySeed creates the users of a seed file. It does nothing when the
// registry already has users, so restarting with a database is harmless.
func ApplySeed(ctx context.Context, as *utils.AppState, seed *utils.Seed) int {
	if len(as.Registry.Users()) > 0 {
		slog.Debug("registry not empty, seed skipped")
		return 0
	}
	created := 0
	for _, u := range seed.Users {
		user, result, err := CreateUser(ctx, as, NewUser{
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Source:    u.ICS,
		})
		if err != nil {
			slog.Warn("can't seed user", "first_name", u.FirstName, "last_name", u.LastName, "error", err)
			continue
		}
		slog.Info("user seeded", "id", user.ID, "name", user.FullName(), "events", len(result.Imported))
		created++
	}
	return created
}
