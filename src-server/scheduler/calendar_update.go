package scheduler

import (
	"context"
	"log/slog"
	"sync"

	"alignify/src-server/handler"
	"alignify/src-server/ical"
	"alignify/src-server/model"
	"alignify/src-server/utils"

	"github.com/robfig/cron/v3"
)

const (
	WORKER_COUNT = 4
)

// CalendarUpdater re-imports every user whose calendar came from a URL.
type CalendarUpdater struct {
	as *utils.AppState

	mu     sync.Mutex
	hashes map[int64]string
}

func NewCalendarUpdater(as *utils.AppState) *CalendarUpdater {
	return &CalendarUpdater{as: as, hashes: make(map[int64]string)}
}

// RunOnce refreshes every remote calendar with WORKER_COUNT workers and
// returns how many of them changed. A failed refresh keeps the old events.
func (u *CalendarUpdater) RunOnce(ctx context.Context) int {
	remoteUsers := make([]model.User, 0)
	for _, user := range u.as.Registry.Users() {
		if ical.IsRemote(user.Source) {
			remoteUsers = append(remoteUsers, user)
		}
	}
	if len(remoteUsers) == 0 {
		return 0
	}

	jobs := make(chan model.User, len(remoteUsers))
	for _, user := range remoteUsers {
		jobs <- user
	}
	close(jobs)

	var wg sync.WaitGroup
	var changedMu sync.Mutex
	changed := 0
	for range min(WORKER_COUNT, len(remoteUsers)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for user := range jobs {
				if ctx.Err() != nil {
					return
				}
				u.mu.Lock()
				lastHash := u.hashes[user.ID]
				u.mu.Unlock()

				hash, updated, err := handler.RefreshCalendar(ctx, u.as, user, lastHash)
				if err != nil {
					slog.Warn("CalendarUpdate: can't refresh calendar", "user", user.ID, "url", user.Source, "error", err)
					continue
				}
				u.mu.Lock()
				u.hashes[user.ID] = hash
				u.mu.Unlock()
				if updated {
					changedMu.Lock()
					changed++
					changedMu.Unlock()
				}
			}
		}()
	}
	wg.Wait()
	return changed
}

// CalendarUpdate runs the updater on REFRESH_CRON until graceful shutdown.
func CalendarUpdate(as *utils.AppState) error {
	updater := NewCalendarUpdater(as)
	ctx, cancel := context.WithCancel(context.Background())

	c := cron.New(cron.WithLocation(as.Config.GetLocation()))
	if _, err := c.AddFunc(as.Config.GetRefreshCron(), func() {
		changed := updater.RunOnce(ctx)
		slog.Debug("calendar update finished", "changed", changed)
	}); err != nil {
		cancel()
		return err
	}
	c.Start()
	slog.Info("calendar update scheduled", "cron", as.Config.GetRefreshCron())

	gracefulShutdownCh := as.CreateGracefulShutdownChan()
	go func() {
		<-*gracefulShutdownCh
		cancel()
		<-c.Stop().Done()
		slog.Debug("calendar update stopped")
	}()
	return nil
}
