package utils

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"alignify/src-server/ical"
	"alignify/src-server/manager"
	"alignify/src-server/model"

	"github.com/olebedev/when"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/uptrace/bun/extra/bundebug"
)

type AppState struct {
	Config *Config
	RawDB  *sql.DB
	BunDB  *bun.DB
	// nil when DATABASE_PATH is blank
	Store    *model.Store
	Registry *manager.Registry
	When     *when.Parser

	HTTPClient  *http.Client
	MetricChans *Metric

	AppCloseSignalChan chan os.Signal

	startedAt time.Time

	shutdownMu    sync.Mutex
	shutdownChans []chan struct{}
}

// NewAppState opens the database (if any), creates the schema and loads the
// registry from it.
func NewAppState(ctx context.Context, config *Config) (*AppState, error) {
	as := &AppState{
		Config:             config,
		When:               NewWhenParser(),
		HTTPClient:         &http.Client{Timeout: config.GetFetchTimeout()},
		MetricChans:        NewMetric(),
		AppCloseSignalChan: make(chan os.Signal, 1),
		startedAt:          time.Now(),
	}

	var persister manager.Persister
	if path := config.GetDatabasePath(); path != "" {
		dsn := path + "?mode=rwc"
		if path == ":memory:" {
			dsn = path
		}
		var err error
		as.RawDB, err = sql.Open(sqliteshim.ShimName, dsn)
		if err != nil {
			return nil, fmt.Errorf("NewAppState: can't open sqlite database: %w", err)
		}
		as.RawDB.SetMaxIdleConns(8)
		if path == ":memory:" {
			// every connection would get its own empty database
			as.RawDB.SetMaxOpenConns(1)
		}

		as.BunDB = bun.NewDB(as.RawDB, sqlitedialect.New())
		as.BunDB.AddQueryHook(bundebug.NewQueryHook(
			bundebug.WithVerbose(true),
			bundebug.FromEnv("BUNDEBUG"),
		))
		if err := model.CreateSchema(ctx, as.BunDB); err != nil {
			return nil, fmt.Errorf("NewAppState: %w", err)
		}
		as.Store = model.NewStore(as.BunDB, as.MetricChans.DatabaseWrite)
		persister = as.Store
	}

	as.Registry = manager.NewRegistry(config.GetLocation(), persister)
	if as.Store != nil {
		users, events, err := as.Store.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("NewAppState: %w", err)
		}
		as.Registry.Restore(users, events)
	}
	return as, nil
}

// ImportOptions returns the parse options for an import happening now.
func (as *AppState) ImportOptions() ical.Options {
	now := time.Now().In(as.Config.GetLocation())
	return ical.Options{
		Location:       as.Config.GetLocation(),
		HorizonStart:   now.Add(-as.Config.GetHorizonPast()),
		HorizonEnd:     now.Add(as.Config.GetHorizonFuture()),
		MaxOccurrences: as.Config.GetMaxOccurrences(),
	}
}

func (as *AppState) GetUptime() time.Duration {
	return time.Since(as.startedAt).Round(time.Second)
}

// CreateGracefulShutdownChan returns a channel closed by GracefulShutdown.
func (as *AppState) CreateGracefulShutdownChan() *chan struct{} {
	as.shutdownMu.Lock()
	defer as.shutdownMu.Unlock()
	ch := make(chan struct{})
	as.shutdownChans = append(as.shutdownChans, ch)
	return &ch
}

// GracefulShutdown notifies every background goroutine, then closes the
// database.
func (as *AppState) GracefulShutdown() {
	as.shutdownMu.Lock()
	for _, ch := range as.shutdownChans {
		close(ch)
	}
	as.shutdownChans = nil
	as.shutdownMu.Unlock()

	if as.BunDB != nil {
		if err := as.BunDB.Close(); err != nil {
			slog.Warn("can't close database", "error", err)
		}
	}
}
