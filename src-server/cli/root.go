package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"alignify/src-server/handler"
	"alignify/src-server/utils"

	"github.com/spf13/cobra"
)

func Launch() {
	rootCmd := NewRootCmd()
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func NewRootCmd() *cobra.Command {
	serveCmd := createServeCmd()
	rootCmd := &cobra.Command{
		Use:   "alignify",
		Short: "Shared calendar that tells you who is free",
		Long: `
Shared calendar that tells you who is free

Users are added together with an ICS calendar. Their events are shown on one
calendar next to the events you create, and every event you create tells you
which users have nothing starting at the same minute.

Without a subcommand the HTTP server is started.

Environment (a .env file is read too):

  PORT                        HTTP port (8080)
  TIMEZONE                    IANA zone dates are computed in (local)
  DATABASE_PATH               SQLite file, blank keeps everything in memory
  SEED_FILE                   YAML file of users to create on an empty start
  LOG_LEVEL                   debug, info, warn or error (debug)
  METRIC_COLLECTION_INTERVAL  (15s)
  REFRESH_CRON                when remote calendars are re-fetched (*/30 * * * *)
  FETCH_TIMEOUT               (1m)
  HORIZON_PAST                how far back recurring events are expanded (720h)
  HORIZON_FUTURE              how far ahead recurring events are expanded (8760h)
  MAX_OCCURRENCES             cap per recurring event (1000)
`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serveCmd.RunE,
	}
	rootCmd.AddCommand(
		serveCmd,
		createUserCmd(),
		createEventCmd(),
		createFreeCmd(),
		createMarksCmd(),
		createExportCmd(),
	)
	return rootCmd
}

// loadAppState reads the environment, opens the store and applies the seed
// file. Callers own the returned state and must shut it down.
func loadAppState(ctx context.Context) (*utils.AppState, error) {
	config, err := utils.NewConfig()
	if err != nil {
		return nil, err
	}
	utils.LogLevel.Set(config.GetLogLevel())

	as, err := utils.NewAppState(ctx, config)
	if err != nil {
		return nil, err
	}
	if path := config.GetSeedFile(); path != "" {
		seed, err := utils.LoadSeed(path)
		if err != nil {
			as.GracefulShutdown()
			return nil, err
		}
		handler.ApplySeed(ctx, as, seed)
	}
	return as, nil
}

// withAppState runs fn against a freshly loaded state.
func withAppState(fn func(cmd *cobra.Command, args []string, as *utils.AppState) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		as, err := loadAppState(cmd.Context())
		if err != nil {
			return err
		}
		defer as.GracefulShutdown()
		return fn(cmd, args, as)
	}
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}
