package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"alignify/src-server/metric"
	"alignify/src-server/route"
	"alignify/src-server/scheduler"
	"alignify/src-server/utils"

	"github.com/spf13/cobra"
)

func createServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			as, err := loadAppState(cmd.Context())
			if err != nil {
				return err
			}
			return serve(as)
		},
	}
}

func serve(as *utils.AppState) error {
	metric.Init(as)
	if err := scheduler.CalendarUpdate(as); err != nil {
		as.GracefulShutdown()
		return err
	}

	server := &http.Server{
		Addr:              ":" + as.Config.GetPort(),
		Handler:           route.NewHandler(as),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("cannot start HTTP server", "error", err)
			as.AppCloseSignalChan <- syscall.SIGTERM
		}
	}()

	slog.Info("app is now running, press Ctrl+C to exit", "port", as.Config.GetPort())

	signal.Notify(as.AppCloseSignalChan, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-as.AppCloseSignalChan
	slog.Info("gracefully shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Warn("can't shut down HTTP server", "error", err)
	}
	as.GracefulShutdown()
	return nil
}
