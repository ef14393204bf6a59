package main

import (
	"log/slog"
	"os"
	"time"

	"alignify/src-server/cli"
	"alignify/src-server/utils"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
)

func init() {
	if err := godotenv.Load(); err != nil {
		slog.Info(err.Error())
	}
	utils.LogLevel.Set(slog.LevelDebug)
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      utils.LogLevel,
			TimeFormat: time.RFC1123Z,
		}),
	))
}

func main() {
	cli.Launch()
}
