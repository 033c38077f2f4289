package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/preston-bernstein/league-ics/internal/config"
	"github.com/preston-bernstein/league-ics/internal/logging"
	"github.com/preston-bernstein/league-ics/internal/server"
)

const appVersion = "dev"

func main() {
	if os.Getenv("SKIP_SERVER_RUN") == "1" {
		return
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if code := run(ctx, stop, os.Stdout); code != 0 {
		stop()
		os.Exit(code)
	}
}

// run blocks until ctx is canceled. It returns non-zero when startup fails.
func run(ctx context.Context, stop context.CancelFunc, out io.Writer) int {
	logger := logging.NewLogger(logging.Config{
		Level:   os.Getenv("LOG_LEVEL"),
		Format:  os.Getenv("LOG_FORMAT"),
		Service: "league-ics",
		Version: appVersion,
		Output:  out,
	})

	cfg, err := config.Load()
	if err != nil {
		logging.Error(logger, "failed to load configuration", err)
		return 1
	}
	cfg.Metrics.ServiceVersion = appVersion

	valid, rejected := cfg.ValidTeams()
	for _, err := range rejected {
		logging.Warn(logger, "team entry rejected", logging.FieldError, err)
	}
	logging.Info(logger, "configuration loaded", "teams", len(valid), "rejected", len(rejected))

	srv, err := server.New(ctx, cfg, logger)
	if err != nil {
		logging.Error(logger, "failed to build server", err)
		return 1
	}
	srv.Run(ctx, stop)
	return 0
}
