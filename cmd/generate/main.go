// Command generate regenerates every configured team feed once and exits.
// The exit status is non-zero when any team failed.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/preston-bernstein/league-ics/internal/config"
	"github.com/preston-bernstein/league-ics/internal/logging"
	"github.com/preston-bernstein/league-ics/internal/server"
)

const appVersion = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stderr))
}

func run(ctx context.Context, args []string, stderr io.Writer) int {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configFile := fs.String("config", "", "feeds file (overrides CONFIG_FILE)")
	outputDir := fs.String("out", "", "output directory (overrides OUTPUT_DIR)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	logger := logging.NewLogger(logging.Config{
		Level:   os.Getenv("LOG_LEVEL"),
		Format:  os.Getenv("LOG_FORMAT"),
		Service: "league-ics-generate",
		Version: appVersion,
		Output:  stderr,
	})

	if *configFile != "" {
		if err := os.Setenv(config.EnvConfigFile, *configFile); err != nil {
			logging.Error(logger, "failed to apply config flag", err)
			return 1
		}
	}
	cfg, err := config.Load()
	if err != nil {
		logging.Error(logger, "failed to load configuration", err)
		return 1
	}
	if *outputDir != "" {
		cfg.OutputDir = *outputDir
	}

	report, err := server.Generate(ctx, cfg, logger)
	for _, team := range report.Teams {
		logging.Info(logger, "feed result",
			slog.String(logging.FieldSlug, team.Slug),
			slog.String("status", string(team.Status)),
			slog.Int("events", team.Events),
		)
	}
	if err != nil {
		logging.Error(logger, "generation failed", err)
		return 1
	}
	if failed := report.Failed(); failed > 0 {
		fmt.Fprintf(stderr, "%d of %d feeds failed\n", failed, len(report.Teams))
		return 1
	}
	return 0
}
