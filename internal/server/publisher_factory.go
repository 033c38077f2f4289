package server

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/preston-bernstein/league-ics/internal/config"
	"github.com/preston-bernstein/league-ics/internal/publish"
)

type publishComponents struct {
	writer *publish.Writer
	store  *publish.Store
	close  func() error
}

// buildPublisher writes to the GCS bucket when one is configured, otherwise to the output directory.
// The store reads back from the same backend the writer publishes to.
func buildPublisher(ctx context.Context, cfg config.Config, logger *slog.Logger) (publishComponents, error) {
	if cfg.Publish.GCSBucket == "" {
		writer := publish.NewFileWriter(cfg.OutputDir, logger)
		return publishComponents{
			writer: writer,
			store:  publish.NewStore(writer.Backend()),
			close:  func() error { return nil },
		}, nil
	}

	writer, closeFn, err := publish.NewGCSWriter(ctx, publish.GCSConfig{
		Bucket:   cfg.Publish.GCSBucket,
		Prefix:   cfg.Publish.GCSPrefix,
		Endpoint: cfg.Publish.GCSEndpoint,
	}, logger)
	if err != nil {
		return publishComponents{}, fmt.Errorf("gcs publisher: %w", err)
	}
	return publishComponents{
		writer: writer,
		store:  publish.NewStore(writer.Backend()),
		close:  closeFn,
	}, nil
}
