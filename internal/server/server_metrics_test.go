package server

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/preston-bernstein/league-ics/internal/config"
	"github.com/preston-bernstein/league-ics/internal/metrics"
	"github.com/preston-bernstein/league-ics/internal/testutil"
)

func TestNewServerWithMetricsHandlesSetupFailure(t *testing.T) {
	origSetup := metricsSetup
	defer func() { metricsSetup = origSetup }()

	metricsSetup = func(ctx context.Context, cfg metrics.TelemetryConfig) (*metrics.Recorder, http.Handler, func(context.Context) error, error) {
		return nil, nil, nil, errors.New("fail")
	}

	cfg := config.Config{
		OutputDir: t.TempDir(),
		Metrics:   config.MetricsConfig{Enabled: true},
	}

	srv, err := newServerWithMetrics(context.Background(), cfg, nil, &testutil.FixedProvider{}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if srv.metrics == nil {
		t.Fatalf("expected fallback metrics recorder even on setup failure")
	}
	if srv.metricsServer != nil {
		t.Fatalf("expected no metrics server after setup failure")
	}
}

func TestNewServerWithMetricsDisabledSkipsSetup(t *testing.T) {
	cfg := config.Config{
		OutputDir: t.TempDir(),
		Metrics:   config.MetricsConfig{Enabled: false},
	}

	srv, err := newServerWithMetrics(context.Background(), cfg, nil, &testutil.FixedProvider{}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if srv.metrics == nil {
		t.Fatalf("expected recorder to be set even when metrics disabled")
	}
}

func TestNewServerWithMetricsUsesInjectedRecorder(t *testing.T) {
	rec, shutdown := testutil.NewRecorderWithShutdown()
	cfg := config.Config{
		OutputDir: t.TempDir(),
		Metrics:   config.MetricsConfig{Enabled: true},
		Teams:     []config.TeamConfig{testutil.SampleTeam("skinners", "https://league.example.test")},
	}

	srv, err := newServerWithMetrics(context.Background(), cfg, nil, &testutil.FixedProvider{}, rec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if srv.metrics != rec {
		t.Fatalf("expected injected recorder to be used")
	}
	if _, err := srv.Service().Run(context.Background()); err != nil {
		t.Fatalf("unexpected run error: %v", err)
	}
	if snap := rec.FeedSnapshot("skinners"); snap.Runs != 1 || snap.Writes != 1 {
		t.Fatalf("expected feed metrics on injected recorder, got %+v", snap)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("expected injected shutdown to succeed, got %v", err)
	}
}

func TestBuildMetricsStartsScrapeListenerOnSuccess(t *testing.T) {
	orig := metricsSetup
	defer func() { metricsSetup = orig }()

	var got metrics.TelemetryConfig
	metricsSetup = func(ctx context.Context, cfg metrics.TelemetryConfig) (*metrics.Recorder, http.Handler, func(context.Context) error, error) {
		got = cfg
		return metrics.NewRecorder(), http.NewServeMux(), func(context.Context) error { return nil }, nil
	}

	rec, srv, stop := buildMetrics(config.Config{
		Metrics: config.MetricsConfig{
			Enabled:        true,
			Port:           "9999",
			Path:           "/scrape",
			ServiceVersion: "v1",
		},
	}, nil, nil)

	if rec == nil || srv == nil || stop == nil {
		t.Fatalf("expected recorder, server, and shutdown to be set on success")
	}
	if srv.Addr() != ":9999" {
		t.Fatalf("expected metrics listener on :9999, got %s", srv.Addr())
	}
	if got.Path != "/scrape" || got.ServiceVersion != "v1" {
		t.Fatalf("expected metrics settings forwarded, got %+v", got)
	}
}
