package metrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

func TestSetupDisabledReturnsPlainRecorder(t *testing.T) {
	rec, handler, shutdown, err := Setup(context.Background(), TelemetryConfig{Enabled: false})
	if err != nil {
		t.Fatalf("expected no error when disabled, got %v", err)
	}
	if rec == nil || handler != nil || shutdown == nil {
		t.Fatalf("expected recorder and shutdown without handler, got rec=%v handler=%v", rec, handler)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("expected no-op shutdown, got %v", err)
	}
}

func TestSetupServesFeedMetricsAtScrapePath(t *testing.T) {
	rec, handler, shutdown, err := Setup(context.Background(), TelemetryConfig{
		Enabled:        true,
		ServiceVersion: "test",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	defer func() { _ = shutdown(context.Background()) }()

	rec.RecordHTTPRequest(http.MethodGet, "/feeds/:slug.ics", http.StatusOK, time.Millisecond)
	rec.RecordRun(time.Millisecond, nil)
	rec.RecordRun(time.Millisecond, errors.New("partial"))
	rec.RecordProviderAttempt("bondsports", time.Millisecond, nil)
	rec.RecordRateLimit("bondsports", time.Second)
	rec.RecordFeed("skinners", FeedResult{Events: 3, Dropped: 1, Duplicates: 1, Changed: true})
	rec.RecordFeed("skinners", FeedResult{Err: errors.New("no data")})

	if snap := rec.FeedSnapshot("skinners"); snap.Runs != 2 || snap.Failures != 1 || snap.Events != 3 {
		t.Fatalf("unexpected feed snapshot %+v", snap)
	}

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, defaultScrapePath, nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected scrape to succeed, got %d", rr.Code)
	}
	body := rr.Body.String()
	for _, name := range []string{"feed_writes_total", "feed_records_dropped_total", "provider_rate_limit_hits_total"} {
		if !strings.Contains(body, name) {
			t.Fatalf("expected %s in scrape output", name)
		}
	}

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/elsewhere", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 outside the scrape path, got %d", rr.Code)
	}
}

func TestSetupPropagatesReaderFailures(t *testing.T) {
	origProm, origOTLP := promReaderFactory, otlpReaderFactory
	defer func() { promReaderFactory, otlpReaderFactory = origProm, origOTLP }()

	promReaderFactory = func() (sdkmetric.Reader, http.Handler, error) {
		return nil, nil, errors.New("registry")
	}
	if _, _, _, err := Setup(context.Background(), TelemetryConfig{Enabled: true}); err == nil {
		t.Fatal("expected prometheus reader error")
	}

	promReaderFactory = origProm
	var gotInterval time.Duration
	otlpReaderFactory = func(ctx context.Context, cfg TelemetryConfig) (sdkmetric.Reader, error) {
		gotInterval = cfg.ExportInterval
		return nil, errors.New("otlp")
	}
	if _, _, _, err := Setup(context.Background(), TelemetryConfig{Enabled: true, OtlpEndpoint: "collector:4318"}); err == nil {
		t.Fatal("expected otlp reader error")
	}
	if gotInterval != defaultExportInterval {
		t.Fatalf("expected default export interval, got %s", gotInterval)
	}
}

func TestTelemetryConfigDefaults(t *testing.T) {
	cfg := TelemetryConfig{}.withDefaults()
	if cfg.ServiceName != defaultServiceName || cfg.Path != defaultScrapePath || cfg.ExportInterval != defaultExportInterval {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	custom := TelemetryConfig{ServiceName: "svc", Path: "/m", ExportInterval: time.Second}.withDefaults()
	if custom.ServiceName != "svc" || custom.Path != "/m" || custom.ExportInterval != time.Second {
		t.Fatalf("expected explicit values kept, got %+v", custom)
	}
}
