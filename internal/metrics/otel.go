package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

const (
	defaultServiceName    = "league-ics"
	defaultScrapePath     = "/metrics"
	defaultExportInterval = 30 * time.Second
)

var (
	promReaderFactory = prometheusComponents
	otlpReaderFactory = buildOTLPReader
	instrumentFactory = newOtelInstruments
)

// TelemetryConfig controls how metrics are exported. The Prometheus handler is
// always built when enabled; OTLP push is added when OtlpEndpoint is set.
type TelemetryConfig struct {
	Enabled        bool
	Port           string
	Path           string
	ServiceName    string
	ServiceVersion string
	OtlpEndpoint   string
	OtlpInsecure   bool
	ExportInterval time.Duration
}

func (c TelemetryConfig) withDefaults() TelemetryConfig {
	if c.ServiceName == "" {
		c.ServiceName = defaultServiceName
	}
	if c.Path == "" {
		c.Path = defaultScrapePath
	}
	if c.ExportInterval <= 0 {
		c.ExportInterval = defaultExportInterval
	}
	return c
}

// Setup builds a meter provider with a Prometheus reader, plus an OTLP reader when
// configured. The returned handler serves the scrape endpoint at cfg.Path.
func Setup(ctx context.Context, cfg TelemetryConfig) (*Recorder, http.Handler, func(context.Context) error, error) {
	if !cfg.Enabled {
		return NewRecorder(), nil, func(context.Context) error { return nil }, nil
	}
	cfg = cfg.withDefaults()

	promReader, promHandler, err := promReaderFactory()
	if err != nil {
		return nil, nil, nil, err
	}
	readers := []sdkmetric.Reader{promReader}
	if cfg.OtlpEndpoint != "" {
		otlpReader, err := otlpReaderFactory(ctx, cfg)
		if err != nil {
			return nil, nil, nil, err
		}
		readers = append(readers, otlpReader)
	}

	attrs := []attribute.KeyValue{semconv.ServiceName(cfg.ServiceName)}
	if cfg.ServiceVersion != "" {
		attrs = append(attrs, semconv.ServiceVersion(cfg.ServiceVersion))
	}
	res, err := resource.New(ctx, resource.WithAttributes(attrs...))
	if err != nil {
		return nil, nil, nil, err
	}

	opts := []sdkmetric.Option{sdkmetric.WithResource(res)}
	for _, r := range readers {
		opts = append(opts, sdkmetric.WithReader(r))
	}
	provider := sdkmetric.NewMeterProvider(opts...)

	inst, err := instrumentFactory(provider)
	if err != nil {
		_ = provider.Shutdown(ctx)
		return nil, nil, nil, err
	}

	mux := http.NewServeMux()
	mux.Handle(cfg.Path, promHandler)
	return newRecorder(inst), mux, provider.Shutdown, nil
}

func prometheusComponents() (sdkmetric.Reader, http.Handler, error) {
	reg := prometheus.NewRegistry()
	exp, err := promexporter.New(promexporter.WithRegisterer(reg))
	if err != nil {
		return nil, nil, err
	}
	return exp, promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}), nil
}

func buildOTLPReader(ctx context.Context, cfg TelemetryConfig) (sdkmetric.Reader, error) {
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.OtlpEndpoint)}
	if cfg.OtlpInsecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	exp, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return sdkmetric.NewPeriodicReader(exp, sdkmetric.WithInterval(cfg.ExportInterval)), nil
}

type otelInstruments struct {
	ctx context.Context

	requests         metric.Int64Counter
	requestLatency   metric.Float64Histogram
	providerAttempts metric.Int64Counter
	providerErrors   metric.Int64Counter
	providerLatency  metric.Float64Histogram
	rateLimitHits    metric.Int64Counter
	retryAfter       metric.Float64Histogram
	runs             metric.Int64Counter
	runErrors        metric.Int64Counter
	runLatency       metric.Float64Histogram
	feedGenerations  metric.Int64Counter
	feedFailures     metric.Int64Counter
	feedWrites       metric.Int64Counter
	feedEvents       metric.Int64Gauge
	recordsDropped   metric.Int64Counter
	duplicateEvents  metric.Int64Counter
}

// instrumentBuilder keeps the first creation error so the constructor reads as a list.
type instrumentBuilder struct {
	meter metric.Meter
	err   error
}

func (b *instrumentBuilder) counter(name, desc string) metric.Int64Counter {
	c, err := b.meter.Int64Counter(name, metric.WithDescription(desc))
	b.keep(err)
	return c
}

func (b *instrumentBuilder) millis(name, desc string) metric.Float64Histogram {
	h, err := b.meter.Float64Histogram(name, metric.WithDescription(desc), metric.WithUnit("ms"))
	b.keep(err)
	return h
}

func (b *instrumentBuilder) gauge(name, desc string) metric.Int64Gauge {
	g, err := b.meter.Int64Gauge(name, metric.WithDescription(desc))
	b.keep(err)
	return g
}

func (b *instrumentBuilder) keep(err error) {
	if b.err == nil {
		b.err = err
	}
}

func newOtelInstruments(provider metric.MeterProvider) (*otelInstruments, error) {
	b := &instrumentBuilder{meter: provider.Meter(defaultServiceName)}
	inst := &otelInstruments{
		ctx:              context.Background(),
		requests:         b.counter("http_requests_total", "HTTP requests served"),
		requestLatency:   b.millis("http_request_duration_ms", "HTTP request latency"),
		providerAttempts: b.counter("provider_attempts_total", "Upstream schedule fetch attempts"),
		providerErrors:   b.counter("provider_errors_total", "Failed upstream schedule fetch attempts"),
		providerLatency:  b.millis("provider_duration_ms", "Upstream schedule fetch latency"),
		rateLimitHits:    b.counter("provider_rate_limit_hits_total", "Upstream 429 responses"),
		retryAfter:       b.millis("provider_retry_after_ms", "Retry-After advertised by upstream"),
		runs:             b.counter("feed_runs_total", "Generation runs"),
		runErrors:        b.counter("feed_run_errors_total", "Generation runs with at least one failed team"),
		runLatency:       b.millis("feed_run_duration_ms", "Generation run wall time"),
		feedGenerations:  b.counter("feed_generations_total", "Per-team feed generations"),
		feedFailures:     b.counter("feed_failures_total", "Per-team feed failures"),
		feedWrites:       b.counter("feed_writes_total", "Feeds whose published bytes changed"),
		feedEvents:       b.gauge("feed_events", "Events in the latest generated feed"),
		recordsDropped:   b.counter("feed_records_dropped_total", "Upstream records dropped as unusable"),
		duplicateEvents:  b.counter("feed_duplicate_events_total", "Events collapsed by duplicate UID"),
	}
	if b.err != nil {
		return nil, b.err
	}
	return inst, nil
}

// The record methods below are no-ops on a nil receiver.
func (o *otelInstruments) recordHTTPRequest(method, path string, status int, duration time.Duration) {
	if o == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String(AttrMethod, method),
		attribute.String(AttrPath, path),
		attribute.Int(AttrStatus, status),
	)
	o.requests.Add(o.ctx, 1, attrs)
	o.requestLatency.Record(o.ctx, millis(duration), attrs)
}

func (o *otelInstruments) recordProviderAttempt(provider string, duration time.Duration, err error) {
	if o == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String(AttrProvider, provider))
	o.providerAttempts.Add(o.ctx, 1, attrs)
	o.providerLatency.Record(o.ctx, millis(duration), attrs)
	if err != nil {
		o.providerErrors.Add(o.ctx, 1, attrs)
	}
}

func (o *otelInstruments) recordRateLimit(provider string, retryAfter time.Duration) {
	if o == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String(AttrProvider, provider))
	o.rateLimitHits.Add(o.ctx, 1, attrs)
	if retryAfter > 0 {
		o.retryAfter.Record(o.ctx, millis(retryAfter), attrs)
	}
}

func (o *otelInstruments) recordRun(duration time.Duration, err error) {
	if o == nil {
		return
	}
	o.runs.Add(o.ctx, 1)
	o.runLatency.Record(o.ctx, millis(duration))
	if err != nil {
		o.runErrors.Add(o.ctx, 1)
	}
}

func (o *otelInstruments) recordFeed(slug string, res FeedResult) {
	if o == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String(AttrSlug, slug))
	o.feedGenerations.Add(o.ctx, 1, attrs)
	if res.Err != nil {
		o.feedFailures.Add(o.ctx, 1, attrs)
		return
	}
	o.feedEvents.Record(o.ctx, int64(res.Events), attrs)
	if res.Changed {
		o.feedWrites.Add(o.ctx, 1, attrs)
	}
	if res.Dropped > 0 {
		o.recordsDropped.Add(o.ctx, int64(res.Dropped), attrs)
	}
	if res.Duplicates > 0 {
		o.duplicateEvents.Add(o.ctx, int64(res.Duplicates), attrs)
	}
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
