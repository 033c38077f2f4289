package config

// MetricsConfig controls telemetry export. The Prometheus scrape endpoint runs on
// its own port; OTLP push is enabled by setting an endpoint.
type MetricsConfig struct {
	Enabled        bool
	Port           string
	Path           string
	OtlpEndpoint   string
	ServiceName    string
	// ServiceVersion is stamped by the binary, not read from the environment.
	ServiceVersion string
	OtlpInsecure   bool
	ExportInterval Duration
}

func loadMetrics() MetricsConfig {
	return MetricsConfig{
		Enabled:        envBool(envMetricsOn, true),
		Port:           envString(envMetricsPort, defaultMetricsPort),
		Path:           envString(envMetricsPath, defaultMetricsPath),
		OtlpEndpoint:   envString(envOtelEndpoint, ""),
		ServiceName:    envString(envOtelService, defaultMetricsService),
		OtlpInsecure:   envBool(envOtelInsecure, true),
		ExportInterval: envDuration(envOtelInterval, defaultExportInterval),
	}
}
