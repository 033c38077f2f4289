package config

import "time"

// EnvConfigFile names the variable that points Load at a feeds file.
const EnvConfigFile = envConfigFile

const (
	envConfigFile       = "CONFIG_FILE"
	envOutputDir        = "OUTPUT_DIR"
	envDefaultTimezone  = "DEFAULT_TIMEZONE"
	envGameDuration     = "GAME_DURATION"
	envPort             = "PORT"
	envPollInterval     = "POLL_INTERVAL"
	envMaxParallelTeams = "MAX_PARALLEL_TEAMS"
	envFetchTimeout     = "FETCH_TIMEOUT"
	envFetchRetries     = "FETCH_RETRIES"
	envFetchBackoff     = "FETCH_BACKOFF"
	envFetchMinInterval = "FETCH_MIN_INTERVAL"
	envFetchUserAgent   = "FETCH_USER_AGENT"
	envMetricsPort      = "METRICS_PORT"
	envMetricsOn        = "METRICS_ENABLED"
	envOtelEndpoint     = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOtelService      = "OTEL_SERVICE_NAME"
	envOtelInsecure     = "OTEL_EXPORTER_OTLP_INSECURE"
	envOtelInterval     = "OTEL_METRIC_EXPORT_INTERVAL"
	envMetricsPath      = "METRICS_PATH"
	envAdminToken       = "ADMIN_TOKEN"
	envGCSBucket        = "PUBLISH_GCS_BUCKET"
	envGCSPrefix        = "PUBLISH_GCS_PREFIX"
	envGCSEndpoint      = "PUBLISH_GCS_ENDPOINT"

	defaultConfigFile     = "config.yaml"
	defaultOutputDir      = "docs"
	defaultTimezone       = "America/New_York"
	defaultGameDuration   = Duration(time.Hour)
	defaultPort           = "4000"
	defaultMaxParallel    = 4
	defaultFetchTimeout   = 30 * Duration(time.Second)
	defaultFetchRetries   = 3
	defaultFetchBackoff   = 500 * Duration(time.Millisecond)
	defaultMetricsPort    = "9090"
	defaultMetricsService = "league-ics"
	defaultMetricsPath    = "/metrics"
	defaultExportInterval = 30 * Duration(time.Second)
	// Upstream schedules change a few times a day; hourly keeps scores fresh without hammering the API.
	defaultPollInterval = Duration(time.Hour)
)
