package config

// FetchConfig tunes upstream schedule requests.
type FetchConfig struct {
	Timeout     Duration
	MaxAttempts int
	Backoff     Duration
	// MinInterval spaces consecutive upstream calls; zero disables spacing.
	MinInterval Duration
	UserAgent   string
}

func loadFetch() FetchConfig {
	return FetchConfig{
		Timeout:     envDuration(envFetchTimeout, defaultFetchTimeout),
		MaxAttempts: envInt(envFetchRetries, defaultFetchRetries),
		Backoff:     envDuration(envFetchBackoff, defaultFetchBackoff),
		MinInterval: envDuration(envFetchMinInterval, 0),
		UserAgent:   envString(envFetchUserAgent, ""),
	}
}
