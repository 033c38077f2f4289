package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Duration wraps time.Duration for clearer type usage in Config.
type Duration = time.Duration

// envValue reads key and converts it with parse. Unset, blank or unparsable values
// yield fallback.
func envValue[T any](key string, fallback T, parse func(string) (T, bool)) T {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	if v, ok := parse(raw); ok {
		return v
	}
	return fallback
}

func envString(key, fallback string) string {
	return envValue(key, fallback, func(raw string) (string, bool) { return raw, true })
}

// envDuration accepts Go duration strings; non-positive values fall back.
func envDuration(key string, fallback time.Duration) time.Duration {
	return envValue(key, fallback, parsePositiveDuration)
}

// envInt accepts positive integers only.
func envInt(key string, fallback int) int {
	return envValue(key, fallback, func(raw string) (int, bool) {
		v, err := strconv.Atoi(raw)
		return v, err == nil && v > 0
	})
}

func envBool(key string, fallback bool) bool {
	return envValue(key, fallback, func(raw string) (bool, bool) {
		switch strings.ToLower(raw) {
		case "1", "true", "yes", "on":
			return true, true
		case "0", "false", "no", "off":
			return false, true
		}
		return false, false
	})
}
