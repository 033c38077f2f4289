package server

import (
	"fmt"
	"strings"

	"github.com/preston-bernstein/league-ics/internal/providers"
)

// normalizeProviderName returns a lower-cased provider name, preferring the provider's own Name.
// Used across server wiring and the provider factory to keep naming consistent in metrics/logs.
func normalizeProviderName(provider providers.ScheduleProvider) string {
	if named, ok := provider.(interface{ Name() string }); ok && named.Name() != "" {
		return strings.ToLower(named.Name())
	}
	if provider != nil {
		return strings.ToLower(fmt.Sprintf("%T", provider))
	}
	return "provider"
}
