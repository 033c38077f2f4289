package bondsports

import "time"

const (
	providerName       = "bondsports"
	defaultHTTPTimeout = 30 * time.Second
	defaultUserAgent   = "league-ics/1.0"
	maxErrorBody       = 512
	maxScheduleBytes   = 16 << 20
)
