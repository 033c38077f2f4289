package logging

import "log/slog"

// Structured log keys shared by the service, the generator and the HTTP layer.
const (
	FieldService    = "service"
	FieldVersion    = "version"
	FieldError      = "error"
	FieldProvider   = "provider"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldPath       = "path"
	FieldMethod     = "method"
	FieldStatusCode = "status_code"
	FieldTeam       = "team"
	FieldSlug       = "slug"
	FieldURL        = "url"
	FieldUID        = "uid"
	FieldCount      = "count"
	FieldDropped    = "dropped"
	FieldDuplicates = "duplicates"
	FieldChanged    = "changed"
	FieldDurationMS = "duration_ms"
)

// WithCommon tags every record with the build identity; empty values are omitted.
func WithCommon(attrs []slog.Attr, service, version string) []slog.Attr {
	for _, a := range []slog.Attr{slog.String(FieldService, service), slog.String(FieldVersion, version)} {
		if a.Value.String() != "" {
			attrs = append(attrs, a)
		}
	}
	return attrs
}

// TeamAttrs identifies one team's feed in log records.
func TeamAttrs(slug, name string) []any {
	return []any{slog.String(FieldSlug, slug), slog.String(FieldTeam, name)}
}
