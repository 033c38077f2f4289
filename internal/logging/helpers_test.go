package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestHelpersIgnoreNilLogger(t *testing.T) {
	Info(nil, "ignored")
	Warn(nil, "ignored", FieldSlug, "skinners")
	Error(nil, "ignored", errors.New("boom"))
}

func TestErrorAttachesErrorField(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	Error(logger, "publish failed", errors.New("disk full"), FieldSlug, "skinners")
	out := buf.String()
	if !strings.Contains(out, "level=ERROR") || !strings.Contains(out, `error="disk full"`) || !strings.Contains(out, "slug=skinners") {
		t.Fatalf("unexpected log line %q", out)
	}

	buf.Reset()
	Error(logger, "no cause", nil)
	if strings.Contains(buf.String(), "error=") {
		t.Fatalf("expected no error field for nil error, got %q", buf.String())
	}
}

func TestWarnAndInfoLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))

	Info(logger, "hidden")
	Warn(logger, "shown")
	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "level=WARN") {
		t.Fatalf("unexpected output %q", out)
	}
}
