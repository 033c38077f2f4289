package logging

import (
	"context"
	"log/slog"
)

// Info logs at info level; a nil logger discards the entry.
func Info(logger *slog.Logger, msg string, args ...any) {
	log(logger, slog.LevelInfo, msg, args)
}

// Warn logs at warn level; a nil logger discards the entry.
func Warn(logger *slog.Logger, msg string, args ...any) {
	log(logger, slog.LevelWarn, msg, args)
}

// Error logs at error level with err attached under FieldError.
func Error(logger *slog.Logger, msg string, err error, args ...any) {
	if err != nil {
		args = append(args, slog.Any(FieldError, err))
	}
	log(logger, slog.LevelError, msg, args)
}

func log(logger *slog.Logger, level slog.Level, msg string, args []any) {
	if logger == nil {
		return
	}
	logger.Log(context.Background(), level, msg, args...)
}
