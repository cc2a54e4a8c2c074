package telemetry

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// SetupLogging installs the default slog logger on w, configured from
// LOG_LEVEL (debug|info|warn|error, default info) and LOG_FORMAT (text|json,
// default text). fallback is the level used when LOG_LEVEL is unset.
func SetupLogging(w io.Writer, fallback slog.Level) slog.Level {
	lvl := fallback
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	case "":
		// keep fallback
	default:
		// unknown level -> keep fallback but note once using temporary logger
		tmp := slog.New(slog.NewTextHandler(w, nil))
		tmp.Warn("unknown LOG_LEVEL, using default", slog.String("value", os.Getenv("LOG_LEVEL")), slog.String("level", fallback.String()))
	}

	var handler slog.Handler
	switch strings.ToLower(os.Getenv("LOG_FORMAT")) {
	case "json":
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})
	default:
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})
	}
	slog.SetDefault(slog.New(handler))
	return lvl
}
