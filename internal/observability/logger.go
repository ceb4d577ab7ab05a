package observability

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

type ctxKey string

const ctxKeyRequestID ctxKey = "request_id"

var logger = log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})

// Setup configures the process-wide logger. format is "json", "logfmt" or
// "text"; an unknown level falls back to info.
func Setup(w io.Writer, level, format string) *log.Logger {
	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		lvl = log.InfoLevel
	}

	opts := log.Options{ReportTimestamp: true, Level: lvl}
	switch strings.ToLower(format) {
	case "json":
		opts.Formatter = log.JSONFormatter
	case "logfmt":
		opts.Formatter = log.LogfmtFormatter
	default:
		opts.Formatter = log.TextFormatter
	}

	logger = log.NewWithOptions(w, opts)
	log.SetDefault(logger)
	return logger
}

func Logger() *log.Logger {
	return logger
}

// WithRequestID stores a request_id in the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxKeyRequestID, requestID)
}

// RequestID returns the request_id stored in ctx, if any.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKeyRequestID).(string)
	return id
}

// FromContext adds request_id if present.
func FromContext(ctx context.Context) *log.Logger {
	if id := RequestID(ctx); id != "" {
		return logger.With("request_id", id)
	}
	return logger
}
