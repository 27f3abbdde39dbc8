// Package logger is the process-wide zerolog logger. Events built from a
// context carry the request id and the active span.
package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"
)

// Logger is replaced by Init. The default writes JSON to stdout.
var Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

type requestIDKey struct{}

// Init points the global logger at stdout.
func Init(serviceName string, isDevelopment bool) {
	InitWithWriter(serviceName, isDevelopment, os.Stdout)
}

// InitWithWriter builds the global logger on out, tagged with serviceName.
// Development mode renders human readable console lines instead of JSON.
func InitWithWriter(serviceName string, isDevelopment bool, out io.Writer) {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	if isDevelopment {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	}

	Logger = zerolog.New(out).With().Timestamp().Str("service", serviceName).Logger()
	log.Logger = Logger
}

// ContextWithRequestID stores id so later log events on ctx include it.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the id stored by ContextWithRequestID, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// WithContext returns the global logger enriched with request_id, trace_id
// and span_id when ctx has them.
func WithContext(ctx context.Context) *zerolog.Logger {
	fields := Logger.With()
	if id := RequestID(ctx); id != "" {
		fields = fields.Str("request_id", id)
	}
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		fields = fields.
			Str("trace_id", sc.TraceID().String()).
			Str("span_id", sc.SpanID().String())
	}

	l := fields.Logger()
	return &l
}

func Debug(ctx context.Context) *zerolog.Event { return at(ctx, zerolog.DebugLevel) }
func Info(ctx context.Context) *zerolog.Event  { return at(ctx, zerolog.InfoLevel) }
func Warn(ctx context.Context) *zerolog.Event  { return at(ctx, zerolog.WarnLevel) }
func Error(ctx context.Context) *zerolog.Event { return at(ctx, zerolog.ErrorLevel) }

func at(ctx context.Context, level zerolog.Level) *zerolog.Event {
	return WithContext(ctx).WithLevel(level)
}

// SetLevel applies a zerolog level name ("debug", "warn", "disabled", ...)
// globally and returns the level in effect. Empty or unknown names mean info.
func SetLevel(name string) zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	return level
}
