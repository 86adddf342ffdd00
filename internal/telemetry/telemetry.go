// Package telemetry is the structured error-reporting sink.
//
// Unexpected failures are reported here with a feature tag, an operation tag,
// and non-sensitive extras (ids and lengths, never field contents). Reporting
// is fire-and-forget: it never changes the outcome of the operation that
// reported it.
package telemetry

import (
	"context"
	"log/slog"

	"github.com/oklog/ulid/v2"
)

// Sink emits telemetry events through the process logger.
type Sink struct {
	logger *slog.Logger
}

// NewSink creates a Sink. A nil logger falls back to slog.Default.
func NewSink(logger *slog.Logger) *Sink {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sink{logger: logger}
}

// Warn reports a degraded-mode failure (the operation still succeeded).
func (s *Sink) Warn(ctx context.Context, feature, operation string, err error, extras ...any) {
	s.emit(ctx, slog.LevelWarn, feature, operation, err, extras)
}

// Error reports an unexpected failure surfaced to the caller as a generic error.
func (s *Sink) Error(ctx context.Context, feature, operation string, err error, extras ...any) {
	s.emit(ctx, slog.LevelError, feature, operation, err, extras)
}

func (s *Sink) emit(ctx context.Context, level slog.Level, feature, operation string, err error, extras []any) {
	attrs := []any{
		"event_id", ulid.Make().String(),
		"feature", feature,
		"operation", operation,
	}
	if err != nil {
		attrs = append(attrs, "error", err.Error())
	}
	attrs = append(attrs, extras...)

	s.logger.Log(ctx, level, "telemetry event", attrs...)
}
