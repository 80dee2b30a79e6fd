package colblock

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with colblock-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.DiscardHandler)
}

// WithCodec adds the configured codec as a field to every record.
func (l *Logger) WithCodec(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("codec", name),
	}
}

// LogSerialize logs the serialization of a page.
func (l *Logger) LogSerialize(ctx context.Context, sp *SerializedPage, err error) {
	if err != nil {
		l.ErrorContext(ctx, "page serialization failed",
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "page serialized",
		"positions", sp.PositionCount,
		"channels", sp.ChannelCount,
		"payload_codec", sp.Codec,
		"uncompressed_bytes", sp.UncompressedSize,
		"stored_bytes", len(sp.Payload),
	)
}

// LogDeserialize logs the deserialization of a page.
func (l *Logger) LogDeserialize(ctx context.Context, sp *SerializedPage, err error) {
	if err != nil {
		l.ErrorContext(ctx, "page deserialization failed",
			"positions", sp.PositionCount,
			"channels", sp.ChannelCount,
			"payload_codec", sp.Codec,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "page deserialized",
		"positions", sp.PositionCount,
		"channels", sp.ChannelCount,
	)
}

// LogStreamClosed logs the end of a page stream.
func (l *Logger) LogStreamClosed(ctx context.Context, pages int, err error) {
	if err != nil {
		l.WarnContext(ctx, "page stream closed with error",
			"pages", pages,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "page stream closed",
		"pages", pages,
	)
}
