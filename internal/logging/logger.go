// Package logging defines the structured logger used throughout the client.
// The concrete implementation wraps log/slog; services depend only on the
// interface so tests can swap in a silent logger.
package logging

import "context"

// Logger is a context-aware structured logger. Variadic args are key-value
// pairs, as in:
//
//	log.Info(ctx, "sync complete", "synced", n, "abandoned", m)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always carries the given pairs.
	With(args ...any) Logger
}
