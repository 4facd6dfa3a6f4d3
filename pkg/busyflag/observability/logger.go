// Package observability provides the diagnostic surface for busyflag:
// structured warning logs, metrics, and operation tracing.
//
// Features:
//   - Warning logs via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// Warnings are a side channel: they accompany strict-mode errors but are
// never the only signal. Metrics and tracing are opt-in and have no-op
// implementations when disabled.
package observability

import "log/slog"

// LogDuplicateAdd warns that Add was called for a key that is already
// registered. The registry state is unchanged when this fires.
func LogDuplicateAdd(logger *slog.Logger, key string, current any) {
	if logger == nil {
		return
	}
	logger.Warn("flag already registered",
		slog.String("key", key),
		slog.Any("current_value", current),
	)
}

// LogUnregistered warns that an operation targeted a key absent from the
// registry while strict mode was enabled. In strict mode this warning is
// always followed by an UnregisteredKeyError from the operation itself.
func LogUnregistered(logger *slog.Logger, op, key string) {
	if logger == nil {
		return
	}
	logger.Warn("flag not registered",
		slog.String("op", op),
		slog.String("key", key),
	)
}

// LogAutoRegister warns that a strict-mode read auto-registered an absent
// key with its fallback value.
func LogAutoRegister(logger *slog.Logger, key string, fallback any) {
	if logger == nil {
		return
	}
	logger.Warn("flag auto-registered on read",
		slog.String("key", key),
		slog.Any("fallback", fallback),
	)
}
