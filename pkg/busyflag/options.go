package busyflag

import (
	"log/slog"

	"github.com/randalmurphal/busyflag/pkg/busyflag/observability"
)

// settings holds configuration applied by New and Configure.
type settings struct {
	strict  bool
	create  bool
	initial map[string]any

	logger  *slog.Logger
	metrics observability.MetricsRecorder
	spans   observability.SpanManager
}

// defaultSettings returns the mode defaults: non-strict, create-on-access
// enabled, no initial entries.
func defaultSettings() settings {
	return settings{
		strict: false,
		create: true,
	}
}

// Option configures a Manager. Options are accepted by both New and
// Configure; Configure applies mode options against the defaults, so an
// omitted option resets that mode to its default.
type Option func(*settings)

// WithStrict controls strict mode. When enabled, Remove, Set, Hold and
// (without create-on-access) Get fail on unregistered keys.
// Default: false.
func WithStrict(strict bool) Option {
	return func(s *settings) {
		s.strict = strict
	}
}

// WithCreateOnAccess controls whether a strict-mode Get of an unregistered
// key registers it with the fallback value instead of failing.
// Has no effect outside strict mode. Default: true.
func WithCreateOnAccess(create bool) Option {
	return func(s *settings) {
		s.create = create
	}
}

// WithInitialEntries pre-populates the registry. The map is copied, so the
// caller may reuse it.
//
// Example:
//
//	m := busyflag.New(busyflag.WithInitialEntries(map[string]any{
//	    "sync": false,
//	    "save": false,
//	}))
func WithInitialEntries(entries map[string]any) Option {
	return func(s *settings) {
		s.initial = entries
	}
}

// WithLogger sets the logger used for diagnostic warnings.
// Default: slog.Default(). Pass nil to silence warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

// WithMetrics sets the metrics recorder for registry activity.
// Default: observability.NoopMetrics{}.
func WithMetrics(metrics observability.MetricsRecorder) Option {
	return func(s *settings) {
		s.metrics = metrics
	}
}

// WithSpans sets the span manager used to trace operations.
// Default: observability.NoopSpanManager{}.
func WithSpans(spans observability.SpanManager) Option {
	return func(s *settings) {
		s.spans = spans
	}
}
