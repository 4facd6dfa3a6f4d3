package busyflag

import (
	"context"
	"log/slog"
	"sync"

	"github.com/randalmurphal/busyflag/pkg/busyflag/observability"
)

// Manager is a thread-safe registry of named busy flags.
// It uses sync.RWMutex for optimal read-heavy workloads.
//
// A key is registered iff it is present in the registry, regardless of its
// value. Presence with a falsy value is distinct from absence; only absence
// triggers unregistered-key handling.
type Manager struct {
	mu      sync.RWMutex
	entries map[string]any
	holds   map[string]map[string]struct{}
	strict  bool
	create  bool

	logger  *slog.Logger
	metrics observability.MetricsRecorder
	spans   observability.SpanManager
}

// New creates a Manager. Without options the registry is empty, strict mode
// is off and create-on-access is on.
func New(opts ...Option) *Manager {
	s := defaultSettings()
	s.logger = slog.Default()
	s.metrics = observability.NoopMetrics{}
	s.spans = observability.NoopSpanManager{}
	for _, opt := range opts {
		opt(&s)
	}

	m := &Manager{}
	m.apply(s)
	return m
}

// apply installs settings, replacing all entry and hold state.
// Callers must not hold m.mu.
func (m *Manager) apply(s settings) {
	entries := make(map[string]any, len(s.initial))
	for k, v := range s.initial {
		entries[k] = v
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = entries
	m.holds = make(map[string]map[string]struct{})
	m.strict = s.strict
	m.create = s.create
	m.logger = s.logger
	m.metrics = s.metrics
	m.spans = s.spans
}

// wiring returns the current diagnostic hookup under the read lock, so
// operations see a consistent set even while Configure swaps it.
func (m *Manager) wiring() (*slog.Logger, observability.MetricsRecorder, observability.SpanManager) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.logger, m.metrics, m.spans
}

// Configure resets the Manager: entries are wholesale replaced with the
// initial entries from the options (or empty), hold counts are cleared, and
// the modes are re-derived from the options with the same defaults as New.
// Prior entries are discarded; this is a full reset, not a merge.
//
// Logger, metrics and span wiring persist across Configure unless explicitly
// overridden by an option. Configure never fails.
func (m *Manager) Configure(opts ...Option) {
	s := defaultSettings()
	s.logger, s.metrics, s.spans = m.wiring()
	for _, opt := range opts {
		opt(&s)
	}

	m.apply(s)

	ctx := context.Background()
	s.metrics.RecordOperation(ctx, "configure", nil)
	s.metrics.RecordFlagCount(ctx, len(s.initial))
}

// Add registers key only if it is not already present. The optional initial
// value defaults to false.
//
// Adding an existing key never fails and never changes state; it emits a
// duplicate-registration warning carrying the current value.
func (m *Manager) Add(key string, initial ...any) {
	value := firstOr(initial, false)
	logger, metrics, spans := m.wiring()

	ctx := context.Background()
	ctx, span := spans.StartOpSpan(ctx, "add", key)
	defer spans.EndSpanWithError(span, nil)

	m.mu.Lock()
	current, exists := m.entries[key]
	if !exists {
		m.entries[key] = value
	}
	size := len(m.entries)
	m.mu.Unlock()

	if exists {
		observability.LogDuplicateAdd(logger, key, current)
		metrics.RecordWarning(ctx, "duplicate_add")
	}
	metrics.RecordOperation(ctx, "add", nil)
	metrics.RecordFlagCount(ctx, size)
}

// Remove deletes key from the registry.
//
// In strict mode, removing an unregistered key emits a warning and returns
// an UnregisteredKeyError. Outside strict mode it is a no-op. Removing a
// present key always succeeds and clears any holds on it.
func (m *Manager) Remove(key string) error {
	logger, metrics, spans := m.wiring()

	ctx := context.Background()
	ctx, span := spans.StartOpSpan(ctx, "remove", key)

	m.mu.Lock()
	_, exists := m.entries[key]
	if exists {
		delete(m.entries, key)
		delete(m.holds, key)
	}
	strict := m.strict
	size := len(m.entries)
	m.mu.Unlock()

	var err error
	if !exists && strict {
		observability.LogUnregistered(logger, "remove", key)
		metrics.RecordWarning(ctx, "unregistered")
		err = &UnregisteredKeyError{Key: key, Op: "remove"}
	}

	metrics.RecordOperation(ctx, "remove", err)
	metrics.RecordFlagCount(ctx, size)
	spans.EndSpanWithError(span, err)
	return err
}

// Set assigns a value to key. The optional value defaults to true.
//
// In strict mode, setting an unregistered key emits a warning and returns an
// UnregisteredKeyError without assigning. Outside strict mode, Set on an
// absent key registers it implicitly.
func (m *Manager) Set(key string, value ...any) error {
	v := firstOr(value, true)
	logger, metrics, spans := m.wiring()

	ctx := context.Background()
	ctx, span := spans.StartOpSpan(ctx, "set", key)

	m.mu.Lock()
	_, exists := m.entries[key]
	strict := m.strict
	if exists || !strict {
		m.entries[key] = v
	}
	size := len(m.entries)
	m.mu.Unlock()

	var err error
	if !exists && strict {
		observability.LogUnregistered(logger, "set", key)
		metrics.RecordWarning(ctx, "unregistered")
		err = &UnregisteredKeyError{Key: key, Op: "set"}
	}

	metrics.RecordOperation(ctx, "set", err)
	metrics.RecordFlagCount(ctx, size)
	spans.EndSpanWithError(span, err)
	return err
}

// Get returns the value stored for key. The optional fallback defaults to
// false.
//
// A present key returns its stored value, except that a stored nil reads as
// false: the registry never hands back an absent-value sentinel for a
// registered flag.
//
// An absent key behaves by mode:
//   - non-strict: returns false without touching state
//   - strict with create-on-access: registers key with the fallback, emits
//     an auto-register warning, returns the fallback
//   - strict without create-on-access: emits a warning and returns an
//     UnregisteredKeyError
func (m *Manager) Get(key string, fallback ...any) (any, error) {
	fb := firstOr(fallback, false)
	logger, metrics, spans := m.wiring()

	ctx := context.Background()
	ctx, span := spans.StartOpSpan(ctx, "get", key)

	m.mu.RLock()
	v, exists := m.entries[key]
	strict := m.strict
	create := m.create
	m.mu.RUnlock()

	if exists {
		if v == nil {
			v = false
		}
		metrics.RecordOperation(ctx, "get", nil)
		spans.EndSpanWithError(span, nil)
		return v, nil
	}

	if !strict {
		metrics.RecordOperation(ctx, "get", nil)
		spans.EndSpanWithError(span, nil)
		return false, nil
	}

	if create {
		m.mu.Lock()
		// Double-check after acquiring the write lock; another goroutine
		// may have registered the key in the meantime.
		if cur, ok := m.entries[key]; ok {
			m.mu.Unlock()
			if cur == nil {
				cur = false
			}
			metrics.RecordOperation(ctx, "get", nil)
			spans.EndSpanWithError(span, nil)
			return cur, nil
		}
		m.entries[key] = fb
		size := len(m.entries)
		m.mu.Unlock()

		observability.LogAutoRegister(logger, key, fb)
		metrics.RecordWarning(ctx, "auto_register")
		metrics.RecordOperation(ctx, "get", nil)
		metrics.RecordFlagCount(ctx, size)
		spans.EndSpanWithError(span, nil)
		return fb, nil
	}

	observability.LogUnregistered(logger, "get", key)
	metrics.RecordWarning(ctx, "unregistered")
	err := &UnregisteredKeyError{Key: key, Op: "get"}
	metrics.RecordOperation(ctx, "get", err)
	spans.EndSpanWithError(span, err)
	return nil, err
}

// IsBusy reports whether key is registered with a truthy value: anything
// other than nil or false. It never errors and never mutates state,
// regardless of mode.
func (m *Manager) IsBusy(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.entries[key]
	return ok && v != nil && v != false
}

// Has returns true if key is registered, whatever its value.
func (m *Manager) Has(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.entries[key]
	return ok
}

// Keys returns all registered keys. The order is not guaranteed.
func (m *Manager) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.entries))
	for k := range m.entries {
		keys = append(keys, k)
	}
	return keys
}

// Len returns the number of registered flags.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Snapshot returns a copy of the registry. Values are raw as stored; a nil
// value is not coerced here, so diagnostics can tell "stored nil" from
// "stored false".
func (m *Manager) Snapshot() map[string]any {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]any, len(m.entries))
	for k, v := range m.entries {
		out[k] = v
	}
	return out
}

// Range iterates over all entries. If fn returns false, iteration stops.
//
// Range iterates over a snapshot, so it is safe to call Add, Set or Remove
// during iteration without affecting the current iteration.
func (m *Manager) Range(fn func(key string, value any) bool) {
	for k, v := range m.Snapshot() {
		if !fn(k, v) {
			return
		}
	}
}

// firstOr returns the first optional argument, or def when none was given.
func firstOr(vals []any, def any) any {
	if len(vals) > 0 {
		return vals[0]
	}
	return def
}

// Default is the process-wide registry used by the package-level functions.
// It remains independently constructible via New for tests and embedders
// that want isolated state.
var Default = New()

// Configure resets the default registry.
func Configure(opts ...Option) {
	Default.Configure(opts...)
}

// Add registers a key in the default registry.
func Add(key string, initial ...any) {
	Default.Add(key, initial...)
}

// Remove deletes a key from the default registry.
func Remove(key string) error {
	return Default.Remove(key)
}

// Set assigns a value in the default registry.
func Set(key string, value ...any) error {
	return Default.Set(key, value...)
}

// Get reads a value from the default registry.
func Get(key string, fallback ...any) (any, error) {
	return Default.Get(key, fallback...)
}

// IsBusy reads the truthiness of a key in the default registry.
func IsBusy(key string) bool {
	return Default.IsBusy(key)
}
