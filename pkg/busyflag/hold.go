package busyflag

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/randalmurphal/busyflag/pkg/busyflag/observability"
)

// Hold marks a flag busy until released. Multiple holds on the same key
// overlap: the flag stays true until every hold is released.
type Hold struct {
	id      string
	key     string
	manager *Manager
	once    sync.Once
}

// ID returns the unique identifier of this hold.
func (h *Hold) ID() string {
	return h.id
}

// Key returns the flag key this hold pins.
func (h *Hold) Key() string {
	return h.key
}

// Release drops the hold. When the last hold on the key is released the
// flag is set back to false. Release is idempotent; extra calls are no-ops.
func (h *Hold) Release() {
	h.once.Do(func() {
		h.manager.release(h.key, h.id)
	})
}

// Hold marks key busy and returns a Hold that keeps it busy until released.
// The flag value is set to true for the lifetime of at least one hold.
//
// Strict mode applies as for Set: holding an unregistered key fails with an
// UnregisteredKeyError. Outside strict mode the key is registered implicitly.
func (m *Manager) Hold(key string) (*Hold, error) {
	id := uuid.NewString()
	logger, metrics, spans := m.wiring()

	ctx := context.Background()
	ctx, span := spans.StartOpSpan(ctx, "hold", key)

	m.mu.Lock()
	_, exists := m.entries[key]
	strict := m.strict
	if exists || !strict {
		m.entries[key] = true
		set := m.holds[key]
		if set == nil {
			set = make(map[string]struct{})
			m.holds[key] = set
		}
		set[id] = struct{}{}
	}
	size := len(m.entries)
	m.mu.Unlock()

	if !exists && strict {
		observability.LogUnregistered(logger, "hold", key)
		metrics.RecordWarning(ctx, "unregistered")
		err := &UnregisteredKeyError{Key: key, Op: "hold"}
		metrics.RecordOperation(ctx, "hold", err)
		spans.EndSpanWithError(span, err)
		return nil, err
	}

	metrics.RecordOperation(ctx, "hold", nil)
	metrics.RecordFlagCount(ctx, size)
	spans.EndSpanWithError(span, nil)

	return &Hold{
		id:      id,
		key:     key,
		manager: m,
	}, nil
}

// Holds returns the number of outstanding holds on key.
func (m *Manager) Holds(key string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.holds[key])
}

// release drops the hold with the given id, by identity: a hold whose set
// was cleared by Remove or Configure is inert even if new holds have since
// been taken on the same key. The flag is only flipped back to false when
// the last live hold goes, and only if the key is still registered.
func (m *Manager) release(key, id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	set, ok := m.holds[key]
	if !ok {
		return
	}
	if _, mine := set[id]; !mine {
		return
	}
	delete(set, id)
	if len(set) > 0 {
		return
	}
	delete(m.holds, key)
	if _, registered := m.entries[key]; registered {
		m.entries[key] = false
	}
}
