package busyflag

import (
	"context"
	"log/slog"
	"sync"
)

// warnRecorder is a slog.Handler that captures records for assertions.
type warnRecorder struct {
	mu      sync.Mutex
	records []capturedRecord
}

// capturedRecord is one captured log record, flattened for easy asserts.
type capturedRecord struct {
	Level   slog.Level
	Message string
	Attrs   map[string]any
}

func (h *warnRecorder) Enabled(_ context.Context, _ slog.Level) bool {
	return true
}

func (h *warnRecorder) Handle(_ context.Context, r slog.Record) error {
	attrs := make(map[string]any)
	r.Attrs(func(a slog.Attr) bool {
		attrs[a.Key] = a.Value.Any()
		return true
	})

	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, capturedRecord{
		Level:   r.Level,
		Message: r.Message,
		Attrs:   attrs,
	})
	return nil
}

func (h *warnRecorder) WithAttrs(_ []slog.Attr) slog.Handler { return h }
func (h *warnRecorder) WithGroup(_ string) slog.Handler      { return h }

// all returns a copy of the captured records.
func (h *warnRecorder) all() []capturedRecord {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]capturedRecord, len(h.records))
	copy(out, h.records)
	return out
}

// newWarnLogger returns a logger wired to a fresh recorder.
func newWarnLogger() (*slog.Logger, *warnRecorder) {
	rec := &warnRecorder{}
	return slog.New(rec), rec
}

// newRecordedManager creates a manager whose warnings are captured.
func newRecordedManager(opts ...Option) (*Manager, *warnRecorder) {
	logger, rec := newWarnLogger()
	opts = append([]Option{WithLogger(logger)}, opts...)
	return New(opts...), rec
}
