package rhinoline

import (
	"context"
	"log/slog"
	"sync"
)

// capturedRecord is one log record observed by captureHandler.
type capturedRecord struct {
	Level slog.Level
	Msg   string
	Attrs map[string]any
}

// captureHandler collects slog records for assertions.
// Shared across test files in this package.
type captureHandler struct {
	mu      sync.Mutex
	records []capturedRecord
}

func newCapture() *captureHandler { return &captureHandler{} }

func (h *captureHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *captureHandler) Handle(_ context.Context, r slog.Record) error {
	attrs := make(map[string]any)
	r.Attrs(func(a slog.Attr) bool {
		attrs[a.Key] = a.Value.Any()
		return true
	})
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, capturedRecord{Level: r.Level, Msg: r.Message, Attrs: attrs})
	return nil
}

func (h *captureHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *captureHandler) WithGroup(string) slog.Handler      { return h }

func (h *captureHandler) logger() *slog.Logger { return slog.New(h) }

// snapshot returns a copy of the records captured so far.
func (h *captureHandler) snapshot() []capturedRecord {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]capturedRecord, len(h.records))
	copy(out, h.records)
	return out
}

// find returns the first record with the given message, if any.
func (h *captureHandler) find(msg string) (capturedRecord, bool) {
	for _, r := range h.snapshot() {
		if r.Msg == msg {
			return r, true
		}
	}
	return capturedRecord{}, false
}
