// Package testutil provides test helpers shared by the delivery packages.
package testutil

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// LogEntry is one captured log record with its attributes flattened,
// including those bound with Logger.With.
type LogEntry struct {
	Level   slog.Level
	Message string
	Attrs   map[string]any
}

// LogRecorder is a slog.Handler that keeps every record in memory.
type LogRecorder struct {
	mu      *sync.Mutex
	entries *[]LogEntry
	bound   []slog.Attr
	t       testing.TB
}

// NewLogRecorder returns a logger writing into a fresh recorder. Records
// are echoed with t.Logf so failing tests show them.
func NewLogRecorder(t testing.TB) (*slog.Logger, *LogRecorder) {
	rec := &LogRecorder{
		mu:      &sync.Mutex{},
		entries: &[]LogEntry{},
		t:       t,
	}
	return slog.New(rec), rec
}

// Enabled implements slog.Handler
func (h *LogRecorder) Enabled(context.Context, slog.Level) bool {
	return true
}

// Handle implements slog.Handler
func (h *LogRecorder) Handle(_ context.Context, r slog.Record) error {
	attrs := make(map[string]any, len(h.bound)+r.NumAttrs())
	for _, a := range h.bound {
		attrs[a.Key] = a.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		attrs[a.Key] = a.Value.Any()
		return true
	})

	h.mu.Lock()
	*h.entries = append(*h.entries, LogEntry{Level: r.Level, Message: r.Message, Attrs: attrs})
	h.mu.Unlock()

	if h.t != nil {
		h.t.Logf("[%s] %s %v", r.Level, r.Message, attrs)
	}
	return nil
}

// WithAttrs implements slog.Handler. Derived handlers share storage.
func (h *LogRecorder) WithAttrs(attrs []slog.Attr) slog.Handler {
	bound := make([]slog.Attr, 0, len(h.bound)+len(attrs))
	bound = append(bound, h.bound...)
	bound = append(bound, attrs...)
	return &LogRecorder{mu: h.mu, entries: h.entries, bound: bound, t: h.t}
}

// WithGroup implements slog.Handler. Groups are flattened.
func (h *LogRecorder) WithGroup(string) slog.Handler {
	return h
}

// Entries returns a copy of the captured records.
func (h *LogRecorder) Entries() []LogEntry {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]LogEntry(nil), *h.entries...)
}

// Messages returns the messages logged at level, in order.
func (h *LogRecorder) Messages(level slog.Level) []string {
	var out []string
	for _, e := range h.Entries() {
		if e.Level == level {
			out = append(out, e.Message)
		}
	}
	return out
}

// Find returns the first record at level whose message contains substr.
func (h *LogRecorder) Find(level slog.Level, substr string) (LogEntry, bool) {
	for _, e := range h.Entries() {
		if e.Level == level && strings.Contains(e.Message, substr) {
			return e, true
		}
	}
	return LogEntry{}, false
}

// AssertLogged fails t unless a record at level contains substr, and
// returns that record.
func AssertLogged(t testing.TB, rec *LogRecorder, level slog.Level, substr string) LogEntry {
	t.Helper()
	e, ok := rec.Find(level, substr)
	assert.True(t, ok, "no %s log containing %q; got %v", level, substr, rec.Messages(level))
	return e
}

// AssertNoErrors fails t if anything was logged at error level.
func AssertNoErrors(t testing.TB, rec *LogRecorder) {
	t.Helper()
	assert.Empty(t, rec.Messages(slog.LevelError))
}
