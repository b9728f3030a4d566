package actionlog

import (
	"sync"

	"github.com/rs/zerolog"
)

// Sink receives entries. Record must not panic and cannot fail; sinks that
// can fail report it themselves.
type Sink interface {
	Record(e Entry)
}

// NopSink discards all entries.
type NopSink struct{}

func (NopSink) Record(Entry) {}

// SafeRecord records e, swallowing panics from buggy sinks.
func SafeRecord(s Sink, e Entry) {
	if s == nil {
		return
	}
	defer func() {
		_ = recover()
	}()
	s.Record(e)
}

// Recorder keeps entries in memory.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) Record(e Entry) {
	r.mu.Lock()
	r.entries = append(r.entries, e)
	r.mu.Unlock()
}

// Snapshot returns a copy of everything recorded so far.
func (r *Recorder) Snapshot() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// OfType returns the recorded entries of one type.
func (r *Recorder) OfType(t Type) []Entry {
	var out []Entry
	for _, e := range r.Snapshot() {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// LogSink writes entries as structured log events.
type LogSink struct {
	Logger zerolog.Logger
	Level  zerolog.Level
}

func (s LogSink) Record(e Entry) {
	s.Logger.WithLevel(s.Level).
		Str("action", string(e.Type)).
		Int("turn", e.Turn).
		Str("phase", e.Phase).
		Int("player", e.Player).
		Int("task_force", e.TaskForce).
		Str("before", e.Before).
		Str("after", e.After).
		Msg("action")
}

type multi []Sink

func (m multi) Record(e Entry) {
	for _, s := range m {
		SafeRecord(s, e)
	}
}

// Multi fans entries out to every sink.
func Multi(sinks ...Sink) Sink {
	return multi(sinks)
}
