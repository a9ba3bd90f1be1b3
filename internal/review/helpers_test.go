package review

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"versekeep/internal/state"
	"versekeep/internal/verse"
)

// fakeKV is an in-memory stand-in for the sqlite store.
type fakeKV struct {
	mu     sync.Mutex
	values map[string]json.RawMessage
	sets   int
}

func newFakeKV() *fakeKV {
	return &fakeKV{values: map[string]json.RawMessage{}}
}

func (f *fakeKV) Get(_ context.Context, key string) json.RawMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	if v, ok := f.values[key]; ok {
		return v
	}
	return state.DefaultValue(key)
}

func (f *fakeKV) Set(_ context.Context, key string, v any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	f.values[key] = b
	f.sets++
	return nil
}

func (f *fakeKV) setCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sets
}

// recordingWriter captures status updates without persistence.
type recordingWriter struct {
	version uint64
	updates []struct {
		ID    string
		Patch verse.Patch
	}
}

func (w *recordingWriter) Update(id string, p verse.Patch) uint64 {
	w.version++
	w.updates = append(w.updates, struct {
		ID    string
		Patch verse.Patch
	}{id, p})
	return w.version
}

// countingLog tallies LogCompletion calls by category.
type countingLog struct {
	counts map[string]int
}

func newCountingLog() *countingLog { return &countingLog{counts: map[string]int{}} }

func (c *countingLog) LogCompletion(category string, _ time.Time) {
	c.counts[category]++
}

func fixedNow() time.Time {
	return time.Date(2026, time.September, 1, 10, 0, 0, 0, time.UTC)
}
