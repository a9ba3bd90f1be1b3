package review

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"versekeep/internal/state"
	"versekeep/internal/telemetry"
)

// ErrConfirmationRequired guards irreversible resets: the caller must have
// collected an explicit confirmation before invoking them.
var ErrConfirmationRequired = errors.New("confirmation required")

// DayLog holds per-category completion counts for one day plus a "total".
type DayLog map[string]int

// Log is the review log, keyed by KST calendar date (YYYY-MM-DD).
type Log map[string]DayLog

// KSTDay is the calendar-day key for now. Review days roll over at
// midnight Korea time regardless of the machine's zone.
func KSTDay(now time.Time) string {
	return now.UTC().Add(9 * time.Hour).Format("2006-01-02")
}

// KV is the slice of the persistent store the review engine writes through.
type KV interface {
	Get(ctx context.Context, key string) json.RawMessage
	Set(ctx context.Context, key string, v any) error
}

// Journal owns the review log: one increment per completion, persisted on
// every write (the log is tiny and append-mostly, so no debounce).
type Journal struct {
	mu     sync.Mutex
	store  KV
	logger *telemetry.JSONLogger
	log    Log
}

func NewJournal(store KV, logger *telemetry.JSONLogger) *Journal {
	j := &Journal{store: store, logger: logger, log: Log{}}
	if store != nil {
		raw := store.Get(context.Background(), state.KeyReviewLog)
		var loaded Log
		if err := json.Unmarshal(raw, &loaded); err == nil && loaded != nil {
			j.log = loaded
		}
	}
	return j
}

// LogCompletion increments today's count for the given category and
// recomputes the day total.
func (j *Journal) LogCompletion(category string, now time.Time) {
	j.mu.Lock()
	defer j.mu.Unlock()

	day := KSTDay(now)
	counts := j.log[day]
	if counts == nil {
		counts = DayLog{}
		j.log[day] = counts
	}
	counts[category]++

	total := 0
	for k, n := range counts {
		if k != "total" {
			total += n
		}
	}
	counts["total"] = total

	j.persistLocked()
}

// Today returns a copy of today's counts.
func (j *Journal) Today(now time.Time) DayLog {
	j.mu.Lock()
	defer j.mu.Unlock()

	out := DayLog{}
	for k, n := range j.log[KSTDay(now)] {
		out[k] = n
	}
	return out
}

// Snapshot returns a deep copy of the full log for read-only consumers.
func (j *Journal) Snapshot() Log {
	j.mu.Lock()
	defer j.mu.Unlock()

	out := Log{}
	for day, counts := range j.log {
		c := DayLog{}
		for k, n := range counts {
			c[k] = n
		}
		out[day] = c
	}
	return out
}

// Clear wipes the entire log. It refuses to run without confirmation.
func (j *Journal) Clear(confirm bool) error {
	if !confirm {
		return ErrConfirmationRequired
	}
	j.mu.Lock()
	defer j.mu.Unlock()

	j.log = Log{}
	j.persistLocked()
	j.logger.Info("journal.cleared", nil)
	return nil
}

func (j *Journal) persistLocked() {
	if j.store == nil {
		return
	}
	if err := j.store.Set(context.Background(), state.KeyReviewLog, j.log); err != nil {
		j.logger.Error("journal.persist_failed", map[string]any{"error": err.Error()})
	}
}
