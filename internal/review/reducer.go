package review

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"versekeep/internal/state"
	"versekeep/internal/telemetry"
	"versekeep/internal/verse"
)

// ResetScope names a fixed set of status fields to reset across all verses.
type ResetScope string

const (
	ResetNew            ResetScope = "new"
	ResetWrong          ResetScope = "wrong"
	ResetRecent         ResetScope = "recent"
	ResetFavorite       ResetScope = "favorite"
	ResetCategory       ResetScope = "category"
	ResetAllTurns       ResetScope = "all_turns"
	ResetAllTurnsNew    ResetScope = "all_turns_new"
	ResetAllTurnsRecent ResetScope = "all_turns_recent"
	ResetAll            ResetScope = "all"

	// ResetReviewLog clears the review log, not the status map. Routed to
	// Journal.Clear by the app; the reducer rejects it.
	ResetReviewLog ResetScope = "reviewLog"
)

// Reducer is the single writer path for the status map. Updates are merged
// in memory immediately and flushed to the store after a quiet period, so
// a burst of completions costs one write.
type Reducer struct {
	mu       sync.Mutex
	store    KV
	logger   *telemetry.JSONLogger
	statuses map[string]verse.Status
	version  uint64
	dirty    bool
	closed   bool
	delay    time.Duration
	timer    *time.Timer
}

const defaultFlushDelay = time.Second

func NewReducer(store KV, logger *telemetry.JSONLogger, delay time.Duration) *Reducer {
	if delay <= 0 {
		delay = defaultFlushDelay
	}
	r := &Reducer{store: store, logger: logger, statuses: map[string]verse.Status{}, delay: delay}
	if store != nil {
		raw := store.Get(context.Background(), state.KeyReviewStatus)
		var loaded map[string]verse.Status
		if err := json.Unmarshal(raw, &loaded); err == nil && loaded != nil {
			r.statuses = loaded
		}
	}
	return r
}

// Update merges a partial patch into the verse's status record, creating
// it if absent, and returns the new reducer version. The version doubles
// as the suppression token for locally-triggered recomputes.
func (r *Reducer) Update(id string, p verse.Patch) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.statuses[id]
	p.Apply(&s)
	r.statuses[id] = s
	r.version++
	r.dirty = true
	r.scheduleFlushLocked()
	return r.version
}

// Get returns the status record for one verse.
func (r *Reducer) Get(id string) (verse.Status, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.statuses[id]
	return s, ok
}

// Snapshot copies the status map for enrichment.
func (r *Reducer) Snapshot() map[string]verse.Status {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[string]verse.Status, len(r.statuses))
	for id, s := range r.statuses {
		out[id] = s
	}
	return out
}

func (r *Reducer) Version() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.version
}

// Reset zeroes the scope's fields across the given verse ids: booleans to
// false, max-completed counters to 0, current-turn counters to 1. The
// result is persisted immediately, bypassing the debounce.
func (r *Reducer) Reset(scope ResetScope, ids []string) error {
	patch, err := resetPatch(scope)
	if err != nil {
		return err
	}

	r.mu.Lock()
	for _, id := range ids {
		s := r.statuses[id]
		patch.Apply(&s)
		r.statuses[id] = s
	}
	r.version++
	r.dirty = true
	r.mu.Unlock()

	r.logger.Info("reducer.reset", map[string]any{"scope": string(scope), "verses": len(ids)})
	return r.Flush(context.Background())
}

func resetPatch(scope ResetScope) (verse.Patch, error) {
	turnsGeneral := verse.Patch{CurrentTurn: verse.Int(1), MaxCompletedTurn: verse.Int(0)}
	turnsNew := verse.Patch{CurrentTurnNew: verse.Int(1), MaxCompletedTurnNew: verse.Int(0)}
	turnsRecent := verse.Patch{CurrentTurnRecent: verse.Int(1), MaxCompletedTurnRecent: verse.Int(0)}

	switch scope {
	case ResetNew:
		return verse.Patch{ReviewedNew: verse.Bool(false)}, nil
	case ResetWrong:
		return verse.Patch{ReviewedWrong: verse.Bool(false)}, nil
	case ResetRecent:
		return verse.Patch{ReviewedRecent: verse.Bool(false)}, nil
	case ResetFavorite:
		return verse.Patch{ReviewedFavorite: verse.Bool(false)}, nil
	case ResetCategory:
		return verse.Patch{ReviewedGeneral: verse.Bool(false)}, nil
	case ResetAllTurns:
		p := turnsGeneral
		p.ReviewedGeneral = verse.Bool(false)
		return p, nil
	case ResetAllTurnsNew:
		p := turnsNew
		p.ReviewedNew = verse.Bool(false)
		return p, nil
	case ResetAllTurnsRecent:
		p := turnsRecent
		p.ReviewedRecent = verse.Bool(false)
		return p, nil
	case ResetAll:
		p := verse.Patch{
			ReviewedGeneral:  verse.Bool(false),
			ReviewedNew:      verse.Bool(false),
			ReviewedWrong:    verse.Bool(false),
			ReviewedRecent:   verse.Bool(false),
			ReviewedFavorite: verse.Bool(false),
		}
		p.CurrentTurn, p.MaxCompletedTurn = turnsGeneral.CurrentTurn, turnsGeneral.MaxCompletedTurn
		p.CurrentTurnNew, p.MaxCompletedTurnNew = turnsNew.CurrentTurnNew, turnsNew.MaxCompletedTurnNew
		p.CurrentTurnRecent, p.MaxCompletedTurnRecent = turnsRecent.CurrentTurnRecent, turnsRecent.MaxCompletedTurnRecent
		return p, nil
	}
	return verse.Patch{}, fmt.Errorf("unknown reset scope %q", scope)
}

func (r *Reducer) scheduleFlushLocked() {
	if r.closed {
		return
	}
	if r.timer != nil {
		r.timer.Stop()
	}
	r.timer = time.AfterFunc(r.delay, func() {
		if err := r.Flush(context.Background()); err != nil {
			r.logger.Error("reducer.flush_failed", map[string]any{"error": err.Error()})
		}
	})
}

// Flush writes the status map to the store if anything changed.
func (r *Reducer) Flush(ctx context.Context) error {
	r.mu.Lock()
	if !r.dirty || r.store == nil {
		r.mu.Unlock()
		return nil
	}
	snapshot := make(map[string]verse.Status, len(r.statuses))
	for id, s := range r.statuses {
		snapshot[id] = s
	}
	r.dirty = false
	r.mu.Unlock()

	return r.store.Set(ctx, state.KeyReviewStatus, snapshot)
}

// Close cancels the debounce timer and performs a final flush. The timer
// must never fire after Close, or a stale snapshot could overwrite newer
// state written by the next run.
func (r *Reducer) Close(ctx context.Context) error {
	r.mu.Lock()
	r.closed = true
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	r.mu.Unlock()

	return r.Flush(ctx)
}
