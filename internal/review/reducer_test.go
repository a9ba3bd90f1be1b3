package review

import (
	"context"
	"encoding/json"
	"reflect"
	"testing"
	"time"

	"versekeep/internal/state"
	"versekeep/internal/verse"
)

func TestReducerUpdateMergesPartialFields(t *testing.T) {
	r := NewReducer(newFakeKV(), nil, time.Hour)

	r.Update("v1", verse.Patch{IsFavorite: verse.Bool(true)})
	r.Update("v1", verse.Patch{MaxCompletedTurn: verse.Int(2)})

	s, ok := r.Get("v1")
	if !ok {
		t.Fatalf("record not created lazily")
	}
	if !s.IsFavorite || s.MaxCompletedTurn != 2 {
		t.Fatalf("partial updates must merge, got %#v", s)
	}
}

func TestReducerDebouncesFlush(t *testing.T) {
	kv := newFakeKV()
	r := NewReducer(kv, nil, 20*time.Millisecond)

	for i := 0; i < 5; i++ {
		r.Update("v1", verse.Patch{CurrentTurn: verse.Int(i + 1)})
	}
	if kv.setCount() != 0 {
		t.Fatalf("flush fired inside the quiet period")
	}

	time.Sleep(80 * time.Millisecond)
	if kv.setCount() != 1 {
		t.Fatalf("expected one batched flush, got %d", kv.setCount())
	}

	var persisted map[string]verse.Status
	if err := json.Unmarshal(kv.Get(context.Background(), state.KeyReviewStatus), &persisted); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if persisted["v1"].CurrentTurn != 5 {
		t.Fatalf("flush wrote stale state: %#v", persisted["v1"])
	}
}

func TestReducerCloseFlushesAndStopsTimer(t *testing.T) {
	kv := newFakeKV()
	r := NewReducer(kv, nil, time.Hour)

	r.Update("v1", verse.Patch{IsWrong: verse.Bool(true)})
	if err := r.Close(context.Background()); err != nil {
		t.Fatalf("close: %v", err)
	}
	if kv.setCount() != 1 {
		t.Fatalf("close must flush pending state, got %d writes", kv.setCount())
	}

	// The cancelled timer must not fire a second write later.
	time.Sleep(30 * time.Millisecond)
	if kv.setCount() != 1 {
		t.Fatalf("timer fired after close")
	}
}

func TestReducerLoadsExistingStatuses(t *testing.T) {
	kv := newFakeKV()
	if err := kv.Set(context.Background(), state.KeyReviewStatus, map[string]verse.Status{
		"v9": {IsRecent: true},
	}); err != nil {
		t.Fatal(err)
	}

	r := NewReducer(kv, nil, time.Hour)
	s, ok := r.Get("v9")
	if !ok || !s.IsRecent {
		t.Fatalf("stored statuses not loaded: %#v ok=%v", s, ok)
	}
}

func TestResetScopes(t *testing.T) {
	r := NewReducer(newFakeKV(), nil, time.Hour)
	ids := []string{"v1"}
	r.Update("v1", verse.Patch{
		ReviewedGeneral:     verse.Bool(true),
		ReviewedNew:         verse.Bool(true),
		CurrentTurn:         verse.Int(4),
		MaxCompletedTurn:    verse.Int(3),
		CurrentTurnNew:      verse.Int(2),
		MaxCompletedTurnNew: verse.Int(1),
	})

	if err := r.Reset(ResetAllTurns, ids); err != nil {
		t.Fatalf("reset: %v", err)
	}
	s, _ := r.Get("v1")
	if s.ReviewedGeneral || s.CurrentTurn != 1 || s.MaxCompletedTurn != 0 {
		t.Fatalf("all_turns reset incomplete: %#v", s)
	}
	if !s.ReviewedNew || s.CurrentTurnNew != 2 {
		t.Fatalf("all_turns reset must not touch the new family: %#v", s)
	}
}

func TestResetAllIsIdempotent(t *testing.T) {
	r := NewReducer(newFakeKV(), nil, time.Hour)
	ids := []string{"v1", "v2"}
	r.Update("v1", verse.Patch{ReviewedWrong: verse.Bool(true), MaxCompletedTurnRecent: verse.Int(5)})

	if err := r.Reset(ResetAll, ids); err != nil {
		t.Fatalf("reset: %v", err)
	}
	once := r.Snapshot()
	if err := r.Reset(ResetAll, ids); err != nil {
		t.Fatalf("reset: %v", err)
	}
	twice := r.Snapshot()

	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("reset('all') must be idempotent:\n%#v\n%#v", once, twice)
	}
}

func TestResetUnknownScopeFails(t *testing.T) {
	r := NewReducer(newFakeKV(), nil, time.Hour)
	if err := r.Reset("everything", nil); err == nil {
		t.Fatalf("unknown scope must fail fast")
	}
	if err := r.Reset(ResetReviewLog, nil); err == nil {
		t.Fatalf("reviewLog scope belongs to the journal, reducer must reject it")
	}
}
