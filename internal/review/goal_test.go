package review

import (
	"testing"
	"time"

	"versekeep/internal/verse"
)

func goalItems(n int, atTarget int) []verse.Enriched {
	items := make([]verse.Enriched, 0, n)
	for i := 0; i < n; i++ {
		var s verse.Status
		if i < atTarget {
			s.MaxCompletedTurn = 1
		}
		items = append(items, verse.Enriched{Verse: verse.Verse{ID: string(rune('a' + i)), Seq: i}, Status: s})
	}
	return items
}

func TestDailyGoalWorkedExample(t *testing.T) {
	// 10 verses over a 10-day window, on day 5, 2 already at target:
	// expected cumulative floor(5 * 10/10) = 5, so 3 left today.
	cfg := DefaultSettings()
	cfg.Mode = ModeTurnReview
	sched := Schedule{1: {Start: "2026-09-01", End: "2026-09-10"}}
	now := time.Date(2026, time.September, 5, 9, 0, 0, 0, time.UTC)

	dp := DailyGoal(goalItems(10, 2), cfg, sched, Log{}, now)
	if dp.Goal != 3 {
		t.Fatalf("expected goal 3, got %d", dp.Goal)
	}
}

func TestDailyGoalZeroOutsideWindow(t *testing.T) {
	cfg := DefaultSettings()
	cfg.Mode = ModeTurnReview
	sched := Schedule{1: {Start: "2026-09-01", End: "2026-09-10"}}

	before := time.Date(2026, time.August, 20, 9, 0, 0, 0, time.UTC)
	if dp := DailyGoal(goalItems(10, 0), cfg, sched, Log{}, before); dp.Goal != 0 {
		t.Fatalf("expected no goal before the window, got %d", dp.Goal)
	}
	after := time.Date(2026, time.October, 1, 9, 0, 0, 0, time.UTC)
	if dp := DailyGoal(goalItems(10, 0), cfg, sched, Log{}, after); dp.Goal != 0 {
		t.Fatalf("expected no goal after the window, got %d", dp.Goal)
	}
}

func TestDailyGoalZeroWithoutScheduleOrWrongMode(t *testing.T) {
	cfg := DefaultSettings()
	cfg.Mode = ModeTurnReview
	now := time.Date(2026, time.September, 5, 9, 0, 0, 0, time.UTC)

	if dp := DailyGoal(goalItems(10, 0), cfg, Schedule{}, Log{}, now); dp.Goal != 0 {
		t.Fatalf("expected no goal without a schedule")
	}

	cfg.Mode = ModeCategory
	sched := Schedule{1: {Start: "2026-09-01", End: "2026-09-10"}}
	if dp := DailyGoal(goalItems(10, 0), cfg, sched, Log{}, now); dp.Goal != 0 {
		t.Fatalf("daily goal applies only to the turn review track")
	}
}

func TestDailyGoalScopeExcludesNewRecentUnmemorized(t *testing.T) {
	cfg := DefaultSettings()
	cfg.Mode = ModeTurnReview
	sched := Schedule{1: {Start: "2026-09-01", End: "2026-09-02"}}
	now := time.Date(2026, time.September, 2, 9, 0, 0, 0, time.UTC)

	items := []verse.Enriched{
		{Verse: verse.Verse{ID: "a"}},
		{Verse: verse.Verse{ID: "b"}, Status: verse.Status{IsNew: true}},
		{Verse: verse.Verse{ID: "c"}, Status: verse.Status{IsRecent: true}},
		{Verse: verse.Verse{ID: "d"}, Status: verse.Status{IsUnmemorized: true}},
	}
	// Day 2 of 2: expected = floor(2 * 1/2) = 1.
	dp := DailyGoal(items, cfg, sched, Log{}, now)
	if dp.Goal != 1 {
		t.Fatalf("scope must only count plain verses, got %d", dp.Goal)
	}
}

func TestDailyGoalReadsCompletedTodayFromLog(t *testing.T) {
	cfg := DefaultSettings()
	cfg.Mode = ModeTurnReview
	now := fixedNow()

	log := Log{KSTDay(now): DayLog{"general": 4, "new": 1, "total": 5}}
	dp := DailyGoal(goalItems(3, 0), cfg, Schedule{}, log, now)
	if dp.CompletedToday != 4 {
		t.Fatalf("completed-today must come from the general bucket, got %d", dp.CompletedToday)
	}
}
