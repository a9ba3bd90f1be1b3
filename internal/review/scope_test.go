package review

import (
	"math/rand"
	"testing"
	"time"

	"versekeep/internal/verse"
)

func testRand() *rand.Rand { return rand.New(rand.NewSource(1)) }

func mk(id string, seq int, s verse.Status) verse.Enriched {
	return verse.Enriched{Verse: verse.Verse{ID: id, Seq: seq, Category: "Psalms"}, Status: s}
}

func TestComputeScopeRejectsUnknownMode(t *testing.T) {
	cfg := DefaultSettings()
	cfg.Mode = "turbo"
	if _, err := ComputeScope([]verse.Enriched{mk("v1", 1, verse.Status{})}, cfg, testRand(), fixedNow()); err == nil {
		t.Fatalf("unknown mode must be rejected, not treated as pass-all")
	}
}

func TestBaseScopeExcludesUnmemorizedExceptPending(t *testing.T) {
	items := []verse.Enriched{
		mk("kept", 1, verse.Status{IsNew: true}),
		mk("hidden", 2, verse.Status{IsNew: true, IsUnmemorized: true}),
	}

	cfg := DefaultSettings()
	cfg.Mode = ModeNew
	sc, err := ComputeScope(items, cfg, testRand(), fixedNow())
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if sc.Total != 1 || len(sc.Remaining) != 1 || sc.Remaining[0].ID != "kept" {
		t.Fatalf("unmemorized verse leaked into new mode: %+v", sc)
	}

	cfg.Mode = ModePending
	sc, err = ComputeScope(items, cfg, testRand(), fixedNow())
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if sc.Total != 1 || sc.Remaining[0].ID != "hidden" {
		t.Fatalf("pending mode must see only unmemorized verses: %+v", sc)
	}
}

func TestTurnReviewScopeExcludesNewAndRecent(t *testing.T) {
	items := []verse.Enriched{
		mk("plain", 1, verse.Status{}),
		mk("new", 2, verse.Status{IsNew: true}),
		mk("recent", 3, verse.Status{IsRecent: true}),
	}
	cfg := DefaultSettings()
	cfg.Mode = ModeTurnReview

	sc, err := ComputeScope(items, cfg, testRand(), fixedNow())
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if sc.Total != 1 || sc.Remaining[0].ID != "plain" {
		t.Fatalf("turn review scope wrong: %+v", sc)
	}
}

func TestCategoryFilterEmptySelectionMeansAll(t *testing.T) {
	items := []verse.Enriched{
		mk("p1", 1, verse.Status{}),
		{Verse: verse.Verse{ID: "r1", Seq: 2, Category: "Romans"}},
	}
	cfg := DefaultSettings()

	sc, err := ComputeScope(items, cfg, testRand(), fixedNow())
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if sc.Total != 2 {
		t.Fatalf("empty selection should include everything, got %d", sc.Total)
	}

	cfg.Categories = []string{"Romans"}
	sc, err = ComputeScope(items, cfg, testRand(), fixedNow())
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if sc.Total != 1 || sc.Remaining[0].ID != "r1" {
		t.Fatalf("category filter not applied: %+v", sc)
	}
}

func TestTurnCompletionPredicate(t *testing.T) {
	cfg := DefaultSettings()
	cfg.Mode = ModeTurnReview
	cfg.TargetTurn = 3

	items := []verse.Enriched{
		mk("done", 1, verse.Status{MaxCompletedTurn: 3}),
		mk("ahead", 2, verse.Status{MaxCompletedTurn: 4}),
		mk("behind", 3, verse.Status{MaxCompletedTurn: 2}),
	}
	sc, err := ComputeScope(items, cfg, testRand(), fixedNow())
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if len(sc.Completed) != 2 || len(sc.Remaining) != 1 || sc.Remaining[0].ID != "behind" {
		t.Fatalf("turn completion split wrong: %+v", sc)
	}
}

func TestSequentialOrderingLaw(t *testing.T) {
	items := []verse.Enriched{
		mk("c", 30, verse.Status{}),
		mk("a", 0, verse.Status{}),
		mk("b", 11, verse.Status{}),
	}
	cfg := DefaultSettings()

	sc, err := ComputeScope(items, cfg, testRand(), fixedNow())
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	for i := 1; i < len(sc.Remaining); i++ {
		if sc.Remaining[i-1].Seq > sc.Remaining[i].Seq {
			t.Fatalf("sequential ordering violated at %d: %+v", i, sc.Remaining)
		}
	}
}

func TestOldestFirstMissingDateSortsFirst(t *testing.T) {
	items := []verse.Enriched{
		mk("recent", 1, verse.Status{LastReviewed: "2026. 8. 30"}),
		mk("never", 2, verse.Status{}),
		mk("old", 3, verse.Status{LastReviewed: "2026. 8. 1"}),
	}
	cfg := DefaultSettings()
	cfg.Order = OrderOldestFirst

	sc, err := ComputeScope(items, cfg, testRand(), fixedNow())
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	got := []string{sc.Remaining[0].ID, sc.Remaining[1].ID, sc.Remaining[2].ID}
	want := []string{"never", "old", "recent"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("oldest-first order: got %v want %v", got, want)
		}
	}
}

func TestGroupedRandomBandLaw(t *testing.T) {
	now := fixedNow()
	stale := now.AddDate(0, 0, -15).Format(verse.DateLayout)
	fresh := now.AddDate(0, 0, -1).Format(verse.DateLayout)

	items := []verse.Enriched{
		mk("fresh1", 1, verse.Status{LastReviewed: fresh}),
		mk("stale1", 2, verse.Status{LastReviewed: stale}),
		mk("fresh2", 3, verse.Status{LastReviewed: fresh}),
		mk("never", 4, verse.Status{}),
		mk("stale2", 5, verse.Status{LastReviewed: stale}),
	}
	cfg := DefaultSettings()
	cfg.Order = OrderGroupedRandom

	for seed := int64(0); seed < 20; seed++ {
		sc, err := ComputeScope(items, cfg, rand.New(rand.NewSource(seed)), now)
		if err != nil {
			t.Fatalf("compute: %v", err)
		}
		pos := map[string]int{}
		for i, v := range sc.Remaining {
			pos[v.ID] = i
		}
		// Every 10+ day (or never reviewed) verse precedes every <3 day verse.
		for _, old := range []string{"stale1", "stale2", "never"} {
			for _, fr := range []string{"fresh1", "fresh2"} {
				if pos[old] > pos[fr] {
					t.Fatalf("seed %d: %s after %s: %v", seed, old, fr, sc.Remaining)
				}
			}
		}
	}
}

func TestTodayCountCountsTodaysCompletions(t *testing.T) {
	now := fixedNow()
	today := now.Format(verse.DateLayout)

	items := []verse.Enriched{
		mk("t", 1, verse.Status{ReviewedGeneral: true, LastReviewed: today}),
		mk("y", 2, verse.Status{ReviewedGeneral: true, LastReviewed: "2026. 8. 31"}),
		mk("left", 3, verse.Status{}),
	}
	sc, err := ComputeScope(items, DefaultSettings(), testRand(), now)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if sc.TodayCount != 1 {
		t.Fatalf("expected 1 completion today, got %d", sc.TodayCount)
	}
}

func TestSortCompletedRecentFirst(t *testing.T) {
	list := []verse.Enriched{
		mk("old", 1, verse.Status{LastReviewed: "2026. 8. 1"}),
		mk("new", 2, verse.Status{LastReviewed: "2026. 8. 30"}),
		mk("never", 3, verse.Status{}),
	}
	SortCompleted(list, CompletedRecent, time.UTC)
	if list[0].ID != "new" || list[2].ID != "never" {
		t.Fatalf("recent-first completed order wrong: %+v", list)
	}

	SortCompleted(list, CompletedSequential, time.UTC)
	if list[0].ID != "old" || list[1].ID != "new" {
		t.Fatalf("sequential completed order wrong: %+v", list)
	}
}
