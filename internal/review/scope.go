package review

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"versekeep/internal/verse"
)

// Scope is the computed working set for one filter configuration.
type Scope struct {
	Remaining []verse.Enriched
	Completed []verse.Enriched

	// Total is the size of the base scope (remaining + completed).
	Total int
	// TodayCount is how many completed verses were last reviewed today.
	TodayCount int
	// TurnExhausted is set when a turn-based scope is non-empty but fully
	// completed for the target turn.
	TurnExhausted bool
}

// ComputeScope filters and orders the enriched set for the given settings.
// Randomized orders draw from rng so tests can seed them. An unknown mode
// or order is an error, never a pass-all filter.
func ComputeScope(items []verse.Enriched, cfg Settings, rng *rand.Rand, now time.Time) (Scope, error) {
	var sc Scope
	today := now.Format(verse.DateLayout)

	for _, v := range items {
		in, err := inBaseScope(v, cfg)
		if err != nil {
			return Scope{}, err
		}
		if !in {
			continue
		}
		sc.Total++
		if isCompleted(v, cfg) {
			sc.Completed = append(sc.Completed, v)
			if v.LastReviewed == today {
				sc.TodayCount++
			}
		} else {
			sc.Remaining = append(sc.Remaining, v)
		}
	}

	if cfg.Mode.TurnBased() && sc.Total > 0 && len(sc.Remaining) == 0 {
		sc.TurnExhausted = true
	}

	if err := orderRemaining(sc.Remaining, cfg.Order, rng, now); err != nil {
		return Scope{}, err
	}
	return sc, nil
}

// inBaseScope is the per-mode inclusion predicate. Every mode except
// pending excludes unmemorized verses.
func inBaseScope(v verse.Enriched, cfg Settings) (bool, error) {
	if cfg.Mode != ModePending && v.IsUnmemorized {
		return false, nil
	}
	switch cfg.Mode {
	case ModeCategory:
		return cfg.matchesCategory(v), nil
	case ModeNew:
		return v.IsNew, nil
	case ModeWrong:
		return v.IsWrong, nil
	case ModeFavorite:
		return v.IsFavorite, nil
	case ModeRecent:
		return v.IsRecent, nil
	case ModeTurnReview:
		return !v.IsNew && !v.IsRecent && cfg.matchesCategory(v), nil
	case ModeTurnNew:
		return v.IsNew && cfg.matchesCategory(v), nil
	case ModeTurnRecent:
		return v.IsRecent && cfg.matchesCategory(v), nil
	case ModePending:
		return v.IsUnmemorized && cfg.matchesCategory(v), nil
	}
	return false, fmt.Errorf("unknown review mode %q", cfg.Mode)
}

// isCompleted is the per-mode completion predicate. Pending verses are
// always remaining.
func isCompleted(v verse.Enriched, cfg Settings) bool {
	switch cfg.Mode {
	case ModeCategory:
		return v.ReviewedGeneral
	case ModeNew:
		return v.ReviewedNew
	case ModeWrong:
		return v.ReviewedWrong
	case ModeFavorite:
		return v.ReviewedFavorite
	case ModeRecent:
		return v.ReviewedRecent
	case ModeTurnReview, ModeTurnNew, ModeTurnRecent:
		f, _ := cfg.Mode.Family()
		return v.MaxTurn(f) >= cfg.TargetFor(f)
	}
	return false
}

func orderRemaining(list []verse.Enriched, order Order, rng *rand.Rand, now time.Time) error {
	switch order {
	case OrderSequential:
		sort.SliceStable(list, func(i, j int) bool { return list[i].Seq < list[j].Seq })
	case OrderRandom:
		rng.Shuffle(len(list), func(i, j int) { list[i], list[j] = list[j], list[i] })
	case OrderOldestFirst:
		sort.SliceStable(list, func(i, j int) bool {
			return reviewTime(list[i], now.Location()).Before(reviewTime(list[j], now.Location()))
		})
	case OrderGroupedRandom:
		groupedRandom(list, rng, now)
	default:
		return fmt.Errorf("unknown order %q", order)
	}
	return nil
}

// groupedRandomBands are the days-since-review thresholds, oldest first.
// A verse never reviewed counts as infinitely stale and lands in the first
// band; anything fresher than the last threshold falls through to the tail.
var groupedRandomBands = []int{10, 8, 7, 6, 5, 4, 3}

// groupedRandom orders long-overdue verses first without letting one very
// stale verse pin the strict ordering: verses are bucketed by staleness
// band and shuffled within each band.
func groupedRandom(list []verse.Enriched, rng *rand.Rand, now time.Time) {
	buckets := make([][]verse.Enriched, len(groupedRandomBands)+1)
	for _, v := range list {
		buckets[bandIndex(v, now)] = append(buckets[bandIndex(v, now)], v)
	}
	i := 0
	for _, bucket := range buckets {
		rng.Shuffle(len(bucket), func(a, b int) { bucket[a], bucket[b] = bucket[b], bucket[a] })
		for _, v := range bucket {
			list[i] = v
			i++
		}
	}
}

func bandIndex(v verse.Enriched, now time.Time) int {
	days, ok := v.DaysSinceReview(now)
	if !ok {
		return 0
	}
	for i, threshold := range groupedRandomBands {
		if days >= threshold {
			return i
		}
	}
	return len(groupedRandomBands)
}

// SortCompleted orders the browsable completed list: by sequence number,
// or most recently reviewed first.
func SortCompleted(list []verse.Enriched, order CompletedOrder, loc *time.Location) {
	if order == CompletedSequential {
		sort.SliceStable(list, func(i, j int) bool { return list[i].Seq < list[j].Seq })
		return
	}
	sort.SliceStable(list, func(i, j int) bool {
		return reviewTime(list[i], loc).After(reviewTime(list[j], loc))
	})
}

// reviewTime parses the last-reviewed date; missing or malformed dates
// collapse to the zero time so they sort as oldest.
func reviewTime(v verse.Enriched, loc *time.Location) time.Time {
	if v.LastReviewed == "" {
		return time.Time{}
	}
	t, err := time.ParseInLocation(verse.DateLayout, v.LastReviewed, loc)
	if err != nil {
		return time.Time{}
	}
	return t
}
