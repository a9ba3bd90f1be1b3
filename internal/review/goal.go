package review

import (
	"math"
	"time"

	"versekeep/internal/verse"
)

// TurnWindow is the scheduled date range for one target turn.
type TurnWindow struct {
	Start string `json:"startDate"`
	End   string `json:"endDate"`
}

// Schedule maps a target turn number to its date window.
type Schedule map[int]TurnWindow

// DailyProgress is the advisory daily target for the turn review track.
// It feeds the progress display only and never gates scope inclusion.
type DailyProgress struct {
	Goal           int
	CompletedToday int
}

const windowLayout = "2006-01-02"

// DailyGoal derives today's remaining quota: the expected cumulative pace
// through today, minus verses already at the target turn, clamped at zero.
// Outside the schedule window, or without one, there is no goal.
func DailyGoal(items []verse.Enriched, cfg Settings, sched Schedule, log Log, now time.Time) DailyProgress {
	var dp DailyProgress
	if cfg.Mode != ModeTurnReview {
		return dp
	}
	dp.CompletedToday = log[KSTDay(now)]["general"]

	window, ok := sched[cfg.TargetTurn]
	if !ok || window.Start == "" || window.End == "" {
		return dp
	}
	start, err := time.ParseInLocation(windowLayout, window.Start, now.Location())
	if err != nil {
		return dp
	}
	end, err := time.ParseInLocation(windowLayout, window.End, now.Location())
	if err != nil {
		return dp
	}

	total := 0
	atTarget := 0
	for _, v := range items {
		if v.IsUnmemorized || v.IsNew || v.IsRecent || !cfg.matchesCategory(v) {
			continue
		}
		total++
		if v.MaxTurn(verse.TurnGeneral) >= cfg.TargetTurn {
			atTarget++
		}
	}
	if total == 0 {
		return dp
	}

	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	if today.Before(start) || today.After(end) {
		return dp
	}

	// Inclusive day counts: reviewing on the start date is day 1.
	totalDays := int(end.Sub(start).Hours()/24) + 1
	elapsedDays := int(today.Sub(start).Hours()/24) + 1
	if totalDays <= 0 {
		return dp
	}

	expected := int(math.Floor(float64(elapsedDays) * float64(total) / float64(totalDays)))
	if goal := expected - atTarget; goal > 0 {
		dp.Goal = goal
	}
	return dp
}
