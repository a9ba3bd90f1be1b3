package review

import (
	"math/rand"
	"time"

	"versekeep/internal/telemetry"
	"versekeep/internal/verse"
)

// StatusWriter is the single writer path for status updates. All session
// mutations funnel through it so interleaved UI surfaces cannot lose
// updates.
type StatusWriter interface {
	Update(id string, p verse.Patch) uint64
}

// CompletionLogger records one completion in the review log.
type CompletionLogger interface {
	LogCompletion(category string, now time.Time)
}

// Stats summarizes the session for the header display.
type Stats struct {
	Total            int
	Reviewed         int
	TodayCount       int
	Remaining        int
	SessionCompleted int
	TotalCompleted   int
}

// SessionOptions injects the session's ambient dependencies. Zero fields
// get production defaults.
type SessionOptions struct {
	Logger *telemetry.JSONLogger
	Rand   *rand.Rand
	Now    func() time.Time
	// Flash receives user-facing progress notices (daily-goal milestones).
	Flash func(msg string)
}

// Session is the moving cursor over one scope configuration. It owns the
// remaining/completed lists, the browse sub-mode, and the one-shot
// turn-completed latch.
type Session struct {
	statuses StatusWriter
	journal  CompletionLogger
	logger   *telemetry.JSONLogger
	rng      *rand.Rand
	now      func() time.Time
	flash    func(string)

	settings Settings
	scopeKey string

	remaining        []verse.Enriched
	completedInScope []verse.Enriched
	sessionCompleted []verse.Enriched
	total            int
	todayCount       int

	index       int
	browseIndex int
	showAnswer  bool
	browsing    bool

	exhausted     bool
	turnCompleted bool

	suppressToken uint64
	tokenArmed    bool

	goal DailyProgress
}

func NewSession(statuses StatusWriter, journal CompletionLogger, opts SessionOptions) *Session {
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Session{
		statuses: statuses,
		journal:  journal,
		logger:   opts.Logger,
		rng:      opts.Rand,
		now:      opts.Now,
		flash:    opts.Flash,
	}
}

// Configure applies a filter configuration and recomputes the scope. A
// changed configuration resets the cursor and the session-local completion
// history; an unchanged one just refreshes the lists.
func (s *Session) Configure(items []verse.Enriched, cfg Settings) error {
	cfg.Normalize()
	if key := cfg.key(); key != s.scopeKey {
		s.scopeKey = key
		s.settings = cfg
		s.index = 0
		s.sessionCompleted = nil
		s.exhausted = false
		s.turnCompleted = false
		s.tokenArmed = false
	} else {
		// Same scope: only the completed-list sort can differ.
		s.settings = cfg
	}
	return s.recompute(items)
}

// Reload refreshes the scope after an external data change. A reload
// caused by the session's own in-place edit (matching suppression token)
// is skipped so the current verse is not filtered or reordered out from
// under the user.
func (s *Session) Reload(items []verse.Enriched, version uint64) error {
	if s.tokenArmed && version == s.suppressToken {
		s.tokenArmed = false
		return nil
	}
	s.tokenArmed = false
	return s.recompute(items)
}

func (s *Session) recompute(items []verse.Enriched) error {
	sc, err := ComputeScope(items, s.settings, s.rng, s.now())
	if err != nil {
		return err
	}
	s.remaining = sc.Remaining
	s.completedInScope = sc.Completed
	s.total = sc.Total
	s.todayCount = sc.TodayCount

	// Edge-triggered: the latch fires once per transition into the
	// exhausted state, not on every recompute while still empty.
	if sc.TurnExhausted && !s.exhausted {
		s.turnCompleted = true
	}
	s.exhausted = sc.TurnExhausted

	s.showAnswer = false
	s.browsing = false
	s.browseIndex = 0
	return nil
}

func (s *Session) Settings() Settings { return s.settings }

// Current returns the verse under the cursor: the browse cursor while
// browsing, else the main cursor.
func (s *Session) Current() (verse.Enriched, bool) {
	if s.browsing {
		list := s.Browsable()
		if s.browseIndex < 0 || s.browseIndex >= len(list) {
			return verse.Enriched{}, false
		}
		return list[s.browseIndex], true
	}
	if s.index < 0 || s.index >= len(s.remaining) {
		return verse.Enriched{}, false
	}
	return s.remaining[s.index], true
}

func (s *Session) Index() int {
	if s.browsing {
		return s.browseIndex
	}
	return s.index
}

func (s *Session) ShowingAnswer() bool { return s.showAnswer }
func (s *Session) Browsing() bool      { return s.browsing }

func (s *Session) ToggleAnswer() { s.showAnswer = !s.showAnswer }

func (s *Session) Stats() Stats {
	return Stats{
		Total:            s.total,
		Reviewed:         len(s.completedInScope),
		TodayCount:       s.todayCount,
		Remaining:        len(s.remaining),
		SessionCompleted: len(s.sessionCompleted),
		TotalCompleted:   len(s.completedInScope) + len(s.sessionCompleted),
	}
}

// SetDailyProgress feeds the advisory daily goal used for milestone
// notices. Display-only; it never affects filtering.
func (s *Session) SetDailyProgress(dp DailyProgress) { s.goal = dp }

func (s *Session) DailyProgress() DailyProgress { return s.goal }

// TurnCompleted reports the one-shot turn-exhausted latch.
func (s *Session) TurnCompleted() bool { return s.turnCompleted }

// AcknowledgeTurnCompleted clears the latch after the surrounding app has
// prompted for a turn reset.
func (s *Session) AcknowledgeTurnCompleted() { s.turnCompleted = false }

// Advance completes the current verse for the active mode: flags and turn
// counters are updated, the verse moves to the session-completed list, the
// status update is persisted, and the review log is incremented. A no-op
// while browsing, in pending mode, or with nothing remaining.
func (s *Session) Advance() {
	if s.browsing || s.settings.Mode == ModePending {
		return
	}
	if s.index < 0 || s.index >= len(s.remaining) {
		return
	}
	cur := s.remaining[s.index]
	now := s.now()

	p := verse.Patch{
		LastReviewed:  verse.String(now.Format(verse.DateLayout)),
		IsUnmemorized: verse.Bool(false),
	}
	s.applyCompletion(&p, cur)

	s.notifyMilestone()

	done := cur
	p.Apply(&done.Status)
	s.sessionCompleted = append(s.sessionCompleted, done)
	s.remaining = append(s.remaining[:s.index], s.remaining[s.index+1:]...)
	if s.index > len(s.remaining) {
		s.index = len(s.remaining)
	}

	s.statuses.Update(cur.ID, p)
	if category, ok := s.settings.Mode.LogCategory(); ok && s.journal != nil {
		s.journal.LogCompletion(category, now)
	}
	s.showAnswer = false

	s.logger.Info("session.advance", map[string]any{
		"verse": cur.ID,
		"mode":  string(s.settings.Mode),
		"left":  len(s.remaining),
	})
}

// applyCompletion fills the mode's completion fields. Every completing
// mode also marks the general track; a turn-based completion raises the
// family's max-completed turn to the target and opens the next turn,
// preserving maxCompletedTurn <= currentTurn.
func (s *Session) applyCompletion(p *verse.Patch, cur verse.Enriched) {
	p.ReviewedGeneral = verse.Bool(true)
	switch s.settings.Mode {
	case ModeNew:
		p.ReviewedNew = verse.Bool(true)
	case ModeWrong:
		p.ReviewedWrong = verse.Bool(true)
	case ModeRecent:
		p.ReviewedRecent = verse.Bool(true)
	case ModeFavorite:
		p.ReviewedFavorite = verse.Bool(true)
	case ModeTurnReview, ModeTurnNew, ModeTurnRecent:
		f, _ := s.settings.Mode.Family()
		target := s.settings.TargetFor(f)
		if cur.MaxTurn(f) < target {
			p.SetMaxTurn(f, target)
		}
		p.SetTurn(f, target+1)
		switch f {
		case verse.TurnNew:
			p.ReviewedNew = verse.Bool(true)
		case verse.TurnRecent:
			p.ReviewedRecent = verse.Bool(true)
		}
	}
}

// notifyMilestone flashes when this completion crosses 50/75/100% of the
// daily goal in a turn-based mode.
func (s *Session) notifyMilestone() {
	if s.flash == nil || !s.settings.Mode.TurnBased() || s.goal.Goal <= 0 {
		return
	}
	before := float64(s.goal.CompletedToday+len(s.sessionCompleted)) / float64(s.goal.Goal) * 100
	after := float64(s.goal.CompletedToday+len(s.sessionCompleted)+1) / float64(s.goal.Goal) * 100

	switch {
	case before < 100 && after >= 100:
		s.flash("Daily goal reached. Well done!")
	case before < 75 && after >= 75:
		s.flash("75% of today's goal done.")
	case before < 50 && after >= 50:
		s.flash("Halfway through today's goal.")
	}
}

// UpdateInPlace patches the current verse's status without removing it
// from the remaining list, for mid-review flag toggles. The next reload
// matching the returned reducer version is suppressed so the cursor stays
// put.
func (s *Session) UpdateInPlace(p verse.Patch) {
	if s.browsing || s.index < 0 || s.index >= len(s.remaining) {
		return
	}
	p.Apply(&s.remaining[s.index].Status)
	s.suppressToken = s.statuses.Update(s.remaining[s.index].ID, p)
	s.tokenArmed = true
}

// Browsable is the combined pre-session and session completed list, sorted
// per the completed-list order.
func (s *Session) Browsable() []verse.Enriched {
	combined := make([]verse.Enriched, 0, len(s.completedInScope)+len(s.sessionCompleted))
	combined = append(combined, s.completedInScope...)
	combined = append(combined, s.sessionCompleted...)
	SortCompleted(combined, s.settings.CompletedOrder, s.now().Location())
	return combined
}

// CanBrowse reports whether there is anything to browse; the UI disables
// the toggle affordance when false.
func (s *Session) CanBrowse() bool {
	return len(s.completedInScope)+len(s.sessionCompleted) > 0
}

// ToggleBrowse enters or leaves the completed-list sub-mode without
// disturbing the main cursor. Entering jumps to the most recently
// session-completed verse when one exists.
func (s *Session) ToggleBrowse() {
	if !s.browsing && !s.CanBrowse() {
		return
	}
	s.showAnswer = false
	if s.browsing {
		s.browsing = false
		return
	}
	s.browsing = true
	s.browseIndex = 0
	if n := len(s.sessionCompleted); n > 0 {
		last := s.sessionCompleted[n-1]
		for i, v := range s.Browsable() {
			if v.ID == last.ID {
				s.browseIndex = i
				break
			}
		}
	}
}

// BrowseNext moves the browse cursor forward, wrapping around.
func (s *Session) BrowseNext() {
	n := len(s.completedInScope) + len(s.sessionCompleted)
	if n == 0 {
		return
	}
	s.browseIndex = (s.browseIndex + 1) % n
	s.showAnswer = false
}

// BrowsePrev moves the browse cursor backward, wrapping around.
func (s *Session) BrowsePrev() {
	n := len(s.completedInScope) + len(s.sessionCompleted)
	if n == 0 {
		return
	}
	s.browseIndex = (s.browseIndex - 1 + n) % n
	s.showAnswer = false
}
