package review

import (
	"fmt"

	"versekeep/internal/verse"
)

// Mode selects which review track is active. It is a closed set: anything
// outside it is a programming error and is rejected up front rather than
// silently widened to a pass-all filter.
type Mode string

const (
	ModeCategory   Mode = "category"
	ModeNew        Mode = "new"
	ModeWrong      Mode = "wrong"
	ModeFavorite   Mode = "favorite"
	ModeRecent     Mode = "recent"
	ModeTurnReview Mode = "turnBasedReview"
	ModeTurnNew    Mode = "turnBasedNew"
	ModeTurnRecent Mode = "turnBasedRecent"
	ModePending    Mode = "pending"
)

// Modes lists every mode in presentation order.
func Modes() []Mode {
	return []Mode{
		ModeCategory, ModeNew, ModeWrong, ModeFavorite, ModeRecent,
		ModeTurnReview, ModeTurnNew, ModeTurnRecent, ModePending,
	}
}

func ParseMode(raw string) (Mode, error) {
	m := Mode(raw)
	for _, known := range Modes() {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown review mode %q", raw)
}

// TurnBased reports whether the mode completes by turn counter rather than
// a per-track boolean flag.
func (m Mode) TurnBased() bool {
	switch m {
	case ModeTurnReview, ModeTurnNew, ModeTurnRecent:
		return true
	}
	return false
}

// Family returns the turn-counter family a turn-based mode advances.
func (m Mode) Family() (verse.TurnFamily, bool) {
	switch m {
	case ModeTurnReview:
		return verse.TurnGeneral, true
	case ModeTurnNew:
		return verse.TurnNew, true
	case ModeTurnRecent:
		return verse.TurnRecent, true
	}
	return 0, false
}

// LogCategory maps the mode to its review-log bucket. Pending reviews are
// not logged.
func (m Mode) LogCategory() (string, bool) {
	switch m {
	case ModeCategory, ModeTurnReview:
		return "general", true
	case ModeNew, ModeTurnNew:
		return "new", true
	case ModeRecent, ModeTurnRecent:
		return "recent", true
	case ModeFavorite:
		return "favorite", true
	case ModeWrong:
		return "wrong", true
	}
	return "", false
}

// Label is the short human name shown in the UI header.
func (m Mode) Label() string {
	switch m {
	case ModeCategory:
		return "category"
	case ModeNew:
		return "new verses"
	case ModeWrong:
		return "missed verses"
	case ModeFavorite:
		return "favorites"
	case ModeRecent:
		return "recent verses"
	case ModeTurnReview:
		return "turn review"
	case ModeTurnNew:
		return "turn review (new)"
	case ModeTurnRecent:
		return "turn review (recent)"
	case ModePending:
		return "not yet memorized"
	}
	return string(m)
}
