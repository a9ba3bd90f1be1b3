package verse

import "time"

// DateLayout is the stored last-reviewed format, e.g. "2026. 9. 1".
const DateLayout = "2006. 1. 2"

// Verse is one memorization passage. Content is read-mostly reference data;
// the review engine never edits these fields.
type Verse struct {
	ID          string `json:"id" yaml:"id"`
	Seq         int    `json:"seq" yaml:"seq"`
	Category    string `json:"category,omitempty" yaml:"category,omitempty"`
	Subcategory string `json:"subcategory,omitempty" yaml:"subcategory,omitempty"`
	Title       string `json:"title,omitempty" yaml:"title,omitempty"`
	Reference   string `json:"reference,omitempty" yaml:"reference,omitempty"`
	Body        string `json:"body,omitempty" yaml:"body,omitempty"`
}

// Status is the mutable per-verse review record, keyed by verse id and
// created lazily on first update. A zero Status is a valid empty record.
type Status struct {
	IsNew         bool `json:"isNew,omitempty"`
	IsWrong       bool `json:"isWrong,omitempty"`
	IsRecent      bool `json:"isRecent,omitempty"`
	IsFavorite    bool `json:"isFavorite,omitempty"`
	IsUnmemorized bool `json:"isUnmemorized,omitempty"`

	ReviewedGeneral  bool `json:"reviewedGeneral,omitempty"`
	ReviewedNew      bool `json:"reviewedNew,omitempty"`
	ReviewedWrong    bool `json:"reviewedWrong,omitempty"`
	ReviewedRecent   bool `json:"reviewedRecent,omitempty"`
	ReviewedFavorite bool `json:"reviewedFavorite,omitempty"`

	CurrentTurn          int `json:"currentTurn,omitempty"`
	MaxCompletedTurn     int `json:"maxCompletedTurn,omitempty"`
	CurrentTurnNew       int `json:"currentTurnForNew,omitempty"`
	MaxCompletedTurnNew  int `json:"maxCompletedTurnForNew,omitempty"`
	CurrentTurnRecent    int `json:"currentTurnForRecent,omitempty"`
	MaxCompletedTurnRecent int `json:"maxCompletedTurnForRecent,omitempty"`

	LastReviewed string `json:"lastReviewedDate,omitempty"`
}

// TurnFamily selects one of the three independent turn-counter families.
type TurnFamily int

const (
	TurnGeneral TurnFamily = iota
	TurnNew
	TurnRecent
)

// Turn returns the family's current turn; an unset counter means turn 1.
func (s Status) Turn(f TurnFamily) int {
	var v int
	switch f {
	case TurnNew:
		v = s.CurrentTurnNew
	case TurnRecent:
		v = s.CurrentTurnRecent
	default:
		v = s.CurrentTurn
	}
	if v < 1 {
		return 1
	}
	return v
}

// MaxTurn returns the family's highest fully-completed turn, zero if never.
func (s Status) MaxTurn(f TurnFamily) int {
	switch f {
	case TurnNew:
		return s.MaxCompletedTurnNew
	case TurnRecent:
		return s.MaxCompletedTurnRecent
	default:
		return s.MaxCompletedTurn
	}
}

// DaysSinceReview reports whole days between the last review and now,
// both truncated to local midnight. ok is false when never reviewed.
func (s Status) DaysSinceReview(now time.Time) (days int, ok bool) {
	if s.LastReviewed == "" {
		return 0, false
	}
	reviewed, err := time.ParseInLocation(DateLayout, s.LastReviewed, now.Location())
	if err != nil {
		return 0, false
	}
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	return int(today.Sub(reviewed).Hours() / 24), true
}

// Enriched is a verse joined with its review status.
type Enriched struct {
	Verse
	Status
}

// Enrich merges the raw verse list with the status map. An empty verse list
// yields an empty set: orphaned status records never become phantom verses.
func Enrich(verses []Verse, statuses map[string]Status) []Enriched {
	if len(verses) == 0 {
		return nil
	}
	out := make([]Enriched, 0, len(verses))
	for _, v := range verses {
		out = append(out, Enriched{Verse: v, Status: statuses[v.ID]})
	}
	return out
}
