package review

import (
	"fmt"
	"strings"

	"versekeep/internal/verse"
)

// Order is the presentation order of the remaining list.
type Order string

const (
	OrderSequential    Order = "sequential"
	OrderRandom        Order = "random"
	OrderOldestFirst   Order = "oldest_first"
	OrderGroupedRandom Order = "grouped_random"
)

func Orders() []Order {
	return []Order{OrderSequential, OrderRandom, OrderOldestFirst, OrderGroupedRandom}
}

func ParseOrder(raw string) (Order, error) {
	o := Order(raw)
	for _, known := range Orders() {
		if o == known {
			return o, nil
		}
	}
	return "", fmt.Errorf("unknown order %q", raw)
}

// CompletedOrder sorts the browsable completed list.
type CompletedOrder string

const (
	CompletedSequential CompletedOrder = "sequential"
	CompletedRecent     CompletedOrder = "recent"
)

func ParseCompletedOrder(raw string) (CompletedOrder, error) {
	switch o := CompletedOrder(raw); o {
	case CompletedSequential, CompletedRecent:
		return o, nil
	}
	return "", fmt.Errorf("unknown completed order %q", raw)
}

// Settings is the immutable filter configuration a session is scoped to.
// Empty category/subcategory slices mean "all".
type Settings struct {
	Mode            Mode           `json:"mode"`
	Categories      []string       `json:"categories,omitempty"`
	Subcategories   []string       `json:"subcategories,omitempty"`
	Order           Order          `json:"order"`
	CompletedOrder  CompletedOrder `json:"completedOrder"`
	TargetTurn      int            `json:"targetTurn"`
	TargetTurnNew   int            `json:"targetTurnForNew"`
	TargetTurnRecent int           `json:"targetTurnForRecent"`
}

func DefaultSettings() Settings {
	return Settings{
		Mode:             ModeCategory,
		Order:            OrderSequential,
		CompletedOrder:   CompletedRecent,
		TargetTurn:       1,
		TargetTurnNew:    1,
		TargetTurnRecent: 1,
	}
}

// Normalize fills zero values so settings restored from an older stored
// state are always usable.
func (s *Settings) Normalize() {
	if s.Mode == "" {
		s.Mode = ModeCategory
	}
	if s.Order == "" {
		s.Order = OrderSequential
	}
	if s.CompletedOrder == "" {
		s.CompletedOrder = CompletedRecent
	}
	if s.TargetTurn < 1 {
		s.TargetTurn = 1
	}
	if s.TargetTurnNew < 1 {
		s.TargetTurnNew = 1
	}
	if s.TargetTurnRecent < 1 {
		s.TargetTurnRecent = 1
	}
}

// TargetFor returns the active target turn for a counter family.
func (s Settings) TargetFor(f verse.TurnFamily) int {
	switch f {
	case verse.TurnNew:
		return s.TargetTurnNew
	case verse.TurnRecent:
		return s.TargetTurnRecent
	default:
		return s.TargetTurn
	}
}

// matchesCategory applies the category and subcategory selection.
func (s Settings) matchesCategory(v verse.Enriched) bool {
	return matchSelection(s.Categories, v.Category) && matchSelection(s.Subcategories, v.Subcategory)
}

func matchSelection(selected []string, value string) bool {
	if len(selected) == 0 {
		return true
	}
	for _, sel := range selected {
		if sel == value {
			return true
		}
	}
	return false
}

// key identifies the session scope. Any change resets the cursor and the
// session-local completion history. The completed-list sort is deliberately
// excluded: re-sorting the browse list must not tear down a session.
func (s Settings) key() string {
	return strings.Join([]string{
		string(s.Mode),
		strings.Join(s.Categories, ","),
		strings.Join(s.Subcategories, ","),
		string(s.Order),
		fmt.Sprintf("%d/%d/%d", s.TargetTurn, s.TargetTurnNew, s.TargetTurnRecent),
	}, "|")
}
