package state

import "strings"

// Logical store keys. Every value is a JSON document.
const (
	KeyVerses        = "verses"
	KeyReviewStatus  = "review-status"
	KeyTags          = "tags"
	KeyReviewLog     = "review-log"
	KeyTurnSchedule  = "turn-schedule"
	KeyTheme         = "theme-preference"
	KeyLastAppState  = "last-app-state"
	KeyListViewState = "list-view-state"
)

// mapLike reports whether a key holds a JSON object. Everything else
// (currently only the verse list) holds a JSON array.
func mapLike(key string) bool {
	for _, frag := range []string{"status", "tags", "schedule", "log", "state", "theme"} {
		if strings.Contains(key, frag) {
			return true
		}
	}
	return false
}

// DefaultValue is what Get falls back to for a missing or corrupt entry.
func DefaultValue(key string) []byte {
	if mapLike(key) {
		return []byte("{}")
	}
	return []byte("[]")
}
