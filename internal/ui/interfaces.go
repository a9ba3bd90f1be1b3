package ui

// Controller receives user intent from the view. The view never touches
// review state directly; every action round-trips through the app, which
// pushes a fresh ReviewState back.
type Controller interface {
	OnToggleAnswer()
	OnAdvance()
	OnToggleBrowse()
	OnBrowseNext()
	OnBrowsePrev()
	OnToggleFavorite()
	OnToggleNew()
	OnToggleWrong()
	OnToggleUnmemorized()
	OnCycleMode()
	OnCycleOrder()
	OnCycleTheme()
	OnReset(scope string, confirm bool)
	OnTurnAcknowledged()
	OnQuit()
}

// View is the surface the app drives.
type View interface {
	Run() error
	Stop()
	SetController(Controller)
	SetReviewState(ReviewState)
	SetResetOpen(open bool)
	SetTurnPromptOpen(open bool)
	SetGuide(markdown string)
	FlashStatus(msg string)
}

type LayoutMode int

const (
	LayoutWide LayoutMode = iota
	LayoutCompact
	LayoutTooSmall
)

// ReviewState is everything the review screen renders. It is a plain
// snapshot; the view holds no review logic.
type ReviewState struct {
	ModeLabel  string
	OrderLabel string
	ThemeName  string

	Seq       int
	Title     string
	Reference string
	Body      string
	Category  string
	DaysAgo   string

	ShowAnswer bool
	Browsing   bool
	CanBrowse  bool
	Empty      bool

	IsFavorite    bool
	IsNew         bool
	IsWrong       bool
	IsUnmemorized bool

	Index            int
	Remaining        int
	Total            int
	Reviewed         int
	TodayCount       int
	SessionCompleted int
	TotalCompleted   int

	Goal           int
	CompletedToday int
}

// ResetChoice is one entry in the reset overlay.
type ResetChoice struct {
	Scope string
	Label string
}

func ResetChoices() []ResetChoice {
	return []ResetChoice{
		{"category", "Category track flags"},
		{"new", "New-verse track flags"},
		{"wrong", "Missed-verse track flags"},
		{"recent", "Recent-verse track flags"},
		{"favorite", "Favorite track flags"},
		{"all_turns", "Turn counters (general)"},
		{"all_turns_new", "Turn counters (new)"},
		{"all_turns_recent", "Turn counters (recent)"},
		{"all", "Everything"},
		{"reviewLog", "Review statistics (irreversible)"},
	}
}
