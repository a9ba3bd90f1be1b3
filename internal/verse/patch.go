package verse

// Patch is a partial status update. Nil fields are left untouched, so a
// patch can flip one flag without clobbering the rest of the record.
type Patch struct {
	IsNew         *bool
	IsWrong       *bool
	IsRecent      *bool
	IsFavorite    *bool
	IsUnmemorized *bool

	ReviewedGeneral  *bool
	ReviewedNew      *bool
	ReviewedWrong    *bool
	ReviewedRecent   *bool
	ReviewedFavorite *bool

	CurrentTurn          *int
	MaxCompletedTurn     *int
	CurrentTurnNew       *int
	MaxCompletedTurnNew  *int
	CurrentTurnRecent    *int
	MaxCompletedTurnRecent *int

	LastReviewed *string
}

func Bool(v bool) *bool      { return &v }
func Int(v int) *int         { return &v }
func String(v string) *string { return &v }

// SetTurn records the family's current-turn counter in the patch.
func (p *Patch) SetTurn(f TurnFamily, n int) {
	switch f {
	case TurnNew:
		p.CurrentTurnNew = Int(n)
	case TurnRecent:
		p.CurrentTurnRecent = Int(n)
	default:
		p.CurrentTurn = Int(n)
	}
}

// SetMaxTurn records the family's max-completed-turn counter in the patch.
func (p *Patch) SetMaxTurn(f TurnFamily, n int) {
	switch f {
	case TurnNew:
		p.MaxCompletedTurnNew = Int(n)
	case TurnRecent:
		p.MaxCompletedTurnRecent = Int(n)
	default:
		p.MaxCompletedTurn = Int(n)
	}
}

// Apply merges the patch into s, field by field.
func (p Patch) Apply(s *Status) {
	setBool := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
		}
	}
	setInt := func(dst *int, src *int) {
		if src != nil {
			*dst = *src
		}
	}

	setBool(&s.IsNew, p.IsNew)
	setBool(&s.IsWrong, p.IsWrong)
	setBool(&s.IsRecent, p.IsRecent)
	setBool(&s.IsFavorite, p.IsFavorite)
	setBool(&s.IsUnmemorized, p.IsUnmemorized)

	setBool(&s.ReviewedGeneral, p.ReviewedGeneral)
	setBool(&s.ReviewedNew, p.ReviewedNew)
	setBool(&s.ReviewedWrong, p.ReviewedWrong)
	setBool(&s.ReviewedRecent, p.ReviewedRecent)
	setBool(&s.ReviewedFavorite, p.ReviewedFavorite)

	setInt(&s.CurrentTurn, p.CurrentTurn)
	setInt(&s.MaxCompletedTurn, p.MaxCompletedTurn)
	setInt(&s.CurrentTurnNew, p.CurrentTurnNew)
	setInt(&s.MaxCompletedTurnNew, p.MaxCompletedTurnNew)
	setInt(&s.CurrentTurnRecent, p.CurrentTurnRecent)
	setInt(&s.MaxCompletedTurnRecent, p.MaxCompletedTurnRecent)

	if p.LastReviewed != nil {
		s.LastReviewed = *p.LastReviewed
	}
}
