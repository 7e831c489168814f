package submission

import (
	"errors"
	"time"

	"github.com/sonam-git/quiniela-sub001/internal/domain/week"
)

// ErrDuplicate reports a second non-placeholder submission for the same
// (kind, owner, week). Repositories map their uniqueness violations onto it.
var ErrDuplicate = errors.New("duplicate submission for owner and week")

type Kind string

const (
	KindUser  Kind = "user"
	KindGuest Kind = "guest"
)

func (k Kind) Valid() bool {
	return k == KindUser || k == KindGuest
}

type Pick struct {
	MatchID string
	Pick    week.Outcome
}

// Submission is one participant's predictions for a week. User and guest
// submissions share the shape; Kind tells the owner reference apart.
type Submission struct {
	ID              string
	Kind            Kind
	OwnerRef        string
	Week            week.Key
	TotalGoalsGuess int
	Picks           []Pick
	TotalPoints     int
	GoalDeviation   *int
	IsWinner        bool
	IsPlaceholder   bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
