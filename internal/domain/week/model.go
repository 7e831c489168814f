package week

import (
	"fmt"
	"strings"
	"time"
)

// SlateSize is the fixed number of matches in every week's slate.
const SlateSize = 9

// LockoutLead is how long before the first kickoff submissions freeze.
const LockoutLead = 5 * time.Minute

type Outcome string

const (
	OutcomeSideA Outcome = "A"
	OutcomeSideB Outcome = "B"
	OutcomeDraw  Outcome = "draw"
)

func (o Outcome) Valid() bool {
	switch o {
	case OutcomeSideA, OutcomeSideB, OutcomeDraw:
		return true
	default:
		return false
	}
}

// DeriveOutcome maps a final score onto the pick alphabet.
func DeriveOutcome(scoreA, scoreB int) Outcome {
	switch {
	case scoreA > scoreB:
		return OutcomeSideA
	case scoreB > scoreA:
		return OutcomeSideB
	default:
		return OutcomeDraw
	}
}

type Source string

const (
	SourceExternal Source = "external"
	SourceCurated  Source = "curated"
	SourceManual   Source = "manual"
)

// Match is one fixture of a week's slate. SideA is always listed as the
// home side unless SideAIsHome says otherwise.
type Match struct {
	ID          string
	SideA       string
	SideB       string
	SideAIsHome bool
	KickoffAt   time.Time
	Completed   bool
	ScoreA      *int
	ScoreB      *int
	Outcome     Outcome
	ExternalRef int64
	Placeholder bool
}

// Schedule is one competition week: a key plus exactly SlateSize matches.
type Schedule struct {
	Key              Key
	JornadaLabel     string
	DataSource       Source
	Matches          []Match
	Settled          bool
	SettledAt        *time.Time
	SettledBy        *string
	AutoSettled      bool
	ActualTotalGoals *int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Validate enforces the slate invariants at creation time.
func (s *Schedule) Validate() error {
	if s.Key.Number < 1 || s.Key.Number > 53 || s.Key.Year < 1 {
		return fmt.Errorf("invalid week key %s", s.Key)
	}
	if len(s.Matches) != SlateSize {
		return fmt.Errorf("week %s has %d matches, want %d", s.Key, len(s.Matches), SlateSize)
	}
	seen := make(map[string]struct{}, SlateSize)
	for i := range s.Matches {
		m := &s.Matches[i]
		if strings.TrimSpace(m.ID) == "" {
			return fmt.Errorf("week %s match %d has no id", s.Key, i)
		}
		if _, dup := seen[m.ID]; dup {
			return fmt.Errorf("week %s has duplicate match id %s", s.Key, m.ID)
		}
		seen[m.ID] = struct{}{}
		if m.KickoffAt.IsZero() {
			return fmt.Errorf("week %s match %s has no kickoff time", s.Key, m.ID)
		}
	}
	return nil
}

// FindMatch returns a pointer into Matches so result updates mutate in place.
func (s *Schedule) FindMatch(matchID string) *Match {
	for i := range s.Matches {
		if s.Matches[i].ID == matchID {
			return &s.Matches[i]
		}
	}
	return nil
}

// FirstKickoff is the earliest kickoff of the slate. The second return is
// false when no match carries a kickoff time.
func (s *Schedule) FirstKickoff() (time.Time, bool) {
	var min time.Time
	for _, m := range s.Matches {
		if m.KickoffAt.IsZero() {
			continue
		}
		if min.IsZero() || m.KickoffAt.Before(min) {
			min = m.KickoffAt
		}
	}
	return min, !min.IsZero()
}

// LastKickoff is the latest kickoff of the slate.
func (s *Schedule) LastKickoff() (time.Time, bool) {
	var max time.Time
	for _, m := range s.Matches {
		if m.KickoffAt.After(max) {
			max = m.KickoffAt
		}
	}
	return max, !max.IsZero()
}

func (s *Schedule) AllCompleted() bool {
	if len(s.Matches) == 0 {
		return false
	}
	for _, m := range s.Matches {
		if !m.Completed {
			return false
		}
	}
	return true
}

// TotalGoals is the running sum of goals over completed matches. The second
// return reports whether every match contributed (all completed).
func (s *Schedule) TotalGoals() (int, bool) {
	sum := 0
	all := true
	for _, m := range s.Matches {
		if !m.Completed || m.ScoreA == nil || m.ScoreB == nil {
			all = false
			continue
		}
		sum += *m.ScoreA + *m.ScoreB
	}
	if len(s.Matches) == 0 {
		all = false
	}
	return sum, all
}

// LockoutStatus is the lockout gate's verdict for one week at one instant.
type LockoutStatus struct {
	Locked       bool
	HasStarted   bool
	LockoutAt    time.Time
	FirstKickoff time.Time
	Reason       string
}

// EvaluateLockout is a pure function of (now, schedule). A nil schedule is
// locked: there is nothing to bet on.
func EvaluateLockout(now time.Time, s *Schedule) LockoutStatus {
	if s == nil {
		return LockoutStatus{Locked: true, Reason: "no schedule for this week"}
	}
	first, ok := s.FirstKickoff()
	if !ok {
		return LockoutStatus{Locked: true, Reason: "schedule has no kickoff times"}
	}
	lockoutAt := first.Add(-LockoutLead)
	status := LockoutStatus{
		LockoutAt:    lockoutAt,
		FirstKickoff: first,
		HasStarted:   !now.Before(first),
	}
	if !now.Before(lockoutAt) {
		status.Locked = true
		status.Reason = "submission deadline has passed"
	}
	return status
}
