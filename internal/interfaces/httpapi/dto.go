package httpapi

import (
	"time"

	"github.com/sonam-git/quiniela-sub001/internal/domain/jobrun"
	"github.com/sonam-git/quiniela-sub001/internal/domain/submission"
	"github.com/sonam-git/quiniela-sub001/internal/domain/week"
)

type matchDTO struct {
	ID          string    `json:"id"`
	SideA       string    `json:"sideA"`
	SideB       string    `json:"sideB"`
	SideAIsHome bool      `json:"sideAIsHome"`
	KickoffAt   time.Time `json:"kickoffAt"`
	Completed   bool      `json:"completed"`
	ScoreA      *int      `json:"scoreA,omitempty"`
	ScoreB      *int      `json:"scoreB,omitempty"`
	Outcome     string    `json:"outcome,omitempty"`
	Placeholder bool      `json:"placeholder,omitempty"`
}

type weekDTO struct {
	WeekNumber       int        `json:"weekNumber"`
	Year             int        `json:"year"`
	JornadaLabel     string     `json:"jornadaLabel,omitempty"`
	DataSource       string     `json:"dataSource"`
	Settled          bool       `json:"settled"`
	SettledAt        *time.Time `json:"settledAt,omitempty"`
	SettledBy        *string    `json:"settledBy,omitempty"`
	AutoSettled      bool       `json:"autoSettled"`
	ActualTotalGoals *int       `json:"actualTotalGoals,omitempty"`
	Matches          []matchDTO `json:"matches"`
}

type lockoutDTO struct {
	Locked       bool       `json:"locked"`
	HasStarted   bool       `json:"hasStarted"`
	LockoutAt    *time.Time `json:"lockoutAt,omitempty"`
	FirstKickoff *time.Time `json:"firstKickoff,omitempty"`
	Reason       string     `json:"reason,omitempty"`
}

type submissionDTO struct {
	ID              string    `json:"id"`
	Kind            string    `json:"kind"`
	OwnerRef        string    `json:"ownerRef"`
	WeekNumber      int       `json:"weekNumber"`
	Year            int       `json:"year"`
	TotalGoalsGuess int       `json:"totalGoalsGuess"`
	Picks           []pickDTO `json:"picks"`
	TotalPoints     int       `json:"totalPoints"`
	GoalDeviation   *int      `json:"goalDeviation,omitempty"`
	IsWinner        bool      `json:"isWinner"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type pickDTO struct {
	MatchID string `json:"matchId" validate:"required"`
	Pick    string `json:"pick" validate:"required,oneof=A B draw"`
}

type submissionRequestDTO struct {
	Kind            string    `json:"kind" validate:"required,oneof=user guest"`
	OwnerRef        string    `json:"ownerRef" validate:"required"`
	TotalGoalsGuess int       `json:"totalGoalsGuess" validate:"gte=0"`
	Picks           []pickDTO `json:"picks" validate:"required,len=9,dive"`
}

type buildWeekRequestDTO struct {
	Jornada int    `json:"jornada" validate:"gte=0"`
	Target  string `json:"target" validate:"omitempty,oneof=current next"`
	Force   bool   `json:"force"`
}

type matchResultRequestDTO struct {
	ScoreA    int  `json:"scoreA" validate:"gte=0"`
	ScoreB    int  `json:"scoreB" validate:"gte=0"`
	Completed bool `json:"completed"`
}

type settleRequestDTO struct {
	SettledBy string `json:"settledBy"`
}

type settleResultDTO struct {
	WeekNumber       int  `json:"weekNumber"`
	Year             int  `json:"year"`
	WinnerCount      int  `json:"winnerCount"`
	ActualTotalGoals int  `json:"actualTotalGoals"`
	AutoSettled      bool `json:"autoSettled"`
}

type syncResultDTO struct {
	ChangedMatches int `json:"changedMatches"`
}

type jobRunDTO struct {
	ID         string    `json:"id"`
	JobName    string    `json:"jobName"`
	Status     string    `json:"status"`
	Detail     string    `json:"detail,omitempty"`
	Error      string    `json:"error,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

func weekToDTO(s week.Schedule) weekDTO {
	out := weekDTO{
		WeekNumber:       s.Key.Number,
		Year:             s.Key.Year,
		JornadaLabel:     s.JornadaLabel,
		DataSource:       string(s.DataSource),
		Settled:          s.Settled,
		SettledAt:        s.SettledAt,
		SettledBy:        s.SettledBy,
		AutoSettled:      s.AutoSettled,
		ActualTotalGoals: s.ActualTotalGoals,
		Matches:          make([]matchDTO, 0, len(s.Matches)),
	}
	for _, m := range s.Matches {
		out.Matches = append(out.Matches, matchDTO{
			ID:          m.ID,
			SideA:       m.SideA,
			SideB:       m.SideB,
			SideAIsHome: m.SideAIsHome,
			KickoffAt:   m.KickoffAt,
			Completed:   m.Completed,
			ScoreA:      m.ScoreA,
			ScoreB:      m.ScoreB,
			Outcome:     string(m.Outcome),
			Placeholder: m.Placeholder,
		})
	}
	return out
}

func lockoutToDTO(status week.LockoutStatus) lockoutDTO {
	out := lockoutDTO{
		Locked:     status.Locked,
		HasStarted: status.HasStarted,
		Reason:     status.Reason,
	}
	if !status.LockoutAt.IsZero() {
		v := status.LockoutAt
		out.LockoutAt = &v
	}
	if !status.FirstKickoff.IsZero() {
		v := status.FirstKickoff
		out.FirstKickoff = &v
	}
	return out
}

func submissionToDTO(sub submission.Submission) submissionDTO {
	out := submissionDTO{
		ID:              sub.ID,
		Kind:            string(sub.Kind),
		OwnerRef:        sub.OwnerRef,
		WeekNumber:      sub.Week.Number,
		Year:            sub.Week.Year,
		TotalGoalsGuess: sub.TotalGoalsGuess,
		Picks:           make([]pickDTO, 0, len(sub.Picks)),
		TotalPoints:     sub.TotalPoints,
		GoalDeviation:   sub.GoalDeviation,
		IsWinner:        sub.IsWinner,
		CreatedAt:       sub.CreatedAt,
		UpdatedAt:       sub.UpdatedAt,
	}
	for _, p := range sub.Picks {
		out.Picks = append(out.Picks, pickDTO{MatchID: p.MatchID, Pick: string(p.Pick)})
	}
	return out
}

func jobRunToDTO(event jobrun.RunEvent) jobRunDTO {
	return jobRunDTO{
		ID:         event.ID,
		JobName:    event.JobName,
		Status:     event.Status,
		Detail:     event.Detail,
		Error:      event.Error,
		OccurredAt: event.OccurredAt,
	}
}
