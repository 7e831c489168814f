package postgres

import (
	"database/sql"
	"fmt"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/sonam-git/quiniela-sub001/internal/domain/submission"
	"github.com/sonam-git/quiniela-sub001/internal/domain/week"
)

type submissionTableModel struct {
	PublicID        string        `db:"public_id"`
	Kind            string        `db:"kind"`
	OwnerRef        string        `db:"owner_ref"`
	WeekNumber      int           `db:"week_number"`
	WeekYear        int           `db:"week_year"`
	TotalGoalsGuess int           `db:"total_goals_guess"`
	Picks           []byte        `db:"picks"`
	TotalPoints     int           `db:"total_points"`
	GoalDeviation   sql.NullInt64 `db:"goal_deviation"`
	IsWinner        bool          `db:"is_winner"`
	IsPlaceholder   bool          `db:"is_placeholder"`
	CreatedAt       time.Time     `db:"created_at"`
	UpdatedAt       time.Time     `db:"updated_at"`
}

type pickDocument struct {
	MatchID string `json:"matchId"`
	Pick    string `json:"pick"`
}

func submissionToRow(sub submission.Submission) (submissionTableModel, error) {
	docs := make([]pickDocument, 0, len(sub.Picks))
	for _, p := range sub.Picks {
		docs = append(docs, pickDocument{MatchID: p.MatchID, Pick: string(p.Pick)})
	}
	picks, err := sonic.Marshal(docs)
	if err != nil {
		return submissionTableModel{}, fmt.Errorf("encode picks: %w", err)
	}

	row := submissionTableModel{
		PublicID:        sub.ID,
		Kind:            string(sub.Kind),
		OwnerRef:        sub.OwnerRef,
		WeekNumber:      sub.Week.Number,
		WeekYear:        sub.Week.Year,
		TotalGoalsGuess: sub.TotalGoalsGuess,
		Picks:           picks,
		TotalPoints:     sub.TotalPoints,
		IsWinner:        sub.IsWinner,
		IsPlaceholder:   sub.IsPlaceholder,
		CreatedAt:       sub.CreatedAt,
		UpdatedAt:       sub.UpdatedAt,
	}
	if sub.GoalDeviation != nil {
		row.GoalDeviation = sql.NullInt64{Int64: int64(*sub.GoalDeviation), Valid: true}
	}
	return row, nil
}

func submissionFromRow(row submissionTableModel) (submission.Submission, error) {
	var docs []pickDocument
	if len(row.Picks) > 0 {
		if err := sonic.Unmarshal(row.Picks, &docs); err != nil {
			return submission.Submission{}, fmt.Errorf("decode picks for submission %s: %w", row.PublicID, err)
		}
	}

	out := submission.Submission{
		ID:              row.PublicID,
		Kind:            submission.Kind(row.Kind),
		OwnerRef:        row.OwnerRef,
		Week:            week.Key{Number: row.WeekNumber, Year: row.WeekYear},
		TotalGoalsGuess: row.TotalGoalsGuess,
		TotalPoints:     row.TotalPoints,
		IsWinner:        row.IsWinner,
		IsPlaceholder:   row.IsPlaceholder,
		CreatedAt:       row.CreatedAt.UTC(),
		UpdatedAt:       row.UpdatedAt.UTC(),
	}
	for _, d := range docs {
		out.Picks = append(out.Picks, submission.Pick{MatchID: d.MatchID, Pick: week.Outcome(d.Pick)})
	}
	if row.GoalDeviation.Valid {
		v := int(row.GoalDeviation.Int64)
		out.GoalDeviation = &v
	}
	return out, nil
}
