package postgres

import (
	"database/sql"
	"time"

	"github.com/sonam-git/quiniela-sub001/internal/domain/week"
)

type weekTableModel struct {
	ID               int64          `db:"id"`
	WeekNumber       int            `db:"week_number"`
	WeekYear         int            `db:"week_year"`
	JornadaLabel     string         `db:"jornada_label"`
	DataSource       string         `db:"data_source"`
	Settled          bool           `db:"settled"`
	SettledAt        *time.Time     `db:"settled_at"`
	SettledBy        sql.NullString `db:"settled_by"`
	AutoSettled      bool           `db:"auto_settled"`
	ActualTotalGoals sql.NullInt64  `db:"actual_total_goals"`
	CreatedAt        time.Time      `db:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at"`
}

type matchTableModel struct {
	PublicID    string         `db:"public_id"`
	WeekNumber  int            `db:"week_number"`
	WeekYear    int            `db:"week_year"`
	Position    int            `db:"position"`
	SideA       string         `db:"side_a"`
	SideB       string         `db:"side_b"`
	SideAIsHome bool           `db:"side_a_is_home"`
	KickoffAt   time.Time      `db:"kickoff_at"`
	Completed   bool           `db:"completed"`
	ScoreA      sql.NullInt64  `db:"score_a"`
	ScoreB      sql.NullInt64  `db:"score_b"`
	Outcome     sql.NullString `db:"outcome"`
	ExternalRef sql.NullInt64  `db:"external_ref"`
	Placeholder bool           `db:"placeholder"`
}

func weekFromRow(row weekTableModel, matches []matchTableModel) week.Schedule {
	out := week.Schedule{
		Key:          week.Key{Number: row.WeekNumber, Year: row.WeekYear},
		JornadaLabel: row.JornadaLabel,
		DataSource:   week.Source(row.DataSource),
		Settled:      row.Settled,
		SettledAt:    row.SettledAt,
		AutoSettled:  row.AutoSettled,
		CreatedAt:    row.CreatedAt.UTC(),
		UpdatedAt:    row.UpdatedAt.UTC(),
	}
	if row.SettledBy.Valid {
		v := row.SettledBy.String
		out.SettledBy = &v
	}
	if row.ActualTotalGoals.Valid {
		v := int(row.ActualTotalGoals.Int64)
		out.ActualTotalGoals = &v
	}
	for _, m := range matches {
		out.Matches = append(out.Matches, matchFromRow(m))
	}
	return out
}

func matchFromRow(row matchTableModel) week.Match {
	out := week.Match{
		ID:          row.PublicID,
		SideA:       row.SideA,
		SideB:       row.SideB,
		SideAIsHome: row.SideAIsHome,
		KickoffAt:   row.KickoffAt.UTC(),
		Completed:   row.Completed,
		Placeholder: row.Placeholder,
	}
	if row.ScoreA.Valid {
		v := int(row.ScoreA.Int64)
		out.ScoreA = &v
	}
	if row.ScoreB.Valid {
		v := int(row.ScoreB.Int64)
		out.ScoreB = &v
	}
	if row.Outcome.Valid {
		out.Outcome = week.Outcome(row.Outcome.String)
	}
	if row.ExternalRef.Valid {
		out.ExternalRef = row.ExternalRef.Int64
	}
	return out
}

func matchToRow(key week.Key, position int, m week.Match) matchTableModel {
	row := matchTableModel{
		PublicID:    m.ID,
		WeekNumber:  key.Number,
		WeekYear:    key.Year,
		Position:    position,
		SideA:       m.SideA,
		SideB:       m.SideB,
		SideAIsHome: m.SideAIsHome,
		KickoffAt:   m.KickoffAt.UTC(),
		Completed:   m.Completed,
		Placeholder: m.Placeholder,
	}
	if m.ScoreA != nil {
		row.ScoreA = sql.NullInt64{Int64: int64(*m.ScoreA), Valid: true}
	}
	if m.ScoreB != nil {
		row.ScoreB = sql.NullInt64{Int64: int64(*m.ScoreB), Valid: true}
	}
	if m.Outcome != "" {
		row.Outcome = sql.NullString{String: string(m.Outcome), Valid: true}
	}
	if m.ExternalRef != 0 {
		row.ExternalRef = sql.NullInt64{Int64: m.ExternalRef, Valid: true}
	}
	return row
}
