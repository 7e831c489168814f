package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/sonam-git/quiniela-sub001/internal/domain/week"
)

type WeekRepository struct {
	db *sqlx.DB
}

func NewWeekRepository(db *sqlx.DB) *WeekRepository {
	return &WeekRepository{db: db}
}

func (r *WeekRepository) Get(ctx context.Context, key week.Key) (week.Schedule, bool, error) {
	var row weekTableModel
	err := r.db.GetContext(ctx, &row,
		`SELECT * FROM weeks WHERE week_year = $1 AND week_number = $2`,
		key.Year, key.Number)
	if err != nil {
		if isNotFound(err) {
			return week.Schedule{}, false, nil
		}
		return week.Schedule{}, false, fmt.Errorf("get week: %w", err)
	}

	matches, err := r.matchesFor(ctx, key)
	if err != nil {
		return week.Schedule{}, false, err
	}
	return weekFromRow(row, matches), true, nil
}

// Save upserts the week row and rewrites its match rows in one transaction.
func (r *WeekRepository) Save(ctx context.Context, schedule week.Schedule) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save week tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var settledBy sql.NullString
	if schedule.SettledBy != nil {
		settledBy = sql.NullString{String: *schedule.SettledBy, Valid: true}
	}
	var actualTotalGoals sql.NullInt64
	if schedule.ActualTotalGoals != nil {
		actualTotalGoals = sql.NullInt64{Int64: int64(*schedule.ActualTotalGoals), Valid: true}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO weeks (
			week_year, week_number, jornada_label, data_source, settled,
			settled_at, settled_by, auto_settled, actual_total_goals,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (week_year, week_number) DO UPDATE SET
			jornada_label = EXCLUDED.jornada_label,
			data_source = EXCLUDED.data_source,
			settled = EXCLUDED.settled,
			settled_at = EXCLUDED.settled_at,
			settled_by = EXCLUDED.settled_by,
			auto_settled = EXCLUDED.auto_settled,
			actual_total_goals = EXCLUDED.actual_total_goals,
			updated_at = EXCLUDED.updated_at`,
		schedule.Key.Year, schedule.Key.Number, schedule.JornadaLabel,
		string(schedule.DataSource), schedule.Settled, schedule.SettledAt,
		settledBy, schedule.AutoSettled, actualTotalGoals,
		schedule.CreatedAt, schedule.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert week: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`DELETE FROM matches WHERE week_year = $1 AND week_number = $2`,
		schedule.Key.Year, schedule.Key.Number)
	if err != nil {
		return fmt.Errorf("clear week matches: %w", err)
	}

	for i, m := range schedule.Matches {
		row := matchToRow(schedule.Key, i, m)
		_, err = tx.NamedExecContext(ctx, `
			INSERT INTO matches (
				public_id, week_year, week_number, position, side_a, side_b,
				side_a_is_home, kickoff_at, completed, score_a, score_b,
				outcome, external_ref, placeholder
			) VALUES (
				:public_id, :week_year, :week_number, :position, :side_a, :side_b,
				:side_a_is_home, :kickoff_at, :completed, :score_a, :score_b,
				:outcome, :external_ref, :placeholder
			)`, row)
		if err != nil {
			return fmt.Errorf("insert match %s: %w", m.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save week tx: %w", err)
	}
	return nil
}

func (r *WeekRepository) Delete(ctx context.Context, key week.Key) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete week tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM matches WHERE week_year = $1 AND week_number = $2`,
		key.Year, key.Number); err != nil {
		return fmt.Errorf("delete week matches: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM weeks WHERE week_year = $1 AND week_number = $2`,
		key.Year, key.Number); err != nil {
		return fmt.Errorf("delete week: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete week tx: %w", err)
	}
	return nil
}

func (r *WeekRepository) List(ctx context.Context) ([]week.Schedule, error) {
	return r.list(ctx, `SELECT * FROM weeks ORDER BY week_year, week_number`)
}

func (r *WeekRepository) ListUnsettled(ctx context.Context) ([]week.Schedule, error) {
	return r.list(ctx, `SELECT * FROM weeks WHERE NOT settled ORDER BY week_year, week_number`)
}

func (r *WeekRepository) list(ctx context.Context, query string) ([]week.Schedule, error) {
	var rows []weekTableModel
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("select weeks: %w", err)
	}

	out := make([]week.Schedule, 0, len(rows))
	for _, row := range rows {
		key := week.Key{Number: row.WeekNumber, Year: row.WeekYear}
		matches, err := r.matchesFor(ctx, key)
		if err != nil {
			return nil, err
		}
		out = append(out, weekFromRow(row, matches))
	}
	return out, nil
}

func (r *WeekRepository) matchesFor(ctx context.Context, key week.Key) ([]matchTableModel, error) {
	var rows []matchTableModel
	err := r.db.SelectContext(ctx, &rows,
		`SELECT * FROM matches WHERE week_year = $1 AND week_number = $2 ORDER BY position`,
		key.Year, key.Number)
	if err != nil {
		return nil, fmt.Errorf("select week matches: %w", err)
	}
	return rows, nil
}
