package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/sonam-git/quiniela-sub001/internal/domain/submission"
	"github.com/sonam-git/quiniela-sub001/internal/domain/week"
)

type SubmissionRepository struct {
	db *sqlx.DB
}

func NewSubmissionRepository(db *sqlx.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

func (r *SubmissionRepository) Create(ctx context.Context, sub submission.Submission) error {
	row, err := submissionToRow(sub)
	if err != nil {
		return err
	}

	_, err = r.db.NamedExecContext(ctx, `
		INSERT INTO submissions (
			public_id, kind, owner_ref, week_year, week_number,
			total_goals_guess, picks, total_points, goal_deviation,
			is_winner, is_placeholder, created_at, updated_at
		) VALUES (
			:public_id, :kind, :owner_ref, :week_year, :week_number,
			:total_goals_guess, :picks, :total_points, :goal_deviation,
			:is_winner, :is_placeholder, :created_at, :updated_at
		)`, row)
	if err != nil {
		if isUniqueViolation(err) {
			return submission.ErrDuplicate
		}
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}

func (r *SubmissionRepository) Update(ctx context.Context, sub submission.Submission) error {
	row, err := submissionToRow(sub)
	if err != nil {
		return err
	}

	_, err = r.db.NamedExecContext(ctx, `
		UPDATE submissions SET
			total_goals_guess = :total_goals_guess,
			picks = :picks,
			total_points = :total_points,
			goal_deviation = :goal_deviation,
			is_winner = :is_winner,
			updated_at = :updated_at
		WHERE public_id = :public_id`, row)
	if err != nil {
		return fmt.Errorf("update submission: %w", err)
	}
	return nil
}

func (r *SubmissionRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM submissions WHERE public_id = $1`, id); err != nil {
		return fmt.Errorf("delete submission: %w", err)
	}
	return nil
}

func (r *SubmissionRepository) GetByOwner(ctx context.Context, kind submission.Kind, ownerRef string, key week.Key) (submission.Submission, bool, error) {
	var row submissionTableModel
	err := r.db.GetContext(ctx, &row, `
		SELECT * FROM submissions
		WHERE kind = $1 AND owner_ref = $2 AND week_year = $3 AND week_number = $4
		  AND NOT is_placeholder`,
		string(kind), ownerRef, key.Year, key.Number)
	if err != nil {
		if isNotFound(err) {
			return submission.Submission{}, false, nil
		}
		return submission.Submission{}, false, fmt.Errorf("get submission by owner: %w", err)
	}

	sub, err := submissionFromRow(row)
	if err != nil {
		return submission.Submission{}, false, err
	}
	return sub, true, nil
}

func (r *SubmissionRepository) ListByWeek(ctx context.Context, key week.Key) ([]submission.Submission, error) {
	var rows []submissionTableModel
	err := r.db.SelectContext(ctx, &rows, `
		SELECT * FROM submissions
		WHERE week_year = $1 AND week_number = $2
		ORDER BY created_at, public_id`,
		key.Year, key.Number)
	if err != nil {
		return nil, fmt.Errorf("select week submissions: %w", err)
	}

	out := make([]submission.Submission, 0, len(rows))
	for _, row := range rows {
		sub, err := submissionFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, sub)
	}
	return out, nil
}

func (r *SubmissionRepository) DeleteByWeek(ctx context.Context, key week.Key) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM submissions WHERE week_year = $1 AND week_number = $2`,
		key.Year, key.Number); err != nil {
		return fmt.Errorf("delete week submissions: %w", err)
	}
	return nil
}
