package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sonam-git/quiniela-sub001/internal/domain/jobrun"
)

type jobRunTableModel struct {
	PublicID   string         `db:"public_id"`
	JobName    string         `db:"job_name"`
	Status     string         `db:"status"`
	Detail     sql.NullString `db:"detail"`
	Error      sql.NullString `db:"error"`
	OccurredAt time.Time      `db:"occurred_at"`
}

type JobRunRepository struct {
	db *sqlx.DB
}

func NewJobRunRepository(db *sqlx.DB) *JobRunRepository {
	return &JobRunRepository{db: db}
}

func (r *JobRunRepository) Record(ctx context.Context, event jobrun.RunEvent) error {
	row := jobRunTableModel{
		PublicID:   event.ID,
		JobName:    event.JobName,
		Status:     event.Status,
		OccurredAt: event.OccurredAt,
	}
	if event.Detail != "" {
		row.Detail = sql.NullString{String: event.Detail, Valid: true}
	}
	if event.Error != "" {
		row.Error = sql.NullString{String: event.Error, Valid: true}
	}

	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO job_runs (public_id, job_name, status, detail, error, occurred_at)
		VALUES (:public_id, :job_name, :status, :detail, :error, :occurred_at)`, row)
	if err != nil {
		return fmt.Errorf("insert job run: %w", err)
	}
	return nil
}

func (r *JobRunRepository) ListRecent(ctx context.Context, limit int) ([]jobrun.RunEvent, error) {
	if limit <= 0 {
		limit = 50
	}

	var rows []jobRunTableModel
	err := r.db.SelectContext(ctx, &rows,
		`SELECT * FROM job_runs ORDER BY occurred_at DESC, public_id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("select job runs: %w", err)
	}

	out := make([]jobrun.RunEvent, 0, len(rows))
	for _, row := range rows {
		out = append(out, jobrun.RunEvent{
			ID:         row.PublicID,
			JobName:    row.JobName,
			Status:     row.Status,
			Detail:     row.Detail.String,
			Error:      row.Error.String,
			OccurredAt: row.OccurredAt.UTC(),
		})
	}
	return out, nil
}
