package submission

import (
	"context"

	"github.com/sonam-git/quiniela-sub001/internal/domain/week"
)

// Repository persists submissions with a uniqueness constraint on
// (kind, owner, week) for non-placeholder rows. Create returns ErrDuplicate
// when that constraint is violated.
type Repository interface {
	Create(ctx context.Context, sub Submission) error
	Update(ctx context.Context, sub Submission) error
	Delete(ctx context.Context, id string) error
	GetByOwner(ctx context.Context, kind Kind, ownerRef string, key week.Key) (Submission, bool, error)
	ListByWeek(ctx context.Context, key week.Key) ([]Submission, error)
	DeleteByWeek(ctx context.Context, key week.Key) error
}
