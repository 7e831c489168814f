package week

import "context"

// Repository persists weekly schedules, unique per Key.
type Repository interface {
	Get(ctx context.Context, key Key) (Schedule, bool, error)
	Save(ctx context.Context, schedule Schedule) error
	Delete(ctx context.Context, key Key) error
	List(ctx context.Context) ([]Schedule, error)
	ListUnsettled(ctx context.Context) ([]Schedule, error)
}
