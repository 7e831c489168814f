package jobrun

import "context"

type Repository interface {
	Record(ctx context.Context, event RunEvent) error
	ListRecent(ctx context.Context, limit int) ([]RunEvent, error)
}
