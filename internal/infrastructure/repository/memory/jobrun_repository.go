package memory

import (
	"context"
	"sync"

	"github.com/sonam-git/quiniela-sub001/internal/domain/jobrun"
)

type JobRunRepository struct {
	mu     sync.RWMutex
	events []jobrun.RunEvent
}

func NewJobRunRepository() *JobRunRepository {
	return &JobRunRepository{}
}

func (r *JobRunRepository) Record(_ context.Context, event jobrun.RunEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, event)

	return nil
}

// ListRecent returns the newest events first.
func (r *JobRunRepository) ListRecent(_ context.Context, limit int) ([]jobrun.RunEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := len(r.events)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]jobrun.RunEvent, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, r.events[i])
	}

	return out, nil
}
