package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sonam-git/quiniela-sub001/internal/domain/submission"
	"github.com/sonam-git/quiniela-sub001/internal/domain/week"
)

type SubmissionRepository struct {
	mu    sync.RWMutex
	items map[string]submission.Submission
}

func NewSubmissionRepository() *SubmissionRepository {
	return &SubmissionRepository{
		items: make(map[string]submission.Submission),
	}
}

func (r *SubmissionRepository) Create(_ context.Context, sub submission.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !sub.IsPlaceholder {
		for _, existing := range r.items {
			if existing.IsPlaceholder {
				continue
			}
			if existing.Kind == sub.Kind && existing.OwnerRef == sub.OwnerRef && existing.Week == sub.Week {
				return submission.ErrDuplicate
			}
		}
	}
	r.items[sub.ID] = cloneSubmission(sub)

	return nil
}

func (r *SubmissionRepository) Update(_ context.Context, sub submission.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[sub.ID]; !ok {
		return nil
	}
	r.items[sub.ID] = cloneSubmission(sub)

	return nil
}

func (r *SubmissionRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.items, id)

	return nil
}

func (r *SubmissionRepository) GetByOwner(_ context.Context, kind submission.Kind, ownerRef string, key week.Key) (submission.Submission, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, sub := range r.items {
		if sub.Kind == kind && sub.OwnerRef == ownerRef && sub.Week == key && !sub.IsPlaceholder {
			return cloneSubmission(sub), true, nil
		}
	}

	return submission.Submission{}, false, nil
}

func (r *SubmissionRepository) ListByWeek(_ context.Context, key week.Key) ([]submission.Submission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]submission.Submission, 0)
	for _, sub := range r.items {
		if sub.Week == key {
			out = append(out, cloneSubmission(sub))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

func (r *SubmissionRepository) DeleteByWeek(_ context.Context, key week.Key) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, sub := range r.items {
		if sub.Week == key {
			delete(r.items, id)
		}
	}

	return nil
}

func cloneSubmission(sub submission.Submission) submission.Submission {
	out := sub
	out.Picks = append([]submission.Pick(nil), sub.Picks...)
	out.GoalDeviation = cloneIntPtr(sub.GoalDeviation)

	return out
}

func cloneIntPtr(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneStringPtr(v *string) *string {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneTimePtr(v *time.Time) *time.Time {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
