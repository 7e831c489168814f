package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/sonam-git/quiniela-sub001/internal/domain/week"
)

type WeekRepository struct {
	mu    sync.RWMutex
	items map[week.Key]week.Schedule
}

func NewWeekRepository() *WeekRepository {
	return &WeekRepository{
		items: make(map[week.Key]week.Schedule),
	}
}

func (r *WeekRepository) Get(_ context.Context, key week.Key) (week.Schedule, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.items[key]
	if !ok {
		return week.Schedule{}, false, nil
	}

	return cloneSchedule(s), true, nil
}

func (r *WeekRepository) Save(_ context.Context, schedule week.Schedule) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[schedule.Key] = cloneSchedule(schedule)

	return nil
}

func (r *WeekRepository) Delete(_ context.Context, key week.Key) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.items, key)

	return nil
}

func (r *WeekRepository) List(_ context.Context) ([]week.Schedule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]week.Schedule, 0, len(r.items))
	for _, s := range r.items {
		out = append(out, cloneSchedule(s))
	}
	sortSchedules(out)

	return out, nil
}

func (r *WeekRepository) ListUnsettled(_ context.Context) ([]week.Schedule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]week.Schedule, 0, len(r.items))
	for _, s := range r.items {
		if s.Settled {
			continue
		}
		out = append(out, cloneSchedule(s))
	}
	sortSchedules(out)

	return out, nil
}

// cloneSchedule detaches the match slice and pointer fields so callers
// never share memory with the store.
func cloneSchedule(s week.Schedule) week.Schedule {
	out := s
	out.Matches = make([]week.Match, len(s.Matches))
	for i, m := range s.Matches {
		out.Matches[i] = m
		out.Matches[i].ScoreA = cloneIntPtr(m.ScoreA)
		out.Matches[i].ScoreB = cloneIntPtr(m.ScoreB)
	}
	out.SettledAt = cloneTimePtr(s.SettledAt)
	out.SettledBy = cloneStringPtr(s.SettledBy)
	out.ActualTotalGoals = cloneIntPtr(s.ActualTotalGoals)

	return out
}

func sortSchedules(out []week.Schedule) {
	sort.Slice(out, func(i, j int) bool {
		if out[i].Key.Year != out[j].Key.Year {
			return out[i].Key.Year < out[j].Key.Year
		}
		return out[i].Key.Number < out[j].Key.Number
	})
}
