package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/sonam-git/quiniela-sub001/internal/domain/submission"
	"github.com/sonam-git/quiniela-sub001/internal/domain/week"
	"github.com/sonam-git/quiniela-sub001/internal/metrics"
	"github.com/sonam-git/quiniela-sub001/internal/platform/logging"
	"github.com/sonam-git/quiniela-sub001/internal/platform/resilience"
)

const defaultScoringWorkers = 8

// ScoringService recomputes every submission's derived scores for a week.
// It is invoked after every single match-result update and again during
// settlement; both paths run the same scoreSubmission derivation, so calling
// it any number of times with unchanged results is a no-op.
type ScoringService struct {
	weekRepo week.Repository
	subRepo  submission.Repository
	notifier Notifier
	logger   *logging.Logger
	workers  int
	flight   resilience.SingleFlight
	now      func() time.Time
}

func NewScoringService(
	weekRepo week.Repository,
	subRepo submission.Repository,
	notifier Notifier,
	logger *logging.Logger,
) *ScoringService {
	if notifier == nil {
		notifier = NewNoopNotifier()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &ScoringService{
		weekRepo: weekRepo,
		subRepo:  subRepo,
		notifier: notifier,
		logger:   logger,
		workers:  defaultScoringWorkers,
		now:      time.Now,
	}
}

// Recompute scores every non-placeholder submission of the week against the
// latest persisted match results. Settled weeks are left untouched.
func (s *ScoringService) Recompute(ctx context.Context, key week.Key) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.Recompute")
	defer span.End()

	_, err, shared := s.flight.Do("scoring:"+key.String(), func() (any, error) {
		return nil, s.recomputeOnce(ctx, key)
	})
	if shared {
		// A shared result can come from a pass that read the week before
		// this caller's match update was persisted; rerun against the
		// current state.
		return s.recomputeOnce(ctx, key)
	}
	return err
}

func (s *ScoringService) recomputeOnce(ctx context.Context, key week.Key) error {
	schedule, found, err := s.weekRepo.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("load week %s for scoring: %w", key, err)
	}
	if !found {
		return fmt.Errorf("%w: week %s", ErrNotFound, key)
	}
	if schedule.Settled {
		s.logger.DebugContext(ctx, "skipping recompute for settled week", "week", key.String())
		return nil
	}

	subs, err := s.subRepo.ListByWeek(ctx, key)
	if err != nil {
		return fmt.Errorf("list submissions for week %s: %w", key, err)
	}

	updated, err := s.persistScores(ctx, &schedule, subs)
	if err != nil {
		return err
	}
	metrics.ScoreRecomputes.Inc()

	if updated > 0 {
		totalGoals, allComplete := schedule.TotalGoals()
		s.notifier.Notify(ctx, NewEvent(EventResultsUpdated, key, map[string]any{
			"updatedSubmissions": updated,
			"runningTotalGoals":  totalGoals,
			"allCompleted":       allComplete,
		}))
	}
	return nil
}

// persistScores writes recomputed (points, deviation) pairs back through the
// repository on a worker pool. Settlement reuses it with the frozen totals.
func (s *ScoringService) persistScores(ctx context.Context, schedule *week.Schedule, subs []submission.Submission) (int, error) {
	pool, err := ants.NewPool(s.workers)
	if err != nil {
		return 0, fmt.Errorf("create scoring worker pool: %w", err)
	}
	defer pool.Release()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
		updated  int
	)

	recordErr := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
	}

	for _, sub := range subs {
		if sub.IsPlaceholder {
			continue
		}

		points, deviation := scoreSubmission(schedule, &sub)
		if sub.TotalPoints == points && deviationEqual(sub.GoalDeviation, deviation) {
			continue
		}

		next := sub
		next.TotalPoints = points
		next.GoalDeviation = deviation
		next.UpdatedAt = s.now().UTC()

		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			if err := s.subRepo.Update(ctx, next); err != nil {
				recordErr(fmt.Errorf("persist scores for submission %s: %w", next.ID, err))
			}
		})
		if submitErr != nil {
			wg.Done()
			recordErr(fmt.Errorf("submit scoring task for %s: %w", next.ID, submitErr))
			break
		}

		mu.Lock()
		updated++
		mu.Unlock()
	}

	wg.Wait()
	return updated, firstErr
}

// Standings returns the week's submissions in competition order under the
// current (possibly partial) results.
func (s *ScoringService) Standings(ctx context.Context, key week.Key) ([]submission.Submission, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.Standings")
	defer span.End()

	if _, found, err := s.weekRepo.Get(ctx, key); err != nil {
		return nil, fmt.Errorf("load week %s for standings: %w", key, err)
	} else if !found {
		return nil, fmt.Errorf("%w: week %s", ErrNotFound, key)
	}

	subs, err := s.subRepo.ListByWeek(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("list submissions for standings %s: %w", key, err)
	}
	return rankSubmissions(subs), nil
}
