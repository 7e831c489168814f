package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sonam-git/quiniela-sub001/internal/domain/submission"
	"github.com/sonam-git/quiniela-sub001/internal/domain/week"
	"github.com/sonam-git/quiniela-sub001/internal/metrics"
	"github.com/sonam-git/quiniela-sub001/internal/platform/logging"
)

// SettlementService performs the one-time finalization of a week: freeze the
// goal total, rescore everyone with final inputs, rank, mark winners, and
// flip the settled flag. The settled flag is re-checked under the service
// mutex immediately before the freeze, so a manual call racing the
// auto-settlement poller loses with ErrAlreadySettled instead of settling
// twice.
type SettlementService struct {
	weekRepo week.Repository
	subRepo  submission.Repository
	notifier Notifier
	logger   *logging.Logger
	now      func() time.Time

	settleMu sync.Mutex
}

func NewSettlementService(
	weekRepo week.Repository,
	subRepo submission.Repository,
	notifier Notifier,
	logger *logging.Logger,
) *SettlementService {
	if notifier == nil {
		notifier = NewNoopNotifier()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &SettlementService{
		weekRepo: weekRepo,
		subRepo:  subRepo,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

type SettleResult struct {
	Week             week.Key
	WinnerCount      int
	ActualTotalGoals int
	AutoSettled      bool
}

// Settle finalizes the week. settledBy is nil for automatic settlement.
func (s *SettlementService) Settle(ctx context.Context, key week.Key, settledBy *string, auto bool) (SettleResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SettlementService.Settle")
	defer span.End()

	s.settleMu.Lock()
	defer s.settleMu.Unlock()

	// Fresh read inside the critical section: this is the at-most-once guard.
	schedule, found, err := s.weekRepo.Get(ctx, key)
	if err != nil {
		return SettleResult{}, fmt.Errorf("load week %s for settlement: %w", key, err)
	}
	if !found {
		return SettleResult{}, fmt.Errorf("%w: week %s", ErrNotFound, key)
	}
	if schedule.Settled {
		return SettleResult{}, fmt.Errorf("%w: week %s", ErrAlreadySettled, key)
	}
	if !schedule.AllCompleted() {
		return SettleResult{}, fmt.Errorf("%w: week %s", ErrMatchesIncomplete, key)
	}

	totalGoals, allComplete := schedule.TotalGoals()
	if !allComplete {
		return SettleResult{}, fmt.Errorf("%w: week %s has completed matches without scores", ErrMatchesIncomplete, key)
	}
	schedule.ActualTotalGoals = &totalGoals

	subs, err := s.subRepo.ListByWeek(ctx, key)
	if err != nil {
		return SettleResult{}, fmt.Errorf("list submissions for settlement %s: %w", key, err)
	}

	now := s.now().UTC()
	for i := range subs {
		if subs[i].IsPlaceholder {
			continue
		}
		points, deviation := scoreSubmission(&schedule, &subs[i])
		subs[i].TotalPoints = points
		subs[i].GoalDeviation = deviation
	}

	ranked := rankSubmissions(subs)
	winnerCount := markWinners(ranked)

	for _, sub := range ranked {
		sub.UpdatedAt = now
		if err := s.subRepo.Update(ctx, sub); err != nil {
			return SettleResult{}, fmt.Errorf("persist settled submission %s: %w", sub.ID, err)
		}
	}

	schedule.Settled = true
	schedule.SettledAt = &now
	schedule.SettledBy = settledBy
	schedule.AutoSettled = auto
	schedule.UpdatedAt = now
	if err := s.weekRepo.Save(ctx, schedule); err != nil {
		return SettleResult{}, fmt.Errorf("persist settled week %s: %w", key, err)
	}

	trigger := "manual"
	if auto {
		trigger = "auto"
	}
	metrics.WeeksSettled.WithLabelValues(trigger).Inc()

	s.logger.InfoContext(ctx, "week settled",
		"week", key.String(),
		"winners", winnerCount,
		"total_goals", totalGoals,
		"auto", auto,
	)
	s.notifier.Notify(ctx, NewEvent(EventWeekSettled, key, map[string]any{
		"winnerCount":      winnerCount,
		"actualTotalGoals": totalGoals,
		"autoSettled":      auto,
	}))

	return SettleResult{
		Week:             key,
		WinnerCount:      winnerCount,
		ActualTotalGoals: totalGoals,
		AutoSettled:      auto,
	}, nil
}
