package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/sonam-git/quiniela-sub001/internal/domain/week"
	"github.com/sonam-git/quiniela-sub001/internal/platform/logging"
)

// ResultService records match results, either entered by an admin or pulled
// from the fixture provider, and keeps live scores in step with them.
type ResultService struct {
	weekRepo week.Repository
	provider FixtureProvider
	scoring  *ScoringService
	logger   *logging.Logger
	now      func() time.Time
}

func NewResultService(
	weekRepo week.Repository,
	provider FixtureProvider,
	scoring *ScoringService,
	logger *logging.Logger,
) *ResultService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ResultService{
		weekRepo: weekRepo,
		provider: provider,
		scoring:  scoring,
		logger:   logger,
		now:      time.Now,
	}
}

type ResultInput struct {
	MatchID   string
	ScoreA    int
	ScoreB    int
	Completed bool
}

// UpdateMatchResult applies an admin-entered score to a match of an
// unsettled week and recomputes the week's live scores.
func (s *ResultService) UpdateMatchResult(ctx context.Context, key week.Key, in ResultInput) (week.Schedule, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ResultService.UpdateMatchResult")
	defer span.End()

	if in.ScoreA < 0 || in.ScoreB < 0 {
		return week.Schedule{}, fmt.Errorf("%w: scores must not be negative", ErrInvalidInput)
	}

	schedule, found, err := s.weekRepo.Get(ctx, key)
	if err != nil {
		return week.Schedule{}, fmt.Errorf("load week %s: %w", key, err)
	}
	if !found {
		return week.Schedule{}, fmt.Errorf("%w: week %s", ErrNotFound, key)
	}
	if schedule.Settled {
		return week.Schedule{}, fmt.Errorf("%w: week %s", ErrWeekSettled, key)
	}

	match := schedule.FindMatch(in.MatchID)
	if match == nil {
		return week.Schedule{}, fmt.Errorf("%w: match %s in week %s", ErrNotFound, in.MatchID, key)
	}

	applyScore(match, in.ScoreA, in.ScoreB, in.Completed)
	schedule.UpdatedAt = s.now().UTC()

	if err := s.weekRepo.Save(ctx, schedule); err != nil {
		return week.Schedule{}, fmt.Errorf("persist week %s: %w", key, err)
	}
	s.logger.InfoContext(ctx, "match result updated",
		"week", key.String(), "match_id", in.MatchID,
		"score_a", in.ScoreA, "score_b", in.ScoreB, "completed", in.Completed)

	if err := s.scoring.Recompute(ctx, key); err != nil {
		return week.Schedule{}, fmt.Errorf("recompute scores for week %s: %w", key, err)
	}
	return schedule, nil
}

// SyncResults refreshes every provider-sourced match of the week from the
// fixture provider. Per-match fetch failures are logged and skipped so one
// bad fixture never blocks the rest of the slate.
func (s *ResultService) SyncResults(ctx context.Context, key week.Key) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ResultService.SyncResults")
	defer span.End()

	if s.provider == nil {
		return 0, fmt.Errorf("%w: no fixture provider configured", ErrDependencyUnavailable)
	}

	schedule, found, err := s.weekRepo.Get(ctx, key)
	if err != nil {
		return 0, fmt.Errorf("load week %s: %w", key, err)
	}
	if !found {
		return 0, fmt.Errorf("%w: week %s", ErrNotFound, key)
	}
	if schedule.Settled {
		return 0, fmt.Errorf("%w: week %s", ErrWeekSettled, key)
	}

	changed := 0
	for i := range schedule.Matches {
		match := &schedule.Matches[i]
		if match.ExternalRef == 0 {
			continue
		}
		fx, ok, err := s.provider.FetchByID(ctx, match.ExternalRef)
		if err != nil {
			s.logger.WarnContext(ctx, "fixture refresh failed, skipping match",
				"week", key.String(), "match_id", match.ID, "fixture_id", match.ExternalRef, "error", err)
			continue
		}
		if !ok || fx.HomeScore == nil || fx.AwayScore == nil {
			continue
		}
		if s.applyFixture(match, fx) {
			changed++
		}
	}

	if changed == 0 {
		return 0, nil
	}

	schedule.UpdatedAt = s.now().UTC()
	if err := s.weekRepo.Save(ctx, schedule); err != nil {
		return 0, fmt.Errorf("persist week %s: %w", key, err)
	}
	s.logger.InfoContext(ctx, "results synced from provider",
		"week", key.String(), "changed_matches", changed)

	if err := s.scoring.Recompute(ctx, key); err != nil {
		return changed, fmt.Errorf("recompute scores for week %s: %w", key, err)
	}
	return changed, nil
}

func (s *ResultService) applyFixture(match *week.Match, fx ProviderFixture) bool {
	scoreA, scoreB := *fx.HomeScore, *fx.AwayScore
	if !match.SideAIsHome {
		scoreA, scoreB = scoreB, scoreA
	}
	if match.ScoreA != nil && *match.ScoreA == scoreA &&
		match.ScoreB != nil && *match.ScoreB == scoreB &&
		match.Completed == fx.Finished {
		return false
	}
	applyScore(match, scoreA, scoreB, fx.Finished)
	return true
}

func applyScore(match *week.Match, scoreA, scoreB int, completed bool) {
	match.ScoreA = &scoreA
	match.ScoreB = &scoreB
	match.Completed = completed
	if completed {
		match.Outcome = week.DeriveOutcome(scoreA, scoreB)
	} else {
		match.Outcome = ""
	}
}
