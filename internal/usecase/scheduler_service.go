package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/panics"

	"github.com/sonam-git/quiniela-sub001/internal/domain/jobrun"
	"github.com/sonam-git/quiniela-sub001/internal/domain/submission"
	"github.com/sonam-git/quiniela-sub001/internal/domain/week"
	"github.com/sonam-git/quiniela-sub001/internal/metrics"
	idgen "github.com/sonam-git/quiniela-sub001/internal/platform/id"
	"github.com/sonam-git/quiniela-sub001/internal/platform/logging"
)

const (
	jobSlateCreation  = "slate_creation"
	jobRetentionPrune = "retention_prune"
	jobAutoSettle     = "auto_settle"
)

type SchedulerConfig struct {
	// SlateInterval is the cadence of slate creation and retention pruning.
	SlateInterval time.Duration
	// PollInterval is the cadence of the auto-settlement scan.
	PollInterval time.Duration
	// MatchDuration is the assumed playing time of one match.
	MatchDuration time.Duration
	// GraceDelay is the wait after the last match ends before auto-settling.
	GraceDelay time.Duration
}

func (c *SchedulerConfig) applyDefaults() {
	if c.SlateInterval <= 0 {
		c.SlateInterval = 24 * time.Hour
	}
	if c.PollInterval <= 0 {
		c.PollInterval = 5 * time.Minute
	}
	if c.MatchDuration <= 0 {
		c.MatchDuration = 2 * time.Hour
	}
	if c.GraceDelay <= 0 {
		c.GraceDelay = 30 * time.Minute
	}
}

// SchedulerService runs the three background duties on independent timers.
// A failure in one duty is logged and recorded, never propagated: the duties
// must not abort each other or crash the process.
type SchedulerService struct {
	cfg        SchedulerConfig
	schedules  *ScheduleService
	settlement *SettlementService
	weekRepo   week.Repository
	subRepo    submission.Repository
	runRepo    jobrun.Repository
	idGen      idgen.Generator
	logger     *logging.Logger
	now        func() time.Time

	cancel context.CancelFunc
	wg     conc.WaitGroup
}

func NewSchedulerService(
	cfg SchedulerConfig,
	schedules *ScheduleService,
	settlement *SettlementService,
	weekRepo week.Repository,
	subRepo submission.Repository,
	runRepo jobrun.Repository,
	idGen idgen.Generator,
	logger *logging.Logger,
) *SchedulerService {
	cfg.applyDefaults()
	if idGen == nil {
		idGen = idgen.NewRandomGenerator()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &SchedulerService{
		cfg:        cfg,
		schedules:  schedules,
		settlement: settlement,
		weekRepo:   weekRepo,
		subRepo:    subRepo,
		runRepo:    runRepo,
		idGen:      idGen,
		logger:     logger,
		now:        time.Now,
	}
}

// Start launches the duty loops and returns immediately. The slate duty runs
// once up front so the current period always has a schedule after boot.
func (s *SchedulerService) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Go(func() {
		slateDuties := func(ctx context.Context) {
			s.runGuarded(ctx, jobSlateCreation, s.runSlateDuty)
			s.runGuarded(ctx, jobRetentionPrune, s.runRetentionDuty)
		}
		slateDuties(ctx)
		s.loop(ctx, s.cfg.SlateInterval, slateDuties)
	})
	s.wg.Go(func() {
		s.loop(ctx, s.cfg.PollInterval, func(ctx context.Context) {
			s.runGuarded(ctx, jobAutoSettle, s.runSettlementDuty)
		})
	})

	s.logger.InfoContext(ctx, "background scheduler started",
		"slate_interval", s.cfg.SlateInterval.String(),
		"poll_interval", s.cfg.PollInterval.String(),
		"match_duration", s.cfg.MatchDuration.String(),
		"grace_delay", s.cfg.GraceDelay.String())
}

// Stop cancels the duty loops and waits for in-flight runs to finish.
func (s *SchedulerService) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

// runGuarded contains a duty panic so one bad run cannot kill its loop or
// escalate through Stop. The panic is recorded as a failed run.
func (s *SchedulerService) runGuarded(ctx context.Context, job string, duty func(context.Context)) {
	var catcher panics.Catcher
	catcher.Try(func() { duty(ctx) })
	if recovered := catcher.Recovered(); recovered != nil {
		s.recordRun(ctx, job, "", fmt.Errorf("duty panicked: %w", recovered.AsError()))
	}
}

func (s *SchedulerService) loop(ctx context.Context, interval time.Duration, duty func(context.Context)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			duty(ctx)
		}
	}
}

// runSlateDuty makes sure the current and the next periods both have slates.
func (s *SchedulerService) runSlateDuty(ctx context.Context) {
	for _, target := range []BuildTarget{TargetCurrent, TargetNext} {
		schedule, err := s.schedules.EnsureWeek(ctx, BuildInput{Target: target})
		if err != nil {
			s.recordRun(ctx, jobSlateCreation, "", err)
			continue
		}
		s.recordRun(ctx, jobSlateCreation, fmt.Sprintf("week %s ready", schedule.Key), nil)
	}
}

// runRetentionDuty deletes every week, and its submissions, outside the
// current and the immediately preceding period.
func (s *SchedulerService) runRetentionDuty(ctx context.Context) {
	current := week.KeyOf(s.now())
	previous := current.Previous()

	schedules, err := s.weekRepo.List(ctx)
	if err != nil {
		s.recordRun(ctx, jobRetentionPrune, "", fmt.Errorf("list weeks: %w", err))
		return
	}

	pruned := 0
	for _, sched := range schedules {
		if sched.Key == current || sched.Key == previous {
			continue
		}
		if err := s.subRepo.DeleteByWeek(ctx, sched.Key); err != nil {
			s.recordRun(ctx, jobRetentionPrune, "", fmt.Errorf("delete submissions of week %s: %w", sched.Key, err))
			continue
		}
		if err := s.weekRepo.Delete(ctx, sched.Key); err != nil {
			s.recordRun(ctx, jobRetentionPrune, "", fmt.Errorf("delete week %s: %w", sched.Key, err))
			continue
		}
		metrics.WeeksPruned.Inc()
		pruned++
	}
	s.recordRun(ctx, jobRetentionPrune, fmt.Sprintf("pruned %d weeks", pruned), nil)
}

// runSettlementDuty auto-settles every unsettled week whose grace window has
// elapsed. A concurrent manual settlement shows up as ErrAlreadySettled and
// is ignored.
func (s *SchedulerService) runSettlementDuty(ctx context.Context) {
	schedules, err := s.weekRepo.ListUnsettled(ctx)
	if err != nil {
		s.recordRun(ctx, jobAutoSettle, "", fmt.Errorf("list unsettled weeks: %w", err))
		return
	}

	now := s.now()
	for _, sched := range schedules {
		if !sched.AllCompleted() {
			continue
		}
		lastKickoff, ok := sched.LastKickoff()
		if !ok {
			continue
		}
		lastMatchEnd := lastKickoff.Add(s.cfg.MatchDuration)
		if now.Sub(lastMatchEnd) < s.cfg.GraceDelay {
			continue
		}
		res, err := s.settlement.Settle(ctx, sched.Key, nil, true)
		if err != nil {
			if errors.Is(err, ErrAlreadySettled) {
				s.logger.DebugContext(ctx, "week settled elsewhere, skipping",
					"week", sched.Key.String())
				continue
			}
			s.recordRun(ctx, jobAutoSettle, "", fmt.Errorf("settle week %s: %w", sched.Key, err))
			continue
		}
		s.recordRun(ctx, jobAutoSettle,
			fmt.Sprintf("week %s settled, %d winners", res.Week, res.WinnerCount), nil)
	}
}

func (s *SchedulerService) recordRun(ctx context.Context, job, detail string, runErr error) {
	event := jobrun.RunEvent{
		JobName:    job,
		Status:     jobrun.StatusOK,
		Detail:     detail,
		OccurredAt: s.now().UTC(),
	}
	if runErr != nil {
		event.Status = jobrun.StatusFailed
		event.Error = runErr.Error()
		metrics.BackgroundRunFailures.WithLabelValues(job).Inc()
		s.logger.ErrorContext(ctx, "background duty failed", "job", job, "error", runErr)
	}
	if id, err := s.idGen.NewID(); err == nil {
		event.ID = id
	}
	if s.runRepo == nil {
		return
	}
	if err := s.runRepo.Record(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "job run event not recorded", "job", job, "error", err)
	}
}
