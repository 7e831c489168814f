package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/sonam-git/quiniela-sub001/internal/domain/week"
	"github.com/sonam-git/quiniela-sub001/internal/metrics"
	idgen "github.com/sonam-git/quiniela-sub001/internal/platform/id"
	"github.com/sonam-git/quiniela-sub001/internal/platform/logging"
)

// ProviderFixture is one fixture as reported by the external data source.
type ProviderFixture struct {
	ExternalID int64
	HomeTeam   string
	AwayTeam   string
	KickoffAt  time.Time
	Finished   bool
	HomeScore  *int
	AwayScore  *int
}

// FixtureProvider is the external fixture-data source. Implementations keep
// their own timeouts and breakers; callers treat every failure as "no data".
type FixtureProvider interface {
	FetchSlate(ctx context.Context, leagueID, seasonID int64, jornada int) ([]ProviderFixture, error)
	FetchByID(ctx context.Context, fixtureID int64) (ProviderFixture, bool, error)
}

// CuratedFixture is one entry of the bundled fallback calendar.
type CuratedFixture struct {
	HomeTeam  string
	AwayTeam  string
	KickoffAt time.Time
}

// CuratedCalendar is the bundled season calendar indexed by jornada.
type CuratedCalendar interface {
	Slate(jornada int) ([]CuratedFixture, bool)
	JornadaFor(key week.Key) (int, bool)
}

type ScheduleConfig struct {
	LeagueID        int64
	SeasonID        int64
	ProviderTimeout time.Duration
}

type BuildTarget string

const (
	TargetCurrent BuildTarget = "current"
	TargetNext    BuildTarget = "next"
)

// BuildInput selects the period to build: an explicit jornada index, or a
// calendar-derived target when Jornada is zero.
type BuildInput struct {
	Jornada int
	Target  BuildTarget
	Force   bool
}

// ScheduleService assembles one week's fixed-size slate, preferring the
// external provider and falling back to the curated calendar. It never
// deletes submissions, even on a forced rebuild.
type ScheduleService struct {
	weekRepo week.Repository
	provider FixtureProvider
	curated  CuratedCalendar
	notifier Notifier
	idGen    idgen.Generator
	logger   *logging.Logger
	cfg      ScheduleConfig
	now      func() time.Time
}

func NewScheduleService(
	weekRepo week.Repository,
	provider FixtureProvider,
	curated CuratedCalendar,
	notifier Notifier,
	idGen idgen.Generator,
	cfg ScheduleConfig,
	logger *logging.Logger,
) *ScheduleService {
	if notifier == nil {
		notifier = NewNoopNotifier()
	}
	if idGen == nil {
		idGen = idgen.NewRandomGenerator()
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.ProviderTimeout <= 0 {
		cfg.ProviderTimeout = 10 * time.Second
	}
	return &ScheduleService{
		weekRepo: weekRepo,
		provider: provider,
		curated:  curated,
		notifier: notifier,
		idGen:    idGen,
		logger:   logger,
		cfg:      cfg,
		now:      time.Now,
	}
}

// EnsureWeek returns the schedule for the requested period, building and
// persisting it first when missing. An existing week is returned unchanged
// unless Force rebuilds it.
func (s *ScheduleService) EnsureWeek(ctx context.Context, in BuildInput) (week.Schedule, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScheduleService.EnsureWeek")
	defer span.End()

	key, jornada, err := s.resolvePeriod(in)
	if err != nil {
		return week.Schedule{}, err
	}

	existing, found, err := s.weekRepo.Get(ctx, key)
	if err != nil {
		return week.Schedule{}, fmt.Errorf("look up week %s: %w", key, err)
	}
	if found {
		if !in.Force {
			return existing, nil
		}
		// Force replaces the week and nothing else: submissions survive.
		if err := s.weekRepo.Delete(ctx, key); err != nil {
			return week.Schedule{}, fmt.Errorf("delete week %s for rebuild: %w", key, err)
		}
	}

	schedule, err := s.buildSlate(ctx, key, jornada)
	if err != nil {
		return week.Schedule{}, err
	}
	if err := schedule.Validate(); err != nil {
		return week.Schedule{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.weekRepo.Save(ctx, schedule); err != nil {
		return week.Schedule{}, fmt.Errorf("persist week %s: %w", key, err)
	}

	metrics.SchedulesBuilt.WithLabelValues(string(schedule.DataSource)).Inc()
	s.logger.InfoContext(ctx, "schedule created",
		"week", key.String(),
		"jornada", jornada,
		"source", string(schedule.DataSource),
	)
	s.notifier.Notify(ctx, NewEvent(EventScheduleCreated, key, map[string]any{
		"jornada":    jornada,
		"dataSource": string(schedule.DataSource),
	}))

	return schedule, nil
}

// Week returns an existing schedule without building anything.
func (s *ScheduleService) Week(ctx context.Context, key week.Key) (week.Schedule, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScheduleService.Week")
	defer span.End()

	schedule, found, err := s.weekRepo.Get(ctx, key)
	if err != nil {
		return week.Schedule{}, fmt.Errorf("look up week %s: %w", key, err)
	}
	if !found {
		return week.Schedule{}, fmt.Errorf("%w: week %s", ErrNotFound, key)
	}
	return schedule, nil
}

// CurrentWeek returns the schedule of the calendar-current period.
func (s *ScheduleService) CurrentWeek(ctx context.Context) (week.Schedule, error) {
	return s.Week(ctx, week.KeyOf(s.now()))
}

func (s *ScheduleService) resolvePeriod(in BuildInput) (week.Key, int, error) {
	if in.Jornada > 0 {
		slate, ok := s.curated.Slate(in.Jornada)
		if !ok || len(slate) == 0 {
			return week.Key{}, 0, fmt.Errorf("%w: unknown jornada %d", ErrInvalidInput, in.Jornada)
		}
		return week.KeyOf(slate[0].KickoffAt), in.Jornada, nil
	}

	key := week.KeyOf(s.now())
	if in.Target == TargetNext {
		key = key.Next()
	}
	jornada, _ := s.curated.JornadaFor(key)
	return key, jornada, nil
}

// buildSlate prefers live provider data, falls back to the curated calendar,
// and pads with placeholder matches so the slate invariant always holds.
func (s *ScheduleService) buildSlate(ctx context.Context, key week.Key, jornada int) (week.Schedule, error) {
	now := s.now().UTC()
	schedule := week.Schedule{
		Key:        key,
		DataSource: week.SourceCurated,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if jornada > 0 {
		schedule.JornadaLabel = fmt.Sprintf("Jornada %d", jornada)
	}

	fixtures := s.fetchProviderSlate(ctx, key, jornada)
	if len(fixtures) > 0 {
		schedule.DataSource = week.SourceExternal
		for _, fx := range fixtures {
			match, err := s.matchFromProvider(fx)
			if err != nil {
				return week.Schedule{}, err
			}
			schedule.Matches = append(schedule.Matches, match)
			if len(schedule.Matches) == week.SlateSize {
				break
			}
		}
	} else if slate, ok := s.curated.Slate(jornada); ok {
		metrics.ProviderFallbacks.Inc()
		for _, fx := range slate {
			match, err := s.matchFromCurated(fx)
			if err != nil {
				return week.Schedule{}, err
			}
			schedule.Matches = append(schedule.Matches, match)
			if len(schedule.Matches) == week.SlateSize {
				break
			}
		}
	}

	if err := s.padPlaceholders(&schedule); err != nil {
		return week.Schedule{}, err
	}
	return schedule, nil
}

// fetchProviderSlate absorbs provider failures entirely: any error or empty
// result means "no data" and the curated fallback proceeds.
func (s *ScheduleService) fetchProviderSlate(ctx context.Context, key week.Key, jornada int) []ProviderFixture {
	if s.provider == nil || jornada <= 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.ProviderTimeout)
	defer cancel()

	fixtures, err := s.provider.FetchSlate(ctx, s.cfg.LeagueID, s.cfg.SeasonID, jornada)
	if err != nil {
		s.logger.WarnContext(ctx, "fixture provider failed, using curated calendar",
			"week", key.String(),
			"jornada", jornada,
			"error", err,
		)
		return nil
	}
	return fixtures
}

func (s *ScheduleService) matchFromProvider(fx ProviderFixture) (week.Match, error) {
	matchID, err := s.idGen.NewID()
	if err != nil {
		return week.Match{}, fmt.Errorf("generate match id: %w", err)
	}
	match := week.Match{
		ID:          matchID,
		SideA:       fx.HomeTeam,
		SideB:       fx.AwayTeam,
		SideAIsHome: true,
		KickoffAt:   fx.KickoffAt.UTC(),
		ExternalRef: fx.ExternalID,
	}
	if fx.Finished && fx.HomeScore != nil && fx.AwayScore != nil {
		match.Completed = true
		match.ScoreA = fx.HomeScore
		match.ScoreB = fx.AwayScore
		match.Outcome = week.DeriveOutcome(*fx.HomeScore, *fx.AwayScore)
	}
	return match, nil
}

func (s *ScheduleService) matchFromCurated(fx CuratedFixture) (week.Match, error) {
	matchID, err := s.idGen.NewID()
	if err != nil {
		return week.Match{}, fmt.Errorf("generate match id: %w", err)
	}
	return week.Match{
		ID:          matchID,
		SideA:       fx.HomeTeam,
		SideB:       fx.AwayTeam,
		SideAIsHome: true,
		KickoffAt:   fx.KickoffAt.UTC(),
	}, nil
}

func (s *ScheduleService) padPlaceholders(schedule *week.Schedule) error {
	kickoff := week.SaturdayOf(schedule.Key)
	if first, ok := schedule.FirstKickoff(); ok {
		kickoff = first
	}

	for i := len(schedule.Matches); i < week.SlateSize; i++ {
		matchID, err := s.idGen.NewID()
		if err != nil {
			return fmt.Errorf("generate placeholder match id: %w", err)
		}
		schedule.Matches = append(schedule.Matches, week.Match{
			ID:          matchID,
			SideA:       fmt.Sprintf("Por definir %d", i+1),
			SideB:       fmt.Sprintf("Por definir %d", i+1+week.SlateSize),
			SideAIsHome: true,
			KickoffAt:   kickoff,
			Placeholder: true,
		})
	}
	return nil
}
