package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/sonam-git/quiniela-sub001/external/sportmonks"
	"github.com/sonam-git/quiniela-sub001/internal/config"
	"github.com/sonam-git/quiniela-sub001/internal/domain/jobrun"
	"github.com/sonam-git/quiniela-sub001/internal/domain/submission"
	"github.com/sonam-git/quiniela-sub001/internal/domain/week"
	"github.com/sonam-git/quiniela-sub001/internal/infrastructure/curated"
	"github.com/sonam-git/quiniela-sub001/internal/infrastructure/notify"
	"github.com/sonam-git/quiniela-sub001/internal/infrastructure/repository/memory"
	"github.com/sonam-git/quiniela-sub001/internal/infrastructure/repository/postgres"
	"github.com/sonam-git/quiniela-sub001/internal/interfaces/httpapi"
	"github.com/sonam-git/quiniela-sub001/internal/platform/logging"
	"github.com/sonam-git/quiniela-sub001/internal/platform/resilience"
	"github.com/sonam-git/quiniela-sub001/internal/usecase"
)

// App holds the wired service graph: the HTTP server, the background
// scheduler, and the resources that need closing on shutdown.
type App struct {
	Server    *http.Server
	Scheduler *usecase.SchedulerService

	schedulerEnabled bool
	logger           *logging.Logger
	closers          []func() error
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	a := &App{
		schedulerEnabled: cfg.SchedulerEnabled,
		logger:           logger,
	}

	weekRepo, subRepo, runRepo, err := a.buildRepositories(cfg, logger)
	if err != nil {
		return nil, err
	}

	notifier := a.buildNotifier(cfg, logger)
	provider := buildProvider(cfg, logger)
	calendar := curated.NewCalendar(week.KeyOf(cfg.SeasonStart))

	scheduleSvc := usecase.NewScheduleService(weekRepo, provider, calendar, notifier, nil, usecase.ScheduleConfig{
		LeagueID:        cfg.ProviderLeagueID,
		SeasonID:        cfg.ProviderSeasonID,
		ProviderTimeout: cfg.ProviderTimeout,
	}, logger)
	submissionSvc := usecase.NewSubmissionService(weekRepo, subRepo, nil, logger)
	scoringSvc := usecase.NewScoringService(weekRepo, subRepo, notifier, logger)
	settlementSvc := usecase.NewSettlementService(weekRepo, subRepo, notifier, logger)
	resultSvc := usecase.NewResultService(weekRepo, provider, scoringSvc, logger)

	a.Scheduler = usecase.NewSchedulerService(usecase.SchedulerConfig{
		SlateInterval: cfg.SchedulerSlateInterval,
		PollInterval:  cfg.SchedulerPollInterval,
		MatchDuration: cfg.MatchDuration,
		GraceDelay:    cfg.SettlementGraceDelay,
	}, scheduleSvc, settlementSvc, weekRepo, subRepo, runRepo, nil, logger)

	handler := httpapi.NewHandler(
		scheduleSvc,
		submissionSvc,
		scoringSvc,
		settlementSvc,
		resultSvc,
		runRepo,
		logger,
	)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.AdminToken)

	a.Server = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if a.Server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return a, nil
}

// Start launches the background scheduler. The HTTP server is started by
// the caller so it owns the listen error.
func (a *App) Start(ctx context.Context) {
	if !a.schedulerEnabled {
		a.logger.Info("scheduler disabled", "reason", "SCHEDULER_ENABLED=false")
		return
	}
	a.Scheduler.Start(ctx)
}

func (a *App) Close() error {
	if a.schedulerEnabled {
		a.Scheduler.Stop()
	}

	var firstErr error
	for _, close := range a.closers {
		if err := close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (a *App) buildRepositories(cfg config.Config, logger *logging.Logger) (week.Repository, submission.Repository, jobrun.Repository, error) {
	if cfg.DBURL == "" {
		logger.Info("storage: in-memory", "reason", "DB_URL empty")
		return memory.NewWeekRepository(), memory.NewSubmissionRepository(), memory.NewJobRunRepository(), nil
	}

	db, err := sqlx.Connect("postgres", cfg.DBURL)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connect postgres: %w", err)
	}
	a.closers = append(a.closers, db.Close)
	logger.Info("storage: postgres")

	return postgres.NewWeekRepository(db), postgres.NewSubmissionRepository(db), postgres.NewJobRunRepository(db), nil
}

func (a *App) buildNotifier(cfg config.Config, logger *logging.Logger) usecase.Notifier {
	if cfg.RedisAddr == "" {
		logger.Info("notifier: log only", "reason", "REDIS_ADDR empty")
		return notify.NewLogNotifier(logger)
	}

	redisNotifier := notify.NewRedisNotifier(notify.RedisConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		Channel:  cfg.RedisChannel,
		Timeout:  cfg.RedisTimeout,
	}, logger)
	a.closers = append(a.closers, redisNotifier.Close)
	logger.Info("notifier: redis", "channel", cfg.RedisChannel)

	return redisNotifier
}

func buildProvider(cfg config.Config, logger *logging.Logger) usecase.FixtureProvider {
	if !cfg.ProviderEnabled {
		logger.Info("fixture provider disabled", "reason", "SPORTMONKS_ENABLED=false")
		return nil
	}

	return sportmonks.NewClient(sportmonks.ClientConfig{
		BaseURL:    cfg.ProviderBaseURL,
		Token:      cfg.ProviderToken,
		Timeout:    cfg.ProviderTimeout,
		MaxRetries: cfg.ProviderMaxRetries,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.ProviderCircuitEnabled,
			FailureThreshold: cfg.ProviderCircuitFailureCount,
			OpenTimeout:      cfg.ProviderCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.ProviderCircuitHalfOpenMaxRq,
		},
	})
}
