package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/sonam-git/quiniela-sub001/internal/domain/submission"
	"github.com/sonam-git/quiniela-sub001/internal/domain/week"
	"github.com/sonam-git/quiniela-sub001/internal/platform/logging"
)

type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) FetchSlate(ctx context.Context, leagueID, seasonID int64, jornada int) ([]ProviderFixture, error) {
	args := m.Called(ctx, leagueID, seasonID, jornada)
	fixtures, _ := args.Get(0).([]ProviderFixture)
	return fixtures, args.Error(1)
}

func (m *mockProvider) FetchByID(ctx context.Context, fixtureID int64) (ProviderFixture, bool, error) {
	args := m.Called(ctx, fixtureID)
	return args.Get(0).(ProviderFixture), args.Bool(1), args.Error(2)
}

func newResultService(env *testEnv, provider FixtureProvider) *ResultService {
	svc := NewResultService(env.weekRepo, provider, env.scoring(), logging.NewNop())
	svc.now = env.now
	return svc
}

func TestUpdateMatchResultRecomputes(t *testing.T) {
	env := newTestEnv()
	sched := newTestSchedule(testWeek, time.Hour)
	ctx := context.Background()
	if err := env.weekRepo.Save(ctx, sched); err != nil {
		t.Fatalf("save week: %v", err)
	}
	env.mustCreateSub(ctx, env.submissions(), "ana", 18, picksFor(&sched, week.OutcomeSideA))

	svc := newResultService(env, nil)
	got, err := svc.UpdateMatchResult(ctx, testWeek, ResultInput{
		MatchID: "m1", ScoreA: 3, ScoreB: 1, Completed: true,
	})
	if err != nil {
		t.Fatalf("UpdateMatchResult: %v", err)
	}

	m := got.FindMatch("m1")
	if !m.Completed || m.Outcome != week.OutcomeSideA {
		t.Fatalf("match not finalized: %+v", m)
	}

	sub, _, err := env.subRepo.GetByOwner(ctx, submission.KindUser, "ana", testWeek)
	if err != nil {
		t.Fatalf("reload submission: %v", err)
	}
	if sub.TotalPoints != 1 {
		t.Fatalf("points after one result = %d, want 1", sub.TotalPoints)
	}
}

func TestUpdateMatchResultValidation(t *testing.T) {
	env := newTestEnv()
	sched := newTestSchedule(testWeek, time.Hour)
	ctx := context.Background()
	if err := env.weekRepo.Save(ctx, sched); err != nil {
		t.Fatalf("save week: %v", err)
	}
	svc := newResultService(env, nil)

	if _, err := svc.UpdateMatchResult(ctx, testWeek, ResultInput{MatchID: "m1", ScoreA: -1}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("negative score = %v, want ErrInvalidInput", err)
	}
	if _, err := svc.UpdateMatchResult(ctx, testWeek, ResultInput{MatchID: "nope", ScoreA: 1}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown match = %v, want ErrNotFound", err)
	}
	if _, err := svc.UpdateMatchResult(ctx, testWeek.Next(), ResultInput{MatchID: "m1"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown week = %v, want ErrNotFound", err)
	}
}

func TestUpdateMatchResultRejectsSettledWeek(t *testing.T) {
	env := newTestEnv()
	sched := newTestSchedule(testWeek, time.Hour)
	completeAll(&sched, 1, 0)
	sched.Settled = true
	ctx := context.Background()
	if err := env.weekRepo.Save(ctx, sched); err != nil {
		t.Fatalf("save week: %v", err)
	}

	svc := newResultService(env, nil)
	if _, err := svc.UpdateMatchResult(ctx, testWeek, ResultInput{MatchID: "m1", ScoreA: 5}); !errors.Is(err, ErrWeekSettled) {
		t.Fatalf("update on settled week = %v, want ErrWeekSettled", err)
	}
}

func TestSyncResultsFromProvider(t *testing.T) {
	env := newTestEnv()
	sched := newTestSchedule(testWeek, time.Hour)
	sched.Matches[0].ExternalRef = 100
	sched.Matches[1].ExternalRef = 101
	sched.Matches[2].ExternalRef = 102
	ctx := context.Background()
	if err := env.weekRepo.Save(ctx, sched); err != nil {
		t.Fatalf("save week: %v", err)
	}

	provider := &mockProvider{}
	provider.On("FetchByID", mock.Anything, int64(100)).
		Return(ProviderFixture{ExternalID: 100, Finished: true, HomeScore: intPtr(2), AwayScore: intPtr(0)}, true, nil)
	provider.On("FetchByID", mock.Anything, int64(101)).
		Return(ProviderFixture{}, false, errors.New("fixture endpoint 502"))
	provider.On("FetchByID", mock.Anything, int64(102)).
		Return(ProviderFixture{ExternalID: 102, Finished: false, HomeScore: intPtr(1), AwayScore: intPtr(1)}, true, nil)

	svc := newResultService(env, provider)
	changed, err := svc.SyncResults(ctx, testWeek)
	if err != nil {
		t.Fatalf("SyncResults: %v", err)
	}
	if changed != 2 {
		t.Fatalf("changed = %d, want 2", changed)
	}

	got, _, _ := env.weekRepo.Get(ctx, testWeek)
	if m := got.FindMatch("m1"); !m.Completed || m.Outcome != week.OutcomeSideA {
		t.Fatalf("m1 not finalized from provider: %+v", m)
	}
	if m := got.FindMatch("m2"); m.Completed || m.ScoreA != nil {
		t.Fatal("failed fetch must leave m2 untouched")
	}
	if m := got.FindMatch("m3"); m.Completed || m.ScoreA == nil || *m.ScoreA != 1 {
		t.Fatalf("in-play score not applied to m3: %+v", m)
	}
	provider.AssertExpectations(t)
}

func TestSyncResultsNoChanges(t *testing.T) {
	env := newTestEnv()
	sched := newTestSchedule(testWeek, time.Hour)
	ctx := context.Background()
	if err := env.weekRepo.Save(ctx, sched); err != nil {
		t.Fatalf("save week: %v", err)
	}

	provider := &mockProvider{}
	svc := newResultService(env, provider)

	changed, err := svc.SyncResults(ctx, testWeek)
	if err != nil {
		t.Fatalf("SyncResults: %v", err)
	}
	if changed != 0 {
		t.Fatalf("changed = %d, want 0 for a slate without external refs", changed)
	}
	provider.AssertNotCalled(t, "FetchByID", mock.Anything, mock.Anything)
}
