package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sonam-git/quiniela-sub001/internal/domain/submission"
	"github.com/sonam-git/quiniela-sub001/internal/domain/week"
	"github.com/sonam-git/quiniela-sub001/internal/infrastructure/repository/memory"
	"github.com/sonam-git/quiniela-sub001/internal/platform/logging"
)

// testBase is a Tuesday, so submission windows around the weekend slate are
// easy to reason about.
var testBase = time.Date(2026, time.September, 1, 12, 0, 0, 0, time.UTC)

var testWeek = week.KeyOf(testBase)

func intPtr(v int) *int { return &v }

type seqIDGen struct {
	mu sync.Mutex
	n  int
}

func (g *seqIDGen) NewID() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("id-%03d", g.n), nil
}

type fakeProvider struct {
	slate    []ProviderFixture
	slateErr error
	byID     map[int64]ProviderFixture
	byIDErr  map[int64]error
	calls    int
}

func (p *fakeProvider) FetchSlate(context.Context, int64, int64, int) ([]ProviderFixture, error) {
	p.calls++
	if p.slateErr != nil {
		return nil, p.slateErr
	}
	return p.slate, nil
}

func (p *fakeProvider) FetchByID(_ context.Context, fixtureID int64) (ProviderFixture, bool, error) {
	if err := p.byIDErr[fixtureID]; err != nil {
		return ProviderFixture{}, false, err
	}
	fx, ok := p.byID[fixtureID]
	return fx, ok, nil
}

type fakeCalendar struct {
	slates map[int][]CuratedFixture
	weeks  map[week.Key]int
}

func (c *fakeCalendar) Slate(jornada int) ([]CuratedFixture, bool) {
	slate, ok := c.slates[jornada]
	return slate, ok
}

func (c *fakeCalendar) JornadaFor(key week.Key) (int, bool) {
	j, ok := c.weeks[key]
	return j, ok
}

type captureNotifier struct {
	mu     sync.Mutex
	events []Event
}

func (n *captureNotifier) Notify(_ context.Context, event Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *captureNotifier) byType(eventType string) []Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []Event
	for _, e := range n.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

// newTestSchedule builds a valid slate whose first kickoff is at
// testBase+lead, with the remaining matches spaced an hour apart.
func newTestSchedule(key week.Key, lead time.Duration) week.Schedule {
	s := week.Schedule{
		Key:        key,
		DataSource: week.SourceCurated,
		CreatedAt:  testBase,
		UpdatedAt:  testBase,
	}
	for i := 0; i < week.SlateSize; i++ {
		s.Matches = append(s.Matches, week.Match{
			ID:          fmt.Sprintf("m%d", i+1),
			SideA:       fmt.Sprintf("Home %d", i+1),
			SideB:       fmt.Sprintf("Away %d", i+1),
			SideAIsHome: true,
			KickoffAt:   testBase.Add(lead + time.Duration(i)*time.Hour),
		})
	}
	return s
}

func completeAll(s *week.Schedule, scoreA, scoreB int) {
	for i := range s.Matches {
		a, b := scoreA, scoreB
		s.Matches[i].ScoreA = &a
		s.Matches[i].ScoreB = &b
		s.Matches[i].Completed = true
		s.Matches[i].Outcome = week.DeriveOutcome(a, b)
	}
}

func picksFor(s *week.Schedule, outcome week.Outcome) []submission.Pick {
	picks := make([]submission.Pick, 0, len(s.Matches))
	for _, m := range s.Matches {
		picks = append(picks, submission.Pick{MatchID: m.ID, Pick: outcome})
	}
	return picks
}

type testEnv struct {
	weekRepo *memory.WeekRepository
	subRepo  *memory.SubmissionRepository
	notifier *captureNotifier
	clock    time.Time
}

func newTestEnv() *testEnv {
	return &testEnv{
		weekRepo: memory.NewWeekRepository(),
		subRepo:  memory.NewSubmissionRepository(),
		notifier: &captureNotifier{},
		clock:    testBase,
	}
}

func (e *testEnv) now() time.Time { return e.clock }

func (e *testEnv) scoring() *ScoringService {
	s := NewScoringService(e.weekRepo, e.subRepo, e.notifier, logging.NewNop())
	s.now = e.now
	return s
}

func (e *testEnv) settlement() *SettlementService {
	s := NewSettlementService(e.weekRepo, e.subRepo, e.notifier, logging.NewNop())
	s.now = e.now
	return s
}

func (e *testEnv) submissions() *SubmissionService {
	s := NewSubmissionService(e.weekRepo, e.subRepo, &seqIDGen{}, logging.NewNop())
	s.now = e.now
	return s
}

func (e *testEnv) mustCreateSub(ctx context.Context, svc *SubmissionService, owner string, guess int, picks []submission.Pick) submission.Submission {
	sub, err := svc.Create(ctx, SubmissionInput{
		Kind:            submission.KindUser,
		OwnerRef:        owner,
		Week:            testWeek,
		TotalGoalsGuess: guess,
		Picks:           picks,
	})
	if err != nil {
		panic(fmt.Sprintf("create submission for %s: %v", owner, err))
	}
	return sub
}
