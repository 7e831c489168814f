package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sonam-git/quiniela-sub001/internal/domain/submission"
	"github.com/sonam-git/quiniela-sub001/internal/domain/week"
	idgen "github.com/sonam-git/quiniela-sub001/internal/platform/id"
	"github.com/sonam-git/quiniela-sub001/internal/platform/logging"
)

// SubmissionService guards every submission mutation behind the lockout gate
// and the slate-shape validation rules.
type SubmissionService struct {
	weekRepo week.Repository
	subRepo  submission.Repository
	idGen    idgen.Generator
	logger   *logging.Logger
	now      func() time.Time
}

func NewSubmissionService(
	weekRepo week.Repository,
	subRepo submission.Repository,
	idGen idgen.Generator,
	logger *logging.Logger,
) *SubmissionService {
	if idGen == nil {
		idGen = idgen.NewRandomGenerator()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &SubmissionService{
		weekRepo: weekRepo,
		subRepo:  subRepo,
		idGen:    idGen,
		logger:   logger,
		now:      time.Now,
	}
}

type SubmissionInput struct {
	Kind            submission.Kind
	OwnerRef        string
	Week            week.Key
	TotalGoalsGuess int
	Picks           []submission.Pick
	IsPlaceholder   bool
}

func (s *SubmissionService) Create(ctx context.Context, in SubmissionInput) (submission.Submission, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SubmissionService.Create")
	defer span.End()

	schedule, err := s.gate(ctx, in.Week)
	if err != nil {
		return submission.Submission{}, err
	}
	if err := s.validateInput(schedule, in); err != nil {
		return submission.Submission{}, err
	}

	subID, err := s.idGen.NewID()
	if err != nil {
		return submission.Submission{}, fmt.Errorf("generate submission id: %w", err)
	}

	now := s.now().UTC()
	sub := submission.Submission{
		ID:              subID,
		Kind:            in.Kind,
		OwnerRef:        strings.TrimSpace(in.OwnerRef),
		Week:            in.Week,
		TotalGoalsGuess: in.TotalGoalsGuess,
		Picks:           append([]submission.Pick(nil), in.Picks...),
		IsPlaceholder:   in.IsPlaceholder,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.subRepo.Create(ctx, sub); err != nil {
		if errors.Is(err, submission.ErrDuplicate) {
			return submission.Submission{}, fmt.Errorf("%w: owner %s week %s", ErrDuplicateSubmission, sub.OwnerRef, in.Week)
		}
		return submission.Submission{}, fmt.Errorf("persist submission: %w", err)
	}
	return sub, nil
}

func (s *SubmissionService) Update(ctx context.Context, in SubmissionInput) (submission.Submission, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SubmissionService.Update")
	defer span.End()

	schedule, err := s.gate(ctx, in.Week)
	if err != nil {
		return submission.Submission{}, err
	}
	if err := s.validateInput(schedule, in); err != nil {
		return submission.Submission{}, err
	}

	existing, found, err := s.subRepo.GetByOwner(ctx, in.Kind, strings.TrimSpace(in.OwnerRef), in.Week)
	if err != nil {
		return submission.Submission{}, fmt.Errorf("look up submission: %w", err)
	}
	if !found {
		return submission.Submission{}, fmt.Errorf("%w: submission for owner %s week %s", ErrNotFound, in.OwnerRef, in.Week)
	}

	existing.TotalGoalsGuess = in.TotalGoalsGuess
	existing.Picks = append([]submission.Pick(nil), in.Picks...)
	existing.UpdatedAt = s.now().UTC()

	if err := s.subRepo.Update(ctx, existing); err != nil {
		return submission.Submission{}, fmt.Errorf("persist submission update: %w", err)
	}
	return existing, nil
}

func (s *SubmissionService) Delete(ctx context.Context, kind submission.Kind, ownerRef string, key week.Key) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.SubmissionService.Delete")
	defer span.End()

	if _, err := s.gate(ctx, key); err != nil {
		return err
	}

	existing, found, err := s.subRepo.GetByOwner(ctx, kind, strings.TrimSpace(ownerRef), key)
	if err != nil {
		return fmt.Errorf("look up submission: %w", err)
	}
	if !found {
		return fmt.Errorf("%w: submission for owner %s week %s", ErrNotFound, ownerRef, key)
	}
	if err := s.subRepo.Delete(ctx, existing.ID); err != nil {
		return fmt.Errorf("delete submission %s: %w", existing.ID, err)
	}
	return nil
}

func (s *SubmissionService) Get(ctx context.Context, kind submission.Kind, ownerRef string, key week.Key) (submission.Submission, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SubmissionService.Get")
	defer span.End()

	sub, found, err := s.subRepo.GetByOwner(ctx, kind, strings.TrimSpace(ownerRef), key)
	if err != nil {
		return submission.Submission{}, fmt.Errorf("look up submission: %w", err)
	}
	if !found {
		return submission.Submission{}, fmt.Errorf("%w: submission for owner %s week %s", ErrNotFound, ownerRef, key)
	}
	return sub, nil
}

// Lockout reports the gate's verdict for a week; a missing week is locked.
func (s *SubmissionService) Lockout(ctx context.Context, key week.Key) (week.LockoutStatus, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SubmissionService.Lockout")
	defer span.End()

	schedule, found, err := s.weekRepo.Get(ctx, key)
	if err != nil {
		return week.LockoutStatus{}, fmt.Errorf("load week %s for lockout: %w", key, err)
	}
	if !found {
		return week.EvaluateLockout(s.now(), nil), nil
	}
	return week.EvaluateLockout(s.now(), &schedule), nil
}

// gate loads the week and rejects mutations on settled or locked weeks.
func (s *SubmissionService) gate(ctx context.Context, key week.Key) (*week.Schedule, error) {
	schedule, found, err := s.weekRepo.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load week %s: %w", key, err)
	}
	if !found {
		status := week.EvaluateLockout(s.now(), nil)
		return nil, fmt.Errorf("%w: %s", ErrWeekLocked, status.Reason)
	}
	if schedule.Settled {
		return nil, fmt.Errorf("%w: week %s", ErrWeekSettled, key)
	}
	if status := week.EvaluateLockout(s.now(), &schedule); status.Locked {
		return nil, fmt.Errorf("%w: %s", ErrWeekLocked, status.Reason)
	}
	return &schedule, nil
}

func (s *SubmissionService) validateInput(schedule *week.Schedule, in SubmissionInput) error {
	if !in.Kind.Valid() {
		return fmt.Errorf("%w: unknown submission kind %q", ErrInvalidInput, in.Kind)
	}
	if strings.TrimSpace(in.OwnerRef) == "" {
		return fmt.Errorf("%w: owner reference is required", ErrInvalidInput)
	}
	if in.TotalGoalsGuess < 0 {
		return fmt.Errorf("%w: total goals guess must not be negative", ErrInvalidInput)
	}
	if len(in.Picks) != week.SlateSize {
		return fmt.Errorf("%w: got %d picks, want %d", ErrInvalidInput, len(in.Picks), week.SlateSize)
	}

	seen := make(map[string]struct{}, week.SlateSize)
	for _, p := range in.Picks {
		if !p.Pick.Valid() {
			return fmt.Errorf("%w: invalid pick %q for match %s", ErrInvalidInput, p.Pick, p.MatchID)
		}
		if _, dup := seen[p.MatchID]; dup {
			return fmt.Errorf("%w: duplicate pick for match %s", ErrInvalidInput, p.MatchID)
		}
		seen[p.MatchID] = struct{}{}
		if schedule.FindMatch(p.MatchID) == nil {
			return fmt.Errorf("%w: match %s is not part of week %s", ErrInvalidInput, p.MatchID, schedule.Key)
		}
	}
	return nil
}
