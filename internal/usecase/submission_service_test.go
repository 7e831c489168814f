package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sonam-git/quiniela-sub001/internal/domain/submission"
	"github.com/sonam-git/quiniela-sub001/internal/domain/week"
)

func seedWeek(t *testing.T, env *testEnv, lead time.Duration) week.Schedule {
	t.Helper()
	s := newTestSchedule(testWeek, lead)
	if err := env.weekRepo.Save(context.Background(), s); err != nil {
		t.Fatalf("seed week: %v", err)
	}
	return s
}

func TestCreateSubmissionBeforeLockout(t *testing.T) {
	env := newTestEnv()
	sched := seedWeek(t, env, time.Hour)
	svc := env.submissions()

	sub, err := svc.Create(context.Background(), SubmissionInput{
		Kind:            submission.KindGuest,
		OwnerRef:        "  invitado-1  ",
		Week:            testWeek,
		TotalGoalsGuess: 21,
		Picks:           picksFor(&sched, week.OutcomeDraw),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if sub.ID == "" {
		t.Fatal("submission has no id")
	}
	if sub.OwnerRef != "invitado-1" {
		t.Fatalf("owner ref = %q, want trimmed", sub.OwnerRef)
	}
	if sub.GoalDeviation != nil || sub.TotalPoints != 0 {
		t.Fatal("fresh submission must start unscored")
	}
}

func TestCreateSubmissionLockoutBoundary(t *testing.T) {
	env := newTestEnv()
	sched := seedWeek(t, env, 4*time.Minute)
	svc := env.submissions()

	_, err := svc.Create(context.Background(), SubmissionInput{
		Kind:            submission.KindUser,
		OwnerRef:        "ana",
		Week:            testWeek,
		TotalGoalsGuess: 18,
		Picks:           picksFor(&sched, week.OutcomeSideA),
	})
	if !errors.Is(err, ErrWeekLocked) {
		t.Fatalf("create inside lockout window = %v, want ErrWeekLocked", err)
	}
}

func TestCreateSubmissionMissingWeekIsLocked(t *testing.T) {
	env := newTestEnv()
	svc := env.submissions()

	_, err := svc.Create(context.Background(), SubmissionInput{
		Kind:            submission.KindUser,
		OwnerRef:        "ana",
		Week:            testWeek,
		TotalGoalsGuess: 18,
		Picks:           make([]submission.Pick, week.SlateSize),
	})
	if !errors.Is(err, ErrWeekLocked) {
		t.Fatalf("create for missing week = %v, want ErrWeekLocked", err)
	}
}

func TestCreateSubmissionDuplicate(t *testing.T) {
	env := newTestEnv()
	sched := seedWeek(t, env, time.Hour)
	svc := env.submissions()
	ctx := context.Background()

	in := SubmissionInput{
		Kind:            submission.KindUser,
		OwnerRef:        "ana",
		Week:            testWeek,
		TotalGoalsGuess: 18,
		Picks:           picksFor(&sched, week.OutcomeSideA),
	}
	if _, err := svc.Create(ctx, in); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := svc.Create(ctx, in); !errors.Is(err, ErrDuplicateSubmission) {
		t.Fatalf("second create = %v, want ErrDuplicateSubmission", err)
	}
}

func TestCreateSubmissionValidation(t *testing.T) {
	env := newTestEnv()
	sched := seedWeek(t, env, time.Hour)
	svc := env.submissions()
	ctx := context.Background()

	valid := SubmissionInput{
		Kind:            submission.KindUser,
		OwnerRef:        "ana",
		Week:            testWeek,
		TotalGoalsGuess: 18,
		Picks:           picksFor(&sched, week.OutcomeSideA),
	}

	cases := []struct {
		name   string
		mutate func(*SubmissionInput)
	}{
		{"unknown kind", func(in *SubmissionInput) { in.Kind = "admin" }},
		{"blank owner", func(in *SubmissionInput) { in.OwnerRef = "   " }},
		{"negative guess", func(in *SubmissionInput) { in.TotalGoalsGuess = -1 }},
		{"short pick list", func(in *SubmissionInput) { in.Picks = in.Picks[:5] }},
		{"invalid pick value", func(in *SubmissionInput) { in.Picks[3].Pick = "X" }},
		{"duplicate match", func(in *SubmissionInput) { in.Picks[1].MatchID = in.Picks[0].MatchID }},
		{"foreign match", func(in *SubmissionInput) { in.Picks[0].MatchID = "otra" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := valid
			in.Picks = append([]submission.Pick(nil), valid.Picks...)
			tc.mutate(&in)
			if _, err := svc.Create(ctx, in); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("got %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestUpdateSubmission(t *testing.T) {
	env := newTestEnv()
	sched := seedWeek(t, env, time.Hour)
	svc := env.submissions()
	ctx := context.Background()

	created := env.mustCreateSub(ctx, svc, "ana", 18, picksFor(&sched, week.OutcomeSideA))

	updated, err := svc.Update(ctx, SubmissionInput{
		Kind:            submission.KindUser,
		OwnerRef:        "ana",
		Week:            testWeek,
		TotalGoalsGuess: 25,
		Picks:           picksFor(&sched, week.OutcomeSideB),
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.ID != created.ID {
		t.Fatalf("update changed identity: %s -> %s", created.ID, updated.ID)
	}
	if updated.TotalGoalsGuess != 25 {
		t.Fatalf("guess = %d, want 25", updated.TotalGoalsGuess)
	}
	if updated.Picks[0].Pick != week.OutcomeSideB {
		t.Fatal("picks were not replaced")
	}
}

func TestUpdateSubmissionNotFound(t *testing.T) {
	env := newTestEnv()
	sched := seedWeek(t, env, time.Hour)
	svc := env.submissions()

	_, err := svc.Update(context.Background(), SubmissionInput{
		Kind:            submission.KindUser,
		OwnerRef:        "nadie",
		Week:            testWeek,
		TotalGoalsGuess: 10,
		Picks:           picksFor(&sched, week.OutcomeSideA),
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("update of missing submission = %v, want ErrNotFound", err)
	}
}

func TestDeleteSubmissionRespectsGate(t *testing.T) {
	env := newTestEnv()
	sched := seedWeek(t, env, time.Hour)
	svc := env.submissions()
	ctx := context.Background()

	env.mustCreateSub(ctx, svc, "ana", 18, picksFor(&sched, week.OutcomeSideA))

	if err := svc.Delete(ctx, submission.KindUser, "ana", testWeek); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, found, _ := env.subRepo.GetByOwner(ctx, submission.KindUser, "ana", testWeek); found {
		t.Fatal("submission still present after delete")
	}

	env.clock = sched.Matches[0].KickoffAt.Add(-time.Minute)
	if err := svc.Delete(ctx, submission.KindUser, "ana", testWeek); !errors.Is(err, ErrWeekLocked) {
		t.Fatalf("delete inside lockout window = %v, want ErrWeekLocked", err)
	}
}

func TestMutationsRejectedOnSettledWeek(t *testing.T) {
	env := newTestEnv()
	sched := seedWeek(t, env, time.Hour)
	sched.Settled = true
	if err := env.weekRepo.Save(context.Background(), sched); err != nil {
		t.Fatalf("save settled week: %v", err)
	}
	svc := env.submissions()

	_, err := svc.Create(context.Background(), SubmissionInput{
		Kind:            submission.KindUser,
		OwnerRef:        "ana",
		Week:            testWeek,
		TotalGoalsGuess: 18,
		Picks:           picksFor(&sched, week.OutcomeSideA),
	})
	if !errors.Is(err, ErrWeekSettled) {
		t.Fatalf("create on settled week = %v, want ErrWeekSettled", err)
	}
}

func TestLockoutStatus(t *testing.T) {
	env := newTestEnv()
	sched := seedWeek(t, env, time.Hour)
	svc := env.submissions()
	ctx := context.Background()

	status, err := svc.Lockout(ctx, testWeek)
	if err != nil {
		t.Fatalf("Lockout: %v", err)
	}
	if status.Locked {
		t.Fatalf("week locked an hour before kickoff: %s", status.Reason)
	}

	env.clock = sched.Matches[0].KickoffAt.Add(-week.LockoutLead)
	status, err = svc.Lockout(ctx, testWeek)
	if err != nil {
		t.Fatalf("Lockout at boundary: %v", err)
	}
	if !status.Locked {
		t.Fatal("week must be locked exactly at the lead boundary")
	}

	if status, err = svc.Lockout(ctx, testWeek.Next()); err != nil {
		t.Fatalf("Lockout for missing week: %v", err)
	} else if !status.Locked {
		t.Fatal("missing week must report locked")
	}
}
