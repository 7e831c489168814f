package usecase

import (
	"sort"

	"github.com/sonam-git/quiniela-sub001/internal/domain/submission"
	"github.com/sonam-git/quiniela-sub001/internal/domain/week"
)

// countPoints awards one point per pick matching a completed match's outcome.
// Incomplete matches contribute nothing either way, which is what makes live
// partial scoring possible before settlement.
func countPoints(schedule *week.Schedule, picks []submission.Pick) int {
	outcomeByMatch := make(map[string]week.Outcome, len(schedule.Matches))
	for _, m := range schedule.Matches {
		if m.Completed && m.Outcome.Valid() {
			outcomeByMatch[m.ID] = m.Outcome
		}
	}

	points := 0
	for _, p := range picks {
		if outcome, ok := outcomeByMatch[p.MatchID]; ok && outcome == p.Pick {
			points++
		}
	}
	return points
}

// scoreSubmission derives the pair (totalPoints, goalDeviation) a submission
// must carry given the schedule's current results. Deviation stays nil until
// every match has concluded. Settlement and live recomputation both go
// through here so the two can never diverge.
func scoreSubmission(schedule *week.Schedule, sub *submission.Submission) (int, *int) {
	points := countPoints(schedule, sub.Picks)

	total, allComplete := schedule.TotalGoals()
	if schedule.Settled && schedule.ActualTotalGoals != nil {
		total, allComplete = *schedule.ActualTotalGoals, true
	}
	if !allComplete {
		return points, nil
	}

	deviation := sub.TotalGoalsGuess - total
	if deviation < 0 {
		deviation = -deviation
	}
	return points, &deviation
}

// rankSubmissions returns the competing (non-placeholder) submissions sorted
// by total points descending, then goal deviation ascending with unknown
// deviation last, then owner for a stable order.
func rankSubmissions(subs []submission.Submission) []submission.Submission {
	ranked := make([]submission.Submission, 0, len(subs))
	for _, sub := range subs {
		if sub.IsPlaceholder {
			continue
		}
		ranked = append(ranked, sub)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].TotalPoints != ranked[j].TotalPoints {
			return ranked[i].TotalPoints > ranked[j].TotalPoints
		}
		if cmp := compareDeviation(ranked[i].GoalDeviation, ranked[j].GoalDeviation); cmp != 0 {
			return cmp < 0
		}
		if ranked[i].OwnerRef != ranked[j].OwnerRef {
			return ranked[i].OwnerRef < ranked[j].OwnerRef
		}
		return ranked[i].Kind < ranked[j].Kind
	})
	return ranked
}

// markWinners flags every submission exactly tying the top (points,
// deviation) pair and returns the winner count. Input must already be ranked.
func markWinners(ranked []submission.Submission) int {
	if len(ranked) == 0 {
		return 0
	}

	top := ranked[0]
	winners := 0
	for i := range ranked {
		ranked[i].IsWinner = ranked[i].TotalPoints == top.TotalPoints &&
			deviationEqual(ranked[i].GoalDeviation, top.GoalDeviation)
		if ranked[i].IsWinner {
			winners++
		}
	}
	return winners
}

func compareDeviation(a, b *int) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	case *a < *b:
		return -1
	case *a > *b:
		return 1
	default:
		return 0
	}
}

func deviationEqual(a, b *int) bool {
	return compareDeviation(a, b) == 0
}
