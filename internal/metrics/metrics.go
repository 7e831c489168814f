package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SchedulesBuilt = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiniela_schedules_built_total",
			Help: "Weekly schedules built, by data source",
		},
		[]string{"source"},
	)

	ProviderFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "quiniela_provider_fallbacks_total",
			Help: "Schedule builds that fell back to the curated calendar",
		},
	)

	ScoreRecomputes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "quiniela_score_recomputes_total",
			Help: "Full scoring passes over a week's submissions",
		},
	)

	WeeksSettled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiniela_weeks_settled_total",
			Help: "Week settlements, by trigger",
		},
		[]string{"trigger"},
	)

	WeeksPruned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "quiniela_weeks_pruned_total",
			Help: "Old weeks removed by retention pruning",
		},
	)

	BackgroundRunFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiniela_background_run_failures_total",
			Help: "Background duty runs that ended in error",
		},
		[]string{"job"},
	)
)
