package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nanomatch_worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nanomatch_worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "nanomatch_worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	// MatchesScored counts scoring calls by outcome: scored or unscoreable.
	MatchesScored = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nanomatch_matches_scored_total",
			Help: "Total number of SME/influencer pairs scored",
		},
		[]string{"outcome"},
	)

	UnscoreableCandidates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nanomatch_unscoreable_candidates_total",
			Help: "Candidates excluded from ranking because they violate profile invariants",
		},
		[]string{"reason"},
	)

	Recommendations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nanomatch_recommendations_total",
			Help: "Recommendation requests by result status",
		},
		[]string{"status"},
	)

	RecommendationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "nanomatch_recommendation_duration_seconds",
			Help:    "End-to-end duration of recommendation requests",
			Buckets: prometheus.DefBuckets,
		},
	)

	CandidatePoolSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "nanomatch_candidate_pool_size",
			Help:    "Number of candidates returned by the selector per request",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100},
		},
	)

	AuditWriteFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nanomatch_audit_write_failures_total",
			Help: "Match audit records that could not be written",
		},
		[]string{"sink"},
	)

	ProfileCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nanomatch_profile_cache_lookups_total",
			Help: "Profile cache lookups by kind and result",
		},
		[]string{"kind", "result"},
	)
)
