// Package observability holds the process-wide telemetry wiring: OpenTelemetry
// tracing setup and the Prometheus collectors for quiz-level business metrics.
//
// HTTP traffic metrics live in the middleware package; the collectors here
// track the quiz funnel itself (sessions started, rounds recorded, how many
// rounds convergence took, and how recommendations land).
package observability

import "github.com/prometheus/client_golang/prometheus"

var (
	// SessionsStarted counts fresh sessions, whether from a first visit,
	// a stale-session replacement, or an explicit restart.
	SessionsStarted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "quiz_sessions_started_total",
		Help: "Total number of quiz sessions created.",
	})

	// ChoicesRecorded counts accepted discovery rounds.
	ChoicesRecorded = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "quiz_choices_recorded_total",
		Help: "Total number of accepted quiz rounds.",
	})

	// ConvergenceRounds records how many rounds a session ran before the
	// confidence check stopped it. Buckets span the allowed round window.
	ConvergenceRounds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "quiz_convergence_rounds",
		Help:    "Rounds completed before a session converged on a style.",
		Buckets: []float64{6, 7, 8, 9, 10, 11, 12, 13, 14, 15},
	})

	// RecommendationsAccepted counts confirmed style recommendations.
	RecommendationsAccepted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "quiz_recommendations_accepted_total",
		Help: "Total number of confirmed style recommendations.",
	})

	// RecommendationsRejected counts rejected primary recommendations.
	RecommendationsRejected = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "quiz_recommendations_rejected_total",
		Help: "Total number of rejected style recommendations.",
	})
)

func init() {
	prometheus.MustRegister(
		SessionsStarted,
		ChoicesRecorded,
		ConvergenceRounds,
		RecommendationsAccepted,
		RecommendationsRejected,
	)
}
