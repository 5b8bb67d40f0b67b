package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	questionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sqlsage_questions_total",
			Help: "Total number of questions run through the pipeline.",
		},
	)
	questionDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sqlsage_question_duration_seconds",
			Help:    "End-to-end pipeline latency per question in seconds.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)
	generationFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sqlsage_generation_failures_total",
			Help: "Total number of questions where SQL generation failed.",
		},
	)
	executionFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sqlsage_execution_failures_total",
			Help: "Total number of generated queries that failed against the store.",
		},
	)
	insightDegradedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sqlsage_insight_degraded_total",
			Help: "Total number of answers that fell back to a canned insight.",
		},
	)
	schemaRefreshesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sqlsage_schema_refreshes_total",
			Help: "Total number of schema introspection runs after startup.",
		},
	)
	completionDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sqlsage_completion_duration_seconds",
			Help:    "Language model completion latency in seconds.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"purpose"},
	)
)

func init() {
	prometheus.MustRegister(
		questionsTotal,
		questionDurationSeconds,
		generationFailuresTotal,
		executionFailuresTotal,
		insightDegradedTotal,
		schemaRefreshesTotal,
		completionDurationSeconds,
	)
}

// ObserveQuestion records one completed pipeline run
func ObserveQuestion(elapsed time.Duration) {
	questionsTotal.Inc()
	questionDurationSeconds.Observe(elapsed.Seconds())
}

// ObserveCompletion records the latency of one completion call. The purpose
// label distinguishes query generation from insight generation
func ObserveCompletion(purpose string, elapsed time.Duration) {
	completionDurationSeconds.WithLabelValues(purpose).Observe(elapsed.Seconds())
}

func IncrementGenerationFailure() {
	generationFailuresTotal.Inc()
}

func IncrementExecutionFailure() {
	executionFailuresTotal.Inc()
}

func IncrementInsightDegraded() {
	insightDegradedTotal.Inc()
}

func IncrementSchemaRefresh() {
	schemaRefreshesTotal.Inc()
}
