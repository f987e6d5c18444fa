package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sony/gobreaker/v2"

	"github.com/kirillkom/trialsage/internal/core/domain"
)

// EvaluationMetrics observes batch evaluation, model calls and breaker state.
type EvaluationMetrics struct {
	service string

	documentsTotal *prometheus.CounterVec
	fieldScores    *prometheus.HistogramVec
	modelCalls     *prometheus.CounterVec
	modelDuration  *prometheus.HistogramVec
	breakerState   *prometheus.GaugeVec
}

func NewEvaluationMetrics(registry prometheus.Registerer, service string) *EvaluationMetrics {
	documentsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "evaluation",
			Name:      "documents_total",
			Help:      "Evaluated documents by status and skip reason.",
		},
		[]string{"service", "status", "reason"},
	)
	fieldScores := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "evaluation",
			Name:      "field_score",
			Help:      "Distribution of per-document field scores.",
			Buckets:   prometheus.LinearBuckets(0.1, 0.1, 10),
		},
		[]string{"service", "field"},
	)
	modelCalls := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "calls_total",
			Help:      "Model calls by provider and status.",
		},
		[]string{"service", "provider", "status"},
	)
	modelDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "call_duration_seconds",
			Help:      "Model call duration in seconds.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
		},
		[]string{"service", "provider"},
	)
	breakerState := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "circuit_breaker_state",
			Help:      "Circuit breaker state per operation: 0 closed, 1 half-open, 2 open.",
		},
		[]string{"service", "operation"},
	)

	registry.MustRegister(documentsTotal, fieldScores, modelCalls, modelDuration, breakerState)

	return &EvaluationMetrics{
		service:        service,
		documentsTotal: documentsTotal,
		fieldScores:    fieldScores,
		modelCalls:     modelCalls,
		modelDuration:  modelDuration,
		breakerState:   breakerState,
	}
}

func (m *EvaluationMetrics) DocumentScored(score domain.DocumentScore) {
	m.documentsTotal.WithLabelValues(m.service, "scored", "").Inc()
	m.fieldScores.WithLabelValues(m.service, domain.FieldStudyObjective).Observe(score.ObjectiveRougeL)
	m.fieldScores.WithLabelValues(m.service, domain.FieldInclusionCriteria).Observe(score.InclusionAccuracy)
	m.fieldScores.WithLabelValues(m.service, domain.FieldExclusionCriteria).Observe(score.ExclusionAccuracy)
	m.fieldScores.WithLabelValues(m.service, domain.FieldPrimaryEndpoints).Observe(score.PrimaryEndpointAccuracy)
	m.fieldScores.WithLabelValues(m.service, domain.FieldSecondaryEndpoints).Observe(score.SecondaryEndpointAccuracy)
}

func (m *EvaluationMetrics) DocumentSkipped(skip domain.SkippedDocument) {
	m.documentsTotal.WithLabelValues(m.service, "skipped", string(skip.Reason)).Inc()
}

func (m *EvaluationMetrics) ObserveModelCall(provider string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.modelCalls.WithLabelValues(m.service, provider, status).Inc()
	m.modelDuration.WithLabelValues(m.service, provider).Observe(duration.Seconds())
}

func (m *EvaluationMetrics) ObserveBreakerState(operation string, _, to gobreaker.State) {
	value := 0.0
	switch to {
	case gobreaker.StateHalfOpen:
		value = 1
	case gobreaker.StateOpen:
		value = 2
	}
	m.breakerState.WithLabelValues(m.service, operation).Set(value)
}
