package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// WorkflowMetrics records outcomes of workflow commands.
type WorkflowMetrics struct {
	duration *prometheus.HistogramVec
	accepted *prometheus.CounterVec
	rejected *prometheus.CounterVec
}

// NewWorkflowMetrics registers the workflow metrics on the provided registerer.
func NewWorkflowMetrics(reg prometheus.Registerer) *WorkflowMetrics {
	if reg == nil {
		return &WorkflowMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "workflow_command_duration_seconds",
		Help:    "Duration of workflow commands in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"command"})
	accepted := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "workflow_command_accepted",
		Help: "Workflow commands that applied.",
	}, []string{"command"})
	rejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "workflow_command_rejected",
		Help: "Workflow commands refused by a guard.",
	}, []string{"command", "code"})
	reg.MustRegister(duration, accepted, rejected)
	return &WorkflowMetrics{
		duration: duration,
		accepted: accepted,
		rejected: rejected,
	}
}

// ObserveDuration records the duration for the named command.
func (w *WorkflowMetrics) ObserveDuration(command string, duration time.Duration) {
	if w == nil || w.duration == nil {
		return
	}
	w.duration.WithLabelValues(normalizeLabel(command)).Observe(duration.Seconds())
}

// IncAccepted increments the accepted counter for the named command.
func (w *WorkflowMetrics) IncAccepted(command string) {
	if w == nil || w.accepted == nil {
		return
	}
	w.accepted.WithLabelValues(normalizeLabel(command)).Inc()
}

// IncRejected increments the rejected counter for the named command and error code.
func (w *WorkflowMetrics) IncRejected(command, code string) {
	if w == nil || w.rejected == nil {
		return
	}
	w.rejected.WithLabelValues(normalizeLabel(command), normalizeLabel(code)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
