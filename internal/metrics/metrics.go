package metrics

import "github.com/prometheus/client_golang/prometheus"

// WorkflowMetrics counts workflow operations and the change events they raise.
type WorkflowMetrics struct {
	operationsTotal *prometheus.CounterVec
	eventsTotal     *prometheus.CounterVec
}

func NewWorkflowMetrics(reg prometheus.Registerer) *WorkflowMetrics {
	m := &WorkflowMetrics{
		operationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hospital",
			Subsystem: "workflow",
			Name:      "operations_total",
			Help:      "Total workflow operations by outcome",
		}, []string{"operation", "outcome"}),
		eventsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hospital",
			Subsystem: "workflow",
			Name:      "events_total",
			Help:      "Total change events published by topic",
		}, []string{"topic"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.operationsTotal, m.eventsTotal)
	return m
}

// ObserveOperation records one call; a nil err counts as "ok".
func (m *WorkflowMetrics) ObserveOperation(operation string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.operationsTotal.WithLabelValues(operation, outcome).Inc()
}

func (m *WorkflowMetrics) ObserveEvent(topic string) {
	if m == nil {
		return
	}
	m.eventsTotal.WithLabelValues(topic).Inc()
}
