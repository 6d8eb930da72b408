package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// counterValue finds the counter in reg whose labels match exactly
func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, metric := range mf.GetMetric() {
			matched := 0
			for _, lp := range metric.GetLabel() {
				if labels[lp.GetName()] == lp.GetValue() {
					matched++
				}
			}
			if matched == len(labels) {
				return metric.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func TestWorkflowMetricsCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWorkflowMetrics(reg)

	m.ObserveOperation("discharge_patient", nil)
	m.ObserveOperation("discharge_patient", nil)
	m.ObserveOperation("discharge_patient", errors.New("boom"))
	m.ObserveEvent("admissions")

	ops := "hospital_workflow_operations_total"
	assert.Equal(t, 2.0, counterValue(t, reg, ops, map[string]string{"operation": "discharge_patient", "outcome": "ok"}))
	assert.Equal(t, 1.0, counterValue(t, reg, ops, map[string]string{"operation": "discharge_patient", "outcome": "error"}))
	assert.Equal(t, 1.0, counterValue(t, reg, "hospital_workflow_events_total", map[string]string{"topic": "admissions"}))
}

func TestWorkflowMetricsNilSafe(t *testing.T) {
	var m *WorkflowMetrics
	m.ObserveOperation("approve_doctor", nil)
	m.ObserveEvent("billing")
}
