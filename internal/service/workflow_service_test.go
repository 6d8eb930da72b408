package service

import (
	"testing"
	"time"

	"hospital-workflow-backend/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func counter(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			matched := 0
			for _, lp := range m.GetLabel() {
				if labels[lp.GetName()] == lp.GetValue() {
					matched++
				}
			}
			if matched == len(labels) {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func TestWorkflowService_RecordsMetricsAndEvents(t *testing.T) {
	env := setupWorkflow(t, true)
	reg := prometheus.NewRegistry()
	env.svc = NewWorkflowService(env.store, testBilling(), env.bus, metrics.NewWorkflowMetrics(reg), zap.NewNop())
	env.svc.now = func() time.Time { return testClock }

	_, profile := env.admit(t, "Pat", "One", "")
	_, err := env.svc.MarkInvoicePaid(404, "", 0)
	require.Error(t, err)
	_, err = env.svc.MarkInvoicePaid(*profile.CurrentBillID, "", 0)
	require.NoError(t, err)

	ops := "hospital_workflow_operations_total"
	assert.Equal(t, 1.0, counter(t, reg, ops, map[string]string{"operation": "mark_invoice_paid", "outcome": "ok"}))
	assert.Equal(t, 1.0, counter(t, reg, ops, map[string]string{"operation": "mark_invoice_paid", "outcome": "error"}))
	assert.Equal(t, 1.0, counter(t, reg, "hospital_workflow_events_total", map[string]string{"topic": "billing"}))
	assert.GreaterOrEqual(t, counter(t, reg, "hospital_workflow_events_total", map[string]string{"topic": "admissions"}), 1.0)
}
