package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsForTesting_Unregistered(t *testing.T) {
	a := NewMetricsForTesting()
	b := NewMetricsForTesting()

	// Independent instances must not share state.
	a.Predictions.WithLabelValues(OutcomeFlood).Inc()
	assert.InDelta(t, 1, testutil.ToFloat64(a.Predictions.WithLabelValues(OutcomeFlood)), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(b.Predictions.WithLabelValues(OutcomeFlood)), 0)
}

func TestMetrics_RegisterOnFreshRegistry(t *testing.T) {
	m := NewMetricsForTesting()
	reg := prometheus.NewPedanticRegistry()
	for _, c := range m.collectors() {
		require.NoError(t, reg.Register(c))
	}

	m.Predictions.WithLabelValues(OutcomeNoFlood).Inc()
	m.Alerts.WithLabelValues(AlertSent).Inc()
	m.ModelLoaded.Set(1)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "flood_risk_predictions_total")
	assert.Contains(t, names, "flood_risk_alerts_total")
	assert.Contains(t, names, "flood_risk_model_loaded")
}
