package metrics

import (
	"testing"

	"github.com/layer-3/amicbridge/core"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestPrometheusCounters(t *testing.T) {
	m := NewPrometheus(prometheus.NewRegistry())

	m.ObserveVerification(OutcomeVerified)
	m.ObserveVerification(OutcomeVerified)
	m.ObserveVerification(OutcomeAddressMismatch)
	m.ObserveTrustScore(core.TrustLevelLow, true)
	m.ObserveTrustScore(core.TrustLevelHigh, false)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.verifications.WithLabelValues(OutcomeVerified)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.verifications.WithLabelValues(OutcomeAddressMismatch)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.trustScores.WithLabelValues("low", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.trustScores.WithLabelValues("high", "false")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.trustScores.WithLabelValues("medium", "false")))
}

func TestNewPrometheusRegistersOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewPrometheus(reg)

	assert.Panics(t, func() { NewPrometheus(reg) })
}
