package metrics

import (
	"github.com/layer-3/amicbridge/core"
	"github.com/layer-3/amicbridge/ports"
	"github.com/prometheus/client_golang/prometheus"
)

// Verification outcomes
const (
	OutcomeVerified         = "verified"
	OutcomeMissingField     = "missing_field"
	OutcomeInvalidSignature = "invalid_signature"
	OutcomeAddressMismatch  = "address_mismatch"
	OutcomeInvalidChallenge = "invalid_challenge"
	OutcomeNonceReused      = "nonce_reused"
	OutcomeError            = "error"
)

// Prometheus implements the Metrics interface with Prometheus counters
type Prometheus struct {
	verifications *prometheus.CounterVec
	trustScores   *prometheus.CounterVec
}

// NewPrometheus registers the service counters on reg
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	m := &Prometheus{
		verifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "amicbridge",
			Name:      "wallet_verifications_total",
			Help:      "Wallet ownership verification attempts by outcome.",
		}, []string{"outcome"}),
		trustScores: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "amicbridge",
			Name:      "trust_scores_total",
			Help:      "Trust scores served by level and whether the no-history fallback was used.",
		}, []string{"level", "fallback"}),
	}

	reg.MustRegister(m.verifications, m.trustScores)

	return m
}

// ObserveVerification counts a verification outcome
func (m *Prometheus) ObserveVerification(outcome string) {
	m.verifications.WithLabelValues(outcome).Inc()
}

// ObserveTrustScore counts a served trust score
func (m *Prometheus) ObserveTrustScore(level core.TrustLevel, fallback bool) {
	label := "false"
	if fallback {
		label = "true"
	}
	m.trustScores.WithLabelValues(string(level), label).Inc()
}

// Nop discards all observations
type Nop struct{}

func (Nop) ObserveVerification(string)              {}
func (Nop) ObserveTrustScore(core.TrustLevel, bool) {}

var (
	_ ports.Metrics = (*Prometheus)(nil)
	_ ports.Metrics = Nop{}
)
