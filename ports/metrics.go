package ports

import "github.com/layer-3/amicbridge/core"

// Metrics records verification and scoring outcomes
type Metrics interface {
	ObserveVerification(outcome string)
	ObserveTrustScore(level core.TrustLevel, fallback bool)
}
