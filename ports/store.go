package ports

import (
	"context"
	"time"

	"github.com/layer-3/amicbridge/core"
)

// TrustRecordStore looks up trust records by wallet address.
// Implementations return core.ErrRecordNotFound for unknown wallets.
type TrustRecordStore interface {
	GetTrustRecord(ctx context.Context, walletAddress string) (core.TrustRecord, error)
}

// NonceStore remembers consumed challenge nonces
type NonceStore interface {
	// ConsumeNonce marks a nonce as used for ttl and reports whether it was fresh
	ConsumeNonce(ctx context.Context, nonce string, ttl time.Duration) (bool, error)
}
