package ports

import (
	"context"
	"time"
)

// EventPublisher publishes verification outcomes to other systems
type EventPublisher interface {
	PublishWalletVerified(ctx context.Context, walletAddress, nonce string, verifiedAt time.Time) error
}
