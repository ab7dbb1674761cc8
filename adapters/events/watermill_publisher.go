package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/layer-3/amicbridge/ports"
)

// WalletVerifiedTopic is the topic wallet verification events are published to
const WalletVerifiedTopic = "amicbridge.wallet.verified"

// WalletVerifiedEvent is emitted after a wallet proves ownership of its address
type WalletVerifiedEvent struct {
	WalletAddress string    `json:"wallet_address"`
	Nonce         string    `json:"nonce,omitempty"`
	VerifiedAt    time.Time `json:"verified_at"`
}

// WatermillPublisher implements the EventPublisher interface using Watermill
type WatermillPublisher struct {
	publisher message.Publisher
	topic     string
}

// NewWatermillPublisher creates a new Watermill publisher
func NewWatermillPublisher(publisher message.Publisher) ports.EventPublisher {
	return &WatermillPublisher{
		publisher: publisher,
		topic:     WalletVerifiedTopic,
	}
}

// PublishWalletVerified publishes a wallet verified event
func (p *WatermillPublisher) PublishWalletVerified(ctx context.Context, walletAddress, nonce string, verifiedAt time.Time) error {
	event := WalletVerifiedEvent{
		WalletAddress: walletAddress,
		Nonce:         nonce,
		VerifiedAt:    verifiedAt.UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(uuid.NewString(), payload)
	msg.SetContext(ctx)

	if err := p.publisher.Publish(p.topic, msg); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}

// NopPublisher drops every event. Used when no event backend is configured.
type NopPublisher struct{}

// PublishWalletVerified does nothing
func (NopPublisher) PublishWalletVerified(context.Context, string, string, time.Time) error {
	return nil
}
