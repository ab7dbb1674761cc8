package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishWalletVerified(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	t.Cleanup(func() { pubSub.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	messages, err := pubSub.Subscribe(ctx, WalletVerifiedTopic)
	require.NoError(t, err)

	verifiedAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	pub := NewWatermillPublisher(pubSub)
	require.NoError(t, pub.PublishWalletVerified(ctx, "0xabc", "nonce-1", verifiedAt))

	select {
	case msg := <-messages:
		msg.Ack()
		assert.NotEmpty(t, msg.UUID)

		var event WalletVerifiedEvent
		require.NoError(t, json.Unmarshal(msg.Payload, &event))
		assert.Equal(t, "0xabc", event.WalletAddress)
		assert.Equal(t, "nonce-1", event.Nonce)
		assert.True(t, verifiedAt.Equal(event.VerifiedAt))
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}
}

func TestPublishAfterClose(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	require.NoError(t, pubSub.Close())

	err := NewWatermillPublisher(pubSub).PublishWalletVerified(context.Background(), "0xabc", "", time.Now())
	assert.Error(t, err)
}

func TestNopPublisher(t *testing.T) {
	assert.NoError(t, NopPublisher{}.PublishWalletVerified(context.Background(), "0xabc", "", time.Now()))
}
