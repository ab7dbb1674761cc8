package service

import (
	"context"
	"errors"
	"testing"

	"github.com/layer-3/amicbridge/adapters/store"
	"github.com/layer-3/amicbridge/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type brokenStore struct{}

func (brokenStore) GetTrustRecord(context.Context, string) (core.TrustRecord, error) {
	return core.TrustRecord{}, errors.New("connection refused")
}

func TestTrustScoreKnownWallet(t *testing.T) {
	s := store.NewMemoryStore(core.TrustRecord{
		WalletAddress:  "0x1234...abcd",
		VerifiedWallet: true,
		CompletedLoans: 3,
	})
	svc := NewTrustService(s, nil, zap.NewNop())

	got, err := svc.TrustScore(context.Background(), "0x1234...abcd")
	require.NoError(t, err)
	assert.Equal(t, core.TrustScore{Score: 60, Level: core.TrustLevelMedium}, got)
}

func TestTrustScoreUnknownWalletFallsBack(t *testing.T) {
	svc := NewTrustService(store.NewMemoryStore(), nil, zap.NewNop())

	got, err := svc.TrustScore(context.Background(), "0xunknown")
	require.NoError(t, err)
	assert.Equal(t, core.TrustScore{
		Score:  20,
		Level:  core.TrustLevelLow,
		Reason: "No history found for this wallet.",
	}, got)
}

func TestTrustScoreStoreFailure(t *testing.T) {
	svc := NewTrustService(brokenStore{}, nil, zap.NewNop())

	_, err := svc.TrustScore(context.Background(), "0xabc")
	assert.Error(t, err)
}
