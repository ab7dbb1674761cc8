package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/layer-3/amicbridge/adapters/metrics"
	"github.com/layer-3/amicbridge/core"
	"github.com/layer-3/amicbridge/ports"
	"go.uber.org/zap"
)

// TrustService serves trust scores for wallets
type TrustService struct {
	store   ports.TrustRecordStore
	metrics ports.Metrics
	log     *zap.Logger
}

// NewTrustService creates a new trust score service
func NewTrustService(store ports.TrustRecordStore, m ports.Metrics, log *zap.Logger) *TrustService {
	if m == nil {
		m = metrics.Nop{}
	}
	return &TrustService{
		store:   store,
		metrics: m,
		log:     log,
	}
}

// TrustScore scores the record stored for walletAddress. Wallets without a
// record get the fallback score; that is not an error.
func (s *TrustService) TrustScore(ctx context.Context, walletAddress string) (core.TrustScore, error) {
	record, err := s.store.GetTrustRecord(ctx, walletAddress)
	if errors.Is(err, core.ErrRecordNotFound) {
		result := core.FallbackTrustScore()
		s.metrics.ObserveTrustScore(result.Level, true)
		return result, nil
	}
	if err != nil {
		return core.TrustScore{}, fmt.Errorf("failed to load trust record: %w", err)
	}

	result := core.Score(record)
	s.metrics.ObserveTrustScore(result.Level, false)

	s.log.Debug("trust score computed",
		zap.String("wallet", walletAddress),
		zap.Int("score", result.Score),
		zap.String("level", string(result.Level)),
	)

	return result, nil
}
