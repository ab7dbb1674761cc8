package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/layer-3/amicbridge/adapters/metrics"
	"github.com/layer-3/amicbridge/core"
	"github.com/layer-3/amicbridge/ports"
	"go.uber.org/zap"
)

// DefaultNonceTTL is how long a consumed nonce is remembered by the replay guard
const DefaultNonceTTL = 10 * time.Minute

// VerificationService handles wallet ownership verification
type VerificationService struct {
	verifier ports.SignatureVerifier
	eventPub ports.EventPublisher
	metrics  ports.Metrics
	log      *zap.Logger

	// nonces is nil unless the replay guard is enabled
	nonces   ports.NonceStore
	nonceTTL time.Duration

	now func() time.Time
}

// VerificationOption configures a VerificationService
type VerificationOption func(*VerificationService)

// WithReplayGuard rejects challenges whose nonce was already used within ttl
func WithReplayGuard(nonces ports.NonceStore, ttl time.Duration) VerificationOption {
	return func(s *VerificationService) {
		s.nonces = nonces
		s.nonceTTL = ttl
	}
}

// WithVerificationMetrics records verification outcomes
func WithVerificationMetrics(m ports.Metrics) VerificationOption {
	return func(s *VerificationService) {
		s.metrics = m
	}
}

// NewVerificationService creates a new verification service
func NewVerificationService(
	verifier ports.SignatureVerifier,
	eventPub ports.EventPublisher,
	log *zap.Logger,
	opts ...VerificationOption,
) *VerificationService {
	s := &VerificationService{
		verifier: verifier,
		eventPub: eventPub,
		metrics:  metrics.Nop{},
		log:      log,
		nonceTTL: DefaultNonceTTL,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateChallenge builds a fresh challenge for a wallet to sign
func (s *VerificationService) CreateChallenge() core.Challenge {
	return core.NewChallenge()
}

// ReplayGuardEnabled reports whether nonces are tracked
func (s *VerificationService) ReplayGuardEnabled() bool {
	return s.nonces != nil
}

// Verify checks that proof.Signature over proof.Message was produced by proof.WalletAddress
func (s *VerificationService) Verify(ctx context.Context, proof core.SignatureProof) error {
	err := s.verify(ctx, proof)
	s.metrics.ObserveVerification(outcome(err))
	return err
}

func (s *VerificationService) verify(ctx context.Context, proof core.SignatureProof) error {
	if err := proof.Validate(); err != nil {
		return err
	}

	challenge, parseErr := core.ParseChallenge(proof.Message)
	if s.nonces != nil && parseErr != nil {
		return parseErr
	}

	if err := s.verifier.Verify(proof.Message, proof.Signature, proof.WalletAddress); err != nil {
		s.log.Debug("signature verification failed",
			zap.String("address", proof.WalletAddress),
			zap.Error(err),
		)
		return err
	}

	// A nonce is consumed only by a valid signature.
	if s.nonces != nil {
		fresh, err := s.nonces.ConsumeNonce(ctx, challenge.Nonce, s.nonceTTL)
		if err != nil {
			return fmt.Errorf("failed to consume nonce: %w", err)
		}
		if !fresh {
			return core.ErrNonceReused
		}
	}

	s.log.Info("wallet verified", zap.String("address", proof.WalletAddress))

	if err := s.eventPub.PublishWalletVerified(ctx, proof.WalletAddress, challenge.Nonce, s.now()); err != nil {
		// Best effort; the verification result stands.
		s.log.Warn("failed to publish wallet verified event",
			zap.String("address", proof.WalletAddress),
			zap.Error(err),
		)
	}

	return nil
}

func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeVerified
	case errors.Is(err, core.ErrMissingField):
		return metrics.OutcomeMissingField
	case errors.Is(err, core.ErrInvalidSignature):
		return metrics.OutcomeInvalidSignature
	case errors.Is(err, core.ErrAddressMismatch):
		return metrics.OutcomeAddressMismatch
	case errors.Is(err, core.ErrInvalidChallenge):
		return metrics.OutcomeInvalidChallenge
	case errors.Is(err, core.ErrNonceReused):
		return metrics.OutcomeNonceReused
	default:
		return metrics.OutcomeError
	}
}
