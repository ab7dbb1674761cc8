package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/layer-3/amicbridge/adapters/signer"
	"github.com/layer-3/amicbridge/adapters/store"
	"github.com/layer-3/amicbridge/adapters/wallet"
	"github.com/layer-3/amicbridge/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type publishedEvent struct {
	address string
	nonce   string
}

type fakePublisher struct {
	events []publishedEvent
	err    error
}

func (p *fakePublisher) PublishWalletVerified(ctx context.Context, address, nonce string, at time.Time) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, publishedEvent{address: address, nonce: nonce})
	return nil
}

type fakeMetrics struct {
	outcomes []string
}

func (m *fakeMetrics) ObserveVerification(outcome string)      { m.outcomes = append(m.outcomes, outcome) }
func (m *fakeMetrics) ObserveTrustScore(core.TrustLevel, bool) {}

type failingNonceStore struct{}

func (failingNonceStore) ConsumeNonce(context.Context, string, time.Duration) (bool, error) {
	return false, errors.New("redis down")
}

func signedProof(t *testing.T) (core.SignatureProof, core.Challenge) {
	t.Helper()

	w, err := wallet.GenerateKeyWallet()
	require.NoError(t, err)

	challenge := core.NewChallenge()
	sig, err := w.SignMessage(context.Background(), w.Address(), challenge.Message())
	require.NoError(t, err)

	return core.SignatureProof{
		WalletAddress: w.Address(),
		Message:       challenge.Message(),
		Signature:     sig,
	}, challenge
}

func TestVerifySuccessPublishesEvent(t *testing.T) {
	pub := &fakePublisher{}
	m := &fakeMetrics{}
	svc := NewVerificationService(signer.NewEthVerifier(), pub, zap.NewNop(), WithVerificationMetrics(m))

	proof, challenge := signedProof(t)
	require.NoError(t, svc.Verify(context.Background(), proof))

	require.Len(t, pub.events, 1)
	assert.Equal(t, proof.WalletAddress, pub.events[0].address)
	assert.Equal(t, challenge.Nonce, pub.events[0].nonce)
	assert.Equal(t, []string{"verified"}, m.outcomes)
}

func TestVerifyPublishFailureDoesNotFail(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	svc := NewVerificationService(signer.NewEthVerifier(), pub, zap.NewNop())

	proof, _ := signedProof(t)
	assert.NoError(t, svc.Verify(context.Background(), proof))
}

func TestVerifyErrors(t *testing.T) {
	proof, _ := signedProof(t)
	other, _ := signedProof(t)

	tests := []struct {
		name    string
		proof   core.SignatureProof
		err     error
		outcome string
	}{
		{
			name:    "missing signature",
			proof:   core.SignatureProof{WalletAddress: proof.WalletAddress, Message: proof.Message},
			err:     core.ErrMissingField,
			outcome: "missing_field",
		},
		{
			name:    "malformed signature",
			proof:   core.SignatureProof{WalletAddress: proof.WalletAddress, Message: proof.Message, Signature: "0x1234"},
			err:     core.ErrInvalidSignature,
			outcome: "invalid_signature",
		},
		{
			name:    "wrong address",
			proof:   core.SignatureProof{WalletAddress: other.WalletAddress, Message: proof.Message, Signature: proof.Signature},
			err:     core.ErrAddressMismatch,
			outcome: "address_mismatch",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pub := &fakePublisher{}
			m := &fakeMetrics{}
			svc := NewVerificationService(signer.NewEthVerifier(), pub, zap.NewNop(), WithVerificationMetrics(m))

			err := svc.Verify(context.Background(), tt.proof)
			assert.ErrorIs(t, err, tt.err)
			assert.Empty(t, pub.events)
			assert.Equal(t, []string{tt.outcome}, m.outcomes)
		})
	}
}

func TestVerifyWithoutReplayGuardAcceptsReplay(t *testing.T) {
	svc := NewVerificationService(signer.NewEthVerifier(), &fakePublisher{}, zap.NewNop())
	assert.False(t, svc.ReplayGuardEnabled())

	proof, _ := signedProof(t)
	require.NoError(t, svc.Verify(context.Background(), proof))
	require.NoError(t, svc.Verify(context.Background(), proof))
}

func TestVerifyWithReplayGuard(t *testing.T) {
	m := &fakeMetrics{}
	svc := NewVerificationService(signer.NewEthVerifier(), &fakePublisher{}, zap.NewNop(),
		WithReplayGuard(store.NewMemoryNonceStore(), time.Minute),
		WithVerificationMetrics(m),
	)
	assert.True(t, svc.ReplayGuardEnabled())

	proof, _ := signedProof(t)
	require.NoError(t, svc.Verify(context.Background(), proof))
	assert.ErrorIs(t, svc.Verify(context.Background(), proof), core.ErrNonceReused)
	assert.Equal(t, []string{"verified", "nonce_reused"}, m.outcomes)
}

func TestReplayGuardIgnoresInvalidSignatures(t *testing.T) {
	svc := NewVerificationService(signer.NewEthVerifier(), &fakePublisher{}, zap.NewNop(),
		WithReplayGuard(store.NewMemoryNonceStore(), time.Minute),
	)

	proof, _ := signedProof(t)
	forged := proof
	forged.Signature = "0x00"

	assert.ErrorIs(t, svc.Verify(context.Background(), forged), core.ErrInvalidSignature)
	assert.NoError(t, svc.Verify(context.Background(), proof))
}

func TestReplayGuardRequiresChallengeFormat(t *testing.T) {
	svc := NewVerificationService(signer.NewEthVerifier(), &fakePublisher{}, zap.NewNop(),
		WithReplayGuard(store.NewMemoryNonceStore(), time.Minute),
	)

	w, err := wallet.GenerateKeyWallet()
	require.NoError(t, err)
	sig, err := w.SignMessage(context.Background(), w.Address(), "free form message")
	require.NoError(t, err)

	err = svc.Verify(context.Background(), core.SignatureProof{
		WalletAddress: w.Address(),
		Message:       "free form message",
		Signature:     sig,
	})
	assert.ErrorIs(t, err, core.ErrInvalidChallenge)
}

func TestReplayGuardStoreFailure(t *testing.T) {
	m := &fakeMetrics{}
	svc := NewVerificationService(signer.NewEthVerifier(), &fakePublisher{}, zap.NewNop(),
		WithReplayGuard(failingNonceStore{}, time.Minute),
		WithVerificationMetrics(m),
	)

	proof, _ := signedProof(t)
	err := svc.Verify(context.Background(), proof)
	require.Error(t, err)
	assert.NotErrorIs(t, err, core.ErrNonceReused)
	assert.Equal(t, []string{"error"}, m.outcomes)
}

func TestCreateChallenge(t *testing.T) {
	svc := NewVerificationService(signer.NewEthVerifier(), &fakePublisher{}, zap.NewNop())

	a := svc.CreateChallenge()
	b := svc.CreateChallenge()
	assert.NotEqual(t, a.Nonce, b.Nonce)
	assert.Equal(t, core.ChallengeIntent, a.Intent)
}
