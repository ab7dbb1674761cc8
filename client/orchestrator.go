package client

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/layer-3/amicbridge/core"
	"go.uber.org/zap"
)

var (
	ErrBusy             = errors.New("a verification attempt is already in progress")
	ErrNoWalletDetected = errors.New("No wallet detected. Install MetaMask or use a Web3 wallet.")
	ErrNoAccounts       = errors.New("No accounts returned from wallet.")
	ErrSigningCanceled  = errors.New("Signature request was cancelled.")
	ErrSomethingWrong   = errors.New("Something went wrong.")
)

// WalletProvider is the external wallet the user controls
type WalletProvider interface {
	RequestAccounts(ctx context.Context) ([]string, error)
	SignMessage(ctx context.Context, account, message string) (string, error)
}

// VerificationAPI submits a signature proof to the verification endpoint
type VerificationAPI interface {
	Verify(ctx context.Context, proof core.SignatureProof) error
}

// ChallengeSource builds the challenge message for an attempt
type ChallengeSource func(ctx context.Context) (core.Challenge, error)

// LocalChallenge builds challenges in process
func LocalChallenge(context.Context) (core.Challenge, error) {
	return core.NewChallenge(), nil
}

// Attempt holds the data gathered by a single run of the flow
type Attempt struct {
	State     State
	Address   string
	Message   string
	Signature string
	Err       error
}

// Orchestrator drives the wallet verification flow. It runs one attempt at a
// time; Run returns ErrBusy while another attempt is in flight.
type Orchestrator struct {
	wallet      WalletProvider
	api         VerificationAPI
	challenge   ChallengeSource
	signTimeout time.Duration
	log         *zap.Logger

	mu      sync.Mutex
	attempt Attempt
}

// Option configures an Orchestrator
type Option func(*Orchestrator)

// WithSignTimeout bounds how long the user may take to approve the signature
func WithSignTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		o.signTimeout = d
	}
}

// WithChallengeSource replaces the in-process message builder, for example
// with APIClient.Challenge
func WithChallengeSource(src ChallengeSource) Option {
	return func(o *Orchestrator) {
		o.challenge = src
	}
}

// WithLogger sets the logger
func WithLogger(log *zap.Logger) Option {
	return func(o *Orchestrator) {
		o.log = log
	}
}

// NewOrchestrator creates an orchestrator. A nil wallet means no wallet is installed.
func NewOrchestrator(wallet WalletProvider, api VerificationAPI, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		wallet:    wallet,
		api:       api,
		challenge: LocalChallenge,
		log:       zap.NewNop(),
		attempt:   Attempt{State: StateIdle},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Snapshot returns the current attempt
func (o *Orchestrator) Snapshot() Attempt {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.attempt
}

// IsBusy reports whether an attempt is in flight
func (o *Orchestrator) IsBusy() bool {
	return o.Snapshot().State.Busy()
}

// Run executes one verification attempt and returns its final state
func (o *Orchestrator) Run(ctx context.Context) (Attempt, error) {
	if err := o.start(); err != nil {
		return o.Snapshot(), err
	}

	if err := o.run(ctx); err != nil {
		o.log.Warn("wallet verification attempt failed", zap.Error(err))
		o.fail(err)
		a := o.Snapshot()
		return a, a.Err
	}

	o.advance(EventVerified, nil)
	a := o.Snapshot()
	o.log.Info("wallet verified", zap.String("address", a.Address))
	return a, nil
}

func (o *Orchestrator) run(ctx context.Context) error {
	if o.wallet == nil {
		return ErrNoWalletDetected
	}

	accounts, err := o.wallet.RequestAccounts(ctx)
	if err != nil {
		return err
	}
	if len(accounts) == 0 {
		return ErrNoAccounts
	}
	address := accounts[0]

	challenge, err := o.challenge(ctx)
	if err != nil {
		return err
	}
	message := challenge.Message()

	o.advance(EventAccountsObtained, func(a *Attempt) {
		a.Address = address
		a.Message = message
	})

	signature, err := o.sign(ctx, address, message)
	if err != nil {
		return err
	}

	o.advance(EventSignatureObtained, func(a *Attempt) {
		a.Signature = signature
	})

	return o.api.Verify(ctx, core.SignatureProof{
		WalletAddress: address,
		Message:       message,
		Signature:     signature,
	})
}

func (o *Orchestrator) sign(ctx context.Context, address, message string) (string, error) {
	if o.signTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.signTimeout)
		defer cancel()
	}

	signature, err := o.wallet.SignMessage(ctx, address, message)
	if err != nil {
		if ctx.Err() != nil {
			return "", ErrSigningCanceled
		}
		return "", err
	}
	return signature, nil
}

// start claims the orchestrator for a new attempt
func (o *Orchestrator) start() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	next, err := Next(o.attempt.State, EventStart)
	if err != nil {
		return ErrBusy
	}
	o.attempt = Attempt{State: next}
	return nil
}

func (o *Orchestrator) advance(e Event, update func(*Attempt)) {
	o.mu.Lock()
	defer o.mu.Unlock()

	next, err := Next(o.attempt.State, e)
	if err != nil {
		// Run drives events in order; reaching this is a programming error
		panic(err)
	}
	o.attempt.State = next
	if update != nil {
		update(&o.attempt)
	}
}

func (o *Orchestrator) fail(err error) {
	o.advance(EventFailed, func(a *Attempt) {
		a.Err = err
	})
}
