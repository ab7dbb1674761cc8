package core

import "errors"

var (
	ErrMissingField     = errors.New("walletAddress, message and signature are required")
	ErrInvalidSignature = errors.New("invalid signature")
	ErrAddressMismatch  = errors.New("signature does not match wallet address")
	ErrRecordNotFound   = errors.New("trust record not found")
	ErrInvalidChallenge = errors.New("message is not a valid challenge")
	ErrNonceReused      = errors.New("challenge nonce has already been used")
)
