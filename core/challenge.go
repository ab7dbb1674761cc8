package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const (
	// ChallengeIntent is the fixed statement every challenge asks the wallet to sign
	ChallengeIntent = "Amicbridge Wallet Verification\n\nI confirm that I own this wallet."

	noncePrefix = "Nonce: "
)

// Challenge represents a wallet ownership challenge
type Challenge struct {
	Intent string // Fixed verification intent
	Nonce  string // Random nonce, unique per attempt
}

// NewChallenge builds a challenge with a fresh random nonce.
// uuid.New panics if the system entropy source fails, which is not recoverable.
func NewChallenge() Challenge {
	return Challenge{
		Intent: ChallengeIntent,
		Nonce:  uuid.NewString(),
	}
}

// Message returns the exact text the wallet is asked to sign
func (c Challenge) Message() string {
	return fmt.Sprintf("%s\n\n%s%s", c.Intent, noncePrefix, c.Nonce)
}

// ParseChallenge extracts the intent and nonce from a signed challenge message
func ParseChallenge(message string) (Challenge, error) {
	idx := strings.LastIndex(message, "\n\n"+noncePrefix)
	if idx < 0 {
		return Challenge{}, ErrInvalidChallenge
	}

	intent := message[:idx]
	nonce := message[idx+len("\n\n"+noncePrefix):]
	if intent != ChallengeIntent || nonce == "" || strings.ContainsAny(nonce, "\r\n") {
		return Challenge{}, ErrInvalidChallenge
	}

	return Challenge{Intent: intent, Nonce: nonce}, nil
}
