package client

import (
	"errors"
	"strings"
)

const (
	msgNoWallet       = "No wallet detected. Install MetaMask or use a Web3 wallet."
	msgNoAccounts     = "No accounts returned from wallet."
	msgSignCanceled   = "Signature request was cancelled."
	msgServerFallback = "Verification failed on server."
	msgGeneric        = "Something went wrong."
)

// DisplayMessage renders a failed attempt's error for the user
func DisplayMessage(err error) string {
	var serverErr *ServerError

	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNoWalletDetected):
		return msgNoWallet
	case errors.Is(err, ErrNoAccounts):
		return msgNoAccounts
	case errors.Is(err, ErrSigningCanceled):
		return msgSignCanceled
	case errors.As(err, &serverErr):
		if serverErr.Message != "" {
			return serverErr.Message
		}
		return msgServerFallback
	case strings.TrimSpace(err.Error()) != "":
		return err.Error()
	default:
		return msgGeneric
	}
}
