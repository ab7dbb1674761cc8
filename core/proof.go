package core

import "strings"

// SignatureProof is what a wallet produces to prove control of an address
type SignatureProof struct {
	WalletAddress string `json:"walletAddress"`
	Message       string `json:"message"`
	Signature     string `json:"signature"`
}

// Validate ensures every field of the proof is present
func (p SignatureProof) Validate() error {
	if strings.TrimSpace(p.WalletAddress) == "" || p.Message == "" || strings.TrimSpace(p.Signature) == "" {
		return ErrMissingField
	}
	return nil
}
