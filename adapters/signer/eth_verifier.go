package signer

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/layer-3/amicbridge/core"
	"github.com/layer-3/amicbridge/ports"
)

const (
	signatureLength        = crypto.SignatureLength // r || s || v
	compactSignatureLength = 64                     // EIP-2098 r || yParityAndS
)

// EthVerifier verifies EIP-191 personal_sign signatures
type EthVerifier struct{}

// NewEthVerifier creates a new personal_sign verifier
func NewEthVerifier() ports.SignatureVerifier {
	return &EthVerifier{}
}

// Verify recovers the signer of message and compares it to claimedAddress
func (v *EthVerifier) Verify(message, signature, claimedAddress string) error {
	recovered, err := RecoverAddress(message, signature)
	if err != nil {
		return err
	}

	if !strings.EqualFold(recovered.Hex(), strings.TrimSpace(claimedAddress)) {
		return core.ErrAddressMismatch
	}

	return nil
}

// RecoverAddress returns the address that signed message with personal_sign
func RecoverAddress(message, signature string) (common.Address, error) {
	sig, err := decodeSignature(signature)
	if err != nil {
		return common.Address{}, err
	}

	pub, err := crypto.SigToPub(accounts.TextHash([]byte(message)), sig)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to recover public key: %w", core.ErrInvalidSignature)
	}

	return crypto.PubkeyToAddress(*pub), nil
}

// decodeSignature normalizes a hex signature into the 65-byte [R || S || V]
// form with V in {0, 1} expected by crypto.SigToPub
func decodeSignature(signature string) ([]byte, error) {
	signature = strings.TrimSpace(signature)
	if !strings.HasPrefix(signature, "0x") && !strings.HasPrefix(signature, "0X") {
		signature = "0x" + signature
	}

	raw, err := hexutil.Decode(signature)
	if err != nil {
		return nil, fmt.Errorf("failed to decode signature: %w", core.ErrInvalidSignature)
	}

	sig := make([]byte, signatureLength)
	switch len(raw) {
	case signatureLength:
		copy(sig, raw)
		if sig[64] >= 27 {
			sig[64] -= 27
		}
	case compactSignatureLength:
		copy(sig, raw[:64])
		sig[64] = sig[32] >> 7
		sig[32] &= 0x7f
	default:
		return nil, fmt.Errorf("signature must be 64 or 65 bytes: %w", core.ErrInvalidSignature)
	}

	r := new(big.Int).SetBytes(sig[:32])
	s := new(big.Int).SetBytes(sig[32:64])
	if !crypto.ValidateSignatureValues(sig[64], r, s, true) {
		return nil, fmt.Errorf("signature values out of range: %w", core.ErrInvalidSignature)
	}

	return sig, nil
}
