package wallet

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// KeyWallet is a wallet provider backed by a single secp256k1 key.
// It signs with personal_sign, the same scheme browser wallets use.
type KeyWallet struct {
	key *ecdsa.PrivateKey
}

// NewKeyWallet wraps an existing private key
func NewKeyWallet(key *ecdsa.PrivateKey) *KeyWallet {
	return &KeyWallet{key: key}
}

// NewKeyWalletFromHex parses a hex encoded private key
func NewKeyWalletFromHex(hexKey string) (*KeyWallet, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(hexKey), "0x"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}
	return NewKeyWallet(key), nil
}

// GenerateKeyWallet creates a wallet with a fresh random key
func GenerateKeyWallet() (*KeyWallet, error) {
	key, err := crypto.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}
	return NewKeyWallet(key), nil
}

// Address returns the checksummed address of the wallet
func (w *KeyWallet) Address() string {
	return crypto.PubkeyToAddress(w.key.PublicKey).Hex()
}

// RequestAccounts returns the single account controlled by the wallet
func (w *KeyWallet) RequestAccounts(ctx context.Context) ([]string, error) {
	return []string{w.Address()}, nil
}

// SignMessage signs message with personal_sign and returns a 0x-prefixed
// 65-byte signature with V in {27, 28}
func (w *KeyWallet) SignMessage(ctx context.Context, account, message string) (string, error) {
	if !strings.EqualFold(account, w.Address()) {
		return "", fmt.Errorf("unknown account %s", account)
	}

	sig, err := crypto.Sign(accounts.TextHash([]byte(message)), w.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign message: %w", err)
	}
	sig[crypto.RecoveryIDOffset] += 27

	return hexutil.Encode(sig), nil
}
