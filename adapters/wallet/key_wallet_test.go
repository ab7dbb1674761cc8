package wallet

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyWalletAccounts(t *testing.T) {
	w, err := NewKeyWalletFromHex("0x0123456789012345678901234567890123456789012345678901234567890123")
	require.NoError(t, err)

	accounts, err := w.RequestAccounts(context.Background())
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, w.Address(), accounts[0])
	assert.True(t, strings.HasPrefix(accounts[0], "0x"))
	assert.Len(t, accounts[0], 42)
}

func TestKeyWalletSignIsDeterministic(t *testing.T) {
	w, err := GenerateKeyWallet()
	require.NoError(t, err)

	a, err := w.SignMessage(context.Background(), w.Address(), "message")
	require.NoError(t, err)
	b, err := w.SignMessage(context.Background(), strings.ToLower(w.Address()), "message")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Len(t, a, 2+65*2)
}

func TestKeyWalletRejectsUnknownAccount(t *testing.T) {
	w, err := GenerateKeyWallet()
	require.NoError(t, err)

	_, err = w.SignMessage(context.Background(), "0x0000000000000000000000000000000000000000", "message")
	assert.Error(t, err)
}

func TestNewKeyWalletFromHexInvalid(t *testing.T) {
	_, err := NewKeyWalletFromHex("not-a-key")
	assert.Error(t, err)
}
