package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMnemonicSecret(t *testing.T) {
	secret := MnemonicSecret{"abandon", "abandon", "about"}

	encoded, err := secret.Encode()
	require.NoError(t, err)
	assert.Equal(t, "abandon abandon about", string(encoded))

	decoded, err := DecodeSecret(AccountTypeMnemonic, encoded)
	require.NoError(t, err)
	assert.Equal(t, secret, decoded)

	secret.Close()
	assert.Equal(t, MnemonicSecret{"", "", ""}, secret)
}

func TestPrivateKeySecret(t *testing.T) {
	secret := PrivateKeySecret{0xde, 0xad, 0xbe, 0xef}

	encoded, err := secret.Encode()
	require.NoError(t, err)
	assert.Equal(t, "deadbeef", string(encoded))

	decoded, err := DecodeSecret(AccountTypePrivateKey, encoded)
	require.NoError(t, err)
	assert.Equal(t, secret, decoded)

	secret.Close()
	assert.Equal(t, PrivateKeySecret{0, 0, 0, 0}, secret)
}

func TestShieldedSecret(t *testing.T) {
	secret := &ShieldedSecret{
		SpendingKey: "zsknam1qqqq",
		ViewingKey:  "zvknam1qqqq",
	}

	encoded, err := secret.Encode()
	require.NoError(t, err)
	assert.JSONEq(
		t,
		`{"spendingKey":"zsknam1qqqq","viewingKey":"zvknam1qqqq"}`,
		string(encoded),
	)

	decoded, err := DecodeSecret(AccountTypeShieldedKeys, encoded)
	require.NoError(t, err)
	assert.Equal(t, secret, decoded)
}

func TestFailingDecodeSecret(t *testing.T) {
	tests := []struct {
		name        string
		accountType AccountType
		data        []byte
	}{
		{
			name:        "bad hex",
			accountType: AccountTypePrivateKey,
			data:        []byte("not hex"),
		},
		{
			name:        "bad json",
			accountType: AccountTypeShieldedKeys,
			data:        []byte("not json"),
		},
		{
			name:        "unknown type",
			accountType: AccountType("bogus"),
			data:        []byte("whatever"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeSecret(tt.accountType, tt.data)
			assert.Equal(t, ErrKeyStore, err)
		})
	}
}
