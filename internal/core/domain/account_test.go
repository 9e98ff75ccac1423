package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/pnam1609/namada-interfaces-comunity/pkg/wallet"
)

var testPhrase = strings.Split(
	"abandon abandon abandon abandon abandon abandon "+
		"abandon abandon abandon abandon abandon about",
	" ",
)

func TestMnemonicID(t *testing.T) {
	id := MnemonicID(testPhrase, 0)

	expected := uuid.NewSHA1(
		namespaceUUID,
		[]byte(strings.Join(testPhrase, " ")+"::0"),
	).String()
	assert.Equal(t, expected, id)

	// stable across calls, distinct across ranks
	assert.Equal(t, id, MnemonicID(testPhrase, 0))
	assert.NotEqual(t, id, MnemonicID(testPhrase, 1))
}

func TestDerivedID(t *testing.T) {
	parentID := MnemonicID(testPhrase, 0)

	id := DerivedID(
		AccountTypePrivateKey, parentID, wallet.NewPathWithIndex(0, 0, 0),
	)
	expected := uuid.NewSHA1(
		namespaceUUID,
		[]byte("account::"+parentID+"::0::0::0"),
	).String()
	assert.Equal(t, expected, id)

	shieldedID := DerivedID(
		AccountTypeShieldedKeys, parentID, wallet.NewPathWithIndex(0, 0, 0),
	)
	expectedShielded := uuid.NewSHA1(
		namespaceUUID,
		[]byte("shielded-account::"+parentID+"::0::0::0"),
	).String()
	assert.Equal(t, expectedShielded, shieldedID)
	assert.NotEqual(t, id, shieldedID)
}

func TestDerivedIDWithoutIndex(t *testing.T) {
	parentID := MnemonicID(testPhrase, 0)

	// an absent index pins the last segment to 0
	withIndex := DerivedID(
		AccountTypePrivateKey, parentID, wallet.NewPathWithIndex(0, 0, 0),
	)
	withoutIndex := DerivedID(
		AccountTypePrivateKey, parentID, wallet.NewPath(0, 0),
	)
	assert.Equal(t, withIndex, withoutIndex)
}

func TestAccountWithoutSecret(t *testing.T) {
	account := Account{
		ID:     "some-id",
		Type:   AccountTypeMnemonic,
		Crypto: []byte{0x01, 0x02},
	}

	stripped := account.WithoutSecret()
	assert.Nil(t, stripped.Crypto)
	assert.NotNil(t, account.Crypto)
	assert.True(t, account.IsParent())
}
