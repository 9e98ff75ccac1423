package application

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pnam1609/namada-interfaces-comunity/internal/core/domain"
	"github.com/pnam1609/namada-interfaces-comunity/internal/infrastructure/registry"
	"github.com/pnam1609/namada-interfaces-comunity/internal/infrastructure/sdk"
	"github.com/pnam1609/namada-interfaces-comunity/internal/infrastructure/storage/db/inmemory"
	"github.com/pnam1609/namada-interfaces-comunity/pkg/cryptobox"
	"github.com/pnam1609/namada-interfaces-comunity/pkg/wallet"
)

const (
	testChainID  = "namada-test.0000000000000"
	testPassword = "hunter2"
)

var (
	// lighter params keep the scrypt calls cheap in tests
	testKDFParams = cryptobox.KDFParams{LogN: 4, R: 8, P: 1}

	testPhrase = strings.Split(
		"abandon abandon abandon abandon abandon abandon "+
			"abandon abandon abandon abandon abandon about",
		" ",
	)
)

func newTestService() (*KeystoreService, domain.Store) {
	store := inmemory.NewStore()
	service := NewKeystoreService(
		store,
		registry.NewDefaultRegistry(testChainID),
		sdk.NewBuilder(&testKDFParams),
		testChainID,
		&testKDFParams,
	)
	return service, store
}

func storeTestMnemonic(t *testing.T, s *KeystoreService) domain.Account {
	t.Helper()
	account, err := s.StoreMnemonic(
		context.Background(), testPhrase, testPassword, "main",
	)
	require.NoError(t, err)
	return account
}

func TestStoreMnemonic(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService()

	parent := storeTestMnemonic(t, service)
	assert.Equal(t, domain.MnemonicID(testPhrase, 0), parent.ID)
	assert.Equal(t, domain.AccountTypeMnemonic, parent.Type)
	assert.True(t, strings.HasPrefix(parent.Address, "tnam1"))
	assert.Equal(t, parent.Address, parent.Owner)
	assert.Nil(t, parent.Crypto)

	accounts, err := service.QueryAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, parent.ID, accounts[0].ID)

	activeID, err := service.ActiveAccountID(ctx)
	require.NoError(t, err)
	assert.Equal(t, parent.ID, activeID)

	state, err := service.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, StateUnlocked, state)
}

func TestStoreMnemonicBoundaries(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService()

	_, err := service.StoreMnemonic(ctx, testPhrase, "", "main")
	assert.Equal(t, domain.ErrNoPassword, err)

	_, err = service.StoreMnemonic(
		ctx, []string{"not", "a", "phrase"}, testPassword, "main",
	)
	assert.Equal(t, domain.ErrInvalidMnemonic, err)
}

func TestStoreMnemonicUnknownChain(t *testing.T) {
	store := inmemory.NewStore()
	service := NewKeystoreService(
		store,
		registry.NewDefaultRegistry("some-other-chain"),
		sdk.NewBuilder(&testKDFParams),
		testChainID,
		&testKDFParams,
	)

	_, err := service.StoreMnemonic(
		context.Background(), testPhrase, testPassword, "main",
	)
	assert.Equal(t, domain.ErrUnknownChain, err)
}

func TestStoreSamePhraseTwice(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService()

	first := storeTestMnemonic(t, service)

	// the rank moved from 0 to 1, so the id differs
	second, err := service.StoreMnemonic(ctx, testPhrase, testPassword, "other")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, domain.MnemonicID(testPhrase, 1), second.ID)

	parents, err := service.QueryParentAccounts(ctx)
	require.NoError(t, err)
	assert.Len(t, parents, 2)

	// the latest import became active
	activeID, err := service.ActiveAccountID(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID, activeID)
}

// S1: import a phrase, then derive the first transparent child
func TestDeriveTransparentAccount(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService()
	parent := storeTestMnemonic(t, service)

	child, err := service.DeriveAccount(
		ctx,
		wallet.NewPathWithIndex(0, 0, 0),
		domain.AccountTypePrivateKey,
		"a",
	)
	require.NoError(t, err)

	assert.Equal(t, parent.ID, child.ParentID)
	assert.Equal(
		t,
		domain.DerivedID(
			domain.AccountTypePrivateKey, parent.ID, wallet.NewPathWithIndex(0, 0, 0),
		),
		child.ID,
	)
	assert.True(t, strings.HasPrefix(child.Address, "tnam1"))
	assert.Equal(t, child.Address, child.Owner)

	accounts, err := service.QueryAccounts(ctx)
	require.NoError(t, err)
	assert.Len(t, accounts, 2)

	_, err = service.DeriveAccount(
		ctx,
		wallet.NewPathWithIndex(0, 0, 0),
		domain.AccountTypePrivateKey,
		"a",
	)
	assert.Equal(t, domain.ErrDuplicate, err)
}

// S2: derive a shielded child and inspect its decrypted payload
func TestDeriveShieldedAccount(t *testing.T) {
	ctx := context.Background()
	service, store := newTestService()
	parent := storeTestMnemonic(t, service)

	child, err := service.DeriveAccount(
		ctx,
		wallet.NewPathWithIndex(0, 0, 0),
		domain.AccountTypeShieldedKeys,
		"z",
	)
	require.NoError(t, err)

	assert.Equal(t, parent.ID, child.ParentID)
	assert.Equal(
		t,
		domain.DerivedID(
			domain.AccountTypeShieldedKeys, parent.ID, wallet.NewPathWithIndex(0, 0, 0),
		),
		child.ID,
	)
	assert.True(t, strings.HasPrefix(child.Address, "znam1"))
	assert.True(t, strings.HasPrefix(child.Owner, "zvknam1"))

	// the sealed payload is the JSON object of the two encoded keys
	secret := decryptRecord(t, ctx, store, child.ID, testPassword)
	payload := map[string]string{}
	require.NoError(t, json.Unmarshal(secret, &payload))
	assert.True(t, strings.HasPrefix(payload["spendingKey"], "zsknam1"))
	assert.Equal(t, child.Owner, payload["viewingKey"])
}

// S3: rotating the password keeps ids and secrets stable
func TestResetPassword(t *testing.T) {
	ctx := context.Background()
	service, store := newTestService()
	parent := storeTestMnemonic(t, service)

	child, err := service.DeriveAccount(
		ctx,
		wallet.NewPathWithIndex(0, 0, 0),
		domain.AccountTypePrivateKey,
		"a",
	)
	require.NoError(t, err)
	oldSecret := decryptRecord(t, ctx, store, child.ID, testPassword)

	require.NoError(t, service.ResetPassword(
		ctx, testPassword, "correcthorse", parent.ID,
	))

	assert.True(t, service.CheckPassword(ctx, "correcthorse"))
	assert.False(t, service.CheckPassword(ctx, testPassword))

	// same id, same private key under the new password
	newSecret := decryptRecord(t, ctx, store, child.ID, "correcthorse")
	assert.Equal(t, oldSecret, newSecret)

	// the cached password rotated along: deriving still works
	_, err = service.DeriveAccount(
		ctx,
		wallet.NewPathWithIndex(0, 0, 1),
		domain.AccountTypePrivateKey,
		"b",
	)
	assert.NoError(t, err)
}

// S5: a bad password leaves every blob untouched
func TestResetPasswordBadPassword(t *testing.T) {
	ctx := context.Background()
	service, store := newTestService()
	parent := storeTestMnemonic(t, service)

	child, err := service.DeriveAccount(
		ctx,
		wallet.NewPathWithIndex(0, 0, 0),
		domain.AccountTypePrivateKey,
		"a",
	)
	require.NoError(t, err)

	err = service.ResetPassword(ctx, "wrong", "new", parent.ID)
	assert.Equal(t, domain.ErrBadPassword, err)

	// everything still decrypts under the original password
	decryptRecord(t, ctx, store, parent.ID, testPassword)
	decryptRecord(t, ctx, store, child.ID, testPassword)
}

func TestResetPasswordUnknownAccount(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService()
	storeTestMnemonic(t, service)

	err := service.ResetPassword(ctx, testPassword, "new", "missing-id")
	assert.Equal(t, domain.ErrUnknownAccount, err)

	err = service.ResetPassword(ctx, testPassword, "", "missing-id")
	assert.Equal(t, domain.ErrNoPassword, err)
}

// S4: deleting a parent cascades over its children
func TestDeleteAccountCascades(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService()
	parent := storeTestMnemonic(t, service)

	_, err := service.DeriveAccount(
		ctx,
		wallet.NewPathWithIndex(0, 0, 0),
		domain.AccountTypePrivateKey,
		"a",
	)
	require.NoError(t, err)
	_, err = service.DeriveAccount(
		ctx,
		wallet.NewPathWithIndex(0, 0, 0),
		domain.AccountTypeShieldedKeys,
		"z",
	)
	require.NoError(t, err)

	require.NoError(t, service.DeleteAccount(ctx, parent.ID, testPassword))

	accounts, err := service.QueryAccounts(ctx)
	require.NoError(t, err)
	assert.Empty(t, accounts)

	activeID, err := service.ActiveAccountID(ctx)
	require.NoError(t, err)
	assert.Empty(t, activeID)

	state, err := service.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, StateEmpty, state)
}

func TestDeleteAccountBadPassword(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService()
	parent := storeTestMnemonic(t, service)

	err := service.DeleteAccount(ctx, parent.ID, "wrong")
	assert.Equal(t, domain.ErrBadPassword, err)

	accounts, err := service.QueryAccounts(ctx)
	require.NoError(t, err)
	assert.Len(t, accounts, 1)
}

// S6: lock forbids derivation, unlock restores it
func TestLockUnlock(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService()
	storeTestMnemonic(t, service)

	service.Lock()
	state, err := service.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, StateLocked, state)

	_, err = service.DeriveAccount(
		ctx,
		wallet.NewPathWithIndex(0, 0, 0),
		domain.AccountTypePrivateKey,
		"a",
	)
	assert.Equal(t, domain.ErrNoPassword, err)

	assert.Equal(t, domain.ErrBadPassword, service.Unlock(ctx, "wrong"))
	assert.Equal(t, domain.ErrNoPassword, service.Unlock(ctx, ""))
	require.NoError(t, service.Unlock(ctx, testPassword))

	_, err = service.DeriveAccount(
		ctx,
		wallet.NewPathWithIndex(0, 0, 0),
		domain.AccountTypePrivateKey,
		"a",
	)
	assert.NoError(t, err)

	// locking twice is fine
	service.Lock()
	service.Lock()
}

func TestSetActiveAccountID(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService()
	first := storeTestMnemonic(t, service)

	otherPhrase, err := service.GenerateMnemonic(12)
	require.NoError(t, err)
	second, err := service.StoreMnemonic(ctx, otherPhrase, testPassword, "other")
	require.NoError(t, err)

	_, err = service.DeriveAccount(
		ctx,
		wallet.NewPathWithIndex(0, 0, 0),
		domain.AccountTypePrivateKey,
		"a",
	)
	require.NoError(t, err)

	// the second parent owns the derived child
	accounts, err := service.QueryAccounts(ctx)
	require.NoError(t, err)
	assert.Len(t, accounts, 2)
	assert.Equal(t, second.ID, accounts[1].ParentID)

	require.NoError(t, service.SetActiveAccountID(ctx, first.ID))
	accounts, err = service.QueryAccounts(ctx)
	require.NoError(t, err)
	assert.Len(t, accounts, 1)
	assert.Equal(t, first.ID, accounts[0].ID)

	assert.Equal(
		t,
		domain.ErrUnknownAccount,
		service.SetActiveAccountID(ctx, "missing-id"),
	)
}

func TestGenerateMnemonic(t *testing.T) {
	service, _ := newTestService()

	for _, wordCount := range []int{12, 24} {
		mnemonic, err := service.GenerateMnemonic(wordCount)
		require.NoError(t, err)
		assert.Len(t, mnemonic, wordCount)
	}

	_, err := service.GenerateMnemonic(13)
	assert.Equal(t, domain.ErrInvalidMnemonic, err)
}

// no plaintext phrase, private key or spending key may ever hit the store
func TestPersistedStoreHoldsNoPlaintext(t *testing.T) {
	ctx := context.Background()
	service, store := newTestService()
	storeTestMnemonic(t, service)

	child, err := service.DeriveAccount(
		ctx,
		wallet.NewPathWithIndex(0, 0, 0),
		domain.AccountTypeShieldedKeys,
		"z",
	)
	require.NoError(t, err)

	spendingKey := decryptRecord(t, ctx, store, child.ID, testPassword)
	payload := map[string]string{}
	require.NoError(t, json.Unmarshal(spendingKey, &payload))

	for _, key := range []string{
		domain.KeyStoreKey, domain.SdkStoreKey, domain.ParentAccountIDKey,
	} {
		raw, err := store.Get(ctx, key)
		require.NoError(t, err)
		assert.False(t, bytes.Contains(raw, []byte("abandon")))
		assert.False(t, bytes.Contains(raw, []byte(testPassword)))
		assert.False(t, bytes.Contains(raw, []byte(payload["spendingKey"])))
	}
}

func decryptRecord(
	t *testing.T, ctx context.Context, store domain.Store, id, password string,
) []byte {
	t.Helper()

	data, err := store.Get(ctx, domain.KeyStoreKey)
	require.NoError(t, err)
	ring, err := domain.UnmarshalKeyRing(data)
	require.NoError(t, err)
	account, ok := ring.ByID(id)
	require.True(t, ok)

	plaintext, err := cryptobox.Decrypt(cryptobox.DecryptOpts{
		CypherText: account.Crypto,
		Password:   password,
	})
	require.NoError(t, err)
	return plaintext
}
