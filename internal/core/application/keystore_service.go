package application

import (
	"context"
	"encoding/hex"
	"sync"

	log "github.com/sirupsen/logrus"
	"github.com/thanhpk/randstr"

	"github.com/pnam1609/namada-interfaces-comunity/internal/core/domain"
	"github.com/pnam1609/namada-interfaces-comunity/pkg/cryptobox"
	"github.com/pnam1609/namada-interfaces-comunity/pkg/sapling"
	"github.com/pnam1609/namada-interfaces-comunity/pkg/wallet"
)

// State is the lock state of the keystore
type State int

const (
	// StateEmpty means no record has ever been stored
	StateEmpty State = iota
	// StateLocked means records exist and no password is cached
	StateLocked
	// StateUnlocked means the cached password opens the active parent
	StateUnlocked
)

// KeystoreService is the facade over the persisted account records: it owns
// the lock lifecycle, the derivation pipelines and the parent/child
// invariants. All operations are serialized behind one mutex; the in-memory
// password is the only mutable shared resource.
type KeystoreService struct {
	store     domain.Store
	registry  domain.ChainRegistry
	txBuilder domain.TxBuilder
	chainID   string
	kdfParams *cryptobox.KDFParams

	mtx      sync.Mutex
	password string
}

// NewKeystoreService returns a locked service bound to a chain. A nil
// kdfParams selects the cryptobox defaults.
func NewKeystoreService(
	store domain.Store,
	registry domain.ChainRegistry,
	txBuilder domain.TxBuilder,
	chainID string,
	kdfParams *cryptobox.KDFParams,
) *KeystoreService {
	return &KeystoreService{
		store:     store,
		registry:  registry,
		txBuilder: txBuilder,
		chainID:   chainID,
		kdfParams: kdfParams,
	}
}

// GenerateMnemonic returns a fresh phrase of 12 or 24 words. The phrase is
// never persisted.
func (s *KeystoreService) GenerateMnemonic(wordCount int) ([]string, error) {
	mnemonic, err := wallet.NewMnemonic(wallet.NewMnemonicOpts{
		WordCount: wordCount,
	})
	if err != nil {
		return nil, domain.ErrInvalidMnemonic
	}
	return mnemonic, nil
}

// StoreMnemonic imports a phrase as a new parent record: it derives the root
// transparent account, encrypts the phrase under the password, feeds the
// root key to the transaction builder, marks the new parent active and
// caches the password.
func (s *KeystoreService) StoreMnemonic(
	ctx context.Context, mnemonic []string, password, alias string,
) (domain.Account, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if len(password) <= 0 {
		return domain.Account{}, domain.ErrNoPassword
	}

	w, err := wallet.NewWalletFromMnemonic(wallet.NewWalletFromMnemonicOpts{
		Mnemonic: mnemonic,
	})
	if err != nil {
		return domain.Account{}, domain.ErrInvalidMnemonic
	}
	defer w.Close()

	chain, err := s.registry.Chain(s.chainID)
	if err != nil {
		return domain.Account{}, err
	}

	rootPath := wallet.NewPath(0, 0)
	key, err := wallet.DeriveTransparentKey(wallet.DeriveTransparentKeyOpts{
		Seed:     w.Seed(),
		Path:     rootPath,
		CoinType: chain.CoinType,
	})
	if err != nil {
		return domain.Account{}, domain.ErrKeyStore
	}
	defer key.Close()

	address, err := wallet.ImplicitAddress(wallet.ImplicitAddressOpts{
		PublicKey: key.PublicKey,
		HRP:       chain.AddressHRP,
		Hasher:    chain.AddressHasher,
	})
	if err != nil {
		return domain.Account{}, domain.ErrKeyStore
	}

	ring, err := s.loadKeyRing(ctx)
	if err != nil {
		return domain.Account{}, err
	}

	account := domain.Account{
		ID:      domain.MnemonicID(mnemonic, ring.Len()),
		Alias:   defaultAlias(alias),
		ChainID: s.chainID,
		Path:    rootPath,
		Type:    domain.AccountTypeMnemonic,
		Address: address,
		Owner:   address,
	}

	secret := domain.MnemonicSecret(mnemonic)
	if account.Crypto, err = s.seal(secret, password); err != nil {
		return domain.Account{}, err
	}

	if err := ring.Append(account); err != nil {
		return domain.Account{}, err
	}

	// a fresh parent starts from a clean transaction builder state
	if err := s.txBuilder.Decode(nil); err != nil {
		return domain.Account{}, domain.ErrKeyStore
	}
	privateKeyHex := hex.EncodeToString(key.PrivateKey)
	if err := s.txBuilder.AddKey(privateKeyHex, password, account.Alias); err != nil {
		return domain.Account{}, domain.ErrKeyStore
	}

	if err := s.saveKeyRing(ctx, ring); err != nil {
		return domain.Account{}, err
	}
	if err := s.snapshotTxBuilder(ctx, account.ID); err != nil {
		return domain.Account{}, err
	}
	if err := s.store.Put(
		ctx, domain.ParentAccountIDKey, []byte(account.ID),
	); err != nil {
		return domain.Account{}, domain.ErrKeyStore
	}

	s.password = password
	log.WithField("id", account.ID).Info("stored new parent account")
	return account.WithoutSecret(), nil
}

// Unlock caches the password if it opens the active parent record
func (s *KeystoreService) Unlock(ctx context.Context, password string) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if len(password) <= 0 {
		return domain.ErrNoPassword
	}

	parent, err := s.activeParent(ctx)
	if err != nil {
		return err
	}
	if !cryptobox.CheckPassword(parent.Crypto, password) {
		return domain.ErrBadPassword
	}

	s.password = password
	return nil
}

// Lock forgets the cached password. It is idempotent.
func (s *KeystoreService) Lock() {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.password = ""
}

// State reports where the keystore sits in the Empty → Locked ↔ Unlocked
// machine.
func (s *KeystoreService) State(ctx context.Context) (State, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	ring, err := s.loadKeyRing(ctx)
	if err != nil {
		return StateLocked, err
	}
	if ring.Len() == 0 {
		return StateEmpty, nil
	}
	if len(s.password) > 0 {
		return StateUnlocked, nil
	}
	return StateLocked, nil
}

// DeriveAccount derives a child of the active parent along the given path.
// The keystore must be unlocked: the parent phrase is decrypted with the
// cached password, expanded to the seed and dispatched to the transparent or
// shielded pipeline.
func (s *KeystoreService) DeriveAccount(
	ctx context.Context,
	path wallet.Path,
	accountType domain.AccountType,
	alias string,
) (domain.Account, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if len(s.password) <= 0 {
		return domain.Account{}, domain.ErrNoPassword
	}
	if accountType != domain.AccountTypePrivateKey &&
		accountType != domain.AccountTypeShieldedKeys {
		return domain.Account{}, domain.ErrKeyStore
	}

	parent, err := s.activeParent(ctx)
	if err != nil {
		return domain.Account{}, err
	}

	ring, err := s.loadKeyRing(ctx)
	if err != nil {
		return domain.Account{}, err
	}

	id := domain.DerivedID(accountType, parent.ID, path)
	if _, ok := ring.ByID(id); ok {
		return domain.Account{}, domain.ErrDuplicate
	}

	phrase, err := s.open(parent, s.password)
	if err != nil {
		return domain.Account{}, err
	}
	mnemonic, ok := phrase.(domain.MnemonicSecret)
	if !ok {
		return domain.Account{}, domain.ErrKeyStore
	}
	defer mnemonic.Close()

	w, err := wallet.NewWalletFromMnemonic(wallet.NewWalletFromMnemonicOpts{
		Mnemonic: mnemonic,
	})
	if err != nil {
		return domain.Account{}, domain.ErrKeyStore
	}
	defer w.Close()

	chain, err := s.registry.Chain(s.chainID)
	if err != nil {
		return domain.Account{}, err
	}

	account := domain.Account{
		ID:       id,
		ParentID: parent.ID,
		Alias:    defaultAlias(alias),
		ChainID:  s.chainID,
		Path:     path,
		Type:     accountType,
	}

	var secret domain.Secret
	if accountType == domain.AccountTypePrivateKey {
		secret, err = s.deriveTransparent(&account, w.Seed(), chain)
	} else {
		secret, err = s.deriveShielded(&account, w.Seed(), chain)
	}
	if err != nil {
		return domain.Account{}, err
	}
	defer secret.Close()

	if account.Crypto, err = s.seal(secret, s.password); err != nil {
		return domain.Account{}, err
	}

	if err := ring.Append(account); err != nil {
		return domain.Account{}, err
	}
	if err := s.saveKeyRing(ctx, ring); err != nil {
		return domain.Account{}, err
	}
	if err := s.snapshotTxBuilder(ctx, parent.ID); err != nil {
		return domain.Account{}, err
	}

	log.WithField("id", account.ID).Info("derived new account")
	return account.WithoutSecret(), nil
}

func (s *KeystoreService) deriveTransparent(
	account *domain.Account, seed []byte, chain *domain.Chain,
) (domain.Secret, error) {
	key, err := wallet.DeriveTransparentKey(wallet.DeriveTransparentKeyOpts{
		Seed:     seed,
		Path:     account.Path,
		CoinType: chain.CoinType,
	})
	if err != nil {
		return nil, domain.ErrKeyStore
	}
	defer key.Close()

	address, err := wallet.ImplicitAddress(wallet.ImplicitAddressOpts{
		PublicKey: key.PublicKey,
		HRP:       chain.AddressHRP,
		Hasher:    chain.AddressHasher,
	})
	if err != nil {
		return nil, domain.ErrKeyStore
	}
	account.Address = address
	account.Owner = address

	privateKeyHex := hex.EncodeToString(key.PrivateKey)
	if err := s.txBuilder.AddKey(
		privateKeyHex, s.password, account.Alias,
	); err != nil {
		return nil, domain.ErrKeyStore
	}

	secret := make(domain.PrivateKeySecret, len(key.PrivateKey))
	copy(secret, key.PrivateKey)
	return secret, nil
}

func (s *KeystoreService) deriveShielded(
	account *domain.Account, seed []byte, chain *domain.Chain,
) (domain.Secret, error) {
	index := uint32(0)
	if account.Path.Index != nil {
		index = *account.Path.Index
	}

	keys, err := sapling.Derive(sapling.DeriveOpts{Seed: seed, Index: index})
	if err != nil {
		return nil, domain.ErrKeyStore
	}
	defer keys.Close()

	spendingKey, err := keys.SpendingKey.Encode(chain.SpendingKeyHRP)
	if err != nil {
		return nil, domain.ErrKeyStore
	}
	viewingKey, err := keys.ViewingKey.Encode(chain.ViewingKeyHRP)
	if err != nil {
		return nil, domain.ErrKeyStore
	}
	address, err := keys.Address.Encode(chain.PaymentAddressHRP)
	if err != nil {
		return nil, domain.ErrKeyStore
	}
	account.Address = address
	account.Owner = viewingKey

	if err := s.txBuilder.AddSpendingKey(
		keys.SpendingKey.Serialize(), s.password, account.Alias,
	); err != nil {
		return nil, domain.ErrKeyStore
	}

	return &domain.ShieldedSecret{
		SpendingKey: spendingKey,
		ViewingKey:  viewingKey,
	}, nil
}

// ResetPassword re-encrypts the record with the given id and every record
// whose parentId matches, atomically: the whole batch is staged on a copy of
// the key ring and committed with a single store write, so an interruption
// leaves either all old or all new blobs intact.
func (s *KeystoreService) ResetPassword(
	ctx context.Context, oldPassword, newPassword, accountID string,
) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if len(newPassword) <= 0 {
		return domain.ErrNoPassword
	}

	ring, err := s.loadKeyRing(ctx)
	if err != nil {
		return err
	}
	account, ok := ring.ByID(accountID)
	if !ok {
		return domain.ErrUnknownAccount
	}
	if !cryptobox.CheckPassword(account.Crypto, oldPassword) {
		return domain.ErrBadPassword
	}

	staged := ring.Clone()
	for _, record := range staged.Family(accountID) {
		plaintext, err := cryptobox.Decrypt(cryptobox.DecryptOpts{
			CypherText: record.Crypto,
			Password:   oldPassword,
		})
		if err != nil {
			// the staged copy is discarded, nothing was persisted
			return domain.ErrKeyStore
		}

		crypto, err := cryptobox.Encrypt(cryptobox.EncryptOpts{
			PlainText: plaintext,
			Password:  newPassword,
			Params:    s.kdfParams,
		})
		cryptobox.Zeroize(plaintext)
		if err != nil {
			return domain.ErrKeyStore
		}
		if err := staged.SetCrypto(record.ID, crypto); err != nil {
			return domain.ErrKeyStore
		}
	}

	if err := s.saveKeyRing(ctx, staged); err != nil {
		return err
	}

	if activeID, _ := s.activeAccountID(ctx); activeID == accountID &&
		len(s.password) > 0 {
		s.password = newPassword
	}
	log.WithField("id", accountID).Info("rotated account credentials")
	return nil
}

// DeleteAccount verifies the password and removes the record along with
// every record whose parentId matches. Deleting the active parent also
// forgets the cached password and the active id.
func (s *KeystoreService) DeleteAccount(
	ctx context.Context, accountID, password string,
) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	ring, err := s.loadKeyRing(ctx)
	if err != nil {
		return err
	}
	account, ok := ring.ByID(accountID)
	if !ok {
		return domain.ErrUnknownAccount
	}
	if !cryptobox.CheckPassword(account.Crypto, password) {
		return domain.ErrBadPassword
	}

	removed := ring.Remove(accountID)
	if err := s.saveKeyRing(ctx, ring); err != nil {
		return err
	}

	if account.IsParent() {
		if err := s.dropTxBuilderSnapshot(ctx, accountID); err != nil {
			return err
		}
	}

	if activeID, _ := s.activeAccountID(ctx); activeID == accountID {
		if err := s.store.Delete(ctx, domain.ParentAccountIDKey); err != nil {
			return domain.ErrKeyStore
		}
		s.password = ""
	}

	log.WithFields(log.Fields{
		"id": accountID, "removed": len(removed),
	}).Info("deleted account")
	return nil
}

// QueryAccounts returns the active parent and its children, stripped of
// their encrypted blobs. It returns an empty list when no parent is active.
func (s *KeystoreService) QueryAccounts(ctx context.Context) ([]domain.Account, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	activeID, err := s.activeAccountID(ctx)
	if err != nil {
		return nil, err
	}
	if activeID == "" {
		return []domain.Account{}, nil
	}

	ring, err := s.loadKeyRing(ctx)
	if err != nil {
		return nil, err
	}
	return stripped(ring.Family(activeID)), nil
}

// QueryParentAccounts returns every mnemonic record, stripped of the
// encrypted blobs.
func (s *KeystoreService) QueryParentAccounts(ctx context.Context) ([]domain.Account, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	ring, err := s.loadKeyRing(ctx)
	if err != nil {
		return nil, err
	}
	return stripped(ring.ByType(domain.AccountTypeMnemonic)), nil
}

// SetActiveAccountID persists the active parent id and re-hydrates the
// transaction builder from the parent's side-store snapshot.
func (s *KeystoreService) SetActiveAccountID(ctx context.Context, id string) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	ring, err := s.loadKeyRing(ctx)
	if err != nil {
		return err
	}
	account, ok := ring.ByID(id)
	if !ok || !account.IsParent() {
		return domain.ErrUnknownAccount
	}

	if err := s.store.Put(ctx, domain.ParentAccountIDKey, []byte(id)); err != nil {
		return domain.ErrKeyStore
	}

	sdkStore, err := s.loadSdkStore(ctx)
	if err != nil {
		return err
	}
	if err := s.txBuilder.Decode(sdkStore[id]); err != nil {
		return domain.ErrKeyStore
	}
	return nil
}

// ActiveAccountID returns the persisted active parent id, or empty when no
// parent is active.
func (s *KeystoreService) ActiveAccountID(ctx context.Context) (string, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.activeAccountID(ctx)
}

// CheckPassword reports whether the password opens the active parent record
func (s *KeystoreService) CheckPassword(ctx context.Context, password string) bool {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	parent, err := s.activeParent(ctx)
	if err != nil {
		return false
	}
	return cryptobox.CheckPassword(parent.Crypto, password)
}

func (s *KeystoreService) activeAccountID(ctx context.Context) (string, error) {
	value, err := s.store.Get(ctx, domain.ParentAccountIDKey)
	if err != nil {
		return "", domain.ErrKeyStore
	}
	return string(value), nil
}

func (s *KeystoreService) activeParent(ctx context.Context) (domain.Account, error) {
	activeID, err := s.activeAccountID(ctx)
	if err != nil {
		return domain.Account{}, err
	}
	if activeID == "" {
		return domain.Account{}, domain.ErrUnknownAccount
	}

	ring, err := s.loadKeyRing(ctx)
	if err != nil {
		return domain.Account{}, err
	}
	parent, ok := ring.ByID(activeID)
	if !ok {
		return domain.Account{}, domain.ErrUnknownAccount
	}
	return parent, nil
}

func (s *KeystoreService) loadKeyRing(ctx context.Context) (*domain.KeyRing, error) {
	data, err := s.store.Get(ctx, domain.KeyStoreKey)
	if err != nil {
		return nil, domain.ErrKeyStore
	}
	return domain.UnmarshalKeyRing(data)
}

func (s *KeystoreService) saveKeyRing(ctx context.Context, ring *domain.KeyRing) error {
	data, err := ring.Marshal()
	if err != nil {
		return err
	}
	if err := s.store.Put(ctx, domain.KeyStoreKey, data); err != nil {
		return domain.ErrKeyStore
	}
	return nil
}

func (s *KeystoreService) loadSdkStore(ctx context.Context) (domain.SdkStore, error) {
	data, err := s.store.Get(ctx, domain.SdkStoreKey)
	if err != nil {
		return nil, domain.ErrKeyStore
	}
	return domain.UnmarshalSdkStore(data)
}

func (s *KeystoreService) saveSdkStore(ctx context.Context, sdkStore domain.SdkStore) error {
	data, err := sdkStore.Marshal()
	if err != nil {
		return err
	}
	if err := s.store.Put(ctx, domain.SdkStoreKey, data); err != nil {
		return domain.ErrKeyStore
	}
	return nil
}

func (s *KeystoreService) snapshotTxBuilder(ctx context.Context, parentID string) error {
	snapshot, err := s.txBuilder.Encode()
	if err != nil {
		return domain.ErrKeyStore
	}

	sdkStore, err := s.loadSdkStore(ctx)
	if err != nil {
		return err
	}
	sdkStore[parentID] = snapshot
	return s.saveSdkStore(ctx, sdkStore)
}

func (s *KeystoreService) dropTxBuilderSnapshot(ctx context.Context, parentID string) error {
	sdkStore, err := s.loadSdkStore(ctx)
	if err != nil {
		return err
	}
	delete(sdkStore, parentID)
	return s.saveSdkStore(ctx, sdkStore)
}

func (s *KeystoreService) seal(secret domain.Secret, password string) ([]byte, error) {
	plaintext, err := secret.Encode()
	if err != nil {
		return nil, domain.ErrKeyStore
	}
	defer cryptobox.Zeroize(plaintext)

	crypto, err := cryptobox.Encrypt(cryptobox.EncryptOpts{
		PlainText: plaintext,
		Password:  password,
		Params:    s.kdfParams,
	})
	if err != nil {
		return nil, domain.ErrKeyStore
	}
	return crypto, nil
}

func (s *KeystoreService) open(account domain.Account, password string) (domain.Secret, error) {
	plaintext, err := cryptobox.Decrypt(cryptobox.DecryptOpts{
		CypherText: account.Crypto,
		Password:   password,
	})
	if err != nil {
		if err == cryptobox.ErrBadPassword {
			return nil, domain.ErrBadPassword
		}
		return nil, domain.ErrKeyStore
	}
	defer cryptobox.Zeroize(plaintext)

	return domain.DecodeSecret(account.Type, plaintext)
}

func stripped(accounts []domain.Account) []domain.Account {
	out := make([]domain.Account, 0, len(accounts))
	for _, account := range accounts {
		out = append(out, account.WithoutSecret())
	}
	return out
}

func defaultAlias(alias string) string {
	if len(alias) > 0 {
		return alias
	}
	return "account-" + randstr.Hex(4)
}
