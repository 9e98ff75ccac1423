package sdk

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"sync"

	"github.com/pnam1609/namada-interfaces-comunity/pkg/cryptobox"
)

var (
	// ErrNullAlias ...
	ErrNullAlias = errors.New("alias must not be null")
	// ErrMalformedState ...
	ErrMalformedState = errors.New("sdk state is malformed")
)

// storedKey is one registered secret. Secrets handed to the builder are kept
// encrypted under the same password they were registered with, so snapshots
// never contain plaintext key material.
type storedKey struct {
	Crypto []byte `json:"crypto"`
}

type state struct {
	TransparentKeys map[string]storedKey `json:"transparentKeys"`
	SpendingKeys    map[string]storedKey `json:"spendingKeys"`
}

// Builder is the in-process transaction builder: the component that receives
// decrypted secrets from the keystore and keeps them per alias. It does not
// sign or submit transactions itself. Its per-parent state snapshots to
// opaque bytes for the keystore's side-store.
type Builder struct {
	lock  *sync.Mutex
	state state
	kdf   *cryptobox.KDFParams
}

// NewBuilder returns an empty builder. A nil kdfParams selects the cryptobox
// defaults for the internal key cache.
func NewBuilder(kdfParams *cryptobox.KDFParams) *Builder {
	return &Builder{
		lock:  &sync.Mutex{},
		state: emptyState(),
		kdf:   kdfParams,
	}
}

func emptyState() state {
	return state{
		TransparentKeys: map[string]storedKey{},
		SpendingKeys:    map[string]storedKey{},
	}
}

// AddKey registers a transparent private key under an alias
func (b *Builder) AddKey(privateKeyHex, password, alias string) error {
	if len(alias) <= 0 {
		return ErrNullAlias
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	crypto, err := cryptobox.Encrypt(cryptobox.EncryptOpts{
		PlainText: []byte(privateKeyHex),
		Password:  password,
		Params:    b.kdf,
	})
	if err != nil {
		return err
	}
	b.state.TransparentKeys[alias] = storedKey{Crypto: crypto}
	return nil
}

// AddSpendingKey registers a serialized extended spending key under an alias
func (b *Builder) AddSpendingKey(xsk []byte, password, alias string) error {
	if len(alias) <= 0 {
		return ErrNullAlias
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	crypto, err := cryptobox.Encrypt(cryptobox.EncryptOpts{
		PlainText: xsk,
		Password:  password,
		Params:    b.kdf,
	})
	if err != nil {
		return err
	}
	b.state.SpendingKeys[alias] = storedKey{Crypto: crypto}
	return nil
}

// FindKey reveals the transparent key registered under an alias. The caller
// owns the returned bytes and must wipe them.
func (b *Builder) FindKey(alias, password string) ([]byte, error) {
	b.lock.Lock()
	defer b.lock.Unlock()

	key, ok := b.state.TransparentKeys[alias]
	if !ok {
		return nil, ErrMalformedState
	}
	return cryptobox.Decrypt(cryptobox.DecryptOpts{
		CypherText: key.Crypto,
		Password:   password,
	})
}

// Encode snapshots the builder state to opaque bytes
func (b *Builder) Encode() ([]byte, error) {
	b.lock.Lock()
	defer b.lock.Unlock()

	data, err := json.Marshal(b.state)
	if err != nil {
		return nil, err
	}
	return []byte(base64.StdEncoding.EncodeToString(data)), nil
}

// Decode restores a snapshot produced by Encode. Nil data resets the builder
// to its empty state.
func (b *Builder) Decode(data []byte) error {
	b.lock.Lock()
	defer b.lock.Unlock()

	if len(data) <= 0 {
		b.state = emptyState()
		return nil
	}

	raw, err := base64.StdEncoding.DecodeString(string(data))
	if err != nil {
		return ErrMalformedState
	}
	restored := emptyState()
	if err := json.Unmarshal(raw, &restored); err != nil {
		return ErrMalformedState
	}
	b.state = restored
	return nil
}
