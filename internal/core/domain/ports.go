package domain

import (
	"context"

	"github.com/pnam1609/namada-interfaces-comunity/pkg/wallet"
)

// Chain is one entry of the chain registry: everything the keyring needs to
// derive and encode accounts bound to a chain.
type Chain struct {
	ChainID           string
	CoinType          uint32
	AddressHRP        string
	SpendingKeyHRP    string
	ViewingKeyHRP     string
	PaymentAddressHRP string
	AddressHasher     wallet.AddressHasher
}

// ChainRegistry maps a chain identifier to its parameters. Lookups of an
// unknown chain fail with ErrUnknownChain.
type ChainRegistry interface {
	Chain(chainID string) (*Chain, error)
}

// TxBuilder is the external transaction builder the keyring feeds decrypted
// secrets to. Its state is opaque: the keyring only snapshots and restores
// it per parent through Encode and Decode.
type TxBuilder interface {
	// AddKey registers a transparent private key in hex form
	AddKey(privateKeyHex, password, alias string) error
	// AddSpendingKey registers a serialized extended spending key
	AddSpendingKey(xsk []byte, password, alias string) error
	// Encode snapshots the builder's state
	Encode() ([]byte, error)
	// Decode restores a snapshot; nil data resets the builder
	Decode(data []byte) error
}

// TokenAmount is one balance entry as reported by the chain
type TokenAmount struct {
	Token  string
	Amount string
}

// ChainQuery is the external balance oracle keyed by owner: the transparent
// address or, for shielded accounts, the viewing key.
type ChainQuery interface {
	QueryBalance(ctx context.Context, owner string) ([]TokenAmount, error)
}
