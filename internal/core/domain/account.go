package domain

import (
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/pnam1609/namada-interfaces-comunity/pkg/wallet"
)

// AccountType discriminates the secret sealed inside a record
type AccountType string

const (
	// AccountTypeMnemonic marks a parent record storing a phrase
	AccountTypeMnemonic AccountType = "mnemonic"
	// AccountTypePrivateKey marks a transparent derived account
	AccountTypePrivateKey AccountType = "private-key"
	// AccountTypeShieldedKeys marks a shielded derived account
	AccountTypeShieldedKeys AccountType = "shielded-keys"
)

// namespaceUUID is the fixed uuid v5 namespace every record id is derived
// under. Ids are pure functions of content: re-deriving the same account
// yields the same id on any host.
var namespaceUUID = uuid.MustParse("9bfceade-37fe-11ed-acc0-a3da3461b38c")

// Account is the unit of persistence of the keystore. Everything but Crypto
// is stored in the clear; Crypto is the encrypted blob of the secret payload.
// A record is immutable after creation except for Crypto, which is rewritten
// by password rotation.
type Account struct {
	ID       string      `json:"id"`
	ParentID string      `json:"parentId,omitempty"`
	Alias    string      `json:"alias"`
	ChainID  string      `json:"chainId"`
	Path     wallet.Path `json:"path"`
	Type     AccountType `json:"type"`
	Address  string      `json:"address"`
	Owner    string      `json:"owner"`
	Crypto   []byte      `json:"crypto,omitempty"`
}

// IsParent returns whether the record seeds a hierarchy
func (a Account) IsParent() bool {
	return a.Type == AccountTypeMnemonic
}

// WithoutSecret returns a copy of the record stripped of the encrypted blob
func (a Account) WithoutSecret() Account {
	a.Crypto = nil
	return a
}

// MnemonicID computes the id of a parent record from its phrase and its
// rank, the number of records present at import time.
func MnemonicID(mnemonic []string, rank int) string {
	name := strings.Join(mnemonic, " ") + "::" + strconv.Itoa(rank)
	return uuid.NewSHA1(namespaceUUID, []byte(name)).String()
}

// DerivedID computes the id of a derived record from its parent id and its
// derivation path.
func DerivedID(accountType AccountType, parentID string, path wallet.Path) string {
	kind := "account"
	if accountType == AccountTypeShieldedKeys {
		kind = "shielded-account"
	}
	index := uint32(0)
	if path.Index != nil {
		index = *path.Index
	}

	name := strings.Join([]string{
		kind,
		parentID,
		strconv.FormatUint(uint64(path.Account), 10),
		strconv.FormatUint(uint64(path.Change), 10),
		strconv.FormatUint(uint64(index), 10),
	}, "::")
	return uuid.NewSHA1(namespaceUUID, []byte(name)).String()
}
