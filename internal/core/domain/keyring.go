package domain

import (
	"encoding/json"
)

// KeyRing is the persisted collection of account records. Records keep their
// insertion order, which fixes the rank of every parent imported after them.
// Relationships are lookups over one flat table, not ownership edges.
type KeyRing struct {
	accounts []Account
}

// NewKeyRing returns an empty collection
func NewKeyRing() *KeyRing {
	return &KeyRing{accounts: []Account{}}
}

// UnmarshalKeyRing decodes the persisted record list
func UnmarshalKeyRing(data []byte) (*KeyRing, error) {
	if len(data) <= 0 {
		return NewKeyRing(), nil
	}
	var accounts []Account
	if err := json.Unmarshal(data, &accounts); err != nil {
		return nil, ErrKeyStore
	}
	return &KeyRing{accounts: accounts}, nil
}

// Marshal encodes the record list for persistence
func (k *KeyRing) Marshal() ([]byte, error) {
	data, err := json.Marshal(k.accounts)
	if err != nil {
		return nil, ErrKeyStore
	}
	return data, nil
}

// Len returns the number of records, which is also the rank of the next
// imported parent.
func (k *KeyRing) Len() int {
	return len(k.accounts)
}

// Append adds a record, refusing duplicates and children of unknown parents
func (k *KeyRing) Append(account Account) error {
	if _, ok := k.ByID(account.ID); ok {
		return ErrDuplicate
	}
	if account.ParentID != "" {
		parent, ok := k.ByID(account.ParentID)
		if !ok || !parent.IsParent() {
			return ErrUnknownAccount
		}
	}
	k.accounts = append(k.accounts, account)
	return nil
}

// ByID returns the record with the given id
func (k *KeyRing) ByID(id string) (Account, bool) {
	for _, account := range k.accounts {
		if account.ID == id {
			return account, true
		}
	}
	return Account{}, false
}

// ByAddress returns the record with the given address
func (k *KeyRing) ByAddress(address string) (Account, bool) {
	for _, account := range k.accounts {
		if account.Address == address {
			return account, true
		}
	}
	return Account{}, false
}

// ByParent returns all records whose parent is the given id, in insertion
// order.
func (k *KeyRing) ByParent(parentID string) []Account {
	accounts := make([]Account, 0)
	for _, account := range k.accounts {
		if account.ParentID == parentID {
			accounts = append(accounts, account)
		}
	}
	return accounts
}

// ByType returns all records of the given type, in insertion order
func (k *KeyRing) ByType(accountType AccountType) []Account {
	accounts := make([]Account, 0)
	for _, account := range k.accounts {
		if account.Type == accountType {
			accounts = append(accounts, account)
		}
	}
	return accounts
}

// Family returns the record with the given id followed by all its children
func (k *KeyRing) Family(id string) []Account {
	accounts := make([]Account, 0)
	if account, ok := k.ByID(id); ok {
		accounts = append(accounts, account)
	}
	return append(accounts, k.ByParent(id)...)
}

// SetCrypto rewrites the encrypted blob of the record with the given id
func (k *KeyRing) SetCrypto(id string, crypto []byte) error {
	for i := range k.accounts {
		if k.accounts[i].ID == id {
			k.accounts[i].Crypto = crypto
			return nil
		}
	}
	return ErrUnknownAccount
}

// Remove deletes the record with the given id and cascades over every record
// whose parentId matches. It returns the removed records.
func (k *KeyRing) Remove(id string) []Account {
	removed := make([]Account, 0)
	kept := make([]Account, 0, len(k.accounts))
	for _, account := range k.accounts {
		if account.ID == id || account.ParentID == id {
			removed = append(removed, account)
			continue
		}
		kept = append(kept, account)
	}
	k.accounts = kept
	return removed
}

// Clone returns a deep copy; staged rotations mutate the copy and swap it in
// only once every record re-encrypted.
func (k *KeyRing) Clone() *KeyRing {
	accounts := make([]Account, len(k.accounts))
	copy(accounts, k.accounts)
	for i := range accounts {
		if accounts[i].Crypto != nil {
			crypto := make([]byte, len(accounts[i].Crypto))
			copy(crypto, accounts[i].Crypto)
			accounts[i].Crypto = crypto
		}
	}
	return &KeyRing{accounts: accounts}
}

// All returns every record in insertion order
func (k *KeyRing) All() []Account {
	accounts := make([]Account, len(k.accounts))
	copy(accounts, k.accounts)
	return accounts
}
