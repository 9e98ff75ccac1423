package domain

import "errors"

var (
	// ErrNoPassword is thrown when an operation requires the keystore to be unlocked
	ErrNoPassword = errors.New("keystore must be unlocked with a password")
	// ErrBadPassword is thrown when decryption of a record fails authentication
	ErrBadPassword = errors.New("password is not valid")
	// ErrUnknownAccount is thrown when an id or address is not found
	ErrUnknownAccount = errors.New("account not found")
	// ErrUnknownChain is thrown on a chain registry miss
	ErrUnknownChain = errors.New("chain not found in registry")
	// ErrInvalidMnemonic ...
	ErrInvalidMnemonic = errors.New("mnemonic is invalid")
	// ErrKeyStore is thrown on storage failures or invariant violations
	ErrKeyStore = errors.New("key store failure")
	// ErrDuplicate is thrown when a record id already exists
	ErrDuplicate = errors.New("account already exists")
)
