package domain

import (
	"encoding/hex"
	"encoding/json"
	"strings"
)

// Secret is the plaintext payload sealed inside a record's crypto blob. The
// concrete variant is determined by the record type, so encoding and
// decryption never depend on inspecting the payload itself.
type Secret interface {
	// Encode renders the payload bytes that get encrypted
	Encode() ([]byte, error)
	// Close wipes the secret material
	Close()
}

// MnemonicSecret is the phrase stored by parent records
type MnemonicSecret []string

// Encode joins the words with single spaces
func (s MnemonicSecret) Encode() ([]byte, error) {
	return []byte(strings.Join(s, " ")), nil
}

// Close wipes the phrase words
func (s MnemonicSecret) Close() {
	for i := range s {
		s[i] = ""
	}
}

// PrivateKeySecret is the raw private key of a transparent derived account
type PrivateKeySecret []byte

// Encode renders the key in hex
func (s PrivateKeySecret) Encode() ([]byte, error) {
	return []byte(hex.EncodeToString(s)), nil
}

// Close wipes the key bytes
func (s PrivateKeySecret) Close() {
	for i := range s {
		s[i] = 0
	}
}

// ShieldedSecret holds the encoded spending and viewing keys of a shielded
// derived account.
type ShieldedSecret struct {
	SpendingKey string `json:"spendingKey"`
	ViewingKey  string `json:"viewingKey"`
}

// Encode renders the JSON object persisted for shielded accounts
func (s *ShieldedSecret) Encode() ([]byte, error) {
	return json.Marshal(s)
}

// Close drops the references; the underlying strings are immutable
func (s *ShieldedSecret) Close() {
	s.SpendingKey = ""
	s.ViewingKey = ""
}

// DecodeSecret parses a decrypted payload according to the record type
func DecodeSecret(accountType AccountType, data []byte) (Secret, error) {
	switch accountType {
	case AccountTypeMnemonic:
		return MnemonicSecret(strings.Split(string(data), " ")), nil
	case AccountTypePrivateKey:
		key, err := hex.DecodeString(string(data))
		if err != nil {
			return nil, ErrKeyStore
		}
		return PrivateKeySecret(key), nil
	case AccountTypeShieldedKeys:
		secret := &ShieldedSecret{}
		if err := json.Unmarshal(data, secret); err != nil {
			return nil, ErrKeyStore
		}
		return secret, nil
	default:
		return nil, ErrKeyStore
	}
}
