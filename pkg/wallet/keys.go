package wallet

import (
	"crypto/sha256"

	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
)

// implicitAddressDiscriminant tags the bech32m payload of addresses derived
// from a public key rather than from an on-chain transaction.
const implicitAddressDiscriminant = 0x00

// AddressHasher maps a compressed public key to the raw address bytes of a
// chain. Every chain entry of the registry supplies its own.
type AddressHasher func(pubKey []byte) []byte

// Sha256AddressHasher hashes the compressed public key with SHA-256 and
// keeps the first 20 bytes.
func Sha256AddressHasher(pubKey []byte) []byte {
	h := sha256.Sum256(pubKey)
	return h[:20]
}

// TransparentKey is the result of a BIP44 descent: the raw private key and
// the compressed public key of the leaf. Close wipes the private key.
type TransparentKey struct {
	PrivateKey []byte
	PublicKey  []byte
}

// Close wipes the private key bytes
func (k *TransparentKey) Close() {
	zeroize(k.PrivateKey)
	k.PrivateKey = nil
}

// DeriveTransparentKeyOpts is the struct given to the DeriveTransparentKey method
type DeriveTransparentKeyOpts struct {
	Seed     []byte
	Path     Path
	CoinType uint32
}

func (o DeriveTransparentKeyOpts) validate() error {
	if len(o.Seed) <= 0 {
		return ErrNullSeed
	}
	return o.Path.validate()
}

// DeriveTransparentKey runs the BIP32 descent along
// m/44'/coinType'/account'/change[/index] and returns the leaf key pair.
// Every intermediate key is wiped before returning.
func DeriveTransparentKey(opts DeriveTransparentKeyOpts) (*TransparentKey, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	hdNode, err := hdkeychain.NewMaster(opts.Seed, &chaincfg.MainNetParams)
	if err != nil {
		return nil, err
	}
	// the leaf is reassigned along the descent: wipe whatever node is
	// current on every exit path
	defer func() { hdNode.Zero() }()

	for _, step := range opts.Path.BIP44(opts.CoinType) {
		child, err := hdNode.Derive(step)
		if err != nil {
			return nil, err
		}
		hdNode.Zero()
		hdNode = child
	}

	privateKey, err := hdNode.ECPrivKey()
	if err != nil {
		return nil, err
	}
	publicKey, err := hdNode.ECPubKey()
	if err != nil {
		return nil, err
	}

	return &TransparentKey{
		PrivateKey: privateKey.Serialize(),
		PublicKey:  publicKey.SerializeCompressed(),
	}, nil
}

// ImplicitAddressOpts is the struct given to the ImplicitAddress method
type ImplicitAddressOpts struct {
	PublicKey []byte
	HRP       string
	Hasher    AddressHasher
}

func (o ImplicitAddressOpts) validate() error {
	if len(o.PublicKey) <= 0 {
		return ErrNullPublicKey
	}
	if len(o.HRP) <= 0 {
		return ErrNullHRP
	}
	if o.Hasher == nil {
		return ErrNullAddressHasher
	}
	return nil
}

// ImplicitAddress encodes the implicit on-chain address of a compressed
// public key: the chain's hash of the key, tagged with the implicit
// discriminant and rendered as a bech32m string with the chain's HRP.
func ImplicitAddress(opts ImplicitAddressOpts) (string, error) {
	if err := opts.validate(); err != nil {
		return "", err
	}

	payload := append(
		[]byte{implicitAddressDiscriminant}, opts.Hasher(opts.PublicKey)...,
	)
	return EncodeBech32m(opts.HRP, payload)
}

// EncodeBech32m converts the payload to base32 groups and encodes it with a
// bech32m checksum.
func EncodeBech32m(hrp string, payload []byte) (string, error) {
	converted, err := bech32.ConvertBits(payload, 8, 5, true)
	if err != nil {
		return "", err
	}
	return bech32.EncodeM(hrp, converted)
}

// DecodeBech32m is the inverse of EncodeBech32m
func DecodeBech32m(encoded string) (string, []byte, error) {
	// extended keys exceed the 90-character BIP-173 cap, so decode without it
	hrp, data, err := bech32.DecodeNoLimit(encoded)
	if err != nil {
		return "", nil, err
	}
	payload, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return "", nil, err
	}
	return hrp, payload, nil
}
