package sapling

import (
	"github.com/pnam1609/namada-interfaces-comunity/pkg/wallet"
)

// ShieldedKeys is the result of a shielded account derivation
type ShieldedKeys struct {
	SpendingKey *ExtendedSpendingKey
	ViewingKey  *ExtendedFullViewingKey
	Address     *PaymentAddress
}

// Close wipes the secret parts of the derived keys
func (k *ShieldedKeys) Close() {
	if k.SpendingKey != nil {
		k.SpendingKey.Close()
	}
}

// DeriveOpts is the struct given to the Derive method
type DeriveOpts struct {
	Seed  []byte
	Index uint32
}

func (o DeriveOpts) validate() error {
	if len(o.Seed) <= 0 {
		return ErrNullSeed
	}
	return nil
}

// Derive runs the ZIP 32 Sapling derivation for the shielded account at the
// given index: master key from the raw seed, then one hardened child.
func Derive(opts DeriveOpts) (*ShieldedKeys, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	master, err := MasterKey(opts.Seed)
	if err != nil {
		return nil, err
	}
	defer master.Close()

	xsk := master.Child(HardenedKeyStart + opts.Index)
	xfvk := xsk.FullViewingKey()
	addr, err := xfvk.DefaultAddress()
	if err != nil {
		xsk.Close()
		return nil, err
	}

	return &ShieldedKeys{
		SpendingKey: xsk,
		ViewingKey:  xfvk,
		Address:     addr,
	}, nil
}

// Encode renders the extended spending key as a bech32m string with the
// network's spending-key HRP.
func (k *ExtendedSpendingKey) Encode(hrp string) (string, error) {
	return wallet.EncodeBech32m(hrp, k.Serialize())
}

// DecodeExtendedSpendingKey is the inverse of Encode
func DecodeExtendedSpendingKey(encoded string) (string, *ExtendedSpendingKey, error) {
	hrp, payload, err := wallet.DecodeBech32m(encoded)
	if err != nil {
		return "", nil, err
	}
	key, err := ParseExtendedSpendingKey(payload)
	if err != nil {
		return "", nil, err
	}
	return hrp, key, nil
}

// Encode renders the extended full viewing key as a bech32m string with the
// network's viewing-key HRP.
func (fvk *ExtendedFullViewingKey) Encode(hrp string) (string, error) {
	return wallet.EncodeBech32m(hrp, fvk.Serialize())
}

// DecodeExtendedFullViewingKey is the inverse of Encode
func DecodeExtendedFullViewingKey(encoded string) (string, *ExtendedFullViewingKey, error) {
	hrp, payload, err := wallet.DecodeBech32m(encoded)
	if err != nil {
		return "", nil, err
	}
	fvk, err := ParseExtendedFullViewingKey(payload)
	if err != nil {
		return "", nil, err
	}
	return hrp, fvk, nil
}

// Encode renders the payment address as a bech32m string with the network's
// payment-address HRP.
func (a *PaymentAddress) Encode(hrp string) (string, error) {
	return wallet.EncodeBech32m(hrp, a.Bytes())
}

// DecodePaymentAddress is the inverse of Encode
func DecodePaymentAddress(encoded string) (string, *PaymentAddress, error) {
	hrp, payload, err := wallet.DecodeBech32m(encoded)
	if err != nil {
		return "", nil, err
	}
	addr, err := ParsePaymentAddress(payload)
	if err != nil {
		return "", nil, err
	}
	return hrp, addr, nil
}
