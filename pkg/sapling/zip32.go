package sapling

import (
	"encoding/binary"
	"errors"
	"math/big"

	blake2b "github.com/minio/blake2b-simd"
)

const (
	// ExtendedKeySize is the length in bytes of both the serialized extended
	// spending key and the serialized extended full viewing key
	ExtendedKeySize = 169
	// HardenedKeyStart is the first hardened child index
	HardenedKeyStart = uint32(0x80000000)

	personMaster = "ZcashIP32Sapling"
	personExpand = "Zcash_ExpandSeed"
	personFVFP   = "ZcashSaplingFVFP"
)

var (
	// ErrNullSeed ...
	ErrNullSeed = errors.New("seed must not be null")
	// ErrMalformedExtendedKey ...
	ErrMalformedExtendedKey = errors.New("extended key must be 169 bytes")
)

// ExtendedSpendingKey is a ZIP 32 Sapling extended spending key: the full
// secret authority over a shielded account.
type ExtendedSpendingKey struct {
	Depth        uint8
	ParentFVKTag [4]byte
	ChildIndex   uint32
	ChainCode    [32]byte
	Ask          *big.Int
	Nsk          *big.Int
	Ovk          [32]byte
	Dk           [32]byte
}

// ExtendedFullViewingKey is the read-only counterpart of an extended
// spending key: it sees incoming and outgoing value without spending power.
type ExtendedFullViewingKey struct {
	Depth        uint8
	ParentFVKTag [4]byte
	ChildIndex   uint32
	ChainCode    [32]byte
	Ak           [32]byte
	Nk           [32]byte
	Ovk          [32]byte
	Dk           [32]byte
}

func blake2b512(person string, chunks ...[]byte) [64]byte {
	h, err := blake2b.New(&blake2b.Config{
		Size:   64,
		Person: []byte(person),
	})
	if err != nil {
		panic(err)
	}
	for _, c := range chunks {
		h.Write(c)
	}
	var out [64]byte
	copy(out[:], h.Sum(nil))
	return out
}

// prfExpand is PRF^expand: BLAKE2b-512 of sk||t with the ZIP 32 expansion
// personalization.
func prfExpand(sk []byte, t ...[]byte) [64]byte {
	chunks := append([][]byte{sk}, t...)
	return blake2b512(personExpand, chunks...)
}

// toScalar reduces 64 little-endian bytes into the jubjub scalar field
func toScalar(b [64]byte) *big.Int {
	x := fromLittleEndian(b[:])
	return x.Mod(x, scalarOrder)
}

func scalarBytes(x *big.Int) [32]byte {
	var out [32]byte
	copyLittleEndian(out[:], x)
	return out
}

// MasterKey derives the Sapling master extended spending key from a seed
func MasterKey(seed []byte) (*ExtendedSpendingKey, error) {
	if len(seed) <= 0 {
		return nil, ErrNullSeed
	}

	i := blake2b512(personMaster, seed)
	sk, chainCode := i[:32], i[32:]

	key := &ExtendedSpendingKey{}
	copy(key.ChainCode[:], chainCode)
	key.expandFrom(sk)

	zeroize(i[:])
	return key, nil
}

// expandFrom fills ask, nsk, ovk and dk from the given spending key bytes
func (k *ExtendedSpendingKey) expandFrom(sk []byte) {
	ask := prfExpand(sk, []byte{0x00})
	nsk := prfExpand(sk, []byte{0x01})
	ovk := prfExpand(sk, []byte{0x02})
	dk := prfExpand(sk, []byte{0x10})

	k.Ask = toScalar(ask)
	k.Nsk = toScalar(nsk)
	copy(k.Ovk[:], ovk[:32])
	copy(k.Dk[:], dk[:32])

	zeroize(ask[:])
	zeroize(nsk[:])
	zeroize(ovk[:])
	zeroize(dk[:])
}

// Child derives the i-th child extended spending key
func (k *ExtendedSpendingKey) Child(index uint32) *ExtendedSpendingKey {
	var iLE [4]byte
	binary.LittleEndian.PutUint32(iLE[:], index)

	var i [64]byte
	if index >= HardenedKeyStart {
		ask := scalarBytes(k.Ask)
		nsk := scalarBytes(k.Nsk)
		i = prfExpand(
			k.ChainCode[:], []byte{0x11},
			ask[:], nsk[:], k.Ovk[:], k.Dk[:], iLE[:],
		)
	} else {
		fvk := k.FullViewingKey()
		i = prfExpand(
			k.ChainCode[:], []byte{0x12},
			fvk.Ak[:], fvk.Nk[:], fvk.Ovk[:], fvk.Dk[:], iLE[:],
		)
	}
	iL, iR := i[:32], i[32:]

	iAsk := prfExpand(iL, []byte{0x13})
	iNsk := prfExpand(iL, []byte{0x14})
	iOvk := prfExpand(iL, []byte{0x15}, k.Ovk[:])
	iDk := prfExpand(iL, []byte{0x16}, k.Dk[:])

	child := &ExtendedSpendingKey{
		Depth:      k.Depth + 1,
		ChildIndex: index,
		Ask:        new(big.Int).Mod(new(big.Int).Add(toScalar(iAsk), k.Ask), scalarOrder),
		Nsk:        new(big.Int).Mod(new(big.Int).Add(toScalar(iNsk), k.Nsk), scalarOrder),
	}
	copy(child.ChainCode[:], iR)
	copy(child.Ovk[:], iOvk[:32])
	copy(child.Dk[:], iDk[:32])
	child.ParentFVKTag = k.FullViewingKey().fingerprintTag()

	zeroize(i[:])
	zeroize(iAsk[:])
	zeroize(iNsk[:])
	zeroize(iOvk[:])
	zeroize(iDk[:])
	return child
}

// FullViewingKey computes the extended full viewing key: ak and nk are the
// images of ask and nsk under the spend-authorizing and proof-generation
// bases.
func (k *ExtendedSpendingKey) FullViewingKey() *ExtendedFullViewingKey {
	gSpend, gProof := generators()

	fvk := &ExtendedFullViewingKey{
		Depth:        k.Depth,
		ParentFVKTag: k.ParentFVKTag,
		ChildIndex:   k.ChildIndex,
		ChainCode:    k.ChainCode,
		Ovk:          k.Ovk,
		Dk:           k.Dk,
	}
	copy(fvk.Ak[:], gSpend.scalarMul(k.Ask).compress())
	copy(fvk.Nk[:], gProof.scalarMul(k.Nsk).compress())
	return fvk
}

// fingerprintTag is the first 4 bytes of the full viewing key fingerprint
func (fvk *ExtendedFullViewingKey) fingerprintTag() [4]byte {
	h, err := blake2b.New(&blake2b.Config{
		Size:   32,
		Person: []byte(personFVFP),
	})
	if err != nil {
		panic(err)
	}
	h.Write(fvk.Ak[:])
	h.Write(fvk.Nk[:])
	h.Write(fvk.Ovk[:])

	var tag [4]byte
	copy(tag[:], h.Sum(nil)[:4])
	return tag
}

// Serialize encodes the extended spending key into its 169-byte form:
// depth ‖ parent tag ‖ child index ‖ chain code ‖ ask ‖ nsk ‖ ovk ‖ dk.
func (k *ExtendedSpendingKey) Serialize() []byte {
	out := make([]byte, 0, ExtendedKeySize)
	out = append(out, k.Depth)
	out = append(out, k.ParentFVKTag[:]...)
	var iLE [4]byte
	binary.LittleEndian.PutUint32(iLE[:], k.ChildIndex)
	out = append(out, iLE[:]...)
	out = append(out, k.ChainCode[:]...)
	ask := scalarBytes(k.Ask)
	nsk := scalarBytes(k.Nsk)
	out = append(out, ask[:]...)
	out = append(out, nsk[:]...)
	out = append(out, k.Ovk[:]...)
	out = append(out, k.Dk[:]...)
	return out
}

// ParseExtendedSpendingKey is the inverse of Serialize
func ParseExtendedSpendingKey(data []byte) (*ExtendedSpendingKey, error) {
	if len(data) != ExtendedKeySize {
		return nil, ErrMalformedExtendedKey
	}

	k := &ExtendedSpendingKey{Depth: data[0]}
	copy(k.ParentFVKTag[:], data[1:5])
	k.ChildIndex = binary.LittleEndian.Uint32(data[5:9])
	copy(k.ChainCode[:], data[9:41])
	k.Ask = fromLittleEndian(data[41:73])
	k.Nsk = fromLittleEndian(data[73:105])
	copy(k.Ovk[:], data[105:137])
	copy(k.Dk[:], data[137:169])
	return k, nil
}

// Serialize encodes the extended full viewing key into its 169-byte form:
// depth ‖ parent tag ‖ child index ‖ chain code ‖ ak ‖ nk ‖ ovk ‖ dk.
func (fvk *ExtendedFullViewingKey) Serialize() []byte {
	out := make([]byte, 0, ExtendedKeySize)
	out = append(out, fvk.Depth)
	out = append(out, fvk.ParentFVKTag[:]...)
	var iLE [4]byte
	binary.LittleEndian.PutUint32(iLE[:], fvk.ChildIndex)
	out = append(out, iLE[:]...)
	out = append(out, fvk.ChainCode[:]...)
	out = append(out, fvk.Ak[:]...)
	out = append(out, fvk.Nk[:]...)
	out = append(out, fvk.Ovk[:]...)
	out = append(out, fvk.Dk[:]...)
	return out
}

// ParseExtendedFullViewingKey is the inverse of Serialize
func ParseExtendedFullViewingKey(data []byte) (*ExtendedFullViewingKey, error) {
	if len(data) != ExtendedKeySize {
		return nil, ErrMalformedExtendedKey
	}

	fvk := &ExtendedFullViewingKey{Depth: data[0]}
	copy(fvk.ParentFVKTag[:], data[1:5])
	fvk.ChildIndex = binary.LittleEndian.Uint32(data[5:9])
	copy(fvk.ChainCode[:], data[9:41])
	copy(fvk.Ak[:], data[41:73])
	copy(fvk.Nk[:], data[73:105])
	copy(fvk.Ovk[:], data[105:137])
	copy(fvk.Dk[:], data[137:169])
	return fvk, nil
}

// Close wipes the secret scalars and byte arrays of the spending key
func (k *ExtendedSpendingKey) Close() {
	if k.Ask != nil {
		k.Ask.SetInt64(0)
	}
	if k.Nsk != nil {
		k.Nsk.SetInt64(0)
	}
	zeroize(k.Ovk[:])
	zeroize(k.Dk[:])
	zeroize(k.ChainCode[:])
}

func zeroize(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
