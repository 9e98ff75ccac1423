package sapling

import (
	"errors"
	"math/big"

	"github.com/dchest/blake2s"
)

const (
	// DiversifierSize is the length in bytes of a diversifier
	DiversifierSize = 11
	// PaymentAddressSize is the length in bytes of a raw payment address
	PaymentAddressSize = DiversifierSize + 32
)

var (
	// ErrNoValidDiversifier ...
	ErrNoValidDiversifier = errors.New("no valid diversifier found")
	// ErrInvalidViewingKey ...
	ErrInvalidViewingKey = errors.New("viewing key does not define an address")
)

// PaymentAddress is a diversified Sapling receiving address: the diversifier
// and the diversified transmission key.
type PaymentAddress struct {
	Diversifier [DiversifierSize]byte
	PkD         [32]byte
}

// Bytes returns the 43-byte raw encoding d ‖ pk_d
func (a *PaymentAddress) Bytes() []byte {
	return append(append([]byte{}, a.Diversifier[:]...), a.PkD[:]...)
}

// ParsePaymentAddress is the inverse of Bytes
func ParsePaymentAddress(data []byte) (*PaymentAddress, error) {
	if len(data) != PaymentAddressSize {
		return nil, ErrInvalidViewingKey
	}
	addr := &PaymentAddress{}
	copy(addr.Diversifier[:], data[:DiversifierSize])
	copy(addr.PkD[:], data[DiversifierSize:])
	return addr, nil
}

// incomingViewingKey computes ivk = CRH^ivk(ak, nk): the BLAKE2s digest of
// ak||nk reduced to 251 bits.
func (fvk *ExtendedFullViewingKey) incomingViewingKey() (*big.Int, error) {
	h, err := blake2s.New(&blake2s.Config{
		Size:   blake2s.Size,
		Person: []byte(personIvk),
	})
	if err != nil {
		return nil, err
	}
	h.Write(fvk.Ak[:])
	h.Write(fvk.Nk[:])

	digest := h.Sum(nil)
	digest[31] &= 0x07
	ivk := fromLittleEndian(digest)
	if ivk.Sign() == 0 {
		return nil, ErrInvalidViewingKey
	}
	return ivk, nil
}

// diversifier encrypts the diversifier index under the diversifier key with
// FF1-AES256 over the 88-bit little-endian bit string of the index.
func (fvk *ExtendedFullViewingKey) diversifier(index uint64) ([DiversifierSize]byte, error) {
	var d [DiversifierSize]byte

	bits := make([]byte, ff1Bits)
	j := new(big.Int).SetUint64(index)
	for i := 0; i < ff1Bits; i++ {
		bits[i] = byte(j.Bit(i))
	}

	encrypted, err := ff1Encrypt(fvk.Dk[:], bits)
	if err != nil {
		return d, err
	}
	for i, bit := range encrypted {
		if bit != 0 {
			d[i/8] |= 1 << uint(i%8)
		}
	}
	return d, nil
}

// DefaultAddress returns the diversified payment address at the lowest
// diversifier index whose diversifier hashes to the group.
func (fvk *ExtendedFullViewingKey) DefaultAddress() (*PaymentAddress, error) {
	ivk, err := fvk.incomingViewingKey()
	if err != nil {
		return nil, err
	}

	for index := uint64(0); index < 1<<16; index++ {
		d, err := fvk.diversifier(index)
		if err != nil {
			return nil, err
		}
		gd, err := groupHash(personDiversifier, d[:])
		if err != nil {
			// diversifier does not map to the group, try the next index
			continue
		}

		addr := &PaymentAddress{Diversifier: d}
		copy(addr.PkD[:], gd.scalarMul(ivk).compress())
		return addr, nil
	}
	return nil, ErrNoValidDiversifier
}
