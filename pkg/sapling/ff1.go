package sapling

import (
	"crypto/aes"
	"crypto/cipher"
	"math/big"
)

// FF1 format-preserving encryption (NIST SP 800-38G) specialized to the only
// shape ZIP 32 needs: AES-256, radix 2, 88-bit inputs, empty tweak. The
// diversifier key acts as the AES key and diversifier indexes are encrypted
// into diversifiers.

const (
	ff1Bits   = 88
	ff1Half   = ff1Bits / 2       // u = v = 44
	ff1NumLen = (ff1Half + 7) / 8 // b = 6
	ff1OutLen = 12                // d = 4*ceil(b/4) + 4
	ff1Rounds = 10
)

// ff1Encrypt runs FF1 over an 88-element binary numeral string. Both input
// and output are bit slices holding one numeral (0 or 1) per element.
func ff1Encrypt(key []byte, x []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	a := append([]byte{}, x[:ff1Half]...)
	b := append([]byte{}, x[ff1Half:]...)

	// P is fixed for this shape: radix 2, 10 rounds, n = 88, no tweak
	p := []byte{
		0x01, 0x02, 0x01,
		0x00, 0x00, 0x02, // radix
		0x0a,
		ff1Half & 0xff,
		0x00, 0x00, 0x00, ff1Bits, // n
		0x00, 0x00, 0x00, 0x00, // t
	}

	mod := new(big.Int).Lsh(big.NewInt(1), ff1Half)

	for i := 0; i < ff1Rounds; i++ {
		// Q = 0^9 || [i] || NUM2(B) over b bytes
		q := make([]byte, 16)
		q[9] = byte(i)
		numB := bitsToInt(b)
		numB.FillBytes(q[10 : 10+ff1NumLen])

		r := prfCBC(block, append(append([]byte{}, p...), q...))

		y := new(big.Int).SetBytes(r[:ff1OutLen])
		c := bitsToInt(a)
		c.Add(c, y)
		c.Mod(c, mod)

		a = b
		b = intToBits(c, ff1Half)
	}

	return append(a, b...), nil
}

// prfCBC is the FF1 PRF: a zero-IV CBC-MAC over whole blocks
func prfCBC(block cipher.Block, data []byte) []byte {
	y := make([]byte, 16)
	for off := 0; off < len(data); off += 16 {
		for j := 0; j < 16; j++ {
			y[j] ^= data[off+j]
		}
		block.Encrypt(y, y)
	}
	return y
}

// bitsToInt interprets a numeral string as a big-endian radix-2 number
func bitsToInt(bits []byte) *big.Int {
	x := new(big.Int)
	for _, bit := range bits {
		x.Lsh(x, 1)
		if bit != 0 {
			x.Or(x, big.NewInt(1))
		}
	}
	return x
}

// intToBits is the inverse of bitsToInt for a fixed numeral count
func intToBits(x *big.Int, n int) []byte {
	bits := make([]byte, n)
	for i := 0; i < n; i++ {
		bits[i] = byte(x.Bit(n - 1 - i))
	}
	return bits
}
