package sapling

import (
	"errors"
	"math/big"
)

var (
	// ErrNotOnCurve ...
	ErrNotOnCurve = errors.New("bytes do not decode to a curve point")
	// ErrLowOrderPoint ...
	ErrLowOrderPoint = errors.New("point is of low order")
)

// fieldOrder is the prime q of the BLS12-381 scalar field, over which the
// jubjub curve is defined.
var fieldOrder, _ = new(big.Int).SetString(
	"73eda753299d7d483339d80809a1d80553bda402fffe5bfeffffffff00000001", 16,
)

// scalarOrder is the prime order r of the jubjub prime-order subgroup.
var scalarOrder, _ = new(big.Int).SetString(
	"0e7db4ea6533afa906673b0101343b00a6682093ccc81082d0970e5ed6f72cb7", 16,
)

// edwardsD is the d coefficient of the twisted Edwards equation
// -u^2 + v^2 = 1 + d*u^2*v^2, equal to -(10240/10241) mod q.
var edwardsD = func() *big.Int {
	den := new(big.Int).ModInverse(big.NewInt(10241), fieldOrder)
	d := new(big.Int).Mul(big.NewInt(10240), den)
	d.Mod(d, fieldOrder)
	return d.Neg(d).Mod(d, fieldOrder)
}()

// point is an affine jubjub point. The identity is (0, 1).
type point struct {
	u, v *big.Int
}

func identity() *point {
	return &point{u: big.NewInt(0), v: big.NewInt(1)}
}

func (p *point) isIdentity() bool {
	return p.u.Sign() == 0 && p.v.Cmp(big.NewInt(1)) == 0
}

// add implements the complete twisted Edwards addition law for a = -1:
//
//	u3 = (u1*v2 + v1*u2) / (1 + d*u1*u2*v1*v2)
//	v3 = (v1*v2 + u1*u2) / (1 - d*u1*u2*v1*v2)
func (p *point) add(q *point) *point {
	uv := new(big.Int).Mul(p.u, q.v)
	vu := new(big.Int).Mul(p.v, q.u)
	vv := new(big.Int).Mul(p.v, q.v)
	uu := new(big.Int).Mul(p.u, q.u)

	duuvv := new(big.Int).Mul(uu, vv)
	duuvv.Mul(duuvv, edwardsD)
	duuvv.Mod(duuvv, fieldOrder)

	one := big.NewInt(1)
	denU := new(big.Int).Add(one, duuvv)
	denV := new(big.Int).Sub(one, duuvv)

	numU := new(big.Int).Add(uv, vu)
	numV := new(big.Int).Add(vv, uu)

	u3 := numU.Mul(numU, denU.ModInverse(denU, fieldOrder))
	v3 := numV.Mul(numV, denV.ModInverse(denV, fieldOrder))

	return &point{
		u: u3.Mod(u3, fieldOrder),
		v: v3.Mod(v3, fieldOrder),
	}
}

func (p *point) double() *point {
	return p.add(p)
}

// scalarMul computes [k]P with plain double-and-add. Performance is not a
// concern here: derivation happens a handful of times per keystore call.
func (p *point) scalarMul(k *big.Int) *point {
	res := identity()
	for i := k.BitLen() - 1; i >= 0; i-- {
		res = res.double()
		if k.Bit(i) == 1 {
			res = res.add(p)
		}
	}
	return res
}

// mulCofactor clears the low-order component by multiplying by 8
func (p *point) mulCofactor() *point {
	return p.double().double().double()
}

// compress serializes the point as the 32-byte little-endian encoding of v
// with the sign of u stored in the top bit.
func (p *point) compress() []byte {
	out := make([]byte, 32)
	copyLittleEndian(out, p.v)
	if p.u.Bit(0) == 1 {
		out[31] |= 0x80
	}
	return out
}

// decompress is the inverse of compress. It solves the curve equation for u
// given v and picks the root matching the stored sign bit.
func decompress(data []byte) (*point, error) {
	if len(data) != 32 {
		return nil, ErrNotOnCurve
	}

	buf := make([]byte, 32)
	copy(buf, data)
	sign := buf[31]&0x80 != 0
	buf[31] &= 0x7f

	v := fromLittleEndian(buf)
	if v.Cmp(fieldOrder) >= 0 {
		return nil, ErrNotOnCurve
	}

	// u^2 = (v^2 - 1) / (d*v^2 + 1)
	vv := new(big.Int).Mul(v, v)
	vv.Mod(vv, fieldOrder)
	num := new(big.Int).Sub(vv, big.NewInt(1))
	num.Mod(num, fieldOrder)
	den := new(big.Int).Mul(edwardsD, vv)
	den.Add(den, big.NewInt(1))
	den.Mod(den, fieldOrder)

	uu := num.Mul(num, den.ModInverse(den, fieldOrder))
	uu.Mod(uu, fieldOrder)

	u := new(big.Int).ModSqrt(uu, fieldOrder)
	if u == nil {
		return nil, ErrNotOnCurve
	}
	if (u.Bit(0) == 1) != sign {
		u.Sub(fieldOrder, u)
		u.Mod(u, fieldOrder)
	}
	if u.Sign() == 0 && sign {
		return nil, ErrNotOnCurve
	}

	return &point{u: u, v: v}, nil
}

func copyLittleEndian(dst []byte, x *big.Int) {
	be := x.Bytes()
	for i, b := range be {
		dst[len(be)-1-i] = b
	}
}

func fromLittleEndian(b []byte) *big.Int {
	be := make([]byte, len(b))
	for i, v := range b {
		be[len(b)-1-i] = v
	}
	return new(big.Int).SetBytes(be)
}
