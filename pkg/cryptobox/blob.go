package cryptobox

import (
	"encoding/binary"
	"errors"
)

const (
	boxVersion            = 1
	kdfScrypt             = 1
	aeadXChaCha20Poly1305 = 1
)

var (
	// ErrMalformedBox ...
	ErrMalformedBox = errors.New("box is malformed")
	// ErrUnsupportedBoxVersion ...
	ErrUnsupportedBoxVersion = errors.New("box version is not supported")
	// ErrUnsupportedAlgorithm ...
	ErrUnsupportedAlgorithm = errors.New("box algorithm is not supported")
)

// Box is the parsed form of an encrypted blob. The wire format is
// self-describing: the KDF parameters and the salt travel with the
// ciphertext.
type Box struct {
	Params     KDFParams
	Salt       [SaltSize]byte
	Nonce      [NonceSize]byte
	CypherText []byte
	Tag        [TagSize]byte
}

// Serialize encodes the box into its portable wire format:
//
//	u8  version = 1
//	u8  kdf_id  = 1
//	u8  log_n
//	u8  r            (u32 LE when log_n == 0, extended form)
//	u8  p
//	u8  salt[32]
//	u8  aead_id = 1
//	u8  nonce[24]
//	u32 LE ct_len
//	u8  ciphertext[ct_len]
//	u16 LE tag_len = 16
//	u8  tag[16]
func (b *Box) Serialize() []byte {
	buf := make([]byte, 0, 1+1+1+4+1+SaltSize+1+NonceSize+4+len(b.CypherText)+2+TagSize)
	buf = append(buf, boxVersion, kdfScrypt, b.Params.LogN)
	if b.Params.LogN == 0 {
		var r [4]byte
		binary.LittleEndian.PutUint32(r[:], b.Params.R)
		buf = append(buf, r[:]...)
	} else {
		buf = append(buf, uint8(b.Params.R))
	}
	buf = append(buf, b.Params.P)
	buf = append(buf, b.Salt[:]...)
	buf = append(buf, aeadXChaCha20Poly1305)
	buf = append(buf, b.Nonce[:]...)

	var ctLen [4]byte
	binary.LittleEndian.PutUint32(ctLen[:], uint32(len(b.CypherText)))
	buf = append(buf, ctLen[:]...)
	buf = append(buf, b.CypherText...)

	var tagLen [2]byte
	binary.LittleEndian.PutUint16(tagLen[:], TagSize)
	buf = append(buf, tagLen[:]...)
	buf = append(buf, b.Tag[:]...)
	return buf
}

// ParseBox decodes a serialized box, validating version, algorithm ids and
// every length field.
func ParseBox(data []byte) (*Box, error) {
	r := &boxReader{data: data}

	version, err := r.u8()
	if err != nil {
		return nil, err
	}
	if version != boxVersion {
		return nil, ErrUnsupportedBoxVersion
	}
	kdfID, err := r.u8()
	if err != nil {
		return nil, err
	}
	if kdfID != kdfScrypt {
		return nil, ErrUnsupportedAlgorithm
	}

	box := &Box{}
	if box.Params.LogN, err = r.u8(); err != nil {
		return nil, err
	}
	if box.Params.LogN == 0 {
		if box.Params.R, err = r.u32(); err != nil {
			return nil, err
		}
	} else {
		smallR, err := r.u8()
		if err != nil {
			return nil, err
		}
		box.Params.R = uint32(smallR)
	}
	if box.Params.P, err = r.u8(); err != nil {
		return nil, err
	}
	if err := r.read(box.Salt[:]); err != nil {
		return nil, err
	}

	aeadID, err := r.u8()
	if err != nil {
		return nil, err
	}
	if aeadID != aeadXChaCha20Poly1305 {
		return nil, ErrUnsupportedAlgorithm
	}
	if err := r.read(box.Nonce[:]); err != nil {
		return nil, err
	}

	ctLen, err := r.u32()
	if err != nil {
		return nil, err
	}
	box.CypherText = make([]byte, ctLen)
	if err := r.read(box.CypherText); err != nil {
		return nil, err
	}

	tagLen, err := r.u16()
	if err != nil {
		return nil, err
	}
	if tagLen != TagSize {
		return nil, ErrMalformedBox
	}
	if err := r.read(box.Tag[:]); err != nil {
		return nil, err
	}
	if !r.empty() {
		return nil, ErrMalformedBox
	}
	return box, nil
}

type boxReader struct {
	data []byte
	off  int
}

func (r *boxReader) read(dst []byte) error {
	if r.off+len(dst) > len(r.data) {
		return ErrMalformedBox
	}
	copy(dst, r.data[r.off:r.off+len(dst)])
	r.off += len(dst)
	return nil
}

func (r *boxReader) u8() (uint8, error) {
	var b [1]byte
	if err := r.read(b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *boxReader) u16() (uint16, error) {
	var b [2]byte
	if err := r.read(b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b[:]), nil
}

func (r *boxReader) u32() (uint32, error) {
	var b [4]byte
	if err := r.read(b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

func (r *boxReader) empty() bool {
	return r.off == len(r.data)
}
