package cryptobox

import (
	"crypto/rand"
	"errors"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"
)

const (
	// SaltSize is the length in bytes of the scrypt salt
	SaltSize = 32
	// NonceSize is the length in bytes of the XChaCha20-Poly1305 nonce
	NonceSize = chacha20poly1305.NonceSizeX
	// KeySize is the length in bytes of the derived symmetric key
	KeySize = chacha20poly1305.KeySize
	// TagSize is the length in bytes of the Poly1305 authentication tag
	TagSize = 16

	// DefaultLogN is the default scrypt cost exponent (N = 2^15)
	DefaultLogN = 15
	// DefaultR is the default scrypt block size parameter
	DefaultR = 8
	// DefaultP is the default scrypt parallelization parameter
	DefaultP = 1
)

var (
	// ErrNullPlainText ...
	ErrNullPlainText = errors.New("text to encrypt must not be null")
	// ErrNullCypherText ...
	ErrNullCypherText = errors.New("cypher to decrypt must not be null")
	// ErrNullPassword ...
	ErrNullPassword = errors.New("password must not be null")
	// ErrBadPassword is returned when AEAD authentication fails
	ErrBadPassword = errors.New("password is not valid")
	// ErrInvalidKDFParams ...
	ErrInvalidKDFParams = errors.New("kdf params are out of range")
)

// KDFParams holds the scrypt parameters stored alongside every box so that
// rotating them never requires a schema change.
type KDFParams struct {
	LogN uint8
	R    uint32
	P    uint8
}

// DefaultKDFParams returns the parameters used when none are provided.
func DefaultKDFParams() KDFParams {
	return KDFParams{LogN: DefaultLogN, R: DefaultR, P: DefaultP}
}

func (p KDFParams) validate() error {
	if p.LogN == 0 || p.LogN > 31 || p.R == 0 || p.P == 0 {
		return ErrInvalidKDFParams
	}
	return nil
}

func (p KDFParams) deriveKey(password string, salt []byte) ([]byte, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	return scrypt.Key(
		[]byte(password), salt, 1<<int(p.LogN), int(p.R), int(p.P), KeySize,
	)
}

// EncryptOpts is the struct given to the Encrypt method
type EncryptOpts struct {
	PlainText []byte
	Password  string
	Params    *KDFParams
}

func (o EncryptOpts) validate() error {
	if len(o.PlainText) <= 0 {
		return ErrNullPlainText
	}
	if len(o.Password) <= 0 {
		return ErrNullPassword
	}
	if o.Params != nil {
		return o.Params.validate()
	}
	return nil
}

// Encrypt seals a plaintext under a password-derived key and returns the
// serialized box. The key is derived with scrypt from a fresh random salt and
// the payload is sealed with XChaCha20-Poly1305 under a fresh random nonce.
func Encrypt(opts EncryptOpts) ([]byte, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	params := DefaultKDFParams()
	if opts.Params != nil {
		params = *opts.Params
	}

	box := &Box{Params: params}
	if _, err := rand.Read(box.Salt[:]); err != nil {
		return nil, err
	}
	if _, err := rand.Read(box.Nonce[:]); err != nil {
		return nil, err
	}

	key, err := params.deriveKey(opts.Password, box.Salt[:])
	if err != nil {
		return nil, err
	}
	defer Zeroize(key)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}

	sealed := aead.Seal(nil, box.Nonce[:], opts.PlainText, nil)
	box.CypherText = sealed[:len(sealed)-TagSize]
	copy(box.Tag[:], sealed[len(sealed)-TagSize:])

	return box.Serialize(), nil
}

// DecryptOpts is the struct given to the Decrypt method
type DecryptOpts struct {
	CypherText []byte
	Password   string
}

func (o DecryptOpts) validate() error {
	if len(o.CypherText) <= 0 {
		return ErrNullCypherText
	}
	if len(o.Password) <= 0 {
		return ErrNullPassword
	}
	return nil
}

// Decrypt parses a serialized box, re-derives the key from the stored salt
// and params, and opens the payload. An authentication failure maps to
// ErrBadPassword.
func Decrypt(opts DecryptOpts) ([]byte, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	box, err := ParseBox(opts.CypherText)
	if err != nil {
		return nil, err
	}

	key, err := box.Params.deriveKey(opts.Password, box.Salt[:])
	if err != nil {
		return nil, err
	}
	defer Zeroize(key)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}

	sealed := make([]byte, 0, len(box.CypherText)+TagSize)
	sealed = append(sealed, box.CypherText...)
	sealed = append(sealed, box.Tag[:]...)

	plaintext, err := aead.Open(nil, box.Nonce[:], sealed, nil)
	if err != nil {
		return nil, ErrBadPassword
	}
	return plaintext, nil
}

// CheckPassword reports whether the password opens the given box. The
// revealed plaintext is wiped before returning.
func CheckPassword(cypherText []byte, password string) bool {
	plaintext, err := Decrypt(DecryptOpts{
		CypherText: cypherText,
		Password:   password,
	})
	if plaintext != nil {
		Zeroize(plaintext)
	}
	return err == nil
}

// Zeroize overwrites the buffer with zeros. Callers must invoke it on every
// buffer that held secret material before letting it go out of scope.
func Zeroize(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
