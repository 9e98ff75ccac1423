package wallet

import (
	"errors"
)

var (
	// ErrNullMnemonic ...
	ErrNullMnemonic = errors.New("mnemonic must not be null")
	// ErrInvalidMnemonic ...
	ErrInvalidMnemonic = errors.New("mnemonic is invalid")
	// ErrInvalidWordCount ...
	ErrInvalidWordCount = errors.New("mnemonic must count either 12 or 24 words")
	// ErrNullSeed ...
	ErrNullSeed = errors.New("seed must not be null")
	// ErrNullDerivationPath ...
	ErrNullDerivationPath = errors.New("derivation path must not be null")
	// ErrMalformedDerivationPath ...
	ErrMalformedDerivationPath = errors.New(
		"path must be in the form \"account/change\" or \"account/change/index\"",
	)
	// ErrOutOfRangeDerivationPathAccount ...
	ErrOutOfRangeDerivationPathAccount = errors.New(
		"derivation path's account must be in the hardened range",
	)
	// ErrNullPublicKey ...
	ErrNullPublicKey = errors.New("public key must not be null")
	// ErrNullAddressHasher ...
	ErrNullAddressHasher = errors.New("address hasher must not be null")
	// ErrNullHRP ...
	ErrNullHRP = errors.New("address human readable part must not be null")
)

// Wallet holds a validated mnemonic along with the seed it expands to. Both
// are secret material: callers must Close the wallet when done so they are
// wiped from memory.
type Wallet struct {
	mnemonic []string
	seed     []byte
}

// NewWalletFromMnemonicOpts is the struct given to the NewWalletFromMnemonic method
type NewWalletFromMnemonicOpts struct {
	Mnemonic []string
}

func (o NewWalletFromMnemonicOpts) validate() error {
	if len(o.Mnemonic) <= 0 {
		return ErrNullMnemonic
	}
	if len(o.Mnemonic) != 12 && len(o.Mnemonic) != 24 {
		return ErrInvalidMnemonic
	}
	if !isMnemonicValid(o.Mnemonic) {
		return ErrInvalidMnemonic
	}
	return nil
}

// NewWalletFromMnemonic validates the mnemonic checksum and vocabulary and
// expands it to the 64-byte seed.
func NewWalletFromMnemonic(opts NewWalletFromMnemonicOpts) (*Wallet, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	// the wallet owns its copy: Close wipes it without touching the caller's
	return &Wallet{
		mnemonic: append([]string{}, opts.Mnemonic...),
		seed:     generateSeedFromMnemonic(opts.Mnemonic),
	}, nil
}

// Mnemonic is the getter for the wallet's mnemonic in plain text
func (w *Wallet) Mnemonic() []string {
	return w.mnemonic
}

// Seed is the getter for the wallet's 64-byte seed
func (w *Wallet) Seed() []byte {
	return w.seed
}

// Close wipes the seed and the mnemonic words from memory. The wallet must
// not be used afterwards.
func (w *Wallet) Close() {
	zeroize(w.seed)
	w.seed = nil
	for i := range w.mnemonic {
		w.mnemonic[i] = ""
	}
	w.mnemonic = nil
}
