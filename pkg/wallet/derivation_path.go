package wallet

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
)

const (
	// Bip44Purpose is the purpose segment of every transparent path
	Bip44Purpose = 44
	// MaxHardenedValue is the max value for hardened indexes of BIP32
	// derivation paths
	MaxHardenedValue = 0xffffffff - hdkeychain.HardenedKeyStart
)

// Path is the account-relative portion of a BIP44 derivation path. The index
// is optional: root accounts are derived without it.
type Path struct {
	Account uint32  `json:"account"`
	Change  uint32  `json:"change"`
	Index   *uint32 `json:"index,omitempty"`
}

// NewPath returns a Path without an index segment
func NewPath(account, change uint32) Path {
	return Path{Account: account, Change: change}
}

// NewPathWithIndex returns a Path with all three segments set
func NewPathWithIndex(account, change, index uint32) Path {
	return Path{Account: account, Change: change, Index: &index}
}

func (p Path) validate() error {
	if p.Account > MaxHardenedValue {
		return ErrOutOfRangeDerivationPathAccount
	}
	return nil
}

// DerivationPath is the internal representation of a hierarchical
// deterministic wallet account, one BIP32 child index per element
type DerivationPath []uint32

// BIP44 expands the path to its absolute form
// m/44'/coinType'/account'/change[/index].
func (p Path) BIP44(coinType uint32) DerivationPath {
	path := DerivationPath{
		hdkeychain.HardenedKeyStart + Bip44Purpose,
		hdkeychain.HardenedKeyStart + coinType,
		hdkeychain.HardenedKeyStart + p.Account,
		p.Change,
	}
	if p.Index != nil {
		path = append(path, *p.Index)
	}
	return path
}

// String converts a binary derivation path to its canonical representation
func (path DerivationPath) String() string {
	if len(path) <= 0 {
		return ""
	}

	result := "m"
	for _, component := range path {
		var hardened bool
		if component >= hdkeychain.HardenedKeyStart {
			component -= hdkeychain.HardenedKeyStart
			hardened = true
		}
		result = fmt.Sprintf("%s/%d", result, component)
		if hardened {
			result += "'"
		}
	}
	return result
}

// ParsePath converts the relative "account/change" or "account/change/index"
// representation to a Path.
func ParsePath(strPath string) (Path, error) {
	if strPath == "" {
		return Path{}, ErrNullDerivationPath
	}

	elems := strings.Split(strPath, "/")
	if len(elems) < 2 || len(elems) > 3 {
		return Path{}, ErrMalformedDerivationPath
	}

	values := make([]uint32, 0, len(elems))
	for _, elem := range elems {
		v, err := strconv.ParseUint(strings.TrimSpace(elem), 10, 32)
		if err != nil {
			return Path{}, ErrMalformedDerivationPath
		}
		values = append(values, uint32(v))
	}

	path := NewPath(values[0], values[1])
	if len(values) == 3 {
		path.Index = &values[2]
	}
	return path, nil
}
