package registry

import (
	"github.com/pnam1609/namada-interfaces-comunity/internal/core/domain"
	"github.com/pnam1609/namada-interfaces-comunity/pkg/wallet"
)

// NamadaCoinType is the registered BIP44 coin type of Namada chains
const NamadaCoinType = 877

// Registry is a static table of chain parameters keyed by chain id
type Registry struct {
	chains map[string]*domain.Chain
}

// NewRegistry returns a registry preloaded with the given chains
func NewRegistry(chains ...*domain.Chain) *Registry {
	table := make(map[string]*domain.Chain, len(chains))
	for _, chain := range chains {
		table[chain.ChainID] = chain
	}
	return &Registry{chains: table}
}

// NewDefaultRegistry returns a registry holding the default Namada entry
// under the given chain id.
func NewDefaultRegistry(chainID string) *Registry {
	return NewRegistry(NamadaChain(chainID))
}

// NamadaChain builds the default Namada chain entry for a chain id
func NamadaChain(chainID string) *domain.Chain {
	return &domain.Chain{
		ChainID:           chainID,
		CoinType:          NamadaCoinType,
		AddressHRP:        "tnam",
		SpendingKeyHRP:    "zsknam",
		ViewingKeyHRP:     "zvknam",
		PaymentAddressHRP: "znam",
		AddressHasher:     wallet.Sha256AddressHasher,
	}
}

// Chain returns the entry of the given chain id, failing with
// ErrUnknownChain on a miss.
func (r *Registry) Chain(chainID string) (*domain.Chain, error) {
	chain, ok := r.chains[chainID]
	if !ok {
		return nil, domain.ErrUnknownChain
	}
	return chain, nil
}
