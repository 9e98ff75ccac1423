package application

import (
	"context"
	"math/big"
	"sync"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/pnam1609/namada-interfaces-comunity/internal/core/domain"
)

// Balance is one reparsed balance entry: the raw amount string reported by
// the chain converted to an integer.
type Balance struct {
	Token  string
	Amount *big.Int
}

// BalanceService wraps the external chain query: it fans out one query per
// owner and reparses the reported amount strings as integers. Owners with no
// balances yield empty entries; unparsable amounts are skipped.
type BalanceService struct {
	query domain.ChainQuery
}

// NewBalanceService returns a service bound to the given chain query
func NewBalanceService(query domain.ChainQuery) *BalanceService {
	return &BalanceService{query: query}
}

// QueryBalances fetches the balances of every owner concurrently
func (s *BalanceService) QueryBalances(
	ctx context.Context, owners ...string,
) (map[string][]Balance, error) {
	balances := make(map[string][]Balance, len(owners))
	var mtx sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	for _, owner := range owners {
		owner := owner
		g.Go(func() error {
			entries, err := s.query.QueryBalance(ctx, owner)
			if err != nil {
				return err
			}

			parsed := make([]Balance, 0, len(entries))
			for _, entry := range entries {
				amount, err := decimal.NewFromString(entry.Amount)
				if err != nil {
					log.WithFields(log.Fields{
						"token": entry.Token,
					}).Warn("skipping unparsable balance amount")
					continue
				}
				parsed = append(parsed, Balance{
					Token:  entry.Token,
					Amount: amount.BigInt(),
				})
			}

			mtx.Lock()
			balances[owner] = parsed
			mtx.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return balances, nil
}
