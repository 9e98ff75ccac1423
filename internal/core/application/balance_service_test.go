package application

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pnam1609/namada-interfaces-comunity/internal/core/domain"
)

type stubChainQuery struct {
	balances map[string][]domain.TokenAmount
	err      error
}

func (q *stubChainQuery) QueryBalance(
	_ context.Context, owner string,
) ([]domain.TokenAmount, error) {
	if q.err != nil {
		return nil, q.err
	}
	return q.balances[owner], nil
}

func TestQueryBalances(t *testing.T) {
	service := NewBalanceService(&stubChainQuery{
		balances: map[string][]domain.TokenAmount{
			"tnam1owner": {
				{Token: "NAM", Amount: "1000"},
				{Token: "ATOM", Amount: "42.9"},
				{Token: "BAD", Amount: "not a number"},
			},
		},
	})

	balances, err := service.QueryBalances(context.Background(), "tnam1owner", "tnam1empty")
	require.NoError(t, err)

	require.Len(t, balances["tnam1owner"], 2)
	assert.Equal(t, "NAM", balances["tnam1owner"][0].Token)
	assert.Zero(t, balances["tnam1owner"][0].Amount.Cmp(big.NewInt(1000)))
	// fractional amounts truncate to integers
	assert.Zero(t, balances["tnam1owner"][1].Amount.Cmp(big.NewInt(42)))

	assert.Empty(t, balances["tnam1empty"])
}

func TestQueryBalancesError(t *testing.T) {
	service := NewBalanceService(&stubChainQuery{
		err: errors.New("endpoint unreachable"),
	})

	_, err := service.QueryBalances(context.Background(), "tnam1owner")
	assert.Error(t, err)
}
