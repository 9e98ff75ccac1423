package main

import (
	"context"

	"github.com/urfave/cli/v2"

	"github.com/pnam1609/namada-interfaces-comunity/config"
	"github.com/pnam1609/namada-interfaces-comunity/internal/core/application"
	"github.com/pnam1609/namada-interfaces-comunity/internal/infrastructure/chainquery"
)

var balance = cli.Command{
	Name:  "balance",
	Usage: "query the balances of the active parent and its children",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "owner",
			Usage: "query a single owner instead of every account",
		},
	},
	Action: balanceAction,
}

func balanceAction(ctx *cli.Context) error {
	service, cleanup, err := getService()
	if err != nil {
		return err
	}
	defer cleanup()

	owners := []string{ctx.String("owner")}
	if owners[0] == "" {
		accounts, err := service.QueryAccounts(context.Background())
		if err != nil {
			return err
		}
		owners = owners[:0]
		for _, account := range accounts {
			owners = append(owners, account.Owner)
		}
	}

	balances := application.NewBalanceService(chainquery.NewHTTPClient(
		config.GetString(config.ChainQueryEndpointKey),
		config.GetDuration(config.ChainQueryTimeoutKey),
		config.GetInt(config.ChainQueryRateLimitKey),
	))

	resp, err := balances.QueryBalances(context.Background(), owners...)
	if err != nil {
		return err
	}

	printRespJSON(resp)
	return nil
}
