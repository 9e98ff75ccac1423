package main

import (
	"context"

	"github.com/urfave/cli/v2"
)

var accounts = cli.Command{
	Name:   "accounts",
	Usage:  "list the active parent account and its children",
	Action: accountsAction,
}

func accountsAction(ctx *cli.Context) error {
	service, cleanup, err := getService()
	if err != nil {
		return err
	}
	defer cleanup()

	list, err := service.QueryAccounts(context.Background())
	if err != nil {
		return err
	}

	printRespJSON(list)
	return nil
}
