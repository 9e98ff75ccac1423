package main

import (
	"context"

	"github.com/urfave/cli/v2"
)

var parents = cli.Command{
	Name:   "parents",
	Usage:  "list every imported parent account",
	Action: parentsAction,
}

func parentsAction(ctx *cli.Context) error {
	service, cleanup, err := getService()
	if err != nil {
		return err
	}
	defer cleanup()

	list, err := service.QueryParentAccounts(context.Background())
	if err != nil {
		return err
	}

	printRespJSON(list)
	return nil
}
