package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"
)

var useaccount = cli.Command{
	Name:  "use",
	Usage: "set the active parent account",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "id",
			Usage: "the id of the parent account to activate",
		},
	},
	Action: useAccountAction,
}

func useAccountAction(ctx *cli.Context) error {
	service, cleanup, err := getService()
	if err != nil {
		return err
	}
	defer cleanup()

	id := ctx.String("id")
	if err := service.SetActiveAccountID(context.Background(), id); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("Active account is now " + id)
	return nil
}
