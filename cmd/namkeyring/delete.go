package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"
)

var deleteaccount = cli.Command{
	Name:  "delete",
	Usage: "delete an account and all of its children",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "id",
			Usage: "the id of the account to delete",
		},
		&cli.StringFlag{
			Name:  "password",
			Usage: "the password used to encrypt the phrase",
		},
	},
	Action: deleteAccountAction,
}

func deleteAccountAction(ctx *cli.Context) error {
	service, cleanup, err := getService()
	if err != nil {
		return err
	}
	defer cleanup()

	if err := service.DeleteAccount(
		context.Background(), ctx.String("id"), ctx.String("password"),
	); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("Account has been deleted")
	return nil
}
