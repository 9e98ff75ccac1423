package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"
)

var changepassword = cli.Command{
	Name:  "changepassword",
	Usage: "rotate the password of an account and all of its children",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "id",
			Usage: "the id of the account to rotate; defaults to the active one",
		},
		&cli.StringFlag{
			Name:  "old_password",
			Usage: "the current password",
		},
		&cli.StringFlag{
			Name:  "new_password",
			Usage: "the new password",
		},
	},
	Action: changePasswordAction,
}

func changePasswordAction(ctx *cli.Context) error {
	service, cleanup, err := getService()
	if err != nil {
		return err
	}
	defer cleanup()

	id := ctx.String("id")
	if id == "" {
		if id, err = service.ActiveAccountID(context.Background()); err != nil {
			return err
		}
	}

	if err := service.ResetPassword(
		context.Background(),
		ctx.String("old_password"),
		ctx.String("new_password"),
		id,
	); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("Password has been changed")
	return nil
}
