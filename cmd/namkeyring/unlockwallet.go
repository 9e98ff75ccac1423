package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"
)

var unlockwallet = cli.Command{
	Name:  "unlock",
	Usage: "check the password against the active parent account",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "password",
			Usage: "the password used to encrypt the phrase",
		},
	},
	Action: unlockWalletAction,
}

func unlockWalletAction(ctx *cli.Context) error {
	service, cleanup, err := getService()
	if err != nil {
		return err
	}
	defer cleanup()

	if err := service.Unlock(
		context.Background(), ctx.String("password"),
	); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("Keystore is unlocked")
	return nil
}
