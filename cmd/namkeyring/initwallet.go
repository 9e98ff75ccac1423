package main

import (
	"context"
	"strings"

	"github.com/urfave/cli/v2"
)

var initwallet = cli.Command{
	Name:  "init",
	Usage: "import a mnemonic phrase as a new parent account",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "mnemonic",
			Usage: "the space separated mnemonic phrase to import",
		},
		&cli.StringFlag{
			Name:  "password",
			Usage: "the password used to encrypt the phrase",
		},
		&cli.StringFlag{
			Name:  "alias",
			Usage: "an optional label for the new account",
		},
	},
	Action: initWalletAction,
}

func initWalletAction(ctx *cli.Context) error {
	service, cleanup, err := getService()
	if err != nil {
		return err
	}
	defer cleanup()

	mnemonic := strings.Fields(ctx.String("mnemonic"))
	account, err := service.StoreMnemonic(
		context.Background(), mnemonic, ctx.String("password"), ctx.String("alias"),
	)
	if err != nil {
		return err
	}

	printRespJSON(account)
	return nil
}
