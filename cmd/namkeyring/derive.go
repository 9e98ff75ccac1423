package main

import (
	"context"

	"github.com/urfave/cli/v2"

	"github.com/pnam1609/namada-interfaces-comunity/internal/core/domain"
	"github.com/pnam1609/namada-interfaces-comunity/pkg/wallet"
)

var derive = cli.Command{
	Name:  "derive",
	Usage: "derive a child account of the active parent",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "path",
			Usage: "derivation path in the form \"account/change\" or \"account/change/index\"",
			Value: "0/0/0",
		},
		&cli.BoolFlag{
			Name:  "shielded",
			Usage: "derive a shielded account instead of a transparent one",
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
	Action: deriveAction,
}

func deriveAction(ctx *cli.Context) error {
	service, cleanup, err := getService()
	if err != nil {
		return err
	}
	defer cleanup()

	path, err := wallet.ParsePath(ctx.String("path"))
	if err != nil {
		return err
	}

	if err := service.Unlock(
		context.Background(), ctx.String("password"),
	); err != nil {
		return err
	}

	accountType := domain.AccountTypePrivateKey
	if ctx.Bool("shielded") {
		accountType = domain.AccountTypeShieldedKeys
	}

	account, err := service.DeriveAccount(
		context.Background(), path, accountType, ctx.String("alias"),
	)
	if err != nil {
		return err
	}

	printRespJSON(account)
	return nil
}
