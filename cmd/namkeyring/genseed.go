package main

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/pnam1609/namada-interfaces-comunity/pkg/wallet"
)

var genseed = cli.Command{
	Name:  "genseed",
	Usage: "generate a fresh mnemonic phrase",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:  "words",
			Usage: "number of words of the phrase, either 12 or 24",
			Value: 12,
		},
	},
	Action: genSeedAction,
}

func genSeedAction(ctx *cli.Context) error {
	mnemonic, err := wallet.NewMnemonic(wallet.NewMnemonicOpts{
		WordCount: ctx.Int("words"),
	})
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(strings.Join(mnemonic, " "))
	return nil
}
