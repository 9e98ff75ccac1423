package main

import (
	"encoding/json"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/pnam1609/namada-interfaces-comunity/config"
	"github.com/pnam1609/namada-interfaces-comunity/internal/core/application"
	"github.com/pnam1609/namada-interfaces-comunity/internal/infrastructure/registry"
	"github.com/pnam1609/namada-interfaces-comunity/internal/infrastructure/sdk"
	dbbadger "github.com/pnam1609/namada-interfaces-comunity/internal/infrastructure/storage/db/badger"
	"github.com/pnam1609/namada-interfaces-comunity/pkg/cryptobox"
)

func main() {
	log.SetLevel(log.Level(config.GetInt(config.LogLevelKey)))

	app := cli.NewApp()
	app.Version = "0.1.0"
	app.Name = "namkeyring CLI"
	app.Usage = "Command line interface for the keyring"
	app.Commands = append(
		app.Commands,
		&genseed,
		&initwallet,
		&unlockwallet,
		&derive,
		&accounts,
		&parents,
		&useaccount,
		&changepassword,
		&deleteaccount,
		&balance,
	)

	if err := app.Run(os.Args); err != nil {
		fatal(err)
	}
}

func getService() (*application.KeystoreService, func(), error) {
	store, err := dbbadger.NewStore(config.GetDbDir(), nil)
	if err != nil {
		return nil, nil, err
	}

	chainID := config.GetString(config.ChainIDKey)
	kdfParams := &cryptobox.KDFParams{
		LogN: uint8(config.GetInt(config.KdfLogNKey)),
		R:    cryptobox.DefaultR,
		P:    cryptobox.DefaultP,
	}

	service := application.NewKeystoreService(
		store,
		registry.NewDefaultRegistry(chainID),
		sdk.NewBuilder(kdfParams),
		chainID,
		kdfParams,
	)
	cleanup := func() {
		if err := store.Close(); err != nil {
			log.WithError(err).Warn("error while closing keystore db")
		}
	}
	return service, cleanup, nil
}

func printRespJSON(resp interface{}) {
	data, err := json.MarshalIndent(resp, "", "\t")
	if err != nil {
		fatal(err)
	}
	fmt.Println(string(data))
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "[namkeyring] %v\n", err)
	os.Exit(1)
}
