package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"github.com/ZocoMacc/PaperDuel/cmd/duel"
	"github.com/ZocoMacc/PaperDuel/cmd/ingest"
	"github.com/ZocoMacc/PaperDuel/src/database"
)

var Version string

func main() {
	app := cli.NewApp()
	app.Name = "PaperDuel CMD"
	app.Usage = "The PaperDuel command line interface"

	app.Commands = []cli.Command{
		ingestCMD,
		duelCMD,
	}

	if err := app.Run(os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var (
	ingestCMD = cli.Command{
		Name:        "ingest",
		Usage:       "download OHLCV bars into the bar store",
		Action:      ingestAction,
		ArgsUsage:   "",
		Flags:       []cli.Flag{},
		Description: `Download minute klines from Binance and upsert them into the bar store`,
	}
	duelCMD = cli.Command{
		Name:        "duel",
		Usage:       "run a scripted duel against a running server",
		Action:      duelAction,
		ArgsUsage:   "",
		Flags:       []cli.Flag{},
		Description: `Log in, start a battle, place one order per side, and advance bars`,
	}
)

// ingestAction will go get OHLCV bars into the store
func ingestAction(_ *cli.Context) error {
	logrus.Info("Starting ingest CMD")

	if err := database.InitMainDB(); err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}

	_ingest := &ingest.Ingest{
		Log: logrus.WithField("cmd", "ingest"),
		DB:  database.MainDB,
	}

	if err := _ingest.Start(); err != nil {
		logrus.WithError(err).Error("Starting ingest cmd")
		return err
	}

	return nil
}

func duelAction(_ *cli.Context) error {
	logrus.Info("Starting duel CMD")

	_duel := &duel.Duel{
		Log: logrus.WithField("cmd", "duel"),
	}

	if err := _duel.Start(); err != nil {
		logrus.WithError(err).Error("Starting duel cmd")
		return err
	}

	return nil
}
