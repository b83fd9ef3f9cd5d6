package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	logger "github.com/sirupsen/logrus"

	"github.com/ZocoMacc/PaperDuel/src/auth"
	"github.com/ZocoMacc/PaperDuel/src/battle"
	"github.com/ZocoMacc/PaperDuel/src/database"
	"github.com/ZocoMacc/PaperDuel/src/marketdata"
	"github.com/ZocoMacc/PaperDuel/src/repository"
	"github.com/ZocoMacc/PaperDuel/src/server"
	"github.com/ZocoMacc/PaperDuel/src/stream"
)

var APP_NAME = os.Getenv("APP_NAME")

func SetupLogger() {
	levelStr := strings.ToLower(os.Getenv("LOG_LEVEL"))

	level, err := logger.ParseLevel(levelStr)
	if err != nil {
		level = logger.DebugLevel
	}

	logger.SetLevel(level)
	logger.SetFormatter(&logger.TextFormatter{
		FullTimestamp: true,
	})
}

func main() {
	SetupLogger()
	defer handlePanic()

	config := server.GetConfig()
	mdConfig := marketdata.GetConfig()

	var provider marketdata.Provider
	switch config.DataSource {
	case "db":
		if err := database.InitMainDB(); err != nil {
			logger.WithError(err).Fatal("Failed to connect to database")
		}
		provider = marketdata.NewDBProvider(mdConfig, repository.NewBarRepository())
	default:
		provider = marketdata.NewFileProvider(mdConfig)
	}

	registry := battle.NewRegistry(provider, marketdata.AvailableAssets(), battle.Settings{
		InitialEquity:       config.InitialEquity,
		MaxDrawdownFraction: config.MaxDrawdownFraction,
		MaxTradesPerTrader:  config.MaxTradesPerTrader,
	})

	server.StartServer(config.Port, registry, stream.NewHub(), auth.DefaultStore())
}

func handlePanic() {
	if r := recover(); r != nil {
		logger.WithError(fmt.Errorf("%+v", r)).Error(fmt.Sprintf("Application %s panic", APP_NAME))
	}
	//nolint
	time.Sleep(time.Second * 5)
}
