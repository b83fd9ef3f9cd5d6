package server

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port string `envconfig:"SERVER_PORT" default:"9898"`
	// DataSource selects where bar series come from: "csv" reads from
	// the market data directory, "db" reads from the bar store.
	DataSource string `envconfig:"DATA_SOURCE" default:"csv"`

	InitialEquity       float64 `envconfig:"INITIAL_EQUITY" default:"100000"`
	MaxDrawdownFraction float64 `envconfig:"MAX_DRAWDOWN_FRACTION" default:"0.05"`
	MaxTradesPerTrader  int     `envconfig:"MAX_TRADES_PER_TRADER" default:"100"`
}

func GetConfig() *Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return &config
}
