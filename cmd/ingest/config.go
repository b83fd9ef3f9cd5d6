package ingest

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// StoreSymbol is the engine symbol the downloaded bars are stored
	// under in the bar store.
	StoreSymbol string    `envconfig:"STORE_SYMBOL" default:"ES"`
	Base        string    `envconfig:"BASE" default:"BTC"`
	Quote       string    `envconfig:"QUOTE" default:"USDT"`
	StartDt     time.Time `envconfig:"START_DATE" default:"2024-01-01T00:00:00Z"`
	EndDt       time.Time `envconfig:"END_DATE" default:"2024-01-02T00:00:00Z"`
	Limit       int       `envconfig:"LIMIT" default:"1000"`
}

func GetConfig() *Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return &config
}
