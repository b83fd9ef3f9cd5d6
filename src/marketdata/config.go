package marketdata

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	DataDir           string  `envconfig:"MARKETDATA_DIR" default:"data"`
	SlippageTicks     float64 `envconfig:"SLIPPAGE_TICKS" default:"0.5"`
	CommissionPerSide float64 `envconfig:"COMMISSION_PER_SIDE" default:"1.25"`
}

func GetConfig() Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return config
}
