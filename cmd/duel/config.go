package duel

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	APIBaseURL string `envconfig:"API_BASE_URL" default:"http://localhost:9898"`
	Username   string `envconfig:"DUEL_USERNAME" default:"testuser"`
	Password   string `envconfig:"DUEL_PASSWORD" default:"password"`
	Asset      string `envconfig:"DUEL_ASSET" default:"ES"`
	Opponent   string `envconfig:"DUEL_OPPONENT" default:"user_2"`
	Bars       int    `envconfig:"DUEL_BARS" default:"30"`
	Size       int    `envconfig:"DUEL_SIZE" default:"1"`
}

func GetConfig() *Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return &config
}
