// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package relayer

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

type RelayerConfig struct {
	OpenTelemetryCollectorURL string
	LogLevel                  zerolog.Level
	Env                       string
	Id                        string
	HealthPort                uint16
	ApiAddr                   string
	RewardStorePath           string
	CoinmarketcapConfig       CoinmarketcapConfig
	PriceUpdateInterval       time.Duration
}

type CoinmarketcapConfig struct {
	Url    string `mapstructure:"url" json:"url" default:"https://pro-api.coinmarketcap.com"`
	ApiKey string `mapstructure:"apiKey" json:"apiKey"`
}

type RawRelayerConfig struct {
	OpenTelemetryCollectorURL string              `mapstructure:"openTelemetryCollectorURL" json:"openTelemetryCollectorURL"`
	LogLevel                  string              `mapstructure:"logLevel" json:"logLevel" default:"info"`
	Env                       string              `mapstructure:"env" json:"env"`
	Id                        string              `mapstructure:"id" json:"id"`
	HealthPort                uint16              `mapstructure:"healthPort" json:"healthPort" default:"9001"`
	ApiAddr                   string              `mapstructure:"apiAddr" json:"apiAddr" default:":3000"`
	RewardStorePath           string              `mapstructure:"rewardStorePath" json:"rewardStorePath" default:"./lvldbdata/rewards"`
	CoinmarketcapConfig       CoinmarketcapConfig `mapstructure:"coinmarketcap" json:"coinmarketcap"`
	PriceUpdateInterval       uint64              `mapstructure:"priceUpdateInterval" json:"priceUpdateInterval" default:"300"`
}

func (c *RawRelayerConfig) Validate() error {
	if c.ApiAddr == "" {
		return fmt.Errorf("required field relayer.ApiAddr empty")
	}
	if c.RewardStorePath == "" {
		return fmt.Errorf("required field relayer.RewardStorePath empty")
	}
	if c.PriceUpdateInterval == 0 {
		return fmt.Errorf("relayer.PriceUpdateInterval has to be positive")
	}
	return nil
}

// NewRelayerConfig parses RawRelayerConfig into RelayerConfig.
func NewRelayerConfig(rawConfig RawRelayerConfig) (RelayerConfig, error) {
	config := RelayerConfig{}
	err := rawConfig.Validate()
	if err != nil {
		return config, err
	}

	logLevel, err := zerolog.ParseLevel(rawConfig.LogLevel)
	if err != nil {
		return config, fmt.Errorf("unknown log level: %s", rawConfig.LogLevel)
	}

	config.LogLevel = logLevel
	config.OpenTelemetryCollectorURL = rawConfig.OpenTelemetryCollectorURL
	config.Env = rawConfig.Env
	config.Id = rawConfig.Id
	config.HealthPort = rawConfig.HealthPort
	config.ApiAddr = rawConfig.ApiAddr
	config.RewardStorePath = rawConfig.RewardStorePath
	config.CoinmarketcapConfig = rawConfig.CoinmarketcapConfig
	// nolint:gosec
	config.PriceUpdateInterval = time.Duration(rawConfig.PriceUpdateInterval) * time.Second
	return config, nil
}
