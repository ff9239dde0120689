// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package config

import (
	"encoding/json"
	"fmt"

	"github.com/creasty/defaults"
	"github.com/imdario/mergo"
	"github.com/spf13/viper"
	"github.com/sprintertech/lane-bridge/config/relayer"
)

const ENV_PREFIX = "LB"

type Config struct {
	RelayerConfig relayer.RelayerConfig
	ChainConfigs  []map[string]interface{}
	BridgeConfigs []map[string]interface{}

	raw RawConfig
}

type RawConfig struct {
	RelayerConfig relayer.RawRelayerConfig `mapstructure:"relayer" json:"relayer"`
	ChainConfigs  []map[string]interface{} `mapstructure:"chains" json:"chains"`
	BridgeConfigs []map[string]interface{} `mapstructure:"bridges" json:"bridges"`
}

// GetConfigFromENV reads config from LB_RELAYER, LB_CHAINS and LB_BRIDGES JSON variables.
// Values already present in config are kept unless overridden.
func GetConfigFromENV(config *Config) (*Config, error) {
	rawConfig, err := loadFromEnv()
	if err != nil {
		return config, err
	}

	return processRawConfig(rawConfig, config)
}

// GetConfigFromFile reads config from the JSON or YAML file at path.
func GetConfigFromFile(path string, config *Config) (*Config, error) {
	rawConfig := RawConfig{}

	v := viper.New()
	v.SetConfigFile(path)
	err := v.ReadInConfig()
	if err != nil {
		return config, err
	}

	err = v.Unmarshal(&rawConfig)
	if err != nil {
		return config, err
	}

	return processRawConfig(rawConfig, config)
}

func loadFromEnv() (RawConfig, error) {
	rawConfig := RawConfig{}

	v := viper.New()
	v.SetEnvPrefix(ENV_PREFIX)
	v.AutomaticEnv()

	sections := map[string]interface{}{
		"relayer": &rawConfig.RelayerConfig,
		"chains":  &rawConfig.ChainConfigs,
		"bridges": &rawConfig.BridgeConfigs,
	}
	for section, target := range sections {
		value := v.GetString(section)
		if value == "" {
			continue
		}

		err := json.Unmarshal([]byte(value), target)
		if err != nil {
			return rawConfig, fmt.Errorf("invalid %s_%s variable: %w", ENV_PREFIX, section, err)
		}
	}
	return rawConfig, nil
}

func processRawConfig(rawConfig RawConfig, config *Config) (*Config, error) {
	if config != nil {
		err := mergo.Merge(&rawConfig.RelayerConfig, config.raw.RelayerConfig)
		if err != nil {
			return config, err
		}
		rawConfig.ChainConfigs, err = mergeByName(rawConfig.ChainConfigs, config.raw.ChainConfigs)
		if err != nil {
			return config, err
		}
		rawConfig.BridgeConfigs, err = mergeByName(rawConfig.BridgeConfigs, config.raw.BridgeConfigs)
		if err != nil {
			return config, err
		}
	}
	loaded := rawConfig

	if level := viper.GetString(LogLevelFlagName); level != "" {
		rawConfig.RelayerConfig.LogLevel = level
	}
	if store := viper.GetString(RewardStoreFlagName); store != "" {
		rawConfig.RelayerConfig.RewardStorePath = store
	}

	err := defaults.Set(&rawConfig.RelayerConfig)
	if err != nil {
		return config, err
	}
	relayerConfig, err := relayer.NewRelayerConfig(rawConfig.RelayerConfig)
	if err != nil {
		return config, err
	}

	for _, chain := range rawConfig.ChainConfigs {
		if chain["type"] == "" || chain["type"] == nil {
			return config, fmt.Errorf("chain 'type' must be provided for every configured chain")
		}
		if chain["name"] == "" || chain["name"] == nil {
			return config, fmt.Errorf("chain 'name' must be provided for every configured chain")
		}
	}

	return &Config{
		RelayerConfig: relayerConfig,
		ChainConfigs:  rawConfig.ChainConfigs,
		BridgeConfigs: rawConfig.BridgeConfigs,
		raw:           loaded,
	}, nil
}

// mergeByName fills entries of overrides with the base entry of the same name and appends
// base entries that are not overridden.
func mergeByName(overrides []map[string]interface{}, base []map[string]interface{}) ([]map[string]interface{}, error) {
	merged := append([]map[string]interface{}{}, overrides...)
	for _, baseEntry := range base {
		found := false
		for _, entry := range merged {
			if entry["name"] != baseEntry["name"] {
				continue
			}

			err := mergo.Merge(&entry, baseEntry)
			if err != nil {
				return nil, err
			}
			found = true
			break
		}

		if !found {
			merged = append(merged, baseEntry)
		}
	}
	return merged, nil
}
