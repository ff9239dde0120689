// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package substrate

import (
	"fmt"
	"time"

	"github.com/creasty/defaults"
	"github.com/mitchellh/mapstructure"
	"github.com/sprintertech/lane-bridge/config/chain"
)

type SubstrateConfig struct {
	GeneralChainConfig chain.GeneralChainConfig

	// MessagesPallet is the messages pallet instance bridging to the peer chain.
	MessagesPallet string
	// GrandpaPallet is the header chain pallet instance holding peer chain headers.
	GrandpaPallet string
	Network       uint16

	RequestsPerSecond float64
	RequestBurst      int

	BreakerMaxFailures uint32
	BreakerTimeout     time.Duration
}

type RawSubstrateConfig struct {
	chain.GeneralChainConfig `mapstructure:",squash"`

	MessagesPallet string `mapstructure:"messagesPallet" default:"BridgeMessages"`
	GrandpaPallet  string `mapstructure:"grandpaPallet" default:"BridgeGrandpa"`
	Network        uint16 `mapstructure:"network" default:"42"`

	RequestsPerSecond  float64 `mapstructure:"requestsPerSecond" default:"20"`
	RequestBurst       int     `mapstructure:"requestBurst" default:"5"`
	BreakerMaxFailures uint32  `mapstructure:"breakerMaxFailures" default:"5"`
	BreakerTimeout     uint64  `mapstructure:"breakerTimeout" default:"30"`
}

func (c *RawSubstrateConfig) Validate() error {
	if err := c.GeneralChainConfig.Validate(); err != nil {
		return err
	}
	if c.Key == "" {
		return fmt.Errorf("required field chain.Key empty for chain %s", c.Name)
	}
	if c.RequestsPerSecond <= 0 || c.RequestBurst <= 0 {
		return fmt.Errorf("request rate of chain %s has to be positive", c.Name)
	}
	return nil
}

// NewSubstrateConfig decodes and validates an instance of a SubstrateConfig from
// raw chain config
func NewSubstrateConfig(chainConfig map[string]interface{}) (*SubstrateConfig, error) {
	var c RawSubstrateConfig
	err := mapstructure.Decode(chainConfig, &c)
	if err != nil {
		return nil, err
	}

	err = defaults.Set(&c)
	if err != nil {
		return nil, err
	}

	err = c.Validate()
	if err != nil {
		return nil, err
	}

	return &SubstrateConfig{
		GeneralChainConfig: c.GeneralChainConfig,
		MessagesPallet:     c.MessagesPallet,
		GrandpaPallet:      c.GrandpaPallet,
		Network:            c.Network,
		RequestsPerSecond:  c.RequestsPerSecond,
		RequestBurst:       c.RequestBurst,
		BreakerMaxFailures: c.BreakerMaxFailures,
		// nolint:gosec
		BreakerTimeout: time.Duration(c.BreakerTimeout) * time.Second,
	}, nil
}
