// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package chain

import (
	"fmt"
	"time"

	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
)

type GeneralChainConfig struct {
	Name     string `mapstructure:"name"`
	Endpoint string `mapstructure:"endpoint"`
	Type     string `mapstructure:"type"`
	// GenesisHash is compared with the genesis of the connected chain when set.
	GenesisHash string `mapstructure:"genesisHash"`
	// Key is the secret URI of the relayer account at the chain.
	Key          string `mapstructure:"key"`
	Tick         uint64 `mapstructure:"tick" default:"6"`
	StallTimeout uint64 `mapstructure:"stallTimeout" default:"300"`
}

func (c *GeneralChainConfig) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("required field chain.Name empty")
	}
	if c.Endpoint == "" {
		return fmt.Errorf("required field chain.Endpoint empty for chain %s", c.Name)
	}
	if c.Tick == 0 {
		return fmt.Errorf("chain.Tick of chain %s has to be positive", c.Name)
	}
	if c.GenesisHash != "" {
		_, err := types.NewHashFromHexString(c.GenesisHash)
		if err != nil {
			return fmt.Errorf("invalid genesis hash of chain %s: %w", c.Name, err)
		}
	}
	return nil
}

// Genesis returns the expected genesis hash or a zero hash when none is configured.
func (c *GeneralChainConfig) Genesis() types.Hash {
	if c.GenesisHash == "" {
		return types.Hash{}
	}
	hash, _ := types.NewHashFromHexString(c.GenesisHash)
	return hash
}

func (c *GeneralChainConfig) TickInterval() time.Duration {
	// nolint:gosec
	return time.Duration(c.Tick) * time.Second
}

func (c *GeneralChainConfig) StallTimeoutInterval() time.Duration {
	// nolint:gosec
	return time.Duration(c.StallTimeout) * time.Second
}
