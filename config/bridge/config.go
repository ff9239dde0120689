// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package bridge

import (
	"fmt"

	"github.com/creasty/defaults"
	"github.com/mitchellh/mapstructure"
	"github.com/shopspring/decimal"
	"github.com/sprintertech/lane-bridge/lane"
	"github.com/sprintertech/lane-bridge/policy"
	"github.com/sprintertech/lane-bridge/relay"
)

type BridgeConfig struct {
	Name   string
	ChainA string
	ChainB string
	Lanes  []lane.LaneID

	DeliveryParams            relay.DeliveryParams
	ProtocolLimits            relay.ProtocolLimits
	RecentFinalityProofsLimit int

	// ConversionRate is nil when the rate is not maintained by this relayer.
	ConversionRate *ConversionRateConfig
}

// ConversionRateConfig describes the token pair whose price ratio is published at Chain.
type ConversionRateConfig struct {
	Chain        string `mapstructure:"chain"`
	ThisToken    string `mapstructure:"thisToken"`
	BridgedToken string `mapstructure:"bridgedToken"`
	InitialRate  string `mapstructure:"initialRate" default:"1"`
}

type RawBridgeConfig struct {
	Name   string   `mapstructure:"name"`
	ChainA string   `mapstructure:"chainA"`
	ChainB string   `mapstructure:"chainB"`
	Lanes  []string `mapstructure:"lanes"`

	MaxUnrewardedRelayerEntriesAtTarget    uint64 `mapstructure:"maxUnrewardedRelayerEntriesAtTarget" default:"128"`
	MaxUnconfirmedNoncesAtTarget           uint64 `mapstructure:"maxUnconfirmedNoncesAtTarget" default:"128"`
	MaxMessagesInSingleBatch               uint64 `mapstructure:"maxMessagesInSingleBatch" default:"16"`
	MaxMessagesWeightInSingleBatch         uint64 `mapstructure:"maxMessagesWeightInSingleBatch" default:"500000000000"`
	MaxMessagesSizeInSingleBatch           uint64 `mapstructure:"maxMessagesSizeInSingleBatch" default:"1048576"`
	MaxUnrewardedRelayersInConfirmationTx  uint64 `mapstructure:"maxUnrewardedRelayersInConfirmationTx" default:"128"`
	MaxUnconfirmedMessagesInConfirmationTx uint64 `mapstructure:"maxUnconfirmedMessagesInConfirmationTx" default:"128"`
	RecentFinalityProofsLimit              int    `mapstructure:"recentFinalityProofsLimit" default:"512"`

	ConversionRate *ConversionRateConfig `mapstructure:"conversionRate"`
}

func (c *RawBridgeConfig) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("required field bridge.Name empty")
	}
	if c.ChainA == "" || c.ChainB == "" {
		return fmt.Errorf("bridge %s requires both chainA and chainB", c.Name)
	}
	if c.ChainA == c.ChainB {
		return fmt.Errorf("bridge %s connects chain %s with itself", c.Name, c.ChainA)
	}
	if len(c.Lanes) == 0 {
		return fmt.Errorf("bridge %s has no lanes", c.Name)
	}
	if c.RecentFinalityProofsLimit < 0 {
		return fmt.Errorf("bridge %s has negative recentFinalityProofsLimit %d", c.Name, c.RecentFinalityProofsLimit)
	}
	if c.ConversionRate != nil {
		if c.ConversionRate.Chain != c.ChainA && c.ConversionRate.Chain != c.ChainB {
			return fmt.Errorf("conversion rate chain %s is not bridged by %s", c.ConversionRate.Chain, c.Name)
		}
		if c.ConversionRate.ThisToken == "" || c.ConversionRate.BridgedToken == "" {
			return fmt.Errorf("conversion rate of bridge %s requires both tokens", c.Name)
		}
	}
	return nil
}

// NewBridgeConfig decodes and validates an instance of a BridgeConfig from
// raw bridge config
func NewBridgeConfig(bridgeConfig map[string]interface{}) (*BridgeConfig, error) {
	var c RawBridgeConfig
	err := mapstructure.Decode(bridgeConfig, &c)
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

	lanes := make([]lane.LaneID, len(c.Lanes))
	for i, l := range c.Lanes {
		id, err := lane.ParseLaneID(l)
		if err != nil {
			return nil, fmt.Errorf("invalid lane of bridge %s: %w", c.Name, err)
		}
		lanes[i] = id
	}

	config := &BridgeConfig{
		Name:   c.Name,
		ChainA: c.ChainA,
		ChainB: c.ChainB,
		Lanes:  lanes,
		DeliveryParams: relay.DeliveryParams{
			MaxUnrewardedRelayerEntriesAtTarget: lane.MessageNonce(c.MaxUnrewardedRelayerEntriesAtTarget),
			MaxUnconfirmedNoncesAtTarget:        lane.MessageNonce(c.MaxUnconfirmedNoncesAtTarget),
			MaxMessagesInSingleBatch:            lane.MessageNonce(c.MaxMessagesInSingleBatch),
			MaxMessagesWeightInSingleBatch:      policy.Weight(c.MaxMessagesWeightInSingleBatch),
			MaxMessagesSizeInSingleBatch:        c.MaxMessagesSizeInSingleBatch,
		},
		ProtocolLimits: relay.ProtocolLimits{
			MaxUnrewardedRelayersInConfirmationTx:  lane.MessageNonce(c.MaxUnrewardedRelayersInConfirmationTx),
			MaxUnconfirmedMessagesInConfirmationTx: lane.MessageNonce(c.MaxUnconfirmedMessagesInConfirmationTx),
		},
		RecentFinalityProofsLimit: c.RecentFinalityProofsLimit,
		ConversionRate:            c.ConversionRate,
	}
	err = config.DeliveryParams.Validate(config.ProtocolLimits)
	if err != nil {
		return nil, fmt.Errorf("invalid delivery params of bridge %s: %w", c.Name, err)
	}

	return config, nil
}

// Rate returns the configured starting conversion rate.
func (c *ConversionRateConfig) Rate() (decimal.Decimal, error) {
	return decimal.NewFromString(c.InitialRate)
}
