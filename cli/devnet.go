// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package cli

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sprintertech/lane-bridge/app"
	"github.com/sprintertech/lane-bridge/config"
	"github.com/sprintertech/lane-bridge/config/relayer"
	"github.com/sprintertech/lane-bridge/lane"
)

var (
	devnetCMD = &cobra.Command{
		Use:   "devnet",
		Short: "Run two in-process chains bridged by the relayer",
		Long: "Produces and finalizes blocks of two in-process chains, periodically sends " +
			"messages over every lane and relays them in both directions",
		RunE: runDevnet,
	}
)

var (
	blockTime       time.Duration
	messageInterval time.Duration
	lanes           []string
	apiAddr         string
	cmcURL          string
	cmcAPIKey       string
	thisToken       string
	bridgedToken    string
)

func init() {
	devnetCMD.Flags().DurationVar(&blockTime, "block-time", time.Second, "block time of both chains")
	devnetCMD.Flags().DurationVar(&messageInterval, "message-interval", time.Second*5, "interval of sending messages over every lane")
	devnetCMD.Flags().StringSliceVar(&lanes, "lanes", []string{"0x00000000"}, "bridged lanes")
	devnetCMD.Flags().StringVar(&apiAddr, "api-addr", ":3000", "address of the lane status API")
	devnetCMD.Flags().StringVar(&cmcURL, "coinmarketcap-url", "https://pro-api.coinmarketcap.com", "coinmarketcap API URL")
	devnetCMD.Flags().StringVar(&cmcAPIKey, "coinmarketcap-key", "", "coinmarketcap API key, the conversion rate is fixed without it")
	devnetCMD.Flags().StringVar(&thisToken, "this-token", "DOT", "token symbol of the first chain")
	devnetCMD.Flags().StringVar(&bridgedToken, "bridged-token", "KSM", "token symbol of the second chain")
}

func runDevnet(cmd *cobra.Command, args []string) error {
	ids := make([]lane.LaneID, len(lanes))
	for i, l := range lanes {
		id, err := lane.ParseLaneID(l)
		if err != nil {
			return err
		}
		ids[i] = id
	}

	logLevel := zerolog.InfoLevel
	if level := viper.GetString(config.LogLevelFlagName); level != "" {
		parsed, err := zerolog.ParseLevel(level)
		if err != nil {
			return err
		}
		logLevel = parsed
	}

	return app.RunDevnet(app.DevnetConfig{
		BlockTime:       blockTime,
		MessageInterval: messageInterval,
		Lanes:           ids,
		ApiAddr:         apiAddr,
		Coinmarketcap: relayer.CoinmarketcapConfig{
			Url:    cmcURL,
			ApiKey: cmcAPIKey,
		},
		ThisToken:    thisToken,
		BridgedToken: bridgedToken,
	}, logLevel)
}
