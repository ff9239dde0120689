// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package config

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	ConfigFlagName      = "config"
	LogLevelFlagName    = "log-level"
	RewardStoreFlagName = "reward-store"
)

func BindFlags(rootCMD *cobra.Command) {
	rootCMD.PersistentFlags().String(ConfigFlagName, ".", "Path to JSON configuration file or 'env' to read it from LB_ variables")
	_ = viper.BindPFlag(ConfigFlagName, rootCMD.PersistentFlags().Lookup(ConfigFlagName))

	rootCMD.PersistentFlags().String(LogLevelFlagName, "", "Log level overriding the configured one")
	_ = viper.BindPFlag(LogLevelFlagName, rootCMD.PersistentFlags().Lookup(LogLevelFlagName))

	rootCMD.PersistentFlags().String(RewardStoreFlagName, "", "Path to the reward ledger database")
	_ = viper.BindPFlag(RewardStoreFlagName, rootCMD.PersistentFlags().Lookup(RewardStoreFlagName))
}
