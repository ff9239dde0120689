// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package chain_test

import (
	"testing"
	"time"

	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/sprintertech/lane-bridge/config/chain"
	"github.com/stretchr/testify/suite"
)

type GeneralChainConfigTestSuite struct {
	suite.Suite
}

func TestRunGeneralChainConfigTestSuite(t *testing.T) {
	suite.Run(t, new(GeneralChainConfigTestSuite))
}

func (s *GeneralChainConfigTestSuite) Test_Validate_MissingFields() {
	config := chain.GeneralChainConfig{Endpoint: "ws://localhost:9944", Tick: 6}
	s.NotNil(config.Validate())

	config = chain.GeneralChainConfig{Name: "millau", Tick: 6}
	s.NotNil(config.Validate())

	config = chain.GeneralChainConfig{Name: "millau", Endpoint: "ws://localhost:9944"}
	s.NotNil(config.Validate())
}

func (s *GeneralChainConfigTestSuite) Test_Validate_InvalidGenesis() {
	config := chain.GeneralChainConfig{Name: "millau", Endpoint: "ws://localhost:9944", Tick: 6, GenesisHash: "0xzz"}

	s.NotNil(config.Validate())
}

func (s *GeneralChainConfigTestSuite) Test_Genesis() {
	genesis := "0x0101010101010101010101010101010101010101010101010101010101010101"
	config := chain.GeneralChainConfig{Name: "millau", Endpoint: "ws://localhost:9944", Tick: 6, StallTimeout: 60, GenesisHash: genesis}

	s.Nil(config.Validate())
	s.Equal(types.NewHash([]byte{
		1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1,
		1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1,
	}), config.Genesis())
	s.Equal(6*time.Second, config.TickInterval())
	s.Equal(time.Minute, config.StallTimeoutInterval())

	config.GenesisHash = ""
	s.Equal(types.Hash{}, config.Genesis())
}
