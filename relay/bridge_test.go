// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package relay_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/sprintertech/lane-bridge/chains"
	mock_finality "github.com/sprintertech/lane-bridge/finality/mock"
	"github.com/sprintertech/lane-bridge/relay"
	mock_relay "github.com/sprintertech/lane-bridge/relay/mock"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type Full2WayBuilderTestSuite struct {
	suite.Suite

	mockClientA *mock_relay.MockChainClient
	mockClientB *mock_relay.MockChainClient
}

func TestRunFull2WayBuilderTestSuite(t *testing.T) {
	suite.Run(t, new(Full2WayBuilderTestSuite))
}

func (s *Full2WayBuilderTestSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.mockClientA = mock_relay.NewMockChainClient(ctrl)
	s.mockClientB = mock_relay.NewMockChainClient(ctrl)

	for _, client := range []*mock_relay.MockChainClient{s.mockClientA, s.mockClientB} {
		client.EXPECT().Headers().Return(mock_finality.NewMockSourceClient(ctrl)).AnyTimes()
		client.EXPECT().PeerHeaders().Return(mock_finality.NewMockTargetClient(ctrl)).AnyTimes()
		client.EXPECT().OutboundLane(testLane).Return(mock_relay.NewMockSourceClient(ctrl)).AnyTimes()
		client.EXPECT().InboundLane(testLane).Return(mock_relay.NewMockTargetClient(ctrl)).AnyTimes()
	}
}

func (s *Full2WayBuilderTestSuite) builder() *relay.Full2WayBuilder {
	return relay.NewFull2WayBuilder(
		relay.ChainEndConfig{Name: "a", Client: s.mockClientA, Tick: time.Millisecond},
		relay.ChainEndConfig{Name: "b", Client: s.mockClientB, Tick: time.Millisecond},
	).WithLanes(testLane).WithDeliveryParams(testDeliveryParams(), testLimits)
}

func (s *Full2WayBuilderTestSuite) Test_Build_Valid() {
	bridge, err := s.builder().Build()

	s.Nil(err)
	s.NotNil(bridge)
}

func (s *Full2WayBuilderTestSuite) Test_Build_WithoutLanes() {
	_, err := relay.NewFull2WayBuilder(
		relay.ChainEndConfig{Name: "a", Client: s.mockClientA},
		relay.ChainEndConfig{Name: "b", Client: s.mockClientB},
	).WithDeliveryParams(testDeliveryParams(), testLimits).Build()

	s.NotNil(err)
}

func (s *Full2WayBuilderTestSuite) Test_Build_SameChainNames() {
	_, err := relay.NewFull2WayBuilder(
		relay.ChainEndConfig{Name: "a", Client: s.mockClientA},
		relay.ChainEndConfig{Name: "a", Client: s.mockClientB},
	).WithLanes(testLane).WithDeliveryParams(testDeliveryParams(), testLimits).Build()

	s.NotNil(err)
}

func (s *Full2WayBuilderTestSuite) Test_Build_MissingClient() {
	_, err := relay.NewFull2WayBuilder(
		relay.ChainEndConfig{Name: "a", Client: s.mockClientA},
		relay.ChainEndConfig{Name: "b"},
	).WithLanes(testLane).WithDeliveryParams(testDeliveryParams(), testLimits).Build()

	s.NotNil(err)
}

func (s *Full2WayBuilderTestSuite) Test_Build_DeliveryParamsExceedProtocolLimits() {
	params := testDeliveryParams()
	params.MaxUnconfirmedNoncesAtTarget = testLimits.MaxUnconfirmedMessagesInConfirmationTx + 1

	_, err := s.builder().WithDeliveryParams(params, testLimits).Build()

	s.NotNil(err)
}

func (s *Full2WayBuilderTestSuite) Test_Run_GenesisMismatchStopsLaneLoops() {
	s.mockClientA.EXPECT().GenesisHash(gomock.Any()).Return(types.Hash{2}, nil)
	bridge, err := relay.NewFull2WayBuilder(
		relay.ChainEndConfig{Name: "a", Client: s.mockClientA, ExpectedGenesis: types.Hash{1}},
		relay.ChainEndConfig{Name: "b", Client: s.mockClientB},
	).WithLanes(testLane).WithDeliveryParams(testDeliveryParams(), testLimits).Build()
	s.Nil(err)

	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond*50)
	defer cancel()
	err = bridge.Run(ctx)

	s.True(errors.Is(err, relay.ErrGenesisMismatch))
}

func (s *Full2WayBuilderTestSuite) Test_Run_RetriesGenesisReadErrors() {
	ctrl := gomock.NewController(s.T())
	clientA := mock_relay.NewMockChainClient(ctrl)
	clientB := mock_relay.NewMockChainClient(ctrl)
	for _, client := range []*mock_relay.MockChainClient{clientA, clientB} {
		source := mock_relay.NewMockSourceClient(ctrl)
		source.EXPECT().State(gomock.Any()).Return(chains.ClientState{}, errors.New("not ready")).AnyTimes()
		target := mock_relay.NewMockTargetClient(ctrl)
		target.EXPECT().State(gomock.Any()).Return(chains.ClientState{}, errors.New("not ready")).AnyTimes()

		client.EXPECT().Headers().Return(mock_finality.NewMockSourceClient(ctrl)).AnyTimes()
		client.EXPECT().PeerHeaders().Return(mock_finality.NewMockTargetClient(ctrl)).AnyTimes()
		client.EXPECT().OutboundLane(testLane).Return(source).AnyTimes()
		client.EXPECT().InboundLane(testLane).Return(target).AnyTimes()
	}
	gomock.InOrder(
		clientA.EXPECT().GenesisHash(gomock.Any()).Return(types.Hash{}, errors.New("connection reset")),
		clientA.EXPECT().GenesisHash(gomock.Any()).Return(types.Hash{1}, nil),
	)
	bridge, err := relay.NewFull2WayBuilder(
		relay.ChainEndConfig{Name: "a", Client: clientA, ExpectedGenesis: types.Hash{1}, Tick: time.Millisecond},
		relay.ChainEndConfig{Name: "b", Client: clientB, Tick: time.Millisecond},
	).WithLanes(testLane).WithDeliveryParams(testDeliveryParams(), testLimits).Build()
	s.Nil(err)

	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond*100)
	defer cancel()
	err = bridge.Run(ctx)

	s.Nil(err)
}
