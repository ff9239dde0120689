// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package relay_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sprintertech/lane-bridge/finality"
	mock_finality "github.com/sprintertech/lane-bridge/finality/mock"
	"github.com/sprintertech/lane-bridge/relay"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type OnDemandHeadersRelayTestSuite struct {
	suite.Suite

	mockSource *mock_finality.MockSourceClient
	mockTarget *mock_finality.MockTargetClient
	relay      *relay.OnDemandHeadersRelay
}

func TestRunOnDemandHeadersRelayTestSuite(t *testing.T) {
	suite.Run(t, new(OnDemandHeadersRelayTestSuite))
}

func (s *OnDemandHeadersRelayTestSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.mockSource = mock_finality.NewMockSourceClient(ctrl)
	s.mockTarget = mock_finality.NewMockTargetClient(ctrl)
	s.relay = relay.NewOnDemandHeadersRelay(log.With(), finality.Config{
		Source:       "source",
		Target:       "target",
		Tick:         time.Millisecond,
		StallTimeout: time.Second,
	}, s.mockSource, s.mockTarget, nil)
}

func (s *OnDemandHeadersRelayTestSuite) Test_Run_IdleWithoutRequirements() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond*20)
	defer cancel()

	s.relay.Run(ctx)
}

func (s *OnDemandHeadersRelayTestSuite) Test_RequireHeader_StartsLoop() {
	ticked := make(chan struct{})
	var once sync.Once
	s.mockSource.EXPECT().SubscribeFinalityProofs(gomock.Any()).Return(make(chan finality.FinalityProof), nil).AnyTimes()
	s.mockSource.EXPECT().BestFinalizedHeaderNumber(gomock.Any()).DoAndReturn(func(ctx context.Context) (uint64, error) {
		once.Do(func() { close(ticked) })
		return 5, nil
	}).AnyTimes()
	s.mockTarget.EXPECT().BestFinalizedSourceHeader(gomock.Any()).Return(headerID(5), nil).AnyTimes()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.relay.Run(ctx)
		close(done)
	}()

	s.relay.RequireHeader(5)
	s.relay.RequireHeader(6)

	select {
	case <-ticked:
	case <-time.After(time.Second):
		s.Fail("headers relay did not start")
	}
	cancel()
	<-done
}
