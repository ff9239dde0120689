// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package finality_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/rs/zerolog/log"
	"github.com/sprintertech/lane-bridge/chains"
	mock_chains "github.com/sprintertech/lane-bridge/chains/mock"
	"github.com/sprintertech/lane-bridge/finality"
	mock_finality "github.com/sprintertech/lane-bridge/finality/mock"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

func sourceHeader(number uint64, mandatory bool) finality.SourceHeader {
	return finality.SourceHeader{
		ID:        chains.HeaderID{Number: number, Hash: types.Hash{byte(number)}},
		Mandatory: mandatory,
		Encoded:   []byte{byte(number)},
	}
}

func persistedProof(number uint64) *finality.FinalityProof {
	return &finality.FinalityProof{TargetHeaderNumber: number, Proof: []byte("persisted")}
}

type LoopTestSuite struct {
	suite.Suite

	mockSource  *mock_finality.MockSourceClient
	mockTarget  *mock_finality.MockTargetClient
	mockMetrics *mock_finality.MockMetrics
	mockTracker *mock_chains.MockTransactionTracker
	proofs      chan finality.FinalityProof
}

func TestRunLoopTestSuite(t *testing.T) {
	suite.Run(t, new(LoopTestSuite))
}

func (s *LoopTestSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.mockSource = mock_finality.NewMockSourceClient(ctrl)
	s.mockTarget = mock_finality.NewMockTargetClient(ctrl)
	s.mockMetrics = mock_finality.NewMockMetrics(ctrl)
	s.mockTracker = mock_chains.NewMockTransactionTracker(ctrl)
	s.proofs = make(chan finality.FinalityProof, 8)

	s.mockSource.EXPECT().SubscribeFinalityProofs(gomock.Any()).Return(s.proofs, nil).AnyTimes()
}

func (s *LoopTestSuite) newLoop(mode finality.HeadersToRelay) *finality.Loop {
	return finality.NewLoop(log.With(), finality.Config{
		Source:         "source",
		Target:         "target",
		Tick:           time.Millisecond,
		StallTimeout:   time.Second,
		HeadersToRelay: mode,
	}, s.mockSource, s.mockTarget, s.mockMetrics)
}

func (s *LoopTestSuite) expectBest(source uint64, target uint64) {
	s.mockSource.EXPECT().BestFinalizedHeaderNumber(gomock.Any()).Return(source, nil)
	s.mockTarget.EXPECT().BestFinalizedSourceHeader(gomock.Any()).Return(sourceHeader(target, false).ID, nil)
}

func (s *LoopTestSuite) expectHeader(number uint64, mandatory bool, proof *finality.FinalityProof) {
	s.mockSource.EXPECT().HeaderAndFinalityProof(gomock.Any(), number).Return(sourceHeader(number, mandatory), proof, nil)
}

func (s *LoopTestSuite) expectSubmission(number uint64, proof finality.FinalityProof, status chains.TxStatus) {
	s.mockTarget.EXPECT().SubmitFinalityProof(gomock.Any(), gomock.Any(), proof).DoAndReturn(
		func(ctx context.Context, header finality.SourceHeader, proof finality.FinalityProof) (chains.TransactionTracker, error) {
			s.Equal(number, header.ID.Number)
			return s.mockTracker, nil
		})
	s.mockTracker.EXPECT().Wait(gomock.Any()).Return(status, nil)
}

func (s *LoopTestSuite) Test_Tick_SourceReadFails() {
	s.mockSource.EXPECT().BestFinalizedHeaderNumber(gomock.Any()).Return(uint64(0), errors.New("error"))

	err := s.newLoop(finality.All).Tick(context.Background())

	s.NotNil(err)
}

func (s *LoopTestSuite) Test_Tick_TargetUpToDate() {
	s.expectBest(10, 10)

	err := s.newLoop(finality.All).Tick(context.Background())

	s.Nil(err)
}

func (s *LoopTestSuite) Test_Tick_RelaysMandatoryHeaderFirst() {
	s.expectBest(6, 2)
	s.expectHeader(3, false, persistedProof(3))
	s.expectHeader(4, true, persistedProof(4))
	s.expectSubmission(4, *persistedProof(4), chains.TxFinalized)
	s.mockMetrics.EXPECT().TrackSubmittedHeader("source", uint64(4))

	err := s.newLoop(finality.All).Tick(context.Background())

	s.Nil(err)
}

func (s *LoopTestSuite) Test_Tick_MandatoryHeaderWithoutProof() {
	s.expectBest(6, 2)
	s.expectHeader(3, true, nil)

	err := s.newLoop(finality.All).Tick(context.Background())

	s.NotNil(err)
}

func (s *LoopTestSuite) Test_Tick_RelaysBestPersistedProof() {
	s.expectBest(5, 2)
	s.expectHeader(3, false, persistedProof(3))
	s.expectHeader(4, false, persistedProof(4))
	s.expectHeader(5, false, nil)
	s.expectSubmission(4, *persistedProof(4), chains.TxFinalized)
	s.mockMetrics.EXPECT().TrackSubmittedHeader("source", uint64(4))

	err := s.newLoop(finality.All).Tick(context.Background())

	s.Nil(err)
}

func (s *LoopTestSuite) Test_Tick_PrefersNewerStreamedProof() {
	streamed := finality.FinalityProof{TargetHeaderNumber: 5, Proof: []byte("streamed")}
	s.proofs <- finality.FinalityProof{TargetHeaderNumber: 1}
	s.proofs <- streamed
	s.expectBest(6, 2)
	s.expectHeader(3, false, nil)
	s.expectHeader(4, false, persistedProof(4))
	s.mockSource.EXPECT().HeaderAndFinalityProof(gomock.Any(), uint64(5)).Return(sourceHeader(5, false), nil, nil).Times(2)
	s.expectHeader(6, false, nil)
	s.expectSubmission(5, streamed, chains.TxFinalized)
	s.mockMetrics.EXPECT().TrackSubmittedHeader("source", uint64(5))

	err := s.newLoop(finality.All).Tick(context.Background())

	s.Nil(err)
}

func (s *LoopTestSuite) Test_Tick_NoProofAvailable() {
	s.expectBest(4, 2)
	s.expectHeader(3, false, nil)
	s.expectHeader(4, false, nil)

	err := s.newLoop(finality.All).Tick(context.Background())

	s.Nil(err)
}

func (s *LoopTestSuite) Test_Tick_MandatoryModeSkipsRegularHeaders() {
	s.proofs <- finality.FinalityProof{TargetHeaderNumber: 4}
	s.expectBest(4, 2)
	s.expectHeader(3, false, persistedProof(3))
	s.expectHeader(4, false, persistedProof(4))

	err := s.newLoop(finality.Mandatory).Tick(context.Background())

	s.Nil(err)
}

func (s *LoopTestSuite) Test_Tick_OnDemandWaitsForRequiredHeader() {
	loop := s.newLoop(finality.OnDemand)
	s.expectBest(5, 2)

	err := loop.Tick(context.Background())
	s.Nil(err)

	loop.Require(2)
	s.expectBest(5, 2)

	err = loop.Tick(context.Background())
	s.Nil(err)

	loop.Require(4)
	s.expectBest(5, 2)
	s.expectHeader(3, false, nil)
	s.expectHeader(4, false, nil)
	s.expectHeader(5, false, persistedProof(5))
	s.expectSubmission(5, *persistedProof(5), chains.TxFinalized)
	s.mockMetrics.EXPECT().TrackSubmittedHeader("source", uint64(5))

	err = loop.Tick(context.Background())
	s.Nil(err)
}

func (s *LoopTestSuite) Test_Tick_LostSubmission() {
	s.expectBest(3, 2)
	s.expectHeader(3, false, persistedProof(3))
	s.expectSubmission(3, *persistedProof(3), chains.TxLost)

	err := s.newLoop(finality.All).Tick(context.Background())

	s.NotNil(err)
}

func (s *LoopTestSuite) Test_Run_StopsWithContext() {
	s.mockSource.EXPECT().BestFinalizedHeaderNumber(gomock.Any()).Return(uint64(0), errors.New("error")).AnyTimes()
	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond*20)
	defer cancel()

	done := make(chan struct{})
	go func() {
		s.newLoop(finality.All).Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		s.Fail("loop did not stop")
	}
}
