// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package finality_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog/log"
	"github.com/sprintertech/lane-bridge/finality"
	"github.com/stretchr/testify/suite"
)

type staticSubscriber struct {
	channels      []chan finality.FinalityProof
	subscriptions int
	err           error
}

func (s *staticSubscriber) SubscribeFinalityProofs(ctx context.Context) (<-chan finality.FinalityProof, error) {
	if s.err != nil {
		return nil, s.err
	}

	ch := s.channels[s.subscriptions]
	s.subscriptions++
	return ch, nil
}

type ProofsStreamTestSuite struct {
	suite.Suite
}

func TestRunProofsStreamTestSuite(t *testing.T) {
	suite.Run(t, new(ProofsStreamTestSuite))
}

func (s *ProofsStreamTestSuite) Test_TryNext_EmptyStreamDoesNotBlock() {
	subscriber := &staticSubscriber{channels: []chan finality.FinalityProof{make(chan finality.FinalityProof)}}
	stream := finality.NewProofsStream(log.With(), subscriber)

	_, ok, err := stream.TryNext(context.Background())

	s.Nil(err)
	s.False(ok)
	s.Equal(1, subscriber.subscriptions)
}

func (s *ProofsStreamTestSuite) Test_TryNext_ResubscribesAfterStreamEnds() {
	first := make(chan finality.FinalityProof, 1)
	first <- finality.FinalityProof{TargetHeaderNumber: 1}
	close(first)
	second := make(chan finality.FinalityProof, 1)
	second <- finality.FinalityProof{TargetHeaderNumber: 2}
	subscriber := &staticSubscriber{channels: []chan finality.FinalityProof{first, second}}
	stream := finality.NewProofsStream(log.With(), subscriber)
	restarts := 0
	stream.OnRestart(func() { restarts++ })

	proof, ok, err := stream.TryNext(context.Background())
	s.Nil(err)
	s.True(ok)
	s.Equal(uint64(1), proof.TargetHeaderNumber)

	_, ok, err = stream.TryNext(context.Background())
	s.Nil(err)
	s.False(ok)
	s.Equal(1, stream.Restarts())
	s.Equal(1, restarts)

	proof, ok, err = stream.TryNext(context.Background())
	s.Nil(err)
	s.True(ok)
	s.Equal(uint64(2), proof.TargetHeaderNumber)
	s.Equal(2, subscriber.subscriptions)
}

func (s *ProofsStreamTestSuite) Test_TryNext_SubscriptionError() {
	stream := finality.NewProofsStream(log.With(), &staticSubscriber{err: errors.New("connection refused")})

	_, ok, err := stream.TryNext(context.Background())

	s.NotNil(err)
	s.False(ok)
}
