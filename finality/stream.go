// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package finality

import (
	"context"

	"github.com/rs/zerolog"
)

// FinalityProof is a consensus commitment finalizing the header TargetHeaderNumber.
type FinalityProof struct {
	TargetHeaderNumber uint64
	Proof              []byte
}

type Subscriber interface {
	SubscribeFinalityProofs(ctx context.Context) (<-chan FinalityProof, error)
}

// ProofsStream is a restartable subscription to finality proofs of the source chain.
type ProofsStream struct {
	log        zerolog.Logger
	subscriber Subscriber
	proofs     <-chan FinalityProof
	restarts   int
	onRestart  func()
}

func NewProofsStream(logC zerolog.Context, subscriber Subscriber) *ProofsStream {
	return &ProofsStream{
		log:        logC.Logger(),
		subscriber: subscriber,
	}
}

// OnRestart registers a callback invoked every time the subscription ends.
func (s *ProofsStream) OnRestart(fn func()) {
	s.onRestart = fn
}

// Restarts returns how many times the subscription ended.
func (s *ProofsStream) Restarts() int {
	return s.restarts
}

func (s *ProofsStream) ensureSubscribed(ctx context.Context) error {
	if s.proofs != nil {
		return nil
	}

	proofs, err := s.subscriber.SubscribeFinalityProofs(ctx)
	if err != nil {
		return err
	}
	s.proofs = proofs
	return nil
}

// TryNext returns the next available proof without blocking. The subscription is created
// when there is none and dropped when its channel is closed.
func (s *ProofsStream) TryNext(ctx context.Context) (FinalityProof, bool, error) {
	err := s.ensureSubscribed(ctx)
	if err != nil {
		return FinalityProof{}, false, err
	}

	select {
	case proof, ok := <-s.proofs:
		if !ok {
			s.log.Warn().Msgf("Finality proofs stream has ended, resubscribing on next read")
			s.proofs = nil
			s.restarts++
			if s.onRestart != nil {
				s.onRestart()
			}
			return FinalityProof{}, false, nil
		}
		return proof, true, nil
	default:
		return FinalityProof{}, false, nil
	}
}
