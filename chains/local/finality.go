// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package local

import (
	"context"
	"fmt"

	"github.com/centrifuge/go-substrate-rpc-client/v4/types/codec"
	"github.com/rs/zerolog"
	"github.com/sprintertech/lane-bridge/chains"
	"github.com/sprintertech/lane-bridge/finality"
	"github.com/sprintertech/lane-bridge/headerchain"
	"github.com/sprintertech/lane-bridge/runtime"
)

// HeadersSource serves finalized headers and justifications of the chain.
type HeadersSource struct {
	log   zerolog.Logger
	chain *runtime.Chain
}

// SubscribeFinalityProofs forwards justifications of the chain until ctx is done or the
// chain ends the subscription.
func (s *HeadersSource) SubscribeFinalityProofs(ctx context.Context) (<-chan finality.FinalityProof, error) {
	justifications, unsubscribe := s.chain.SubscribeJustifications()
	proofs := make(chan finality.FinalityProof, runtime.JUSTIFICATIONS_BUFFER)

	go func() {
		defer close(proofs)
		defer unsubscribe()

		for {
			select {
			case <-ctx.Done():
				return
			case justified, ok := <-justifications:
				if !ok {
					return
				}

				encoded, err := headerchain.EncodeJustification(justified.Justification)
				if err != nil {
					s.log.Warn().Err(err).Msgf("Failed to encode justification of header %d", justified.Header.Number)
					continue
				}

				select {
				case proofs <- finality.FinalityProof{TargetHeaderNumber: justified.Header.Number, Proof: encoded}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return proofs, nil
}

func (s *HeadersSource) BestFinalizedHeaderNumber(_ context.Context) (uint64, error) {
	return s.chain.BestFinalizedHeader().Number, nil
}

func (s *HeadersSource) HeaderAndFinalityProof(_ context.Context, number uint64) (finality.SourceHeader, *finality.FinalityProof, error) {
	header, ok := s.chain.HeaderByNumber(number)
	if !ok {
		return finality.SourceHeader{}, nil, fmt.Errorf("%w: %d", runtime.ErrUnknownBlock, number)
	}
	encoded, err := codec.Encode(header)
	if err != nil {
		return finality.SourceHeader{}, nil, err
	}
	sourceHeader := finality.SourceHeader{
		ID:        header.ID(),
		Mandatory: header.IsMandatory(),
		Encoded:   encoded,
	}

	justification, ok := s.chain.Justification(number)
	if !ok {
		return sourceHeader, nil, nil
	}
	proof, err := headerchain.EncodeJustification(justification)
	if err != nil {
		return finality.SourceHeader{}, nil, err
	}
	return sourceHeader, &finality.FinalityProof{TargetHeaderNumber: number, Proof: proof}, nil
}

// PeerHeadersTarget imports headers of the bridged chain into the header chain of this chain.
type PeerHeadersTarget struct {
	client *Client
}

func (t *PeerHeadersTarget) BestFinalizedSourceHeader(_ context.Context) (chains.HeaderID, error) {
	id, ok := t.client.chain.BestFinalizedPeer()
	if !ok {
		return chains.HeaderID{}, fmt.Errorf("bridged header chain at %s is not initialized", t.client.chain.Name())
	}
	return id, nil
}

func (t *PeerHeadersTarget) SubmitFinalityProof(_ context.Context, header finality.SourceHeader, proof finality.FinalityProof) (chains.TransactionTracker, error) {
	var decoded headerchain.Header
	err := codec.Decode(header.Encoded, &decoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode header %s: %w", header.ID, err)
	}
	justification, err := headerchain.DecodeJustification(proof.Proof)
	if err != nil {
		return nil, fmt.Errorf("failed to decode justification of %s: %w", header.ID, err)
	}

	return t.client.submit(runtime.SubmitFinalityProofCall{
		Relayer:       t.client.relayer,
		Header:        decoded,
		Justification: justification,
	}), nil
}
