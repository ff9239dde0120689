// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package substrate

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"

	"github.com/centrifuge/go-substrate-rpc-client/v4/scale"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types/codec"
	"github.com/sprintertech/lane-bridge/chains"
	"github.com/sprintertech/lane-bridge/finality"
)

const (
	SCHEDULED_CHANGE_LOG = 1
	FORCED_CHANGE_LOG    = 2
)

// IsMandatory reports whether the header changes the GRANDPA authority set. Such headers
// have to be imported by the header chain of the bridged chain.
func IsMandatory(header *types.Header) bool {
	engine := types.ConsensusEngineID(binary.LittleEndian.Uint32(grandpaEngineID[:]))
	for _, item := range header.Digest {
		if !item.IsConsensus || item.AsConsensus.ConsensusEngineID != engine {
			continue
		}
		if len(item.AsConsensus.Bytes) == 0 {
			continue
		}

		switch item.AsConsensus.Bytes[0] {
		case SCHEDULED_CHANGE_LOG, FORCED_CHANGE_LOG:
			return true
		}
	}
	return false
}

type justificationCommit struct {
	Round        types.U64
	TargetHash   types.Hash
	TargetNumber types.U32
}

// JustificationTarget returns the number of the header finalized by the encoded GRANDPA
// justification.
func JustificationTarget(justification []byte) (uint64, error) {
	var commit justificationCommit
	err := scale.NewDecoder(bytes.NewReader(justification)).Decode(&commit)
	if err != nil {
		return 0, fmt.Errorf("invalid justification: %w", err)
	}
	return uint64(commit.TargetNumber), nil
}

// HeadersSource serves finalized headers and GRANDPA justifications of the chain.
type HeadersSource struct {
	client *Client
}

func (s *HeadersSource) SubscribeFinalityProofs(ctx context.Context) (<-chan finality.FinalityProof, error) {
	justifications, err := s.client.rpc.SubscribeJustifications(ctx)
	if err != nil {
		return nil, err
	}

	proofs := make(chan finality.FinalityProof)
	go func() {
		defer close(proofs)

		for justification := range justifications {
			number, err := JustificationTarget(justification)
			if err != nil {
				s.client.log.Warn().Err(err).Msg("Skipping justification")
				continue
			}

			select {
			case proofs <- finality.FinalityProof{TargetHeaderNumber: number, Proof: justification}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return proofs, nil
}

func (s *HeadersSource) BestFinalizedHeaderNumber(ctx context.Context) (uint64, error) {
	header, err := s.client.rpc.FinalizedHeader(ctx)
	if err != nil {
		return 0, err
	}
	return uint64(header.Number), nil
}

func (s *HeadersSource) HeaderAndFinalityProof(ctx context.Context, number uint64) (finality.SourceHeader, *finality.FinalityProof, error) {
	header, err := s.client.finalizedHeader(ctx, number)
	if err != nil {
		return finality.SourceHeader{}, nil, err
	}
	encoded, err := codec.Encode(*header)
	if err != nil {
		return finality.SourceHeader{}, nil, err
	}
	id, err := HeaderID(header)
	if err != nil {
		return finality.SourceHeader{}, nil, err
	}
	sourceHeader := finality.SourceHeader{
		ID:        id,
		Mandatory: IsMandatory(header),
		Encoded:   encoded,
	}

	justification, err := s.client.rpc.Justification(ctx, number)
	if err != nil {
		return finality.SourceHeader{}, nil, err
	}
	if justification == nil {
		return sourceHeader, nil, nil
	}
	return sourceHeader, &finality.FinalityProof{TargetHeaderNumber: number, Proof: justification}, nil
}

// PeerHeadersTarget imports headers of the bridged chain into the GRANDPA pallet of this chain.
type PeerHeadersTarget struct {
	client *Client
}

func (t *PeerHeadersTarget) BestFinalizedSourceHeader(ctx context.Context) (chains.HeaderID, error) {
	best, err := t.client.rpc.BestHeader(ctx)
	if err != nil {
		return chains.HeaderID{}, err
	}
	at, err := HeaderID(best)
	if err != nil {
		return chains.HeaderID{}, err
	}

	peer, err := t.client.bestFinalizedPeer(ctx, at.Hash)
	if err != nil {
		return chains.HeaderID{}, err
	}
	if peer == nil {
		return chains.HeaderID{}, fmt.Errorf("%s pallet is not initialized", t.client.grandpaPallet)
	}
	return *peer, nil
}

func (t *PeerHeadersTarget) SubmitFinalityProof(ctx context.Context, header finality.SourceHeader, proof finality.FinalityProof) (chains.TransactionTracker, error) {
	return t.client.submit(ctx, Call{
		Name: t.client.grandpaPallet + ".submit_finality_proof",
		Args: []interface{}{types.Data(header.Encoded), types.Data(proof.Proof)},
	})
}
