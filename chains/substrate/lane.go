// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package substrate

import (
	"context"
	"fmt"

	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types/codec"
	"github.com/sprintertech/lane-bridge/chains"
	"github.com/sprintertech/lane-bridge/lane"
	"github.com/sprintertech/lane-bridge/policy"
	"github.com/sprintertech/lane-bridge/proof"
	"github.com/sprintertech/lane-bridge/relay"
)

// outboundLaneData is the messages pallet form of the outbound lane state.
type outboundLaneData struct {
	OldestUnprunedNonce  types.U64
	LatestReceivedNonce  types.U64
	LatestGeneratedNonce types.U64
}

type unrewardedRelayer struct {
	Relayer lane.RelayerID
	Begin   types.U64
	End     types.U64
}

// inboundLaneData is the messages pallet form of the inbound lane state. Messages are
// dispatched on receipt, so nothing is left unprocessed.
type inboundLaneData struct {
	Relayers           []unrewardedRelayer
	LastConfirmedNonce types.U64
}

func (d inboundLaneData) laneData() lane.InboundLaneData {
	data := lane.InboundLaneData{
		Relayers:           make([]lane.UnrewardedRelayer, len(d.Relayers)),
		LastConfirmedNonce: lane.MessageNonce(d.LastConfirmedNonce),
	}
	for i, r := range d.Relayers {
		data.Relayers[i] = lane.UnrewardedRelayer{
			Relayer: r.Relayer,
			Messages: lane.DeliveredMessages{
				Begin: lane.MessageNonce(r.Begin),
				End:   lane.MessageNonce(r.End),
			},
		}
	}
	data.LatestReceivedNonce = data.LastDeliveredNonce()
	data.OldestUnprocessedNonce = data.LatestReceivedNonce + 1
	return data
}

// LaneSource is the outbound side of a lane of the chain.
type LaneSource struct {
	*Client
	lane lane.LaneID
}

func (s *LaneSource) OutboundLaneData(ctx context.Context, at chains.HeaderID) (lane.OutboundLaneData, error) {
	raw, err := s.rpc.Storage(ctx, s.keys.OutboundLaneDataKey(s.lane), at.Hash)
	if err != nil {
		return lane.OutboundLaneData{}, err
	}
	if raw == nil {
		return lane.OutboundLaneData{}, nil
	}

	var data outboundLaneData
	err = codec.Decode(raw, &data)
	if err != nil {
		return lane.OutboundLaneData{}, fmt.Errorf("invalid outbound lane %s data: %w", s.lane, err)
	}
	return lane.OutboundLaneData{
		LatestGeneratedNonce: lane.MessageNonce(data.LatestGeneratedNonce),
		LatestReceivedNonce:  lane.MessageNonce(data.LatestReceivedNonce),
	}, nil
}

// MessageDetails returns details of stored messages [begin, end], stopping at the first
// message that is not stored.
func (s *LaneSource) MessageDetails(ctx context.Context, at chains.HeaderID, begin lane.MessageNonce, end lane.MessageNonce) ([]relay.MessageDetails, error) {
	details := make([]relay.MessageDetails, 0)
	for nonce := begin; nonce <= end; nonce++ {
		raw, err := s.rpc.Storage(ctx, s.keys.MessageKey(s.lane, nonce), at.Hash)
		if err != nil {
			return nil, err
		}
		if raw == nil {
			break
		}

		var data lane.MessageData
		err = codec.Decode(raw, &data)
		if err != nil {
			return nil, fmt.Errorf("invalid message %d of lane %s: %w", nonce, s.lane, err)
		}

		var weight policy.Weight
		payload, err := policy.DecodePayload(data.Payload)
		if err == nil {
			weight = payload.Weight
		}
		details = append(details, relay.MessageDetails{
			Nonce:          nonce,
			DispatchWeight: weight,
			Size:           uint64(len(data.Payload)),
			Fee:            data.Fee,
		})
	}
	return details, nil
}

func (s *LaneSource) ProveMessages(ctx context.Context, at chains.HeaderID, begin lane.MessageNonce, end lane.MessageNonce, includeState bool) (proof.MessagesProof, error) {
	keys := make([][]byte, 0)
	for nonce := begin; nonce <= end; nonce++ {
		keys = append(keys, s.keys.MessageKey(s.lane, nonce))
	}
	if includeState {
		keys = append(keys, s.keys.OutboundLaneDataKey(s.lane))
	}

	nodes, err := s.rpc.ReadProof(ctx, keys, at.Hash)
	if err != nil {
		return proof.MessagesProof{}, err
	}
	return proof.MessagesProof{
		BridgedHeaderHash: at.Hash,
		StorageProof:      nodes,
		Lane:              s.lane,
		NoncesStart:       begin,
		NoncesEnd:         end,
	}, nil
}

func (s *LaneSource) SubmitMessagesDeliveryProof(ctx context.Context, p proof.MessagesDeliveryProof, relayersState lane.UnrewardedRelayersState) (chains.TransactionTracker, error) {
	encoded, err := proof.EncodeMessagesDeliveryProof(p)
	if err != nil {
		return nil, err
	}

	return s.submit(ctx, Call{
		Name: s.keys.Pallet() + ".receive_messages_delivery_proof",
		Args: []interface{}{types.Data(encoded), relayersState},
	})
}

// LaneTarget is the inbound side of a lane of the chain.
type LaneTarget struct {
	*Client
	lane lane.LaneID
}

func (t *LaneTarget) InboundLaneData(ctx context.Context, at chains.HeaderID) (lane.InboundLaneData, error) {
	raw, err := t.rpc.Storage(ctx, t.keys.InboundLaneDataKey(t.lane), at.Hash)
	if err != nil {
		return lane.InboundLaneData{}, err
	}
	if raw == nil {
		return lane.DefaultInboundLaneData(), nil
	}

	var data inboundLaneData
	err = codec.Decode(raw, &data)
	if err != nil {
		return lane.InboundLaneData{}, fmt.Errorf("invalid inbound lane %s data: %w", t.lane, err)
	}
	return data.laneData(), nil
}

func (t *LaneTarget) ProveMessagesDelivery(ctx context.Context, at chains.HeaderID) (proof.MessagesDeliveryProof, error) {
	nodes, err := t.rpc.ReadProof(ctx, [][]byte{t.keys.InboundLaneDataKey(t.lane)}, at.Hash)
	if err != nil {
		return proof.MessagesDeliveryProof{}, err
	}
	return proof.MessagesDeliveryProof{
		BridgedHeaderHash: at.Hash,
		StorageProof:      nodes,
		Lane:              t.lane,
	}, nil
}

func (t *LaneTarget) SubmitMessagesProof(ctx context.Context, p proof.MessagesProof, dispatchWeight policy.Weight) (chains.TransactionTracker, error) {
	encoded, err := proof.EncodeMessagesProof(p)
	if err != nil {
		return nil, err
	}

	return t.submit(ctx, Call{
		Name: t.keys.Pallet() + ".receive_messages_proof",
		Args: []interface{}{
			t.relayer,
			types.Data(encoded),
			types.NewU32(uint32(p.Count())),
			types.NewU64(uint64(dispatchWeight)),
		},
	})
}
