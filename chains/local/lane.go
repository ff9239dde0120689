// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package local

import (
	"context"

	"github.com/sprintertech/lane-bridge/chains"
	"github.com/sprintertech/lane-bridge/lane"
	"github.com/sprintertech/lane-bridge/policy"
	"github.com/sprintertech/lane-bridge/proof"
	"github.com/sprintertech/lane-bridge/relay"
	"github.com/sprintertech/lane-bridge/runtime"
)

// LaneSource is the outbound side of a lane of the chain.
type LaneSource struct {
	*Client
	lane lane.LaneID
}

func (s *LaneSource) OutboundLaneData(_ context.Context, at chains.HeaderID) (lane.OutboundLaneData, error) {
	return s.chain.OutboundLaneDataAt(s.lane, at.Hash)
}

// MessageDetails returns details of stored messages [begin, end], stopping at the first
// message that is not stored.
func (s *LaneSource) MessageDetails(_ context.Context, _ chains.HeaderID, begin lane.MessageNonce, end lane.MessageNonce) ([]relay.MessageDetails, error) {
	details := make([]relay.MessageDetails, 0)
	for nonce := begin; nonce <= end; nonce++ {
		data, ok := s.chain.OutboundMessage(s.lane, nonce)
		if !ok {
			break
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

func (s *LaneSource) ProveMessages(_ context.Context, at chains.HeaderID, begin lane.MessageNonce, end lane.MessageNonce, includeState bool) (proof.MessagesProof, error) {
	return s.chain.ProveMessages(s.lane, begin, end, includeState, at.Hash)
}

func (s *LaneSource) SubmitMessagesDeliveryProof(_ context.Context, p proof.MessagesDeliveryProof, relayersState lane.UnrewardedRelayersState) (chains.TransactionTracker, error) {
	return s.submit(runtime.ReceiveMessagesDeliveryProofCall{
		Relayer:       s.relayer,
		Proof:         p,
		RelayersState: relayersState,
	}), nil
}

// LaneTarget is the inbound side of a lane of the chain.
type LaneTarget struct {
	*Client
	lane lane.LaneID
}

func (t *LaneTarget) InboundLaneData(_ context.Context, at chains.HeaderID) (lane.InboundLaneData, error) {
	return t.chain.InboundLaneDataAt(t.lane, at.Hash)
}

func (t *LaneTarget) ProveMessagesDelivery(_ context.Context, at chains.HeaderID) (proof.MessagesDeliveryProof, error) {
	return t.chain.ProveMessagesDelivery(t.lane, at.Hash)
}

func (t *LaneTarget) SubmitMessagesProof(_ context.Context, p proof.MessagesProof, dispatchWeight policy.Weight) (chains.TransactionTracker, error) {
	return t.submit(runtime.ReceiveMessagesProofCall{
		Relayer:        t.relayer,
		Proof:          p,
		MessagesCount:  p.Count(),
		DispatchWeight: dispatchWeight,
	}), nil
}
