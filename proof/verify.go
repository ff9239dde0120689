// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package proof

import (
	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types/codec"
	"github.com/sprintertech/lane-bridge/lane"
	"github.com/sprintertech/lane-bridge/policy"
)

// HeaderChain returns state roots of finalized bridged chain headers.
type HeaderChain interface {
	StateRoot(hash types.Hash) (types.Hash, bool)
}

// TrieBackend reads a key under the given state root using only the provided proof nodes.
// A key that is proven to be absent returns nil value and no error.
type TrieBackend interface {
	Read(root types.Hash, proof StorageProof, key []byte) ([]byte, error)
}

type Verifier struct {
	keys    StorageKeys
	headers HeaderChain
	trie    TrieBackend
	bridge  *policy.MessageBridge
	lanes   map[lane.LaneID]bool
}

// NewVerifier creates a verifier of proofs made at the bridged chain. When bridge is not nil
// weights declared by proved messages are checked against its limits. When lanes is empty
// any lane is accepted.
func NewVerifier(
	keys StorageKeys,
	headers HeaderChain,
	trie TrieBackend,
	bridge *policy.MessageBridge,
	lanes []lane.LaneID,
) *Verifier {
	allowed := make(map[lane.LaneID]bool)
	for _, id := range lanes {
		allowed[id] = true
	}

	return &Verifier{
		keys:    keys,
		headers: headers,
		trie:    trie,
		bridge:  bridge,
		lanes:   allowed,
	}
}

// VerifyMessagesProof reconstructs the proved messages and outbound lane state.
func (v *Verifier) VerifyMessagesProof(p MessagesProof, maxMessages lane.MessageNonce) (ProvedMessages, error) {
	if len(v.lanes) > 0 && !v.lanes[p.Lane] {
		return nil, verificationError(p.Lane, 0, ErrUnknownLane)
	}
	if p.Count() > maxMessages {
		return nil, verificationError(p.Lane, 0, ErrTooManyMessages)
	}

	root, ok := v.headers.StateRoot(p.BridgedHeaderHash)
	if !ok {
		return nil, verificationError(p.Lane, 0, ErrMissingRequiredHeader)
	}

	messages := make([]lane.Message, 0, p.Count())
	for i := lane.MessageNonce(0); i < p.Count(); i++ {
		nonce := p.NoncesStart + i
		value, err := v.trie.Read(root, p.StorageProof, v.keys.MessageKey(p.Lane, nonce))
		if err != nil {
			return nil, verificationError(p.Lane, nonce, ErrMalformedProof)
		}
		if value == nil {
			return nil, verificationError(p.Lane, nonce, ErrMissingRequiredMessage)
		}

		var data lane.MessageData
		err = codec.Decode(value, &data)
		if err != nil {
			return nil, verificationError(p.Lane, nonce, ErrFailedToDecodeMessage)
		}
		err = v.verifyDeclaredWeight(data)
		if err != nil {
			return nil, verificationError(p.Lane, nonce, err)
		}

		messages = append(messages, lane.Message{
			Key:  lane.MessageKey{LaneID: p.Lane, Nonce: nonce},
			Data: data,
		})
	}

	laneState, err := v.readOutboundLaneData(root, p)
	if err != nil {
		return nil, err
	}
	if laneState == nil && len(messages) == 0 {
		return nil, verificationError(p.Lane, 0, ErrEmptyProof)
	}

	return ProvedMessages{
		p.Lane: {
			LaneState: laneState,
			Messages:  messages,
		},
	}, nil
}

// VerifyMessagesDeliveryProof reconstructs the inbound lane state of the bridged chain.
func (v *Verifier) VerifyMessagesDeliveryProof(p MessagesDeliveryProof) (lane.LaneID, lane.InboundLaneData, error) {
	if len(v.lanes) > 0 && !v.lanes[p.Lane] {
		return p.Lane, lane.InboundLaneData{}, verificationError(p.Lane, 0, ErrUnknownLane)
	}

	root, ok := v.headers.StateRoot(p.BridgedHeaderHash)
	if !ok {
		return p.Lane, lane.InboundLaneData{}, verificationError(p.Lane, 0, ErrMissingRequiredHeader)
	}

	value, err := v.trie.Read(root, p.StorageProof, v.keys.InboundLaneDataKey(p.Lane))
	if err != nil {
		return p.Lane, lane.InboundLaneData{}, verificationError(p.Lane, 0, ErrMalformedProof)
	}
	if value == nil {
		return p.Lane, lane.InboundLaneData{}, verificationError(p.Lane, 0, ErrMissingLaneState)
	}

	var data lane.InboundLaneData
	err = codec.Decode(value, &data)
	if err != nil {
		return p.Lane, lane.InboundLaneData{}, verificationError(p.Lane, 0, ErrFailedToDecodeLaneState)
	}
	return p.Lane, data, nil
}

func (v *Verifier) readOutboundLaneData(root types.Hash, p MessagesProof) (*lane.OutboundLaneData, error) {
	// lane state is optional, a proof that does not cover its key carries no state
	value, err := v.trie.Read(root, p.StorageProof, v.keys.OutboundLaneDataKey(p.Lane))
	if err != nil || value == nil {
		return nil, nil
	}

	var data lane.OutboundLaneData
	err = codec.Decode(value, &data)
	if err != nil {
		return nil, verificationError(p.Lane, 0, ErrFailedToDecodeLaneState)
	}
	return &data, nil
}

func (v *Verifier) verifyDeclaredWeight(data lane.MessageData) error {
	if v.bridge == nil {
		return nil
	}

	payload, err := policy.DecodePayload(data.Payload)
	if err != nil {
		return ErrFailedToDecodeMessage
	}
	if !v.bridge.WeightLimitsOfMessageOnBridgedChain(len(data.Payload)).Contains(payload.Weight) {
		return ErrWeightOutOfRange
	}
	return nil
}
