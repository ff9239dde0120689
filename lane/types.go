// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package lane

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"github.com/centrifuge/go-substrate-rpc-client/v4/scale"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
)

// LaneID identifies a channel between exactly one pair of chains.
type LaneID [4]byte

func (l LaneID) String() string {
	return "0x" + hex.EncodeToString(l[:])
}

// ParseLaneID accepts either a 4 character tag ("test") or 0x prefixed hex ("0x74657374").
func ParseLaneID(s string) (LaneID, error) {
	var id LaneID
	if strings.HasPrefix(s, "0x") {
		b, err := hex.DecodeString(s[2:])
		if err != nil {
			return id, fmt.Errorf("invalid lane id %s: %w", s, err)
		}
		if len(b) != len(id) {
			return id, fmt.Errorf("invalid lane id %s: expected %d bytes, got %d", s, len(id), len(b))
		}
		copy(id[:], b)
		return id, nil
	}

	if len(s) != len(id) {
		return id, fmt.Errorf("invalid lane id %s: expected %d characters", s, len(id))
	}
	copy(id[:], s)
	return id, nil
}

// MessageNonce is the per lane sequence number. The first message of a lane has nonce 1.
type MessageNonce uint64

// RelayerID is the account of the relayer that delivered messages.
type RelayerID [32]byte

func (r RelayerID) String() string {
	return "0x" + hex.EncodeToString(r[:])
}

type MessageKey struct {
	LaneID LaneID
	Nonce  MessageNonce
}

// MessageData is stored at the source chain until delivery is confirmed.
type MessageData struct {
	Payload []byte
	Fee     *big.Int
}

func (d MessageData) Encode(encoder scale.Encoder) error {
	err := encoder.Encode(d.Payload)
	if err != nil {
		return err
	}

	fee := d.Fee
	if fee == nil {
		fee = big.NewInt(0)
	}
	return encoder.Encode(types.NewU128(*fee))
}

func (d *MessageData) Decode(decoder scale.Decoder) error {
	err := decoder.Decode(&d.Payload)
	if err != nil {
		return err
	}

	var fee types.U128
	err = decoder.Decode(&fee)
	if err != nil {
		return err
	}
	d.Fee = fee.Int
	return nil
}

type Message struct {
	Key  MessageKey
	Data MessageData
}

// DeliveredMessages is an inclusive nonce range.
type DeliveredMessages struct {
	Begin MessageNonce
	End   MessageNonce
}

func (m DeliveredMessages) Len() MessageNonce {
	if m.End < m.Begin {
		return 0
	}
	return m.End - m.Begin + 1
}

func (m DeliveredMessages) Contains(nonce MessageNonce) bool {
	return nonce >= m.Begin && nonce <= m.End
}

// UnrewardedRelayer records which relayer delivered which nonces and has not been rewarded yet.
type UnrewardedRelayer struct {
	Relayer  RelayerID
	Messages DeliveredMessages
}

// InboundLaneData is the receiving side ledger of a lane.
type InboundLaneData struct {
	Relayers               []UnrewardedRelayer
	LastConfirmedNonce     MessageNonce
	LatestReceivedNonce    MessageNonce
	OldestUnprocessedNonce MessageNonce
}

// DefaultInboundLaneData is the state of a lane that has never received a message.
func DefaultInboundLaneData() InboundLaneData {
	return InboundLaneData{
		Relayers:               []UnrewardedRelayer{},
		OldestUnprocessedNonce: 1,
	}
}

// LastDeliveredNonce returns the nonce of the latest message recorded in the relayers list,
// falling back to the last confirmed nonce when the list is empty.
func (d InboundLaneData) LastDeliveredNonce() MessageNonce {
	if len(d.Relayers) == 0 {
		return d.LastConfirmedNonce
	}
	return d.Relayers[len(d.Relayers)-1].Messages.End
}

// UnrewardedRelayersState summarizes the relayers list.
func (d InboundLaneData) UnrewardedRelayersState() UnrewardedRelayersState {
	state := UnrewardedRelayersState{
		UnrewardedRelayerEntries: MessageNonce(len(d.Relayers)),
		TotalMessages:            TotalUnrewardedMessages(d.Relayers),
	}
	if len(d.Relayers) != 0 {
		state.MessagesInOldestEntry = d.Relayers[0].Messages.Len()
	}
	return state
}

// TotalUnrewardedMessages counts nonces from the first entry begin to the last entry end.
func TotalUnrewardedMessages(relayers []UnrewardedRelayer) MessageNonce {
	if len(relayers) == 0 {
		return 0
	}

	first := relayers[0].Messages.Begin
	last := relayers[len(relayers)-1].Messages.End
	if last < first {
		return 0
	}
	return last - first + 1
}

// UnrewardedRelayersState is declared by the submitter of a delivery confirmation, it bounds the
// weight of the confirmation transaction.
type UnrewardedRelayersState struct {
	UnrewardedRelayerEntries MessageNonce
	MessagesInOldestEntry    MessageNonce
	TotalMessages            MessageNonce
}

// OutboundLaneData is the sending side ledger of a lane.
type OutboundLaneData struct {
	LatestGeneratedNonce MessageNonce
	LatestReceivedNonce  MessageNonce
}

// QueuedMessages returns number of sent messages that are not yet confirmed.
func (d OutboundLaneData) QueuedMessages() MessageNonce {
	if d.LatestGeneratedNonce < d.LatestReceivedNonce {
		return 0
	}
	return d.LatestGeneratedNonce - d.LatestReceivedNonce
}
