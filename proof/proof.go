// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package proof

import (
	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types/codec"
	"github.com/sprintertech/lane-bridge/lane"
)

// StorageProof is a set of raw trie nodes.
type StorageProof [][]byte

// MessagesProof proves messages of one lane, and optionally the outbound lane state, at the
// bridged chain header BridgedHeaderHash.
type MessagesProof struct {
	BridgedHeaderHash types.Hash
	StorageProof      StorageProof
	Lane              lane.LaneID
	NoncesStart       lane.MessageNonce
	NoncesEnd         lane.MessageNonce
}

// Count returns the number of messages the proof claims to carry.
func (p MessagesProof) Count() lane.MessageNonce {
	if p.NoncesEnd < p.NoncesStart {
		return 0
	}
	return p.NoncesEnd - p.NoncesStart + 1
}

// MessagesDeliveryProof proves the inbound lane state at the bridged chain header BridgedHeaderHash.
type MessagesDeliveryProof struct {
	BridgedHeaderHash types.Hash
	StorageProof      StorageProof
	Lane              lane.LaneID
}

// ProvedLaneMessages is the content of a verified messages proof for a single lane.
type ProvedLaneMessages struct {
	LaneState *lane.OutboundLaneData
	Messages  []lane.Message
}

type ProvedMessages map[lane.LaneID]ProvedLaneMessages

// EncodeStorageProof returns the SCALE Vec<Vec<u8>> form used by the proof RPC.
func EncodeStorageProof(p StorageProof) ([]byte, error) {
	return codec.Encode([][]byte(p))
}

func DecodeStorageProof(data []byte) (StorageProof, error) {
	var nodes [][]byte
	err := codec.Decode(data, &nodes)
	return StorageProof(nodes), err
}

func EncodeMessagesProof(p MessagesProof) ([]byte, error) {
	return codec.Encode(p)
}

func DecodeMessagesProof(data []byte) (MessagesProof, error) {
	var p MessagesProof
	err := codec.Decode(data, &p)
	return p, err
}

func EncodeMessagesDeliveryProof(p MessagesDeliveryProof) ([]byte, error) {
	return codec.Encode(p)
}

func DecodeMessagesDeliveryProof(data []byte) (MessagesDeliveryProof, error) {
	var p MessagesDeliveryProof
	err := codec.Decode(data, &p)
	return p, err
}
