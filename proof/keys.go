// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package proof

import (
	"encoding/binary"

	"github.com/centrifuge/go-substrate-rpc-client/v4/xxhash"
	"github.com/sprintertech/lane-bridge/lane"
	"golang.org/x/crypto/blake2b"
)

const (
	OUTBOUND_MESSAGES_ITEM       = "OutboundMessages"
	OUTBOUND_MESSAGE_PAYERS_ITEM = "OutboundMessagePayers"
	INBOUND_MESSAGES_ITEM        = "InboundMessages"
	OUTBOUND_LANES_ITEM          = "OutboundLanes"
	INBOUND_LANES_ITEM           = "InboundLanes"
)

// Hasher is the storage map key hasher of a storage item.
type Hasher int

const (
	Identity Hasher = iota
	Blake2_128Concat
	Twox64Concat
)

func (h Hasher) hash(key []byte) []byte {
	switch h {
	case Blake2_128Concat:
		{
			hasher, _ := blake2b.New(16, nil)
			hasher.Write(key)
			return append(hasher.Sum(nil), key...)
		}
	case Twox64Concat:
		{
			return append(xxhash.New64(key).Sum(nil), key...)
		}
	default:
		{
			return append([]byte{}, key...)
		}
	}
}

// StorageValueKey returns twox128(pallet) ++ twox128(item).
func StorageValueKey(pallet string, item string) []byte {
	key := xxhash.New128([]byte(pallet)).Sum(nil)
	return append(key, xxhash.New128([]byte(item)).Sum(nil)...)
}

// StorageMapKey returns the raw storage key of the map entry under key.
func StorageMapKey(pallet string, item string, hasher Hasher, key []byte) []byte {
	return append(StorageValueKey(pallet, item), hasher.hash(key)...)
}

// StorageKeys derives keys of the messages pallet storage items.
type StorageKeys struct {
	pallet string
}

func NewStorageKeys(pallet string) StorageKeys {
	return StorageKeys{pallet: pallet}
}

func (k StorageKeys) Pallet() string {
	return k.pallet
}

func (k StorageKeys) MessageKey(id lane.LaneID, nonce lane.MessageNonce) []byte {
	return StorageMapKey(k.pallet, OUTBOUND_MESSAGES_ITEM, Blake2_128Concat, encodeMessageKey(id, nonce))
}

// MessagePayerKey is the key of the account that paid the fee of a sent message.
func (k StorageKeys) MessagePayerKey(id lane.LaneID, nonce lane.MessageNonce) []byte {
	return StorageMapKey(k.pallet, OUTBOUND_MESSAGE_PAYERS_ITEM, Blake2_128Concat, encodeMessageKey(id, nonce))
}

// InboundMessageKey is the key of a received message waiting to be processed.
func (k StorageKeys) InboundMessageKey(id lane.LaneID, nonce lane.MessageNonce) []byte {
	return StorageMapKey(k.pallet, INBOUND_MESSAGES_ITEM, Blake2_128Concat, encodeMessageKey(id, nonce))
}

func (k StorageKeys) OutboundLaneDataKey(id lane.LaneID) []byte {
	return StorageMapKey(k.pallet, OUTBOUND_LANES_ITEM, Blake2_128Concat, id[:])
}

func (k StorageKeys) InboundLaneDataKey(id lane.LaneID) []byte {
	return StorageMapKey(k.pallet, INBOUND_LANES_ITEM, Blake2_128Concat, id[:])
}

func encodeMessageKey(id lane.LaneID, nonce lane.MessageNonce) []byte {
	key := make([]byte, len(id)+8)
	copy(key, id[:])
	binary.LittleEndian.PutUint64(key[len(id):], uint64(nonce))
	return key
}
