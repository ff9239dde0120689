// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package runtime

import (
	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types/codec"
	"github.com/rs/zerolog/log"
	"github.com/sprintertech/lane-bridge/lane"
	"github.com/sprintertech/lane-bridge/proof"
)

// State is the key value state of the chain. Writes are collected in memory and committed
// to the state trie when a block is sealed.
type State struct {
	values map[string][]byte
	dirty  map[string]bool
	trie   *proof.StateTrie
}

func NewState() *State {
	return &State{
		values: make(map[string][]byte),
		dirty:  make(map[string]bool),
		trie:   proof.NewStateTrie(),
	}
}

func (s *State) Get(key []byte) ([]byte, bool) {
	value, ok := s.values[string(key)]
	return value, ok
}

func (s *State) Set(key []byte, value []byte) {
	s.values[string(key)] = value
	s.dirty[string(key)] = true
}

func (s *State) Delete(key []byte) {
	delete(s.values, string(key))
	s.dirty[string(key)] = true
}

// Commit writes pending changes to the trie and returns the new state root together with an
// immutable snapshot of the trie.
func (s *State) Commit() (types.Hash, *proof.StateTrie, error) {
	for key := range s.dirty {
		value, ok := s.values[key]

		var err error
		if ok {
			err = s.trie.Update([]byte(key), value)
		} else {
			err = s.trie.Delete([]byte(key))
		}
		if err != nil {
			return types.Hash{}, nil, err
		}
	}
	s.dirty = make(map[string]bool)

	return s.trie.Root(), s.trie.Snapshot(), nil
}

func (s *State) getDecoded(key []byte, target interface{}) bool {
	value, ok := s.Get(key)
	if !ok {
		return false
	}

	err := codec.Decode(value, target)
	if err != nil {
		log.Error().Err(err).Msgf("Failed to decode state value under %x", key)
		return false
	}
	return true
}

func (s *State) setEncoded(key []byte, value interface{}) {
	encoded, err := codec.Encode(value)
	if err != nil {
		log.Error().Err(err).Msgf("Failed to encode state value under %x", key)
		return
	}
	s.Set(key, encoded)
}

// inboundStorage keeps the inbound lane ledger and queued messages in chain state.
type inboundStorage struct {
	state          *State
	keys           proof.StorageKeys
	id             lane.LaneID
	maxEntries     lane.MessageNonce
	maxUnconfirmed lane.MessageNonce
}

func (s *inboundStorage) ID() lane.LaneID {
	return s.id
}

func (s *inboundStorage) MaxUnrewardedRelayerEntries() lane.MessageNonce {
	return s.maxEntries
}

func (s *inboundStorage) MaxUnconfirmedMessages() lane.MessageNonce {
	return s.maxUnconfirmed
}

func (s *inboundStorage) Data() lane.InboundLaneData {
	var data lane.InboundLaneData
	if !s.state.getDecoded(s.keys.InboundLaneDataKey(s.id), &data) {
		return lane.DefaultInboundLaneData()
	}
	return data
}

func (s *inboundStorage) SetData(data lane.InboundLaneData) {
	s.state.setEncoded(s.keys.InboundLaneDataKey(s.id), data)
}

func (s *inboundStorage) Message(nonce lane.MessageNonce) (lane.MessageData, bool) {
	var data lane.MessageData
	ok := s.state.getDecoded(s.keys.InboundMessageKey(s.id, nonce), &data)
	return data, ok
}

func (s *inboundStorage) SaveMessage(nonce lane.MessageNonce, data lane.MessageData) {
	s.state.setEncoded(s.keys.InboundMessageKey(s.id, nonce), data)
}

func (s *inboundStorage) RemoveMessage(nonce lane.MessageNonce) {
	s.state.Delete(s.keys.InboundMessageKey(s.id, nonce))
}

// outboundStorage keeps the outbound lane ledger and sent messages in chain state.
type outboundStorage struct {
	state *State
	keys  proof.StorageKeys
	id    lane.LaneID
}

func (s *outboundStorage) ID() lane.LaneID {
	return s.id
}

func (s *outboundStorage) Data() lane.OutboundLaneData {
	var data lane.OutboundLaneData
	s.state.getDecoded(s.keys.OutboundLaneDataKey(s.id), &data)
	return data
}

func (s *outboundStorage) SetData(data lane.OutboundLaneData) {
	s.state.setEncoded(s.keys.OutboundLaneDataKey(s.id), data)
}

func (s *outboundStorage) Message(nonce lane.MessageNonce) (lane.MessageData, bool) {
	var data lane.MessageData
	ok := s.state.getDecoded(s.keys.MessageKey(s.id, nonce), &data)
	return data, ok
}

func (s *outboundStorage) SaveMessage(nonce lane.MessageNonce, data lane.MessageData) {
	s.state.setEncoded(s.keys.MessageKey(s.id, nonce), data)
}

func (s *outboundStorage) MessagePayer(nonce lane.MessageNonce) (lane.RelayerID, bool) {
	var payer lane.RelayerID
	ok := s.state.getDecoded(s.keys.MessagePayerKey(s.id, nonce), &payer)
	return payer, ok
}

func (s *outboundStorage) SaveMessagePayer(nonce lane.MessageNonce, payer lane.RelayerID) {
	s.state.setEncoded(s.keys.MessagePayerKey(s.id, nonce), payer)
}

func (s *outboundStorage) RemoveMessage(nonce lane.MessageNonce) {
	s.state.Delete(s.keys.MessageKey(s.id, nonce))
	s.state.Delete(s.keys.MessagePayerKey(s.id, nonce))
}
