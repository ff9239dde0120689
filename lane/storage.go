// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package lane

// InboundLaneStorage is the backend of an inbound lane.
type InboundLaneStorage interface {
	ID() LaneID
	// MaxUnrewardedRelayerEntries bounds the number of entries in the relayers list.
	MaxUnrewardedRelayerEntries() MessageNonce
	// MaxUnconfirmedMessages bounds the number of received but not yet confirmed messages.
	MaxUnconfirmedMessages() MessageNonce
	Data() InboundLaneData
	SetData(data InboundLaneData)
	Message(nonce MessageNonce) (MessageData, bool)
	SaveMessage(nonce MessageNonce, data MessageData)
	RemoveMessage(nonce MessageNonce)
}

// OutboundLaneStorage is the backend of an outbound lane.
type OutboundLaneStorage interface {
	ID() LaneID
	Data() OutboundLaneData
	SetData(data OutboundLaneData)
	Message(nonce MessageNonce) (MessageData, bool)
	SaveMessage(nonce MessageNonce, data MessageData)
	// MessagePayer is the account that paid the fee of the stored message.
	MessagePayer(nonce MessageNonce) (RelayerID, bool)
	SaveMessagePayer(nonce MessageNonce, payer RelayerID)
	// RemoveMessage removes the message together with its payer.
	RemoveMessage(nonce MessageNonce)
}

// MemoryInboundStorage keeps inbound lane state in memory.
type MemoryInboundStorage struct {
	id             LaneID
	maxEntries     MessageNonce
	maxUnconfirmed MessageNonce
	data           InboundLaneData
	messages       map[MessageNonce]MessageData
}

func NewMemoryInboundStorage(id LaneID, maxEntries MessageNonce, maxUnconfirmed MessageNonce) *MemoryInboundStorage {
	return &MemoryInboundStorage{
		id:             id,
		maxEntries:     maxEntries,
		maxUnconfirmed: maxUnconfirmed,
		data:           DefaultInboundLaneData(),
		messages:       make(map[MessageNonce]MessageData),
	}
}

func (s *MemoryInboundStorage) ID() LaneID {
	return s.id
}

func (s *MemoryInboundStorage) MaxUnrewardedRelayerEntries() MessageNonce {
	return s.maxEntries
}

func (s *MemoryInboundStorage) MaxUnconfirmedMessages() MessageNonce {
	return s.maxUnconfirmed
}

func (s *MemoryInboundStorage) Data() InboundLaneData {
	data := s.data
	data.Relayers = append([]UnrewardedRelayer{}, s.data.Relayers...)
	return data
}

func (s *MemoryInboundStorage) SetData(data InboundLaneData) {
	s.data = data
}

func (s *MemoryInboundStorage) Message(nonce MessageNonce) (MessageData, bool) {
	data, ok := s.messages[nonce]
	return data, ok
}

func (s *MemoryInboundStorage) SaveMessage(nonce MessageNonce, data MessageData) {
	s.messages[nonce] = data
}

func (s *MemoryInboundStorage) RemoveMessage(nonce MessageNonce) {
	delete(s.messages, nonce)
}

// MemoryOutboundStorage keeps outbound lane state in memory.
type MemoryOutboundStorage struct {
	id       LaneID
	data     OutboundLaneData
	messages map[MessageNonce]MessageData
	payers   map[MessageNonce]RelayerID
}

func NewMemoryOutboundStorage(id LaneID) *MemoryOutboundStorage {
	return &MemoryOutboundStorage{
		id:       id,
		messages: make(map[MessageNonce]MessageData),
		payers:   make(map[MessageNonce]RelayerID),
	}
}

func (s *MemoryOutboundStorage) ID() LaneID {
	return s.id
}

func (s *MemoryOutboundStorage) Data() OutboundLaneData {
	return s.data
}

func (s *MemoryOutboundStorage) SetData(data OutboundLaneData) {
	s.data = data
}

func (s *MemoryOutboundStorage) Message(nonce MessageNonce) (MessageData, bool) {
	data, ok := s.messages[nonce]
	return data, ok
}

func (s *MemoryOutboundStorage) SaveMessage(nonce MessageNonce, data MessageData) {
	s.messages[nonce] = data
}

func (s *MemoryOutboundStorage) MessagePayer(nonce MessageNonce) (RelayerID, bool) {
	payer, ok := s.payers[nonce]
	return payer, ok
}

func (s *MemoryOutboundStorage) SaveMessagePayer(nonce MessageNonce, payer RelayerID) {
	s.payers[nonce] = payer
}

func (s *MemoryOutboundStorage) RemoveMessage(nonce MessageNonce) {
	delete(s.messages, nonce)
	delete(s.payers, nonce)
}
