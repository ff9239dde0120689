// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package lane

// MessageProcessor dispatches received messages. Process returns false to defer the message,
// in which case it is retried by a later ProcessMessages call.
type MessageProcessor interface {
	Process(message Message) bool
}

// ProcessorFunc adapts a function to the MessageProcessor interface.
type ProcessorFunc func(message Message) bool

func (f ProcessorFunc) Process(message Message) bool {
	return f(message)
}

// InboundLane accepts proven messages from the bridged chain in nonce order.
type InboundLane struct {
	storage InboundLaneStorage
}

func NewInboundLane(storage InboundLaneStorage) *InboundLane {
	return &InboundLane{
		storage: storage,
	}
}

func (l *InboundLane) ID() LaneID {
	return l.storage.ID()
}

func (l *InboundLane) Data() InboundLaneData {
	return l.storage.Data()
}

// ReceiveMessage accepts the message only if it is the next one expected by the lane and
// the unrewarded relayers limits allow it. Rejected messages leave the lane untouched.
func (l *InboundLane) ReceiveMessage(
	relayer RelayerID,
	nonce MessageNonce,
	data MessageData,
	processor MessageProcessor,
) bool {
	state := l.storage.Data()
	if nonce != state.LatestReceivedNonce+1 {
		return false
	}

	if nonce-state.LastConfirmedNonce > l.storage.MaxUnconfirmedMessages() {
		return false
	}

	entries := len(state.Relayers)
	extendsLastEntry := entries != 0 &&
		state.Relayers[entries-1].Relayer == relayer &&
		state.Relayers[entries-1].Messages.End+1 == nonce
	if !extendsLastEntry && MessageNonce(entries) >= l.storage.MaxUnrewardedRelayerEntries() {
		return false
	}

	if extendsLastEntry {
		state.Relayers[entries-1].Messages.End = nonce
	} else {
		state.Relayers = append(state.Relayers, UnrewardedRelayer{
			Relayer:  relayer,
			Messages: DeliveredMessages{Begin: nonce, End: nonce},
		})
	}
	state.LatestReceivedNonce = nonce

	message := Message{
		Key:  MessageKey{LaneID: l.storage.ID(), Nonce: nonce},
		Data: data,
	}
	if state.OldestUnprocessedNonce == nonce && processor.Process(message) {
		state.OldestUnprocessedNonce = nonce + 1
	} else {
		l.storage.SaveMessage(nonce, data)
	}

	l.storage.SetData(state)
	return true
}

// ProcessMessages dispatches stored messages starting at the oldest unprocessed nonce and
// stops at the first deferred message. It returns the number of processed messages.
func (l *InboundLane) ProcessMessages(processor MessageProcessor) MessageNonce {
	state := l.storage.Data()

	var processed MessageNonce
	for state.OldestUnprocessedNonce <= state.LatestReceivedNonce {
		nonce := state.OldestUnprocessedNonce
		data, ok := l.storage.Message(nonce)
		if !ok {
			// every received and unprocessed message is stored
			break
		}

		message := Message{
			Key:  MessageKey{LaneID: l.storage.ID(), Nonce: nonce},
			Data: data,
		}
		if !processor.Process(message) {
			break
		}

		l.storage.RemoveMessage(nonce)
		state.OldestUnprocessedNonce = nonce + 1
		processed++
	}

	if processed != 0 {
		l.storage.SetData(state)
	}
	return processed
}

// ReceiveStateUpdate applies the outbound lane state of the bridged chain. Relayer entries that
// the bridged chain has already confirmed are removed. It returns the new last confirmed nonce
// if it has changed.
func (l *InboundLane) ReceiveStateUpdate(outbound OutboundLaneData) (MessageNonce, bool) {
	state := l.storage.Data()
	confirmed := outbound.LatestReceivedNonce
	if confirmed <= state.LastConfirmedNonce {
		return 0, false
	}
	if confirmed > state.LatestReceivedNonce {
		// bridged chain can't confirm messages we have never received
		return 0, false
	}

	state.LastConfirmedNonce = confirmed
	for len(state.Relayers) != 0 && state.Relayers[0].Messages.End <= confirmed {
		state.Relayers = state.Relayers[1:]
	}
	if len(state.Relayers) != 0 && state.Relayers[0].Messages.Begin <= confirmed {
		state.Relayers[0].Messages.Begin = confirmed + 1
	}

	l.storage.SetData(state)
	return confirmed, true
}
