// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package runtime

import (
	"github.com/rs/zerolog/log"
	"github.com/sprintertech/lane-bridge/lane"
	"github.com/sprintertech/lane-bridge/policy"
)

// Dispatcher executes the call carried by a delivered message.
type Dispatcher interface {
	Dispatch(message lane.Message, payload policy.MessagePayload) error
}

type DispatcherFunc func(message lane.Message, payload policy.MessagePayload) error

func (f DispatcherFunc) Dispatch(message lane.Message, payload policy.MessagePayload) error {
	return f(message, payload)
}

// budgetProcessor dispatches messages while their declared weight fits into the remaining
// block dispatch weight and defers them otherwise.
type budgetProcessor struct {
	chain      *Chain
	dispatcher Dispatcher
	remaining  *policy.Weight
}

func (p *budgetProcessor) Process(message lane.Message) bool {
	payload, err := policy.DecodePayload(message.Data.Payload)
	if err != nil {
		log.Warn().Err(err).Msgf("Dropping undecodable message %d of lane %s", message.Key.Nonce, message.Key.LaneID)
		p.chain.depositEvent(Event{Kind: MessageDispatchFailed, Lane: message.Key.LaneID, Nonces: single(message.Key.Nonce)})
		return true
	}
	if payload.Weight > *p.remaining {
		return false
	}
	*p.remaining -= payload.Weight

	kind := MessageDispatched
	err = p.dispatcher.Dispatch(message, payload)
	if err != nil {
		log.Debug().Err(err).Msgf("Message %d of lane %s failed to dispatch", message.Key.Nonce, message.Key.LaneID)
		kind = MessageDispatchFailed
	}
	p.chain.depositEvent(Event{Kind: kind, Lane: message.Key.LaneID, Nonces: single(message.Key.Nonce)})
	return true
}

func single(nonce lane.MessageNonce) lane.DeliveredMessages {
	return lane.DeliveredMessages{Begin: nonce, End: nonce}
}
