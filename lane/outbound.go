// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package lane

import (
	"math/big"
)

type ConfirmationResult int

const (
	NoNewConfirmations ConfirmationResult = iota
	ConfirmedMessages
	FailedToConfirmFutureMessages
	InvalidRelayerEntries
)

func (r ConfirmationResult) String() string {
	switch r {
	case NoNewConfirmations:
		return "NoNewConfirmations"
	case ConfirmedMessages:
		return "ConfirmedMessages"
	case FailedToConfirmFutureMessages:
		return "FailedToConfirmFutureMessages"
	case InvalidRelayerEntries:
		return "InvalidRelayerEntries"
	default:
		return "UnknownConfirmationResult"
	}
}

// FeePayment is the part of a reward paid for by one message sender.
type FeePayment struct {
	Payer RelayerID
	Fee   *big.Int
}

// RelayerReward is the sum of fees of messages in the range delivered by the relayer.
// Payments break the sum down by the accounts that paid the fees.
type RelayerReward struct {
	Relayer  RelayerID
	Messages DeliveredMessages
	Fee      *big.Int
	Payments []FeePayment
}

type DeliveryConfirmation struct {
	Result    ConfirmationResult
	Confirmed DeliveredMessages
	Rewards   []RelayerReward
}

// OutboundLane assigns nonces to outgoing messages and keeps them until delivery is proven.
type OutboundLane struct {
	storage OutboundLaneStorage
}

func NewOutboundLane(storage OutboundLaneStorage) *OutboundLane {
	return &OutboundLane{
		storage: storage,
	}
}

func (l *OutboundLane) ID() LaneID {
	return l.storage.ID()
}

func (l *OutboundLane) Data() OutboundLaneData {
	return l.storage.Data()
}

func (l *OutboundLane) Message(nonce MessageNonce) (MessageData, bool) {
	return l.storage.Message(nonce)
}

// Send stores the message paid for by payer and returns its nonce.
func (l *OutboundLane) Send(data MessageData, payer RelayerID) MessageNonce {
	state := l.storage.Data()
	nonce := state.LatestGeneratedNonce + 1
	state.LatestGeneratedNonce = nonce

	l.storage.SaveMessage(nonce, data)
	l.storage.SaveMessagePayer(nonce, payer)
	l.storage.SetData(state)
	return nonce
}

// ConfirmDelivery marks messages up to and including upTo as delivered, computes the rewards of
// relayers that delivered them and prunes the confirmed messages.
func (l *OutboundLane) ConfirmDelivery(upTo MessageNonce, relayers []UnrewardedRelayer) DeliveryConfirmation {
	state := l.storage.Data()
	if upTo <= state.LatestReceivedNonce {
		return DeliveryConfirmation{Result: NoNewConfirmations}
	}
	if upTo > state.LatestGeneratedNonce {
		return DeliveryConfirmation{Result: FailedToConfirmFutureMessages}
	}
	if !validRelayerEntries(relayers) {
		return DeliveryConfirmation{Result: InvalidRelayerEntries}
	}

	confirmed := DeliveredMessages{
		Begin: state.LatestReceivedNonce + 1,
		End:   upTo,
	}

	rewards := make([]RelayerReward, 0, len(relayers))
	for _, entry := range relayers {
		begin := max(entry.Messages.Begin, confirmed.Begin)
		end := min(entry.Messages.End, confirmed.End)
		if begin > end {
			continue
		}

		fee := big.NewInt(0)
		payments := make([]FeePayment, 0)
		for nonce := begin; nonce <= end; nonce++ {
			data, ok := l.storage.Message(nonce)
			if !ok || data.Fee == nil {
				continue
			}
			fee.Add(fee, data.Fee)

			payer, _ := l.storage.MessagePayer(nonce)
			payments = addPayment(payments, payer, data.Fee)
		}

		rewards = append(rewards, RelayerReward{
			Relayer:  entry.Relayer,
			Messages: DeliveredMessages{Begin: begin, End: end},
			Fee:      fee,
			Payments: payments,
		})
	}

	for nonce := confirmed.Begin; nonce <= confirmed.End; nonce++ {
		l.storage.RemoveMessage(nonce)
	}
	state.LatestReceivedNonce = upTo
	l.storage.SetData(state)

	return DeliveryConfirmation{
		Result:    ConfirmedMessages,
		Confirmed: confirmed,
		Rewards:   rewards,
	}
}

func addPayment(payments []FeePayment, payer RelayerID, fee *big.Int) []FeePayment {
	for i := range payments {
		if payments[i].Payer == payer {
			payments[i].Fee.Add(payments[i].Fee, fee)
			return payments
		}
	}
	return append(payments, FeePayment{Payer: payer, Fee: new(big.Int).Set(fee)})
}

func validRelayerEntries(relayers []UnrewardedRelayer) bool {
	var previousEnd MessageNonce
	for i, entry := range relayers {
		if entry.Messages.Begin > entry.Messages.End {
			return false
		}
		if i != 0 && entry.Messages.Begin <= previousEnd {
			return false
		}
		previousEnd = entry.Messages.End
	}
	return true
}
