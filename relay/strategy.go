// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package relay

import (
	"math/big"

	"github.com/sprintertech/lane-bridge/lane"
	"github.com/sprintertech/lane-bridge/policy"
)

// TargetNonces is the inbound lane state of the target chain, as seen by the delivery race.
type TargetNonces struct {
	LatestReceived  lane.MessageNonce
	LatestConfirmed lane.MessageNonce
	Relayers        lane.UnrewardedRelayersState
}

func targetNonces(data lane.InboundLaneData) TargetNonces {
	return TargetNonces{
		LatestReceived:  data.LatestReceivedNonce,
		LatestConfirmed: data.LastConfirmedNonce,
		Relayers:        data.UnrewardedRelayersState(),
	}
}

// Selection is the content of a single delivery transaction. An empty nonce range with
// IncludeState set only carries the outbound lane state to unblock the lane.
type Selection struct {
	Begin          lane.MessageNonce
	End            lane.MessageNonce
	IncludeState   bool
	DispatchWeight policy.Weight
	Size           uint64
	Fee            *big.Int

	// fees of the selected messages, starting at Begin
	fees []*big.Int
}

func (s Selection) Count() lane.MessageNonce {
	if s.End < s.Begin {
		return 0
	}
	return s.End - s.Begin + 1
}

// FeeOf sums the fees of the selected messages [begin, end].
func (s Selection) FeeOf(begin lane.MessageNonce, end lane.MessageNonce) *big.Int {
	fee := big.NewInt(0)
	for nonce := max(begin, s.Begin); nonce <= end && nonce <= s.End; nonce++ {
		i := int(nonce - s.Begin)
		if i < len(s.fees) && s.fees[i] != nil {
			fee.Add(fee, s.fees[i])
		}
	}
	return fee
}

// selectNoncesToDeliver picks the messages of the next delivery transaction. available holds
// details of consecutive undelivered messages that the target can verify, confirmedAtSource is
// the latest confirmed nonce the source state proof would carry.
func selectNoncesToDeliver(
	params DeliveryParams,
	target TargetNonces,
	confirmedAtSource lane.MessageNonce,
	available []MessageDetails,
) (Selection, bool) {
	stateRequired := target.LatestConfirmed < confirmedAtSource

	limitReached := target.Relayers.UnrewardedRelayerEntries >= params.MaxUnrewardedRelayerEntriesAtTarget ||
		target.Relayers.TotalMessages >= params.MaxUnconfirmedNoncesAtTarget
	if limitReached {
		var proved lane.MessageNonce
		if confirmedAtSource > target.LatestConfirmed {
			proved = confirmedAtSource - target.LatestConfirmed
		}
		if proved < target.Relayers.MessagesInOldestEntry {
			return Selection{}, false
		}
	}

	futureConfirmed := target.LatestConfirmed
	if stateRequired {
		futureConfirmed = confirmedAtSource
	}
	var maxNonces lane.MessageNonce
	if target.LatestReceived >= futureConfirmed {
		unconfirmed := target.LatestReceived - futureConfirmed
		if params.MaxUnconfirmedNoncesAtTarget > unconfirmed {
			maxNonces = params.MaxUnconfirmedNoncesAtTarget - unconfirmed
		}
	}
	if maxNonces > params.MaxMessagesInSingleBatch {
		maxNonces = params.MaxMessagesInSingleBatch
	}

	selection := Selection{
		Begin:        target.LatestReceived + 1,
		End:          target.LatestReceived,
		IncludeState: stateRequired,
		Fee:          big.NewInt(0),
	}
	for _, details := range available {
		if selection.Count() >= maxNonces {
			break
		}
		if details.Nonce <= selection.End {
			continue
		}
		if details.Nonce != selection.End+1 {
			break
		}

		weight := selection.DispatchWeight + details.DispatchWeight
		size := selection.Size + details.Size
		overflows := weight > params.MaxMessagesWeightInSingleBatch || size > params.MaxMessagesSizeInSingleBatch
		if overflows && selection.Count() > 0 {
			break
		}

		selection.End = details.Nonce
		selection.DispatchWeight = weight
		selection.Size = size
		selection.fees = append(selection.fees, details.Fee)
		if details.Fee != nil {
			selection.Fee.Add(selection.Fee, details.Fee)
		}
		if overflows {
			break
		}
	}

	if selection.Count() > 0 {
		return selection, true
	}
	if limitReached && stateRequired {
		return selection, true
	}
	return Selection{}, false
}
