// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package relay

import (
	"fmt"

	"github.com/sprintertech/lane-bridge/lane"
	"github.com/sprintertech/lane-bridge/policy"
)

// ProtocolLimits are the limits the bridged runtime enforces on a single confirmation transaction.
type ProtocolLimits struct {
	MaxUnrewardedRelayersInConfirmationTx  lane.MessageNonce
	MaxUnconfirmedMessagesInConfirmationTx lane.MessageNonce
}

// DeliveryParams bound what a single delivery transaction may carry.
type DeliveryParams struct {
	MaxUnrewardedRelayerEntriesAtTarget lane.MessageNonce
	MaxUnconfirmedNoncesAtTarget        lane.MessageNonce
	MaxMessagesInSingleBatch            lane.MessageNonce
	MaxMessagesWeightInSingleBatch      policy.Weight
	MaxMessagesSizeInSingleBatch        uint64
}

func (p DeliveryParams) Validate(limits ProtocolLimits) error {
	if p.MaxMessagesInSingleBatch == 0 {
		return fmt.Errorf("max messages in single batch is not set")
	}
	if p.MaxMessagesWeightInSingleBatch == 0 || p.MaxMessagesSizeInSingleBatch == 0 {
		return fmt.Errorf("max messages weight and size in single batch are required")
	}
	if p.MaxUnrewardedRelayerEntriesAtTarget == 0 || p.MaxUnconfirmedNoncesAtTarget == 0 {
		return fmt.Errorf("limits of unrewarded relayers and unconfirmed nonces at target are required")
	}
	if p.MaxUnrewardedRelayerEntriesAtTarget > limits.MaxUnrewardedRelayersInConfirmationTx {
		return fmt.Errorf(
			"max unrewarded relayer entries at target %d exceeds protocol limit %d",
			p.MaxUnrewardedRelayerEntriesAtTarget,
			limits.MaxUnrewardedRelayersInConfirmationTx,
		)
	}
	if p.MaxUnconfirmedNoncesAtTarget > limits.MaxUnconfirmedMessagesInConfirmationTx {
		return fmt.Errorf(
			"max unconfirmed nonces at target %d exceeds protocol limit %d",
			p.MaxUnconfirmedNoncesAtTarget,
			limits.MaxUnconfirmedMessagesInConfirmationTx,
		)
	}
	return nil
}
