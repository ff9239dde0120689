// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package relay

import (
	"context"
	"math/big"
	"time"

	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/sprintertech/lane-bridge/chains"
	"github.com/sprintertech/lane-bridge/finality"
	"github.com/sprintertech/lane-bridge/lane"
	"github.com/sprintertech/lane-bridge/policy"
	"github.com/sprintertech/lane-bridge/proof"
)

// MessageDetails describes an outbound message as seen by the relayer.
type MessageDetails struct {
	Nonce          lane.MessageNonce
	DispatchWeight policy.Weight
	Size           uint64
	Fee            *big.Int
}

// SourceClient is the sending side of a single lane.
type SourceClient interface {
	State(ctx context.Context) (chains.ClientState, error)
	OutboundLaneData(ctx context.Context, at chains.HeaderID) (lane.OutboundLaneData, error)
	// MessageDetails returns details of the messages [begin, end] stored at the header at.
	MessageDetails(ctx context.Context, at chains.HeaderID, begin lane.MessageNonce, end lane.MessageNonce) ([]MessageDetails, error)
	ProveMessages(ctx context.Context, at chains.HeaderID, begin lane.MessageNonce, end lane.MessageNonce, includeState bool) (proof.MessagesProof, error)
	SubmitMessagesDeliveryProof(ctx context.Context, p proof.MessagesDeliveryProof, relayersState lane.UnrewardedRelayersState) (chains.TransactionTracker, error)
}

// TargetClient is the receiving side of a single lane.
type TargetClient interface {
	State(ctx context.Context) (chains.ClientState, error)
	// Relayer is the account credited for deliveries submitted through this client.
	Relayer() lane.RelayerID
	InboundLaneData(ctx context.Context, at chains.HeaderID) (lane.InboundLaneData, error)
	ProveMessagesDelivery(ctx context.Context, at chains.HeaderID) (proof.MessagesDeliveryProof, error)
	SubmitMessagesProof(ctx context.Context, p proof.MessagesProof, dispatchWeight policy.Weight) (chains.TransactionTracker, error)
}

// ChainClient gives access to one chain of the bridge.
type ChainClient interface {
	GenesisHash(ctx context.Context) (types.Hash, error)
	// Headers returns the finalized headers of this chain.
	Headers() finality.SourceClient
	// PeerHeaders returns the header chain of the bridged chain hosted by this chain.
	PeerHeaders() finality.TargetClient
	OutboundLane(id lane.LaneID) SourceClient
	InboundLane(id lane.LaneID) TargetClient
}

type HeaderRequirer interface {
	RequireHeader(number uint64)
}

// RewardLedger keeps track of rewards earned by this relayer per lane direction.
type RewardLedger interface {
	RecordDelivery(direction string, id lane.LaneID, messages lane.DeliveredMessages, fee *big.Int) error
	ConfirmDelivery(direction string, id lane.LaneID, upTo lane.MessageNonce) error
}

type Metrics interface {
	finality.Metrics
	TrackLaneNonces(direction string, id lane.LaneID, generated lane.MessageNonce, received lane.MessageNonce, confirmed lane.MessageNonce)
	TrackDeliveryStarted(direction string, id lane.LaneID, end lane.MessageNonce)
	TrackDeliveryFinalized(direction string, id lane.LaneID, end lane.MessageNonce)
}

// LaneStatus is the last observed state of a lane direction.
type LaneStatus struct {
	Lane                 string            `json:"lane"`
	Source               string            `json:"source"`
	Target               string            `json:"target"`
	LatestGeneratedNonce lane.MessageNonce `json:"latestGeneratedNonce"`
	LatestReceivedNonce  lane.MessageNonce `json:"latestReceivedNonce"`
	LatestConfirmedNonce lane.MessageNonce `json:"latestConfirmedNonce"`
	BestSourceHeader     uint64            `json:"bestSourceHeader"`
	BestTargetHeader     uint64            `json:"bestTargetHeader"`
	UpdatedAt            time.Time         `json:"updatedAt"`
}

// Key identifies the lane direction of the status.
func (s LaneStatus) Key() string {
	return s.Source + "-" + s.Target + "-" + s.Lane
}

type StatusObserver interface {
	ObserveLaneStatus(status LaneStatus)
}
