// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package runtime

import (
	"github.com/sprintertech/lane-bridge/lane"
)

type EventKind string

const (
	MessageAccepted       EventKind = "MessageAccepted"
	MessagesReceived      EventKind = "MessagesReceived"
	MessagesDelivered     EventKind = "MessagesDelivered"
	MessageDispatched     EventKind = "MessageDispatched"
	MessageDispatchFailed EventKind = "MessageDispatchFailed"
	RelayerRewarded       EventKind = "RelayerRewarded"
	HeaderImported        EventKind = "HeaderImported"
)

type Event struct {
	Kind    EventKind
	Lane    lane.LaneID
	Nonces  lane.DeliveredMessages
	Account lane.RelayerID
}
