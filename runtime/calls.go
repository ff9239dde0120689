// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package runtime

import (
	"github.com/sprintertech/lane-bridge/headerchain"
	"github.com/sprintertech/lane-bridge/lane"
	"github.com/sprintertech/lane-bridge/policy"
	"github.com/sprintertech/lane-bridge/proof"
)

// Call is a transaction payload executed when a block is produced.
type Call interface {
	Name() string
	dispatch(c *Chain, processor lane.MessageProcessor) error
}

type SendMessageCall struct {
	Origin  headerchain.Origin
	Lane    lane.LaneID
	Payload policy.MessagePayload
}

func (c SendMessageCall) Name() string {
	return "send_message"
}

func (c SendMessageCall) dispatch(chain *Chain, _ lane.MessageProcessor) error {
	_, err := chain.messages.SendMessage(c.Origin, c.Lane, c.Payload)
	return err
}

type ReceiveMessagesProofCall struct {
	Relayer        lane.RelayerID
	Proof          proof.MessagesProof
	MessagesCount  lane.MessageNonce
	DispatchWeight policy.Weight
}

func (c ReceiveMessagesProofCall) Name() string {
	return "receive_messages_proof"
}

func (c ReceiveMessagesProofCall) dispatch(chain *Chain, processor lane.MessageProcessor) error {
	return chain.messages.ReceiveMessagesProof(c.Relayer, c.Proof, c.MessagesCount, c.DispatchWeight, processor)
}

type ReceiveMessagesDeliveryProofCall struct {
	Relayer       lane.RelayerID
	Proof         proof.MessagesDeliveryProof
	RelayersState lane.UnrewardedRelayersState
}

func (c ReceiveMessagesDeliveryProofCall) Name() string {
	return "receive_messages_delivery_proof"
}

func (c ReceiveMessagesDeliveryProofCall) dispatch(chain *Chain, _ lane.MessageProcessor) error {
	return chain.messages.ReceiveMessagesDeliveryProof(c.Relayer, c.Proof, c.RelayersState)
}

type SubmitFinalityProofCall struct {
	Relayer       lane.RelayerID
	Header        headerchain.Header
	Justification headerchain.Justification
}

func (c SubmitFinalityProofCall) Name() string {
	return "submit_finality_proof"
}

func (c SubmitFinalityProofCall) dispatch(chain *Chain, _ lane.MessageProcessor) error {
	err := chain.headers.SubmitFinalityProof(headerchain.SignedOrigin(c.Relayer), c.Header, c.Justification)
	if err != nil {
		return err
	}

	chain.depositEvent(Event{Kind: HeaderImported, Account: c.Relayer})
	return nil
}

type OperatingModule int

const (
	MessagesModule OperatingModule = iota
	HeaderChainModule
)

// SetOperatingModeCall halts or resumes one of the bridge modules.
type SetOperatingModeCall struct {
	Origin headerchain.Origin
	Module OperatingModule
	Halted bool
}

func (c SetOperatingModeCall) Name() string {
	return "set_operating_mode"
}

func (c SetOperatingModeCall) dispatch(chain *Chain, _ lane.MessageProcessor) error {
	switch {
	case c.Module == MessagesModule && c.Halted:
		return chain.messages.HaltOperations(c.Origin)
	case c.Module == MessagesModule:
		return chain.messages.ResumeOperations(c.Origin)
	case c.Halted:
		return chain.headers.HaltOperations(c.Origin)
	default:
		return chain.headers.ResumeOperations(c.Origin)
	}
}

// SetOwnerCall changes the owner of both bridge modules.
type SetOwnerCall struct {
	Origin headerchain.Origin
	Owner  *lane.RelayerID
}

func (c SetOwnerCall) Name() string {
	return "set_owner"
}

func (c SetOwnerCall) dispatch(chain *Chain, _ lane.MessageProcessor) error {
	err := chain.messages.SetOwner(c.Origin, c.Owner)
	if err != nil {
		return err
	}
	return chain.headers.SetOwner(c.Origin, c.Owner)
}
