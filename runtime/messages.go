// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package runtime

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/rs/zerolog/log"
	"github.com/sprintertech/lane-bridge/headerchain"
	"github.com/sprintertech/lane-bridge/lane"
	"github.com/sprintertech/lane-bridge/policy"
	"github.com/sprintertech/lane-bridge/proof"
)

var (
	ErrHalted                         = errors.New("messages module is halted")
	ErrBadOrigin                      = errors.New("origin is not allowed to call this method")
	ErrMessageRejectedByChainVerifier = errors.New("message rejected by chain verifier")
	ErrMessageRejectedByLaneVerifier  = errors.New("message rejected by lane verifier")
	ErrFailedToWithdrawMessageFee     = errors.New("failed to withdraw message fee")
	ErrInvalidMessagesProof           = errors.New("invalid messages proof")
	ErrInvalidMessagesDispatchWeight  = errors.New("invalid messages dispatch weight")
	ErrInvalidMessagesDeliveryProof   = errors.New("invalid messages delivery proof")
	ErrInvalidUnrewardedRelayersState = errors.New("invalid unrewarded relayers state")
	ErrTryingToConfirmMoreMessages    = errors.New("trying to confirm more messages than generated")
)

type MessagesConfig struct {
	// Pallet is the name of the messages pallet, used to derive storage keys.
	Pallet string
	Lanes  []lane.LaneID

	MaxUnrewardedRelayerEntries lane.MessageNonce
	MaxUnconfirmedMessages      lane.MessageNonce
	// MaxMessagesInDeliveryTx bounds the number of messages a single delivery transaction may prove.
	MaxMessagesInDeliveryTx lane.MessageNonce

	// FundAccount collects message fees and pays relayer rewards.
	FundAccount lane.RelayerID
}

// Messages is the messages module of the chain.
type Messages struct {
	cfg      MessagesConfig
	keys     proof.StorageKeys
	state    *State
	balances *Balances
	bridge   *policy.MessageBridge
	verifier *proof.Verifier
	chain    *Chain

	lanes  map[lane.LaneID]bool
	halted bool
	owner  *lane.RelayerID
}

func newMessages(
	cfg MessagesConfig,
	state *State,
	balances *Balances,
	bridge *policy.MessageBridge,
	headers proof.HeaderChain,
	chain *Chain,
) *Messages {
	keys := proof.NewStorageKeys(cfg.Pallet)
	lanes := make(map[lane.LaneID]bool)
	for _, id := range cfg.Lanes {
		lanes[id] = true
	}

	return &Messages{
		cfg:      cfg,
		keys:     keys,
		state:    state,
		balances: balances,
		bridge:   bridge,
		verifier: proof.NewVerifier(keys, headers, proof.NewMPTBackend(), bridge, cfg.Lanes),
		chain:    chain,
		lanes:    lanes,
	}
}

func (m *Messages) initializeLanes() {
	for _, id := range m.cfg.Lanes {
		m.outboundStorage(id).SetData(lane.OutboundLaneData{})
		m.inboundStorage(id).SetData(lane.DefaultInboundLaneData())
	}
}

func (m *Messages) outboundStorage(id lane.LaneID) *outboundStorage {
	return &outboundStorage{state: m.state, keys: m.keys, id: id}
}

func (m *Messages) inboundStorage(id lane.LaneID) *inboundStorage {
	return &inboundStorage{
		state:          m.state,
		keys:           m.keys,
		id:             id,
		maxEntries:     m.cfg.MaxUnrewardedRelayerEntries,
		maxUnconfirmed: m.cfg.MaxUnconfirmedMessages,
	}
}

func (m *Messages) outboundLane(id lane.LaneID) *lane.OutboundLane {
	return lane.NewOutboundLane(m.outboundStorage(id))
}

func (m *Messages) inboundLane(id lane.LaneID) *lane.InboundLane {
	return lane.NewInboundLane(m.inboundStorage(id))
}

// SendMessage accepts an outbound message after the chain verifier, the lane verifier and
// the fee withdrawal succeed.
func (m *Messages) SendMessage(origin headerchain.Origin, id lane.LaneID, payload policy.MessagePayload) (lane.MessageNonce, error) {
	if m.halted {
		return 0, ErrHalted
	}

	encoded, err := policy.EncodePayload(payload)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrMessageRejectedByChainVerifier, err)
	}
	err = m.bridge.VerifyMessage(payload, len(encoded))
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrMessageRejectedByChainVerifier, err)
	}

	outboundLane := m.outboundLane(id)
	if !m.lanes[id] {
		return 0, fmt.Errorf("%w: unknown lane %s", ErrMessageRejectedByLaneVerifier, id)
	}
	if m.cfg.MaxUnconfirmedMessages != 0 && outboundLane.Data().QueuedMessages() >= m.cfg.MaxUnconfirmedMessages {
		return 0, fmt.Errorf("%w: too many queued messages at lane %s", ErrMessageRejectedByLaneVerifier, id)
	}

	err = m.balances.Transfer(origin.Signer, m.cfg.FundAccount, payload.Fee)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrFailedToWithdrawMessageFee, err)
	}

	nonce := outboundLane.Send(lane.MessageData{Payload: encoded, Fee: payload.Fee}, origin.Signer)
	m.chain.depositEvent(Event{Kind: MessageAccepted, Lane: id, Nonces: single(nonce), Account: origin.Signer})
	return nonce, nil
}

// ReceiveMessagesProof verifies and receives messages delivered by relayer.
func (m *Messages) ReceiveMessagesProof(
	relayer lane.RelayerID,
	p proof.MessagesProof,
	messagesCount lane.MessageNonce,
	dispatchWeight policy.Weight,
	processor lane.MessageProcessor,
) error {
	if m.halted {
		return ErrHalted
	}
	if m.cfg.MaxMessagesInDeliveryTx != 0 && messagesCount > m.cfg.MaxMessagesInDeliveryTx {
		return fmt.Errorf("%w: %w", ErrInvalidMessagesProof, proof.ErrTooManyMessages)
	}
	if p.Count() != messagesCount {
		return fmt.Errorf("%w: declared %d messages, proof has %d", ErrInvalidMessagesProof, messagesCount, p.Count())
	}

	proved, err := m.verifier.VerifyMessagesProof(p, messagesCount)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidMessagesProof, err)
	}

	var declared policy.Weight
	for _, laneMessages := range proved {
		for _, message := range laneMessages.Messages {
			payload, err := policy.DecodePayload(message.Data.Payload)
			if err != nil {
				continue
			}
			declared += payload.Weight
		}
	}
	if declared > dispatchWeight {
		return fmt.Errorf("%w: messages declare %d, transaction pays for %d", ErrInvalidMessagesDispatchWeight, declared, dispatchWeight)
	}

	for id, laneMessages := range proved {
		inboundLane := m.inboundLane(id)
		if laneMessages.LaneState != nil {
			confirmed, updated := inboundLane.ReceiveStateUpdate(*laneMessages.LaneState)
			if updated {
				log.Debug().Msgf("Lane %s confirmed delivery up to %d", id, confirmed)
			}
		}

		received := lane.DeliveredMessages{}
		for _, message := range laneMessages.Messages {
			if !inboundLane.ReceiveMessage(relayer, message.Key.Nonce, message.Data, processor) {
				log.Debug().Msgf("Message %d of lane %s is rejected", message.Key.Nonce, id)
				continue
			}
			if received.Begin == 0 {
				received.Begin = message.Key.Nonce
			}
			received.End = message.Key.Nonce
		}
		if received.Begin != 0 {
			m.chain.depositEvent(Event{Kind: MessagesReceived, Lane: id, Nonces: received, Account: relayer})
		}
	}
	return nil
}

// ReceiveMessagesDeliveryProof confirms delivery of outbound messages and pays relayers.
func (m *Messages) ReceiveMessagesDeliveryProof(
	relayer lane.RelayerID,
	p proof.MessagesDeliveryProof,
	relayersState lane.UnrewardedRelayersState,
) error {
	if m.halted {
		return ErrHalted
	}

	id, data, err := m.verifier.VerifyMessagesDeliveryProof(p)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidMessagesDeliveryProof, err)
	}

	actual := data.UnrewardedRelayersState()
	if actual.UnrewardedRelayerEntries > relayersState.UnrewardedRelayerEntries ||
		actual.TotalMessages > relayersState.TotalMessages {
		return ErrInvalidUnrewardedRelayersState
	}

	confirmation := m.outboundLane(id).ConfirmDelivery(data.LastDeliveredNonce(), data.Relayers)
	switch confirmation.Result {
	case lane.NoNewConfirmations:
		return nil
	case lane.FailedToConfirmFutureMessages:
		return ErrTryingToConfirmMoreMessages
	case lane.InvalidRelayerEntries:
		return fmt.Errorf("%w: %s", ErrInvalidMessagesDeliveryProof, confirmation.Result)
	}

	for _, reward := range confirmation.Rewards {
		m.payReward(id, reward)
	}
	m.chain.depositEvent(Event{Kind: MessagesDelivered, Lane: id, Nonces: confirmation.Confirmed, Account: relayer})
	return nil
}

// payReward splits every fee paid for the delivered range between the delivering
// relayer and the account that paid it.
func (m *Messages) payReward(id lane.LaneID, reward lane.RelayerReward) {
	relayerTotal := big.NewInt(0)
	for _, payment := range reward.Payments {
		relayerShare, payerShare := m.bridge.SplitReward(payment.Fee)
		relayerTotal.Add(relayerTotal, relayerShare)
		m.transferReward(id, reward.Messages, payment.Payer, payerShare)
	}
	m.transferReward(id, reward.Messages, reward.Relayer, relayerTotal)
}

func (m *Messages) transferReward(id lane.LaneID, nonces lane.DeliveredMessages, account lane.RelayerID, amount *big.Int) {
	err := m.balances.Transfer(m.cfg.FundAccount, account, amount)
	if err != nil {
		log.Error().Err(err).Msgf("Failed to pay %s to %s", amount, account)
		return
	}
	m.chain.depositEvent(Event{Kind: RelayerRewarded, Lane: id, Nonces: nonces, Account: account})
}

// processQueued dispatches queued inbound messages of every lane within the weight budget.
func (m *Messages) processQueued(processor lane.MessageProcessor) {
	if m.halted {
		return
	}

	for _, id := range m.cfg.Lanes {
		processed := m.inboundLane(id).ProcessMessages(processor)
		if processed > 0 {
			log.Debug().Msgf("Processed %d queued messages of lane %s", processed, id)
		}
	}
}

func (m *Messages) SetOwner(origin headerchain.Origin, owner *lane.RelayerID) error {
	if !m.isRootOrOwner(origin) {
		return ErrBadOrigin
	}
	m.owner = owner
	return nil
}

func (m *Messages) HaltOperations(origin headerchain.Origin) error {
	if !m.isRootOrOwner(origin) {
		return ErrBadOrigin
	}
	m.halted = true
	return nil
}

func (m *Messages) ResumeOperations(origin headerchain.Origin) error {
	if !m.isRootOrOwner(origin) {
		return ErrBadOrigin
	}
	m.halted = false
	return nil
}

func (m *Messages) isRootOrOwner(origin headerchain.Origin) bool {
	if origin.Root {
		return true
	}
	return m.owner != nil && *m.owner == origin.Signer
}

func (m *Messages) OutboundLaneData(id lane.LaneID) lane.OutboundLaneData {
	return m.outboundLane(id).Data()
}

func (m *Messages) InboundLaneData(id lane.LaneID) lane.InboundLaneData {
	return m.inboundLane(id).Data()
}

func (m *Messages) OutboundMessage(id lane.LaneID, nonce lane.MessageNonce) (lane.MessageData, bool) {
	return m.outboundLane(id).Message(nonce)
}
