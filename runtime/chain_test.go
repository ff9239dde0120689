// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package runtime_test

import (
	"crypto/ecdsa"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/shopspring/decimal"
	"github.com/sprintertech/lane-bridge/chains"
	"github.com/sprintertech/lane-bridge/headerchain"
	"github.com/sprintertech/lane-bridge/lane"
	"github.com/sprintertech/lane-bridge/policy"
	"github.com/sprintertech/lane-bridge/proof"
	"github.com/sprintertech/lane-bridge/runtime"
	"github.com/stretchr/testify/suite"
)

var (
	testLane    = lane.LaneID{'t', 'e', 's', 't'}
	fundAccount = lane.RelayerID{0xff}
	sender      = lane.RelayerID{1}
	deliverer   = lane.RelayerID{2}
	confirmer   = lane.RelayerID{3}
)

func newChain(s *suite.Suite, name string, dispatchWeight policy.Weight) (*runtime.Chain, []*ecdsa.PrivateKey) {
	keys := make([]*ecdsa.PrivateKey, 3)
	for i := range keys {
		key, err := crypto.GenerateKey()
		s.Nil(err)
		keys[i] = key
	}

	bridge, err := policy.NewMessageBridge(policy.Config{
		MaxExtrinsicWeightOnBridgedChain: 1000,
		DeliveryTxBaseWeight:             10,
		DeliveryTxPerMessageWeight:       5,
		DeliveryTxPerByteWeight:          1,
		ConfirmationTxBaseWeight:         7,
		ConfirmationTxPerRelayerWeight:   3,
		ConfirmationTxPerMessageWeight:   2,
		ThisWeightToFee:                  decimal.NewFromInt(1),
		BridgedWeightToFee:               decimal.NewFromInt(1),
		RelayerFeePercent:                10,
	}, policy.NewStaticRate(decimal.NewFromInt(1)))
	s.Nil(err)

	chain, err := runtime.NewChain(runtime.Config{
		Name: name,
		Messages: runtime.MessagesConfig{
			Pallet:                      "MessageLane",
			Lanes:                       []lane.LaneID{testLane},
			MaxUnrewardedRelayerEntries: 4,
			MaxUnconfirmedMessages:      16,
			MaxMessagesInDeliveryTx:     8,
			FundAccount:                 fundAccount,
		},
		HeaderChain:         headerchain.Config{MaxRequests: 16, HeadersToKeep: 64},
		Bridge:              bridge,
		BlockDispatchWeight: dispatchWeight,
		Authorities:         keys,
	})
	s.Nil(err)
	return chain, keys
}

func payload(weight policy.Weight, fee int64) policy.MessagePayload {
	return policy.MessagePayload{Call: []byte{1, 2, 3}, Weight: weight, Fee: big.NewInt(fee)}
}

type ChainTestSuite struct {
	suite.Suite

	source *runtime.Chain
	target *runtime.Chain
}

func TestRunChainTestSuite(t *testing.T) {
	suite.Run(t, new(ChainTestSuite))
}

func (s *ChainTestSuite) SetupTest() {
	s.source, _ = newChain(&s.Suite, "source", 1000)
	s.target, _ = newChain(&s.Suite, "target", 60)

	s.Nil(s.target.InitializeBridge(headerchain.RootOrigin(), headerchain.InitializationData{
		Header:       s.source.BestFinalizedHeader(),
		AuthoritySet: s.source.AuthoritySet(),
	}))
	s.Nil(s.source.InitializeBridge(headerchain.RootOrigin(), headerchain.InitializationData{
		Header:       s.target.BestFinalizedHeader(),
		AuthoritySet: s.target.AuthoritySet(),
	}))
	s.source.Endow(sender, big.NewInt(10_000))
}

func (s *ChainTestSuite) produce(chain *runtime.Chain) headerchain.Header {
	header, err := chain.ProduceBlock()
	s.Nil(err)
	return header
}

func (s *ChainTestSuite) produceAndFinalize(chain *runtime.Chain) headerchain.Header {
	header := s.produce(chain)
	s.Nil(chain.Finalize(header.Number))
	return header
}

// relayHeader imports the best finalized header of from into the header chain of to.
func (s *ChainTestSuite) relayHeader(from *runtime.Chain, to *runtime.Chain) headerchain.Header {
	header := from.BestFinalizedHeader()
	justification, ok := from.Justification(header.Number)
	s.True(ok)

	tx := to.Submit(runtime.SubmitFinalityProofCall{Relayer: deliverer, Header: header, Justification: justification})
	s.produce(to)
	s.Nil(to.TxError(tx))
	return header
}

func (s *ChainTestSuite) sendMessages(weights ...policy.Weight) headerchain.Header {
	for _, weight := range weights {
		s.source.Submit(runtime.SendMessageCall{Origin: headerchain.SignedOrigin(sender), Lane: testLane, Payload: payload(weight, 200)})
	}
	return s.produceAndFinalize(s.source)
}

func (s *ChainTestSuite) deliver(at headerchain.Header, begin, end lane.MessageNonce, dispatchWeight policy.Weight) runtime.TxID {
	p, err := s.source.ProveMessages(testLane, begin, end, true, at.Hash())
	s.Nil(err)

	tx := s.target.Submit(runtime.ReceiveMessagesProofCall{
		Relayer:        deliverer,
		Proof:          p,
		MessagesCount:  end - begin + 1,
		DispatchWeight: dispatchWeight,
	})
	s.produce(s.target)
	return tx
}

func (s *ChainTestSuite) Test_SendMessage_WithdrawsFee() {
	header := s.sendMessages(50, 60)

	data := s.source.OutboundLaneData(testLane)
	s.Equal(lane.MessageNonce(2), data.LatestGeneratedNonce)
	s.Equal(int64(9_600), s.source.Balance(sender).Int64())
	s.Equal(int64(400), s.source.Balance(fundAccount).Int64())
	s.Len(s.source.Events(header.Number), 2)
	_, ok := s.source.OutboundMessage(testLane, 2)
	s.True(ok)
}

func (s *ChainTestSuite) Test_SendMessage_Rejections() {
	lowFee := s.source.Submit(runtime.SendMessageCall{Origin: headerchain.SignedOrigin(sender), Lane: testLane, Payload: payload(50, 10)})
	unknownLane := s.source.Submit(runtime.SendMessageCall{Origin: headerchain.SignedOrigin(sender), Lane: lane.LaneID{9}, Payload: payload(50, 200)})
	poorSender := s.source.Submit(runtime.SendMessageCall{Origin: headerchain.SignedOrigin(lane.RelayerID{8}), Lane: testLane, Payload: payload(50, 200)})
	s.produce(s.source)

	s.True(errors.Is(s.source.TxError(lowFee), runtime.ErrMessageRejectedByChainVerifier))
	s.True(errors.Is(s.source.TxError(lowFee), policy.ErrFeeTooLow))
	s.True(errors.Is(s.source.TxError(unknownLane), runtime.ErrMessageRejectedByLaneVerifier))
	s.True(errors.Is(s.source.TxError(poorSender), runtime.ErrFailedToWithdrawMessageFee))
	status, err := s.source.TxStatus(lowFee)
	s.Nil(err)
	s.Equal(chains.TxLost, status)
	s.Equal(lane.MessageNonce(0), s.source.OutboundLaneData(testLane).LatestGeneratedNonce)
}

func (s *ChainTestSuite) Test_TxStatus() {
	tx := s.source.Submit(runtime.SendMessageCall{Origin: headerchain.SignedOrigin(sender), Lane: testLane, Payload: payload(50, 200)})
	status, _ := s.source.TxStatus(tx)
	s.Equal(chains.TxPending, status)

	header := s.produce(s.source)
	status, _ = s.source.TxStatus(tx)
	s.Equal(chains.TxIncluded, status)

	s.Nil(s.source.Finalize(header.Number))
	status, _ = s.source.TxStatus(tx)
	s.Equal(chains.TxFinalized, status)

	_, err := s.source.TxStatus(1000)
	s.True(errors.Is(err, runtime.ErrUnknownTransaction))
}

func (s *ChainTestSuite) Test_DeliverAndConfirm() {
	at := s.sendMessages(50, 60)
	s.relayHeader(s.source, s.target)

	tx := s.deliver(at, 1, 2, 200)

	s.Nil(s.target.TxError(tx))
	inbound := s.target.InboundLaneData(testLane)
	s.Equal(lane.MessageNonce(2), inbound.LatestReceivedNonce)
	s.Equal([]lane.UnrewardedRelayer{
		{Relayer: deliverer, Messages: lane.DeliveredMessages{Begin: 1, End: 2}},
	}, inbound.Relayers)

	s.produceAndFinalize(s.target)
	targetHeader := s.relayHeader(s.target, s.source)
	p, err := s.target.ProveMessagesDelivery(testLane, targetHeader.Hash())
	s.Nil(err)

	confirm := s.source.Submit(runtime.ReceiveMessagesDeliveryProofCall{
		Relayer:       confirmer,
		Proof:         p,
		RelayersState: inbound.UnrewardedRelayersState(),
	})
	s.produce(s.source)

	s.Nil(s.source.TxError(confirm))
	s.Equal(lane.MessageNonce(2), s.source.OutboundLaneData(testLane).LatestReceivedNonce)
	_, ok := s.source.OutboundMessage(testLane, 1)
	s.False(ok)
	s.Equal(int64(360), s.source.Balance(deliverer).Int64())
	s.Equal(int64(9_640), s.source.Balance(sender).Int64())
	s.Equal(int64(0), s.source.Balance(confirmer).Int64())
	s.Equal(int64(0), s.source.Balance(fundAccount).Int64())
}

func (s *ChainTestSuite) Test_DeliverDefersBeyondBlockWeight() {
	at := s.sendMessages(50, 50)
	s.relayHeader(s.source, s.target)

	s.Nil(s.target.TxError(s.deliver(at, 1, 2, 100)))

	inbound := s.target.InboundLaneData(testLane)
	s.Equal(lane.MessageNonce(2), inbound.LatestReceivedNonce)
	s.Equal(lane.MessageNonce(2), inbound.OldestUnprocessedNonce)

	s.produce(s.target)

	s.Equal(lane.MessageNonce(3), s.target.InboundLaneData(testLane).OldestUnprocessedNonce)
}

func (s *ChainTestSuite) Test_ReceiveMessagesProof_Rejections() {
	at := s.sendMessages(50, 60)

	unknownHeader := s.deliver(at, 1, 2, 200)
	s.True(errors.Is(s.target.TxError(unknownHeader), runtime.ErrInvalidMessagesProof))
	s.True(errors.Is(s.target.TxError(unknownHeader), proof.ErrMissingRequiredHeader))

	s.relayHeader(s.source, s.target)

	lowWeight := s.deliver(at, 1, 2, 100)
	s.True(errors.Is(s.target.TxError(lowWeight), runtime.ErrInvalidMessagesDispatchWeight))

	p, err := s.source.ProveMessages(testLane, 1, 2, false, at.Hash())
	s.Nil(err)
	wrongCount := s.target.Submit(runtime.ReceiveMessagesProofCall{Relayer: deliverer, Proof: p, MessagesCount: 1, DispatchWeight: 200})
	s.produce(s.target)
	s.True(errors.Is(s.target.TxError(wrongCount), runtime.ErrInvalidMessagesProof))

	s.Equal(lane.MessageNonce(0), s.target.InboundLaneData(testLane).LatestReceivedNonce)
}

func (s *ChainTestSuite) Test_ReceiveMessagesDeliveryProof_InvalidRelayersState() {
	at := s.sendMessages(50, 60)
	s.relayHeader(s.source, s.target)
	s.deliver(at, 1, 2, 200)
	s.produceAndFinalize(s.target)
	targetHeader := s.relayHeader(s.target, s.source)
	p, err := s.target.ProveMessagesDelivery(testLane, targetHeader.Hash())
	s.Nil(err)

	tx := s.source.Submit(runtime.ReceiveMessagesDeliveryProofCall{
		Relayer:       confirmer,
		Proof:         p,
		RelayersState: lane.UnrewardedRelayersState{UnrewardedRelayerEntries: 1, TotalMessages: 1},
	})
	s.produce(s.source)

	s.True(errors.Is(s.source.TxError(tx), runtime.ErrInvalidUnrewardedRelayersState))
	s.Equal(lane.MessageNonce(0), s.source.OutboundLaneData(testLane).LatestReceivedNonce)
}

func (s *ChainTestSuite) Test_HaltedMessages() {
	s.source.Submit(runtime.SetOperatingModeCall{Origin: headerchain.RootOrigin(), Module: runtime.MessagesModule, Halted: true})
	s.produce(s.source)

	tx := s.source.Submit(runtime.SendMessageCall{Origin: headerchain.SignedOrigin(sender), Lane: testLane, Payload: payload(50, 200)})
	notOwner := s.source.Submit(runtime.SetOperatingModeCall{Origin: headerchain.SignedOrigin(sender), Module: runtime.MessagesModule})
	s.produce(s.source)

	s.True(errors.Is(s.source.TxError(tx), runtime.ErrHalted))
	s.True(errors.Is(s.source.TxError(notOwner), runtime.ErrBadOrigin))
}

func (s *ChainTestSuite) Test_OutboundLaneDataAt() {
	first := s.sendMessages(50)
	s.sendMessages(50)

	data, err := s.source.OutboundLaneDataAt(testLane, first.Hash())
	s.Nil(err)
	s.Equal(lane.MessageNonce(1), data.LatestGeneratedNonce)

	inbound, err := s.target.InboundLaneDataAt(testLane, s.target.BestHeader().Hash())
	s.Nil(err)
	s.Equal(lane.MessageNonce(1), inbound.OldestUnprocessedNonce)
}

type FinalityTestSuite struct {
	suite.Suite

	chain *runtime.Chain
}

func TestRunFinalityTestSuite(t *testing.T) {
	suite.Run(t, new(FinalityTestSuite))
}

func (s *FinalityTestSuite) SetupTest() {
	s.chain, _ = newChain(&s.Suite, "chain", 1000)
}

func (s *FinalityTestSuite) Test_Finalize_NotifiesSubscribers() {
	justifications, unsubscribe := s.chain.SubscribeJustifications()
	defer unsubscribe()

	for i := 0; i < 3; i++ {
		_, err := s.chain.ProduceBlock()
		s.Nil(err)
	}
	s.Nil(s.chain.Finalize(3))

	justified := <-justifications
	s.Equal(uint64(3), justified.Header.Number)
	s.Nil(headerchain.VerifyJustification(justified.Justification, justified.Header, s.chain.AuthoritySet()))
	_, ok := s.chain.Justification(2)
	s.False(ok)
	s.True(errors.Is(s.chain.Finalize(10), runtime.ErrUnknownBlock))
}

func (s *FinalityTestSuite) Test_Finalize_JustifiesMandatoryHeaders() {
	justifications, unsubscribe := s.chain.SubscribeJustifications()
	defer unsubscribe()
	previousSet := s.chain.AuthoritySet()

	next := make([]*ecdsa.PrivateKey, 2)
	for i := range next {
		key, err := crypto.GenerateKey()
		s.Nil(err)
		next[i] = key
	}
	s.chain.ScheduleAuthorityChange(next)

	mandatory, err := s.chain.ProduceBlock()
	s.Nil(err)
	s.True(mandatory.IsMandatory())
	_, err = s.chain.ProduceBlock()
	s.Nil(err)
	s.Nil(s.chain.Finalize(2))

	first := <-justifications
	second := <-justifications
	s.Equal(uint64(1), first.Header.Number)
	s.Nil(headerchain.VerifyJustification(first.Justification, first.Header, previousSet))
	s.Equal(uint64(2), second.Header.Number)
	s.Nil(headerchain.VerifyJustification(second.Justification, second.Header, s.chain.AuthoritySet()))
	s.Equal(previousSet.SetID+1, s.chain.AuthoritySet().SetID)
}

func (s *FinalityTestSuite) Test_CloseSubscriptions() {
	justifications, _ := s.chain.SubscribeJustifications()

	s.chain.CloseSubscriptions()

	_, ok := <-justifications
	s.False(ok)
}
