// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package local_test

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/shopspring/decimal"
	"github.com/sprintertech/lane-bridge/chains"
	"github.com/sprintertech/lane-bridge/chains/local"
	"github.com/sprintertech/lane-bridge/headerchain"
	"github.com/sprintertech/lane-bridge/lane"
	"github.com/sprintertech/lane-bridge/policy"
	"github.com/sprintertech/lane-bridge/runtime"
	"github.com/stretchr/testify/suite"
)

var (
	testLane = lane.LaneID{'t', 'e', 's', 't'}
	sender   = lane.RelayerID{1}
	relayer  = lane.RelayerID{2}
)

func newChain(s *suite.Suite, name string) *runtime.Chain {
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
			FundAccount:                 lane.RelayerID{0xff},
		},
		HeaderChain:         headerchain.Config{MaxRequests: 16, HeadersToKeep: 64},
		Bridge:              bridge,
		BlockDispatchWeight: 1000,
		Authorities:         keys,
	})
	s.Nil(err)
	return chain
}

func initialize(s *suite.Suite, a *runtime.Chain, b *runtime.Chain) {
	s.Nil(b.InitializeBridge(headerchain.RootOrigin(), headerchain.InitializationData{
		Header:       a.BestFinalizedHeader(),
		AuthoritySet: a.AuthoritySet(),
	}))
	s.Nil(a.InitializeBridge(headerchain.RootOrigin(), headerchain.InitializationData{
		Header:       b.BestFinalizedHeader(),
		AuthoritySet: b.AuthoritySet(),
	}))
}

func send(chain *runtime.Chain, count int) {
	for i := 0; i < count; i++ {
		chain.Submit(runtime.SendMessageCall{
			Origin:  headerchain.SignedOrigin(sender),
			Lane:    testLane,
			Payload: policy.MessagePayload{Call: []byte{1, 2, 3}, Weight: 50, Fee: big.NewInt(200)},
		})
	}
}

type ClientTestSuite struct {
	suite.Suite

	source       *runtime.Chain
	target       *runtime.Chain
	sourceClient *local.Client
	targetClient *local.Client
}

func TestRunClientTestSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

func (s *ClientTestSuite) SetupTest() {
	s.source = newChain(&s.Suite, "source")
	s.target = newChain(&s.Suite, "target")
	initialize(&s.Suite, s.source, s.target)
	s.source.Endow(sender, big.NewInt(10_000))

	s.sourceClient = local.NewClient(s.source, relayer).WithTracking(time.Millisecond, time.Second)
	s.targetClient = local.NewClient(s.target, relayer).WithTracking(time.Millisecond, time.Second)
}

func (s *ClientTestSuite) produceAndFinalize(chain *runtime.Chain) headerchain.Header {
	header, err := chain.ProduceBlock()
	s.Nil(err)
	s.Nil(chain.Finalize(header.Number))
	return header
}

func (s *ClientTestSuite) Test_State() {
	s.produceAndFinalize(s.source)
	_, err := s.source.ProduceBlock()
	s.Nil(err)

	state, err := s.sourceClient.State(context.Background())

	s.Nil(err)
	s.Equal(uint64(2), state.BestSelf.Number)
	s.Equal(uint64(1), state.BestFinalizedSelf.Number)
	s.NotNil(state.BestFinalizedPeerAtBestSelf)
	s.Equal(s.target.BestFinalizedHeader().ID(), *state.BestFinalizedPeerAtBestSelf)
}

func (s *ClientTestSuite) Test_GenesisHash() {
	genesis, err := s.sourceClient.GenesisHash(context.Background())

	s.Nil(err)
	s.Equal(s.source.GenesisHash(), genesis)
	s.NotEqual(s.target.GenesisHash(), genesis)
}

func (s *ClientTestSuite) Test_HeaderAndFinalityProof() {
	finalized := s.produceAndFinalize(s.source)
	unfinalized, err := s.source.ProduceBlock()
	s.Nil(err)

	header, proof, err := s.sourceClient.Headers().HeaderAndFinalityProof(context.Background(), finalized.Number)

	s.Nil(err)
	s.Equal(finalized.ID(), header.ID)
	s.NotNil(proof)
	s.Equal(finalized.Number, proof.TargetHeaderNumber)

	_, proof, err = s.sourceClient.Headers().HeaderAndFinalityProof(context.Background(), unfinalized.Number)

	s.Nil(err)
	s.Nil(proof)

	_, _, err = s.sourceClient.Headers().HeaderAndFinalityProof(context.Background(), 100)

	s.NotNil(err)
}

func (s *ClientTestSuite) Test_SubscribeFinalityProofs() {
	ctx, cancel := context.WithCancel(context.Background())
	proofs, err := s.sourceClient.Headers().SubscribeFinalityProofs(ctx)
	s.Nil(err)

	header := s.produceAndFinalize(s.source)

	select {
	case proof := <-proofs:
		s.Equal(header.Number, proof.TargetHeaderNumber)
	case <-time.After(time.Second):
		s.Fail("no finality proof received")
	}

	cancel()
	for range proofs {
	}
}

func (s *ClientTestSuite) Test_SubmitFinalityProof() {
	finalized := s.produceAndFinalize(s.source)
	header, proof, err := s.sourceClient.Headers().HeaderAndFinalityProof(context.Background(), finalized.Number)
	s.Nil(err)

	tracker, err := s.targetClient.PeerHeaders().SubmitFinalityProof(context.Background(), header, *proof)
	s.Nil(err)
	s.produceAndFinalize(s.target)

	status, err := tracker.Wait(context.Background())
	s.Nil(err)
	s.Equal(chains.TxFinalized, status)

	best, err := s.targetClient.PeerHeaders().BestFinalizedSourceHeader(context.Background())
	s.Nil(err)
	s.Equal(finalized.ID(), best)
}

func (s *ClientTestSuite) Test_SubmitFinalityProof_Lost() {
	genesis, proof, err := s.sourceClient.Headers().HeaderAndFinalityProof(context.Background(), 0)
	s.Nil(err)

	tracker, err := s.targetClient.PeerHeaders().SubmitFinalityProof(context.Background(), genesis, *proof)
	s.Nil(err)
	s.produceAndFinalize(s.target)

	status, err := tracker.Wait(context.Background())
	s.Equal(chains.TxLost, status)
	s.NotNil(err)
}

func (s *ClientTestSuite) Test_MessageDetails() {
	send(s.source, 2)
	at := s.produceAndFinalize(s.source)

	details, err := s.sourceClient.OutboundLane(testLane).MessageDetails(context.Background(), at.ID(), 1, 5)

	s.Nil(err)
	s.Len(details, 2)
	s.Equal(lane.MessageNonce(1), details[0].Nonce)
	s.Equal(policy.Weight(50), details[0].DispatchWeight)
	s.Equal(int64(200), details[1].Fee.Int64())
}

func (s *ClientTestSuite) Test_LaneDataAt() {
	before := s.produceAndFinalize(s.source)
	send(s.source, 3)
	after := s.produceAndFinalize(s.source)

	data, err := s.sourceClient.OutboundLane(testLane).OutboundLaneData(context.Background(), before.ID())
	s.Nil(err)
	s.Equal(lane.MessageNonce(0), data.LatestGeneratedNonce)

	data, err = s.sourceClient.OutboundLane(testLane).OutboundLaneData(context.Background(), after.ID())
	s.Nil(err)
	s.Equal(lane.MessageNonce(3), data.LatestGeneratedNonce)

	inbound, err := s.targetClient.InboundLane(testLane).InboundLaneData(context.Background(), s.target.BestHeader().ID())
	s.Nil(err)
	s.Equal(lane.MessageNonce(0), inbound.LatestReceivedNonce)
}
