// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package substrate_test

import (
	"context"
	"encoding/binary"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types/codec"
	"github.com/shopspring/decimal"
	"github.com/sprintertech/lane-bridge/cache"
	"github.com/sprintertech/lane-bridge/chains"
	"github.com/sprintertech/lane-bridge/chains/substrate"
	mock_substrate "github.com/sprintertech/lane-bridge/chains/substrate/mock"
	"github.com/sprintertech/lane-bridge/config/chain"
	"github.com/sprintertech/lane-bridge/finality"
	"github.com/sprintertech/lane-bridge/lane"
	"github.com/sprintertech/lane-bridge/policy"
	"github.com/sprintertech/lane-bridge/proof"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

var (
	testLane = lane.LaneID{0, 0, 0, 1}
	relayer  = lane.RelayerID{2}
)

func testConfig() *substrate.SubstrateConfig {
	return &substrate.SubstrateConfig{
		GeneralChainConfig: chain.GeneralChainConfig{
			Name:         "millau",
			Endpoint:     "ws://localhost:9944",
			Tick:         6,
			StallTimeout: 1,
		},
		MessagesPallet: "BridgeMessages",
		GrandpaPallet:  "BridgeGrandpa",
	}
}

func header(number uint32, digest ...types.DigestItem) *types.Header {
	return &types.Header{
		ParentHash: types.NewHash([]byte{byte(number - 1)}),
		Number:     types.BlockNumber(number),
		StateRoot:  types.NewHash([]byte{byte(number), 1}),
		Digest:     types.Digest(digest),
	}
}

func grandpaLog(kind byte) types.DigestItem {
	return types.DigestItem{
		IsConsensus: true,
		AsConsensus: types.Consensus{
			ConsensusEngineID: types.ConsensusEngineID(binary.LittleEndian.Uint32([]byte("FRNK"))),
			Bytes:             types.Bytes{kind, 0, 0},
		},
	}
}

func justification(number uint32) []byte {
	encoded, _ := codec.Encode(struct {
		Round        types.U64
		TargetHash   types.Hash
		TargetNumber types.U32
		Precommits   []byte
	}{
		Round:        types.NewU64(1),
		TargetHash:   types.NewHash([]byte{byte(number)}),
		TargetNumber: types.NewU32(number),
		Precommits:   []byte{1, 2, 3},
	})
	return encoded
}

func finalizedStatuses() <-chan chains.TxStatus {
	statuses := make(chan chains.TxStatus, 2)
	statuses <- chains.TxIncluded
	statuses <- chains.TxFinalized
	close(statuses)
	return statuses
}

type ClientTestSuite struct {
	suite.Suite

	mockRPC *mock_substrate.MockRPC
	client  *substrate.Client
}

func TestRunClientTestSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

func (s *ClientTestSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.mockRPC = mock_substrate.NewMockRPC(ctrl)
	s.client = substrate.NewClient(testConfig(), s.mockRPC, cache.NewHeaderCache(), relayer)
}

func (s *ClientTestSuite) Test_GenesisHash() {
	genesis := types.NewHash([]byte{1})
	s.mockRPC.EXPECT().GenesisHash(gomock.Any()).Return(genesis, nil)

	hash, err := s.client.GenesisHash(context.Background())

	s.Nil(err)
	s.Equal(genesis, hash)
}

func (s *ClientTestSuite) Test_State() {
	best := header(20)
	bestID, _ := substrate.HeaderID(best)
	peerHash := types.NewHash([]byte{5})
	peer, _ := codec.Encode(struct {
		Number types.U32
		Hash   types.Hash
	}{types.NewU32(5), peerHash})
	s.mockRPC.EXPECT().BestHeader(gomock.Any()).Return(best, nil)
	s.mockRPC.EXPECT().FinalizedHeader(gomock.Any()).Return(header(18), nil)
	s.mockRPC.EXPECT().Storage(gomock.Any(), proof.StorageValueKey("BridgeGrandpa", "BestFinalized"), bestID.Hash).Return(peer, nil)

	state, err := s.client.State(context.Background())

	s.Nil(err)
	s.Equal(bestID, state.BestSelf)
	s.Equal(uint64(18), state.BestFinalizedSelf.Number)
	s.Equal(&chains.HeaderID{Number: 5, Hash: peerHash}, state.BestFinalizedPeerAtBestSelf)
}

func (s *ClientTestSuite) Test_State_PeerNotInitialized() {
	s.mockRPC.EXPECT().BestHeader(gomock.Any()).Return(header(20), nil)
	s.mockRPC.EXPECT().FinalizedHeader(gomock.Any()).Return(header(18), nil)
	s.mockRPC.EXPECT().Storage(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)

	state, err := s.client.State(context.Background())

	s.Nil(err)
	s.Nil(state.BestFinalizedPeerAtBestSelf)
}

func (s *ClientTestSuite) Test_State_RPCError() {
	s.mockRPC.EXPECT().BestHeader(gomock.Any()).Return(nil, errors.New("error"))

	_, err := s.client.State(context.Background())

	s.NotNil(err)
}

func (s *ClientTestSuite) Test_HeaderAndFinalityProof_CachesHeaders() {
	s.mockRPC.EXPECT().HeaderByNumber(gomock.Any(), uint64(7)).Return(header(7, grandpaLog(substrate.SCHEDULED_CHANGE_LOG)), nil).Times(1)
	s.mockRPC.EXPECT().Justification(gomock.Any(), uint64(7)).Return(justification(7), nil).Times(2)

	for i := 0; i < 2; i++ {
		sourceHeader, finalityProof, err := s.client.Headers().HeaderAndFinalityProof(context.Background(), 7)

		s.Nil(err)
		s.Equal(uint64(7), sourceHeader.ID.Number)
		s.True(sourceHeader.Mandatory)
		s.Equal(&finality.FinalityProof{TargetHeaderNumber: 7, Proof: justification(7)}, finalityProof)
	}
}

func (s *ClientTestSuite) Test_HeaderAndFinalityProof_NoJustification() {
	s.mockRPC.EXPECT().HeaderByNumber(gomock.Any(), uint64(8)).Return(header(8), nil)
	s.mockRPC.EXPECT().Justification(gomock.Any(), uint64(8)).Return(nil, nil)

	sourceHeader, finalityProof, err := s.client.Headers().HeaderAndFinalityProof(context.Background(), 8)

	s.Nil(err)
	s.False(sourceHeader.Mandatory)
	s.Nil(finalityProof)

	var decoded types.Header
	s.Nil(codec.Decode(sourceHeader.Encoded, &decoded))
	s.Equal(types.BlockNumber(8), decoded.Number)
}

func (s *ClientTestSuite) Test_BestFinalizedHeaderNumber() {
	s.mockRPC.EXPECT().FinalizedHeader(gomock.Any()).Return(header(42), nil)

	number, err := s.client.Headers().BestFinalizedHeaderNumber(context.Background())

	s.Nil(err)
	s.Equal(uint64(42), number)
}

func (s *ClientTestSuite) Test_SubscribeFinalityProofs_SkipsInvalidJustifications() {
	justifications := make(chan []byte, 2)
	justifications <- []byte{1, 2}
	justifications <- justification(9)
	close(justifications)
	s.mockRPC.EXPECT().SubscribeJustifications(gomock.Any()).Return(justifications, nil)

	proofs, err := s.client.Headers().SubscribeFinalityProofs(context.Background())
	s.Nil(err)

	received := make([]finality.FinalityProof, 0)
	for p := range proofs {
		received = append(received, p)
	}
	s.Equal([]finality.FinalityProof{{TargetHeaderNumber: 9, Proof: justification(9)}}, received)
}

func (s *ClientTestSuite) Test_BestFinalizedSourceHeader_NotInitialized() {
	s.mockRPC.EXPECT().BestHeader(gomock.Any()).Return(header(20), nil)
	s.mockRPC.EXPECT().Storage(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)

	_, err := s.client.PeerHeaders().BestFinalizedSourceHeader(context.Background())

	s.NotNil(err)
}

func (s *ClientTestSuite) Test_SubmitFinalityProof() {
	sourceHeader := finality.SourceHeader{ID: chains.HeaderID{Number: 3}, Encoded: []byte{1, 2}}
	finalityProof := finality.FinalityProof{TargetHeaderNumber: 3, Proof: []byte{3, 4}}
	s.mockRPC.EXPECT().SubmitExtrinsic(gomock.Any(), substrate.Call{
		Name: "BridgeGrandpa.submit_finality_proof",
		Args: []interface{}{types.Data{1, 2}, types.Data{3, 4}},
	}).Return(finalizedStatuses(), nil)

	tracker, err := s.client.PeerHeaders().SubmitFinalityProof(context.Background(), sourceHeader, finalityProof)
	s.Nil(err)

	status, err := tracker.Wait(context.Background())
	s.Nil(err)
	s.Equal(chains.TxFinalized, status)
}

func (s *ClientTestSuite) Test_SubmitFinalityProof_SubmitError() {
	s.mockRPC.EXPECT().SubmitExtrinsic(gomock.Any(), gomock.Any()).Return(nil, errors.New("error"))

	_, err := s.client.PeerHeaders().SubmitFinalityProof(context.Background(), finality.SourceHeader{}, finality.FinalityProof{})

	s.NotNil(err)
}

func (s *ClientTestSuite) Test_SubmitFinalityProof_StalledTransactionIsLost() {
	s.mockRPC.EXPECT().SubmitExtrinsic(gomock.Any(), gomock.Any()).Return(make(chan chains.TxStatus), nil)

	tracker, err := s.client.PeerHeaders().SubmitFinalityProof(context.Background(), finality.SourceHeader{}, finality.FinalityProof{})
	s.Nil(err)

	status, err := tracker.Wait(context.Background())
	s.Nil(err)
	s.Equal(chains.TxLost, status)
}

func (s *ClientTestSuite) Test_UpdateConversionRate() {
	s.mockRPC.EXPECT().SubmitExtrinsic(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, call substrate.Call) (<-chan chains.TxStatus, error) {
		s.Equal("BridgeMessages.update_pallet_parameter", call.Name)
		encoded, err := codec.Encode(call.Args[0])
		s.Nil(err)
		expected, _ := codec.Encode(types.NewU128(*big.NewInt(1_500_000_000_000_000_000)))
		s.Equal(append([]byte{0}, expected...), encoded)
		return finalizedStatuses(), nil
	})

	err := s.client.UpdateConversionRate(context.Background(), decimal.RequireFromString("1.5"))

	s.Nil(err)
}

func (s *ClientTestSuite) Test_UpdateConversionRate_InvalidRate() {
	err := s.client.UpdateConversionRate(context.Background(), decimal.Zero)

	s.NotNil(err)
}

type LaneTestSuite struct {
	suite.Suite

	mockRPC *mock_substrate.MockRPC
	client  *substrate.Client
	keys    proof.StorageKeys
	at      chains.HeaderID
}

func TestRunLaneTestSuite(t *testing.T) {
	suite.Run(t, new(LaneTestSuite))
}

func (s *LaneTestSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.mockRPC = mock_substrate.NewMockRPC(ctrl)
	s.client = substrate.NewClient(testConfig(), s.mockRPC, cache.NewHeaderCache(), relayer)
	s.keys = proof.NewStorageKeys("BridgeMessages")
	s.at = chains.HeaderID{Number: 10, Hash: types.NewHash([]byte{10})}
}

func (s *LaneTestSuite) Test_OutboundLaneData() {
	encoded, _ := codec.Encode(struct {
		OldestUnprunedNonce  types.U64
		LatestReceivedNonce  types.U64
		LatestGeneratedNonce types.U64
	}{types.NewU64(3), types.NewU64(4), types.NewU64(9)})
	s.mockRPC.EXPECT().Storage(gomock.Any(), s.keys.OutboundLaneDataKey(testLane), s.at.Hash).Return(encoded, nil)

	data, err := s.client.OutboundLane(testLane).OutboundLaneData(context.Background(), s.at)

	s.Nil(err)
	s.Equal(lane.OutboundLaneData{LatestGeneratedNonce: 9, LatestReceivedNonce: 4}, data)
}

func (s *LaneTestSuite) Test_OutboundLaneData_Empty() {
	s.mockRPC.EXPECT().Storage(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)

	data, err := s.client.OutboundLane(testLane).OutboundLaneData(context.Background(), s.at)

	s.Nil(err)
	s.Equal(lane.OutboundLaneData{}, data)
}

func (s *LaneTestSuite) Test_MessageDetails_StopsAtMissingMessage() {
	payload, err := policy.EncodePayload(policy.MessagePayload{Call: []byte{1}, Weight: 50, Fee: big.NewInt(1)})
	s.Nil(err)
	message, err := codec.Encode(lane.MessageData{Payload: payload, Fee: big.NewInt(200)})
	s.Nil(err)
	s.mockRPC.EXPECT().Storage(gomock.Any(), s.keys.MessageKey(testLane, 1), s.at.Hash).Return(message, nil)
	s.mockRPC.EXPECT().Storage(gomock.Any(), s.keys.MessageKey(testLane, 2), s.at.Hash).Return(message, nil)
	s.mockRPC.EXPECT().Storage(gomock.Any(), s.keys.MessageKey(testLane, 3), s.at.Hash).Return(nil, nil)

	details, err := s.client.OutboundLane(testLane).MessageDetails(context.Background(), s.at, 1, 5)

	s.Nil(err)
	s.Len(details, 2)
	s.Equal(lane.MessageNonce(2), details[1].Nonce)
	s.Equal(policy.Weight(50), details[1].DispatchWeight)
	s.Equal(uint64(len(payload)), details[1].Size)
	s.Equal(int64(200), details[1].Fee.Int64())
}

func (s *LaneTestSuite) Test_ProveMessages_IncludesLaneState() {
	nodes := [][]byte{{1}, {2}}
	s.mockRPC.EXPECT().ReadProof(gomock.Any(), [][]byte{
		s.keys.MessageKey(testLane, 4),
		s.keys.MessageKey(testLane, 5),
		s.keys.OutboundLaneDataKey(testLane),
	}, s.at.Hash).Return(nodes, nil)

	p, err := s.client.OutboundLane(testLane).ProveMessages(context.Background(), s.at, 4, 5, true)

	s.Nil(err)
	s.Equal(proof.MessagesProof{
		BridgedHeaderHash: s.at.Hash,
		StorageProof:      nodes,
		Lane:              testLane,
		NoncesStart:       4,
		NoncesEnd:         5,
	}, p)
}

func (s *LaneTestSuite) Test_SubmitMessagesDeliveryProof() {
	p := proof.MessagesDeliveryProof{BridgedHeaderHash: s.at.Hash, StorageProof: [][]byte{{1}}, Lane: testLane}
	relayersState := lane.UnrewardedRelayersState{UnrewardedRelayerEntries: 1, MessagesInOldestEntry: 2, TotalMessages: 2}
	encoded, err := proof.EncodeMessagesDeliveryProof(p)
	s.Nil(err)
	s.mockRPC.EXPECT().SubmitExtrinsic(gomock.Any(), substrate.Call{
		Name: "BridgeMessages.receive_messages_delivery_proof",
		Args: []interface{}{types.Data(encoded), relayersState},
	}).Return(finalizedStatuses(), nil)

	_, err = s.client.OutboundLane(testLane).SubmitMessagesDeliveryProof(context.Background(), p, relayersState)

	s.Nil(err)
}

func (s *LaneTestSuite) Test_InboundLaneData_Empty() {
	s.mockRPC.EXPECT().Storage(gomock.Any(), s.keys.InboundLaneDataKey(testLane), s.at.Hash).Return(nil, nil)

	data, err := s.client.InboundLane(testLane).InboundLaneData(context.Background(), s.at)

	s.Nil(err)
	s.Equal(lane.DefaultInboundLaneData(), data)
}

func (s *LaneTestSuite) Test_InboundLaneData() {
	type entry struct {
		Relayer lane.RelayerID
		Begin   types.U64
		End     types.U64
	}
	encoded, _ := codec.Encode(struct {
		Relayers           []entry
		LastConfirmedNonce types.U64
	}{
		Relayers: []entry{
			{Relayer: lane.RelayerID{1}, Begin: types.NewU64(3), End: types.NewU64(4)},
			{Relayer: lane.RelayerID{2}, Begin: types.NewU64(5), End: types.NewU64(7)},
		},
		LastConfirmedNonce: types.NewU64(2),
	})
	s.mockRPC.EXPECT().Storage(gomock.Any(), gomock.Any(), gomock.Any()).Return(encoded, nil)

	data, err := s.client.InboundLane(testLane).InboundLaneData(context.Background(), s.at)

	s.Nil(err)
	s.Equal(lane.InboundLaneData{
		Relayers: []lane.UnrewardedRelayer{
			{Relayer: lane.RelayerID{1}, Messages: lane.DeliveredMessages{Begin: 3, End: 4}},
			{Relayer: lane.RelayerID{2}, Messages: lane.DeliveredMessages{Begin: 5, End: 7}},
		},
		LastConfirmedNonce:     2,
		LatestReceivedNonce:    7,
		OldestUnprocessedNonce: 8,
	}, data)
}

func (s *LaneTestSuite) Test_ProveMessagesDelivery() {
	nodes := [][]byte{{7}}
	s.mockRPC.EXPECT().ReadProof(gomock.Any(), [][]byte{s.keys.InboundLaneDataKey(testLane)}, s.at.Hash).Return(nodes, nil)

	p, err := s.client.InboundLane(testLane).ProveMessagesDelivery(context.Background(), s.at)

	s.Nil(err)
	s.Equal(proof.MessagesDeliveryProof{BridgedHeaderHash: s.at.Hash, StorageProof: nodes, Lane: testLane}, p)
}

func (s *LaneTestSuite) Test_SubmitMessagesProof() {
	p := proof.MessagesProof{BridgedHeaderHash: s.at.Hash, Lane: testLane, NoncesStart: 3, NoncesEnd: 5}
	encoded, err := proof.EncodeMessagesProof(p)
	s.Nil(err)
	s.mockRPC.EXPECT().SubmitExtrinsic(gomock.Any(), substrate.Call{
		Name: "BridgeMessages.receive_messages_proof",
		Args: []interface{}{relayer, types.Data(encoded), types.NewU32(3), types.NewU64(150)},
	}).Return(finalizedStatuses(), nil)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	tracker, err := s.client.InboundLane(testLane).SubmitMessagesProof(ctx, p, 150)
	s.Nil(err)

	status, err := tracker.Wait(ctx)
	s.Nil(err)
	s.Equal(chains.TxFinalized, status)
}

type HeadersTestSuite struct {
	suite.Suite
}

func TestRunHeadersTestSuite(t *testing.T) {
	suite.Run(t, new(HeadersTestSuite))
}

func (s *HeadersTestSuite) Test_IsMandatory() {
	s.True(substrate.IsMandatory(header(1, grandpaLog(substrate.SCHEDULED_CHANGE_LOG))))
	s.True(substrate.IsMandatory(header(1, grandpaLog(substrate.FORCED_CHANGE_LOG))))
	s.False(substrate.IsMandatory(header(1, grandpaLog(3))))
	s.False(substrate.IsMandatory(header(1)))

	babe := grandpaLog(substrate.SCHEDULED_CHANGE_LOG)
	babe.AsConsensus.ConsensusEngineID = types.ConsensusEngineID(binary.LittleEndian.Uint32([]byte("BABE")))
	s.False(substrate.IsMandatory(header(1, babe)))
}

func (s *HeadersTestSuite) Test_JustificationTarget() {
	number, err := substrate.JustificationTarget(justification(77))
	s.Nil(err)
	s.Equal(uint64(77), number)

	_, err = substrate.JustificationTarget([]byte{1, 2, 3})
	s.NotNil(err)
}

func (s *HeadersTestSuite) Test_HeaderID_IsStable() {
	first, err := substrate.HeaderID(header(5))
	s.Nil(err)
	second, err := substrate.HeaderID(header(5))
	s.Nil(err)
	other, err := substrate.HeaderID(header(6))
	s.Nil(err)

	s.Equal(first, second)
	s.NotEqual(first.Hash, other.Hash)
	s.Equal(uint64(5), first.Number)
}
