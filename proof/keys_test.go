// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package proof_test

import (
	"encoding/hex"
	"testing"

	"github.com/sprintertech/lane-bridge/lane"
	"github.com/sprintertech/lane-bridge/proof"
	"github.com/stretchr/testify/suite"
)

type StorageKeysTestSuite struct {
	suite.Suite

	keys proof.StorageKeys
	lane lane.LaneID
}

func TestRunStorageKeysTestSuite(t *testing.T) {
	suite.Run(t, new(StorageKeysTestSuite))
}

func (s *StorageKeysTestSuite) SetupTest() {
	s.keys = proof.NewStorageKeys("MessageLane")
	s.lane = lane.LaneID{'t', 'e', 's', 't'}
}

func (s *StorageKeysTestSuite) Test_MessageKey() {
	s.Equal(
		"87f1ffe31b52878f09495ca7482df1a48a395e6242c6813b196ca31ed0547ea79446af0e09063bd4a7874aef8a997cec746573742a00000000000000",
		hex.EncodeToString(s.keys.MessageKey(s.lane, 42)),
	)
}

func (s *StorageKeysTestSuite) Test_OutboundLaneDataKey() {
	s.Equal(
		"87f1ffe31b52878f09495ca7482df1a496c246acb9b55077390e3ca723a0ca1f44a8995dd50b6657a037a7839304535b74657374",
		hex.EncodeToString(s.keys.OutboundLaneDataKey(s.lane)),
	)
}

func (s *StorageKeysTestSuite) Test_InboundLaneDataKey() {
	s.Equal(
		"87f1ffe31b52878f09495ca7482df1a4e5f83cf83f2127eb47afdc35d6e43fab44a8995dd50b6657a037a7839304535b74657374",
		hex.EncodeToString(s.keys.InboundLaneDataKey(s.lane)),
	)
}

func (s *StorageKeysTestSuite) Test_InboundMessageKey_DiffersFromOutbound() {
	inbound := s.keys.InboundMessageKey(s.lane, 42)
	outbound := s.keys.MessageKey(s.lane, 42)

	s.Equal(outbound[:16], inbound[:16])
	s.NotEqual(outbound[16:32], inbound[16:32])
	s.Equal(outbound[32:], inbound[32:])
}

func (s *StorageKeysTestSuite) Test_MessagePayerKey_DiffersFromMessage() {
	payer := s.keys.MessagePayerKey(s.lane, 42)
	message := s.keys.MessageKey(s.lane, 42)

	s.Equal(message[:16], payer[:16])
	s.NotEqual(message[16:32], payer[16:32])
	s.Equal(message[32:], payer[32:])
}

func (s *StorageKeysTestSuite) Test_StorageMapKey_Hashers() {
	prefix := proof.StorageValueKey("MessageLane", "InboundLanes")

	identity := proof.StorageMapKey("MessageLane", "InboundLanes", proof.Identity, []byte("test"))
	twox := proof.StorageMapKey("MessageLane", "InboundLanes", proof.Twox64Concat, []byte("test"))

	s.Equal(append(append([]byte{}, prefix...), []byte("test")...), identity)
	s.Len(twox, len(prefix)+8+4)
	s.Equal(prefix, twox[:32])
	s.Equal([]byte("test"), twox[40:])
}
