// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package keys_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sprintertech/lane-bridge/cli/keys"
	"github.com/stretchr/testify/suite"
)

type KeysTestSuite struct {
	suite.Suite
}

func TestRunKeysTestSuite(t *testing.T) {
	suite.Run(t, new(KeysTestSuite))
}

func (s *KeysTestSuite) Test_StorageKeys() {
	storageKeys, err := keys.StorageKeys("MessageLane", "test", 42)

	s.Nil(err)
	s.Equal([]keys.StorageKey{
		{
			Name: "OutboundMessages",
			Key:  "0x87f1ffe31b52878f09495ca7482df1a48a395e6242c6813b196ca31ed0547ea79446af0e09063bd4a7874aef8a997cec746573742a00000000000000",
		},
		{
			Name: "OutboundLanes",
			Key:  "0x87f1ffe31b52878f09495ca7482df1a496c246acb9b55077390e3ca723a0ca1f44a8995dd50b6657a037a7839304535b74657374",
		},
		{
			Name: "InboundLanes",
			Key:  "0x87f1ffe31b52878f09495ca7482df1a4e5f83cf83f2127eb47afdc35d6e43fab44a8995dd50b6657a037a7839304535b74657374",
		},
	}, storageKeys)
}

func (s *KeysTestSuite) Test_StorageKeys_InvalidLane() {
	_, err := keys.StorageKeys("MessageLane", "tst", 1)

	s.NotNil(err)
}

func (s *KeysTestSuite) Test_KeysCLI() {
	out := new(bytes.Buffer)
	keys.KeysCLI.SetOut(out)
	keys.KeysCLI.SetArgs([]string{"--pallet", "MessageLane", "--lane", "0x74657374", "--nonce", "42"})

	err := keys.KeysCLI.Execute()

	s.Nil(err)
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	s.Len(lines, 3)
	s.True(strings.HasPrefix(lines[0], "OutboundMessages: 0x87f1ffe31b52878f"))
	s.True(strings.HasSuffix(lines[2], "74657374"))
}
