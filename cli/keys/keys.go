// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package keys

import (
	"fmt"

	"github.com/centrifuge/go-substrate-rpc-client/v4/types/codec"
	"github.com/spf13/cobra"

	"github.com/sprintertech/lane-bridge/lane"
	"github.com/sprintertech/lane-bridge/proof"
)

var (
	KeysCLI = &cobra.Command{
		Use:   "keys",
		Short: "Print storage keys of a messages pallet lane",
		Long: "CLI prints storage keys of the outbound message with the provided nonce and " +
			"of the inbound and outbound lane data of the provided lane",
		RunE: printKeys,
	}
)

var (
	pallet string
	laneID string
	nonce  uint64
)

func init() {
	KeysCLI.PersistentFlags().StringVar(&pallet, "pallet", "BridgeMessages", "name of the messages pallet")
	KeysCLI.PersistentFlags().StringVar(&laneID, "lane", "", "lane id as 4 character tag or 0x prefixed hex")
	_ = KeysCLI.MarkPersistentFlagRequired("lane")
	KeysCLI.PersistentFlags().Uint64Var(&nonce, "nonce", 1, "message nonce")
}

func printKeys(cmd *cobra.Command, args []string) error {
	keys, err := StorageKeys(pallet, laneID, lane.MessageNonce(nonce))
	if err != nil {
		return err
	}

	for _, key := range keys {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", key.Name, key.Key)
	}
	return nil
}

type StorageKey struct {
	Name string
	Key  string
}

// StorageKeys returns hex encoded storage keys of the message and both lane data items.
func StorageKeys(pallet string, laneID string, nonce lane.MessageNonce) ([]StorageKey, error) {
	id, err := lane.ParseLaneID(laneID)
	if err != nil {
		return nil, err
	}

	keys := proof.NewStorageKeys(pallet)
	return []StorageKey{
		{Name: "OutboundMessages", Key: codec.HexEncodeToString(keys.MessageKey(id, nonce))},
		{Name: "OutboundLanes", Key: codec.HexEncodeToString(keys.OutboundLaneDataKey(id))},
		{Name: "InboundLanes", Key: codec.HexEncodeToString(keys.InboundLaneDataKey(id))},
	}, nil
}
