// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package chains

import (
	"fmt"

	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
)

// HeaderID identifies a chain header.
type HeaderID struct {
	Number uint64
	Hash   types.Hash
}

func (h HeaderID) String() string {
	return fmt.Sprintf("%d/%s", h.Number, h.Hash.Hex())
}

// ClientState is the view of a chain that the relay needs in order to make progress.
type ClientState struct {
	BestSelf          HeaderID
	BestFinalizedSelf HeaderID
	// BestFinalizedPeerAtBestSelf is the best finalized header of the bridged chain that is
	// known to this chain. Nil when the header chain is not initialized.
	BestFinalizedPeerAtBestSelf *HeaderID
}

type TxStatus int

const (
	TxPending TxStatus = iota
	TxIncluded
	TxFinalized
	TxLost
)

func (s TxStatus) String() string {
	switch s {
	case TxPending:
		return "pending"
	case TxIncluded:
		return "included"
	case TxFinalized:
		return "finalized"
	default:
		return "lost"
	}
}
