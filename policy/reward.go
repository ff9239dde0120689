// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package policy

import (
	"math/big"
)

// RewardSplitter divides a delivery reward into the share of the delivering relayer and the
// share of the other party.
type RewardSplitter interface {
	Split(fee *big.Int) (relayerShare *big.Int, otherShare *big.Int)
}

// PercentSplitter takes Percent of the fee, rounded down, for the other party. The delivering
// relayer receives the rest so no part of the fee is lost to rounding.
type PercentSplitter struct {
	Percent uint32
}

func (s *PercentSplitter) Split(fee *big.Int) (*big.Int, *big.Int) {
	if fee == nil || fee.Sign() <= 0 {
		return big.NewInt(0), big.NewInt(0)
	}

	other := new(big.Int).Mul(fee, big.NewInt(int64(s.Percent)))
	other.Quo(other, big.NewInt(100))
	relayer := new(big.Int).Sub(fee, other)
	return relayer, other
}
