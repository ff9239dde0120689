// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package runtime

import (
	"errors"
	"math/big"

	"github.com/sprintertech/lane-bridge/lane"
)

var ErrInsufficientBalance = errors.New("insufficient balance")

// Balances is a minimal account balances module.
type Balances struct {
	accounts map[lane.RelayerID]*big.Int
}

func NewBalances() *Balances {
	return &Balances{
		accounts: make(map[lane.RelayerID]*big.Int),
	}
}

func (b *Balances) Balance(account lane.RelayerID) *big.Int {
	balance, ok := b.accounts[account]
	if !ok {
		return big.NewInt(0)
	}
	return new(big.Int).Set(balance)
}

func (b *Balances) Deposit(account lane.RelayerID, amount *big.Int) {
	if amount == nil || amount.Sign() <= 0 {
		return
	}
	b.accounts[account] = new(big.Int).Add(b.Balance(account), amount)
}

func (b *Balances) Transfer(from lane.RelayerID, to lane.RelayerID, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return nil
	}

	balance := b.Balance(from)
	if balance.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	b.accounts[from] = balance.Sub(balance, amount)
	b.Deposit(to, amount)
	return nil
}
