// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package policy

import (
	"errors"
	"fmt"
	"math"
	"math/big"

	"github.com/shopspring/decimal"
	"github.com/sprintertech/lane-bridge/lane"
)

const (
	DEFAULT_RELAYER_FEE_PERCENT = 10
)

var (
	ErrWeightOutOfRange = errors.New("declared message weight is out of range")
	ErrFeeTooLow        = errors.New("message fee is lower than the minimal fee")
)

// Weight is the execution cost unit of a chain.
type Weight uint64

// WeightRange is an inclusive range of weights.
type WeightRange struct {
	Min Weight
	Max Weight
}

func (r WeightRange) Contains(w Weight) bool {
	return w >= r.Min && w <= r.Max
}

// RateProvider returns the amount of bridged chain tokens one token of this chain is worth.
type RateProvider interface {
	Rate() decimal.Decimal
}

type StaticRate struct {
	rate decimal.Decimal
}

func NewStaticRate(rate decimal.Decimal) *StaticRate {
	return &StaticRate{rate: rate}
}

func (r *StaticRate) Rate() decimal.Decimal {
	return r.rate
}

// Config describes the weight and fee universe of one chain towards its bridged chain.
type Config struct {
	// MaxExtrinsicWeightOnBridgedChain is the maximal weight of a single transaction at the bridged chain.
	MaxExtrinsicWeightOnBridgedChain Weight

	DeliveryTxBaseWeight       Weight
	DeliveryTxPerMessageWeight Weight
	DeliveryTxPerByteWeight    Weight

	ConfirmationTxBaseWeight       Weight
	ConfirmationTxPerRelayerWeight Weight
	ConfirmationTxPerMessageWeight Weight

	// ThisWeightToFee and BridgedWeightToFee convert weight into balance at each chain.
	ThisWeightToFee    decimal.Decimal
	BridgedWeightToFee decimal.Decimal

	// RelayerFeePercent is the share of a message fee that is not paid to the delivering relayer.
	RelayerFeePercent uint32
}

// MessageBridge translates weights and balances between two bridged chains. It holds no mutable state
// besides what the rate provider exposes.
type MessageBridge struct {
	cfg      Config
	rate     RateProvider
	splitter RewardSplitter
}

func NewMessageBridge(cfg Config, rate RateProvider) (*MessageBridge, error) {
	if cfg.RelayerFeePercent > 100 {
		return nil, fmt.Errorf("relayer fee percent %d is greater than 100", cfg.RelayerFeePercent)
	}
	if cfg.MaxExtrinsicWeightOnBridgedChain == 0 {
		return nil, fmt.Errorf("max extrinsic weight on bridged chain is not set")
	}
	if rate == nil {
		return nil, fmt.Errorf("conversion rate provider is not set")
	}

	return &MessageBridge{
		cfg:      cfg,
		rate:     rate,
		splitter: &PercentSplitter{Percent: cfg.RelayerFeePercent},
	}, nil
}

// WithRewardSplitter replaces the default percentage based reward split.
func (b *MessageBridge) WithRewardSplitter(splitter RewardSplitter) *MessageBridge {
	b.splitter = splitter
	return b
}

func (b *MessageBridge) RelayerFeePercent() uint32 {
	return b.cfg.RelayerFeePercent
}

// WeightLimitsOfMessageOnBridgedChain returns the range of weights a message with the payload of
// the given size may declare. Half of the maximal extrinsic weight is reserved for the delivery
// transaction itself.
func (b *MessageBridge) WeightLimitsOfMessageOnBridgedChain(payloadLen int) WeightRange {
	return WeightRange{
		Min: Weight(payloadLen),
		Max: b.cfg.MaxExtrinsicWeightOnBridgedChain / 2,
	}
}

// WeightOfDeliveryTransaction estimates the weight of the transaction delivering messages to the bridged chain.
func (b *MessageBridge) WeightOfDeliveryTransaction(messages lane.MessageNonce, size uint64, dispatchWeight Weight) Weight {
	weight := b.cfg.DeliveryTxBaseWeight
	weight = saturatingAdd(weight, saturatingMul(b.cfg.DeliveryTxPerMessageWeight, uint64(messages)))
	weight = saturatingAdd(weight, saturatingMul(b.cfg.DeliveryTxPerByteWeight, size))
	return saturatingAdd(weight, dispatchWeight)
}

// WeightOfConfirmationTransaction estimates the weight of the transaction confirming delivery at this chain.
func (b *MessageBridge) WeightOfConfirmationTransaction(relayerEntries lane.MessageNonce, messages lane.MessageNonce) Weight {
	weight := b.cfg.ConfirmationTxBaseWeight
	weight = saturatingAdd(weight, saturatingMul(b.cfg.ConfirmationTxPerRelayerWeight, uint64(relayerEntries)))
	return saturatingAdd(weight, saturatingMul(b.cfg.ConfirmationTxPerMessageWeight, uint64(messages)))
}

// ThisBalanceToBridgedBalance converts an amount of this chain tokens into the bridged chain tokens.
// Conversion rounds down and never inverts the order of amounts.
func (b *MessageBridge) ThisBalanceToBridgedBalance(amount *big.Int) *big.Int {
	rate := b.rate.Rate()
	if !rate.IsPositive() {
		return big.NewInt(0)
	}
	return decimal.NewFromBigInt(amount, 0).Mul(rate).Floor().BigInt()
}

// BridgedBalanceToThisBalance converts an amount of bridged chain tokens into this chain tokens.
func (b *MessageBridge) BridgedBalanceToThisBalance(amount *big.Int) *big.Int {
	rate := b.rate.Rate()
	if !rate.IsPositive() {
		return big.NewInt(0)
	}
	return decimal.NewFromBigInt(amount, 0).Div(rate).Floor().BigInt()
}

// MinimumFee is the fee a message has to pay at this chain to cover its delivery and dispatch
// at the bridged chain and the delivery confirmation at this chain.
func (b *MessageBridge) MinimumFee(payload MessagePayload, encodedLen int) *big.Int {
	deliveryWeight := b.WeightOfDeliveryTransaction(1, uint64(encodedLen), payload.Weight)
	bridgedFee := decimal.NewFromBigInt(new(big.Int).SetUint64(uint64(deliveryWeight)), 0).
		Mul(b.cfg.BridgedWeightToFee).
		Ceil().
		BigInt()

	confirmationWeight := b.WeightOfConfirmationTransaction(1, 1)
	confirmationFee := decimal.NewFromBigInt(new(big.Int).SetUint64(uint64(confirmationWeight)), 0).
		Mul(b.cfg.ThisWeightToFee).
		Ceil().
		BigInt()

	return new(big.Int).Add(b.BridgedBalanceToThisBalance(bridgedFee), confirmationFee)
}

// VerifyMessage checks the declared weight and fee of an outbound message.
func (b *MessageBridge) VerifyMessage(payload MessagePayload, encodedLen int) error {
	limits := b.WeightLimitsOfMessageOnBridgedChain(encodedLen)
	if !limits.Contains(payload.Weight) {
		return fmt.Errorf("%w: weight %d, allowed [%d, %d]", ErrWeightOutOfRange, payload.Weight, limits.Min, limits.Max)
	}

	minimumFee := b.MinimumFee(payload, encodedLen)
	if payload.Fee == nil || payload.Fee.Cmp(minimumFee) < 0 {
		return fmt.Errorf("%w: fee %v, minimal fee %s", ErrFeeTooLow, payload.Fee, minimumFee)
	}
	return nil
}

// SplitReward divides the fee of delivered messages between the delivering relayer and the
// other party of the delivery.
func (b *MessageBridge) SplitReward(fee *big.Int) (*big.Int, *big.Int) {
	return b.splitter.Split(fee)
}

func saturatingAdd(a Weight, b Weight) Weight {
	if a > math.MaxUint64-b {
		return math.MaxUint64
	}
	return a + b
}

func saturatingMul(a Weight, b uint64) Weight {
	if a == 0 || b == 0 {
		return 0
	}
	if uint64(a) > math.MaxUint64/b {
		return math.MaxUint64
	}
	return Weight(uint64(a) * b)
}
