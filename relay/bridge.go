// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package relay

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
	"github.com/sprintertech/lane-bridge/finality"
	"github.com/sprintertech/lane-bridge/lane"
)

var ErrGenesisMismatch = errors.New("chain genesis does not match the expected genesis")

// ChainEndConfig describes one chain of a two-way bridge.
type ChainEndConfig struct {
	Name   string
	Client ChainClient
	// ExpectedGenesis is checked before lane loops of the chain start. Zero disables the check.
	ExpectedGenesis types.Hash
	Tick            time.Duration
	StallTimeout    time.Duration
}

func (c ChainEndConfig) validate() error {
	if c.Name == "" {
		return fmt.Errorf("chain name is required")
	}
	if c.Client == nil {
		return fmt.Errorf("chain %s has no client", c.Name)
	}
	return nil
}

// Full2WayBuilder assembles a bridge relaying messages and headers in both directions.
type Full2WayBuilder struct {
	a ChainEndConfig
	b ChainEndConfig

	lanes                     []lane.LaneID
	params                    DeliveryParams
	limits                    ProtocolLimits
	recentFinalityProofsLimit int

	ledger   RewardLedger
	metrics  Metrics
	observer StatusObserver
}

func NewFull2WayBuilder(a ChainEndConfig, b ChainEndConfig) *Full2WayBuilder {
	return &Full2WayBuilder{a: a, b: b}
}

func (b *Full2WayBuilder) WithLanes(lanes ...lane.LaneID) *Full2WayBuilder {
	b.lanes = append(b.lanes, lanes...)
	return b
}

func (b *Full2WayBuilder) WithDeliveryParams(params DeliveryParams, limits ProtocolLimits) *Full2WayBuilder {
	b.params = params
	b.limits = limits
	return b
}

func (b *Full2WayBuilder) WithRecentFinalityProofsLimit(limit int) *Full2WayBuilder {
	b.recentFinalityProofsLimit = limit
	return b
}

func (b *Full2WayBuilder) WithRewardLedger(ledger RewardLedger) *Full2WayBuilder {
	b.ledger = ledger
	return b
}

func (b *Full2WayBuilder) WithMetrics(metrics Metrics) *Full2WayBuilder {
	b.metrics = metrics
	return b
}

func (b *Full2WayBuilder) WithStatusObserver(observer StatusObserver) *Full2WayBuilder {
	b.observer = observer
	return b
}

func (b *Full2WayBuilder) Build() (*Full2WayBridge, error) {
	for _, end := range []ChainEndConfig{b.a, b.b} {
		err := end.validate()
		if err != nil {
			return nil, err
		}
	}
	if b.a.Name == b.b.Name {
		return nil, fmt.Errorf("bridged chains have the same name %s", b.a.Name)
	}
	if len(b.lanes) == 0 {
		return nil, fmt.Errorf("no lanes to relay")
	}
	err := b.params.Validate(b.limits)
	if err != nil {
		return nil, fmt.Errorf("invalid delivery params: %w", err)
	}

	logC := log.With().Str("bridge", fmt.Sprintf("%s<>%s", b.a.Name, b.b.Name))
	var metrics finality.Metrics
	if b.metrics != nil {
		metrics = b.metrics
	}

	bridge := &Full2WayBridge{
		log:           logC.Logger(),
		a:             b.a,
		b:             b.b,
		headersAtB:    b.headersRelay(logC, b.a, b.b, metrics),
		headersAtA:    b.headersRelay(logC, b.b, b.a, metrics),
		genesisErrors: make(map[string]error),
	}
	for _, id := range b.lanes {
		bridge.lanes = append(bridge.lanes,
			b.laneLoop(logC, id, b.a, b.b, bridge.headersAtB, bridge.headersAtA),
			b.laneLoop(logC, id, b.b, b.a, bridge.headersAtA, bridge.headersAtB),
		)
	}
	return bridge, nil
}

func (b *Full2WayBuilder) headersRelay(logC zerolog.Context, source ChainEndConfig, target ChainEndConfig, metrics finality.Metrics) *OnDemandHeadersRelay {
	return NewOnDemandHeadersRelay(logC, finality.Config{
		Source:                    source.Name,
		Target:                    target.Name,
		Tick:                      target.Tick,
		StallTimeout:              target.StallTimeout,
		RecentFinalityProofsLimit: b.recentFinalityProofsLimit,
	}, source.Client.Headers(), target.Client.PeerHeaders(), metrics)
}

func (b *Full2WayBuilder) laneLoop(
	logC zerolog.Context,
	id lane.LaneID,
	source ChainEndConfig,
	target ChainEndConfig,
	sourceHeaders HeaderRequirer,
	targetHeaders HeaderRequirer,
) *laneTask {
	loop := NewLaneLoop(logC, LaneConfig{
		Lane:         id,
		Source:       source.Name,
		Target:       target.Name,
		SourceTick:   source.Tick,
		TargetTick:   target.Tick,
		StallTimeout: target.StallTimeout,
		Delivery:     b.params,
	}, source.Client.OutboundLane(id), target.Client.InboundLane(id), sourceHeaders, targetHeaders)
	if b.ledger != nil {
		loop.WithRewardLedger(b.ledger)
	}
	if b.metrics != nil {
		loop.WithMetrics(b.metrics)
	}
	if b.observer != nil {
		loop.WithStatusObserver(b.observer)
	}
	return &laneTask{loop: loop, source: source, target: target}
}

type laneTask struct {
	loop   *LaneLoop
	source ChainEndConfig
	target ChainEndConfig
}

// Full2WayBridge runs lane loops of every lane in both directions and the on-demand header
// relays they depend on.
type Full2WayBridge struct {
	log zerolog.Logger
	a   ChainEndConfig
	b   ChainEndConfig

	headersAtA *OnDemandHeadersRelay
	headersAtB *OnDemandHeadersRelay
	lanes      []*laneTask

	genesisErrors map[string]error
}

// Run runs every task until ctx is done. A failed task does not stop the others, the returned
// error joins errors of all failed tasks.
func (b *Full2WayBridge) Run(ctx context.Context) error {
	for _, end := range []ChainEndConfig{b.a, b.b} {
		b.genesisErrors[end.Name] = b.checkGenesis(ctx, end)
	}

	p := pool.New().WithErrors()
	p.Go(func() error {
		b.headersAtA.Run(ctx)
		return nil
	})
	p.Go(func() error {
		b.headersAtB.Run(ctx)
		return nil
	})
	for _, task := range b.lanes {
		task := task
		p.Go(func() error {
			for _, end := range []ChainEndConfig{task.source, task.target} {
				err := b.genesisErrors[end.Name]
				if err != nil && ctx.Err() != nil {
					return nil
				}
				if err != nil {
					b.log.Error().Err(err).Msgf("Lane %s loop %s is not started", task.loop.cfg.Lane, task.loop.cfg.Direction())
					return err
				}
			}

			task.loop.Run(ctx)
			return nil
		})
	}

	b.log.Info().Msgf("Started bridge with %d lane loops", len(b.lanes))
	return p.Wait()
}

// checkGenesis compares the genesis of the chain with the expected one. Read failures are
// retried until ctx is done, a mismatch is final.
func (b *Full2WayBridge) checkGenesis(ctx context.Context, end ChainEndConfig) error {
	if end.ExpectedGenesis == (types.Hash{}) {
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	if end.Tick > 0 {
		bo.InitialInterval = end.Tick
	}
	bo.MaxElapsedTime = 0

	return backoff.RetryNotify(
		func() error {
			genesis, err := end.Client.GenesisHash(ctx)
			if err != nil {
				return fmt.Errorf("failed to read genesis of %s: %w", end.Name, err)
			}
			if genesis != end.ExpectedGenesis {
				return backoff.Permanent(fmt.Errorf("%w: %s has genesis %s, expected %s", ErrGenesisMismatch, end.Name, genesis.Hex(), end.ExpectedGenesis.Hex()))
			}
			return nil
		},
		backoff.WithContext(bo, ctx),
		func(err error, delay time.Duration) {
			b.log.Warn().Err(err).Msgf("Genesis check of %s failed, retrying in %s", end.Name, delay)
		},
	)
}
