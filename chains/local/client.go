// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package local

import (
	"context"
	"time"

	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sprintertech/lane-bridge/chains"
	"github.com/sprintertech/lane-bridge/finality"
	"github.com/sprintertech/lane-bridge/lane"
	"github.com/sprintertech/lane-bridge/relay"
	"github.com/sprintertech/lane-bridge/runtime"
)

const (
	DEFAULT_POLL_INTERVAL = time.Millisecond * 100
	DEFAULT_STALL_TIMEOUT = time.Minute
)

// Client exposes an in-process chain to the relay. Transactions are signed by relayer.
type Client struct {
	log     zerolog.Logger
	chain   *runtime.Chain
	relayer lane.RelayerID

	pollInterval time.Duration
	stallTimeout time.Duration
}

func NewClient(chain *runtime.Chain, relayer lane.RelayerID) *Client {
	return &Client{
		log:          log.With().Str("chain", chain.Name()).Logger(),
		chain:        chain,
		relayer:      relayer,
		pollInterval: DEFAULT_POLL_INTERVAL,
		stallTimeout: DEFAULT_STALL_TIMEOUT,
	}
}

// WithTracking overrides how often and how long submitted transactions are polled.
func (c *Client) WithTracking(pollInterval time.Duration, stallTimeout time.Duration) *Client {
	c.pollInterval = pollInterval
	c.stallTimeout = stallTimeout
	return c
}

func (c *Client) Relayer() lane.RelayerID {
	return c.relayer
}

func (c *Client) GenesisHash(_ context.Context) (types.Hash, error) {
	return c.chain.GenesisHash(), nil
}

func (c *Client) State(_ context.Context) (chains.ClientState, error) {
	state := chains.ClientState{
		BestSelf:          c.chain.BestHeader().ID(),
		BestFinalizedSelf: c.chain.BestFinalizedHeader().ID(),
	}
	peer, ok := c.chain.BestFinalizedPeer()
	if ok {
		state.BestFinalizedPeerAtBestSelf = &peer
	}
	return state, nil
}

func (c *Client) Headers() finality.SourceClient {
	return &HeadersSource{chain: c.chain, log: c.log}
}

func (c *Client) PeerHeaders() finality.TargetClient {
	return &PeerHeadersTarget{client: c}
}

func (c *Client) OutboundLane(id lane.LaneID) relay.SourceClient {
	return &LaneSource{Client: c, lane: id}
}

func (c *Client) InboundLane(id lane.LaneID) relay.TargetClient {
	return &LaneTarget{Client: c, lane: id}
}

func (c *Client) submit(call runtime.Call) chains.TransactionTracker {
	id := c.chain.Submit(call)
	c.log.Debug().Msgf("Submitted transaction %d (%s)", id, call.Name())

	return chains.NewPollingTracker(func() (chains.TxStatus, error) {
		status, err := c.chain.TxStatus(id)
		if err != nil {
			return status, err
		}
		if status == chains.TxLost {
			return status, c.chain.TxError(id)
		}
		return status, nil
	}, c.pollInterval, c.stallTimeout)
}
