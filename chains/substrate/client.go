// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package substrate

import (
	"context"
	"fmt"
	"time"

	"github.com/centrifuge/go-substrate-rpc-client/v4/scale"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types/codec"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/sprintertech/lane-bridge/cache"
	"github.com/sprintertech/lane-bridge/chains"
	"github.com/sprintertech/lane-bridge/finality"
	"github.com/sprintertech/lane-bridge/lane"
	"github.com/sprintertech/lane-bridge/proof"
	"github.com/sprintertech/lane-bridge/relay"
	"golang.org/x/crypto/blake2b"
)

const (
	BEST_FINALIZED_ITEM = "BestFinalized"
	FIXED_U128_DECIMALS = 18

	DEFAULT_STALL_TIMEOUT = time.Minute * 5
)

// Call is a runtime call in the `Pallet.call_name` form with its arguments.
type Call struct {
	Name string
	Args []interface{}
}

type RPC interface {
	GenesisHash(ctx context.Context) (types.Hash, error)
	BestHeader(ctx context.Context) (*types.Header, error)
	FinalizedHeader(ctx context.Context) (*types.Header, error)
	HeaderByNumber(ctx context.Context, number uint64) (*types.Header, error)
	Justification(ctx context.Context, number uint64) ([]byte, error)
	Storage(ctx context.Context, key []byte, at types.Hash) ([]byte, error)
	ReadProof(ctx context.Context, keys [][]byte, at types.Hash) ([][]byte, error)
	SubscribeJustifications(ctx context.Context) (<-chan []byte, error)
	SubmitExtrinsic(ctx context.Context, call Call) (<-chan chains.TxStatus, error)
}

// peerHeaderID is the header chain pallet form of the best finalized peer header.
type peerHeaderID struct {
	Number types.U32
	Hash   types.Hash
}

// Client exposes a Substrate chain running the bridge pallets to the relay.
type Client struct {
	log     zerolog.Logger
	rpc     RPC
	headers *cache.HeaderCache

	keys          proof.StorageKeys
	grandpaPallet string
	relayer       lane.RelayerID
	stallTimeout  time.Duration
}

func NewClient(config *SubstrateConfig, rpc RPC, headers *cache.HeaderCache, relayer lane.RelayerID) *Client {
	stallTimeout := config.GeneralChainConfig.StallTimeoutInterval()
	if stallTimeout == 0 {
		stallTimeout = DEFAULT_STALL_TIMEOUT
	}

	return &Client{
		log:           log.With().Str("chain", config.GeneralChainConfig.Name).Logger(),
		rpc:           rpc,
		headers:       headers,
		keys:          proof.NewStorageKeys(config.MessagesPallet),
		grandpaPallet: config.GrandpaPallet,
		relayer:       relayer,
		stallTimeout:  stallTimeout,
	}
}

func (c *Client) Relayer() lane.RelayerID {
	return c.relayer
}

func (c *Client) GenesisHash(ctx context.Context) (types.Hash, error) {
	return c.rpc.GenesisHash(ctx)
}

func (c *Client) State(ctx context.Context) (chains.ClientState, error) {
	best, err := c.rpc.BestHeader(ctx)
	if err != nil {
		return chains.ClientState{}, err
	}
	finalized, err := c.rpc.FinalizedHeader(ctx)
	if err != nil {
		return chains.ClientState{}, err
	}

	state := chains.ClientState{}
	state.BestSelf, err = HeaderID(best)
	if err != nil {
		return chains.ClientState{}, err
	}
	state.BestFinalizedSelf, err = HeaderID(finalized)
	if err != nil {
		return chains.ClientState{}, err
	}

	peer, err := c.bestFinalizedPeer(ctx, state.BestSelf.Hash)
	if err != nil {
		return chains.ClientState{}, err
	}
	state.BestFinalizedPeerAtBestSelf = peer
	return state, nil
}

func (c *Client) Headers() finality.SourceClient {
	return &HeadersSource{client: c}
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

// UpdateConversionRate publishes the rate of this chain token to the bridged chain token
// through the messages pallet parameter.
func (c *Client) UpdateConversionRate(ctx context.Context, rate decimal.Decimal) error {
	if !rate.IsPositive() {
		return fmt.Errorf("conversion rate %s is not positive", rate)
	}

	fixed := rate.Shift(FIXED_U128_DECIMALS).Floor().BigInt()
	tracker, err := c.submit(ctx, Call{
		Name: c.keys.Pallet() + ".update_pallet_parameter",
		Args: []interface{}{conversionRateParameter{Value: types.NewU128(*fixed)}},
	})
	if err != nil {
		return err
	}

	status, err := tracker.Wait(ctx)
	if err != nil {
		return err
	}
	if status != chains.TxFinalized {
		return fmt.Errorf("conversion rate update is %s", status)
	}

	c.log.Info().Msgf("Published conversion rate %s", rate)
	return nil
}

func (c *Client) submit(ctx context.Context, call Call) (chains.TransactionTracker, error) {
	statuses, err := c.rpc.SubmitExtrinsic(ctx, call)
	if err != nil {
		return nil, fmt.Errorf("failed to submit %s: %w", call.Name, err)
	}

	c.log.Debug().Msgf("Submitted %s", call.Name)
	return chains.NewChannelTracker(statuses, c.stallTimeout), nil
}

func (c *Client) bestFinalizedPeer(ctx context.Context, at types.Hash) (*chains.HeaderID, error) {
	raw, err := c.rpc.Storage(ctx, proof.StorageValueKey(c.grandpaPallet, BEST_FINALIZED_ITEM), at)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}

	var id peerHeaderID
	err = codec.Decode(raw, &id)
	if err != nil {
		return nil, fmt.Errorf("invalid best finalized peer header: %w", err)
	}
	return &chains.HeaderID{Number: uint64(id.Number), Hash: id.Hash}, nil
}

// finalizedHeader returns a finalized header of the chain, served from the cache if possible.
func (c *Client) finalizedHeader(ctx context.Context, number uint64) (*types.Header, error) {
	return c.headers.Header(number, func(number uint64) (*types.Header, error) {
		return c.rpc.HeaderByNumber(ctx, number)
	})
}

// HeaderID returns the number and the blake2b-256 hash of the header.
func HeaderID(header *types.Header) (chains.HeaderID, error) {
	encoded, err := codec.Encode(*header)
	if err != nil {
		return chains.HeaderID{}, err
	}

	return chains.HeaderID{
		Number: uint64(header.Number),
		Hash:   types.NewHash(hashBytes(encoded)),
	}, nil
}

func hashBytes(data []byte) []byte {
	hash := blake2b.Sum256(data)
	return hash[:]
}

// conversionRateParameter is the first variant of the messages pallet parameter enum.
type conversionRateParameter struct {
	Value types.U128
}

func (p conversionRateParameter) Encode(encoder scale.Encoder) error {
	err := encoder.PushByte(0)
	if err != nil {
		return err
	}
	return encoder.Encode(p.Value)
}
