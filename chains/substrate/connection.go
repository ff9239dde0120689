// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package substrate

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	gsrpc "github.com/centrifuge/go-substrate-rpc-client/v4"
	"github.com/centrifuge/go-substrate-rpc-client/v4/signature"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types/codec"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
	"github.com/sprintertech/lane-bridge/chains"
	"golang.org/x/time/rate"
)

var grandpaEngineID = [4]byte{'F', 'R', 'N', 'K'}

// Connection is a rate limited and circuit broken connection to a Substrate node. Extrinsics
// are signed by the keypair of the connection.
type Connection struct {
	log     zerolog.Logger
	api     *gsrpc.SubstrateAPI
	keypair signature.KeyringPair

	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker

	lock      sync.Mutex
	metadata  *types.Metadata
	genesis   types.Hash
	lastNonce *uint64
}

func NewConnection(config *SubstrateConfig) (*Connection, error) {
	keypair, err := signature.KeyringPairFromSecret(config.GeneralChainConfig.Key, config.Network)
	if err != nil {
		return nil, fmt.Errorf("invalid key of chain %s: %w", config.GeneralChainConfig.Name, err)
	}

	api, err := gsrpc.NewSubstrateAPI(config.GeneralChainConfig.Endpoint)
	if err != nil {
		return nil, err
	}

	l := log.With().Str("chain", config.GeneralChainConfig.Name).Logger()
	return &Connection{
		log:     l,
		api:     api,
		keypair: keypair,
		limiter: rate.NewLimiter(rate.Limit(config.RequestsPerSecond), config.RequestBurst),
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        config.GeneralChainConfig.Name,
			MaxRequests: 1,
			Timeout:     config.BreakerTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= config.BreakerMaxFailures
			},
			OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
				l.Warn().Msgf("RPC circuit breaker of %s changed from %s to %s", name, from, to)
			},
		}),
	}, nil
}

// PublicKey returns the public key of the relayer account.
func (c *Connection) PublicKey() []byte {
	return c.keypair.PublicKey
}

func (c *Connection) call(ctx context.Context, fn func() error) error {
	err := c.limiter.Wait(ctx)
	if err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	_, err = c.breaker.Execute(func() (interface{}, error) {
		return nil, fn()
	})
	return err
}

func (c *Connection) GenesisHash(ctx context.Context) (types.Hash, error) {
	c.lock.Lock()
	genesis := c.genesis
	c.lock.Unlock()
	if genesis != (types.Hash{}) {
		return genesis, nil
	}

	err := c.call(ctx, func() (err error) {
		genesis, err = c.api.RPC.Chain.GetBlockHash(0)
		return err
	})
	if err != nil {
		return types.Hash{}, err
	}

	c.lock.Lock()
	c.genesis = genesis
	c.lock.Unlock()
	return genesis, nil
}

func (c *Connection) BestHeader(ctx context.Context) (*types.Header, error) {
	var header *types.Header
	err := c.call(ctx, func() (err error) {
		header, err = c.api.RPC.Chain.GetHeaderLatest()
		return err
	})
	return header, err
}

func (c *Connection) FinalizedHeader(ctx context.Context) (*types.Header, error) {
	var header *types.Header
	err := c.call(ctx, func() error {
		hash, err := c.api.RPC.Chain.GetFinalizedHead()
		if err != nil {
			return err
		}

		header, err = c.api.RPC.Chain.GetHeader(hash)
		return err
	})
	return header, err
}

func (c *Connection) HeaderByNumber(ctx context.Context, number uint64) (*types.Header, error) {
	var header *types.Header
	err := c.call(ctx, func() error {
		hash, err := c.api.RPC.Chain.GetBlockHash(number)
		if err != nil {
			return err
		}

		header, err = c.api.RPC.Chain.GetHeader(hash)
		return err
	})
	return header, err
}

type signedBlock struct {
	// Justifications are (engine id, encoded justification) pairs.
	Justifications [][2]json.RawMessage `json:"justifications"`
}

// Justification returns the GRANDPA justification of the block or nil when the block
// has none.
func (c *Connection) Justification(ctx context.Context, number uint64) ([]byte, error) {
	var block signedBlock
	err := c.call(ctx, func() error {
		hash, err := c.api.RPC.Chain.GetBlockHash(number)
		if err != nil {
			return err
		}

		return c.api.Client.Call(&block, "chain_getBlock", hash.Hex())
	})
	if err != nil {
		return nil, err
	}

	for _, justification := range block.Justifications {
		var engine [4]byte
		err := json.Unmarshal(justification[0], &engine)
		if err != nil || engine != grandpaEngineID {
			continue
		}

		var encoded string
		err = json.Unmarshal(justification[1], &encoded)
		if err != nil {
			return nil, err
		}
		return codec.HexDecodeString(encoded)
	}
	return nil, nil
}

// Storage returns the raw storage value at the block at or nil when there is no value.
func (c *Connection) Storage(ctx context.Context, key []byte, at types.Hash) ([]byte, error) {
	var data *types.StorageDataRaw
	err := c.call(ctx, func() (err error) {
		data, err = c.api.RPC.State.GetStorageRaw(types.StorageKey(key), at)
		return err
	})
	if err != nil {
		return nil, err
	}
	if data == nil || len(*data) == 0 {
		return nil, nil
	}
	return *data, nil
}

type readProof struct {
	At    string   `json:"at"`
	Proof []string `json:"proof"`
}

// ReadProof returns trie nodes proving values of keys at the block at.
func (c *Connection) ReadProof(ctx context.Context, keys [][]byte, at types.Hash) ([][]byte, error) {
	hexKeys := make([]string, len(keys))
	for i, key := range keys {
		hexKeys[i] = codec.HexEncodeToString(key)
	}

	var result readProof
	err := c.call(ctx, func() error {
		return c.api.Client.Call(&result, "state_getReadProof", hexKeys, at.Hex())
	})
	if err != nil {
		return nil, err
	}

	nodes := make([][]byte, len(result.Proof))
	for i, node := range result.Proof {
		nodes[i], err = codec.HexDecodeString(node)
		if err != nil {
			return nil, err
		}
	}
	return nodes, nil
}

// SubscribeJustifications streams encoded GRANDPA justifications until ctx is done or the
// subscription fails.
func (c *Connection) SubscribeJustifications(ctx context.Context) (<-chan []byte, error) {
	notifications := make(chan string)
	sub, err := c.api.Client.Subscribe(
		ctx,
		"grandpa",
		"subscribeJustifications",
		"unsubscribeJustifications",
		"justifications",
		notifications,
	)
	if err != nil {
		return nil, err
	}

	justifications := make(chan []byte)
	go func() {
		defer close(justifications)
		defer sub.Unsubscribe()

		for {
			select {
			case <-ctx.Done():
				return
			case err := <-sub.Err():
				c.log.Warn().Err(err).Msg("Justifications subscription failed")
				return
			case notification := <-notifications:
				justification, err := codec.HexDecodeString(notification)
				if err != nil {
					c.log.Warn().Err(err).Msg("Received invalid justification")
					continue
				}

				select {
				case justifications <- justification:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return justifications, nil
}

// SubmitExtrinsic signs the call with the relayer key and watches the extrinsic until it
// is finalized or dropped.
func (c *Connection) SubmitExtrinsic(ctx context.Context, call Call) (<-chan chains.TxStatus, error) {
	ext, err := c.signedExtrinsic(ctx, call)
	if err != nil {
		return nil, err
	}

	var sub *extrinsicSubscription
	err = c.call(ctx, func() error {
		s, err := c.api.RPC.Author.SubmitAndWatchExtrinsic(ext)
		if err != nil {
			return err
		}

		sub = &extrinsicSubscription{
			statuses:    s.Chan(),
			errors:      s.Err(),
			unsubscribe: s.Unsubscribe,
		}
		return nil
	})
	if err != nil {
		c.resetNonce()
		return nil, err
	}

	statuses := make(chan chains.TxStatus, 1)
	go sub.watch(ctx, c.log.With().Str("call", call.Name).Logger(), statuses)
	return statuses, nil
}

func (c *Connection) signedExtrinsic(ctx context.Context, call Call) (types.Extrinsic, error) {
	genesis, err := c.GenesisHash(ctx)
	if err != nil {
		return types.Extrinsic{}, err
	}

	var runtimeVersion *types.RuntimeVersion
	err = c.call(ctx, func() (err error) {
		runtimeVersion, err = c.api.RPC.State.GetRuntimeVersionLatest()
		return err
	})
	if err != nil {
		return types.Extrinsic{}, err
	}

	meta, err := c.loadMetadata(ctx)
	if err != nil {
		return types.Extrinsic{}, err
	}
	encodedCall, err := types.NewCall(meta, call.Name, call.Args...)
	if err != nil {
		return types.Extrinsic{}, fmt.Errorf("failed to construct call %s: %w", call.Name, err)
	}

	nonce, err := c.nextNonce(ctx)
	if err != nil {
		return types.Extrinsic{}, err
	}

	ext := types.NewExtrinsic(encodedCall)
	err = ext.Sign(c.keypair, types.SignatureOptions{
		BlockHash:          genesis,
		Era:                types.ExtrinsicEra{IsMortalEra: false},
		GenesisHash:        genesis,
		Nonce:              types.NewUCompactFromUInt(nonce),
		SpecVersion:        runtimeVersion.SpecVersion,
		Tip:                types.NewUCompactFromUInt(0),
		TransactionVersion: runtimeVersion.TransactionVersion,
	})
	if err != nil {
		return types.Extrinsic{}, err
	}
	return ext, nil
}

func (c *Connection) loadMetadata(ctx context.Context) (*types.Metadata, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if c.metadata != nil {
		return c.metadata, nil
	}
	err := c.call(ctx, func() (err error) {
		c.metadata, err = c.api.RPC.State.GetMetadataLatest()
		return err
	})
	return c.metadata, err
}

// nextNonce returns the next account index, accounting for extrinsics of this connection
// that are not yet included.
func (c *Connection) nextNonce(ctx context.Context) (uint64, error) {
	var nonce uint64
	err := c.call(ctx, func() error {
		return c.api.Client.Call(&nonce, "system_accountNextIndex", c.keypair.Address)
	})
	if err != nil {
		return 0, err
	}

	c.lock.Lock()
	defer c.lock.Unlock()
	if c.lastNonce != nil && nonce <= *c.lastNonce {
		nonce = *c.lastNonce + 1
	}
	c.lastNonce = &nonce
	return nonce, nil
}

func (c *Connection) resetNonce() {
	c.lock.Lock()
	c.lastNonce = nil
	c.lock.Unlock()
}

type extrinsicSubscription struct {
	statuses    <-chan types.ExtrinsicStatus
	errors      <-chan error
	unsubscribe func()
}

func (s *extrinsicSubscription) watch(ctx context.Context, l zerolog.Logger, statuses chan<- chains.TxStatus) {
	defer close(statuses)
	defer s.unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return
		case err := <-s.errors:
			l.Warn().Err(err).Msg("Extrinsic watch failed")
			return
		case status := <-s.statuses:
			txStatus := extrinsicStatus(status)
			select {
			case statuses <- txStatus:
			case <-ctx.Done():
				return
			}
			if txStatus == chains.TxFinalized || txStatus == chains.TxLost {
				return
			}
		}
	}
}

func extrinsicStatus(status types.ExtrinsicStatus) chains.TxStatus {
	switch {
	case status.IsFinalized:
		return chains.TxFinalized
	case status.IsInBlock:
		return chains.TxIncluded
	case status.IsDropped, status.IsInvalid, status.IsUsurped, status.IsFinalityTimeout:
		return chains.TxLost
	default:
		return chains.TxPending
	}
}
