// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package app

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/sprintertech/lane-bridge/api"
	"github.com/sprintertech/lane-bridge/api/handlers"
	"github.com/sprintertech/lane-bridge/cache"
	"github.com/sprintertech/lane-bridge/chains/local"
	"github.com/sprintertech/lane-bridge/config/relayer"
	"github.com/sprintertech/lane-bridge/headerchain"
	"github.com/sprintertech/lane-bridge/lane"
	"github.com/sprintertech/lane-bridge/metrics"
	"github.com/sprintertech/lane-bridge/observability"
	"github.com/sprintertech/lane-bridge/policy"
	"github.com/sprintertech/lane-bridge/price"
	"github.com/sprintertech/lane-bridge/relay"
	"github.com/sprintertech/lane-bridge/runtime"
	"github.com/sprintertech/lane-bridge/store"
)

const (
	DEVNET_AUTHORITIES       = 3
	DEVNET_MESSAGE_WEIGHT    = 50
	DEVNET_SENDER_ENDOWMENT  = 1_000_000_000
	DEVNET_MAX_RELAYERS      = 16
	DEVNET_MAX_UNCONFIRMED   = 128
	DEVNET_MAX_BATCH         = 16
	DEVNET_DISPATCH_WEIGHT   = 1000
	DEVNET_MAX_BATCH_SIZE    = 1 << 20
	DEVNET_TRACKING_INTERVAL = time.Millisecond * 50
)

var (
	devnetSender  = lane.RelayerID{'s', 'e', 'n', 'd', 'e', 'r'}
	devnetRelayer = lane.RelayerID{'r', 'e', 'l', 'a', 'y', 'e', 'r'}
	devnetFund    = lane.RelayerID{'f', 'u', 'n', 'd'}
)

type DevnetConfig struct {
	BlockTime       time.Duration
	MessageInterval time.Duration
	Lanes           []lane.LaneID
	ApiAddr         string

	// Coinmarketcap feeds the conversion rate between ThisToken and BridgedToken when
	// its API key is set. The rate is fixed at 1 otherwise.
	Coinmarketcap       relayer.CoinmarketcapConfig
	ThisToken           string
	BridgedToken        string
	PriceUpdateInterval time.Duration
}

// Devnet is a pair of in-process chains bridged by a two-way relay.
type Devnet struct {
	log zerolog.Logger
	cfg DevnetConfig

	A *runtime.Chain
	B *runtime.Chain

	policies map[string]*policy.MessageBridge
	feed     *price.RateFeed
	ledger   *store.RewardLedger
	statuses *cache.LaneStatusCache
	bridge   *relay.Full2WayBridge
}

// NewDevnet creates both chains, initializes their header chains and builds the relay.
// Relay metrics are skipped when m is nil.
func NewDevnet(ctx context.Context, cfg DevnetConfig, m relay.Metrics) (*Devnet, error) {
	if cfg.BlockTime == 0 || cfg.MessageInterval == 0 {
		return nil, fmt.Errorf("devnet block time and message interval are required")
	}
	if len(cfg.Lanes) == 0 {
		return nil, fmt.Errorf("devnet requires at least one lane")
	}

	d := &Devnet{
		log:      log.With().Str("component", "devnet").Logger(),
		cfg:      cfg,
		policies: make(map[string]*policy.MessageBridge),
		statuses: cache.NewLaneStatusCache(ctx),
	}

	var rateA, rateB policy.RateProvider = policy.NewStaticRate(decimal.NewFromInt(1)), policy.NewStaticRate(decimal.NewFromInt(1))
	if cfg.Coinmarketcap.ApiKey != "" {
		d.feed = price.NewRateFeed(
			price.NewCoinmarketcapAPI(cfg.Coinmarketcap.Url, cfg.Coinmarketcap.ApiKey, PRICE_API_RETRIES),
			cfg.ThisToken,
			cfg.BridgedToken,
			decimal.NewFromInt(1),
			cfg.PriceUpdateInterval,
		)
		rateA = d.feed
		rateB = &inverseRate{rate: d.feed}
	}

	var err error
	d.A, err = d.newChain("millau", rateA)
	if err != nil {
		return nil, err
	}
	d.B, err = d.newChain("rialto", rateB)
	if err != nil {
		return nil, err
	}

	err = d.B.InitializeBridge(headerchain.RootOrigin(), headerchain.InitializationData{
		Header:       d.A.BestFinalizedHeader(),
		AuthoritySet: d.A.AuthoritySet(),
	})
	if err != nil {
		return nil, err
	}
	err = d.A.InitializeBridge(headerchain.RootOrigin(), headerchain.InitializationData{
		Header:       d.B.BestFinalizedHeader(),
		AuthoritySet: d.B.AuthoritySet(),
	})
	if err != nil {
		return nil, err
	}

	d.ledger, err = store.NewMemoryRewardLedger()
	if err != nil {
		return nil, err
	}

	builder := relay.NewFull2WayBuilder(d.endConfig(d.A), d.endConfig(d.B)).
		WithLanes(cfg.Lanes...).
		WithDeliveryParams(relay.DeliveryParams{
			MaxUnrewardedRelayerEntriesAtTarget: DEVNET_MAX_RELAYERS,
			MaxUnconfirmedNoncesAtTarget:        DEVNET_MAX_UNCONFIRMED,
			MaxMessagesInSingleBatch:            DEVNET_MAX_BATCH,
			MaxMessagesWeightInSingleBatch:      DEVNET_DISPATCH_WEIGHT,
			MaxMessagesSizeInSingleBatch:        DEVNET_MAX_BATCH_SIZE,
		}, relay.ProtocolLimits{
			MaxUnrewardedRelayersInConfirmationTx:  DEVNET_MAX_RELAYERS,
			MaxUnconfirmedMessagesInConfirmationTx: DEVNET_MAX_UNCONFIRMED,
		}).
		WithRewardLedger(d.ledger).
		WithStatusObserver(d.statuses)
	if m != nil {
		builder = builder.WithMetrics(m)
	}
	d.bridge, err = builder.Build()
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Devnet) newChain(name string, rate policy.RateProvider) (*runtime.Chain, error) {
	keys := make([]*ecdsa.PrivateKey, DEVNET_AUTHORITIES)
	for i := range keys {
		key, err := crypto.GenerateKey()
		if err != nil {
			return nil, err
		}
		keys[i] = key
	}

	bridge, err := policy.NewMessageBridge(policy.Config{
		MaxExtrinsicWeightOnBridgedChain: DEVNET_DISPATCH_WEIGHT,
		DeliveryTxBaseWeight:             10,
		DeliveryTxPerMessageWeight:       5,
		DeliveryTxPerByteWeight:          1,
		ConfirmationTxBaseWeight:         7,
		ConfirmationTxPerRelayerWeight:   3,
		ConfirmationTxPerMessageWeight:   2,
		ThisWeightToFee:                  decimal.NewFromInt(1),
		BridgedWeightToFee:               decimal.NewFromInt(1),
		RelayerFeePercent:                policy.DEFAULT_RELAYER_FEE_PERCENT,
	}, rate)
	if err != nil {
		return nil, err
	}
	d.policies[name] = bridge

	l := d.log.With().Str("chain", name).Logger()
	chain, err := runtime.NewChain(runtime.Config{
		Name: name,
		Messages: runtime.MessagesConfig{
			Pallet:                      "BridgeMessages",
			Lanes:                       d.cfg.Lanes,
			MaxUnrewardedRelayerEntries: DEVNET_MAX_RELAYERS,
			MaxUnconfirmedMessages:      DEVNET_MAX_UNCONFIRMED,
			MaxMessagesInDeliveryTx:     DEVNET_MAX_BATCH,
			FundAccount:                 devnetFund,
		},
		HeaderChain:         headerchain.Config{MaxRequests: 64, HeadersToKeep: 1024},
		Bridge:              bridge,
		BlockDispatchWeight: DEVNET_DISPATCH_WEIGHT,
		Authorities:         keys,
		Dispatcher: runtime.DispatcherFunc(func(message lane.Message, payload policy.MessagePayload) error {
			l.Debug().Msgf("Dispatched message %d of lane %s with weight %d", message.Key.Nonce, message.Key.LaneID, payload.Weight)
			return nil
		}),
	})
	if err != nil {
		return nil, err
	}

	chain.Endow(devnetSender, big.NewInt(DEVNET_SENDER_ENDOWMENT))
	return chain, nil
}

func (d *Devnet) endConfig(chain *runtime.Chain) relay.ChainEndConfig {
	stallTimeout := d.cfg.BlockTime * 100
	return relay.ChainEndConfig{
		Name:            chain.Name(),
		Client:          local.NewClient(chain, devnetRelayer).WithTracking(DEVNET_TRACKING_INTERVAL, stallTimeout),
		ExpectedGenesis: chain.GenesisHash(),
		Tick:            d.cfg.BlockTime,
		StallTimeout:    stallTimeout,
	}
}

// Author produces and finalizes a block of both chains every block time until ctx is done.
func (d *Devnet) Author(ctx context.Context) {
	ticker := time.NewTicker(d.cfg.BlockTime)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			for _, chain := range []*runtime.Chain{d.A, d.B} {
				header, err := chain.ProduceBlock()
				if err != nil {
					d.log.Warn().Err(err).Msgf("Failed producing block of %s", chain.Name())
					continue
				}

				err = chain.Finalize(header.Number)
				if err != nil {
					d.log.Warn().Err(err).Msgf("Failed finalizing block %d of %s", header.Number, chain.Name())
				}
			}
		case <-ctx.Done():
			return
		}
	}
}

// SendMessages submits one message paying the minimal fee to every lane of both chains.
func (d *Devnet) SendMessages() error {
	for _, chain := range []*runtime.Chain{d.A, d.B} {
		payload := policy.MessagePayload{
			Call:   []byte(fmt.Sprintf("remark from %s", chain.Name())),
			Weight: DEVNET_MESSAGE_WEIGHT,
			Fee:    big.NewInt(0),
		}
		encoded, err := policy.EncodePayload(payload)
		if err != nil {
			return err
		}
		payload.Fee = d.policies[chain.Name()].MinimumFee(payload, len(encoded))

		for _, id := range d.cfg.Lanes {
			chain.Submit(runtime.SendMessageCall{
				Origin:  headerchain.SignedOrigin(devnetSender),
				Lane:    id,
				Payload: payload,
			})
		}
	}
	return nil
}

// Run authors blocks, sends messages and relays them until ctx is done.
func (d *Devnet) Run(ctx context.Context) error {
	go d.Author(ctx)
	if d.feed != nil {
		go d.feed.Start(ctx)
	}
	go func() {
		ticker := time.NewTicker(d.cfg.MessageInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				err := d.SendMessages()
				if err != nil {
					d.log.Warn().Err(err).Msg("Failed sending messages")
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return d.bridge.Run(ctx)
}

// RunDevnet runs the devnet and serves its lane statuses and rewards until a termination signal.
func RunDevnet(cfg DevnetConfig, logLevel zerolog.Level) error {
	observability.ConfigureLogger(logLevel, os.Stdout)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mp, err := observability.InitMetricProvider(ctx, "")
	panicOnError(err)
	devnetMetrics, err := metrics.NewRelayerMetrics(ctx, mp.Meter("devnet-metric-provider"), "devnet", "devnet", Version)
	panicOnError(err)

	devnet, err := NewDevnet(ctx, cfg, devnetMetrics)
	panicOnError(err)
	defer devnet.ledger.Close()

	go func() {
		err := devnet.Run(ctx)
		if err != nil {
			log.Error().Err(err).Msg("Devnet bridge stopped")
		}
	}()
	go api.Serve(ctx, cfg.ApiAddr, handlers.NewLanesHandler(devnet.statuses), handlers.NewRewardsHandler(devnet.ledger))

	sysErr := make(chan os.Signal, 1)
	signal.Notify(sysErr,
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGHUP,
		syscall.SIGQUIT)

	log.Info().Msgf("Started devnet bridging %s and %s over %d lanes", devnet.A.Name(), devnet.B.Name(), len(cfg.Lanes))

	sig := <-sysErr
	log.Info().Msgf("terminating got ` [%v] signal", sig)
	return nil
}

// inverseRate converts the rate of the opposite chain of the bridge.
type inverseRate struct {
	rate policy.RateProvider
}

func (r *inverseRate) Rate() decimal.Decimal {
	rate := r.rate.Rate()
	if !rate.IsPositive() {
		return decimal.Zero
	}
	return decimal.NewFromInt(1).Div(rate)
}
