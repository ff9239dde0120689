// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"github.com/sprintertech/lane-bridge/api"
	"github.com/sprintertech/lane-bridge/api/handlers"
	"github.com/sprintertech/lane-bridge/cache"
	"github.com/sprintertech/lane-bridge/chains/substrate"
	"github.com/sprintertech/lane-bridge/config"
	"github.com/sprintertech/lane-bridge/config/bridge"
	"github.com/sprintertech/lane-bridge/health"
	"github.com/sprintertech/lane-bridge/lane"
	"github.com/sprintertech/lane-bridge/metrics"
	"github.com/sprintertech/lane-bridge/observability"
	"github.com/sprintertech/lane-bridge/price"
	"github.com/sprintertech/lane-bridge/relay"
	"github.com/sprintertech/lane-bridge/store"
)

const PRICE_API_RETRIES = 3

var Version string

func Run() error {
	var err error

	configFlag := viper.GetString(config.ConfigFlagName)
	var configuration *config.Config
	if strings.ToLower(configFlag) == "env" {
		configuration, err = config.GetConfigFromENV(nil)
		panicOnError(err)
	} else {
		configuration, err = config.GetConfigFromFile(configFlag, nil)
		panicOnError(err)
	}

	observability.ConfigureLogger(configuration.RelayerConfig.LogLevel, os.Stdout)

	log.Info().Msg("Successfully loaded configuration")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mp, err := observability.InitMetricProvider(ctx, configuration.RelayerConfig.OpenTelemetryCollectorURL)
	panicOnError(err)
	defer func() {
		if err := mp.Shutdown(context.Background()); err != nil {
			log.Error().Msgf("Error shutting down meter provider: %v", err)
		}
	}()

	relayerMetrics, err := metrics.NewRelayerMetrics(
		ctx,
		mp.Meter("relayer-metric-provider"),
		configuration.RelayerConfig.Env,
		configuration.RelayerConfig.Id,
		Version)
	panicOnError(err)

	ledger, err := store.NewRewardLedger(configuration.RelayerConfig.RewardStorePath)
	panicOnError(err)
	defer ledger.Close()

	statuses := cache.NewLaneStatusCache(ctx)

	clients := make(map[string]*substrate.Client)
	ends := make(map[string]relay.ChainEndConfig)
	for _, chainConfig := range configuration.ChainConfigs {
		switch chainConfig["type"] {
		case "substrate":
			{
				config, err := substrate.NewSubstrateConfig(chainConfig)
				panicOnError(err)

				conn, err := substrate.NewConnection(config)
				panicOnError(err)

				var relayerID lane.RelayerID
				copy(relayerID[:], conn.PublicKey())

				headers := cache.NewHeaderCache()
				go headers.Watch(ctx)

				log.Info().Str("chain", config.GeneralChainConfig.Name).Msgf("Registering Substrate chain as relayer %s", relayerID)

				client := substrate.NewClient(config, conn, headers, relayerID)
				clients[config.GeneralChainConfig.Name] = client
				ends[config.GeneralChainConfig.Name] = relay.ChainEndConfig{
					Name:            config.GeneralChainConfig.Name,
					Client:          client,
					ExpectedGenesis: config.GeneralChainConfig.Genesis(),
					Tick:            config.GeneralChainConfig.TickInterval(),
					StallTimeout:    config.GeneralChainConfig.StallTimeoutInterval(),
				}
			}
		default:
			panic(fmt.Errorf("type '%s' not recognized", chainConfig["type"]))
		}
	}

	priceAPI := price.NewCoinmarketcapAPI(
		configuration.RelayerConfig.CoinmarketcapConfig.Url,
		configuration.RelayerConfig.CoinmarketcapConfig.ApiKey,
		PRICE_API_RETRIES)

	bridges := make(map[string]*relay.Full2WayBridge)
	for _, bridgeConfig := range configuration.BridgeConfigs {
		config, err := bridge.NewBridgeConfig(bridgeConfig)
		panicOnError(err)

		a, ok := ends[config.ChainA]
		if !ok {
			panic(fmt.Errorf("bridge %s references unknown chain %s", config.Name, config.ChainA))
		}
		b, ok := ends[config.ChainB]
		if !ok {
			panic(fmt.Errorf("bridge %s references unknown chain %s", config.Name, config.ChainB))
		}

		fullBridge, err := relay.NewFull2WayBuilder(a, b).
			WithLanes(config.Lanes...).
			WithDeliveryParams(config.DeliveryParams, config.ProtocolLimits).
			WithRecentFinalityProofsLimit(config.RecentFinalityProofsLimit).
			WithRewardLedger(ledger).
			WithMetrics(relayerMetrics).
			WithStatusObserver(statuses).
			Build()
		panicOnError(err)
		bridges[config.Name] = fullBridge

		if config.ConversionRate != nil {
			initialRate, err := config.ConversionRate.Rate()
			panicOnError(err)

			feed := price.NewRateFeed(
				priceAPI,
				config.ConversionRate.ThisToken,
				config.ConversionRate.BridgedToken,
				initialRate,
				configuration.RelayerConfig.PriceUpdateInterval,
			).WithUpdateHook(clients[config.ConversionRate.Chain].UpdateConversionRate)
			go feed.Start(ctx)
		}
	}

	status := &bridgesStatus{}
	go health.StartHealthEndpoint(configuration.RelayerConfig.HealthPort, status.Check)

	for name, fullBridge := range bridges {
		go func(name string, fullBridge *relay.Full2WayBridge) {
			relayerMetrics.TrackBridgeStarted(name)
			defer relayerMetrics.TrackBridgeStopped(name)

			err := fullBridge.Run(ctx)
			if err != nil {
				log.Error().Err(err).Msgf("Bridge %s stopped", name)
				status.fail(name, err)
			}
		}(name, fullBridge)
	}

	go api.Serve(
		ctx,
		configuration.RelayerConfig.ApiAddr,
		handlers.NewLanesHandler(statuses),
		handlers.NewRewardsHandler(ledger))

	sysErr := make(chan os.Signal, 1)
	signal.Notify(sysErr,
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGHUP,
		syscall.SIGQUIT)

	log.Info().Msgf("Started relayer: %s with %d bridges. Version: v%s", configuration.RelayerConfig.Id, len(bridges), Version)

	sig := <-sysErr
	log.Info().Msgf("terminating got ` [%v] signal", sig)
	return nil
}

// bridgesStatus reports the relayer unhealthy once any bridge stops.
type bridgesStatus struct {
	lock sync.Mutex
	err  error
}

func (s *bridgesStatus) fail(name string, err error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.err == nil {
		s.err = fmt.Errorf("bridge %s stopped: %w", name, err)
	}
}

func (s *bridgesStatus) Check() error {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.err
}

func panicOnError(err error) {
	if err != nil {
		panic(err)
	}
}
