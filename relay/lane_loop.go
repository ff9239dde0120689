// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package relay

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc"
	"github.com/sprintertech/lane-bridge/chains"
	"github.com/sprintertech/lane-bridge/lane"
)

const (
	DEFAULT_SOURCE_TICK   = time.Second * 6
	DEFAULT_TARGET_TICK   = time.Second * 6
	DEFAULT_STALL_TIMEOUT = time.Minute * 5
)

type LaneConfig struct {
	Lane         lane.LaneID
	Source       string
	Target       string
	SourceTick   time.Duration
	TargetTick   time.Duration
	StallTimeout time.Duration
	Delivery     DeliveryParams
}

func (c LaneConfig) Direction() string {
	return fmt.Sprintf("%s-%s", c.Source, c.Target)
}

// LaneLoop relays messages of one lane from the source to the target chain and delivery
// confirmations back. The delivery and receiving races run on their own goroutines.
type LaneLoop struct {
	log    zerolog.Logger
	cfg    LaneConfig
	source SourceClient
	target TargetClient

	// sourceHeaders relays source headers to the target chain, targetHeaders the other way round.
	sourceHeaders HeaderRequirer
	targetHeaders HeaderRequirer

	ledger   RewardLedger
	metrics  Metrics
	observer StatusObserver
}

func NewLaneLoop(
	logC zerolog.Context,
	cfg LaneConfig,
	source SourceClient,
	target TargetClient,
	sourceHeaders HeaderRequirer,
	targetHeaders HeaderRequirer,
) *LaneLoop {
	if cfg.SourceTick == 0 {
		cfg.SourceTick = DEFAULT_SOURCE_TICK
	}
	if cfg.TargetTick == 0 {
		cfg.TargetTick = DEFAULT_TARGET_TICK
	}
	if cfg.StallTimeout == 0 {
		cfg.StallTimeout = DEFAULT_STALL_TIMEOUT
	}

	return &LaneLoop{
		log:           logC.Str("lane", cfg.Lane.String()).Str("direction", cfg.Direction()).Logger(),
		cfg:           cfg,
		source:        source,
		target:        target,
		sourceHeaders: sourceHeaders,
		targetHeaders: targetHeaders,
	}
}

func (l *LaneLoop) WithRewardLedger(ledger RewardLedger) *LaneLoop {
	l.ledger = ledger
	return l
}

func (l *LaneLoop) WithMetrics(metrics Metrics) *LaneLoop {
	l.metrics = metrics
	return l
}

func (l *LaneLoop) WithStatusObserver(observer StatusObserver) *LaneLoop {
	l.observer = observer
	return l
}

// Run runs both races until ctx is done.
func (l *LaneLoop) Run(ctx context.Context) {
	l.log.Info().Msgf("Starting message lane loop")

	wg := conc.NewWaitGroup()
	wg.Go(func() { l.race(ctx, "delivery", l.cfg.TargetTick, l.DeliveryTick) })
	wg.Go(func() { l.race(ctx, "receiving", l.cfg.SourceTick, l.ReceivingTick) })
	wg.Wait()

	l.log.Info().Msgf("Message lane loop stopped")
}

func (l *LaneLoop) race(ctx context.Context, name string, tick time.Duration, step func(context.Context) error) {
	log := l.log.With().Str("race", name).Logger()

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = tick
	bo.MaxElapsedTime = 0

	for {
		select {
		case <-ctx.Done():
			return
		case <-time.After(tick):
		}

		err := backoff.RetryNotify(
			func() error { return step(ctx) },
			backoff.WithContext(bo, ctx),
			func(err error, delay time.Duration) {
				log.Warn().Err(err).Msgf("Race step failed, retrying in %s", delay)
			},
		)
		if err != nil && ctx.Err() == nil {
			log.Error().Err(err).Msgf("Race step failed")
		}
	}
}

// DeliveryTick delivers at most one batch of messages to the target chain.
func (l *LaneLoop) DeliveryTick(ctx context.Context) error {
	sourceState, err := l.source.State(ctx)
	if err != nil {
		return fmt.Errorf("failed to read source state: %w", err)
	}
	targetState, err := l.target.State(ctx)
	if err != nil {
		return fmt.Errorf("failed to read target state: %w", err)
	}

	latest, err := l.source.OutboundLaneData(ctx, sourceState.BestFinalizedSelf)
	if err != nil {
		return fmt.Errorf("failed to read outbound lane at %s: %w", sourceState.BestFinalizedSelf, err)
	}
	inbound, err := l.target.InboundLaneData(ctx, targetState.BestSelf)
	if err != nil {
		return fmt.Errorf("failed to read inbound lane at %s: %w", targetState.BestSelf, err)
	}
	l.observe(sourceState, targetState, latest, inbound)

	nonces := targetNonces(inbound)
	blocked := nonces.Relayers.UnrewardedRelayerEntries >= l.cfg.Delivery.MaxUnrewardedRelayerEntriesAtTarget ||
		nonces.Relayers.TotalMessages >= l.cfg.Delivery.MaxUnconfirmedNoncesAtTarget
	pending := latest.LatestGeneratedNonce > nonces.LatestReceived ||
		(blocked && latest.LatestReceivedNonce > nonces.LatestConfirmed)
	if !pending {
		return nil
	}

	known := targetState.BestFinalizedPeerAtBestSelf
	if known == nil {
		l.log.Debug().Msgf("Target chain knows no source headers yet")
		l.sourceHeaders.RequireHeader(sourceState.BestFinalizedSelf.Number)
		return nil
	}

	provable, err := l.source.OutboundLaneData(ctx, *known)
	if err != nil {
		return fmt.Errorf("failed to read outbound lane at %s: %w", known, err)
	}
	selection, ok, err := l.selectAt(ctx, *known, provable, nonces)
	if err != nil {
		return err
	}
	if ok {
		return l.deliver(ctx, *known, selection)
	}
	if known.Number >= sourceState.BestFinalizedSelf.Number {
		return nil
	}

	// nothing is provable with the header known to the target, relay a newer one if it helps
	_, ok, err = l.selectAt(ctx, sourceState.BestFinalizedSelf, latest, nonces)
	if err != nil {
		return err
	}
	if ok {
		l.sourceHeaders.RequireHeader(sourceState.BestFinalizedSelf.Number)
	}
	return nil
}

// selectAt selects messages that a proof made at the source header at would deliver.
func (l *LaneLoop) selectAt(ctx context.Context, at chains.HeaderID, outbound lane.OutboundLaneData, nonces TargetNonces) (Selection, bool, error) {
	var available []MessageDetails
	if outbound.LatestGeneratedNonce > nonces.LatestReceived {
		end := outbound.LatestGeneratedNonce
		if end-nonces.LatestReceived > l.cfg.Delivery.MaxMessagesInSingleBatch {
			end = nonces.LatestReceived + l.cfg.Delivery.MaxMessagesInSingleBatch
		}

		var err error
		available, err = l.source.MessageDetails(ctx, at, nonces.LatestReceived+1, end)
		if err != nil {
			return Selection{}, false, fmt.Errorf("failed to read message details at %s: %w", at, err)
		}
	}

	selection, ok := selectNoncesToDeliver(l.cfg.Delivery, nonces, outbound.LatestReceivedNonce, available)
	return selection, ok, nil
}

func (l *LaneLoop) deliver(ctx context.Context, at chains.HeaderID, selection Selection) error {
	l.log.Info().Msgf(
		"Delivering messages [%d, %d] proved at source header %s, state included: %t",
		selection.Begin, selection.End, at, selection.IncludeState,
	)

	p, err := l.source.ProveMessages(ctx, at, selection.Begin, selection.End, selection.IncludeState)
	if err != nil {
		return fmt.Errorf("failed to prove messages [%d, %d]: %w", selection.Begin, selection.End, err)
	}
	tracker, err := l.target.SubmitMessagesProof(ctx, p, selection.DispatchWeight)
	if err != nil {
		return fmt.Errorf("failed to submit messages [%d, %d]: %w", selection.Begin, selection.End, err)
	}
	if l.metrics != nil {
		l.metrics.TrackDeliveryStarted(l.cfg.Direction(), l.cfg.Lane, selection.End)
	}

	err = l.wait(ctx, tracker)
	if err != nil {
		return fmt.Errorf("delivery of messages [%d, %d] failed: %w", selection.Begin, selection.End, err)
	}

	if l.metrics != nil {
		l.metrics.TrackDeliveryFinalized(l.cfg.Direction(), l.cfg.Lane, selection.End)
	}
	if l.ledger != nil && selection.Count() > 0 {
		l.recordDelivery(ctx, selection)
	}
	return nil
}

// recordDelivery books the messages of the selection that the target chain credited to this
// relayer. Messages delivered by someone else first are not booked.
func (l *LaneLoop) recordDelivery(ctx context.Context, selection Selection) {
	targetState, err := l.target.State(ctx)
	if err != nil {
		l.log.Warn().Err(err).Msgf("Failed to read target state, delivery of messages [%d, %d] is not recorded", selection.Begin, selection.End)
		return
	}
	inbound, err := l.target.InboundLaneData(ctx, targetState.BestFinalizedSelf)
	if err != nil {
		l.log.Warn().Err(err).Msgf("Failed to read inbound lane, delivery of messages [%d, %d] is not recorded", selection.Begin, selection.End)
		return
	}

	credited := false
	relayer := l.target.Relayer()
	for _, entry := range inbound.Relayers {
		if entry.Relayer != relayer {
			continue
		}

		begin := max(entry.Messages.Begin, selection.Begin)
		end := min(entry.Messages.End, selection.End)
		if begin > end {
			continue
		}

		credited = true
		err = l.ledger.RecordDelivery(l.cfg.Direction(), l.cfg.Lane, lane.DeliveredMessages{Begin: begin, End: end}, selection.FeeOf(begin, end))
		if err != nil {
			l.log.Warn().Err(err).Msgf("Failed to record delivery of messages [%d, %d]", begin, end)
		}
	}
	if !credited {
		l.log.Warn().Msgf("None of the messages [%d, %d] were credited to this relayer", selection.Begin, selection.End)
	}
}

// ReceivingTick confirms delivered messages at the source chain.
func (l *LaneLoop) ReceivingTick(ctx context.Context) error {
	sourceState, err := l.source.State(ctx)
	if err != nil {
		return fmt.Errorf("failed to read source state: %w", err)
	}
	targetState, err := l.target.State(ctx)
	if err != nil {
		return fmt.Errorf("failed to read target state: %w", err)
	}

	outbound, err := l.source.OutboundLaneData(ctx, sourceState.BestSelf)
	if err != nil {
		return fmt.Errorf("failed to read outbound lane at %s: %w", sourceState.BestSelf, err)
	}
	latest, err := l.target.InboundLaneData(ctx, targetState.BestFinalizedSelf)
	if err != nil {
		return fmt.Errorf("failed to read inbound lane at %s: %w", targetState.BestFinalizedSelf, err)
	}
	if latest.LastDeliveredNonce() <= outbound.LatestReceivedNonce {
		return nil
	}

	known := sourceState.BestFinalizedPeerAtBestSelf
	if known == nil {
		l.log.Debug().Msgf("Source chain knows no target headers yet")
		l.targetHeaders.RequireHeader(targetState.BestFinalizedSelf.Number)
		return nil
	}

	provable, err := l.target.InboundLaneData(ctx, *known)
	if err != nil {
		return fmt.Errorf("failed to read inbound lane at %s: %w", known, err)
	}
	upTo := provable.LastDeliveredNonce()
	if upTo <= outbound.LatestReceivedNonce {
		// the best finalized target header proves new deliveries, the known one does not
		if known.Number < targetState.BestFinalizedSelf.Number {
			l.targetHeaders.RequireHeader(targetState.BestFinalizedSelf.Number)
		}
		return nil
	}

	l.log.Info().Msgf("Confirming delivery of messages up to %d proved at target header %s", upTo, known)

	p, err := l.target.ProveMessagesDelivery(ctx, *known)
	if err != nil {
		return fmt.Errorf("failed to prove messages delivery: %w", err)
	}
	tracker, err := l.source.SubmitMessagesDeliveryProof(ctx, p, provable.UnrewardedRelayersState())
	if err != nil {
		return fmt.Errorf("failed to submit messages delivery proof: %w", err)
	}
	err = l.wait(ctx, tracker)
	if err != nil {
		return fmt.Errorf("confirmation of messages up to %d failed: %w", upTo, err)
	}

	if l.ledger != nil {
		err = l.ledger.ConfirmDelivery(l.cfg.Direction(), l.cfg.Lane, upTo)
		if err != nil {
			l.log.Warn().Err(err).Msgf("Failed to record confirmation of messages up to %d", upTo)
		}
	}
	return nil
}

func (l *LaneLoop) wait(ctx context.Context, tracker chains.TransactionTracker) error {
	ctx, cancel := context.WithTimeout(ctx, l.cfg.StallTimeout)
	defer cancel()

	status, err := tracker.Wait(ctx)
	if err != nil {
		return err
	}
	if status != chains.TxFinalized {
		return fmt.Errorf("transaction is %s", status)
	}
	return nil
}

func (l *LaneLoop) observe(sourceState chains.ClientState, targetState chains.ClientState, outbound lane.OutboundLaneData, inbound lane.InboundLaneData) {
	if l.metrics != nil {
		l.metrics.TrackLaneNonces(l.cfg.Direction(), l.cfg.Lane, outbound.LatestGeneratedNonce, inbound.LatestReceivedNonce, outbound.LatestReceivedNonce)
	}
	if l.observer != nil {
		l.observer.ObserveLaneStatus(LaneStatus{
			Lane:                 l.cfg.Lane.String(),
			Source:               l.cfg.Source,
			Target:               l.cfg.Target,
			LatestGeneratedNonce: outbound.LatestGeneratedNonce,
			LatestReceivedNonce:  inbound.LatestReceivedNonce,
			LatestConfirmedNonce: outbound.LatestReceivedNonce,
			BestSourceHeader:     sourceState.BestFinalizedSelf.Number,
			BestTargetHeader:     targetState.BestFinalizedSelf.Number,
			UpdatedAt:            time.Now(),
		})
	}
}
