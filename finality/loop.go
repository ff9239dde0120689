// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package finality

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"github.com/sprintertech/lane-bridge/chains"
)

type HeadersToRelay int

const (
	// All relays the best finalized header whenever the target is behind.
	All HeadersToRelay = iota
	// Mandatory relays only headers that change the authority set.
	Mandatory
	// OnDemand relays headers only when a header above the best known one is required.
	OnDemand
)

func (h HeadersToRelay) String() string {
	switch h {
	case All:
		return "all"
	case Mandatory:
		return "mandatory"
	default:
		return "on-demand"
	}
}

// SourceHeader is a finalized header of the source chain in its native encoding.
type SourceHeader struct {
	ID        chains.HeaderID
	Mandatory bool
	Encoded   []byte
}

type SourceClient interface {
	Subscriber
	BestFinalizedHeaderNumber(ctx context.Context) (uint64, error)
	// HeaderAndFinalityProof returns the header and its persisted finality proof, if any.
	HeaderAndFinalityProof(ctx context.Context, number uint64) (SourceHeader, *FinalityProof, error)
}

type TargetClient interface {
	// BestFinalizedSourceHeader returns the best source header known to the target chain.
	BestFinalizedSourceHeader(ctx context.Context) (chains.HeaderID, error)
	SubmitFinalityProof(ctx context.Context, header SourceHeader, proof FinalityProof) (chains.TransactionTracker, error)
}

type Metrics interface {
	TrackSubmittedHeader(chain string, number uint64)
	TrackStreamRestart(chain string)
}

type Config struct {
	Source         string
	Target         string
	Tick           time.Duration
	StallTimeout   time.Duration
	HeadersToRelay HeadersToRelay
	// RecentFinalityProofsLimit bounds the number of buffered stream proofs.
	RecentFinalityProofsLimit int
}

// Loop keeps the header chain at the target chain in sync with the source chain.
type Loop struct {
	log     zerolog.Logger
	cfg     Config
	source  SourceClient
	target  TargetClient
	metrics Metrics

	stream *ProofsStream
	buf    *ProofsBuf

	lock     sync.Mutex
	required uint64
}

const (
	DEFAULT_TICK          = time.Second * 6
	DEFAULT_STALL_TIMEOUT = time.Minute * 5

	DEFAULT_RECENT_FINALITY_PROOFS_LIMIT = 512
)

func NewLoop(logC zerolog.Context, cfg Config, source SourceClient, target TargetClient, metrics Metrics) *Loop {
	if cfg.Tick == 0 {
		cfg.Tick = DEFAULT_TICK
	}
	if cfg.StallTimeout == 0 {
		cfg.StallTimeout = DEFAULT_STALL_TIMEOUT
	}
	if cfg.RecentFinalityProofsLimit == 0 {
		cfg.RecentFinalityProofsLimit = DEFAULT_RECENT_FINALITY_PROOFS_LIMIT
	}
	logC = logC.Str("source", cfg.Source).Str("target", cfg.Target).Str("headers", cfg.HeadersToRelay.String())
	stream := NewProofsStream(logC, source)
	if metrics != nil {
		stream.OnRestart(func() { metrics.TrackStreamRestart(cfg.Source) })
	}

	return &Loop{
		log:     logC.Logger(),
		cfg:     cfg,
		source:  source,
		target:  target,
		metrics: metrics,
		stream:  stream,
		buf:     NewProofsBuf(nil),
	}
}

// Require asks the loop to relay a header with at least the given number.
func (l *Loop) Require(number uint64) {
	l.lock.Lock()
	defer l.lock.Unlock()

	if number > l.required {
		l.log.Debug().Msgf("Required source header %d", number)
		l.required = number
	}
}

func (l *Loop) requiredHeader() uint64 {
	l.lock.Lock()
	defer l.lock.Unlock()

	return l.required
}

// Run ticks until ctx is done, backing off exponentially after failed ticks.
func (l *Loop) Run(ctx context.Context) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = l.cfg.Tick
	bo.MaxElapsedTime = 0

	delay := l.cfg.Tick
	for {
		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
			err := l.Tick(ctx)
			if err != nil {
				delay = bo.NextBackOff()
				l.log.Warn().Err(err).Msgf("Finality sync failed, retrying in %s", delay)
				continue
			}

			bo.Reset()
			delay = l.cfg.Tick
		}
	}
}

// Tick relays at most one header.
func (l *Loop) Tick(ctx context.Context) error {
	sourceBest, err := l.source.BestFinalizedHeaderNumber(ctx)
	if err != nil {
		return fmt.Errorf("failed to read best finalized source header: %w", err)
	}
	targetBest, err := l.target.BestFinalizedSourceHeader(ctx)
	if err != nil {
		return fmt.Errorf("failed to read best source header at target: %w", err)
	}

	err = l.buf.Fill(ctx, l.stream)
	if err != nil {
		return fmt.Errorf("failed to read finality proofs stream: %w", err)
	}
	l.buf.Prune(targetBest.Number, l.cfg.RecentFinalityProofsLimit)

	if targetBest.Number >= sourceBest {
		return nil
	}
	if l.cfg.HeadersToRelay == OnDemand && l.requiredHeader() <= targetBest.Number {
		return nil
	}

	header, proof, ok, err := l.selectHeader(ctx, targetBest.Number, sourceBest)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	return l.submit(ctx, header, proof)
}

// selectHeader returns the first mandatory header above the best known one or, when there
// is none, the best header with a finality proof.
func (l *Loop) selectHeader(ctx context.Context, known uint64, best uint64) (SourceHeader, FinalityProof, bool, error) {
	var selected SourceHeader
	var selectedProof *FinalityProof

	for number := known + 1; number <= best; number++ {
		header, proof, err := l.source.HeaderAndFinalityProof(ctx, number)
		if err != nil {
			return SourceHeader{}, FinalityProof{}, false, fmt.Errorf("failed to read source header %d: %w", number, err)
		}

		if header.Mandatory {
			if proof == nil {
				return SourceHeader{}, FinalityProof{}, false, fmt.Errorf("mandatory header %d has no finality proof", number)
			}
			return header, *proof, true, nil
		}
		if proof != nil {
			selected = header
			selectedProof = proof
		}
	}

	if l.cfg.HeadersToRelay == Mandatory {
		return SourceHeader{}, FinalityProof{}, false, nil
	}

	streamed, ok := l.buf.Last()
	if ok && streamed.TargetHeaderNumber <= best && (selectedProof == nil || streamed.TargetHeaderNumber > selected.ID.Number) {
		header, _, err := l.source.HeaderAndFinalityProof(ctx, streamed.TargetHeaderNumber)
		if err != nil {
			return SourceHeader{}, FinalityProof{}, false, fmt.Errorf("failed to read source header %d: %w", streamed.TargetHeaderNumber, err)
		}
		return header, streamed, true, nil
	}
	if selectedProof == nil {
		l.log.Debug().Msgf("No finality proof for source headers (%d, %d]", known, best)
		return SourceHeader{}, FinalityProof{}, false, nil
	}
	return selected, *selectedProof, true, nil
}

func (l *Loop) submit(ctx context.Context, header SourceHeader, proof FinalityProof) error {
	l.log.Info().Msgf("Submitting finality proof of source header %s", header.ID)

	tracker, err := l.target.SubmitFinalityProof(ctx, header, proof)
	if err != nil {
		return fmt.Errorf("failed to submit finality proof of %s: %w", header.ID, err)
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, l.cfg.StallTimeout)
	defer cancel()
	status, err := tracker.Wait(timeoutCtx)
	if err != nil || status != chains.TxFinalized {
		return fmt.Errorf("finality proof of %s is %s: %v", header.ID, status, err)
	}

	l.buf.Prune(header.ID.Number, l.cfg.RecentFinalityProofsLimit)
	if l.metrics != nil {
		l.metrics.TrackSubmittedHeader(l.cfg.Source, header.ID.Number)
	}
	return nil
}
