// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package relay

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"github.com/sprintertech/lane-bridge/finality"
)

// OnDemandHeadersRelay relays headers of one chain to its peer only when a lane loop needs
// them. The finality loop is started on the first requirement.
type OnDemandHeadersRelay struct {
	log  zerolog.Logger
	loop *finality.Loop

	once     sync.Once
	required chan struct{}
}

func NewOnDemandHeadersRelay(
	logC zerolog.Context,
	cfg finality.Config,
	source finality.SourceClient,
	target finality.TargetClient,
	metrics finality.Metrics,
) *OnDemandHeadersRelay {
	cfg.HeadersToRelay = finality.OnDemand
	return &OnDemandHeadersRelay{
		log:      logC.Str("source", cfg.Source).Str("target", cfg.Target).Logger(),
		loop:     finality.NewLoop(logC, cfg, source, target, metrics),
		required: make(chan struct{}),
	}
}

// RequireHeader asks for a source header with at least the given number at the target chain.
func (r *OnDemandHeadersRelay) RequireHeader(number uint64) {
	r.loop.Require(number)
	r.once.Do(func() {
		close(r.required)
	})
}

// Run waits for the first required header and then runs the finality loop until ctx is done.
func (r *OnDemandHeadersRelay) Run(ctx context.Context) {
	select {
	case <-ctx.Done():
		return
	case <-r.required:
	}

	r.log.Info().Msgf("Starting on-demand headers relay")
	r.loop.Run(ctx)
}
