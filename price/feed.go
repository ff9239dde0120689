// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package price

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const (
	DEFAULT_RATE_UPDATE_INTERVAL = time.Minute * 5
)

type PriceAPI interface {
	TokenPrice(ctx context.Context, symbol string) (decimal.Decimal, error)
}

// UpdateHook is called with every new rate.
type UpdateHook func(ctx context.Context, rate decimal.Decimal) error

// RateFeed keeps the conversion rate between two chain tokens up to date. The rate is the
// amount of bridged chain tokens one token of this chain is worth.
type RateFeed struct {
	log      zerolog.Logger
	api      PriceAPI
	this     string
	bridged  string
	interval time.Duration
	hooks    []UpdateHook

	lock sync.RWMutex
	rate decimal.Decimal
}

func NewRateFeed(api PriceAPI, thisSymbol string, bridgedSymbol string, initialRate decimal.Decimal, interval time.Duration) *RateFeed {
	if interval == 0 {
		interval = DEFAULT_RATE_UPDATE_INTERVAL
	}

	return &RateFeed{
		log:      log.With().Str("pair", fmt.Sprintf("%s/%s", thisSymbol, bridgedSymbol)).Logger(),
		api:      api,
		this:     thisSymbol,
		bridged:  bridgedSymbol,
		interval: interval,
		rate:     initialRate,
	}
}

func (f *RateFeed) WithUpdateHook(hook UpdateHook) *RateFeed {
	f.hooks = append(f.hooks, hook)
	return f
}

func (f *RateFeed) Rate() decimal.Decimal {
	f.lock.RLock()
	defer f.lock.RUnlock()

	return f.rate
}

// Update fetches prices of both tokens and replaces the rate. The previous rate is kept when
// either price is unavailable.
func (f *RateFeed) Update(ctx context.Context) error {
	thisPrice, err := f.api.TokenPrice(ctx, f.this)
	if err != nil {
		return err
	}
	bridgedPrice, err := f.api.TokenPrice(ctx, f.bridged)
	if err != nil {
		return err
	}
	if !bridgedPrice.IsPositive() {
		return fmt.Errorf("invalid %s price %s", f.bridged, bridgedPrice)
	}

	rate := thisPrice.Div(bridgedPrice)
	f.lock.Lock()
	f.rate = rate
	f.lock.Unlock()

	f.log.Debug().Msgf("Updated conversion rate to %s", rate)
	for _, hook := range f.hooks {
		err := hook(ctx, rate)
		if err != nil {
			return fmt.Errorf("failed to publish rate %s: %w", rate, err)
		}
	}
	return nil
}

// Start updates the rate every interval until ctx is done.
func (f *RateFeed) Start(ctx context.Context) {
	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	for {
		err := f.Update(ctx)
		if err != nil {
			f.log.Warn().Err(err).Msgf("Failed to update conversion rate, keeping %s", f.Rate())
		}

		select {
		case <-ticker.C:
			continue
		case <-ctx.Done():
			return
		}
	}
}
