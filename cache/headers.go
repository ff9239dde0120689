// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package cache

import (
	"context"
	"time"

	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/jellydator/ttlcache/v3"
)

const (
	HEADER_TTL      = time.Minute * 30
	HEADER_CAPACITY = 1024
)

type HeaderFetcher func(number uint64) (*types.Header, error)

// HeaderCache caches finalized headers by number. Only finalized headers may be cached as
// their number to hash mapping never changes.
type HeaderCache struct {
	headerCache *ttlcache.Cache[uint64, *types.Header]
}

func NewHeaderCache() *HeaderCache {
	return &HeaderCache{
		headerCache: ttlcache.New(
			ttlcache.WithTTL[uint64, *types.Header](HEADER_TTL),
			ttlcache.WithCapacity[uint64, *types.Header](HEADER_CAPACITY),
			ttlcache.WithDisableTouchOnHit[uint64, *types.Header](),
		),
	}
}

// Header returns the cached header or fetches and caches it.
func (c *HeaderCache) Header(number uint64, fetch HeaderFetcher) (*types.Header, error) {
	item := c.headerCache.Get(number)
	if item != nil {
		return item.Value(), nil
	}

	header, err := fetch(number)
	if err != nil {
		return nil, err
	}
	c.headerCache.Set(number, header, ttlcache.DefaultTTL)
	return header, nil
}

// Watch evicts expired headers until ctx is done.
func (c *HeaderCache) Watch(ctx context.Context) {
	go c.headerCache.Start()
	<-ctx.Done()
	c.headerCache.Stop()
}
