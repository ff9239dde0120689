// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package cache

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"github.com/rs/zerolog/log"
	"github.com/sprintertech/lane-bridge/relay"
)

const (
	LANE_STATUS_TTL = time.Minute * 10
)

// LaneStatusCache keeps the last observed status of every lane direction. Statuses of lane
// loops that stopped observing expire after the TTL.
type LaneStatusCache struct {
	statusCache *ttlcache.Cache[string, relay.LaneStatus]
}

func NewLaneStatusCache(ctx context.Context) *LaneStatusCache {
	cache := ttlcache.New(
		ttlcache.WithTTL[string, relay.LaneStatus](LANE_STATUS_TTL),
	)

	lc := &LaneStatusCache{
		statusCache: cache,
	}

	go cache.Start()
	go lc.watch(ctx)
	return lc
}

func (c *LaneStatusCache) ObserveLaneStatus(status relay.LaneStatus) {
	if status.UpdatedAt.IsZero() {
		status.UpdatedAt = time.Now()
	}
	c.statusCache.Set(status.Key(), status, ttlcache.DefaultTTL)
}

// Statuses returns statuses of both directions of the lane ordered by direction.
func (c *LaneStatusCache) Statuses(lane string) ([]relay.LaneStatus, error) {
	statuses := make([]relay.LaneStatus, 0)
	for _, status := range c.All() {
		if status.Lane == lane {
			statuses = append(statuses, status)
		}
	}
	if len(statuses) == 0 {
		return nil, fmt.Errorf("no status found for lane %s", lane)
	}
	return statuses, nil
}

// All returns every cached status ordered by key.
func (c *LaneStatusCache) All() []relay.LaneStatus {
	items := c.statusCache.Items()
	keys := make([]string, 0, len(items))
	for key := range items {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	statuses := make([]relay.LaneStatus, 0, len(keys))
	for _, key := range keys {
		statuses = append(statuses, items[key].Value())
	}
	return statuses
}

func (c *LaneStatusCache) watch(ctx context.Context) {
	<-ctx.Done()
	log.Debug().Msgf("Stopping lane status cache with %d statuses", c.statusCache.Len())
	c.statusCache.Stop()
}
