// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package metrics

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"github.com/rs/zerolog/log"
	"github.com/sprintertech/lane-bridge/lane"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	DELIVERY_TTL = time.Minute * 30
)

type laneNonces struct {
	direction string
	lane      string
	generated int64
	received  int64
	confirmed int64
}

type LaneMetrics struct {
	opts metric.MeasurementOption

	generatedNonceGauge metric.Int64ObservableGauge
	receivedNonceGauge  metric.Int64ObservableGauge
	confirmedNonceGauge metric.Int64ObservableGauge

	deliveryTimeHistogram  metric.Float64Histogram
	deliveryStartTimeCache *ttlcache.Cache[string, time.Time]

	lock   sync.RWMutex
	nonces map[string]*laneNonces
}

// NewLaneMetrics initializes metrics of message lanes
func NewLaneMetrics(ctx context.Context, meter metric.Meter, opts metric.MeasurementOption) (*LaneMetrics, error) {
	m := &LaneMetrics{
		opts:   opts,
		nonces: make(map[string]*laneNonces),
		deliveryStartTimeCache: ttlcache.New(
			ttlcache.WithTTL[string, time.Time](DELIVERY_TTL),
		),
	}

	var err error
	m.generatedNonceGauge, err = meter.Int64ObservableGauge(
		"bridge.LatestGeneratedNonce",
		metric.WithInt64Callback(m.observe(func(n *laneNonces) int64 { return n.generated })),
		metric.WithDescription("Latest nonce generated at the source chain"),
	)
	if err != nil {
		return nil, err
	}
	m.receivedNonceGauge, err = meter.Int64ObservableGauge(
		"bridge.LatestReceivedNonce",
		metric.WithInt64Callback(m.observe(func(n *laneNonces) int64 { return n.received })),
		metric.WithDescription("Latest nonce received at the target chain"),
	)
	if err != nil {
		return nil, err
	}
	m.confirmedNonceGauge, err = meter.Int64ObservableGauge(
		"bridge.LatestConfirmedNonce",
		metric.WithInt64Callback(m.observe(func(n *laneNonces) int64 { return n.confirmed })),
		metric.WithDescription("Latest nonce confirmed at the source chain"),
	)
	if err != nil {
		return nil, err
	}

	m.deliveryTimeHistogram, err = meter.Float64Histogram(
		"bridge.DeliveryTime",
		metric.WithDescription("Seconds between submission and finalization of delivery transactions"),
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (m *LaneMetrics) observe(value func(n *laneNonces) int64) metric.Int64Callback {
	return func(ctx context.Context, result metric.Int64Observer) error {
		m.lock.RLock()
		defer m.lock.RUnlock()

		for _, n := range m.nonces {
			result.Observe(value(n), m.opts, metric.WithAttributes(
				attribute.String("direction", n.direction),
				attribute.String("lane", n.lane),
			))
		}
		return nil
	}
}

// nolint:gosec
func (m *LaneMetrics) TrackLaneNonces(direction string, id lane.LaneID, generated, received, confirmed lane.MessageNonce) {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.nonces[direction+"/"+id.String()] = &laneNonces{
		direction: direction,
		lane:      id.String(),
		generated: int64(generated),
		received:  int64(received),
		confirmed: int64(confirmed),
	}
}

func (m *LaneMetrics) TrackDeliveryStarted(direction string, id lane.LaneID, end lane.MessageNonce) {
	m.deliveryStartTimeCache.Set(deliveryKey(direction, id, end), time.Now(), ttlcache.DefaultTTL)
}

func (m *LaneMetrics) TrackDeliveryFinalized(direction string, id lane.LaneID, end lane.MessageNonce) {
	startTime, ok := m.deliveryStartTimeCache.GetAndDelete(deliveryKey(direction, id, end))
	if !ok {
		log.Warn().Msgf("Delivery start time of %s up to %d not found", direction, end)
		return
	}

	m.deliveryTimeHistogram.Record(
		context.Background(),
		time.Since(startTime.Value()).Seconds(),
		m.opts,
		metric.WithAttributes(attribute.String("direction", direction), attribute.String("lane", id.String())),
	)
}

func deliveryKey(direction string, id lane.LaneID, end lane.MessageNonce) string {
	return fmt.Sprintf("%s/%s/%d", direction, id, end)
}
