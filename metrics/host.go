// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// HostMetrics describes the relayer process: when it started and which bridges it runs.
type HostMetrics struct {
	opts metric.MeasurementOption

	startTimeGauge        metric.Int64ObservableGauge
	runningBridgesCounter metric.Int64UpDownCounter
}

func NewHostMetrics(ctx context.Context, meter metric.Meter, opts metric.MeasurementOption) (*HostMetrics, error) {
	startedAt := time.Now().Unix()
	startTimeGauge, err := meter.Int64ObservableGauge(
		"bridge.StartTimeSeconds",
		metric.WithDescription("Unix time at which the bridge relayer started"),
		metric.WithInt64Callback(func(ctx context.Context, result metric.Int64Observer) error {
			result.Observe(startedAt, opts)
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}

	runningBridgesCounter, err := meter.Int64UpDownCounter(
		"bridge.RunningBridges",
		metric.WithDescription("Number of bridges relayed by this process"),
	)
	if err != nil {
		return nil, err
	}

	return &HostMetrics{
		opts:                  opts,
		startTimeGauge:        startTimeGauge,
		runningBridgesCounter: runningBridgesCounter,
	}, nil
}

func (m *HostMetrics) TrackBridgeStarted(name string) {
	m.runningBridgesCounter.Add(context.Background(), 1, m.opts, metric.WithAttributes(attribute.String("bridge", name)))
}

func (m *HostMetrics) TrackBridgeStopped(name string) {
	m.runningBridgesCounter.Add(context.Background(), -1, m.opts, metric.WithAttributes(attribute.String("bridge", name)))
}
