// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package metrics

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type FinalityMetrics struct {
	opts metric.MeasurementOption

	submittedHeaderGauge metric.Int64ObservableGauge
	streamRestartCounter metric.Int64Counter

	lock             sync.RWMutex
	submittedHeaders map[string]int64
}

// NewFinalityMetrics initializes metrics of header relays
func NewFinalityMetrics(ctx context.Context, meter metric.Meter, opts metric.MeasurementOption) (*FinalityMetrics, error) {
	m := &FinalityMetrics{
		opts:             opts,
		submittedHeaders: make(map[string]int64),
	}

	var err error
	m.submittedHeaderGauge, err = meter.Int64ObservableGauge(
		"bridge.SubmittedHeader",
		metric.WithDescription("Number of the latest source header submitted to the target chain"),
		metric.WithInt64Callback(func(ctx context.Context, result metric.Int64Observer) error {
			m.lock.RLock()
			defer m.lock.RUnlock()

			for chain, number := range m.submittedHeaders {
				result.Observe(number, opts, metric.WithAttributes(attribute.String("chain", chain)))
			}
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}

	m.streamRestartCounter, err = meter.Int64Counter(
		"bridge.FinalityStreamRestarts",
		metric.WithDescription("Number of finality proof stream restarts"),
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (m *FinalityMetrics) TrackSubmittedHeader(chain string, number uint64) {
	m.lock.Lock()
	defer m.lock.Unlock()

	// nolint:gosec
	m.submittedHeaders[chain] = int64(number)
}

func (m *FinalityMetrics) TrackStreamRestart(chain string) {
	m.streamRestartCounter.Add(context.Background(), 1, m.opts, metric.WithAttributes(attribute.String("chain", chain)))
}
