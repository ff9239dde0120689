// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package metrics

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// RelayerMetrics implements metrics of every bridge component.
type RelayerMetrics struct {
	*HostMetrics
	*FinalityMetrics
	*LaneMetrics
}

func NewRelayerMetrics(ctx context.Context, meter metric.Meter, env, relayerID, version string) (*RelayerMetrics, error) {
	opts := metric.WithAttributes(
		attribute.String("env", env),
		attribute.String("relayerid", relayerID),
		attribute.String("version", version),
	)

	hostMetrics, err := NewHostMetrics(ctx, meter, opts)
	if err != nil {
		return nil, err
	}
	finalityMetrics, err := NewFinalityMetrics(ctx, meter, opts)
	if err != nil {
		return nil, err
	}
	laneMetrics, err := NewLaneMetrics(ctx, meter, opts)
	if err != nil {
		return nil, err
	}

	return &RelayerMetrics{
		HostMetrics:     hostMetrics,
		FinalityMetrics: finalityMetrics,
		LaneMetrics:     laneMetrics,
	}, nil
}
