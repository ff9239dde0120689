// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package metrics_test

import (
	"context"
	"testing"

	"github.com/sprintertech/lane-bridge/lane"
	"github.com/sprintertech/lane-bridge/metrics"
	"github.com/sprintertech/lane-bridge/relay"
	"github.com/stretchr/testify/suite"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

var testLane = lane.LaneID{'t', 'e', 's', 't'}

var _ relay.Metrics = &metrics.RelayerMetrics{}

type RelayerMetricsTestSuite struct {
	suite.Suite

	reader  sdkmetric.Reader
	metrics *metrics.RelayerMetrics
}

func TestRunRelayerMetricsTestSuite(t *testing.T) {
	suite.Run(t, new(RelayerMetricsTestSuite))
}

func (s *RelayerMetricsTestSuite) SetupTest() {
	s.reader = sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(s.reader))

	m, err := metrics.NewRelayerMetrics(context.Background(), provider.Meter("test"), "test", "relayer", "0.0.1")
	s.Nil(err)
	s.metrics = m
}

func (s *RelayerMetricsTestSuite) collect() map[string]metricdata.Aggregation {
	var rm metricdata.ResourceMetrics
	s.Nil(s.reader.Collect(context.Background(), &rm))

	collected := make(map[string]metricdata.Aggregation)
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			collected[m.Name] = m.Data
		}
	}
	return collected
}

func (s *RelayerMetricsTestSuite) Test_TrackLaneNonces() {
	s.metrics.TrackLaneNonces("a-b", testLane, 10, 7, 5)
	s.metrics.TrackLaneNonces("a-b", testLane, 11, 8, 5)

	collected := s.collect()

	generated, ok := collected["bridge.LatestGeneratedNonce"].(metricdata.Gauge[int64])
	s.True(ok)
	s.Len(generated.DataPoints, 1)
	s.Equal(int64(11), generated.DataPoints[0].Value)
	direction, _ := generated.DataPoints[0].Attributes.Value(attribute.Key("direction"))
	s.Equal("a-b", direction.AsString())

	confirmed := collected["bridge.LatestConfirmedNonce"].(metricdata.Gauge[int64])
	s.Equal(int64(5), confirmed.DataPoints[0].Value)
}

func (s *RelayerMetricsTestSuite) Test_TrackDelivery() {
	s.metrics.TrackDeliveryStarted("a-b", testLane, 4)
	s.metrics.TrackDeliveryFinalized("a-b", testLane, 4)
	s.metrics.TrackDeliveryFinalized("a-b", testLane, 9)

	collected := s.collect()

	deliveryTime, ok := collected["bridge.DeliveryTime"].(metricdata.Histogram[float64])
	s.True(ok)
	s.Len(deliveryTime.DataPoints, 1)
	s.Equal(uint64(1), deliveryTime.DataPoints[0].Count)
}

func (s *RelayerMetricsTestSuite) Test_FinalityMetrics() {
	s.metrics.TrackSubmittedHeader("a", 3)
	s.metrics.TrackSubmittedHeader("a", 8)
	s.metrics.TrackStreamRestart("a")
	s.metrics.TrackStreamRestart("a")

	collected := s.collect()

	submitted := collected["bridge.SubmittedHeader"].(metricdata.Gauge[int64])
	s.Equal(int64(8), submitted.DataPoints[0].Value)
	restarts := collected["bridge.FinalityStreamRestarts"].(metricdata.Sum[int64])
	s.Equal(int64(2), restarts.DataPoints[0].Value)
}

func (s *RelayerMetricsTestSuite) Test_HostMetrics() {
	s.metrics.TrackBridgeStarted("millau-rialto")
	s.metrics.TrackBridgeStarted("millau-westend")
	s.metrics.TrackBridgeStopped("millau-westend")

	collected := s.collect()

	startTime, ok := collected["bridge.StartTimeSeconds"].(metricdata.Gauge[int64])
	s.True(ok)
	s.Len(startTime.DataPoints, 1)
	s.True(startTime.DataPoints[0].Value > 0)

	running := collected["bridge.RunningBridges"].(metricdata.Sum[int64])
	total := int64(0)
	for _, point := range running.DataPoints {
		total += point.Value
	}
	s.Equal(int64(1), total)
}
