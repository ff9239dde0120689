// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package observability

import (
	"context"
	"fmt"
	"net/url"

	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// InitMetricProvider creates a meter provider pushing metrics to the OTLP collector. Metrics
// are only collected in memory when collectorURL is empty.
func InitMetricProvider(ctx context.Context, collectorURL string) (*sdkmetric.MeterProvider, error) {
	if collectorURL == "" {
		return sdkmetric.NewMeterProvider(sdkmetric.WithReader(sdkmetric.NewManualReader())), nil
	}

	options, err := exporterOptions(collectorURL)
	if err != nil {
		return nil, err
	}
	exporter, err := otlpmetrichttp.New(ctx, options...)
	if err != nil {
		return nil, err
	}

	return sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter)),
	), nil
}

func exporterOptions(collectorURL string) ([]otlpmetrichttp.Option, error) {
	u, err := url.Parse(collectorURL)
	if err != nil {
		return nil, fmt.Errorf("invalid collector url %s: %w", collectorURL, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid collector url %s: missing host", collectorURL)
	}

	options := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(u.Host)}
	if u.Scheme != "https" {
		options = append(options, otlpmetrichttp.WithInsecure())
	}
	if u.Path != "" && u.Path != "/" {
		options = append(options, otlpmetrichttp.WithURLPath(u.Path))
	}
	return options, nil
}
