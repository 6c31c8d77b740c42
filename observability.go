// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package versioning

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// bgCtx avoids allocating a context per recorded event. Counter adds do not
// use the request context.
var bgCtx = context.Background()

// MetricsObserver records version detection events as OpenTelemetry metrics.
// Wire it in with WithObserver(versioning.NewMetricsObserver().Callbacks()...).
type MetricsObserver struct {
	detections    metric.Int64Counter
	missing       metric.Int64Counter
	invalid       metric.Int64Counter
	deprecatedUse metric.Int64Counter
}

// MetricsOption configures a MetricsObserver.
type MetricsOption func(*metricsOptions)

type metricsOptions struct {
	provider metric.MeterProvider
}

// WithMeterProvider sets the meter provider. The default is the global
// otel.GetMeterProvider().
func WithMeterProvider(provider metric.MeterProvider) MetricsOption {
	return func(o *metricsOptions) {
		o.provider = provider
	}
}

// NewMetricsObserver creates an observer that instruments version detection.
//
// Example:
//
//	obs, err := versioning.NewMetricsObserver()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	d := versioning.MustNew(
//	    versioning.WithHeaderDetection(""),
//	    versioning.WithObserver(obs.Callbacks()...),
//	)
func NewMetricsObserver(opts ...MetricsOption) (*MetricsObserver, error) {
	options := &metricsOptions{}
	for _, opt := range opts {
		opt(options)
	}

	provider := options.provider
	if provider == nil {
		provider = otel.GetMeterProvider()
	}
	meter := provider.Meter("rivaas.dev/versioning")

	o := &MetricsObserver{}
	var err error

	o.detections, err = meter.Int64Counter(
		"api_version_detections_total",
		metric.WithDescription("Total number of successful version detections"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create detections counter: %w", err)
	}

	o.missing, err = meter.Int64Counter(
		"api_version_missing_total",
		metric.WithDescription("Total number of requests carrying no version"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create missing counter: %w", err)
	}

	o.invalid, err = meter.Int64Counter(
		"api_version_invalid_total",
		metric.WithDescription("Total number of malformed version values"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create invalid counter: %w", err)
	}

	o.deprecatedUse, err = meter.Int64Counter(
		"api_version_deprecated_use_total",
		metric.WithDescription("Total number of requests served by deprecated versions"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create deprecated use counter: %w", err)
	}

	return o, nil
}

// Callbacks returns observer options wiring the counters into WithObserver.
func (o *MetricsObserver) Callbacks() []ObserverOption {
	return []ObserverOption{
		OnDetected(func(version, method string) {
			o.detections.Add(bgCtx, 1, metric.WithAttributes(
				attribute.String("version", version),
				attribute.String("method", method),
			))
		}),
		OnMissing(func() {
			o.missing.Add(bgCtx, 1)
		}),
		OnInvalid(func(attempted string) {
			o.invalid.Add(bgCtx, 1, metric.WithAttributes(
				attribute.String("attempted", attempted),
			))
		}),
		OnDeprecatedUse(func(version, route string) {
			o.deprecatedUse.Add(bgCtx, 1, metric.WithAttributes(
				attribute.String("version", version),
				attribute.String("route", route),
			))
		}),
	}
}
