/*
 *  Copyright (c) 2025, WSO2 LLC. (http://www.wso2.org) All Rights Reserved.
 *
 *  Licensed under the Apache License, Version 2.0 (the "License");
 *  you may not use this file except in compliance with the License.
 *  You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 *  Unless required by applicable law or agreed to in writing, software
 *  distributed under the License is distributed on an "AS IS" BASIS,
 *  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *  See the License for the specific language governing permissions and
 *  limitations under the License.
 *
 */

package observability

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/log"
	noopAtlog "go.opentelemetry.io/otel/log/noop"
	"go.opentelemetry.io/otel/metric"
	noopmetric "go.opentelemetry.io/otel/metric/noop"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"
)

// Settings toggles the three otel signal exporters independently
// (opentelemetry.{logs,metrics,traces}_settings.enabled, §6).
type Settings struct {
	InstanceName string

	LogsEnabled    bool
	MetricsEnabled bool
	TracesEnabled  bool

	// Endpoint is the OTLP/HTTP collector endpoint shared by whichever
	// exporters are enabled (§6 supplement: promoted to a first-class
	// option since an endpoint is required to construct an otlp*http
	// exporter at all).
	Endpoint string
}

// Providers bundles the constructed LoggerProvider, MeterProvider, and
// TracerProvider along with a Shutdown that tears all three down in order.
type Providers struct {
	Logger   log.LoggerProvider
	Meter    metric.MeterProvider
	Tracer   trace.TracerProvider
	Shutdown func(ctx context.Context) error
}

// NewProviders builds the log/metric/trace providers per Settings. Disabled
// signals get a no-op provider so callers never have to branch on whether
// a signal is active.
func NewProviders(ctx context.Context, settings Settings) (*Providers, error) {
	res, err := resource.New(ctx, resource.WithAttributes(
		attribute.String("service.name", settings.InstanceName),
	))
	if err != nil {
		return nil, err
	}

	var shutdowns []func(context.Context) error

	loggerProvider := log.LoggerProvider(noopAtlog.NewLoggerProvider())
	if settings.LogsEnabled {
		exporter, err := otlploghttp.New(ctx, otlploghttp.WithEndpoint(settings.Endpoint))
		if err != nil {
			return nil, err
		}
		lp := sdklog.NewLoggerProvider(
			sdklog.WithResource(res),
			sdklog.WithProcessor(sdklog.NewBatchProcessor(exporter)),
		)
		loggerProvider = lp
		shutdowns = append(shutdowns, lp.Shutdown)
	}

	meterProvider := metric.MeterProvider(noopmetric.NewMeterProvider())
	if settings.MetricsEnabled {
		exporter, err := otlpmetrichttp.New(ctx, otlpmetrichttp.WithEndpoint(settings.Endpoint))
		if err != nil {
			return nil, err
		}
		mp := sdkmetric.NewMeterProvider(
			sdkmetric.WithResource(res),
			sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter)),
		)
		meterProvider = mp
		shutdowns = append(shutdowns, mp.Shutdown)
	}

	tracerProvider := trace.TracerProvider(nooptrace.NewTracerProvider())
	if settings.TracesEnabled {
		exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpoint(settings.Endpoint))
		if err != nil {
			return nil, err
		}
		tp := sdktrace.NewTracerProvider(
			sdktrace.WithResource(res),
			sdktrace.WithBatcher(exporter),
		)
		tracerProvider = tp
		shutdowns = append(shutdowns, tp.Shutdown)
	}

	return &Providers{
		Logger: loggerProvider,
		Meter:  meterProvider,
		Tracer: tracerProvider,
		Shutdown: func(ctx context.Context) error {
			var firstErr error
			for _, fn := range shutdowns {
				if err := fn(ctx); err != nil && firstErr == nil {
					firstErr = err
				}
			}
			return firstErr
		},
	}, nil
}
