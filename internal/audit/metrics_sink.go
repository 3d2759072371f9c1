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

package audit

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsSink records decision/validation counts as OpenTelemetry
// counters, so the opentelemetry.metrics_settings exporter configured at
// startup (see internal/observability) carries audit volume alongside
// whatever LogSink or OtelAuditSink already log for the same event.
type MetricsSink struct {
	decisions        metric.Int64Counter
	tokenValidations metric.Int64Counter
}

// NewMetricsSink constructs a MetricsSink from a meter, typically obtained
// from the process-wide MeterProvider built at startup.
func NewMetricsSink(meter metric.Meter) (*MetricsSink, error) {
	decisions, err := meter.Int64Counter(
		"boxer_validator.authorization_decisions",
		metric.WithDescription("Count of rendered authorization decisions by outcome."),
	)
	if err != nil {
		return nil, err
	}
	tokenValidations, err := meter.Int64Counter(
		"boxer_validator.token_validations",
		metric.WithDescription("Count of bearer token validation attempts by outcome."),
	)
	if err != nil {
		return nil, err
	}
	return &MetricsSink{decisions: decisions, tokenValidations: tokenValidations}, nil
}

func (s *MetricsSink) RecordAuthorization(ctx context.Context, event AuthorizationEvent) {
	s.decisions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("decision", string(event.Decision)),
	))
}

func (s *MetricsSink) RecordTokenValidation(ctx context.Context, event TokenValidationEvent) {
	s.tokenValidations.Add(ctx, 1, metric.WithAttributes(
		attribute.Bool("success", event.Success),
	))
}
