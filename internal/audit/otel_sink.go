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
	"strings"

	"go.opentelemetry.io/otel/log"
)

// OtelAuditSink emits the same events LogSink logs as OTel log records
// through the log-bridge API, used when opentelemetry.logs_settings.enabled
// is true (§4.11, §4.12).
type OtelAuditSink struct {
	logger log.Logger
}

// NewOtelAuditSink constructs an OtelAuditSink from a log.LoggerProvider.
func NewOtelAuditSink(provider log.LoggerProvider) *OtelAuditSink {
	return &OtelAuditSink{logger: provider.Logger("boxer-validator/audit")}
}

func (s *OtelAuditSink) RecordAuthorization(ctx context.Context, event AuthorizationEvent) {
	var record log.Record
	record.SetBody(log.StringValue("authorization decision"))
	record.AddAttributes(
		log.String("id", event.ID),
		log.String("actor", event.Actor),
		log.String("action", event.Action),
		log.String("resource", event.Resource),
		log.String("decision", string(event.Decision)),
		log.String("policies", strings.Join(event.Reason.Policies, ",")),
		log.String("errors", strings.Join(event.Reason.Errors, ",")),
	)
	s.logger.Emit(ctx, record)
}

func (s *OtelAuditSink) RecordTokenValidation(ctx context.Context, event TokenValidationEvent) {
	var record log.Record
	record.SetBody(log.StringValue("token validation"))
	record.AddAttributes(
		log.String("id", event.ID),
		log.String("token_reference", event.TokenReference),
		log.Bool("success", event.Success),
		log.String("reasons", strings.Join(event.Reasons, ",")),
	)
	s.logger.Emit(ctx, record)
}
