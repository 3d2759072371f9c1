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

	"go.uber.org/zap"
)

// LogSink records every event as a structured zap log line under the
// "audit" logger name, the Go analogue of the source's
// log::info!(target: "audit", ...) call in LogAuditService.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink constructs a LogSink. logger is typically the root logger;
// NewLogSink scopes it with .Named("audit") itself.
func NewLogSink(logger *zap.Logger) *LogSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSink{logger: logger.Named("audit")}
}

func (s *LogSink) RecordAuthorization(_ context.Context, event AuthorizationEvent) {
	s.logger.Info("authorization decision",
		zap.String("id", event.ID),
		zap.String("actor", event.Actor),
		zap.String("action", event.Action),
		zap.String("resource", event.Resource),
		zap.String("decision", string(event.Decision)),
		zap.Strings("policies", event.Reason.Policies),
		zap.Strings("errors", event.Reason.Errors),
	)
}

func (s *LogSink) RecordTokenValidation(_ context.Context, event TokenValidationEvent) {
	s.logger.Info("token validation",
		zap.String("id", event.ID),
		zap.String("token_reference", event.TokenReference),
		zap.Bool("success", event.Success),
		zap.Strings("reasons", event.Reasons),
	)
}
