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

// Package audit implements the structured event sink of §4.11: one
// authorization event per completed decision, one token-validation event
// per bearer-token check. Grounded in the source's AccessAuditEvent /
// AuditService trait (services/audit/audit_event.rs,
// services/audit/log_audit_service.rs): that implementation logged a
// structured summary at "audit" target; this one does the same through
// zap, the teacher's logging library.
package audit

import (
	"context"

	"github.com/google/uuid"
)

// Decision mirrors the evaluator's rendered outcome.
type Decision string

const (
	Allow Decision = "Allow"
	Deny  Decision = "Deny"
)

// Reason carries the evaluator's diagnostics: the policy ids that
// contributed to the decision, and any evaluation errors.
type Reason struct {
	Policies []string
	Errors   []string
}

// AuthorizationEvent is emitted exactly once per completed decision (P7).
type AuthorizationEvent struct {
	ID       string
	Actor    string
	Action   string
	Resource string
	Decision Decision
	Reason   Reason
}

// TokenValidationEvent is emitted exactly once per bearer-token check (P7).
type TokenValidationEvent struct {
	ID             string
	TokenReference string
	Success        bool
	Reasons        []string
}

// NewEventID mints an event correlation id the way the teacher mints its
// own domain entity ids (§10).
func NewEventID() string {
	return uuid.NewString()
}

// Sink receives structured audit events. Implementations MUST be
// non-blocking on the request path or bounded in latency; a failure to
// record an event must be logged, never propagated to the caller (§4.11).
type Sink interface {
	RecordAuthorization(ctx context.Context, event AuthorizationEvent)
	RecordTokenValidation(ctx context.Context, event TokenValidationEvent)
}

// MultiSink fans one event out to several sinks, so the log sink and the
// metrics sink can both observe every event without either depending on
// the other.
type MultiSink struct {
	sinks []Sink
}

// NewMultiSink constructs a MultiSink over the given sinks in order.
func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

func (m *MultiSink) RecordAuthorization(ctx context.Context, event AuthorizationEvent) {
	for _, s := range m.sinks {
		s.RecordAuthorization(ctx, event)
	}
}

func (m *MultiSink) RecordTokenValidation(ctx context.Context, event TokenValidationEvent) {
	for _, s := range m.sinks {
		s.RecordTokenValidation(ctx, event)
	}
}
