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

// Package validation orchestrates one GET /review request end to end
// (§4.9): authenticate the bearer token, decompose the original request,
// compose the principal's schema, resolve the action and resource
// entities, fetch the schema's policy set, and evaluate. It emits one
// token-validation audit event per attempt and, once the request has been
// decomposed, one authorization audit event.
package validation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	cedar "github.com/cedar-policy/cedar-go"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/sneaksanddata/boxer-validator/internal/apierrors"
	"github.com/sneaksanddata/boxer-validator/internal/audit"
	"github.com/sneaksanddata/boxer-validator/internal/index"
	"github.com/sneaksanddata/boxer-validator/internal/model"
	"github.com/sneaksanddata/boxer-validator/internal/policyindex"
	"github.com/sneaksanddata/boxer-validator/internal/schemaprovider"
	"github.com/sneaksanddata/boxer-validator/internal/segment"
	"github.com/sneaksanddata/boxer-validator/internal/token"
)

// Outcome is the rendered result of a completed review. It is only
// meaningful when Review returns a nil error: a non-nil error means the
// request never reached a decision (bad input) or failed for a reason the
// control boundary must surface as something other than a plain deny.
type Outcome int

const (
	Deny Outcome = iota
	Allow
)

// Pipeline implements §4.9.
type Pipeline struct {
	authenticator *token.Authenticator
	schemas       *schemaprovider.Provider
	actions       *index.SchemaIndex
	resources     *index.SchemaIndex
	policies      *policyindex.PolicyIndex
	sink          audit.Sink
	logger        *zap.Logger

	requests  metric.Int64Counter
	decisions metric.Float64Histogram
}

// New constructs a Pipeline from its collaborators. meter is used to
// record a request counter and a decision-latency histogram (§4.12); pass
// a no-op meter (the default when metrics are disabled) to skip real
// instrumentation without branching at call sites.
func New(
	authenticator *token.Authenticator,
	schemas *schemaprovider.Provider,
	actions *index.SchemaIndex,
	resources *index.SchemaIndex,
	policies *policyindex.PolicyIndex,
	sink audit.Sink,
	logger *zap.Logger,
	meter metric.Meter,
) (*Pipeline, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Pipeline{
		authenticator: authenticator,
		schemas:       schemas,
		actions:       actions,
		resources:     resources,
		policies:      policies,
		sink:          sink,
		logger:        logger,
	}
	if meter != nil {
		var err error
		p.requests, err = meter.Int64Counter(
			"boxer_validator.review_requests",
			metric.WithDescription("Count of /review requests handled."),
		)
		if err != nil {
			return nil, err
		}
		p.decisions, err = meter.Float64Histogram(
			"boxer_validator.review_latency_seconds",
			metric.WithDescription("Latency of a full review pipeline pass, in seconds."),
		)
		if err != nil {
			return nil, err
		}
	}
	return p, nil
}

// tokenReference renders a non-reversible reference to a raw token for
// audit events, so the event carries a stable correlation id without
// logging the secret itself.
func tokenReference(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:8])
}

// Review runs the full pipeline for one request. method and originalURL
// come from the X-Original-Method / X-Original-URL headers (§6);
// authorizationHeader is the raw Authorization header value.
func (p *Pipeline) Review(ctx context.Context, method, originalURL, authorizationHeader string) (Outcome, error) {
	start := time.Now()
	if p.requests != nil {
		p.requests.Add(ctx, 1)
	}
	defer func() {
		if p.decisions != nil {
			p.decisions.Record(ctx, time.Since(start).Seconds())
		}
	}()

	rawToken, err := token.ParseBearerHeader(authorizationHeader)
	if err != nil {
		p.sink.RecordTokenValidation(ctx, audit.TokenValidationEvent{
			ID:      audit.NewEventID(),
			Success: false,
			Reasons: []string{"invalid authorization header format"},
		})
		return Deny, err
	}

	claims, err := p.authenticator.Validate(rawToken)
	if err != nil {
		p.sink.RecordTokenValidation(ctx, audit.TokenValidationEvent{
			ID:             audit.NewEventID(),
			TokenReference: tokenReference(rawToken),
			Success:        false,
			Reasons:        []string{"token validation failed"},
		})
		return Deny, err
	}
	p.sink.RecordTokenValidation(ctx, audit.TokenValidationEvent{
		ID:             audit.NewEventID(),
		TokenReference: tokenReference(rawToken),
		Success:        true,
	})

	actionKeys, err := segment.DecomposeActionRequest(method, originalURL)
	if err != nil {
		return Deny, err
	}
	resourceKeys, err := segment.DecomposeResourceRequest(originalURL)
	if err != nil {
		return Deny, err
	}

	_, schemaErr := p.schemas.GetSchema(ctx, claims)

	// Action and resource lookups depend only on the decomposed request and
	// the schema id, not on each other (§4.9): resolve them concurrently.
	var actionUID, resourceUID cedar.EntityUID
	var actionErr, resourceErr error
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		actionUID, actionErr = p.actions.Get(claims.ValidatorSchemaID, actionKeys)
	}()
	go func() {
		defer wg.Done()
		resourceUID, resourceErr = p.resources.Get(claims.ValidatorSchemaID, resourceKeys)
	}()
	wg.Wait()

	policySet, policyErr := p.policies.Get(claims.ValidatorSchemaID)

	if internalErr := firstInternal(schemaErr, actionErr, resourceErr, policyErr); internalErr != nil {
		p.recordLookupFailure(ctx, claims, internalErr)
		return Deny, internalErr
	}

	if schemaErr != nil || actionErr != nil || resourceErr != nil || policyErr != nil {
		p.recordLookupFailure(ctx, claims, schemaErr, actionErr, resourceErr, policyErr)
		return Deny, nil
	}

	entities := cedar.EntityMap{}
	request := cedar.Request{
		Principal: claims.Principal.EntityUID,
		Action:    actionUID,
		Resource:  resourceUID,
		Context:   cedar.NewRecord(cedar.RecordMap{}),
	}
	ok, diagnostics := cedar.Authorize(policySet, entities, request)

	event := audit.AuthorizationEvent{
		ID:       audit.NewEventID(),
		Actor:    claims.Principal.String(),
		Action:   model.EntityUid{EntityUID: actionUID}.String(),
		Resource: model.EntityUid{EntityUID: resourceUID}.String(),
		Reason:   reasonFromDiagnostics(diagnostics),
	}
	if ok {
		event.Decision = audit.Allow
		p.sink.RecordAuthorization(ctx, event)
		return Allow, nil
	}
	event.Decision = audit.Deny
	p.sink.RecordAuthorization(ctx, event)
	return Deny, nil
}

// firstInternal returns the first non-nil error among errs classified as
// Internal (a genuine failure), or nil if every error is nil or a
// degrade-to-deny kind such as NotFound.
func firstInternal(errs ...error) error {
	for _, err := range errs {
		if err != nil && apierrors.KindOf(err) == apierrors.Internal {
			return err
		}
	}
	return nil
}

func (p *Pipeline) recordLookupFailure(ctx context.Context, claims model.BoxerClaims, errs ...error) {
	reasons := make([]string, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			reasons = append(reasons, err.Error())
		}
	}
	p.logger.Debug("lookup failure degraded to deny",
		zap.String("validator_schema_id", claims.ValidatorSchemaID), zap.Strings("reasons", reasons))
	p.sink.RecordAuthorization(ctx, audit.AuthorizationEvent{
		ID:       audit.NewEventID(),
		Actor:    claims.Principal.String(),
		Decision: audit.Deny,
		Reason:   audit.Reason{Errors: reasons},
	})
}

func reasonFromDiagnostics(d cedar.Diagnostic) audit.Reason {
	policies := make([]string, 0, len(d.Reasons))
	for _, r := range d.Reasons {
		policies = append(policies, string(r.PolicyID))
	}
	errs := make([]string, 0, len(d.Errors))
	for _, e := range d.Errors {
		errs = append(errs, fmt.Sprintf("%v", e))
	}
	return audit.Reason{Policies: policies, Errors: errs}
}
