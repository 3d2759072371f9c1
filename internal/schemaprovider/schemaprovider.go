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

// Package schemaprovider composes the shared actions/resources schema
// fragment held in the schema registry with the principal schema fragment
// carried in a request's BoxerClaims, producing the schema a strict Cedar
// evaluation would validate against (§4.8).
package schemaprovider

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"github.com/sneaksanddata/boxer-validator/internal/apierrors"
	"github.com/sneaksanddata/boxer-validator/internal/model"
)

// Registry is the read-only capability schemaprovider needs from the
// schema record store/reflector pairing: the latest active Schema for a
// validator schema id.
type Registry interface {
	Get(ctx context.Context, schemaID string) (model.Schema, bool)
}

// Writer is the write side of a Registry: applying an observed Schema
// update (upsert or tombstone). The control-plane handler uses this to
// give its own upserts/deletes the same immediate, pre-reflector
// visibility the action/resource/policy handlers already give theirs.
type Writer interface {
	Apply(record model.Schema)
}

// memoryRegistry is a reflector-fed, concurrency-safe view of the latest
// active Schema per validator schema id, mirroring the update/tombstone
// discipline index.SchemaIndex and policyindex.PolicyIndex already use.
type memoryRegistry struct {
	mu      sync.RWMutex
	schemas map[string]model.Schema
}

// NewMemoryRegistry constructs a Registry that a Schema reflector updates.
func NewMemoryRegistry() *memoryRegistry {
	return &memoryRegistry{schemas: make(map[string]model.Schema)}
}

// Apply records an observed Schema update (upsert or tombstone).
func (r *memoryRegistry) Apply(record model.Schema) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !record.Active {
		delete(r.schemas, record.Name)
		return
	}
	r.schemas[record.Name] = record
}

// Get returns the active Schema for schemaID, if any.
func (r *memoryRegistry) Get(_ context.Context, schemaID string) (model.Schema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.schemas[schemaID]
	return s, ok
}

// fragment is the minimal shape a Cedar JSON schema fragment must parse as
// to be composable: a map of namespace name to namespace body. Composition
// here only needs to detect structural conflicts between the two fragments
// (§4.8 step 3), not interpret their contents.
type fragment map[string]json.RawMessage

// Provider implements §4.8's get_schema.
type Provider struct {
	registry Registry
	logger   *zap.Logger
}

// New constructs a Provider over the given schema Registry.
func New(registry Registry, logger *zap.Logger) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider{registry: registry, logger: logger}
}

// GetSchema composes the shared fragment for claims.ValidatorSchemaID with
// claims.SchemaFragment into a single merged fragment.
func (p *Provider) GetSchema(ctx context.Context, claims model.BoxerClaims) (model.Schema, error) {
	shared, ok := p.registry.Get(ctx, claims.ValidatorSchemaID)
	if !ok {
		return model.Schema{}, apierrors.New(apierrors.NotFound, "schema not registered")
	}

	merged, err := compose(shared.Fragment, claims.SchemaFragment)
	if err != nil {
		p.logger.Warn("failed to compose schema fragments",
			zap.String("validator_schema_id", claims.ValidatorSchemaID), zap.Error(err))
		return model.Schema{}, apierrors.Wrap(apierrors.Internal, "failed to compose schema", err)
	}

	return model.Schema{Name: claims.ValidatorSchemaID, Fragment: merged, Active: true}, nil
}

// compose merges two JSON Cedar schema fragments by namespace. A namespace
// present in both fragments is a structural conflict this service refuses
// to resolve silently.
func compose(shared, principal string) (string, error) {
	var sharedFrag, principalFrag fragment
	if err := json.Unmarshal([]byte(shared), &sharedFrag); err != nil {
		return "", err
	}
	if err := json.Unmarshal([]byte(principal), &principalFrag); err != nil {
		return "", err
	}

	merged := make(fragment, len(sharedFrag)+len(principalFrag))
	for ns, body := range sharedFrag {
		merged[ns] = body
	}
	for ns, body := range principalFrag {
		if _, conflict := merged[ns]; conflict {
			return "", apierrors.New(apierrors.Internal, "schema namespace conflict: "+ns)
		}
		merged[ns] = body
	}

	out, err := json.Marshal(merged)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
