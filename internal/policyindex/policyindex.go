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

// Package policyindex maps validator_schema_id to a composite Cedar
// PolicySet, merging individual policy records keyed by record name with
// replace-by-id semantics (§4.6).
package policyindex

import (
	"sync"

	cedar "github.com/cedar-policy/cedar-go"
	"go.uber.org/zap"

	"github.com/sneaksanddata/boxer-validator/internal/apierrors"
	"github.com/sneaksanddata/boxer-validator/internal/model"
)

// PolicyIndex holds one composite PolicySet per validator schema id.
type PolicyIndex struct {
	logger *zap.Logger

	mu   sync.RWMutex
	sets map[string]*cedar.PolicySet
}

// New constructs an empty PolicyIndex.
func New(logger *zap.Logger) *PolicyIndex {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PolicyIndex{logger: logger, sets: make(map[string]*cedar.PolicySet)}
}

// Get returns the composite PolicySet for a schema. NotFound if no set has
// been built for it yet.
func (p *PolicyIndex) Get(schemaID string) (*cedar.PolicySet, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	ps, ok := p.sets[schemaID]
	if !ok {
		return nil, apierrors.New(apierrors.NotFound, "no policies registered for schema")
	}
	return ps, nil
}

// Apply applies one policy record's update. On tombstone, the policy is
// removed by id. On upsert, the policy is parsed and replaces any existing
// policy with the same id (the record name) in the schema's set; parse
// failures are logged and the update is dropped.
func (p *PolicyIndex) Apply(record model.PolicyRecord) {
	p.mu.Lock()
	defer p.mu.Unlock()

	ps, ok := p.sets[record.Schema]
	if !ok {
		ps = cedar.NewPolicySet()
		p.sets[record.Schema] = ps
	}

	id := cedar.PolicyID(record.Name)

	if !record.Active {
		ps.Remove(id)
		return
	}

	var policy cedar.Policy
	if err := policy.UnmarshalCedar([]byte(record.Text)); err != nil {
		p.logger.Warn("dropping policy record that failed to parse",
			zap.String("schema", record.Schema), zap.String("name", record.Name), zap.Error(err))
		return
	}

	// Replace-by-id: remove any existing policy under this id first so
	// re-adding does not collide.
	ps.Remove(id)
	ps.Add(id, &policy)
}
