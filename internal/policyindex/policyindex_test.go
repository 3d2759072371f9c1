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

package policyindex

import (
	"testing"

	cedar "github.com/cedar-policy/cedar-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sneaksanddata/boxer-validator/internal/model"
)

const permitAll = `permit(principal, action, resource);`
const forbidAll = `forbid(principal, action, resource);`

func anyRequest() cedar.Request {
	return cedar.Request{Context: cedar.NewRecord(cedar.RecordMap{})}
}

func TestGetUnknownSchemaIsNotFound(t *testing.T) {
	idx := New(nil)
	_, err := idx.Get("nope")
	require.Error(t, err)
}

func TestUpsertCreatesSchemaSet(t *testing.T) {
	idx := New(nil)
	idx.Apply(model.PolicyRecord{Schema: "s", Name: "p1", Text: permitAll, Active: true})
	ps, err := idx.Get("s")
	require.NoError(t, err)
	assert.NotNil(t, ps)
}

func TestReplaceByIdReplacesExistingPolicy(t *testing.T) {
	idx := New(nil)
	idx.Apply(model.PolicyRecord{Schema: "s", Name: "p1", Text: permitAll, Active: true})
	idx.Apply(model.PolicyRecord{Schema: "s", Name: "p1", Text: forbidAll, Active: true})
	ps, err := idx.Get("s")
	require.NoError(t, err)
	assert.NotNil(t, ps)
	// Only the forbid policy is left under p1, so the request is denied.
	decision, _ := cedar.Authorize(ps, cedar.EntityMap{}, anyRequest())
	assert.False(t, bool(decision))
}

func TestTombstoneRemovesPolicyById(t *testing.T) {
	idx := New(nil)
	idx.Apply(model.PolicyRecord{Schema: "s", Name: "p1", Text: permitAll, Active: true})
	idx.Apply(model.PolicyRecord{Schema: "s", Name: "p1", Active: false})
	ps, err := idx.Get("s")
	require.NoError(t, err)
	assert.NotNil(t, ps)
	// With the permit policy removed the set is empty and denies by default.
	decision, _ := cedar.Authorize(ps, cedar.EntityMap{}, anyRequest())
	assert.False(t, bool(decision))
}

func TestMalformedPolicyIsDroppedNotPanicked(t *testing.T) {
	idx := New(nil)
	assert.NotPanics(t, func() {
		idx.Apply(model.PolicyRecord{Schema: "s", Name: "bad", Text: "not cedar at all {{{", Active: true})
	})
}
