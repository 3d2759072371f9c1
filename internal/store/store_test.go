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

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/apimachinery/pkg/runtime"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"

	v1 "github.com/sneaksanddata/boxer-validator/api/v1"
)

func newTestScheme(t *testing.T) *runtime.Scheme {
	t.Helper()
	scheme := runtime.NewScheme()
	require.NoError(t, v1.AddToScheme(scheme))
	return scheme
}

func newSchemaStore(t *testing.T) *RecordStore[*v1.Schema] {
	t.Helper()
	c := fake.NewClientBuilder().WithScheme(newTestScheme(t)).WithStatusSubresource(&v1.Schema{}).Build()
	return New[*v1.Schema](c, "boxer", "boxer.sneaksanddata.com/owner", "boxer-validator", time.Second, func() *v1.Schema { return &v1.Schema{} })
}

func TestRecordStoreUpsertThenGet(t *testing.T) {
	s := newSchemaStore(t)
	ctx := context.Background()

	err := s.Upsert(ctx, Key{Name: "demo"}, &v1.Schema{Spec: v1.SchemaSpec{Fragment: `{"a":1}`, Active: true}})
	require.NoError(t, err)

	got, err := s.Get(ctx, Key{Name: "demo"})
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, got.Spec.Fragment)
	assert.Equal(t, "boxer-validator", got.GetLabels()["boxer.sneaksanddata.com/owner"])
}

func TestRecordStoreUpsertOverwritesExisting(t *testing.T) {
	s := newSchemaStore(t)
	ctx := context.Background()

	require.NoError(t, s.Upsert(ctx, Key{Name: "demo"}, &v1.Schema{Spec: v1.SchemaSpec{Fragment: `{"a":1}`, Active: true}}))
	require.NoError(t, s.Upsert(ctx, Key{Name: "demo"}, &v1.Schema{Spec: v1.SchemaSpec{Fragment: `{"a":2}`, Active: true}}))

	got, err := s.Get(ctx, Key{Name: "demo"})
	require.NoError(t, err)
	assert.Equal(t, `{"a":2}`, got.Spec.Fragment)
}

func TestRecordStoreGetMissingIsNotFound(t *testing.T) {
	s := newSchemaStore(t)
	_, err := s.Get(context.Background(), Key{Name: "nope"})
	require.Error(t, err)
}

// TestRecordStoreDeleteIsSoftDelete covers §4.5: Delete must not remove
// the object from storage, only flip active=false.
func TestRecordStoreDeleteIsSoftDelete(t *testing.T) {
	s := newSchemaStore(t)
	ctx := context.Background()

	require.NoError(t, s.Upsert(ctx, Key{Name: "demo"}, &v1.Schema{Spec: v1.SchemaSpec{Fragment: `{}`, Active: true}}))
	require.NoError(t, s.Delete(ctx, Key{Name: "demo"}))

	// Get treats the soft-deleted record as absent...
	_, err := s.Get(ctx, Key{Name: "demo"})
	require.Error(t, err)
	assert.False(t, s.Exists(ctx, Key{Name: "demo"}))

	// ...but the underlying object is still there with active=false, not
	// hard-deleted.
	raw := &v1.Schema{}
	require.NoError(t, s.client.Get(ctx, s.namespacedName(Key{Name: "demo"}), raw))
	assert.False(t, raw.Spec.Active)
}

func TestRecordStoreDeleteMissingIsNotFound(t *testing.T) {
	s := newSchemaStore(t)
	err := s.Delete(context.Background(), Key{Name: "nope"})
	require.Error(t, err)
}

// TestKeyObjectNameSchemaScoped covers §6's "{schema}-{id}" derivation
// and its inverse.
func TestKeyObjectNameSchemaScoped(t *testing.T) {
	k := Key{Schema: "demo", Name: "api"}
	assert.Equal(t, "demo-api", k.ObjectName())
	assert.Equal(t, "api", IDFromObjectName("demo", "demo-api"))
}

func TestKeyObjectNameBareForRegistry(t *testing.T) {
	k := Key{Name: "demo"}
	assert.Equal(t, "demo", k.ObjectName())
}
