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

// Package store implements the typed, namespaced record repository of
// §4.5: optimistic-concurrency upsert/soft-delete of the four record kinds
// over a Kubernetes custom-resource backing store, with every written
// object tagged by the configured owner-mark label so only this service's
// reflectors observe it.
package store

import (
	"context"
	"strings"
	"time"

	apierrs "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/client-go/util/retry"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/sneaksanddata/boxer-validator/internal/apierrors"
)

// ActiveObject is the capability a record store needs from a CRD type: the
// usual client.Object surface plus the soft-delete bit (§3).
type ActiveObject interface {
	client.Object
	GetActive() bool
	SetActive(bool)
}

// Key addresses a record. Schema is empty for the bare-name schema
// registry; otherwise the object name is derived as "{schema}-{id}" (§6).
type Key struct {
	Schema string
	Name   string
}

// IDFromObjectName recovers the bare record id from a storage object name
// for a schema-scoped kind, inverting Key.ObjectName's "{schema}-{id}"
// formula (§6). Used by reflector wiring, which only observes the storage
// object name, never the Key the control plane constructed it from.
func IDFromObjectName(schema, objectName string) string {
	return strings.TrimPrefix(objectName, schema+"-")
}

// ObjectName renders the storage object name for a Key.
func (k Key) ObjectName() string {
	if k.Schema == "" {
		return k.Name
	}
	return k.Schema + "-" + k.Name
}

// RecordStore is a typed repository over one CRD kind T, keyed by Key.
// Callers use its Get/Exists/Upsert/Delete methods on the concrete type;
// the package declares no separate repository interfaces.
type RecordStore[T ActiveObject] struct {
	client    client.Client
	namespace string

	ownerLabelKey   string
	ownerLabelValue string

	operationTimeout time.Duration

	newEmpty func() T
}

// New constructs a RecordStore. newEmpty must return a fresh zero-value T
// (e.g. func() *v1.ActionSet { return &v1.ActionSet{} }), since client.Get
// decodes into the object newEmpty returns.
func New[T ActiveObject](c client.Client, namespace, ownerLabelKey, ownerLabelValue string, operationTimeout time.Duration, newEmpty func() T) *RecordStore[T] {
	return &RecordStore[T]{
		client:           c,
		namespace:        namespace,
		ownerLabelKey:    ownerLabelKey,
		ownerLabelValue:  ownerLabelValue,
		operationTimeout: operationTimeout,
		newEmpty:         newEmpty,
	}
}

func (s *RecordStore[T]) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.operationTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.operationTimeout)
}

func (s *RecordStore[T]) namespacedName(key Key) types.NamespacedName {
	return types.NamespacedName{Namespace: s.namespace, Name: key.ObjectName()}
}

func mapStoreError(err error, timedOut bool) error {
	switch {
	case err == nil:
		return nil
	case apierrs.IsNotFound(err):
		return apierrors.Wrap(apierrors.NotFound, "record not found", err)
	case apierrs.IsConflict(err):
		return apierrors.Wrap(apierrors.Conflict, "version conflict", err)
	case timedOut:
		return apierrors.Wrap(apierrors.Timeout, "operation timed out", err)
	default:
		return apierrors.Wrap(apierrors.Internal, "backing store operation failed", err)
	}
}

// Get fetches a record by key. NotFound if absent or if active=false (§4.5).
func (s *RecordStore[T]) Get(ctx context.Context, key Key) (T, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	obj := s.newEmpty()
	if err := s.client.Get(ctx, s.namespacedName(key), obj); err != nil {
		return obj, mapStoreError(err, ctx.Err() != nil)
	}
	if !obj.GetActive() {
		return obj, apierrors.New(apierrors.NotFound, "record not found")
	}
	return obj, nil
}

// Exists reports whether an active record exists for key.
func (s *RecordStore[T]) Exists(ctx context.Context, key Key) bool {
	_, err := s.Get(ctx, key)
	return err == nil
}

// ownerLabels returns the single owner-mark label this service tags every
// write with, so reflectors filter by it (§4.4, §6).
func (s *RecordStore[T]) ownerLabels() map[string]string {
	return map[string]string{s.ownerLabelKey: s.ownerLabelValue}
}

func mergeLabels(existing, owner map[string]string) map[string]string {
	merged := make(map[string]string, len(existing)+len(owner))
	for k, v := range existing {
		merged[k] = v
	}
	for k, v := range owner {
		merged[k] = v
	}
	return merged
}

// Upsert creates or replaces the object for key with desired's spec,
// retrying on optimistic-version conflicts up to a bounded number of
// attempts (§4.5, §5). desired's name/namespace/labels are overwritten by
// the store; only its Spec is taken from the caller.
func (s *RecordStore[T]) Upsert(ctx context.Context, key Key, desired T) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	name := s.namespacedName(key)
	var lastErr error
	err := retry.RetryOnConflict(retry.DefaultBackoff, func() error {
		existing := s.newEmpty()
		getErr := s.client.Get(ctx, name, existing)
		switch {
		case apierrs.IsNotFound(getErr):
			desired.SetName(name.Name)
			desired.SetNamespace(name.Namespace)
			desired.SetLabels(s.ownerLabels())
			lastErr = s.client.Create(ctx, desired)
			return lastErr
		case getErr != nil:
			lastErr = getErr
			return getErr
		}
		desired.SetName(name.Name)
		desired.SetNamespace(name.Namespace)
		desired.SetResourceVersion(existing.GetResourceVersion())
		desired.SetLabels(mergeLabels(existing.GetLabels(), s.ownerLabels()))
		lastErr = s.client.Update(ctx, desired)
		return lastErr
	})
	if err != nil {
		return mapStoreError(lastErr, ctx.Err() != nil)
	}
	return nil
}

// Delete soft-deletes the record for key: it sets active=false and writes
// the object back rather than removing it from storage (§4.5).
func (s *RecordStore[T]) Delete(ctx context.Context, key Key) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	name := s.namespacedName(key)
	var lastErr error
	err := retry.RetryOnConflict(retry.DefaultBackoff, func() error {
		existing := s.newEmpty()
		if getErr := s.client.Get(ctx, name, existing); getErr != nil {
			lastErr = getErr
			return getErr
		}
		if !existing.GetActive() {
			// Already tombstoned; nothing to do.
			lastErr = nil
			return nil
		}
		existing.SetActive(false)
		lastErr = s.client.Update(ctx, existing)
		return lastErr
	})
	if err != nil {
		return mapStoreError(lastErr, ctx.Err() != nil)
	}
	return nil
}
