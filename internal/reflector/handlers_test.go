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

package reflector

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"k8s.io/client-go/tools/cache"

	v1 "github.com/sneaksanddata/boxer-validator/api/v1"
)

type capturedUpdate struct {
	name    string
	obj     *v1.Schema
	deleted bool
}

type capturingHandler struct {
	calls []capturedUpdate
	err   error
}

func (h *capturingHandler) HandleUpdate(_ context.Context, name string, obj *v1.Schema, deleted bool) error {
	h.calls = append(h.calls, capturedUpdate{name: name, obj: obj, deleted: deleted})
	return h.err
}

func newTestReflector(t *testing.T, handler *capturingHandler) *Reflector[*v1.Schema] {
	t.Helper()
	return &Reflector[*v1.Schema]{
		kind:    "Schema",
		handler: handler,
		logger:  zap.NewNop(),
	}
}

// TestReflectorDispatchesAddAndUpdate covers §4.4's added/modified events
// reaching HandleUpdate with deleted=false.
func TestReflectorDispatchesAddAndUpdate(t *testing.T) {
	handler := &capturingHandler{}
	r := newTestReflector(t, handler)
	funcs := newHandlerFuncs[*v1.Schema](context.Background(), r)

	obj := &v1.Schema{}
	obj.SetName("demo")
	funcs.AddFunc(obj)

	require.Len(t, handler.calls, 1)
	assert.Equal(t, "demo", handler.calls[0].name)
	assert.False(t, handler.calls[0].deleted)

	funcs.UpdateFunc(obj, obj)
	require.Len(t, handler.calls, 2)
	assert.False(t, handler.calls[1].deleted)
}

// TestReflectorDispatchesDelete covers the deleted event path.
func TestReflectorDispatchesDelete(t *testing.T) {
	handler := &capturingHandler{}
	r := newTestReflector(t, handler)
	funcs := newHandlerFuncs[*v1.Schema](context.Background(), r)

	obj := &v1.Schema{}
	obj.SetName("demo")
	funcs.DeleteFunc(obj)

	require.Len(t, handler.calls, 1)
	assert.True(t, handler.calls[0].deleted)
}

// TestReflectorDispatchesTombstone covers client-go's
// DeletedFinalStateUnknown wrapping, delivered when the informer misses a
// delete event and has to recover the last known object.
func TestReflectorDispatchesTombstone(t *testing.T) {
	handler := &capturingHandler{}
	r := newTestReflector(t, handler)
	funcs := newHandlerFuncs[*v1.Schema](context.Background(), r)

	obj := &v1.Schema{}
	obj.SetName("demo")
	funcs.DeleteFunc(cache.DeletedFinalStateUnknown{Key: "boxer/demo", Obj: obj})

	require.Len(t, handler.calls, 1)
	assert.Equal(t, "demo", handler.calls[0].name)
	assert.True(t, handler.calls[0].deleted)
}

// TestReflectorSwallowsHandlerError covers §4.4: a handler error must be
// logged and swallowed, never propagated - the dispatch call itself must
// not panic or block.
func TestReflectorSwallowsHandlerError(t *testing.T) {
	handler := &capturingHandler{err: assert.AnError}
	r := newTestReflector(t, handler)
	funcs := newHandlerFuncs[*v1.Schema](context.Background(), r)

	obj := &v1.Schema{}
	obj.SetName("demo")
	assert.NotPanics(t, func() { funcs.AddFunc(obj) })
	require.Len(t, handler.calls, 1)
}

// TestReflectorIgnoresUnexpectedType covers the defensive type-assertion
// branch: an object of the wrong type must be dropped, not dispatched.
func TestReflectorIgnoresUnexpectedType(t *testing.T) {
	handler := &capturingHandler{}
	r := newTestReflector(t, handler)
	funcs := newHandlerFuncs[*v1.Schema](context.Background(), r)

	funcs.AddFunc(&v1.ActionSet{})
	assert.Empty(t, handler.calls)
}

// TestStopIsIdempotent covers §4.4's stop() contract directly, without
// standing up a real cache: Stop must cancel exactly once and tolerate
// repeated calls.
func TestStopIsIdempotent(t *testing.T) {
	handler := &capturingHandler{}
	r := newTestReflector(t, handler)

	cancelCalls := 0
	r.cancel = func() { cancelCalls++ }

	r.Stop()
	r.Stop()
	r.Stop()

	assert.Equal(t, 1, cancelCalls)
}
