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

package index

import (
	"testing"

	cedar "github.com/cedar-policy/cedar-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sneaksanddata/boxer-validator/internal/segment"
)

func routeUpdate(schema, name string, active bool, hostname string, method segment.HTTPMethod, template string, uid cedar.EntityUID) RecordUpdate {
	return RecordUpdate{
		Schema: schema,
		Name:   name,
		Active: active,
		Keys:   map[string][]segment.RequestSegment{template: segment.RouteKey(hostname, method, template)},
		Values: map[string]cedar.EntityUID{template: uid},
	}
}

func TestSchemaScopingP6(t *testing.T) {
	idx := New(nil)
	a := cedar.NewEntityUID("Act", "A")
	b := cedar.NewEntityUID("Act", "B")
	idx.Apply(routeUpdate("schema-a", "r1", true, "h", segment.GET, "/r/{id}", a))
	idx.Apply(routeUpdate("schema-b", "r1", true, "h", segment.GET, "/r/{id}", b))

	key, err := segment.DecomposeActionRequest("GET", "https://h/r/1")
	require.NoError(t, err)

	gotA, err := idx.Get("schema-a", key)
	require.NoError(t, err)
	assert.Equal(t, a, gotA)

	gotB, err := idx.Get("schema-b", key)
	require.NoError(t, err)
	assert.Equal(t, b, gotB)
}

func TestUnknownSchemaIsNotFound(t *testing.T) {
	idx := New(nil)
	key, _ := segment.DecomposeActionRequest("GET", "https://h/x")
	_, err := idx.Get("nope", key)
	require.Error(t, err)
}

func TestIdempotentApplyP3(t *testing.T) {
	idx := New(nil)
	uid := cedar.NewEntityUID("Act", "X")
	update := routeUpdate("s", "r1", true, "h", segment.GET, "/items/{id}", uid)
	idx.Apply(update)
	idx.Apply(update)

	key, _ := segment.DecomposeActionRequest("GET", "https://h/items/42")
	got, err := idx.Get("s", key)
	require.NoError(t, err)
	assert.Equal(t, uid, got)
}

func TestShrinkingUpdateRemovesDroppedKeys(t *testing.T) {
	idx := New(nil)
	uid := cedar.NewEntityUID("Act", "X")
	idx.Apply(RecordUpdate{
		Schema: "s", Name: "r1", Active: true,
		Keys: map[string][]segment.RequestSegment{
			"/a": segment.RouteKey("h", segment.GET, "/a"),
			"/b": segment.RouteKey("h", segment.GET, "/b"),
		},
		Values: map[string]cedar.EntityUID{
			"/a": uid, "/b": uid,
		},
	})
	// second update only re-asserts /a: /b must be removed
	idx.Apply(RecordUpdate{
		Schema: "s", Name: "r1", Active: true,
		Keys:   map[string][]segment.RequestSegment{"/a": segment.RouteKey("h", segment.GET, "/a")},
		Values: map[string]cedar.EntityUID{"/a": uid},
	})

	keyA, _ := segment.DecomposeActionRequest("GET", "https://h/a")
	_, err := idx.Get("s", keyA)
	require.NoError(t, err)

	keyB, _ := segment.DecomposeActionRequest("GET", "https://h/b")
	_, err = idx.Get("s", keyB)
	require.Error(t, err)
}

func TestTombstoneRemovesAllKeys(t *testing.T) {
	idx := New(nil)
	uid := cedar.NewEntityUID("Act", "X")
	update := routeUpdate("s", "r1", true, "h", segment.GET, "/items/{id}", uid)
	idx.Apply(update)

	tombstone := update
	tombstone.Active = false
	idx.Apply(tombstone)

	key, _ := segment.DecomposeActionRequest("GET", "https://h/items/42")
	_, err := idx.Get("s", key)
	require.Error(t, err)
}

func TestWildcardVsExactS4(t *testing.T) {
	idx := New(nil)
	generic := cedar.NewEntityUID("Act", "Generic")
	specific := cedar.NewEntityUID("Act", "Specific")
	idx.Apply(routeUpdate("s", "generic", true, "h", segment.GET, "/items/{id}", generic))
	idx.Apply(routeUpdate("s", "specific", true, "h", segment.GET, "/items/special", specific))

	specialKey, _ := segment.DecomposeActionRequest("GET", "https://h/items/special")
	got, err := idx.Get("s", specialKey)
	require.NoError(t, err)
	assert.Equal(t, specific, got)

	otherKey, _ := segment.DecomposeActionRequest("GET", "https://h/items/42")
	got, err = idx.Get("s", otherKey)
	require.NoError(t, err)
	assert.Equal(t, generic, got)
}
