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

package trie

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// stringKey is "*" for the wildcard sentinel, anything else is a literal.
type stringKey string

const wildcard stringKey = "*"

var classifier = ClassifierFunc[stringKey](func(k stringKey) bool { return k == wildcard })

func keys(parts ...string) []stringKey {
	out := make([]stringKey, len(parts))
	for i, p := range parts {
		out[i] = stringKey(p)
	}
	return out
}

func TestGetEmptyKeysReturnsNotFound(t *testing.T) {
	tr := New[stringKey, int](classifier, nil)
	_, ok := tr.Get(nil)
	assert.False(t, ok)
}

func TestInsertEmptyKeysIsNoop(t *testing.T) {
	tr := New[stringKey, int](classifier, nil)
	tr.Insert(nil, 1)
	_, ok := tr.Get(nil)
	assert.False(t, ok)
}

func TestDeleteNonExistentReturnsNotFound(t *testing.T) {
	tr := New[stringKey, int](classifier, nil)
	tr.Insert(keys("a", "b"), 1)
	_, ok := tr.Delete(keys("a", "z"))
	assert.False(t, ok)
	v, ok := tr.Get(keys("a", "b"))
	assert.True(t, ok)
	assert.Equal(t, 1, v)
}

func TestOverwriteIsIdempotent(t *testing.T) {
	tr := New[stringKey, int](classifier, nil)
	tr.Insert(keys("a", "b"), 1)
	tr.Insert(keys("a", "b"), 2)
	v, ok := tr.Get(keys("a", "b"))
	assert.True(t, ok)
	assert.Equal(t, 2, v)
}

// TestExactOverWildcardTerminal covers P2: exact beats wildcard at the
// terminal position regardless of insertion order.
func TestExactOverWildcardTerminal(t *testing.T) {
	for _, order := range []bool{false, true} {
		tr := New[stringKey, int](classifier, nil)
		insertWildcard := func() { tr.Insert(keys("a", "b", "*"), 100) }
		insertExact := func() { tr.Insert(keys("a", "b", "c"), 200) }
		if order {
			insertWildcard()
			insertExact()
		} else {
			insertExact()
			insertWildcard()
		}

		exact, ok := tr.Get(keys("a", "b", "c"))
		assert.True(t, ok)
		assert.Equal(t, 200, exact)

		wild, ok := tr.Get(keys("a", "b", "z"))
		assert.True(t, ok)
		assert.Equal(t, 100, wild)
	}
}

// TestExactOverWildcardInterior covers exact-over-wildcard at a
// non-terminal node (S4 style: two routes sharing a prefix, one with a
// wildcard segment, one fully literal).
func TestExactOverWildcardInterior(t *testing.T) {
	tr := New[stringKey, int](classifier, nil)
	tr.Insert(keys("items", "*", "view"), 1)       // GET /items/{id}/view -> Generic
	tr.Insert(keys("items", "special", "view"), 2) // GET /items/special/view -> Specific

	specific, ok := tr.Get(keys("items", "special", "view"))
	assert.True(t, ok)
	assert.Equal(t, 2, specific)

	generic, ok := tr.Get(keys("items", "42", "view"))
	assert.True(t, ok)
	assert.Equal(t, 1, generic)
}

func TestIdempotentUpdateLeavesIndexUnchanged(t *testing.T) {
	tr := New[stringKey, int](classifier, nil)
	tr.Insert(keys("a"), 1)
	tr.Insert(keys("a"), 1)
	v, ok := tr.Get(keys("a"))
	assert.True(t, ok)
	assert.Equal(t, 1, v)
}

func TestDeleteThenGetMisses(t *testing.T) {
	tr := New[stringKey, int](classifier, nil)
	tr.Insert(keys("a", "b"), 1)
	v, ok := tr.Delete(keys("a", "b"))
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	_, ok = tr.Get(keys("a", "b"))
	assert.False(t, ok)
}

func TestConcurrentReadsAndWritesDoNotRace(t *testing.T) {
	tr := New[stringKey, int](classifier, nil)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			tr.Insert(keys("a", "b", "c"), i)
		}(i)
		go func() {
			defer wg.Done()
			tr.Get(keys("a", "b", "c"))
		}()
	}
	wg.Wait()
	_, ok := tr.Get(keys("a", "b", "c"))
	assert.True(t, ok)
}
