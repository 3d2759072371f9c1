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

// Package trie implements a mutable, concurrent-safe prefix tree over an
// ordered sequence of keys, with a parameter-aware (wildcard) descent and
// insert rule: exact keys win over a wildcard branch at every depth,
// including the terminal one.
package trie

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Classifier tells the trie which keys of type K are wildcards.
type Classifier[K comparable] interface {
	IsParameter(K) bool
}

// ClassifierFunc adapts a plain function to a Classifier.
type ClassifierFunc[K comparable] func(K) bool

// IsParameter implements Classifier.
func (f ClassifierFunc[K]) IsParameter(k K) bool { return f(k) }

// node is one level of the trie. Each node guards its own child map and
// value slots with its own RWMutex so that readers on disjoint subtrees,
// or readers racing a write to a different node, never contend.
type node[K comparable, V any] struct {
	mu sync.RWMutex

	exact     map[K]*node[K, V]
	parameter *node[K, V]

	exactValues    map[K]V
	hasParamValue  bool
	parameterValue V
}

func newNode[K comparable, V any]() *node[K, V] {
	return &node[K, V]{
		exact:       make(map[K]*node[K, V]),
		exactValues: make(map[K]V),
	}
}

// Trie is a generic, concurrency-safe prefix tree keyed by a sequence of K,
// storing one V at each inserted leaf.
type Trie[K comparable, V any] struct {
	classifier Classifier[K]
	logger     *zap.Logger
	root       *node[K, V]
}

// New constructs an empty Trie. logger may be nil, in which case overwrite
// warnings are dropped (useful in tests).
func New[K comparable, V any](classifier Classifier[K], logger *zap.Logger) *Trie[K, V] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Trie[K, V]{
		classifier: classifier,
		logger:     logger,
		root:       newNode[K, V](),
	}
}

// child returns the node that k descends to from n, without creating it.
// Read locks only; exact-then-wildcard per §4.1.
func (n *node[K, V]) child(k K, isParam bool) *node[K, V] {
	n.mu.RLock()
	defer n.mu.RUnlock()

	if isParam {
		return n.parameter
	}
	if c, ok := n.exact[k]; ok {
		return c
	}
	return n.parameter
}

// ensureChild returns the node k descends to from n, creating it if
// necessary. Takes a single write lock on n only.
func (n *node[K, V]) ensureChild(k K, isParam bool) *node[K, V] {
	n.mu.Lock()
	defer n.mu.Unlock()

	if isParam {
		if n.parameter == nil {
			n.parameter = newNode[K, V]()
		}
		return n.parameter
	}
	if c, ok := n.exact[k]; ok {
		return c
	}
	c := newNode[K, V]()
	n.exact[k] = c
	return c
}

func (n *node[K, V]) getValue(k K, isParam bool) (V, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	if !isParam {
		if v, ok := n.exactValues[k]; ok {
			return v, true
		}
	}
	if n.hasParamValue {
		return n.parameterValue, true
	}
	var zero V
	return zero, false
}

func (n *node[K, V]) setValue(k K, isParam bool, v V, logger *zap.Logger) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if isParam {
		if n.hasParamValue {
			logger.Warn("overwriting existing parameter value in trie leaf")
		}
		n.parameterValue = v
		n.hasParamValue = true
		return
	}
	if _, exists := n.exactValues[k]; exists {
		logger.Warn("overwriting existing exact value in trie leaf", zap.Any("key", k))
	}
	n.exactValues[k] = v
}

func (n *node[K, V]) clearValue(k K, isParam bool) (V, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if isParam {
		if !n.hasParamValue {
			var zero V
			return zero, false
		}
		v := n.parameterValue
		var zero V
		n.parameterValue = zero
		n.hasParamValue = false
		return v, true
	}
	v, ok := n.exactValues[k]
	if ok {
		delete(n.exactValues, k)
	}
	return v, ok
}

// Insert sets the value at the leaf reached by keys, overwriting (and
// logging the overwrite) if one already exists. An empty key sequence is
// a no-op.
func (t *Trie[K, V]) Insert(keys []K, v V) {
	if len(keys) == 0 {
		return
	}
	cur := t.root
	for _, k := range keys[:len(keys)-1] {
		cur = cur.ensureChild(k, t.classifier.IsParameter(k))
	}
	last := keys[len(keys)-1]
	cur.setValue(last, t.classifier.IsParameter(last), v, t.logger)
}

// Get descends per the exact-then-wildcard rule and returns the value at
// the matching leaf, if any. An empty key sequence returns not-found.
func (t *Trie[K, V]) Get(keys []K) (V, bool) {
	var zero V
	if len(keys) == 0 {
		return zero, false
	}
	cur := t.root
	for _, k := range keys[:len(keys)-1] {
		cur = cur.child(k, t.classifier.IsParameter(k))
		if cur == nil {
			return zero, false
		}
	}
	last := keys[len(keys)-1]
	return cur.getValue(last, t.classifier.IsParameter(last))
}

// Delete removes the value at the exact leaf reached by keys and returns
// it. A non-existent leaf, or an empty key sequence, returns not-found and
// leaves the tree unchanged. Interior nodes are not pruned.
func (t *Trie[K, V]) Delete(keys []K) (V, bool) {
	var zero V
	if len(keys) == 0 {
		return zero, false
	}
	cur := t.root
	for _, k := range keys[:len(keys)-1] {
		cur = cur.child(k, t.classifier.IsParameter(k))
		if cur == nil {
			return zero, false
		}
	}
	last := keys[len(keys)-1]
	return cur.clearValue(last, t.classifier.IsParameter(last))
}

// String is for debugging only.
func (t *Trie[K, V]) String() string {
	return fmt.Sprintf("Trie(%T -> %T)", *new(K), *new(V))
}
