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

// Package index partitions route-resolution tries by validator schema id
// (I1) and applies record updates atomically per schema.
package index

import (
	"sync"

	cedar "github.com/cedar-policy/cedar-go"

	"github.com/sneaksanddata/boxer-validator/internal/apierrors"
	"github.com/sneaksanddata/boxer-validator/internal/segment"
	"github.com/sneaksanddata/boxer-validator/internal/trie"
	"go.uber.org/zap"
)

// RecordUpdate is one observed change to a schema-scoped record: record is
// active (upsert) or not (tombstone), and keys is the COMPLETE key-set it
// currently produces. A smaller key-set on a later update for the same
// name expresses removal of the keys no longer present.
type RecordUpdate struct {
	Schema string
	Name   string
	Active bool
	Keys   map[string][]segment.RequestSegment // keyed by a caller-chosen per-key identity (e.g. route template), value is the full key sequence
	Values map[string]cedar.EntityUID          // same keying as Keys, the entity each key maps to
}

// SchemaIndex maps validator_schema_id -> Trie[RequestSegment, EntityUID].
// One instance serves action lookups, a second serves resource lookups.
type SchemaIndex struct {
	logger *zap.Logger

	mu    sync.RWMutex
	tries map[string]*trie.Trie[segment.RequestSegment, cedar.EntityUID]

	// priorKeys remembers, per (schema, record name), the key identities
	// written by the most recent active update, so a shrinking update can
	// delete the keys that dropped out (§9, tombstone-driven deletion).
	priorKeys map[string]map[string][]segment.RequestSegment
}

// New constructs an empty SchemaIndex.
func New(logger *zap.Logger) *SchemaIndex {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SchemaIndex{
		logger:    logger,
		tries:     make(map[string]*trie.Trie[segment.RequestSegment, cedar.EntityUID]),
		priorKeys: make(map[string]map[string][]segment.RequestSegment),
	}
}

func (s *SchemaIndex) existingTrieFor(schemaID string) (*trie.Trie[segment.RequestSegment, cedar.EntityUID], bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tries[schemaID]
	return t, ok
}

// Get resolves a key within a schema's trie. NotFound if the schema has no
// trie yet, or the trie lookup misses (I1, I2).
func (s *SchemaIndex) Get(schemaID string, keys []segment.RequestSegment) (cedar.EntityUID, error) {
	t, ok := s.existingTrieFor(schemaID)
	if !ok {
		return cedar.EntityUID{}, apierrors.New(apierrors.NotFound, "no routes registered for schema")
	}
	v, ok := t.Get(keys)
	if !ok {
		return cedar.EntityUID{}, apierrors.New(apierrors.NotFound, "no route matches request")
	}
	return v, nil
}

func recordIdentity(update RecordUpdate) string {
	return update.Schema + "/" + update.Name
}

// Apply applies one record's update to the schema-scoped trie. The entire
// update - trie creation, every key insert/delete it implies, and the
// priorKeys bookkeeping - runs under a single hold of s.mu, so a concurrent
// Get (which itself takes s.mu.RLock before touching a trie, see
// existingTrieFor) can never observe a half-applied record: it either sees
// the state before this update or the state after, never a partial mix of
// inserted-but-not-yet-superseded-deleted keys (I3/P3/P4). This is a
// coarser guarantee than the trie's own per-node locking, which only
// protects individual node mutations from corrupting each other; Apply's
// outer lock is what gives a whole record's update its atomicity.
func (s *SchemaIndex) Apply(update RecordUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tries[update.Schema]
	if !ok {
		t = trie.New[segment.RequestSegment, cedar.EntityUID](segment.RequestSegmentClassifier{}, s.logger)
		s.tries[update.Schema] = t
	}

	id := recordIdentity(update)
	prior := s.priorKeys[id]

	if update.Active {
		for name, keys := range update.Keys {
			t.Insert(keys, update.Values[name])
		}
		for name, keys := range prior {
			if _, stillPresent := update.Keys[name]; !stillPresent {
				t.Delete(keys)
			}
		}
		s.priorKeys[id] = update.Keys
		return
	}

	// Tombstone: delete every key this record ever produced.
	for _, keys := range prior {
		t.Delete(keys)
	}
	for _, keys := range update.Keys {
		t.Delete(keys)
	}
	delete(s.priorKeys, id)
}
