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

// Package model holds the data types shared across the control plane and
// the validation pipeline: EntityUid, routes, per-schema record sets,
// policy records, schema fragments, and the decoded token claims.
package model

import (
	"encoding/json"
	"fmt"
	"strings"

	cedar "github.com/cedar-policy/cedar-go"

	"github.com/sneaksanddata/boxer-validator/internal/apierrors"
)

// EntityUid is an opaque policy-entity identifier of shape Type::"id".
// It is a thin, JSON-capable wrapper around cedar-go's EntityUID.
type EntityUid struct {
	cedar.EntityUID
}

// NewEntityUid builds an EntityUid from a type name and id.
func NewEntityUid(typ, id string) EntityUid {
	return EntityUid{EntityUID: cedar.NewEntityUID(cedar.EntityType(typ), cedar.String(id))}
}

// ParseEntityUid parses the printable Type::"id" form.
func ParseEntityUid(raw string) (EntityUid, error) {
	idx := strings.LastIndex(raw, "::")
	if idx < 0 {
		return EntityUid{}, apierrors.New(apierrors.BadRequest, "malformed entity uid")
	}
	typ := raw[:idx]
	rest := strings.TrimSpace(raw[idx+2:])
	if len(rest) < 2 || rest[0] != '"' || rest[len(rest)-1] != '"' {
		return EntityUid{}, apierrors.New(apierrors.BadRequest, "malformed entity uid")
	}
	id := rest[1 : len(rest)-1]
	return NewEntityUid(typ, id), nil
}

// String renders the Type::"id" printable form.
func (e EntityUid) String() string {
	return fmt.Sprintf("%s::%q", e.EntityUID.Type, string(e.EntityUID.ID))
}

// MarshalJSON renders the entity uid as its printable string form.
func (e EntityUid) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.String())
}

// UnmarshalJSON parses the printable string form.
func (e *EntityUid) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseEntityUid(raw)
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}
