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

package model

import "github.com/sneaksanddata/boxer-validator/internal/segment"

// ActionRoute is one entry of an ActionSet's route table.
type ActionRoute struct {
	Method    segment.HTTPMethod `json:"method"`
	Template  string             `json:"template"`
	ActionUid EntityUid          `json:"action"`
}

// ResourceRoute is one entry of a ResourceSet's route table.
type ResourceRoute struct {
	Template    string    `json:"template"`
	ResourceUid EntityUid `json:"resource"`
}

// ActionSet is the stored record form of a registered action route table.
// Uniqueness is (Schema, Name).
type ActionSet struct {
	Schema   string        `json:"schema"`
	Name     string        `json:"name"`
	Hostname string        `json:"hostname"`
	Routes   []ActionRoute `json:"routes"`
	Active   bool          `json:"active"`
}

// ResourceSet is the stored record form of a registered resource route
// table.
type ResourceSet struct {
	Schema   string          `json:"schema"`
	Name     string          `json:"name"`
	Hostname string          `json:"hostname"`
	Routes   []ResourceRoute `json:"routes"`
	Active   bool            `json:"active"`
}

// PolicyRecord is one Cedar policy contributed to a schema's composite
// PolicySet. The record name is the policy's id within that set.
type PolicyRecord struct {
	Schema string `json:"schema"`
	Name   string `json:"name"`
	Text   string `json:"text"`
	Active bool   `json:"active"`
}

// Schema is a named JSON policy-schema fragment.
type Schema struct {
	Name     string `json:"name"`
	Fragment string `json:"fragment"`
	Active   bool   `json:"active"`
}

// ActionSetRegistration is the control-plane request/response body for
// action set endpoints.
type ActionSetRegistration struct {
	Hostname string        `json:"hostname"`
	Routes   []ActionRoute `json:"routes"`
}

// ResourceSetRegistration is the control-plane request/response body for
// resource set endpoints.
type ResourceSetRegistration struct {
	Hostname string          `json:"hostname"`
	Routes   []ResourceRoute `json:"routes"`
}

// PolicySetRegistration is the control-plane request/response body for
// policy set endpoints.
type PolicySetRegistration struct {
	Text string `json:"text"`
}

// SchemaRegistration is the control-plane request/response body for
// schema endpoints.
type SchemaRegistration struct {
	Fragment string `json:"fragment"`
}

// ToActionSet builds the stored record from a registration.
func (r ActionSetRegistration) ToActionSet(schema, name string) ActionSet {
	return ActionSet{Schema: schema, Name: name, Hostname: r.Hostname, Routes: r.Routes, Active: true}
}

// ToResourceSet builds the stored record from a registration.
func (r ResourceSetRegistration) ToResourceSet(schema, name string) ResourceSet {
	return ResourceSet{Schema: schema, Name: name, Hostname: r.Hostname, Routes: r.Routes, Active: true}
}

// ToPolicyRecord builds the stored record from a registration.
func (r PolicySetRegistration) ToPolicyRecord(schema, name string) PolicyRecord {
	return PolicyRecord{Schema: schema, Name: name, Text: r.Text, Active: true}
}

// ToSchema builds the stored record from a registration.
func (r SchemaRegistration) ToSchema(name string) Schema {
	return Schema{Name: name, Fragment: r.Fragment, Active: true}
}

// BoxerClaims is decoded from the internal token.
type BoxerClaims struct {
	APIVersion        string    `json:"api_version"`
	ValidatorSchemaID string    `json:"validator_schema_id"`
	Principal         EntityUid `json:"principal"`
	SchemaFragment    string    `json:"schema_fragment"`
}
