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
	v1 "github.com/sneaksanddata/boxer-validator/api/v1"
	"github.com/sneaksanddata/boxer-validator/internal/model"
	"github.com/sneaksanddata/boxer-validator/internal/segment"
)

// The conversions below translate between the wire/domain record shapes in
// internal/model (used by the control plane and the schema-scoped indices)
// and the CRD-backed storage shapes in api/v1 (used by RecordStore and the
// reflectors). Keeping the two separate lets the storage representation
// carry Kubernetes object metadata without leaking it into the domain.

// ActionSetToObject builds the storage object for an ActionSet record.
func ActionSetToObject(rec model.ActionSet) *v1.ActionSet {
	routes := make([]v1.ActionRoute, 0, len(rec.Routes))
	for _, r := range rec.Routes {
		routes = append(routes, v1.ActionRoute{
			Method:    string(r.Method),
			Template:  r.Template,
			ActionUid: r.ActionUid.String(),
		})
	}
	return &v1.ActionSet{
		Spec: v1.ActionSetSpec{
			Schema:   rec.Schema,
			Hostname: rec.Hostname,
			Routes:   routes,
			Active:   rec.Active,
		},
	}
}

// ObjectToActionSet decodes the storage object into the domain record.
func ObjectToActionSet(name string, obj *v1.ActionSet) (model.ActionSet, error) {
	routes := make([]model.ActionRoute, 0, len(obj.Spec.Routes))
	for _, r := range obj.Spec.Routes {
		method, ok := segment.ParseMethod(r.Method)
		if !ok {
			return model.ActionSet{}, badMethod(r.Method)
		}
		uid, err := model.ParseEntityUid(r.ActionUid)
		if err != nil {
			return model.ActionSet{}, err
		}
		routes = append(routes, model.ActionRoute{Method: method, Template: r.Template, ActionUid: uid})
	}
	return model.ActionSet{
		Schema:   obj.Spec.Schema,
		Name:     name,
		Hostname: obj.Spec.Hostname,
		Routes:   routes,
		Active:   obj.Spec.Active,
	}, nil
}

// ResourceSetToObject builds the storage object for a ResourceSet record.
func ResourceSetToObject(rec model.ResourceSet) *v1.ResourceSet {
	routes := make([]v1.ResourceRoute, 0, len(rec.Routes))
	for _, r := range rec.Routes {
		routes = append(routes, v1.ResourceRoute{Template: r.Template, ResourceUid: r.ResourceUid.String()})
	}
	return &v1.ResourceSet{
		Spec: v1.ResourceSetSpec{
			Schema:   rec.Schema,
			Hostname: rec.Hostname,
			Routes:   routes,
			Active:   rec.Active,
		},
	}
}

// ObjectToResourceSet decodes the storage object into the domain record.
func ObjectToResourceSet(name string, obj *v1.ResourceSet) (model.ResourceSet, error) {
	routes := make([]model.ResourceRoute, 0, len(obj.Spec.Routes))
	for _, r := range obj.Spec.Routes {
		uid, err := model.ParseEntityUid(r.ResourceUid)
		if err != nil {
			return model.ResourceSet{}, err
		}
		routes = append(routes, model.ResourceRoute{Template: r.Template, ResourceUid: uid})
	}
	return model.ResourceSet{
		Schema:   obj.Spec.Schema,
		Name:     name,
		Hostname: obj.Spec.Hostname,
		Routes:   routes,
		Active:   obj.Spec.Active,
	}, nil
}

// PolicyRecordToObject builds the storage object for a PolicyRecord.
func PolicyRecordToObject(rec model.PolicyRecord) *v1.PolicySet {
	return &v1.PolicySet{Spec: v1.PolicySetSpec{Schema: rec.Schema, Text: rec.Text, Active: rec.Active}}
}

// ObjectToPolicyRecord decodes the storage object into the domain record.
func ObjectToPolicyRecord(name string, obj *v1.PolicySet) model.PolicyRecord {
	return model.PolicyRecord{Schema: obj.Spec.Schema, Name: name, Text: obj.Spec.Text, Active: obj.Spec.Active}
}

// SchemaToObject builds the storage object for a Schema record.
func SchemaToObject(rec model.Schema) *v1.Schema {
	return &v1.Schema{Spec: v1.SchemaSpec{Fragment: rec.Fragment, Active: rec.Active}}
}

// ObjectToSchema decodes the storage object into the domain record.
func ObjectToSchema(name string, obj *v1.Schema) model.Schema {
	return model.Schema{Name: name, Fragment: obj.Spec.Fragment, Active: obj.Spec.Active}
}

type badMethodError struct{ method string }

func (e badMethodError) Error() string { return "unknown HTTP method: " + e.method }

func badMethod(method string) error { return badMethodError{method: method} }
