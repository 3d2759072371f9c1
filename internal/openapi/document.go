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

// Package openapi builds the control plane's OpenAPI document
// programmatically via github.com/getkin/kin-openapi, the same library
// the teacher's own swagger generation pulls in, and serves it alongside
// a static Swagger-UI page (§4.13).
package openapi

import (
	"github.com/getkin/kin-openapi/openapi3"
)

type routeSpec struct {
	method      string
	path        string
	summary     string
	operationID string
	hasBody     bool
	params      []string
}

func routes() []routeSpec {
	return []routeSpec{
		{"POST", "/api/v1/schema/{id}", "Upsert a schema fragment", "upsertSchema", true, []string{"id"}},
		{"GET", "/api/v1/schema/{id}", "Fetch a schema fragment", "getSchema", false, []string{"id"}},
		{"DELETE", "/api/v1/schema/{id}", "Soft-delete a schema fragment", "deleteSchema", false, []string{"id"}},

		{"POST", "/api/v1/action_set/{schema}/{id}", "Upsert an action route table", "upsertActionSet", true, []string{"schema", "id"}},
		{"GET", "/api/v1/action_set/{schema}/{id}", "Fetch an action route table", "getActionSet", false, []string{"schema", "id"}},
		{"DELETE", "/api/v1/action_set/{schema}/{id}", "Soft-delete an action route table", "deleteActionSet", false, []string{"schema", "id"}},

		{"POST", "/api/v1/resource_set/{schema}/{id}", "Upsert a resource route table", "upsertResourceSet", true, []string{"schema", "id"}},
		{"GET", "/api/v1/resource_set/{schema}/{id}", "Fetch a resource route table", "getResourceSet", false, []string{"schema", "id"}},
		{"DELETE", "/api/v1/resource_set/{schema}/{id}", "Soft-delete a resource route table", "deleteResourceSet", false, []string{"schema", "id"}},

		{"POST", "/api/v1/policy_set/{schema}/{id}", "Upsert a Cedar policy", "upsertPolicySet", true, []string{"schema", "id"}},
		{"GET", "/api/v1/policy_set/{schema}/{id}", "Fetch a Cedar policy", "getPolicySet", false, []string{"schema", "id"}},
		{"DELETE", "/api/v1/policy_set/{schema}/{id}", "Soft-delete a Cedar policy", "deletePolicySet", false, []string{"schema", "id"}},

		{"GET", "/api/v1/token/review", "Evaluate an authorization decision for a proxied request", "reviewToken", false, nil},
	}
}

func operationFor(spec routeSpec) *openapi3.Operation {
	op := openapi3.NewOperation()
	op.OperationID = spec.operationID
	op.Summary = spec.summary
	op.Security = &openapi3.SecurityRequirements{
		openapi3.NewSecurityRequirement().Authenticate("bearerAuth"),
	}

	for _, name := range spec.params {
		op.AddParameter(openapi3.NewPathParameter(name).WithSchema(openapi3.NewStringSchema()))
	}

	if spec.hasBody {
		op.RequestBody = &openapi3.RequestBodyRef{
			Value: openapi3.NewRequestBody().WithRequired(true).WithJSONSchema(openapi3.NewObjectSchema()),
		}
	}

	op.Responses = openapi3.NewResponses(
		openapi3.WithStatus(200, &openapi3.ResponseRef{Value: openapi3.NewResponse().WithDescription("success")}),
		openapi3.WithStatus(401, &openapi3.ResponseRef{Value: openapi3.NewResponse().WithDescription("unauthorized")}),
		openapi3.WithStatus(404, &openapi3.ResponseRef{Value: openapi3.NewResponse().WithDescription("not found")}),
	)
	return op
}

func pathItemFor(spec routeSpec, existing *openapi3.PathItem) *openapi3.PathItem {
	if existing == nil {
		existing = &openapi3.PathItem{}
	}
	op := operationFor(spec)
	switch spec.method {
	case "GET":
		existing.Get = op
	case "POST":
		existing.Post = op
	case "DELETE":
		existing.Delete = op
	}
	return existing
}

// Document builds the full OpenAPI 3 document for the control-plane
// surface, named after instanceName (§6).
func Document(instanceName string) *openapi3.T {
	paths := openapi3.NewPaths()
	items := map[string]*openapi3.PathItem{}
	for _, spec := range routes() {
		items[spec.path] = pathItemFor(spec, items[spec.path])
	}
	for path, item := range items {
		paths.Set(path, item)
	}

	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:   instanceName,
			Version: "1.0.0",
		},
		Paths: paths,
		Components: &openapi3.Components{
			SecuritySchemes: openapi3.SecuritySchemes{
				"bearerAuth": &openapi3.SecuritySchemeRef{
					Value: &openapi3.SecurityScheme{Type: "http", Scheme: "bearer"},
				},
			},
		},
	}
	return doc
}
