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
	cedar "github.com/cedar-policy/cedar-go"

	"github.com/sneaksanddata/boxer-validator/internal/model"
	"github.com/sneaksanddata/boxer-validator/internal/segment"
)

// ActionSetUpdate builds the RecordUpdate an ActionSet record produces:
// [Hostname(hostname), Verb(method), Path(seg...)] -> action_uid per route.
//
// Routes are keyed by (method, template), not template alone: an ActionSet
// routinely holds two routes sharing a template but differing by verb (e.g.
// GET /items/{id} and POST /items/{id}), and a template-only key would let
// the second overwrite the first, silently dropping a registered route.
func ActionSetUpdate(set model.ActionSet) RecordUpdate {
	keys := make(map[string][]segment.RequestSegment, len(set.Routes))
	values := make(map[string]model.EntityUid, len(set.Routes))
	for _, route := range set.Routes {
		id := string(route.Method) + " " + route.Template
		keys[id] = segment.RouteKey(set.Hostname, route.Method, route.Template)
		values[id] = route.ActionUid
	}
	return toRecordUpdate(set.Schema, set.Name, set.Active, keys, values)
}

// ResourceSetUpdate builds the RecordUpdate a ResourceSet record produces:
// [Hostname(hostname), Path(seg...)] -> resource_uid per route (no verb).
func ResourceSetUpdate(set model.ResourceSet) RecordUpdate {
	keys := make(map[string][]segment.RequestSegment, len(set.Routes))
	values := make(map[string]model.EntityUid, len(set.Routes))
	for _, route := range set.Routes {
		keys[route.Template] = segment.ResourceRouteKey(set.Hostname, route.Template)
		values[route.Template] = route.ResourceUid
	}
	return toRecordUpdate(set.Schema, set.Name, set.Active, keys, values)
}

func toRecordUpdate(schema, name string, active bool, keys map[string][]segment.RequestSegment, values map[string]model.EntityUid) RecordUpdate {
	out := make(map[string]cedar.EntityUID, len(values))
	for k, v := range values {
		out[k] = v.EntityUID
	}
	return RecordUpdate{Schema: schema, Name: name, Active: active, Keys: keys, Values: out}
}
