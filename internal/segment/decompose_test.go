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

package segment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecomposeActionRequest(t *testing.T) {
	keys, err := DecomposeActionRequest("get", "https://api.example.com/resources/42")
	require.NoError(t, err)
	assert.Equal(t, []RequestSegment{
		HostSegment("api.example.com"),
		VerbSegment(GET),
		PathSegmentOf(NewStaticSegment("resources")),
		PathSegmentOf(NewStaticSegment("42")),
	}, keys)
}

func TestDecomposeActionRequestUnknownMethod(t *testing.T) {
	_, err := DecomposeActionRequest("TRACE", "https://api.example.com/x")
	require.Error(t, err)
}

func TestDecomposeActionRequestMalformedURL(t *testing.T) {
	_, err := DecomposeActionRequest("GET", "://bad")
	require.Error(t, err)
}

func TestDecomposeResourceRequestIsVerbAgnostic(t *testing.T) {
	keys, err := DecomposeResourceRequest("https://api.example.com/resources/42")
	require.NoError(t, err)
	assert.Equal(t, []RequestSegment{
		HostSegment("api.example.com"),
		PathSegmentOf(NewStaticSegment("resources")),
		PathSegmentOf(NewStaticSegment("42")),
	}, keys)
}

func TestDecomposeRouteTemplate(t *testing.T) {
	assert.Equal(t, []PathSegment{
		NewStaticSegment("a"),
		ParameterSegment,
		NewStaticSegment("b"),
	}, DecomposeRouteTemplate("/a/{x}/b"))
}

func TestDecomposeRouteTemplateDropsEmptyPieces(t *testing.T) {
	assert.Equal(t, []PathSegment{NewStaticSegment("a")}, DecomposeRouteTemplate("//a//"))
}

func TestRouteKey(t *testing.T) {
	key := RouteKey("api.example.com", GET, "/items/{id}")
	assert.Equal(t, []RequestSegment{
		HostSegment("api.example.com"),
		VerbSegment(GET),
		PathSegmentOf(NewStaticSegment("items")),
		PathSegmentOf(ParameterSegment),
	}, key)
}
