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
	"net/url"
	"strings"

	"github.com/sneaksanddata/boxer-validator/internal/apierrors"
)

// splitPath splits a URL path on "/", dropping empty pieces.
func splitPath(path string) []string {
	raw := strings.Split(path, "/")
	pieces := make([]string, 0, len(raw))
	for _, p := range raw {
		if p != "" {
			pieces = append(pieces, p)
		}
	}
	return pieces
}

func pathSegments(path string) []PathSegment {
	pieces := splitPath(path)
	segments := make([]PathSegment, 0, len(pieces))
	for _, p := range pieces {
		if strings.HasPrefix(p, "{") && strings.HasSuffix(p, "}") {
			segments = append(segments, ParameterSegment)
		} else {
			segments = append(segments, NewStaticSegment(p))
		}
	}
	return segments
}

// DecomposeRouteTemplate splits a route template such as "/a/{x}/b" into
// its ordered PathSegment sequence.
func DecomposeRouteTemplate(template string) []PathSegment {
	return pathSegments(template)
}

func parseURL(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, apierrors.Wrap(apierrors.BadRequest, "malformed URL", err)
	}
	if u.Hostname() == "" {
		return nil, apierrors.New(apierrors.BadRequest, "URL is missing a host")
	}
	return u, nil
}

func requestPathSegments(u *url.URL) []RequestSegment {
	pieces := pathSegments(u.Path)
	segments := make([]RequestSegment, 0, len(pieces))
	for _, p := range pieces {
		segments = append(segments, PathSegmentOf(p))
	}
	return segments
}

// DecomposeActionRequest builds the full [Hostname, Verb, Path...] key for
// action-trie lookups.
func DecomposeActionRequest(method, rawURL string) ([]RequestSegment, error) {
	u, err := parseURL(rawURL)
	if err != nil {
		return nil, err
	}
	m, ok := ParseMethod(method)
	if !ok {
		return nil, apierrors.New(apierrors.BadRequest, "unknown HTTP method")
	}
	segments := make([]RequestSegment, 0, 2+len(u.Path))
	segments = append(segments, HostSegment(u.Hostname()), VerbSegment(m))
	segments = append(segments, requestPathSegments(u)...)
	return segments, nil
}

// DecomposeResourceRequest builds the [Hostname, Path...] key for
// resource-trie lookups; resource tries are verb-agnostic.
func DecomposeResourceRequest(rawURL string) ([]RequestSegment, error) {
	u, err := parseURL(rawURL)
	if err != nil {
		return nil, err
	}
	segments := make([]RequestSegment, 0, 1+len(u.Path))
	segments = append(segments, HostSegment(u.Hostname()))
	segments = append(segments, requestPathSegments(u)...)
	return segments, nil
}

// RouteKey builds the full request-segment key for one action route:
// [Hostname(hostname), Verb(method), Path(seg1), ...].
func RouteKey(hostname string, method HTTPMethod, template string) []RequestSegment {
	path := DecomposeRouteTemplate(template)
	key := make([]RequestSegment, 0, 2+len(path))
	key = append(key, HostSegment(hostname), VerbSegment(method))
	for _, p := range path {
		key = append(key, PathSegmentOf(p))
	}
	return key
}

// ResourceRouteKey builds the full request-segment key for one resource
// route: [Hostname(hostname), Path(seg1), ...].
func ResourceRouteKey(hostname, template string) []RequestSegment {
	path := DecomposeRouteTemplate(template)
	key := make([]RequestSegment, 0, 1+len(path))
	key = append(key, HostSegment(hostname))
	for _, p := range path {
		key = append(key, PathSegmentOf(p))
	}
	return key
}
