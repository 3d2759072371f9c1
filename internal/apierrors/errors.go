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

// Package apierrors classifies failures into the small set of kinds the
// service surfaces at its HTTP boundary.
package apierrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is a closed classification of failure modes surfaced by the core.
type Kind int

const (
	// Internal covers any failure not otherwise classified.
	Internal Kind = iota
	// BadRequest covers malformed URLs, methods, bodies, or token header shapes.
	BadRequest
	// Unauthorized covers token decryption, issuer, audience, or claim failures.
	Unauthorized
	// NotFound covers an absent schema/action/resource/policy record.
	NotFound
	// Conflict covers an optimistic-version collision that exhausted retries.
	Conflict
	// Timeout covers a backing-store deadline exceeded.
	Timeout
)

func (k Kind) String() string {
	switch k {
	case BadRequest:
		return "bad_request"
	case Unauthorized:
		return "unauthorized"
	case NotFound:
		return "not_found"
	case Conflict:
		return "conflict"
	case Timeout:
		return "timeout"
	default:
		return "internal"
	}
}

// Error wraps an underlying cause with a Kind. Error() includes the cause's
// text for logging; ResponseFor renders only Kind and Msg.
type Error struct {
	Kind  Kind
	Msg   string
	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.cause }

// Is reports whether target is an *Error of the same Kind, so
// errors.Is(err, apierrors.New(apierrors.NotFound, "")) matches any NotFound error.
func (e *Error) Is(target error) bool {
	var other *Error
	if errors.As(target, &other) {
		return other.Kind == e.Kind
	}
	return false
}

// New constructs an Error of the given kind.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap constructs an Error of the given kind, retaining cause for logging
// but never for the HTTP body (see ResponseFor).
func Wrap(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Msg: msg, cause: cause}
}

// KindOf extracts the Kind of err, defaulting to Internal if err is nil or
// not an *Error.
func KindOf(err error) Kind {
	if err == nil {
		return Internal
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// HTTPStatus maps a Kind to the status code the control plane returns.
func HTTPStatus(kind Kind) int {
	switch kind {
	case BadRequest:
		return http.StatusBadRequest
	case Unauthorized:
		return http.StatusUnauthorized
	case NotFound:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	case Timeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// Body is the short, non-sensitive JSON body returned by the control plane.
// It deliberately omits the underlying cause: an Unauthorized body MUST NOT
// reveal which check failed.
type Body struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ResponseFor builds the status code and body for a control-plane error.
func ResponseFor(err error) (int, Body) {
	kind := KindOf(err)
	msg := "request failed"
	var e *Error
	if errors.As(err, &e) && kind != Internal {
		msg = e.Msg
	}
	return HTTPStatus(kind), Body{Code: kind.String(), Message: msg}
}
