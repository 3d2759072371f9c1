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

package httpapi

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	jose "github.com/go-jose/go-jose/v4"
	"github.com/stretchr/testify/require"

	"github.com/sneaksanddata/boxer-validator/internal/audit"
	"github.com/sneaksanddata/boxer-validator/internal/index"
	"github.com/sneaksanddata/boxer-validator/internal/model"
	"github.com/sneaksanddata/boxer-validator/internal/policyindex"
	"github.com/sneaksanddata/boxer-validator/internal/schemaprovider"
	"github.com/sneaksanddata/boxer-validator/internal/token"
	"github.com/sneaksanddata/boxer-validator/internal/validation"
)

type nopSink struct{}

func (nopSink) RecordAuthorization(context.Context, audit.AuthorizationEvent)      {}
func (nopSink) RecordTokenValidation(context.Context, audit.TokenValidationEvent) {}

const reviewTestKid = "review-test-key"

func reviewTestKey() []byte {
	return bytes.Repeat([]byte("k"), 32)
}

func mintReviewToken(t *testing.T, schemaID, principal string) string {
	t.Helper()
	claims := map[string]any{
		"iss": "boxer.sneaksanddata.com",
		"aud": "boxer.sneaksanddata.com",
		"boxer.sneaksanddata.com/api-version":         "v1",
		"boxer.sneaksanddata.com/validator-schema-id": schemaID,
		"boxer.sneaksanddata.com/principal":           base64.StdEncoding.EncodeToString([]byte(principal)),
		"boxer.sneaksanddata.com/schema":               base64.StdEncoding.EncodeToString([]byte(`{}`)),
	}
	payload, err := json.Marshal(claims)
	require.NoError(t, err)
	encrypter, err := jose.NewEncrypter(jose.A256GCM, jose.Recipient{Algorithm: jose.DIRECT, Key: reviewTestKey(), KeyID: reviewTestKid}, nil)
	require.NoError(t, err)
	obj, err := encrypter.Encrypt(payload)
	require.NoError(t, err)
	raw, err := obj.CompactSerialize()
	require.NoError(t, err)
	return raw
}

func newReviewTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	auth := token.New(token.Config{
		Keys:      map[string][]byte{reviewTestKid: reviewTestKey()},
		Issuers:   []string{"boxer.sneaksanddata.com"},
		Audiences: []string{"boxer.sneaksanddata.com"},
	}, nil)

	registry := schemaprovider.NewMemoryRegistry()
	registry.Apply(model.Schema{Name: "demo", Fragment: `{}`, Active: true})
	schemas := schemaprovider.New(registry, nil)

	actions := index.New(nil)
	actions.Apply(index.ActionSetUpdate(model.ActionSet{
		Schema: "demo", Name: "api", Hostname: "api.example.com", Active: true,
		Routes: []model.ActionRoute{{Method: "GET", Template: "/resources/{id}", ActionUid: model.NewEntityUid("App::Action", "ReadResource")}},
	}))
	resources := index.New(nil)
	resources.Apply(index.ResourceSetUpdate(model.ResourceSet{
		Schema: "demo", Name: "api", Hostname: "api.example.com", Active: true,
		Routes: []model.ResourceRoute{{Template: "/resources/{id}", ResourceUid: model.NewEntityUid("App::Resource", "Item")}},
	}))
	policies := policyindex.New(nil)
	policies.Apply(model.PolicyRecord{Schema: "demo", Name: "allow", Active: true, Text: `permit(principal, action, resource);`})

	pipeline, err := validation.New(auth, schemas, actions, resources, policies, nopSink{}, nil, nil)
	require.NoError(t, err)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewReviewHandler(pipeline).RegisterRoutes(r)
	return r
}

func reviewRequest(r *gin.Engine, method, originalURL, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/token/review", nil)
	if method != "" {
		req.Header.Set("X-Original-Method", method)
	}
	if originalURL != "" {
		req.Header.Set("X-Original-URL", originalURL)
	}
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

// TestReviewAllowReturns200 covers S1 end to end through the HTTP layer.
func TestReviewAllowReturns200(t *testing.T) {
	r := newReviewTestRouter(t)
	raw := mintReviewToken(t, "demo", `App::User::"alice"`)
	rec := reviewRequest(r, "GET", "https://api.example.com/resources/42", "Bearer "+raw)
	require.Equal(t, http.StatusOK, rec.Code)
}

// TestReviewUnknownActionReturns401 covers S3 through the HTTP layer.
func TestReviewUnknownActionReturns401(t *testing.T) {
	r := newReviewTestRouter(t)
	raw := mintReviewToken(t, "demo", `App::User::"alice"`)
	rec := reviewRequest(r, "GET", "https://api.example.com/unknown/42", "Bearer "+raw)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

// TestReviewBadTokenReturns401 covers token rejection through the HTTP
// layer with an unparseable token (S6's unknown-kid case is covered in the
// validation package): it must render 401, indistinguishable from a deny (§7).
func TestReviewBadTokenReturns401(t *testing.T) {
	r := newReviewTestRouter(t)
	rec := reviewRequest(r, "GET", "https://api.example.com/resources/42", "Bearer not-a-real-jwe")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

// TestReviewMissingHeadersReturns400 covers the missing-X-Original-* case.
func TestReviewMissingHeadersReturns400(t *testing.T) {
	r := newReviewTestRouter(t)
	raw := mintReviewToken(t, "demo", `App::User::"alice"`)
	rec := reviewRequest(r, "", "", "Bearer "+raw)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
