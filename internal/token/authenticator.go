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

// Package token decrypts and validates the internal JWE carried on the
// Authorization header, and extracts BoxerClaims from its payload (§4.7).
package token

import (
	"encoding/base64"
	"encoding/json"
	"strings"

	jose "github.com/go-jose/go-jose/v4"
	"go.uber.org/zap"

	"github.com/sneaksanddata/boxer-validator/internal/apierrors"
	"github.com/sneaksanddata/boxer-validator/internal/model"
)

const (
	claimAPIVersion = "boxer.sneaksanddata.com/api-version"
	claimSchemaID   = "boxer.sneaksanddata.com/validator-schema-id"
	claimPrincipal  = "boxer.sneaksanddata.com/principal"
	claimSchema     = "boxer.sneaksanddata.com/schema"
)

var supportedKeyAlgorithms = []jose.KeyAlgorithm{jose.DIRECT}
var supportedContentEncryption = []jose.ContentEncryption{jose.A256GCM, jose.A128GCM}

// Authenticator validates internal JWEs using a key map scoped by kid and
// issuer/audience allow-lists. An Authenticator is immutable after
// construction (§5).
type Authenticator struct {
	keys      map[string][]byte
	issuers   map[string]struct{}
	audiences map[string]struct{}
	logger    *zap.Logger
}

// Config configures a new Authenticator.
type Config struct {
	Keys      map[string][]byte
	Issuers   []string
	Audiences []string
}

// New constructs an Authenticator from Config.
func New(cfg Config, logger *zap.Logger) *Authenticator {
	if logger == nil {
		logger = zap.NewNop()
	}
	issuers := make(map[string]struct{}, len(cfg.Issuers))
	for _, i := range cfg.Issuers {
		issuers[i] = struct{}{}
	}
	audiences := make(map[string]struct{}, len(cfg.Audiences))
	for _, a := range cfg.Audiences {
		audiences[a] = struct{}{}
	}
	keys := cfg.Keys
	if keys == nil {
		keys = map[string][]byte{}
	}
	return &Authenticator{keys: keys, issuers: issuers, audiences: audiences, logger: logger}
}

// unauthorized builds an Unauthorized error whose message never reveals
// which specific check failed, logging the real cause for operators only.
func (a *Authenticator) unauthorized(reason string, cause error) error {
	if cause != nil {
		a.logger.Debug("token validation failed", zap.String("reason", reason), zap.Error(cause))
	} else {
		a.logger.Debug("token validation failed", zap.String("reason", reason))
	}
	return apierrors.New(apierrors.Unauthorized, "token validation failed")
}

// Validate decodes the JWE header, selects the key by kid, decrypts with
// the direct content-encryption scheme, and checks aud/iss allow-lists,
// returning the decoded BoxerClaims.
func (a *Authenticator) Validate(raw string) (model.BoxerClaims, error) {
	jwe, err := jose.ParseEncrypted(raw, supportedKeyAlgorithms, supportedContentEncryption)
	if err != nil {
		return model.BoxerClaims{}, a.unauthorized("malformed jwe", err)
	}

	kid := jwe.Header.KeyID
	if kid == "" {
		return model.BoxerClaims{}, a.unauthorized("missing kid", nil)
	}

	key, ok := a.keys[kid]
	if !ok {
		return model.BoxerClaims{}, a.unauthorized("unknown kid", nil)
	}

	plaintext, err := jwe.Decrypt(key)
	if err != nil {
		return model.BoxerClaims{}, a.unauthorized("decryption failed", err)
	}

	var claims map[string]any
	if err := json.Unmarshal(plaintext, &claims); err != nil {
		return model.BoxerClaims{}, a.unauthorized("malformed claims payload", err)
	}

	if !a.audienceAllowed(claims) {
		return model.BoxerClaims{}, a.unauthorized("audience not allowed", nil)
	}
	if !a.issuerAllowed(claims) {
		return model.BoxerClaims{}, a.unauthorized("issuer not allowed", nil)
	}

	return a.extractClaims(claims)
}

func (a *Authenticator) audienceAllowed(claims map[string]any) bool {
	switch v := claims["aud"].(type) {
	case string:
		_, ok := a.audiences[v]
		return ok
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				if _, allowed := a.audiences[s]; allowed {
					return true
				}
			}
		}
	}
	return false
}

func (a *Authenticator) issuerAllowed(claims map[string]any) bool {
	iss, ok := claims["iss"].(string)
	if !ok {
		return false
	}
	_, allowed := a.issuers[iss]
	return allowed
}

func stringClaim(claims map[string]any, key string) (string, bool) {
	v, ok := claims[key].(string)
	return v, ok
}

func (a *Authenticator) extractClaims(claims map[string]any) (model.BoxerClaims, error) {
	apiVersion, ok := stringClaim(claims, claimAPIVersion)
	if !ok {
		return model.BoxerClaims{}, a.unauthorized("missing api version claim", nil)
	}
	schemaID, ok := stringClaim(claims, claimSchemaID)
	if !ok {
		return model.BoxerClaims{}, a.unauthorized("missing validator schema id claim", nil)
	}
	principalRaw, ok := stringClaim(claims, claimPrincipal)
	if !ok {
		return model.BoxerClaims{}, a.unauthorized("missing principal claim", nil)
	}
	principalBytes, err := base64.StdEncoding.DecodeString(principalRaw)
	if err != nil {
		return model.BoxerClaims{}, a.unauthorized("malformed principal claim encoding", err)
	}
	principal, err := model.ParseEntityUid(string(principalBytes))
	if err != nil {
		return model.BoxerClaims{}, a.unauthorized("malformed principal claim", err)
	}
	schemaFragmentRaw, ok := stringClaim(claims, claimSchema)
	if !ok {
		return model.BoxerClaims{}, a.unauthorized("missing schema fragment claim", nil)
	}
	schemaFragmentBytes, err := base64.StdEncoding.DecodeString(schemaFragmentRaw)
	if err != nil {
		return model.BoxerClaims{}, a.unauthorized("malformed schema fragment encoding", err)
	}

	return model.BoxerClaims{
		APIVersion:        apiVersion,
		ValidatorSchemaID: schemaID,
		Principal:         principal,
		SchemaFragment:    string(schemaFragmentBytes),
	}, nil
}

// ParseBearerHeader enforces the strict "Bearer <token>" grammar (P5).
func ParseBearerHeader(header string) (string, error) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", apierrors.New(apierrors.Unauthorized, "invalid authorization header format")
	}
	rest := header[len(prefix):]
	if rest == "" || strings.Contains(rest, " ") {
		return "", apierrors.New(apierrors.Unauthorized, "invalid authorization header format")
	}
	return rest, nil
}
