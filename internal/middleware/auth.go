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

// Package middleware gates the control-plane surface behind the internal
// bearer token (§4.7, §6): every route except /healthz, /readyz, and
// /swagger/* must carry a valid Authorization header.
package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/sneaksanddata/boxer-validator/internal/apierrors"
	"github.com/sneaksanddata/boxer-validator/internal/token"
)

const claimsContextKey = "boxer.sneaksanddata.com/claims"

// AuthConfig configures the bearer middleware.
type AuthConfig struct {
	Authenticator *token.Authenticator

	// DebugBypassPath, when IssuerDebug is true, is the single path the
	// middleware lets through unauthenticated (§6: BOXER_ISSUER_DEBUG
	// disables the bearer check on the validation route only).
	DebugBypassPath string
	IssuerDebug     bool
}

// AuthMiddleware validates the Authorization header via cfg.Authenticator
// and stores the decoded claims in the gin context under claimsContextKey.
// The token-review handler does not read them; it validates the raw
// Authorization header again through the validation pipeline.
func AuthMiddleware(cfg AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.IssuerDebug && c.Request.URL.Path == cfg.DebugBypassPath {
			c.Next()
			return
		}

		raw, err := token.ParseBearerHeader(c.GetHeader("Authorization"))
		if err != nil {
			respondUnauthorized(c, err)
			return
		}

		claims, err := cfg.Authenticator.Validate(raw)
		if err != nil {
			respondUnauthorized(c, err)
			return
		}

		c.Set(claimsContextKey, claims)
		c.Next()
	}
}

func respondUnauthorized(c *gin.Context, err error) {
	status, body := apierrors.ResponseFor(err)
	c.AbortWithStatusJSON(status, body)
}
