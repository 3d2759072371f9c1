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

// Package server builds the gin.Engine the control plane and the
// validation pipeline are served over (§4.10): route registration, the
// bearer middleware, and the plain-HTTP listener. TLS termination is the
// edge proxy's job (§1 non-goals), so unlike the teacher's own
// StartPlatformAPIServer this does not generate or load a certificate.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sneaksanddata/boxer-validator/internal/httpapi"
	"github.com/sneaksanddata/boxer-validator/internal/middleware"
	"github.com/sneaksanddata/boxer-validator/internal/openapi"
)

// Handlers bundles every route-registering component the server wires
// onto the router. Fields are optional only in tests that exercise a
// subset of routes; Build wires whichever are non-nil.
type Handlers struct {
	Schema      *httpapi.SchemaHandler
	ActionSet   *httpapi.ActionSetHandler
	ResourceSet *httpapi.ResourceSetHandler
	PolicySet   *httpapi.PolicySetHandler
	Review      *httpapi.ReviewHandler
	OpenAPI     *openapi.Handler
	Auth        middleware.AuthConfig
	ReadyFunc   func(c *gin.Context)
}

// Build constructs the gin.Engine for the service: bearer middleware over
// every route except /healthz, /readyz, and /swagger/*, followed by the
// control-plane and review routes (§4.10, §6).
func Build(h Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/readyz", func(c *gin.Context) {
		if h.ReadyFunc != nil {
			h.ReadyFunc(c)
			return
		}
		c.Status(http.StatusOK)
	})

	router.Use(skippingAuth(middleware.AuthMiddleware(h.Auth)))

	if h.Schema != nil {
		h.Schema.RegisterRoutes(router)
	}
	if h.ActionSet != nil {
		h.ActionSet.RegisterRoutes(router)
	}
	if h.ResourceSet != nil {
		h.ResourceSet.RegisterRoutes(router)
	}
	if h.PolicySet != nil {
		h.PolicySet.RegisterRoutes(router)
	}
	if h.Review != nil {
		h.Review.RegisterRoutes(router)
	}
	if h.OpenAPI != nil {
		h.OpenAPI.RegisterRoutes(router)
	}

	return router
}

// skippingAuth wraps the bearer middleware so /healthz, /readyz, and
// /swagger/* never require a token - those three are the only public
// routes the control plane exposes (§4.10).
func skippingAuth(auth gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.URL.Path {
		case "/healthz", "/readyz":
			c.Next()
			return
		}
		if len(c.Request.URL.Path) >= len("/swagger/") && c.Request.URL.Path[:len("/swagger/")] == "/swagger/" {
			c.Next()
			return
		}
		auth(c)
	}
}

// Listen starts the plain-HTTP listener on addr. The edge proxy in front
// of this service terminates TLS (§1).
func Listen(router *gin.Engine, addr string) error {
	return router.Run(addr)
}
