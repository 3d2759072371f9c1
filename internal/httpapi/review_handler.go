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
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sneaksanddata/boxer-validator/internal/apierrors"
	"github.com/sneaksanddata/boxer-validator/internal/validation"
)

// ReviewHandler serves GET /api/v1/token/review (§4.9, §6): it reads the
// proxied request's original method/URL from X-Original-Method /
// X-Original-URL and the bearer token from Authorization, runs the
// validation pipeline, and renders the outcome as a bare status code.
type ReviewHandler struct {
	pipeline *validation.Pipeline
}

// NewReviewHandler constructs a ReviewHandler over the validation pipeline.
func NewReviewHandler(pipeline *validation.Pipeline) *ReviewHandler {
	return &ReviewHandler{pipeline: pipeline}
}

// RegisterRoutes wires the review endpoint onto r.
func (h *ReviewHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/api/v1/token/review", h.Review)
}

func (h *ReviewHandler) Review(c *gin.Context) {
	method := c.GetHeader("X-Original-Method")
	originalURL := c.GetHeader("X-Original-URL")
	if method == "" || originalURL == "" {
		respondError(c, apierrors.New(apierrors.BadRequest, "missing original request headers"))
		return
	}

	outcome, err := h.pipeline.Review(c.Request.Context(), method, originalURL, c.GetHeader("Authorization"))
	if err != nil {
		if apierrors.KindOf(err) == apierrors.Internal {
			respondError(c, err)
			return
		}
		c.Status(http.StatusUnauthorized)
		return
	}

	if outcome == validation.Allow {
		c.Status(http.StatusOK)
		return
	}
	c.Status(http.StatusUnauthorized)
}
