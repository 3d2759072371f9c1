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

	v1 "github.com/sneaksanddata/boxer-validator/api/v1"
	"github.com/sneaksanddata/boxer-validator/internal/apierrors"
	"github.com/sneaksanddata/boxer-validator/internal/model"
	"github.com/sneaksanddata/boxer-validator/internal/policyindex"
	"github.com/sneaksanddata/boxer-validator/internal/store"
)

// PolicySetHandler serves POST/GET/DELETE /api/v1/policy_set/:schema/:id
// (§4.10).
type PolicySetHandler struct {
	store    *store.RecordStore[*v1.PolicySet]
	policies *policyindex.PolicyIndex
}

// NewPolicySetHandler constructs a PolicySetHandler.
func NewPolicySetHandler(s *store.RecordStore[*v1.PolicySet], policies *policyindex.PolicyIndex) *PolicySetHandler {
	return &PolicySetHandler{store: s, policies: policies}
}

// RegisterRoutes wires the policy_set endpoints onto r.
func (h *PolicySetHandler) RegisterRoutes(r *gin.Engine) {
	r.POST("/api/v1/policy_set/:schema/:id", h.Upsert)
	r.GET("/api/v1/policy_set/:schema/:id", h.Get)
	r.DELETE("/api/v1/policy_set/:schema/:id", h.Delete)
}

func (h *PolicySetHandler) Upsert(c *gin.Context) {
	var reg model.PolicySetRegistration
	if err := c.ShouldBindJSON(&reg); err != nil {
		respondError(c, apierrors.Wrap(apierrors.BadRequest, "malformed policy set body", err))
		return
	}

	schema, id := c.Param("schema"), c.Param("id")
	rec := reg.ToPolicyRecord(schema, id)
	key := store.Key{Schema: schema, Name: id}
	if err := h.store.Upsert(c.Request.Context(), key, store.PolicyRecordToObject(rec)); err != nil {
		respondError(c, err)
		return
	}
	h.policies.Apply(rec)
	c.Status(http.StatusOK)
}

func (h *PolicySetHandler) Get(c *gin.Context) {
	schema, id := c.Param("schema"), c.Param("id")
	obj, err := h.store.Get(c.Request.Context(), store.Key{Schema: schema, Name: id})
	if err != nil {
		respondError(c, err)
		return
	}
	rec := store.ObjectToPolicyRecord(id, obj)
	c.JSON(http.StatusOK, model.PolicySetRegistration{Text: rec.Text})
}

func (h *PolicySetHandler) Delete(c *gin.Context) {
	schema, id := c.Param("schema"), c.Param("id")
	key := store.Key{Schema: schema, Name: id}
	if err := h.store.Delete(c.Request.Context(), key); err != nil {
		respondError(c, err)
		return
	}
	h.policies.Apply(model.PolicyRecord{Schema: schema, Name: id, Active: false})
	c.Status(http.StatusOK)
}
