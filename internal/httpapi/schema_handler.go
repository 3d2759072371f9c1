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

// Package httpapi implements the control-plane surface of §4.10: CRUD over
// the four record kinds plus the /api/v1/token/review validation route,
// built on gin the way the teacher's own internal/handler package is.
package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	v1 "github.com/sneaksanddata/boxer-validator/api/v1"
	"github.com/sneaksanddata/boxer-validator/internal/apierrors"
	"github.com/sneaksanddata/boxer-validator/internal/model"
	"github.com/sneaksanddata/boxer-validator/internal/schemaprovider"
	"github.com/sneaksanddata/boxer-validator/internal/store"
)

// SchemaHandler serves POST/GET/DELETE /api/v1/schema/:id (§4.10).
type SchemaHandler struct {
	store    *store.RecordStore[*v1.Schema]
	registry schemaprovider.Writer
}

// NewSchemaHandler constructs a SchemaHandler over the Schema record store.
// registry is the in-memory schema registry schemaprovider reads from;
// upserts/deletes apply to it immediately, the same way the action/
// resource/policy handlers give their own indexes same-request visibility
// instead of waiting on the reflector to round-trip the change.
func NewSchemaHandler(s *store.RecordStore[*v1.Schema], registry schemaprovider.Writer) *SchemaHandler {
	return &SchemaHandler{store: s, registry: registry}
}

// RegisterRoutes wires the schema endpoints onto r.
func (h *SchemaHandler) RegisterRoutes(r *gin.Engine) {
	r.POST("/api/v1/schema/:id", h.Upsert)
	r.GET("/api/v1/schema/:id", h.Get)
	r.DELETE("/api/v1/schema/:id", h.Delete)
}

func (h *SchemaHandler) Upsert(c *gin.Context) {
	var reg model.SchemaRegistration
	if err := c.ShouldBindJSON(&reg); err != nil {
		respondError(c, apierrors.Wrap(apierrors.BadRequest, "malformed schema fragment body", err))
		return
	}
	if !json.Valid([]byte(reg.Fragment)) {
		respondError(c, apierrors.New(apierrors.BadRequest, "schema fragment is not valid JSON"))
		return
	}

	id := c.Param("id")
	rec := reg.ToSchema(id)
	key := store.Key{Name: id}
	if err := h.store.Upsert(c.Request.Context(), key, store.SchemaToObject(rec)); err != nil {
		respondError(c, err)
		return
	}
	h.registry.Apply(rec)
	c.Status(http.StatusOK)
}

func (h *SchemaHandler) Get(c *gin.Context) {
	id := c.Param("id")
	obj, err := h.store.Get(c.Request.Context(), store.Key{Name: id})
	if err != nil {
		respondError(c, err)
		return
	}
	rec := store.ObjectToSchema(id, obj)
	c.JSON(http.StatusOK, model.SchemaRegistration{Fragment: rec.Fragment})
}

func (h *SchemaHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.store.Delete(c.Request.Context(), store.Key{Name: id}); err != nil {
		respondError(c, err)
		return
	}
	h.registry.Apply(model.Schema{Name: id, Active: false})
	c.Status(http.StatusOK)
}
