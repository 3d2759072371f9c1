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
	"github.com/sneaksanddata/boxer-validator/internal/index"
	"github.com/sneaksanddata/boxer-validator/internal/model"
	"github.com/sneaksanddata/boxer-validator/internal/store"
)

// ActionSetHandler serves POST/GET/DELETE /api/v1/action_set/:schema/:id
// (§4.10). Upserts and deletes also apply directly to the action index,
// the same reflector-observed path a stored update would take - so a
// registration is visible to the validation pipeline without waiting on a
// watch round trip.
type ActionSetHandler struct {
	store   *store.RecordStore[*v1.ActionSet]
	actions *index.SchemaIndex
}

// NewActionSetHandler constructs an ActionSetHandler.
func NewActionSetHandler(s *store.RecordStore[*v1.ActionSet], actions *index.SchemaIndex) *ActionSetHandler {
	return &ActionSetHandler{store: s, actions: actions}
}

// RegisterRoutes wires the action_set endpoints onto r.
func (h *ActionSetHandler) RegisterRoutes(r *gin.Engine) {
	r.POST("/api/v1/action_set/:schema/:id", h.Upsert)
	r.GET("/api/v1/action_set/:schema/:id", h.Get)
	r.DELETE("/api/v1/action_set/:schema/:id", h.Delete)
}

func (h *ActionSetHandler) Upsert(c *gin.Context) {
	var reg model.ActionSetRegistration
	if err := c.ShouldBindJSON(&reg); err != nil {
		respondError(c, apierrors.Wrap(apierrors.BadRequest, "malformed action set body", err))
		return
	}

	schema, id := c.Param("schema"), c.Param("id")
	rec := reg.ToActionSet(schema, id)
	key := store.Key{Schema: schema, Name: id}
	if err := h.store.Upsert(c.Request.Context(), key, store.ActionSetToObject(rec)); err != nil {
		respondError(c, err)
		return
	}
	h.actions.Apply(index.ActionSetUpdate(rec))
	c.Status(http.StatusOK)
}

func (h *ActionSetHandler) Get(c *gin.Context) {
	schema, id := c.Param("schema"), c.Param("id")
	obj, err := h.store.Get(c.Request.Context(), store.Key{Schema: schema, Name: id})
	if err != nil {
		respondError(c, err)
		return
	}
	rec, err := store.ObjectToActionSet(id, obj)
	if err != nil {
		respondError(c, apierrors.Wrap(apierrors.Internal, "stored action set is corrupt", err))
		return
	}
	c.JSON(http.StatusOK, model.ActionSetRegistration{Hostname: rec.Hostname, Routes: rec.Routes})
}

func (h *ActionSetHandler) Delete(c *gin.Context) {
	schema, id := c.Param("schema"), c.Param("id")
	key := store.Key{Schema: schema, Name: id}
	if err := h.store.Delete(c.Request.Context(), key); err != nil {
		respondError(c, err)
		return
	}
	h.actions.Apply(index.RecordUpdate{Schema: schema, Name: id, Active: false})
	c.Status(http.StatusOK)
}
