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

package openapi

import (
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/gin-gonic/gin"
)

const uiPage = `<!DOCTYPE html>
<html>
<head>
  <title>boxer-validator API</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist/swagger-ui-bundle.js"></script>
  <script>
    window.onload = () => {
      window.ui = SwaggerUIBundle({
        url: "/swagger/doc.json",
        dom_id: "#swagger-ui",
      });
    };
  </script>
</body>
</html>`

// Handler serves the generated document at /swagger/doc.json and a
// static Swagger-UI page at every other /swagger/* path (§4.10, §4.13).
type Handler struct {
	doc *openapi3.T
}

// NewHandler constructs a Handler over a pre-built OpenAPI document.
func NewHandler(doc *openapi3.T) *Handler {
	return &Handler{doc: doc}
}

// RegisterRoutes wires the swagger endpoints onto r.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/swagger/*any", func(c *gin.Context) {
		if c.Param("any") == "/doc.json" {
			c.JSON(http.StatusOK, h.doc)
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(uiPage))
	})
}
