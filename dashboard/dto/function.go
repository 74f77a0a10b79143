// Copyright 2025 The Opsflow Authors, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package dto

import "opsflow/dashboard/model"

// FunctionCreateDto registers a new callable function (admin only).
type FunctionCreateDto struct {
	Name           string              `json:"name" binding:"required"`
	Description    string              `json:"description"`
	APIEndpoint    string              `json:"api_endpoint" binding:"required"`
	HTTPMethod     string              `json:"http_method"`
	MinRole        string              `json:"min_role"`
	RequiredFields []model.FieldSchema `json:"required_fields"`
	URLParameters  []string            `json:"url_parameters"`
	RequestHeaders map[string]string   `json:"request_headers"`
	TimeoutSeconds int                 `json:"timeout"`
}

// FunctionUpdateDto carries a partial registry update.
type FunctionUpdateDto struct {
	Name           *string              `json:"name"`
	Description    *string              `json:"description"`
	APIEndpoint    *string              `json:"api_endpoint"`
	HTTPMethod     *string              `json:"http_method"`
	MinRole        *string              `json:"min_role"`
	RequiredFields *[]model.FieldSchema `json:"required_fields"`
	URLParameters  *[]string            `json:"url_parameters"`
	RequestHeaders *map[string]string   `json:"request_headers"`
	TimeoutSeconds *int                 `json:"timeout"`
	IsActive       *bool                `json:"is_active"`
}

// FunctionParams filters the function listing.
type FunctionParams struct {
	PageRequest
	MinRole string `form:"role" json:"role"`
	Method  string `form:"method" json:"method"`
}

// ExecuteDto is the parameter map posted to /functions/:id/execute.
type ExecuteDto struct {
	Parameters map[string]any `json:"parameters"`
}
