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

package model

// FieldSchema describes one parameter a function accepts.
type FieldSchema struct {
	Name        string `json:"name"`
	Type        string `json:"type"` // string, number, boolean
	Required    bool   `json:"required"`
	Description string `json:"description,omitempty"`
}

// Function is a registered callable internal API operation with a
// minimum-role gate. Deletion is soft (IsActive=false): requests keep
// referencing deleted functions through their own name snapshot.
type Function struct {
	Model
	Name           string            `gorm:"size:255;not null" json:"name"`
	Description    string            `json:"description,omitempty"`
	APIEndpoint    string            `gorm:"column:api_endpoint;not null" json:"api_endpoint"`
	HTTPMethod     string            `gorm:"column:http_method;size:10" json:"http_method"`
	MinRole        Role              `gorm:"type:varchar(20)" json:"min_role"`
	RequiredFields []FieldSchema     `gorm:"serializer:json" json:"required_fields"`
	URLParameters  []string          `gorm:"serializer:json" json:"url_parameters"`
	RequestHeaders map[string]string `gorm:"serializer:json" json:"request_headers"`
	TimeoutSeconds int               `gorm:"default:30" json:"timeout"`
	IsActive       bool              `gorm:"default:true" json:"is_active"`
}

func (Function) TableName() string {
	return "t_function"
}
