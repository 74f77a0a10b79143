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

import "time"

// RequestCreateDto asks the workflow engine to open a request.
type RequestCreateDto struct {
	FunctionID string         `json:"function_id" binding:"required"`
	Parameters map[string]any `json:"parameters"`
}

// RejectDto carries the mandatory rejection reason.
type RejectDto struct {
	Reason string `json:"reason"`
}

// RequestParams filters the request listing. Search matches the
// denormalized user/function names and the rejection reason.
type RequestParams struct {
	PageRequest
	Status   string     `form:"status" json:"status"`
	DateFrom *time.Time `form:"date_from" json:"date_from" time_format:"2006-01-02"`
	DateTo   *time.Time `form:"date_to" json:"date_to" time_format:"2006-01-02"`
}
