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

import "time"

// Status is the request workflow state.
// pending -> approved | rejected; approved -> completed | failed.
// Cancellation removes the row instead of adding a fifth status.
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Request records one user asking to invoke a function. User and
// function display names are stamped at create/review time: a later
// rename or delete of either never alters what a request shows.
type Request struct {
	Model
	UserID       string `gorm:"index;not null" json:"user_id"`
	UserUsername string `json:"user_username"`
	UserEmail    string `json:"user_email"`

	FunctionID          string `gorm:"index;not null" json:"function_id"`
	FunctionName        string `json:"function_name"`
	FunctionDescription string `json:"function_description,omitempty"`

	Parameters map[string]any `gorm:"serializer:json" json:"parameters"`
	Status     Status         `gorm:"type:varchar(20);index" json:"status"`

	ReviewedBy       *string    `json:"reviewed_by,omitempty"`
	ReviewerUsername string     `json:"reviewer_username,omitempty"`
	ReviewedAt       *time.Time `json:"reviewed_at,omitempty"`
	RejectionReason  string     `json:"rejection_reason,omitempty"`

	ExecutionResult map[string]any `gorm:"serializer:json" json:"execution_result,omitempty"`
	ExecutionTimeMs *int64         `gorm:"column:execution_time_ms" json:"execution_time_ms,omitempty"`
	ErrorMessage    string         `json:"error_message,omitempty"`
}

func (Request) TableName() string {
	return "t_request"
}
