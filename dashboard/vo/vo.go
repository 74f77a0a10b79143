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

// Package vo holds the outward-facing view objects the API returns
// where the persisted entity shape is not enough on its own.
package vo

import "opsflow/dashboard/model"

// LoginVo is the payload returned on a successful login.
type LoginVo struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	User        *model.User `json:"user"`
}

// TokenValidationVo answers /auth/validate.
type TokenValidationVo struct {
	Valid bool        `json:"valid"`
	User  *model.User `json:"user,omitempty"`
}

// FunctionVo decorates a registry entry with whether the calling user
// clears its minimum-role gate.
type FunctionVo struct {
	model.Function
	CanExecute bool `json:"can_execute"`
}

// NewFunctionVo builds the view for one caller role.
func NewFunctionVo(fn *model.Function, callerRole model.Role) *FunctionVo {
	return &FunctionVo{
		Function:   *fn,
		CanExecute: callerRole.Level() <= fn.MinRole.Level(),
	}
}

// StatsVo is the dashboard counters block.
type StatsVo struct {
	TotalFunctions         int64 `json:"total_functions"`
	TotalUsers             int64 `json:"total_users"`
	PendingRequests        int64 `json:"pending_requests"`
	CompletedRequestsToday int64 `json:"completed_requests_today"`
	MyPendingRequests      int64 `json:"my_pending_requests"`
}

// ActivityVo is the recent-activity block: the latest registry entries
// and the latest requests with their denormalized display names.
type ActivityVo struct {
	RecentFunctions []*model.Function `json:"recent_functions"`
	RecentRequests  []*model.Request  `json:"recent_requests"`
}
