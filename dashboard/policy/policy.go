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

// Package policy holds the pure authorization rules. Every function is
// side-effect free and returns a bare boolean: translating a deny into
// an error is the caller's job.
package policy

import "opsflow/dashboard/model"

// CanExecute reports whether a user role clears a function's
// minimum-role gate.
func CanExecute(userRole, minRole model.Role) bool {
	return userRole.Level() <= minRole.Level()
}

// CanModifyUser reports whether the actor may edit the target account.
// Admins edit anyone, leaders edit members, everyone edits themselves.
// Self-edit does not include role changes, see CanChangeRole.
func CanModifyUser(actorRole, targetRole model.Role, actorID, targetID string) bool {
	if actorRole == model.RoleAdmin {
		return true
	}
	if actorID == targetID {
		return true
	}
	return actorRole == model.RoleLeader && targetRole == model.RoleMember
}

// CanChangeRole reports whether the actor may assign roles at all.
func CanChangeRole(actorRole model.Role) bool {
	return actorRole == model.RoleAdmin
}

// CanReviewRequest reports whether the actor may approve or reject.
func CanReviewRequest(actorRole model.Role) bool {
	return actorRole == model.RoleAdmin || actorRole == model.RoleLeader
}

// CanCancelRequest reports whether the actor may cancel the request.
// Only the owner or an admin may, and only while it is still pending.
func CanCancelRequest(actorRole model.Role, actorID string, req *model.Request) bool {
	if req.Status != model.StatusPending {
		return false
	}
	return actorID == req.UserID || actorRole == model.RoleAdmin
}

// CanViewRequest reports whether the actor may read the request.
// Members see their own, leaders and admins see everything.
func CanViewRequest(actorRole model.Role, actorID string, req *model.Request) bool {
	if actorRole == model.RoleAdmin || actorRole == model.RoleLeader {
		return true
	}
	return actorID == req.UserID
}

// CanListAllRequests reports whether the actor's listings are
// unrestricted rather than scoped to their own requests.
func CanListAllRequests(actorRole model.Role) bool {
	return actorRole == model.RoleAdmin || actorRole == model.RoleLeader
}

// CanManageUsers reports whether the actor may list or create accounts.
func CanManageUsers(actorRole model.Role) bool {
	return actorRole == model.RoleAdmin
}

// CanManageFunctions reports whether the actor may create, edit or
// delete registry entries.
func CanManageFunctions(actorRole model.Role) bool {
	return actorRole == model.RoleAdmin
}
