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

// Package oferrors defines the sentinel errors the service layer
// returns and the API layer translates to HTTP statuses. Services wrap
// them with context via fmt.Errorf and %w; callers match with errors.Is.
package oferrors

import (
	"errors"
	"fmt"
)

var (
	// ErrForbidden: the actor's role or identity does not permit the
	// operation.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidState: the request is not in a state that allows the
	// transition, for example approving an already reviewed request.
	ErrInvalidState = errors.New("invalid request state")

	// ErrInvalidParameters: submitted parameters violate the function's
	// schema, or an input fails validation.
	ErrInvalidParameters = errors.New("invalid parameters")

	// ErrNotFound: the referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserDisabled       = errors.New("user account is disabled")
	ErrUsernameExists     = errors.New("username already exists")
	ErrEmailExists        = errors.New("email already exists")
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidRole        = errors.New("invalid role")

	// ErrReasonRequired is a parameter fault: rejecting without a
	// reason, matched by errors.Is against either sentinel.
	ErrReasonRequired = fmt.Errorf("%w: rejection reason is required", ErrInvalidParameters)
)
