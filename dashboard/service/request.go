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

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"

	"opsflow/dashboard/dto"
	"opsflow/dashboard/model"
	"opsflow/dashboard/policy"
	"opsflow/dashboard/repository"
	"opsflow/pkg/log"
	"opsflow/pkg/metrics"
	"opsflow/pkg/oferrors"
	"opsflow/pkg/utils"
)

// RequestService is the workflow engine owning every request state
// transition. Review transitions are conditional updates on
// status=pending, so two racing reviewers can never both win: the
// loser observes ErrInvalidState.
type RequestService interface {
	Create(ctx context.Context, userID string, userRole model.Role, functionID string, parameters map[string]any) (*model.Request, error)
	Approve(ctx context.Context, requestID, reviewerID string, reviewerRole model.Role) (*model.Request, error)
	Reject(ctx context.Context, requestID, reviewerID string, reviewerRole model.Role, reason string) (*model.Request, error)
	Cancel(ctx context.Context, requestID, actorID string, actorRole model.Role) error

	// Complete and Fail are system transitions recorded after the
	// approved call has run; they are not exposed to end users.
	Complete(ctx context.Context, requestID string, result map[string]any, durationMs int64) (*model.Request, error)
	Fail(ctx context.Context, requestID, errorMessage string) (*model.Request, error)

	Get(ctx context.Context, requestID, actorID string, actorRole model.Role) (*model.Request, error)
	List(ctx context.Context, actorID string, actorRole model.Role, params *dto.RequestParams) ([]*model.Request, error)
}

var _ RequestService = (*requestServiceImpl)(nil)

type requestServiceImpl struct {
	requestRepo  repository.RequestRepository
	userRepo     repository.UserRepository
	functionRepo repository.FunctionRepository
	logger       *log.Logger
}

func NewRequestService(db *gorm.DB) RequestService {
	return &requestServiceImpl{
		requestRepo:  repository.NewRequestRepository(db),
		userRepo:     repository.NewUserRepository(db),
		functionRepo: repository.NewFunctionRepository(db),
		logger:       log.GetLogger("request-service"),
	}
}

// Create opens a pending request after checking the function gate and
// the parameter schema. The user and function display names are
// stamped onto the row here, never joined at read time.
func (s *requestServiceImpl) Create(ctx context.Context, userID string, userRole model.Role, functionID string, parameters map[string]any) (*model.Request, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, oferrors.ErrForbidden
	}

	fn, err := s.functionRepo.GetByID(ctx, functionID)
	if err != nil {
		return nil, err
	}
	if !fn.IsActive {
		return nil, fmt.Errorf("%w: function %s is not active", oferrors.ErrInvalidParameters, fn.Name)
	}

	if !policy.CanExecute(userRole, fn.MinRole) {
		return nil, oferrors.ErrForbidden
	}

	if err := validateParameters(fn, parameters); err != nil {
		return nil, err
	}

	if parameters == nil {
		parameters = map[string]any{}
	}

	req := &model.Request{
		UserID:              user.ID,
		UserUsername:        user.Username,
		UserEmail:           user.Email,
		FunctionID:          fn.ID,
		FunctionName:        fn.Name,
		FunctionDescription: fn.Description,
		Parameters:          parameters,
		Status:              model.StatusPending,
	}
	if err := s.requestRepo.Create(ctx, req); err != nil {
		return nil, err
	}

	metrics.WorkflowTransitionsTotal.WithLabelValues(string(model.StatusPending)).Inc()
	s.logger.Infof("request %s created: %s -> %s", req.ID, user.Username, fn.Name)
	return req, nil
}

// validateParameters checks the submitted keys against the function's
// schema: no unknown keys, no missing required fields.
func validateParameters(fn *model.Function, parameters map[string]any) error {
	known := make(map[string]bool, len(fn.RequiredFields))
	for _, field := range fn.RequiredFields {
		known[field.Name] = true
	}

	for key := range parameters {
		if !known[key] {
			return fmt.Errorf("%w: unknown field %q", oferrors.ErrInvalidParameters, key)
		}
	}
	for _, field := range fn.RequiredFields {
		if !field.Required {
			continue
		}
		if _, ok := parameters[field.Name]; !ok {
			return fmt.Errorf("%w: missing required field %q", oferrors.ErrInvalidParameters, field.Name)
		}
	}
	return nil
}

// Approve moves a pending request to approved and stamps the reviewer.
func (s *requestServiceImpl) Approve(ctx context.Context, requestID, reviewerID string, reviewerRole model.Role) (*model.Request, error) {
	return s.review(ctx, requestID, reviewerID, reviewerRole, model.StatusApproved, "")
}

// Reject moves a pending request to rejected; the reason is mandatory.
func (s *requestServiceImpl) Reject(ctx context.Context, requestID, reviewerID string, reviewerRole model.Role, reason string) (*model.Request, error) {
	if reason == "" {
		return nil, oferrors.ErrReasonRequired
	}
	return s.review(ctx, requestID, reviewerID, reviewerRole, model.StatusRejected, reason)
}

func (s *requestServiceImpl) review(ctx context.Context, requestID, reviewerID string, reviewerRole model.Role, to model.Status, reason string) (*model.Request, error) {
	if !policy.CanReviewRequest(reviewerRole) {
		return nil, oferrors.ErrForbidden
	}

	req, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.Status != model.StatusPending {
		return nil, oferrors.ErrInvalidState
	}

	reviewer, err := s.userRepo.GetByID(ctx, reviewerID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	values := map[string]any{
		"status":            to,
		"reviewed_by":       reviewer.ID,
		"reviewer_username": reviewer.Username,
		"reviewed_at":       now,
		"updated_at":        now,
	}
	if to == model.StatusRejected {
		values["rejection_reason"] = reason
	}

	won, err := s.requestRepo.Transition(ctx, requestID, model.StatusPending, values)
	if err != nil {
		return nil, err
	}
	if !won {
		// a concurrent reviewer or the owner got there first
		return nil, oferrors.ErrInvalidState
	}

	metrics.WorkflowTransitionsTotal.WithLabelValues(string(to)).Inc()
	s.logger.Infof("request %s %s by %s", requestID, to, reviewer.Username)
	return s.requestRepo.GetByID(ctx, requestID)
}

// Cancel removes a pending request. Cancellation is a deletion, not a
// fifth workflow status.
func (s *requestServiceImpl) Cancel(ctx context.Context, requestID, actorID string, actorRole model.Role) error {
	req, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return err
	}

	if actorID != req.UserID && actorRole != model.RoleAdmin {
		return oferrors.ErrForbidden
	}
	if !policy.CanCancelRequest(actorRole, actorID, req) {
		// the actor was entitled, so the only remaining failure is state
		return oferrors.ErrInvalidState
	}

	won, err := s.requestRepo.DeletePending(ctx, requestID)
	if err != nil {
		return err
	}
	if !won {
		return oferrors.ErrInvalidState
	}

	s.logger.Infof("request %s cancelled by %s", requestID, actorID)
	return nil
}

// Complete records the execution result of an approved request.
func (s *requestServiceImpl) Complete(ctx context.Context, requestID string, result map[string]any, durationMs int64) (*model.Request, error) {
	// map-form updates bypass the column serializer, so the result is
	// marshalled here; the read path decodes it like any other row
	payload, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("%w: unserializable execution result", oferrors.ErrInvalidParameters)
	}
	return s.finish(ctx, requestID, map[string]any{
		"status":            model.StatusCompleted,
		"execution_result":  string(payload),
		"execution_time_ms": durationMs,
		"updated_at":        time.Now(),
	}, model.StatusCompleted)
}

// Fail records an execution error of an approved request.
func (s *requestServiceImpl) Fail(ctx context.Context, requestID, errorMessage string) (*model.Request, error) {
	return s.finish(ctx, requestID, map[string]any{
		"status":        model.StatusFailed,
		"error_message": errorMessage,
		"updated_at":    time.Now(),
	}, model.StatusFailed)
}

// finish transitions approved -> terminal exactly once; a second call
// observes ErrInvalidState instead of overwriting the first outcome.
func (s *requestServiceImpl) finish(ctx context.Context, requestID string, values map[string]any, to model.Status) (*model.Request, error) {
	if _, err := s.requestRepo.GetByID(ctx, requestID); err != nil {
		return nil, err
	}

	won, err := s.requestRepo.Transition(ctx, requestID, model.StatusApproved, values)
	if err != nil {
		return nil, err
	}
	if !won {
		return nil, oferrors.ErrInvalidState
	}

	metrics.WorkflowTransitionsTotal.WithLabelValues(string(to)).Inc()
	return s.requestRepo.GetByID(ctx, requestID)
}

// Get returns one request subject to the view policy.
func (s *requestServiceImpl) Get(ctx context.Context, requestID, actorID string, actorRole model.Role) (*model.Request, error) {
	req, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !policy.CanViewRequest(actorRole, actorID, req) {
		return nil, oferrors.ErrForbidden
	}
	return req, nil
}

// List returns requests newest first. Members are scoped to their own.
func (s *requestServiceImpl) List(ctx context.Context, actorID string, actorRole model.Role, params *dto.RequestParams) ([]*model.Request, error) {
	params.Page, params.PageSize, _ = utils.NormalizePage(params.Page, params.PageSize)

	scopeUserID := ""
	if !policy.CanListAllRequests(actorRole) {
		scopeUserID = actorID
	}
	return s.requestRepo.List(ctx, params, scopeUserID)
}
