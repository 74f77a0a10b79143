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
	"fmt"

	"gorm.io/gorm"

	"opsflow/dashboard/dto"
	"opsflow/dashboard/model"
	"opsflow/dashboard/policy"
	"opsflow/dashboard/repository"
	"opsflow/dashboard/vo"
	"opsflow/pkg/log"
	"opsflow/pkg/oferrors"
	"opsflow/pkg/utils"
)

var validHTTPMethods = map[string]bool{
	"GET": true, "POST": true, "PUT": true, "PATCH": true, "DELETE": true,
}

// FunctionService is the function registry. Mutations are admin-only;
// deletion is soft so historical requests keep a valid reference.
type FunctionService interface {
	Create(ctx context.Context, actorRole model.Role, d *dto.FunctionCreateDto) (*model.Function, error)
	Get(ctx context.Context, id string) (*model.Function, error)
	List(ctx context.Context, callerRole model.Role, params *dto.FunctionParams) ([]*vo.FunctionVo, error)
	ListExecutable(ctx context.Context, callerRole model.Role, limit int) ([]*model.Function, error)
	Update(ctx context.Context, actorRole model.Role, id string, d *dto.FunctionUpdateDto) (*model.Function, error)
	Delete(ctx context.Context, actorRole model.Role, id string) error
}

var _ FunctionService = (*functionServiceImpl)(nil)

type functionServiceImpl struct {
	functionRepo repository.FunctionRepository
	logger       *log.Logger
}

func NewFunctionService(db *gorm.DB) FunctionService {
	return &functionServiceImpl{
		functionRepo: repository.NewFunctionRepository(db),
		logger:       log.GetLogger("function-service"),
	}
}

func (s *functionServiceImpl) Create(ctx context.Context, actorRole model.Role, d *dto.FunctionCreateDto) (*model.Function, error) {
	if !policy.CanManageFunctions(actorRole) {
		return nil, oferrors.ErrForbidden
	}

	method := d.HTTPMethod
	if method == "" {
		method = "POST"
	}
	if !validHTTPMethods[method] {
		return nil, fmt.Errorf("%w: invalid http method %q", oferrors.ErrInvalidParameters, d.HTTPMethod)
	}

	minRole := model.Role(d.MinRole)
	if d.MinRole == "" {
		minRole = model.RoleMember
	}
	if !minRole.Valid() {
		return nil, oferrors.ErrInvalidRole
	}

	timeout := d.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}

	fn := &model.Function{
		Name:           d.Name,
		Description:    d.Description,
		APIEndpoint:    d.APIEndpoint,
		HTTPMethod:     method,
		MinRole:        minRole,
		RequiredFields: d.RequiredFields,
		URLParameters:  d.URLParameters,
		RequestHeaders: d.RequestHeaders,
		TimeoutSeconds: timeout,
		IsActive:       true,
	}
	if err := s.functionRepo.Create(ctx, fn); err != nil {
		return nil, err
	}

	s.logger.Infof("function %s registered (min role %s)", fn.Name, fn.MinRole)
	return fn, nil
}

func (s *functionServiceImpl) Get(ctx context.Context, id string) (*model.Function, error) {
	return s.functionRepo.GetByID(ctx, id)
}

// List returns active functions decorated with the caller's execute
// permission.
func (s *functionServiceImpl) List(ctx context.Context, callerRole model.Role, params *dto.FunctionParams) ([]*vo.FunctionVo, error) {
	params.Page, params.PageSize, _ = utils.NormalizePage(params.Page, params.PageSize)
	functions, err := s.functionRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	vos := make([]*vo.FunctionVo, 0, len(functions))
	for _, fn := range functions {
		vos = append(vos, vo.NewFunctionVo(fn, callerRole))
	}
	return vos, nil
}

// ListExecutable returns only the functions the caller's role clears.
func (s *functionServiceImpl) ListExecutable(ctx context.Context, callerRole model.Role, limit int) ([]*model.Function, error) {
	var roles []model.Role
	for _, r := range []model.Role{model.RoleAdmin, model.RoleLeader, model.RoleMember} {
		if policy.CanExecute(callerRole, r) {
			roles = append(roles, r)
		}
	}
	if len(roles) == 0 {
		return []*model.Function{}, nil
	}
	return s.functionRepo.ListForRoles(ctx, roles, limit)
}

func (s *functionServiceImpl) Update(ctx context.Context, actorRole model.Role, id string, d *dto.FunctionUpdateDto) (*model.Function, error) {
	if !policy.CanManageFunctions(actorRole) {
		return nil, oferrors.ErrForbidden
	}

	if _, err := s.functionRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	values := map[string]any{}
	if d.Name != nil {
		values["name"] = *d.Name
	}
	if d.Description != nil {
		values["description"] = *d.Description
	}
	if d.APIEndpoint != nil {
		values["api_endpoint"] = *d.APIEndpoint
	}
	if d.HTTPMethod != nil {
		if !validHTTPMethods[*d.HTTPMethod] {
			return nil, fmt.Errorf("%w: invalid http method %q", oferrors.ErrInvalidParameters, *d.HTTPMethod)
		}
		values["http_method"] = *d.HTTPMethod
	}
	if d.MinRole != nil {
		if !model.Role(*d.MinRole).Valid() {
			return nil, oferrors.ErrInvalidRole
		}
		values["min_role"] = *d.MinRole
	}
	if d.TimeoutSeconds != nil {
		values["timeout_seconds"] = *d.TimeoutSeconds
	}
	if d.IsActive != nil {
		values["is_active"] = *d.IsActive
	}
	if len(values) > 0 {
		if err := s.functionRepo.Updates(ctx, id, values); err != nil {
			return nil, err
		}
	}

	// schema-shaped columns go through the serializer, not the map
	if d.RequiredFields != nil || d.URLParameters != nil || d.RequestHeaders != nil {
		fn, err := s.functionRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if d.RequiredFields != nil {
			fn.RequiredFields = *d.RequiredFields
		}
		if d.URLParameters != nil {
			fn.URLParameters = *d.URLParameters
		}
		if d.RequestHeaders != nil {
			fn.RequestHeaders = *d.RequestHeaders
		}
		if err := s.functionRepo.Save(ctx, fn); err != nil {
			return nil, err
		}
	}

	return s.functionRepo.GetByID(ctx, id)
}

// Delete soft-deletes: the row survives so request snapshots keep a
// resolvable function id.
func (s *functionServiceImpl) Delete(ctx context.Context, actorRole model.Role, id string) error {
	if !policy.CanManageFunctions(actorRole) {
		return oferrors.ErrForbidden
	}
	if _, err := s.functionRepo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.functionRepo.SoftDelete(ctx, id)
}
