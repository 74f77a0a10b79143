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
	"errors"

	"gorm.io/gorm"

	"opsflow/dashboard/dto"
	"opsflow/dashboard/model"
	"opsflow/dashboard/policy"
	"opsflow/dashboard/repository"
	"opsflow/pkg/log"
	"opsflow/pkg/oferrors"
	"opsflow/pkg/utils"
)

// UserService is the identity registry. Every operation takes the
// acting identity explicitly; there is no ambient current user.
type UserService interface {
	Create(ctx context.Context, actorRole model.Role, d *dto.UserCreateDto) (*model.User, error)
	Get(ctx context.Context, actorID string, actorRole model.Role, id string) (*model.User, error)
	List(ctx context.Context, actorRole model.Role, params *dto.UserParams) ([]*model.User, error)
	Update(ctx context.Context, actorID string, actorRole model.Role, targetID string, d *dto.UserUpdateDto) (*model.User, error)
	Delete(ctx context.Context, actorRole model.Role, id string) error
}

var _ UserService = (*userServiceImpl)(nil)

type userServiceImpl struct {
	userRepo repository.UserRepository
	logger   *log.Logger
}

func NewUserService(db *gorm.DB) UserService {
	return &userServiceImpl{
		userRepo: repository.NewUserRepository(db),
		logger:   log.GetLogger("user-service"),
	}
}

// Create registers a new account. Admin only.
func (s *userServiceImpl) Create(ctx context.Context, actorRole model.Role, d *dto.UserCreateDto) (*model.User, error) {
	if !policy.CanManageUsers(actorRole) {
		return nil, oferrors.ErrForbidden
	}

	role := model.Role(d.Role)
	if d.Role == "" {
		role = model.RoleMember
	}
	if !role.Valid() {
		return nil, oferrors.ErrInvalidRole
	}

	if err := s.checkUnique(ctx, d.Username, d.Email, ""); err != nil {
		return nil, err
	}

	hashed, err := utils.EncryptPassword(d.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username: d.Username,
		Email:    d.Email,
		FullName: d.FullName,
		Role:     role,
		Password: hashed,
		IsActive: true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Infof("user %s created with role %s", user.Username, user.Role)
	return user, nil
}

// Get returns one account. Admins read anyone, others only themselves.
func (s *userServiceImpl) Get(ctx context.Context, actorID string, actorRole model.Role, id string) (*model.User, error) {
	if actorRole != model.RoleAdmin && actorID != id {
		return nil, oferrors.ErrForbidden
	}
	return s.userRepo.GetByID(ctx, id)
}

func (s *userServiceImpl) List(ctx context.Context, actorRole model.Role, params *dto.UserParams) ([]*model.User, error) {
	if !policy.CanManageUsers(actorRole) {
		return nil, oferrors.ErrForbidden
	}
	params.Page, params.PageSize, _ = utils.NormalizePage(params.Page, params.PageSize)
	return s.userRepo.List(ctx, params)
}

// Update applies a partial edit subject to the role policy: role
// changes are admin-only, active-flag changes need a higher-role actor.
func (s *userServiceImpl) Update(ctx context.Context, actorID string, actorRole model.Role, targetID string, d *dto.UserUpdateDto) (*model.User, error) {
	target, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	if !policy.CanModifyUser(actorRole, target.Role, actorID, targetID) {
		return nil, oferrors.ErrForbidden
	}

	values := map[string]any{}

	if d.Role != nil {
		if !policy.CanChangeRole(actorRole) {
			return nil, oferrors.ErrForbidden
		}
		if !model.Role(*d.Role).Valid() {
			return nil, oferrors.ErrInvalidRole
		}
		values["role"] = *d.Role
	}

	if d.IsActive != nil {
		higherRole := actorRole == model.RoleAdmin ||
			(actorRole == model.RoleLeader && target.Role == model.RoleMember && actorID != targetID)
		if !higherRole {
			return nil, oferrors.ErrForbidden
		}
		values["is_active"] = *d.IsActive
	}

	if d.Email != nil {
		if err := s.checkUnique(ctx, "", *d.Email, targetID); err != nil {
			return nil, err
		}
		values["email"] = *d.Email
	}
	if d.FullName != nil {
		values["full_name"] = *d.FullName
	}
	if d.Password != nil {
		hashed, err := utils.EncryptPassword(*d.Password)
		if err != nil {
			return nil, err
		}
		values["password_hash"] = hashed
	}

	if len(values) > 0 {
		if err := s.userRepo.Updates(ctx, targetID, values); err != nil {
			return nil, err
		}
	}

	return s.userRepo.GetByID(ctx, targetID)
}

// Delete removes an account. Admin only. Requests referencing the user
// survive through their denormalized snapshots.
func (s *userServiceImpl) Delete(ctx context.Context, actorRole model.Role, id string) error {
	if !policy.CanManageUsers(actorRole) {
		return oferrors.ErrForbidden
	}
	if _, err := s.userRepo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.userRepo.Delete(ctx, id)
}

// checkUnique rejects a username or email already held by a different
// account. Empty strings are skipped; selfID exempts the updated row.
func (s *userServiceImpl) checkUnique(ctx context.Context, username, email, selfID string) error {
	if username != "" {
		existing, err := s.userRepo.GetByUsername(ctx, username)
		if err != nil && !errors.Is(err, oferrors.ErrNotFound) {
			return err
		}
		if existing != nil && existing.ID != selfID {
			return oferrors.ErrUsernameExists
		}
	}
	if email != "" {
		existing, err := s.userRepo.GetByEmail(ctx, email)
		if err != nil && !errors.Is(err, oferrors.ErrNotFound) {
			return err
		}
		if existing != nil && existing.ID != selfID {
			return oferrors.ErrEmailExists
		}
	}
	return nil
}
