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
	"opsflow/dashboard/repository"
	"opsflow/dashboard/vo"
	"opsflow/pkg/log"
	"opsflow/pkg/metrics"
	"opsflow/pkg/oferrors"
	"opsflow/pkg/utils"
)

// AuthService verifies credentials and issues tokens. It is the only
// component that ever sees a plaintext password.
type AuthService interface {
	Login(ctx context.Context, d *dto.LoginDto) (*vo.LoginVo, error)
	Validate(ctx context.Context, token string) (*vo.TokenValidationVo, error)
	Refresh(ctx context.Context, token string) (string, error)
	GetMe(ctx context.Context, userID string) (*model.User, error)
}

var _ AuthService = (*authServiceImpl)(nil)

type authServiceImpl struct {
	userRepo repository.UserRepository
	logger   *log.Logger
}

func NewAuthService(db *gorm.DB) AuthService {
	return &authServiceImpl{
		userRepo: repository.NewUserRepository(db),
		logger:   log.GetLogger("auth-service"),
	}
}

// Login checks the credential pair and returns a signed token plus the
// user record. Unknown user and wrong password are indistinguishable to
// the caller.
func (s *authServiceImpl) Login(ctx context.Context, d *dto.LoginDto) (*vo.LoginVo, error) {
	user, err := s.userRepo.GetByUsername(ctx, d.Username)
	if err != nil {
		if errors.Is(err, oferrors.ErrNotFound) {
			metrics.LoginAttemptsTotal.WithLabelValues("failure").Inc()
			return nil, oferrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.IsActive {
		metrics.LoginAttemptsTotal.WithLabelValues("failure").Inc()
		return nil, oferrors.ErrUserDisabled
	}

	if err := utils.ComparePassword(user.Password, d.Password); err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("failure").Inc()
		return nil, oferrors.ErrInvalidCredentials
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		s.logger.Warningf("update last login for %s failed: %v", user.Username, err)
	}

	token, err := utils.GenerateToken(user.ID, user.Username, string(user.Role))
	if err != nil {
		return nil, err
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	s.logger.Infof("user %s logged in", user.Username)

	return &vo.LoginVo{AccessToken: token, TokenType: "bearer", User: user}, nil
}

// Validate answers whether a token still identifies an active account.
func (s *authServiceImpl) Validate(ctx context.Context, token string) (*vo.TokenValidationVo, error) {
	claims, err := utils.ParseToken(token)
	if err != nil {
		return &vo.TokenValidationVo{Valid: false}, nil
	}

	user, err := s.userRepo.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, oferrors.ErrNotFound) {
			return &vo.TokenValidationVo{Valid: false}, nil
		}
		return nil, err
	}
	if !user.IsActive {
		return &vo.TokenValidationVo{Valid: false}, nil
	}

	return &vo.TokenValidationVo{Valid: true, User: user}, nil
}

// Refresh re-issues a token for a still-valid one.
func (s *authServiceImpl) Refresh(ctx context.Context, token string) (string, error) {
	claims, err := utils.ParseToken(token)
	if err != nil {
		return "", oferrors.ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, claims.Subject)
	if err != nil {
		return "", oferrors.ErrInvalidToken
	}
	if !user.IsActive {
		return "", oferrors.ErrUserDisabled
	}

	return utils.RefreshToken(token)
}

func (s *authServiceImpl) GetMe(ctx context.Context, userID string) (*model.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}
