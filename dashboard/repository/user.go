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

package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"opsflow/dashboard/dto"
	"opsflow/dashboard/model"
)

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context, params *dto.UserParams) ([]*model.User, error)
	Count(ctx context.Context) (int64, error)
	CountByRole(ctx context.Context, role model.Role) (int64, error)

	Create(ctx context.Context, user *model.User) error
	Updates(ctx context.Context, id string, values map[string]any) error
	UpdateLastLogin(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type userRepository struct {
	*BaseRepository[model.User]
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{BaseRepository: NewBaseRepository[model.User](db)}
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.First(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("username = ?", username)
	})
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.First(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("email = ?", email)
	})
}

func (r *userRepository) List(ctx context.Context, params *dto.UserParams) ([]*model.User, error) {
	return r.Find(ctx, userScope(params))
}

func userScope(params *dto.UserParams) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if params.Role != "" {
			db = db.Where("role = ?", params.Role)
		}
		switch params.Status {
		case "active":
			db = db.Where("is_active = ?", true)
		case "inactive":
			db = db.Where("is_active = ?", false)
		}
		if params.Search != "" {
			pattern := "%" + params.Search + "%"
			db = db.Where("username LIKE ? OR email LIKE ? OR full_name LIKE ?", pattern, pattern, pattern)
		}
		if params.PageSize > 0 {
			db = db.Offset((params.Page - 1) * params.PageSize).Limit(params.PageSize)
		}
		return db.Order("created_at DESC")
	}
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	return r.BaseRepository.Count(ctx)
}

func (r *userRepository) CountByRole(ctx context.Context, role model.Role) (int64, error) {
	return r.BaseRepository.Count(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("role = ?", role)
	})
}

func (r *userRepository) UpdateLastLogin(ctx context.Context, id string) error {
	return r.Updates(ctx, id, map[string]any{"last_login": time.Now()})
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	return r.BaseRepository.Delete(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("id = ?", id)
	})
}
