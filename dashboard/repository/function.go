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

	"gorm.io/gorm"

	"opsflow/dashboard/dto"
	"opsflow/dashboard/model"
)

type FunctionRepository interface {
	GetByID(ctx context.Context, id string) (*model.Function, error)
	List(ctx context.Context, params *dto.FunctionParams) ([]*model.Function, error)
	ListForRoles(ctx context.Context, roles []model.Role, limit int) ([]*model.Function, error)
	Recent(ctx context.Context, limit int) ([]*model.Function, error)
	CountActive(ctx context.Context) (int64, error)

	Create(ctx context.Context, fn *model.Function) error
	Save(ctx context.Context, fn *model.Function) error
	Updates(ctx context.Context, id string, values map[string]any) error
	// SoftDelete flips the active flag; the row stays for history.
	SoftDelete(ctx context.Context, id string) error
}

type functionRepository struct {
	*BaseRepository[model.Function]
}

func NewFunctionRepository(db *gorm.DB) FunctionRepository {
	return &functionRepository{BaseRepository: NewBaseRepository[model.Function](db)}
}

func (r *functionRepository) List(ctx context.Context, params *dto.FunctionParams) ([]*model.Function, error) {
	return r.Find(ctx, func(db *gorm.DB) *gorm.DB {
		db = db.Where("is_active = ?", true)
		if params.MinRole != "" {
			db = db.Where("min_role = ?", params.MinRole)
		}
		if params.Method != "" {
			db = db.Where("http_method = ?", params.Method)
		}
		if params.Search != "" {
			pattern := "%" + params.Search + "%"
			db = db.Where("name LIKE ? OR description LIKE ?", pattern, pattern)
		}
		if params.PageSize > 0 {
			db = db.Offset((params.Page - 1) * params.PageSize).Limit(params.PageSize)
		}
		return db.Order("created_at DESC")
	})
}

func (r *functionRepository) ListForRoles(ctx context.Context, roles []model.Role, limit int) ([]*model.Function, error) {
	return r.Find(ctx, func(db *gorm.DB) *gorm.DB {
		db = db.Where("is_active = ?", true).Where("min_role IN ?", roles)
		if limit > 0 {
			db = db.Limit(limit)
		}
		return db.Order("created_at DESC")
	})
}

func (r *functionRepository) Recent(ctx context.Context, limit int) ([]*model.Function, error) {
	return r.Find(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at DESC").Limit(limit)
	})
}

func (r *functionRepository) CountActive(ctx context.Context) (int64, error) {
	return r.Count(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("is_active = ?", true)
	})
}

func (r *functionRepository) SoftDelete(ctx context.Context, id string) error {
	return r.Updates(ctx, id, map[string]any{"is_active": false})
}
