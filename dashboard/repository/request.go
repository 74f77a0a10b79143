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

type RequestRepository interface {
	GetByID(ctx context.Context, id string) (*model.Request, error)
	// List returns requests newest first. A non-empty scopeUserID
	// restricts the result to that owner.
	List(ctx context.Context, params *dto.RequestParams, scopeUserID string) ([]*model.Request, error)
	Recent(ctx context.Context, limit int) ([]*model.Request, error)

	Create(ctx context.Context, req *model.Request) error

	// Transition atomically moves a request out of `from` by applying
	// values iff the row is still in that state. It reports whether
	// this caller won the update; a false return with nil error means
	// the request already left `from` (or never existed).
	Transition(ctx context.Context, id string, from model.Status, values map[string]any) (bool, error)

	// DeletePending removes the request iff it is still pending, with
	// the same won/lost contract as Transition.
	DeletePending(ctx context.Context, id string) (bool, error)

	CountAll(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status model.Status) (int64, error)
	CountByStatusSince(ctx context.Context, status model.Status, since time.Time) (int64, error)
	CountPendingForUser(ctx context.Context, userID string) (int64, error)
}

type requestRepository struct {
	*BaseRepository[model.Request]
}

func NewRequestRepository(db *gorm.DB) RequestRepository {
	return &requestRepository{BaseRepository: NewBaseRepository[model.Request](db)}
}

func (r *requestRepository) List(ctx context.Context, params *dto.RequestParams, scopeUserID string) ([]*model.Request, error) {
	return r.Find(ctx, func(db *gorm.DB) *gorm.DB {
		if scopeUserID != "" {
			db = db.Where("user_id = ?", scopeUserID)
		}
		if params.Status != "" {
			db = db.Where("status = ?", params.Status)
		}
		if params.DateFrom != nil {
			db = db.Where("created_at >= ?", *params.DateFrom)
		}
		if params.DateTo != nil {
			db = db.Where("created_at <= ?", *params.DateTo)
		}
		if params.Search != "" {
			pattern := "%" + params.Search + "%"
			db = db.Where("user_username LIKE ? OR function_name LIKE ? OR rejection_reason LIKE ?",
				pattern, pattern, pattern)
		}
		if params.PageSize > 0 {
			db = db.Offset((params.Page - 1) * params.PageSize).Limit(params.PageSize)
		}
		return db.Order("created_at DESC")
	})
}

func (r *requestRepository) Recent(ctx context.Context, limit int) ([]*model.Request, error) {
	return r.Find(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at DESC").Limit(limit)
	})
}

func (r *requestRepository) Transition(ctx context.Context, id string, from model.Status, values map[string]any) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Request{}).
		Where("id = ? AND status = ?", id, from).
		Updates(values)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *requestRepository) DeletePending(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND status = ?", id, model.StatusPending).
		Delete(&model.Request{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *requestRepository) CountAll(ctx context.Context) (int64, error) {
	return r.Count(ctx)
}

func (r *requestRepository) CountByStatus(ctx context.Context, status model.Status) (int64, error) {
	return r.Count(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("status = ?", status)
	})
}

func (r *requestRepository) CountByStatusSince(ctx context.Context, status model.Status, since time.Time) (int64, error) {
	return r.Count(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("status = ? AND updated_at >= ?", status, since)
	})
}

func (r *requestRepository) CountPendingForUser(ctx context.Context, userID string) (int64, error) {
	return r.Count(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("status = ? AND user_id = ?", model.StatusPending, userID)
	})
}
