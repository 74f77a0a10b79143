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
	"time"

	"gorm.io/gorm"

	"opsflow/dashboard/model"
	"opsflow/dashboard/repository"
	"opsflow/dashboard/vo"
	"opsflow/pkg/log"
	"opsflow/pkg/metrics"
	"opsflow/pkg/redis"
)

const (
	statsCacheKey = "opsflow:dashboard:stats"
	statsCacheTTL = 15 * time.Second

	recentLimit = 10
)

type DashboardService interface {
	Stats(ctx context.Context, userID string) (*vo.StatsVo, error)
	RecentActivity(ctx context.Context) (*vo.ActivityVo, error)
	System(ctx context.Context) *metrics.SystemStats
}

var _ DashboardService = (*dashboardServiceImpl)(nil)

type dashboardServiceImpl struct {
	userRepo     repository.UserRepository
	functionRepo repository.FunctionRepository
	requestRepo  repository.RequestRepository
	cache        *redis.Client
	logger       *log.Logger
}

func NewDashboardService(db *gorm.DB, cache *redis.Client) DashboardService {
	return &dashboardServiceImpl{
		userRepo:     repository.NewUserRepository(db),
		functionRepo: repository.NewFunctionRepository(db),
		requestRepo:  repository.NewRequestRepository(db),
		cache:        cache,
		logger:       log.GetLogger("dashboard-service"),
	}
}

// Stats assembles the counters block. The cross-user counters are
// cached briefly in redis when a client is configured; the caller's
// own pending count is always fresh.
func (s *dashboardServiceImpl) Stats(ctx context.Context, userID string) (*vo.StatsVo, error) {
	stats, err := s.sharedStats(ctx)
	if err != nil {
		return nil, err
	}

	mine, err := s.requestRepo.CountPendingForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats.MyPendingRequests = mine
	return stats, nil
}

func (s *dashboardServiceImpl) sharedStats(ctx context.Context) (*vo.StatsVo, error) {
	if cached, err := s.cache.Get(ctx, statsCacheKey); err == nil {
		var stats vo.StatsVo
		if err := json.Unmarshal([]byte(cached), &stats); err == nil {
			return &stats, nil
		}
	}

	stats := &vo.StatsVo{}
	var err error
	if stats.TotalFunctions, err = s.functionRepo.CountActive(ctx); err != nil {
		return nil, err
	}
	if stats.TotalUsers, err = s.userRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.PendingRequests, err = s.requestRepo.CountByStatus(ctx, model.StatusPending); err != nil {
		return nil, err
	}
	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if stats.CompletedRequestsToday, err = s.requestRepo.CountByStatusSince(ctx, model.StatusCompleted, midnight); err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(stats); err == nil {
		if err := s.cache.SetWithExpire(ctx, statsCacheKey, raw, statsCacheTTL); err != nil {
			s.logger.Warningf("failed to cache dashboard stats: %v", err)
		}
	}
	return stats, nil
}

// RecentActivity returns the latest registry entries and requests.
func (s *dashboardServiceImpl) RecentActivity(ctx context.Context) (*vo.ActivityVo, error) {
	functions, err := s.functionRepo.Recent(ctx, recentLimit)
	if err != nil {
		return nil, err
	}
	requests, err := s.requestRepo.Recent(ctx, recentLimit)
	if err != nil {
		return nil, err
	}
	return &vo.ActivityVo{
		RecentFunctions: functions,
		RecentRequests:  requests,
	}, nil
}

// System reports host level resource usage.
func (s *dashboardServiceImpl) System(ctx context.Context) *metrics.SystemStats {
	return metrics.CollectSystemStats()
}
