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

package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"opsflow/dashboard/service"
	"opsflow/pkg/log"
	"opsflow/pkg/redis"
)

// Server is the main server struct.
type Server struct {
	*gin.Engine
	logger        *log.Logger
	listen        string
	metricsListen string
	db            *gorm.DB

	authService      service.AuthService
	userService      service.UserService
	functionService  service.FunctionService
	requestService   service.RequestService
	dashboardService service.DashboardService
}

// ServerConfig is the server configuration.
type ServerConfig struct {
	Listen        string
	MetricsListen string
	DB            *gorm.DB
	Redis         *redis.Client
}

// NewServer creates a new server.
func NewServer(cfg *ServerConfig) (*Server, error) {
	s := &Server{
		logger:        log.GetLogger("server"),
		listen:        cfg.Listen,
		metricsListen: cfg.MetricsListen,
		db:            cfg.DB,

		authService:      service.NewAuthService(cfg.DB),
		userService:      service.NewUserService(cfg.DB),
		functionService:  service.NewFunctionService(cfg.DB),
		requestService:   service.NewRequestService(cfg.DB),
		dashboardService: service.NewDashboardService(cfg.DB, cfg.Redis),
	}

	gin.SetMode(gin.ReleaseMode)
	s.Engine = gin.New()
	s.Use(gin.Recovery())

	s.apiRouter()

	return s, nil
}

// Start serves the API and, when configured, a separate prometheus
// metrics listener. Both shut down when ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	api := &http.Server{Addr: s.listen, Handler: s.Engine}
	g.Go(func() error {
		s.logger.Infof("api listening on %s", s.listen)
		if err := api.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	var metricsSrv *http.Server
	if s.metricsListen != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsSrv = &http.Server{Addr: s.metricsListen, Handler: mux}
		g.Go(func() error {
			s.logger.Infof("metrics listening on %s", s.metricsListen)
			if err := metricsSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if metricsSrv != nil {
			_ = metricsSrv.Shutdown(shutdownCtx)
		}
		return api.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
