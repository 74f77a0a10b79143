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

package dashboard

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"opsflow/dashboard/database"
	"opsflow/dashboard/server"
	"opsflow/internal/config"
	"opsflow/pkg/log"
	"opsflow/pkg/redis"
	"opsflow/pkg/utils"
)

// Start wires storage, seeds, the optional cache and the API server,
// then blocks until SIGINT/SIGTERM.
func Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	logger := log.GetLogger("dashboard")

	cfg := config.Conf

	utils.InitJWT(cfg.JWTSecret, time.Duration(cfg.TokenTTLMinutes)*time.Minute)

	db, err := database.Open(cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		return err
	}

	if cfg.BootstrapAdmin {
		if err := database.SeedDefaultAdmin(db); err != nil {
			return err
		}
	}
	if cfg.SampleFunctions {
		if err := database.SeedSampleFunctions(db); err != nil {
			return err
		}
	}

	var cache *redis.Client
	if cfg.RedisEnabled {
		cache, err = redis.NewClient(&redis.ClientConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		if err != nil {
			// the cache is an optimization, the server runs without it
			logger.Warningf("redis unavailable, continuing without cache: %v", err)
			cache = nil
		}
		defer cache.Close()
	}

	srv, err := server.NewServer(&server.ServerConfig{
		Listen:        cfg.Listen,
		MetricsListen: cfg.MetricsListen,
		DB:            db,
		Redis:         cache,
	})
	if err != nil {
		return err
	}

	logger.Infof("starting opsflow dashboard")
	return srv.Start(ctx)
}
