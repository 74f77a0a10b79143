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

package cmd

import (
	"github.com/spf13/cobra"

	"opsflow/dashboard"
	"opsflow/internal/config"
	"opsflow/pkg/log"
)

func newServerCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "server",
		SilenceUsage: true,
		Short:        "server starts the dashboard API",

		PreRunE: func(cmd *cobra.Command, args []string) error {
			return config.NewConfigManager().LoadConf(cmd)
		},

		RunE: func(cmd *cobra.Command, args []string) error {
			log.SetLogLevel(config.Conf.LogLevel)
			return dashboard.Start()
		},
	}

	fs := cmd.Flags()
	fs.StringP("listen", "l", ":8080", "api listen address")
	fs.String("metrics-listen", ":9100", "prometheus listen address, empty disables it")
	fs.String("log-level", "info", "log level (silent, error, warn, info, verbose)")
	fs.String("database-driver", "sqlite", "database driver (sqlite, mysql)")
	fs.String("database-dsn", "opsflow.db", "database dsn")
	fs.String("jwt-secret", "", "jwt signing secret, generated when empty")
	fs.Int("token-ttl-minutes", 720, "access token lifetime in minutes")
	fs.Bool("redis-enabled", false, "enable the redis stats cache")
	fs.String("redis-addr", "localhost:6379", "redis address")
	fs.String("redis-password", "", "redis password")
	fs.Bool("bootstrap-admin", true, "seed the default admin account")
	fs.Bool("sample-functions", true, "seed the sample function registry")

	return cmd
}
