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

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cm   *ConfigManager
	once sync.Once
	Conf *Flags
)

// Flags is the full runtime configuration, populated from the config
// file, environment (OPSFLOW_*) and command-line flags, in that order.
type Flags struct {
	Listen        string `mapstructure:"listen"`
	MetricsListen string `mapstructure:"metrics-listen"`
	LogLevel      string `mapstructure:"log-level"`

	DatabaseDriver string `mapstructure:"database-driver"`
	DatabaseDSN    string `mapstructure:"database-dsn"`

	JWTSecret       string `mapstructure:"jwt-secret"`
	TokenTTLMinutes int    `mapstructure:"token-ttl-minutes"`

	RedisEnabled  bool   `mapstructure:"redis-enabled"`
	RedisAddr     string `mapstructure:"redis-addr"`
	RedisPassword string `mapstructure:"redis-password"`

	BootstrapAdmin  bool `mapstructure:"bootstrap-admin"`
	SampleFunctions bool `mapstructure:"sample-functions"`
}

type ConfigManager struct {
	v *viper.Viper
}

// NewConfigManager return ConfigManager instance.
func NewConfigManager() *ConfigManager {
	once.Do(func() {
		cm = &ConfigManager{v: viper.New()}
	})
	return cm
}

// Viper return viper instance.
func (cm *ConfigManager) Viper() *viper.Viper {
	return cm.v
}

func (cm *ConfigManager) LoadConf(cmd *cobra.Command) error {
	v := cm.v
	v.SetConfigType("yaml")

	v.SetDefault("listen", ":8080")
	v.SetDefault("metrics-listen", ":9100")
	v.SetDefault("log-level", "info")
	v.SetDefault("database-driver", "sqlite")
	v.SetDefault("database-dsn", "opsflow.db")
	v.SetDefault("jwt-secret", "")
	v.SetDefault("token-ttl-minutes", 720)
	v.SetDefault("redis-enabled", false)
	v.SetDefault("redis-addr", "localhost:6379")
	v.SetDefault("bootstrap-admin", true)
	v.SetDefault("sample-functions", true)

	configName := GetConfigFilePath()
	v.SetConfigFile(configName)
	if _, err := os.Stat(configName); os.IsNotExist(err) {
		if err := os.MkdirAll(filepath.Dir(configName), 0o755); err != nil {
			return err
		}
		if err := v.SafeWriteConfigAs(configName); err != nil {
			return fmt.Errorf("create default config failed: %v", err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		return err
	}

	v.SetEnvPrefix("OPSFLOW")
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	return v.Unmarshal(&Conf)
}

// GetConfigFilePath get config filepath.
func GetConfigFilePath() string {
	if path := os.Getenv("OPSFLOW_CONFIG_DIR"); path != "" {
		return filepath.Join(path, "opsflow.yaml")
	}
	home, _ := os.UserHomeDir()
	if home == "" || home == "/" {
		return "/etc/opsflow/opsflow.yaml"
	}
	return filepath.Join(home, ".opsflow", "opsflow.yaml")
}
