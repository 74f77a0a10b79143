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

package database

import (
	"errors"

	"gorm.io/gorm"

	"opsflow/dashboard/model"
	"opsflow/pkg/log"
	"opsflow/pkg/utils"
)

// SeedDefaultAdmin creates the bootstrap admin account when no admin
// exists yet. The password must be rotated after first login.
func SeedDefaultAdmin(db *gorm.DB) error {
	logger := log.GetLogger("database")

	var admin model.User
	err := db.Where("role = ?", model.RoleAdmin).First(&admin).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashed, err := utils.EncryptPassword("admin123")
	if err != nil {
		return err
	}

	user := &model.User{
		Username: "admin",
		Email:    "admin@dashboard.local",
		FullName: "System Administrator",
		Role:     model.RoleAdmin,
		Password: hashed,
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		return err
	}

	logger.Infof("default admin user created: admin/admin123")
	return nil
}

// SeedSampleFunctions registers a few starter functions so a fresh
// install has something to show. Existing names are left alone.
func SeedSampleFunctions(db *gorm.DB) error {
	logger := log.GetLogger("database")

	samples := []*model.Function{
		{
			Name:           "System Health Check",
			Description:    "Check the overall health of the system",
			APIEndpoint:    "http://localhost:8080/health",
			HTTPMethod:     "GET",
			MinRole:        model.RoleMember,
			TimeoutSeconds: 10,
			IsActive:       true,
		},
		{
			Name:           "User Count Report",
			Description:    "Generate a report of total users in the system",
			APIEndpoint:    "http://localhost:8080/api/reports/users",
			HTTPMethod:     "GET",
			MinRole:        model.RoleLeader,
			TimeoutSeconds: 30,
			IsActive:       true,
		},
		{
			Name:        "System Backup",
			Description: "Initiate a system backup process",
			APIEndpoint: "http://localhost:8080/api/admin/backup",
			HTTPMethod:  "POST",
			MinRole:     model.RoleAdmin,
			RequiredFields: []model.FieldSchema{
				{
					Name:        "backup_type",
					Type:        "string",
					Required:    true,
					Description: "Type of backup (full, incremental)",
				},
			},
			TimeoutSeconds: 300,
			IsActive:       true,
		},
	}

	for _, fn := range samples {
		var existing model.Function
		err := db.Where("name = ?", fn.Name).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := db.Create(fn).Error; err != nil {
			return err
		}
		logger.Infof("sample function created: %s", fn.Name)
	}
	return nil
}
