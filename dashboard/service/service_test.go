package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"gorm.io/gorm"

	"opsflow/dashboard/database"
	"opsflow/dashboard/model"
	"opsflow/pkg/utils"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open("sqlite", filepath.Join(t.TempDir(), "opsflow.db"))
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	return db
}

func newTestUser(t *testing.T, db *gorm.DB, username string, role model.Role) *model.User {
	t.Helper()
	hashed, err := utils.EncryptPassword("secret123")
	if err != nil {
		t.Fatal(err)
	}
	user := &model.User{
		Username: username,
		Email:    username + "@dashboard.local",
		FullName: username,
		Role:     role,
		Password: hashed,
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

func newTestFunction(t *testing.T, db *gorm.DB, name string, minRole model.Role, fields []model.FieldSchema) *model.Function {
	t.Helper()
	fn := &model.Function{
		Name:           name,
		Description:    "test function " + name,
		APIEndpoint:    "http://internal/api/" + name,
		HTTPMethod:     "POST",
		MinRole:        minRole,
		RequiredFields: fields,
		TimeoutSeconds: 30,
		IsActive:       true,
	}
	if err := db.Create(fn).Error; err != nil {
		t.Fatalf("create function %s: %v", name, err)
	}
	return fn
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return ctx
}
