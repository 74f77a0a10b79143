package service

import (
	"errors"
	"testing"
	"time"

	"opsflow/dashboard/dto"
	"opsflow/dashboard/model"
	"opsflow/pkg/oferrors"
	"opsflow/pkg/utils"
)

func TestLogin(t *testing.T) {
	utils.InitJWT("test-secret", time.Hour)
	db := newTestDB(t)
	ctx := testContext(t)
	svc := NewAuthService(db)

	user := newTestUser(t, db, "alice", model.RoleMember)

	t.Run("valid credentials", func(t *testing.T) {
		result, err := svc.Login(ctx, &dto.LoginDto{Username: "alice", Password: "secret123"})
		if err != nil {
			t.Fatal(err)
		}
		if result.AccessToken == "" || result.TokenType != "bearer" {
			t.Fatalf("unexpected login payload: %+v", result)
		}
		if result.User.ID != user.ID {
			t.Fatalf("user = %s, want %s", result.User.ID, user.ID)
		}
	})

	t.Run("login stamps last_login", func(t *testing.T) {
		got, err := svc.GetMe(ctx, user.ID)
		if err != nil {
			t.Fatal(err)
		}
		if got.LastLogin == nil {
			t.Fatal("last_login not stamped")
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, &dto.LoginDto{Username: "alice", Password: "nope"})
		if !errors.Is(err, oferrors.ErrInvalidCredentials) {
			t.Fatalf("err = %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("unknown user looks like wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, &dto.LoginDto{Username: "mallory", Password: "secret123"})
		if !errors.Is(err, oferrors.ErrInvalidCredentials) {
			t.Fatalf("err = %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("disabled account", func(t *testing.T) {
		disabled := newTestUser(t, db, "bob", model.RoleMember)
		if err := db.Model(disabled).Update("is_active", false).Error; err != nil {
			t.Fatal(err)
		}
		_, err := svc.Login(ctx, &dto.LoginDto{Username: "bob", Password: "secret123"})
		if !errors.Is(err, oferrors.ErrUserDisabled) {
			t.Fatalf("err = %v, want ErrUserDisabled", err)
		}
	})
}

func TestTokenValidateAndRefresh(t *testing.T) {
	utils.InitJWT("test-secret", time.Hour)
	db := newTestDB(t)
	ctx := testContext(t)
	svc := NewAuthService(db)

	user := newTestUser(t, db, "alice", model.RoleLeader)
	login, err := svc.Login(ctx, &dto.LoginDto{Username: "alice", Password: "secret123"})
	if err != nil {
		t.Fatal(err)
	}

	t.Run("valid token", func(t *testing.T) {
		result, err := svc.Validate(ctx, login.AccessToken)
		if err != nil {
			t.Fatal(err)
		}
		if !result.Valid || result.User.ID != user.ID {
			t.Fatalf("unexpected validation: %+v", result)
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		result, err := svc.Validate(ctx, "not-a-token")
		if err != nil {
			t.Fatal(err)
		}
		if result.Valid {
			t.Fatal("garbage token validated")
		}
	})

	t.Run("refresh issues a new token", func(t *testing.T) {
		refreshed, err := svc.Refresh(ctx, login.AccessToken)
		if err != nil {
			t.Fatal(err)
		}
		claims, err := utils.ParseToken(refreshed)
		if err != nil {
			t.Fatal(err)
		}
		if claims.Subject != user.ID || claims.Role != string(model.RoleLeader) {
			t.Fatalf("unexpected claims: %+v", claims)
		}
	})

	t.Run("disabled account cannot validate", func(t *testing.T) {
		if err := db.Model(user).Update("is_active", false).Error; err != nil {
			t.Fatal(err)
		}
		result, err := svc.Validate(ctx, login.AccessToken)
		if err != nil {
			t.Fatal(err)
		}
		if result.Valid {
			t.Fatal("token for disabled account validated")
		}
	})
}
