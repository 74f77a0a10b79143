package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"gorm.io/gorm"

	"opsflow/dashboard/database"
	"opsflow/dashboard/model"
	"opsflow/pkg/utils"
)

type testEnv struct {
	srv *Server
	db  *gorm.DB
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	utils.InitJWT("server-test-secret", time.Hour)

	db, err := database.Open("sqlite", filepath.Join(t.TempDir(), "opsflow.db"))
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	srv, err := NewServer(&ServerConfig{Listen: ":0", DB: db})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	return &testEnv{srv: srv, db: db}
}

func (e *testEnv) addUser(t *testing.T, username string, role model.Role) *model.User {
	t.Helper()
	hashed, err := utils.EncryptPassword("secret123")
	if err != nil {
		t.Fatal(err)
	}
	user := &model.User{
		Username: username,
		Email:    username + "@dashboard.local",
		Role:     role,
		Password: hashed,
		IsActive: true,
	}
	if err := e.db.Create(user).Error; err != nil {
		t.Fatal(err)
	}
	return user
}

func (e *testEnv) addFunction(t *testing.T, name string, minRole model.Role) *model.Function {
	t.Helper()
	fn := &model.Function{
		Name:           name,
		APIEndpoint:    "http://internal/api/" + name,
		HTTPMethod:     "POST",
		MinRole:        minRole,
		TimeoutSeconds: 30,
		IsActive:       true,
	}
	if err := e.db.Create(fn).Error; err != nil {
		t.Fatal(err)
	}
	return fn
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.srv.ServeHTTP(w, req)
	return w
}

func (e *testEnv) login(t *testing.T, username string) string {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": username,
		"password": "secret123",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login %s: status %d: %s", username, w.Code, w.Body.String())
	}
	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatal(err)
	}
	return payload.AccessToken
}

func TestHealthEndpoint(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/health", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestAuthRequired(t *testing.T) {
	env := newTestEnv(t)

	t.Run("no token", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/v1/requests", "", nil)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", w.Code)
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/v1/requests", "garbage", nil)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", w.Code)
		}
	})

	t.Run("token of a disabled account", func(t *testing.T) {
		user := env.addUser(t, "ghost", model.RoleMember)
		token := env.login(t, "ghost")
		if err := env.db.Model(user).Update("is_active", false).Error; err != nil {
			t.Fatal(err)
		}
		w := env.do(t, http.MethodGet, "/api/v1/requests", token, nil)
		if w.Code != http.StatusForbidden {
			t.Fatalf("status = %d, want 403", w.Code)
		}
	})
}

func TestWorkflowOverHTTP(t *testing.T) {
	env := newTestEnv(t)

	env.addUser(t, "member", model.RoleMember)
	env.addUser(t, "leader", model.RoleLeader)
	fn := env.addFunction(t, "health-check", model.RoleMember)
	gated := env.addFunction(t, "backup", model.RoleAdmin)

	memberToken := env.login(t, "member")
	leaderToken := env.login(t, "leader")

	var requestID string

	t.Run("member opens a request", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/v1/requests", memberToken, map[string]any{
			"function_id": fn.ID,
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("status = %d: %s", w.Code, w.Body.String())
		}
		var req model.Request
		if err := json.Unmarshal(w.Body.Bytes(), &req); err != nil {
			t.Fatal(err)
		}
		if req.Status != model.StatusPending {
			t.Fatalf("status = %s, want pending", req.Status)
		}
		requestID = req.ID
	})

	t.Run("role gate maps to 403", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/v1/requests", memberToken, map[string]any{
			"function_id": gated.ID,
		})
		if w.Code != http.StatusForbidden {
			t.Fatalf("status = %d, want 403", w.Code)
		}
	})

	t.Run("member cannot approve", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/v1/requests/"+requestID+"/approve", memberToken, nil)
		if w.Code != http.StatusForbidden {
			t.Fatalf("status = %d, want 403", w.Code)
		}
	})

	t.Run("leader approves", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/v1/requests/"+requestID+"/approve", leaderToken, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("second review maps to 409", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/v1/requests/"+requestID+"/reject", leaderToken, map[string]string{
			"reason": "too late",
		})
		if w.Code != http.StatusConflict {
			t.Fatalf("status = %d, want 409", w.Code)
		}
	})

	t.Run("unknown request maps to 404", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/v1/requests/no-such-id/approve", leaderToken, nil)
		if w.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", w.Code)
		}
	})
}

func TestExecuteAutoApprovesAdmin(t *testing.T) {
	env := newTestEnv(t)

	env.addUser(t, "admin", model.RoleAdmin)
	env.addUser(t, "member", model.RoleMember)
	fn := env.addFunction(t, "health-check", model.RoleMember)

	t.Run("admin request skips the queue", func(t *testing.T) {
		token := env.login(t, "admin")
		w := env.do(t, http.MethodPost, "/api/v1/functions/"+fn.ID+"/execute", token, map[string]any{})
		if w.Code != http.StatusCreated {
			t.Fatalf("status = %d: %s", w.Code, w.Body.String())
		}
		var req model.Request
		if err := json.Unmarshal(w.Body.Bytes(), &req); err != nil {
			t.Fatal(err)
		}
		if req.Status != model.StatusApproved {
			t.Fatalf("status = %s, want approved", req.Status)
		}
		if req.ReviewerUsername != "admin" {
			t.Fatalf("reviewer = %q, want admin", req.ReviewerUsername)
		}
	})

	t.Run("member request stays pending", func(t *testing.T) {
		token := env.login(t, "member")
		w := env.do(t, http.MethodPost, "/api/v1/functions/"+fn.ID+"/execute", token, map[string]any{})
		if w.Code != http.StatusCreated {
			t.Fatalf("status = %d: %s", w.Code, w.Body.String())
		}
		var req model.Request
		if err := json.Unmarshal(w.Body.Bytes(), &req); err != nil {
			t.Fatal(err)
		}
		if req.Status != model.StatusPending {
			t.Fatalf("status = %s, want pending", req.Status)
		}
	})
}
