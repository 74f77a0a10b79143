package service

import (
	"errors"
	"sync"
	"testing"

	"opsflow/dashboard/dto"
	"opsflow/dashboard/model"
	"opsflow/pkg/oferrors"
)

func TestRequestCreate(t *testing.T) {
	db := newTestDB(t)
	ctx := testContext(t)
	svc := NewRequestService(db)

	member := newTestUser(t, db, "member", model.RoleMember)
	leader := newTestUser(t, db, "leader", model.RoleLeader)
	fn := newTestFunction(t, db, "health-check", model.RoleMember, nil)
	gated := newTestFunction(t, db, "user-report", model.RoleLeader, nil)

	t.Run("member opens pending request", func(t *testing.T) {
		req, err := svc.Create(ctx, member.ID, member.Role, fn.ID, nil)
		if err != nil {
			t.Fatal(err)
		}
		if req.Status != model.StatusPending {
			t.Fatalf("status = %s, want pending", req.Status)
		}
		if req.UserUsername != "member" || req.UserEmail != member.Email {
			t.Fatalf("user snapshot not stamped: %+v", req)
		}
		if req.FunctionName != "health-check" {
			t.Fatalf("function snapshot not stamped: %+v", req)
		}
	})

	t.Run("member blocked by role gate", func(t *testing.T) {
		_, err := svc.Create(ctx, member.ID, member.Role, gated.ID, nil)
		if !errors.Is(err, oferrors.ErrForbidden) {
			t.Fatalf("err = %v, want ErrForbidden", err)
		}
	})

	t.Run("leader clears its own gate", func(t *testing.T) {
		if _, err := svc.Create(ctx, leader.ID, leader.Role, gated.ID, nil); err != nil {
			t.Fatal(err)
		}
	})

	t.Run("unknown function", func(t *testing.T) {
		_, err := svc.Create(ctx, member.ID, member.Role, "no-such-id", nil)
		if !errors.Is(err, oferrors.ErrNotFound) {
			t.Fatalf("err = %v, want ErrNotFound", err)
		}
	})

	t.Run("inactive function rejected", func(t *testing.T) {
		off := newTestFunction(t, db, "retired", model.RoleMember, nil)
		if err := db.Model(off).Update("is_active", false).Error; err != nil {
			t.Fatal(err)
		}
		_, err := svc.Create(ctx, member.ID, member.Role, off.ID, nil)
		if !errors.Is(err, oferrors.ErrInvalidParameters) {
			t.Fatalf("err = %v, want ErrInvalidParameters", err)
		}
	})
}

func TestRequestParameterValidation(t *testing.T) {
	db := newTestDB(t)
	ctx := testContext(t)
	svc := NewRequestService(db)

	member := newTestUser(t, db, "member", model.RoleMember)
	fn := newTestFunction(t, db, "backup", model.RoleMember, []model.FieldSchema{
		{Name: "backup_type", Type: "string", Required: true},
		{Name: "comment", Type: "string", Required: false},
	})

	t.Run("missing required field", func(t *testing.T) {
		_, err := svc.Create(ctx, member.ID, member.Role, fn.ID, map[string]any{"comment": "x"})
		if !errors.Is(err, oferrors.ErrInvalidParameters) {
			t.Fatalf("err = %v, want ErrInvalidParameters", err)
		}
	})

	t.Run("unknown field", func(t *testing.T) {
		_, err := svc.Create(ctx, member.ID, member.Role, fn.ID, map[string]any{
			"backup_type": "full",
			"extra":       true,
		})
		if !errors.Is(err, oferrors.ErrInvalidParameters) {
			t.Fatalf("err = %v, want ErrInvalidParameters", err)
		}
	})

	t.Run("optional field may be omitted", func(t *testing.T) {
		req, err := svc.Create(ctx, member.ID, member.Role, fn.ID, map[string]any{"backup_type": "full"})
		if err != nil {
			t.Fatal(err)
		}
		if req.Parameters["backup_type"] != "full" {
			t.Fatalf("parameters not persisted: %+v", req.Parameters)
		}
	})
}

func TestRequestReview(t *testing.T) {
	db := newTestDB(t)
	ctx := testContext(t)
	svc := NewRequestService(db)

	member := newTestUser(t, db, "member", model.RoleMember)
	leader := newTestUser(t, db, "leader", model.RoleLeader)
	fn := newTestFunction(t, db, "health-check", model.RoleMember, nil)

	open := func(t *testing.T) *model.Request {
		req, err := svc.Create(ctx, member.ID, member.Role, fn.ID, nil)
		if err != nil {
			t.Fatal(err)
		}
		return req
	}

	t.Run("approve stamps the reviewer", func(t *testing.T) {
		req := open(t)
		approved, err := svc.Approve(ctx, req.ID, leader.ID, leader.Role)
		if err != nil {
			t.Fatal(err)
		}
		if approved.Status != model.StatusApproved {
			t.Fatalf("status = %s, want approved", approved.Status)
		}
		if approved.ReviewerUsername != "leader" || approved.ReviewedAt == nil {
			t.Fatalf("reviewer snapshot not stamped: %+v", approved)
		}
	})

	t.Run("approve is not repeatable", func(t *testing.T) {
		req := open(t)
		if _, err := svc.Approve(ctx, req.ID, leader.ID, leader.Role); err != nil {
			t.Fatal(err)
		}
		if _, err := svc.Approve(ctx, req.ID, leader.ID, leader.Role); !errors.Is(err, oferrors.ErrInvalidState) {
			t.Fatalf("err = %v, want ErrInvalidState", err)
		}
	})

	t.Run("member cannot review", func(t *testing.T) {
		req := open(t)
		if _, err := svc.Approve(ctx, req.ID, member.ID, member.Role); !errors.Is(err, oferrors.ErrForbidden) {
			t.Fatalf("err = %v, want ErrForbidden", err)
		}
	})

	t.Run("reject requires a reason", func(t *testing.T) {
		req := open(t)
		_, err := svc.Reject(ctx, req.ID, leader.ID, leader.Role, "")
		if !errors.Is(err, oferrors.ErrReasonRequired) {
			t.Fatalf("err = %v, want ErrReasonRequired", err)
		}
		// a missing reason is a parameter fault, so it maps to 400
		if !errors.Is(err, oferrors.ErrInvalidParameters) {
			t.Fatalf("err = %v, want ErrInvalidParameters", err)
		}

		// the failed reject must not have moved the request
		got, err := svc.Get(ctx, req.ID, leader.ID, leader.Role)
		if err != nil {
			t.Fatal(err)
		}
		if got.Status != model.StatusPending {
			t.Fatalf("status = %s, want pending", got.Status)
		}
	})

	t.Run("reject records the reason", func(t *testing.T) {
		req := open(t)
		rejected, err := svc.Reject(ctx, req.ID, leader.ID, leader.Role, "not during business hours")
		if err != nil {
			t.Fatal(err)
		}
		if rejected.Status != model.StatusRejected {
			t.Fatalf("status = %s, want rejected", rejected.Status)
		}
		if rejected.RejectionReason != "not during business hours" {
			t.Fatalf("reason = %q", rejected.RejectionReason)
		}
	})

	t.Run("reject after approve is conflict", func(t *testing.T) {
		req := open(t)
		if _, err := svc.Approve(ctx, req.ID, leader.ID, leader.Role); err != nil {
			t.Fatal(err)
		}
		if _, err := svc.Reject(ctx, req.ID, leader.ID, leader.Role, "late"); !errors.Is(err, oferrors.ErrInvalidState) {
			t.Fatalf("err = %v, want ErrInvalidState", err)
		}
	})
}

func TestRequestReviewRace(t *testing.T) {
	db := newTestDB(t)
	ctx := testContext(t)
	svc := NewRequestService(db)

	member := newTestUser(t, db, "member", model.RoleMember)
	leader := newTestUser(t, db, "leader", model.RoleLeader)
	admin := newTestUser(t, db, "admin", model.RoleAdmin)
	fn := newTestFunction(t, db, "health-check", model.RoleMember, nil)

	req, err := svc.Create(ctx, member.ID, member.Role, fn.ID, nil)
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	outcomes := make([]error, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, outcomes[0] = svc.Approve(ctx, req.ID, leader.ID, leader.Role)
	}()
	go func() {
		defer wg.Done()
		_, outcomes[1] = svc.Reject(ctx, req.ID, admin.ID, admin.Role, "duplicate")
	}()
	wg.Wait()

	var wins int
	for _, err := range outcomes {
		if err == nil {
			wins++
		} else if !errors.Is(err, oferrors.ErrInvalidState) {
			t.Fatalf("loser err = %v, want ErrInvalidState", err)
		}
	}
	if wins != 1 {
		t.Fatalf("wins = %d, want exactly 1", wins)
	}
}

func TestRequestCancel(t *testing.T) {
	db := newTestDB(t)
	ctx := testContext(t)
	svc := NewRequestService(db)

	member := newTestUser(t, db, "member", model.RoleMember)
	other := newTestUser(t, db, "other", model.RoleMember)
	leader := newTestUser(t, db, "leader", model.RoleLeader)
	admin := newTestUser(t, db, "admin", model.RoleAdmin)
	fn := newTestFunction(t, db, "health-check", model.RoleMember, nil)

	open := func(t *testing.T) *model.Request {
		req, err := svc.Create(ctx, member.ID, member.Role, fn.ID, nil)
		if err != nil {
			t.Fatal(err)
		}
		return req
	}

	t.Run("owner cancels pending", func(t *testing.T) {
		req := open(t)
		if err := svc.Cancel(ctx, req.ID, member.ID, member.Role); err != nil {
			t.Fatal(err)
		}
		// cancellation removes the row entirely
		if _, err := svc.Get(ctx, req.ID, admin.ID, admin.Role); !errors.Is(err, oferrors.ErrNotFound) {
			t.Fatalf("err = %v, want ErrNotFound", err)
		}
	})

	t.Run("admin cancels on behalf of owner", func(t *testing.T) {
		req := open(t)
		if err := svc.Cancel(ctx, req.ID, admin.ID, admin.Role); err != nil {
			t.Fatal(err)
		}
	})

	t.Run("another member cannot cancel", func(t *testing.T) {
		req := open(t)
		if err := svc.Cancel(ctx, req.ID, other.ID, other.Role); !errors.Is(err, oferrors.ErrForbidden) {
			t.Fatalf("err = %v, want ErrForbidden", err)
		}
	})

	t.Run("approved request cannot be cancelled", func(t *testing.T) {
		req := open(t)
		if _, err := svc.Approve(ctx, req.ID, leader.ID, leader.Role); err != nil {
			t.Fatal(err)
		}
		if err := svc.Cancel(ctx, req.ID, member.ID, member.Role); !errors.Is(err, oferrors.ErrInvalidState) {
			t.Fatalf("err = %v, want ErrInvalidState", err)
		}
	})
}

func TestRequestCompletion(t *testing.T) {
	db := newTestDB(t)
	ctx := testContext(t)
	svc := NewRequestService(db)

	member := newTestUser(t, db, "member", model.RoleMember)
	leader := newTestUser(t, db, "leader", model.RoleLeader)
	fn := newTestFunction(t, db, "health-check", model.RoleMember, nil)

	approved := func(t *testing.T) *model.Request {
		req, err := svc.Create(ctx, member.ID, member.Role, fn.ID, nil)
		if err != nil {
			t.Fatal(err)
		}
		req, err = svc.Approve(ctx, req.ID, leader.ID, leader.Role)
		if err != nil {
			t.Fatal(err)
		}
		return req
	}

	t.Run("complete records result and duration", func(t *testing.T) {
		req := approved(t)
		done, err := svc.Complete(ctx, req.ID, map[string]any{"status": "ok", "checked": float64(3)}, 42)
		if err != nil {
			t.Fatal(err)
		}
		if done.Status != model.StatusCompleted {
			t.Fatalf("status = %s, want completed", done.Status)
		}
		if done.ExecutionTimeMs == nil || *done.ExecutionTimeMs != 42 {
			t.Fatalf("execution time = %v", done.ExecutionTimeMs)
		}
		// the result map must survive the write and decode on read
		if done.ExecutionResult["status"] != "ok" || done.ExecutionResult["checked"] != float64(3) {
			t.Fatalf("execution result = %#v", done.ExecutionResult)
		}
	})

	t.Run("fail records the error", func(t *testing.T) {
		req := approved(t)
		failed, err := svc.Fail(ctx, req.ID, "upstream timeout")
		if err != nil {
			t.Fatal(err)
		}
		if failed.Status != model.StatusFailed || failed.ErrorMessage != "upstream timeout" {
			t.Fatalf("unexpected terminal state: %+v", failed)
		}
	})

	t.Run("terminal state is written once", func(t *testing.T) {
		req := approved(t)
		if _, err := svc.Complete(ctx, req.ID, nil, 1); err != nil {
			t.Fatal(err)
		}
		if _, err := svc.Fail(ctx, req.ID, "late failure"); !errors.Is(err, oferrors.ErrInvalidState) {
			t.Fatalf("err = %v, want ErrInvalidState", err)
		}
	})

	t.Run("pending request cannot complete", func(t *testing.T) {
		req, err := svc.Create(ctx, member.ID, member.Role, fn.ID, nil)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := svc.Complete(ctx, req.ID, nil, 1); !errors.Is(err, oferrors.ErrInvalidState) {
			t.Fatalf("err = %v, want ErrInvalidState", err)
		}
	})
}

func TestRequestListScoping(t *testing.T) {
	db := newTestDB(t)
	ctx := testContext(t)
	svc := NewRequestService(db)

	member := newTestUser(t, db, "member", model.RoleMember)
	other := newTestUser(t, db, "other", model.RoleMember)
	leader := newTestUser(t, db, "leader", model.RoleLeader)
	fn := newTestFunction(t, db, "health-check", model.RoleMember, nil)

	for _, u := range []*model.User{member, member, other} {
		if _, err := svc.Create(ctx, u.ID, u.Role, fn.ID, nil); err != nil {
			t.Fatal(err)
		}
	}

	t.Run("member sees own requests only", func(t *testing.T) {
		list, err := svc.List(ctx, member.ID, member.Role, &dto.RequestParams{})
		if err != nil {
			t.Fatal(err)
		}
		if len(list) != 2 {
			t.Fatalf("len = %d, want 2", len(list))
		}
		for _, req := range list {
			if req.UserID != member.ID {
				t.Fatalf("leaked request of %s", req.UserUsername)
			}
		}
	})

	t.Run("leader sees everything", func(t *testing.T) {
		list, err := svc.List(ctx, leader.ID, leader.Role, &dto.RequestParams{})
		if err != nil {
			t.Fatal(err)
		}
		if len(list) != 3 {
			t.Fatalf("len = %d, want 3", len(list))
		}
	})

	t.Run("status filter", func(t *testing.T) {
		list, err := svc.List(ctx, leader.ID, leader.Role, &dto.RequestParams{Status: string(model.StatusPending)})
		if err != nil {
			t.Fatal(err)
		}
		if len(list) != 3 {
			t.Fatalf("len = %d, want 3", len(list))
		}
	})

	t.Run("member cannot view a foreign request", func(t *testing.T) {
		list, err := svc.List(ctx, other.ID, other.Role, &dto.RequestParams{})
		if err != nil {
			t.Fatal(err)
		}
		if _, err := svc.Get(ctx, list[0].ID, member.ID, member.Role); !errors.Is(err, oferrors.ErrForbidden) {
			t.Fatalf("err = %v, want ErrForbidden", err)
		}
	})
}
