package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/khedma/sunday-school-backend/internal/model"
	"github.com/khedma/sunday-school-backend/internal/timewindow"
	"github.com/rs/zerolog"
)

func newPointsService(store *memStore, now *time.Time) *PointsService {
	svc := NewPointsService(store, timewindow.ClockFunc(func() time.Time { return *now }), zerolog.Nop())
	svc.monthLoc = time.UTC
	return svc
}

func TestGrantByReasonMonthlyLimit(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	st := f.student(t, "Mina", f.boys)
	mass := f.reason(t, "Monthly mass", 20, model.CategoryMass, model.LimitOncePerCalendarMonth, model.AllRoles...)

	now := time.Date(2024, time.March, 3, 10, 0, 0, 0, time.UTC)
	svc := newPointsService(f.store, &now)
	req := model.GrantByReasonRequest{StudentID: st.ID, ReasonID: mass.ID}

	if _, err := svc.GrantByReason(ctx, f.servant, req); err != nil {
		t.Fatalf("first grant: %v", err)
	}

	now = time.Date(2024, time.March, 31, 23, 59, 0, 0, time.UTC)
	_, err := svc.GrantByReason(ctx, f.servant, req)
	if !errors.Is(err, ErrMonthlyLimit) {
		t.Fatalf("same month: err = %v, want ErrMonthlyLimit", err)
	}
	if KindOf(err) != KindConflict {
		t.Errorf("kind = %s, want conflict", KindOf(err))
	}

	now = time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)
	if _, err := svc.GrantByReason(ctx, f.servant, req); err != nil {
		t.Fatalf("next month: %v", err)
	}

	bal, err := svc.Balance(ctx, st.ID)
	if err != nil {
		t.Fatalf("Balance: %v", err)
	}
	if bal.Balance != 40 {
		t.Errorf("balance = %d, want 40", bal.Balance)
	}
}

func TestGrantByReasonMonthlyLimitConcurrent(t *testing.T) {
	f := newFixture(t)
	st := f.student(t, "Mina", f.boys)
	mass := f.reason(t, "Monthly mass", 20, model.CategoryMass, model.LimitOncePerCalendarMonth, model.AllRoles...)
	now := time.Date(2024, time.March, 3, 10, 0, 0, 0, time.UTC)
	svc := newPointsService(f.store, &now)

	var (
		wg sync.WaitGroup
		mu sync.Mutex
		ok int
	)
	for range 6 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.GrantByReason(context.Background(), f.servant, model.GrantByReasonRequest{StudentID: st.ID, ReasonID: mass.ID})
			if err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if ok != 1 {
		t.Errorf("successful grants = %d, want 1", ok)
	}
}

func TestGrantByReasonRoleAndState(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	st := f.student(t, "Mina", f.boys)
	adminOnly := f.reason(t, "Competition", 50, model.CategoryOther, model.LimitNone, model.RoleAdmin, model.RoleSuperAdmin)
	now := time.Date(2024, time.March, 3, 10, 0, 0, 0, time.UTC)
	svc := newPointsService(f.store, &now)

	_, err := svc.GrantByReason(ctx, f.servant, model.GrantByReasonRequest{StudentID: st.ID, ReasonID: adminOnly.ID})
	if !errors.Is(err, ErrReasonNotAllowed) {
		t.Fatalf("err = %v, want ErrReasonNotAllowed", err)
	}

	txn, err := svc.GrantByReason(ctx, f.admin, model.GrantByReasonRequest{StudentID: st.ID, ReasonID: adminOnly.ID})
	if err != nil {
		t.Fatalf("admin grant: %v", err)
	}
	if txn.Points != 50 || txn.ReasonID == nil || *txn.ReasonID != adminOnly.ID {
		t.Errorf("txn = %+v", txn)
	}
	if got := f.store.auditActions(); len(got) != 1 || got[0] != model.AuditTxnCreated {
		t.Errorf("audit = %v", got)
	}

	_ = f.store.DisableReason(ctx, adminOnly.ID)
	_, err = svc.GrantByReason(ctx, f.admin, model.GrantByReasonRequest{StudentID: st.ID, ReasonID: adminOnly.ID})
	if !errors.Is(err, ErrReasonNotFound) {
		t.Fatalf("disabled reason: err = %v, want ErrReasonNotFound", err)
	}
}

func TestGrantManual(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	st := f.student(t, "Mina", f.boys)
	now := time.Date(2024, time.March, 3, 10, 0, 0, 0, time.UTC)
	svc := newPointsService(f.store, &now)

	tests := []struct {
		name    string
		actor   model.Actor
		points  int
		text    string
		wantErr error
	}{
		{"servant forbidden", f.servant, 10, "helped", ErrManualForbidden},
		{"gate admin forbidden", f.gate, 10, "helped", ErrManualForbidden},
		{"zero points", f.admin, 0, "helped", ErrInvalidPoints},
		{"negative points", f.admin, -5, "helped", ErrInvalidPoints},
		{"above the cap", f.admin, maxManualPoints + 1, "helped", ErrInvalidPoints},
		{"beyond the column range", f.super, 1 << 31, "helped", ErrInvalidPoints},
		{"blank text", f.admin, 10, "   ", ErrManualTextRequired},
		{"admin ok", f.admin, 10, " helped clean up ", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txn, err := svc.GrantManual(ctx, tt.actor, model.GrantManualRequest{StudentID: st.ID, Points: tt.points, ManualText: tt.text})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && (txn.ManualText == nil || *txn.ManualText != "helped clean up") {
				t.Errorf("manual text = %v", txn.ManualText)
			}
		})
	}

	if got := f.store.auditActions(); len(got) != 1 || got[0] != model.AuditTxnManualCreated {
		t.Errorf("audit = %v", got)
	}
}

func TestGrantRollsBackWhenAuditFails(t *testing.T) {
	f := newFixture(t)
	st := f.student(t, "Mina", f.boys)
	r := f.reason(t, "Confession", 15, model.CategoryConfession, model.LimitNone, model.AllRoles...)
	now := time.Date(2024, time.March, 3, 10, 0, 0, 0, time.UTC)
	svc := newPointsService(f.store, &now)
	f.store.auditErr = errors.New("audit unavailable")

	if _, err := svc.GrantByReason(context.Background(), f.servant, model.GrantByReasonRequest{StudentID: st.ID, ReasonID: r.ID}); err == nil {
		t.Fatal("expected error")
	}
	if n := f.store.txnCount(); n != 0 {
		t.Errorf("ledger rows = %d, want 0", n)
	}
}

func TestMonthBounds(t *testing.T) {
	start, end := monthBounds(time.Date(2024, time.December, 15, 12, 0, 0, 0, time.UTC), time.UTC)
	if !start.Equal(time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("start = %s", start)
	}
	if !end.Equal(time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("end = %s", end)
	}
}
