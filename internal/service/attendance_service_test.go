package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/khedma/sunday-school-backend/internal/model"
	"github.com/khedma/sunday-school-backend/internal/timewindow"
	"github.com/rs/zerolog"
)

// Saturday 6 January 2024 in Cairo (UTC+2): start 14:00Z, cutoff 14:45Z.
var (
	saturdayCutoff = time.Date(2024, time.January, 6, 14, 45, 0, 0, time.UTC)
	friday         = time.Date(2024, time.January, 5, 14, 0, 0, 0, time.UTC)
)

type recordingFeed struct {
	mu     sync.Mutex
	events []model.AttendanceEvent
}

func (f *recordingFeed) Publish(_ context.Context, evt model.AttendanceEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, evt)
	return nil
}

func newAttendanceService(t *testing.T, store *memStore, now time.Time, feed FeedPublisher) *AttendanceService {
	t.Helper()
	resolver, err := timewindow.NewFromConfig("Africa/Cairo", "Saturday", "16:00", "16:45")
	if err != nil {
		t.Fatalf("resolver: %v", err)
	}
	clock := timewindow.ClockFunc(func() time.Time { return now })
	return NewAttendanceService(store, resolver, clock, feed, zerolog.Nop())
}

func TestMarkAttendanceClassifiesAgainstCutoff(t *testing.T) {
	tests := []struct {
		name       string
		now        time.Time
		wantStatus model.AttendanceStatus
		wantPoints int
	}{
		{"before cutoff", saturdayCutoff.Add(-30 * time.Minute), model.AttendanceOnTime, 10},
		{"exactly at cutoff", saturdayCutoff, model.AttendanceOnTime, 10},
		{"one second late", saturdayCutoff.Add(time.Second), model.AttendanceLate, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.reason(t, "Attendance", 10, model.CategoryAttendance, model.LimitNone, model.AllRoles...)
			st := f.student(t, "Mina", f.boys)
			feed := &recordingFeed{}
			svc := newAttendanceService(t, f.store, tt.now, feed)

			res, err := svc.MarkAttendance(context.Background(), f.gate, st.ID)
			if err != nil {
				t.Fatalf("MarkAttendance: %v", err)
			}
			if res.Attendance.Status != tt.wantStatus {
				t.Errorf("status = %s, want %s", res.Attendance.Status, tt.wantStatus)
			}
			if res.Points != tt.wantPoints {
				t.Errorf("points = %d, want %d", res.Points, tt.wantPoints)
			}
			if res.Attendance.PointTransactionID == nil {
				t.Error("attendance is not linked to a ledger entry")
			}

			bal, _ := f.store.SumPoints(context.Background(), st.ID)
			if bal != tt.wantPoints {
				t.Errorf("balance = %d, want %d", bal, tt.wantPoints)
			}
			if got := f.store.auditActions(); len(got) != 1 || got[0] != model.AuditAttendanceMarked {
				t.Errorf("audit = %v", got)
			}
			if len(feed.events) != 1 || feed.events[0].Date != "2024-01-06" {
				t.Errorf("feed events = %+v", feed.events)
			}
		})
	}
}

func TestMarkAttendanceTwiceIsConflict(t *testing.T) {
	f := newFixture(t)
	f.reason(t, "Attendance", 10, model.CategoryAttendance, model.LimitNone, model.AllRoles...)
	st := f.student(t, "Mina", f.boys)
	svc := newAttendanceService(t, f.store, saturdayCutoff.Add(-time.Minute), nil)
	ctx := context.Background()

	if _, err := svc.MarkAttendance(ctx, f.gate, st.ID); err != nil {
		t.Fatalf("first mark: %v", err)
	}
	_, err := svc.MarkAttendance(ctx, f.gate, st.ID)
	if !errors.Is(err, ErrAttendanceExists) {
		t.Fatalf("err = %v, want ErrAttendanceExists", err)
	}
	if KindOf(err) != KindConflict {
		t.Errorf("kind = %s, want conflict", KindOf(err))
	}
	if n := f.store.txnCount(); n != 1 {
		t.Errorf("ledger rows = %d, want 1", n)
	}
}

func TestMarkAttendanceConcurrentOnlyOneWins(t *testing.T) {
	f := newFixture(t)
	f.reason(t, "Attendance", 10, model.CategoryAttendance, model.LimitNone, model.AllRoles...)
	st := f.student(t, "Mina", f.boys)
	svc := newAttendanceService(t, f.store, saturdayCutoff.Add(-time.Minute), nil)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.MarkAttendance(context.Background(), f.gate, st.ID); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			} else if !errors.Is(err, ErrAttendanceExists) {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if successes != 1 {
		t.Errorf("successes = %d, want 1", successes)
	}
	if n := f.store.attendanceCount(); n != 1 {
		t.Errorf("attendance rows = %d, want 1", n)
	}
	if n := f.store.txnCount(); n != 1 {
		t.Errorf("ledger rows = %d, want 1", n)
	}
}

func TestMarkAttendanceServantScope(t *testing.T) {
	f := newFixture(t)
	f.reason(t, "Attendance", 10, model.CategoryAttendance, model.LimitNone, model.AllRoles...)
	mine := f.student(t, "Mina", f.boys)
	other := f.student(t, "Mariam", f.girls)
	f.assign(t, f.servant, f.boys)
	svc := newAttendanceService(t, f.store, saturdayCutoff.Add(-time.Minute), nil)
	ctx := context.Background()

	if _, err := svc.MarkAttendance(ctx, f.servant, mine.ID); err != nil {
		t.Fatalf("assigned class: %v", err)
	}
	_, err := svc.MarkAttendance(ctx, f.servant, other.ID)
	if !errors.Is(err, ErrNotAssigned) {
		t.Fatalf("err = %v, want ErrNotAssigned", err)
	}
	if KindOf(err) != KindForbidden {
		t.Errorf("kind = %s, want forbidden", KindOf(err))
	}
	if n := f.store.attendanceCount(); n != 1 {
		t.Errorf("attendance rows = %d, want 1", n)
	}
}

func TestMarkAttendanceRefusals(t *testing.T) {
	ctx := context.Background()

	t.Run("not attendance day", func(t *testing.T) {
		f := newFixture(t)
		f.reason(t, "Attendance", 10, model.CategoryAttendance, model.LimitNone, model.AllRoles...)
		st := f.student(t, "Mina", f.boys)
		svc := newAttendanceService(t, f.store, friday, nil)

		if _, err := svc.MarkAttendance(ctx, f.gate, st.ID); !errors.Is(err, ErrNotAttendanceDay) {
			t.Fatalf("err = %v, want ErrNotAttendanceDay", err)
		}
		if len(f.store.st.sessions) != 0 {
			t.Error("session created on a non-attendance day")
		}
	})

	t.Run("session closed", func(t *testing.T) {
		f := newFixture(t)
		f.reason(t, "Attendance", 10, model.CategoryAttendance, model.LimitNone, model.AllRoles...)
		st := f.student(t, "Mina", f.boys)
		svc := newAttendanceService(t, f.store, saturdayCutoff, nil)

		if _, err := svc.SetTodaySessionStatus(ctx, f.admin, model.SessionClosed); err != nil {
			t.Fatalf("close: %v", err)
		}
		if _, err := svc.MarkAttendance(ctx, f.gate, st.ID); !errors.Is(err, ErrSessionNotOpen) {
			t.Fatalf("err = %v, want ErrSessionNotOpen", err)
		}
	})

	t.Run("no attendance reason", func(t *testing.T) {
		f := newFixture(t)
		st := f.student(t, "Mina", f.boys)
		svc := newAttendanceService(t, f.store, saturdayCutoff, nil)

		if _, err := svc.MarkAttendance(ctx, f.gate, st.ID); !errors.Is(err, ErrNoAttendanceReason) {
			t.Fatalf("err = %v, want ErrNoAttendanceReason", err)
		}
	})

	t.Run("inactive student", func(t *testing.T) {
		f := newFixture(t)
		f.reason(t, "Attendance", 10, model.CategoryAttendance, model.LimitNone, model.AllRoles...)
		st := f.student(t, "Mina", f.boys)
		_ = f.store.DeactivateStudent(ctx, st.ID)
		svc := newAttendanceService(t, f.store, saturdayCutoff, nil)

		if _, err := svc.MarkAttendance(ctx, f.gate, st.ID); !errors.Is(err, ErrStudentNotFound) {
			t.Fatalf("err = %v, want ErrStudentNotFound", err)
		}
	})
}

func TestMarkAttendanceRollsBackWhenAuditFails(t *testing.T) {
	f := newFixture(t)
	f.reason(t, "Attendance", 10, model.CategoryAttendance, model.LimitNone, model.AllRoles...)
	st := f.student(t, "Mina", f.boys)
	feed := &recordingFeed{}
	svc := newAttendanceService(t, f.store, saturdayCutoff, feed)
	f.store.auditErr = errors.New("audit unavailable")

	if _, err := svc.MarkAttendance(context.Background(), f.gate, st.ID); err == nil {
		t.Fatal("expected error")
	}
	if n := f.store.attendanceCount(); n != 0 {
		t.Errorf("attendance rows = %d, want 0", n)
	}
	if n := f.store.txnCount(); n != 0 {
		t.Errorf("ledger rows = %d, want 0", n)
	}
	if len(feed.events) != 0 {
		t.Error("event published for a rolled back check-in")
	}
}

func TestEnsureSessionConcurrentCreatesOne(t *testing.T) {
	f := newFixture(t)
	svc := newAttendanceService(t, f.store, saturdayCutoff, nil)

	var wg sync.WaitGroup
	ids := make(chan string, 10)
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s, err := svc.EnsureSessionForToday(context.Background(), f.gate)
			if err != nil {
				t.Errorf("EnsureSessionForToday: %v", err)
				return
			}
			ids <- s.ID.String()
		}()
	}
	wg.Wait()
	close(ids)

	seen := map[string]bool{}
	for id := range ids {
		seen[id] = true
	}
	if len(seen) != 1 {
		t.Errorf("distinct session ids = %d, want 1", len(seen))
	}
	if f.store.sessionInserts != 1 {
		t.Errorf("inserts = %d, want 1", f.store.sessionInserts)
	}
}

func TestTodayRoster(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.reason(t, "Attendance", 10, model.CategoryAttendance, model.LimitNone, model.AllRoles...)
	present := f.student(t, "Mina", f.boys)
	absent := f.student(t, "Youssef", f.boys)

	t.Run("attendance day", func(t *testing.T) {
		svc := newAttendanceService(t, f.store, saturdayCutoff, nil)
		if _, err := svc.MarkAttendance(ctx, f.gate, present.ID); err != nil {
			t.Fatalf("mark: %v", err)
		}
		roster, err := svc.TodayRoster(ctx, f.gate, f.boys.ID)
		if err != nil {
			t.Fatalf("TodayRoster: %v", err)
		}
		if !roster.IsAttendanceDay || roster.Session == nil {
			t.Fatalf("roster = %+v", roster)
		}
		for _, e := range roster.Students {
			switch e.Student.ID {
			case present.ID:
				if e.Attendance == nil {
					t.Error("present student has no attendance")
				}
			case absent.ID:
				if e.Attendance != nil {
					t.Error("absent student has attendance")
				}
			}
		}
	})

	t.Run("other day", func(t *testing.T) {
		svc := newAttendanceService(t, f.store, friday, nil)
		roster, err := svc.TodayRoster(ctx, f.gate, f.boys.ID)
		if err != nil {
			t.Fatalf("TodayRoster: %v", err)
		}
		if roster.IsAttendanceDay || roster.Session != nil || roster.Message == "" {
			t.Errorf("roster = %+v", roster)
		}
		if len(roster.Students) != 2 {
			t.Errorf("students = %d, want 2", len(roster.Students))
		}
	})
}

func TestSetTodaySessionStatusRequiresCapability(t *testing.T) {
	f := newFixture(t)
	svc := newAttendanceService(t, f.store, saturdayCutoff, nil)

	if _, err := svc.SetTodaySessionStatus(context.Background(), f.servant, model.SessionClosed); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("err = %v, want ErrPermissionDenied", err)
	}
	s, err := svc.SetTodaySessionStatus(context.Background(), f.super, model.SessionCancelled)
	if err != nil {
		t.Fatalf("SetTodaySessionStatus: %v", err)
	}
	if s.Status != model.SessionCancelled {
		t.Errorf("status = %s", s.Status)
	}
	if got := f.store.auditActions(); len(got) != 1 || got[0] != model.AuditSessionStatusChanged {
		t.Errorf("audit = %v", got)
	}
}
