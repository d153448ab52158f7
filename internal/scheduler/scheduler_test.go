package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/codr1/padelbook/internal/booking"
	"github.com/codr1/padelbook/internal/clock"
	"github.com/codr1/padelbook/internal/testutil"
)

type fakeEnforcer struct {
	report   booking.AuditReport
	err      error
	calls    int
	deadline bool
}

func (f *fakeEnforcer) EnforceQuota(ctx context.Context) (booking.AuditReport, error) {
	f.calls++
	_, f.deadline = ctx.Deadline()
	return f.report, f.err
}

func newService(t *testing.T) *Service {
	t.Helper()
	svc, err := New()
	if err != nil {
		t.Fatalf("new scheduler: %v", err)
	}
	t.Cleanup(func() {
		_ = svc.Stop()
	})
	return svc
}

func TestAddJobValidation(t *testing.T) {
	svc := newService(t)
	noop := func() error { return nil }

	tests := []struct {
		name     string
		jobName  string
		cronExpr string
		wantErr  error
	}{
		{"empty name", " ", "0 * * * *", ErrEmptyJobName},
		{"empty cron", "job", "", ErrEmptyCronExpr},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.AddJob(tt.jobName, tt.cronExpr, noop); !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}

	if _, err := svc.AddJob("job", "not a cron", noop); err == nil {
		t.Fatal("expected error for invalid cron expression")
	}

	var nilService *Service
	if _, err := nilService.AddJob("job", "0 * * * *", noop); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("expected ErrNotInitialized, got %v", err)
	}
	if err := nilService.Stop(); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("expected ErrNotInitialized, got %v", err)
	}
}

func TestRegisterQuotaAuditJob(t *testing.T) {
	svc := newService(t)

	if _, err := svc.RegisterQuotaAuditJob(nil, "0 * * * *", time.Second); err == nil {
		t.Fatal("expected error without enforcer")
	}

	job, err := svc.RegisterQuotaAuditJob(&fakeEnforcer{}, "0 * * * *", time.Second)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if job.Name() != QuotaAuditJobName {
		t.Fatalf("unexpected job name %q", job.Name())
	}
}

func TestRunQuotaAudit(t *testing.T) {
	enforcer := &fakeEnforcer{report: booking.AuditReport{MembersChecked: 4, MembersCorrected: 1, Cancelled: []int64{9}, TicketsRestored: 2}}

	report, err := RunQuotaAudit(context.Background(), enforcer, time.Second)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if enforcer.calls != 1 || !enforcer.deadline {
		t.Fatalf("expected one call with a deadline, got calls=%d deadline=%v", enforcer.calls, enforcer.deadline)
	}
	if report.TicketsRestored != 2 || len(report.Cancelled) != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}

	failing := &fakeEnforcer{err: booking.ErrConflict}
	if _, err := RunQuotaAudit(context.Background(), failing, 0); !errors.Is(err, booking.ErrConflict) {
		t.Fatalf("expected wrapped engine error, got %v", err)
	}
	if failing.deadline {
		t.Fatal("zero timeout should not set a deadline")
	}
}

func TestRunQuotaAuditAgainstEngine(t *testing.T) {
	database := testutil.NewTestDB(t)
	engine := booking.New(booking.NewStore(database, 2), clock.NewFixed(time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)), booking.Options{MaxActive: 1})
	member := testutil.SeedMember(t, database, testutil.MemberOpts{})
	first := testutil.SeedReservation(t, database, member.ID, 1, time.Date(2026, 10, 20, 9, 0, 0, 0, time.UTC), 90, 3, member.ID)
	second := testutil.SeedReservation(t, database, member.ID, 1, time.Date(2026, 10, 21, 9, 0, 0, 0, time.UTC), 90, 3, member.ID)

	report, err := RunQuotaAudit(context.Background(), engine, 5*time.Second)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(report.Cancelled) != 1 || report.Cancelled[0] != second.ID {
		t.Fatalf("expected reservation %d cancelled, got %v", second.ID, report.Cancelled)
	}

	kept, err := database.Queries.GetReservationByID(context.Background(), first.ID)
	if err != nil {
		t.Fatalf("load kept reservation: %v", err)
	}
	if kept.Status != booking.StatusConfirmed {
		t.Fatalf("earliest reservation should be kept, got %s", kept.Status)
	}
}
