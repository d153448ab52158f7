package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"

	"github.com/codr1/padelbook/internal/booking"
)

const QuotaAuditJobName = "quota_audit"

// QuotaEnforcer cancels reservations beyond the active booking quota.
type QuotaEnforcer interface {
	EnforceQuota(ctx context.Context) (booking.AuditReport, error)
}

// RegisterQuotaAuditJob schedules the quota audit. Each run gets timeout.
func (s *Service) RegisterQuotaAuditJob(enforcer QuotaEnforcer, cronExpr string, timeout time.Duration) (gocron.Job, error) {
	if enforcer == nil {
		return nil, fmt.Errorf("quota audit job requires a booking engine")
	}
	return s.AddJob(QuotaAuditJobName, cronExpr, func() error {
		_, err := RunQuotaAudit(context.Background(), enforcer, timeout)
		return err
	})
}

// RunQuotaAudit runs one audit and logs its report.
func RunQuotaAudit(ctx context.Context, enforcer QuotaEnforcer, timeout time.Duration) (booking.AuditReport, error) {
	jobLogger := log.With().Str("component", "quota_audit_job").Logger()
	ctx = jobLogger.WithContext(ctx)
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	report, err := enforcer.EnforceQuota(ctx)
	if err != nil {
		return report, fmt.Errorf("enforce quota: %w", err)
	}

	event := jobLogger.Info()
	if report.MembersCorrected > 0 {
		event = jobLogger.Warn()
	}
	event.
		Int("members_checked", report.MembersChecked).
		Int("members_corrected", report.MembersCorrected).
		Int("reservations_cancelled", len(report.Cancelled)).
		Int("tickets_restored", report.TicketsRestored).
		Msg("Quota audit completed")
	return report, nil
}
