package booking

import (
	"context"
	"fmt"

	dbgen "github.com/codr1/padelbook/internal/db/generated"
)

// AuditReport summarizes one quota enforcement run.
type AuditReport struct {
	MembersChecked   int     `json:"membersChecked"`
	MembersCorrected int     `json:"membersCorrected"`
	Cancelled        []int64 `json:"cancelled"`
	TicketsRestored  int     `json:"ticketsRestored"`
}

// EnforceQuota cancels active reservations beyond the quota. For each member
// over the limit the earliest reservations are kept and the rest are
// cancelled, returning tickets to their organizers.
func (e *Engine) EnforceQuota(ctx context.Context) (AuditReport, error) {
	report := AuditReport{Cancelled: []int64{}}
	err := e.write(ctx, func(ctx context.Context, q dbgen.Querier) error {
		report = AuditReport{Cancelled: []int64{}}
		members, err := q.ListMembers(ctx)
		if err != nil {
			return fmt.Errorf("list members: %w", err)
		}
		for _, m := range members {
			report.MembersChecked++
			active, err := q.ListActiveReservationsForMember(ctx, dbgen.ListActiveReservationsForMemberParams{
				Now:      e.now(),
				MemberID: m.ID,
			})
			if err != nil {
				return fmt.Errorf("list active reservations of member %d: %w", m.ID, err)
			}
			if len(active) <= e.maxActive {
				continue
			}

			report.MembersCorrected++
			for _, extra := range active[e.maxActive:] {
				res, err := loadReservation(ctx, q, extra.ID)
				if err != nil {
					return err
				}
				participants, err := q.ListReservationParticipants(ctx, res.ID)
				if err != nil {
					return fmt.Errorf("list participants of reservation %d: %w", res.ID, err)
				}
				result, err := e.cancel(ctx, q, res, participants, CancelByQuotaAudit)
				if err != nil {
					return err
				}
				report.Cancelled = append(report.Cancelled, res.ID)
				report.TicketsRestored += result.TicketsRestored

				logger(ctx).Warn().
					Int64("member_id", m.ID).
					Int64("reservation_id", res.ID).
					Int("active", len(active)).
					Msg("Reservation cancelled by quota audit")
			}
		}
		return nil
	})
	if err != nil {
		return AuditReport{}, err
	}

	logger(ctx).Info().
		Int("members_checked", report.MembersChecked).
		Int("members_corrected", report.MembersCorrected).
		Int("cancelled", len(report.Cancelled)).
		Msg("Quota audit finished")
	return report, nil
}
