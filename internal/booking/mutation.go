package booking

import (
	"context"
	"database/sql"
	"fmt"

	dbgen "github.com/codr1/padelbook/internal/db/generated"
)

const (
	CancelByOrganizer  = "organizer_cancelled"
	CancelByWithdrawal = "participant_withdrew"
	CancelByAdmin      = "admin_cancelled"
	CancelByQuotaAudit = "quota_correction"
)

// CancelResult describes a cancellation that has been committed.
type CancelResult struct {
	Reservation     Reservation `json:"reservation"`
	Cause           string      `json:"cause"`
	TicketsRestored int         `json:"ticketsRestored"`
}

// CancelParticipation lets the organizer or a participant leave the
// reservation. Every reservation holds exactly four places, so any departure
// cancels the whole reservation and returns the consumed tickets to the
// organizer.
func (e *Engine) CancelParticipation(ctx context.Context, reservationID, actingMemberID int64) (CancelResult, error) {
	var result CancelResult
	err := e.write(ctx, func(ctx context.Context, q dbgen.Querier) error {
		res, err := loadReservation(ctx, q, reservationID)
		if err != nil {
			return err
		}
		if res.Status != StatusConfirmed {
			return newError(KindConflict, "This reservation is already cancelled.")
		}

		participants, err := q.ListReservationParticipants(ctx, res.ID)
		if err != nil {
			return fmt.Errorf("list participants of reservation %d: %w", res.ID, err)
		}
		cause := CancelByWithdrawal
		if actingMemberID == res.OrganizerID {
			cause = CancelByOrganizer
		} else if !hasParticipant(participants, actingMemberID) {
			return newError(KindForbidden, "Only the organizer or a participant can cancel this reservation.")
		}

		if !res.StartTime.After(e.now()) {
			return newError(KindInvalidWindow, "This reservation has already started.")
		}

		result, err = e.cancel(ctx, q, res, participants, cause)
		return err
	})
	if err != nil {
		return CancelResult{}, err
	}

	logger(ctx).Info().
		Int64("reservation_id", reservationID).
		Int64("member_id", actingMemberID).
		Str("cause", result.Cause).
		Int("tickets_restored", result.TicketsRestored).
		Msg("Reservation cancelled")
	return result, nil
}

// cancel moves a confirmed reservation to cancelled, restores the organizer's
// tickets and drops every participant link in one step.
func (e *Engine) cancel(ctx context.Context, q dbgen.Querier, res dbgen.Reservation, participants []dbgen.ListReservationParticipantsRow, cause string) (CancelResult, error) {
	now := e.now()
	rows, err := q.CancelReservation(ctx, dbgen.CancelReservationParams{
		CancelReason: sql.NullString{String: cause, Valid: true},
		CancelledAt:  sql.NullTime{Time: now, Valid: true},
		ID:           res.ID,
	})
	if err != nil {
		return CancelResult{}, fmt.Errorf("cancel reservation %d: %w", res.ID, err)
	}
	if rows == 0 {
		return CancelResult{}, newError(KindConflict, "This reservation is already cancelled.")
	}
	if err := adjustTickets(ctx, q, res.OrganizerID, res.TicketsConsumed); err != nil {
		return CancelResult{}, err
	}
	if err := q.DeleteReservationParticipants(ctx, res.ID); err != nil {
		return CancelResult{}, fmt.Errorf("delete participants of reservation %d: %w", res.ID, err)
	}

	res.Status = StatusCancelled
	res.CancelReason = sql.NullString{String: cause, Valid: true}
	res.CancelledAt = sql.NullTime{Time: now, Valid: true}
	return CancelResult{
		Reservation:     toReservation(res, participants),
		Cause:           cause,
		TicketsRestored: int(res.TicketsConsumed),
	}, nil
}

// UpdateComposition replaces the players and ticket count of a reservation
// that uses tickets. Only the organizer may do it, and not within the edit
// deadline before the start; past the deadline the consumed tickets stay
// spent.
func (e *Engine) UpdateComposition(ctx context.Context, reservationID, actingMemberID int64, newTicketCount int, newMemberIDs []int64) (Reservation, error) {
	log := logger(ctx).With().
		Int64("reservation_id", reservationID).
		Int64("member_id", actingMemberID).
		Logger()

	var (
		updated   Reservation
		forfeited int64
	)
	err := e.write(ctx, func(ctx context.Context, q dbgen.Querier) error {
		res, err := loadReservation(ctx, q, reservationID)
		if err != nil {
			return err
		}
		if res.Status != StatusConfirmed {
			return newError(KindConflict, "This reservation is cancelled.")
		}
		if res.OrganizerID != actingMemberID {
			return newError(KindForbidden, "Only the organizer can change the players of this reservation.")
		}
		if res.TicketsConsumed == 0 {
			return newError(KindInvalidComposition,
				"This reservation does not use tickets. Cancel it and book again to change players.")
		}
		if res.StartTime.Sub(e.now()) < e.editDeadline {
			forfeited = res.TicketsConsumed
			return newError(KindDeadlinePassed,
				"Changes are closed %d minutes before the start. The %d ticket(s) used are lost.",
				int(e.editDeadline.Minutes()), res.TicketsConsumed)
		}

		comp, err := NewComposition(newTicketCount, newMemberIDs)
		if err != nil {
			return err
		}
		if err := comp.requireOrganizer(res.OrganizerID); err != nil {
			return err
		}
		organizer, err := loadMember(ctx, q, res.OrganizerID)
		if err != nil {
			return err
		}
		members := make(map[int64]dbgen.Member, len(newMemberIDs))
		for _, id := range comp.Members() {
			if id == organizer.ID {
				continue
			}
			m, err := loadMember(ctx, q, id)
			if err != nil {
				return err
			}
			members[id] = m
		}

		// Restore then re-deduct, evaluated against the final balance.
		if organizer.TicketBalance+res.TicketsConsumed < int64(comp.Tickets()) {
			return newError(KindInsufficientTickets,
				"You need %d ticket(s) but only %d are available after returning the %d already used.",
				comp.Tickets(), organizer.TicketBalance+res.TicketsConsumed, res.TicketsConsumed)
		}

		for _, id := range comp.Members() {
			if id == organizer.ID {
				continue
			}
			if err := e.checkQuota(ctx, q, members[id], false, res.ID); err != nil {
				return err
			}
		}

		if err := q.DeleteReservationParticipants(ctx, res.ID); err != nil {
			return fmt.Errorf("delete participants of reservation %d: %w", res.ID, err)
		}
		for _, id := range comp.Members() {
			if err := q.AddParticipant(ctx, dbgen.AddParticipantParams{ReservationID: res.ID, MemberID: id}); err != nil {
				return fmt.Errorf("add participant %d to reservation %d: %w", id, res.ID, err)
			}
		}
		rows, err := q.UpdateReservationTickets(ctx, dbgen.UpdateReservationTicketsParams{
			TicketsConsumed: int64(comp.Tickets()),
			ID:              res.ID,
		})
		if err != nil {
			return fmt.Errorf("update tickets of reservation %d: %w", res.ID, err)
		}
		if rows == 0 {
			return newError(KindConflict, "This reservation is cancelled.")
		}
		if err := adjustTickets(ctx, q, organizer.ID, res.TicketsConsumed-int64(comp.Tickets())); err != nil {
			return err
		}

		row, err := loadReservation(ctx, q, res.ID)
		if err != nil {
			return err
		}
		updated, err = hydrate(ctx, q, row)
		return err
	})
	if err != nil {
		if forfeited > 0 {
			log.Info().Int64("tickets_forfeited", forfeited).Msg("Edit refused past deadline, tickets forfeited")
		} else {
			log.Debug().Err(err).Str("kind", KindOf(err).String()).Msg("Composition update rejected")
		}
		return Reservation{}, err
	}

	log.Info().
		Int("tickets", updated.TicketsConsumed).
		Int("participants", len(updated.Participants)).
		Msg("Reservation composition updated")
	return updated, nil
}

// ReplaceTickets fills every ticket place with a real player.
func (e *Engine) ReplaceTickets(ctx context.Context, reservationID, actingMemberID int64, memberIDs []int64) (Reservation, error) {
	return e.UpdateComposition(ctx, reservationID, actingMemberID, 0, memberIDs)
}

func hasParticipant(participants []dbgen.ListReservationParticipantsRow, memberID int64) bool {
	for _, p := range participants {
		if p.MemberID == memberID {
			return true
		}
	}
	return false
}
