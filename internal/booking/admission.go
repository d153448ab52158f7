package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	dbgen "github.com/codr1/padelbook/internal/db/generated"
)

// CreateRequest asks for a reservation of one court.
type CreateRequest struct {
	OrganizerID int64
	CourtID     int64
	Start       time.Time
	// DurationMinutes defaults to the slot grid length at Start when zero.
	DurationMinutes int
	Composition     Composition
	// Tickets and MemberIDs describe the composition when Composition is
	// the zero value. They are validated after the organizer check.
	Tickets   int
	MemberIDs []int64
}

// Override lists the admission checks an administrator may bypass. The court
// active check and the ticket balance check cannot be bypassed.
type Override struct {
	SkipDateCheck         bool `json:"skipDateCheck"`
	SkipQuotaCheck        bool `json:"skipQuotaCheck"`
	SkipAvailabilityCheck bool `json:"skipAvailabilityCheck"`
}

// CreateReservation admits a member booking. All checks run inside the
// write transaction, so two requests for the same window cannot both commit.
func (e *Engine) CreateReservation(ctx context.Context, req CreateRequest) (Reservation, error) {
	return e.admit(ctx, req, Override{})
}

// AdminCreateReservation books on behalf of req.OrganizerID with the given
// bypasses. actorID must be an administrator.
func (e *Engine) AdminCreateReservation(ctx context.Context, actorID int64, req CreateRequest, override Override) (Reservation, error) {
	err := e.read(ctx, func(ctx context.Context, q dbgen.Querier) error {
		_, err := requireAdmin(ctx, q, actorID)
		return err
	})
	if err != nil {
		return Reservation{}, err
	}
	return e.admit(ctx, req, override)
}

func (e *Engine) admit(ctx context.Context, req CreateRequest, override Override) (Reservation, error) {
	log := logger(ctx).With().
		Int64("organizer_id", req.OrganizerID).
		Int64("court_id", req.CourtID).
		Logger()

	start, end, duration, err := normalizeWindow(req.Start, req.DurationMinutes, e.loc)
	if err != nil {
		return Reservation{}, err
	}

	var created Reservation
	err = e.write(ctx, func(ctx context.Context, q dbgen.Querier) error {
		// 1. organizer may book
		organizer, err := loadMember(ctx, q, req.OrganizerID)
		if err != nil {
			return err
		}
		if organizer.Blocked && organizer.Role != RoleAdmin {
			return newError(KindForbidden, "Your account is blocked. Contact the club to book again.")
		}

		// 2. composition
		comp := req.Composition
		if comp.Mode() == 0 && (req.Tickets != 0 || len(req.MemberIDs) > 0) {
			if comp, err = NewComposition(req.Tickets, req.MemberIDs); err != nil {
				return err
			}
		}
		if err := comp.requireOrganizer(organizer.ID); err != nil {
			return err
		}
		members := map[int64]dbgen.Member{organizer.ID: organizer}
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

		// 3. court exists and is active, never bypassed
		court, err := loadCourt(ctx, q, req.CourtID)
		if err != nil {
			return err
		}
		if !court.Active {
			return newError(KindResourceInactive, "%s is closed for maintenance.", court.Name)
		}

		// 4. start in the future
		if !override.SkipDateCheck && !start.After(e.now()) {
			return newError(KindInvalidWindow, "Bookings must start in the future.")
		}

		// 5. tickets
		if comp.UsesTickets() && organizer.TicketBalance < int64(comp.Tickets()) {
			return newError(KindInsufficientTickets,
				"You need %d ticket(s) but only have %d.", comp.Tickets(), organizer.TicketBalance)
		}

		// 6 and 7. quota for every player, organizer first
		if !override.SkipQuotaCheck {
			if err := e.checkQuota(ctx, q, organizer, true, 0); err != nil {
				return err
			}
			for _, id := range comp.Members() {
				if id == organizer.ID {
					continue
				}
				if err := e.checkQuota(ctx, q, members[id], false, 0); err != nil {
					return err
				}
			}
		}

		// 8. availability
		result, reason, err := e.checkAvailability(ctx, q, availabilityCheck{
			courtID:    court.ID,
			start:      start,
			end:        end,
			skipBlocks: override.SkipAvailabilityCheck,
		})
		if err != nil {
			return err
		}
		switch result {
		case available:
		case courtMissing:
			return newError(KindNotFound, "%s", reason)
		case courtInactive:
			return newError(KindResourceInactive, "%s", reason)
		default:
			return newError(KindConflict, "%s", reason)
		}

		id, err := q.CreateReservation(ctx, dbgen.CreateReservationParams{
			OrganizerID:     organizer.ID,
			CourtID:         court.ID,
			StartTime:       start,
			EndTime:         end,
			DurationMinutes: int64(duration),
			TicketsConsumed: int64(comp.Tickets()),
			CreatedAt:       e.now(),
		})
		if err != nil {
			return fmt.Errorf("insert reservation: %w", err)
		}
		for _, memberID := range comp.Members() {
			if err := q.AddParticipant(ctx, dbgen.AddParticipantParams{ReservationID: id, MemberID: memberID}); err != nil {
				return fmt.Errorf("add participant %d to reservation %d: %w", memberID, id, err)
			}
		}
		if comp.UsesTickets() {
			if err := adjustTickets(ctx, q, organizer.ID, -int64(comp.Tickets())); err != nil {
				return err
			}
		}

		row, err := loadReservation(ctx, q, id)
		if err != nil {
			return err
		}
		created, err = hydrate(ctx, q, row)
		return err
	})
	if err != nil {
		log.Debug().Err(err).Str("kind", KindOf(err).String()).Msg("Reservation rejected")
		return Reservation{}, err
	}

	log.Info().
		Int64("reservation_id", created.ID).
		Time("start", created.Start).
		Int("tickets", created.TicketsConsumed).
		Msg("Reservation created")
	return created, nil
}

func (e *Engine) checkQuota(ctx context.Context, q dbgen.Querier, member dbgen.Member, isOrganizer bool, excludingID int64) error {
	result, err := e.evaluateQuota(ctx, q, member, excludingID)
	if err != nil {
		return err
	}
	if result.Allowed {
		return nil
	}
	return quotaError(member, result, isOrganizer)
}

// normalizeWindow resolves the duration and rejects windows the grid cannot
// hold. Starts are truncated to the minute.
func normalizeWindow(start time.Time, durationMinutes int, loc *time.Location) (time.Time, time.Time, int, error) {
	if start.IsZero() {
		return time.Time{}, time.Time{}, 0, newError(KindInvalidWindow, "A start time is required.")
	}
	start = start.UTC().Truncate(time.Minute)
	if durationMinutes == 0 {
		durationMinutes = NominalDuration(start.In(loc))
	}
	if durationMinutes < 1 || durationMinutes > StandardSlotMinutes {
		return time.Time{}, time.Time{}, 0, newError(KindInvalidWindow,
			"Duration must be between 1 and %d minutes.", StandardSlotMinutes)
	}
	end := start.Add(time.Duration(durationMinutes) * time.Minute)
	return start, end, durationMinutes, nil
}

// adjustTickets applies delta to a member balance. The store refuses any
// change that would take the balance below zero.
func adjustTickets(ctx context.Context, q dbgen.Querier, memberID, delta int64) error {
	if delta == 0 {
		return nil
	}
	_, err := q.AdjustMemberTickets(ctx, dbgen.AdjustMemberTicketsParams{Delta: delta, ID: memberID})
	if errors.Is(err, sql.ErrNoRows) {
		return newError(KindInsufficientTickets, "Not enough tickets for this change.")
	}
	if err != nil {
		return fmt.Errorf("adjust tickets of member %d by %d: %w", memberID, delta, err)
	}
	return nil
}
