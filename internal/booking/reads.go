package booking

import (
	"context"
	"fmt"
	"time"

	dbgen "github.com/codr1/padelbook/internal/db/generated"
)

func (e *Engine) GetMember(ctx context.Context, id int64) (Member, error) {
	var member Member
	err := e.read(ctx, func(ctx context.Context, q dbgen.Querier) error {
		m, err := loadMember(ctx, q, id)
		if err != nil {
			return err
		}
		member = toMember(m)
		return nil
	})
	return member, err
}

func (e *Engine) ListCourts(ctx context.Context) ([]Court, error) {
	var courts []Court
	err := e.read(ctx, func(ctx context.Context, q dbgen.Querier) error {
		rows, err := q.ListCourts(ctx)
		if err != nil {
			return fmt.Errorf("list courts: %w", err)
		}
		courts = make([]Court, 0, len(rows))
		for _, c := range rows {
			courts = append(courts, toCourt(c))
		}
		return nil
	})
	return courts, err
}

// GetReservation returns a reservation with its participants, whatever its
// status.
func (e *Engine) GetReservation(ctx context.Context, id int64) (Reservation, error) {
	var res Reservation
	err := e.read(ctx, func(ctx context.Context, q dbgen.Querier) error {
		row, err := loadReservation(ctx, q, id)
		if err != nil {
			return err
		}
		res, err = hydrate(ctx, q, row)
		return err
	})
	return res, err
}

// ListReservations returns confirmed reservations starting in [from, to).
func (e *Engine) ListReservations(ctx context.Context, from, to time.Time) ([]Reservation, error) {
	if !from.Before(to) {
		return nil, newError(KindInvalidWindow, "The end of the range must be after its start.")
	}
	var out []Reservation
	err := e.read(ctx, func(ctx context.Context, q dbgen.Querier) error {
		rows, err := q.ListReservationsBetween(ctx, dbgen.ListReservationsBetweenParams{
			FromTime: from.UTC(),
			ToTime:   to.UTC(),
		})
		if err != nil {
			return fmt.Errorf("list reservations: %w", err)
		}
		out = make([]Reservation, 0, len(rows))
		for _, row := range rows {
			res, err := hydrate(ctx, q, row)
			if err != nil {
				return err
			}
			out = append(out, res)
		}
		return nil
	})
	return out, err
}

// ListMemberReservations returns the member's active reservations, the ones
// counted by the quota, earliest first.
func (e *Engine) ListMemberReservations(ctx context.Context, memberID int64) ([]Reservation, error) {
	var out []Reservation
	err := e.read(ctx, func(ctx context.Context, q dbgen.Querier) error {
		if _, err := loadMember(ctx, q, memberID); err != nil {
			return err
		}
		active, err := q.ListActiveReservationsForMember(ctx, dbgen.ListActiveReservationsForMemberParams{
			Now:      e.now(),
			MemberID: memberID,
		})
		if err != nil {
			return fmt.Errorf("list active reservations of member %d: %w", memberID, err)
		}
		out = make([]Reservation, 0, len(active))
		for _, a := range active {
			row, err := loadReservation(ctx, q, a.ID)
			if err != nil {
				return err
			}
			res, err := hydrate(ctx, q, row)
			if err != nil {
				return err
			}
			out = append(out, res)
		}
		return nil
	})
	return out, err
}
