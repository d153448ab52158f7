package booking

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	dbgen "github.com/codr1/padelbook/internal/db/generated"
)

// AdminCancelReservation cancels any confirmed reservation, including ones
// that already started, and restores the organizer's tickets.
func (e *Engine) AdminCancelReservation(ctx context.Context, actorID, reservationID int64) (CancelResult, error) {
	var result CancelResult
	err := e.write(ctx, func(ctx context.Context, q dbgen.Querier) error {
		if _, err := requireAdmin(ctx, q, actorID); err != nil {
			return err
		}
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
		result, err = e.cancel(ctx, q, res, participants, CancelByAdmin)
		return err
	})
	if err != nil {
		return CancelResult{}, err
	}

	logger(ctx).Info().
		Int64("reservation_id", reservationID).
		Int64("admin_id", actorID).
		Int("tickets_restored", result.TicketsRestored).
		Msg("Reservation cancelled by administrator")
	return result, nil
}

// SetMemberBlocked suspends or restores booking rights. Administrators cannot
// be blocked.
func (e *Engine) SetMemberBlocked(ctx context.Context, actorID, memberID int64, blocked bool) (Member, error) {
	var member Member
	err := e.write(ctx, func(ctx context.Context, q dbgen.Querier) error {
		if _, err := requireAdmin(ctx, q, actorID); err != nil {
			return err
		}
		target, err := loadMember(ctx, q, memberID)
		if err != nil {
			return err
		}
		if target.Role == RoleAdmin {
			return newError(KindForbidden, "Administrators cannot be blocked.")
		}
		if _, err := q.SetMemberBlocked(ctx, dbgen.SetMemberBlockedParams{Blocked: blocked, ID: memberID}); err != nil {
			return fmt.Errorf("set blocked on member %d: %w", memberID, err)
		}
		target.Blocked = blocked
		member = toMember(target)
		return nil
	})
	if err != nil {
		return Member{}, err
	}

	logger(ctx).Info().Int64("member_id", memberID).Bool("blocked", blocked).Msg("Member block state changed")
	return member, nil
}

// AdjustMemberTickets grants (positive delta) or revokes tickets. A balance
// never goes below zero.
func (e *Engine) AdjustMemberTickets(ctx context.Context, actorID, memberID int64, delta int) (Member, error) {
	var member Member
	err := e.write(ctx, func(ctx context.Context, q dbgen.Querier) error {
		if _, err := requireAdmin(ctx, q, actorID); err != nil {
			return err
		}
		target, err := loadMember(ctx, q, memberID)
		if err != nil {
			return err
		}
		if target.TicketBalance+int64(delta) < 0 {
			return newError(KindInsufficientTickets,
				"%s only has %d ticket(s).", fullName(target.FirstName, target.LastName), target.TicketBalance)
		}
		if err := adjustTickets(ctx, q, memberID, int64(delta)); err != nil {
			return err
		}
		target.TicketBalance += int64(delta)
		member = toMember(target)
		return nil
	})
	if err != nil {
		return Member{}, err
	}

	logger(ctx).Info().Int64("member_id", memberID).Int("delta", delta).Int("balance", member.TicketBalance).Msg("Ticket balance adjusted")
	return member, nil
}

// SetCourtActive opens a court or closes it for maintenance. Existing
// reservations are kept; new ones are refused while the court is closed.
func (e *Engine) SetCourtActive(ctx context.Context, actorID, courtID int64, active bool) (Court, error) {
	var court Court
	err := e.write(ctx, func(ctx context.Context, q dbgen.Querier) error {
		if _, err := requireAdmin(ctx, q, actorID); err != nil {
			return err
		}
		c, err := loadCourt(ctx, q, courtID)
		if err != nil {
			return err
		}
		if _, err := q.SetCourtActive(ctx, dbgen.SetCourtActiveParams{Active: active, ID: courtID}); err != nil {
			return fmt.Errorf("set active on court %d: %w", courtID, err)
		}
		c.Active = active
		court = toCourt(c)
		return nil
	})
	if err != nil {
		return Court{}, err
	}

	logger(ctx).Info().Int64("court_id", courtID).Bool("active", active).Msg("Court state changed")
	return court, nil
}

// TimeBlock removes a wall clock range of one date from availability, on one
// court or on all of them.
type TimeBlock struct {
	ID        int64  `json:"id"`
	CourtID   *int64 `json:"courtId"`
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Reason    string `json:"reason,omitempty"`
	Active    bool   `json:"active"`
}

type TimeBlockInput struct {
	CourtID   *int64
	Date      string
	StartTime string
	EndTime   string
	Reason    string
}

func toTimeBlock(b dbgen.TimeBlock) TimeBlock {
	tb := TimeBlock{
		ID:        b.ID,
		Date:      b.BlockDate,
		StartTime: b.StartTime,
		EndTime:   b.EndTime,
		Active:    b.Active,
	}
	if b.CourtID.Valid {
		id := b.CourtID.Int64
		tb.CourtID = &id
	}
	if b.Reason.Valid {
		tb.Reason = b.Reason.String
	}
	return tb
}

func (in TimeBlockInput) validate() error {
	if _, err := time.Parse(dateLayout, in.Date); err != nil {
		return newError(KindInvalidWindow, "Date must use the YYYY-MM-DD format.")
	}
	start, err := time.Parse(clockLayout, in.StartTime)
	if err != nil {
		return newError(KindInvalidWindow, "Start time must use the HH:MM format.")
	}
	end, err := time.Parse(clockLayout, in.EndTime)
	if err != nil {
		return newError(KindInvalidWindow, "End time must use the HH:MM format.")
	}
	if !start.Before(end) {
		return newError(KindInvalidWindow, "Start time must be before end time.")
	}
	return nil
}

func (e *Engine) CreateTimeBlock(ctx context.Context, actorID int64, in TimeBlockInput) (TimeBlock, error) {
	if err := in.validate(); err != nil {
		return TimeBlock{}, err
	}

	var block TimeBlock
	err := e.write(ctx, func(ctx context.Context, q dbgen.Querier) error {
		if _, err := requireAdmin(ctx, q, actorID); err != nil {
			return err
		}
		courtID := sql.NullInt64{}
		if in.CourtID != nil {
			if _, err := loadCourt(ctx, q, *in.CourtID); err != nil {
				return err
			}
			courtID = sql.NullInt64{Int64: *in.CourtID, Valid: true}
		}
		reason := strings.TrimSpace(in.Reason)
		id, err := q.CreateTimeBlock(ctx, dbgen.CreateTimeBlockParams{
			CourtID:   courtID,
			BlockDate: in.Date,
			StartTime: in.StartTime,
			EndTime:   in.EndTime,
			Reason:    sql.NullString{String: reason, Valid: reason != ""},
		})
		if err != nil {
			return fmt.Errorf("insert time block: %w", err)
		}
		row, err := q.GetTimeBlockByID(ctx, id)
		if err != nil {
			return fmt.Errorf("load time block %d: %w", id, err)
		}
		block = toTimeBlock(row)
		return nil
	})
	if err != nil {
		return TimeBlock{}, err
	}

	logger(ctx).Info().Int64("time_block_id", block.ID).Str("date", block.Date).Msg("Time block created")
	return block, nil
}

// ListTimeBlocks returns active and inactive blocks between two dates,
// inclusive.
func (e *Engine) ListTimeBlocks(ctx context.Context, actorID int64, fromDate, toDate string) ([]TimeBlock, error) {
	for _, d := range []string{fromDate, toDate} {
		if _, err := time.Parse(dateLayout, d); err != nil {
			return nil, newError(KindInvalidWindow, "Dates must use the YYYY-MM-DD format.")
		}
	}

	var blocks []TimeBlock
	err := e.read(ctx, func(ctx context.Context, q dbgen.Querier) error {
		if _, err := requireAdmin(ctx, q, actorID); err != nil {
			return err
		}
		rows, err := q.ListTimeBlocks(ctx, dbgen.ListTimeBlocksParams{FromDate: fromDate, ToDate: toDate})
		if err != nil {
			return fmt.Errorf("list time blocks: %w", err)
		}
		blocks = make([]TimeBlock, 0, len(rows))
		for _, row := range rows {
			blocks = append(blocks, toTimeBlock(row))
		}
		return nil
	})
	return blocks, err
}

func (e *Engine) SetTimeBlockActive(ctx context.Context, actorID, blockID int64, active bool) error {
	return e.write(ctx, func(ctx context.Context, q dbgen.Querier) error {
		if _, err := requireAdmin(ctx, q, actorID); err != nil {
			return err
		}
		rows, err := q.SetTimeBlockActive(ctx, dbgen.SetTimeBlockActiveParams{Active: active, ID: blockID})
		if err != nil {
			return fmt.Errorf("set active on time block %d: %w", blockID, err)
		}
		if rows == 0 {
			return newError(KindNotFound, "Time block %d does not exist.", blockID)
		}
		return nil
	})
}

func (e *Engine) DeleteTimeBlock(ctx context.Context, actorID, blockID int64) error {
	return e.write(ctx, func(ctx context.Context, q dbgen.Querier) error {
		if _, err := requireAdmin(ctx, q, actorID); err != nil {
			return err
		}
		rows, err := q.DeleteTimeBlock(ctx, blockID)
		if err != nil {
			return fmt.Errorf("delete time block %d: %w", blockID, err)
		}
		if rows == 0 {
			return newError(KindNotFound, "Time block %d does not exist.", blockID)
		}
		return nil
	})
}
