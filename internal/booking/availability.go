package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	dbgen "github.com/codr1/padelbook/internal/db/generated"
)

type unavailability int

const (
	available unavailability = iota
	courtMissing
	courtInactive
	timeBlocked
	alreadyBooked
)

type availabilityCheck struct {
	courtID    int64
	start, end time.Time
	excludeID  int64
	skipBlocks bool
}

// IsAvailable reports whether the court is active and the window
// [start, start+duration) is free of active time blocks and other confirmed
// reservations. excludingID, when non-zero, ignores that reservation.
func (e *Engine) IsAvailable(ctx context.Context, courtID int64, start time.Time, durationMinutes int, excludingID int64) (bool, error) {
	if durationMinutes <= 0 {
		return false, nil
	}
	start = start.UTC()
	end := start.Add(time.Duration(durationMinutes) * time.Minute)

	var result unavailability
	err := e.read(ctx, func(ctx context.Context, q dbgen.Querier) error {
		var err error
		result, _, err = e.checkAvailability(ctx, q, availabilityCheck{
			courtID:   courtID,
			start:     start,
			end:       end,
			excludeID: excludingID,
		})
		return err
	})
	if err != nil {
		return false, err
	}
	return result == available, nil
}

// checkAvailability short-circuits on the first reason the window cannot be
// booked. The second return value describes it for error messages.
func (e *Engine) checkAvailability(ctx context.Context, q dbgen.Querier, c availabilityCheck) (unavailability, string, error) {
	court, err := q.GetCourtByID(ctx, c.courtID)
	if errors.Is(err, sql.ErrNoRows) {
		return courtMissing, fmt.Sprintf("Court %d does not exist.", c.courtID), nil
	}
	if err != nil {
		return 0, "", fmt.Errorf("load court %d: %w", c.courtID, err)
	}
	if !court.Active {
		return courtInactive, fmt.Sprintf("%s is closed for maintenance.", court.Name), nil
	}

	if !c.skipBlocks {
		block, err := e.overlappingBlock(ctx, q, c.courtID, c.start, c.end)
		if err != nil {
			return 0, "", err
		}
		if block != nil {
			reason := fmt.Sprintf("%s is blocked from %s to %s.", court.Name, block.StartTime, block.EndTime)
			if block.Reason.Valid && block.Reason.String != "" {
				reason = fmt.Sprintf("%s is blocked from %s to %s (%s).", court.Name, block.StartTime, block.EndTime, block.Reason.String)
			}
			return timeBlocked, reason, nil
		}
	}

	overlapping, err := q.ListOverlappingReservations(ctx, dbgen.ListOverlappingReservationsParams{
		CourtID:   c.courtID,
		ExcludeID: c.excludeID,
		EndTime:   c.end,
		StartTime: c.start,
	})
	if err != nil {
		return 0, "", fmt.Errorf("list overlapping reservations on court %d: %w", c.courtID, err)
	}
	if len(overlapping) > 0 {
		other := overlapping[0]
		local := other.StartTime.In(e.loc)
		return alreadyBooked, fmt.Sprintf("%s is already booked at %s for %d minutes.",
			court.Name, local.Format(clockLayout), other.DurationMinutes), nil
	}
	return available, "", nil
}

// overlappingBlock returns the first active time block on the court, or a
// facility-wide one, intersecting [start, end). Block times are wall clock
// times in the facility timezone, so a window crossing midnight is checked
// against both dates.
func (e *Engine) overlappingBlock(ctx context.Context, q dbgen.Querier, courtID int64, start, end time.Time) (*dbgen.TimeBlock, error) {
	for _, date := range spannedDates(start, end, e.loc) {
		blocks, err := q.ListActiveTimeBlocksForCourtDate(ctx, dbgen.ListActiveTimeBlocksForCourtDateParams{
			BlockDate: date,
			CourtID:   sql.NullInt64{Int64: courtID, Valid: true},
		})
		if err != nil {
			return nil, fmt.Errorf("list time blocks for %s: %w", date, err)
		}
		for i := range blocks {
			blockStart, blockEnd, err := blockInterval(blocks[i], e.loc)
			if err != nil {
				return nil, err
			}
			if blockStart.Before(end) && blockEnd.After(start) {
				return &blocks[i], nil
			}
		}
	}
	return nil, nil
}

func blockInterval(b dbgen.TimeBlock, loc *time.Location) (time.Time, time.Time, error) {
	start, err := time.ParseInLocation(dateLayout+" "+clockLayout, b.BlockDate+" "+b.StartTime, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parse start of time block %d: %w", b.ID, err)
	}
	end, err := time.ParseInLocation(dateLayout+" "+clockLayout, b.BlockDate+" "+b.EndTime, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parse end of time block %d: %w", b.ID, err)
	}
	return start, end, nil
}

func spannedDates(start, end time.Time, loc *time.Location) []string {
	first := start.In(loc).Format(dateLayout)
	last := end.Add(-time.Nanosecond).In(loc).Format(dateLayout)
	if first == last {
		return []string{first}
	}
	return []string{first, last}
}
