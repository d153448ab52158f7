package booking

import (
	"context"
	"fmt"
	"time"

	dbgen "github.com/codr1/padelbook/internal/db/generated"
)

type CellState string

const (
	CellFree     CellState = "free"
	CellBooked   CellState = "booked"
	CellBlocked  CellState = "blocked"
	CellInactive CellState = "inactive"
	CellPast     CellState = "past"
)

type PlanningCell struct {
	CourtID       int64     `json:"courtId"`
	State         CellState `json:"state"`
	ReservationID int64     `json:"reservationId,omitempty"`
}

type PlanningRow struct {
	Slot  Slot           `json:"slot"`
	Cells []PlanningCell `json:"cells"`
}

// DayPlan is the slot grid of one day crossed with every court.
type DayPlan struct {
	Date   string        `json:"date"`
	Courts []Court       `json:"courts"`
	Rows   []PlanningRow `json:"rows"`
}

// DaySlots is the slot grid of the facility day containing date.
func (e *Engine) DaySlots(date time.Time) []Slot {
	return DaySlots(date.In(e.loc))
}

func (e *Engine) WeekSlots(start time.Time) []DaySchedule {
	return WeekSlots(start.In(e.loc))
}

// DayPlanning marks each slot of the day on each court as free, booked,
// blocked, inactive or past.
func (e *Engine) DayPlanning(ctx context.Context, date time.Time) (DayPlan, error) {
	day := date.In(e.loc)
	slots := DaySlots(day)
	plan := DayPlan{Date: day.Format(dateLayout), Rows: make([]PlanningRow, 0, len(slots))}
	if len(slots) == 0 {
		return plan, nil
	}
	dayStart, dayEnd := slots[0].Start, slots[len(slots)-1].End

	var (
		courts       []dbgen.Court
		blocks       []dbgen.TimeBlock
		reservations []dbgen.Reservation
	)
	err := e.read(ctx, func(ctx context.Context, q dbgen.Querier) error {
		var err error
		if courts, err = q.ListCourts(ctx); err != nil {
			return fmt.Errorf("list courts: %w", err)
		}
		if blocks, err = q.ListActiveTimeBlocksForDate(ctx, plan.Date); err != nil {
			return fmt.Errorf("list time blocks for %s: %w", plan.Date, err)
		}
		// Reservations are at most one standard slot long, so one starting
		// that long before midnight may still reach into the day.
		reservations, err = q.ListReservationsBetween(ctx, dbgen.ListReservationsBetweenParams{
			FromTime: dayStart.Add(-StandardSlotMinutes * time.Minute).UTC(),
			ToTime:   dayEnd.UTC(),
		})
		if err != nil {
			return fmt.Errorf("list reservations for %s: %w", plan.Date, err)
		}
		return nil
	})
	if err != nil {
		return DayPlan{}, err
	}

	type interval struct {
		courtID    int64
		start, end time.Time
	}
	blocked := make([]interval, 0, len(blocks))
	for _, b := range blocks {
		start, end, err := blockInterval(b, e.loc)
		if err != nil {
			return DayPlan{}, classify(err)
		}
		blocked = append(blocked, interval{courtID: b.CourtID.Int64, start: start, end: end})
	}

	now := e.now()
	plan.Courts = make([]Court, 0, len(courts))
	for _, c := range courts {
		plan.Courts = append(plan.Courts, toCourt(c))
	}

	for _, slot := range slots {
		row := PlanningRow{Slot: slot, Cells: make([]PlanningCell, 0, len(courts))}
		for _, c := range courts {
			cell := PlanningCell{CourtID: c.ID, State: CellFree}
			switch {
			case !c.Active:
				cell.State = CellInactive
			case slot.Start.Before(now):
				cell.State = CellPast
			}
			if cell.State == CellFree {
				for _, b := range blocked {
					if (b.courtID == 0 || b.courtID == c.ID) && slot.Overlaps(b.start, b.end) {
						cell.State = CellBlocked
						break
					}
				}
			}
			if cell.State == CellFree {
				for _, r := range reservations {
					if r.CourtID == c.ID && slot.Overlaps(r.StartTime, r.EndTime) {
						cell.State = CellBooked
						cell.ReservationID = r.ID
						break
					}
				}
			}
			row.Cells = append(row.Cells, cell)
		}
		plan.Rows = append(plan.Rows, row)
	}
	return plan, nil
}
