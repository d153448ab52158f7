package booking

import "time"

const (
	// StandardSlotMinutes is the nominal slot length outside the lunch range.
	StandardSlotMinutes = 90
	// LunchSlotMinutes applies to slots starting between 12:00 and 14:00.
	LunchSlotMinutes = 60

	lunchStartHour = 12
	lunchEndHour   = 14
)

// Slot is one bookable window of the daily grid.
type Slot struct {
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
	DurationMinutes int       `json:"durationMinutes"`
	Label           string    `json:"label"`
}

// Overlaps reports whether [start, end) intersects the slot.
func (s Slot) Overlaps(start, end time.Time) bool {
	return s.Start.Before(end) && s.End.After(start)
}

// NominalDuration is the slot length the grid uses for a window starting at
// start, read in start's location.
func NominalDuration(start time.Time) int {
	if h := start.Hour(); h >= lunchStartHour && h < lunchEndHour {
		return LunchSlotMinutes
	}
	return StandardSlotMinutes
}

// DaySlots tiles the calendar day of date, in date's location, starting at
// midnight. Slots follow elapsed time, so on a daylight saving change the
// labels shift but every slot lasts its nominal duration. A window that would
// run past midnight is cut at 23:59:59.999.
func DaySlots(date time.Time) []Slot {
	loc := date.Location()
	y, m, d := date.Date()
	endOfDay := time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), loc)

	var slots []Slot
	for start := time.Date(y, m, d, 0, 0, 0, 0, loc); start.Before(endOfDay); {
		duration := NominalDuration(start)
		end := start.Add(time.Duration(duration) * time.Minute)

		if end.After(endOfDay) {
			end = endOfDay
			duration = int(end.Sub(start) / time.Minute)
			if duration > 0 {
				slots = append(slots, Slot{Start: start, End: end, DurationMinutes: duration, Label: start.Format(clockLayout)})
			}
			break
		}

		slots = append(slots, Slot{Start: start, End: end, DurationMinutes: duration, Label: start.Format(clockLayout)})
		start = end
	}
	return slots
}

// DaySchedule is the slot grid of one calendar day.
type DaySchedule struct {
	Date  string `json:"date"`
	Slots []Slot `json:"slots"`
}

// WeekSlots returns the grids of seven consecutive days starting with the
// calendar day of start.
func WeekSlots(start time.Time) []DaySchedule {
	y, m, d := start.Date()
	week := make([]DaySchedule, 0, 7)
	for i := 0; i < 7; i++ {
		day := time.Date(y, m, d+i, 0, 0, 0, 0, start.Location())
		week = append(week, DaySchedule{Date: day.Format(dateLayout), Slots: DaySlots(day)})
	}
	return week
}
