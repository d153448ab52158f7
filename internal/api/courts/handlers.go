// internal/api/courts/handlers.go
package courts

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/padelbook/internal/api/apiutil"
	"github.com/codr1/padelbook/internal/booking"
)

var (
	engine   *booking.Engine
	initOnce sync.Once
)

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(e *booking.Engine) {
	if e == nil {
		return
	}
	initOnce.Do(func() {
		engine = e
	})
}

type courtsResponse struct {
	Courts []booking.Court `json:"courts"`
}

type slotsResponse struct {
	Days []booking.DaySchedule `json:"days"`
}

type availabilityResponse struct {
	CourtID         int64     `json:"courtId"`
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
	DurationMinutes int       `json:"durationMinutes"`
	Available       bool      `json:"available"`
}

func loadEngine(w http.ResponseWriter, r *http.Request) *booking.Engine {
	if engine == nil {
		log.Ctx(r.Context()).Error().Msg("Booking engine not initialized")
		apiutil.WriteError(w, r, http.StatusInternalServerError, "Internal Server Error")
		return nil
	}
	return engine
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	if err := apiutil.WriteJSON(w, status, payload); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write response")
	}
}

// GET /api/v1/planning?date=YYYY-MM-DD
func HandlePlanning(w http.ResponseWriter, r *http.Request) {
	e := loadEngine(w, r)
	if e == nil {
		return
	}
	date, err := apiutil.ParseDate(r.URL.Query().Get("date"), e.Now(), e.Location())
	if err != nil {
		apiutil.WriteError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	plan, err := e.DayPlanning(r.Context(), date)
	if err != nil {
		apiutil.WriteBookingError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, plan)
}

// GET /api/v1/slots?date=YYYY-MM-DD&days=1|7
func HandleSlots(w http.ResponseWriter, r *http.Request) {
	e := loadEngine(w, r)
	if e == nil {
		return
	}
	query := r.URL.Query()
	date, err := apiutil.ParseDate(query.Get("date"), e.Now(), e.Location())
	if err != nil {
		apiutil.WriteError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	switch query.Get("days") {
	case "", "1":
		writeJSON(w, r, http.StatusOK, slotsResponse{Days: []booking.DaySchedule{{
			Date:  date.Format(time.DateOnly),
			Slots: e.DaySlots(date),
		}}})
	case "7":
		writeJSON(w, r, http.StatusOK, slotsResponse{Days: e.WeekSlots(date)})
	default:
		apiutil.WriteError(w, r, http.StatusBadRequest, "days must be 1 or 7")
	}
}

// GET /api/v1/courts
func HandleCourtList(w http.ResponseWriter, r *http.Request) {
	e := loadEngine(w, r)
	if e == nil {
		return
	}
	courts, err := e.ListCourts(r.Context())
	if err != nil {
		apiutil.WriteBookingError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, courtsResponse{Courts: courts})
}

// GET /api/v1/courts/{id}/availability?start=&duration=&exclude=
func HandleCourtAvailability(w http.ResponseWriter, r *http.Request) {
	e := loadEngine(w, r)
	if e == nil {
		return
	}
	courtID, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	query := r.URL.Query()
	start, err := apiutil.ParseInstant(query.Get("start"), "start", e.Location())
	if err != nil {
		apiutil.WriteError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	duration := booking.NominalDuration(start.In(e.Location()))
	if raw := query.Get("duration"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value <= 0 {
			apiutil.WriteError(w, r, http.StatusBadRequest, "duration must be a positive number of minutes")
			return
		}
		duration = value
	}
	var exclude int64
	if raw := query.Get("exclude"); raw != "" {
		exclude, err = apiutil.ParsePositiveInt64Field(raw, "exclude")
		if err != nil {
			apiutil.WriteError(w, r, http.StatusBadRequest, err.Error())
			return
		}
	}

	ok, err := e.IsAvailable(r.Context(), courtID, start, duration, exclude)
	if err != nil {
		apiutil.WriteBookingError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, availabilityResponse{
		CourtID:         courtID,
		Start:           start,
		End:             start.Add(time.Duration(duration) * time.Minute),
		DurationMinutes: duration,
		Available:       ok,
	})
}
