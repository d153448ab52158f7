// internal/api/reservations/handlers.go
package reservations

import (
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/padelbook/internal/api/apiutil"
	"github.com/codr1/padelbook/internal/booking"
)

const defaultListWindow = 7 * 24 * time.Hour

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

type createRequest struct {
	CourtID         int64   `json:"courtId"`
	Start           string  `json:"start"`
	DurationMinutes int     `json:"durationMinutes"`
	Tickets         int     `json:"tickets"`
	MemberIDs       []int64 `json:"memberIds"`
}

type updateRequest struct {
	Tickets   int     `json:"tickets"`
	MemberIDs []int64 `json:"memberIds"`
}

type replaceTicketsRequest struct {
	MemberIDs []int64 `json:"memberIds"`
}

type listResponse struct {
	Reservations []booking.Reservation `json:"reservations"`
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

// GET /api/v1/me
func HandleMe(w http.ResponseWriter, r *http.Request) {
	e := loadEngine(w, r)
	if e == nil {
		return
	}
	user, ok := apiutil.CurrentUser(w, r)
	if !ok {
		return
	}

	member, err := e.GetMember(r.Context(), user.ID)
	if err != nil {
		apiutil.WriteBookingError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, member)
}

// GET /api/v1/me/quota
func HandleMyQuota(w http.ResponseWriter, r *http.Request) {
	e := loadEngine(w, r)
	if e == nil {
		return
	}
	user, ok := apiutil.CurrentUser(w, r)
	if !ok {
		return
	}

	result, err := e.Evaluate(r.Context(), user.ID, 0)
	if err != nil {
		apiutil.WriteBookingError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, result)
}

// GET /api/v1/bookings?from=&to=
// GET /api/v1/bookings?mine=true
func HandleReservationList(w http.ResponseWriter, r *http.Request) {
	e := loadEngine(w, r)
	if e == nil {
		return
	}
	user, ok := apiutil.CurrentUser(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	if query.Get("mine") == "true" {
		list, err := e.ListMemberReservations(r.Context(), user.ID)
		if err != nil {
			apiutil.WriteBookingError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, listResponse{Reservations: list})
		return
	}

	from := e.Now()
	if raw := query.Get("from"); raw != "" {
		parsed, err := apiutil.ParseInstant(raw, "from", e.Location())
		if err != nil {
			apiutil.WriteError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		from = parsed
	}
	to := from.Add(defaultListWindow)
	if raw := query.Get("to"); raw != "" {
		parsed, err := apiutil.ParseInstant(raw, "to", e.Location())
		if err != nil {
			apiutil.WriteError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		to = parsed
	}

	list, err := e.ListReservations(r.Context(), from, to)
	if err != nil {
		apiutil.WriteBookingError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, listResponse{Reservations: list})
}

// GET /api/v1/bookings/{id}
func HandleReservationGet(w http.ResponseWriter, r *http.Request) {
	e := loadEngine(w, r)
	if e == nil {
		return
	}
	if _, ok := apiutil.CurrentUser(w, r); !ok {
		return
	}
	id, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	res, err := e.GetReservation(r.Context(), id)
	if err != nil {
		apiutil.WriteBookingError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

// POST /api/v1/bookings
//
// The caller organizes the booking. memberIds lists the other players; the
// organizer is added when missing.
func HandleReservationCreate(w http.ResponseWriter, r *http.Request) {
	e := loadEngine(w, r)
	if e == nil {
		return
	}
	user, ok := apiutil.CurrentUser(w, r)
	if !ok {
		return
	}

	var req createRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.CourtID <= 0 {
		apiutil.WriteError(w, r, http.StatusBadRequest, "courtId must be greater than 0")
		return
	}
	start, err := apiutil.ParseInstant(req.Start, "start", e.Location())
	if err != nil {
		apiutil.WriteError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	res, err := e.CreateReservation(r.Context(), booking.CreateRequest{
		OrganizerID:     user.ID,
		CourtID:         req.CourtID,
		Start:           start,
		DurationMinutes: req.DurationMinutes,
		Tickets:         req.Tickets,
		MemberIDs:       withOrganizer(user.ID, req.MemberIDs),
	})
	if err != nil {
		apiutil.WriteBookingError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, res)
}

// PATCH /api/v1/bookings/{id}
//
// memberIds is the full member list of the new composition, organizer
// included.
func HandleReservationUpdate(w http.ResponseWriter, r *http.Request) {
	e := loadEngine(w, r)
	if e == nil {
		return
	}
	user, ok := apiutil.CurrentUser(w, r)
	if !ok {
		return
	}
	id, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	var req updateRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	res, err := e.UpdateComposition(r.Context(), id, user.ID, req.Tickets, req.MemberIDs)
	if err != nil {
		apiutil.WriteBookingError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

// POST /api/v1/bookings/{id}/replace-tickets
func HandleReplaceTickets(w http.ResponseWriter, r *http.Request) {
	e := loadEngine(w, r)
	if e == nil {
		return
	}
	user, ok := apiutil.CurrentUser(w, r)
	if !ok {
		return
	}
	id, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	var req replaceTicketsRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	res, err := e.ReplaceTickets(r.Context(), id, user.ID, req.MemberIDs)
	if err != nil {
		apiutil.WriteBookingError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

// POST /api/v1/bookings/{id}/cancel
func HandleReservationCancel(w http.ResponseWriter, r *http.Request) {
	e := loadEngine(w, r)
	if e == nil {
		return
	}
	user, ok := apiutil.CurrentUser(w, r)
	if !ok {
		return
	}
	id, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	result, err := e.CancelParticipation(r.Context(), id, user.ID)
	if err != nil {
		apiutil.WriteBookingError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, result)
}

func withOrganizer(organizerID int64, memberIDs []int64) []int64 {
	out := make([]int64, 0, len(memberIDs)+1)
	out = append(out, organizerID)
	for _, id := range memberIDs {
		if id != organizerID {
			out = append(out, id)
		}
	}
	return out
}
