// internal/api/admin/handlers.go
package admin

import (
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/padelbook/internal/api/apiutil"
	"github.com/codr1/padelbook/internal/api/authz"
	"github.com/codr1/padelbook/internal/booking"
)

const defaultBlockListDays = 30

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
	OrganizerID     int64            `json:"organizerId"`
	CourtID         int64            `json:"courtId"`
	Start           string           `json:"start"`
	DurationMinutes int              `json:"durationMinutes"`
	Tickets         int              `json:"tickets"`
	MemberIDs       []int64          `json:"memberIds"`
	Override        booking.Override `json:"override"`
}

type blockRequest struct {
	Blocked *bool `json:"blocked"`
}

type ticketsRequest struct {
	Delta int `json:"delta"`
}

type activeRequest struct {
	Active *bool `json:"active"`
}

type timeBlockRequest struct {
	CourtID   *int64 `json:"courtId"`
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Reason    string `json:"reason"`
}

type timeBlocksResponse struct {
	TimeBlocks []booking.TimeBlock `json:"timeBlocks"`
}

// loadAdmin returns the engine and the acting administrator, writing the
// error response when either is missing.
func loadAdmin(w http.ResponseWriter, r *http.Request) (*booking.Engine, *authz.AuthUser, bool) {
	if engine == nil {
		log.Ctx(r.Context()).Error().Msg("Booking engine not initialized")
		apiutil.WriteError(w, r, http.StatusInternalServerError, "Internal Server Error")
		return nil, nil, false
	}
	user, err := authz.RequireAdmin(r.Context())
	if err != nil {
		apiutil.WriteAuthzError(w, r, err)
		return nil, nil, false
	}
	return engine, user, true
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, r, http.StatusBadRequest, err.Error())
		return 0, false
	}
	return id, true
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := apiutil.DecodeJSON(r, dst); err != nil {
		apiutil.WriteError(w, r, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	if err := apiutil.WriteJSON(w, status, payload); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write response")
	}
}

// POST /api/v1/admin/bookings
//
// memberIds is the full member list, organizer included.
func HandleBookingCreate(w http.ResponseWriter, r *http.Request) {
	e, user, ok := loadAdmin(w, r)
	if !ok {
		return
	}
	var req createRequest
	if !decode(w, r, &req) {
		return
	}
	if req.OrganizerID <= 0 || req.CourtID <= 0 {
		apiutil.WriteError(w, r, http.StatusBadRequest, "organizerId and courtId must be greater than 0")
		return
	}
	start, err := apiutil.ParseInstant(req.Start, "start", e.Location())
	if err != nil {
		apiutil.WriteError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	res, err := e.AdminCreateReservation(r.Context(), user.ID, booking.CreateRequest{
		OrganizerID:     req.OrganizerID,
		CourtID:         req.CourtID,
		Start:           start,
		DurationMinutes: req.DurationMinutes,
		Tickets:         req.Tickets,
		MemberIDs:       req.MemberIDs,
	}, req.Override)
	if err != nil {
		apiutil.WriteBookingError(w, r, err)
		return
	}
	log.Ctx(r.Context()).Info().
		Int64("admin_id", user.ID).
		Int64("reservation_id", res.ID).
		Interface("override", req.Override).
		Msg("Admin booking created")
	writeJSON(w, r, http.StatusCreated, res)
}

// DELETE /api/v1/admin/bookings/{id}
func HandleBookingCancel(w http.ResponseWriter, r *http.Request) {
	e, user, ok := loadAdmin(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	result, err := e.AdminCancelReservation(r.Context(), user.ID, id)
	if err != nil {
		apiutil.WriteBookingError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, result)
}

// PUT /api/v1/admin/members/{id}/block
func HandleMemberBlock(w http.ResponseWriter, r *http.Request) {
	e, user, ok := loadAdmin(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req blockRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Blocked == nil {
		apiutil.WriteError(w, r, http.StatusBadRequest, "blocked is required")
		return
	}

	member, err := e.SetMemberBlocked(r.Context(), user.ID, id, *req.Blocked)
	if err != nil {
		apiutil.WriteBookingError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, member)
}

// POST /api/v1/admin/members/{id}/tickets
func HandleMemberTickets(w http.ResponseWriter, r *http.Request) {
	e, user, ok := loadAdmin(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req ticketsRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Delta == 0 {
		apiutil.WriteError(w, r, http.StatusBadRequest, "delta must not be 0")
		return
	}

	member, err := e.AdjustMemberTickets(r.Context(), user.ID, id, req.Delta)
	if err != nil {
		apiutil.WriteBookingError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, member)
}

// PUT /api/v1/admin/courts/{id}/active
func HandleCourtActive(w http.ResponseWriter, r *http.Request) {
	e, user, ok := loadAdmin(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req activeRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Active == nil {
		apiutil.WriteError(w, r, http.StatusBadRequest, "active is required")
		return
	}

	court, err := e.SetCourtActive(r.Context(), user.ID, id, *req.Active)
	if err != nil {
		apiutil.WriteBookingError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, court)
}

// GET /api/v1/admin/time-blocks?from=YYYY-MM-DD&to=YYYY-MM-DD
func HandleTimeBlockList(w http.ResponseWriter, r *http.Request) {
	e, user, ok := loadAdmin(w, r)
	if !ok {
		return
	}
	query := r.URL.Query()
	from, err := apiutil.ParseDate(query.Get("from"), e.Now(), e.Location())
	if err != nil {
		apiutil.WriteError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	to := from.AddDate(0, 0, defaultBlockListDays)
	if raw := query.Get("to"); raw != "" {
		to, err = apiutil.ParseDate(raw, e.Now(), e.Location())
		if err != nil {
			apiutil.WriteError(w, r, http.StatusBadRequest, err.Error())
			return
		}
	}

	blocks, err := e.ListTimeBlocks(r.Context(), user.ID, from.Format(time.DateOnly), to.Format(time.DateOnly))
	if err != nil {
		apiutil.WriteBookingError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, timeBlocksResponse{TimeBlocks: blocks})
}

// POST /api/v1/admin/time-blocks
func HandleTimeBlockCreate(w http.ResponseWriter, r *http.Request) {
	e, user, ok := loadAdmin(w, r)
	if !ok {
		return
	}
	var req timeBlockRequest
	if !decode(w, r, &req) {
		return
	}

	block, err := e.CreateTimeBlock(r.Context(), user.ID, booking.TimeBlockInput{
		CourtID:   req.CourtID,
		Date:      req.Date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Reason:    req.Reason,
	})
	if err != nil {
		apiutil.WriteBookingError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, block)
}

// POST /api/v1/admin/time-blocks/{id}/deactivate
func HandleTimeBlockDeactivate(w http.ResponseWriter, r *http.Request) {
	e, user, ok := loadAdmin(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := e.SetTimeBlockActive(r.Context(), user.ID, id, false); err != nil {
		apiutil.WriteBookingError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DELETE /api/v1/admin/time-blocks/{id}
func HandleTimeBlockDelete(w http.ResponseWriter, r *http.Request) {
	e, user, ok := loadAdmin(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := e.DeleteTimeBlock(r.Context(), user.ID, id); err != nil {
		apiutil.WriteBookingError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// POST /api/v1/admin/quota-audit
func HandleQuotaAudit(w http.ResponseWriter, r *http.Request) {
	e, user, ok := loadAdmin(w, r)
	if !ok {
		return
	}

	report, err := e.EnforceQuota(r.Context())
	if err != nil {
		apiutil.WriteBookingError(w, r, err)
		return
	}
	log.Ctx(r.Context()).Info().
		Int64("admin_id", user.ID).
		Int("members_corrected", report.MembersCorrected).
		Int("cancelled", len(report.Cancelled)).
		Msg("Quota audit run on demand")
	writeJSON(w, r, http.StatusOK, report)
}
