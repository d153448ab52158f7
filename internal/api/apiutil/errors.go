package apiutil

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/codr1/padelbook/internal/api/authz"
	"github.com/codr1/padelbook/internal/booking"
)

const retryAfterSeconds = 2

var kindStatus = map[booking.Kind]int{
	booking.KindUnauthenticated:     http.StatusUnauthorized,
	booking.KindForbidden:           http.StatusForbidden,
	booking.KindNotFound:            http.StatusNotFound,
	booking.KindInvalidComposition:  http.StatusBadRequest,
	booking.KindResourceInactive:    http.StatusForbidden,
	booking.KindInvalidWindow:       http.StatusBadRequest,
	booking.KindInsufficientTickets: http.StatusForbidden,
	booking.KindQuotaExceeded:       http.StatusForbidden,
	booking.KindConflict:            http.StatusConflict,
	booking.KindDeadlinePassed:      http.StatusForbidden,
	booking.KindInfrastructure:      http.StatusServiceUnavailable,
}

// StatusForKind maps an engine error kind to its HTTP status.
func StatusForKind(kind booking.Kind) int {
	if status, ok := kindStatus[kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// WriteBookingError renders an engine error with its kind and user message.
// Errors from outside the engine are infrastructure failures.
func WriteBookingError(w http.ResponseWriter, r *http.Request, err error) {
	logger := log.Ctx(r.Context())

	var bErr *booking.Error
	if !errors.As(err, &bErr) {
		bErr = &booking.Error{Kind: booking.KindInfrastructure, Err: err}
	}
	status := StatusForKind(bErr.Kind)

	body := ErrorResponse{
		Error:   http.StatusText(status),
		Kind:    bErr.Kind.String(),
		Message: bErr.UserMessage(),
	}
	if bErr.Kind == booking.KindQuotaExceeded {
		count := bErr.ActiveCount
		body.ActiveCount = &count
		body.CoOccupants = bErr.CoOccupants
	}

	if bErr.Kind.Retryable() {
		logger.Error().Err(err).Msg("Booking store unavailable")
		w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds))
	} else {
		logger.Debug().Str("kind", bErr.Kind.String()).Msg(bErr.UserMessage())
	}

	if err := WriteJSON(w, status, body); err != nil {
		logger.Error().Err(err).Msg("Failed to write error response")
	}
}

// WriteAuthzError renders an authz failure as the matching engine kind.
func WriteAuthzError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, authz.ErrUnauthenticated):
		WriteBookingError(w, r, booking.ErrUnauthenticated)
	case errors.Is(err, authz.ErrForbidden):
		WriteBookingError(w, r, booking.ErrForbidden)
	default:
		WriteHandlerError(w, r, err)
	}
}

// CurrentUser returns the authenticated member, writing a 401 when there is
// none.
func CurrentUser(w http.ResponseWriter, r *http.Request) (*authz.AuthUser, bool) {
	user, err := authz.RequireUser(r.Context())
	if err != nil {
		WriteAuthzError(w, r, err)
		return nil, false
	}
	return user, true
}
