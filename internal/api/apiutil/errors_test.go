package apiutil

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/codr1/padelbook/internal/booking"
)

func TestStatusForKind(t *testing.T) {
	tests := []struct {
		kind booking.Kind
		want int
	}{
		{booking.KindUnauthenticated, http.StatusUnauthorized},
		{booking.KindForbidden, http.StatusForbidden},
		{booking.KindNotFound, http.StatusNotFound},
		{booking.KindInvalidComposition, http.StatusBadRequest},
		{booking.KindResourceInactive, http.StatusForbidden},
		{booking.KindInvalidWindow, http.StatusBadRequest},
		{booking.KindInsufficientTickets, http.StatusForbidden},
		{booking.KindQuotaExceeded, http.StatusForbidden},
		{booking.KindConflict, http.StatusConflict},
		{booking.KindDeadlinePassed, http.StatusForbidden},
		{booking.KindInfrastructure, http.StatusServiceUnavailable},
		{booking.Kind(99), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := StatusForKind(tt.kind); got != tt.want {
			t.Fatalf("%s: got %d want %d", tt.kind, got, tt.want)
		}
	}
}

func TestWriteBookingErrorQuotaBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", nil)
	rec := httptest.NewRecorder()

	WriteBookingError(rec, req, &booking.Error{
		Kind:        booking.KindQuotaExceeded,
		Reason:      "You already have 2 active bookings (limit 2).",
		ActiveCount: 2,
		CoOccupants: []booking.CoOccupant{{MemberID: 7, Name: "Ana Ivanovic", Role: "participant"}},
	})

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status: %d", rec.Code)
	}
	var body struct {
		Kind        string               `json:"kind"`
		Message     string               `json:"message"`
		ActiveCount int                  `json:"activeCount"`
		CoOccupants []booking.CoOccupant `json:"coOccupants"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Kind != "quota_exceeded" || body.ActiveCount != 2 || len(body.CoOccupants) != 1 {
		t.Fatalf("body: %+v", body)
	}
	if body.Message != "You already have 2 active bookings (limit 2)." {
		t.Fatalf("message: %q", body.Message)
	}
}

func TestWriteBookingErrorInfrastructure(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", nil)
	rec := httptest.NewRecorder()

	WriteBookingError(rec, req, errors.New("database is locked"))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status: %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Fatalf("missing Retry-After")
	}
	var body ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Kind != "infrastructure_error" || body.Message == "" {
		t.Fatalf("body: %+v", body)
	}
}

func TestWriteHandlerError(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	rec := httptest.NewRecorder()
	WriteHandlerError(rec, req, HandlerError{Status: http.StatusBadRequest, Message: "start is required"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	WriteHandlerError(rec, req, errors.New("boom"))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status: %d", rec.Code)
	}
}
