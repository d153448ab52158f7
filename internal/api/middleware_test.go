package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/codr1/padelbook/internal/api/authz"
	"github.com/codr1/padelbook/internal/clock"
	"github.com/codr1/padelbook/internal/ratelimit"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
})

func withUser(r *http.Request, role string) *http.Request {
	return r.WithContext(authz.ContextWithUser(r.Context(), &authz.AuthUser{ID: 42, Role: role}))
}

func TestWithRequestID(t *testing.T) {
	var seen string
	handler := WithRequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/health", nil))
	if seen == "" || recorder.Header().Get("X-Request-ID") != seen {
		t.Fatalf("request id: ctx %q header %q", seen, recorder.Header().Get("X-Request-ID"))
	}

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "upstream-1")
	handler.ServeHTTP(httptest.NewRecorder(), req)
	if seen != "upstream-1" {
		t.Fatalf("expected upstream id, got %q", seen)
	}
}

func TestWithRecovery(t *testing.T) {
	handler := WithRecovery(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	if recorder.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", recorder.Code)
	}
}

func TestWithLoggingCapturesStatus(t *testing.T) {
	handler := ChainMiddleware(okHandler, WithLogging, WithRequestID)

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	if recorder.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", recorder.Code)
	}
}

func TestWithMemberAuth(t *testing.T) {
	handler := WithMemberAuth(okHandler)

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/me", nil))
	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous: expected 401, got %d", recorder.Code)
	}

	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, withUser(httptest.NewRequest(http.MethodGet, "/api/v1/me", nil), "member"))
	if recorder.Code != http.StatusNoContent {
		t.Fatalf("member: expected 204, got %d", recorder.Code)
	}
}

func TestWithAdminAuth(t *testing.T) {
	tests := []struct {
		name string
		role string
		want int
	}{
		{"anonymous", "", http.StatusUnauthorized},
		{"member", "member", http.StatusForbidden},
		{"admin", "admin", http.StatusNoContent},
	}

	handler := WithAdminAuth(okHandler)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/quota-audit", nil)
			if tt.role != "" {
				req = withUser(req, tt.role)
			}
			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, req)
			if recorder.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, recorder.Code)
			}
		})
	}
}

func TestWithMutationLimit(t *testing.T) {
	clk := clock.NewManual(time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC))
	limiter := ratelimit.New(&ratelimit.Config{MutationsPerMinute: 1, Window: time.Minute, Clock: clk})
	defer limiter.Close()

	handler := WithMutationLimit(limiter, false)(okHandler)

	post := func() *httptest.ResponseRecorder {
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, withUser(httptest.NewRequest(http.MethodPost, "/api/v1/bookings", nil), "member"))
		return recorder
	}

	if got := post().Code; got != http.StatusNoContent {
		t.Fatalf("first mutation: expected 204, got %d", got)
	}
	limited := post()
	if limited.Code != http.StatusTooManyRequests {
		t.Fatalf("second mutation: expected 429, got %d", limited.Code)
	}
	if limited.Header().Get("Retry-After") != "60" {
		t.Fatalf("expected Retry-After 60, got %q", limited.Header().Get("Retry-After"))
	}

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, withUser(httptest.NewRequest(http.MethodGet, "/api/v1/bookings", nil), "member"))
	if recorder.Code != http.StatusNoContent {
		t.Fatalf("reads are not limited, got %d", recorder.Code)
	}
}
