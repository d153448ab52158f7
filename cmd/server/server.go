// cmd/server/server.go
package main

import (
	"net/http"
	"strconv"
	"time"

	"github.com/codr1/padelbook/internal/api"
	"github.com/codr1/padelbook/internal/api/admin"
	"github.com/codr1/padelbook/internal/api/courts"
	"github.com/codr1/padelbook/internal/api/reservations"
	"github.com/codr1/padelbook/internal/booking"
	"github.com/codr1/padelbook/internal/config"
	"github.com/codr1/padelbook/internal/ratelimit"
)

func newServer(cfg *config.Config, engine *booking.Engine, limiter *ratelimit.Limiter) *http.Server {
	router := http.NewServeMux()

	reservations.InitHandlers(engine)
	courts.InitHandlers(engine)
	admin.InitHandlers(engine)

	// Register routes
	registerRoutes(router, limiter, cfg.RateLimit.TrustProxy)

	// Setup middleware chain, outermost last
	handler := api.ChainMiddleware(
		router,
		api.WithAuth,
		api.WithLogging,
		api.WithRecovery,
		api.WithRequestID,
	)

	return &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.App.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func registerRoutes(mux *http.ServeMux, limiter *ratelimit.Limiter, trustProxy bool) {
	member := func(h http.HandlerFunc) http.Handler {
		return api.ChainMiddleware(h, api.WithMutationLimit(limiter, trustProxy), api.WithMemberAuth)
	}
	adminOnly := func(h http.HandlerFunc) http.Handler {
		return api.ChainMiddleware(h, api.WithAdminAuth)
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Planning and courts
	mux.Handle("GET /api/v1/planning", member(courts.HandlePlanning))
	mux.Handle("GET /api/v1/slots", member(courts.HandleSlots))
	mux.Handle("GET /api/v1/courts", member(courts.HandleCourtList))
	mux.Handle("GET /api/v1/courts/{id}/availability", member(courts.HandleCourtAvailability))

	// Member bookings
	mux.Handle("GET /api/v1/me", member(reservations.HandleMe))
	mux.Handle("GET /api/v1/me/quota", member(reservations.HandleMyQuota))
	mux.Handle("GET /api/v1/bookings", member(reservations.HandleReservationList))
	mux.Handle("POST /api/v1/bookings", member(reservations.HandleReservationCreate))
	mux.Handle("GET /api/v1/bookings/{id}", member(reservations.HandleReservationGet))
	mux.Handle("PATCH /api/v1/bookings/{id}", member(reservations.HandleReservationUpdate))
	mux.Handle("POST /api/v1/bookings/{id}/replace-tickets", member(reservations.HandleReplaceTickets))
	mux.Handle("POST /api/v1/bookings/{id}/cancel", member(reservations.HandleReservationCancel))

	// Administration
	mux.Handle("POST /api/v1/admin/bookings", adminOnly(admin.HandleBookingCreate))
	mux.Handle("DELETE /api/v1/admin/bookings/{id}", adminOnly(admin.HandleBookingCancel))
	mux.Handle("PUT /api/v1/admin/members/{id}/block", adminOnly(admin.HandleMemberBlock))
	mux.Handle("POST /api/v1/admin/members/{id}/tickets", adminOnly(admin.HandleMemberTickets))
	mux.Handle("PUT /api/v1/admin/courts/{id}/active", adminOnly(admin.HandleCourtActive))
	mux.Handle("GET /api/v1/admin/time-blocks", adminOnly(admin.HandleTimeBlockList))
	mux.Handle("POST /api/v1/admin/time-blocks", adminOnly(admin.HandleTimeBlockCreate))
	mux.Handle("POST /api/v1/admin/time-blocks/{id}/deactivate", adminOnly(admin.HandleTimeBlockDeactivate))
	mux.Handle("DELETE /api/v1/admin/time-blocks/{id}", adminOnly(admin.HandleTimeBlockDelete))
	mux.Handle("POST /api/v1/admin/quota-audit", adminOnly(admin.HandleQuotaAudit))
}
