// Package booking decides whether court reservations may be created,
// modified or cancelled.
package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/codr1/padelbook/internal/clock"
	"github.com/codr1/padelbook/internal/config"
	dbgen "github.com/codr1/padelbook/internal/db/generated"
)

const (
	RoleMember = "member"
	RoleAdmin  = "admin"

	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"

	DefaultMaxActive    = 2
	DefaultEditDeadline = 30 * time.Minute
	DefaultTimeout      = 5 * time.Second

	maxCoOccupants = 10
	dateLayout     = "2006-01-02"
	clockLayout    = "15:04"
)

type Options struct {
	Location     *time.Location
	MaxActive    int
	EditDeadline time.Duration
	Timeout      time.Duration
}

// OptionsFromConfig maps the booking section of the configuration.
func OptionsFromConfig(cfg config.BookingConfig) Options {
	return Options{
		Location:     cfg.Location(),
		MaxActive:    cfg.MaxActiveReservations,
		EditDeadline: cfg.EditDeadline(),
		Timeout:      cfg.RequestTimeout(),
	}
}

type Engine struct {
	store        Store
	clock        clock.Clock
	loc          *time.Location
	maxActive    int
	editDeadline time.Duration
	timeout      time.Duration
}

func New(store Store, clk clock.Clock, opts Options) *Engine {
	if clk == nil {
		clk = clock.NewSystem()
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.MaxActive <= 0 {
		opts.MaxActive = DefaultMaxActive
	}
	if opts.EditDeadline <= 0 {
		opts.EditDeadline = DefaultEditDeadline
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	return &Engine{
		store:        store,
		clock:        clk,
		loc:          opts.Location,
		maxActive:    opts.MaxActive,
		editDeadline: opts.EditDeadline,
		timeout:      opts.Timeout,
	}
}

// Location is the facility timezone used for slot grids and time blocks.
func (e *Engine) Location() *time.Location {
	return e.loc
}

func (e *Engine) MaxActive() int {
	return e.maxActive
}

func (e *Engine) now() time.Time {
	return e.clock.Now().UTC()
}

// Now is the engine's current instant in UTC.
func (e *Engine) Now() time.Time {
	return e.now()
}

// read runs fn against the store outside a transaction under the request
// timeout.
func (e *Engine) read(ctx context.Context, fn func(ctx context.Context, q dbgen.Querier) error) error {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()
	return classify(fn(ctx, e.store.Queries()))
}

// write runs fn in one retryable transaction under the request timeout.
func (e *Engine) write(ctx context.Context, fn func(ctx context.Context, q dbgen.Querier) error) error {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()
	return classify(e.store.InTx(ctx, func(q dbgen.Querier) error {
		return fn(ctx, q)
	}))
}

// Reservation is a confirmed or cancelled court occupancy.
type Reservation struct {
	ID              int64         `json:"id"`
	OrganizerID     int64         `json:"organizerId"`
	CourtID         int64         `json:"courtId"`
	Start           time.Time     `json:"start"`
	End             time.Time     `json:"end"`
	DurationMinutes int           `json:"durationMinutes"`
	Status          string        `json:"status"`
	TicketsConsumed int           `json:"ticketsConsumed"`
	UsesTickets     bool          `json:"usesTickets"`
	Participants    []Participant `json:"participants"`
	CancelReason    string        `json:"cancelReason,omitempty"`
	CreatedAt       time.Time     `json:"createdAt"`
}

type Participant struct {
	MemberID  int64  `json:"memberId"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type Member struct {
	ID            int64  `json:"id"`
	Email         string `json:"email"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	Role          string `json:"role"`
	Blocked       bool   `json:"blocked"`
	TicketBalance int    `json:"ticketBalance"`
}

func (m Member) IsAdmin() bool {
	return m.Role == RoleAdmin
}

type Court struct {
	ID     int64  `json:"id"`
	Number int64  `json:"number"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

func toMember(m dbgen.Member) Member {
	return Member{
		ID:            m.ID,
		Email:         m.Email,
		FirstName:     m.FirstName,
		LastName:      m.LastName,
		Role:          m.Role,
		Blocked:       m.Blocked,
		TicketBalance: int(m.TicketBalance),
	}
}

func toCourt(c dbgen.Court) Court {
	return Court{ID: c.ID, Number: c.Number, Name: c.Name, Active: c.Active}
}

func toReservation(r dbgen.Reservation, participants []dbgen.ListReservationParticipantsRow) Reservation {
	res := Reservation{
		ID:              r.ID,
		OrganizerID:     r.OrganizerID,
		CourtID:         r.CourtID,
		Start:           r.StartTime.UTC(),
		End:             r.EndTime.UTC(),
		DurationMinutes: int(r.DurationMinutes),
		Status:          r.Status,
		TicketsConsumed: int(r.TicketsConsumed),
		UsesTickets:     r.TicketsConsumed > 0,
		CreatedAt:       r.CreatedAt.UTC(),
		Participants:    make([]Participant, 0, len(participants)),
	}
	if r.CancelReason.Valid {
		res.CancelReason = r.CancelReason.String
	}
	for _, p := range participants {
		res.Participants = append(res.Participants, Participant{
			MemberID:  p.MemberID,
			FirstName: p.FirstName,
			LastName:  p.LastName,
		})
	}
	return res
}

func fullName(first, last string) string {
	if last == "" {
		return first
	}
	if first == "" {
		return last
	}
	return first + " " + last
}

func loadMember(ctx context.Context, q dbgen.Querier, id int64) (dbgen.Member, error) {
	m, err := q.GetMemberByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return dbgen.Member{}, newError(KindNotFound, "Member %d does not exist.", id)
	}
	if err != nil {
		return dbgen.Member{}, fmt.Errorf("load member %d: %w", id, err)
	}
	return m, nil
}

func loadCourt(ctx context.Context, q dbgen.Querier, id int64) (dbgen.Court, error) {
	c, err := q.GetCourtByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return dbgen.Court{}, newError(KindNotFound, "Court %d does not exist.", id)
	}
	if err != nil {
		return dbgen.Court{}, fmt.Errorf("load court %d: %w", id, err)
	}
	return c, nil
}

func loadReservation(ctx context.Context, q dbgen.Querier, id int64) (dbgen.Reservation, error) {
	r, err := q.GetReservationByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return dbgen.Reservation{}, newError(KindNotFound, "Reservation %d does not exist.", id)
	}
	if err != nil {
		return dbgen.Reservation{}, fmt.Errorf("load reservation %d: %w", id, err)
	}
	return r, nil
}

func hydrate(ctx context.Context, q dbgen.Querier, r dbgen.Reservation) (Reservation, error) {
	participants, err := q.ListReservationParticipants(ctx, r.ID)
	if err != nil {
		return Reservation{}, fmt.Errorf("list participants of reservation %d: %w", r.ID, err)
	}
	return toReservation(r, participants), nil
}

func requireAdmin(ctx context.Context, q dbgen.Querier, actorID int64) (dbgen.Member, error) {
	actor, err := q.GetMemberByID(ctx, actorID)
	if errors.Is(err, sql.ErrNoRows) {
		return dbgen.Member{}, newError(KindForbidden, "Administrator access is required.")
	}
	if err != nil {
		return dbgen.Member{}, fmt.Errorf("load actor %d: %w", actorID, err)
	}
	if actor.Role != RoleAdmin {
		return dbgen.Member{}, newError(KindForbidden, "Administrator access is required.")
	}
	return actor, nil
}

func logger(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}
