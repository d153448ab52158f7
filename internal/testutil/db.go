package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/codr1/padelbook/internal/db"
	dbgen "github.com/codr1/padelbook/internal/db/generated"
)

var memberSeq atomic.Int64

// NewTestDB creates a temporary SQLite database with migrations applied.
// Courts 1 to 3 are seeded by the migrations.
func NewTestDB(t *testing.T) *db.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	database, err := db.New(dbPath)
	if err != nil {
		t.Fatalf("create test db: %v", err)
	}
	t.Cleanup(func() {
		_ = database.Close()
	})

	return database
}

type MemberOpts struct {
	FirstName  string
	LastName   string
	Email      string
	Phone      string
	ExternalID string
	Admin      bool
	Blocked    bool
	Tickets    int64
}

// SeedMember inserts a member and returns it. Empty names and emails are
// filled with unique values.
func SeedMember(t *testing.T, database *db.DB, opts MemberOpts) dbgen.Member {
	t.Helper()

	n := memberSeq.Add(1)
	if opts.FirstName == "" {
		opts.FirstName = fmt.Sprintf("Player%d", n)
	}
	if opts.LastName == "" {
		opts.LastName = "Test"
	}
	if opts.Email == "" {
		opts.Email = fmt.Sprintf("player%d@example.com", n)
	}
	role := "member"
	if opts.Admin {
		role = "admin"
	}

	ctx := context.Background()
	id, err := database.Queries.CreateMember(ctx, dbgen.CreateMemberParams{
		ExternalID:    sql.NullString{String: opts.ExternalID, Valid: opts.ExternalID != ""},
		Email:         opts.Email,
		Phone:         sql.NullString{String: opts.Phone, Valid: opts.Phone != ""},
		FirstName:     opts.FirstName,
		LastName:      opts.LastName,
		Role:          role,
		Blocked:       opts.Blocked,
		TicketBalance: opts.Tickets,
	})
	if err != nil {
		t.Fatalf("seed member: %v", err)
	}
	member, err := database.Queries.GetMemberByID(ctx, id)
	if err != nil {
		t.Fatalf("load seeded member: %v", err)
	}
	return member
}

// SeedCourt sets the active flag of a migrated court and returns it.
func SeedCourt(t *testing.T, database *db.DB, courtID int64, active bool) dbgen.Court {
	t.Helper()

	ctx := context.Background()
	if _, err := database.Queries.SetCourtActive(ctx, dbgen.SetCourtActiveParams{Active: active, ID: courtID}); err != nil {
		t.Fatalf("seed court: %v", err)
	}
	court, err := database.Queries.GetCourtByID(ctx, courtID)
	if err != nil {
		t.Fatalf("load seeded court: %v", err)
	}
	return court
}

// SeedReservation writes a confirmed reservation directly, bypassing every
// admission rule. members must include the organizer.
func SeedReservation(t *testing.T, database *db.DB, organizerID, courtID int64, start time.Time, minutes int, tickets int64, members ...int64) dbgen.Reservation {
	t.Helper()

	ctx := context.Background()
	start = start.UTC()
	id, err := database.Queries.CreateReservation(ctx, dbgen.CreateReservationParams{
		OrganizerID:     organizerID,
		CourtID:         courtID,
		StartTime:       start,
		EndTime:         start.Add(time.Duration(minutes) * time.Minute),
		DurationMinutes: int64(minutes),
		TicketsConsumed: tickets,
		CreatedAt:       time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("seed reservation: %v", err)
	}
	for _, memberID := range members {
		if err := database.Queries.AddParticipant(ctx, dbgen.AddParticipantParams{ReservationID: id, MemberID: memberID}); err != nil {
			t.Fatalf("seed participant: %v", err)
		}
	}
	res, err := database.Queries.GetReservationByID(ctx, id)
	if err != nil {
		t.Fatalf("load seeded reservation: %v", err)
	}
	return res
}

// SeedTimeBlock inserts an active block. courtID 0 blocks every court.
func SeedTimeBlock(t *testing.T, database *db.DB, courtID int64, date, start, end, reason string) dbgen.TimeBlock {
	t.Helper()

	ctx := context.Background()
	id, err := database.Queries.CreateTimeBlock(ctx, dbgen.CreateTimeBlockParams{
		CourtID:   sql.NullInt64{Int64: courtID, Valid: courtID != 0},
		BlockDate: date,
		StartTime: start,
		EndTime:   end,
		Reason:    sql.NullString{String: reason, Valid: reason != ""},
	})
	if err != nil {
		t.Fatalf("seed time block: %v", err)
	}
	block, err := database.Queries.GetTimeBlockByID(ctx, id)
	if err != nil {
		t.Fatalf("load seeded time block: %v", err)
	}
	return block
}
