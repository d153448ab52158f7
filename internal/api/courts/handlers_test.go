package courts

// NOTE: Tests cannot use t.Parallel() due to shared package state.

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/codr1/padelbook/internal/booking"
	"github.com/codr1/padelbook/internal/clock"
	"github.com/codr1/padelbook/internal/db"
	"github.com/codr1/padelbook/internal/testutil"
)

var testNow = time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

func setupCourtsTest(t *testing.T) *db.DB {
	t.Helper()

	database := testutil.NewTestDB(t)
	prevEngine := engine
	t.Cleanup(func() {
		engine = prevEngine
	})
	engine = booking.New(booking.NewStore(database, 2), clock.NewManual(testNow), booking.Options{})
	return database
}

func get(t *testing.T, handler http.HandlerFunc, path string, pathID string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if pathID != "" {
		req.SetPathValue("id", pathID)
	}
	recorder := httptest.NewRecorder()
	handler(recorder, req)
	return recorder
}

func decode[T any](t *testing.T, recorder *httptest.ResponseRecorder) T {
	t.Helper()
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}
	var out T
	if err := json.Unmarshal(recorder.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func TestHandlePlanning(t *testing.T) {
	database := setupCourtsTest(t)
	member := testutil.SeedMember(t, database, testutil.MemberOpts{})
	res := testutil.SeedReservation(t, database, member.ID, 2, time.Date(2026, 10, 20, 10, 30, 0, 0, time.UTC), 90, 3, member.ID)

	plan := decode[booking.DayPlan](t, get(t, HandlePlanning, "/api/v1/planning?date=2026-10-20", ""))
	if plan.Date != "2026-10-20" || len(plan.Courts) != 3 || len(plan.Rows) != 17 {
		t.Fatalf("plan: date=%s courts=%d rows=%d", plan.Date, len(plan.Courts), len(plan.Rows))
	}

	found := false
	for _, row := range plan.Rows {
		for _, cell := range row.Cells {
			if cell.State == booking.CellBooked {
				if row.Slot.Label != "10:30" || cell.CourtID != 2 || cell.ReservationID != res.ID {
					t.Fatalf("unexpected booked cell %s %+v", row.Slot.Label, cell)
				}
				found = true
			}
		}
	}
	if !found {
		t.Fatal("booked cell missing")
	}

	// No date means today in the facility timezone.
	today := decode[booking.DayPlan](t, get(t, HandlePlanning, "/api/v1/planning", ""))
	if today.Date != "2026-10-19" {
		t.Fatalf("expected today, got %s", today.Date)
	}

	if recorder := get(t, HandlePlanning, "/api/v1/planning?date=20-10-2026", ""); recorder.Code != http.StatusBadRequest {
		t.Fatalf("bad date: expected 400, got %d", recorder.Code)
	}
}

func TestHandleSlots(t *testing.T) {
	setupCourtsTest(t)

	day := decode[slotsResponse](t, get(t, HandleSlots, "/api/v1/slots?date=2026-10-20", ""))
	if len(day.Days) != 1 || day.Days[0].Date != "2026-10-20" || len(day.Days[0].Slots) != 17 {
		t.Fatalf("unexpected day: %+v", day.Days)
	}

	week := decode[slotsResponse](t, get(t, HandleSlots, "/api/v1/slots?date=2026-10-20&days=7", ""))
	if len(week.Days) != 7 || week.Days[6].Date != "2026-10-26" {
		t.Fatalf("unexpected week: %d days", len(week.Days))
	}

	if recorder := get(t, HandleSlots, "/api/v1/slots?days=3", ""); recorder.Code != http.StatusBadRequest {
		t.Fatalf("bad days: expected 400, got %d", recorder.Code)
	}
}

func TestHandleCourtList(t *testing.T) {
	database := setupCourtsTest(t)
	testutil.SeedCourt(t, database, 3, false)

	got := decode[courtsResponse](t, get(t, HandleCourtList, "/api/v1/courts", ""))
	if len(got.Courts) != 3 {
		t.Fatalf("expected 3 courts, got %d", len(got.Courts))
	}
	if got.Courts[2].Active {
		t.Fatalf("court 3 should be inactive: %+v", got.Courts[2])
	}
}

func TestHandleCourtAvailability(t *testing.T) {
	database := setupCourtsTest(t)
	member := testutil.SeedMember(t, database, testutil.MemberOpts{})
	res := testutil.SeedReservation(t, database, member.ID, 1, time.Date(2026, 10, 20, 10, 30, 0, 0, time.UTC), 90, 3, member.ID)
	testutil.SeedTimeBlock(t, database, 2, "2026-10-20", "18:00", "20:00", "tournament")

	tests := []struct {
		name     string
		path     string
		id       string
		want     bool
		duration int
	}{
		{"booked", "/x?start=2026-10-20T11:00", "1", false, 90},
		{"free court", "/x?start=2026-10-20T11:00", "2", true, 90},
		{"excluding itself", "/x?start=2026-10-20T10:30&exclude=" + strconv.FormatInt(res.ID, 10), "1", true, 90},
		{"adjacent", "/x?start=2026-10-20T12:00&duration=60", "1", true, 60},
		{"lunch default", "/x?start=2026-10-20T12:00", "3", true, 60},
		{"blocked", "/x?start=2026-10-20T19:00&duration=30", "2", false, 30},
		{"unknown court", "/x?start=2026-10-20T11:00", "99", false, 90},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := decode[availabilityResponse](t, get(t, HandleCourtAvailability, tt.path, tt.id))
			if got.Available != tt.want || got.DurationMinutes != tt.duration {
				t.Fatalf("got %+v", got)
			}
		})
	}

	for _, path := range []string{"/x", "/x?start=2026-10-20T11:00&duration=-5", "/x?start=2026-10-20T11:00&exclude=abc"} {
		if recorder := get(t, HandleCourtAvailability, path, "1"); recorder.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", path, recorder.Code)
		}
	}
	if recorder := get(t, HandleCourtAvailability, "/x?start=2026-10-20T11:00", "zero"); recorder.Code != http.StatusBadRequest {
		t.Fatalf("bad id: expected 400, got %d", recorder.Code)
	}
}
