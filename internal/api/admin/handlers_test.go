package admin

// NOTE: Tests cannot use t.Parallel() due to shared package state.

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/codr1/padelbook/internal/api/apiutil"
	"github.com/codr1/padelbook/internal/api/authz"
	"github.com/codr1/padelbook/internal/booking"
	"github.com/codr1/padelbook/internal/clock"
	"github.com/codr1/padelbook/internal/db"
	dbgen "github.com/codr1/padelbook/internal/db/generated"
	"github.com/codr1/padelbook/internal/testutil"
)

var testNow = time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

type adminFixture struct {
	db     *db.DB
	admin  dbgen.Member
	member dbgen.Member
}

func setupAdminTest(t *testing.T) *adminFixture {
	t.Helper()

	database := testutil.NewTestDB(t)
	prevEngine := engine
	t.Cleanup(func() {
		engine = prevEngine
	})
	engine = booking.New(booking.NewStore(database, 2), clock.NewManual(testNow), booking.Options{})

	return &adminFixture{
		db:     database,
		admin:  testutil.SeedMember(t, database, testutil.MemberOpts{Admin: true}),
		member: testutil.SeedMember(t, database, testutil.MemberOpts{Tickets: 3}),
	}
}

func call(t *testing.T, handler http.HandlerFunc, method, body string, as *dbgen.Member, id int64) *httptest.ResponseRecorder {
	t.Helper()
	return callPath(t, handler, method, "/api/v1/admin", body, as, id)
}

func callPath(t *testing.T, handler http.HandlerFunc, method, path, body string, as *dbgen.Member, id int64) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	if id != 0 {
		req.SetPathValue("id", strconv.FormatInt(id, 10))
	}
	if as != nil {
		req = req.WithContext(authz.ContextWithUser(req.Context(), &authz.AuthUser{ID: as.ID, Role: as.Role}))
	}
	recorder := httptest.NewRecorder()
	handler(recorder, req)
	return recorder
}

func decodeResponse[T any](t *testing.T, recorder *httptest.ResponseRecorder, status int) T {
	t.Helper()
	if recorder.Code != status {
		t.Fatalf("expected %d, got %d: %s", status, recorder.Code, recorder.Body.String())
	}
	var out T
	if err := json.Unmarshal(recorder.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func TestAdminHandlersRequireAdministrator(t *testing.T) {
	f := setupAdminTest(t)

	handlers := map[string]http.HandlerFunc{
		"create":     HandleBookingCreate,
		"cancel":     HandleBookingCancel,
		"block":      HandleMemberBlock,
		"tickets":    HandleMemberTickets,
		"court":      HandleCourtActive,
		"list":       HandleTimeBlockList,
		"block-new":  HandleTimeBlockCreate,
		"deactivate": HandleTimeBlockDeactivate,
		"delete":     HandleTimeBlockDelete,
		"audit":      HandleQuotaAudit,
	}
	for name, handler := range handlers {
		t.Run(name, func(t *testing.T) {
			if got := call(t, handler, http.MethodPost, "{}", nil, 1).Code; got != http.StatusUnauthorized {
				t.Fatalf("anonymous: expected 401, got %d", got)
			}
			body := decodeResponse[apiutil.ErrorResponse](t, call(t, handler, http.MethodPost, "{}", &f.member, 1), http.StatusForbidden)
			if body.Kind != "forbidden" {
				t.Fatalf("expected forbidden kind, got %q", body.Kind)
			}
		})
	}
}

func TestHandleBookingCreateWithOverride(t *testing.T) {
	f := setupAdminTest(t)
	testutil.SeedTimeBlock(t, f.db, 1, "2026-10-20", "10:00", "12:00", "maintenance")

	body := fmt.Sprintf(`{"organizerId":%d,"courtId":1,"start":"2026-10-20T10:30","tickets":3,"memberIds":[%d]}`, f.member.ID, f.member.ID)
	rejected := decodeResponse[apiutil.ErrorResponse](t, call(t, HandleBookingCreate, http.MethodPost, body, &f.admin, 0), http.StatusConflict)
	if rejected.Kind != "conflict" {
		t.Fatalf("expected conflict, got %q", rejected.Kind)
	}

	body = fmt.Sprintf(`{"organizerId":%d,"courtId":1,"start":"2026-10-20T10:30","tickets":3,"memberIds":[%d],"override":{"skipAvailabilityCheck":true}}`, f.member.ID, f.member.ID)
	res := decodeResponse[booking.Reservation](t, call(t, HandleBookingCreate, http.MethodPost, body, &f.admin, 0), http.StatusCreated)
	if res.OrganizerID != f.member.ID || res.TicketsConsumed != 3 || res.DurationMinutes != 90 {
		t.Fatalf("unexpected reservation: %+v", res)
	}

	// The ticket balance is never bypassed.
	again := decodeResponse[apiutil.ErrorResponse](t, call(t, HandleBookingCreate, http.MethodPost, body, &f.admin, 0), http.StatusForbidden)
	if again.Kind != "insufficient_tickets" {
		t.Fatalf("expected insufficient_tickets, got %q", again.Kind)
	}

	result := decodeResponse[booking.CancelResult](t, call(t, HandleBookingCancel, http.MethodDelete, "", &f.admin, res.ID), http.StatusOK)
	if result.Cause != booking.CancelByAdmin || result.TicketsRestored != 3 {
		t.Fatalf("unexpected cancel result: %+v", result)
	}

	if got := call(t, HandleBookingCreate, http.MethodPost, `{"courtId":1}`, &f.admin, 0).Code; got != http.StatusBadRequest {
		t.Fatalf("missing organizer: expected 400, got %d", got)
	}
}

func TestHandleMemberAdministration(t *testing.T) {
	f := setupAdminTest(t)

	member := decodeResponse[booking.Member](t, call(t, HandleMemberBlock, http.MethodPut, `{"blocked":true}`, &f.admin, f.member.ID), http.StatusOK)
	if !member.Blocked {
		t.Fatalf("expected blocked member: %+v", member)
	}
	if got := call(t, HandleMemberBlock, http.MethodPut, `{}`, &f.admin, f.member.ID).Code; got != http.StatusBadRequest {
		t.Fatalf("missing blocked: expected 400, got %d", got)
	}
	decodeResponse[apiutil.ErrorResponse](t, call(t, HandleMemberBlock, http.MethodPut, `{"blocked":true}`, &f.admin, f.admin.ID), http.StatusForbidden)

	member = decodeResponse[booking.Member](t, call(t, HandleMemberTickets, http.MethodPost, `{"delta":5}`, &f.admin, f.member.ID), http.StatusOK)
	if member.TicketBalance != 8 {
		t.Fatalf("expected balance 8, got %d", member.TicketBalance)
	}
	rejected := decodeResponse[apiutil.ErrorResponse](t, call(t, HandleMemberTickets, http.MethodPost, `{"delta":-9}`, &f.admin, f.member.ID), http.StatusForbidden)
	if rejected.Kind != "insufficient_tickets" {
		t.Fatalf("expected insufficient_tickets, got %q", rejected.Kind)
	}
	if got := call(t, HandleMemberTickets, http.MethodPost, `{"delta":0}`, &f.admin, f.member.ID).Code; got != http.StatusBadRequest {
		t.Fatalf("zero delta: expected 400, got %d", got)
	}
	decodeResponse[apiutil.ErrorResponse](t, call(t, HandleMemberTickets, http.MethodPost, `{"delta":1}`, &f.admin, 9999), http.StatusNotFound)
}

func TestHandleCourtActive(t *testing.T) {
	f := setupAdminTest(t)

	court := decodeResponse[booking.Court](t, call(t, HandleCourtActive, http.MethodPut, `{"active":false}`, &f.admin, 2), http.StatusOK)
	if court.ID != 2 || court.Active {
		t.Fatalf("unexpected court: %+v", court)
	}
	decodeResponse[apiutil.ErrorResponse](t, call(t, HandleCourtActive, http.MethodPut, `{"active":true}`, &f.admin, 42), http.StatusNotFound)
	if got := call(t, HandleCourtActive, http.MethodPut, `{"active":"yes"}`, &f.admin, 2).Code; got != http.StatusBadRequest {
		t.Fatalf("bad body: expected 400, got %d", got)
	}
}

func TestHandleTimeBlocks(t *testing.T) {
	f := setupAdminTest(t)

	created := decodeResponse[booking.TimeBlock](t, call(t, HandleTimeBlockCreate, http.MethodPost,
		`{"courtId":2,"date":"2026-10-21","startTime":"08:00","endTime":"10:00","reason":"resurfacing"}`, &f.admin, 0), http.StatusCreated)
	if created.CourtID == nil || *created.CourtID != 2 || !created.Active || created.Reason != "resurfacing" {
		t.Fatalf("unexpected block: %+v", created)
	}
	global := decodeResponse[booking.TimeBlock](t, call(t, HandleTimeBlockCreate, http.MethodPost,
		`{"date":"2026-10-22","startTime":"18:00","endTime":"23:00"}`, &f.admin, 0), http.StatusCreated)
	if global.CourtID != nil {
		t.Fatalf("expected a block on every court: %+v", global)
	}

	invalid := decodeResponse[apiutil.ErrorResponse](t, call(t, HandleTimeBlockCreate, http.MethodPost,
		`{"date":"2026-10-22","startTime":"20:00","endTime":"18:00"}`, &f.admin, 0), http.StatusBadRequest)
	if invalid.Kind != "invalid_window" {
		t.Fatalf("expected invalid_window, got %q", invalid.Kind)
	}

	list := decodeResponse[timeBlocksResponse](t, callPath(t, HandleTimeBlockList, http.MethodGet,
		"/api/v1/admin/time-blocks?from=2026-10-21&to=2026-10-21", "", &f.admin, 0), http.StatusOK)
	if len(list.TimeBlocks) != 1 || list.TimeBlocks[0].ID != created.ID {
		t.Fatalf("unexpected list: %+v", list.TimeBlocks)
	}

	if got := call(t, HandleTimeBlockDeactivate, http.MethodPost, "", &f.admin, created.ID).Code; got != http.StatusNoContent {
		t.Fatalf("deactivate: expected 204, got %d", got)
	}
	list = decodeResponse[timeBlocksResponse](t, callPath(t, HandleTimeBlockList, http.MethodGet,
		"/api/v1/admin/time-blocks", "", &f.admin, 0), http.StatusOK)
	if len(list.TimeBlocks) != 2 || list.TimeBlocks[0].Active {
		t.Fatalf("expected the deactivated block to be listed first: %+v", list.TimeBlocks)
	}

	if got := call(t, HandleTimeBlockDelete, http.MethodDelete, "", &f.admin, global.ID).Code; got != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", got)
	}
	decodeResponse[apiutil.ErrorResponse](t, call(t, HandleTimeBlockDelete, http.MethodDelete, "", &f.admin, global.ID), http.StatusNotFound)
}

func TestHandleQuotaAudit(t *testing.T) {
	f := setupAdminTest(t)
	partner := testutil.SeedMember(t, f.db, testutil.MemberOpts{})
	for day := 20; day <= 22; day++ {
		testutil.SeedReservation(t, f.db, partner.ID, 1, time.Date(2026, 10, day, 18, 0, 0, 0, time.UTC), 90, 2, partner.ID, f.member.ID)
	}

	report := decodeResponse[booking.AuditReport](t, call(t, HandleQuotaAudit, http.MethodPost, "", &f.admin, 0), http.StatusOK)
	if report.MembersCorrected != 1 || len(report.Cancelled) != 1 || report.TicketsRestored != 2 {
		t.Fatalf("unexpected report: %+v", report)
	}
}
