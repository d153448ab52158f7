package booking

import (
	"context"
	"sync"
	"testing"

	gosqlite3 "github.com/mattn/go-sqlite3"

	"github.com/codr1/padelbook/internal/clock"
	appdb "github.com/codr1/padelbook/internal/db"
	dbgen "github.com/codr1/padelbook/internal/db/generated"
	"github.com/codr1/padelbook/internal/testutil"
)

// busyStore fails the first failures attempts with SQLITE_BUSY before handing
// the transaction to fn.
type busyStore struct {
	Store
	mu       sync.Mutex
	failures int
	attempts int
}

func (s *busyStore) InTx(ctx context.Context, fn func(q dbgen.Querier) error) error {
	return s.Store.InTx(ctx, func(q dbgen.Querier) error {
		s.mu.Lock()
		s.attempts++
		attempt := s.attempts
		s.mu.Unlock()
		if attempt <= s.failures {
			return gosqlite3.Error{Code: gosqlite3.ErrBusy}
		}
		return fn(q)
	})
}

func newBusyFixture(t *testing.T, maxRetries, failures int) (*fixture, *busyStore) {
	t.Helper()

	database := testutil.NewTestDB(t)
	clk := clock.NewManual(testNow)
	store := &busyStore{Store: NewStore(database, maxRetries), failures: failures}
	return &fixture{engine: New(store, clk, Options{}), db: database, clock: clk}, store
}

func TestConcurrentCreatesForSameWindow(t *testing.T) {
	f := newFixture(t)
	const workers = 8

	organizers := f.members(t, workers)
	for _, m := range organizers {
		if _, err := f.db.Queries.AdjustMemberTickets(t.Context(), dbgen.AdjustMemberTicketsParams{Delta: 3, ID: m.ID}); err != nil {
			t.Fatalf("grant tickets: %v", err)
		}
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins []Reservation
		errs []error
	)
	for _, m := range organizers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			comp, err := WithTickets(3, m.ID)
			if err == nil {
				var res Reservation
				res, err = f.engine.CreateReservation(context.Background(), CreateRequest{
					OrganizerID:     m.ID,
					CourtID:         1,
					Start:           tomorrowAt(10, 0),
					DurationMinutes: 90,
					Composition:     comp,
				})
				if err == nil {
					mu.Lock()
					wins = append(wins, res)
					mu.Unlock()
					return
				}
			}
			mu.Lock()
			errs = append(errs, err)
			mu.Unlock()
		}()
	}
	wg.Wait()

	if len(wins) != 1 {
		t.Fatalf("expected exactly one reservation, got %d (errors: %v)", len(wins), errs)
	}
	for _, err := range errs {
		requireKind(t, err, KindConflict)
	}

	spent := 0
	for _, m := range organizers {
		spent += 3 - int(f.balance(t, m.ID))
	}
	if spent != 3 {
		t.Fatalf("expected only the winner to spend tickets, %d spent", spent)
	}
}

func TestInTxRetriesTransientFailure(t *testing.T) {
	f, store := newBusyFixture(t, 2, 2)
	m := f.member(t, testutil.MemberOpts{Tickets: 3})

	res, err := f.engine.CreateReservation(t.Context(), CreateRequest{
		OrganizerID: m.ID,
		CourtID:     1,
		Start:       tomorrowAt(10, 0),
		Composition: mustComposition(t, 3, m.ID),
	})
	if err != nil {
		t.Fatalf("create after retries: %v", err)
	}
	if store.attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", store.attempts)
	}
	if f.reservation(t, res.ID).Status != StatusConfirmed {
		t.Fatalf("reservation not committed")
	}
	if balance := f.balance(t, m.ID); balance != 0 {
		t.Fatalf("tickets deducted more than once: balance %d", balance)
	}
}

func TestInTxSurfacesInfrastructureAfterRetries(t *testing.T) {
	f, store := newBusyFixture(t, 2, 100)
	m := f.member(t, testutil.MemberOpts{Tickets: 3})

	_, err := f.engine.CreateReservation(t.Context(), CreateRequest{
		OrganizerID: m.ID,
		CourtID:     1,
		Start:       tomorrowAt(10, 0),
		Composition: mustComposition(t, 3, m.ID),
	})
	bErr := requireKind(t, err, KindInfrastructure)
	if !bErr.Kind.Retryable() {
		t.Fatalf("infrastructure errors should be retryable")
	}
	if !appdb.IsTransient(err) {
		t.Fatalf("expected the busy error to be wrapped, got %v", err)
	}
	if store.attempts != 3 {
		t.Fatalf("expected 1 attempt plus 2 retries, got %d", store.attempts)
	}
	if balance := f.balance(t, m.ID); balance != 3 {
		t.Fatalf("balance changed: %d", balance)
	}
}

func TestInTxDoesNotRetryDomainErrors(t *testing.T) {
	f, store := newBusyFixture(t, 2, 0)
	m := f.member(t, testutil.MemberOpts{})

	_, err := f.engine.CreateReservation(t.Context(), CreateRequest{
		OrganizerID: m.ID,
		CourtID:     1,
		Start:       tomorrowAt(10, 0),
		Composition: mustComposition(t, 3, m.ID),
	})
	requireKind(t, err, KindInsufficientTickets)
	if store.attempts != 1 {
		t.Fatalf("expected a single attempt, got %d", store.attempts)
	}
}
