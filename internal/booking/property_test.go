package booking

import (
	"math/rand"
	"testing"
	"time"

	"github.com/codr1/padelbook/internal/testutil"
)

// Random admissions, edits and cancellations against a small grid must
// never leave two confirmed reservations overlapping on one court, a
// reservation that does not fill four places, or a member over the quota.
func TestRandomOperationsKeepInvariants(t *testing.T) {
	f := newFixtureWithOptions(t, Options{})
	ctx := t.Context()
	rng := rand.New(rand.NewSource(20261019))

	members := make([]int64, 0, 8)
	for i := 0; i < 8; i++ {
		members = append(members, f.member(t, testutil.MemberOpts{Tickets: 6}).ID)
	}
	pick := func(organizer int64, n int) []int64 {
		out := []int64{organizer}
		for _, idx := range rng.Perm(len(members)) {
			if len(out) == n {
				break
			}
			if members[idx] != organizer {
				out = append(out, members[idx])
			}
		}
		return out
	}

	var created []int64
	for i := 0; i < 150; i++ {
		organizer := members[rng.Intn(len(members))]
		switch op := rng.Intn(10); {
		case op < 7:
			tickets := rng.Intn(4)
			comp, err := NewComposition(tickets, pick(organizer, SlotsPerReservation-tickets))
			if err != nil {
				t.Fatalf("composition: %v", err)
			}
			start := tomorrowAt(8, 0).Add(time.Duration(rng.Intn(24)) * 30 * time.Minute)
			res, err := f.engine.CreateReservation(ctx, CreateRequest{
				OrganizerID:     organizer,
				CourtID:         int64(1 + rng.Intn(2)),
				Start:           start,
				DurationMinutes: 30 + rng.Intn(61),
				Composition:     comp,
			})
			if err == nil {
				created = append(created, res.ID)
			} else if KindOf(err) == KindInfrastructure {
				t.Fatalf("create: %v", err)
			}
		case op < 9 && len(created) > 0:
			resID := created[rng.Intn(len(created))]
			res := f.reservation(t, resID)
			tickets := 1 + rng.Intn(3)
			_, err := f.engine.UpdateComposition(ctx, resID, res.OrganizerID, tickets, pick(res.OrganizerID, SlotsPerReservation-tickets))
			if err != nil && KindOf(err) == KindInfrastructure {
				t.Fatalf("update: %v", err)
			}
		case len(created) > 0:
			resID := created[rng.Intn(len(created))]
			participants := f.participantIDs(t, resID)
			if len(participants) == 0 {
				continue
			}
			_, err := f.engine.CancelParticipation(ctx, resID, participants[rng.Intn(len(participants))])
			if err != nil && KindOf(err) == KindInfrastructure {
				t.Fatalf("cancel: %v", err)
			}
		}
	}

	confirmed, err := f.engine.ListReservations(ctx, testNow, testNow.Add(72*time.Hour))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(confirmed) == 0 {
		t.Fatalf("no reservation admitted; the run exercised nothing")
	}

	for i, a := range confirmed {
		if a.TicketsConsumed < 0 || a.TicketsConsumed > MaxTickets || a.TicketsConsumed+len(a.Participants) != SlotsPerReservation {
			t.Fatalf("reservation %d breaks the 4-place rule: tickets=%d participants=%d", a.ID, a.TicketsConsumed, len(a.Participants))
		}
		for _, b := range confirmed[i+1:] {
			if a.CourtID == b.CourtID && a.Start.Before(b.End) && b.Start.Before(a.End) {
				t.Fatalf("reservations %d and %d overlap on court %d", a.ID, b.ID, a.CourtID)
			}
		}
	}

	for _, id := range members {
		q, err := f.engine.Evaluate(ctx, id, 0)
		if err != nil {
			t.Fatalf("evaluate: %v", err)
		}
		if q.ActiveCount > f.engine.MaxActive() {
			t.Fatalf("member %d holds %d active reservations", id, q.ActiveCount)
		}
		m, err := f.db.Queries.GetMemberByID(ctx, id)
		if err != nil {
			t.Fatalf("load member: %v", err)
		}
		if m.TicketBalance < 0 {
			t.Fatalf("member %d balance negative: %d", id, m.TicketBalance)
		}
	}
}
