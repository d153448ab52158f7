package booking

import "fmt"

const (
	// SlotsPerReservation is the number of player places every reservation fills.
	SlotsPerReservation = 4
	// MaxTickets is the most places tickets may cover; the organizer always plays.
	MaxTickets = SlotsPerReservation - 1
)

type Mode int

const (
	ModeParticipants Mode = iota + 1
	ModeTickets
)

func (m Mode) String() string {
	switch m {
	case ModeParticipants:
		return "participants"
	case ModeTickets:
		return "tickets"
	default:
		return "unknown"
	}
}

// Composition describes how the four places of a reservation are filled.
// The zero value is invalid; build one with FullParticipants, WithTickets or
// NewComposition.
type Composition struct {
	tickets int
	members []int64
}

// FullParticipants builds a composition of four distinct members.
func FullParticipants(memberIDs ...int64) (Composition, error) {
	if len(memberIDs) != SlotsPerReservation {
		return Composition{}, newError(KindInvalidComposition,
			"A booking without tickets needs exactly %d players, got %d.", SlotsPerReservation, len(memberIDs))
	}
	members, err := distinctMembers(memberIDs)
	if err != nil {
		return Composition{}, err
	}
	return Composition{members: members}, nil
}

// WithTickets builds a composition where count tickets cover the places not
// taken by memberIDs.
func WithTickets(count int, memberIDs ...int64) (Composition, error) {
	if count < 1 || count > MaxTickets {
		return Composition{}, newError(KindInvalidComposition,
			"Between 1 and %d tickets can be used, got %d.", MaxTickets, count)
	}
	want := SlotsPerReservation - count
	if len(memberIDs) != want {
		return Composition{}, newError(KindInvalidComposition,
			"With %d ticket(s) the booking needs exactly %d player(s), got %d.", count, want, len(memberIDs))
	}
	members, err := distinctMembers(memberIDs)
	if err != nil {
		return Composition{}, err
	}
	return Composition{tickets: count, members: members}, nil
}

// NewComposition dispatches on ticketCount: zero means four participants.
func NewComposition(ticketCount int, memberIDs []int64) (Composition, error) {
	if ticketCount == 0 {
		return FullParticipants(memberIDs...)
	}
	return WithTickets(ticketCount, memberIDs...)
}

func distinctMembers(ids []int64) ([]int64, error) {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id <= 0 {
			return nil, newError(KindInvalidComposition, "Invalid member id %d.", id)
		}
		if _, dup := seen[id]; dup {
			return nil, newError(KindInvalidComposition, "Member %d appears more than once.", id)
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out, nil
}

func (c Composition) Mode() Mode {
	switch {
	case len(c.members) == 0:
		return 0
	case c.tickets > 0:
		return ModeTickets
	default:
		return ModeParticipants
	}
}

func (c Composition) Tickets() int {
	return c.tickets
}

func (c Composition) UsesTickets() bool {
	return c.tickets > 0
}

// Members returns a copy of the participant ids.
func (c Composition) Members() []int64 {
	out := make([]int64, len(c.members))
	copy(out, c.members)
	return out
}

func (c Composition) Includes(memberID int64) bool {
	for _, id := range c.members {
		if id == memberID {
			return true
		}
	}
	return false
}

func (c Composition) valid() bool {
	return len(c.members) > 0 && c.tickets+len(c.members) == SlotsPerReservation
}

func (c Composition) requireOrganizer(organizerID int64) error {
	if !c.valid() {
		return newError(KindInvalidComposition, "The booking composition is missing.")
	}
	if !c.Includes(organizerID) {
		return newError(KindInvalidComposition, "The organizer must be one of the players.")
	}
	return nil
}

func (c Composition) String() string {
	return fmt.Sprintf("%s(tickets=%d, members=%v)", c.Mode(), c.tickets, c.members)
}
