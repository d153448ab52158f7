package booking

import (
	"context"
	"fmt"
	"strings"

	dbgen "github.com/codr1/padelbook/internal/db/generated"
)

// QuotaResult is the outcome of evaluating a member against the active
// reservation quota.
type QuotaResult struct {
	MemberID    int64        `json:"memberId"`
	Allowed     bool         `json:"allowed"`
	Blocked     bool         `json:"blocked"`
	ActiveCount int          `json:"activeCount"`
	Limit       int          `json:"limit"`
	CoOccupants []CoOccupant `json:"coOccupants"`
}

// Evaluate counts the member's confirmed reservations that have not started
// yet, as organizer or participant, and reports whether one more is allowed.
// excludingID, when non-zero, is left out of the count.
func (e *Engine) Evaluate(ctx context.Context, memberID int64, excludingID int64) (QuotaResult, error) {
	var result QuotaResult
	err := e.read(ctx, func(ctx context.Context, q dbgen.Querier) error {
		member, err := loadMember(ctx, q, memberID)
		if err != nil {
			return err
		}
		result, err = e.evaluateQuota(ctx, q, member, excludingID)
		return err
	})
	return result, err
}

func (e *Engine) evaluateQuota(ctx context.Context, q dbgen.Querier, member dbgen.Member, excludingID int64) (QuotaResult, error) {
	active, err := q.ListActiveReservationsForMember(ctx, dbgen.ListActiveReservationsForMemberParams{
		Now:       e.now(),
		ExcludeID: excludingID,
		MemberID:  member.ID,
	})
	if err != nil {
		return QuotaResult{}, fmt.Errorf("list active reservations of member %d: %w", member.ID, err)
	}

	result := QuotaResult{
		MemberID:    member.ID,
		ActiveCount: len(active),
		Limit:       e.maxActive,
		CoOccupants: []CoOccupant{},
	}
	if member.Blocked && member.Role != RoleAdmin {
		result.Blocked = true
		return result, nil
	}
	if result.ActiveCount < e.maxActive {
		result.Allowed = true
		return result, nil
	}

	result.CoOccupants, err = coOccupants(ctx, q, member.ID, active)
	if err != nil {
		return QuotaResult{}, err
	}
	return result, nil
}

func coOccupants(ctx context.Context, q dbgen.Querier, memberID int64, active []dbgen.ListActiveReservationsForMemberRow) ([]CoOccupant, error) {
	seen := map[int64]struct{}{memberID: {}}
	out := []CoOccupant{}
	add := func(id int64, name, role string) bool {
		if _, dup := seen[id]; dup {
			return true
		}
		seen[id] = struct{}{}
		out = append(out, CoOccupant{MemberID: id, Name: name, Role: role})
		return len(out) < maxCoOccupants
	}

	for _, r := range active {
		if !add(r.OrganizerID, fullName(r.OrganizerFirstName, r.OrganizerLastName), "organizer") {
			return out, nil
		}
		participants, err := q.ListReservationParticipants(ctx, r.ID)
		if err != nil {
			return nil, fmt.Errorf("list participants of reservation %d: %w", r.ID, err)
		}
		for _, p := range participants {
			if p.MemberID == r.OrganizerID {
				continue
			}
			if !add(p.MemberID, fullName(p.FirstName, p.LastName), "participant") {
				return out, nil
			}
		}
	}
	return out, nil
}

// quotaError turns a failed evaluation into the error reported to the caller.
func quotaError(member dbgen.Member, result QuotaResult, isOrganizer bool) error {
	name := fullName(member.FirstName, member.LastName)
	if result.Blocked {
		if isOrganizer {
			return newError(KindForbidden, "Your account is blocked. Contact the club to book again.")
		}
		return newError(KindForbidden, "%s is blocked and cannot join bookings.", name)
	}

	var b strings.Builder
	if isOrganizer {
		fmt.Fprintf(&b, "You already have %d active bookings (limit %d).", result.ActiveCount, result.Limit)
	} else {
		fmt.Fprintf(&b, "%s already has %d active bookings (limit %d).", name, result.ActiveCount, result.Limit)
	}
	if len(result.CoOccupants) > 0 {
		names := make([]string, 0, len(result.CoOccupants))
		for _, c := range result.CoOccupants {
			names = append(names, c.Name)
		}
		fmt.Fprintf(&b, " Shared with: %s.", strings.Join(names, ", "))
	}
	return &Error{
		Kind:        KindQuotaExceeded,
		Reason:      b.String(),
		ActiveCount: result.ActiveCount,
		CoOccupants: result.CoOccupants,
	}
}
