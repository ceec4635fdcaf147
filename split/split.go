package split

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

// ErrNoParticipants is returned when a draft has no members and no usable guests.
var ErrNoParticipants = errors.New("expense needs at least one participant")

// Guest is an ad-hoc participant scoped to a single expense. A guest with a
// ResponsibleMemberID is sponsored: their share is folded into that member's
// share and they never appear in the ledger themselves.
type Guest struct {
	Name                string
	ResponsibleMemberID *uuid.UUID
}

// Draft holds the inputs of one expense before allocation.
type Draft struct {
	TotalAmount float64
	PayerID     uuid.UUID
	MemberIDs   []uuid.UUID
	Guests      []Guest
}

// Share is one ledger row of the computed split. MemberID is uuid.Nil for
// guest rows, which carry GuestName instead.
type Share struct {
	MemberID  uuid.UUID
	GuestName string
	Amount    float64
	IsPaid    bool
	IsPayer   bool
}

// Result is the output of ComputeShares.
type Result struct {
	Shares         []Share
	SharePerEntity float64
}

// ComputeShares divides a draft's total equally among its entities (selected
// members plus non-empty-named guests) and returns the participant ledger.
//
// Sponsored guests add one share to their sponsor's accumulated amount. A
// sponsor does not have to be a selected member: referencing one creates a
// fresh entry, so the sponsor implicitly joins the expense. The payer never
// gets a non-payer row; exactly one payer row with amount 0 is appended last.
//
// Amounts are raw float64 quotients. Truncation to whole currency units
// happens only when formatting for display.
func ComputeShares(draft Draft) (Result, error) {
	guests := make([]Guest, 0, len(draft.Guests))
	for _, g := range draft.Guests {
		if strings.TrimSpace(g.Name) == "" {
			continue
		}
		guests = append(guests, g)
	}

	totalEntities := len(draft.MemberIDs) + len(guests)
	if totalEntities == 0 {
		return Result{}, ErrNoParticipants
	}

	perEntity := draft.TotalAmount / float64(totalEntities)

	// Ordered accumulator keyed by member ID: iteration order is insertion
	// order so recomputation is deterministic.
	order := make([]uuid.UUID, 0, len(draft.MemberIDs))
	amounts := make(map[uuid.UUID]float64, len(draft.MemberIDs))
	accumulate := func(id uuid.UUID, amount float64) {
		if _, ok := amounts[id]; !ok {
			order = append(order, id)
		}
		amounts[id] += amount
	}

	for _, id := range draft.MemberIDs {
		accumulate(id, perEntity)
	}

	var shares []Share
	for _, g := range guests {
		if g.ResponsibleMemberID != nil {
			accumulate(*g.ResponsibleMemberID, perEntity)
			continue
		}
		shares = append(shares, Share{GuestName: g.Name, Amount: perEntity})
	}

	for _, id := range order {
		if id == draft.PayerID {
			continue
		}
		shares = append(shares, Share{MemberID: id, Amount: amounts[id]})
	}

	// The payer fronted the full amount, so their own share is never owed.
	shares = append(shares, Share{MemberID: draft.PayerID, IsPaid: true, IsPayer: true})

	return Result{Shares: shares, SharePerEntity: perEntity}, nil
}

// PreservePaidFlags carries paid flags from a previous ledger into a freshly
// recomputed one. Member rows are matched by member ID, guest rows by guest
// name; unmatched rows keep their defaults. The input slice is not modified.
func PreservePaidFlags(shares, previous []Share) []Share {
	out := make([]Share, len(shares))
	copy(out, shares)

	for i := range out {
		if out[i].IsPayer {
			continue
		}
		for _, prev := range previous {
			if prev.IsPayer {
				continue
			}
			if out[i].MemberID != uuid.Nil {
				if prev.MemberID == out[i].MemberID {
					out[i].IsPaid = prev.IsPaid
					break
				}
				continue
			}
			if prev.MemberID == uuid.Nil && prev.GuestName == out[i].GuestName {
				out[i].IsPaid = prev.IsPaid
				break
			}
		}
	}

	return out
}
