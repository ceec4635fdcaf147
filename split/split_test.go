package split

import (
	"math"
	"testing"

	"github.com/google/uuid"
)

var (
	memberA = uuid.MustParse("00000000-0000-0000-0000-00000000000a")
	memberB = uuid.MustParse("00000000-0000-0000-0000-00000000000b")
	memberC = uuid.MustParse("00000000-0000-0000-0000-00000000000c")
)

func TestComputeShares(t *testing.T) {
	tests := []struct {
		name         string
		draft        Draft
		wantErr      error
		wantPer      float64
		validateFunc func(t *testing.T, res Result)
	}{
		{
			name: "three members, payer excluded",
			draft: Draft{
				TotalAmount: 900000,
				PayerID:     memberA,
				MemberIDs:   []uuid.UUID{memberA, memberB, memberC},
			},
			wantPer: 300000,
			validateFunc: func(t *testing.T, res Result) {
				if len(res.Shares) != 3 {
					t.Fatalf("got %d shares, want 3", len(res.Shares))
				}
				assertMemberShare(t, res.Shares[0], memberB, 300000, false)
				assertMemberShare(t, res.Shares[1], memberC, 300000, false)
				assertPayerShare(t, res.Shares[2], memberA)
			},
		},
		{
			name: "sponsored guest merges into sponsor",
			draft: Draft{
				TotalAmount: 400000,
				PayerID:     memberA,
				MemberIDs:   []uuid.UUID{memberA, memberB},
				Guests:      []Guest{{Name: "Khách", ResponsibleMemberID: &memberB}},
			},
			wantPer: 200000,
			validateFunc: func(t *testing.T, res Result) {
				if len(res.Shares) != 2 {
					t.Fatalf("got %d shares, want 2", len(res.Shares))
				}
				// Guest is not an entity of their own and produces no row;
				// their share lands on B.
				assertMemberShare(t, res.Shares[0], memberB, 400000, false)
				assertPayerShare(t, res.Shares[1], memberA)
			},
		},
		{
			name: "unsponsored guest gets own row",
			draft: Draft{
				TotalAmount: 300000,
				PayerID:     memberA,
				MemberIDs:   []uuid.UUID{memberA},
				Guests:      []Guest{{Name: "X"}},
			},
			wantPer: 150000,
			validateFunc: func(t *testing.T, res Result) {
				if len(res.Shares) != 2 {
					t.Fatalf("got %d shares, want 2", len(res.Shares))
				}
				g := res.Shares[0]
				if g.MemberID != uuid.Nil || g.GuestName != "X" {
					t.Errorf("expected guest row for X, got %+v", g)
				}
				if math.Abs(g.Amount-150000) > 1e-9 {
					t.Errorf("guest amount = %v, want 150000", g.Amount)
				}
				if g.IsPaid || g.IsPayer {
					t.Errorf("guest row must start unpaid and non-payer, got %+v", g)
				}
				assertPayerShare(t, res.Shares[1], memberA)
			},
		},
		{
			name: "sponsor outside selected members implicitly joins",
			draft: Draft{
				TotalAmount: 200000,
				PayerID:     memberA,
				MemberIDs:   []uuid.UUID{memberA},
				Guests:      []Guest{{Name: "Khách", ResponsibleMemberID: &memberC}},
			},
			wantPer: 100000,
			validateFunc: func(t *testing.T, res Result) {
				if len(res.Shares) != 2 {
					t.Fatalf("got %d shares, want 2", len(res.Shares))
				}
				// C was never selected but accumulates the guest's share.
				assertMemberShare(t, res.Shares[0], memberC, 100000, false)
				assertPayerShare(t, res.Shares[1], memberA)
			},
		},
		{
			name: "guest sponsored by the payer stays invisible",
			draft: Draft{
				TotalAmount: 300000,
				PayerID:     memberA,
				MemberIDs:   []uuid.UUID{memberA, memberB},
				Guests:      []Guest{{Name: "Khách", ResponsibleMemberID: &memberA}},
			},
			wantPer: 100000,
			validateFunc: func(t *testing.T, res Result) {
				if len(res.Shares) != 2 {
					t.Fatalf("got %d shares, want 2", len(res.Shares))
				}
				// A absorbs the guest share but is still emitted as the
				// payer row with amount 0.
				assertMemberShare(t, res.Shares[0], memberB, 100000, false)
				assertPayerShare(t, res.Shares[1], memberA)
			},
		},
		{
			name: "empty and whitespace guest names are dropped",
			draft: Draft{
				TotalAmount: 200000,
				PayerID:     memberA,
				MemberIDs:   []uuid.UUID{memberA, memberB},
				Guests:      []Guest{{Name: ""}, {Name: "   "}},
			},
			wantPer: 100000,
			validateFunc: func(t *testing.T, res Result) {
				if len(res.Shares) != 2 {
					t.Fatalf("got %d shares, want 2", len(res.Shares))
				}
				assertMemberShare(t, res.Shares[0], memberB, 100000, false)
				assertPayerShare(t, res.Shares[1], memberA)
			},
		},
		{
			name:    "no participants",
			draft:   Draft{TotalAmount: 100000, PayerID: memberA},
			wantErr: ErrNoParticipants,
		},
		{
			name: "only blank guests is still no participants",
			draft: Draft{
				TotalAmount: 100000,
				PayerID:     memberA,
				Guests:      []Guest{{Name: " "}},
			},
			wantErr: ErrNoParticipants,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := ComputeShares(tt.draft)
			if tt.wantErr != nil {
				if err != tt.wantErr {
					t.Fatalf("ComputeShares() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ComputeShares() error = %v", err)
			}
			if math.Abs(res.SharePerEntity-tt.wantPer) > 1e-9 {
				t.Errorf("SharePerEntity = %v, want %v", res.SharePerEntity, tt.wantPer)
			}
			if tt.validateFunc != nil {
				tt.validateFunc(t, res)
			}
		})
	}
}

// Every entity carries exactly one share, the payer's included, so emitted
// amounts plus the payer's implicit share must rebuild the total.
func TestComputeSharesConservation(t *testing.T) {
	drafts := []Draft{
		{
			TotalAmount: 100000,
			PayerID:     memberA,
			MemberIDs:   []uuid.UUID{memberA, memberB, memberC},
		},
		{
			TotalAmount: 1000000,
			PayerID:     memberA,
			MemberIDs:   []uuid.UUID{memberA, memberB},
			Guests: []Guest{
				{Name: "Khách 1", ResponsibleMemberID: &memberB},
				{Name: "Khách 2"},
				{Name: "Khách 3"},
			},
		},
		{
			TotalAmount: 70000,
			PayerID:     memberB,
			MemberIDs:   []uuid.UUID{memberA, memberB, memberC},
			Guests:      []Guest{{Name: "X", ResponsibleMemberID: &memberA}},
		},
	}

	for _, draft := range drafts {
		res, err := ComputeShares(draft)
		if err != nil {
			t.Fatalf("ComputeShares() error = %v", err)
		}

		sum := res.SharePerEntity // payer's implicit share, recorded as 0
		for _, s := range res.Shares {
			sum += s.Amount
		}
		if math.Abs(sum-draft.TotalAmount) > 1e-6 {
			t.Errorf("shares sum to %v, want %v", sum, draft.TotalAmount)
		}
	}
}

func TestComputeSharesDeterministic(t *testing.T) {
	draft := Draft{
		TotalAmount: 500000,
		PayerID:     memberC,
		MemberIDs:   []uuid.UUID{memberB, memberA, memberC},
		Guests:      []Guest{{Name: "X"}, {Name: "Y", ResponsibleMemberID: &memberA}},
	}

	first, err := ComputeShares(draft)
	if err != nil {
		t.Fatalf("ComputeShares() error = %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := ComputeShares(draft)
		if err != nil {
			t.Fatalf("ComputeShares() error = %v", err)
		}
		if len(again.Shares) != len(first.Shares) {
			t.Fatalf("share count changed between runs")
		}
		for j := range again.Shares {
			if again.Shares[j] != first.Shares[j] {
				t.Fatalf("share %d changed between runs: %+v vs %+v", j, again.Shares[j], first.Shares[j])
			}
		}
	}
}

func TestPreservePaidFlags(t *testing.T) {
	previous := []Share{
		{GuestName: "X", Amount: 100000, IsPaid: true},
		{MemberID: memberB, Amount: 100000, IsPaid: true},
		{MemberID: memberC, Amount: 100000, IsPaid: false},
		{MemberID: memberA, IsPaid: true, IsPayer: true},
	}
	recomputed := []Share{
		{GuestName: "X", Amount: 150000},
		{MemberID: memberB, Amount: 150000},
		{MemberID: memberC, Amount: 150000},
		{GuestName: "Y", Amount: 150000},
		{MemberID: memberA, IsPaid: true, IsPayer: true},
	}

	merged := PreservePaidFlags(recomputed, previous)

	if !merged[0].IsPaid {
		t.Error("guest X paid flag was not preserved")
	}
	if !merged[1].IsPaid {
		t.Error("member B paid flag was not preserved")
	}
	if merged[2].IsPaid {
		t.Error("member C must stay unpaid")
	}
	if merged[3].IsPaid {
		t.Error("new guest Y must start unpaid")
	}
	if !merged[4].IsPaid || !merged[4].IsPayer {
		t.Error("payer row must keep its flags")
	}

	// Amounts come from the recomputation, only flags are merged.
	if merged[1].Amount != 150000 {
		t.Errorf("member B amount = %v, want 150000", merged[1].Amount)
	}

	// Input slice must stay untouched.
	if recomputed[0].IsPaid {
		t.Error("PreservePaidFlags modified its input")
	}
}

func assertMemberShare(t *testing.T, s Share, memberID uuid.UUID, amount float64, isPaid bool) {
	t.Helper()
	if s.MemberID != memberID {
		t.Errorf("member = %v, want %v", s.MemberID, memberID)
	}
	if math.Abs(s.Amount-amount) > 1e-9 {
		t.Errorf("amount = %v, want %v", s.Amount, amount)
	}
	if s.IsPaid != isPaid {
		t.Errorf("isPaid = %v, want %v", s.IsPaid, isPaid)
	}
	if s.IsPayer {
		t.Errorf("unexpected payer flag on member row %v", s.MemberID)
	}
}

func assertPayerShare(t *testing.T, s Share, payerID uuid.UUID) {
	t.Helper()
	if s.MemberID != payerID {
		t.Errorf("payer row member = %v, want %v", s.MemberID, payerID)
	}
	if s.Amount != 0 {
		t.Errorf("payer row amount = %v, want 0", s.Amount)
	}
	if !s.IsPayer || !s.IsPaid {
		t.Errorf("payer row flags = %+v, want isPayer and isPaid", s)
	}
}
