package handlers

import (
	"math"
	"testing"
	"time"

	"github.com/lailatuandayhotro-prog/sharebill/models"

	"github.com/google/uuid"
)

var (
	userAn   = uuid.MustParse("10000000-0000-0000-0000-000000000001")
	userBinh = uuid.MustParse("10000000-0000-0000-0000-000000000002")
	userChi  = uuid.MustParse("10000000-0000-0000-0000-000000000003")

	expenseDinner = uuid.MustParse("20000000-0000-0000-0000-000000000001")
	expenseTaxi   = uuid.MustParse("20000000-0000-0000-0000-000000000002")
)

func monthFixture() ([]models.Expense, []models.ExpenseParticipant) {
	expenses := []models.Expense{
		{ID: expenseDinner, PaidBy: userAn, Amount: 900000},
		{ID: expenseTaxi, PaidBy: userBinh, Amount: 300000},
	}

	rows := []models.ExpenseParticipant{
		// Dinner, paid by An: Binh and Chi owe 300k each, one guest owes 300k
		{ExpenseID: expenseDinner, UserID: &userBinh, Amount: 300000},
		{ExpenseID: expenseDinner, UserID: &userChi, Amount: 300000, IsPaid: true},
		{ExpenseID: expenseDinner, GuestName: "Khách", Amount: 300000},
		{ExpenseID: expenseDinner, UserID: &userAn, IsPaid: true, IsPayer: true},
		// Taxi, paid by Binh: An owes 150k
		{ExpenseID: expenseTaxi, UserID: &userAn, Amount: 150000},
		{ExpenseID: expenseTaxi, UserID: &userBinh, IsPaid: true, IsPayer: true},
	}

	return expenses, rows
}

func TestSummarizeMonth(t *testing.T) {
	expenses, rows := monthFixture()

	summary := summarizeMonth(userAn, expenses, rows)

	// An collects Binh's unpaid 300k plus the guest's 300k; Chi already paid.
	if math.Abs(summary.ToCollect-600000) > 1e-9 {
		t.Errorf("ToCollect = %v, want 600000", summary.ToCollect)
	}
	// An owes Binh 150k for the taxi.
	if math.Abs(summary.ToPay-150000) > 1e-9 {
		t.Errorf("ToPay = %v, want 150000", summary.ToPay)
	}

	// Guests never appear as friends; only Binh does, on both sides.
	if len(summary.Friends) != 1 {
		t.Fatalf("got %d friends, want 1: %+v", len(summary.Friends), summary.Friends)
	}
	binh := summary.Friends[0]
	if binh.UserID != userBinh {
		t.Errorf("friend = %v, want %v", binh.UserID, userBinh)
	}
	if math.Abs(binh.ToCollect-300000) > 1e-9 {
		t.Errorf("friend ToCollect = %v, want 300000", binh.ToCollect)
	}
	if math.Abs(binh.ToPay-150000) > 1e-9 {
		t.Errorf("friend ToPay = %v, want 150000", binh.ToPay)
	}
}

func TestSummarizeMonthPaidRowsExcluded(t *testing.T) {
	expenses, rows := monthFixture()

	summary := summarizeMonth(userChi, expenses, rows)

	// Chi settled their dinner share and paid for nothing.
	if summary.ToPay != 0 || summary.ToCollect != 0 {
		t.Errorf("expected zero balances for Chi, got %+v", summary)
	}
	if len(summary.Friends) != 0 {
		t.Errorf("expected no friends for Chi, got %+v", summary.Friends)
	}
}

func TestSameMonth(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"2026-08-01", "2026-08-31", true},
		{"2026-08-31", "2026-09-01", false},
		{"2025-09-15", "2026-09-15", false},
	}

	for _, tt := range tests {
		a, _ := time.Parse("2006-01-02", tt.a)
		b, _ := time.Parse("2006-01-02", tt.b)
		if got := sameMonth(a, b); got != tt.want {
			t.Errorf("sameMonth(%s, %s) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestSummarizeGroup(t *testing.T) {
	expenses, rows := monthFixture()

	balances := summarizeGroup(expenses, rows)

	byUser := make(map[uuid.UUID]models.GroupBalance)
	for _, b := range balances {
		byUser[b.UserID] = b
	}

	an := byUser[userAn]
	if math.Abs(an.ToCollect-600000) > 1e-9 {
		t.Errorf("An ToCollect = %v, want 600000", an.ToCollect)
	}
	if math.Abs(an.ToPay-150000) > 1e-9 {
		t.Errorf("An ToPay = %v, want 150000", an.ToPay)
	}

	binh := byUser[userBinh]
	if math.Abs(binh.ToPay-300000) > 1e-9 {
		t.Errorf("Binh ToPay = %v, want 300000", binh.ToPay)
	}
	if math.Abs(binh.ToCollect-150000) > 1e-9 {
		t.Errorf("Binh ToCollect = %v, want 150000", binh.ToCollect)
	}

	if _, ok := byUser[userChi]; ok {
		t.Error("Chi has no unpaid rows and should not appear")
	}
}
