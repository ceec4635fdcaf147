package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Expense struct {
	ID           uuid.UUID            `gorm:"type:uuid;primaryKey" json:"id"`
	GroupID      uuid.UUID            `gorm:"type:uuid;index" json:"group_id"`
	Group        Group                `gorm:"foreignKey:GroupID" json:"-"`
	PaidBy       uuid.UUID            `gorm:"type:uuid" json:"paid_by"`
	Payer        User                 `gorm:"foreignKey:PaidBy" json:"payer,omitempty"`
	Description  string               `gorm:"not null;size:255" json:"description"`
	Amount       float64              `gorm:"type:decimal(14,2);not null" json:"amount"` // whole VND
	// Raw per-entity quotient at the time the split was computed, kept so
	// edits and displays do not have to re-derive the entity count
	SharePerEntity float64 `gorm:"type:decimal(18,6)" json:"share_per_entity"`
	ExpenseDate  time.Time            `gorm:"type:date;default:CURRENT_DATE" json:"expense_date"`
	Participants []ExpenseParticipant `gorm:"foreignKey:ExpenseID" json:"participants,omitempty"`
	Guests       []ExpenseGuest       `gorm:"foreignKey:ExpenseID" json:"guests,omitempty"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

func (e *Expense) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// ExpenseParticipant is one ledger row of an expense. Member rows carry
// UserID; standalone guest rows carry GuestName instead. The payer's row is
// stored with amount 0 (they fronted the money, they owe nothing back).
type ExpenseParticipant struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ExpenseID uuid.UUID  `gorm:"type:uuid;index" json:"expense_id"`
	UserID    *uuid.UUID `gorm:"type:uuid" json:"user_id,omitempty"`
	User      *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	GuestName string     `gorm:"size:100" json:"guest_name,omitempty"`
	Amount    float64    `gorm:"type:decimal(14,2);not null" json:"amount"`
	IsPaid    bool       `gorm:"default:false" json:"is_paid"`
	IsPayer   bool       `gorm:"default:false" json:"is_payer"`
	CreatedAt time.Time  `json:"created_at"`
}

func (ep *ExpenseParticipant) BeforeCreate(tx *gorm.DB) error {
	if ep.ID == uuid.Nil {
		ep.ID = uuid.New()
	}
	return nil
}

// ExpenseGuest keeps the full guest list of an expense, including sponsored
// guests that never show up as ledger rows, so the client can still render
// "member X pays for guest Y".
type ExpenseGuest struct {
	ID                  uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ExpenseID           uuid.UUID  `gorm:"type:uuid;index" json:"expense_id"`
	Name                string     `gorm:"not null;size:100" json:"name"`
	ResponsibleMemberID *uuid.UUID `gorm:"type:uuid" json:"responsible_member_id,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
}

func (eg *ExpenseGuest) BeforeCreate(tx *gorm.DB) error {
	if eg.ID == uuid.Nil {
		eg.ID = uuid.New()
	}
	return nil
}

// Request structs
type GuestInput struct {
	Name                string `json:"name"`
	ResponsibleMemberID string `json:"responsible_member_id"`
}

type CreateExpenseRequest struct {
	Description string       `json:"description" binding:"required"`
	Amount      string       `json:"amount" binding:"required"` // grouped digits, e.g. "500.000"
	ExpenseDate string       `json:"expense_date"`              // YYYY-MM-DD
	PayerID     string       `json:"payer_id"`                  // defaults to the acting user
	MemberIDs   []string     `json:"member_ids"`
	Guests      []GuestInput `json:"guests"`
}

type UpdateExpenseRequest struct {
	Description string       `json:"description"`
	Amount      string       `json:"amount"`
	ExpenseDate string       `json:"expense_date"`
	PayerID     string       `json:"payer_id"`
	MemberIDs   []string     `json:"member_ids"`
	Guests      []GuestInput `json:"guests"`
}

type MarkPaidRequest struct {
	IsPaid bool `json:"is_paid"`
}

// Response structs
type ExpenseResponse struct {
	ID             uuid.UUID             `json:"id"`
	GroupID        uuid.UUID             `json:"group_id"`
	PaidBy         uuid.UUID             `json:"paid_by"`
	PayerName      string                `json:"payer_name"`
	Description    string                `json:"description"`
	Amount         float64               `json:"amount"`
	AmountDisplay  string                `json:"amount_display"`
	SharePerEntity float64               `json:"share_per_entity"`
	ExpenseDate    time.Time             `json:"expense_date"`
	Participants   []ParticipantResponse `json:"participants"`
	Guests         []ExpenseGuest        `json:"guests"`
	CreatedAt      time.Time             `json:"created_at"`
}

type ParticipantResponse struct {
	ID            uuid.UUID  `json:"id"`
	UserID        *uuid.UUID `json:"user_id,omitempty"`
	UserName      string     `json:"user_name,omitempty"`
	GuestName     string     `json:"guest_name,omitempty"`
	Amount        float64    `json:"amount"`
	AmountDisplay string     `json:"amount_display"`
	IsPaid        bool       `json:"is_paid"`
	IsPayer       bool       `json:"is_payer"`
}
