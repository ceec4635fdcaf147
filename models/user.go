package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null;size:255" json:"email"`
	Phone        string    `gorm:"size:20" json:"phone,omitempty"`
	Name         string    `gorm:"not null;size:100" json:"name"`
	PasswordHash string    `gorm:"not null;size:255" json:"-"`
	AvatarURL    string    `json:"avatar_url,omitempty"`
	FCMToken     string    `json:"-"`
	// Bank transfer details used to build VietQR payment prompts
	BankBin         string    `gorm:"size:10" json:"bank_bin,omitempty"`
	BankAccountNo   string    `gorm:"size:30" json:"bank_account_no,omitempty"`
	BankAccountName string    `gorm:"size:100" json:"bank_account_name,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// Response struct (what we return to clients)
type UserResponse struct {
	ID              uuid.UUID `json:"id"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone,omitempty"`
	Name            string    `json:"name"`
	AvatarURL       string    `json:"avatar_url,omitempty"`
	BankBin         string    `json:"bank_bin,omitempty"`
	BankAccountNo   string    `json:"bank_account_no,omitempty"`
	BankAccountName string    `json:"bank_account_name,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:              u.ID,
		Email:           u.Email,
		Phone:           u.Phone,
		Name:            u.Name,
		AvatarURL:       u.AvatarURL,
		BankBin:         u.BankBin,
		BankAccountNo:   u.BankAccountNo,
		BankAccountName: u.BankAccountName,
		CreatedAt:       u.CreatedAt,
	}
}
