package models

import "github.com/google/uuid"

// FriendBalance is the monthly position against a single other member.
type FriendBalance struct {
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	ToPay     float64   `json:"to_pay"`     // what I still owe them
	ToCollect float64   `json:"to_collect"` // what they still owe me
}

// MonthlyBalanceSummary is returned for GET /api/balances?month=YYYY-MM
type MonthlyBalanceSummary struct {
	Month            string          `json:"month"`
	ToPay            float64         `json:"to_pay"`
	ToCollect        float64         `json:"to_collect"`
	ToPayDisplay     string          `json:"to_pay_display"`
	ToCollectDisplay string          `json:"to_collect_display"`
	Friends          []FriendBalance `json:"friends"`
}

// GroupBalance is one member's net position inside a group.
type GroupBalance struct {
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	ToPay     float64   `json:"to_pay"`
	ToCollect float64   `json:"to_collect"`
}

// GroupBalanceSummary is returned for GET /api/groups/:id/balances
type GroupBalanceSummary struct {
	GroupID    uuid.UUID      `json:"group_id"`
	GroupName  string         `json:"group_name"`
	Balances   []GroupBalance `json:"balances"`
	TotalSpent float64        `json:"total_spent"`
}
