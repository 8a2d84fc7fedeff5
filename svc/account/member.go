package account

import (
	"time"

	"github.com/google/uuid"
)

// Member is a user's membership of an account.
type Member struct {
	AccountID uuid.UUID `json:"account_id"`
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListFilter narrows ListAccounts.
type ListFilter struct {
	PlanID string
	Active *bool
	Limit  int
	Offset int
}
