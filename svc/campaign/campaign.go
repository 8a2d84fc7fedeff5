package campaign

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusArchived Status = "archived"
)

func (s Status) Valid() bool {
	return s == StatusActive || s == StatusArchived
}

type Campaign struct {
	ID          uuid.UUID `json:"id"`
	AccountID   uuid.UUID `json:"account_id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	UTMCampaign string    `json:"utm_campaign"`
	Description string    `json:"description,omitempty"`
	Status      Status    `json:"status"`
	CreatedBy   uuid.UUID `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Archived campaigns are read-only: no new links can be added.
func (c *Campaign) Archived() bool {
	return c.Status == StatusArchived
}

// ListFilter narrows List. An empty Status lists every campaign.
type ListFilter struct {
	Status Status
	Limit  int
	Offset int
}
