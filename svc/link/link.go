package link

import (
	"time"

	"github.com/google/uuid"

	"github.com/pawa80/utm-link-crafter-sub002/pkg/utm"
)

type Link struct {
	ID         uuid.UUID  `json:"id"`
	AccountID  uuid.UUID  `json:"account_id"`
	CampaignID uuid.UUID  `json:"campaign_id"`
	Label      string     `json:"label,omitempty"`
	TargetURL  string     `json:"target_url"`
	Domain     string     `json:"domain"`
	Params     utm.Params `json:"params"`
	FullURL    string     `json:"full_url"`
	CreatedBy  uuid.UUID  `json:"created_by"`
	CreatedAt  time.Time  `json:"created_at"`
}

type ListFilter struct {
	Limit  int
	Offset int
}

// Inspection is the result of Inspect.
type Inspection struct {
	// BaseURL is the URL with every utm_* key removed.
	BaseURL string     `json:"base_url"`
	Params  utm.Params `json:"params"`
	Tagged  bool       `json:"tagged"`
}
