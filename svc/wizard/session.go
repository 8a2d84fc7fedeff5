package wizard

import (
	"time"

	"github.com/google/uuid"

	"github.com/pawa80/utm-link-crafter-sub002/pkg/utm"
)

// MaxMessages bounds the stored conversation; older messages are dropped.
const MaxMessages = 100

// Message authors.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	Role string    `json:"role"`
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// Draft collects the answers given so far. Values are stored sanitised.
type Draft struct {
	TargetURL    string `json:"target_url,omitempty"`
	CampaignName string `json:"campaign_name,omitempty"`
	Source       string `json:"source,omitempty"`
	Medium       string `json:"medium,omitempty"`
	Content      string `json:"content,omitempty"`
	Term         string `json:"term,omitempty"`
}

// Params maps the draft onto utm.Params. The campaign name is reduced to
// its utm_campaign form by utm.Build.
func (d Draft) Params() utm.Params {
	return utm.Params{
		TargetURL: d.TargetURL,
		Campaign:  d.CampaignName,
		Source:    d.Source,
		Medium:    d.Medium,
		Content:   d.Content,
		Term:      d.Term,
	}
}

// Ready reports whether every required value is present.
func (d Draft) Ready() bool {
	return d.TargetURL != "" && d.CampaignName != "" && d.Source != "" && d.Medium != ""
}

// Result is set once the link has been saved.
type Result struct {
	CampaignID      uuid.UUID `json:"campaign_id"`
	CampaignCreated bool      `json:"campaign_created"`
	LinkID          uuid.UUID `json:"link_id"`
	FullURL         string    `json:"full_url"`
}

type Session struct {
	ID        uuid.UUID `json:"id"`
	AccountID uuid.UUID `json:"account_id"`
	UserID    uuid.UUID `json:"user_id"`
	State     string    `json:"state"`
	Draft     Draft     `json:"draft"`
	Messages  []Message `json:"messages"`
	Result    *Result   `json:"result,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Done reports whether the link has been saved.
func (s *Session) Done() bool {
	return s.State == StateDone.Name()
}

func (s *Session) say(role, text string, at time.Time) {
	s.Messages = append(s.Messages, Message{Role: role, Text: text, At: at})
	if n := len(s.Messages) - MaxMessages; n > 0 {
		s.Messages = append(s.Messages[:0:0], s.Messages[n:]...)
	}
}
