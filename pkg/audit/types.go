package audit

import (
	"context"
	"fmt"
	"time"
)

// Result is the outcome of an audited action.
type Result string

const (
	ResultSuccess Result = "success"
	ResultFailure Result = "failure"
)

// Event is a single audit log entry. AccountID and UserID are empty for
// actions taken outside an account, such as vendor console calls.
type Event struct {
	ID         string         `json:"id"`
	AccountID  string         `json:"account_id,omitempty"`
	UserID     string         `json:"user_id,omitempty"`
	Actor      string         `json:"actor"`
	Action     string         `json:"action"`
	Resource   string         `json:"resource,omitempty"`
	ResourceID string         `json:"resource_id,omitempty"`
	Result     Result         `json:"result"`
	Error      string         `json:"error,omitempty"`
	RequestID  string         `json:"request_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

func (e *Event) Validate() error {
	if e.Action == "" {
		return fmt.Errorf("%w: action is required", ErrInvalidEvent)
	}
	if e.Actor == "" {
		return fmt.Errorf("%w: actor is required", ErrInvalidEvent)
	}
	return nil
}

// EventOption adjusts an Event before it is stored.
type EventOption func(*Event)

// Criteria filters Find. Zero fields match everything; events come back
// newest first.
type Criteria struct {
	AccountID string
	Action    string
	Resource  string
	Since     time.Time
	Limit     int
	Offset    int
}

// Storage persists events.
type Storage interface {
	Store(ctx context.Context, events ...Event) error
	Query(ctx context.Context, c Criteria) ([]Event, error)
}
