package tenant

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Account is a customer workspace. Campaigns, links and members belong to
// exactly one account.
type Account struct {
	ID        uuid.UUID `json:"id"`
	Slug      string    `json:"slug"`
	Name      string    `json:"name"`
	PlanID    string    `json:"plan_id"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CacheKeys returns the identifiers an account may be cached under.
func (a *Account) CacheKeys() []string {
	return []string{a.ID.String(), a.Slug}
}

// Provider loads an account by UUID or slug. A missing account yields
// ErrAccountNotFound.
type Provider interface {
	GetByIdentifier(ctx context.Context, identifier string) (*Account, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context, identifier string) (*Account, error)

func (f ProviderFunc) GetByIdentifier(ctx context.Context, identifier string) (*Account, error) {
	return f(ctx, identifier)
}
