package campaign

import (
	"context"

	"github.com/google/uuid"
)

// Storage persists campaigns. Lookups are scoped to an account; a campaign of
// another account is reported as ErrCampaignNotFound.
type Storage interface {
	Create(ctx context.Context, c *Campaign) error
	Get(ctx context.Context, accountID, id uuid.UUID) (*Campaign, error)
	GetBySlug(ctx context.Context, accountID uuid.UUID, slug string) (*Campaign, error)
	List(ctx context.Context, accountID uuid.UUID, filter ListFilter) ([]Campaign, error)
	Update(ctx context.Context, c *Campaign) error
	// Delete removes the campaign together with its links.
	Delete(ctx context.Context, accountID, id uuid.UUID) error
	SlugExists(ctx context.Context, accountID uuid.UUID, slug string) (bool, error)
	Count(ctx context.Context, accountID uuid.UUID) (int64, error)
}
