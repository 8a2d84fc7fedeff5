package link

import (
	"context"

	"github.com/google/uuid"
)

// Storage persists links. Lookups are scoped to an account.
type Storage interface {
	Create(ctx context.Context, l *Link) error
	Get(ctx context.Context, accountID, id uuid.UUID) (*Link, error)
	ListByCampaign(ctx context.Context, accountID, campaignID uuid.UUID, filter ListFilter) ([]Link, error)
	Delete(ctx context.Context, accountID, id uuid.UUID) error
	Count(ctx context.Context, accountID uuid.UUID) (int64, error)
}
