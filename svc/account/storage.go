package account

import (
	"context"

	"github.com/google/uuid"

	"github.com/pawa80/utm-link-crafter-sub002/pkg/tenant"
)

// Storage persists accounts and memberships. Missing accounts are reported as
// tenant.ErrAccountNotFound and missing members as ErrMemberNotFound.
type Storage interface {
	GetAccount(ctx context.Context, id uuid.UUID) (*tenant.Account, error)
	GetAccountBySlug(ctx context.Context, slug string) (*tenant.Account, error)
	ListAccounts(ctx context.Context, filter ListFilter) ([]tenant.Account, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	// CreateAccount inserts the account and its first owner atomically.
	CreateAccount(ctx context.Context, account *tenant.Account, owner *Member) error
	UpdateAccount(ctx context.Context, account *tenant.Account) error

	GetMember(ctx context.Context, accountID, userID uuid.UUID) (*Member, error)
	ListMembers(ctx context.Context, accountID uuid.UUID) ([]Member, error)
	CreateMember(ctx context.Context, member *Member) error
	// UpdateMemberRole and DeleteMember return ErrLastOwner instead of
	// leaving the account without an owner.
	UpdateMemberRole(ctx context.Context, accountID, userID uuid.UUID, role string) error
	DeleteMember(ctx context.Context, accountID, userID uuid.UUID) error
	CountMembers(ctx context.Context, accountID uuid.UUID) (int64, error)
}
