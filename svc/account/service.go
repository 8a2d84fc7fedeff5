package account

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pawa80/utm-link-crafter-sub002/handler"
	"github.com/pawa80/utm-link-crafter-sub002/pkg/audit"
	"github.com/pawa80/utm-link-crafter-sub002/pkg/limits"
	"github.com/pawa80/utm-link-crafter-sub002/pkg/logger"
	"github.com/pawa80/utm-link-crafter-sub002/pkg/rbac"
	"github.com/pawa80/utm-link-crafter-sub002/pkg/sanitizer"
	"github.com/pawa80/utm-link-crafter-sub002/pkg/slug"
	"github.com/pawa80/utm-link-crafter-sub002/pkg/tenant"
)

const (
	maxNameLength = 100
	maxSlugLength = 48
	slugAttempts  = 5
)

type Service struct {
	storage      Storage
	authz        rbac.Authorizer
	plans        *limits.Service
	entitlements *Entitlements
	cache        tenant.Cache
	audit        *audit.Logger
	log          *slog.Logger
	errorHandler handler.ErrorHandler[Context]
}

type Option func(*Service)

// WithCache sets the tenant cache invalidated on account updates.
func WithCache(cache tenant.Cache) Option {
	return func(s *Service) {
		if cache != nil {
			s.cache = cache
		}
	}
}

// WithAudit records account and membership changes.
func WithAudit(l *audit.Logger) Option {
	return func(s *Service) {
		s.audit = l
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

func WithErrorHandler(h handler.ErrorHandler[Context]) Option {
	return func(s *Service) {
		if h != nil {
			s.errorHandler = h
		}
	}
}

// WithEntitlements enables the feature list in the account endpoint.
func WithEntitlements(e *Entitlements) Option {
	return func(s *Service) {
		s.entitlements = e
	}
}

func NewService(storage Storage, authz rbac.Authorizer, plans *limits.Service, opts ...Option) *Service {
	s := &Service{
		storage: storage,
		authz:   authz,
		plans:   plans,
		cache:   tenant.NewNoOpCache(),
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.errorHandler == nil {
		s.errorHandler = handler.NewErrorHandler[Context](s.log, handler.WithMappings(ErrorMappings()...))
	}
	s.log = s.log.With(logger.Component("account"))
	return s
}

// PlanIDResolver resolves an account's plan for limits.Service. The plan id
// stored by Middleware is used when present, storage otherwise.
func PlanIDResolver(storage Storage) limits.PlanIDResolver {
	return func(ctx context.Context, accountID uuid.UUID) (string, error) {
		if acc, ok := tenant.FromContext(ctx); ok && acc.ID == accountID {
			return acc.PlanID, nil
		}
		acc, err := storage.GetAccount(ctx, accountID)
		if err != nil {
			return "", err
		}
		return acc.PlanID, nil
	}
}

// GetByIdentifier implements tenant.Provider: identifier is an account UUID
// or slug.
func (s *Service) GetByIdentifier(ctx context.Context, identifier string) (*tenant.Account, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, tenant.ErrInvalidIdentifier
	}
	if id, err := uuid.Parse(identifier); err == nil {
		return s.storage.GetAccount(ctx, id)
	}
	return s.storage.GetAccountBySlug(ctx, strings.ToLower(identifier))
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*tenant.Account, error) {
	return s.storage.GetAccount(ctx, id)
}

func (s *Service) ListAccounts(ctx context.Context, filter ListFilter) ([]tenant.Account, error) {
	return s.storage.ListAccounts(ctx, filter)
}

// CreateAccountInput describes a new account and its first owner.
type CreateAccountInput struct {
	Name       string
	Slug       string
	PlanID     string
	OwnerID    uuid.UUID
	OwnerEmail string
}

// CreateAccount creates an active account owned by in.OwnerID. The slug is
// derived from the name when empty and gets a random suffix while taken. An
// empty plan means the catalog's default plan.
func (s *Service) CreateAccount(ctx context.Context, in CreateAccountInput) (*tenant.Account, error) {
	name := sanitizer.PlainText(in.Name, maxNameLength)
	if name == "" {
		return nil, ErrInvalidName
	}
	if in.OwnerID == uuid.Nil {
		return nil, ErrMissingUser
	}

	planID := in.PlanID
	if planID == "" {
		planID = s.plans.DefaultPlanID()
	}
	if err := s.plans.VerifyPlan(ctx, planID); err != nil {
		return nil, err
	}

	base := in.Slug
	if base == "" {
		base = name
	}
	accSlug, err := s.uniqueSlug(ctx, base)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	acc := &tenant.Account{
		ID:        uuid.New(),
		Slug:      accSlug,
		Name:      name,
		PlanID:    planID,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	owner := &Member{
		AccountID: acc.ID,
		UserID:    in.OwnerID,
		Email:     sanitizer.TrimToLower(in.OwnerEmail),
		Role:      rbac.RoleOwner,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.storage.CreateAccount(ctx, acc, owner); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "account created",
		logger.AccountID(acc.ID), logger.UserID(in.OwnerID), logger.Plan(planID))
	audit.Record(ctx, s.audit, s.log, "account.created",
		audit.WithAccountID(acc.ID.String()),
		audit.WithResource("account", acc.ID.String()),
		audit.WithMetadata("plan", planID),
		audit.WithMetadata("owner_id", in.OwnerID.String()))
	return acc, nil
}

func (s *Service) uniqueSlug(ctx context.Context, base string) (string, error) {
	candidate := slug.Make(base, slug.MaxLength(maxSlugLength))
	if candidate == "" {
		return "", ErrInvalidName
	}
	for range slugAttempts {
		exists, err := s.storage.SlugExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = slug.Make(base, slug.MaxLength(maxSlugLength), slug.WithSuffix(4))
	}
	return "", ErrSlugTaken
}

// UpdateAccountInput lists the fields to change; nil fields are kept.
type UpdateAccountInput struct {
	Name   *string
	PlanID *string
	Active *bool
}

// UpdateAccount applies in. A plan change is refused with
// limits.ErrDowngradeNotPossible while usage exceeds the target plan.
func (s *Service) UpdateAccount(ctx context.Context, id uuid.UUID, in UpdateAccountInput) (*tenant.Account, error) {
	acc, err := s.storage.GetAccount(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		name := sanitizer.PlainText(*in.Name, maxNameLength)
		if name == "" {
			return nil, ErrInvalidName
		}
		acc.Name = name
	}
	if in.PlanID != nil && *in.PlanID != acc.PlanID {
		if err := s.plans.CanDowngrade(ctx, acc.ID, *in.PlanID); err != nil {
			return nil, err
		}
		s.log.InfoContext(ctx, "account plan changed",
			logger.AccountID(acc.ID), slog.String("from", acc.PlanID), slog.String("to", *in.PlanID))
		acc.PlanID = *in.PlanID
	}
	if in.Active != nil {
		acc.Active = *in.Active
	}
	acc.UpdatedAt = time.Now().UTC()

	if err := s.storage.UpdateAccount(ctx, acc); err != nil {
		return nil, err
	}
	s.cache.Delete(ctx, acc.CacheKeys()...)
	audit.Record(ctx, s.audit, s.log, "account.updated",
		audit.WithAccountID(acc.ID.String()),
		audit.WithResource("account", acc.ID.String()),
		audit.WithMetadata("plan", acc.PlanID),
		audit.WithMetadata("active", acc.Active))
	return acc, nil
}

func (s *Service) Member(ctx context.Context, accountID, userID uuid.UUID) (*Member, error) {
	return s.storage.GetMember(ctx, accountID, userID)
}

func (s *Service) Members(ctx context.Context, accountID uuid.UUID) ([]Member, error) {
	return s.storage.ListMembers(ctx, accountID)
}

// AddMemberInput describes a membership to create.
type AddMemberInput struct {
	UserID uuid.UUID
	Email  string
	Role   string
}

// AddMember adds a user to the account. actor may not grant a role above
// their own, and the plan's member quota applies.
func (s *Service) AddMember(ctx context.Context, accountID uuid.UUID, actor Member, in AddMemberInput) (*Member, error) {
	if in.UserID == uuid.Nil {
		return nil, ErrMissingUser
	}
	if err := s.authz.VerifyRole(in.Role); err != nil {
		return nil, err
	}
	if !rbac.Outranks(actor.Role, in.Role) {
		return nil, ErrRoleTooHigh
	}
	if err := s.plans.CanCreate(ctx, accountID, limits.ResourceMembers); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	m := &Member{
		AccountID: accountID,
		UserID:    in.UserID,
		Email:     sanitizer.TrimToLower(in.Email),
		Role:      in.Role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.storage.CreateMember(ctx, m); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "member added",
		logger.AccountID(accountID), logger.UserID(in.UserID), logger.Role(in.Role))
	audit.Record(ctx, s.audit, s.log, "member.added",
		audit.WithAccountID(accountID.String()),
		audit.WithResource("member", in.UserID.String()),
		audit.WithMetadata("role", in.Role))
	return m, nil
}

// target loads userID's membership and checks that actor may manage it.
// Members may always manage themselves.
func (s *Service) target(ctx context.Context, accountID uuid.UUID, actor Member, userID uuid.UUID) (*Member, error) {
	m, err := s.storage.GetMember(ctx, accountID, userID)
	if err != nil {
		return nil, err
	}
	if m.UserID != actor.UserID && !rbac.Outranks(actor.Role, m.Role) {
		return nil, ErrRoleTooHigh
	}
	return m, nil
}

// ensureOwnerRemains fails with ErrLastOwner when m is the last owner.
func (s *Service) ensureOwnerRemains(ctx context.Context, m *Member) error {
	if m.Role != rbac.RoleOwner {
		return nil
	}
	members, err := s.storage.ListMembers(ctx, m.AccountID)
	if err != nil {
		return err
	}
	for _, other := range members {
		if other.Role == rbac.RoleOwner && other.UserID != m.UserID {
			return nil
		}
	}
	return ErrLastOwner
}

// ChangeRole sets userID's role. The last owner cannot be demoted.
func (s *Service) ChangeRole(ctx context.Context, accountID uuid.UUID, actor Member, userID uuid.UUID, role string) (*Member, error) {
	if err := s.authz.VerifyRole(role); err != nil {
		return nil, err
	}
	if !rbac.Outranks(actor.Role, role) {
		return nil, ErrRoleTooHigh
	}
	m, err := s.target(ctx, accountID, actor, userID)
	if err != nil {
		return nil, err
	}
	if m.Role == role {
		return m, nil
	}
	if role != rbac.RoleOwner {
		if err := s.ensureOwnerRemains(ctx, m); err != nil {
			return nil, err
		}
	}

	if err := s.storage.UpdateMemberRole(ctx, accountID, userID, role); err != nil {
		return nil, err
	}
	s.log.InfoContext(ctx, "member role changed",
		logger.AccountID(accountID), logger.UserID(userID),
		slog.String("from", m.Role), slog.String("to", role))
	audit.Record(ctx, s.audit, s.log, "member.role_changed",
		audit.WithAccountID(accountID.String()),
		audit.WithResource("member", userID.String()),
		audit.WithMetadata("from", m.Role),
		audit.WithMetadata("to", role))

	m.Role = role
	m.UpdatedAt = time.Now().UTC()
	return m, nil
}

// RemoveMember deletes userID's membership. The last owner cannot be removed.
func (s *Service) RemoveMember(ctx context.Context, accountID uuid.UUID, actor Member, userID uuid.UUID) error {
	m, err := s.target(ctx, accountID, actor, userID)
	if err != nil {
		return err
	}
	if err := s.ensureOwnerRemains(ctx, m); err != nil {
		return err
	}
	if err := s.storage.DeleteMember(ctx, accountID, userID); err != nil {
		return err
	}
	s.log.InfoContext(ctx, "member removed", logger.AccountID(accountID), logger.UserID(userID))
	audit.Record(ctx, s.audit, s.log, "member.removed",
		audit.WithAccountID(accountID.String()),
		audit.WithResource("member", userID.String()))
	return nil
}

// Usage returns the account's usage against its plan limits.
func (s *Service) Usage(ctx context.Context, accountID uuid.UUID) (map[limits.Resource]limits.UsageInfo, error) {
	return s.plans.GetAllUsage(ctx, accountID)
}
