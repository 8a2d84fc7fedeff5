package campaign

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/pawa80/utm-link-crafter-sub002/handler"
	"github.com/pawa80/utm-link-crafter-sub002/pkg/audit"
	"github.com/pawa80/utm-link-crafter-sub002/pkg/limits"
	"github.com/pawa80/utm-link-crafter-sub002/pkg/logger"
	"github.com/pawa80/utm-link-crafter-sub002/pkg/rbac"
	"github.com/pawa80/utm-link-crafter-sub002/pkg/sanitizer"
	"github.com/pawa80/utm-link-crafter-sub002/pkg/slug"
	"github.com/pawa80/utm-link-crafter-sub002/svc/account"
)

const (
	MaxDescriptionLength = 500
	maxSlugLength        = 64
	slugAttempts         = 5
)

type Service struct {
	storage      Storage
	plans        *limits.Service
	authz        rbac.Authorizer
	audit        *audit.Logger
	log          *slog.Logger
	errorHandler handler.ErrorHandler[account.Context]
	linkRoutes   http.Handler
}

type Option func(*Service)

func WithLogger(log *slog.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

func WithErrorHandler(h handler.ErrorHandler[account.Context]) Option {
	return func(s *Service) {
		if h != nil {
			s.errorHandler = h
		}
	}
}

// WithAudit records campaign lifecycle changes.
func WithAudit(l *audit.Logger) Option {
	return func(s *Service) {
		s.audit = l
	}
}

// WithLinkRoutes mounts h under /{campaign_id}/links.
func WithLinkRoutes(h http.Handler) Option {
	return func(s *Service) {
		s.linkRoutes = h
	}
}

func NewService(storage Storage, plans *limits.Service, authz rbac.Authorizer, opts ...Option) *Service {
	s := &Service{
		storage: storage,
		plans:   plans,
		authz:   authz,
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.errorHandler == nil {
		s.errorHandler = handler.NewErrorHandler[account.Context](s.log,
			handler.WithMappings(append(ErrorMappings(), account.ErrorMappings()...)...))
	}
	s.log = s.log.With(logger.Component("campaign"))
	return s
}

// CreateInput describes a new campaign. UTMCampaign defaults to the name.
type CreateInput struct {
	Name        string
	Description string
	UTMCampaign string
}

// cleanName returns the sanitised name or ErrInvalidName.
func cleanName(name string) (string, error) {
	clean := sanitizer.CampaignName(name)
	if clean == "" {
		return "", ErrInvalidName
	}
	return clean, nil
}

// utmValue picks the utm_campaign value: the explicit value when given, the
// name otherwise.
func utmValue(explicit, name string) (string, error) {
	src := name
	if explicit != "" {
		src = explicit
	}
	v := sanitizer.UTMParameter(src)
	if v == "" {
		return "", ErrInvalidUTMValue
	}
	return v, nil
}

// Create adds an active campaign to the account, subject to the plan's
// campaign quota.
func (s *Service) Create(ctx context.Context, accountID, userID uuid.UUID, in CreateInput) (*Campaign, error) {
	name, err := cleanName(in.Name)
	if err != nil {
		return nil, err
	}
	utmCampaign, err := utmValue(in.UTMCampaign, name)
	if err != nil {
		return nil, err
	}
	if err := s.plans.CanCreate(ctx, accountID, limits.ResourceCampaigns); err != nil {
		return nil, err
	}

	campaignSlug, err := s.uniqueSlug(ctx, accountID, name)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	c := &Campaign{
		ID:          uuid.New(),
		AccountID:   accountID,
		Name:        name,
		Slug:        campaignSlug,
		UTMCampaign: utmCampaign,
		Description: sanitizer.PlainText(in.Description, MaxDescriptionLength),
		Status:      StatusActive,
		CreatedBy:   userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.storage.Create(ctx, c); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "campaign created",
		logger.AccountID(accountID), logger.CampaignID(c.ID), logger.UserID(userID))
	audit.Record(ctx, s.audit, s.log, "campaign.created",
		audit.WithAccountID(accountID.String()),
		audit.WithResource("campaign", c.ID.String()),
		audit.WithMetadata("name", c.Name))
	return c, nil
}

func (s *Service) uniqueSlug(ctx context.Context, accountID uuid.UUID, name string) (string, error) {
	candidate := slug.Make(name, slug.MaxLength(maxSlugLength))
	if candidate == "" {
		return "", ErrInvalidName
	}
	for range slugAttempts {
		exists, err := s.storage.SlugExists(ctx, accountID, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = slug.Make(name, slug.MaxLength(maxSlugLength), slug.WithSuffix(4))
	}
	return "", ErrSlugTaken
}

// FindOrCreate returns the account's campaign whose slug matches name, or
// creates it. The boolean reports whether a campaign was created.
func (s *Service) FindOrCreate(ctx context.Context, accountID, userID uuid.UUID, in CreateInput) (*Campaign, bool, error) {
	name, err := cleanName(in.Name)
	if err != nil {
		return nil, false, err
	}
	existing, err := s.storage.GetBySlug(ctx, accountID, slug.Make(name, slug.MaxLength(maxSlugLength)))
	switch {
	case err == nil:
		return existing, false, nil
	case !errors.Is(err, ErrCampaignNotFound):
		return nil, false, err
	}
	c, err := s.Create(ctx, accountID, userID, in)
	if err != nil {
		return nil, false, err
	}
	return c, true, nil
}

func (s *Service) Get(ctx context.Context, accountID, id uuid.UUID) (*Campaign, error) {
	return s.storage.Get(ctx, accountID, id)
}

func (s *Service) List(ctx context.Context, accountID uuid.UUID, filter ListFilter) ([]Campaign, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, ErrInvalidStatus
	}
	return s.storage.List(ctx, accountID, filter)
}

// UpdateInput lists the fields to change; nil fields are kept. The slug is
// never changed.
type UpdateInput struct {
	Name        *string
	Description *string
	UTMCampaign *string
}

func (s *Service) Update(ctx context.Context, accountID, id uuid.UUID, in UpdateInput) (*Campaign, error) {
	c, err := s.storage.Get(ctx, accountID, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		name, err := cleanName(*in.Name)
		if err != nil {
			return nil, err
		}
		c.Name = name
	}
	if in.Description != nil {
		c.Description = sanitizer.PlainText(*in.Description, MaxDescriptionLength)
	}
	if in.UTMCampaign != nil {
		v, err := utmValue(*in.UTMCampaign, c.Name)
		if err != nil {
			return nil, err
		}
		c.UTMCampaign = v
	}

	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// SetStatus archives or restores a campaign.
func (s *Service) SetStatus(ctx context.Context, accountID, id uuid.UUID, status Status) (*Campaign, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	c, err := s.storage.Get(ctx, accountID, id)
	if err != nil {
		return nil, err
	}
	if c.Status == status {
		return c, nil
	}
	c.Status = status
	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	s.log.InfoContext(ctx, "campaign status changed",
		logger.AccountID(accountID), logger.CampaignID(id), slog.String("status", string(status)))
	audit.Record(ctx, s.audit, s.log, "campaign.status_changed",
		audit.WithAccountID(accountID.String()),
		audit.WithResource("campaign", id.String()),
		audit.WithMetadata("status", string(status)))
	return c, nil
}

func (s *Service) save(ctx context.Context, c *Campaign) error {
	c.UpdatedAt = time.Now().UTC()
	return s.storage.Update(ctx, c)
}

// Delete removes the campaign and all of its links.
func (s *Service) Delete(ctx context.Context, accountID, id uuid.UUID) error {
	if err := s.storage.Delete(ctx, accountID, id); err != nil {
		return err
	}
	s.log.InfoContext(ctx, "campaign deleted", logger.AccountID(accountID), logger.CampaignID(id))
	audit.Record(ctx, s.audit, s.log, "campaign.deleted",
		audit.WithAccountID(accountID.String()),
		audit.WithResource("campaign", id.String()))
	return nil
}
