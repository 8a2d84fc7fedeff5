package link

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pawa80/utm-link-crafter-sub002/handler"
	"github.com/pawa80/utm-link-crafter-sub002/pkg/audit"
	"github.com/pawa80/utm-link-crafter-sub002/pkg/limits"
	"github.com/pawa80/utm-link-crafter-sub002/pkg/logger"
	"github.com/pawa80/utm-link-crafter-sub002/pkg/qrcode"
	"github.com/pawa80/utm-link-crafter-sub002/pkg/rbac"
	"github.com/pawa80/utm-link-crafter-sub002/pkg/sanitizer"
	"github.com/pawa80/utm-link-crafter-sub002/pkg/utm"
	"github.com/pawa80/utm-link-crafter-sub002/svc/account"
	"github.com/pawa80/utm-link-crafter-sub002/svc/campaign"
)

const MaxLabelLength = 100

// CampaignGetter loads the campaign a link is created in.
type CampaignGetter interface {
	Get(ctx context.Context, accountID, id uuid.UUID) (*campaign.Campaign, error)
}

// FeatureChecker gates plan features.
type FeatureChecker interface {
	Require(ctx context.Context, accountID uuid.UUID, f limits.Feature) error
}

type Service struct {
	storage      Storage
	campaigns    CampaignGetter
	plans        *limits.Service
	features     FeatureChecker
	authz        rbac.Authorizer
	audit        *audit.Logger
	log          *slog.Logger
	errorHandler handler.ErrorHandler[account.Context]
}

type Option func(*Service)

func WithLogger(log *slog.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithAudit records link creation and deletion.
func WithAudit(l *audit.Logger) Option {
	return func(s *Service) {
		s.audit = l
	}
}

func WithErrorHandler(h handler.ErrorHandler[account.Context]) Option {
	return func(s *Service) {
		if h != nil {
			s.errorHandler = h
		}
	}
}

func NewService(storage Storage, campaigns CampaignGetter, plans *limits.Service, features FeatureChecker, authz rbac.Authorizer, opts ...Option) *Service {
	s := &Service{
		storage:   storage,
		campaigns: campaigns,
		plans:     plans,
		features:  features,
		authz:     authz,
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.errorHandler == nil {
		mappings := append(ErrorMappings(), campaign.ErrorMappings()...)
		s.errorHandler = handler.NewErrorHandler[account.Context](s.log,
			handler.WithMappings(append(mappings, account.ErrorMappings()...)...))
	}
	s.log = s.log.With(logger.Component("link"))
	return s
}

// Input holds the user-supplied link fields. Campaign overrides the
// campaign's utm_campaign value when set.
type Input struct {
	Label     string
	TargetURL string
	Campaign  string
	Source    string
	Medium    string
	Content   string
	Term      string
	Custom1   string
	Custom2   string
	Custom3   string
}

func (in Input) params(defaultCampaign string) utm.Params {
	p := utm.Params{
		TargetURL: in.TargetURL,
		Campaign:  in.Campaign,
		Source:    in.Source,
		Medium:    in.Medium,
		Content:   in.Content,
		Term:      in.Term,
		Custom1:   in.Custom1,
		Custom2:   in.Custom2,
		Custom3:   in.Custom3,
	}
	if strings.TrimSpace(p.Campaign) == "" {
		p.Campaign = defaultCampaign
	}
	return p
}

// normalizeTarget defaults a scheme-less target to HTTPS and validates it.
// Failures are reported as a ValidationError on target_url.
func normalizeTarget(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if !sanitizer.HasScheme(raw) {
		raw = sanitizer.EnsureScheme(raw)
	}
	v := sanitizer.ValidateURL(raw)
	if !v.Valid {
		verr := handler.NewValidationError()
		verr.Add("target_url", v.Error)
		return "", verr
	}
	return v.Sanitized, nil
}

var fieldMessages = []struct {
	err error
	msg string
}{
	{utm.ErrMissingParameter, "is required"},
	{utm.ErrEmptyTarget, sanitizer.URLErrRequired},
	{utm.ErrUnsupportedScheme, sanitizer.URLErrProtocol},
	{utm.ErrInvalidTarget, sanitizer.URLErrFormat},
}

// buildError turns a utm.FieldError into a ValidationError. A required value
// that sanitises to nothing is reported as missing.
func buildError(err error) error {
	var fe *utm.FieldError
	if !errors.As(err, &fe) {
		return err
	}
	verr := handler.NewValidationError()
	for _, fm := range fieldMessages {
		if errors.Is(fe.Err, fm.err) {
			verr.Add(fe.Field, fm.msg)
			return verr
		}
	}
	verr.Add(fe.Field, "is invalid")
	return verr
}

// build validates in and produces the tracking link.
func (s *Service) build(ctx context.Context, accountID uuid.UUID, in Input, defaultCampaign string) (utm.Link, error) {
	target, err := normalizeTarget(in.TargetURL)
	if err != nil {
		return utm.Link{}, err
	}
	in.TargetURL = target

	p := in.params(defaultCampaign)
	if p.HasCustom() {
		if err := s.features.Require(ctx, accountID, limits.FeatureCustomParams); err != nil {
			return utm.Link{}, err
		}
	}

	built, err := utm.Build(p)
	if err != nil {
		return utm.Link{}, buildError(err)
	}
	return built, nil
}

// Create builds and stores a link in an active campaign, subject to the
// plan's link quota. utm_campaign defaults to the campaign's value.
func (s *Service) Create(ctx context.Context, accountID, userID, campaignID uuid.UUID, in Input) (*Link, error) {
	c, err := s.campaigns.Get(ctx, accountID, campaignID)
	if err != nil {
		return nil, err
	}
	if c.Archived() {
		return nil, campaign.ErrCampaignArchived
	}

	built, err := s.build(ctx, accountID, in, c.UTMCampaign)
	if err != nil {
		return nil, err
	}
	if err := s.plans.CanCreate(ctx, accountID, limits.ResourceLinks); err != nil {
		return nil, err
	}

	l := &Link{
		ID:         uuid.New(),
		AccountID:  accountID,
		CampaignID: c.ID,
		Label:      sanitizer.PlainText(in.Label, MaxLabelLength),
		TargetURL:  built.Target,
		Domain:     sanitizer.ExtractDomain(built.Target),
		Params:     built.Params,
		FullURL:    built.URL,
		CreatedBy:  userID,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.storage.Create(ctx, l); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "link created",
		logger.AccountID(accountID), logger.CampaignID(c.ID), logger.LinkID(l.ID),
		slog.String("domain", l.Domain))
	audit.Record(ctx, s.audit, s.log, "link.created",
		audit.WithAccountID(accountID.String()),
		audit.WithResource("link", l.ID.String()),
		audit.WithMetadata("campaign_id", c.ID.String()),
		audit.WithMetadata("domain", l.Domain))
	return l, nil
}

// Preview builds the link for in without storing it. utm_campaign must be
// given explicitly.
func (s *Service) Preview(ctx context.Context, accountID uuid.UUID, in Input) (utm.Link, error) {
	return s.build(ctx, accountID, in, "")
}

// Inspect reads the UTM parameters of a tagged URL.
func (s *Service) Inspect(rawURL string) (Inspection, error) {
	p, err := utm.Extract(rawURL)
	if err != nil {
		return Inspection{}, buildError(err)
	}
	tagged := p != utm.Params{TargetURL: p.TargetURL}
	return Inspection{BaseURL: p.TargetURL, Params: p, Tagged: tagged}, nil
}

func (s *Service) Get(ctx context.Context, accountID, id uuid.UUID) (*Link, error) {
	return s.storage.Get(ctx, accountID, id)
}

// ListByCampaign returns the campaign's links, newest first.
func (s *Service) ListByCampaign(ctx context.Context, accountID, campaignID uuid.UUID, filter ListFilter) ([]Link, error) {
	if _, err := s.campaigns.Get(ctx, accountID, campaignID); err != nil {
		return nil, err
	}
	return s.storage.ListByCampaign(ctx, accountID, campaignID, filter)
}

func (s *Service) Delete(ctx context.Context, accountID, id uuid.UUID) error {
	if err := s.storage.Delete(ctx, accountID, id); err != nil {
		return err
	}
	s.log.InfoContext(ctx, "link deleted", logger.AccountID(accountID), logger.LinkID(id))
	audit.Record(ctx, s.audit, s.log, "link.deleted",
		audit.WithAccountID(accountID.String()),
		audit.WithResource("link", id.String()))
	return nil
}

// QRCode renders the link's full URL as a PNG of size pixels. Requires the
// qr_codes feature.
func (s *Service) QRCode(ctx context.Context, accountID, id uuid.UUID, size int) ([]byte, *Link, error) {
	if size == 0 {
		size = qrcode.DefaultSize
	}
	if size < qrcode.MinSize || size > qrcode.MaxSize {
		return nil, nil, ErrInvalidQRSize
	}
	if err := s.features.Require(ctx, accountID, limits.FeatureQRCodes); err != nil {
		return nil, nil, err
	}
	l, err := s.storage.Get(ctx, accountID, id)
	if err != nil {
		return nil, nil, err
	}
	png, err := qrcode.Generate(l.FullURL, qrcode.WithSize(size))
	if err != nil {
		return nil, nil, err
	}
	return png, l, nil
}
