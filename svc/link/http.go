package link

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pawa80/utm-link-crafter-sub002/handler"
	"github.com/pawa80/utm-link-crafter-sub002/pkg/binder"
	"github.com/pawa80/utm-link-crafter-sub002/pkg/rbac"
	"github.com/pawa80/utm-link-crafter-sub002/svc/account"
)

// Handle serves /api/links.
func (s *Service) Handle() http.Handler {
	r := chi.NewRouter()
	path := binder.Path(chi.URLParam)

	r.Post("/preview", account.Wrap(s.preview, s.authz, s.errorHandler, rbac.PermLinksRead,
		binder.JSON(), handler.Validation()))
	r.Post("/inspect", account.Wrap(s.inspect, s.authz, s.errorHandler, rbac.PermLinksRead,
		binder.JSON(), handler.Validation()))
	r.Get("/{link_id}", account.Wrap(s.get, s.authz, s.errorHandler, rbac.PermLinksRead, path))
	r.Delete("/{link_id}", account.Wrap(s.delete, s.authz, s.errorHandler, rbac.PermLinksWrite, path))
	r.Get("/{link_id}/qr", account.Wrap(s.qr, s.authz, s.errorHandler, rbac.PermLinksRead,
		path, binder.Query(), handler.Validation()))

	return r
}

// CampaignRoutes serves /api/campaigns/{campaign_id}/links; mount it with
// campaign.WithLinkRoutes.
func (s *Service) CampaignRoutes() http.Handler {
	r := chi.NewRouter()
	path := binder.Path(chi.URLParam)

	r.Get("/", account.Wrap(s.list, s.authz, s.errorHandler, rbac.PermLinksRead,
		path, binder.Query(), handler.Validation()))
	r.Post("/", account.Wrap(s.create, s.authz, s.errorHandler, rbac.PermLinksWrite,
		path, binder.JSON(), handler.Validation()))

	return r
}

// ParamsRequest carries the UTM fields shared by create and preview.
type ParamsRequest struct {
	TargetURL string `json:"target_url" validate:"required,max=2000"`
	Campaign  string `json:"utm_campaign" validate:"max=200"`
	Source    string `json:"utm_source" validate:"required,max=200"`
	Medium    string `json:"utm_medium" validate:"required,max=200"`
	Content   string `json:"utm_content" validate:"max=200"`
	Term      string `json:"utm_term" validate:"max=200"`
	Custom1   string `json:"utm_custom1" validate:"max=200"`
	Custom2   string `json:"utm_custom2" validate:"max=200"`
	Custom3   string `json:"utm_custom3" validate:"max=200"`
}

func (p ParamsRequest) input(label string) Input {
	return Input{
		Label:     label,
		TargetURL: p.TargetURL,
		Campaign:  p.Campaign,
		Source:    p.Source,
		Medium:    p.Medium,
		Content:   p.Content,
		Term:      p.Term,
		Custom1:   p.Custom1,
		Custom2:   p.Custom2,
		Custom3:   p.Custom3,
	}
}

type CreateRequest struct {
	CampaignID uuid.UUID `path:"campaign_id" json:"-"`
	Label      string    `json:"label" validate:"max=300"`
	ParamsRequest
}

func (s *Service) create(ctx account.Context, req CreateRequest) handler.Response {
	l, err := s.Create(ctx, ctx.Account().ID, ctx.Member().UserID, req.CampaignID, req.input(req.Label))
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(l, handler.WithJSONStatus(http.StatusCreated))
}

type ListRequest struct {
	CampaignID uuid.UUID `path:"campaign_id" json:"-"`
	Limit      int       `query:"limit" validate:"omitempty,min=1,max=100"`
	Offset     int       `query:"offset" validate:"omitempty,min=0"`
}

func (s *Service) list(ctx account.Context, req ListRequest) handler.Response {
	links, err := s.ListByCampaign(ctx, ctx.Account().ID, req.CampaignID, ListFilter{Limit: req.Limit, Offset: req.Offset})
	if err != nil {
		return handler.Error(err)
	}
	if links == nil {
		links = []Link{}
	}
	return handler.JSON(links, handler.WithJSONMeta(map[string]any{"count": len(links)}))
}

type IDRequest struct {
	ID uuid.UUID `path:"link_id" json:"-"`
}

func (s *Service) get(ctx account.Context, req IDRequest) handler.Response {
	l, err := s.Get(ctx, ctx.Account().ID, req.ID)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(l)
}

func (s *Service) delete(ctx account.Context, req IDRequest) handler.Response {
	if err := s.Delete(ctx, ctx.Account().ID, req.ID); err != nil {
		return handler.Error(err)
	}
	return handler.Empty()
}

type QRRequest struct {
	ID   uuid.UUID `path:"link_id" json:"-"`
	Size int       `query:"size" validate:"omitempty,min=64,max=1024"`
}

func (s *Service) qr(ctx account.Context, req QRRequest) handler.Response {
	png, l, err := s.QRCode(ctx, ctx.Account().ID, req.ID, req.Size)
	if err != nil {
		return handler.Error(err)
	}
	return handler.PNG(png, "link-"+l.ID.String()+".png")
}

func (s *Service) preview(ctx account.Context, req ParamsRequest) handler.Response {
	built, err := s.Preview(ctx, ctx.Account().ID, req.input(""))
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(built)
}

type InspectRequest struct {
	URL string `json:"url" validate:"required,max=4000"`
}

func (s *Service) inspect(_ account.Context, req InspectRequest) handler.Response {
	result, err := s.Inspect(req.URL)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(result)
}
