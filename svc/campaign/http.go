package campaign

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pawa80/utm-link-crafter-sub002/handler"
	"github.com/pawa80/utm-link-crafter-sub002/pkg/binder"
	"github.com/pawa80/utm-link-crafter-sub002/pkg/rbac"
	"github.com/pawa80/utm-link-crafter-sub002/svc/account"
)

func (s *Service) Handle() http.Handler {
	r := chi.NewRouter()
	path := binder.Path(chi.URLParam)

	r.Get("/", account.Wrap(s.list, s.authz, s.errorHandler, rbac.PermCampaignsRead,
		binder.Query(), handler.Validation()))
	r.Post("/", account.Wrap(s.create, s.authz, s.errorHandler, rbac.PermCampaignsWrite,
		binder.JSON(), handler.Validation()))

	r.Route("/{campaign_id}", func(r chi.Router) {
		r.Get("/", account.Wrap(s.get, s.authz, s.errorHandler, rbac.PermCampaignsRead, path))
		r.Patch("/", account.Wrap(s.update, s.authz, s.errorHandler, rbac.PermCampaignsWrite,
			path, binder.JSON(), handler.Validation()))
		r.Delete("/", account.Wrap(s.delete, s.authz, s.errorHandler, rbac.PermCampaignsWrite, path))
		r.Post("/archive", account.Wrap(s.archive, s.authz, s.errorHandler, rbac.PermCampaignsWrite, path))
		r.Post("/restore", account.Wrap(s.restore, s.authz, s.errorHandler, rbac.PermCampaignsWrite, path))
		if s.linkRoutes != nil {
			r.Mount("/links", s.linkRoutes)
		}
	})

	return r
}

type ListRequest struct {
	Status string `query:"status" validate:"omitempty,oneof=active archived"`
	Limit  int    `query:"limit" validate:"omitempty,min=1,max=100"`
	Offset int    `query:"offset" validate:"omitempty,min=0"`
}

func (s *Service) list(ctx account.Context, req ListRequest) handler.Response {
	campaigns, err := s.List(ctx, ctx.Account().ID, ListFilter{
		Status: Status(req.Status),
		Limit:  req.Limit,
		Offset: req.Offset,
	})
	if err != nil {
		return handler.Error(err)
	}
	if campaigns == nil {
		campaigns = []Campaign{}
	}
	return handler.JSON(campaigns, handler.WithJSONMeta(map[string]any{"count": len(campaigns)}))
}

type CreateRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
	UTMCampaign string `json:"utm_campaign" validate:"max=200"`
}

func (s *Service) create(ctx account.Context, req CreateRequest) handler.Response {
	c, err := s.Create(ctx, ctx.Account().ID, ctx.Member().UserID, CreateInput{
		Name:        req.Name,
		Description: req.Description,
		UTMCampaign: req.UTMCampaign,
	})
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(c, handler.WithJSONStatus(http.StatusCreated))
}

type IDRequest struct {
	ID uuid.UUID `path:"campaign_id" json:"-"`
}

func (s *Service) get(ctx account.Context, req IDRequest) handler.Response {
	c, err := s.Get(ctx, ctx.Account().ID, req.ID)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(c)
}

type UpdateRequest struct {
	ID          uuid.UUID `path:"campaign_id" json:"-"`
	Name        *string   `json:"name" validate:"omitempty,max=200"`
	Description *string   `json:"description" validate:"omitempty,max=2000"`
	UTMCampaign *string   `json:"utm_campaign" validate:"omitempty,max=200"`
}

func (s *Service) update(ctx account.Context, req UpdateRequest) handler.Response {
	c, err := s.Update(ctx, ctx.Account().ID, req.ID, UpdateInput{
		Name:        req.Name,
		Description: req.Description,
		UTMCampaign: req.UTMCampaign,
	})
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(c)
}

func (s *Service) archive(ctx account.Context, req IDRequest) handler.Response {
	c, err := s.SetStatus(ctx, ctx.Account().ID, req.ID, StatusArchived)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(c)
}

func (s *Service) restore(ctx account.Context, req IDRequest) handler.Response {
	c, err := s.SetStatus(ctx, ctx.Account().ID, req.ID, StatusActive)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(c)
}

func (s *Service) delete(ctx account.Context, req IDRequest) handler.Response {
	if err := s.Delete(ctx, ctx.Account().ID, req.ID); err != nil {
		return handler.Error(err)
	}
	return handler.Empty()
}
