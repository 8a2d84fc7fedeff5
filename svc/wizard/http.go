package wizard

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pawa80/utm-link-crafter-sub002/handler"
	"github.com/pawa80/utm-link-crafter-sub002/pkg/binder"
	"github.com/pawa80/utm-link-crafter-sub002/pkg/rbac"
	"github.com/pawa80/utm-link-crafter-sub002/svc/account"
)

// Handle serves /api/wizard.
func (s *Service) Handle() http.Handler {
	r := chi.NewRouter()
	path := binder.Path(chi.URLParam)

	r.Post("/", account.Wrap(s.start, s.authz, s.errorHandler, rbac.PermLinksWrite))
	r.Get("/{session_id}", account.Wrap(s.get, s.authz, s.errorHandler, rbac.PermLinksRead, path))
	r.Delete("/{session_id}", account.Wrap(s.discard, s.authz, s.errorHandler, rbac.PermLinksWrite, path))
	r.Post("/{session_id}/messages", account.Wrap(s.message, s.authz, s.errorHandler, rbac.PermLinksWrite,
		path, binder.JSON(), handler.Validation()))

	return r
}

func (s *Service) start(ctx account.Context, _ struct{}) handler.Response {
	reply, err := s.Start(ctx, ctx.Account().ID, ctx.Member().UserID)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(reply, handler.WithJSONStatus(http.StatusCreated))
}

type SessionRequest struct {
	ID uuid.UUID `path:"session_id" json:"-"`
}

func (s *Service) get(ctx account.Context, req SessionRequest) handler.Response {
	reply, err := s.Get(ctx, ctx.Account().ID, ctx.Member().UserID, req.ID)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(reply)
}

func (s *Service) discard(ctx account.Context, req SessionRequest) handler.Response {
	if err := s.Discard(ctx, ctx.Account().ID, ctx.Member().UserID, req.ID); err != nil {
		return handler.Error(err)
	}
	return handler.Empty()
}

type MessageRequest struct {
	ID     uuid.UUID `path:"session_id" json:"-"`
	Action string    `json:"action" validate:"omitempty,oneof=answer skip confirm restart"`
	Text   string    `json:"text" validate:"required_without=Action,max=2000"`
}

func (s *Service) message(ctx account.Context, req MessageRequest) handler.Response {
	reply, err := s.Send(ctx, ctx.Account().ID, ctx.Member().UserID, req.ID, Input{Action: req.Action, Text: req.Text})
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(reply)
}
