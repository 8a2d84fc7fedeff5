package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pawa80/utm-link-crafter-sub002/handler"
	"github.com/pawa80/utm-link-crafter-sub002/pkg/binder"
	"github.com/pawa80/utm-link-crafter-sub002/pkg/limits"
	"github.com/pawa80/utm-link-crafter-sub002/pkg/rbac"
	"github.com/pawa80/utm-link-crafter-sub002/pkg/tenant"
)

// Mountable is implemented by every service with an HTTP surface.
type Mountable interface {
	Handle() http.Handler
}

// Require rejects the request unless the member's role grants all perms.
func Require[R any](authz rbac.Authorizer, perms ...string) handler.Decorator[Context, R] {
	return func(next handler.HandlerFunc[Context, R]) handler.HandlerFunc[Context, R] {
		return func(ctx Context, req R) handler.Response {
			if err := authz.CanAll(ctx.Member().Role, perms...); err != nil {
				return handler.Error(err)
			}
			return next(ctx, req)
		}
	}
}

// Wrap adapts an account-scoped handler: the Context factory, binders, the
// permission check for perm (skipped when empty) and errorHandler.
func Wrap[R any](h handler.HandlerFunc[Context, R], authz rbac.Authorizer, errorHandler handler.ErrorHandler[Context], perm string, binders ...handler.Bind) http.HandlerFunc {
	opts := []handler.WrapOption[Context, R]{
		handler.WithContextFactory[Context, R](NewContext),
		handler.WithBinders[Context, R](binders...),
		handler.WithErrorHandler[Context, R](errorHandler),
	}
	if perm != "" {
		opts = append(opts, handler.WithDecorators(Require[R](authz, perm)))
	}
	return handler.Wrap(h, opts...)
}

func (s *Service) Handle() http.Handler {
	r := chi.NewRouter()

	r.Get("/", Wrap(s.current, s.authz, s.errorHandler, ""))
	r.Get("/usage", Wrap(s.usage, s.authz, s.errorHandler, ""))
	r.Get("/members", Wrap(s.listMembers, s.authz, s.errorHandler, rbac.PermMembersRead))
	r.Post("/members", Wrap(s.addMember, s.authz, s.errorHandler, rbac.PermMembersWrite,
		binder.JSON(), handler.Validation()))
	r.Patch("/members/{user_id}", Wrap(s.changeRole, s.authz, s.errorHandler, rbac.PermMembersWrite,
		binder.Path(chi.URLParam), binder.JSON(), handler.Validation()))
	r.Delete("/members/{user_id}", Wrap(s.removeMember, s.authz, s.errorHandler, rbac.PermMembersWrite,
		binder.Path(chi.URLParam)))

	return r
}

type currentResponse struct {
	Account  *tenant.Account         `json:"account"`
	Member   Member                  `json:"member"`
	Features map[limits.Feature]bool `json:"features,omitempty"`
}

func (s *Service) current(ctx Context, _ struct{}) handler.Response {
	resp := currentResponse{Account: ctx.Account(), Member: ctx.Member()}
	if s.entitlements != nil {
		resp.Features = s.entitlements.Features(ctx, ctx.Account().ID)
	}
	return handler.JSON(resp)
}

type usageResponse struct {
	PlanID string                               `json:"plan_id"`
	Usage  map[limits.Resource]limits.UsageInfo `json:"usage"`
}

func (s *Service) usage(ctx Context, _ struct{}) handler.Response {
	usage, err := s.Usage(ctx, ctx.Account().ID)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(usageResponse{PlanID: ctx.Account().PlanID, Usage: usage})
}

func (s *Service) listMembers(ctx Context, _ struct{}) handler.Response {
	members, err := s.Members(ctx, ctx.Account().ID)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(members, handler.WithJSONMeta(map[string]any{"total": len(members)}))
}

type AddMemberRequest struct {
	UserID uuid.UUID `json:"user_id" validate:"required"`
	Email  string    `json:"email" validate:"omitempty,email,max=254"`
	Role   string    `json:"role" validate:"required"`
}

func (s *Service) addMember(ctx Context, req AddMemberRequest) handler.Response {
	m, err := s.AddMember(ctx, ctx.Account().ID, ctx.Member(), AddMemberInput{
		UserID: req.UserID,
		Email:  req.Email,
		Role:   req.Role,
	})
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(m, handler.WithJSONStatus(http.StatusCreated))
}

type ChangeRoleRequest struct {
	UserID uuid.UUID `path:"user_id" json:"-"`
	Role   string    `json:"role" validate:"required"`
}

func (s *Service) changeRole(ctx Context, req ChangeRoleRequest) handler.Response {
	m, err := s.ChangeRole(ctx, ctx.Account().ID, ctx.Member(), req.UserID, req.Role)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(m)
}

type MemberPathRequest struct {
	UserID uuid.UUID `path:"user_id" json:"-"`
}

func (s *Service) removeMember(ctx Context, req MemberPathRequest) handler.Response {
	if err := s.RemoveMember(ctx, ctx.Account().ID, ctx.Member(), req.UserID); err != nil {
		return handler.Error(err)
	}
	return handler.Empty()
}
