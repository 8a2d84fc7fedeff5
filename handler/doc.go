// Package handler turns typed functions into http.HandlerFuncs.
//
// A HandlerFunc receives a request context and a request struct filled by
// binders, and returns a Response:
//
//	type createCampaignRequest struct {
//		Name        string `json:"name" validate:"required,max=100"`
//		Description string `json:"description" validate:"max=500"`
//	}
//
//	func (h *Handler) create(ctx handler.Context, req createCampaignRequest) handler.Response {
//		c, err := h.svc.Create(ctx, req.Name, req.Description)
//		if err != nil {
//			return handler.Error(err)
//		}
//		return handler.JSON(c, handler.WithJSONStatus(http.StatusCreated))
//	}
//
//	r.Post("/", handler.Wrap(h.create,
//		handler.WithBinders[handler.Context, createCampaignRequest](binder.JSON(), handler.Validation()),
//		handler.WithErrorHandler[handler.Context, createCampaignRequest](errorHandler),
//	))
//
// Binding errors and responses built with Error go to the ErrorHandler.
// NewErrorHandler logs them (WARN for 4xx, ERROR for 5xx) and writes the JSON
// envelope:
//
//	{"error": {"code": "validation_error", "message": "...", "details": {"name": ["is required"]}}}
//
// Domain errors are translated to HTTP statuses through ErrorMappings:
//
//	handler.NewErrorHandler[handler.Context](log,
//		handler.WithMappings(handler.Map(limits.ErrLimitExceeded, handler.ErrPaymentRequired)),
//	)
package handler
