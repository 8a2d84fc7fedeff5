// Package binder fills request structs from the JSON body, chi path
// parameters and the query string.
//
// Each binder reads its own struct tag. Fields without the tag are left
// alone, so binders can be combined on one struct:
//
//	type listLinksRequest struct {
//		CampaignID uuid.UUID `path:"campaign_id"`
//		Limit      int       `query:"limit"`
//		Offset     int       `query:"offset"`
//	}
//
//	r.Get("/campaigns/{campaign_id}/links", handler.Wrap(h.listLinks,
//		handler.WithBinders[account.Context, listLinksRequest](
//			binder.Path(chi.URLParam),
//			binder.Query(),
//		),
//	))
//
// Path and query values support strings, integers, floats, bools, slices,
// pointers and any type implementing encoding.TextUnmarshaler (uuid.UUID).
// The JSON binder decodes strictly, caps the body at DefaultMaxJSONSize and
// strips NUL bytes and control characters from every decoded string.
package binder
