package link_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawa80/utm-link-crafter-sub002/handler"
	"github.com/pawa80/utm-link-crafter-sub002/pkg/limits"
	"github.com/pawa80/utm-link-crafter-sub002/pkg/rbac"
	"github.com/pawa80/utm-link-crafter-sub002/pkg/tenant"
	"github.com/pawa80/utm-link-crafter-sub002/svc/account"
)

func router(f *fixture, role string) http.Handler {
	acc := &tenant.Account{ID: f.account, Slug: "acme", PlanID: "free", Active: true}
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := tenant.WithAccount(r.Context(), acc)
			ctx = account.WithMember(ctx, account.Member{AccountID: acc.ID, UserID: uuid.New(), Role: role})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	})
	r.Mount("/api/campaigns/{campaign_id}/links", f.svc.CampaignRoutes())
	r.Mount("/api/links", f.svc.Handle())
	return r
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	r := httptest.NewRequest(method, path, rd)
	if body != "" {
		r.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) handler.JSONResponse {
	t.Helper()
	var resp handler.JSONResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHTTP_CreateListQR(t *testing.T) {
	t.Parallel()

	f := newFixture(t, limits.Unlimited, limits.FeatureQRCodes)
	h := router(f, rbac.RoleEditor)
	base := "/api/campaigns/" + f.active.ID.String() + "/links"

	w := do(h, http.MethodPost, base,
		`{"label":"Footer","target_url":"example.com/pricing","utm_source":"Facebook","utm_medium":"Paid Social"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode(t, w).Data.(map[string]any)
	assert.Equal(t, "https://example.com/pricing?utm_campaign=spring-sale&utm_source=facebook&utm_medium=paid-social",
		created["full_url"])
	id := created["id"].(string)

	w = do(h, http.MethodGet, base, "")
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Len(t, resp.Data, 1)
	assert.EqualValues(t, 1, resp.Meta["count"])

	w = do(h, http.MethodGet, "/api/links/"+id+"/qr?size=128", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "\x89PNG"))

	w = do(h, http.MethodDelete, "/api/links/"+id, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(h, http.MethodGet, "/api/links/"+id, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHTTP_PreviewAndInspect(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 0)
	h := router(f, rbac.RoleViewer)

	w := do(h, http.MethodPost, "/api/links/preview",
		`{"target_url":"https://example.com/?a=1&utm_source=old","utm_campaign":"Q4","utm_source":"bing","utm_medium":"cpc"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "https://example.com/?a=1&utm_campaign=q4&utm_source=bing&utm_medium=cpc",
		decode(t, w).Data.(map[string]any)["full_url"])

	w = do(h, http.MethodPost, "/api/links/inspect", `{"url":"example.com?utm_campaign=q4&utm_term=shoes"}`)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode(t, w).Data.(map[string]any)
	assert.Equal(t, true, got["tagged"])
	assert.Equal(t, "https://example.com", got["base_url"])
}

func TestHTTP_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		role    string
		method  string
		path    func(f *fixture) string
		body    string
		status  int
		errCode string
	}{
		{
			name: "viewer cannot create", role: rbac.RoleViewer, method: http.MethodPost,
			path:   func(f *fixture) string { return "/api/campaigns/" + f.active.ID.String() + "/links" },
			body:   `{"target_url":"example.com","utm_source":"a","utm_medium":"b"}`,
			status: http.StatusForbidden,
		},
		{
			name: "missing medium", role: rbac.RoleEditor, method: http.MethodPost,
			path:   func(f *fixture) string { return "/api/campaigns/" + f.active.ID.String() + "/links" },
			body:   `{"target_url":"example.com","utm_source":"a"}`,
			status: http.StatusUnprocessableEntity, errCode: "validation_error",
		},
		{
			name: "unsupported scheme", role: rbac.RoleEditor, method: http.MethodPost,
			path:   func(f *fixture) string { return "/api/campaigns/" + f.active.ID.String() + "/links" },
			body:   `{"target_url":"ftp://example.com","utm_source":"a","utm_medium":"b"}`,
			status: http.StatusUnprocessableEntity, errCode: "validation_error",
		},
		{
			name: "archived campaign", role: rbac.RoleEditor, method: http.MethodPost,
			path:   func(f *fixture) string { return "/api/campaigns/" + f.archived.ID.String() + "/links" },
			body:   `{"target_url":"example.com","utm_source":"a","utm_medium":"b"}`,
			status: http.StatusConflict,
		},
		{
			name: "custom params need a plan feature", role: rbac.RoleEditor, method: http.MethodPost,
			path:   func(f *fixture) string { return "/api/campaigns/" + f.active.ID.String() + "/links" },
			body:   `{"target_url":"example.com","utm_source":"a","utm_medium":"b","utm_custom1":"c"}`,
			status: http.StatusPaymentRequired,
		},
		{
			name: "unknown campaign", role: rbac.RoleEditor, method: http.MethodGet,
			path:   func(*fixture) string { return "/api/campaigns/" + uuid.NewString() + "/links" },
			status: http.StatusNotFound,
		},
		{
			name: "qr size out of range", role: rbac.RoleEditor, method: http.MethodGet,
			path:   func(*fixture) string { return "/api/links/" + uuid.NewString() + "/qr?size=5000" },
			status: http.StatusUnprocessableEntity,
		},
		{
			name: "bad link id", role: rbac.RoleEditor, method: http.MethodGet,
			path:   func(*fixture) string { return "/api/links/nope" },
			status: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t, limits.Unlimited)
			w := do(router(f, tt.role), tt.method, tt.path(f), tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			if tt.errCode != "" {
				assert.Equal(t, tt.errCode, decode(t, w).Error.Code)
			}
		})
	}
}
