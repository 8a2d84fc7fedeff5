package account_test

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
	"github.com/pawa80/utm-link-crafter-sub002/pkg/rbac"
	"github.com/pawa80/utm-link-crafter-sub002/pkg/tenant"
	"github.com/pawa80/utm-link-crafter-sub002/svc/account"
)

func newRouter(f *fixture) http.Handler {
	r := chi.NewRouter()
	r.Use(tenant.Middleware(tenant.NewHeaderResolver(tenant.DefaultHeader), f.svc, tenant.WithCache(f.cache)))
	r.Use(account.Middleware(f.svc))
	r.Mount("/api/account", f.svc.Handle())
	return r
}

func call(h http.Handler, method, path string, accountID, userID uuid.UUID, body string) (*httptest.ResponseRecorder, handler.JSONResponse) {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	r := httptest.NewRequest(method, path, rd)
	if body != "" {
		r.Header.Set("Content-Type", "application/json")
	}
	if accountID != uuid.Nil {
		r.Header.Set(tenant.DefaultHeader, accountID.String())
	}
	if userID != uuid.Nil {
		r.Header.Set(account.UserHeader, userID.String())
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	var resp handler.JSONResponse
	if w.Body.Len() > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &resp)
	}
	return w, resp
}

func TestHTTP_Membership(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	acc, owner := f.createAccount(t, "Acme")
	h := newRouter(f)

	w, resp := call(h, http.MethodGet, "/api/account", acc.ID, uuid.Nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "unauthorized", resp.Error.Code)

	w, _ = call(h, http.MethodGet, "/api/account", acc.ID, uuid.New(), "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, resp = call(h, http.MethodGet, "/api/account", acc.ID, owner.UserID, "")
	assert.Equal(t, http.StatusOK, w.Code)
	data := resp.Data.(map[string]any)
	assert.Equal(t, acc.Slug, data["account"].(map[string]any)["slug"])
	assert.Equal(t, rbac.RoleOwner, data["member"].(map[string]any)["role"])
}

func TestHTTP_Members(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	acc, owner := f.createAccount(t, "Acme")
	h := newRouter(f)
	path := "/api/account/members"

	viewerID := uuid.New()
	w, resp := call(h, http.MethodPost, path, acc.ID, owner.UserID,
		`{"user_id":"`+viewerID.String()+`","email":"v@example.com","role":"viewer"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "viewer", resp.Data.(map[string]any)["role"])

	t.Run("viewer cannot add members", func(t *testing.T) {
		w, resp := call(h, http.MethodPost, path, acc.ID, viewerID, `{"user_id":"`+uuid.NewString()+`","role":"viewer"}`)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "forbidden", resp.Error.Code)
	})

	t.Run("viewer lists members", func(t *testing.T) {
		w, resp := call(h, http.MethodGet, path, acc.ID, viewerID, "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, resp.Data, 2)
		assert.Equal(t, float64(2), resp.Meta["total"])
	})

	t.Run("validation", func(t *testing.T) {
		w, resp := call(h, http.MethodPost, path, acc.ID, owner.UserID, `{"email":"nope"}`)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, resp.Error.Details, "user_id")
		assert.Contains(t, resp.Error.Details, "email")
		assert.Contains(t, resp.Error.Details, "role")
	})

	t.Run("plan quota", func(t *testing.T) {
		w, resp := call(h, http.MethodPost, path, acc.ID, owner.UserID, `{"user_id":"`+uuid.NewString()+`","role":"viewer"}`)
		assert.Equal(t, http.StatusPaymentRequired, w.Code)
		assert.Equal(t, "payment_required", resp.Error.Code)
	})

	t.Run("last owner", func(t *testing.T) {
		w, _ := call(h, http.MethodDelete, path+"/"+owner.UserID.String(), acc.ID, owner.UserID, "")
		assert.Equal(t, http.StatusConflict, w.Code)

		w, _ = call(h, http.MethodPatch, path+"/"+owner.UserID.String(), acc.ID, owner.UserID, `{"role":"admin"}`)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("bad user id", func(t *testing.T) {
		w, _ := call(h, http.MethodDelete, path+"/not-a-uuid", acc.ID, owner.UserID, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHTTP_ChangeRoleAndRemove(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	acc, owner := f.createAccount(t, "Acme")
	h := newRouter(f)
	memberID := uuid.New()
	_, err := f.svc.AddMember(t.Context(), acc.ID, owner, account.AddMemberInput{UserID: memberID, Role: rbac.RoleViewer})
	require.NoError(t, err)

	path := "/api/account/members/" + memberID.String()
	w, resp := call(h, http.MethodPatch, path, acc.ID, owner.UserID, `{"role":"editor"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "editor", resp.Data.(map[string]any)["role"])

	w, _ = call(h, http.MethodPatch, path, acc.ID, owner.UserID, `{"role":"root"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w, _ = call(h, http.MethodDelete, path, acc.ID, owner.UserID, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w, _ = call(h, http.MethodDelete, path, acc.ID, owner.UserID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHTTP_Usage(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	acc, owner := f.createAccount(t, "Acme")

	w, resp := call(newRouter(f), http.MethodGet, "/api/account/usage", acc.ID, owner.UserID, "")
	require.Equal(t, http.StatusOK, w.Code)
	data := resp.Data.(map[string]any)
	assert.Equal(t, "free", data["plan_id"])
	assert.Equal(t, map[string]any{"current": float64(1), "limit": float64(2)}, data["usage"].(map[string]any)["members"])
}
