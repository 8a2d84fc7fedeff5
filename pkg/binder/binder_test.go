package binder_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawa80/utm-link-crafter-sub002/pkg/binder"
)

type createLinkRequest struct {
	CampaignID uuid.UUID         `json:"-" path:"campaign_id"`
	TargetURL  string            `json:"target_url"`
	Source     string            `json:"source"`
	Tags       []string          `json:"tags"`
	Extra      map[string]string `json:"extra"`
}

func jsonRequest(body string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json; charset=utf-8")
	return r
}

func TestJSON(t *testing.T) {
	t.Parallel()

	t.Run("decodes and cleans strings", func(t *testing.T) {
		t.Parallel()
		var req createLinkRequest
		err := binder.JSON()(jsonRequest(`{"target_url":"example.com\u0000","source":"news\u0007letter","tags":["a\u0000b"]}`), &req)
		require.NoError(t, err)
		assert.Equal(t, "example.com", req.TargetURL)
		assert.Equal(t, "newsletter", req.Source)
		assert.Equal(t, []string{"ab"}, req.Tags)
	})

	tests := []struct {
		name    string
		request func() *http.Request
		wantErr error
	}{
		{
			name:    "unknown field",
			request: func() *http.Request { return jsonRequest(`{"target":"x"}`) },
			wantErr: binder.ErrFailedToParseJSON,
		},
		{
			name:    "malformed",
			request: func() *http.Request { return jsonRequest(`{"target_url":`) },
			wantErr: binder.ErrFailedToParseJSON,
		},
		{
			name:    "empty body",
			request: func() *http.Request { return jsonRequest(``) },
			wantErr: binder.ErrFailedToParseJSON,
		},
		{
			name:    "trailing data",
			request: func() *http.Request { return jsonRequest(`{"source":"a"} {"source":"b"}`) },
			wantErr: binder.ErrFailedToParseJSON,
		},
		{
			name: "wrong media type",
			request: func() *http.Request {
				r := jsonRequest(`{}`)
				r.Header.Set("Content-Type", "text/plain")
				return r
			},
			wantErr: binder.ErrUnsupportedMediaType,
		},
		{
			name: "body without content type",
			request: func() *http.Request {
				r := jsonRequest(`{}`)
				r.Header.Del("Content-Type")
				return r
			},
			wantErr: binder.ErrMissingContentType,
		},
		{
			name:    "no body at all",
			request: func() *http.Request { return httptest.NewRequest(http.MethodPost, "/", nil) },
			wantErr: binder.ErrBinderNotApplicable,
		},
		{
			name: "too large",
			request: func() *http.Request {
				return jsonRequest(`{"source":"` + strings.Repeat("a", binder.DefaultMaxJSONSize) + `"}`)
			},
			wantErr: binder.ErrFailedToParseJSON,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var req createLinkRequest
			assert.ErrorIs(t, binder.JSON()(tt.request(), &req), tt.wantErr)
		})
	}
}

func TestPath(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	params := map[string]string{"campaign_id": id.String(), "id": "not-a-uuid"}
	extractor := func(_ *http.Request, name string) string { return params[name] }

	var req createLinkRequest
	require.NoError(t, binder.Path(extractor)(httptest.NewRequest(http.MethodGet, "/", nil), &req))
	assert.Equal(t, id, req.CampaignID)
	assert.Empty(t, req.TargetURL, "untagged fields are not bound")

	var bad struct {
		ID uuid.UUID `path:"id"`
	}
	err := binder.Path(extractor)(httptest.NewRequest(http.MethodGet, "/", nil), &bad)
	assert.ErrorIs(t, err, binder.ErrFailedToParsePath)

	var optional struct {
		ID *uuid.UUID `path:"campaign_id"`
	}
	require.NoError(t, binder.Path(extractor)(httptest.NewRequest(http.MethodGet, "/", nil), &optional))
	require.NotNil(t, optional.ID)
	assert.Equal(t, id, *optional.ID)

	assert.ErrorIs(t, binder.Path(extractor)(httptest.NewRequest(http.MethodGet, "/", nil), bad), binder.ErrFailedToParsePath)
}

func TestQuery(t *testing.T) {
	t.Parallel()

	type listRequest struct {
		Limit    int      `query:"limit"`
		Offset   int      `query:"offset"`
		Status   string   `query:"status"`
		Archived *bool    `query:"archived"`
		Sources  []string `query:"source"`
		Ignored  string   `query:"-"`
		Untagged string
	}

	r := httptest.NewRequest(http.MethodGet, "/?limit=20&status=active&archived=yes&source=google,bing&source=meta&Untagged=x&Ignored=y", nil)

	var req listRequest
	require.NoError(t, binder.Query()(r, &req))
	assert.Equal(t, 20, req.Limit)
	assert.Zero(t, req.Offset)
	assert.Equal(t, "active", req.Status)
	require.NotNil(t, req.Archived)
	assert.True(t, *req.Archived)
	assert.Equal(t, []string{"google", "bing", "meta"}, req.Sources)
	assert.Empty(t, req.Ignored)
	assert.Empty(t, req.Untagged)

	bad := httptest.NewRequest(http.MethodGet, "/?limit=ten", nil)
	assert.ErrorIs(t, binder.Query()(bad, &req), binder.ErrFailedToParseQuery)
}
