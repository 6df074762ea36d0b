package httphandler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	postdomain "github.com/lllypuk/agora/internal/domain/post"
	"github.com/lllypuk/agora/internal/domain/user"
	"github.com/lllypuk/agora/internal/domain/uuid"
	httphandler "github.com/lllypuk/agora/internal/handler/http"
	"github.com/lllypuk/agora/internal/infrastructure/httpserver"
	"github.com/lllypuk/agora/internal/middleware"
)

type request struct {
	method string
	target string
	body   string
	actor  uuid.UUID
	role   user.Role
	params map[string]string
}

func newTestContext(t *testing.T, req request) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	var httpReq *http.Request
	if req.body != "" {
		httpReq = httptest.NewRequest(req.method, req.target, strings.NewReader(req.body))
		httpReq.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		httpReq = httptest.NewRequest(req.method, req.target, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(httpReq, rec)

	if !req.actor.IsZero() {
		c.Set(string(middleware.ContextKeyUserID), req.actor)
		role := req.role
		if role == "" {
			role = user.RoleMember
		}
		c.Set(string(middleware.ContextKeyRole), role)
	}

	if len(req.params) > 0 {
		names := make([]string, 0, len(req.params))
		values := make([]string, 0, len(req.params))
		for name, value := range req.params {
			names = append(names, name)
			values = append(values, value)
		}
		c.SetParamNames(names...)
		c.SetParamValues(values...)
	}
	return c, rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) httpserver.Envelope {
	t.Helper()
	var env httpserver.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func dataMap(t *testing.T, env httpserver.Envelope) map[string]any {
	t.Helper()
	m, ok := env.Data.(map[string]any)
	require.True(t, ok, "expected object data, got %T", env.Data)
	return m
}

func seedPost(t *testing.T, svc *httphandler.MockPostService, createdBy uuid.UUID) *postdomain.Post {
	t.Helper()
	p, err := postdomain.NewPost("A post", "Body", []string{"go"}, createdBy)
	require.NoError(t, err)
	svc.AddPost(p)
	return p
}

func TestPostHandler_Create(t *testing.T) {
	ownerID := uuid.NewUUID()

	t.Run("creates a post", func(t *testing.T) {
		svc := httphandler.NewMockPostService()
		h := httphandler.NewPostHandler(svc)

		c, rec := newTestContext(t, request{
			method: http.MethodPost,
			target: "/posts",
			body:   `{"title":"A post","description":"Body","categories":["go"]}`,
			actor:  ownerID,
		})
		require.NoError(t, h.Create(c))

		assert.Equal(t, http.StatusCreated, rec.Code)
		env := decodeBody(t, rec)
		assert.Equal(t, http.StatusCreated, env.Status)
		data := dataMap(t, env)
		assert.Equal(t, "A post", data["title"])
		assert.Equal(t, ownerID.String(), data["created_by"])
		assert.Equal(t, float64(0), data["vote_count"])
	})

	t.Run("unauthenticated request is rejected", func(t *testing.T) {
		h := httphandler.NewPostHandler(httphandler.NewMockPostService())

		c, rec := newTestContext(t, request{
			method: http.MethodPost,
			target: "/posts",
			body:   `{"title":"A post","description":"Body"}`,
		})
		require.NoError(t, h.Create(c))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("invalid body is a bad request", func(t *testing.T) {
		h := httphandler.NewPostHandler(httphandler.NewMockPostService())

		c, rec := newTestContext(t, request{
			method: http.MethodPost,
			target: "/posts",
			body:   `{not json`,
			actor:  ownerID,
		})
		require.NoError(t, h.Create(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("empty title is a bad request", func(t *testing.T) {
		h := httphandler.NewPostHandler(httphandler.NewMockPostService())

		c, rec := newTestContext(t, request{
			method: http.MethodPost,
			target: "/posts",
			body:   `{"title":"","description":"Body"}`,
			actor:  ownerID,
		})
		require.NoError(t, h.Create(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestPostHandler_Get(t *testing.T) {
	svc := httphandler.NewMockPostService()
	h := httphandler.NewPostHandler(svc)
	p := seedPost(t, svc, uuid.NewUUID())

	t.Run("existing post", func(t *testing.T) {
		c, rec := newTestContext(t, request{
			method: http.MethodGet,
			target: "/posts/" + p.ID().String(),
			params: map[string]string{"id": p.ID().String()},
		})
		require.NoError(t, h.Get(c))

		assert.Equal(t, http.StatusOK, rec.Code)
		data := dataMap(t, decodeBody(t, rec))
		assert.Equal(t, p.ID().String(), data["id"])
	})

	t.Run("missing post is not found", func(t *testing.T) {
		c, rec := newTestContext(t, request{
			method: http.MethodGet,
			target: "/posts/" + uuid.NewUUID().String(),
			params: map[string]string{"id": uuid.NewUUID().String()},
		})
		require.NoError(t, h.Get(c))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed ID is a bad request", func(t *testing.T) {
		c, rec := newTestContext(t, request{
			method: http.MethodGet,
			target: "/posts/nope",
			params: map[string]string{"id": "nope"},
		})
		require.NoError(t, h.Get(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestPostHandler_List(t *testing.T) {
	svc := httphandler.NewMockPostService()
	h := httphandler.NewPostHandler(svc)
	seedPost(t, svc, uuid.NewUUID())
	seedPost(t, svc, uuid.NewUUID())

	t.Run("lists all posts", func(t *testing.T) {
		c, rec := newTestContext(t, request{method: http.MethodGet, target: "/posts"})
		require.NoError(t, h.List(c))

		assert.Equal(t, http.StatusOK, rec.Code)
		env := decodeBody(t, rec)
		items, ok := env.Data.([]any)
		require.True(t, ok)
		assert.Len(t, items, 2)
	})

	t.Run("category filter narrows the listing", func(t *testing.T) {
		c, rec := newTestContext(t, request{method: http.MethodGet, target: "/posts?category=news"})
		require.NoError(t, h.List(c))

		env := decodeBody(t, rec)
		items, ok := env.Data.([]any)
		require.True(t, ok)
		assert.Empty(t, items)
	})

	t.Run("malformed created_by is a bad request", func(t *testing.T) {
		c, rec := newTestContext(t, request{method: http.MethodGet, target: "/posts?created_by=nope"})
		require.NoError(t, h.List(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("negative offset is a bad request", func(t *testing.T) {
		c, rec := newTestContext(t, request{method: http.MethodGet, target: "/posts?offset=-1"})
		require.NoError(t, h.List(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestPostHandler_ListByUser(t *testing.T) {
	svc := httphandler.NewMockPostService()
	h := httphandler.NewPostHandler(svc)

	authorID := uuid.NewUUID()
	mine := seedPost(t, svc, authorID)
	seedPost(t, svc, uuid.NewUUID())

	t.Run("lists only the author's posts", func(t *testing.T) {
		c, rec := newTestContext(t, request{
			method: http.MethodGet,
			target: "/users/" + authorID.String() + "/posts",
			params: map[string]string{"id": authorID.String()},
		})
		require.NoError(t, h.ListByUser(c))

		assert.Equal(t, http.StatusOK, rec.Code)
		env := decodeBody(t, rec)
		items, ok := env.Data.([]any)
		require.True(t, ok)
		require.Len(t, items, 1)

		item, ok := items[0].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, mine.ID().String(), item["id"])
	})

	t.Run("author without posts yields an empty list", func(t *testing.T) {
		stranger := uuid.NewUUID()
		c, rec := newTestContext(t, request{
			method: http.MethodGet,
			target: "/users/" + stranger.String() + "/posts",
			params: map[string]string{"id": stranger.String()},
		})
		require.NoError(t, h.ListByUser(c))

		assert.Equal(t, http.StatusOK, rec.Code)
		env := decodeBody(t, rec)
		items, ok := env.Data.([]any)
		require.True(t, ok)
		assert.Empty(t, items)
	})

	t.Run("malformed ID is a bad request", func(t *testing.T) {
		c, rec := newTestContext(t, request{
			method: http.MethodGet,
			target: "/users/nope/posts",
			params: map[string]string{"id": "nope"},
		})
		require.NoError(t, h.ListByUser(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestPostHandler_Update(t *testing.T) {
	ownerID := uuid.NewUUID()

	t.Run("owner updates the title", func(t *testing.T) {
		svc := httphandler.NewMockPostService()
		h := httphandler.NewPostHandler(svc)
		p := seedPost(t, svc, ownerID)

		c, rec := newTestContext(t, request{
			method: http.MethodPut,
			target: "/posts/" + p.ID().String(),
			body:   `{"title":"changed"}`,
			actor:  ownerID,
			params: map[string]string{"id": p.ID().String()},
		})
		require.NoError(t, h.Update(c))

		assert.Equal(t, http.StatusOK, rec.Code)
		data := dataMap(t, decodeBody(t, rec))
		assert.Equal(t, "changed", data["title"])
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		svc := httphandler.NewMockPostService()
		h := httphandler.NewPostHandler(svc)
		p := seedPost(t, svc, ownerID)

		c, rec := newTestContext(t, request{
			method: http.MethodPut,
			target: "/posts/" + p.ID().String(),
			body:   `{"title":"changed"}`,
			actor:  uuid.NewUUID(),
			params: map[string]string{"id": p.ID().String()},
		})
		require.NoError(t, h.Update(c))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("admin may update", func(t *testing.T) {
		svc := httphandler.NewMockPostService()
		h := httphandler.NewPostHandler(svc)
		p := seedPost(t, svc, ownerID)

		c, rec := newTestContext(t, request{
			method: http.MethodPut,
			target: "/posts/" + p.ID().String(),
			body:   `{"title":"changed"}`,
			actor:  uuid.NewUUID(),
			role:   user.RoleAdmin,
			params: map[string]string{"id": p.ID().String()},
		})
		require.NoError(t, h.Update(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing post is not found before authorization", func(t *testing.T) {
		svc := httphandler.NewMockPostService()
		h := httphandler.NewPostHandler(svc)

		missing := uuid.NewUUID()
		c, rec := newTestContext(t, request{
			method: http.MethodPut,
			target: "/posts/" + missing.String(),
			body:   `{"title":"changed"}`,
			actor:  uuid.NewUUID(),
			params: map[string]string{"id": missing.String()},
		})
		require.NoError(t, h.Update(c))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestPostHandler_Delete(t *testing.T) {
	ownerID := uuid.NewUUID()

	t.Run("owner deletes the post", func(t *testing.T) {
		svc := httphandler.NewMockPostService()
		h := httphandler.NewPostHandler(svc)
		p := seedPost(t, svc, ownerID)

		c, rec := newTestContext(t, request{
			method: http.MethodDelete,
			target: "/posts/" + p.ID().String(),
			actor:  ownerID,
			params: map[string]string{"id": p.ID().String()},
		})
		require.NoError(t, h.Delete(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		svc := httphandler.NewMockPostService()
		h := httphandler.NewPostHandler(svc)
		p := seedPost(t, svc, ownerID)

		c, rec := newTestContext(t, request{
			method: http.MethodDelete,
			target: "/posts/" + p.ID().String(),
			actor:  uuid.NewUUID(),
			params: map[string]string{"id": p.ID().String()},
		})
		require.NoError(t, h.Delete(c))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("unauthenticated request is rejected", func(t *testing.T) {
		svc := httphandler.NewMockPostService()
		h := httphandler.NewPostHandler(svc)
		p := seedPost(t, svc, ownerID)

		c, rec := newTestContext(t, request{
			method: http.MethodDelete,
			target: "/posts/" + p.ID().String(),
			params: map[string]string{"id": p.ID().String()},
		})
		require.NoError(t, h.Delete(c))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestPostHandler_Vote(t *testing.T) {
	voterID := uuid.NewUUID()

	t.Run("upvote increments the count", func(t *testing.T) {
		svc := httphandler.NewMockPostService()
		h := httphandler.NewPostHandler(svc)
		p := seedPost(t, svc, uuid.NewUUID())

		c, rec := newTestContext(t, request{
			method: http.MethodPost,
			target: "/posts/" + p.ID().String() + "/vote",
			body:   `{"direction":"upvote"}`,
			actor:  voterID,
			params: map[string]string{"id": p.ID().String()},
		})
		require.NoError(t, h.Vote(c))

		assert.Equal(t, http.StatusOK, rec.Code)
		data := dataMap(t, decodeBody(t, rec))
		assert.Equal(t, float64(1), data["vote_count"])
	})

	t.Run("downvote decrements the count", func(t *testing.T) {
		svc := httphandler.NewMockPostService()
		h := httphandler.NewPostHandler(svc)
		p := seedPost(t, svc, uuid.NewUUID())

		c, rec := newTestContext(t, request{
			method: http.MethodPost,
			target: "/posts/" + p.ID().String() + "/vote",
			body:   `{"direction":"downvote"}`,
			actor:  voterID,
			params: map[string]string{"id": p.ID().String()},
		})
		require.NoError(t, h.Vote(c))

		data := dataMap(t, decodeBody(t, rec))
		assert.Equal(t, float64(-1), data["vote_count"])
	})

	t.Run("unknown direction is a bad request", func(t *testing.T) {
		svc := httphandler.NewMockPostService()
		h := httphandler.NewPostHandler(svc)
		p := seedPost(t, svc, uuid.NewUUID())

		c, rec := newTestContext(t, request{
			method: http.MethodPost,
			target: "/posts/" + p.ID().String() + "/vote",
			body:   `{"direction":"sideways"}`,
			actor:  voterID,
			params: map[string]string{"id": p.ID().String()},
		})
		require.NoError(t, h.Vote(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("vote on missing post is not found", func(t *testing.T) {
		h := httphandler.NewPostHandler(httphandler.NewMockPostService())

		missing := uuid.NewUUID()
		c, rec := newTestContext(t, request{
			method: http.MethodPost,
			target: "/posts/" + missing.String() + "/vote",
			body:   `{"direction":"upvote"}`,
			actor:  voterID,
			params: map[string]string{"id": missing.String()},
		})
		require.NoError(t, h.Vote(c))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
