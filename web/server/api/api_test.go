package api

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.hackfix.me/purr/db"
	"go.hackfix.me/purr/db/redis"
	"go.hackfix.me/purr/effect"
	"go.hackfix.me/purr/models"
	"go.hackfix.me/purr/service"
	"go.hackfix.me/purr/web/server/handler"
	"go.hackfix.me/purr/web/server/types"
)

type testStore struct {
	name string
	new  func(t *testing.T) service.CatStore
}

var testStores = []testStore{
	{name: "sqlite", new: func(t *testing.T) service.CatStore {
		t.Helper()
		rndID := make([]byte, 8)
		_, err := rand.Read(rndID)
		require.NoError(t, err)

		d, err := db.Open(t.Context(), fmt.Sprintf("file:purr-%x?mode=memory&cache=shared", rndID), time.Now)
		require.NoError(t, err)
		t.Cleanup(func() { _ = d.Close() })
		require.NoError(t, d.Init("v1.0.0", slog.New(slog.DiscardHandler)))

		return d
	}},
	{name: "redis", new: func(t *testing.T) service.CatStore {
		t.Helper()
		mr := miniredis.RunT(t)
		store := redis.NewFromClient(backend.NewClient(&backend.Options{Addr: mr.Addr()}))
		t.Cleanup(func() { _ = store.Close() })

		return store
	}},
}

type testRequest struct{}

// corruptStore returns records that aren't valid cats.
type corruptStore struct {
	service.CatStore
}

func (corruptStore) Create(_ context.Context, name string) (*models.Cat, error) {
	return &models.Cat{ID: "", Name: name}, nil
}

func (corruptStore) Get(_ context.Context, id string) (*models.Cat, error) {
	return &models.Cat{ID: id + "x", Name: "Fluffy"}, nil
}

func newTestServer(t *testing.T, store service.CatStore, errLvl types.ErrorLevel) *httptest.Server {
	t.Helper()

	h, err := newHandler(service.NewCats(store), Options{
		Logger:     slog.New(slog.DiscardHandler),
		ErrorLevel: errLvl,
	})
	require.NoError(t, err)

	mux := http.NewServeMux()
	h.routes(mux)
	mux.Handle("GET /die", handler.Handle(func(context.Context, *testRequest) (any, error) {
		return effect.Die[any]("oops"), nil
	}, h.pipeline()))

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return srv
}

func doRequest(t *testing.T, srv *httptest.Server, method, target, body string) (int, string) {
	t.Helper()

	var reqBody io.Reader
	if body != "" {
		reqBody = strings.NewReader(body)
	}
	req, err := http.NewRequestWithContext(t.Context(), method, srv.URL+target, reqBody)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, string(data)
}

func TestAPI(t *testing.T) {
	t.Parallel()

	steps := []struct {
		name      string
		method    string
		target    string
		body      string
		expStatus int
		expBody   string
	}{
		{
			name:      "ok/list_empty",
			method:    http.MethodGet,
			target:    "/cats",
			expStatus: http.StatusOK,
			expBody:   `[]`,
		},
		{
			name:      "ok/create",
			method:    http.MethodPost,
			target:    "/cats",
			body:      `{"name": "Fluffy"}`,
			expStatus: http.StatusCreated,
			expBody:   `{"id": "1", "name": "Fluffy"}`,
		},
		{
			name:      "err/create_invalid_field",
			method:    http.MethodPost,
			target:    "/cats",
			body:      `{"invalidField": "test"}`,
			expStatus: http.StatusBadRequest,
			expBody: `{
				"message": "Validation failed",
				"field": "request body",
				"type": "body",
				"errors": "{ name: string }\n└─ [\"name\"]\n   └─ is missing",
				"details": [{"path": ["name"], "message": "is missing"}]
			}`,
		},
		{
			name:      "err/create_malformed",
			method:    http.MethodPost,
			target:    "/cats",
			body:      `{"name":`,
			expStatus: http.StatusBadRequest,
		},
		{
			name:      "ok/create_empty_name",
			method:    http.MethodPost,
			target:    "/cats",
			body:      `{"name": ""}`,
			expStatus: http.StatusCreated,
			expBody:   `{"id": "2", "name": ""}`,
		},
		{
			name:      "ok/create_another",
			method:    http.MethodPost,
			target:    "/cats",
			body:      `{"name": "Mr. Whiskers"}`,
			expStatus: http.StatusCreated,
			expBody:   `{"id": "3", "name": "Mr. Whiskers"}`,
		},
		{
			name:      "ok/get",
			method:    http.MethodGet,
			target:    "/cats/1",
			expStatus: http.StatusOK,
			expBody:   `{"id": "1", "name": "Fluffy"}`,
		},
		{
			name:      "err/get_unknown",
			method:    http.MethodGet,
			target:    "/cats/999",
			expStatus: http.StatusNotFound,
			expBody:   `{"message": "Resource not found"}`,
		},
		{
			name:      "err/get_invalid",
			method:    http.MethodGet,
			target:    "/cats/invalid",
			expStatus: http.StatusNotFound,
			expBody:   `{"message": "Resource not found"}`,
		},
		{
			name:      "ok/list",
			method:    http.MethodGet,
			target:    "/cats",
			expStatus: http.StatusOK,
			expBody: `[
				{"id": "1", "name": "Fluffy"},
				{"id": "2", "name": ""},
				{"id": "3", "name": "Mr. Whiskers"}
			]`,
		},
		{
			name:      "ok/list_filter",
			method:    http.MethodGet,
			target:    "/cats?name=WHISK",
			expStatus: http.StatusOK,
			expBody:   `[{"id": "3", "name": "Mr. Whiskers"}]`,
		},
		{
			name:      "ok/list_limit",
			method:    http.MethodGet,
			target:    "/cats?limit=1",
			expStatus: http.StatusOK,
			expBody:   `[{"id": "1", "name": "Fluffy"}]`,
		},
		{
			name:      "err/list_limit_invalid",
			method:    http.MethodGet,
			target:    "/cats?limit=abc",
			expStatus: http.StatusBadRequest,
			expBody: `{
				"message": "Validation failed",
				"field": "limit",
				"type": "query",
				"errors": "Unable to decode \"abc\" into IntFromString: not an integer",
				"details": [{"path": [], "message": "Unable to decode \"abc\" into IntFromString: not an integer"}]
			}`,
		},
		{
			name:      "err/list_limit_zero",
			method:    http.MethodGet,
			target:    "/cats?limit=0",
			expStatus: http.StatusBadRequest,
			expBody: `{
				"message": "Validation failed",
				"field": "limit",
				"type": "query",
				"errors": "Expected a positive integer, actual \"0\"",
				"details": [{"path": [], "message": "Expected a positive integer, actual \"0\""}]
			}`,
		},
		{
			name:      "err/list_unknown_param",
			method:    http.MethodGet,
			target:    "/cats?color=black",
			expStatus: http.StatusBadRequest,
		},
		{
			name:      "ok/delete",
			method:    http.MethodDelete,
			target:    "/cats/2",
			expStatus: http.StatusOK,
			expBody:   `{"id": "2"}`,
		},
		{
			name:      "err/delete_again",
			method:    http.MethodDelete,
			target:    "/cats/2",
			expStatus: http.StatusNotFound,
			expBody:   `{"message": "Resource not found"}`,
		},
		{
			name:      "ok/health",
			method:    http.MethodGet,
			target:    "/health",
			expStatus: http.StatusOK,
			expBody:   `{"status": "ok"}`,
		},
		{
			name:      "err/unknown_route",
			method:    http.MethodGet,
			target:    "/dogs",
			expStatus: http.StatusNotFound,
			expBody:   `{"message": "Resource not found"}`,
		},
		{
			name:      "err/die",
			method:    http.MethodGet,
			target:    "/die",
			expStatus: http.StatusInternalServerError,
			expBody:   `{"message": "oops"}`,
		},
	}

	for _, st := range testStores {
		t.Run(st.name, func(t *testing.T) {
			t.Parallel()

			// The steps depend on each other, so they run sequentially.
			srv := newTestServer(t, st.new(t), types.ErrorLevelFull)
			for _, step := range steps {
				status, body := doRequest(t, srv, step.method, step.target, step.body)
				assert.Equal(t, step.expStatus, status, step.name)
				if step.expBody != "" {
					assert.JSONEq(t, step.expBody, body, step.name)
				}
			}
		})
	}
}

func TestAPIErrorLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		lvl     types.ErrorLevel
		expBody string
	}{
		{lvl: types.ErrorLevelFull, expBody: `{"message": "oops"}`},
		{lvl: types.ErrorLevelMinimal, expBody: `{"message": "Internal Server Error"}`},
		{lvl: types.ErrorLevelNone, expBody: `{"message": ""}`},
	}

	for _, tt := range tests {
		t.Run(string(tt.lvl), func(t *testing.T) {
			t.Parallel()

			srv := newTestServer(t, testStores[0].new(t), tt.lvl)

			status, body := doRequest(t, srv, http.MethodGet, "/die", "")
			assert.Equal(t, http.StatusInternalServerError, status)
			assert.JSONEq(t, tt.expBody, body)

			// Client errors are never sanitized.
			status, body = doRequest(t, srv, http.MethodGet, "/cats/1", "")
			assert.Equal(t, http.StatusNotFound, status)
			assert.JSONEq(t, `{"message": "Resource not found"}`, body)
		})
	}
}

func TestAPIInvalidRecord(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, corruptStore{}, types.ErrorLevelFull)

	status, body := doRequest(t, srv, http.MethodGet, "/cats/1", "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.JSONEq(t, `{
		"message": "Validation failed",
		"errors": "{ id: a numeric ID; name: string }\n└─ [\"id\"]\n   └─ Expected a numeric ID, actual \"1x\"",
		"details": [{"path": ["id"], "message": "Expected a numeric ID, actual \"1x\""}]
	}`, body)

	status, body = doRequest(t, srv, http.MethodPost, "/cats", `{"name": "Tom"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.JSONEq(t, `{
		"message": "Validation failed",
		"errors": "{ id: a numeric ID; name: string }\n└─ [\"id\"]\n   └─ Expected a numeric ID, actual \"\"",
		"details": [{"path": ["id"], "message": "Expected a numeric ID, actual \"\""}]
	}`, body)
}
