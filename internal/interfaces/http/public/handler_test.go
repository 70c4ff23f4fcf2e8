package public

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sngm3741/meshi-wheel/api/internal/auth"
	"github.com/sngm3741/meshi-wheel/api/internal/catalog"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

type fakeQueries struct {
	doc      catalog.Catalog
	profiles []catalog.Profile
	err      error
}

func (f *fakeQueries) Catalog(context.Context) (catalog.Catalog, error) {
	if f.err != nil {
		return catalog.Catalog{}, f.err
	}
	return f.doc, nil
}

func (f *fakeQueries) Profiles(context.Context) ([]catalog.Profile, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.profiles, nil
}

func newTestRouter(queries *fakeQueries, secret []byte, password string) chi.Router {
	h := NewHandler(Config{
		Logger:        log.New(io.Discard, "", 0),
		Queries:       queries,
		Tokens:        auth.NewService(secret),
		AdminPassword: password,
	})
	router := chi.NewRouter()
	h.Register(router, func(next http.Handler) http.Handler { return next })
	return router
}

func TestAuthEndpoint(t *testing.T) {
	t.Run("issues a token for the correct password", func(t *testing.T) {
		router := newTestRouter(&fakeQueries{}, testSecret, "open-sesame")

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/auth", strings.NewReader(`{"password":"open-sesame"}`))
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var body struct {
			Authenticated bool   `json:"authenticated"`
			Token         string `json:"token"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.True(t, body.Authenticated)

		claims, err := auth.NewService(testSecret).Verify(body.Token)
		require.NoError(t, err)
		assert.NotEmpty(t, claims.SessionID)
		assert.Equal(t, claims.IssuedAt.Add(auth.TokenTTL), claims.ExpiresAt.Time)
	})

	t.Run("rejects a wrong password", func(t *testing.T) {
		router := newTestRouter(&fakeQueries{}, testSecret, "open-sesame")

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/auth", strings.NewReader(`{"password":"nope"}`))
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"authenticated":false,"error":"Invalid password"}`, rec.Body.String())
	})

	t.Run("rejects every password when none is configured", func(t *testing.T) {
		router := newTestRouter(&fakeQueries{}, testSecret, "")

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/auth", strings.NewReader(`{"password":""}`))
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"authenticated":false,"error":"Invalid password"}`, rec.Body.String())
	})

	t.Run("rejects a malformed body", func(t *testing.T) {
		router := newTestRouter(&fakeQueries{}, testSecret, "open-sesame")

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/auth", strings.NewReader(`{"password":`))
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"authenticated":false,"error":"Invalid request body"}`, rec.Body.String())
	})

	t.Run("reports a missing signing secret", func(t *testing.T) {
		router := newTestRouter(&fakeQueries{}, nil, "open-sesame")

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/auth", strings.NewReader(`{"password":"open-sesame"}`))
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"authenticated":false,"error":"JWT_SECRET is not configured"}`, rec.Body.String())
	})

	t.Run("guards only the login route with the rate limiter", func(t *testing.T) {
		h := NewHandler(Config{
			Logger:        log.New(io.Discard, "", 0),
			Queries:       &fakeQueries{},
			Tokens:        auth.NewService(testSecret),
			AdminPassword: "open-sesame",
		})
		router := chi.NewRouter()
		marker := func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("X-Limited", "1")
				next.ServeHTTP(w, r)
			})
		}
		h.Register(router, marker)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth", strings.NewReader(`{}`)))
		assert.Equal(t, "1", rec.Header().Get("X-Limited"))

		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/restaurants", nil))
		assert.Empty(t, rec.Header().Get("X-Limited"))
	})
}

func TestRestaurantListEndpoint(t *testing.T) {
	t.Run("returns the catalog with cache headers", func(t *testing.T) {
		queries := &fakeQueries{
			doc: catalog.Catalog{
				Profiles: []catalog.Profile{{ID: "all", Name: "All Restaurants"}},
				Restaurants: []catalog.Restaurant{{
					ID:           catalog.StringID("r-1"),
					Name:         "Ramen Taro",
					FoodTypes:    []string{"ramen"},
					ServiceTypes: []string{"dine-in"},
					Profiles:     []string{},
				}},
			},
		}
		router := newTestRouter(queries, testSecret, "open-sesame")

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/restaurants", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "public, s-maxage=30", rec.Header().Get("Cache-Control"))
		assert.JSONEq(t, `{
			"restaurants": [{"id":"r-1","name":"Ramen Taro","foodTypes":["ramen"],"serviceTypes":["dine-in"],"profiles":[]}],
			"profiles": [{"id":"all","name":"All Restaurants"}]
		}`, rec.Body.String())
	})

	t.Run("keeps a numeric id numeric", func(t *testing.T) {
		queries := &fakeQueries{
			doc: catalog.Catalog{
				Restaurants: []catalog.Restaurant{{
					ID:           catalog.ParseID(int64(1712345678901)),
					Name:         "Legacy Diner",
					FoodTypes:    []string{"diner"},
					ServiceTypes: []string{"dine-in"},
					Profiles:     []string{},
				}},
			},
		}
		router := newTestRouter(queries, testSecret, "open-sesame")

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/restaurants", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"id":1712345678901`)
	})

	t.Run("renders an empty catalog with empty arrays", func(t *testing.T) {
		router := newTestRouter(&fakeQueries{}, testSecret, "open-sesame")

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/restaurants", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"restaurants":[],"profiles":[]}`, rec.Body.String())
	})

	t.Run("surfaces a read failure", func(t *testing.T) {
		queries := &fakeQueries{err: errors.New("github contents api: status=502 body=bad gateway")}
		router := newTestRouter(queries, testSecret, "open-sesame")

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/restaurants", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"error":"github contents api: status=502 body=bad gateway"}`, rec.Body.String())
	})
}

func TestProfileListEndpoint(t *testing.T) {
	t.Run("returns the profile list", func(t *testing.T) {
		queries := &fakeQueries{profiles: []catalog.Profile{
			{ID: "all", Name: "All Restaurants"},
			{ID: "quick-lunch", Name: "Quick Lunch"},
		}}
		router := newTestRouter(queries, testSecret, "open-sesame")

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/profiles", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "public, s-maxage=30", rec.Header().Get("Cache-Control"))
		assert.JSONEq(t, `{"profiles":[
			{"id":"all","name":"All Restaurants"},
			{"id":"quick-lunch","name":"Quick Lunch"}
		]}`, rec.Body.String())
	})

	t.Run("renders no profiles as an empty array", func(t *testing.T) {
		router := newTestRouter(&fakeQueries{}, testSecret, "open-sesame")

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/profiles", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"profiles":[]}`, rec.Body.String())
	})

	t.Run("surfaces a read failure", func(t *testing.T) {
		queries := &fakeQueries{err: errors.New("store unreachable")}
		router := newTestRouter(queries, testSecret, "open-sesame")

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/profiles", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"error":"store unreachable"}`, rec.Body.String())
	})
}
