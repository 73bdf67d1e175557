package middlewares

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/helpers"
	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unrolled/render"
	"go.uber.org/zap"
)

type tokenAuth map[string]*models.User

func (a tokenAuth) Authenticate(_ context.Context, token string) (*models.User, error) {
	if u, ok := a[token]; ok {
		return u, nil
	}
	return nil, errors.New("unknown token")
}

var (
	customer = &models.User{ID: 1, Role: models.RoleCustomer}
	artisan  = &models.User{ID: 2, Role: models.RoleArtisan}
	testAuth = tokenAuth{"c": customer, "a": artisan}
)

func whoAmI(w http.ResponseWriter, r *http.Request) {
	if u, ok := helpers.UserFromRequest(r); ok {
		w.Header().Set("X-User-Role", u.Role)
	}
	w.WriteHeader(http.StatusNoContent)
}

func serve(h http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAuthMiddleware(t *testing.T) {
	rnd := render.New()
	h := AuthMiddleware(testAuth, rnd, zap.NewNop())(http.HandlerFunc(whoAmI))

	rec := serve(h, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
	assert.JSONEq(t, `{"detail":"Not authenticated"}`, rec.Body.String())

	rec = serve(h, "nope")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"detail":"Could not validate credentials"}`, rec.Body.String())

	rec = serve(h, "c")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, models.RoleCustomer, rec.Header().Get("X-User-Role"))
}

func TestOptionalAuthMiddleware(t *testing.T) {
	h := OptionalAuthMiddleware(testAuth)(http.HandlerFunc(whoAmI))

	assert.Empty(t, serve(h, "").Header().Get("X-User-Role"))
	assert.Empty(t, serve(h, "nope").Header().Get("X-User-Role"))
	assert.Equal(t, models.RoleArtisan, serve(h, "a").Header().Get("X-User-Role"))
}

func TestRequireRole(t *testing.T) {
	rnd := render.New()
	log := zap.NewNop()
	h := AuthMiddleware(testAuth, rnd, log)(RequireRole(rnd, log, models.RoleArtisan, models.RoleAdmin)(http.HandlerFunc(whoAmI)))

	rec := serve(h, "c")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"detail":"Access forbidden: insufficient permissions"}`, rec.Body.String())

	assert.Equal(t, http.StatusNoContent, serve(h, "a").Code)

	bare := RequireRole(rnd, log, models.RoleAdmin)(http.HandlerFunc(whoAmI))
	assert.Equal(t, http.StatusUnauthorized, serve(bare, "").Code)
}

func TestRequestIDAndRecover(t *testing.T) {
	rnd := render.New()
	var seen string
	h := RequestIDMiddleware(RecoverMiddleware(rnd, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = helpers.RequestID(r)
		panic("boom")
	})))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "req-1", seen)
	assert.Equal(t, "req-1", rec.Header().Get(RequestIDHeader))
	assert.JSONEq(t, `{"detail":"Internal server error"}`, rec.Body.String())

	rec = serve(h, "")
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
}
