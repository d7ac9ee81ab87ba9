package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daryha/buzzletBack/internal/application"
	"github.com/daryha/buzzletBack/internal/domain/entity"
	"github.com/daryha/buzzletBack/pkg/helpers"
)

func init() { gin.SetMode(gin.TestMode) }

type stubPrincipals struct {
	byID map[string]entity.Principal
	err  error
}

func (s stubPrincipals) GetPrincipal(_ context.Context, id string) (entity.Principal, error) {
	if s.err != nil {
		return entity.Principal{}, s.err
	}
	p, ok := s.byID[id]
	if !ok {
		return entity.Principal{}, application.ErrUserNotFound
	}
	return p, nil
}

func newAuthRouter(mw gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.GET("/x", mw, func(c *gin.Context) {
		p, _ := CurrentPrincipal(c)
		c.JSON(http.StatusOK, gin.H{"id": UserID(c), "email": p.Email})
	})
	return r
}

func doGet(r http.Handler, authz string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestBearerToken(t *testing.T) {
	tok, ok := BearerToken("bearer abc")
	assert.True(t, ok)
	assert.Equal(t, "abc", tok)

	_, ok = BearerToken("Basic abc")
	assert.False(t, ok)
	_, ok = BearerToken("Bearer ")
	assert.False(t, ok)
	_, ok = BearerToken("")
	assert.False(t, ok)
}

func TestAuth(t *testing.T) {
	jwtm := helpers.NewJWTManager("test-secret", time.Minute, time.Hour)
	pair, err := jwtm.IssuePair("u1")
	require.NoError(t, err)
	orphan, err := jwtm.IssuePair("ghost")
	require.NoError(t, err)
	foreign, err := helpers.NewJWTManager("other", time.Minute, time.Hour).IssuePair("u1")
	require.NoError(t, err)

	principals := stubPrincipals{byID: map[string]entity.Principal{"u1": {ID: "u1", Email: "a@b.c"}}}
	r := newAuthRouter(Auth(jwtm, principals))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"valid", "Bearer " + pair.AccessToken, http.StatusOK},
		{"refresh token is accepted as access", "Bearer " + pair.RefreshToken, http.StatusOK},
		{"no header", "", http.StatusUnauthorized},
		{"wrong scheme", "Token " + pair.AccessToken, http.StatusUnauthorized},
		{"garbage", "Bearer not.a.jwt", http.StatusUnauthorized},
		{"other secret", "Bearer " + foreign.AccessToken, http.StatusUnauthorized},
		{"deleted user", "Bearer " + orphan.AccessToken, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doGet(r, tt.header)
			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusOK {
				assert.JSONEq(t, `{"id":"u1","email":"a@b.c"}`, w.Body.String())
			}
		})
	}
}

func TestAuth_ExpiredToken(t *testing.T) {
	jwtm := helpers.NewJWTManager("test-secret", -time.Minute, time.Hour)
	pair, err := jwtm.IssuePair("u1")
	require.NoError(t, err)

	w := doGet(newAuthRouter(Auth(jwtm, nil)), "Bearer "+pair.AccessToken)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "access token expired")
}

func TestAuth_StorageFailureIsInternal(t *testing.T) {
	jwtm := helpers.NewJWTManager("test-secret", time.Minute, time.Hour)
	pair, err := jwtm.IssuePair("u1")
	require.NoError(t, err)

	r := newAuthRouter(Auth(jwtm, stubPrincipals{err: errors.New("db down")}))
	w := doGet(r, "Bearer "+pair.AccessToken)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestOptionalAuth(t *testing.T) {
	jwtm := helpers.NewJWTManager("test-secret", time.Minute, time.Hour)
	pair, err := jwtm.IssuePair("u1")
	require.NoError(t, err)
	r := newAuthRouter(OptionalAuth(jwtm))

	w := doGet(r, "Bearer "+pair.AccessToken)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"u1"`)

	expired, err := helpers.NewJWTManager("test-secret", -time.Minute, time.Hour).IssuePair("u1")
	require.NoError(t, err)
	forged, err := helpers.NewJWTManager("other-secret", time.Minute, time.Hour).IssuePair("u1")
	require.NoError(t, err)

	for _, h := range []string{"", "Bearer junk", "Basic zzz", "Bearer " + expired.AccessToken, "Bearer " + forged.AccessToken} {
		w := doGet(r, h)
		assert.Equal(t, http.StatusOK, w.Code, h)
		assert.Contains(t, w.Body.String(), `"id":""`, h)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	generated := w.Header().Get(RequestIDHeader)
	assert.NotEmpty(t, generated)
	assert.Equal(t, generated, w.Body.String())

	const incoming = "6f1c7a1e-3f51-4c1e-9a51-0a2b3c4d5e6f"
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(RequestIDHeader, incoming)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, incoming, w.Header().Get(RequestIDHeader))
}

func TestRealIP(t *testing.T) {
	r := gin.New()
	r.Use(RealIP())
	r.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, ClientIP(c)) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "203.0.113.7", w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("CF-Connecting-IP", "198.51.100.2")
	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "198.51.100.2", w.Body.String())
}

func TestRateLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	r := gin.New()
	r.Use(RealIP(), RateLimit(rdb, 2, time.Minute, KeyByIP(), nil, nil))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	hit := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.RemoteAddr = "203.0.113.9:1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusNoContent, hit().Code)
	w := hit()
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	w = hit()
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	mr.FastForward(time.Minute + time.Second)
	assert.Equal(t, http.StatusNoContent, hit().Code)
}

func TestRateLimit_AllowBypassesAndFailsOpen(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	r := gin.New()
	r.Use(RealIP(), RateLimit(rdb, 1, time.Minute, KeyByIP(), AllowPrivateIP(), nil))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.RemoteAddr = "127.0.0.1:1"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNoContent, w.Code)
	}

	mr.Close()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.RemoteAddr = "203.0.113.1:1"
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNoContent, w.Code)
	}
}
