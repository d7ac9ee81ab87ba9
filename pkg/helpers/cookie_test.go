package helpers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCookieManager_SetRefresh(t *testing.T) {
	m := NewCookie("", false, 0)
	rec := httptest.NewRecorder()
	exp := time.Now().Add(7 * 24 * time.Hour).Truncate(time.Second)

	m.SetRefresh(rec, "tok", exp)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, RefreshCookieName, c.Name)
	assert.Equal(t, "tok", c.Value)
	assert.Equal(t, "/", c.Path)
	assert.True(t, c.HttpOnly)
	assert.False(t, c.Secure)
	assert.True(t, c.Expires.Equal(exp.UTC()), "expires %v want %v", c.Expires, exp)
	assert.InDelta(t, 7*24*3600, c.MaxAge, 5)
}

func TestCookieManager_Attributes(t *testing.T) {
	m := NewCookie("example.test", true, http.SameSiteStrictMode)
	rec := httptest.NewRecorder()

	m.SetRefresh(rec, "tok", time.Now().Add(time.Hour))

	header := rec.Header().Get("Set-Cookie")
	assert.Contains(t, header, "Domain=example.test")
	assert.Contains(t, header, "Secure")
	assert.Contains(t, header, "HttpOnly")
	assert.Contains(t, header, "SameSite=Strict")
}

func TestCookieManager_ClearRefresh(t *testing.T) {
	m := NewCookie("", false, 0)
	rec := httptest.NewRecorder()

	m.ClearRefresh(rec)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, RefreshCookieName, c.Name)
	assert.Empty(t, c.Value)
	assert.True(t, c.Expires.Before(time.Now()))
	assert.Equal(t, -1, c.MaxAge)
}

func TestCookieManager_ReadRefresh(t *testing.T) {
	m := NewCookie("", false, 0)

	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", nil)
	assert.Empty(t, m.ReadRefresh(req))

	req.AddCookie(&http.Cookie{Name: RefreshCookieName, Value: "abc"})
	assert.Equal(t, "abc", m.ReadRefresh(req))
}
