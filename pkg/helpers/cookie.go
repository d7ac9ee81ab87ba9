package helpers

import (
	"net/http"
	"time"
)

// RefreshCookieName carries the refresh token between client and server.
const RefreshCookieName = "refreshToken"

// CookieManager writes the refresh-token cookie. Secure and SameSite are
// opt-in through configuration; by default only HttpOnly is set.
type CookieManager struct {
	Domain   string
	Secure   bool
	SameSite http.SameSite
}

func NewCookie(domain string, secure bool, sameSite http.SameSite) *CookieManager {
	return &CookieManager{Domain: domain, Secure: secure, SameSite: sameSite}
}

// SetRefresh stores value in an HttpOnly cookie that expires at expiresAt.
func (m *CookieManager) SetRefresh(w http.ResponseWriter, value string, expiresAt time.Time) {
	http.SetCookie(w, m.cookie(value, expiresAt, maxAgeFrom(expiresAt)))
}

// ClearRefresh overwrites the cookie with an empty, already expired one.
// The refresh token itself stays valid until its own expiry.
func (m *CookieManager) ClearRefresh(w http.ResponseWriter) {
	http.SetCookie(w, m.cookie("", time.Unix(0, 0), -1))
}

// ReadRefresh returns the refresh token sent by the client, or "".
func (m *CookieManager) ReadRefresh(r *http.Request) string {
	c, err := r.Cookie(RefreshCookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

func (m *CookieManager) cookie(value string, expires time.Time, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     RefreshCookieName,
		Value:    value,
		Path:     "/",
		Domain:   m.Domain,
		Expires:  expires.UTC(),
		MaxAge:   maxAge,
		Secure:   m.Secure,
		HttpOnly: true,
		SameSite: m.SameSite,
	}
}

func maxAgeFrom(exp time.Time) int {
	sec := int(time.Until(exp).Seconds())
	if sec < 0 {
		return -1
	}
	return sec
}
