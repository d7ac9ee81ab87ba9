package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/daryha/buzzletBack/internal/application"
	"github.com/daryha/buzzletBack/internal/domain/entity"
	"github.com/daryha/buzzletBack/pkg/helpers"
	"github.com/daryha/buzzletBack/pkg/response"
)

const (
	CtxUserIDKey    = "userID"
	CtxPrincipalKey = "principal"
)

// TokenVerifier turns a bearer token into a principal id.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// PrincipalLoader confirms the principal still exists and returns its public identity.
type PrincipalLoader interface {
	GetPrincipal(ctx context.Context, id string) (entity.Principal, error)
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
// The scheme is matched case-insensitively.
func BearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// Auth rejects the request with 401 unless it carries a valid access token for
// an existing user. It sets userID and principal in the Gin context.
// principals may be nil, in which case only the token is checked.
func Auth(tokens TokenVerifier, principals PrincipalLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := BearerToken(c.GetHeader("Authorization"))
		if !ok {
			response.Error[any](c, http.StatusUnauthorized, "missing bearer token", nil)
			return
		}
		id, err := tokens.Verify(raw)
		if err != nil {
			response.Error[any](c, http.StatusUnauthorized, accessTokenMessage(err), nil)
			return
		}
		c.Set(CtxUserIDKey, id)

		if principals != nil {
			p, err := principals.GetPrincipal(c.Request.Context(), id)
			if errors.Is(err, application.ErrNotFound) {
				response.Error[any](c, http.StatusUnauthorized, "user no longer exists", nil)
				return
			}
			if err != nil {
				_ = c.Error(err)
				response.Error[any](c, http.StatusInternalServerError, "internal server error", nil)
				return
			}
			c.Set(CtxPrincipalKey, p)
		}
		c.Next()
	}
}

// OptionalAuth attaches userID when a valid bearer token is present and
// otherwise lets the request through anonymously. It never aborts.
func OptionalAuth(tokens TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw, ok := BearerToken(c.GetHeader("Authorization")); ok {
			if id, err := tokens.Verify(raw); err == nil {
				c.Set(CtxUserIDKey, id)
			}
		}
		c.Next()
	}
}

// UserID returns the resolved principal id, or "" for anonymous requests.
func UserID(c *gin.Context) string {
	return c.GetString(CtxUserIDKey)
}

func CurrentPrincipal(c *gin.Context) (entity.Principal, bool) {
	v, ok := c.Get(CtxPrincipalKey)
	if !ok {
		return entity.Principal{}, false
	}
	p, ok := v.(entity.Principal)
	return p, ok
}

func accessTokenMessage(err error) string {
	switch {
	case errors.Is(err, helpers.ErrTokenExpired):
		return "access token expired"
	case errors.Is(err, helpers.ErrMalformedToken):
		return "access token has no subject"
	}
	return "invalid access token"
}
