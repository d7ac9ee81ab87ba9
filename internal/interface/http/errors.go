package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/daryha/buzzletBack/internal/application"
	"github.com/daryha/buzzletBack/pkg/helpers"
	"github.com/daryha/buzzletBack/pkg/response"
	"github.com/daryha/buzzletBack/pkg/validation"
)

var errorStatuses = []struct {
	kind   error
	status int
}{
	{application.ErrUnauthorized, http.StatusUnauthorized},
	{application.ErrNotFound, http.StatusNotFound},
	{application.ErrConflict, http.StatusConflict},
	{application.ErrForbidden, http.StatusForbidden},
	{application.ErrBadRequest, http.StatusBadRequest},
}

// writeError maps an application or token error to its status. Unclassified
// errors are logged and reported as a generic 500.
func writeError(c *gin.Context, logger *logrus.Logger, err error) {
	for _, e := range errorStatuses {
		if errors.Is(err, e.kind) {
			response.Error[any](c, e.status, err.Error(), nil)
			return
		}
	}
	switch {
	case errors.Is(err, helpers.ErrTokenExpired):
		response.Error[any](c, http.StatusUnauthorized, "refresh token expired", nil)
		return
	case errors.Is(err, helpers.ErrMalformedToken):
		response.Error[any](c, http.StatusUnauthorized, "refresh token has no subject", nil)
		return
	case errors.Is(err, helpers.ErrInvalidToken):
		response.Error[any](c, http.StatusUnauthorized, "invalid refresh token", nil)
		return
	}
	helpers.LogError(logger, "request failed", err, logrus.Fields{
		"method":     c.Request.Method,
		"path":       c.FullPath(),
		"request_id": c.GetString(response.RequestIDKey),
	})
	response.Error[any](c, http.StatusInternalServerError, "internal server error", nil)
}

func invalidPayload(c *gin.Context, err error) {
	response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
}
