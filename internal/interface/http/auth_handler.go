package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/daryha/buzzletBack/internal/application"
	"github.com/daryha/buzzletBack/internal/interface/middleware"
	"github.com/daryha/buzzletBack/pkg/helpers"
	"github.com/daryha/buzzletBack/pkg/response"
)

type AuthHandler struct {
	Svc     *application.AuthService
	Cookies *helpers.CookieManager
	Logger  *logrus.Logger
}

func NewAuthHandler(svc *application.AuthService, cookies *helpers.CookieManager, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, Cookies: cookies, Logger: logger}
}

type registerRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,strongpwd"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

type accessTokenResponse struct {
	AccessToken string `json:"accessToken"`
}

// Register POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	pair, err := h.Svc.Register(c.Request.Context(), application.CreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	h.startSession(c, pair, "registered")
}

// Login POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	pair, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	h.startSession(c, pair, "login successful")
}

// Refresh POST /auth/refresh, authenticated by the refresh cookie only.
func (h *AuthHandler) Refresh(c *gin.Context) {
	pair, err := h.Svc.Refresh(c.Request.Context(), h.Cookies.ReadRefresh(c.Request))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	h.startSession(c, pair, "token refreshed")
}

// Logout POST /auth/logout. Tokens already issued stay valid until they expire.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.Svc.Logout(c.Request.Context())
	h.Cookies.ClearRefresh(c.Writer)
	response.Success(c, http.StatusOK, gin.H{"message": "success logout"}, "logged out", nil)
}

// Me GET /auth/@me
func (h *AuthHandler) Me(c *gin.Context) {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		response.Error[any](c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	response.Success(c, http.StatusOK, p, "current user", nil)
}

// startSession puts the refresh token in the cookie and only the access token in the body.
func (h *AuthHandler) startSession(c *gin.Context, pair helpers.TokenPair, msg string) {
	h.Cookies.SetRefresh(c.Writer, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success(c, http.StatusOK, accessTokenResponse{AccessToken: pair.AccessToken}, msg,
		map[string]any{"access_expires_at": pair.AccessTokenExpiry, "refresh_expires_at": pair.RefreshTokenExpiry})
}
