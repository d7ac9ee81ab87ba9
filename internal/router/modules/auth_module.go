package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/daryha/buzzletBack/internal/interface/http"
	"github.com/daryha/buzzletBack/internal/interface/middleware"
)

// AuthModule serves the session endpoints under /auth.
type AuthModule struct {
	Handler *handlers.AuthHandler
	Guards  Guards
}

func NewAuthModule(h *handlers.AuthHandler, g Guards) *AuthModule {
	return &AuthModule{Handler: h, Guards: g}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	credentials := m.Guards.perMinute(10, middleware.KeyByIPAndPath())
	refresh := m.Guards.perMinute(60, middleware.KeyByIP())

	auth := rg.Group("/auth")
	auth.POST("/register", credentials, m.Handler.Register)
	auth.POST("/login", credentials, m.Handler.Login)
	auth.POST("/refresh", refresh, m.Handler.Refresh)
	auth.POST("/logout", m.Handler.Logout)
	auth.GET("/@me", m.Guards.auth(), m.Handler.Me)
}
