package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/daryha/buzzletBack/internal/interface/http"
	"github.com/daryha/buzzletBack/internal/interface/middleware"
)

// UserModule: public POST /user, protected POST /user/avatar.
type UserModule struct {
	Handler *handlers.UserHandler
	Guards  Guards
}

func NewUserModule(h *handlers.UserHandler, g Guards) *UserModule {
	return &UserModule{Handler: h, Guards: g}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	users := rg.Group("/user")
	users.POST("", m.Guards.perMinute(10, middleware.KeyByIPAndPath()), m.Handler.Create)
	users.POST("/avatar",
		m.Guards.auth(),
		m.Guards.perMinute(20, middleware.KeyByUserID()),
		m.Handler.Avatar,
	)
}
