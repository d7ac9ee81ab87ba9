package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/daryha/buzzletBack/internal/interface/http"
	"github.com/daryha/buzzletBack/internal/interface/middleware"
)

// PostModule serves the feed (optional auth) and the author's post operations (mandatory auth).
type PostModule struct {
	Handler *handlers.PostHandler
	Guards  Guards
}

func NewPostModule(h *handlers.PostHandler, g Guards) *PostModule {
	return &PostModule{Handler: h, Guards: g}
}

func (m *PostModule) Register(rg *gin.RouterGroup) {
	posts := rg.Group("/post")

	public := posts.Group("", m.Guards.optional())
	{
		public.GET("", m.Handler.List)
		public.GET("/:id", m.Handler.Get)
		public.POST("/:id/view", m.Guards.perMinute(120, middleware.KeyByIPAndPath()), m.Handler.View)
	}

	auth := posts.Group("", m.Guards.auth(), m.Guards.perMinute(120, middleware.KeyByUserID()))
	{
		auth.GET("/get-post-protected/:id", m.Handler.GetProtected)
		auth.POST("", m.Handler.Create)
		auth.POST("/banner", m.Handler.Banner)
		auth.PATCH("/:id", m.Handler.Update)
		auth.DELETE("/:id", m.Handler.Delete)
		auth.POST("/:id/like", m.Handler.Like)
	}
}
