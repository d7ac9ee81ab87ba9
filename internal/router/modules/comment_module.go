package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/daryha/buzzletBack/internal/interface/http"
	"github.com/daryha/buzzletBack/internal/interface/middleware"
)

type CommentModule struct {
	Handler *handlers.CommentHandler
	Guards  Guards
}

func NewCommentModule(h *handlers.CommentHandler, g Guards) *CommentModule {
	return &CommentModule{Handler: h, Guards: g}
}

func (m *CommentModule) Register(rg *gin.RouterGroup) {
	comments := rg.Group("/comment", m.Guards.auth(), m.Guards.perMinute(60, middleware.KeyByUserID()))
	comments.POST("/:id", m.Handler.Create)
	comments.PATCH("/:id", m.Handler.Update)
	comments.DELETE("/:id", m.Handler.Delete)
}
