package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/daryha/buzzletBack/internal/application"
	"github.com/daryha/buzzletBack/internal/interface/middleware"
	"github.com/daryha/buzzletBack/pkg/response"
)

type CommentHandler struct {
	Svc    *application.CommentService
	Logger *logrus.Logger
}

func NewCommentHandler(svc *application.CommentService, logger *logrus.Logger) *CommentHandler {
	return &CommentHandler{Svc: svc, Logger: logger}
}

type commentRequest struct {
	Text string `json:"text" binding:"required,min=1,max=500"`
}

// Create POST /comment/:id where id is the post.
func (h *CommentHandler) Create(c *gin.Context) {
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	cm, err := h.Svc.Create(c.Request.Context(), c.Param("id"), middleware.UserID(c), req.Text)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, cm, "comment created", nil)
}

// Update PATCH /comment/:id
func (h *CommentHandler) Update(c *gin.Context) {
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	cm, err := h.Svc.Update(c.Request.Context(), c.Param("id"), middleware.UserID(c), req.Text)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, cm, "comment updated", nil)
}

// Delete DELETE /comment/:id returns the removed comment.
func (h *CommentHandler) Delete(c *gin.Context) {
	cm, err := h.Svc.Delete(c.Request.Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, cm, "comment deleted", nil)
}
