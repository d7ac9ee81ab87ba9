package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/daryha/buzzletBack/internal/application"
	"github.com/daryha/buzzletBack/internal/interface/middleware"
	"github.com/daryha/buzzletBack/pkg/response"
	"github.com/daryha/buzzletBack/pkg/validation"
)

type PostHandler struct {
	Posts  *application.PostService
	Users  *application.UserService
	Logger *logrus.Logger
}

func NewPostHandler(posts *application.PostService, users *application.UserService, logger *logrus.Logger) *PostHandler {
	return &PostHandler{Posts: posts, Users: users, Logger: logger}
}

// TagList accepts either "a, b" or ["a", "b"].
type TagList []string

func (t *TagList) UnmarshalJSON(b []byte) error {
	if string(bytes.TrimSpace(b)) == "null" {
		*t = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*t = strings.Split(s, ",")
		return nil
	}
	var list []string
	if err := json.Unmarshal(b, &list); err == nil {
		*t = list
		return nil
	}
	return &validation.FieldError{Field: "tags", Message: "must be a comma-separated string or an array of strings"}
}

type createPostRequest struct {
	Title       string  `json:"title" binding:"required,max=200"`
	Description string  `json:"description" binding:"required"`
	Text        string  `json:"text" binding:"required"`
	BannerImg   string  `json:"bannerImg"`
	Published   bool    `json:"published"`
	Tags        TagList `json:"tags"`
}

type updatePostRequest struct {
	Title       *string  `json:"title" binding:"omitempty,min=1,max=200"`
	Description *string  `json:"description"`
	Text        *string  `json:"text" binding:"omitempty,min=1"`
	BannerImg   *string  `json:"bannerImg"`
	Published   *bool    `json:"published"`
	Tags        *TagList `json:"tags"`
}

// List GET /post
func (h *PostHandler) List(c *gin.Context) {
	posts, err := h.Posts.List(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, posts, "posts", nil)
}

// Get GET /post/:id
func (h *PostHandler) Get(c *gin.Context) {
	p, err := h.Posts.Get(c.Request.Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, p, "post", nil)
}

// GetProtected GET /post/get-post-protected/:id also serves the caller's drafts.
func (h *PostHandler) GetProtected(c *gin.Context) {
	p, err := h.Posts.GetProtected(c.Request.Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, p, "post", nil)
}

// Create POST /post
func (h *PostHandler) Create(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	p, err := h.Posts.Create(c.Request.Context(), middleware.UserID(c), application.PostInput{
		Title:       req.Title,
		Description: req.Description,
		Text:        req.Text,
		BannerImg:   req.BannerImg,
		Published:   req.Published,
		Tags:        req.Tags,
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, p, "post created", nil)
}

// Banner POST /post/banner (multipart field "banner")
func (h *PostHandler) Banner(c *gin.Context) {
	up, ok := formUpload(c, "banner")
	if !ok {
		return
	}
	defer up.close()

	url, err := h.Users.UploadBanner(c.Request.Context(), middleware.UserID(c), up.Upload)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"url": url}, "banner uploaded", nil)
}

// Update PATCH /post/:id
func (h *PostHandler) Update(c *gin.Context) {
	var req updatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	patch := application.PostPatch{
		Title:       req.Title,
		Description: req.Description,
		Text:        req.Text,
		BannerImg:   req.BannerImg,
		Published:   req.Published,
	}
	if req.Tags != nil {
		patch.Tags = append([]string{}, *req.Tags...)
	}
	p, err := h.Posts.Update(c.Request.Context(), c.Param("id"), middleware.UserID(c), patch)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, p, "post updated", nil)
}

// Delete DELETE /post/:id
func (h *PostHandler) Delete(c *gin.Context) {
	if err := h.Posts.Delete(c.Request.Context(), c.Param("id"), middleware.UserID(c)); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "post deleted"}, "post deleted", nil)
}

// Like POST /post/:id/like toggles the caller's like.
func (h *PostHandler) Like(c *gin.Context) {
	liked, err := h.Posts.ToggleLike(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"liked": liked}, "like toggled", nil)
}

// View POST /post/:id/view always succeeds.
func (h *PostHandler) View(c *gin.Context) {
	h.Posts.AddView(c.Request.Context(), c.Param("id"), middleware.ClientIP(c), middleware.UserID(c))
	response.Success(c, http.StatusOK, gin.H{"viewed": true}, "view recorded", nil)
}
