package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/daryha/buzzletBack/internal/application"
	"github.com/daryha/buzzletBack/internal/domain/entity"
	"github.com/daryha/buzzletBack/internal/interface/middleware"
	"github.com/daryha/buzzletBack/pkg/response"
)

type UserHandler struct {
	Svc    *application.UserService
	Logger *logrus.Logger
}

func NewUserHandler(svc *application.UserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	AvatarURL string    `json:"avatarUrl"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toUserResponse(u *entity.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, Name: u.Name, AvatarURL: u.AvatarURL, CreatedAt: u.CreatedAt, UpdatedAt: u.UpdatedAt}
}

type avatarResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatarUrl"`
}

// Create POST /user registers an account without starting a session.
func (h *UserHandler) Create(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	u, err := h.Svc.Create(c.Request.Context(), application.CreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, toUserResponse(u), "user created", nil)
}

// Avatar POST /user/avatar (multipart field "avatar")
func (h *UserHandler) Avatar(c *gin.Context) {
	up, ok := formUpload(c, "avatar")
	if !ok {
		return
	}
	defer up.close()

	u, err := h.Svc.UploadAvatar(c.Request.Context(), middleware.UserID(c), up.Upload)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, avatarResponse{ID: u.ID, Email: u.Email, AvatarURL: u.AvatarURL}, "avatar updated", nil)
}

type formFile struct {
	application.Upload
	close func() error
}

// formUpload opens a multipart file field. It writes a 400 and returns false
// when the field is missing.
func formUpload(c *gin.Context, field string) (formFile, bool) {
	fh, err := c.FormFile(field)
	if err != nil {
		writeError(c, nil, application.ErrEmptyUpload)
		return formFile{}, false
	}
	f, err := fh.Open()
	if err != nil {
		writeError(c, nil, application.ErrEmptyUpload)
		return formFile{}, false
	}
	return formFile{
		Upload: application.Upload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Body:        f,
		},
		close: f.Close,
	}, true
}
