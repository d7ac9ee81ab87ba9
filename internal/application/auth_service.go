package application

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/daryha/buzzletBack/internal/domain/entity"
	repo "github.com/daryha/buzzletBack/internal/domain/repository"
	"github.com/daryha/buzzletBack/pkg/helpers"
	"github.com/daryha/buzzletBack/pkg/mailer"
	"github.com/daryha/buzzletBack/pkg/metrics"
)

// JobPublisher enqueues background jobs (RabbitMQ in production).
type JobPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// AuthService is the authentication gateway: it turns credentials or a refresh
// token into a fresh token pair. Sessions are stateless; nothing is revoked.
type AuthService struct {
	Users   *UserService
	JWT     *helpers.JWTManager
	Jobs    JobPublisher
	Metrics *metrics.Metrics
	Logger  *logrus.Logger
	AppName string
}

// NewAuthService wires the gateway. jobs and m may be nil.
func NewAuthService(users *UserService, jwt *helpers.JWTManager, jobs JobPublisher, m *metrics.Metrics, logger *logrus.Logger, appName string) *AuthService {
	return &AuthService{Users: users, JWT: jwt, Jobs: jobs, Metrics: m, Logger: orDiscard(logger), AppName: appName}
}

// Register creates the account and starts a session for it.
func (s *AuthService) Register(ctx context.Context, in CreateUserInput) (pair helpers.TokenPair, err error) {
	defer func() { s.Metrics.AuthEvent("register", err) }()

	u, err := s.Users.Create(ctx, in)
	if err != nil {
		if !isClientError(err) {
			helpers.LogError(s.Logger, "register failed", err, logrus.Fields{"email": in.Email})
		}
		return helpers.TokenPair{}, err
	}
	pair, err = s.issueSessionFor(u.ID)
	if err != nil {
		return helpers.TokenPair{}, err
	}
	s.publishWelcome(ctx, u)
	return pair, nil
}

// Login checks the credentials. Unknown email and wrong password both yield ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (pair helpers.TokenPair, err error) {
	defer func() { s.Metrics.AuthEvent("login", err) }()

	u, err := s.Users.Repo.GetByEmail(ctx, email)
	if errors.Is(err, repo.ErrNotFound) {
		return helpers.TokenPair{}, ErrInvalidCredentials
	}
	if err != nil {
		helpers.LogError(s.Logger, "login lookup failed", err, logrus.Fields{"email": email})
		return helpers.TokenPair{}, err
	}
	if !s.Users.Hasher.Verify(password, u.Password) {
		return helpers.TokenPair{}, ErrInvalidCredentials
	}
	return s.issueSessionFor(u.ID)
}

// Refresh rotates the pair. The presented refresh token stays valid until it expires.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (pair helpers.TokenPair, err error) {
	defer func() { s.Metrics.AuthEvent("refresh", err) }()

	if refreshToken == "" {
		return helpers.TokenPair{}, ErrMissingRefreshToken
	}
	userID, err := s.JWT.Verify(refreshToken)
	if err != nil {
		return helpers.TokenPair{}, err
	}
	if _, err := s.Users.GetByID(ctx, userID); err != nil {
		if !isClientError(err) {
			helpers.LogError(s.Logger, "refresh lookup failed", err, logrus.Fields{"user_id": userID})
		}
		return helpers.TokenPair{}, err
	}
	return s.issueSessionFor(userID)
}

// Logout is a no-op server side; the handler clears the cookie.
func (s *AuthService) Logout(context.Context) {
	s.Metrics.AuthEvent("logout", nil)
}

func (s *AuthService) issueSessionFor(userID string) (helpers.TokenPair, error) {
	pair, err := s.JWT.IssuePair(userID)
	if err != nil {
		helpers.LogError(s.Logger, "issue token pair failed", err, logrus.Fields{"user_id": userID})
		return helpers.TokenPair{}, err
	}
	return pair, nil
}

func (s *AuthService) publishWelcome(ctx context.Context, u *entity.User) {
	if s.Jobs == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 3*time.Second)
	defer cancel()
	job := mailer.NewWelcomeJob(u.Email, u.Name, s.AppName)
	if err := s.Jobs.PublishJSON(ctx, job); err != nil {
		helpers.LogWarn(s.Logger, "welcome email enqueue failed", err, logrus.Fields{"user_id": u.ID, "email": u.Email})
	}
}

func isClientError(err error) bool {
	for _, kind := range []error{ErrUnauthorized, ErrNotFound, ErrConflict, ErrForbidden, ErrBadRequest} {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}
