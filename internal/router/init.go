package router

import (
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/daryha/buzzletBack/internal/application"
	"github.com/daryha/buzzletBack/internal/container"
	handlers "github.com/daryha/buzzletBack/internal/interface/http"
	"github.com/daryha/buzzletBack/internal/router/modules"
	"github.com/daryha/buzzletBack/pkg/helpers"
	"github.com/daryha/buzzletBack/pkg/metrics"
)

// Services is everything the HTTP modules are built from.
type Services struct {
	Auth     *application.AuthService
	Users    *application.UserService
	Posts    *application.PostService
	Comments *application.CommentService
	JWT      *helpers.JWTManager
	Cookies  *helpers.CookieManager
	// Metrics is nil when the /metrics endpoint is disabled.
	Metrics *metrics.Metrics
	// RateLimit is nil when rate limiting is disabled or Redis is unavailable.
	RateLimit *redis.Client
	Logger    *logrus.Logger
}

func buildServices() Services {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	repos := container.GetRepositories()
	rdb := container.GetRedis()

	users := application.NewUserService(repos.Users, container.GetHasher(), container.GetObjectStore(), rdb, logger)

	var jobs application.JobPublisher
	if pub := container.GetRabbitPub(); pub != nil {
		jobs = pub
	}
	auth := application.NewAuthService(users, container.GetJWT(), jobs, container.GetMetrics(), logger, cfg.AppName)

	s := Services{
		Auth:     auth,
		Users:    users,
		Posts:    application.NewPostService(repos.Posts, logger),
		Comments: application.NewCommentService(repos.Comments, repos.Posts, logger),
		JWT:      container.GetJWT(),
		Cookies:  container.GetCookies(),
		Logger:   logger,
	}
	if cfg.MetricsEnabled {
		s.Metrics = container.GetMetrics()
	}
	if cfg.RateLimitEnabled {
		s.RateLimit = rdb
	}
	return s
}

// Mount adds every feature module built from s to the registry.
func Mount(r *Registry, s Services) {
	g := modules.Guards{
		Tokens:     s.JWT,
		Principals: s.Users,
		Redis:      s.RateLimit,
		Logger:     s.Logger,
	}
	r.Add(
		modules.NewAuthModule(handlers.NewAuthHandler(s.Auth, s.Cookies, s.Logger), g),
		modules.NewUserModule(handlers.NewUserHandler(s.Users, s.Logger), g),
		modules.NewPostModule(handlers.NewPostHandler(s.Posts, s.Users, s.Logger), g),
		modules.NewCommentModule(handlers.NewCommentHandler(s.Comments, s.Logger), g),
	)
	if s.Metrics != nil {
		r.Add(modules.NewMetricsModule(s.Metrics))
	}
}

// InitModules initializes all application modules from the container and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	Mount(r, buildServices())
}
