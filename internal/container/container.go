package container

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/daryha/buzzletBack/config"
	repo "github.com/daryha/buzzletBack/internal/domain/repository"
	"github.com/daryha/buzzletBack/internal/infrastructure/objectstore"
	"github.com/daryha/buzzletBack/pkg/helpers"
	"github.com/daryha/buzzletBack/pkg/metrics"
)

// app-level container to share constructed components across packages
// Router auto-wires modules from these singletons.

// Repositories is the storage backend chosen at startup (postgres or memory).
type Repositories struct {
	Users    repo.UserRepository
	Posts    repo.PostRepository
	Comments repo.CommentRepository
}

var (
	cfg         *config.Config
	logger      *logrus.Logger
	pgPool      *pgxpool.Pool
	redisClient *redis.Client
	objects     objectstore.Store
	repos       Repositories

	jwtManager *helpers.JWTManager
	cookies    *helpers.CookieManager
	hasher     *helpers.PasswordHasher
	appMetrics *metrics.Metrics

	rabbitPub *helpers.RabbitPublisher
)

func SetConfig(c *config.Config)              { cfg = c }
func GetConfig() *config.Config               { return cfg }
func SetLogger(l *logrus.Logger)              { logger = l }
func GetLogger() *logrus.Logger               { return logger }
func SetPGPool(p *pgxpool.Pool)               { pgPool = p }
func GetPGPool() *pgxpool.Pool                { return pgPool }
func SetRedis(r *redis.Client)                { redisClient = r }
func GetRedis() *redis.Client                 { return redisClient }
func SetObjectStore(s objectstore.Store)      { objects = s }
func GetObjectStore() objectstore.Store       { return objects }
func SetRepositories(r Repositories)          { repos = r }
func GetRepositories() Repositories           { return repos }
func SetJWT(m *helpers.JWTManager)            { jwtManager = m }
func GetJWT() *helpers.JWTManager             { return jwtManager }
func SetCookies(m *helpers.CookieManager)     { cookies = m }
func GetCookies() *helpers.CookieManager      { return cookies }
func SetHasher(h *helpers.PasswordHasher)     { hasher = h }
func GetHasher() *helpers.PasswordHasher      { return hasher }
func SetMetrics(m *metrics.Metrics)           { appMetrics = m }
func GetMetrics() *metrics.Metrics            { return appMetrics }
func SetRabbitPub(p *helpers.RabbitPublisher) { rabbitPub = p }
func GetRabbitPub() *helpers.RabbitPublisher  { return rabbitPub }
