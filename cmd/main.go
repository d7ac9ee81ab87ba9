package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/daryha/buzzletBack/config"
	"github.com/daryha/buzzletBack/internal/container"
	"github.com/daryha/buzzletBack/internal/infrastructure/memory"
	"github.com/daryha/buzzletBack/internal/infrastructure/objectstore"
	pginfra "github.com/daryha/buzzletBack/internal/infrastructure/postgres"
	"github.com/daryha/buzzletBack/internal/router"
	"github.com/daryha/buzzletBack/pkg/helpers"
	"github.com/daryha/buzzletBack/pkg/metrics"
	"github.com/daryha/buzzletBack/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := run(ctx, cfg, logger)
	stop()
	if err != nil {
		logger.Fatalf("server stopped: %v", err)
	}
	logger.Info("server exited properly")
}

// run wires dependencies and serves until ctx is cancelled. Every resource it
// opens is released before it returns.
func run(ctx context.Context, cfg *config.Config, logger *logrus.Logger) error {
	sameSite, _ := cfg.SameSite()
	gin.SetMode(cfg.GinMode)
	validation.Init()

	// Storage backend
	switch cfg.DBDriver {
	case "memory":
		logger.Warn("DB_DRIVER=memory: data is lost on restart")
		store := memory.NewStore()
		container.SetRepositories(container.Repositories{Users: store.Users(), Posts: store.Posts(), Comments: store.Comments()})
	default:
		pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
		if err != nil {
			return fmt.Errorf("connect to postgres: %w", err)
		}
		defer pool.Close()

		if cfg.MigrationsEnabled {
			if err := pginfra.RunMigrations(cfg.PostgresDSN(), logger); err != nil {
				return fmt.Errorf("run migrations: %w", err)
			}
		}
		container.SetPGPool(pool)
		container.SetRepositories(container.Repositories{
			Users:    pginfra.NewUserRepository(pool),
			Posts:    pginfra.NewPostRepository(pool),
			Comments: pginfra.NewCommentRepository(pool),
		})
	}

	// Redis is optional: without it rate limits and the principal cache are off.
	if cfg.RedisAddr != "" {
		rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := helpers.PingRedis(ctx, rdb, 3*time.Second); err != nil {
			helpers.LogWarn(logger, "redis unavailable; rate limiting and principal cache disabled", err, logrus.Fields{"addr": cfg.RedisAddr})
			_ = rdb.Close()
		} else {
			defer func() { _ = rdb.Close() }()
			container.SetRedis(rdb)
		}
	}

	objects, closeObjects, err := objectstore.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init object store: %w", err)
	}
	defer func() { _ = closeObjects() }()
	container.SetObjectStore(objects)

	if cfg.MailSendEnabled {
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
		if err != nil {
			helpers.LogWarn(logger, "rabbitmq unavailable; welcome emails disabled", err, logrus.Fields{"queue": cfg.RabbitMQEmailQueue})
		} else {
			defer pub.Close()
			container.SetRabbitPub(pub)
		}
	}

	m := metrics.New()

	// Provide singletons to container for registry auto-wiring
	container.SetConfig(cfg)
	container.SetLogger(logger)
	container.SetMetrics(m)
	container.SetJWT(helpers.NewJWTManager(cfg.JWTSecret, cfg.AccessTTL, cfg.RefreshTTL))
	container.SetHasher(helpers.NewPasswordHasher(cfg.BcryptCost))
	container.SetCookies(helpers.NewCookie(cfg.CookieDomain, cfg.CookieSecure, sameSite))

	r := router.NewEngine(cfg, m)
	reg := router.NewRegistry(r, cfg.APIPrefix)
	router.InitModules(reg)
	reg.RegisterAll()

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	serveErr := make(chan error, 1)
	go func() {
		helpers.LogInfo(logger, "server starting", logrus.Fields{"port": cfg.Port, "env": cfg.Env, "db": cfg.DBDriver, "storage": cfg.StorageDriver})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}
	logger.Info("shutting down server")

	// Graceful shutdown
	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}
