package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/daryha/buzzletBack/config"
	"github.com/daryha/buzzletBack/internal/infrastructure/objectstore"
	"github.com/daryha/buzzletBack/internal/interface/middleware"
	"github.com/daryha/buzzletBack/pkg/metrics"
)

// NewEngine builds the gin engine with the global middleware chain. Locally
// stored uploads are served from /uploads.
func NewEngine(cfg *config.Config, m *metrics.Metrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware(), middleware.RealIP())
	if cfg.MetricsEnabled {
		r.Use(middleware.Metrics(m))
	}
	corsCfg := cors.Config{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(corsCfg.AllowOrigins) == 0 {
		// Without an allow-list only development reflects the caller's origin.
		dev := cfg.Env == "development"
		corsCfg.AllowOriginFunc = func(string) bool { return dev }
	}
	r.Use(cors.New(corsCfg))
	if cfg.HTTPLogEnabled {
		r.Use(gin.Logger())
	}
	if cfg.StorageDriver == "" || cfg.StorageDriver == "local" {
		r.Static(objectstore.PublicPrefix, cfg.UploadDir)
	}
	return r
}
