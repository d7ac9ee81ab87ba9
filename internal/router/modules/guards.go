package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/daryha/buzzletBack/internal/interface/middleware"
)

// Guards builds the auth and rate-limit middleware shared by the modules.
// A nil Redis client turns every limiter into a pass-through.
type Guards struct {
	Tokens     middleware.TokenVerifier
	Principals middleware.PrincipalLoader
	Redis      *redis.Client
	Logger     *logrus.Logger
}

func (g Guards) auth() gin.HandlerFunc { return middleware.Auth(g.Tokens, g.Principals) }

func (g Guards) optional() gin.HandlerFunc { return middleware.OptionalAuth(g.Tokens) }

// perMinute limits to max requests per minute per key.
func (g Guards) perMinute(max int, key middleware.KeyFunc) gin.HandlerFunc {
	return middleware.RateLimit(g.Redis, max, time.Minute, key, nil, g.Logger)
}
