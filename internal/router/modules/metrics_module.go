package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/daryha/buzzletBack/internal/interface/middleware"
	"github.com/daryha/buzzletBack/pkg/metrics"
)

// MetricsModule exposes Prometheus metrics to loopback and private-network scrapers only.
type MetricsModule struct {
	Metrics *metrics.Metrics
}

func NewMetricsModule(m *metrics.Metrics) *MetricsModule { return &MetricsModule{Metrics: m} }

func (m *MetricsModule) Register(rg *gin.RouterGroup) {
	rg.GET("/metrics", middleware.RequireAllowed(middleware.AllowPrivateIP()), gin.WrapH(m.Metrics.Handler()))
}
