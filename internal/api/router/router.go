package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/npatt14/Aptus/config"
	"github.com/npatt14/Aptus/internal/api/handler"
	"github.com/npatt14/Aptus/internal/api/middleware"
	"github.com/npatt14/Aptus/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API ──
	shifts := r.Group("/api/shifts")
	shifts.Use(middleware.Timezone())
	{
		shifts.POST("", middleware.RateLimit(rdb, 30, time.Minute), h.Shift.CreateShift)
		shifts.GET("", h.Shift.ListShifts)
		shifts.GET("/evaluation-metrics", h.Shift.EvaluationMetrics)
	}

	return r
}
