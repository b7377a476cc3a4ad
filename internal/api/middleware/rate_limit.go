package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/npatt14/Aptus/pkg/redis"
	"github.com/npatt14/Aptus/pkg/response"
)

// RateLimit 基于 Redis 固定窗口的速率限制中间件
// 抽取端点背后是按调用计费的 LLM 服务，按客户端 IP 粗粒度限流
// rdb 为 nil 或 Redis 出错时降级放行
func RateLimit(rdb *redis.Client, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil {
			c.Next()
			return
		}

		key := fmt.Sprintf("rate_limit:%s:%s", c.ClientIP(), c.FullPath())
		allowed, err := rdb.CheckRateLimit(c.Request.Context(), key, limit, window)
		if err != nil {
			c.Next()
			return
		}

		if !allowed {
			response.Error(c, http.StatusTooManyRequests,
				"Too many requests", "Please slow down and try again later")
			c.Abort()
			return
		}

		c.Next()
	}
}
