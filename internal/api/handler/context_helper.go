package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/npatt14/Aptus/internal/api/middleware"
	"github.com/npatt14/Aptus/pkg/response"
)

// MustGetTimezone 从 Gin 上下文中安全提取已校验的时区。
// 如果时区中间件未正确注入，返回 false 并写入 400 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetTimezone(c *gin.Context) (string, bool) {
	v, exists := c.Get(middleware.TimezoneKey)
	if !exists {
		response.BadRequest(c, "Missing or invalid X-Timezone header",
			"Please provide a valid timezone in the X-Timezone header")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.BadRequest(c, "Missing or invalid X-Timezone header",
			"Please provide a valid timezone in the X-Timezone header")
		return "", false
	}
	return s, true
}
