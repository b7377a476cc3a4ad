package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/npatt14/Aptus/pkg/response"
)

// TimezoneKey 经校验的时区在 gin.Context 中的键名
const TimezoneKey = "timezone"

// Timezone 时区守卫中间件
// 校验 X-Timezone 请求头为可解析的 IANA 时区标识，通过后注入上下文；
// 缺失或非法一律 400，任何路由逻辑之前执行
func Timezone() gin.HandlerFunc {
	return func(c *gin.Context) {
		tz := c.GetHeader("X-Timezone")

		if tz == "" {
			response.BadRequest(c, "Missing or invalid X-Timezone header",
				"Please provide a valid timezone in the X-Timezone header")
			c.Abort()
			return
		}

		// 通过实际加载时区验证合法性，任何错误即视为非法
		if _, err := time.LoadLocation(tz); err != nil {
			response.BadRequest(c, "Invalid timezone",
				"The provided timezone is not valid")
			c.Abort()
			return
		}

		c.Set(TimezoneKey, tz)
		c.Next()
	}
}
