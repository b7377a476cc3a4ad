package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorBody 统一错误响应结构（与前端 API 约定一致）
// error 为稳定的错误标识，message 为面向用户的提示文案
type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// ── 成功响应 ──

// OK 200 成功响应，直接输出 data 本身（列表端点返回裸数组）
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created 201 创建成功
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// ── 错误响应 ──

// Error 通用错误响应
func Error(c *gin.Context, httpStatus int, errKey, message string) {
	c.JSON(httpStatus, ErrorBody{
		Error:   errKey,
		Message: message,
	})
}

// ── 常见快捷方式 ──

// BadRequest 400
func BadRequest(c *gin.Context, errKey, message string) {
	Error(c, http.StatusBadRequest, errKey, message)
}

// UnprocessableEntity 422
func UnprocessableEntity(c *gin.Context, errKey, message string) {
	Error(c, http.StatusUnprocessableEntity, errKey, message)
}

// InternalError 500
func InternalError(c *gin.Context, errKey, message string) {
	Error(c, http.StatusInternalServerError, errKey, message)
}
