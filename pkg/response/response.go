package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Message 错误与提示响应体（与仪表盘前端约定一致：{"message": ...}）
type Message struct {
	Message string `json:"message"`
}

// ── 成功响应 ──

// OK 200 成功响应，直接返回业务数据
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created 201 创建成功
func Created(c *gin.Context, message string) {
	c.JSON(http.StatusCreated, Message{Message: message})
}

// OKMessage 200 仅携带提示消息
func OKMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, Message{Message: message})
}

// ── 错误响应 ──

// Error 通用错误响应
func Error(c *gin.Context, httpStatus int, message string) {
	c.JSON(httpStatus, Message{Message: message})
}

// ── 常见快捷方式 ──

// BadRequest 400
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// Unauthorized 401
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, message)
}

// Forbidden 403
func Forbidden(c *gin.Context, message string) {
	Error(c, http.StatusForbidden, message)
}

// NotFound 404
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

// Conflict 409
func Conflict(c *gin.Context, message string) {
	Error(c, http.StatusConflict, message)
}

// InternalError 500
func InternalError(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, message)
}
