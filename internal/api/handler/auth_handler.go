package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"edu-radar/backend/internal/dto"
	"edu-radar/backend/internal/service"
	"edu-radar/backend/pkg/response"
)

// AuthHandler 认证模块 HTTP 处理器
type AuthHandler struct {
	authSvc service.AuthService
}

// NewAuthHandler 创建 AuthHandler
func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Login 用户登录
// POST /api/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Username and password required")
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Unauthorized(c, "Invalid credentials")
			return
		}
		response.InternalError(c, "Error logging in")
		return
	}

	response.OK(c, result)
}

// StudentLogin 学生端登录（仅 student 角色）
// POST /api/student-login
func (h *AuthHandler) StudentLogin(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Username and password required")
		return
	}

	result, err := h.authSvc.StudentLogin(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Unauthorized(c, "Invalid credentials or not a student account.")
			return
		}
		response.InternalError(c, "Error logging in")
		return
	}

	response.OK(c, result)
}

// Register 用户注册
// POST /api/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "All fields required")
		return
	}

	if err := h.authSvc.Register(c.Request.Context(), &req); err != nil {
		if errors.Is(err, service.ErrUsernameTaken) {
			response.Conflict(c, "Username already exists.")
			return
		}
		response.InternalError(c, "Error registering user")
		return
	}

	response.Created(c, "User registered successfully!")
}
