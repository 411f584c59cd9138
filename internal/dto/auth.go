package dto

// ── 认证模块 DTO ──

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"     binding:"required,oneof=admin counselor student"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	Message  string `json:"message"`
	Role     string `json:"role"`
	Username string `json:"username"`
	Token    string `json:"token"`
}
