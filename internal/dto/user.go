package dto

// ── 用户模块 DTO ──

// UserResponse 用户列表条目（不含密码散列）
type UserResponse struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

// UpdateUserRoleRequest 修改用户角色请求
// 仅允许 admin / student（与前端用户管理页的约定一致）
type UpdateUserRoleRequest struct {
	Username string `json:"username" binding:"required"`
	Role     string `json:"role"     binding:"required"`
}
