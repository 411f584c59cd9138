package handler

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	"edu-radar/backend/internal/dto"
	"edu-radar/backend/internal/service"
	"edu-radar/backend/pkg/response"
)

// UserHandler 用户管理 HTTP 处理器
type UserHandler struct {
	userSvc service.UserService
}

// NewUserHandler 创建 UserHandler
func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// List 用户列表（用户名 + 角色）
// GET /api/users
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.userSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c, "Error fetching users")
		return
	}

	response.OK(c, users)
}

// Delete 删除用户
// DELETE /api/user/delete/:username
func (h *UserHandler) Delete(c *gin.Context) {
	username := c.Param("username")

	if err := h.userSvc.Delete(c.Request.Context(), username); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, fmt.Sprintf("User %s not found.", username))
			return
		}
		response.InternalError(c, "Error deleting user")
		return
	}

	response.OKMessage(c, fmt.Sprintf("User %s deleted successfully.", username))
}

// UpdateRole 修改用户角色（仅允许 admin / student）
// POST /api/user/update
func (h *UserHandler) UpdateRole(c *gin.Context) {
	var req dto.UpdateUserRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Username and role are required.")
		return
	}

	if err := h.userSvc.UpdateRole(c.Request.Context(), &req); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRole):
			response.BadRequest(c, "Invalid role. Only admin or student allowed.")
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(c, fmt.Sprintf("User %s not found.", req.Username))
		default:
			response.InternalError(c, "Error updating user")
		}
		return
	}

	response.OKMessage(c, fmt.Sprintf("User %s role updated to %s.", req.Username, req.Role))
}
