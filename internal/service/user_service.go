package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"edu-radar/backend/internal/dto"
	"edu-radar/backend/internal/model"
	"edu-radar/backend/internal/repository"
)

var (
	ErrUserNotFound = errors.New("用户不存在")
	// ErrInvalidRole 角色修改仅允许 admin / student
	ErrInvalidRole = errors.New("Invalid role. Only admin or student allowed.")
)

// UserService 用户管理业务接口
type UserService interface {
	List(ctx context.Context) ([]dto.UserResponse, error)
	Delete(ctx context.Context, username string) error
	UpdateRole(ctx context.Context, req *dto.UpdateUserRoleRequest) error
	// EnsureDefaultAdmin 保证默认 admin 账号存在（幂等，启动时调用）
	EnsureDefaultAdmin(ctx context.Context) error
}

type userService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewUserService 创建 UserService 实例
func NewUserService(repo *repository.Repository, logger *zap.Logger) UserService {
	return &userService{repo: repo, logger: logger}
}

func (s *userService) List(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := s.repo.User.List(ctx)
	if err != nil {
		s.logger.Error("查询用户列表失败", zap.Error(err))
		return nil, err
	}

	out := make([]dto.UserResponse, len(users))
	for i, u := range users {
		out[i] = dto.UserResponse{Username: u.Username, Role: u.Role}
	}
	return out, nil
}

func (s *userService) Delete(ctx context.Context, username string) error {
	if err := s.repo.User.Delete(ctx, username); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		s.logger.Error("删除用户失败", zap.Error(err))
		return err
	}
	s.logger.Info("用户已删除", zap.String("username", username))
	return nil
}

func (s *userService) UpdateRole(ctx context.Context, req *dto.UpdateUserRoleRequest) error {
	if req.Role != model.RoleAdmin && req.Role != model.RoleStudent {
		return ErrInvalidRole
	}

	if err := s.repo.User.UpdateRole(ctx, req.Username, req.Role); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		s.logger.Error("更新用户角色失败", zap.Error(err))
		return err
	}
	s.logger.Info("用户角色已更新",
		zap.String("username", req.Username),
		zap.String("role", req.Role),
	)
	return nil
}

func (s *userService) EnsureDefaultAdmin(ctx context.Context) error {
	if _, err := s.repo.User.GetByUsername(ctx, "admin"); err == nil {
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if err := s.repo.User.Create(ctx, &model.User{
		Username:     "admin",
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
	}); err != nil {
		return err
	}

	s.logger.Info("已创建默认 admin 账号，请尽快修改密码")
	return nil
}
