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
	"edu-radar/backend/pkg/jwt"
)

var (
	// ErrInvalidCredentials 登录失败统一错误
	// 「用户不存在」与「密码错误」刻意不可区分，避免用户名枚举
	ErrInvalidCredentials = errors.New("Invalid credentials")
	ErrUsernameTaken      = errors.New("Username already exists.")
)

// AuthService 认证业务接口
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	// StudentLogin 仅放行 student 角色；角色不符与凭证错误同样不可区分
	StudentLogin(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	Register(ctx context.Context, req *dto.RegisterRequest) error
}

type authService struct {
	repo   *repository.Repository
	jwtMgr *jwt.Manager
	logger *zap.Logger
}

// NewAuthService 创建 AuthService 实例
func NewAuthService(repo *repository.Repository, jwtMgr *jwt.Manager, logger *zap.Logger) AuthService {
	return &authService{repo: repo, jwtMgr: jwtMgr, logger: logger}
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	return s.login(ctx, req, "")
}

func (s *authService) StudentLogin(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	return s.login(ctx, req, model.RoleStudent)
}

// login 通用登录流程；requireRole 非空时额外校验角色
func (s *authService) login(ctx context.Context, req *dto.LoginRequest, requireRole string) (*dto.LoginResponse, error) {
	// 1. 查询用户
	user, err := s.repo.User.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	// 2. 角色限制（student-login 专用）
	if requireRole != "" && user.Role != requireRole {
		return nil, ErrInvalidCredentials
	}

	// 3. 验证密码 (bcrypt)
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	// 4. 签发 Token
	token, err := s.jwtMgr.GenerateToken(user.Username, user.Role)
	if err != nil {
		s.logger.Error("签发 Token 失败", zap.Error(err))
		return nil, err
	}

	return &dto.LoginResponse{
		Message:  "Login successful",
		Role:     user.Role,
		Username: user.Username,
		Token:    token,
	}, nil
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) error {
	// 先查重，给出明确的 409；并发窗口由 username 主键约束兜底
	if _, err := s.repo.User.GetByUsername(ctx, req.Username); err == nil {
		return ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询用户失败", zap.Error(err))
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if err := s.repo.User.Create(ctx, &model.User{
		Username:     req.Username,
		PasswordHash: string(hash),
		Role:         req.Role,
	}); err != nil {
		s.logger.Error("创建用户失败", zap.Error(err))
		return err
	}

	s.logger.Info("用户注册成功", zap.String("username", req.Username), zap.String("role", req.Role))
	return nil
}
