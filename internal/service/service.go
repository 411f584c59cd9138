package service

import (
	"go.uber.org/zap"

	"edu-radar/backend/internal/repository"
	"edu-radar/backend/pkg/jwt"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth    AuthService
	Student StudentService
	User    UserService
	Export  ExportService
}

// NewService 创建 Service 聚合
// scorer 在启动阶段训练或加载完成后注入，此后只读
func NewService(
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	scorer RiskScorer,
	logger *zap.Logger,
) *Service {
	students := NewStudentService(repo, scorer, logger)
	return &Service{
		Auth:    NewAuthService(repo, jwtMgr, logger),
		Student: students,
		User:    NewUserService(repo, logger),
		Export:  NewExportService(students, logger),
	}
}
