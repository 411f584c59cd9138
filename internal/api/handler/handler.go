package handler

import "edu-radar/backend/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth    *AuthHandler
	Student *StudentHandler
	User    *UserHandler
	Export  *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:    NewAuthHandler(svc.Auth),
		Student: NewStudentHandler(svc.Student),
		User:    NewUserHandler(svc.User),
		Export:  NewExportHandler(svc.Export),
	}
}
