package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"edu-radar/backend/config"
	"edu-radar/backend/internal/api/handler"
	"edu-radar/backend/internal/api/middleware"
	"edu-radar/backend/internal/model"
	"edu-radar/backend/pkg/jwt"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(8 << 20)) // 8MB，需容纳 CSV 上传

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API ──
	api := r.Group("/api")
	{
		// 认证模块（无需认证）
		api.POST("/login", h.Auth.Login)
		api.POST("/student-login", h.Auth.StudentLogin)
		api.POST("/register", h.Auth.Register)

		// 仪表盘读取面（与前端既有契约一致，保持开放）
		api.GET("/students", h.Student.List)
		api.GET("/student/me", h.Student.Me)
		api.GET("/student/trends/:id", h.Student.Trends)
		api.GET("/student/:id", h.Student.Get)
		api.GET("/subjects/scores", h.Student.SubjectScores)
		api.POST("/upload", h.Student.Upload)

		// 管理面（需要 admin 角色）
		admin := api.Group("")
		admin.Use(middleware.JWTAuth(jwtMgr), middleware.RoleAuth(model.RoleAdmin))
		{
			admin.POST("/student/update", h.Student.Update)
			admin.DELETE("/student/delete/:id", h.Student.Delete)

			admin.GET("/users", h.User.List)
			admin.DELETE("/user/delete/:username", h.User.Delete)
			admin.POST("/user/update", h.User.UpdateRole)

			admin.GET("/export/students", h.Export.ExportStudents)
		}
	}

	return r
}
