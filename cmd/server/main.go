package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"edu-radar/backend/config"
	"edu-radar/backend/internal/api/handler"
	"edu-radar/backend/internal/api/router"
	"edu-radar/backend/internal/repository"
	"edu-radar/backend/internal/service"
	"edu-radar/backend/pkg/database"
	"edu-radar/backend/pkg/jwt"
	applogger "edu-radar/backend/pkg/logger"
)

func main() {
	// 1. 加载配置
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. 连接数据库
	db, err := database.NewDB(&cfg.DB, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}

	// 3.1 执行数据库迁移
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("数据库迁移失败", zap.Error(err))
	}

	// 4. 初始化 JWT 管理器与 Repository
	jwtMgr := jwt.NewManager(&cfg.Auth)
	repo := repository.NewRepository(db)

	// 5. 加载或训练风险模型（在服务接流量之前完成，此后只读）
	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 60*time.Second)
	scorer, err := service.LoadOrTrainScorer(startupCtx, &cfg.Model, repo, logger)
	cancelStartup()
	if err != nil {
		logger.Fatal("风险模型初始化失败", zap.Error(err))
	}

	// 6. 依赖注入: Repository → Service → Handler
	svc := service.NewService(repo, jwtMgr, scorer, logger)
	h := handler.NewHandler(svc)

	// 6.1 保证默认 admin 账号存在
	seedCtx, cancelSeed := context.WithTimeout(context.Background(), 10*time.Second)
	if err := svc.User.EnsureDefaultAdmin(seedCtx); err != nil {
		logger.Fatal("初始化默认管理员失败", zap.Error(err))
	}
	cancelSeed()

	// 7. 初始化路由
	engine := router.Setup(cfg, h, jwtMgr, logger)

	// 8. 启动 HTTP 服务器（优雅关闭）
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 9. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	// 关闭数据库连接
	closeDB, _ := db.DB()
	if closeDB != nil {
		closeDB.Close()
	}

	logger.Info("服务器已关闭")
}
