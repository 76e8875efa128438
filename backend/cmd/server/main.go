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

	"github.com/Robproces360/Interfilling-performance/backend/config"
	"github.com/Robproces360/Interfilling-performance/backend/internal/api/handler"
	"github.com/Robproces360/Interfilling-performance/backend/internal/api/router"
	"github.com/Robproces360/Interfilling-performance/backend/internal/repository"
	"github.com/Robproces360/Interfilling-performance/backend/internal/service"
	applogger "github.com/Robproces360/Interfilling-performance/backend/pkg/logger"
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
		zap.String("downtime_path", cfg.Data.DowntimePath),
		zap.String("order_path", cfg.Data.OrderPath),
	)

	// 3. 初始化数据源并预加载
	repo := repository.NewRepository(&cfg.Data, logger)

	loadCtx, cancelLoad := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelLoad()

	// 停机数据是主数据源：文件缺失或模式不符属于致命错误
	events, dReport, err := repo.Downtime.Load(loadCtx)
	if err != nil {
		logger.Fatal("停机数据加载失败", zap.Error(err))
	}
	logger.Info("停机数据加载成功",
		zap.Int("events", len(events)),
		zap.Int("dropped_rows", dReport.DroppedRows),
	)

	// 订单数据是次数据源：失败时仅禁用目标工时视图，不中断启动
	if orders, oReport, err := repo.Order.Load(loadCtx); err != nil {
		logger.Warn("订单数据加载失败，目标工时视图将不可用", zap.Error(err))
	} else {
		logger.Info("订单数据加载成功",
			zap.Int("orders", len(orders)),
			zap.Int("dropped_rows", oReport.DroppedRows),
		)
	}

	// 4. 依赖注入: Repository → Service → Handler
	svc := service.NewService(cfg, repo, logger)
	h := handler.NewHandler(svc)

	// 5. 初始化路由
	engine := router.Setup(cfg, h, logger)

	// 6. 启动 HTTP 服务器（优雅关闭）
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

	// 7. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	logger.Info("服务器已关闭")
}
