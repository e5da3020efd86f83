package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"valuation-service/api"
	_ "valuation-service/docs"
	"valuation-service/logger"
	"valuation-service/service"
	"valuation-service/service/config"

	daprd "github.com/dapr/go-sdk/service/http"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

// @title 开放数据估值服务 API
// @version 1.0
// @description 开放数据集估值服务，提供数据集质量评估、六维价值评分、加权聚合与估值结果持久化
// @BasePath /swagger/valuation-service
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}
	logger.InitLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	container, err := service.Init(ctx, cfg)
	if err != nil {
		log.Fatalf("服务初始化失败: %v", err)
	}
	defer container.Close()

	mux := chi.NewRouter()

	// 如果有BASE_CONTEXT，则在该路径下挂载所有路由
	if cfg.Server.BaseContext != "" {
		mux.Route(cfg.Server.BaseContext, func(r chi.Router) {
			subMux := r.(*chi.Mux)
			api.InitRoute(subMux, container)
			r.Handle("/metrics", promhttp.Handler())
			r.Handle("/swagger*", httpSwagger.WrapHandler)
		})
	} else {
		api.InitRoute(mux, container)
		mux.Handle("/metrics", promhttp.Handler())
		mux.Handle("/swagger*", httpSwagger.WrapHandler)
	}

	s := daprd.NewServiceWithMux(":"+strconv.Itoa(cfg.Server.Port), mux)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("估值服务启动", "port", cfg.Server.Port, "base_context", cfg.Server.BaseContext)
		errCh <- s.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			slog.Error("服务异常退出", "error", err)
		}
	case <-ctx.Done():
		slog.Info("收到退出信号，开始关闭服务")
		if err := s.GracefulStop(); err != nil {
			slog.Error("服务关闭失败", "error", err)
		}
	}
}
