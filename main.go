package main

import (
	"context"
	"inspection-review-service/api"
	_ "inspection-review-service/docs"
	"inspection-review-service/logger"
	"inspection-review-service/service"
	"inspection-review-service/service/config"
	"log"
	"log/slog"
	"net/http"

	daprd "github.com/dapr/go-sdk/service/http"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

// @title 门店巡检审核服务 API
// @version 1.0
// @description 门店巡检审核与审核结果展示服务：白名单导入、检查项审核、结果导出与导入、筛选查询
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}
	logger.InitLogger(cfg.LogLevel)

	app, err := service.Init(context.Background(), cfg)
	if err != nil {
		log.Fatalf("服务初始化失败: %v", err)
	}
	defer app.Close()
	service.GlobalApp = app

	if err := app.Start(); err != nil {
		slog.Error("启动定时任务失败", "error", err)
	}

	mux := chi.NewRouter()

	// 如果有BASE_CONTEXT，则在该路径下挂载所有路由
	if cfg.BaseContext != "" {
		mux.Route(cfg.BaseContext, func(r chi.Router) {
			api.InitRoute(r, app)
			r.Handle("/metrics", promhttp.Handler())
			r.Handle("/swagger*", httpSwagger.WrapHandler)
		})
	} else {
		api.InitRoute(mux, app)
		mux.Handle("/metrics", promhttp.Handler())
		mux.Handle("/swagger*", httpSwagger.WrapHandler)
	}

	slog.Info("服务启动", "port", cfg.ListenPort, "base_context", cfg.BaseContext)
	s := daprd.NewServiceWithMux(":"+cfg.ListenPort, mux)
	if err := s.Start(); err != nil && err != http.ErrServerClosed {
		slog.Error("服务异常退出", "error", err)
	}
}
