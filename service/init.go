/*
 * @module service/init
 * @description 服务初始化模块，负责数据库连接、迁移以及各业务服务的装配
 * @architecture 分层架构 - 服务层
 * @documentReference DESIGN.md
 * @stateFlow 加载配置 -> 连接数据库 -> 迁移 -> 创建通知/锁/归档 -> 装配服务 -> 启动调度器
 * @rules 外部组件（Redis、Kafka、MQTT、S3）均为可选，未配置时退化为本地实现
 * @dependencies gorm.io/gorm, service/config, service/database
 * @refs main.go, api/routes.go, cmd/inspectctl
 */

package service

import (
	"context"
	"fmt"
	"inspection-review-service/service/config"
	"inspection-review-service/service/database"
	"inspection-review-service/service/distributed_lock"
	"inspection-review-service/service/export"
	"inspection-review-service/service/importlog"
	"inspection-review-service/service/inspection"
	"inspection-review-service/service/notify"
	"inspection-review-service/service/rate_limiter"
	"inspection-review-service/service/review"
	"inspection-review-service/service/scheduler"
	"inspection-review-service/service/viewer"
	"inspection-review-service/service/whitelist"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gorm.io/gorm"
)

// GlobalApp 进程内唯一的服务集合，由 main 初始化
var GlobalApp *App

// Dependencies 可选的外部依赖
type Dependencies struct {
	Publisher notify.Publisher
	Lock      distributed_lock.DistributedLock
	Archiver  export.Archiver
	Limiter   rate_limiter.Limiter

	closers []io.Closer
}

// App 服务集合
type App struct {
	Config *config.Config
	DB     *gorm.DB

	Roster            *whitelist.Repository
	WhitelistImporter *whitelist.Importer
	ReviewImporter    *viewer.Importer
	Viewer            *viewer.QueryService
	Items             *inspection.ItemCache
	Reviews           *review.Service
	Exporter          *export.Service
	ImportLogs        *importlog.Recorder
	Scheduler         *scheduler.Scheduler
	UploadLimiter     rate_limiter.Limiter

	deps Dependencies
}

// Init 按配置初始化全部服务
func Init(ctx context.Context, cfg *config.Config) (*App, error) {
	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, err
	}
	slog.Info("数据库连接成功", "driver", cfg.Database.Driver)

	if err := database.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	publisher, err := notify.New(cfg.Notify)
	if err != nil {
		return nil, err
	}

	deps := Dependencies{Publisher: publisher}

	if cfg.Redis.Enabled() {
		client, err := distributed_lock.NewRedisClient(cfg.Redis)
		if err != nil {
			return nil, err
		}
		deps.Lock = distributed_lock.NewRedisLock(client)
		if cfg.UploadLimit > 0 {
			deps.Limiter = rate_limiter.NewRedisLimiter(client, cfg.UploadLimit, time.Minute)
		}
		deps.closers = append(deps.closers, client)
		slog.Info("导入锁与上传限流使用Redis", "host", cfg.Redis.Host)
	}

	if cfg.Archive.Enabled() {
		archiver, err := export.NewS3Archiver(ctx, cfg.Archive)
		if err != nil {
			return nil, err
		}
		deps.Archiver = archiver
		slog.Info("导出文件将归档到S3", "bucket", cfg.Archive.Bucket, "prefix", cfg.Archive.Prefix)
	}

	app := NewApp(db, cfg, deps)
	app.loadInitialItems(ctx)
	slog.Info("服务初始化完成")
	return app, nil
}

// NewApp 使用已打开的数据库装配服务
func NewApp(db *gorm.DB, cfg *config.Config, deps Dependencies) *App {
	if deps.Publisher == nil {
		deps.Publisher = notify.NopPublisher{}
	}
	if deps.Limiter == nil && cfg.UploadLimit > 0 {
		deps.Limiter = rate_limiter.NewLocalLimiter(cfg.UploadLimit, time.Minute)
	}

	locker := distributed_lock.NewLockExecutor(deps.Lock)
	recorder := importlog.NewRecorder(db, deps.Publisher)
	roster := whitelist.NewRepository(db)
	items := inspection.NewItemCache(roster)
	store := review.NewStore(db)
	whitelistImporter := whitelist.NewImporter(db, locker, recorder)

	return &App{
		Config:            cfg,
		DB:                db,
		Roster:            roster,
		WhitelistImporter: whitelistImporter,
		ReviewImporter:    viewer.NewImporter(db, roster, locker, recorder),
		Viewer:            viewer.NewQueryService(db),
		Items:             items,
		Reviews:           review.NewService(store, items, recorder),
		Exporter:          export.NewService(store, items, roster, deps.Archiver),
		ImportLogs:        recorder,
		Scheduler:         scheduler.New(cfg.Schedule, whitelistImporter, recorder),
		UploadLimiter:     deps.Limiter,
		deps:              deps,
	}
}

// loadInitialItems 启动时加载配置的检查项文件，不清空已有审核决定
func (a *App) loadInitialItems(ctx context.Context) {
	path := a.Config.InspectionFile
	if path == "" {
		return
	}
	f, err := os.Open(path)
	if err != nil {
		slog.Warn("打开检查项文件失败", "file", path, "error", err)
		return
	}
	defer f.Close()

	if _, err := a.Items.Reload(ctx, f, filepath.Base(path)); err != nil {
		slog.Warn("启动时加载检查项失败", "file", path, "error", err)
		return
	}
	if _, err := a.Reviews.AutoFail(ctx); err != nil {
		slog.Warn("启动时自动判定不合格失败", "error", err)
	}
}

// Start 启动后台任务
func (a *App) Start() error {
	return a.Scheduler.Start()
}

// Close 释放资源
func (a *App) Close() {
	a.Scheduler.Stop()
	if err := a.deps.Publisher.Close(); err != nil {
		slog.Warn("关闭事件发布器失败", "error", err)
	}
	for _, closer := range a.deps.closers {
		if err := closer.Close(); err != nil {
			slog.Warn("关闭外部连接失败", "error", err)
		}
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		sqlDB.Close()
	}
}

// Ready 检查数据库是否可用
func (a *App) Ready() error {
	return database.Ping(a.DB)
}
