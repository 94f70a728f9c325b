/*
 * @module service/scheduler/scheduler
 * @description 定时任务：按配置定时从文件重新导入白名单，定期清理过期导入记录
 * @architecture 基于 robfig/cron 的调度器
 * @documentReference DESIGN.md
 * @stateFlow Start -> 注册任务 -> cron 触发 -> 执行 -> 记录日志；Stop -> 取消上下文 -> 等待运行中的任务
 * @rules 未配置白名单文件或表达式时不注册重新导入任务；任务失败只记录日志
 * @dependencies github.com/robfig/cron/v3, service/config
 * @refs service/whitelist, service/importlog
 */

package scheduler

import (
	"context"
	"errors"
	"fmt"
	"inspection-review-service/service/config"
	"inspection-review-service/service/models"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"
)

// WhitelistReloader 从文件重新导入白名单
type WhitelistReloader interface {
	ImportFile(ctx context.Context, path string) models.ImportResult
}

// LogCleaner 清理过期导入记录
type LogCleaner interface {
	Cleanup(ctx context.Context, retentionDays int) (int64, error)
}

// Scheduler 定时任务调度器
type Scheduler struct {
	cfg       config.ScheduleConfig
	whitelist WhitelistReloader
	cleaner   LogCleaner
	cron      *cron.Cron
	ctx       context.Context
	cancel    context.CancelFunc

	mu      sync.Mutex
	started bool
}

// New 创建调度器
func New(cfg config.ScheduleConfig, whitelist WhitelistReloader, cleaner LogCleaner) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cfg:       cfg,
		whitelist: whitelist,
		cleaner:   cleaner,
		// Cron表达式：秒 分 时 日 月 周
		cron:   cron.New(cron.WithSeconds()),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start 注册并启动定时任务
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return errors.New("调度器已经启动")
	}

	if s.cfg.WhitelistFile != "" && s.cfg.WhitelistReloadCron != "" && s.whitelist != nil {
		if _, err := s.cron.AddFunc(s.cfg.WhitelistReloadCron, s.ReloadWhitelist); err != nil {
			return fmt.Errorf("添加白名单重新导入任务失败: %w", err)
		}
		slog.Info("已注册白名单重新导入任务", "cron", s.cfg.WhitelistReloadCron, "file", s.cfg.WhitelistFile)
	}

	if s.cfg.ImportLogCleanupCron != "" && s.cleaner != nil {
		if _, err := s.cron.AddFunc(s.cfg.ImportLogCleanupCron, s.CleanupImportLogs); err != nil {
			return fmt.Errorf("添加导入记录清理任务失败: %w", err)
		}
		slog.Info("已注册导入记录清理任务", "cron", s.cfg.ImportLogCleanupCron, "retention_days", s.cfg.ImportLogRetentionDays)
	}

	s.cron.Start()
	s.started = true
	slog.Info("定时任务调度器启动成功", "jobs", len(s.cron.Entries()))
	return nil
}

// Stop 停止调度器并等待运行中的任务结束
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return
	}
	s.cancel()
	<-s.cron.Stop().Done()
	s.started = false
	slog.Info("定时任务调度器已停止")
}

// Entries 已注册的任务数量
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}

// ReloadWhitelist 从配置的文件重新导入白名单
func (s *Scheduler) ReloadWhitelist() {
	slog.Info("开始定时重新导入白名单", "file", s.cfg.WhitelistFile)
	result := s.whitelist.ImportFile(s.ctx, s.cfg.WhitelistFile)
	if !result.Success {
		slog.Error("定时重新导入白名单失败", "error_type", result.ErrorType, "error", result.ErrorMessage)
		return
	}
	slog.Info("定时重新导入白名单完成", "records", result.RecordsCount, "skipped", result.SkippedRowsCount)
}

// CleanupImportLogs 清理过期导入记录
func (s *Scheduler) CleanupImportLogs() {
	deleted, err := s.cleaner.Cleanup(s.ctx, s.cfg.ImportLogRetentionDays)
	if err != nil {
		slog.Error("清理导入记录失败", "error", err)
		return
	}
	slog.Info("清理导入记录完成", "deleted_count", deleted, "retention_days", s.cfg.ImportLogRetentionDays)
}
