/*
 * @module service/importlog/recorder
 * @description 导入历史：记录每次导入的结果，更新指标并广播导入事件
 * @architecture 分层架构 - 业务服务层
 * @documentReference DESIGN.md
 * @stateFlow 导入结束 -> 写入导入记录（替换事务之外） -> 指标 -> 成功时发布事件
 * @rules 记录失败或通知失败只写日志，不改变导入结果
 * @dependencies gorm.io/gorm, service/notify, service/metrics
 * @refs service/whitelist, service/viewer, service/review, service/scheduler
 */

package importlog

import (
	"context"
	"fmt"
	"inspection-review-service/service/metrics"
	"inspection-review-service/service/models"
	"inspection-review-service/service/notify"
	"log/slog"
	"time"

	"gorm.io/gorm"
)

// Recorder 导入历史记录器
type Recorder struct {
	db        *gorm.DB
	publisher notify.Publisher
}

// NewRecorder 创建导入历史记录器，publisher 为 nil 时不发送通知
func NewRecorder(db *gorm.DB, publisher notify.Publisher) *Recorder {
	if publisher == nil {
		publisher = notify.NopPublisher{}
	}
	return &Recorder{db: db, publisher: publisher}
}

// Record 记录一次导入
func (r *Recorder) Record(ctx context.Context, kind models.ImportKind, fileName string, result models.ImportResult, duration time.Duration) *models.ImportLog {
	entry := models.NewImportLog(kind, fileName, result, duration)

	outcome := "success"
	if !result.Success {
		outcome = "failure"
	}
	metrics.ImportsTotal.WithLabelValues(string(kind), outcome).Inc()
	metrics.ImportDuration.WithLabelValues(string(kind)).Observe(duration.Seconds())
	if result.Success {
		metrics.ImportedRecords.WithLabelValues(string(kind)).Set(float64(result.RecordsCount))
		if kind == models.ImportKindReviews {
			metrics.UnmatchedStores.Set(float64(result.UnmatchedStoresCount))
		}
	}

	if r == nil || r.db == nil {
		return entry
	}

	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		slog.Error("写入导入记录失败", "kind", kind, "file", fileName, "error", err)
		return entry
	}

	if result.Success {
		if err := r.publisher.Publish(ctx, notify.EventFromLog(entry)); err != nil {
			slog.Warn("发送导入事件失败", "kind", kind, "batch_id", entry.ID, "error", err)
		}
	}
	return entry
}

// Recent 最近的导入记录
func (r *Recorder) Recent(ctx context.Context, kind models.ImportKind, limit int) ([]models.ImportLog, error) {
	if limit <= 0 || limit > 200 {
		limit = 20
	}
	var logs []models.ImportLog
	query := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit)
	if kind != "" {
		query = query.Where("kind = ?", kind)
	}
	if err := query.Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("查询导入记录失败: %w", err)
	}
	return logs, nil
}

// Cleanup 删除早于保留天数的导入记录
func (r *Recorder) Cleanup(ctx context.Context, retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		return 0, nil
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	result := r.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&models.ImportLog{})
	if result.Error != nil {
		return 0, fmt.Errorf("清理导入记录失败: %w", result.Error)
	}
	return result.RowsAffected, nil
}
