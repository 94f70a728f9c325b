/*
 * @module service/review/store
 * @description 审核决定台账：按检查项ID upsert，周期开始时整体清空
 * @architecture 分层架构 - 数据访问层
 * @documentReference DESIGN.md
 * @stateFlow 提交/修改描述/自动判不合格 -> upsert -> 导出 / 进度统计
 * @rules 每个检查项至多一条记录；写入刷新审核时间；自动判不合格不覆盖已有决定
 * @dependencies gorm.io/gorm, service/database
 * @refs service/review/service, service/export
 */

package review

import (
	"context"
	"errors"
	"fmt"
	"inspection-review-service/service/database"
	"inspection-review-service/service/models"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store 审核决定台账
type Store struct {
	db  *gorm.DB
	now func() time.Time
}

// NewStore 创建审核决定台账
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// Upsert 新增或覆盖检查项的审核决定，审核时间刷新为当前时间
func (s *Store) Upsert(ctx context.Context, decision *models.ReviewDecision) error {
	decision.ReviewTime = s.now()
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "item_id"}},
			UpdateAll: true,
		}).
		Create(decision).Error
	if err != nil {
		return fmt.Errorf("保存审核决定失败: %w", err)
	}
	return nil
}

// Get 查询检查项的审核决定
func (s *Store) Get(ctx context.Context, itemID string) (*models.ReviewDecision, error) {
	var decision models.ReviewDecision
	err := s.db.WithContext(ctx).Where("item_id = ?", itemID).First(&decision).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("查询审核决定失败: %w", err)
	}
	return &decision, nil
}

// Has 检查项是否已有审核决定
func (s *Store) Has(ctx context.Context, itemID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.ReviewDecision{}).Where("item_id = ?", itemID).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("查询审核决定失败: %w", err)
	}
	return count > 0, nil
}

// ListAll 全部审核决定
func (s *Store) ListAll(ctx context.Context) ([]models.ReviewDecision, error) {
	var decisions []models.ReviewDecision
	if err := s.db.WithContext(ctx).Order("review_time ASC").Order("item_id ASC").Find(&decisions).Error; err != nil {
		return nil, fmt.Errorf("查询审核决定失败: %w", err)
	}
	return decisions, nil
}

// ByItemID 全部审核决定，按检查项ID索引
func (s *Store) ByItemID(ctx context.Context) (map[string]models.ReviewDecision, error) {
	decisions, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]models.ReviewDecision, len(decisions))
	for _, d := range decisions {
		out[d.ItemID] = d
	}
	return out, nil
}

// Count 审核决定数量
func (s *Store) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.ReviewDecision{}).Count(&count).Error
	return count, err
}

// Restart 在同一事务内清空审核决定并对新检查项自动判定不合格，任一步失败整体回滚
func (s *Store) Restart(ctx context.Context, items []models.ChecklistItem) (int64, int, error) {
	var (
		cleared int64
		written int
	)
	err := database.WithTransaction(s.db.WithContext(ctx), func(tx *gorm.DB) error {
		var err error
		if cleared, err = clearAll(tx); err != nil {
			return fmt.Errorf("清空审核决定失败: %w", err)
		}
		if written, err = s.autoFail(tx, items); err != nil {
			return fmt.Errorf("自动判定不合格失败: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return cleared, written, nil
}

func clearAll(tx *gorm.DB) (int64, error) {
	result := tx.Where("1 = 1").Delete(&models.ReviewDecision{})
	return result.RowsAffected, result.Error
}

// UpdateNote 修改已有审核决定的问题描述
func (s *Store) UpdateNote(ctx context.Context, itemID, note string) (*models.ReviewDecision, error) {
	result := s.db.WithContext(ctx).
		Model(&models.ReviewDecision{}).
		Where("item_id = ?", itemID).
		Updates(map[string]interface{}{
			"problem_note": note,
			"review_time":  s.now(),
		})
	if result.Error != nil {
		return nil, fmt.Errorf("修改问题描述失败: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, models.ErrNotFound
	}
	return s.Get(ctx, itemID)
}

// AutoFailMissing 对没有现场结果且尚无决定的检查项写入不合格，返回新写入的数量
func (s *Store) AutoFailMissing(ctx context.Context, items []models.ChecklistItem) (int, error) {
	written := 0
	err := database.WithTransaction(s.db.WithContext(ctx), func(tx *gorm.DB) error {
		var err error
		written, err = s.autoFail(tx, items)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("自动判定不合格失败: %w", err)
	}
	return written, nil
}

func (s *Store) autoFail(tx *gorm.DB, items []models.ChecklistItem) (int, error) {
	now := s.now()
	written := 0
	for _, item := range items {
		if item.HasFieldResult {
			continue
		}
		decision := NewDecision(item, models.ReviewFail, models.NoFieldResultNote)
		decision.ReviewTime = now
		result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(decision)
		if result.Error != nil {
			return 0, result.Error
		}
		written += int(result.RowsAffected)
	}
	return written, nil
}

// NewDecision 由检查项构建审核决定
func NewDecision(item models.ChecklistItem, result models.ReviewResult, note string) *models.ReviewDecision {
	return &models.ReviewDecision{
		ItemID:       item.ID,
		StoreName:    item.StoreName,
		StoreID:      item.StoreID,
		Area:         item.Area,
		ItemName:     item.ItemName,
		ImageURL:     item.EvidenceImageURL,
		ReviewResult: result,
		ProblemNote:  note,
	}
}
