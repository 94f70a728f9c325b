package database

import (
	"fmt"
	"log/slog"

	"gorm.io/gorm"
)

// WithTransaction 在事务中执行操作，出错或panic时回滚
func WithTransaction(db *gorm.DB, operation func(tx *gorm.DB) error) error {
	tx := db.Begin()
	if tx.Error != nil {
		return fmt.Errorf("开始事务失败: %w", tx.Error)
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			slog.Error("事务执行时发生panic，已回滚", "panic", r)
			panic(r)
		}
	}()

	if err := operation(tx); err != nil {
		if rollbackErr := tx.Rollback().Error; rollbackErr != nil {
			slog.Error("事务回滚失败", "error", rollbackErr)
			return fmt.Errorf("操作失败且回滚失败: 操作错误=%w, 回滚错误=%v", err, rollbackErr)
		}
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("提交事务失败: %w", err)
	}
	return nil
}

// ReplaceTable 整表替换：删除全部记录后分批插入，全部在同一事务内完成
func ReplaceTable[T any](db *gorm.DB, rows []T, batchSize int) error {
	return WithTransaction(db, func(tx *gorm.DB) error {
		var zero T
		if err := tx.Where("1 = 1").Delete(&zero).Error; err != nil {
			return fmt.Errorf("清空数据失败: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(rows, batchSize).Error; err != nil {
			return fmt.Errorf("写入数据失败: %w", err)
		}
		return nil
	})
}
