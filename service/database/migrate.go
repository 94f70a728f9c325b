/*
 * @module service/database/migrate
 * @description 数据库迁移模块，负责创建和更新数据库表结构
 * @architecture 数据访问层 - 迁移管理
 * @documentReference DESIGN.md
 * @stateFlow 应用启动时执行数据库迁移
 * @rules 确保数据库结构与模型定义保持一致
 * @dependencies inspection-review-service/service/models, gorm.io/gorm
 * @refs service/init.go, testutil/test_helper.go
 */

package database

import (
	"inspection-review-service/service/models"
	"log/slog"

	"gorm.io/gorm"
)

// AutoMigrate 自动迁移数据库表结构
func AutoMigrate(db *gorm.DB) error {
	slog.Info("开始数据库迁移...")

	err := db.AutoMigrate(
		&models.StoreWhitelist{},
		&models.ReviewDecision{},
		&models.ViewerReviewResult{},
		&models.ImportLog{},
	)
	if err != nil {
		return err
	}

	slog.Info("数据库迁移完成")
	return nil
}
