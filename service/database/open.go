package database

import (
	"fmt"
	"inspection-review-service/service/config"
	"log/slog"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open 按配置的驱动打开数据库连接
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	switch cfg.Driver {
	case "sqlite":
		db, err := gorm.Open(sqlite.Open(cfg.SQLitePath), gormConfig)
		if err != nil {
			return nil, fmt.Errorf("数据库连接失败: %w", err)
		}
		// sqlite 只允许单个写连接
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.SetMaxOpenConns(1)
		}
		slog.Info("数据库连接成功", "driver", cfg.Driver, "path", cfg.SQLitePath)
		return db, nil
	default:
		db, err := gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
		if err != nil {
			return nil, fmt.Errorf("数据库连接失败: %w", err)
		}
		slog.Info("数据库连接成功", "driver", cfg.Driver)
		return db, nil
	}
}

// Ping 检查数据库连通性
func Ping(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
