package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ImportKind 导入类型
type ImportKind string

const (
	ImportKindWhitelist  ImportKind = "whitelist"
	ImportKindReviews    ImportKind = "reviews"
	ImportKindInspection ImportKind = "inspection"
)

// ImportLog 导入历史记录
type ImportLog struct {
	ID                   string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Kind                 ImportKind `json:"kind" gorm:"not null;size:20;index"`
	FileName             string     `json:"file_name" gorm:"size:255"`
	Success              bool       `json:"success"`
	RecordsCount         int        `json:"records_count"`
	UnmatchedStoresCount int        `json:"unmatched_stores_count"`
	SkippedRowsCount     int        `json:"skipped_rows_count"`
	ErrorType            ErrorType  `json:"error_type" gorm:"size:20"`
	ErrorMessage         string     `json:"error_message" gorm:"type:text"`
	DurationMs           int64      `json:"duration_ms"`
	CreatedAt            time.Time  `json:"created_at" gorm:"index"`
}

// TableName 指定表名
func (ImportLog) TableName() string {
	return "import_logs"
}

// BeforeCreate GORM钩子，创建前生成批次ID
func (l *ImportLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	return nil
}

// NewImportLog 由导入结果生成历史记录
func NewImportLog(kind ImportKind, fileName string, result ImportResult, duration time.Duration) *ImportLog {
	return &ImportLog{
		Kind:                 kind,
		FileName:             fileName,
		Success:              result.Success,
		RecordsCount:         result.RecordsCount,
		UnmatchedStoresCount: result.UnmatchedStoresCount,
		SkippedRowsCount:     result.SkippedRowsCount,
		ErrorType:            result.ErrorType,
		ErrorMessage:         result.ErrorMessage,
		DurationMs:           duration.Milliseconds(),
	}
}
