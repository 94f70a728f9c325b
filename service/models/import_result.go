/*
 * @module service/models/import_result
 * @description 导入结果与错误分类，所有导入操作统一返回 ImportResult
 * @architecture 数据模型层
 * @documentReference DESIGN.md
 * @stateFlow 解析 -> 校验 -> 写入 -> 结果汇总
 * @rules 导入不抛出异常，失败通过 Success=false 和 ErrorType 表达
 * @dependencies errors
 * @refs service/whitelist, service/viewer, service/review
 */

package models

import (
	"errors"
	"fmt"
)

// ErrorType 错误类型
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation" // 文件格式或请求参数错误
	ErrorTypeStorage    ErrorType = "storage"    // 数据库读写失败
	ErrorTypeNotFound   ErrorType = "not_found"  // 记录不存在
	ErrorTypeParse      ErrorType = "parse"      // 文件无法解析
)

// OperatorUnassigned 未找到负责运营时的占位值
const OperatorUnassigned = "未分配"

// ErrNotFound 记录不存在
var ErrNotFound = errors.New("记录不存在")

// ImportError 带分类的导入错误
type ImportError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *ImportError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ImportError) Unwrap() error {
	return e.Cause
}

// NewImportError 创建导入错误
func NewImportError(errType ErrorType, message string, cause error) *ImportError {
	return &ImportError{Type: errType, Message: message, Cause: cause}
}

// ErrorTypeOf 提取错误分类，无法识别时归为存储错误
func ErrorTypeOf(err error) ErrorType {
	var ie *ImportError
	if errors.As(err, &ie) {
		return ie.Type
	}
	if errors.Is(err, ErrNotFound) {
		return ErrorTypeNotFound
	}
	return ErrorTypeStorage
}

// ImportResult 导入结果
type ImportResult struct {
	Success              bool      `json:"success"`
	RecordsCount         int       `json:"records_count"`
	UnmatchedStoresCount int       `json:"unmatched_stores_count"`
	SkippedRowsCount     int       `json:"skipped_rows_count"`
	ErrorType            ErrorType `json:"error_type,omitempty"`
	ErrorMessage         string    `json:"error_message,omitempty"`
}

// FailedImport 根据错误构造失败结果
func FailedImport(err error) ImportResult {
	return ImportResult{
		Success:      false,
		ErrorType:    ErrorTypeOf(err),
		ErrorMessage: err.Error(),
	}
}
