/*
 * @module service/sheet/sheet
 * @description 表格文件读取，统一输出为表头 + 单元格值（nil / float64 / string）
 * @architecture 解析边界层 - 上游导入器只接触类型化的单元格
 * @documentReference DESIGN.md
 * @stateFlow 原始字节 -> 编码识别 -> 行列解析 -> 单元格类型判定 -> Table
 * @rules 数字单元格输出 float64，文本单元格保持原样（包括前导零），空值输出 nil
 * @dependencies github.com/xuri/excelize/v2, golang.org/x/text, github.com/spf13/cast
 * @refs service/whitelist, service/viewer, service/inspection
 */

package sheet

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

var (
	// ErrUnsupportedFormat 不支持的文件类型
	ErrUnsupportedFormat = errors.New("不支持的文件类型")
	// ErrEmptySheet 工作表没有表头
	ErrEmptySheet = errors.New("文件为空或缺少表头")
)

// Table 解析后的表格
type Table struct {
	Headers []string
	Rows    [][]interface{}
}

// Read 按文件扩展名选择解析方式
func Read(r io.Reader, filename string) (*Table, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		return ReadXLSX(r)
	case ".csv":
		return ReadCSV(r)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filename)
	}
}

func newTable(header []string) (*Table, error) {
	headers := make([]string, 0, len(header))
	for _, h := range header {
		headers = append(headers, strings.TrimSpace(h))
	}
	for _, h := range headers {
		if h != "" {
			return &Table{Headers: headers}, nil
		}
	}
	return nil, ErrEmptySheet
}

func isBlankRow(row []interface{}) bool {
	for _, v := range row {
		if v != nil {
			return false
		}
	}
	return true
}
