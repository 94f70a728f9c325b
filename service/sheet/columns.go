package sheet

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingColumns 缺少必需列
var ErrMissingColumns = errors.New("文件格式不正确，缺少必需列")

// Field 逻辑列，Name 为标准列名，Aliases 为可接受的别名
type Field struct {
	Name    string
	Aliases []string
}

// Col 创建逻辑列
func Col(name string, aliases ...string) Field {
	return Field{Name: name, Aliases: aliases}
}

// ColumnMap 标准列名到列下标的映射，在解析边界一次性确定
type ColumnMap map[string]int

// Resolve 解析必需列和可选列，必需列缺失时返回 ErrMissingColumns
func (t *Table) Resolve(required []Field, optional []Field) (ColumnMap, error) {
	index := make(map[string]int, len(t.Headers))
	for i, h := range t.Headers {
		if _, exists := index[h]; !exists && h != "" {
			index[h] = i
		}
	}

	cols := make(ColumnMap, len(required)+len(optional))
	var missing []string
	for _, f := range required {
		if i, ok := lookup(index, f); ok {
			cols[f.Name] = i
		} else {
			missing = append(missing, f.Name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}
	for _, f := range optional {
		if i, ok := lookup(index, f); ok {
			cols[f.Name] = i
		}
	}
	return cols, nil
}

func lookup(index map[string]int, f Field) (int, bool) {
	if i, ok := index[f.Name]; ok {
		return i, true
	}
	for _, alias := range f.Aliases {
		if i, ok := index[alias]; ok {
			return i, true
		}
	}
	return 0, false
}

// Has 列是否存在
func (m ColumnMap) Has(name string) bool {
	_, ok := m[name]
	return ok
}

// Value 取原始单元格值，列不存在时返回 nil
func (m ColumnMap) Value(row []interface{}, name string) interface{} {
	i, ok := m[name]
	if !ok || i >= len(row) {
		return nil
	}
	return row[i]
}

// String 取单元格文本（去首尾空白），空值返回空串
func (m ColumnMap) String(row []interface{}, name string) string {
	return Text(m.Value(row, name))
}
