package sheet

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// ReadXLSX 读取工作簿的第一个工作表
func ReadXLSX(r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("打开Excel文件失败: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptySheet
	}
	name := sheets[0]

	rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("读取工作表失败: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptySheet
	}

	table, err := newTable(rows[0])
	if err != nil {
		return nil, err
	}

	for i := 1; i < len(rows); i++ {
		row := make([]interface{}, len(table.Headers))
		for j := 0; j < len(rows[i]) && j < len(row); j++ {
			v, err := xlsxCellValue(f, name, i, j, rows[i][j])
			if err != nil {
				return nil, err
			}
			row[j] = v
		}
		if isBlankRow(row) {
			continue
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

// xlsxCellValue 根据单元格类型还原数值/文本
func xlsxCellValue(f *excelize.File, sheetName string, rowIdx, colIdx int, raw string) (interface{}, error) {
	if raw == "" {
		return nil, nil
	}
	num, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return raw, nil
	}

	cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
	if err != nil {
		return nil, err
	}
	cellType, err := f.GetCellType(sheetName, cell)
	if err != nil {
		return nil, fmt.Errorf("读取单元格 %s 类型失败: %w", cell, err)
	}
	switch cellType {
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		return num, nil
	default:
		return raw, nil
	}
}
