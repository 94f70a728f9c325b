package sheet

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ReadCSV 读取CSV，支持带BOM的UTF-8以及GBK/GB18030编码
func ReadCSV(r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("读取CSV文件失败: %w", err)
	}
	data, err = decodeCSV(data)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("解析CSV文件失败: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrEmptySheet
	}

	table, err := newTable(records[0])
	if err != nil {
		return nil, err
	}
	for _, record := range records[1:] {
		row := make([]interface{}, len(table.Headers))
		for j := 0; j < len(record) && j < len(row); j++ {
			row[j] = csvCellValue(record[j])
		}
		if isBlankRow(row) {
			continue
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

func decodeCSV(data []byte) ([]byte, error) {
	if utf8.Valid(data) {
		out, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), data)
		if err != nil {
			return nil, fmt.Errorf("CSV编码转换失败: %w", err)
		}
		return out, nil
	}
	out, _, err := transform.Bytes(simplifiedchinese.GB18030.NewDecoder(), data)
	if err != nil {
		return nil, fmt.Errorf("CSV编码转换失败: %w", err)
	}
	return out, nil
}

// csvCellValue 只有带小数点的数字才按数值处理，纯数字文本保持字符串
func csvCellValue(raw string) interface{} {
	trimmed := strings.TrimSpace(raw)
	switch trimmed {
	case "", "nan", "NaN":
		return nil
	}
	if strings.Contains(trimmed, ".") {
		if num, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return num
		}
	}
	return raw
}
