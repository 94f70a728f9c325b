package sheet

import (
	"bytes"
	"inspection-review-service/testutil"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/simplifiedchinese"
)

func TestReadXLSXCellTypes(t *testing.T) {
	content := testutil.BuildXLSX(t, []string{" 门店ID ", "门店名称", "备注"},
		[]interface{}{1001, "人民广场店", nil},
		[]interface{}{"0012", "徐家汇店", 3.5},
		[]interface{}{nil, nil, nil},
		[]interface{}{1002.0, "静安店", "ok"},
	)

	table, err := Read(bytes.NewReader(content), "whitelist.XLSX")
	require.NoError(t, err)

	assert.Equal(t, []string{"门店ID", "门店名称", "备注"}, table.Headers)
	require.Len(t, table.Rows, 3)
	assert.Equal(t, 1001.0, table.Rows[0][0])
	assert.Nil(t, table.Rows[0][2])
	assert.Equal(t, "0012", table.Rows[1][0])
	assert.Equal(t, 3.5, table.Rows[1][2])
	assert.Equal(t, 1002.0, table.Rows[2][0])
}

func TestReadCSVWithBOM(t *testing.T) {
	content := testutil.BuildCSV([]string{"门店编号", "门店名称", "得分"},
		[]string{"1001", "人民广场店", "95.5"},
		[]string{"0012", "nan", ""},
		[]string{"", "", ""},
	)

	table, err := Read(bytes.NewReader(content), "reviews.csv")
	require.NoError(t, err)

	assert.Equal(t, "门店编号", table.Headers[0])
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "1001", table.Rows[0][0])
	assert.Equal(t, 95.5, table.Rows[0][2])
	assert.Equal(t, "0012", table.Rows[1][0])
	assert.Nil(t, table.Rows[1][1])
	assert.Nil(t, table.Rows[1][2])
}

func TestReadCSVGBK(t *testing.T) {
	utf8Content := "门店编号,门店名称\n1001,人民广场店\n"
	gbk, err := simplifiedchinese.GBK.NewEncoder().String(utf8Content)
	require.NoError(t, err)

	table, err := ReadCSV(bytes.NewReader([]byte(gbk)))
	require.NoError(t, err)
	assert.Equal(t, []string{"门店编号", "门店名称"}, table.Headers)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "人民广场店", table.Rows[0][1])
}

func TestReadErrors(t *testing.T) {
	_, err := Read(bytes.NewReader([]byte("a,b")), "data.json")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = ReadCSV(bytes.NewReader(nil))
	assert.ErrorIs(t, err, ErrEmptySheet)

	_, err = ReadXLSX(bytes.NewReader([]byte("not a workbook")))
	assert.Error(t, err)
}

func TestResolveColumns(t *testing.T) {
	table := &Table{Headers: []string{"门店编号", "门店名称", "城市"}}

	cols, err := table.Resolve(
		[]Field{Col("门店ID", "门店编号"), Col("门店名称")},
		[]Field{Col("城市"), Col("省份")},
	)
	require.NoError(t, err)
	assert.Equal(t, 0, cols["门店ID"])
	assert.True(t, cols.Has("城市"))
	assert.False(t, cols.Has("省份"))

	row := []interface{}{1001.0, " 人民广场店 ", nil}
	assert.Equal(t, 1001.0, cols.Value(row, "门店ID"))
	assert.Equal(t, "人民广场店", cols.String(row, "门店名称"))
	assert.Equal(t, "", cols.String(row, "城市"))
	assert.Equal(t, "", cols.String(row, "省份"))
	assert.Nil(t, cols.Value([]interface{}{1.0}, "门店名称"))

	_, err = table.Resolve([]Field{Col("检查项名称"), Col("审核结果")}, nil)
	require.ErrorIs(t, err, ErrMissingColumns)
	assert.Contains(t, err.Error(), "检查项名称, 审核结果")
}

func TestValues(t *testing.T) {
	assert.Equal(t, "1001", Text(1001.0))
	assert.Equal(t, "3.5", Text(3.5))
	assert.Equal(t, "", Text(nil))
	assert.Equal(t, "abc", Text(" abc "))

	ts := Time("2024-03-01 10:20:30")
	require.NotNil(t, ts)
	assert.Equal(t, 2024, ts.Year())
	assert.Equal(t, 20, ts.Minute())
	assert.Nil(t, Time("not a time"))
	assert.Nil(t, Time(nil))
	assert.Nil(t, Time(45000.5))
}
