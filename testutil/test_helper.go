/*
 * @module testutil/test_helper
 * @description 测试工具和辅助函数
 * @architecture 测试基础设施 - 提供测试通用工具和数据工厂
 * @documentReference DESIGN.md
 * @stateFlow 测试环境初始化 -> 测试数据创建 -> 测试执行 -> 清理资源
 * @rules 提供可重用的测试工具，确保测试环境的一致性
 * @dependencies gorm, sqlite, testify, excelize
 * @refs service/models
 */

package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"inspection-review-service/service/database"
	"inspection-review-service/service/models"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestDB 测试数据库配置
type TestDB struct {
	DB *gorm.DB
}

// NewTestDB 创建测试数据库
func NewTestDB() *TestDB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic(fmt.Sprintf("failed to connect test database: %v", err))
	}

	// 内存库每个连接是独立的数据库，只保留一个连接
	sqlDB, err := db.DB()
	if err != nil {
		panic(fmt.Sprintf("failed to get sql db: %v", err))
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.AutoMigrate(db); err != nil {
		panic(fmt.Sprintf("failed to migrate test database: %v", err))
	}

	return &TestDB{DB: db}
}

// CleanDB 清理数据库
func (tdb *TestDB) CleanDB() {
	tables := []string{
		"store_whitelist",
		"store_inspection_reviews",
		"viewer_review_results",
		"import_logs",
	}

	for _, table := range tables {
		tdb.DB.Exec(fmt.Sprintf("DELETE FROM %s", table))
	}
}

// Close 关闭数据库连接
func (tdb *TestDB) Close() {
	if db, err := tdb.DB.DB(); err == nil {
		db.Close()
	}
}

// FailCreates 让后续对指定表的插入失败，用于验证回滚
func (tdb *TestDB) FailCreates(table string) {
	tdb.DB.Callback().Create().Before("gorm:create").Register("testutil:fail_"+table, func(db *gorm.DB) {
		if db.Statement.Table == table {
			db.AddError(fmt.Errorf("simulated storage failure on %s", table))
		}
	})
}

// TestDataFactory 测试数据工厂
type TestDataFactory struct {
	DB *gorm.DB
}

// NewTestDataFactory 创建测试数据工厂
func NewTestDataFactory(db *gorm.DB) *TestDataFactory {
	return &TestDataFactory{DB: db}
}

// StoreOption 门店选项函数类型
type StoreOption func(*models.StoreWhitelist)

// WithGeo 设置地理信息
func WithGeo(warZone, province, city string) StoreOption {
	return func(s *models.StoreWhitelist) {
		s.WarZone = warZone
		s.Province = province
		s.City = city
	}
}

// WithOperators 设置临时运营和省市运营
func WithOperators(temp, city string) StoreOption {
	return func(s *models.StoreWhitelist) {
		s.TempOperator = temp
		s.CityOperator = city
	}
}

// WithTag 设置门店标签
func WithTag(tag string) StoreOption {
	return func(s *models.StoreWhitelist) {
		s.StoreTag = tag
	}
}

// CreateStore 创建测试门店
func (f *TestDataFactory) CreateStore(storeID string, opts ...StoreOption) *models.StoreWhitelist {
	store := &models.StoreWhitelist{
		StoreID:   storeID,
		StoreName: "测试门店" + storeID,
		WarZone:   "华东战区",
		Province:  "上海",
		City:      "上海市",
	}

	// 应用选项
	for _, opt := range opts {
		opt(store)
	}

	if err := f.DB.Create(store).Error; err != nil {
		panic(fmt.Sprintf("failed to create test store: %v", err))
	}
	return store
}

// CreateDecision 创建测试审核决定
func (f *TestDataFactory) CreateDecision(storeID, itemName string, result models.ReviewResult, note string) *models.ReviewDecision {
	decision := &models.ReviewDecision{
		ItemID:       models.ChecklistItemID(storeID, itemName),
		StoreName:    "测试门店" + storeID,
		StoreID:      storeID,
		Area:         "前厅",
		ItemName:     itemName,
		ReviewResult: result,
		ProblemNote:  note,
		ReviewTime:   time.Now(),
	}
	if err := f.DB.Create(decision).Error; err != nil {
		panic(fmt.Sprintf("failed to create test decision: %v", err))
	}
	return decision
}

// BuildXLSX 生成单工作表的xlsx文件内容，首行为表头
func BuildXLSX(t *testing.T, headers []string, rows ...[]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	header := make([]interface{}, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	require.NoError(t, f.SetSheetRow(sheet, "A1", &header))

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

// BuildCSV 生成带UTF-8 BOM的CSV文件内容
func BuildCSV(headers []string, rows ...[]string) []byte {
	var b strings.Builder
	b.WriteString("\ufeff")
	b.WriteString(strings.Join(headers, ","))
	b.WriteString("\n")
	for _, row := range rows {
		b.WriteString(strings.Join(row, ","))
		b.WriteString("\n")
	}
	return []byte(b.String())
}

// HTTPTestHelper HTTP测试辅助工具
type HTTPTestHelper struct{}

// NewHTTPTestHelper 创建HTTP测试辅助工具
func NewHTTPTestHelper() *HTTPTestHelper {
	return &HTTPTestHelper{}
}

// CreateJSONRequest 创建JSON请求
func (h *HTTPTestHelper) CreateJSONRequest(method, url string, body interface{}) (*http.Request, error) {
	var reqBody io.Reader

	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return nil, err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

// CreateUploadRequest 创建multipart文件上传请求，字段名为 file
func (h *HTTPTestHelper) CreateUploadRequest(url, filename string, content []byte) (*http.Request, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(content); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPost, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req, nil
}

// AssertJSONResponse 断言JSON响应
func (h *HTTPTestHelper) AssertJSONResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedBody interface{}) {
	assert.Equal(t, expectedStatus, w.Code)

	if expectedBody != nil {
		var actualBody interface{}
		err := json.Unmarshal(w.Body.Bytes(), &actualBody)
		assert.NoError(t, err)

		expectedJSON, _ := json.Marshal(expectedBody)
		actualJSON, _ := json.Marshal(actualBody)

		assert.JSONEq(t, string(expectedJSON), string(actualJSON))
	}
}
