package whitelist

import (
	"bytes"
	"context"
	"inspection-review-service/service/importlog"
	"inspection-review-service/service/models"
	"inspection-review-service/testutil"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"
)

var whitelistHeaders = []string{ColStoreID, ColStoreName, ColProvince, ColCity, ColWarZone, ColStoreTag, ColCityOperator, ColTempOperator, ColRegionalManager}

type WhitelistImporterTestSuite struct {
	suite.Suite
	tdb      *testutil.TestDB
	importer *Importer
	repo     *Repository
	ctx      context.Context
}

func (s *WhitelistImporterTestSuite) SetupTest() {
	s.tdb = testutil.NewTestDB()
	s.importer = NewImporter(s.tdb.DB, nil, importlog.NewRecorder(s.tdb.DB, nil))
	s.repo = NewRepository(s.tdb.DB)
	s.ctx = context.Background()
}

func (s *WhitelistImporterTestSuite) TearDownTest() {
	s.tdb.Close()
}

func (s *WhitelistImporterTestSuite) importRows(rows ...[]interface{}) models.ImportResult {
	content := testutil.BuildXLSX(s.T(), whitelistHeaders, rows...)
	return s.importer.ImportWhitelist(s.ctx, bytes.NewReader(content), "whitelist.xlsx")
}

func (s *WhitelistImporterTestSuite) storeIDs() []string {
	stores, err := s.repo.List(s.ctx)
	s.Require().NoError(err)
	ids := make([]string, 0, len(stores))
	for _, st := range stores {
		ids = append(ids, st.StoreID)
	}
	return ids
}

func (s *WhitelistImporterTestSuite) TestImportNormalizesAndDedupes() {
	result := s.importRows(
		[]interface{}{1001, "人民广场店", "上海", "上海市", "华东战区", "旗舰", "Zhang", "Zhao", "Wu"},
		[]interface{}{"0012", "徐家汇店", "上海", "上海市", "华东战区", nil, "Li", nil, nil},
		[]interface{}{"1001-2", "坏数据店", "上海", "上海市", "华东战区", nil, nil, nil, nil},
		[]interface{}{1001.0, "人民广场新店", "上海", "上海市", "华东战区", "旗舰", "Zhang", "", nil},
	)

	s.True(result.Success, result.ErrorMessage)
	s.Equal(2, result.RecordsCount)
	s.Equal(1, result.SkippedRowsCount)
	s.Equal([]string{"0012", "1001"}, s.storeIDs())

	store, err := s.repo.Get(s.ctx, "1001")
	s.Require().NoError(err)
	s.Equal("人民广场新店", store.StoreName)
	s.Equal("", store.TempOperator)
	s.Equal("Zhang", store.CityOperator)
}

func (s *WhitelistImporterTestSuite) TestImportReplacesWholeTable() {
	first := s.importRows(
		[]interface{}{1001, "A店", "上海", "上海市", "华东战区", nil, nil, nil, nil},
		[]interface{}{1002, "B店", "浙江", "杭州市", "华东战区", nil, nil, nil, nil},
	)
	s.Require().True(first.Success)

	second := s.importRows(
		[]interface{}{1003, "C店", "江苏", "南京市", "华东战区", nil, nil, nil, nil},
	)
	s.Require().True(second.Success)
	s.Equal(1, second.RecordsCount)
	s.Equal([]string{"1003"}, s.storeIDs())
}

func (s *WhitelistImporterTestSuite) TestImportAcceptsStoreNumberAlias() {
	content := testutil.BuildXLSX(s.T(), []string{"门店编号", ColStoreName},
		[]interface{}{2001, "别名店"},
	)
	result := s.importer.ImportWhitelist(s.ctx, bytes.NewReader(content), "whitelist.xlsx")
	s.True(result.Success, result.ErrorMessage)
	s.Equal([]string{"2001"}, s.storeIDs())
}

func (s *WhitelistImporterTestSuite) TestMissingColumnsLeavesTableUntouched() {
	s.Require().True(s.importRows([]interface{}{1001, "A店", "上海", "上海市", "华东战区", nil, nil, nil, nil}).Success)

	content := testutil.BuildXLSX(s.T(), []string{ColProvince, ColCity},
		[]interface{}{"上海", "上海市"},
	)
	result := s.importer.ImportWhitelist(s.ctx, bytes.NewReader(content), "whitelist.xlsx")

	s.False(result.Success)
	s.Equal(models.ErrorTypeValidation, result.ErrorType)
	s.Contains(result.ErrorMessage, ColStoreID)
	s.Contains(result.ErrorMessage, ColStoreName)
	s.Equal([]string{"1001"}, s.storeIDs())
}

func (s *WhitelistImporterTestSuite) TestStorageFailureRollsBack() {
	s.Require().True(s.importRows([]interface{}{1001, "A店", "上海", "上海市", "华东战区", nil, nil, nil, nil}).Success)

	s.tdb.FailCreates("store_whitelist")
	result := s.importRows([]interface{}{1002, "B店", "浙江", "杭州市", "华东战区", nil, nil, nil, nil})

	s.False(result.Success)
	s.Equal(models.ErrorTypeStorage, result.ErrorType)
	s.Contains(result.ErrorMessage, "simulated storage failure")
	s.Equal([]string{"1001"}, s.storeIDs())
}

func (s *WhitelistImporterTestSuite) TestImportWritesImportLog() {
	s.importRows([]interface{}{1001, "A店", "上海", "上海市", "华东战区", nil, nil, nil, nil})
	s.importer.ImportWhitelist(s.ctx, bytes.NewReader([]byte("garbage")), "whitelist.xlsx")

	var logs []models.ImportLog
	s.Require().NoError(s.tdb.DB.Order("created_at").Find(&logs).Error)
	s.Require().Len(logs, 2)
	s.Equal(models.ImportKindWhitelist, logs[0].Kind)
	s.True(logs[0].Success)
	s.Equal(1, logs[0].RecordsCount)
	s.False(logs[1].Success)
	s.Equal(models.ErrorTypeParse, logs[1].ErrorType)
}

func (s *WhitelistImporterTestSuite) TestImportFileMissing() {
	result := s.importer.ImportFile(s.ctx, filepath.Join(s.T().TempDir(), "missing.xlsx"))
	s.False(result.Success)
	s.Equal(models.ErrorTypeParse, result.ErrorType)
}

func TestWhitelistImporterSuite(t *testing.T) {
	suite.Run(t, new(WhitelistImporterTestSuite))
}
