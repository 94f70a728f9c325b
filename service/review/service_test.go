package review

import (
	"bytes"
	"context"
	"inspection-review-service/service/importlog"
	"inspection-review-service/service/inspection"
	"inspection-review-service/service/models"
	"inspection-review-service/service/whitelist"
	"inspection-review-service/testutil"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

var inspectionHeaders = []string{
	inspection.ColItemName, inspection.ColStoreName, inspection.ColStoreID,
	inspection.ColArea, inspection.ColItemCategory, inspection.ColFieldResult,
}

type ReviewServiceTestSuite struct {
	suite.Suite
	tdb     *testutil.TestDB
	service *Service
	ctx     context.Context
}

func (s *ReviewServiceTestSuite) SetupTest() {
	s.tdb = testutil.NewTestDB()
	s.ctx = context.Background()

	factory := testutil.NewTestDataFactory(s.tdb.DB)
	factory.CreateStore("7", testutil.WithOperators("Zhao", "Zhang"))
	factory.CreateStore("8", testutil.WithOperators("", "Li"))

	cache := inspection.NewItemCache(whitelist.NewRepository(s.tdb.DB))
	s.service = NewService(NewStore(s.tdb.DB), cache, importlog.NewRecorder(s.tdb.DB, nil))
}

func (s *ReviewServiceTestSuite) TearDownTest() {
	s.tdb.Close()
}

func (s *ReviewServiceTestSuite) startCycle() *CycleResult {
	content := testutil.BuildXLSX(s.T(), inspectionHeaders,
		[]interface{}{"door_check", "人民广场店", 7, "前厅", "卫生", "https://img.example.com/7.jpg"},
		[]interface{}{"kitchen", "人民广场店", 7, "后厨", "卫生", nil},
		[]interface{}{"door_check", "西湖店", 8, "前厅", nil, `["<img src=\"https://img.example.com/8.jpg\">"]`},
		[]interface{}{"door_check", "新店", 9, "前厅", nil, "https://img.example.com/9.jpg"},
	)
	result, err := s.service.StartCycle(s.ctx, bytes.NewReader(content), "inspection.xlsx")
	s.Require().NoError(err)
	return result
}

func (s *ReviewServiceTestSuite) TestStartCycleAutoFailsMissingFieldResults() {
	result := s.startCycle()
	s.Equal(4, result.Items)
	s.Equal(1, result.AutoFailed)

	decision, err := s.service.Store().Get(s.ctx, "7_kitchen")
	s.Require().NoError(err)
	s.Equal(models.ReviewFail, decision.ReviewResult)
	s.Equal(models.NoFieldResultNote, decision.ProblemNote)

	var logs []models.ImportLog
	s.Require().NoError(s.tdb.DB.Where("kind = ?", models.ImportKindInspection).Find(&logs).Error)
	s.Require().Len(logs, 1)
	s.Equal(4, logs[0].RecordsCount)
}

func (s *ReviewServiceTestSuite) TestStartCycleClearsPreviousDecisions() {
	s.startCycle()
	_, err := s.service.Submit(s.ctx, SubmitRequest{ItemID: "7_door_check", ReviewResult: "合格"})
	s.Require().NoError(err)

	result := s.startCycle()
	s.Equal(int64(2), result.ClearedReviews)

	has, err := s.service.Store().Has(s.ctx, "7_door_check")
	s.Require().NoError(err)
	s.False(has)
}

func (s *ReviewServiceTestSuite) TestInvalidFileKeepsCurrentCycle() {
	s.startCycle()
	_, err := s.service.Submit(s.ctx, SubmitRequest{ItemID: "8_door_check", ReviewResult: "pass"})
	s.Require().NoError(err)

	bad := testutil.BuildXLSX(s.T(), []string{inspection.ColItemName}, []interface{}{"door_check"})
	_, err = s.service.StartCycle(s.ctx, bytes.NewReader(bad), "bad.xlsx")
	s.Require().Error(err)
	s.Equal(models.ErrorTypeValidation, models.ErrorTypeOf(err))

	s.Equal(4, s.service.Snapshot().Len())
	count, err := s.service.Store().Count(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(2), count)
}

func (s *ReviewServiceTestSuite) TestStorageFailureKeepsCurrentCycle() {
	s.startCycle()
	_, err := s.service.Submit(s.ctx, SubmitRequest{ItemID: "8_door_check", ReviewResult: "合格"})
	s.Require().NoError(err)

	s.tdb.FailCreates("store_inspection_reviews")
	next := testutil.BuildXLSX(s.T(), inspectionHeaders,
		[]interface{}{"sign", "人民广场店", 7, "门头", "形象", nil},
	)
	_, err = s.service.StartCycle(s.ctx, bytes.NewReader(next), "next.xlsx")
	s.Require().Error(err)
	s.Equal(models.ErrorTypeStorage, models.ErrorTypeOf(err))

	// 清空随自动判定一起回滚，快照也不切换
	s.Equal(4, s.service.Snapshot().Len())
	_, ok := s.service.Snapshot().Get("7_sign")
	s.False(ok)
	count, err := s.service.Store().Count(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(2), count)
	has, err := s.service.Store().Has(s.ctx, "8_door_check")
	s.Require().NoError(err)
	s.True(has)

	_, err = s.service.ResetCycle(s.ctx)
	s.Require().Error(err)
	count, err = s.service.Store().Count(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(2), count)
}

func (s *ReviewServiceTestSuite) TestSubmitWaitsForCycleSwitch() {
	s.startCycle()

	s.service.cycleMu.Lock()
	done := make(chan error, 1)
	go func() {
		_, err := s.service.Submit(s.ctx, SubmitRequest{ItemID: "8_door_check", ReviewResult: "合格"})
		done <- err
	}()

	select {
	case <-done:
		s.Fail("提交应等待周期切换完成")
	case <-time.After(50 * time.Millisecond):
	}
	s.service.cycleMu.Unlock()

	select {
	case err := <-done:
		s.Require().NoError(err)
	case <-time.After(2 * time.Second):
		s.Fail("周期切换结束后提交未完成")
	}
	has, err := s.service.Store().Has(s.ctx, "8_door_check")
	s.Require().NoError(err)
	s.True(has)
}

func (s *ReviewServiceTestSuite) TestSubmitValidation() {
	s.startCycle()

	_, err := s.service.Submit(s.ctx, SubmitRequest{ItemID: "", ReviewResult: "合格"})
	s.Equal(models.ErrorTypeValidation, models.ErrorTypeOf(err))

	_, err = s.service.Submit(s.ctx, SubmitRequest{ItemID: "7_door_check", ReviewResult: "待定"})
	s.Equal(models.ErrorTypeValidation, models.ErrorTypeOf(err))

	_, err = s.service.Submit(s.ctx, SubmitRequest{ItemID: "99_door_check", ReviewResult: "合格"})
	s.ErrorIs(err, models.ErrNotFound)

	decision, err := s.service.Submit(s.ctx, SubmitRequest{ItemID: "8_door_check", ReviewResult: "fail", ProblemNote: " 招牌破损 "})
	s.Require().NoError(err)
	s.Equal(models.ReviewFail, decision.ReviewResult)
	s.Equal("招牌破损", decision.ProblemNote)
	s.Equal("西湖店", decision.StoreName)
	s.Equal("https://img.example.com/8.jpg", decision.ImageURL)
}

func (s *ReviewServiceTestSuite) TestUpdateNote() {
	s.startCycle()

	_, err := s.service.UpdateNote(s.ctx, NoteRequest{ItemID: "8_door_check", ProblemNote: "补充"})
	s.ErrorIs(err, models.ErrNotFound)

	decision, err := s.service.UpdateNote(s.ctx, NoteRequest{ItemID: "7_kitchen", ProblemNote: "后厨无照片"})
	s.Require().NoError(err)
	s.Equal("后厨无照片", decision.ProblemNote)
}

func (s *ReviewServiceTestSuite) TestProgressAndItems() {
	s.startCycle()

	progress, err := s.service.Progress(s.ctx, "")
	s.Require().NoError(err)
	s.Equal(3, progress.TotalStores)
	s.Equal(0, progress.CompletedStores)
	s.Equal(1, progress.ReviewedItems)

	_, err = s.service.Submit(s.ctx, SubmitRequest{ItemID: "7_door_check", ReviewResult: "合格"})
	s.Require().NoError(err)
	_, err = s.service.Submit(s.ctx, SubmitRequest{ItemID: "8_door_check", ReviewResult: "不合格"})
	s.Require().NoError(err)

	progress, err = s.service.Progress(s.ctx, "全部")
	s.Require().NoError(err)
	s.Equal(1, progress.CompletedStores)
	s.Equal(33.3, progress.Percentage)

	progress, err = s.service.Progress(s.ctx, "Li")
	s.Require().NoError(err)
	s.Equal(1, progress.TotalStores)
	s.Equal(0, progress.CompletedStores)

	s.Equal([]string{"Li", "Zhao"}, s.service.Operators())

	items, err := s.service.Items(s.ctx, "Zhao")
	s.Require().NoError(err)
	s.Require().Len(items, 2)
	s.Require().NotNil(items[0].Decision)
	s.Equal(models.ReviewPass, items[0].Decision.ReviewResult)
	s.Equal(models.ReviewFail, items[1].Decision.ReviewResult)
}

func (s *ReviewServiceTestSuite) TestResetCycle() {
	s.startCycle()
	_, err := s.service.Submit(s.ctx, SubmitRequest{ItemID: "7_door_check", ReviewResult: "合格"})
	s.Require().NoError(err)

	result, err := s.service.ResetCycle(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(2), result.ClearedReviews)
	s.Equal(1, result.AutoFailed)

	count, err := s.service.Store().Count(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(1), count)
}

func TestReviewServiceSuite(t *testing.T) {
	suite.Run(t, new(ReviewServiceTestSuite))
}
