package importlog

import (
	"context"
	"errors"
	"inspection-review-service/service/models"
	"inspection-review-service/service/notify"
	"inspection-review-service/testutil"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// MockPublisher Mock事件发布器
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, event notify.ImportEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockPublisher) Close() error {
	return m.Called().Error(0)
}

type RecorderTestSuite struct {
	suite.Suite
	tdb       *testutil.TestDB
	publisher *MockPublisher
	recorder  *Recorder
	ctx       context.Context
}

func (s *RecorderTestSuite) SetupTest() {
	s.tdb = testutil.NewTestDB()
	s.publisher = &MockPublisher{}
	s.recorder = NewRecorder(s.tdb.DB, s.publisher)
	s.ctx = context.Background()
}

func (s *RecorderTestSuite) TearDownTest() {
	s.tdb.Close()
}

func (s *RecorderTestSuite) TestRecordSuccessPublishesEvent() {
	s.publisher.On("Publish", mock.Anything, mock.MatchedBy(func(e notify.ImportEvent) bool {
		return e.Kind == models.ImportKindReviews && e.RecordsCount == 3 && e.UnmatchedStoresCount == 2 && e.BatchID != ""
	})).Return(nil).Once()

	entry := s.recorder.Record(s.ctx, models.ImportKindReviews, "审核结果.csv",
		models.ImportResult{Success: true, RecordsCount: 3, UnmatchedStoresCount: 2}, 120*time.Millisecond)

	s.NotEmpty(entry.ID)
	s.Equal(int64(120), entry.DurationMs)
	s.publisher.AssertExpectations(s.T())

	logs, err := s.recorder.Recent(s.ctx, models.ImportKindReviews, 10)
	s.Require().NoError(err)
	s.Require().Len(logs, 1)
	s.Equal("审核结果.csv", logs[0].FileName)
	s.True(logs[0].Success)
}

func (s *RecorderTestSuite) TestRecordFailureDoesNotPublish() {
	s.recorder.Record(s.ctx, models.ImportKindWhitelist, "whitelist.xlsx",
		models.FailedImport(models.NewImportError(models.ErrorTypeValidation, "缺少必需列", nil)), time.Millisecond)

	s.publisher.AssertNotCalled(s.T(), "Publish", mock.Anything, mock.Anything)

	logs, err := s.recorder.Recent(s.ctx, "", 0)
	s.Require().NoError(err)
	s.Require().Len(logs, 1)
	s.False(logs[0].Success)
	s.Equal(models.ErrorTypeValidation, logs[0].ErrorType)
}

func (s *RecorderTestSuite) TestPublishErrorIsIgnored() {
	s.publisher.On("Publish", mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()

	entry := s.recorder.Record(s.ctx, models.ImportKindWhitelist, "whitelist.xlsx",
		models.ImportResult{Success: true, RecordsCount: 1}, time.Millisecond)
	s.NotEmpty(entry.ID)
	s.publisher.AssertExpectations(s.T())
}

func (s *RecorderTestSuite) TestCleanup() {
	old := &models.ImportLog{Kind: models.ImportKindWhitelist, Success: true}
	s.Require().NoError(s.tdb.DB.Create(old).Error)
	s.Require().NoError(s.tdb.DB.Model(old).Update("created_at", time.Now().AddDate(0, 0, -40)).Error)
	fresh := &models.ImportLog{Kind: models.ImportKindReviews, Success: true}
	s.Require().NoError(s.tdb.DB.Create(fresh).Error)

	deleted, err := s.recorder.Cleanup(s.ctx, 30)
	s.Require().NoError(err)
	s.Equal(int64(1), deleted)

	deleted, err = s.recorder.Cleanup(s.ctx, 0)
	s.Require().NoError(err)
	s.Equal(int64(0), deleted)

	var count int64
	s.tdb.DB.Model(&models.ImportLog{}).Count(&count)
	s.Equal(int64(1), count)
}

func TestRecorderSuite(t *testing.T) {
	suite.Run(t, new(RecorderTestSuite))
}

func TestRecordWithoutDB(t *testing.T) {
	var r *Recorder
	entry := r.Record(context.Background(), models.ImportKindInspection, "items.xlsx", models.ImportResult{Success: true}, time.Second)
	require.NotNil(t, entry)
}
