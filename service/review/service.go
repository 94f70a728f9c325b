package review

import (
	"context"
	"errors"
	"fmt"
	"inspection-review-service/service/importlog"
	"inspection-review-service/service/inspection"
	"inspection-review-service/service/metrics"
	"inspection-review-service/service/models"
	"io"
	"log/slog"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

// SubmitRequest 提交审核决定
type SubmitRequest struct {
	ItemID       string `json:"item_id" validate:"required,max=255"`
	ReviewResult string `json:"review_result" validate:"required"`
	ProblemNote  string `json:"problem_note" validate:"max=2000"`
}

// NoteRequest 修改问题描述
type NoteRequest struct {
	ItemID      string `json:"item_id" validate:"required,max=255"`
	ProblemNote string `json:"problem_note" validate:"max=2000"`
}

// CycleResult 新周期加载结果
type CycleResult struct {
	Items          int   `json:"items"`
	SkippedRows    int   `json:"skipped_rows"`
	AutoFailed     int   `json:"auto_failed"`
	ClearedReviews int64 `json:"cleared_reviews"`
}

// Progress 门店完成进度
type Progress struct {
	TotalStores     int     `json:"total_stores"`
	CompletedStores int     `json:"completed_stores"`
	Percentage      float64 `json:"percentage"`
	TotalItems      int     `json:"total_items"`
	ReviewedItems   int     `json:"reviewed_items"`
}

// ItemView 检查项及其当前审核决定
type ItemView struct {
	models.ChecklistItem
	Decision *models.ReviewDecision `json:"decision,omitempty"`
}

// Service 审核流程服务
type Service struct {
	store    *Store
	cache    *inspection.ItemCache
	recorder *importlog.Recorder
	validate *validator.Validate

	// 周期切换与重置持写锁，提交审核持读锁
	cycleMu sync.RWMutex
}

// NewService 创建审核流程服务
func NewService(store *Store, cache *inspection.ItemCache, recorder *importlog.Recorder) *Service {
	return &Service{
		store:    store,
		cache:    cache,
		recorder: recorder,
		validate: validator.New(),
	}
}

// Store 审核决定台账
func (s *Service) Store() *Store {
	return s.store
}

// Snapshot 当前周期的检查项快照
func (s *Service) Snapshot() *inspection.Snapshot {
	return s.cache.CurrentSnapshot()
}

// StartCycle 加载新的检查项文件并开始新周期：先解析，成功后清空审核决定、替换快照并自动判定不合格
func (s *Service) StartCycle(ctx context.Context, r io.Reader, filename string) (*CycleResult, error) {
	start := time.Now()
	result, err := s.startCycle(ctx, r, filename)

	record := models.ImportResult{Success: err == nil}
	if err != nil {
		slog.Error("开始新审核周期失败", "file", filename, "error", err)
		record = models.FailedImport(err)
	} else {
		record.RecordsCount = result.Items
		record.SkippedRowsCount = result.SkippedRows
		slog.Info("新审核周期已开始",
			"file", filename,
			"items", result.Items,
			"auto_failed", result.AutoFailed,
			"cleared", result.ClearedReviews)
	}
	s.recorder.Record(ctx, models.ImportKindInspection, filename, record, time.Since(start))
	return result, err
}

func (s *Service) startCycle(ctx context.Context, r io.Reader, filename string) (*CycleResult, error) {
	snapshot, skipped, err := s.cache.Parse(ctx, r, filename)
	if err != nil {
		return nil, err
	}

	s.cycleMu.Lock()
	defer s.cycleMu.Unlock()

	// 清空与自动判定成功提交后才切换快照，失败时保留旧周期
	cleared, autoFailed, err := s.restart(ctx, snapshot)
	if err != nil {
		return nil, err
	}
	s.cache.Swap(snapshot)
	return &CycleResult{
		Items:          snapshot.Len(),
		SkippedRows:    skipped,
		AutoFailed:     autoFailed,
		ClearedReviews: cleared,
	}, nil
}

// ResetCycle 清空审核决定并对当前快照重新自动判定不合格
func (s *Service) ResetCycle(ctx context.Context) (*CycleResult, error) {
	s.cycleMu.Lock()
	defer s.cycleMu.Unlock()

	snapshot := s.cache.CurrentSnapshot()
	cleared, autoFailed, err := s.restart(ctx, snapshot)
	if err != nil {
		return nil, err
	}
	slog.Info("审核周期已重置", "cleared", cleared, "auto_failed", autoFailed)
	return &CycleResult{
		Items:          snapshot.Len(),
		AutoFailed:     autoFailed,
		ClearedReviews: cleared,
	}, nil
}

// AutoFail 对当前快照执行自动判定不合格，不覆盖已有决定
func (s *Service) AutoFail(ctx context.Context) (int, error) {
	return s.autoFail(ctx, s.cache.CurrentSnapshot())
}

func (s *Service) restart(ctx context.Context, snapshot *inspection.Snapshot) (int64, int, error) {
	cleared, written, err := s.store.Restart(ctx, snapshot.Items())
	if err != nil {
		return 0, 0, models.NewImportError(models.ErrorTypeStorage, "开始新周期失败", err)
	}
	if written > 0 {
		metrics.ReviewSubmissions.WithLabelValues(string(models.ReviewFail), "auto").Add(float64(written))
	}
	return cleared, written, nil
}

func (s *Service) autoFail(ctx context.Context, snapshot *inspection.Snapshot) (int, error) {
	written, err := s.store.AutoFailMissing(ctx, snapshot.Items())
	if err != nil {
		return 0, models.NewImportError(models.ErrorTypeStorage, "自动判定不合格失败", err)
	}
	if written > 0 {
		metrics.ReviewSubmissions.WithLabelValues(string(models.ReviewFail), "auto").Add(float64(written))
	}
	return written, nil
}

// Submit 提交审核决定，同一检查项重复提交覆盖旧决定
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (*models.ReviewDecision, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, models.NewImportError(models.ErrorTypeValidation, "审核请求参数错误", err)
	}
	result, ok := models.ParseReviewResult(req.ReviewResult)
	if !ok {
		return nil, models.NewImportError(models.ErrorTypeValidation, fmt.Sprintf("无效的审核结果: %s", req.ReviewResult), nil)
	}

	// 持读锁，避免旧快照中的检查项在新周期清空后写入
	s.cycleMu.RLock()
	defer s.cycleMu.RUnlock()

	item, ok := s.cache.CurrentSnapshot().Get(strings.TrimSpace(req.ItemID))
	if !ok {
		return nil, fmt.Errorf("检查项 %s: %w", req.ItemID, models.ErrNotFound)
	}

	decision := NewDecision(item, result, strings.TrimSpace(req.ProblemNote))
	if err := s.store.Upsert(ctx, decision); err != nil {
		return nil, err
	}
	metrics.ReviewSubmissions.WithLabelValues(string(result), "manual").Inc()
	slog.Debug("审核决定已保存", "item_id", decision.ItemID, "result", result)
	return decision, nil
}

// UpdateNote 修改已有审核决定的问题描述
func (s *Service) UpdateNote(ctx context.Context, req NoteRequest) (*models.ReviewDecision, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, models.NewImportError(models.ErrorTypeValidation, "问题描述请求参数错误", err)
	}
	decision, err := s.store.UpdateNote(ctx, strings.TrimSpace(req.ItemID), strings.TrimSpace(req.ProblemNote))
	if errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("检查项 %s 尚无审核决定: %w", req.ItemID, err)
	}
	return decision, err
}

// Items 按负责运营列出检查项及审核决定
func (s *Service) Items(ctx context.Context, op string) ([]ItemView, error) {
	decisions, err := s.store.ByItemID(ctx)
	if err != nil {
		return nil, err
	}
	items := s.cache.CurrentSnapshot().FilterByOperator(op)
	views := make([]ItemView, 0, len(items))
	for _, item := range items {
		view := ItemView{ChecklistItem: item}
		if d, ok := decisions[item.ID]; ok {
			d := d
			view.Decision = &d
		}
		views = append(views, view)
	}
	return views, nil
}

// Operators 当前周期的负责运营列表
func (s *Service) Operators() []string {
	return s.cache.CurrentSnapshot().Operators()
}

// Progress 按门店统计完成进度：门店全部检查项都有决定且不合格项均填写描述才算完成
func (s *Service) Progress(ctx context.Context, op string) (*Progress, error) {
	decisions, err := s.store.ByItemID(ctx)
	if err != nil {
		return nil, err
	}

	items := s.cache.CurrentSnapshot().FilterByOperator(op)
	complete := make(map[string]bool)
	order := make([]string, 0)
	progress := &Progress{TotalItems: len(items)}

	for _, item := range items {
		if _, seen := complete[item.StoreID]; !seen {
			complete[item.StoreID] = true
			order = append(order, item.StoreID)
		}
		d, ok := decisions[item.ID]
		if ok {
			progress.ReviewedItems++
		}
		if !ok || !d.IsComplete() {
			complete[item.StoreID] = false
		}
	}

	progress.TotalStores = len(order)
	for _, storeID := range order {
		if complete[storeID] {
			progress.CompletedStores++
		}
	}
	if progress.TotalStores > 0 {
		pct := float64(progress.CompletedStores) / float64(progress.TotalStores) * 100
		progress.Percentage = math.Round(pct*10) / 10
	}
	return progress, nil
}
