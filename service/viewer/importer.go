/*
 * @module service/viewer/importer
 * @description 审核结果导入：按白名单补全地理信息，标记并统计未匹配门店，整表替换展示表
 * @architecture 分层架构 - 业务服务层
 * @documentReference DESIGN.md
 * @stateFlow 解析CSV -> 校验必需列 -> 读取白名单快照 -> 逐行补全地理信息 -> 事务内整表替换 -> 导入记录
 * @rules 行内地理信息优先；白名单无此门店时空字段写入"[未匹配]"；未匹配门店按门店去重计数
 * @dependencies gorm.io/gorm, service/sheet, service/identity, service/database
 * @refs service/whitelist, api/controllers/viewer_controller
 */

package viewer

import (
	"context"
	"inspection-review-service/service/database"
	"inspection-review-service/service/distributed_lock"
	"inspection-review-service/service/identity"
	"inspection-review-service/service/importlog"
	"inspection-review-service/service/models"
	"inspection-review-service/service/sheet"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gorm.io/gorm"
)

const (
	ColStoreName    = "门店名称"
	ColStoreID      = "门店编号"
	ColItemName     = "检查项名称"
	ColReviewResult = "审核结果"
	ColWarZone      = "战区"
	ColProvince     = "省份"
	ColCity         = "城市"
	ColArea         = "所属区域"
	ColItemCategory = "检查项分类"
	ColImageURL     = "标准图"
	ColProblemNote  = "问题描述"
	ColReviewTime   = "审核时间"

	insertBatchSize = 200
)

var (
	requiredColumns = []sheet.Field{
		sheet.Col(ColStoreName),
		sheet.Col(ColStoreID),
		sheet.Col(ColItemName),
		sheet.Col(ColReviewResult),
	}
	optionalColumns = []sheet.Field{
		sheet.Col(ColWarZone),
		sheet.Col(ColProvince),
		sheet.Col(ColCity),
		sheet.Col(ColArea),
		sheet.Col(ColItemCategory),
		sheet.Col(ColImageURL),
		sheet.Col(ColProblemNote),
		sheet.Col(ColReviewTime),
	}
)

// RosterSource 提供白名单只读快照
type RosterSource interface {
	RosterIndex(ctx context.Context) (models.RosterIndex, error)
}

// Importer 审核结果导入器
type Importer struct {
	db       *gorm.DB
	roster   RosterSource
	locker   *distributed_lock.LockExecutor
	recorder *importlog.Recorder
	now      func() time.Time
}

// NewImporter 创建审核结果导入器
func NewImporter(db *gorm.DB, roster RosterSource, locker *distributed_lock.LockExecutor, recorder *importlog.Recorder) *Importer {
	if locker == nil {
		locker = distributed_lock.NewLockExecutor(nil)
	}
	return &Importer{
		db:       db,
		roster:   roster,
		locker:   locker,
		recorder: recorder,
		now:      time.Now,
	}
}

// ImportFile 从本地文件导入审核结果
func (i *Importer) ImportFile(ctx context.Context, path string) models.ImportResult {
	f, err := os.Open(path)
	if err != nil {
		result := models.FailedImport(models.NewImportError(models.ErrorTypeParse, "打开审核结果文件失败", err))
		i.recorder.Record(ctx, models.ImportKindReviews, filepath.Base(path), result, 0)
		return result
	}
	defer f.Close()
	return i.ImportReviews(ctx, f, filepath.Base(path))
}

// ImportReviews 导入审核结果CSV，整表替换
func (i *Importer) ImportReviews(ctx context.Context, r io.Reader, filename string) models.ImportResult {
	start := time.Now()
	result, err := i.importReviews(ctx, r, filename)
	if err != nil {
		slog.Error("审核结果导入失败", "file", filename, "error", err)
		result = models.FailedImport(err)
	} else {
		slog.Info("审核结果导入完成",
			"file", filename,
			"records", result.RecordsCount,
			"unmatched_stores", result.UnmatchedStoresCount,
			"skipped", result.SkippedRowsCount)
	}
	i.recorder.Record(ctx, models.ImportKindReviews, filename, result, time.Since(start))
	return result
}

func (i *Importer) importReviews(ctx context.Context, r io.Reader, filename string) (models.ImportResult, error) {
	table, err := sheet.Read(r, filename)
	if err != nil {
		return models.ImportResult{}, models.NewImportError(models.ErrorTypeParse, "读取审核结果文件失败", err)
	}
	cols, err := table.Resolve(requiredColumns, optionalColumns)
	if err != nil {
		return models.ImportResult{}, models.NewImportError(models.ErrorTypeValidation, "审核结果文件格式不正确", err)
	}

	roster, err := i.roster.RosterIndex(ctx)
	if err != nil {
		return models.ImportResult{}, models.NewImportError(models.ErrorTypeStorage, "读取门店白名单失败", err)
	}

	rows, unmatched, skipped := buildRows(table, cols, roster, i.now())

	err = i.locker.ExecuteWithLock(ctx, distributed_lock.ImportLockKey, func() error {
		return database.ReplaceTable(i.db.WithContext(ctx), rows, insertBatchSize)
	})
	if err != nil {
		return models.ImportResult{}, models.NewImportError(models.ErrorTypeStorage, "导入审核结果失败", err)
	}

	return models.ImportResult{
		Success:              true,
		RecordsCount:         len(rows),
		UnmatchedStoresCount: unmatched,
		SkippedRowsCount:     skipped,
	}, nil
}

// buildRows 逐行构建展示记录，返回记录、未匹配门店数和跳过行数
func buildRows(table *sheet.Table, cols sheet.ColumnMap, roster models.RosterIndex, importTime time.Time) ([]models.ViewerReviewResult, int, int) {
	rows := make([]models.ViewerReviewResult, 0, len(table.Rows))
	unmatchedStores := make(map[string]struct{})
	skipped := 0

	for n, raw := range table.Rows {
		storeID, err := identity.Normalize(cols.Value(raw, ColStoreID))
		if err != nil {
			slog.Warn("跳过门店编号异常的审核结果行", "row", n+2, "error", err)
			skipped++
			continue
		}

		geo := resolveGeo(
			geography{
				WarZone:  cols.String(raw, ColWarZone),
				Province: cols.String(raw, ColProvince),
				City:     cols.String(raw, ColCity),
			},
			roster, storeID)
		if geo.State == models.MatchStateUnmatched {
			unmatchedStores[storeID] = struct{}{}
		}

		rows = append(rows, models.ViewerReviewResult{
			StoreName:    cols.String(raw, ColStoreName),
			StoreID:      storeID,
			WarZone:      geo.WarZone,
			Province:     geo.Province,
			City:         geo.City,
			Area:         cols.String(raw, ColArea),
			ItemName:     cols.String(raw, ColItemName),
			ItemCategory: cols.String(raw, ColItemCategory),
			ImageURL:     cols.String(raw, ColImageURL),
			ReviewResult: cols.String(raw, ColReviewResult),
			ProblemNote:  cols.String(raw, ColProblemNote),
			ReviewTime:   sheet.Time(cols.Value(raw, ColReviewTime)),
			ImportTime:   importTime,
			MatchState:   geo.State,
		})
	}
	return rows, len(unmatchedStores), skipped
}

type geography struct {
	WarZone  string
	Province string
	City     string
	State    models.MatchState
}

func (g geography) empty() bool {
	return g.WarZone == "" && g.Province == "" && g.City == ""
}

// resolveGeo 行内地理信息优先，其次白名单；白名单无此门店时空字段写入占位值
func resolveGeo(row geography, roster models.RosterIndex, storeID string) geography {
	entry, ok := roster.Lookup(storeID)
	if ok {
		row.State = models.MatchStateMatched
		row.WarZone = firstNonEmpty(row.WarZone, entry.WarZone)
		row.Province = firstNonEmpty(row.Province, entry.Province)
		row.City = firstNonEmpty(row.City, entry.City)
		return row
	}

	row.State = models.MatchStateInline
	if row.empty() {
		row.State = models.MatchStateUnmatched
	}
	row.WarZone = firstNonEmpty(row.WarZone, models.GeoUnmatched)
	row.Province = firstNonEmpty(row.Province, models.GeoUnmatched)
	row.City = firstNonEmpty(row.City, models.GeoUnmatched)
	return row
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
