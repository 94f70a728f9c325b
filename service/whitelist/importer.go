/*
 * @module service/whitelist/importer
 * @description 白名单导入：解析表格、规范化门店编号、按门店去重后整表替换
 * @architecture 分层架构 - 业务服务层
 * @documentReference DESIGN.md
 * @stateFlow 解析 -> 校验必需列 -> 规范化/跳过异常行 -> 去重（后出现的行覆盖） -> 事务内整表替换 -> 导入记录
 * @rules 校验失败不写库；任何写入失败整体回滚；记录数为去重后的门店数
 * @dependencies gorm.io/gorm, service/sheet, service/identity, service/database
 * @refs service/viewer, service/scheduler, cmd/inspectctl
 */

package whitelist

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
	ColStoreID         = "门店ID"
	ColStoreName       = "门店名称"
	ColProvince        = "省份"
	ColCity            = "城市"
	ColWarZone         = "战区"
	ColStoreTag        = "门店标签"
	ColOldOperator     = "老运营"
	ColCityOperator    = "省市运营"
	ColTempOperator    = "临时运营"
	ColSubOperator     = "次运营"
	ColRegionalManager = "区域经理"
	ColBusinessStatus  = "门店营业状态"
	ColMenuVersion     = "菜单版本"

	insertBatchSize = 200
)

var (
	requiredColumns = []sheet.Field{
		sheet.Col(ColStoreID, "门店编号", "门店id", "store_id"),
		sheet.Col(ColStoreName),
	}
	optionalColumns = []sheet.Field{
		sheet.Col(ColProvince),
		sheet.Col(ColCity),
		sheet.Col(ColWarZone),
		sheet.Col(ColStoreTag),
		sheet.Col(ColOldOperator),
		sheet.Col(ColCityOperator),
		sheet.Col(ColTempOperator),
		sheet.Col(ColSubOperator),
		sheet.Col(ColRegionalManager),
		sheet.Col(ColBusinessStatus),
		sheet.Col(ColMenuVersion),
	}
)

// Importer 白名单导入器
type Importer struct {
	db       *gorm.DB
	locker   *distributed_lock.LockExecutor
	recorder *importlog.Recorder
}

// NewImporter 创建白名单导入器
func NewImporter(db *gorm.DB, locker *distributed_lock.LockExecutor, recorder *importlog.Recorder) *Importer {
	if locker == nil {
		locker = distributed_lock.NewLockExecutor(nil)
	}
	return &Importer{db: db, locker: locker, recorder: recorder}
}

// ImportFile 从本地文件导入白名单
func (i *Importer) ImportFile(ctx context.Context, path string) models.ImportResult {
	f, err := os.Open(path)
	if err != nil {
		result := models.FailedImport(models.NewImportError(models.ErrorTypeParse, "打开白名单文件失败", err))
		i.recorder.Record(ctx, models.ImportKindWhitelist, filepath.Base(path), result, 0)
		return result
	}
	defer f.Close()
	return i.ImportWhitelist(ctx, f, filepath.Base(path))
}

// ImportWhitelist 导入白名单，整表替换
func (i *Importer) ImportWhitelist(ctx context.Context, r io.Reader, filename string) models.ImportResult {
	start := time.Now()
	result, err := i.importWhitelist(ctx, r, filename)
	if err != nil {
		slog.Error("白名单导入失败", "file", filename, "error", err)
		result = models.FailedImport(err)
	} else {
		slog.Info("白名单导入完成", "file", filename, "records", result.RecordsCount, "skipped", result.SkippedRowsCount)
	}
	i.recorder.Record(ctx, models.ImportKindWhitelist, filename, result, time.Since(start))
	return result
}

func (i *Importer) importWhitelist(ctx context.Context, r io.Reader, filename string) (models.ImportResult, error) {
	table, err := sheet.Read(r, filename)
	if err != nil {
		return models.ImportResult{}, models.NewImportError(models.ErrorTypeParse, "读取白名单文件失败", err)
	}
	cols, err := table.Resolve(requiredColumns, optionalColumns)
	if err != nil {
		return models.ImportResult{}, models.NewImportError(models.ErrorTypeValidation, "白名单文件格式不正确", err)
	}

	stores, skipped := buildStores(table, cols)

	err = i.locker.ExecuteWithLock(ctx, distributed_lock.ImportLockKey, func() error {
		return database.ReplaceTable(i.db.WithContext(ctx), stores, insertBatchSize)
	})
	if err != nil {
		return models.ImportResult{}, models.NewImportError(models.ErrorTypeStorage, "导入白名单失败", err)
	}

	return models.ImportResult{
		Success:          true,
		RecordsCount:     len(stores),
		SkippedRowsCount: skipped,
	}, nil
}

// buildStores 规范化门店编号并去重，同一门店后出现的行覆盖先前的行
func buildStores(table *sheet.Table, cols sheet.ColumnMap) ([]models.StoreWhitelist, int) {
	position := make(map[string]int, len(table.Rows))
	stores := make([]models.StoreWhitelist, 0, len(table.Rows))
	skipped := 0

	for n, row := range table.Rows {
		storeID, err := identity.Normalize(cols.Value(row, ColStoreID))
		if err != nil {
			slog.Warn("跳过门店ID异常的白名单行", "row", n+2, "error", err)
			skipped++
			continue
		}

		store := models.StoreWhitelist{
			StoreID:         storeID,
			Province:        cols.String(row, ColProvince),
			City:            cols.String(row, ColCity),
			StoreName:       cols.String(row, ColStoreName),
			WarZone:         cols.String(row, ColWarZone),
			StoreTag:        cols.String(row, ColStoreTag),
			OldOperator:     cols.String(row, ColOldOperator),
			CityOperator:    cols.String(row, ColCityOperator),
			TempOperator:    cols.String(row, ColTempOperator),
			SubOperator:     cols.String(row, ColSubOperator),
			RegionalManager: cols.String(row, ColRegionalManager),
			BusinessStatus:  cols.String(row, ColBusinessStatus),
			MenuVersion:     cols.String(row, ColMenuVersion),
		}

		if idx, exists := position[storeID]; exists {
			stores[idx] = store
			continue
		}
		position[storeID] = len(stores)
		stores = append(stores, store)
	}
	return stores, skipped
}
