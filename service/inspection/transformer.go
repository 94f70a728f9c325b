/*
 * @module service/inspection/transformer
 * @description 检查项表转换：原始行 -> ChecklistItem，提取现场结果图片并分配负责运营
 * @architecture 领域服务 - 解析边界之后的纯转换
 * @documentReference DESIGN.md
 * @stateFlow Table -> 列解析 -> 门店编号规范化 -> 现场结果提取 -> 运营分配 -> 检查项集合
 * @rules 缺少必需列时整体失败；门店编号被拒绝的行跳过并计数；同一检查项ID后出现的行覆盖先前的行
 * @dependencies inspection-review-service/service/sheet, service/identity, service/operator
 * @refs service/inspection/cache.go, service/review
 */

package inspection

import (
	"inspection-review-service/service/identity"
	"inspection-review-service/service/models"
	"inspection-review-service/service/operator"
	"inspection-review-service/service/sheet"
	"log/slog"
)

const (
	ColItemName     = "检查项名称"
	ColStoreName    = "门店名称"
	ColStoreID      = "门店编号"
	ColArea         = "所属区域"
	ColItemCategory = "检查项分类"
	ColFieldResult  = "现场结果"
)

var (
	requiredColumns = []sheet.Field{
		sheet.Col(ColItemName),
		sheet.Col(ColStoreName),
		sheet.Col(ColStoreID),
		sheet.Col(ColArea),
	}
	optionalColumns = []sheet.Field{
		sheet.Col(ColItemCategory),
		sheet.Col(ColFieldResult),
	}
)

// TransformResult 转换结果
type TransformResult struct {
	Items       []models.ChecklistItem
	SkippedRows int
}

// Transform 将检查项表转换为检查项列表
func Transform(table *sheet.Table, roster models.RosterIndex) (*TransformResult, error) {
	cols, err := table.Resolve(requiredColumns, optionalColumns)
	if err != nil {
		return nil, models.NewImportError(models.ErrorTypeValidation, "检查项文件格式不正确", err)
	}

	result := &TransformResult{}
	position := make(map[string]int, len(table.Rows))

	for i, row := range table.Rows {
		storeID, err := identity.Normalize(cols.Value(row, ColStoreID))
		if err != nil {
			slog.Warn("跳过门店编号异常的检查项", "row", i+2, "error", err)
			result.SkippedRows++
			continue
		}

		itemName := cols.String(row, ColItemName)
		imageURL, hasResult := ExtractFieldResult(cols.Value(row, ColFieldResult))
		item := models.ChecklistItem{
			ID:               models.ChecklistItemID(storeID, itemName),
			StoreID:          storeID,
			StoreName:        cols.String(row, ColStoreName),
			Area:             cols.String(row, ColArea),
			ItemName:         itemName,
			ItemCategory:     cols.String(row, ColItemCategory),
			EvidenceImageURL: imageURL,
			HasFieldResult:   hasResult,
			AssignedOperator: operator.ResolveByID(roster, storeID),
		}

		if idx, exists := position[item.ID]; exists {
			slog.Debug("检查项ID重复，使用后出现的行", "item_id", item.ID, "row", i+2)
			result.Items[idx] = item
			continue
		}
		position[item.ID] = len(result.Items)
		result.Items = append(result.Items, item)
	}
	return result, nil
}
