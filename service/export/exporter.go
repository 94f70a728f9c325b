/*
 * @module service/export/exporter
 * @description 审核结果CSV导出：审核决定关联检查项与白名单地理信息
 * @architecture 分层架构 - 业务服务层
 * @documentReference DESIGN.md
 * @stateFlow 审核决定 + 当前检查项 + 白名单 -> CSV（UTF-8 BOM）-> 下载 / 归档
 * @rules 只导出既有决定又在当前检查项中的记录；白名单无此门店时地理信息为空；没有可导出的记录时仅输出BOM
 * @dependencies service/models
 * @refs service/viewer（导出文件即审核结果导入的输入）
 */

package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"inspection-review-service/service/models"
	"time"
)

// BOM UTF-8 字节顺序标记，便于表格软件识别编码
const BOM = "\ufeff"

const reviewTimeLayout = "2006-01-02 15:04:05"

// Columns 导出列顺序
var Columns = []string{
	"门店名称", "门店编号", "战区", "省份", "城市", "所属区域", "检查项名称",
	"检查项分类", "负责运营", "标准图", "审核结果", "问题描述", "审核时间",
}

// Filename 导出文件名
func Filename(t time.Time) string {
	return fmt.Sprintf("审核结果_%s.csv", t.Format("2006-01-02"))
}

// Export 生成审核结果CSV，按检查项原始顺序输出
func Export(decisions map[string]models.ReviewDecision, items []models.ChecklistItem, roster models.RosterIndex) (string, int, error) {
	var buf bytes.Buffer
	buf.WriteString(BOM)
	if len(decisions) == 0 {
		return buf.String(), 0, nil
	}

	w := csv.NewWriter(&buf)
	rows := 0
	for _, item := range items {
		d, ok := decisions[item.ID]
		if !ok {
			continue
		}
		// 表头在第一条匹配记录前写入
		if rows == 0 {
			if err := w.Write(Columns); err != nil {
				return "", 0, fmt.Errorf("写入表头失败: %w", err)
			}
		}
		// 地理信息只取自白名单，不使用未匹配占位值
		store, _ := roster.Lookup(item.StoreID)
		record := []string{
			item.StoreName,
			item.StoreID,
			store.WarZone,
			store.Province,
			store.City,
			item.Area,
			item.ItemName,
			item.ItemCategory,
			item.AssignedOperator,
			d.ImageURL,
			string(d.ReviewResult),
			d.ProblemNote,
			formatTime(d.ReviewTime),
		}
		if err := w.Write(record); err != nil {
			return "", 0, fmt.Errorf("写入导出行失败: %w", err)
		}
		rows++
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", 0, fmt.Errorf("生成CSV失败: %w", err)
	}
	return buf.String(), rows, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(reviewTimeLayout)
}
