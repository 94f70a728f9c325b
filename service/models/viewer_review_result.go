/*
 * @module service/models/viewer_review_result
 * @description 展示系统的审核结果表，由导出的审核结果CSV整表导入
 * @architecture 数据模型层
 * @documentReference DESIGN.md
 * @stateFlow CSV导入（整表替换） -> 筛选查询 / 未匹配门店统计
 * @rules 地理信息缺失且白名单无此门店时写入"[未匹配]"，匹配状态单独存储
 * @dependencies gorm.io/gorm
 * @refs service/viewer
 */

package models

import "time"

// GeoUnmatched 白名单中找不到门店且行内也未提供地理信息时的占位值
const GeoUnmatched = "[未匹配]"

// MatchState 导入行与白名单的匹配状态
type MatchState string

const (
	MatchStateMatched   MatchState = "matched"   // 白名单命中
	MatchStateInline    MatchState = "inline"    // 白名单未命中，但行内提供了地理信息
	MatchStateUnmatched MatchState = "unmatched" // 白名单未命中，行内也没有地理信息
)

// ViewerReviewResult 展示系统审核结果
type ViewerReviewResult struct {
	ID           uint       `json:"id" gorm:"primaryKey;autoIncrement"`
	StoreName    string     `json:"store_name" gorm:"not null;size:255"`
	StoreID      string     `json:"store_id" gorm:"not null;size:50;index:idx_viewer_store_id"`
	WarZone      string     `json:"war_zone" gorm:"size:50;index:idx_viewer_war_zone;index:idx_viewer_composite,priority:1"`
	Province     string     `json:"province" gorm:"size:50;index:idx_viewer_province;index:idx_viewer_composite,priority:2"`
	City         string     `json:"city" gorm:"size:50;index:idx_viewer_city;index:idx_viewer_composite,priority:3"`
	Area         string     `json:"area" gorm:"size:255"`
	ItemName     string     `json:"item_name" gorm:"not null;size:255"`
	ItemCategory string     `json:"item_category" gorm:"size:100"`
	ImageURL     string     `json:"image_url" gorm:"type:text"`
	ReviewResult string     `json:"review_result" gorm:"not null;size:50;index:idx_viewer_review_result;index:idx_viewer_composite,priority:4"`
	ProblemNote  string     `json:"problem_note" gorm:"type:text"`
	ReviewTime   *time.Time `json:"review_time"`
	ImportTime   time.Time  `json:"import_time"`
	MatchState   MatchState `json:"match_state" gorm:"size:20;index:idx_viewer_match_state"`
}

// TableName 指定表名
func (ViewerReviewResult) TableName() string {
	return "viewer_review_results"
}
