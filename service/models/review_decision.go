/*
 * @module service/models/review_decision
 * @description 审核决定台账模型，按检查项ID唯一
 * @architecture 数据模型层
 * @documentReference DESIGN.md
 * @stateFlow 首次提交/自动判不合格 -> 重复提交或修改描述（upsert） -> 新周期清空
 * @rules 每个检查项ID至多一条记录，写入一律走upsert
 * @dependencies gorm.io/gorm
 * @refs service/review
 */

package models

import (
	"strings"
	"time"
)

// ReviewResult 审核结果
type ReviewResult string

const (
	ReviewPass ReviewResult = "合格"
	ReviewFail ReviewResult = "不合格"
)

// NoFieldResultNote 自动判定不合格时写入的问题描述
const NoFieldResultNote = "无现场结果"

// ParseReviewResult 解析审核结果，兼容英文 pass/fail
func ParseReviewResult(s string) (ReviewResult, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(ReviewPass), "pass":
		return ReviewPass, true
	case string(ReviewFail), "fail":
		return ReviewFail, true
	}
	return "", false
}

// ReviewDecision 审核决定
type ReviewDecision struct {
	ItemID       string       `json:"item_id" gorm:"primaryKey;size:255"`
	StoreName    string       `json:"store_name" gorm:"not null;size:255"`
	StoreID      string       `json:"store_id" gorm:"not null;size:50;index;index:idx_store_review,priority:1"`
	Area         string       `json:"area" gorm:"size:255"`
	ItemName     string       `json:"item_name" gorm:"not null;size:255"`
	ImageURL     string       `json:"image_url" gorm:"type:text"`
	ReviewResult ReviewResult `json:"review_result" gorm:"not null;size:50;index:idx_store_review,priority:2"`
	ProblemNote  string       `json:"problem_note" gorm:"type:text"`
	ReviewTime   time.Time    `json:"review_time" gorm:"index:idx_review_time"`
}

// TableName 指定表名
func (ReviewDecision) TableName() string {
	return "store_inspection_reviews"
}

// IsComplete 是否算作已完成：不合格项必须填写问题描述
func (d ReviewDecision) IsComplete() bool {
	if d.ReviewResult == ReviewFail {
		return strings.TrimSpace(d.ProblemNote) != ""
	}
	return true
}
