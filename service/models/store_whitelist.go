/*
 * @module service/models/store_whitelist
 * @description 门店白名单模型，保存门店地理信息与运营人员分配
 * @architecture 数据模型层
 * @documentReference DESIGN.md
 * @stateFlow 白名单导入（整表替换） -> 运营分配 / 地理信息补全 / 筛选查询
 * @rules 每个门店ID仅一行，门店ID为规范化后的字符串
 * @dependencies gorm.io/gorm
 * @refs service/whitelist, service/operator
 */

package models

// StoreWhitelist 门店白名单（门店花名册）
type StoreWhitelist struct {
	StoreID         string `json:"store_id" gorm:"primaryKey;size:50"`
	Province        string `json:"province" gorm:"size:50;index:idx_whitelist_province"`
	City            string `json:"city" gorm:"size:50;index:idx_whitelist_city"`
	StoreName       string `json:"store_name" gorm:"size:255"`
	WarZone         string `json:"war_zone" gorm:"size:50;index:idx_whitelist_war_zone"`
	StoreTag        string `json:"store_tag" gorm:"size:100;index:idx_whitelist_store_tag"`
	OldOperator     string `json:"old_operator" gorm:"size:50"`
	CityOperator    string `json:"city_operator" gorm:"size:50;index:idx_city_operator"`
	TempOperator    string `json:"temp_operator" gorm:"size:50"`
	SubOperator     string `json:"sub_operator" gorm:"size:50"`
	RegionalManager string `json:"regional_manager" gorm:"size:50"`
	BusinessStatus  string `json:"business_status" gorm:"size:50"`
	MenuVersion     string `json:"menu_version" gorm:"size:50"`
}

// TableName 指定表名
func (StoreWhitelist) TableName() string {
	return "store_whitelist"
}

// RosterIndex 门店ID到白名单记录的只读索引
type RosterIndex map[string]StoreWhitelist

// Lookup 按门店ID查找白名单记录
func (r RosterIndex) Lookup(storeID string) (StoreWhitelist, bool) {
	if r == nil {
		return StoreWhitelist{}, false
	}
	entry, ok := r[storeID]
	return entry, ok
}
