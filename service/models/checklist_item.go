package models

// ChecklistItem 检查项（每次加载检查项表时重建，不单独落库）
type ChecklistItem struct {
	ID               string `json:"id"`
	StoreID          string `json:"store_id"`
	StoreName        string `json:"store_name"`
	Area             string `json:"area"`
	ItemName         string `json:"item_name"`
	ItemCategory     string `json:"item_category"`
	EvidenceImageURL string `json:"evidence_image_url"`
	HasFieldResult   bool   `json:"has_field_result"`
	AssignedOperator string `json:"assigned_operator"`
}

// ChecklistItemID 生成检查项复合键 "{门店编号}_{检查项名称}"
func ChecklistItemID(storeID, itemName string) string {
	return storeID + "_" + itemName
}
