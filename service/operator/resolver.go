/*
 * @module service/operator/resolver
 * @description 负责运营分配：临时运营 > 省市运营 > 未分配
 * @architecture 领域服务 - 纯函数 + 等价SQL表达式
 * @documentReference DESIGN.md
 * @stateFlow 白名单记录 -> 负责运营
 * @rules 不回退到老运营或次运营；内存与SQL两条路径规则一致
 * @dependencies inspection-review-service/service/models
 * @refs service/inspection, service/viewer, service/whitelist
 */

package operator

import (
	"inspection-review-service/service/models"
	"strings"
)

// SQLExpr 与 Resolve 等价的SQL表达式，用于在查询中按负责运营筛选
const SQLExpr = "COALESCE(NULLIF(TRIM(store_whitelist.temp_operator), ''), NULLIF(TRIM(store_whitelist.city_operator), ''), '" + models.OperatorUnassigned + "')"

// Resolve 计算门店的负责运营
func Resolve(store models.StoreWhitelist) string {
	if op := strings.TrimSpace(store.TempOperator); op != "" {
		return op
	}
	if op := strings.TrimSpace(store.CityOperator); op != "" {
		return op
	}
	return models.OperatorUnassigned
}

// ResolveByID 在白名单索引中查找门店并计算负责运营，未找到时为未分配
func ResolveByID(roster models.RosterIndex, storeID string) string {
	store, ok := roster.Lookup(storeID)
	if !ok {
		return models.OperatorUnassigned
	}
	return Resolve(store)
}

// IsAll 是否表示不按运营筛选
func IsAll(operator string) bool {
	op := strings.TrimSpace(operator)
	return op == "" || op == "全部"
}
