/*
 * @module service/identity/normalizer
 * @description 门店编号规范化，白名单导入、检查项加载、审核结果导入共用同一规则
 * @architecture 领域服务 - 纯函数
 * @documentReference DESIGN.md
 * @stateFlow 原始单元格 -> 规范门店编号 / 拒绝
 * @rules 空值拒绝；数值截断取整；含"-"的文本拒绝；其余去首尾空白后原样保留
 * @dependencies github.com/spf13/cast
 * @refs service/whitelist, service/inspection, service/viewer
 */

package identity

import (
	"errors"
	"math"
	"strings"

	"github.com/spf13/cast"
)

var (
	// ErrEmptyStoreID 门店编号为空
	ErrEmptyStoreID = errors.New("门店编号为空")
	// ErrMalformedStoreID 门店编号格式异常（含"-"）
	ErrMalformedStoreID = errors.New("门店编号格式异常")
)

// Normalize 将原始单元格值转换为规范门店编号
func Normalize(raw interface{}) (string, error) {
	switch v := raw.(type) {
	case nil:
		return "", ErrEmptyStoreID
	case float64:
		return normalizeFloat(v)
	case float32:
		return normalizeFloat(float64(v))
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return cast.ToString(v), nil
	case string:
		return normalizeText(v)
	default:
		return normalizeText(cast.ToString(v))
	}
}

func normalizeFloat(v float64) (string, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "", ErrEmptyStoreID
	}
	return cast.ToString(int64(math.Trunc(v))), nil
}

func normalizeText(s string) (string, error) {
	if strings.Contains(s, "-") {
		return "", ErrMalformedStoreID
	}
	trimmed := strings.TrimSpace(s)
	switch trimmed {
	case "":
		return "", ErrEmptyStoreID
	case "nan", "NaN":
		return "", ErrEmptyStoreID
	}
	return trimmed, nil
}

// IsDigits 是否为纯数字编号
func IsDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
