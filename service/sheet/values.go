package sheet

import (
	"math"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// IsEmpty 单元格是否为空（nil、NaN、空白字符串）
func IsEmpty(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return true
	case float64:
		return math.IsNaN(val)
	case string:
		return strings.TrimSpace(val) == ""
	}
	return false
}

// Text 单元格转文本，数值不带多余的小数位
func Text(v interface{}) string {
	if IsEmpty(v) {
		return ""
	}
	return strings.TrimSpace(cast.ToString(v))
}

// Time 解析时间单元格，无法解析时返回 nil
func Time(v interface{}) *time.Time {
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return nil
	}
	t, err := cast.ToTimeInDefaultLocationE(strings.TrimSpace(s), time.Local)
	if err != nil {
		return nil
	}
	return &t
}
