package inspection

import (
	"encoding/json"
	"inspection-review-service/service/sheet"
	"regexp"
	"strings"
)

var imgSrcPattern = regexp.MustCompile(`src="([^"]+)"`)

// ExtractFieldResult 从"现场结果"单元格提取证据图片地址
// 单元格可能是JSON字符串数组、数组后拼接多余内容、<img>标签或直接的URL，格式异常时返回无结果
func ExtractFieldResult(raw interface{}) (string, bool) {
	text := sheet.Text(raw)
	if text == "" || text == "nan" || text == "NaN" {
		return "", false
	}

	data := text
	// ["url1"],url2 只取数组部分
	if strings.HasPrefix(data, "[") && strings.Contains(data, "],") {
		data = data[:strings.Index(data, "],")+1]
	}

	var parsed interface{}
	if err := json.Unmarshal([]byte(data), &parsed); err != nil {
		return fromLiteral(text)
	}

	list, ok := parsed.([]interface{})
	if !ok || len(list) == 0 {
		return "", false
	}
	first, ok := list[0].(string)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(strings.TrimSpace(first), "<img") {
		return srcOf(first)
	}
	return first, true
}

func fromLiteral(text string) (string, bool) {
	if strings.HasPrefix(text, "<img") {
		return srcOf(text)
	}
	return text, true
}

func srcOf(tag string) (string, bool) {
	m := imgSrcPattern.FindStringSubmatch(tag)
	if m == nil {
		return "", false
	}
	return m[1], true
}
