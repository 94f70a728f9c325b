package controllers

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
)

var allowedUploadExts = map[string]bool{".xlsx": true, ".xlsm": true, ".csv": true}

// openUpload 读取 multipart 表单中的 file 字段
func openUpload(w http.ResponseWriter, r *http.Request, maxMB int64) (multipart.File, string, error) {
	if maxMB <= 0 {
		maxMB = 16
	}
	limit := maxMB << 20
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(limit); err != nil {
		return nil, "", fmt.Errorf("解析上传表单失败: %w", err)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, "", errMissingFile
	}
	name := filepath.Base(header.Filename)
	if !allowedUploadExts[strings.ToLower(filepath.Ext(name))] {
		file.Close()
		return nil, "", fmt.Errorf("不支持的文件类型: %s", name)
	}
	return file, name, nil
}
