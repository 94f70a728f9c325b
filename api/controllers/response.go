package controllers

import (
	"errors"
	"inspection-review-service/service/models"
	"net/http"

	"github.com/go-chi/render"
)

// APIResponse 统一API响应结构
type APIResponse struct {
	Status int         `json:"status" example:"0"`
	Msg    string      `json:"msg" example:"操作成功"`
	Data   interface{} `json:"data,omitempty"`
}

// SuccessResponse 成功响应
func SuccessResponse(msg string, data interface{}) APIResponse {
	return APIResponse{Status: 0, Msg: msg, Data: data}
}

// BadRequestResponse 参数错误响应
func BadRequestResponse(msg string, err error) APIResponse {
	return APIResponse{Status: http.StatusBadRequest, Msg: withCause(msg, err)}
}

// NotFoundResponse 记录不存在响应
func NotFoundResponse(msg string, err error) APIResponse {
	return APIResponse{Status: http.StatusNotFound, Msg: withCause(msg, err)}
}

// InternalErrorResponse 服务内部错误响应
func InternalErrorResponse(msg string, err error) APIResponse {
	return APIResponse{Status: http.StatusInternalServerError, Msg: withCause(msg, err)}
}

func withCause(msg string, err error) string {
	if err == nil {
		return msg
	}
	return msg + ": " + err.Error()
}

// renderError 按错误分类输出响应，HTTP状态码与响应体中的 status 一致
func renderError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	var resp APIResponse
	switch models.ErrorTypeOf(err) {
	case models.ErrorTypeValidation, models.ErrorTypeParse:
		resp = BadRequestResponse(msg, err)
	case models.ErrorTypeNotFound:
		resp = NotFoundResponse(msg, err)
	default:
		resp = InternalErrorResponse(msg, err)
	}
	render.Status(r, resp.Status)
	render.JSON(w, r, resp)
}

// renderImportResult 输出导入结果，失败时按错误分类设置状态码
func renderImportResult(w http.ResponseWriter, r *http.Request, msg string, result models.ImportResult) {
	if result.Success {
		render.JSON(w, r, SuccessResponse(msg+"成功", result))
		return
	}
	status := http.StatusInternalServerError
	switch result.ErrorType {
	case models.ErrorTypeValidation, models.ErrorTypeParse:
		status = http.StatusBadRequest
	}
	render.Status(r, status)
	render.JSON(w, r, APIResponse{Status: status, Msg: msg + "失败: " + result.ErrorMessage, Data: result})
}

// badRequest 直接输出参数错误
func badRequest(w http.ResponseWriter, r *http.Request, msg string, err error) {
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, BadRequestResponse(msg, err))
}

var errMissingFile = errors.New("缺少上传文件字段 file")
