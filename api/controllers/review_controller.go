/*
 * @module api/controllers/review_controller
 * @description 审核控制器：检查项列表、提交审核、修改问题描述、进度统计、导出以及管理员周期操作
 * @architecture MVC架构 - 控制器层
 * @documentReference DESIGN.md
 * @stateFlow HTTP请求 -> 参数解析 -> review/export 服务 -> 统一响应
 * @rules 记录不存在返回404，参数错误返回400；导出直接返回CSV文件
 * @dependencies github.com/go-chi/render, service/review, service/export
 * @refs api/routes.go
 */

package controllers

import (
	"fmt"
	"inspection-review-service/service"
	"inspection-review-service/service/review"
	"net/http"
	"net/url"

	"github.com/go-chi/render"
)

// ReviewController 审核控制器
type ReviewController struct {
	app *service.App
}

// NewReviewController 创建审核控制器实例
func NewReviewController(app *service.App) *ReviewController {
	return &ReviewController{app: app}
}

// ItemsResponse 检查项列表
type ItemsResponse struct {
	Items []review.ItemView `json:"items"`
	Total int               `json:"total" example:"120"`
}

// GetItems 获取检查项列表
// @Summary 获取检查项列表
// @Description 按负责运营筛选当前周期的检查项，附带已有审核决定
// @Tags 审核
// @Produce json
// @Param operator query string false "负责运营，全部或为空表示不筛选"
// @Success 200 {object} APIResponse{data=ItemsResponse}
// @Failure 500 {object} APIResponse
// @Router /api/items [get]
func (c *ReviewController) GetItems(w http.ResponseWriter, r *http.Request) {
	items, err := c.app.Reviews.Items(r.Context(), r.URL.Query().Get("operator"))
	if err != nil {
		renderError(w, r, "获取检查项失败", err)
		return
	}
	render.JSON(w, r, SuccessResponse("获取检查项成功", ItemsResponse{Items: items, Total: len(items)}))
}

// GetOperators 获取负责运营列表
// @Summary 获取负责运营列表
// @Tags 审核
// @Produce json
// @Success 200 {object} APIResponse
// @Router /api/operators [get]
func (c *ReviewController) GetOperators(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, SuccessResponse("获取运营列表成功", c.app.Reviews.Operators()))
}

// SubmitReview 提交审核决定
// @Summary 提交审核决定
// @Description 同一检查项重复提交时覆盖旧决定
// @Tags 审核
// @Accept json
// @Produce json
// @Param request body review.SubmitRequest true "审核决定"
// @Success 200 {object} APIResponse
// @Failure 400 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /api/review [post]
func (c *ReviewController) SubmitReview(w http.ResponseWriter, r *http.Request) {
	var req review.SubmitRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		badRequest(w, r, "请求参数格式错误", err)
		return
	}
	decision, err := c.app.Reviews.Submit(r.Context(), req)
	if err != nil {
		renderError(w, r, "提交审核失败", err)
		return
	}
	render.JSON(w, r, SuccessResponse("提交审核成功", decision))
}

// GetReviews 获取全部审核决定
// @Summary 获取全部审核决定
// @Tags 审核
// @Produce json
// @Success 200 {object} APIResponse
// @Router /api/reviews [get]
func (c *ReviewController) GetReviews(w http.ResponseWriter, r *http.Request) {
	decisions, err := c.app.Reviews.Store().ByItemID(r.Context())
	if err != nil {
		renderError(w, r, "获取审核决定失败", err)
		return
	}
	render.JSON(w, r, SuccessResponse("获取审核决定成功", decisions))
}

// UpdateProblem 修改问题描述
// @Summary 修改问题描述
// @Tags 审核
// @Accept json
// @Produce json
// @Param request body review.NoteRequest true "问题描述"
// @Success 200 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /api/review/problem [post]
func (c *ReviewController) UpdateProblem(w http.ResponseWriter, r *http.Request) {
	var req review.NoteRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		badRequest(w, r, "请求参数格式错误", err)
		return
	}
	decision, err := c.app.Reviews.UpdateNote(r.Context(), req)
	if err != nil {
		renderError(w, r, "修改问题描述失败", err)
		return
	}
	render.JSON(w, r, SuccessResponse("修改问题描述成功", decision))
}

// GetStats 获取完成进度
// @Summary 获取完成进度
// @Description 门店全部检查项都有决定且不合格项均填写问题描述时计为完成
// @Tags 审核
// @Produce json
// @Param operator query string false "负责运营"
// @Success 200 {object} APIResponse{data=review.Progress}
// @Router /api/stats [get]
func (c *ReviewController) GetStats(w http.ResponseWriter, r *http.Request) {
	progress, err := c.app.Reviews.Progress(r.Context(), r.URL.Query().Get("operator"))
	if err != nil {
		renderError(w, r, "获取进度失败", err)
		return
	}
	render.JSON(w, r, SuccessResponse("获取进度成功", progress))
}

// Export 导出审核结果CSV
// @Summary 导出审核结果CSV
// @Tags 审核
// @Produce text/csv
// @Success 200 {file} file
// @Failure 500 {object} APIResponse
// @Router /api/export [get]
func (c *ReviewController) Export(w http.ResponseWriter, r *http.Request) {
	file, err := c.app.Exporter.Generate(r.Context())
	if err != nil {
		renderError(w, r, "导出失败", err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"export.csv\"; filename*=UTF-8''%s", url.PathEscape(file.Name)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(file.Content))
}

// ResetReviews 重置当前周期
// @Summary 重置当前周期
// @Description 清空审核决定并重新自动判定无现场结果的检查项
// @Tags 管理
// @Produce json
// @Param X-Operator header string true "操作人"
// @Success 200 {object} APIResponse{data=review.CycleResult}
// @Failure 403 {object} APIResponse
// @Router /api/admin/reset [post]
func (c *ReviewController) ResetReviews(w http.ResponseWriter, r *http.Request) {
	result, err := c.app.Reviews.ResetCycle(r.Context())
	if err != nil {
		renderError(w, r, "重置失败", err)
		return
	}
	render.JSON(w, r, SuccessResponse("重置成功", result))
}

// UploadInspection 上传检查项文件并开始新周期
// @Summary 上传检查项文件
// @Description 文件解析成功后清空审核决定并开始新周期
// @Tags 管理
// @Accept multipart/form-data
// @Produce json
// @Param X-Operator header string true "操作人"
// @Param file formData file true "检查项表格"
// @Success 200 {object} APIResponse{data=review.CycleResult}
// @Failure 400 {object} APIResponse
// @Failure 403 {object} APIResponse
// @Router /api/admin/upload [post]
func (c *ReviewController) UploadInspection(w http.ResponseWriter, r *http.Request) {
	file, name, err := openUpload(w, r, c.app.Config.MaxUploadMB)
	if err != nil {
		badRequest(w, r, "上传文件无效", err)
		return
	}
	defer file.Close()

	result, err := c.app.Reviews.StartCycle(r.Context(), file, name)
	if err != nil {
		renderError(w, r, "加载检查项失败", err)
		return
	}
	render.JSON(w, r, SuccessResponse("加载检查项成功", result))
}
