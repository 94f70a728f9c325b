/*
 * @module api/controllers/viewer_controller
 * @description 展示系统控制器：筛选项、级联筛选、检索、未匹配门店以及白名单/审核结果上传
 * @architecture MVC架构 - 控制器层
 * @documentReference DESIGN.md
 * @stateFlow HTTP请求 -> 参数解析 -> viewer/whitelist 服务 -> 统一响应
 * @rules 导入失败按错误分类返回400或500，并携带导入结果
 * @dependencies github.com/go-chi/render, service/viewer, service/whitelist
 * @refs api/routes.go
 */

package controllers

import (
	"inspection-review-service/service"
	"inspection-review-service/service/viewer"
	"net/http"

	"github.com/go-chi/render"
	"github.com/spf13/cast"
)

// ViewerController 展示系统控制器
type ViewerController struct {
	app *service.App
}

// NewViewerController 创建展示系统控制器实例
func NewViewerController(app *service.App) *ViewerController {
	return &ViewerController{app: app}
}

// GetFilters 获取筛选项
// @Summary 获取筛选项
// @Tags 展示
// @Produce json
// @Success 200 {object} APIResponse{data=viewer.Filters}
// @Router /api/viewer/filters [get]
func (c *ViewerController) GetFilters(w http.ResponseWriter, r *http.Request) {
	filters, err := c.app.Viewer.Filters(r.Context())
	if err != nil {
		renderError(w, r, "获取筛选项失败", err)
		return
	}
	render.JSON(w, r, SuccessResponse("获取筛选项成功", filters))
}

// GetProvinces 按战区获取省份
// @Summary 按战区获取省份
// @Tags 展示
// @Produce json
// @Param war_zone query string false "战区"
// @Success 200 {object} APIResponse
// @Router /api/viewer/filters/provinces [get]
func (c *ViewerController) GetProvinces(w http.ResponseWriter, r *http.Request) {
	provinces, err := c.app.Viewer.ProvincesByWarZone(r.Context(), r.URL.Query().Get("war_zone"))
	if err != nil {
		renderError(w, r, "获取省份失败", err)
		return
	}
	render.JSON(w, r, SuccessResponse("获取省份成功", provinces))
}

// GetCities 按省份获取城市
// @Summary 按省份获取城市
// @Tags 展示
// @Produce json
// @Param province query string false "省份"
// @Success 200 {object} APIResponse
// @Router /api/viewer/filters/cities [get]
func (c *ViewerController) GetCities(w http.ResponseWriter, r *http.Request) {
	cities, err := c.app.Viewer.CitiesByProvince(r.Context(), r.URL.Query().Get("province"))
	if err != nil {
		renderError(w, r, "获取城市失败", err)
		return
	}
	render.JSON(w, r, SuccessResponse("获取城市成功", cities))
}

// Search 检索审核结果
// @Summary 检索审核结果
// @Tags 展示
// @Produce json
// @Param store query string false "门店编号或门店名称"
// @Param war_zone query string false "战区"
// @Param province query string false "省份"
// @Param city query string false "城市"
// @Param review_result query string false "审核结果"
// @Param store_tag query string false "门店标签"
// @Param operator query string false "负责运营"
// @Param page query int false "页码" default(1)
// @Param per_page query int false "每页数量" default(9)
// @Success 200 {object} APIResponse{data=viewer.SearchResult}
// @Router /api/viewer/search [get]
func (c *ViewerController) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := viewer.SearchParams{
		StoreQuery:   q.Get("store"),
		WarZone:      q.Get("war_zone"),
		Province:     q.Get("province"),
		City:         q.Get("city"),
		ReviewResult: q.Get("review_result"),
		StoreTag:     q.Get("store_tag"),
		Operator:     q.Get("operator"),
		Page:         cast.ToInt(q.Get("page")),
		PerPage:      cast.ToInt(q.Get("per_page")),
	}
	result, err := c.app.Viewer.Search(r.Context(), params)
	if err != nil {
		renderError(w, r, "检索失败", err)
		return
	}
	render.JSON(w, r, SuccessResponse("检索成功", result))
}

// GetUnmatchedStores 获取未匹配门店
// @Summary 获取未匹配门店
// @Tags 展示
// @Produce json
// @Success 200 {object} APIResponse{data=viewer.UnmatchedReport}
// @Router /api/viewer/unmatched-stores [get]
func (c *ViewerController) GetUnmatchedStores(w http.ResponseWriter, r *http.Request) {
	report, err := c.app.Viewer.UnmatchedStores(r.Context())
	if err != nil {
		renderError(w, r, "获取未匹配门店失败", err)
		return
	}
	render.JSON(w, r, SuccessResponse("获取未匹配门店成功", report))
}

// UploadWhitelist 上传门店白名单
// @Summary 上传门店白名单
// @Description 整表替换门店白名单
// @Tags 展示
// @Accept multipart/form-data
// @Produce json
// @Param X-Operator header string true "操作人"
// @Param file formData file true "白名单表格"
// @Success 200 {object} APIResponse{data=models.ImportResult}
// @Failure 400 {object} APIResponse
// @Router /api/viewer/upload/whitelist [post]
func (c *ViewerController) UploadWhitelist(w http.ResponseWriter, r *http.Request) {
	file, name, err := openUpload(w, r, c.app.Config.MaxUploadMB)
	if err != nil {
		badRequest(w, r, "上传文件无效", err)
		return
	}
	defer file.Close()

	result := c.app.WhitelistImporter.ImportWhitelist(r.Context(), file, name)
	renderImportResult(w, r, "导入白名单", result)
}

// UploadReviews 上传审核结果
// @Summary 上传审核结果
// @Description 整表替换展示系统的审核结果
// @Tags 展示
// @Accept multipart/form-data
// @Produce json
// @Param X-Operator header string true "操作人"
// @Param file formData file true "审核结果CSV"
// @Success 200 {object} APIResponse{data=models.ImportResult}
// @Failure 400 {object} APIResponse
// @Router /api/viewer/upload/reviews [post]
func (c *ViewerController) UploadReviews(w http.ResponseWriter, r *http.Request) {
	file, name, err := openUpload(w, r, c.app.Config.MaxUploadMB)
	if err != nil {
		badRequest(w, r, "上传文件无效", err)
		return
	}
	defer file.Close()

	result := c.app.ReviewImporter.ImportReviews(r.Context(), file, name)
	renderImportResult(w, r, "导入审核结果", result)
}
