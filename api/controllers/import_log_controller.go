package controllers

import (
	"inspection-review-service/service"
	"inspection-review-service/service/models"
	"net/http"

	"github.com/go-chi/render"
	"github.com/spf13/cast"
)

// ImportLogController 导入记录控制器
type ImportLogController struct {
	app *service.App
}

// NewImportLogController 创建导入记录控制器实例
func NewImportLogController(app *service.App) *ImportLogController {
	return &ImportLogController{app: app}
}

// GetImportLogs 获取最近的导入记录
// @Summary 获取最近的导入记录
// @Tags 管理
// @Produce json
// @Param kind query string false "导入类型 whitelist/reviews/inspection"
// @Param limit query int false "数量" default(20)
// @Success 200 {object} APIResponse
// @Router /api/import-logs [get]
func (c *ImportLogController) GetImportLogs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	logs, err := c.app.ImportLogs.Recent(r.Context(), models.ImportKind(q.Get("kind")), cast.ToInt(q.Get("limit")))
	if err != nil {
		renderError(w, r, "获取导入记录失败", err)
		return
	}
	render.JSON(w, r, SuccessResponse("获取导入记录成功", logs))
}
