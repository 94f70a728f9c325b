/*
 * @module api/routes
 * @description API路由配置模块，负责初始化和配置所有HTTP路由
 * @architecture RESTful API架构
 * @documentReference DESIGN.md
 * @stateFlow 无状态HTTP请求处理
 * @rules 管理接口（周期重置、文件上传）需要管理员鉴权；统一响应格式
 * @dependencies github.com/go-chi/chi/v5, github.com/go-chi/cors, github.com/go-chi/render
 * @refs api/controllers, api/middleware
 */

package api

import (
	"inspection-review-service/api/controllers"
	authmw "inspection-review-service/api/middleware"
	"inspection-review-service/service"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
)

// InitRoute 初始化所有API路由
func InitRoute(r chi.Router, app *service.App) {
	// 基础中间件
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(render.SetContentType(render.ContentTypeJSON))

	// CORS配置
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", authmw.HeaderOperator, authmw.HeaderAdminToken},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// 健康检查
	healthController := controllers.NewHealthController(app)
	r.Get("/health", healthController.Health)
	r.Get("/ready", healthController.Ready)

	adminAuth := authmw.NewAdminAuthMiddleware(app.Config)

	r.Route("/api", func(r chi.Router) {
		// 审核
		reviewController := controllers.NewReviewController(app)
		r.Get("/items", reviewController.GetItems)
		r.Get("/operators", reviewController.GetOperators)
		r.Post("/review", reviewController.SubmitReview)
		r.Get("/reviews", reviewController.GetReviews)
		r.Post("/review/problem", reviewController.UpdateProblem)
		r.Get("/stats", reviewController.GetStats)
		r.Get("/export", reviewController.Export)

		// 导入记录
		importLogController := controllers.NewImportLogController(app)
		r.Get("/import-logs", importLogController.GetImportLogs)

		// 管理
		r.Route("/admin", func(r chi.Router) {
			r.Use(adminAuth.Handler)
			r.Post("/reset", reviewController.ResetReviews)
			r.With(uploadMiddlewares(app)...).Post("/upload", reviewController.UploadInspection)
		})

		// 展示系统
		r.Route("/viewer", func(r chi.Router) {
			viewerController := controllers.NewViewerController(app)
			r.Get("/filters", viewerController.GetFilters)
			r.Get("/filters/provinces", viewerController.GetProvinces)
			r.Get("/filters/cities", viewerController.GetCities)
			r.Get("/search", viewerController.Search)
			r.Get("/unmatched-stores", viewerController.GetUnmatchedStores)

			r.Group(func(r chi.Router) {
				r.Use(adminAuth.Handler)
				r.Use(uploadMiddlewares(app)...)
				r.Post("/upload/whitelist", viewerController.UploadWhitelist)
				r.Post("/upload/reviews", viewerController.UploadReviews)
			})
		})
	})
}

// uploadMiddlewares 上传接口的限流中间件，未启用限流时为空
func uploadMiddlewares(app *service.App) []func(http.Handler) http.Handler {
	if app.UploadLimiter == nil {
		return nil
	}
	return []func(http.Handler) http.Handler{authmw.UploadRateLimit(app.UploadLimiter)}
}
