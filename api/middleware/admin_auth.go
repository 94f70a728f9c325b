/*
 * @module api/middleware/admin_auth
 * @description 管理员鉴权中间件：校验操作人是否为管理员，配置了令牌哈希时同时校验管理员令牌
 * @architecture 中间件模式 - HTTP请求拦截和验证
 * @documentReference DESIGN.md
 * @stateFlow 读取 X-Operator -> 管理员名单校验 -> bcrypt 令牌校验 -> 上下文注入 -> 下一个处理器
 * @rules 未通过校验一律返回403，不区分失败原因
 * @dependencies golang.org/x/crypto/bcrypt, github.com/go-chi/render
 * @refs api/routes.go, service/config
 */

package middleware

import (
	"context"
	"inspection-review-service/service/config"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/render"
	"golang.org/x/crypto/bcrypt"
)

// ContextKey 上下文键类型
type ContextKey string

const (
	// OperatorKey 操作人在上下文中的键
	OperatorKey ContextKey = "operator"

	HeaderOperator   = "X-Operator"
	HeaderAdminToken = "X-Admin-Token"
)

// AdminAuthMiddleware 管理员鉴权中间件
type AdminAuthMiddleware struct {
	cfg *config.Config
}

// NewAdminAuthMiddleware 创建管理员鉴权中间件实例
func NewAdminAuthMiddleware(cfg *config.Config) *AdminAuthMiddleware {
	return &AdminAuthMiddleware{cfg: cfg}
}

// Handler 中间件处理函数
func (m *AdminAuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		operator := strings.TrimSpace(r.Header.Get(HeaderOperator))
		if !m.cfg.IsAdmin(operator) {
			slog.Warn("非管理员访问管理接口", "operator", operator, "path", r.URL.Path)
			forbid(w, r)
			return
		}

		if m.cfg.AdminTokenHash != "" {
			token := r.Header.Get(HeaderAdminToken)
			if err := bcrypt.CompareHashAndPassword([]byte(m.cfg.AdminTokenHash), []byte(token)); err != nil {
				slog.Warn("管理员令牌校验失败", "operator", operator, "path", r.URL.Path)
				forbid(w, r)
				return
			}
		}

		ctx := context.WithValue(r.Context(), OperatorKey, operator)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OperatorFromContext 从上下文读取操作人
func OperatorFromContext(ctx context.Context) string {
	op, _ := ctx.Value(OperatorKey).(string)
	return op
}

func forbid(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusForbidden)
	render.JSON(w, r, map[string]interface{}{
		"status": http.StatusForbidden,
		"msg":    "需要管理员权限",
	})
}
