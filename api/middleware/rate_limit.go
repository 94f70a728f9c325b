package middleware

import (
	"inspection-review-service/service/rate_limiter"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/render"
)

// UploadRateLimit 按操作人限制上传频率，限流器异常时放行
func UploadRateLimit(limiter rate_limiter.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			operator := OperatorFromContext(r.Context())
			if operator == "" {
				operator = strings.TrimSpace(r.Header.Get(HeaderOperator))
			}

			result, err := limiter.Allow(r.Context(), operator)
			if err != nil {
				slog.Warn("限流检查失败，放行请求", "operator", operator, "error", err)
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt, 10))
			if !result.Allowed {
				slog.Warn("上传过于频繁", "operator", operator, "path", r.URL.Path)
				render.Status(r, http.StatusTooManyRequests)
				render.JSON(w, r, map[string]interface{}{
					"status": http.StatusTooManyRequests,
					"msg":    "上传过于频繁，请稍后再试",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
