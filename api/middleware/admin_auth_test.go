package middleware

import (
	"inspection-review-service/service/config"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestAdminAuthMiddleware(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	withToken := config.Default()
	withToken.AdminTokenHash = string(hash)

	tests := []struct {
		name     string
		cfg      *config.Config
		operator string
		token    string
		expected int
	}{
		{"管理员无令牌配置", config.Default(), "admin", "", http.StatusOK},
		{"非管理员", config.Default(), "Zhao", "", http.StatusForbidden},
		{"缺少操作人", config.Default(), "", "", http.StatusForbidden},
		{"令牌正确", withToken, "admin", "s3cret", http.StatusOK},
		{"令牌错误", withToken, "admin", "wrong", http.StatusForbidden},
		{"缺少令牌", withToken, "admin", "", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = OperatorFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodPost, "/api/admin/reset", nil)
			if tt.operator != "" {
				req.Header.Set(HeaderOperator, tt.operator)
			}
			if tt.token != "" {
				req.Header.Set(HeaderAdminToken, tt.token)
			}
			w := httptest.NewRecorder()
			NewAdminAuthMiddleware(tt.cfg).Handler(next).ServeHTTP(w, req)

			assert.Equal(t, tt.expected, w.Code)
			if tt.expected == http.StatusOK {
				assert.Equal(t, tt.operator, seen)
			}
		})
	}
}
