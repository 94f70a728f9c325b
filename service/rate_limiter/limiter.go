/*
 * @module service/rate_limiter/limiter
 * @description 上传接口限流：按操作人在固定时间窗口内计数，支持Redis分布式计数与进程内计数
 * @architecture 工具层 - 提供限流能力
 * @documentReference DESIGN.md
 * @stateFlow 构造窗口Key -> 计数 -> 判断是否超限
 * @rules 同一窗口内超过上限的请求被拒绝，窗口过期后计数归零
 * @dependencies github.com/go-redis/redis/v8
 * @refs api/middleware/rate_limit.go, service/init.go
 */

package rate_limiter

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Result 限流检查结果
type Result struct {
	Allowed   bool  `json:"allowed"`   // 是否允许请求
	Limit     int   `json:"limit"`     // 窗口内上限
	Remaining int   `json:"remaining"` // 剩余次数
	ResetAt   int64 `json:"reset_at"`  // 窗口重置时间（Unix时间戳）
}

// Limiter 限流器
type Limiter interface {
	Allow(ctx context.Context, key string) (*Result, error)
}

// windowKey 当前窗口的计数Key
func windowKey(key string, window time.Duration, now time.Time) (string, time.Time) {
	seconds := int64(window / time.Second)
	if seconds <= 0 {
		seconds = 1
	}
	slot := now.Unix() / seconds
	resetAt := time.Unix((slot+1)*seconds, 0)
	return fmt.Sprintf("rate_limit:upload:%s:%d", key, slot), resetAt
}

func newResult(count, limit int, resetAt time.Time) *Result {
	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}
	return &Result{
		Allowed:   count <= limit,
		Limit:     limit,
		Remaining: remaining,
		ResetAt:   resetAt.Unix(),
	}
}

// LocalLimiter 进程内限流器，未配置Redis时使用
type LocalLimiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	windows map[string]localWindow
	now     func() time.Time
}

type localWindow struct {
	key   string
	count int
}

// NewLocalLimiter 创建进程内限流器
func NewLocalLimiter(limit int, window time.Duration) *LocalLimiter {
	return &LocalLimiter{
		limit:   limit,
		window:  window,
		windows: make(map[string]localWindow),
		now:     time.Now,
	}
}

// Allow 计数并判断是否超限，每个key只保留当前窗口
func (l *LocalLimiter) Allow(ctx context.Context, key string) (*Result, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	k, resetAt := windowKey(key, l.window, l.now())
	w := l.windows[key]
	if w.key != k {
		w = localWindow{key: k}
	}
	if w.count >= l.limit {
		return newResult(w.count+1, l.limit, resetAt), nil
	}
	w.count++
	l.windows[key] = w
	return newResult(w.count, l.limit, resetAt), nil
}
