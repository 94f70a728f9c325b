package distributed_lock

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// ImportLockKey 所有整表替换导入共用的锁
const ImportLockKey = "table_replace"

// LockExecutor 带锁执行器，用于简化锁的使用
type LockExecutor struct {
	lock         DistributedLock
	ttl          time.Duration
	pollInterval time.Duration
}

// NewLockExecutor 创建带锁执行器，lock 为 nil 时使用进程内锁
func NewLockExecutor(lock DistributedLock) *LockExecutor {
	if lock == nil {
		lock = NewLocalLock()
	}
	return &LockExecutor{
		lock:         lock,
		ttl:          5 * time.Minute,
		pollInterval: 100 * time.Millisecond,
	}
}

// ExecuteWithLock 等待获取锁后执行函数，ctx 取消时放弃等待
func (e *LockExecutor) ExecuteWithLock(ctx context.Context, key string, fn func() error) error {
	if err := e.acquire(ctx, key); err != nil {
		return err
	}

	// 确保函数执行完毕后释放锁
	defer func() {
		if unlockErr := e.lock.Unlock(context.Background(), key); unlockErr != nil {
			slog.Error("分布式锁: 释放锁失败", "key", key, "error", unlockErr)
		}
	}()

	return fn()
}

func (e *LockExecutor) acquire(ctx context.Context, key string) error {
	ticker := time.NewTicker(e.pollInterval)
	defer ticker.Stop()

	for {
		locked, err := e.lock.TryLock(ctx, key, e.ttl)
		if err != nil {
			return fmt.Errorf("获取锁失败: %w", err)
		}
		if locked {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("等待锁超时: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}
