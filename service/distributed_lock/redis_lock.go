/*
 * @module service/distributed_lock/redis_lock
 * @description Redis分布式锁实现，用于多实例环境下串行化整表替换类导入
 * @architecture 工具层 - 提供分布式锁能力
 * @documentReference DESIGN.md
 * @stateFlow 获取锁 -> 执行导入 -> 释放锁/自动过期
 * @rules 使用Redis SET NX实现，只有持有者才能释放锁
 * @dependencies github.com/go-redis/redis/v8
 * @refs service/whitelist, service/viewer, service/init.go
 */

package distributed_lock

import (
	"context"
	"fmt"
	"inspection-review-service/service/config"
	"log/slog"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const lockKeyPrefix = "inspection_import:lock:"

// releaseScript 值匹配时才删除，避免释放其他实例的锁
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// DistributedLock 分布式锁接口
type DistributedLock interface {
	// TryLock 尝试获取锁
	TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// Unlock 释放锁
	Unlock(ctx context.Context, key string) error
}

// NewRedisClient 按配置创建Redis客户端并检查连通性，锁与限流共用
func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("Redis连接失败: %w", err)
	}
	slog.Info("Redis连接成功", "host", cfg.Host, "port", cfg.Port, "db", cfg.DB)
	return client, nil
}

// RedisLock Redis分布式锁，锁的值为持有实例的标识
type RedisLock struct {
	client *redis.Client
	owner  string
}

// NewRedisLock 创建Redis分布式锁
func NewRedisLock(client *redis.Client) *RedisLock {
	hostname, _ := os.Hostname()
	return &RedisLock{
		client: client,
		owner:  fmt.Sprintf("%s:%d:%s", hostname, os.Getpid(), uuid.NewString()[:8]),
	}
}

// TryLock 尝试获取锁，key已存在时返回false
func (r *RedisLock) TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := r.client.SetNX(ctx, lockKeyPrefix+key, r.owner, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("获取锁失败: %w", err)
	}
	if ok {
		slog.Debug("获取导入锁", "key", key, "owner", r.owner)
	}
	return ok, nil
}

// Unlock 释放锁，锁已过期或被其他实例持有时只记录告警
func (r *RedisLock) Unlock(ctx context.Context, key string) error {
	n, err := releaseScript.Run(ctx, r.client, []string{lockKeyPrefix + key}, r.owner).Int()
	if err != nil {
		return fmt.Errorf("释放锁失败: %w", err)
	}
	if n == 0 {
		slog.Warn("导入锁已过期或不属于当前实例", "key", key, "owner", r.owner)
	}
	return nil
}
