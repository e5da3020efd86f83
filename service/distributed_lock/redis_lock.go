/*
 * @module service/distributed_lock/redis_lock
 * @description 会话锁的Redis实现，用于多实例部署下同一会话的请求串行化
 * @architecture 工具层 - 提供分布式锁能力
 * @documentReference DESIGN.md
 * @stateFlow 获取锁（重试直到超时） -> 执行会话操作 -> 释放锁/自动过期
 * @rules 使用Redis SET NX实现，每次加锁使用独立令牌，只有持有者能释放
 * @dependencies github.com/go-redis/redis/v8, github.com/google/uuid
 * @refs service/session/service.go, client/connectors/redis_connector.go
 */

package distributed_lock

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const (
	lockKeyPrefix      = "valuation:session:lock:"
	defaultLockTTL     = 30 * time.Second
	defaultRetryPeriod = 50 * time.Millisecond
)

// Lua脚本：检查锁的持有者是否是当前令牌，是则删除
var unlockScript = redis.NewScript(`
	if redis.call("get", KEYS[1]) == ARGV[1] then
		return redis.call("del", KEYS[1])
	else
		return 0
	end
`)

// Lua脚本：检查锁的持有者是否是当前令牌，是则刷新过期时间
var refreshScript = redis.NewScript(`
	if redis.call("get", KEYS[1]) == ARGV[1] then
		return redis.call("pexpire", KEYS[1], ARGV[2])
	else
		return 0
	end
`)

// RedisLock Redis会话锁实现
type RedisLock struct {
	client      *redis.Client
	instanceID  string // 实例ID，用于标识锁的持有者
	ttl         time.Duration
	retryPeriod time.Duration
}

// NewRedisLock 基于已建立的Redis客户端创建会话锁
func NewRedisLock(client *redis.Client, ttl time.Duration) *RedisLock {
	if ttl <= 0 {
		ttl = defaultLockTTL
	}

	// 生成实例ID（使用主机名+进程ID）
	hostname, _ := os.Hostname()
	instanceID := fmt.Sprintf("%s:%d", hostname, os.Getpid())

	slog.Info("Redis会话锁初始化成功", "instance_id", instanceID, "ttl", ttl)

	return &RedisLock{
		client:      client,
		instanceID:  instanceID,
		ttl:         ttl,
		retryPeriod: defaultRetryPeriod,
	}
}

// TryLock 尝试获取锁，成功时返回持有令牌
// 使用SET NX命令，只有当key不存在时才会设置成功
func (r *RedisLock) TryLock(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	token := r.instanceID + ":" + uuid.NewString()

	ok, err := r.client.SetNX(ctx, lockKeyPrefix+key, token, ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("获取锁失败: %w", err)
	}
	if !ok {
		return "", false, nil
	}

	slog.Debug("会话锁: 成功获取锁", "key", key, "ttl", ttl, "instance", r.instanceID)
	return token, true, nil
}

// Lock 阻塞获取会话锁，直到成功或上下文结束
func (r *RedisLock) Lock(ctx context.Context, key string) (func(), error) {
	for {
		token, ok, err := r.TryLock(ctx, key, r.ttl)
		if err != nil {
			return nil, err
		}
		if ok {
			return func() {
				// 释放不跟随请求上下文，避免请求取消后锁残留到过期
				unlockCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
				defer cancel()
				if err := r.Unlock(unlockCtx, key, token); err != nil {
					slog.Error("会话锁: 释放锁失败", "key", key, "error", err)
				}
			}, nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("等待会话锁超时 %s: %w", key, ctx.Err())
		case <-time.After(r.retryPeriod):
		}
	}
}

// Unlock 释放锁
func (r *RedisLock) Unlock(ctx context.Context, key, token string) error {
	result, err := unlockScript.Run(ctx, r.client, []string{lockKeyPrefix + key}, token).Int64()
	if err != nil {
		return fmt.Errorf("释放锁失败: %w", err)
	}

	if result == 1 {
		slog.Debug("会话锁: 成功释放锁", "key", key)
	} else {
		slog.Warn("会话锁: 锁不存在或已被其他持有者获取", "key", key)
	}
	return nil
}

// Refresh 刷新锁的过期时间
func (r *RedisLock) Refresh(ctx context.Context, key, token string, ttl time.Duration) error {
	result, err := refreshScript.Run(ctx, r.client, []string{lockKeyPrefix + key}, token, ttl.Milliseconds()).Int64()
	if err != nil {
		return fmt.Errorf("刷新锁失败: %w", err)
	}
	if result != 1 {
		return fmt.Errorf("锁不存在或已被其他持有者获取")
	}
	return nil
}

// IsLocked 检查锁是否存在
func (r *RedisLock) IsLocked(ctx context.Context, key string) (bool, error) {
	exists, err := r.client.Exists(ctx, lockKeyPrefix+key).Result()
	if err != nil {
		return false, fmt.Errorf("检查锁状态失败: %w", err)
	}
	return exists > 0, nil
}
