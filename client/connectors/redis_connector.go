/*
 * @module RedisConnector
 * @description Redis客户端构建，供会话存储、会话锁和限流器共享
 * @architecture 工厂模式 - 根据配置创建并探测 go-redis 客户端
 * @documentReference DESIGN.md
 * @stateFlow 构建客户端 -> PING -> 交付使用
 * @rules 连接失败时关闭客户端并返回错误，调用方决定是否降级
 * @dependencies github.com/go-redis/redis/v8
 * @refs service/session/redis_store.go, service/distributed_lock/redis_lock.go, service/rate_limiter/redis_rate_limiter.go
 */
package connectors

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisConfig Redis配置信息
type RedisConfig struct {
	Address      string        `json:"address"`       // host:port
	Password     string        `json:"password"`      // 密码
	Database     int           `json:"database"`      // 数据库编号
	PoolSize     int           `json:"pool_size"`     // 连接池大小
	DialTimeout  time.Duration `json:"dial_timeout"`  // 连接超时时间
	ReadTimeout  time.Duration `json:"read_timeout"`  // 读取超时时间
	WriteTimeout time.Duration `json:"write_timeout"` // 写入超时时间
}

// NewRedisClient 创建Redis客户端并验证连通性
func NewRedisClient(ctx context.Context, config *RedisConfig) (*redis.Client, error) {
	dialTimeout := config.DialTimeout
	if dialTimeout == 0 {
		dialTimeout = 5 * time.Second
	}

	client := redis.NewClient(&redis.Options{
		Addr:         config.Address,
		Password:     config.Password,
		DB:           config.Database,
		PoolSize:     config.PoolSize,
		DialTimeout:  dialTimeout,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("连接Redis失败 %s: %w", config.Address, err)
	}

	slog.Info("Redis连接成功", "address", config.Address, "db", config.Database)
	return client, nil
}
