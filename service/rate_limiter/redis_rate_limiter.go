/*
 * @module service/rate_limiter/redis_rate_limiter
 * @description 基于Redis的固定窗口限流器，保护上传与计算等开销较大的接口
 * @architecture 工具层 - 提供分布式限流能力
 * @documentReference DESIGN.md
 * @stateFlow 确定限流键 -> Redis原子计数 -> 判断是否超限
 * @rules 使用Redis INCR和EXPIRE实现固定窗口限流，按路由独立计数，客户端规则优先于全局规则
 * @dependencies github.com/go-redis/redis/v8
 * @refs service/rate_limiter/middleware.go, api/routes.go
 */

package rate_limiter

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	RuleGlobal = "global"
	RuleClient = "client"
)

// RateLimitResult 限流检查结果
type RateLimitResult struct {
	Allowed       bool   `json:"allowed"`    // 是否允许请求
	Limit         int    `json:"limit"`      // 限制数量
	Remaining     int    `json:"remaining"`  // 剩余数量
	ResetAt       int64  `json:"reset_at"`   // 重置时间（Unix时间戳）
	RateLimitType string `json:"limit_type"` // 限流类型：global/client
	Message       string `json:"message"`    // 提示信息
}

// RateLimitRule 限流规则
type RateLimitRule struct {
	Type        string // global/client
	Route       string // 路由模板，不同路由独立计数
	TargetID    string // 目标ID（客户端地址，全局时为空）
	TimeWindow  int    // 时间窗口（秒）
	MaxRequests int    // 最大请求数
}

// Limiter 限流器接口
type Limiter interface {
	CheckRateLimit(ctx context.Context, rules []RateLimitRule) (*RateLimitResult, error)
}

// 原子性限流检查：超限时不再递增计数
var rateLimitScript = redis.NewScript(`
	local key = KEYS[1]
	local max_requests = tonumber(ARGV[1])
	local window = tonumber(ARGV[2])

	local current = redis.call('GET', key)
	if current == false then
		current = 0
	else
		current = tonumber(current)
	end

	if current >= max_requests then
		local ttl = redis.call('TTL', key)
		if ttl == -1 then
			ttl = window
		end
		return {0, current, max_requests, ttl}
	end

	local new_count = redis.call('INCR', key)
	if new_count == 1 then
		redis.call('EXPIRE', key, window)
	end

	local ttl = redis.call('TTL', key)
	if ttl == -1 then
		ttl = window
	end

	return {1, new_count, max_requests, ttl}
`)

// RedisRateLimiter Redis限流器
type RedisRateLimiter struct {
	client *redis.Client
	prefix string
}

// NewRedisRateLimiter 基于已建立的Redis客户端创建限流器
func NewRedisRateLimiter(client *redis.Client) *RedisRateLimiter {
	slog.Info("Redis限流器初始化成功")
	return &RedisRateLimiter{client: client, prefix: "valuation:rate_limit"}
}

// CheckRateLimit 检查是否超过限流（按优先级检查：客户端 -> 全局）
func (r *RedisRateLimiter) CheckRateLimit(ctx context.Context, rules []RateLimitRule) (*RateLimitResult, error) {
	var last *RateLimitResult
	for _, rule := range sortRulesByPriority(rules) {
		result, err := r.checkSingleRule(ctx, rule)
		if err != nil {
			return nil, err
		}
		// 如果任何一层超限，直接返回
		if !result.Allowed {
			return result, nil
		}
		last = result
	}

	if last != nil {
		return last, nil
	}

	// 没有限流规则，允许通过
	return &RateLimitResult{
		Allowed:       true,
		Limit:         -1,
		Remaining:     -1,
		RateLimitType: "none",
		Message:       "无限流规则",
	}, nil
}

// checkSingleRule 检查单个限流规则
func (r *RedisRateLimiter) checkSingleRule(ctx context.Context, rule RateLimitRule) (*RateLimitResult, error) {
	if rule.TimeWindow <= 0 || rule.MaxRequests <= 0 {
		return nil, fmt.Errorf("无效的限流规则: window=%d max=%d", rule.TimeWindow, rule.MaxRequests)
	}

	key := r.buildRateLimitKey(rule)
	values, err := rateLimitScript.Run(ctx, r.client, []string{key}, rule.MaxRequests, rule.TimeWindow).Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("限流检查失败: %w", err)
	}
	if len(values) != 4 {
		return nil, fmt.Errorf("限流脚本返回值异常: %v", values)
	}

	allowed := values[0] == 1
	currentCount := int(values[1])
	maxRequests := int(values[2])
	ttl := time.Duration(values[3]) * time.Second

	remaining := maxRequests - currentCount
	if remaining < 0 {
		remaining = 0
	}

	message := "允许请求"
	if !allowed {
		message = fmt.Sprintf("超过%s限流限制", getRateLimitTypeName(rule.Type))
	}

	return &RateLimitResult{
		Allowed:       allowed,
		Limit:         maxRequests,
		Remaining:     remaining,
		ResetAt:       time.Now().Add(ttl).Unix(),
		RateLimitType: rule.Type,
		Message:       message,
	}, nil
}

// buildRateLimitKey 构造限流Key：前缀:类型:路由[:客户端]:窗口
func (r *RedisRateLimiter) buildRateLimitKey(rule RateLimitRule) string {
	currentWindow := time.Now().Unix() / int64(rule.TimeWindow)
	if rule.Type == RuleGlobal {
		return fmt.Sprintf("%s:%s:%s:%d", r.prefix, rule.Type, rule.Route, currentWindow)
	}
	return fmt.Sprintf("%s:%s:%s:%s:%d", r.prefix, rule.Type, rule.Route, rule.TargetID, currentWindow)
}

// ResetRateLimit 重置限流计数（仅用于测试或管理）
func (r *RedisRateLimiter) ResetRateLimit(ctx context.Context, rule RateLimitRule) error {
	return r.client.Del(ctx, r.buildRateLimitKey(rule)).Err()
}

// sortRulesByPriority 按优先级排序规则：client > global
func sortRulesByPriority(rules []RateLimitRule) []RateLimitRule {
	priority := map[string]int{
		RuleClient: 2,
		RuleGlobal: 1,
	}

	sorted := make([]RateLimitRule, len(rules))
	copy(sorted, rules)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && priority[sorted[j-1].Type] < priority[sorted[j].Type]; j-- {
			sorted[j-1], sorted[j] = sorted[j], sorted[j-1]
		}
	}
	return sorted
}

// getRateLimitTypeName 获取限流类型名称
func getRateLimitTypeName(limitType string) string {
	switch limitType {
	case RuleGlobal:
		return "全局"
	case RuleClient:
		return "客户端"
	default:
		return "未知"
	}
}
