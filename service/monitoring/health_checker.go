/*
 * @module service/monitoring/health_checker
 * @description 就绪检查：依次探测数据库、Redis、PostgREST等依赖
 * @architecture 分层架构 - 监控层
 * @documentReference DESIGN.md
 * @stateFlow 注册检查项 -> 并发探测 -> 汇总状态
 * @rules 任一检查失败则整体为 unhealthy；单项超时不阻塞其他检查
 * @dependencies context, sync, golang.org/x/sync/errgroup
 * @refs api/controllers/health_controller.go
 */

package monitoring

import (
	"context"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// CheckFunc 单项检查函数
type CheckFunc func(ctx context.Context) error

// ComponentHealth 组件健康状态
type ComponentHealth struct {
	Name      string `json:"name"`
	Status    string `json:"status"` // healthy, unhealthy
	LatencyMS int64  `json:"latency_ms"`
	Error     string `json:"error,omitempty"`
}

// HealthStatus 整体健康状态
type HealthStatus struct {
	Overall    string            `json:"overall"`
	Timestamp  time.Time         `json:"timestamp"`
	Components []ComponentHealth `json:"components"`
}

// HealthChecker 健康检查器
type HealthChecker struct {
	mutex   sync.RWMutex
	checks  map[string]CheckFunc
	timeout time.Duration
}

// NewHealthChecker 创建健康检查器
func NewHealthChecker(timeout time.Duration) *HealthChecker {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &HealthChecker{checks: make(map[string]CheckFunc), timeout: timeout}
}

// Register 注册检查项
func (h *HealthChecker) Register(name string, check CheckFunc) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.checks[name] = check
}

// Check 执行所有检查
func (h *HealthChecker) Check(ctx context.Context) *HealthStatus {
	h.mutex.RLock()
	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	checks := make(map[string]CheckFunc, len(h.checks))
	for k, v := range h.checks {
		checks[k] = v
	}
	h.mutex.RUnlock()
	sort.Strings(names)

	results := make([]ComponentHealth, len(names))
	// 检查项之间互不取消，失败记录在结果中
	var g errgroup.Group
	for i, name := range names {
		g.Go(func() error {
			checkCtx, cancel := context.WithTimeout(ctx, h.timeout)
			defer cancel()

			start := time.Now()
			err := checks[name](checkCtx)
			result := ComponentHealth{
				Name:      name,
				Status:    StatusHealthy,
				LatencyMS: time.Since(start).Milliseconds(),
			}
			if err != nil {
				result.Status = StatusUnhealthy
				result.Error = err.Error()
			}
			results[i] = result
			return nil
		})
	}
	_ = g.Wait()

	status := &HealthStatus{Overall: StatusHealthy, Timestamp: time.Now(), Components: results}
	for _, r := range results {
		if r.Status != StatusHealthy {
			status.Overall = StatusUnhealthy
			break
		}
	}
	return status
}
