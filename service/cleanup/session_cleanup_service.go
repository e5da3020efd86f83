/*
 * @module service/cleanup/session_cleanup_service
 * @description 会话清理服务，定期删除内存会话存储中的过期会话
 * @architecture 分层架构 - 业务服务层
 * @documentReference DESIGN.md
 * @stateFlow 定时触发 -> 扫描过期会话 -> 删除 -> 记录结果
 * @rules 仅内存会话后端需要；Redis 后端依赖键过期
 * @dependencies github.com/robfig/cron/v3
 * @refs service/session/store.go, service/init.go
 */

package cleanup

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Sweeper 可清理过期条目的存储
type Sweeper interface {
	Sweep(ctx context.Context) (int, error)
}

// SessionCleanupService 会话清理服务
type SessionCleanupService struct {
	sweeper Sweeper
	spec    string
	cron    *cron.Cron
	ctx     context.Context
	cancel  context.CancelFunc
	mutex   sync.Mutex
	started bool
}

// NewSessionCleanupService 创建会话清理服务，spec 支持秒级 cron 表达式与 @every
func NewSessionCleanupService(sweeper Sweeper, spec string) *SessionCleanupService {
	ctx, cancel := context.WithCancel(context.Background())

	return &SessionCleanupService{
		sweeper: sweeper,
		spec:    spec,
		cron:    cron.New(cron.WithSeconds()),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// CleanupExpiredSessions 执行一次清理
func (s *SessionCleanupService) CleanupExpiredSessions(ctx context.Context) (int, error) {
	startTime := time.Now()

	removed, err := s.sweeper.Sweep(ctx)
	if err != nil {
		return 0, fmt.Errorf("清理过期会话失败: %w", err)
	}

	if removed > 0 {
		slog.Info("清理过期会话完成", "deleted_count", removed, "duration", time.Since(startTime))
	}
	return removed, nil
}

// StartScheduledCleanup 启动定时清理任务
func (s *SessionCleanupService) StartScheduledCleanup() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.started {
		return fmt.Errorf("会话清理调度器已经启动")
	}

	_, err := s.cron.AddFunc(s.spec, func() {
		if _, err := s.CleanupExpiredSessions(s.ctx); err != nil {
			slog.Error("定时会话清理任务失败", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("添加定时任务失败: %w", err)
	}

	s.cron.Start()
	s.started = true

	slog.Info("会话清理调度器启动成功", "schedule", s.spec)
	return nil
}

// StopScheduledCleanup 停止定时清理任务
func (s *SessionCleanupService) StopScheduledCleanup() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.started {
		return
	}

	s.cancel()
	<-s.cron.Stop().Done()
	s.started = false

	slog.Info("会话清理调度器已停止")
}
