/*
 * @module service/database/valuation_store
 * @description 基于 GORM 的估值结果存储，INSERT ... ON CONFLICT (submit_id) DO NOTHING
 * @architecture 数据访问层 - 仓储实现
 * @documentReference DESIGN.md
 * @stateFlow 估值载荷 -> 单行插入 -> 冲突忽略
 * @rules submit_id 唯一约束是跨会话唯一的并发安全机制，重复写入为无操作而非错误
 * @dependencies gorm.io/gorm, gorm.io/gorm/clause
 * @refs service/session/session.go, client/postgrest_client.go
 */

package database

import (
	"context"
	"errors"
	"fmt"
	"valuation-service/service/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormValuationStore 估值结果存储
type GormValuationStore struct {
	db *gorm.DB
}

// NewGormValuationStore 创建估值结果存储
func NewGormValuationStore(db *gorm.DB) *GormValuationStore {
	return &GormValuationStore{db: db}
}

// Save 插入估值记录，返回是否实际插入（false 表示 submit_id 已存在）
func (s *GormValuationStore) Save(ctx context.Context, v *models.Valuation) (bool, error) {
	if v == nil || v.SubmitID == "" {
		return false, errors.New("submit_id 不能为空")
	}

	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "submit_id"}},
			DoNothing: true,
		}).
		Create(v)
	if result.Error != nil {
		return false, fmt.Errorf("保存估值结果失败: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// Ping 检查数据库连接
func (s *GormValuationStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
