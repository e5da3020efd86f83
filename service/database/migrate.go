/*
 * @module service/database/migrate
 * @description 数据库迁移模块，负责创建估值结果表
 * @architecture 数据访问层 - 迁移管理
 * @documentReference DESIGN.md
 * @stateFlow 应用启动时执行数据库迁移
 * @rules 仅创建/补齐表结构，不做版本化迁移
 * @dependencies valuation-service/service/models, gorm.io/gorm
 * @refs service/init.go
 */

package database

import (
	"log/slog"
	"valuation-service/service/models"

	"gorm.io/gorm"
)

// AutoMigrate 自动迁移数据库表结构
func AutoMigrate(db *gorm.DB, schema string) error {
	slog.Info("开始数据库迁移...")

	if err := EnsureSchema(db, schema); err != nil {
		return err
	}

	if err := db.AutoMigrate(&models.Valuation{}); err != nil {
		return err
	}

	slog.Info("数据库表结构迁移完成")
	return nil
}
