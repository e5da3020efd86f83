/*
 * @module service/models/valuation
 * @description 估值结果持久化模型与数据集质量报告模型
 * @architecture 数据模型层
 * @documentReference DESIGN.md
 * @stateFlow 计算 -> 构建载荷 -> 写入一次（submit_id 唯一）
 * @rules 估值记录只插入不更新，submit_id 冲突时静默忽略
 * @dependencies gorm.io/gorm, time
 * @refs service/valuation, service/database/valuation_store.go, client/postgrest_client.go
 */

package models

import (
	"time"
)

// Valuation 估值记录，对应 valuations 表的一行
type Valuation struct {
	SubmitID          string    `gorm:"column:submit_id;type:uuid;primaryKey" json:"submit_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	CreatedAt         time.Time `gorm:"column:created_at;not null" json:"created_at"`
	DatasetSig        string    `gorm:"column:dataset_sig;type:text;not null" json:"dataset_sig" example:"rivers.csv-2048-9e107d9d372bb6826bd81d3542a419d6"`
	UseCase           string    `gorm:"column:use_case;type:text;not null" json:"use_case" example:"Water Quality Risk Assessment"`
	ApplyWeights      bool      `gorm:"column:apply_weights;not null" json:"apply_weights"`
	Stars             StarMap   `gorm:"column:stars;type:jsonb;not null" json:"stars"`
	Weights           WeightMap `gorm:"column:weights;type:jsonb;not null" json:"weights"`
	FinalScorePercent float64   `gorm:"column:final_score_percent;not null" json:"final_score_percent" example:"16.67"`
}

// TableName 指定表名
func (Valuation) TableName() string {
	return "valuations"
}

// QualityReport 数据集质量报告，计算一次后不再修改
type QualityReport struct {
	Rows         int     `json:"rows" example:"120"`
	Cols         int     `json:"cols" example:"8"`
	MissingCells int     `json:"missing_cells" example:"14"`
	MissingRatio float64 `json:"missing_ratio" example:"0.0146"`
	Duplicates   int     `json:"duplicates" example:"2"`
	EmptyColumns int     `json:"empty_columns" example:"1"`
}
