/*
 * @module service/meta/value_dimensions
 * @description 价值维度常量定义、评分范围和校验函数
 * @architecture 常量层 - 元数据定义
 * @documentReference DESIGN.md
 * @stateFlow 常量定义 -> 验证函数 -> 评分/聚合逻辑使用
 * @rules 维度集合固定且有序，顺序即展示与并列排序的依据
 * @dependencies 无外部依赖
 * @refs service/valuation, service/session
 */

package meta

import (
	"errors"
	"fmt"
)

// 价值维度常量
const (
	DimensionEconomic        = "Economic"
	DimensionSocial          = "Social"
	DimensionEnvironmental   = "Environmental"
	DimensionCultural        = "Cultural"
	DimensionPolicyAlignment = "Policy Alignment"
	DimensionDataQuality     = "Data Quality"
)

// 星级评分范围
const (
	// MaxStars 单个维度的最高星级
	MaxStars = 5
	// DefaultMinStars 星级控件的最低星级，滑块变体为1
	DefaultMinStars = 0
	// DefaultWeight 启用权重后每个维度的初始权重
	DefaultWeight = 0.5
	// NeutralWeight 未启用权重时每个维度的权重
	NeutralWeight = 1.0
)

// ErrUnknownDimension 未知的价值维度
var ErrUnknownDimension = errors.New("未知的价值维度")

// valueDimensions 声明顺序即并列时的输出顺序
var valueDimensions = []string{
	DimensionEconomic,
	DimensionSocial,
	DimensionEnvironmental,
	DimensionCultural,
	DimensionPolicyAlignment,
	DimensionDataQuality,
}

// DimensionTooltips 维度评分提示
var DimensionTooltips = map[string]string{
	DimensionEconomic:        "☆ None (0) = No economic impact · ⭐⭐⭐⭐⭐ (5) = Enables cost savings",
	DimensionSocial:          "☆ None (0) = No public engagement impact · ⭐⭐⭐⭐⭐ (5) = High public value",
	DimensionEnvironmental:   "☆ None (0) = No environmental relevance · ⭐⭐⭐⭐⭐ (5) = Essential for monitoring",
	DimensionCultural:        "☆ None (0) = No cultural relevance · ⭐⭐⭐⭐⭐ (5) = Supports heritage value",
	DimensionPolicyAlignment: "☆ None (0) = No policy alignment · ⭐⭐⭐⭐⭐ (5) = Strong policy alignment",
	DimensionDataQuality:     "☆ None (0) = Poor or unusable data · ⭐⭐⭐⭐⭐ (5) = High-quality Metadata and accesibility",
}

// ValueDimensions 返回有序的价值维度列表（副本）
func ValueDimensions() []string {
	dims := make([]string, len(valueDimensions))
	copy(dims, valueDimensions)
	return dims
}

// IsValidDimension 验证维度名称是否有效
func IsValidDimension(dim string) bool {
	for _, d := range valueDimensions {
		if d == dim {
			return true
		}
	}
	return false
}

// ValidateDimension 校验维度名称，未知维度返回 ErrUnknownDimension
func ValidateDimension(dim string) error {
	if !IsValidDimension(dim) {
		return fmt.Errorf("%w: %q", ErrUnknownDimension, dim)
	}
	return nil
}

// NeutralWeights 返回所有维度权重为1.0的映射
func NeutralWeights() map[string]float64 {
	weights := make(map[string]float64, len(valueDimensions))
	for _, d := range valueDimensions {
		weights[d] = NeutralWeight
	}
	return weights
}

// DefaultWeights 返回启用权重时的初始映射
func DefaultWeights() map[string]float64 {
	weights := make(map[string]float64, len(valueDimensions))
	for _, d := range valueDimensions {
		weights[d] = DefaultWeight
	}
	return weights
}

// DimensionInfo 维度描述
type DimensionInfo struct {
	Name    string `json:"name" example:"Economic"`
	Order   int    `json:"order" example:"0"`
	Tooltip string `json:"tooltip"`
}

// GetAllDimensions 获取所有价值维度及提示
func GetAllDimensions() []DimensionInfo {
	infos := make([]DimensionInfo, 0, len(valueDimensions))
	for i, d := range valueDimensions {
		infos = append(infos, DimensionInfo{Name: d, Order: i, Tooltip: DimensionTooltips[d]})
	}
	return infos
}
