/*
 * @module service/meta/use_cases
 * @description 数据集用途（Use Case）枚举定义
 * @architecture 常量层 - 元数据定义
 * @documentReference DESIGN.md
 * @stateFlow 常量定义 -> 验证函数 -> 会话/持久化使用
 * @rules 用途仅作为标签随结果持久化，不参与评分计算
 * @dependencies 无外部依赖
 * @refs service/session, service/models/valuation.go
 */

package meta

import (
	"errors"
	"fmt"
)

// ErrUnknownUseCase 未知的用途
var ErrUnknownUseCase = errors.New("未知的数据集用途")

var useCases = []string{
	"Planning & Development",
	"Policy Monitoring & Reporting",
	"Public Engagement & Awareness",
	"Regulatory Compliance Monitoring",
	"Water Quality Risk Assessment",
	"Environmental Impact Assessment",
	"Service Planning & Improvement",
	"Biodiversity & Habitat Protection",
	"Climate Resilience & Adaptation",
}

// UseCases 返回有序的用途列表（副本）
func UseCases() []string {
	out := make([]string, len(useCases))
	copy(out, useCases)
	return out
}

// IsValidUseCase 验证用途是否有效
func IsValidUseCase(useCase string) bool {
	for _, uc := range useCases {
		if uc == useCase {
			return true
		}
	}
	return false
}

// ValidateUseCase 校验用途，未知用途返回 ErrUnknownUseCase
func ValidateUseCase(useCase string) error {
	if !IsValidUseCase(useCase) {
		return fmt.Errorf("%w: %q", ErrUnknownUseCase, useCase)
	}
	return nil
}
