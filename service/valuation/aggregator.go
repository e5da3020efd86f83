/*
 * @module service/valuation/aggregator
 * @description 估值聚合器：按星级（可选权重）计算百分比得分与得分最高的维度
 * @architecture 分层架构 - 评分服务层（纯函数）
 * @documentReference DESIGN.md
 * @stateFlow 星级 + 权重 -> 维度得分 -> 总分百分比 + 并列最高维度
 * @rules 维度顺序固定；并列全部返回；权重和为0时得分为0而非除零
 * @dependencies valuation-service/service/meta
 * @refs service/valuation/display.go, service/valuation/payload.go, service/session
 */

package valuation

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"valuation-service/service/meta"
)

var (
	// ErrStarsOutOfRange 星级超出范围
	ErrStarsOutOfRange = errors.New("星级超出范围")
	// ErrWeightOutOfRange 权重超出范围
	ErrWeightOutOfRange = errors.New("权重超出范围")
)

// Result 聚合结果
type Result struct {
	ApplyWeights      bool               `json:"apply_weights"`
	FinalScorePercent float64            `json:"final_score_percent" example:"16.67"`
	TopDimensions     []string           `json:"top_dimensions"`
	MaxScore          float64            `json:"max_score"`
	DimensionScores   map[string]float64 `json:"dimension_scores"` // 未加权为星级，加权为星级×权重
}

// Aggregate 计算总分与最高维度
// 未加权: round(sum(stars)/(6*5)*100, 2)
// 加权:   round(sum(stars*w)/sum(5*w)*100, 2)，sum(w)==0 时为0
// 缺失的星级按0处理；加权模式下缺失的权重按 meta.DefaultWeight 处理
func Aggregate(stars map[string]int, weights map[string]float64, applyWeights bool) Result {
	dims := meta.ValueDimensions()
	scores := make(map[string]float64, len(dims))

	total := 0.0
	maxPossible := 0.0
	for _, d := range dims {
		s := float64(stars[d])
		if !applyWeights {
			scores[d] = s
			total += s
			continue
		}
		w, ok := weights[d]
		if !ok {
			w = meta.DefaultWeight
		}
		scores[d] = s * w
		total += s * w
		maxPossible += meta.MaxStars * w
	}
	if !applyWeights {
		maxPossible = float64(len(dims) * meta.MaxStars)
	}

	final := 0.0
	if maxPossible > 0 {
		final = round2(total / maxPossible * 100)
	}

	top, maxScore := topDimensions(dims, scores)
	return Result{
		ApplyWeights:      applyWeights,
		FinalScorePercent: final,
		TopDimensions:     top,
		MaxScore:          maxScore,
		DimensionScores:   scores,
	}
}

// topDimensions 按声明顺序返回得分等于最大值的全部维度
func topDimensions(dims []string, scores map[string]float64) ([]string, float64) {
	maxScore := math.Inf(-1)
	for _, d := range dims {
		if scores[d] > maxScore {
			maxScore = scores[d]
		}
	}

	top := make([]string, 0, len(dims))
	for _, d := range dims {
		if scores[d] == maxScore {
			top = append(top, d)
		}
	}
	return top, maxScore
}

// ValidateStars 校验维度名称与星级范围 [minStars, 5]
func ValidateStars(stars map[string]int, minStars int) error {
	for d, s := range stars {
		if err := meta.ValidateDimension(d); err != nil {
			return err
		}
		if err := ValidateStar(s, minStars); err != nil {
			return fmt.Errorf("%s: %w", d, err)
		}
	}
	return nil
}

// ValidateStar 校验单个星级
func ValidateStar(stars, minStars int) error {
	if stars < minStars || stars > meta.MaxStars {
		return fmt.Errorf("%w: %d 不在 [%d,%d]", ErrStarsOutOfRange, stars, minStars, meta.MaxStars)
	}
	return nil
}

// ValidateWeights 校验维度名称与权重范围 [0,1]
func ValidateWeights(weights map[string]float64) error {
	for d, w := range weights {
		if err := meta.ValidateDimension(d); err != nil {
			return err
		}
		if math.IsNaN(w) || w < 0 || w > 1 {
			return fmt.Errorf("%w: %s=%v 不在 [0,1]", ErrWeightOutOfRange, d, w)
		}
	}
	return nil
}

// round2 保留两位小数，恰好居中时取偶数（3.125 -> 3.12）
func round2(v float64) float64 {
	rounded, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 2, 64), 64)
	return rounded
}
