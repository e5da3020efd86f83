package valuation

import (
	"math"
	"sort"
	"strings"
	"valuation-service/service/meta"
)

// DisplayPolicy 聚合结果的展示策略，与聚合计算分离
type DisplayPolicy struct {
	// SuppressZeroTags 最高分为0时不展示维度标签
	SuppressZeroTags bool `json:"suppress_zero_tags"`
}

// Tags 应用展示策略后的维度标签
func (p DisplayPolicy) Tags(r Result) []string {
	if p.SuppressZeroTags && r.MaxScore <= 0 {
		return []string{}
	}
	tags := make([]string, len(r.TopDimensions))
	copy(tags, r.TopDimensions)
	return tags
}

// SummaryRow 评分汇总表的一行
type SummaryRow struct {
	Dimension     string   `json:"dimension"`
	Stars         int      `json:"stars"`
	StarString    string   `json:"star_string"`
	Weight        *float64 `json:"weight,omitempty"`
	WeightedScore *float64 `json:"weighted_score,omitempty"`
}

// BuildSummary 构建评分汇总，按得分降序，同分保持维度声明顺序
func BuildSummary(stars map[string]int, weights map[string]float64, applyWeights bool) []SummaryRow {
	dims := meta.ValueDimensions()
	rows := make([]SummaryRow, 0, len(dims))
	scores := make(map[string]float64, len(dims))

	for _, d := range dims {
		s := stars[d]
		row := SummaryRow{Dimension: d, Stars: s, StarString: StarString(float64(s), meta.MaxStars)}
		scores[d] = float64(s)
		if applyWeights {
			w, ok := weights[d]
			if !ok {
				w = meta.DefaultWeight
			}
			ws := round2(float64(s) * w)
			row.Weight = &w
			row.WeightedScore = &ws
			scores[d] = ws
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return scores[rows[i].Dimension] > scores[rows[j].Dimension]
	})
	return rows
}

// StarString 将分数转为 "⭐⭐⭐☆☆" 形式，超出范围时截断
func StarString(score float64, maxStars int) string {
	s := int(math.RoundToEven(score))
	if s < 0 {
		s = 0
	}
	if s > maxStars {
		s = maxStars
	}
	return strings.Repeat("⭐", s) + strings.Repeat("☆", maxStars-s)
}
