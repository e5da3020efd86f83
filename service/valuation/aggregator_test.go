/*
 * @module service/valuation/aggregator_test
 * @description 估值聚合、展示策略与载荷构建单元测试
 * @architecture 测试层
 * @dependencies testing, testify
 * @refs aggregator.go, display.go, payload.go
 */

package valuation

import (
	"testing"
	"time"
	"valuation-service/service/meta"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uniformStars(v int) map[string]int {
	stars := make(map[string]int)
	for _, d := range meta.ValueDimensions() {
		stars[d] = v
	}
	return stars
}

func uniformWeights(v float64) map[string]float64 {
	weights := make(map[string]float64)
	for _, d := range meta.ValueDimensions() {
		weights[d] = v
	}
	return weights
}

func TestAggregate_Unweighted(t *testing.T) {
	stars := map[string]int{
		meta.DimensionEconomic:        5,
		meta.DimensionSocial:          0,
		meta.DimensionEnvironmental:   0,
		meta.DimensionCultural:        0,
		meta.DimensionPolicyAlignment: 0,
		meta.DimensionDataQuality:     0,
	}

	result := Aggregate(stars, nil, false)

	assert.Equal(t, 16.67, result.FinalScorePercent)
	assert.Equal(t, []string{meta.DimensionEconomic}, result.TopDimensions)
	assert.Equal(t, 5.0, result.MaxScore)
}

func TestAggregate_UnweightedIgnoresWeights(t *testing.T) {
	result := Aggregate(uniformStars(3), uniformWeights(0), false)

	assert.Equal(t, 60.0, result.FinalScorePercent)
	assert.Len(t, result.TopDimensions, 6)
}

func TestAggregate_Ties(t *testing.T) {
	stars := map[string]int{
		meta.DimensionSocial:          3,
		meta.DimensionEconomic:        3,
		meta.DimensionEnvironmental:   1,
		meta.DimensionCultural:        2,
		meta.DimensionPolicyAlignment: 0,
		meta.DimensionDataQuality:     1,
	}

	result := Aggregate(stars, nil, false)

	assert.Equal(t, []string{meta.DimensionEconomic, meta.DimensionSocial}, result.TopDimensions)
}

func TestAggregate_Weighted(t *testing.T) {
	tests := []struct {
		name      string
		stars     map[string]int
		weights   map[string]float64
		wantScore float64
		wantTop   []string
	}{
		{
			name:      "权重0.5星级4",
			stars:     uniformStars(4),
			weights:   uniformWeights(0.5),
			wantScore: 80.0,
			wantTop:   meta.ValueDimensions(),
		},
		{
			name:      "权重全为0",
			stars:     uniformStars(4),
			weights:   uniformWeights(0),
			wantScore: 0.0,
			wantTop:   meta.ValueDimensions(),
		},
		{
			name: "权重改变最高维度",
			stars: map[string]int{
				meta.DimensionEconomic: 5,
				meta.DimensionSocial:   4,
			},
			weights: map[string]float64{
				meta.DimensionEconomic:        0.2,
				meta.DimensionSocial:          1.0,
				meta.DimensionEnvironmental:   0,
				meta.DimensionCultural:        0,
				meta.DimensionPolicyAlignment: 0,
				meta.DimensionDataQuality:     0,
			},
			// (1 + 4) / (1 + 5) * 100
			wantScore: 83.33,
			wantTop:   []string{meta.DimensionSocial},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Aggregate(tt.stars, tt.weights, true)
			assert.Equal(t, tt.wantScore, result.FinalScorePercent)
			assert.Equal(t, tt.wantTop, result.TopDimensions)
		})
	}
}

func TestAggregate_RoundsHalfToEven(t *testing.T) {
	// 5*0.0625 / (5*2) * 100 = 3.125，居中时取偶数
	stars := map[string]int{meta.DimensionEconomic: 5}
	weights := map[string]float64{
		meta.DimensionEconomic:        0.0625,
		meta.DimensionSocial:          0.9375,
		meta.DimensionEnvironmental:   1,
		meta.DimensionCultural:        0,
		meta.DimensionPolicyAlignment: 0,
		meta.DimensionDataQuality:     0,
	}

	result := Aggregate(stars, weights, true)

	assert.Equal(t, 3.12, result.FinalScorePercent)
	assert.Equal(t, 3.12, round2(3.125))
	assert.Equal(t, 3.13, round2(3.135))
	assert.Equal(t, 16.67, round2(100.0/6))
}

func TestAggregate_MissingWeightDefaults(t *testing.T) {
	// 缺失权重按0.5处理，与全部0.5一致
	result := Aggregate(uniformStars(2), map[string]float64{}, true)
	assert.Equal(t, 40.0, result.FinalScorePercent)
}

func TestAggregate_AllZero(t *testing.T) {
	result := Aggregate(uniformStars(0), nil, false)

	assert.Equal(t, 0.0, result.FinalScorePercent)
	assert.Equal(t, meta.ValueDimensions(), result.TopDimensions)

	// 展示策略与聚合分离
	assert.Empty(t, DisplayPolicy{SuppressZeroTags: true}.Tags(result))
	assert.Equal(t, meta.ValueDimensions(), DisplayPolicy{SuppressZeroTags: false}.Tags(result))
}

func TestValidateStars(t *testing.T) {
	assert.NoError(t, ValidateStars(uniformStars(5), meta.DefaultMinStars))
	assert.ErrorIs(t, ValidateStars(map[string]int{meta.DimensionSocial: 6}, 0), ErrStarsOutOfRange)
	assert.ErrorIs(t, ValidateStars(map[string]int{meta.DimensionSocial: 0}, 1), ErrStarsOutOfRange)
	assert.ErrorIs(t, ValidateStars(map[string]int{"Happiness": 3}, 0), meta.ErrUnknownDimension)
}

func TestValidateWeights(t *testing.T) {
	assert.NoError(t, ValidateWeights(uniformWeights(1)))
	assert.ErrorIs(t, ValidateWeights(map[string]float64{meta.DimensionCultural: 1.1}), ErrWeightOutOfRange)
	assert.ErrorIs(t, ValidateWeights(map[string]float64{meta.DimensionCultural: -0.1}), ErrWeightOutOfRange)
}

func TestBuildSummary(t *testing.T) {
	stars := map[string]int{
		meta.DimensionEconomic:    1,
		meta.DimensionCultural:    4,
		meta.DimensionDataQuality: 4,
	}

	rows := BuildSummary(stars, nil, false)
	require.Len(t, rows, 6)
	assert.Equal(t, meta.DimensionCultural, rows[0].Dimension)
	assert.Equal(t, meta.DimensionDataQuality, rows[1].Dimension)
	assert.Equal(t, meta.DimensionEconomic, rows[2].Dimension)
	assert.Equal(t, "⭐⭐⭐⭐☆", rows[0].StarString)
	assert.Nil(t, rows[0].Weight)

	weighted := BuildSummary(stars, map[string]float64{meta.DimensionCultural: 0.1}, true)
	assert.Equal(t, meta.DimensionDataQuality, weighted[0].Dimension)
	require.NotNil(t, weighted[0].WeightedScore)
	assert.Equal(t, 2.0, *weighted[0].WeightedScore)
}

func TestStarString(t *testing.T) {
	assert.Equal(t, "☆☆☆☆☆", StarString(0, 5))
	assert.Equal(t, "⭐⭐☆☆☆", StarString(2.5, 5))
	assert.Equal(t, "⭐⭐⭐⭐⭐", StarString(9, 5))
	assert.Equal(t, "☆☆☆☆☆", StarString(-1, 5))
}

func TestBuildPayload(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("BST", 3600))
	stars := map[string]int{meta.DimensionEconomic: 5}
	result := Aggregate(stars, nil, false)

	payload := BuildPayload(PayloadInput{
		SubmitID:   "id-1",
		CreatedAt:  now,
		DatasetSig: "a.csv-1-x",
		UseCase:    "Planning & Development",
		Stars:      stars,
		Weights:    uniformWeights(0.3),
		Result:     result,
	})

	assert.Equal(t, time.UTC, payload.CreatedAt.Location())
	assert.Len(t, payload.Stars, 6)
	assert.Equal(t, 0, payload.Stars[meta.DimensionSocial])
	// 未启用权重时固定为1.0
	for _, d := range meta.ValueDimensions() {
		assert.Equal(t, 1.0, payload.Weights[d])
	}
	assert.Equal(t, 16.67, payload.FinalScorePercent)
	assert.NotEmpty(t, NewSubmitID())
	assert.NotEqual(t, NewSubmitID(), NewSubmitID())
}
