package valuation

import (
	"time"
	"valuation-service/service/meta"
	"valuation-service/service/models"

	"github.com/google/uuid"
)

// NewSubmitID 为一次“计算”操作生成唯一的提交ID
func NewSubmitID() string {
	return uuid.New().String()
}

// PayloadInput 构建持久化载荷所需的输入
type PayloadInput struct {
	SubmitID     string
	CreatedAt    time.Time
	DatasetSig   string
	UseCase      string
	ApplyWeights bool
	Stars        map[string]int
	Weights      map[string]float64
	Result       Result
}

// BuildPayload 构建估值记录
// 星级补齐全部6个维度；未启用权重时权重固定为1.0
func BuildPayload(in PayloadInput) *models.Valuation {
	dims := meta.ValueDimensions()

	stars := make(models.StarMap, len(dims))
	for _, d := range dims {
		stars[d] = in.Stars[d]
	}

	weights := make(models.WeightMap, len(dims))
	for _, d := range dims {
		switch {
		case !in.ApplyWeights:
			weights[d] = meta.NeutralWeight
		default:
			w, ok := in.Weights[d]
			if !ok {
				w = meta.DefaultWeight
			}
			weights[d] = w
		}
	}

	return &models.Valuation{
		SubmitID:          in.SubmitID,
		CreatedAt:         in.CreatedAt.UTC(),
		DatasetSig:        in.DatasetSig,
		UseCase:           in.UseCase,
		ApplyWeights:      in.ApplyWeights,
		Stars:             stars,
		Weights:           weights,
		FinalScorePercent: in.Result.FinalScorePercent,
	}
}
