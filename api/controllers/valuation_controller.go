/*
 * @module api/controllers/valuation_controller
 * @description 无状态估值聚合控制器
 * @architecture MVC架构 - 控制器层
 * @documentReference DESIGN.md
 * @stateFlow 请求体 -> 校验 -> 聚合 -> 展示策略 -> 返回
 * @rules 不保存结果；维度名须为六个价值维度之一
 * @dependencies valuation-service/service/valuation
 * @refs service/valuation/aggregator.go
 */

package controllers

import (
	"net/http"
	"valuation-service/service/valuation"

	"github.com/go-chi/render"
)

// ValuationController 估值控制器
type ValuationController struct {
	minStars int
	policy   valuation.DisplayPolicy
}

// NewValuationController 创建估值控制器实例
func NewValuationController(minStars int, policy valuation.DisplayPolicy) *ValuationController {
	return &ValuationController{minStars: minStars, policy: policy}
}

// AggregateRequest 聚合请求
type AggregateRequest struct {
	Stars        map[string]int     `json:"stars"`
	Weights      map[string]float64 `json:"weights,omitempty"`
	ApplyWeights bool               `json:"apply_weights"`
}

// AggregateResponse 聚合结果
type AggregateResponse struct {
	Result  valuation.Result       `json:"result"`
	Tags    []string               `json:"tags"`
	Summary []valuation.SummaryRow `json:"summary"`
}

// Aggregate 计算估值得分
// @Summary 估值聚合
// @Description 按六个维度的星级（可选权重）计算总分百分比与得分最高的维度，不保存结果
// @Tags 估值
// @Accept json
// @Produce json
// @Param request body AggregateRequest true "星级与权重"
// @Success 200 {object} APIResponse{data=AggregateResponse}
// @Failure 400 {object} APIResponse
// @Router /valuations/aggregate [post]
func (c *ValuationController) Aggregate(w http.ResponseWriter, r *http.Request) {
	var req AggregateRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.Render(w, r, BadRequestResponse("请求参数格式错误", err))
		return
	}
	if err := valuation.ValidateStars(req.Stars, c.minStars); err != nil {
		renderError(w, r, "星级参数无效", err)
		return
	}
	if err := valuation.ValidateWeights(req.Weights); err != nil {
		renderError(w, r, "权重参数无效", err)
		return
	}

	result := valuation.Aggregate(req.Stars, req.Weights, req.ApplyWeights)
	render.JSON(w, r, SuccessResponse("估值计算成功", AggregateResponse{
		Result:  result,
		Tags:    c.policy.Tags(result),
		Summary: valuation.BuildSummary(req.Stars, req.Weights, req.ApplyWeights),
	}))
}
