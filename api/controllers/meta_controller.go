package controllers

import (
	"net/http"
	"valuation-service/service/meta"

	"github.com/go-chi/render"
)

type MetaController struct {
}

func NewMetaController() *MetaController {
	return &MetaController{}
}

// DimensionMeta 价值维度元数据
type DimensionMeta struct {
	Dimensions     []meta.DimensionInfo `json:"dimensions"`
	MaxStars       int                  `json:"max_stars" example:"5"`
	DefaultWeights map[string]float64   `json:"default_weights"`
}

// @Summary 获取价值维度元数据
// @Description 获取六个价值维度（固定顺序）、提示信息、最高星级与默认权重
// @Tags 元数据
// @Produce json
// @Success 200 {object} APIResponse{data=DimensionMeta}
// @Router /meta/dimensions [get]
func (c *MetaController) GetDimensions(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, SuccessResponse("获取价值维度元数据成功", DimensionMeta{
		Dimensions:     meta.GetAllDimensions(),
		MaxStars:       meta.MaxStars,
		DefaultWeights: meta.DefaultWeights(),
	}))
}

// @Summary 获取数据集用途列表
// @Description 获取可选的数据集用途（固定顺序）
// @Tags 元数据
// @Produce json
// @Success 200 {object} APIResponse{data=[]string}
// @Router /meta/use-cases [get]
func (c *MetaController) GetUseCases(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, SuccessResponse("获取数据集用途成功", meta.UseCases()))
}
