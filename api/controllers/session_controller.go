/*
 * @module api/controllers/session_controller
 * @description 估值会话控制器：上传数据集、选择用途、评分、确认、设置权重、计算、保存与汇总
 * @architecture MVC架构 - 控制器层
 * @documentReference DESIGN.md
 * @stateFlow 创建会话 -> 上传数据集 -> 选择用途 -> 评分 -> 确认 -> (权重) -> 计算/保存 -> 汇总
 * @rules 同一会话的请求由会话服务串行化；保存失败时仍返回200与 save_error
 * @dependencies github.com/go-chi/chi/v5, github.com/go-chi/render, valuation-service/service/session
 * @refs service/session/service.go, api/routes.go
 */

package controllers

import (
	"log/slog"
	"net/http"
	"net/url"
	"valuation-service/service/session"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// SessionController 估值会话控制器
type SessionController struct {
	sessions       *session.Service
	maxUploadBytes int64
}

// NewSessionController 创建估值会话控制器实例
func NewSessionController(sessions *session.Service, maxUploadMB int64) *SessionController {
	return &SessionController{sessions: sessions, maxUploadBytes: maxUploadMB << 20}
}

// SessionView 会话视图，附带当前作用域下的评分与权重
type SessionView struct {
	*session.Session
	CurrentRatings map[string]int     `json:"current_ratings"`
	CurrentWeights map[string]float64 `json:"current_weights"`
}

// UseCaseRequest 选择用途请求
type UseCaseRequest struct {
	UseCase string `json:"use_case" example:"Water Quality Risk Assessment"`
}

// RatingRequest 维度评分请求
type RatingRequest struct {
	Stars int `json:"stars" example:"4"`
}

// WeightingRequest 权重设置请求
type WeightingRequest struct {
	ApplyWeights bool               `json:"apply_weights"`
	Weights      map[string]float64 `json:"weights,omitempty"`
}

func newSessionView(s *session.Session) *SessionView {
	return &SessionView{
		Session:        s,
		CurrentRatings: s.CurrentRatings(),
		CurrentWeights: s.CurrentWeights(),
	}
}

// CreateSession 创建估值会话
// @Summary 创建估值会话
// @Description 创建新的估值会话
// @Tags 估值会话
// @Produce json
// @Success 200 {object} APIResponse{data=SessionView}
// @Failure 500 {object} APIResponse
// @Router /sessions [post]
func (c *SessionController) CreateSession(w http.ResponseWriter, r *http.Request) {
	sess, err := c.sessions.Create(r.Context())
	if err != nil {
		render.Render(w, r, InternalErrorResponse("创建会话失败", err))
		return
	}
	render.JSON(w, r, SuccessResponse("创建会话成功", newSessionView(sess)))
}

// GetSession 获取估值会话
// @Summary 获取估值会话
// @Description 获取会话当前状态
// @Tags 估值会话
// @Produce json
// @Param id path string true "会话ID"
// @Success 200 {object} APIResponse{data=SessionView}
// @Failure 404 {object} APIResponse
// @Router /sessions/{id} [get]
func (c *SessionController) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := c.sessions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		renderError(w, r, "获取会话失败", err)
		return
	}
	render.JSON(w, r, SuccessResponse("获取会话成功", newSessionView(sess)))
}

// DeleteSession 删除估值会话
// @Summary 删除估值会话
// @Description 删除会话，已保存的估值记录不受影响
// @Tags 估值会话
// @Produce json
// @Param id path string true "会话ID"
// @Success 200 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /sessions/{id} [delete]
func (c *SessionController) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := c.sessions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		renderError(w, r, "删除会话失败", err)
		return
	}
	render.JSON(w, r, SuccessResponse("删除会话成功", nil))
}

// UploadDataset 上传数据集
// @Summary 上传数据集
// @Description 上传CSV/XLSX/XLS文件并绑定到会话；指纹变化时清空评分、用途、权重与计算结果
// @Tags 估值会话
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "会话ID"
// @Param file formData file true "数据集文件"
// @Success 200 {object} APIResponse{data=SessionView}
// @Failure 400 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /sessions/{id}/dataset [post]
func (c *SessionController) UploadDataset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	name, raw, err := readUpload(w, r, c.maxUploadBytes)
	if err != nil {
		render.Render(w, r, BadRequestResponse("读取上传文件失败", err))
		return
	}

	sess, err := c.sessions.UploadDataset(r.Context(), id, name, raw)
	if err != nil {
		slog.Warn("数据集上传失败", "session_id", id, "file", name, "error", err)
		renderError(w, r, "上传数据集失败", err)
		return
	}
	render.JSON(w, r, SuccessResponse("上传数据集成功", newSessionView(sess)))
}

// SelectUseCase 选择数据集用途
// @Summary 选择数据集用途
// @Description 选择九种用途之一；用途变化时清空确认状态与计算结果
// @Tags 估值会话
// @Accept json
// @Produce json
// @Param id path string true "会话ID"
// @Param request body UseCaseRequest true "用途"
// @Success 200 {object} APIResponse{data=SessionView}
// @Failure 400 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /sessions/{id}/use-case [put]
func (c *SessionController) SelectUseCase(w http.ResponseWriter, r *http.Request) {
	var req UseCaseRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.Render(w, r, BadRequestResponse("请求参数格式错误", err))
		return
	}

	sess, err := c.sessions.SelectUseCase(r.Context(), chi.URLParam(r, "id"), req.UseCase)
	if err != nil {
		renderError(w, r, "选择用途失败", err)
		return
	}
	render.JSON(w, r, SuccessResponse("选择用途成功", newSessionView(sess)))
}

// RateDimension 维度评分
// @Summary 维度评分
// @Description 为当前数据集与用途下的某个价值维度打星
// @Tags 估值会话
// @Accept json
// @Produce json
// @Param id path string true "会话ID"
// @Param dimension path string true "价值维度"
// @Param request body RatingRequest true "星级"
// @Success 200 {object} APIResponse{data=SessionView}
// @Failure 400 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /sessions/{id}/ratings/{dimension} [put]
func (c *SessionController) RateDimension(w http.ResponseWriter, r *http.Request) {
	var req RatingRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.Render(w, r, BadRequestResponse("请求参数格式错误", err))
		return
	}

	sess, err := c.sessions.Rate(r.Context(), chi.URLParam(r, "id"), dimensionParam(r), req.Stars)
	if err != nil {
		renderError(w, r, "评分失败", err)
		return
	}
	render.JSON(w, r, SuccessResponse("评分成功", newSessionView(sess)))
}

// ResetDimension 重置维度评分
// @Summary 重置维度评分
// @Description 将某个价值维度的星级重置为0
// @Tags 估值会话
// @Produce json
// @Param id path string true "会话ID"
// @Param dimension path string true "价值维度"
// @Success 200 {object} APIResponse{data=SessionView}
// @Failure 400 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /sessions/{id}/ratings/{dimension} [delete]
func (c *SessionController) ResetDimension(w http.ResponseWriter, r *http.Request) {
	sess, err := c.sessions.ResetDimension(r.Context(), chi.URLParam(r, "id"), dimensionParam(r))
	if err != nil {
		renderError(w, r, "重置维度评分失败", err)
		return
	}
	render.JSON(w, r, SuccessResponse("重置维度评分成功", newSessionView(sess)))
}

// ResetRatings 重置全部评分
// @Summary 重置全部评分
// @Description 将当前数据集与用途下的全部维度星级重置为0
// @Tags 估值会话
// @Produce json
// @Param id path string true "会话ID"
// @Success 200 {object} APIResponse{data=SessionView}
// @Failure 400 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /sessions/{id}/ratings [delete]
func (c *SessionController) ResetRatings(w http.ResponseWriter, r *http.Request) {
	sess, err := c.sessions.ResetRatings(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		renderError(w, r, "重置评分失败", err)
		return
	}
	render.JSON(w, r, SuccessResponse("重置评分成功", newSessionView(sess)))
}

// ConfirmScores 确认评分
// @Summary 确认评分
// @Description 确认当前评分，之后才能设置权重与计算
// @Tags 估值会话
// @Produce json
// @Param id path string true "会话ID"
// @Success 200 {object} APIResponse{data=SessionView}
// @Failure 400 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /sessions/{id}/confirm [post]
func (c *SessionController) ConfirmScores(w http.ResponseWriter, r *http.Request) {
	sess, err := c.sessions.ConfirmScores(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		renderError(w, r, "确认评分失败", err)
		return
	}
	render.JSON(w, r, SuccessResponse("确认评分成功", newSessionView(sess)))
}

// SetWeighting 设置权重
// @Summary 设置权重
// @Description 开关加权计算并设置维度权重（0-1，未给出的维度默认0.5）；需先确认评分
// @Tags 估值会话
// @Accept json
// @Produce json
// @Param id path string true "会话ID"
// @Param request body WeightingRequest true "权重"
// @Success 200 {object} APIResponse{data=SessionView}
// @Failure 400 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /sessions/{id}/weights [put]
func (c *SessionController) SetWeighting(w http.ResponseWriter, r *http.Request) {
	var req WeightingRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.Render(w, r, BadRequestResponse("请求参数格式错误", err))
		return
	}

	sess, err := c.sessions.SetWeighting(r.Context(), chi.URLParam(r, "id"), req.ApplyWeights, req.Weights)
	if err != nil {
		renderError(w, r, "设置权重失败", err)
		return
	}
	render.JSON(w, r, SuccessResponse("设置权重成功", newSessionView(sess)))
}

// Calculate 计算估值
// @Summary 计算估值
// @Description 计算总分与最高维度，生成新的 submit_id 并保存；保存失败时返回 save_error
// @Tags 估值会话
// @Produce json
// @Param id path string true "会话ID"
// @Success 200 {object} APIResponse{data=session.CalculationView}
// @Failure 400 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /sessions/{id}/calculate [post]
func (c *SessionController) Calculate(w http.ResponseWriter, r *http.Request) {
	view, err := c.sessions.Calculate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		renderError(w, r, "计算估值失败", err)
		return
	}
	render.JSON(w, r, SuccessResponse("计算估值成功", view))
}

// Submit 重试保存
// @Summary 重试保存估值
// @Description 对当前 submit_id 重新尝试保存；已保存的结果不会重复写入
// @Tags 估值会话
// @Produce json
// @Param id path string true "会话ID"
// @Success 200 {object} APIResponse{data=session.CalculationView}
// @Failure 400 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /sessions/{id}/submit [post]
func (c *SessionController) Submit(w http.ResponseWriter, r *http.Request) {
	view, err := c.sessions.Submit(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		renderError(w, r, "保存估值失败", err)
		return
	}
	render.JSON(w, r, SuccessResponse("保存估值完成", view))
}

// GetSummary 获取估值汇总
// @Summary 获取估值汇总
// @Description 获取按得分降序的维度汇总表与展示标签
// @Tags 估值会话
// @Produce json
// @Param id path string true "会话ID"
// @Success 200 {object} APIResponse{data=session.Summary}
// @Failure 400 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /sessions/{id}/summary [get]
func (c *SessionController) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := c.sessions.Summary(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		renderError(w, r, "获取估值汇总失败", err)
		return
	}
	render.JSON(w, r, SuccessResponse("获取估值汇总成功", summary))
}

// dimensionParam 维度路径参数，如 "Policy%20Alignment"
// chi 按 Path 匹配时参数已解码；仅当按 RawPath 匹配时才需要再解码一次
func dimensionParam(r *http.Request) string {
	dim := chi.URLParam(r, "dimension")
	if r.URL.RawPath == "" {
		return dim
	}
	if decoded, err := url.PathUnescape(dim); err == nil {
		return decoded
	}
	return dim
}
