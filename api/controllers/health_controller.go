/*
 * @module api/controllers/health_controller
 * @description 健康检查控制器，提供存活与就绪检查
 * @architecture MVC架构 - 控制器层
 * @documentReference DESIGN.md
 * @stateFlow HTTP请求处理流程
 * @rules 存活检查不访问依赖；就绪检查探测存储与Redis，任一失败返回503
 * @dependencies net/http, valuation-service/service/monitoring
 * @refs service/monitoring/health_checker.go
 */

package controllers

import (
	"net/http"
	"time"
	"valuation-service/service/monitoring"

	"github.com/go-chi/render"
)

const serviceName = "valuation-service"

// HealthController 健康检查控制器
type HealthController struct {
	checker *monitoring.HealthChecker
}

// NewHealthController 创建健康检查控制器实例，checker 为空时就绪检查只返回自身状态
func NewHealthController(checker *monitoring.HealthChecker) *HealthController {
	return &HealthController{checker: checker}
}

// HealthResponse 健康检查响应结构
type HealthResponse struct {
	Status     string                       `json:"status" example:"ok"`
	Timestamp  time.Time                    `json:"timestamp" example:"2024-01-01T00:00:00Z"`
	Version    string                       `json:"version" example:"1.0.0"`
	Service    string                       `json:"service" example:"valuation-service"`
	Components []monitoring.ComponentHealth `json:"components,omitempty"`
}

// Health 健康检查
// @Summary 健康检查
// @Description 检查服务健康状态
// @Tags 系统
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (c *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   "1.0.0",
		Service:   serviceName,
	})
}

// Ready 就绪检查
// @Summary 就绪检查
// @Description 检查服务依赖（数据库/PostgREST/Redis）是否就绪
// @Tags 系统
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /ready [get]
func (c *HealthController) Ready(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:    "ready",
		Timestamp: time.Now(),
		Version:   "1.0.0",
		Service:   serviceName,
	}

	if c.checker != nil {
		status := c.checker.Check(r.Context())
		response.Components = status.Components
		if status.Overall != monitoring.StatusHealthy {
			response.Status = status.Overall
			render.Status(r, http.StatusServiceUnavailable)
		}
	}

	render.JSON(w, r, response)
}
