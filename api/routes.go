/*
 * @module api/routes
 * @description API路由配置模块，负责初始化和配置所有HTTP路由
 * @architecture RESTful API架构
 * @documentReference DESIGN.md
 * @stateFlow 估值会话状态保存在会话存储中，HTTP层无状态
 * @rules 统一响应格式；上传与计算接口在启用时按客户端限流
 * @dependencies github.com/go-chi/chi/v5, github.com/go-chi/cors, github.com/go-chi/render
 * @refs api/controllers, service/init.go
 */

package api

import (
	"net/http"
	"valuation-service/api/controllers"
	apimw "valuation-service/api/middleware"
	"valuation-service/service"
	"valuation-service/service/rate_limiter"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
)

// InitRoute 初始化所有API路由
func InitRoute(r *chi.Mux, c *service.Container) {
	// 基础中间件
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(apimw.NewAccessLog(nil).Middleware)
	r.Use(middleware.Recoverer)
	r.Use(render.SetContentType(render.ContentTypeJSON))

	// CORS配置
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	cfg := c.Config
	limit := rateLimit(c)

	// 健康检查
	healthController := controllers.NewHealthController(c.Health)
	r.Get("/health", healthController.Health)
	r.Get("/ready", healthController.Ready)

	// 元数据
	r.Route("/meta", func(r chi.Router) {
		metaController := controllers.NewMetaController()
		r.Get("/dimensions", metaController.GetDimensions)
		r.Get("/use-cases", metaController.GetUseCases)
	})

	// 数据集质量评估（无状态）
	r.Route("/datasets", func(r chi.Router) {
		datasetController := controllers.NewDatasetController(cfg.Server.MaxUploadMB, c.Metrics)
		r.With(limit("/datasets/quality")).Post("/quality", datasetController.EvaluateQuality)
	})

	// 估值聚合（无状态）
	r.Route("/valuations", func(r chi.Router) {
		valuationController := controllers.NewValuationController(cfg.Valuation.RatingMin, c.Sessions.Policy())
		r.Post("/aggregate", valuationController.Aggregate)
	})

	// 估值会话
	r.Route("/sessions", func(r chi.Router) {
		sessionController := controllers.NewSessionController(c.Sessions, cfg.Server.MaxUploadMB)
		r.Post("/", sessionController.CreateSession)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", sessionController.GetSession)
			r.Delete("/", sessionController.DeleteSession)
			r.With(limit("/sessions/{id}/dataset")).Post("/dataset", sessionController.UploadDataset)
			r.Put("/use-case", sessionController.SelectUseCase)
			r.Put("/ratings/{dimension}", sessionController.RateDimension)
			r.Delete("/ratings/{dimension}", sessionController.ResetDimension)
			r.Delete("/ratings", sessionController.ResetRatings)
			r.Post("/confirm", sessionController.ConfirmScores)
			r.Put("/weights", sessionController.SetWeighting)
			r.With(limit("/sessions/{id}/calculate")).Post("/calculate", sessionController.Calculate)
			r.Post("/submit", sessionController.Submit)
			r.Get("/summary", sessionController.GetSummary)
		})
	})
}

// rateLimit 返回按路由独立计数的限流中间件构造器；未启用限流时直接放行
func rateLimit(c *service.Container) func(route string) func(http.Handler) http.Handler {
	return func(route string) func(http.Handler) http.Handler {
		if c.RateLimiter == nil {
			return func(next http.Handler) http.Handler { return next }
		}
		return rate_limiter.Middleware(c.RateLimiter, rate_limiter.Policy{
			Route:        route,
			Window:       c.Config.RateLimit.Window,
			MaxPerClient: c.Config.RateLimit.Max,
			MaxGlobal:    c.Config.RateLimit.GlobalMax,
			OnRateLimited: func(r *http.Request, result *rate_limiter.RateLimitResult) {
				c.Metrics.ObserveRateLimited(route)
			},
		})
	}
}
