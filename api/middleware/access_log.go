/*
 * @module api/middleware/access_log
 * @description 结构化访问日志中间件，记录请求方法、路径、状态码、耗时与会话ID
 * @architecture 中间件模式 - HTTP请求拦截
 * @documentReference DESIGN.md
 * @stateFlow 请求进入 -> 包装响应 -> 下一个处理器 -> 记录日志
 * @rules 探针、指标与文档路径不记录；5xx 记为 Error，4xx 记为 Warn
 * @dependencies log/slog, github.com/go-chi/chi/v5/middleware
 * @refs api/routes.go
 */

package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// AccessLog 访问日志中间件
type AccessLog struct {
	logger    *slog.Logger
	skipPaths []string
}

// NewAccessLog 创建访问日志中间件，logger 为空时使用默认 logger
func NewAccessLog(logger *slog.Logger) *AccessLog {
	if logger == nil {
		logger = slog.Default()
	}
	return &AccessLog{
		logger: logger,
		skipPaths: []string{
			"/health",
			"/ready",
			"/metrics",
			"/swagger",
		},
	}
}

// AddSkipPath 添加不记录日志的路径前缀
func (a *AccessLog) AddSkipPath(path string) {
	a.skipPaths = append(a.skipPaths, path)
}

// IsSkipPath 检查路径是否跳过记录（前缀匹配）
func (a *AccessLog) IsSkipPath(path string) bool {
	for _, p := range a.skipPaths {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// Middleware 访问日志处理函数
func (a *AccessLog) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.IsSkipPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		attrs := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", chimw.GetReqID(r.Context()),
		}
		if id := sessionID(r); id != "" {
			attrs = append(attrs, "session_id", id)
		}

		switch {
		case status >= http.StatusInternalServerError:
			a.logger.Error("请求处理失败", attrs...)
		case status >= http.StatusBadRequest:
			a.logger.Warn("请求被拒绝", attrs...)
		default:
			a.logger.Info("请求完成", attrs...)
		}
	})
}

// sessionID 路由匹配后的会话ID
func sessionID(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		return rctx.URLParam("id")
	}
	return ""
}
