package rate_limiter

import (
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"github.com/go-chi/render"
)

// Policy 中间件使用的限流参数
type Policy struct {
	Route         string // 路由模板，作为计数键的一部分
	Window        int    // 秒
	MaxPerClient  int
	MaxGlobal     int // 单路由所有客户端合计上限，0 表示不启用
	OnRateLimited func(r *http.Request, result *RateLimitResult)
}

// Middleware 返回按路由与客户端地址限流的 chi 中间件
// Redis 不可用时放行请求，只记录告警
func Middleware(limiter Limiter, policy Policy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rules := []RateLimitRule{{
				Type:        RuleClient,
				Route:       policy.Route,
				TargetID:    clientID(r),
				TimeWindow:  policy.Window,
				MaxRequests: policy.MaxPerClient,
			}}
			if policy.MaxGlobal > 0 {
				rules = append(rules, RateLimitRule{
					Type:        RuleGlobal,
					Route:       policy.Route,
					TimeWindow:  policy.Window,
					MaxRequests: policy.MaxGlobal,
				})
			}

			result, err := limiter.CheckRateLimit(r.Context(), rules)
			if err != nil {
				slog.Warn("限流检查失败，放行请求", "path", r.URL.Path, "error", err)
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt, 10))

			if !result.Allowed {
				if policy.OnRateLimited != nil {
					policy.OnRateLimited(r, result)
				}
				render.Status(r, http.StatusTooManyRequests)
				render.JSON(w, r, map[string]interface{}{
					"status": http.StatusTooManyRequests,
					"msg":    result.Message,
					"data":   result,
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientID 取客户端地址；路由层挂载了 RealIP，代理头已写入 RemoteAddr
func clientID(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
