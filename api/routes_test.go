/*
 * @module api/routes_test
 * @description 路由集成测试：估值会话完整流程、错误状态码与限流
 * @architecture 测试层
 * @documentReference DESIGN.md
 * @stateFlow 装配容器 -> 路由请求 -> 响应与存储验证
 * @rules 使用内存会话存储与SQLite估值存储，不依赖外部服务
 * @dependencies testing, net/http/httptest, stretchr/testify
 */

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"
	"valuation-service/service"
	"valuation-service/service/config"
	"valuation-service/service/database"
	"valuation-service/service/meta"
	"valuation-service/service/models"
	"valuation-service/service/monitoring"
	"valuation-service/service/rate_limiter"
	"valuation-service/service/session"
	"valuation-service/service/valuation"
	"valuation-service/testutil"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
)

type envelope struct {
	Status int             `json:"status"`
	Msg    string          `json:"msg"`
	Data   json.RawMessage `json:"data"`
}

// RoutesTestSuite 路由测试套件
type RoutesTestSuite struct {
	suite.Suite
	testDB    *testutil.TestDB
	helper    *testutil.HTTPTestHelper
	container *service.Container
	router    *chi.Mux
}

func (s *RoutesTestSuite) SetupTest() {
	s.testDB = testutil.NewTestDB()
	s.helper = testutil.NewHTTPTestHelper()

	store := database.NewGormValuationStore(s.testDB.DB)
	metrics := monitoring.NewMetrics(prometheus.NewRegistry())
	health := monitoring.NewHealthChecker(time.Second)
	health.Register("database", store.Ping)

	s.container = &service.Container{
		Config:     config.Default(),
		DB:         s.testDB.DB,
		Valuations: store,
		Metrics:    metrics,
		Health:     health,
		Sessions: session.NewService(session.NewMemoryStore(time.Hour), nil, store, nil, metrics, session.Options{
			MinStars: meta.DefaultMinStars,
			Policy:   valuation.DisplayPolicy{SuppressZeroTags: true},
		}),
	}
	s.router = chi.NewRouter()
	InitRoute(s.router, s.container)
}

func (s *RoutesTestSuite) TearDownTest() {
	s.testDB.Close()
}

func (s *RoutesTestSuite) serve(req *http.Request) (*httptest.ResponseRecorder, envelope) {
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var body envelope
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return w, body
}

func (s *RoutesTestSuite) do(method, path string, payload interface{}) (*httptest.ResponseRecorder, envelope) {
	req, err := s.helper.CreateJSONRequest(method, path, payload)
	s.Require().NoError(err)
	return s.serve(req)
}

func (s *RoutesTestSuite) upload(path, name, content string) (*httptest.ResponseRecorder, envelope) {
	req, err := s.helper.CreateUploadRequest(path, name, []byte(content))
	s.Require().NoError(err)
	return s.serve(req)
}

func (s *RoutesTestSuite) createSession() string {
	w, body := s.do(http.MethodPost, "/sessions", nil)
	s.Require().Equal(http.StatusOK, w.Code)

	var sess session.Session
	s.Require().NoError(json.Unmarshal(body.Data, &sess))
	s.Require().NotEmpty(sess.ID)
	return sess.ID
}

func (s *RoutesTestSuite) countValuations() int64 {
	var n int64
	s.Require().NoError(s.testDB.DB.Model(&models.Valuation{}).Count(&n).Error)
	return n
}

func ratingPath(id, dim string) string {
	return "/sessions/" + id + "/ratings/" + url.PathEscape(dim)
}

func (s *RoutesTestSuite) TestValuationFlow() {
	id := s.createSession()
	base := "/sessions/" + id

	w, _ := s.do(http.MethodPost, base+"/calculate", nil)
	s.Equal(http.StatusBadRequest, w.Code, "未上传数据集不能计算")

	w, _ = s.upload(base+"/dataset", "rivers.csv", testutil.CSVFixture)
	s.Require().Equal(http.StatusOK, w.Code)

	w, _ = s.do(http.MethodPut, base+"/use-case", map[string]string{"use_case": "Research"})
	s.Equal(http.StatusBadRequest, w.Code, "未知用途")
	w, _ = s.do(http.MethodPut, base+"/use-case", map[string]string{"use_case": "Water Quality Risk Assessment"})
	s.Require().Equal(http.StatusOK, w.Code)

	w, _ = s.do(http.MethodPut, ratingPath(id, meta.DimensionEconomic), map[string]int{"stars": 5})
	s.Require().Equal(http.StatusOK, w.Code)
	w, body := s.do(http.MethodPut, ratingPath(id, meta.DimensionPolicyAlignment), map[string]int{"stars": 3})
	s.Require().Equal(http.StatusOK, w.Code)

	var view struct {
		CurrentRatings map[string]int `json:"current_ratings"`
	}
	s.Require().NoError(json.Unmarshal(body.Data, &view))
	s.Equal(3, view.CurrentRatings[meta.DimensionPolicyAlignment])

	w, _ = s.do(http.MethodPut, ratingPath(id, meta.DimensionSocial), map[string]int{"stars": 6})
	s.Equal(http.StatusBadRequest, w.Code)

	w, _ = s.do(http.MethodPut, base+"/weights", map[string]interface{}{"apply_weights": true})
	s.Equal(http.StatusBadRequest, w.Code, "未确认评分不能设置权重")

	w, _ = s.do(http.MethodPost, base+"/confirm", nil)
	s.Require().Equal(http.StatusOK, w.Code)

	w, body = s.do(http.MethodPost, base+"/calculate", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var calc session.CalculationView
	s.Require().NoError(json.Unmarshal(body.Data, &calc))
	s.Equal(26.67, calc.FinalScorePercent)
	s.Equal([]string{meta.DimensionEconomic}, calc.TopDimensions)
	s.Equal(session.StateSaved, calc.State)
	s.Equal(session.OutcomeInserted, calc.Outcome)
	s.Empty(calc.SaveError)
	s.EqualValues(1, s.countValuations())

	w, body = s.do(http.MethodPost, base+"/submit", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var retry session.CalculationView
	s.Require().NoError(json.Unmarshal(body.Data, &retry))
	s.Equal(calc.SubmitID, retry.SubmitID)
	s.Equal(session.OutcomeSkipped, retry.Outcome)
	s.EqualValues(1, s.countValuations(), "同一 submit_id 不重复保存")

	w, body = s.do(http.MethodGet, base+"/summary", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var summary session.Summary
	s.Require().NoError(json.Unmarshal(body.Data, &summary))
	s.Require().Len(summary.Rows, 6)
	s.Equal(meta.DimensionEconomic, summary.Rows[0].Dimension)
	s.Equal(meta.DimensionPolicyAlignment, summary.Rows[1].Dimension)

	// 评分变化后计算结果失效
	w, _ = s.do(http.MethodDelete, ratingPath(id, meta.DimensionEconomic), nil)
	s.Require().Equal(http.StatusOK, w.Code)
	w, _ = s.do(http.MethodGet, base+"/summary", nil)
	s.Equal(http.StatusBadRequest, w.Code)

	w, _ = s.do(http.MethodPost, base+"/confirm", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	w, body = s.do(http.MethodPost, base+"/calculate", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var second session.CalculationView
	s.Require().NoError(json.Unmarshal(body.Data, &second))
	s.NotEqual(calc.SubmitID, second.SubmitID, "每次计算生成新的 submit_id")
	s.Equal(10.0, second.FinalScorePercent)
	s.EqualValues(2, s.countValuations())
}

func (s *RoutesTestSuite) TestWeightedCalculation() {
	id := s.createSession()
	base := "/sessions/" + id

	s.upload(base+"/dataset", "rivers.csv", testutil.CSVFixture)
	s.do(http.MethodPut, base+"/use-case", map[string]string{"use_case": "Planning & Development"})
	s.do(http.MethodPut, ratingPath(id, meta.DimensionEconomic), map[string]int{"stars": 4})
	s.do(http.MethodPut, ratingPath(id, meta.DimensionSocial), map[string]int{"stars": 2})
	s.do(http.MethodPost, base+"/confirm", nil)

	w, _ := s.do(http.MethodPut, base+"/weights", map[string]interface{}{
		"apply_weights": true,
		"weights":       map[string]float64{meta.DimensionEconomic: 1, meta.DimensionSocial: 0},
	})
	s.Require().Equal(http.StatusOK, w.Code)

	w, body := s.do(http.MethodPost, base+"/calculate", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var calc session.CalculationView
	s.Require().NoError(json.Unmarshal(body.Data, &calc))
	s.True(calc.Result.ApplyWeights)
	// (4*1 + 2*0) / (5*1 + 5*0 + 4*5*0.5) = 4/15
	s.Equal(26.67, calc.FinalScorePercent)
	s.Equal([]string{meta.DimensionEconomic}, calc.TopDimensions)
}

func (s *RoutesTestSuite) TestSessionNotFound() {
	w, body := s.do(http.MethodGet, "/sessions/missing", nil)
	s.Equal(http.StatusNotFound, w.Code)
	s.Equal(http.StatusNotFound, body.Status)

	w, _ = s.do(http.MethodPost, "/sessions/missing/confirm", nil)
	s.Equal(http.StatusNotFound, w.Code)

	id := s.createSession()
	w, _ = s.do(http.MethodDelete, "/sessions/"+id, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	w, _ = s.do(http.MethodGet, "/sessions/"+id, nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *RoutesTestSuite) TestUploadRejectedKeepsSession() {
	id := s.createSession()
	base := "/sessions/" + id

	w, _ := s.upload(base+"/dataset", "rivers.csv", testutil.CSVFixture)
	s.Require().Equal(http.StatusOK, w.Code)

	w, _ = s.upload(base+"/dataset", "rivers.pdf", "%PDF")
	s.Equal(http.StatusBadRequest, w.Code)

	w, body := s.do(http.MethodGet, base, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var sess session.Session
	s.Require().NoError(json.Unmarshal(body.Data, &sess))
	s.Require().NotNil(sess.Dataset)
	s.Equal("rivers.csv", sess.Dataset.Name)
}

func (s *RoutesTestSuite) TestMetaAndReady() {
	w, _ := s.do(http.MethodGet, "/meta/use-cases", nil)
	s.Equal(http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	s.Equal(http.StatusOK, w.Code)
}

// denyLimiter 始终拒绝的限流器，记录收到的规则
type denyLimiter struct {
	mu    sync.Mutex
	rules []rate_limiter.RateLimitRule
}

func (d *denyLimiter) CheckRateLimit(ctx context.Context, rules []rate_limiter.RateLimitRule) (*rate_limiter.RateLimitResult, error) {
	d.mu.Lock()
	d.rules = append(d.rules, rules...)
	d.mu.Unlock()
	return &rate_limiter.RateLimitResult{
		Allowed:       false,
		Limit:         rules[0].MaxRequests,
		ResetAt:       time.Now().Add(time.Minute).Unix(),
		RateLimitType: "client",
		Message:       "请求过于频繁",
	}, nil
}

func (s *RoutesTestSuite) TestRateLimitedRoutes() {
	id := s.createSession()

	limiter := &denyLimiter{}
	s.container.RateLimiter = limiter
	s.router = chi.NewRouter()
	InitRoute(s.router, s.container)

	req, err := s.helper.CreateJSONRequest(http.MethodPost, "/sessions/"+id+"/calculate", nil)
	s.Require().NoError(err)
	req.Header.Set("X-Real-IP", "203.0.113.7")
	w, body := s.serve(req)
	s.Equal(http.StatusTooManyRequests, w.Code)
	s.Equal(http.StatusTooManyRequests, body.Status)
	s.NotEmpty(w.Header().Get("X-RateLimit-Reset"))

	w, _ = s.upload("/datasets/quality", "rivers.csv", testutil.CSVFixture)
	s.Equal(http.StatusTooManyRequests, w.Code)

	s.Equal(1.0, promtest.ToFloat64(s.container.Metrics.RateLimited.WithLabelValues("/sessions/{id}/calculate")))
	s.Equal(1.0, promtest.ToFloat64(s.container.Metrics.RateLimited.WithLabelValues("/datasets/quality")))

	// 计数键按路由区分，客户端地址取自代理头
	s.Require().Len(limiter.rules, 2)
	s.Equal("/sessions/{id}/calculate", limiter.rules[0].Route)
	s.Equal("203.0.113.7", limiter.rules[0].TargetID)
	s.Equal("/datasets/quality", limiter.rules[1].Route)

	// 未限流的接口不受影响
	w, _ = s.do(http.MethodGet, "/sessions/"+id, nil)
	s.Equal(http.StatusOK, w.Code)
}

func TestRoutesTestSuite(t *testing.T) {
	suite.Run(t, new(RoutesTestSuite))
}
