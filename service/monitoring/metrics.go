/*
 * @module service/monitoring/metrics
 * @description 估值服务的Prometheus指标：上传、计算、保存、限流
 * @architecture 分层架构 - 监控层
 * @documentReference DESIGN.md
 * @rules 指标注册在传入的 Registerer 上，测试使用独立注册表
 * @dependencies github.com/prometheus/client_golang
 * @refs service/session/service.go, api/routes.go
 */

package monitoring

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "valuation"

// 保存结果标签
const (
	SaveInserted  = "inserted"
	SaveDuplicate = "duplicate"
	SaveFailed    = "failed"
	SaveSkipped   = "skipped"
)

// Metrics 服务指标集合
type Metrics struct {
	Uploads         *prometheus.CounterVec
	Calculations    *prometheus.CounterVec
	Saves           *prometheus.CounterVec
	PublishFailures *prometheus.CounterVec
	RateLimited     *prometheus.CounterVec
	FinalScore      prometheus.Histogram
	DatasetRows     prometheus.Histogram
}

// NewMetrics 创建并注册指标
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dataset_uploads_total",
			Help:      "Dataset uploads by format and result.",
		}, []string{"format", "result"}),
		Calculations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calculations_total",
			Help:      "Valuation calculations by weighting mode.",
		}, []string{"weighted"}),
		Saves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "saves_total",
			Help:      "Valuation persistence attempts by result.",
		}, []string{"result"}),
		PublishFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_failures_total",
			Help:      "Failed valuation.saved notifications.",
		}, []string{"publisher"}),
		RateLimited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the rate limiter.",
		}, []string{"route"}),
		FinalScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "final_score_percent",
			Help:      "Distribution of calculated valuation scores.",
			Buckets:   prometheus.LinearBuckets(0, 10, 11),
		}),
		DatasetRows: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dataset_rows",
			Help:      "Row counts of uploaded datasets.",
			Buckets:   prometheus.ExponentialBuckets(10, 10, 6),
		}),
	}

	if reg != nil {
		reg.MustRegister(m.Uploads, m.Calculations, m.Saves, m.PublishFailures, m.RateLimited, m.FinalScore, m.DatasetRows)
	}
	return m
}

// ObserveUpload 记录上传结果
func (m *Metrics) ObserveUpload(format string, rows int, err error) {
	if m == nil {
		return
	}
	if format == "" {
		format = "unknown"
	}
	result := "ok"
	if err != nil {
		result = "error"
	} else {
		m.DatasetRows.Observe(float64(rows))
	}
	m.Uploads.WithLabelValues(format, result).Inc()
}

// ObserveCalculation 记录一次计算
func (m *Metrics) ObserveCalculation(weighted bool, score float64) {
	if m == nil {
		return
	}
	m.Calculations.WithLabelValues(strconv.FormatBool(weighted)).Inc()
	m.FinalScore.Observe(score)
}

// ObserveSave 记录保存结果
func (m *Metrics) ObserveSave(result string) {
	if m == nil {
		return
	}
	m.Saves.WithLabelValues(result).Inc()
}

// ObservePublishFailure 记录通知失败
func (m *Metrics) ObservePublishFailure(publisher string) {
	if m == nil {
		return
	}
	m.PublishFailures.WithLabelValues(publisher).Inc()
}

// ObserveRateLimited 记录被限流的请求
func (m *Metrics) ObserveRateLimited(route string) {
	if m == nil {
		return
	}
	m.RateLimited.WithLabelValues(route).Inc()
}
