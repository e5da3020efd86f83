/*
 * @module client/postgrest_client
 * @description PostgREST HTTP客户端，作为托管后端（如 Supabase）的估值结果存储
 * @architecture 适配器模式 - 封装 PostgREST 认证和 HTTP 请求
 * @documentReference DESIGN.md
 * @stateFlow 构建载荷 -> POST /valuations?on_conflict=submit_id -> 解析插入结果
 * @rules 重复 submit_id 由服务端忽略（resolution=ignore-duplicates），409 视为无操作
 * @dependencies net/http, encoding/json, sync, time
 * @refs service/database/valuation_store.go, service/init.go
 */

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"
	"valuation-service/service/models"
)

// PostgRESTClient PostgREST HTTP客户端
type PostgRESTClient struct {
	baseURL    string
	apiKey     string
	schema     string
	table      string
	httpClient *http.Client

	// 统计信息
	stats *ClientStats
}

// ClientStats 客户端统计信息
type ClientStats struct {
	RequestCount    int64     `json:"request_count"`     // 请求总数
	SuccessCount    int64     `json:"success_count"`     // 成功请求数
	DuplicateCount  int64     `json:"duplicate_count"`   // 重复提交被忽略数
	ErrorCount      int64     `json:"error_count"`       // 错误请求数
	LastRequestTime time.Time `json:"last_request_time"` // 最后请求时间
	mutex           sync.RWMutex
}

// PostgRESTConfig PostgREST客户端配置
type PostgRESTConfig struct {
	BaseURL string        `json:"base_url"` // PostgREST服务地址，如 https://xyz.supabase.co/rest/v1
	APIKey  string        `json:"api_key"`  // 服务端密钥，同时作为 apikey 与 Bearer
	Schema  string        `json:"schema"`   // 数据库模式，为空时使用服务端默认
	Table   string        `json:"table"`    // 表名，默认 valuations
	Timeout time.Duration `json:"timeout"`  // HTTP超时时间
}

// NewPostgRESTClient 创建新的PostgREST客户端
func NewPostgRESTClient(config *PostgRESTConfig) *PostgRESTClient {
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	table := config.Table
	if table == "" {
		table = models.Valuation{}.TableName()
	}

	return &PostgRESTClient{
		baseURL: config.BaseURL,
		apiKey:  config.APIKey,
		schema:  config.Schema,
		table:   table,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		stats: &ClientStats{},
	}
}

// Save 插入估值记录，返回是否实际插入
func (c *PostgRESTClient) Save(ctx context.Context, v *models.Valuation) (bool, error) {
	if v == nil || v.SubmitID == "" {
		return false, errors.New("submit_id 不能为空")
	}

	body, err := json.Marshal([]*models.Valuation{v})
	if err != nil {
		return false, fmt.Errorf("序列化估值结果失败: %w", err)
	}

	query := url.Values{}
	query.Set("on_conflict", "submit_id")
	path := "/" + c.table + "?" + query.Encode()

	resp, err := c.makeRequest(ctx, http.MethodPost, path, body, map[string]string{
		"Prefer": "resolution=ignore-duplicates,return=representation",
	})
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusConflict:
		c.recordDuplicate()
		return false, nil
	case resp.StatusCode >= 400:
		respBody, _ := io.ReadAll(resp.Body)
		return false, fmt.Errorf("保存估值结果失败，状态码: %d, 响应: %s", resp.StatusCode, string(respBody))
	case resp.StatusCode == http.StatusNoContent:
		return true, nil
	}

	var rows []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		// 服务端未返回表示体时，按已插入处理
		if errors.Is(err, io.EOF) {
			return true, nil
		}
		return false, fmt.Errorf("解析保存结果失败: %w", err)
	}
	if len(rows) == 0 {
		c.recordDuplicate()
		return false, nil
	}
	return true, nil
}

// Ping 检查 PostgREST 服务可达
func (c *PostgRESTClient) Ping(ctx context.Context) error {
	resp, err := c.makeRequest(ctx, http.MethodHead, "/"+c.table+"?limit=1", nil, nil)
	if err != nil {
		return err
	}
	resp.Body.Close()
	if resp.StatusCode >= 500 {
		return fmt.Errorf("PostgREST不可用，状态码: %d", resp.StatusCode)
	}
	return nil
}

// makeRequest 发起HTTP请求（带密钥认证）
func (c *PostgRESTClient) makeRequest(ctx context.Context, method, path string, body []byte, headers map[string]string) (*http.Response, error) {
	fullURL := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		reqBody = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, fullURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("创建HTTP请求失败: %w", err)
	}

	// 设置认证头
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	// 设置PostgREST必要的头
	if c.schema != "" {
		req.Header.Set("Accept-Profile", c.schema)
		if method != http.MethodGet && method != http.MethodHead {
			req.Header.Set("Content-Profile", c.schema)
		}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	for key, value := range headers {
		req.Header.Set(key, value)
	}

	c.stats.mutex.Lock()
	c.stats.RequestCount++
	c.stats.LastRequestTime = time.Now()
	c.stats.mutex.Unlock()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.stats.mutex.Lock()
		c.stats.ErrorCount++
		c.stats.mutex.Unlock()
		slog.Warn("PostgREST请求失败", "method", method, "path", path, "error", err)
		return nil, fmt.Errorf("HTTP请求失败: %w", err)
	}

	c.stats.mutex.Lock()
	if resp.StatusCode < 400 || resp.StatusCode == http.StatusConflict {
		c.stats.SuccessCount++
	} else {
		c.stats.ErrorCount++
	}
	c.stats.mutex.Unlock()

	return resp, nil
}

func (c *PostgRESTClient) recordDuplicate() {
	c.stats.mutex.Lock()
	c.stats.DuplicateCount++
	c.stats.mutex.Unlock()
}

// GetStats 获取统计信息快照
func (c *PostgRESTClient) GetStats() ClientStats {
	c.stats.mutex.RLock()
	defer c.stats.mutex.RUnlock()
	return ClientStats{
		RequestCount:    c.stats.RequestCount,
		SuccessCount:    c.stats.SuccessCount,
		DuplicateCount:  c.stats.DuplicateCount,
		ErrorCount:      c.stats.ErrorCount,
		LastRequestTime: c.stats.LastRequestTime,
	}
}
