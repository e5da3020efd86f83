/*
 * @module NATSConnector
 * @description NATS发布器，在估值结果首次入库后发送 valuation.saved 事件
 * @architecture 适配器模式 - 封装 nats.Conn，实现估值事件发布接口
 * @documentReference DESIGN.md
 * @stateFlow 连接 -> 构建事件 -> PublishMsg -> Flush -> 关闭
 * @rules 事件头携带 event 与 submit_id；断线重连由 nats 客户端负责
 * @dependencies github.com/nats-io/nats.go
 * @refs client/connectors/publisher.go, service/init.go
 */
package connectors

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
	"valuation-service/service/models"

	"github.com/nats-io/nats.go"
)

// natsConn nats.Conn 的最小接口，便于测试替换
type natsConn interface {
	PublishMsg(msg *nats.Msg) error
	FlushTimeout(timeout time.Duration) error
	Close()
}

// NATSConfig NATS发布配置
type NATSConfig struct {
	URL            string        `json:"url"`
	Name           string        `json:"name"`
	Subject        string        `json:"subject"`
	ReconnectWait  time.Duration `json:"reconnect_wait"`
	MaxReconnects  int           `json:"max_reconnects"`
	ConnectTimeout time.Duration `json:"connect_timeout"`
}

// NATSConnector NATS事件发布器
type NATSConnector struct {
	config     *NATSConfig
	conn       natsConn
	mutex      sync.Mutex
	sent       int64
	reconnects int
}

// NewNATSConnector 连接NATS并创建发布器
func NewNATSConnector(config *NATSConfig) (*NATSConnector, error) {
	if config.ReconnectWait == 0 {
		config.ReconnectWait = 2 * time.Second
	}
	if config.ConnectTimeout == 0 {
		config.ConnectTimeout = publishTimeout
	}

	nc := &NATSConnector{config: config}
	opts := []nats.Option{
		nats.Name(config.Name),
		nats.ReconnectWait(config.ReconnectWait),
		nats.MaxReconnects(config.MaxReconnects),
		nats.Timeout(config.ConnectTimeout),
		nats.ReconnectHandler(func(*nats.Conn) {
			nc.mutex.Lock()
			nc.reconnects++
			nc.mutex.Unlock()
			slog.Info("NATS重连成功", "url", config.URL)
		}),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				slog.Warn("NATS连接断开", "url", config.URL, "error", err)
			}
		}),
	}

	conn, err := nats.Connect(config.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("连接NATS失败: %w", err)
	}
	nc.conn = conn
	return nc, nil
}

// Publish 发送估值已保存事件
func (nc *NATSConnector) Publish(ctx context.Context, v *models.Valuation) error {
	payload, err := encodeSavedEvent(v)
	if err != nil {
		return err
	}

	msg := nats.NewMsg(nc.config.Subject)
	msg.Data = payload
	msg.Header.Set("event", EventValuationSaved)
	msg.Header.Set("submit_id", v.SubmitID)

	if err := nc.conn.PublishMsg(msg); err != nil {
		return fmt.Errorf("发送NATS消息失败: %w", err)
	}

	timeout := publishTimeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}
	if err := nc.conn.FlushTimeout(timeout); err != nil {
		return fmt.Errorf("NATS消息确认超时: %w", err)
	}

	nc.mutex.Lock()
	nc.sent++
	nc.mutex.Unlock()

	slog.Debug("估值事件已发送到NATS", "subject", nc.config.Subject, "submit_id", v.SubmitID)
	return nil
}

// Name 发布器名称
func (nc *NATSConnector) Name() string {
	return "nats"
}

// Close 关闭连接
func (nc *NATSConnector) Close() error {
	nc.conn.Close()
	return nil
}

// GetStatistics 获取统计信息
func (nc *NATSConnector) GetStatistics() map[string]interface{} {
	nc.mutex.Lock()
	defer nc.mutex.Unlock()
	return map[string]interface{}{
		"subject":         nc.config.Subject,
		"messages_sent":   nc.sent,
		"reconnect_count": nc.reconnects,
	}
}
