/*
 * @module MQTTConnector
 * @description MQTT发布器，在估值结果首次入库后发布 valuation.saved 事件
 * @architecture 适配器模式 - 封装 paho MQTT 客户端，实现估值事件发布接口
 * @documentReference DESIGN.md
 * @stateFlow 连接建立 -> 发布 -> 断开
 * @rules QoS 1，非保留消息；发布等待超时由上下文或 publishTimeout 决定
 * @dependencies github.com/eclipse/paho.mqtt.golang, encoding/json
 * @refs client/connectors/publisher.go
 */
package connectors

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
	"valuation-service/service/models"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const publishTimeout = 5 * time.Second

// mqttPublisher mqtt.Client 的发布子集
type mqttPublisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// MQTTConfig MQTT发布配置
type MQTTConfig struct {
	Broker    string        `json:"broker"`    // 如 tcp://localhost:1883
	ClientID  string        `json:"client_id"` // 客户端ID
	Username  string        `json:"username"`
	Password  string        `json:"password"`
	Topic     string        `json:"topic"`      // 事件主题
	QoS       byte          `json:"qos"`        // 服务质量
	KeepAlive time.Duration `json:"keep_alive"` // 心跳间隔
}

// MQTTConnector MQTT事件发布器
type MQTTConnector struct {
	config    *MQTTConfig
	client    mqtt.Client
	publisher mqttPublisher
	mutex     sync.RWMutex
	stats     *MQTTStats
}

// MQTTStats MQTT发布统计
type MQTTStats struct {
	ConnectedAt    time.Time `json:"connected_at"`
	MessagesSent   int64     `json:"messages_sent"`
	BytesSent      int64     `json:"bytes_sent"`
	ReconnectCount int       `json:"reconnect_count"`
	LastError      string    `json:"last_error"`
}

// NewMQTTConnector 创建新的MQTT发布器
func NewMQTTConnector(config *MQTTConfig) *MQTTConnector {
	connector := &MQTTConnector{
		config: config,
		stats:  &MQTTStats{},
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(config.Broker)
	opts.SetClientID(config.ClientID)
	if config.Username != "" {
		opts.SetUsername(config.Username)
		opts.SetPassword(config.Password)
	}
	opts.SetCleanSession(true)
	if config.KeepAlive > 0 {
		opts.SetKeepAlive(config.KeepAlive)
	}
	opts.SetAutoReconnect(true)
	opts.SetOnConnectHandler(connector.onConnected)
	opts.SetConnectionLostHandler(connector.onConnectionLost)

	connector.client = mqtt.NewClient(opts)
	connector.publisher = connector.client
	return connector
}

// Connect 建立MQTT连接
func (mc *MQTTConnector) Connect() error {
	token := mc.client.Connect()
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("MQTT连接超时: %s", mc.config.Broker)
	}
	if err := token.Error(); err != nil {
		mc.updateError(err.Error())
		return fmt.Errorf("MQTT连接失败: %w", err)
	}
	return nil
}

// Publish 发布估值已保存事件
func (mc *MQTTConnector) Publish(ctx context.Context, v *models.Valuation) error {
	payload, err := encodeSavedEvent(v)
	if err != nil {
		return err
	}

	token := mc.publisher.Publish(mc.config.Topic, mc.config.QoS, false, payload)

	timeout := publishTimeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}
	select {
	case <-token.Done():
	case <-ctx.Done():
		return fmt.Errorf("MQTT发布被取消: %w", ctx.Err())
	case <-time.After(timeout):
		return fmt.Errorf("MQTT发布超时 topic=%s", mc.config.Topic)
	}
	if err := token.Error(); err != nil {
		mc.updateError(err.Error())
		return fmt.Errorf("MQTT发布失败: %w", err)
	}

	mc.mutex.Lock()
	mc.stats.MessagesSent++
	mc.stats.BytesSent += int64(len(payload))
	mc.mutex.Unlock()

	slog.Debug("估值事件已发布到MQTT", "topic", mc.config.Topic, "submit_id", v.SubmitID)
	return nil
}

// Name 发布器名称
func (mc *MQTTConnector) Name() string {
	return "mqtt"
}

// Close 断开MQTT连接
func (mc *MQTTConnector) Close() error {
	if mc.client != nil && mc.client.IsConnected() {
		mc.client.Disconnect(250) // 等待250ms让消息发送完成
	}
	return nil
}

func (mc *MQTTConnector) onConnected(client mqtt.Client) {
	mc.mutex.Lock()
	mc.stats.ConnectedAt = time.Now()
	mc.mutex.Unlock()
	slog.Info("MQTT已连接", "broker", mc.config.Broker)
}

func (mc *MQTTConnector) onConnectionLost(client mqtt.Client, err error) {
	mc.mutex.Lock()
	mc.stats.ReconnectCount++
	mc.mutex.Unlock()
	mc.updateError(err.Error())
	slog.Warn("MQTT连接丢失", "broker", mc.config.Broker, "error", err)
}

func (mc *MQTTConnector) updateError(errMsg string) {
	mc.mutex.Lock()
	mc.stats.LastError = errMsg
	mc.mutex.Unlock()
}

// GetStatistics 获取统计信息
func (mc *MQTTConnector) GetStatistics() map[string]interface{} {
	mc.mutex.RLock()
	defer mc.mutex.RUnlock()
	return map[string]interface{}{
		"broker":          mc.config.Broker,
		"topic":           mc.config.Topic,
		"messages_sent":   mc.stats.MessagesSent,
		"bytes_sent":      mc.stats.BytesSent,
		"reconnect_count": mc.stats.ReconnectCount,
		"last_error":      mc.stats.LastError,
	}
}
