/*
 * @module KafkaConnector
 * @description Kafka发布器，在估值结果首次入库后发送 valuation.saved 事件
 * @architecture 适配器模式 - 封装 kafka-go Writer，实现估值事件发布接口
 * @documentReference DESIGN.md
 * @stateFlow 构建事件 -> 序列化 -> WriteMessages -> 关闭
 * @rules 以 submit_id 作为消息键，保证同一提交落入同一分区
 * @dependencies github.com/segmentio/kafka-go, encoding/json
 * @refs client/connectors/publisher.go, service/session/service.go
 */
package connectors

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
	"valuation-service/service/models"

	"github.com/segmentio/kafka-go"
)

// messageWriter kafka.Writer 的最小接口，便于测试替换
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaConfig Kafka发布配置
type KafkaConfig struct {
	Brokers      []string      `json:"brokers"`       // broker地址列表
	Topic        string        `json:"topic"`         // 事件主题
	RequiredAcks int           `json:"required_acks"` // 确认级别，默认 1
	WriteTimeout time.Duration `json:"write_timeout"` // 写超时
}

// KafkaConnector Kafka事件发布器
type KafkaConnector struct {
	config *KafkaConfig
	writer messageWriter
	mutex  sync.Mutex
	sent   int64
}

// NewKafkaConnector 创建新的Kafka发布器
func NewKafkaConnector(config *KafkaConfig) *KafkaConnector {
	acks := config.RequiredAcks
	if acks == 0 {
		acks = int(kafka.RequireOne)
	}
	timeout := config.WriteTimeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(config.Brokers...),
		Topic:        config.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequiredAcks(acks),
		WriteTimeout: timeout,
	}
	return &KafkaConnector{config: config, writer: writer}
}

// Publish 发送估值已保存事件
func (kc *KafkaConnector) Publish(ctx context.Context, v *models.Valuation) error {
	value, err := encodeSavedEvent(v)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(v.SubmitID),
		Value: value,
		Time:  time.Now().UTC(),
		Headers: []kafka.Header{
			{Key: "event", Value: []byte(EventValuationSaved)},
		},
	}

	if err := kc.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("发送Kafka消息失败: %w", err)
	}

	kc.mutex.Lock()
	kc.sent++
	kc.mutex.Unlock()

	slog.Debug("估值事件已发送到Kafka", "topic", kc.config.Topic, "submit_id", v.SubmitID)
	return nil
}

// Name 发布器名称
func (kc *KafkaConnector) Name() string {
	return "kafka"
}

// Close 关闭生产者
func (kc *KafkaConnector) Close() error {
	return kc.writer.Close()
}

// GetStatistics 获取统计信息
func (kc *KafkaConnector) GetStatistics() map[string]interface{} {
	kc.mutex.Lock()
	defer kc.mutex.Unlock()
	return map[string]interface{}{
		"topic":         kc.config.Topic,
		"brokers":       kc.config.Brokers,
		"messages_sent": kc.sent,
	}
}
