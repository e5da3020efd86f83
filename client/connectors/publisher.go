/*
 * @module connectors/publisher
 * @description 估值事件发布公共部分：事件格式与多路发布
 * @architecture 组合模式 - MultiPublisher 将同一事件扇出到多个发布器
 * @documentReference DESIGN.md
 * @rules 单个发布器失败不影响其他发布器，错误合并后返回
 * @dependencies encoding/json, errors
 * @refs kafka_connector.go, mqtt_connector.go
 */
package connectors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"valuation-service/service/models"
)

// EventValuationSaved 估值首次入库事件
const EventValuationSaved = "valuation.saved"

// ValuationPublisher 估值事件发布器接口
type ValuationPublisher interface {
	Publish(ctx context.Context, v *models.Valuation) error
	Name() string
	Close() error
}

// SavedEvent 发布到消息系统的事件体
type SavedEvent struct {
	Event     string            `json:"event"`
	Valuation *models.Valuation `json:"valuation"`
}

func encodeSavedEvent(v *models.Valuation) ([]byte, error) {
	if v == nil {
		return nil, errors.New("估值结果为空")
	}
	data, err := json.Marshal(SavedEvent{Event: EventValuationSaved, Valuation: v})
	if err != nil {
		return nil, fmt.Errorf("序列化估值事件失败: %w", err)
	}
	return data, nil
}

// MultiPublisher 多路发布器
type MultiPublisher struct {
	publishers []ValuationPublisher
}

// NewMultiPublisher 创建多路发布器，忽略 nil 项
func NewMultiPublisher(publishers ...ValuationPublisher) *MultiPublisher {
	mp := &MultiPublisher{}
	for _, p := range publishers {
		if p != nil {
			mp.publishers = append(mp.publishers, p)
		}
	}
	return mp
}

// Publish 依次发布到所有发布器
func (mp *MultiPublisher) Publish(ctx context.Context, v *models.Valuation) error {
	var errs []error
	for _, p := range mp.publishers {
		if err := p.Publish(ctx, v); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// Name 发布器名称
func (mp *MultiPublisher) Name() string {
	return "multi"
}

// Len 已注册发布器数量
func (mp *MultiPublisher) Len() int {
	return len(mp.publishers)
}

// Close 关闭所有发布器
func (mp *MultiPublisher) Close() error {
	var errs []error
	for _, p := range mp.publishers {
		if err := p.Close(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
		}
	}
	return errors.Join(errs...)
}
