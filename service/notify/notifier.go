/*
 * @module service/notify/notifier
 * @description 导入事件通知，导入成功或新周期开始后向消息系统广播事件
 * @architecture 适配器模式 - 统一的 Publisher 接口，按配置选择 Kafka / MQTT / 不通知
 * @documentReference DESIGN.md
 * @stateFlow 导入完成 -> 构造事件 -> 序列化 -> 发布
 * @rules 发布失败只记录日志，不影响导入结果
 * @dependencies github.com/segmentio/kafka-go, github.com/eclipse/paho.mqtt.golang
 * @refs service/importlog
 */

package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"inspection-review-service/service/config"
	"inspection-review-service/service/models"
	"time"
)

// ImportEvent 导入事件
type ImportEvent struct {
	BatchID              string            `json:"batch_id"`
	Kind                 models.ImportKind `json:"kind"`
	FileName             string            `json:"file_name"`
	RecordsCount         int               `json:"records_count"`
	UnmatchedStoresCount int               `json:"unmatched_stores_count"`
	SkippedRowsCount     int               `json:"skipped_rows_count"`
	OccurredAt           time.Time         `json:"occurred_at"`
}

// EventFromLog 由导入记录构造事件
func EventFromLog(l *models.ImportLog) ImportEvent {
	return ImportEvent{
		BatchID:              l.ID,
		Kind:                 l.Kind,
		FileName:             l.FileName,
		RecordsCount:         l.RecordsCount,
		UnmatchedStoresCount: l.UnmatchedStoresCount,
		SkippedRowsCount:     l.SkippedRowsCount,
		OccurredAt:           l.CreatedAt,
	}
}

func (e ImportEvent) payload() ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("序列化导入事件失败: %w", err)
	}
	return data, nil
}

// Publisher 事件发布接口
type Publisher interface {
	Publish(ctx context.Context, event ImportEvent) error
	Close() error
}

// NopPublisher 不发送任何通知
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, event ImportEvent) error { return nil }

func (NopPublisher) Close() error { return nil }

// New 根据配置创建发布器
func New(cfg config.NotifyConfig) (Publisher, error) {
	switch cfg.Driver {
	case "", "none":
		return NopPublisher{}, nil
	case "kafka":
		return NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic), nil
	case "mqtt":
		return NewMQTTPublisher(cfg.MQTTBroker, cfg.MQTTClientID, cfg.MQTTTopic)
	default:
		return nil, fmt.Errorf("不支持的通知方式: %s", cfg.Driver)
	}
}
