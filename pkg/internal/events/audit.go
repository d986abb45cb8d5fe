// Package events 消费文件生命周期事件.审计消费者把每个事件写入日志并计数.
package events

import (
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"

	"github.com/yeisme/sharevault/pkg/internal/storage/mq"
	nlog "github.com/yeisme/sharevault/pkg/log"
	"github.com/yeisme/sharevault/pkg/metrics"
	"github.com/yeisme/sharevault/pkg/queue"
)

// auditEvent 只解析审计需要的公共字段.
type auditEvent struct {
	File  queue.FileRef `json:"file"`
	Actor queue.Actor   `json:"actor"`
}

// RegisterAudit 为每个文件主题注册审计消费者.
func RegisterAudit(client *mq.Client) error {
	logger := nlog.Component("audit")

	for _, topic := range queue.FileTopics {
		if err := client.AddConsumer("audit."+topic, topic, AuditHandler(topic, logger)); err != nil {
			return err
		}
	}

	return nil
}

// AuditHandler 返回处理单个主题的消费函数.无法解析的消息记录后丢弃，不触发重试.
func AuditHandler(topic string, logger zerolog.Logger) message.NoPublishHandlerFunc {
	return func(msg *message.Message) error {
		metrics.FileEvents.WithLabelValues(topic).Inc()

		ev, err := queue.ParseMessage[auditEvent](msg)
		if err != nil {
			logger.Warn().Err(err).Str("topic", topic).Str("uuid", msg.UUID).Msg("drop malformed event")
			return nil
		}

		logger.Info().
			Str("topic", topic).
			Str("trace_id", ev.Header.TraceID).
			Time("occurred_at", ev.Header.OccurredAt).
			Str("workspace", ev.Payload.File.Workspace).
			Uint("file_id", ev.Payload.File.FileID).
			Str("name", ev.Payload.File.Name).
			Int64("size", ev.Payload.File.Size).
			Uint("user_id", ev.Payload.Actor.UserID).
			Str("username", ev.Payload.Actor.Username).
			Msg("file event")

		return nil
	}
}
