// Package queue 定义文件事件的主题、负载与统一信封.
//
// 每条消息体是一个 JSON 信封：
//
//	{
//	  "header": {"topic": "sv.file.uploaded", "trace_id": "...", "producer": "sharevault",
//	             "occurred_at": "2025-01-02T03:04:05.123456Z", "version": "v1"},
//	  "payload": { ... }
//	}
//
// header 中的非空字段同时写入 watermill 消息元数据，消费者无需解码即可路由或过滤.
// 发布由 Emitter 完成，失败只记录日志，不影响已经完成的文件操作.
package queue

import (
	"context"
	"time"

	watermill "github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/bytedance/sonic"
	"go.opentelemetry.io/otel/trace"
)

const (
	PayloadVersionV1 = "v1"
	DefaultProducer  = "sharevault"
)

// HeaderOption 调整事件头.
type HeaderOption func(*EventHeader)

// WithTraceID 指定 trace ID，缺省时从 context 的 span 中读取.
func WithTraceID(id string) HeaderOption { return func(h *EventHeader) { h.TraceID = id } }

// WithProducer 覆盖生产者标识.
func WithProducer(p string) HeaderOption { return func(h *EventHeader) { h.Producer = p } }

func newHeader(ctx context.Context, topic string, opts []HeaderOption) EventHeader {
	h := EventHeader{
		Topic:      topic,
		Producer:   DefaultProducer,
		OccurredAt: time.Now().UTC(),
		Version:    PayloadVersionV1,
	}

	if sc := trace.SpanFromContext(ctx).SpanContext(); sc.HasTraceID() {
		h.TraceID = sc.TraceID().String()
	}

	for _, opt := range opts {
		opt(&h)
	}

	return h
}

// metadata 返回要写入消息元数据的非空头字段.
func (h EventHeader) metadata() map[string]string {
	md := map[string]string{
		"topic":       h.Topic,
		"occurred_at": h.OccurredAt.Format(time.RFC3339Nano),
	}

	for k, v := range map[string]string{"trace_id": h.TraceID, "producer": h.Producer, "version": h.Version} {
		if v != "" {
			md[k] = v
		}
	}

	return md
}

// NewMessage 把负载包进信封并构造 watermill 消息.
func NewMessage[T any](ctx context.Context, topic string, payload T, opts ...HeaderOption) (*message.Message, error) {
	h := newHeader(ctx, topic, opts)

	data, err := sonic.Marshal(Message[T]{Header: h, Payload: payload})
	if err != nil {
		return nil, err
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	for k, v := range h.metadata() {
		msg.Metadata.Set(k, v)
	}

	return msg, nil
}

// ParseMessage 解码信封，未知字段被忽略.
func ParseMessage[T any](msg *message.Message) (Message[T], error) {
	var m Message[T]

	err := sonic.Unmarshal(msg.Payload, &m)

	return m, err
}
