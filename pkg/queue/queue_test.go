package queue_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	"github.com/yeisme/sharevault/pkg/configs"
	"github.com/yeisme/sharevault/pkg/queue"
)

type recorder struct {
	topics []string
	msgs   []*message.Message
	err    error
}

func (r *recorder) Publish(_ context.Context, topic string, msgs ...*message.Message) error {
	r.topics = append(r.topics, topic)
	r.msgs = append(r.msgs, msgs...)

	return r.err
}

func TestEnvelopeRoundTrip(t *testing.T) {
	payload := queue.FileUploadedPayload{
		File:  queue.FileRef{Workspace: "default", FileID: 3, Name: "a.txt", Type: "txt", Size: 5},
		Actor: queue.Actor{UserID: 1, Username: "alice"},
	}

	msg, err := queue.NewMessage(context.Background(), queue.TopicFileUploaded, payload, queue.WithTraceID("t-1"))
	require.NoError(t, err)
	assert.Equal(t, queue.TopicFileUploaded, msg.Metadata.Get("topic"))
	assert.Equal(t, "t-1", msg.Metadata.Get("trace_id"))

	env, err := queue.ParseMessage[queue.FileUploadedPayload](msg)
	require.NoError(t, err)
	assert.Equal(t, payload, env.Payload)
	assert.Equal(t, queue.PayloadVersionV1, env.Header.Version)
	assert.Equal(t, queue.DefaultProducer, env.Header.Producer)
	assert.Equal(t, queue.PayloadVersionV1, msg.Metadata.Get("version"))
}

func TestMessageTraceFromContext(t *testing.T) {
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: trace.TraceID{1, 2, 3},
		SpanID:  trace.SpanID{4},
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	msg, err := queue.NewMessage(ctx, queue.TopicFileDeleted, queue.FileDeletedPayload{}, queue.WithProducer("node-2"))
	require.NoError(t, err)
	assert.Equal(t, sc.TraceID().String(), msg.Metadata.Get("trace_id"))
	assert.Equal(t, "node-2", msg.Metadata.Get("producer"))
}

func TestEmitterSwitches(t *testing.T) {
	rec := &recorder{}

	cfg := configs.Defaults().Events
	cfg.File.Replaced = false

	e := queue.NewEmitter(rec, cfg)
	ctx := context.Background()

	e.FileUploaded(ctx, queue.FileUploadedPayload{})
	e.FileReplaced(ctx, queue.FileReplacedPayload{})
	e.FileDeleted(ctx, queue.FileDeletedPayload{})
	e.FileBlobMissing(ctx, queue.FileBlobMissingPayload{})

	assert.Equal(t, []string{queue.TopicFileUploaded, queue.TopicFileDeleted, queue.TopicFileBlobMissing}, rec.topics)

	cfg.Enabled = false
	rec.topics = nil
	queue.NewEmitter(rec, cfg).FileUploaded(ctx, queue.FileUploadedPayload{})
	assert.Empty(t, rec.topics)
}

func TestEmitterBestEffort(t *testing.T) {
	rec := &recorder{err: errors.New("broker down")}

	// 发布失败不 panic，也不向调用方返回错误
	queue.NewEmitter(rec, configs.Defaults().Events).FileDeleted(context.Background(), queue.FileDeletedPayload{})
	assert.Len(t, rec.topics, 1)

	var nilEmitter *queue.Emitter
	nilEmitter.FileUploaded(context.Background(), queue.FileUploadedPayload{})
	queue.NewEmitter(nil, configs.Defaults().Events).FileUploaded(context.Background(), queue.FileUploadedPayload{})
}

func TestAllTopics(t *testing.T) {
	assert.Len(t, queue.AllTopics(), 5)
}
