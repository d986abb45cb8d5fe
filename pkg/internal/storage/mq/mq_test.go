package mq_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeisme/sharevault/pkg/configs"
	"github.com/yeisme/sharevault/pkg/internal/storage/mq"
)

func newGoChannel(t *testing.T, opts ...mq.Option) *mq.Client {
	t.Helper()

	cfg := configs.Defaults().MQ
	cfg.Type = configs.MQTypeGoChannel

	client, err := mq.New(context.Background(), &cfg, opts...)
	require.NoError(t, err)

	t.Cleanup(func() { _ = client.Close() })

	return client
}

// TestConsumerReceivesPublished 测试注册的消费者收到发布的消息.
func TestConsumerReceivesPublished(t *testing.T) {
	client := newGoChannel(t, mq.WithRegisterer(prometheus.NewRegistry()))

	got := make(chan string, 1)

	require.NoError(t, client.AddConsumer("audit", "sv.file.uploaded", func(msg *message.Message) error {
		got <- string(msg.Payload)
		return nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() { _ = client.Run(ctx) }()

	select {
	case <-client.Running():
	case <-time.After(5 * time.Second):
		t.Fatal("router did not start")
	}

	require.NoError(t, client.Publish(ctx, "sv.file.uploaded", message.NewMessage(watermill.NewUUID(), []byte("a.txt"))))

	select {
	case payload := <-got:
		assert.Equal(t, "a.txt", payload)
	case <-time.After(5 * time.Second):
		t.Fatal("message not consumed")
	}

	assert.Equal(t, []string{"audit"}, client.Handlers())
	assert.NoError(t, client.HealthCheck(ctx))
}

// TestConsumerRetries 测试处理失败后按重试策略再次投递.
func TestConsumerRetries(t *testing.T) {
	client := newGoChannel(t, mq.WithRetries(2))

	var calls atomic.Int32

	done := make(chan struct{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() { _ = client.Run(ctx) }()
	<-client.Running()

	// Router 运行后注册的消费者也会被启动
	require.NoError(t, client.AddConsumer("flaky", "sv.file.deleted", func(*message.Message) error {
		if calls.Add(1) < 2 {
			return errors.New("transient")
		}

		close(done)

		return nil
	}))

	require.Eventually(t, func() bool {
		return client.Publish(ctx, "sv.file.deleted", message.NewMessage(watermill.NewUUID(), nil)) == nil
	}, time.Second, 10*time.Millisecond)

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("handler was not retried")
	}

	assert.GreaterOrEqual(t, calls.Load(), int32(2))
}

// TestClosedClient 测试关闭后的行为.
func TestClosedClient(t *testing.T) {
	client := newGoChannel(t)
	require.NoError(t, client.Close())
	require.NoError(t, client.Close())

	assert.ErrorIs(t, client.AddConsumer("x", "t", func(*message.Message) error { return nil }), mq.ErrClosed)
	assert.ErrorIs(t, client.HealthCheck(context.Background()), mq.ErrClosed)
	assert.Contains(t, mq.GetRegisteredMQTypes(), configs.MQTypeGoChannel)
}
