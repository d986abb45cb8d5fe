package events_test

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeisme/sharevault/pkg/configs"
	"github.com/yeisme/sharevault/pkg/internal/events"
	"github.com/yeisme/sharevault/pkg/internal/storage/mq"
	"github.com/yeisme/sharevault/pkg/metrics"
	"github.com/yeisme/sharevault/pkg/queue"
)

func TestAuditConsumesFileEvents(t *testing.T) {
	cfg := configs.Defaults()
	cfg.MQ.Type = configs.MQTypeGoChannel

	client, err := mq.New(context.Background(), &cfg.MQ)
	require.NoError(t, err)

	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, events.RegisterAudit(client))
	assert.Len(t, client.Handlers(), len(queue.FileTopics))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() { _ = client.Run(ctx) }()

	select {
	case <-client.Running():
	case <-time.After(5 * time.Second):
		t.Fatal("router did not start")
	}

	counter := metrics.FileEvents.WithLabelValues(queue.TopicFileDeleted)
	before := testutil.ToFloat64(counter)

	emitter := queue.NewEmitter(client, cfg.Events)
	emitter.FileDeleted(ctx, queue.FileDeletedPayload{
		File:        queue.FileRef{Workspace: "default", FileID: 7, Name: "a.txt"},
		Actor:       queue.Actor{UserID: 1, Username: "alice"},
		BlobRemoved: true,
	})

	assert.Eventually(t, func() bool {
		return testutil.ToFloat64(counter) == before+1
	}, 5*time.Second, 20*time.Millisecond)
}

func TestAuditHandlerDropsMalformed(t *testing.T) {
	h := events.AuditHandler(queue.TopicFileUploaded, zerolog.Nop())

	assert.NoError(t, h(message.NewMessage("1", []byte("not json"))))
}
