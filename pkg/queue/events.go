package queue

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/yeisme/sharevault/pkg/configs"
	nlog "github.com/yeisme/sharevault/pkg/log"
)

// Publisher 是 Emitter 依赖的发布能力，mq.Client 实现了它.
type Publisher interface {
	Publish(ctx context.Context, topic string, msgs ...*message.Message) error
}

// Emitter 按配置发布业务事件，发布失败只记录日志.
// 零值或 pub 为 nil 的 Emitter 不发布任何事件.
type Emitter struct {
	pub Publisher
	cfg configs.EventsConfig
}

// NewEmitter 创建事件发布器.
func NewEmitter(pub Publisher, cfg configs.EventsConfig) *Emitter {
	return &Emitter{pub: pub, cfg: cfg}
}

// FileUploaded 发布 sv.file.uploaded.
func (e *Emitter) FileUploaded(ctx context.Context, p FileUploadedPayload) {
	if e == nil {
		return
	}

	emit(ctx, e, e.enabled(e.cfg.File.Uploaded), TopicFileUploaded, p)
}

// FileReplaced 发布 sv.file.replaced.
func (e *Emitter) FileReplaced(ctx context.Context, p FileReplacedPayload) {
	if e == nil {
		return
	}

	emit(ctx, e, e.enabled(e.cfg.File.Replaced), TopicFileReplaced, p)
}

// FileDeleted 发布 sv.file.deleted.
func (e *Emitter) FileDeleted(ctx context.Context, p FileDeletedPayload) {
	if e == nil {
		return
	}

	emit(ctx, e, e.enabled(e.cfg.File.Deleted), TopicFileDeleted, p)
}

// BlobOrphanRemoved 发布 sv.blob.orphan_removed.
func (e *Emitter) BlobOrphanRemoved(ctx context.Context, p BlobOrphanRemovedPayload) {
	if e == nil {
		return
	}

	emit(ctx, e, e.enabled(e.cfg.Blob.OrphanRemoved), TopicBlobOrphanRemoved, p)
}

// FileBlobMissing 发布 sv.file.blob_missing.
func (e *Emitter) FileBlobMissing(ctx context.Context, p FileBlobMissingPayload) {
	if e == nil {
		return
	}

	emit(ctx, e, e.enabled(e.cfg.Blob.Missing), TopicFileBlobMissing, p)
}

func (e *Emitter) enabled(topic bool) bool {
	return e.pub != nil && e.cfg.Enabled && topic
}

func emit[T any](ctx context.Context, e *Emitter, enabled bool, topic string, payload T) {
	if !enabled {
		return
	}

	msg, err := NewMessage(ctx, topic, payload)
	if err != nil {
		nlog.Logger().Error().Err(err).Str("topic", topic).Msg("encode event failed")
		return
	}

	if err := e.pub.Publish(ctx, topic, msg); err != nil {
		nlog.Logger().Warn().Err(err).Str("topic", topic).Msg("publish event failed")
	}
}
