// Package context 拓展上下文功能，将日志、服务等集成到上下文中，方便在应用程序各处传递和使用.
package context

import (
	"context"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"

	"github.com/yeisme/sharevault/pkg/internal/storage"
	"github.com/yeisme/sharevault/pkg/internal/storage/blob"
	dbc "github.com/yeisme/sharevault/pkg/internal/storage/db"
	kvc "github.com/yeisme/sharevault/pkg/internal/storage/kv"
	mqc "github.com/yeisme/sharevault/pkg/internal/storage/mq"
	"github.com/yeisme/sharevault/pkg/scheduler"
)

type ContextKey string

const (
	StorageManagerKey ContextKey = "storageManager"
	IdentityKey       ContextKey = "identity"
	RequestIDKey      ContextKey = "requestID"
	SchedulerKey      ContextKey = "scheduler"
)

// Identity 已认证的调用者.
type Identity struct {
	UserID   uint
	Username string
}

// WithIdentity 将调用者身份存入 context.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, id)
}

// GetIdentity 从 context 中取出调用者身份.
func GetIdentity(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(IdentityKey).(Identity)
	return id, ok
}

// WithRequestID 将请求 ID 存入 context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

// GetRequestID 从 context 中取出请求 ID.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

// WithStorageManager 将 Manager 存储到 context 中.
func WithStorageManager(ctx context.Context, mgr *storage.Manager) context.Context {
	return context.WithValue(ctx, StorageManagerKey, mgr)
}

// GetManager 从 context 中获取 Manager.
func GetManager(ctx context.Context) *storage.Manager {
	if mgr, ok := ctx.Value(StorageManagerKey).(*storage.Manager); ok {
		return mgr
	}

	return nil
}

// WithScheduler 将调度器存入 context.
func WithScheduler(ctx context.Context, s *scheduler.Scheduler) context.Context {
	return context.WithValue(ctx, SchedulerKey, s)
}

// GetScheduler 从 context 中获取调度器，未启用时返回 nil.
func GetScheduler(ctx context.Context) *scheduler.Scheduler {
	s, _ := ctx.Value(SchedulerKey).(*scheduler.Scheduler)
	return s
}

// GetBlobStore 从 context 中获取文件内容存储.
func GetBlobStore(ctx context.Context) blob.Store {
	if mgr := GetManager(ctx); mgr != nil {
		return mgr.Blob
	}

	return nil
}

// GetDBClient 从 context 中获取 DB 客户端.
func GetDBClient(ctx context.Context) *dbc.Client {
	if mgr := GetManager(ctx); mgr != nil {
		return mgr.DB
	}

	return nil
}

// GetMQClient 从 context 中获取 MQ 客户端.
func GetMQClient(ctx context.Context) *mqc.Client {
	if mgr := GetManager(ctx); mgr != nil {
		return mgr.MQ
	}

	return nil
}

// GetKVClient 从 context 中获取 KV 客户端.
func GetKVClient(ctx context.Context) *kvc.Client {
	if mgr := GetManager(ctx); mgr != nil {
		return mgr.KV
	}

	return nil
}

// WithTraceContext 为 logger 附加追踪 ID 与请求 ID.
func WithTraceContext(ctx context.Context, logger zerolog.Logger) zerolog.Logger {
	lc := logger.With()

	if sc := trace.SpanFromContext(ctx).SpanContext(); sc.IsValid() {
		lc = lc.Str("trace_id", sc.TraceID().String()).Str("span_id", sc.SpanID().String())
	}

	if id := GetRequestID(ctx); id != "" {
		lc = lc.Str("request_id", id)
	}

	return lc.Logger()
}
