package service_test

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/require"

	"github.com/yeisme/sharevault/pkg/cache"
	"github.com/yeisme/sharevault/pkg/configs"
	ctxPkg "github.com/yeisme/sharevault/pkg/context"
	"github.com/yeisme/sharevault/pkg/internal/service"
	"github.com/yeisme/sharevault/pkg/internal/storage"
	"github.com/yeisme/sharevault/pkg/queue"
)

var (
	alice = ctxPkg.Identity{UserID: 1, Username: "alice"}
	bob   = ctxPkg.Identity{UserID: 2, Username: "bob"}
)

// recorder 记录发布的事件主题.
type recorder struct {
	mu     sync.Mutex
	topics []string
}

func (r *recorder) Publish(_ context.Context, topic string, _ ...*message.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.topics = append(r.topics, topic)

	return nil
}

func (r *recorder) Topics() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]string(nil), r.topics...)
}

type env struct {
	mgr    *storage.Manager
	deps   service.Deps
	events *recorder
}

// newEnv 在临时目录中创建 SQLite 元数据库、本地文件存储与内存缓存.
func newEnv(t *testing.T) *env {
	t.Helper()

	dir := t.TempDir()

	cfg := configs.Defaults()
	cfg.DB.Database = filepath.Join(dir, "meta")
	cfg.Blob.Local.Root = filepath.Join(dir, "files")
	cfg.Blob.Local.Fsync = false
	cfg.KV.Type = configs.KVTypeMemory
	cfg.Events.Blob.OrphanRemoved = true

	mgr, err := storage.Init(context.Background(), &cfg, storage.WithoutMQ())
	require.NoError(t, err)
	t.Cleanup(func() { _ = mgr.Close() })

	rec := &recorder{}

	return &env{
		mgr:    mgr,
		events: rec,
		deps: service.Deps{
			DB:        mgr.DB,
			Blob:      mgr.Blob,
			Cache:     cache.New(mgr.KV, cache.Options{Prefix: "test", Name: "files"}),
			Events:    queue.NewEmitter(rec, cfg.Events),
			Workspace: "default",
			ListTTL:   cfg.Cache.ListTTL,
			MetaTTL:   cfg.Cache.MetaTTL,
		},
	}
}

func upload(name, content string) *service.Upload {
	return &service.Upload{Filename: name, Content: strings.NewReader(content)}
}

func readAll(t *testing.T, rc io.ReadCloser) string {
	t.Helper()

	defer rc.Close()

	b, err := io.ReadAll(rc)
	require.NoError(t, err)

	return string(b)
}
