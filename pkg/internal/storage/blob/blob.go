// Package blob 保存文件内容.所有写入都先进入暂存区，再通过 Commit 原子地发布到最终位置，
// 读者永远看不到写了一半的内容.
//
// Example:
//
//	store, err := blob.New(ctx, configs.GetConfig())
//	staged, err := store.Stage(ctx, blob.NewKey("default", time.Now()), r)
//	if err := staged.Commit(ctx); err != nil {
//		_ = staged.Discard(ctx)
//	}
package blob

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"hash"
	"io"
	"path"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/oklog/ulid"

	"github.com/yeisme/sharevault/pkg/configs"
)

var (
	// ErrNotExist 内容不存在.
	ErrNotExist = errors.New("blob does not exist")
	// ErrInvalidKey 存储键不合法.
	ErrInvalidKey = errors.New("invalid blob key")
	// ErrFinalized 暂存对象已提交或已丢弃.
	ErrFinalized = errors.New("staged blob already finalized")
)

// Info 存储对象的基本信息.
type Info struct {
	Key     string
	Size    int64
	ModTime time.Time
	// Staging 为 true 表示这是暂存区中的残留对象
	Staging bool
}

// Store 文件内容存储.
type Store interface {
	// Type 返回后端类型.
	Type() configs.BlobType
	// Stage 把 r 的全部内容写入暂存区，返回待提交对象.
	Stage(ctx context.Context, key string, r io.Reader) (*Staged, error)
	// Open 打开已提交的内容，不存在返回 ErrNotExist.
	Open(ctx context.Context, key string) (io.ReadCloser, Info, error)
	// Stat 返回已提交内容的信息，不存在返回 ErrNotExist.
	Stat(ctx context.Context, key string) (Info, error)
	// Delete 删除内容，不存在时返回 nil.
	Delete(ctx context.Context, key string) error
	// Walk 遍历所有对象（包括暂存残留）.
	Walk(ctx context.Context, fn func(Info) error) error
	HealthCheck(ctx context.Context) error
	Close() error
}

// Staged 已写入暂存区、尚未发布的内容.
type Staged struct {
	Key      string
	Size     int64
	Checksum string

	mu      sync.Mutex
	done    bool
	commit  func(ctx context.Context) error
	discard func(ctx context.Context) error
}

// NewStaged 供后端实现构造暂存对象.
func NewStaged(key string, size int64, checksum string,
	commit, discard func(ctx context.Context) error,
) *Staged {
	return &Staged{Key: key, Size: size, Checksum: checksum, commit: commit, discard: discard}
}

// Commit 原子地把暂存内容发布到 Key，已存在的内容被整体替换.
func (s *Staged) Commit(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done {
		return ErrFinalized
	}

	if err := s.commit(ctx); err != nil {
		return err
	}

	s.done = true

	return nil
}

// Discard 丢弃暂存内容，重复调用或提交后调用无副作用.
func (s *Staged) Discard(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done {
		return nil
	}

	s.done = true

	return s.discard(ctx)
}

// Factory 按配置创建 Store.
type Factory func(ctx context.Context, cfg *configs.AppConfig) (Store, error)

var factories = map[configs.BlobType]Factory{}

// RegisterFactory 注册后端工厂.
func RegisterFactory(t configs.BlobType, f Factory) {
	factories[t] = f
}

// GetRegisteredBlobTypes 返回已注册的后端类型，按名称排序.
func GetRegisteredBlobTypes() []configs.BlobType {
	types := make([]configs.BlobType, 0, len(factories))
	for t := range factories {
		types = append(types, t)
	}

	slices.Sort(types)

	return types
}

// New 按 cfg.Blob.Type 创建 Store.
func New(ctx context.Context, cfg *configs.AppConfig) (Store, error) {
	f, ok := factories[cfg.Blob.Type]
	if !ok {
		return nil, fmt.Errorf("unsupported blob type: %s", cfg.Blob.Type)
	}

	return f(ctx, cfg)
}

// NewKey 生成新的存储键：<workspace>/<yyyy>/<mm>/<ulid>.
func NewKey(workspace string, now time.Time) string {
	id := ulid.MustNew(ulid.Timestamp(now), rand.Reader)
	now = now.UTC()

	return fmt.Sprintf("%s/%04d/%02d/%s", workspace, now.Year(), int(now.Month()), strings.ToLower(id.String()))
}

// NewStagingName 生成暂存对象名.
func NewStagingName(now time.Time) string {
	return strings.ToLower(ulid.MustNew(ulid.Timestamp(now), rand.Reader).String()) + ".tmp"
}

// ValidateKey 检查存储键是相对、规范且不越界的路径.
func ValidateKey(key string) error {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}

	if path.Clean(key) != key {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}

	for _, seg := range strings.Split(key, "/") {
		if seg == ".." || seg == "." || seg == "" || strings.HasPrefix(seg, ".") {
			return fmt.Errorf("%w: %q", ErrInvalidKey, key)
		}
	}

	return nil
}

// hashingReader 边读边计算 xxhash64.
type hashingReader struct {
	r io.Reader
	h hash.Hash64
	n int64
}

func newHashingReader(r io.Reader) *hashingReader {
	return &hashingReader{r: r, h: xxhash.New()}
}

func (hr *hashingReader) Read(p []byte) (int, error) {
	n, err := hr.r.Read(p)
	if n > 0 {
		_, _ = hr.h.Write(p[:n])
		hr.n += int64(n)
	}

	return n, err
}

func (hr *hashingReader) Sum() string {
	return fmt.Sprintf("%016x", hr.h.Sum64())
}

// Checksum 计算内容的 xxhash64 十六进制摘要.
func Checksum(r io.Reader) (string, int64, error) {
	hr := newHashingReader(r)
	if _, err := io.Copy(io.Discard, hr); err != nil {
		return "", 0, err
	}

	return hr.Sum(), hr.n, nil
}

// ctxReader 在读取过程中响应取消.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}

	return c.r.Read(p)
}
