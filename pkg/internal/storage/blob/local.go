package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/yeisme/sharevault/pkg/configs"
	nlog "github.com/yeisme/sharevault/pkg/log"
)

func init() {
	RegisterFactory(configs.BlobTypeLocal, func(_ context.Context, cfg *configs.AppConfig) (Store, error) {
		return NewLocal(cfg.Blob.Local)
	})
}

// Local 基于本地文件系统的 Store.
// 写入流程：暂存目录中的临时文件 → fsync → rename 到最终路径.
type Local struct {
	root     string
	staging  string
	dirMode  os.FileMode
	fileMode os.FileMode
	fsync    bool
}

// NewLocal 创建本地存储，根目录与暂存目录不存在时自动创建.
// 暂存目录必须位于根目录所在文件系统内，rename 才是原子的.
func NewLocal(cfg configs.LocalBlobConfig) (*Local, error) {
	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("resolve blob root: %w", err)
	}

	stagingDir := cfg.StagingDir
	if stagingDir == "" {
		stagingDir = configs.DefaultBlobStagingDir
	}

	if !filepath.IsAbs(stagingDir) {
		stagingDir = filepath.Join(root, stagingDir)
	}

	dirMode := os.FileMode(cfg.DirMode)
	if dirMode == 0 {
		dirMode = 0o755
	}

	fileMode := os.FileMode(cfg.FileMode)
	if fileMode == 0 {
		fileMode = 0o644
	}

	for _, dir := range []string{root, stagingDir} {
		if err := os.MkdirAll(dir, dirMode); err != nil {
			return nil, fmt.Errorf("create blob dir %s: %w", dir, err)
		}
	}

	return &Local{
		root:     root,
		staging:  stagingDir,
		dirMode:  dirMode,
		fileMode: fileMode,
		fsync:    cfg.Fsync,
	}, nil
}

// Type 实现 Store.
func (l *Local) Type() configs.BlobType {
	return configs.BlobTypeLocal
}

// Root 返回根目录绝对路径.
func (l *Local) Root() string {
	return l.root
}

func (l *Local) fullPath(key string) (string, error) {
	if err := ValidateKey(key); err != nil {
		return "", err
	}

	return filepath.Join(l.root, filepath.FromSlash(key)), nil
}

// Stage 实现 Store.
func (l *Local) Stage(ctx context.Context, key string, r io.Reader) (*Staged, error) {
	final, err := l.fullPath(key)
	if err != nil {
		return nil, err
	}

	tmpPath := filepath.Join(l.staging, NewStagingName(time.Now()))

	f, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, l.fileMode)
	if err != nil {
		return nil, fmt.Errorf("create staging file: %w", err)
	}

	hr := newHashingReader(ctxReader{ctx: ctx, r: r})

	if _, err := io.Copy(f, hr); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)

		return nil, fmt.Errorf("write staging file: %w", err)
	}

	if l.fsync {
		if err := f.Sync(); err != nil {
			_ = f.Close()
			_ = os.Remove(tmpPath)

			return nil, fmt.Errorf("fsync staging file: %w", err)
		}
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(tmpPath)

		return nil, fmt.Errorf("close staging file: %w", err)
	}

	commit := func(context.Context) error {
		if err := os.MkdirAll(filepath.Dir(final), l.dirMode); err != nil {
			return fmt.Errorf("create blob dir: %w", err)
		}

		if err := os.Rename(tmpPath, final); err != nil {
			return fmt.Errorf("publish blob %s: %w", key, err)
		}

		return nil
	}

	discard := func(context.Context) error {
		if err := os.Remove(tmpPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("discard staging file: %w", err)
		}

		return nil
	}

	return NewStaged(key, hr.n, hr.Sum(), commit, discard), nil
}

// Open 实现 Store.
func (l *Local) Open(_ context.Context, key string) (io.ReadCloser, Info, error) {
	p, err := l.fullPath(key)
	if err != nil {
		return nil, Info{}, err
	}

	f, err := os.Open(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, Info{}, ErrNotExist
		}

		return nil, Info{}, fmt.Errorf("open blob %s: %w", key, err)
	}

	st, err := f.Stat()
	if err != nil {
		_ = f.Close()

		return nil, Info{}, fmt.Errorf("stat blob %s: %w", key, err)
	}

	if st.IsDir() {
		_ = f.Close()

		return nil, Info{}, ErrNotExist
	}

	return f, Info{Key: key, Size: st.Size(), ModTime: st.ModTime()}, nil
}

// Stat 实现 Store.
func (l *Local) Stat(_ context.Context, key string) (Info, error) {
	p, err := l.fullPath(key)
	if err != nil {
		return Info{}, err
	}

	st, err := os.Stat(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Info{}, ErrNotExist
		}

		return Info{}, fmt.Errorf("stat blob %s: %w", key, err)
	}

	if st.IsDir() {
		return Info{}, ErrNotExist
	}

	return Info{Key: key, Size: st.Size(), ModTime: st.ModTime()}, nil
}

// Delete 实现 Store.暂存残留通过 Walk 返回的 Key 也可删除.
func (l *Local) Delete(_ context.Context, key string) error {
	var p string

	if name, ok := strings.CutPrefix(key, stagingKeyPrefix); ok {
		if strings.ContainsAny(name, `/\`) || name == "" {
			return fmt.Errorf("%w: %q", ErrInvalidKey, key)
		}

		p = filepath.Join(l.staging, name)
	} else {
		var err error
		if p, err = l.fullPath(key); err != nil {
			return err
		}
	}

	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete blob %s: %w", key, err)
	}

	return nil
}

// stagingKeyPrefix Walk 中暂存残留的键前缀.
const stagingKeyPrefix = "staging:"

// Walk 实现 Store.
func (l *Local) Walk(ctx context.Context, fn func(Info) error) error {
	if err := l.walkRoot(ctx, fn); err != nil {
		return err
	}

	if rel, err := filepath.Rel(l.root, l.staging); err == nil && !strings.HasPrefix(rel, "..") {
		return nil
	}

	// 暂存目录在根目录之外，单独遍历
	entries, err := os.ReadDir(l.staging)
	if err != nil {
		return fmt.Errorf("read staging dir: %w", err)
	}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}

		st, err := e.Info()
		if err != nil {
			continue
		}

		if err := fn(Info{Key: stagingKeyPrefix + e.Name(), Size: st.Size(), ModTime: st.ModTime(), Staging: true}); err != nil {
			return err
		}
	}

	return nil
}

func (l *Local) walkRoot(ctx context.Context, fn func(Info) error) error {
	return filepath.WalkDir(l.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}

			return err
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if d.IsDir() {
			return nil
		}

		st, err := d.Info()
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}

			return err
		}

		if filepath.Dir(p) == l.staging {
			return fn(Info{Key: stagingKeyPrefix + d.Name(), Size: st.Size(), ModTime: st.ModTime(), Staging: true})
		}

		rel, err := filepath.Rel(l.root, p)
		if err != nil {
			return err
		}

		key := filepath.ToSlash(rel)
		if ValidateKey(key) != nil {
			// 外部放入的非法路径，不属于本存储
			nlog.Logger().Debug().Str("path", p).Msg("skip foreign file in blob root")

			return nil
		}

		return fn(Info{Key: key, Size: st.Size(), ModTime: st.ModTime()})
	})
}

// HealthCheck 确认根目录与暂存目录可写.
func (l *Local) HealthCheck(_ context.Context) error {
	f, err := os.CreateTemp(l.staging, "health-*.probe")
	if err != nil {
		return fmt.Errorf("blob root not writable: %w", err)
	}

	name := f.Name()
	_ = f.Close()

	return os.Remove(name)
}

// Close 实现 Store.
func (l *Local) Close() error {
	return nil
}
