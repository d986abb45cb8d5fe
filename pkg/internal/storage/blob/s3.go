package blob

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	minio "github.com/minio/minio-go/v7"

	"github.com/yeisme/sharevault/pkg/configs"
	s3c "github.com/yeisme/sharevault/pkg/internal/storage/s3"
)

// s3StagingPrefix 暂存对象前缀.
const s3StagingPrefix = ".staging/"

func init() {
	RegisterFactory(configs.BlobTypeS3, func(ctx context.Context, cfg *configs.AppConfig) (Store, error) {
		cli, err := s3c.New(ctx, &cfg.S3)
		if err != nil {
			return nil, err
		}

		return NewS3(cli), nil
	})
}

// S3 基于对象存储的 Store.
// 暂存对象写入 .staging/ 前缀，Commit 时服务端复制到最终键再删除暂存对象.
type S3 struct {
	cli *s3c.Client
}

// NewS3 使用已有客户端创建 Store.
func NewS3(cli *s3c.Client) *S3 {
	return &S3{cli: cli}
}

// Type 实现 Store.
func (s *S3) Type() configs.BlobType {
	return configs.BlobTypeS3
}

// Stage 实现 Store.
func (s *S3) Stage(ctx context.Context, key string, r io.Reader) (*Staged, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}

	tmp := s.cli.ObjectName(s3StagingPrefix + NewStagingName(time.Now()))
	hr := newHashingReader(r)

	if _, err := s.cli.PutObject(ctx, s.cli.Bucket(), tmp, hr, -1, minio.PutObjectOptions{
		ContentType: "application/octet-stream",
	}); err != nil {
		return nil, fmt.Errorf("put staging object: %w", err)
	}

	commit := func(ctx context.Context) error {
		_, err := s.cli.CopyObject(ctx,
			minio.CopyDestOptions{Bucket: s.cli.Bucket(), Object: s.cli.ObjectName(key)},
			minio.CopySrcOptions{Bucket: s.cli.Bucket(), Object: tmp},
		)
		if err != nil {
			return fmt.Errorf("publish object %s: %w", key, err)
		}

		// 暂存对象残留由对账清理
		_ = s.cli.RemoveObject(ctx, s.cli.Bucket(), tmp, minio.RemoveObjectOptions{})

		return nil
	}

	discard := func(ctx context.Context) error {
		return s.cli.RemoveObject(ctx, s.cli.Bucket(), tmp, minio.RemoveObjectOptions{})
	}

	return NewStaged(key, hr.n, hr.Sum(), commit, discard), nil
}

// Open 实现 Store.
func (s *S3) Open(ctx context.Context, key string) (io.ReadCloser, Info, error) {
	info, err := s.Stat(ctx, key)
	if err != nil {
		return nil, Info{}, err
	}

	obj, err := s.cli.GetObject(ctx, s.cli.Bucket(), s.cli.ObjectName(key), minio.GetObjectOptions{})
	if err != nil {
		if s3c.IsNotFound(err) {
			return nil, Info{}, ErrNotExist
		}

		return nil, Info{}, fmt.Errorf("get object %s: %w", key, err)
	}

	return obj, info, nil
}

// Stat 实现 Store.
func (s *S3) Stat(ctx context.Context, key string) (Info, error) {
	if err := ValidateKey(key); err != nil {
		return Info{}, err
	}

	st, err := s.cli.StatObject(ctx, s.cli.Bucket(), s.cli.ObjectName(key), minio.StatObjectOptions{})
	if err != nil {
		if s3c.IsNotFound(err) {
			return Info{}, ErrNotExist
		}

		return Info{}, fmt.Errorf("stat object %s: %w", key, err)
	}

	return Info{Key: key, Size: st.Size, ModTime: st.LastModified}, nil
}

// Delete 实现 Store.
func (s *S3) Delete(ctx context.Context, key string) error {
	object := s.cli.ObjectName(key)

	if name, ok := strings.CutPrefix(key, stagingKeyPrefix); ok {
		object = s.cli.ObjectName(s3StagingPrefix + name)
	} else if err := ValidateKey(key); err != nil {
		return err
	}

	// S3 删除不存在的对象不报错
	if err := s.cli.RemoveObject(ctx, s.cli.Bucket(), object, minio.RemoveObjectOptions{}); err != nil && !s3c.IsNotFound(err) {
		return fmt.Errorf("delete object %s: %w", key, err)
	}

	return nil
}

// Walk 实现 Store.
func (s *S3) Walk(ctx context.Context, fn func(Info) error) error {
	opts := minio.ListObjectsOptions{Recursive: true, Prefix: s.cli.ObjectName("")}

	for obj := range s.cli.ListObjects(ctx, s.cli.Bucket(), opts) {
		if obj.Err != nil {
			return fmt.Errorf("list objects: %w", obj.Err)
		}

		key := s.cli.KeyOf(obj.Key)

		info := Info{Key: key, Size: obj.Size, ModTime: obj.LastModified}
		if name, ok := strings.CutPrefix(key, s3StagingPrefix); ok {
			info.Key = stagingKeyPrefix + name
			info.Staging = true
		} else if ValidateKey(key) != nil {
			continue
		}

		if err := fn(info); err != nil {
			return err
		}
	}

	return nil
}

// HealthCheck 实现 Store.
func (s *S3) HealthCheck(ctx context.Context) error {
	return s.cli.HealthCheck(ctx)
}

// Close 实现 Store.
func (s *S3) Close() error {
	return s.cli.Close()
}
