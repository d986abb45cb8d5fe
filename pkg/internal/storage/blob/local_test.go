package blob_test

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeisme/sharevault/pkg/configs"
	"github.com/yeisme/sharevault/pkg/internal/storage/blob"
)

func newLocal(t *testing.T) *blob.Local {
	t.Helper()

	store, err := blob.NewLocal(configs.LocalBlobConfig{
		Root:       t.TempDir(),
		StagingDir: ".staging",
		Fsync:      true,
	})
	require.NoError(t, err)

	return store
}

func readAll(t *testing.T, store blob.Store, key string) []byte {
	t.Helper()

	rc, _, err := store.Open(context.Background(), key)
	require.NoError(t, err)

	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)

	return data
}

// TestLocalStageCommit 测试暂存内容在提交前不可见，提交后可读.
func TestLocalStageCommit(t *testing.T) {
	ctx := context.Background()
	store := newLocal(t)
	key := blob.NewKey("default", time.Now())

	staged, err := store.Stage(ctx, key, strings.NewReader("hello"))
	require.NoError(t, err)
	assert.Equal(t, int64(5), staged.Size)
	assert.Len(t, staged.Checksum, 16)

	_, err = store.Stat(ctx, key)
	require.ErrorIs(t, err, blob.ErrNotExist)

	require.NoError(t, staged.Commit(ctx))
	assert.ErrorIs(t, staged.Commit(ctx), blob.ErrFinalized)
	assert.NoError(t, staged.Discard(ctx))

	assert.Equal(t, []byte("hello"), readAll(t, store, key))

	sum, n, err := blob.Checksum(bytes.NewReader([]byte("hello")))
	require.NoError(t, err)
	assert.Equal(t, staged.Checksum, sum)
	assert.Equal(t, int64(5), n)
}

// TestLocalReplace 测试对已有键再次提交会整体替换内容.
func TestLocalReplace(t *testing.T) {
	ctx := context.Background()
	store := newLocal(t)
	key := blob.NewKey("default", time.Now())

	first, err := store.Stage(ctx, key, strings.NewReader("original content"))
	require.NoError(t, err)
	require.NoError(t, first.Commit(ctx))

	second, err := store.Stage(ctx, key, strings.NewReader("new"))
	require.NoError(t, err)

	// 提交前旧内容保持不变
	assert.Equal(t, []byte("original content"), readAll(t, store, key))

	require.NoError(t, second.Commit(ctx))
	assert.Equal(t, []byte("new"), readAll(t, store, key))
}

// TestLocalDiscard 测试丢弃后暂存目录被清理.
func TestLocalDiscard(t *testing.T) {
	ctx := context.Background()
	store := newLocal(t)
	key := blob.NewKey("default", time.Now())

	staged, err := store.Stage(ctx, key, strings.NewReader("abc"))
	require.NoError(t, err)
	require.NoError(t, staged.Discard(ctx))

	entries, err := os.ReadDir(filepath.Join(store.Root(), ".staging"))
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, _, err = store.Open(ctx, key)
	assert.ErrorIs(t, err, blob.ErrNotExist)
}

// TestLocalDeleteAndWalk 测试删除幂等以及 Walk 区分暂存残留.
func TestLocalDeleteAndWalk(t *testing.T) {
	ctx := context.Background()
	store := newLocal(t)

	key := blob.NewKey("default", time.Now())
	staged, err := store.Stage(ctx, key, strings.NewReader("x"))
	require.NoError(t, err)
	require.NoError(t, staged.Commit(ctx))

	leftover, err := store.Stage(ctx, blob.NewKey("default", time.Now()), strings.NewReader("y"))
	require.NoError(t, err)
	require.NotNil(t, leftover)

	var committed, staging []blob.Info

	require.NoError(t, store.Walk(ctx, func(info blob.Info) error {
		if info.Staging {
			staging = append(staging, info)
		} else {
			committed = append(committed, info)
		}

		return nil
	}))

	require.Len(t, committed, 1)
	assert.Equal(t, key, committed[0].Key)
	require.Len(t, staging, 1)

	require.NoError(t, store.Delete(ctx, staging[0].Key))
	require.NoError(t, store.Delete(ctx, key))
	require.NoError(t, store.Delete(ctx, key))

	_, err = store.Stat(ctx, key)
	assert.ErrorIs(t, err, blob.ErrNotExist)
}

// TestValidateKey 测试非法存储键.
func TestValidateKey(t *testing.T) {
	assert.NoError(t, blob.ValidateKey("default/2025/01/abc"))

	for _, key := range []string{"", "/abs", "a/../b", "../x", "a//b", "a\\b", ".staging/x", "a/./b"} {
		assert.ErrorIs(t, blob.ValidateKey(key), blob.ErrInvalidKey, key)
	}

	store := newLocal(t)
	_, err := store.Stage(context.Background(), "../escape", strings.NewReader("x"))
	assert.ErrorIs(t, err, blob.ErrInvalidKey)
}

// TestLocalHealthCheck 测试健康检查.
func TestLocalHealthCheck(t *testing.T) {
	store := newLocal(t)
	assert.NoError(t, store.HealthCheck(context.Background()))
	assert.Equal(t, configs.BlobTypeLocal, store.Type())
}
