package db_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yeisme/sharevault/pkg/configs"
	"github.com/yeisme/sharevault/pkg/internal/model"
	"github.com/yeisme/sharevault/pkg/internal/storage/db"
)

func newTestClient(t *testing.T) *db.Client {
	t.Helper()

	cfg := configs.DBConfig{
		Type:         configs.SQLite,
		Database:     filepath.Join(t.TempDir(), "meta"),
		MaxIdleConns: 1,
	}

	client, err := db.New(context.Background(), &cfg)
	require.NoError(t, err)
	require.NoError(t, client.Migrate(context.Background()))

	t.Cleanup(func() { _ = client.Close() })

	return client
}

func newRecord(workspace, name, typ, path string, owner uint) *model.FileRecord {
	now := time.Now().UTC()

	return &model.FileRecord{
		Workspace:    workspace,
		Name:         name,
		Type:         typ,
		Size:         3,
		StoragePath:  path,
		CreatedAt:    now,
		ModifiedAt:   now,
		UploaderID:   owner,
		UploaderName: "u",
		EditorID:     owner,
		EditorName:   "u",
	}
}

// TestFileRepositoryUniqueName 测试同一工作区内重名被唯一索引拒绝，不同工作区互不影响.
func TestFileRepositoryUniqueName(t *testing.T) {
	ctx := context.Background()
	repo := newTestClient(t).Files()

	require.NoError(t, repo.Create(ctx, newRecord("default", "a.txt", "txt", "p1", 1)))

	err := repo.Create(ctx, newRecord("default", "a.txt", "txt", "p2", 2))
	require.ErrorIs(t, err, db.ErrDuplicateKey)
	assert.True(t, db.IsDuplicate(err))

	// 大小写不同视为不同文件
	require.NoError(t, repo.Create(ctx, newRecord("default", "A.txt", "txt", "p3", 1)))
	require.NoError(t, repo.Create(ctx, newRecord("other", "a.txt", "txt", "p4", 1)))

	ok, err := repo.ExistsByName(ctx, "default", "a.txt")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.ExistsByName(ctx, "default", "b.txt")
	require.NoError(t, err)
	assert.False(t, ok)
}

// TestFileRepositoryOwnerGuards 测试更新与删除只对上传者生效.
func TestFileRepositoryOwnerGuards(t *testing.T) {
	ctx := context.Background()
	repo := newTestClient(t).Files()

	rec := newRecord("default", "doc.md", "md", "p1", 7)
	require.NoError(t, repo.Create(ctx, rec))
	require.NotZero(t, rec.FileID)

	n, err := repo.UpdateContent(ctx, "default", rec.FileID, 8, db.ContentUpdate{Size: 10})
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = repo.UpdateContent(ctx, "default", rec.FileID, 7, db.ContentUpdate{
		Size: 10, Checksum: "abc", EditorID: 7, EditorName: "u", ModifiedAt: time.Now().UTC(),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := repo.Get(ctx, "default", rec.FileID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), got.Size)
	assert.Equal(t, "abc", got.Checksum)

	n, err = repo.Delete(ctx, "default", rec.FileID, 8)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = repo.Delete(ctx, "default", rec.FileID, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = repo.Get(ctx, "default", rec.FileID)
	assert.ErrorIs(t, err, db.ErrNotFound)
}

// TestFileRepositoryList 测试按类型过滤与插入顺序.
func TestFileRepositoryList(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)
	repo := client.Files()

	require.NoError(t, repo.Create(ctx, newRecord("default", "zebra.cpp", "cpp", "p1", 1)))
	require.NoError(t, repo.Create(ctx, newRecord("default", "alpha.png", "png", "p2", 1)))
	require.NoError(t, repo.Create(ctx, newRecord("default", "middle.txt", "txt", "p3", 1)))

	all, err := repo.List(ctx, "default", nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "zebra.cpp", all[0].Name)

	filtered, err := repo.List(ctx, "default", []string{"png", "cpp"})
	require.NoError(t, err)
	require.Len(t, filtered, 2)

	empty, err := repo.List(ctx, "nobody", nil)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	names, err := repo.Names(ctx, "default")
	require.NoError(t, err)
	assert.Equal(t, []string{"zebra.cpp", "alpha.png", "middle.txt"}, names)

	paths, err := repo.StoragePaths(ctx)
	require.NoError(t, err)
	assert.Len(t, paths, 3)
	assert.Equal(t, "alpha.png", paths["p2"].Name)
}

// TestUserRepository 测试用户名唯一.
func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	users := newTestClient(t).Users()

	u := &model.User{Username: "alice", PasswordHash: "x", CreatedAt: time.Now()}
	require.NoError(t, users.Create(ctx, u))
	require.NotZero(t, u.UserID)

	err := users.Create(ctx, &model.User{Username: "alice", PasswordHash: "y", CreatedAt: time.Now()})
	assert.ErrorIs(t, err, db.ErrDuplicateKey)

	got, err := users.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, u.UserID, got.UserID)

	_, err = users.GetByUsername(ctx, "bob")
	assert.ErrorIs(t, err, db.ErrNotFound)
}

// TestGORMMetricsRegisteredOnce 启用指标时连接阶段完成注册，重复注册被拒绝.
func TestGORMMetricsRegisteredOnce(t *testing.T) {
	prev := *configs.GetConfig()
	t.Cleanup(func() { configs.SetConfig(prev) })

	cfg := prev
	cfg.Metrics.Enabled = true
	configs.SetConfig(cfg)

	client := newTestClient(t)

	_, ok := client.Plugins["gorm:prometheus"]
	assert.True(t, ok)

	assert.ErrorIs(t, client.RegisterGORMMetrics("meta"), gorm.ErrRegistered)
}
