package service_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeisme/sharevault/pkg/internal/service"
	"github.com/yeisme/sharevault/pkg/internal/storage/blob"
	"github.com/yeisme/sharevault/pkg/queue"
)

func TestReconcileSweep(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	files := service.NewFileServiceWith(e.deps)

	kept, err := files.Upload(ctx, alice, upload("kept.txt", "kept"))
	require.NoError(t, err)

	lost, err := files.Upload(ctx, alice, upload("lost.txt", "lost"))
	require.NoError(t, err)
	require.NoError(t, e.mgr.Blob.Delete(ctx, lost.StoragePath))

	staged, err := e.mgr.Blob.Stage(ctx, blob.NewKey("default", time.Now()), strings.NewReader("orphan"))
	require.NoError(t, err)
	require.NoError(t, staged.Commit(ctx))

	// 宽限期内的孤儿只统计不删除
	report, err := service.NewReconcileServiceWith(e.deps, time.Hour).Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Scanned)
	assert.Equal(t, 1, report.Orphans)
	assert.Equal(t, 0, report.Removed)
	assert.Equal(t, 1, report.Missing)

	later := e.deps
	later.Now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	report, err = service.NewReconcileServiceWith(later, time.Hour).Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Orphans)
	assert.Equal(t, 1, report.Removed)

	_, err = e.mgr.Blob.Stat(ctx, staged.Key)
	assert.ErrorIs(t, err, blob.ErrNotExist)

	// 有主的内容不受影响
	_, err = e.mgr.Blob.Stat(ctx, kept.StoragePath)
	assert.NoError(t, err)

	assert.Contains(t, e.events.Topics(), queue.TopicBlobOrphanRemoved)
	assert.Contains(t, e.events.Topics(), queue.TopicFileBlobMissing)
}
