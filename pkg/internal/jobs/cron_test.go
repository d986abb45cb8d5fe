package jobs_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeisme/sharevault/pkg/configs"
	ctxPkg "github.com/yeisme/sharevault/pkg/context"
	"github.com/yeisme/sharevault/pkg/internal/jobs"
	"github.com/yeisme/sharevault/pkg/internal/storage"
	"github.com/yeisme/sharevault/pkg/internal/types"
	"github.com/yeisme/sharevault/pkg/scheduler"
)

func TestRegisterCronJobs(t *testing.T) {
	dir := t.TempDir()

	cfg := configs.Defaults()
	cfg.DB.Database = filepath.Join(dir, "meta")
	cfg.Blob.Local.Root = filepath.Join(dir, "files")

	mgr, err := storage.Init(context.Background(), &cfg, storage.WithoutMQ())
	require.NoError(t, err)

	defer mgr.Close()

	sched, err := scheduler.NewScheduler()
	require.NoError(t, err)

	defer func() { _ = sched.Shutdown() }()

	require.NoError(t, jobs.RegisterCronJobs(sched, mgr, cfg.Scheduler))

	info, err := sched.GetJobInfoByName(jobs.JobReconcile)
	require.NoError(t, err)
	assert.Equal(t, cfg.Scheduler.ReconcileCron, info.CronExpr)

	ctx := ctxPkg.WithStorageManager(context.Background(), mgr)

	res, err := sched.RunNow(ctx, jobs.JobReconcile)
	require.NoError(t, err)

	report, ok := res.(types.ReconcileReport)
	require.True(t, ok)
	assert.Zero(t, report.Removed)
	assert.Zero(t, report.Missing)

	assert.Error(t, jobs.RegisterCronJobs(nil, mgr, cfg.Scheduler))
	assert.Error(t, jobs.RegisterCronJobs(sched, nil, cfg.Scheduler))
}
