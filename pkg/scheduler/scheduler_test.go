package scheduler_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeisme/sharevault/pkg/scheduler"
)

func newScheduler(t *testing.T) *scheduler.Scheduler {
	t.Helper()

	s, err := scheduler.NewScheduler()
	require.NoError(t, err)

	t.Cleanup(func() { _ = s.Shutdown() })

	return s
}

func TestRunNowRecordsResult(t *testing.T) {
	s := newScheduler(t)
	ctx := context.Background()

	require.NoError(t, s.AddCron(ctx, "reconcile", "*/30 * * * *", func(context.Context) (any, error) {
		return map[string]int{"removed": 2}, nil
	}))
	assert.ErrorIs(t, s.AddCron(ctx, "reconcile", "* * * * *", nil), scheduler.ErrJobExists)

	s.Start()

	res, err := s.RunNow(ctx, "reconcile")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"removed": 2}, res)

	info, err := s.GetJobInfoByName("reconcile")
	require.NoError(t, err)
	assert.Equal(t, 1, info.RunCount)
	assert.Equal(t, scheduler.StatusScheduled, info.Status)
	assert.False(t, info.LastSuccess.IsZero())
	assert.False(t, info.NextRun.IsZero())
	assert.Equal(t, "*/30 * * * *", info.CronExpr)
}

func TestRunNowErrors(t *testing.T) {
	s := newScheduler(t)
	ctx := context.Background()

	_, err := s.RunNow(ctx, "missing")
	require.ErrorIs(t, err, scheduler.ErrJobNotFound)

	require.NoError(t, s.AddCron(ctx, "fail", "0 * * * *", func(context.Context) (any, error) {
		return nil, errors.New("boom")
	}))
	require.NoError(t, s.AddCron(ctx, "panic", "0 * * * *", func(context.Context) (any, error) {
		panic("oops")
	}))

	_, err = s.RunNow(ctx, "fail")
	require.EqualError(t, err, "boom")

	_, err = s.RunNow(ctx, "panic")
	require.ErrorContains(t, err, "oops")

	infos := s.GetJobInfos()
	require.Len(t, infos, 2)
	assert.Equal(t, "fail", infos[0].Name)
	assert.Equal(t, scheduler.StatusError, infos[0].Status)
	assert.Equal(t, "boom", infos[0].Error)
	assert.Equal(t, scheduler.StatusError, infos[1].Status)
}

func TestRunNowExclusive(t *testing.T) {
	s := newScheduler(t)
	ctx := context.Background()

	started := make(chan struct{})
	release := make(chan struct{})

	require.NoError(t, s.AddCron(ctx, "slow", "0 * * * *", func(context.Context) (any, error) {
		close(started)
		<-release

		return nil, nil
	}))

	var wg sync.WaitGroup

	wg.Add(1)

	go func() {
		defer wg.Done()

		_, err := s.RunNow(ctx, "slow")
		assert.NoError(t, err)
	}()

	<-started

	_, err := s.RunNow(ctx, "slow")
	assert.ErrorIs(t, err, scheduler.ErrJobRunning)

	close(release)
	wg.Wait()
}

func TestRemoveJob(t *testing.T) {
	s := newScheduler(t)

	require.NoError(t, s.AddCron(context.Background(), "x", "0 * * * *", func(context.Context) (any, error) { return nil, nil }))
	require.NoError(t, s.RemoveJobByName("x"))
	assert.ErrorIs(t, s.RemoveJobByName("x"), scheduler.ErrJobNotFound)
	assert.Empty(t, s.GetJobInfos())
}
