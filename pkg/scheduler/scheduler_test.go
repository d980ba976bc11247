package scheduler_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sloopymg1/ghana-creative-platform/pkg/scheduler"
)

type ctxKey struct{}

func waitRuns(t *testing.T, s *scheduler.Scheduler, name string, runs int) scheduler.JobInfo {
	t.Helper()

	var info scheduler.JobInfo

	require.Eventually(t, func() bool {
		var err error
		info, err = s.GetJobInfoByName(name)
		require.NoError(t, err)

		return info.Runs >= runs && info.Status != scheduler.StatusRunning
	}, 3*time.Second, 10*time.Millisecond)

	return info
}

// TestRunNow 测试手动触发、ctx 传值与状态记录.
func TestRunNow(t *testing.T) {
	s, err := scheduler.NewScheduler()
	require.NoError(t, err)

	s.Start()
	defer func() { _ = s.Stop() }()

	got := make(chan string, 1)
	ctx := context.WithValue(context.Background(), ctxKey{}, "storage")

	require.NoError(t, s.AddCron(ctx, "ok", "0 6 * * *", func(ctx context.Context) error {
		v, _ := ctx.Value(ctxKey{}).(string)
		got <- v

		return nil
	}))
	require.NoError(t, s.AddCron(ctx, "fail", "0 6 * * *", func(context.Context) error {
		return errors.New("boom")
	}))
	require.NoError(t, s.AddCron(ctx, "panic", "0 6 * * *", func(context.Context) error {
		panic("oops")
	}))

	require.NoError(t, s.RunNow("ok"))
	assert.Equal(t, "storage", <-got)

	info := waitRuns(t, s, "ok", 1)
	assert.Equal(t, scheduler.StatusScheduled, info.Status)
	assert.False(t, info.LastSuccess.IsZero())
	assert.False(t, info.NextRun.IsZero())

	require.NoError(t, s.RunNow("fail"))

	info = waitRuns(t, s, "fail", 1)
	assert.Equal(t, scheduler.StatusError, info.Status)
	assert.Equal(t, "boom", info.Error)

	require.NoError(t, s.RunNow("panic"))

	info = waitRuns(t, s, "panic", 1)
	assert.Equal(t, scheduler.StatusError, info.Status)
	assert.Contains(t, info.Error, "oops")

	infos := s.GetJobInfos()
	require.Len(t, infos, 3)
	assert.Equal(t, "fail", infos[0].Name)
}

// TestAddCronErrors 测试重名、非法表达式与未知任务.
func TestAddCronErrors(t *testing.T) {
	s, err := scheduler.NewScheduler()
	require.NoError(t, err)

	defer func() { _ = s.Stop() }()

	noop := func(context.Context) error { return nil }

	require.NoError(t, s.AddCron(context.Background(), "a", "@hourly", noop))
	assert.Error(t, s.AddCron(context.Background(), "a", "@hourly", noop))
	assert.Error(t, s.AddCron(context.Background(), "b", "not a cron", noop))

	assert.ErrorIs(t, s.RunNow("missing"), scheduler.ErrJobNotFound)

	require.NoError(t, s.RemoveJobByName("a"))
	assert.ErrorIs(t, s.RemoveJobByName("a"), scheduler.ErrJobNotFound)
	assert.Empty(t, s.GetJobInfos())
}

// TestStopCancelsJobContext 测试停止调度器会取消任务 ctx.
func TestStopCancelsJobContext(t *testing.T) {
	s, err := scheduler.NewScheduler()
	require.NoError(t, err)

	s.Start()

	started := make(chan struct{})
	done := make(chan error, 1)

	require.NoError(t, s.AddCron(context.Background(), "long", "0 6 * * *", func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		done <- ctx.Err()

		return ctx.Err()
	}))

	require.NoError(t, s.RunNow("long"))
	<-started

	require.NoError(t, s.Stop())

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("job context not cancelled")
	}
}
