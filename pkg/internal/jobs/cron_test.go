package jobs_test

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sloopymg1/ghana-creative-platform/pkg/cache"
	"github.com/sloopymg1/ghana-creative-platform/pkg/configs"
	ctxPkg "github.com/sloopymg1/ghana-creative-platform/pkg/context"
	"github.com/sloopymg1/ghana-creative-platform/pkg/internal/jobs"
	"github.com/sloopymg1/ghana-creative-platform/pkg/internal/model"
	"github.com/sloopymg1/ghana-creative-platform/pkg/internal/storage"
	"github.com/sloopymg1/ghana-creative-platform/pkg/internal/storage/db"
	"github.com/sloopymg1/ghana-creative-platform/pkg/internal/storage/kv"
	"github.com/sloopymg1/ghana-creative-platform/pkg/internal/storage/mq"
	"github.com/sloopymg1/ghana-creative-platform/pkg/queue"
	"github.com/sloopymg1/ghana-creative-platform/pkg/scheduler"
)

func newManager(t *testing.T) *storage.Manager {
	t.Helper()

	require.NoError(t, configs.InitConfig(t.TempDir()))

	cfg := configs.GetConfig()
	cfg.Metrics.Enabled = false

	ctx := context.Background()

	client, err := db.Open(ctx, sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"))
	require.NoError(t, err)

	sqlDB, err := client.DB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, model.AutoMigrate(client.GetDB()))

	kvClient, err := kv.NewKVClient(ctx, &cfg.KV)
	require.NoError(t, err)

	mgr := &storage.Manager{DB: client, KV: kvClient}
	t.Cleanup(func() { _ = mgr.Close() })

	return mgr
}

// TestRegisterCronJobs 测试注册全部业务任务.
func TestRegisterCronJobs(t *testing.T) {
	mgr := newManager(t)

	sched, err := scheduler.NewScheduler()
	require.NoError(t, err)

	defer func() { _ = sched.Stop() }()

	require.Error(t, jobs.RegisterCronJobs(nil, mgr))
	require.Error(t, jobs.RegisterCronJobs(sched, nil))

	require.NoError(t, jobs.RegisterCronJobs(sched, mgr))

	infos := sched.GetJobInfos()
	require.Len(t, infos, 3)

	crons := map[string]string{}
	for _, info := range infos {
		crons[info.Name] = info.CronExpr
	}

	assert.Equal(t, map[string]string{
		jobs.JobAuditPrune:      jobs.CronAuditPrune,
		jobs.JobModerationAudit: jobs.CronModerationAudit,
		jobs.JobRecommendWarm:   configs.GetConfig().Recommend.WarmCron,
	}, crons)

	sched.Start()
	require.NoError(t, sched.RunNow(jobs.JobModerationAudit))

	require.Eventually(t, func() bool {
		info, err := sched.GetJobInfoByName(jobs.JobModerationAudit)
		return err == nil && info.Runs == 1 && info.Status == scheduler.StatusScheduled
	}, 3*time.Second, 10*time.Millisecond)
}

// TestPruneAuditLogs 测试只删除超过保留期的审计日志.
func TestPruneAuditLogs(t *testing.T) {
	mgr := newManager(t)
	ctx := ctxPkg.WithStorageManager(context.Background(), mgr)
	dbx := mgr.GetDBClient().GetDB()

	old := model.AuditLog{Action: model.AuditUserLogin, Resource: "user", CreatedAt: time.Now().AddDate(-2, 0, 0)}
	recent := model.AuditLog{Action: model.AuditUserLogin, Resource: "user", CreatedAt: time.Now().AddDate(0, -1, 0)}

	require.NoError(t, dbx.Create(&old).Error)
	require.NoError(t, dbx.Create(&recent).Error)

	require.NoError(t, jobs.PruneAuditLogs(ctx))

	var ids []string
	require.NoError(t, dbx.Model(&model.AuditLog{}).Pluck("id", &ids).Error)
	assert.Equal(t, []string{recent.ID}, ids)
}

// TestWarmAndReport 测试空库上的预热与待审核汇报.
func TestWarmAndReport(t *testing.T) {
	mgr := newManager(t)
	ctx := ctxPkg.WithStorageManager(context.Background(), mgr)

	require.NoError(t, jobs.WarmRecommendations(ctx))
	require.NoError(t, jobs.ReportPendingReview(ctx))

	keys, err := mgr.GetKVClient().Keys(ctx, "*")
	require.NoError(t, err)
	assert.Len(t, keys, 4, "day/week/month 趋势与热门列表")
}

// TestConsumersInvalidateRecommendCache 测试发布事件会清空推荐缓存.
func TestConsumersInvalidateRecommendCache(t *testing.T) {
	mgr := newManager(t)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	client, err := mq.New(ctx, &configs.MQConfig{Type: configs.MQTypeMemory})
	require.NoError(t, err)

	mgr.MQ = client

	recCache := cache.NewCache(mgr.GetKVClient(), "recommend")
	require.NoError(t, cache.Set(ctx, recCache, "popular", []string{"c1"}, 0))

	require.NoError(t, jobs.RegisterConsumers(ctx, mgr))
	<-client.Running()

	require.NoError(t, queue.PublishContent(client.Publisher(), queue.TopicContentPublished, queue.ContentPayload{
		Content: queue.ContentRef{ID: "c1", OwnerID: "u1", Title: "Adowa"},
		ActorID: "u1",
	}))

	require.Eventually(t, func() bool {
		ok, err := recCache.Exists(ctx, "popular")
		return err == nil && !ok
	}, 3*time.Second, 20*time.Millisecond)
}
