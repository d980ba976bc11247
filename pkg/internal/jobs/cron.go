// Package jobs 负责注册与实现业务定时任务（基于 scheduler）.
package jobs

import (
	"context"
	"errors"
	"time"

	"github.com/sloopymg1/ghana-creative-platform/pkg/configs"
	ctxPkg "github.com/sloopymg1/ghana-creative-platform/pkg/context"
	"github.com/sloopymg1/ghana-creative-platform/pkg/internal/service"
	"github.com/sloopymg1/ghana-creative-platform/pkg/internal/storage"
	"github.com/sloopymg1/ghana-creative-platform/pkg/log"
	"github.com/sloopymg1/ghana-creative-platform/pkg/scheduler"
)

// RegisterCronJobs 配置业务定时任务：
//   - 每小时预热热门与趋势缓存
//   - 每天 06:00 汇报待审核队列
//   - 每月 1 号 03:00 清理一年前的审计日志
func RegisterCronJobs(sched *scheduler.Scheduler, mgr *storage.Manager) error {
	if sched == nil {
		return errors.New("scheduler is nil")
	}

	if mgr == nil {
		return errors.New("storage manager is nil")
	}

	baseCtx := ctxPkg.WithStorageManager(context.Background(), mgr)

	warmCron := configs.GetConfig().Recommend.WarmCron
	if warmCron == "" {
		warmCron = CronRecommendWarm
	}

	return errors.Join(
		sched.AddCron(baseCtx, JobRecommendWarm, warmCron, WarmRecommendations),
		sched.AddCron(baseCtx, JobModerationAudit, CronModerationAudit, ReportPendingReview),
		sched.AddCron(baseCtx, JobAuditPrune, CronAuditPrune, PruneAuditLogs),
	)
}

// WarmRecommendations 重新计算热门与趋势缓存.
func WarmRecommendations(ctx context.Context) error {
	n, err := service.NewRecommendService(ctx).Warm(ctx)
	if err != nil {
		return err
	}

	log.Logger().Info().Str("job", JobRecommendWarm).Int("keys", n).Msg("recommendation cache warmed")

	return nil
}

// ReportPendingReview 记录待审核队列规模，有积压时输出告警日志.
func ReportPendingReview(ctx context.Context) error {
	hours := configs.GetConfig().Moderation.StaleAfterHours

	st, err := service.NewModerationService(ctx).Pending(ctx, time.Duration(hours)*time.Hour)
	if err != nil {
		return err
	}

	l := log.Logger().With().Str("job", JobModerationAudit).Logger()

	ev := l.Info()
	if st.Stale > 0 {
		ev = l.Warn()
	}

	if st.Oldest != nil {
		ev = ev.Time("oldest", *st.Oldest)
	}

	ev.Int64("pending", st.Count).Int64("stale", st.Stale).Int("stale_after_hours", hours).Msg("moderation queue report")

	return nil
}

// PruneAuditLogs 删除超过保留期的审计日志.
func PruneAuditLogs(ctx context.Context) error {
	before := time.Now().AddDate(0, 0, -AuditRetentionDays)

	n, err := service.NewAuditService(ctx).Prune(ctx, before)
	if err != nil {
		return err
	}

	log.Logger().Info().Str("job", JobAuditPrune).Int64("deleted", n).Time("before", before).Msg("audit log pruned")

	return nil
}
