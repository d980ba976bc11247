package jobs

// 任务名称.
const (
	JobRecommendWarm   = "recommend.warm"
	JobModerationAudit = "moderation.pending_report"
	JobAuditPrune      = "audit.prune"
)

// Cron 表达式，预热任务的表达式可由 recommend.warm_cron 覆盖.
const (
	CronRecommendWarm   = "0 * * * *"
	CronModerationAudit = "0 6 * * *"
	CronAuditPrune      = "0 3 1 * *"
)

// AuditRetentionDays 审计日志保留天数.
const AuditRetentionDays = 365
