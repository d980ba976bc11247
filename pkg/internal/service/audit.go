package service

import (
	"context"
	"time"

	"gorm.io/gorm"

	ctxPkg "github.com/sloopymg1/ghana-creative-platform/pkg/context"
	"github.com/sloopymg1/ghana-creative-platform/pkg/internal/model"
	"github.com/sloopymg1/ghana-creative-platform/pkg/internal/types"
	nlog "github.com/sloopymg1/ghana-creative-platform/pkg/log"
)

// AuditService 记录与清理审计日志.
type AuditService struct{ base }

func NewAuditService(c context.Context) *AuditService { return &AuditService{newBase(c)} }

// Record 写入一条审计日志，来源 IP 与 UA 取自 ctx.
func (s *AuditService) Record(ctx context.Context, entry *model.AuditLog) error {
	info := ctxPkg.GetClientInfo(ctx)
	if entry.IPAddress == "" {
		entry.IPAddress = info.IP
	}

	if entry.UserAgent == "" {
		entry.UserAgent = info.UserAgent
	}

	return s.db(ctx).Create(entry).Error
}

// record 尽力写入，失败只记日志.
func (s *AuditService) record(ctx context.Context, userID, action, resource, resourceID string, details map[string]any) {
	entry := &model.AuditLog{
		UserID:     userID,
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		Details:    details,
	}

	if err := s.Record(ctx, entry); err != nil {
		l := ctxPkg.WithTraceContext(ctx, *nlog.Logger())
		l.Warn().Err(err).Str("action", action).Str("resource_id", resourceID).Msg("audit log write failed")
	}
}

// List 按时间倒序分页列出审计日志，action 为空时不过滤.
func (s *AuditService) List(ctx context.Context, action string, p types.Pagination) (types.Page[model.AuditLog], error) {
	p = p.Normalize()
	q := s.db(ctx).Model(&model.AuditLog{})

	if action != "" {
		q = q.Where("action = ?", action)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return types.Page[model.AuditLog]{}, err
	}

	var rows []model.AuditLog
	if err := q.Order("id DESC").Offset(p.Offset()).Limit(p.PerPage).Find(&rows).Error; err != nil {
		return types.Page[model.AuditLog]{}, err
	}

	return types.NewPage(rows, total, p), nil
}

// Prune 删除早于 before 的审计日志，返回删除条数.
func (s *AuditService) Prune(ctx context.Context, before time.Time) (int64, error) {
	res := s.db(ctx).Where("created_at < ?", before).Delete(&model.AuditLog{})
	return res.RowsAffected, res.Error
}
