package service

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/sloopymg1/ghana-creative-platform/pkg/content"
	"github.com/sloopymg1/ghana-creative-platform/pkg/internal/model"
	"github.com/sloopymg1/ghana-creative-platform/pkg/internal/types"
	"github.com/sloopymg1/ghana-creative-platform/pkg/metrics"
	"github.com/sloopymg1/ghana-creative-platform/pkg/moderation"
	"github.com/sloopymg1/ghana-creative-platform/pkg/queue"
	"github.com/sloopymg1/ghana-creative-platform/pkg/rbac"
)

// 人工审核动作.
const (
	ReviewApprove = "approve"
	ReviewReject  = "reject"
)

// ModerationService 自动审核与人工审核队列.
type ModerationService struct {
	base
	audit     *AuditService
	moderator *moderation.Moderator
}

func NewModerationService(c context.Context) *ModerationService {
	b := newBase(c)

	return &ModerationService{base: b, audit: &AuditService{b}, moderator: newModerator(b)}
}

// newModerator 按配置阈值构造审核器.
func newModerator(b base) *moderation.Moderator {
	mc := b.cfg.Moderation
	if mc.RejectAt == 0 {
		return moderation.New(moderation.DefaultPolicy)
	}

	return moderation.New(moderation.Policy{
		SpamSignals: mc.SpamSignals,
		FlagAbove:   mc.FlagAbove,
		ReviewAt:    mc.ReviewAt,
		RejectAt:    mc.RejectAt,
	})
}

func observeDecision(d moderation.Decision) {
	metrics.ModerationDecisions.WithLabelValues(string(d.Action)).Inc()
	metrics.ModerationScore.Observe(float64(d.Moderation.Score))
}

// Check 对标题与描述做组合审核，不落库.
func (s *ModerationService) Check(_ context.Context, req types.ModerateRequest) (moderation.Decision, error) {
	if err := validate(req); err != nil {
		return moderation.Decision{}, err
	}

	d := s.moderator.AutoModerate(moderation.Input{Title: req.Title, Description: req.Description})
	observeDecision(d)

	return d, nil
}

// Queue 待审核内容，最早提交的在前.
func (s *ModerationService) Queue(ctx context.Context, actor *rbac.Subject, p types.Pagination) (types.Page[model.Content], error) {
	if err := rbac.RequirePermission(actor, rbac.ContentModerate); err != nil {
		return types.Page[model.Content]{}, err
	}

	p = p.Normalize()
	q := s.db(ctx).Model(&model.Content{}).
		Where("status = ?", content.StatusPendingReview).
		Order("updated_at ASC")

	cs := &ContentService{base: s.base}

	return cs.page(q, p)
}

// PendingStats 待审核数量与最早一条的提交时间.
type PendingStats struct {
	Count  int64      `json:"count"`
	Stale  int64      `json:"stale"`
	Oldest *time.Time `json:"oldest,omitempty"`
}

// Pending 统计待审核内容，超过 staleAfter 未处理的计入 Stale.
func (s *ModerationService) Pending(ctx context.Context, staleAfter time.Duration) (PendingStats, error) {
	var st PendingStats

	q := s.db(ctx).Model(&model.Content{}).Where("status = ?", content.StatusPendingReview)

	if err := q.Session(&gorm.Session{}).Count(&st.Count).Error; err != nil {
		return st, err
	}

	if st.Count == 0 {
		return st, nil
	}

	if err := q.Session(&gorm.Session{}).Where("updated_at < ?", time.Now().Add(-staleAfter)).Count(&st.Stale).Error; err != nil {
		return st, err
	}

	var oldest model.Content
	if err := q.Session(&gorm.Session{}).Order("updated_at ASC").First(&oldest).Error; err != nil {
		return st, err
	}

	st.Oldest = &oldest.UpdatedAt

	return st, nil
}

// Review 审核员处理待审核内容：approve 发布，reject 拒绝.
func (s *ModerationService) Review(ctx context.Context, actor *rbac.Subject, req types.ReviewRequest) (*model.Content, error) {
	if err := rbac.RequirePermission(actor, rbac.ContentModerate); err != nil {
		return nil, err
	}

	if err := validate(req); err != nil {
		return nil, err
	}

	var c model.Content
	if err := s.db(ctx).First(&c, "id = ?", req.ContentID).Error; err != nil {
		return nil, notFound(err, "content")
	}

	if c.Status != content.StatusPendingReview {
		return nil, fmt.Errorf("content is %s: %w", c.Status, ErrConflict)
	}

	now := time.Now()
	c.ModeratedAt = &now
	c.ModeratedBy = actor.UserID
	c.ModerationNotes = req.Notes

	topic := queue.TopicContentRejected
	if req.Action == ReviewApprove {
		c.Status = content.StatusPublished
		c.PublishedAt = &now
		topic = queue.TopicContentPublished
	} else {
		c.Status = content.StatusRejected
	}

	if err := s.db(ctx).Save(&c).Error; err != nil {
		return nil, fmt.Errorf("review content: %w", err)
	}

	metrics.ContentTransitions.WithLabelValues(string(c.Status)).Inc()

	s.audit.record(ctx, actor.UserID, model.AuditContentModerated, "Content", c.ID, map[string]any{
		"action": req.Action,
		"status": c.Status,
		"notes":  req.Notes,
	})

	payload := queue.ContentPayload{
		ActorID: actor.UserID,
		Score:   c.ModerationScore,
		Action:  req.Action,
		Notes:   req.Notes,
	}
	s.emitContent(ctx, queue.TopicContentModerated, &c, payload)
	s.emitContent(ctx, topic, &c, payload)

	return &c, nil
}
