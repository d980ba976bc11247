package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"gorm.io/gorm"

	"github.com/sloopymg1/ghana-creative-platform/pkg/content"
	"github.com/sloopymg1/ghana-creative-platform/pkg/internal/model"
	"github.com/sloopymg1/ghana-creative-platform/pkg/internal/types"
	"github.com/sloopymg1/ghana-creative-platform/pkg/metrics"
	"github.com/sloopymg1/ghana-creative-platform/pkg/moderation"
	"github.com/sloopymg1/ghana-creative-platform/pkg/queue"
	"github.com/sloopymg1/ghana-creative-platform/pkg/rbac"
)

// ContentService 内容的创建、编辑与发布流程.
type ContentService struct {
	base
	audit     *AuditService
	moderator *moderation.Moderator
}

func NewContentService(c context.Context) *ContentService {
	b := newBase(c)

	return &ContentService{base: b, audit: &AuditService{b}, moderator: newModerator(b)}
}

// PublishResult 提交发布的结果；直接发布时 Decision 为 nil.
type PublishResult struct {
	Content  *model.Content       `json:"content"`
	Decision *moderation.Decision `json:"decision,omitempty"`
	Message  string               `json:"message"`
}

func requireSession(actor *rbac.Subject) error {
	if actor == nil || actor.UserID == "" {
		return rbac.ErrUnauthenticated
	}

	return nil
}

// normalizeTags 去空白、转小写并去重，保持顺序.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))

	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" && !slices.Contains(out, t) {
			out = append(out, t)
		}
	}

	return out
}

func toCategories(in []string) []content.Category {
	out := make([]content.Category, 0, len(in))

	for _, c := range in {
		if cat := content.Category(c); !slices.Contains(out, cat) {
			out = append(out, cat)
		}
	}

	return out
}

// checkExternalURL 视频必须带有可识别的外链.
func checkExternalURL(t content.Type, url string) error {
	if !content.ValidateExternalURL(t, url) {
		return fieldError("externalUrl", "must be a valid YouTube or Vimeo URL for video content")
	}

	return nil
}

// Create 以草稿状态创建内容，作者为当前用户.
func (s *ContentService) Create(ctx context.Context, actor *rbac.Subject, req types.CreateContentRequest) (*model.Content, error) {
	if err := requireSession(actor); err != nil {
		return nil, err
	}

	req.Title = strings.TrimSpace(req.Title)
	if err := validate(req); err != nil {
		return nil, err
	}

	t := content.Type(req.Type)
	if err := checkExternalURL(t, req.ExternalURL); err != nil {
		return nil, err
	}

	slug, err := uniqueSlug(s.db(ctx), &model.Content{}, req.Title, "content")
	if err != nil {
		return nil, err
	}

	c := &model.Content{
		UserID:      actor.UserID,
		Title:       req.Title,
		Description: req.Description,
		Slug:        slug,
		Type:        t,
		Status:      content.StatusDraft,
		Categories:  toCategories(req.Categories),
		Tags:        normalizeTags(req.Tags),
		LicenseType: req.LicenseType,
		ExternalURL: req.ExternalURL,
		Duration:    req.Duration,
	}

	if err := s.db(ctx).Create(c).Error; err != nil {
		return nil, fmt.Errorf("create content: %w", err)
	}

	s.audit.record(ctx, actor.UserID, model.AuditContentCreated, "Content", c.ID, map[string]any{
		"title": c.Title,
		"type":  c.Type,
	})

	return c, nil
}

// find 按 ID 查找未删除的内容.
func (s *ContentService) find(ctx context.Context, id string) (*model.Content, error) {
	var c model.Content
	if err := s.db(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "content")
	}

	return &c, nil
}

// Get 已发布内容对所有人可见；其余状态仅作者与审核员可见.
func (s *ContentService) Get(ctx context.Context, viewer *rbac.Subject, id string) (*model.Content, error) {
	c, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if c.Status == content.StatusPublished {
		return c, nil
	}

	if viewer == nil || (viewer.UserID != c.UserID && !viewer.Permissions().Has(rbac.ContentModerate)) {
		return nil, rbac.ErrForbidden
	}

	return c, nil
}

// canManage 作者本人或持有 perm 的用户.
func canManage(actor *rbac.Subject, c *model.Content, perm string) error {
	if err := requireSession(actor); err != nil {
		return err
	}

	if actor.UserID == c.UserID {
		return nil
	}

	return rbac.RequirePermission(actor, perm)
}

// Update 修改内容字段，作者或持有 content.update 的用户可操作.
func (s *ContentService) Update(ctx context.Context, actor *rbac.Subject, id string, req types.UpdateContentRequest) (*model.Content, error) {
	if err := requireSession(actor); err != nil {
		return nil, err
	}

	if err := validate(req); err != nil {
		return nil, err
	}

	c, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := canManage(actor, c, rbac.ContentUpdate); err != nil {
		return nil, err
	}

	var changed []string

	if req.Title != nil {
		c.Title = strings.TrimSpace(*req.Title)
		changed = append(changed, "title")
	}

	if req.Description != nil {
		c.Description = *req.Description
		changed = append(changed, "description")
	}

	if req.Categories != nil {
		c.Categories = toCategories(*req.Categories)
		changed = append(changed, "categories")
	}

	if req.Tags != nil {
		c.Tags = normalizeTags(*req.Tags)
		changed = append(changed, "tags")
	}

	if req.LicenseType != nil {
		c.LicenseType = *req.LicenseType
		changed = append(changed, "licenseType")
	}

	if req.ExternalURL != nil {
		c.ExternalURL = *req.ExternalURL
		changed = append(changed, "externalUrl")
	}

	if req.Duration != nil {
		c.Duration = req.Duration
		changed = append(changed, "duration")
	}

	if err := checkExternalURL(c.Type, c.ExternalURL); err != nil {
		return nil, err
	}

	if len(changed) == 0 {
		return c, nil
	}

	if err := s.db(ctx).Save(c).Error; err != nil {
		return nil, fmt.Errorf("update content: %w", err)
	}

	s.audit.record(ctx, actor.UserID, model.AuditContentUpdated, "Content", c.ID, map[string]any{"fields": changed})

	return c, nil
}

// Delete 软删除，作者或持有 content.delete 的用户可操作.
func (s *ContentService) Delete(ctx context.Context, actor *rbac.Subject, id string) error {
	c, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	if err := canManage(actor, c, rbac.ContentDelete); err != nil {
		return err
	}

	if err := s.db(ctx).Delete(c).Error; err != nil {
		return fmt.Errorf("delete content: %w", err)
	}

	s.audit.record(ctx, actor.UserID, model.AuditContentDeleted, "Content", c.ID, map[string]any{"title": c.Title})

	return nil
}

// ListMine 当前用户的全部内容（任意状态），最新在前.
func (s *ContentService) ListMine(ctx context.Context, actor *rbac.Subject, p types.Pagination) (types.Page[model.Content], error) {
	if err := requireSession(actor); err != nil {
		return types.Page[model.Content]{}, err
	}

	p = p.Normalize()
	q := s.db(ctx).Model(&model.Content{}).Where("user_id = ?", actor.UserID)

	return s.page(q.Order("created_at DESC"), p)
}

// List 已发布内容，支持类型、类别与关键字过滤，最新在前.
//
// 类别与标签以 JSON 文本存储，按带引号的元素做 LIKE 匹配.
func (s *ContentService) List(ctx context.Context, q types.ListContentQuery) (types.Page[model.Content], error) {
	if err := validate(q); err != nil {
		return types.Page[model.Content]{}, err
	}

	p := q.Pagination.Normalize()
	tx := s.db(ctx).Model(&model.Content{}).Where("status = ?", content.StatusPublished)

	if q.Type != "" {
		tx = tx.Where("type = ?", q.Type)
	}

	if q.Category != "" {
		tx = tx.Where("categories LIKE ?", `%"`+q.Category+`"%`)
	}

	if search := strings.ToLower(strings.TrimSpace(q.Search)); search != "" {
		like := "%" + search + "%"
		tx = tx.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR tags LIKE ?", like, like, `%"`+search+`"%`)
	}

	return s.page(tx.Order("created_at DESC"), p)
}

// Live 已发布的直播内容，最新在前.
func (s *ContentService) Live(ctx context.Context, p types.Pagination) (types.Page[model.Content], error) {
	if err := validate(p); err != nil {
		return types.Page[model.Content]{}, err
	}

	q := s.db(ctx).Model(&model.Content{}).
		Where("status = ? AND type = ?", content.StatusPublished, content.TypeLiveStream)

	return s.page(q.Order("created_at DESC"), p.Normalize())
}

// page 计数并取一页.
func (s *ContentService) page(q *gorm.DB, p types.Pagination) (types.Page[model.Content], error) {
	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return types.Page[model.Content]{}, err
	}

	var rows []model.Content
	if err := q.Offset(p.Offset()).Limit(p.PerPage).Find(&rows).Error; err != nil {
		return types.Page[model.Content]{}, err
	}

	return types.NewPage(rows, total, p), nil
}

// RecordView 已发布内容浏览量加一，返回新的浏览量.
func (s *ContentService) RecordView(ctx context.Context, viewer *rbac.Subject, id string) (int64, error) {
	c, err := s.find(ctx, id)
	if err != nil {
		return 0, err
	}

	if c.Status != content.StatusPublished {
		return 0, fmt.Errorf("content %w", ErrNotFound)
	}

	if err := s.db(ctx).Model(c).UpdateColumn("view_count", gorm.Expr("view_count + ?", 1)).Error; err != nil {
		return 0, fmt.Errorf("record view: %w", err)
	}

	var views int64
	if err := s.db(ctx).Model(&model.Content{}).Where("id = ?", id).Pluck("view_count", &views).Error; err != nil {
		return 0, err
	}

	var viewerID string
	if viewer != nil {
		viewerID = viewer.UserID
	}

	s.emit(ctx, s.cfg.Events.Content.Viewed, queue.TopicContentViewed,
		func(pub message.Publisher, opts ...func(*queue.EventHeader)) error {
			return queue.PublishContentViewed(pub, queue.ContentViewedPayload{
				ContentID: id,
				ViewerID:  viewerID,
				ViewCount: views,
			}, opts...)
		})

	return views, nil
}

// Publish 作者提交发布。
//
// 持有 content.publish 的作者直接发布；其余作者经自动审核：通过或需复核时进入待审核，
// 分数达到拒绝阈值时直接拒绝。审核分数与结论写回内容.
func (s *ContentService) Publish(ctx context.Context, actor *rbac.Subject, id string) (*PublishResult, error) {
	if err := requireSession(actor); err != nil {
		return nil, err
	}

	c, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if c.UserID != actor.UserID {
		return nil, fmt.Errorf("only the content owner can publish: %w", rbac.ErrForbidden)
	}

	if c.Status == content.StatusPublished || c.Status == content.StatusPendingReview {
		return nil, fmt.Errorf("content is %s: %w", c.Status, ErrConflict)
	}

	now := time.Now()
	res := &PublishResult{Content: c}
	topic := queue.TopicContentSubmitted
	payload := queue.ContentPayload{ActorID: actor.UserID}

	if actor.Permissions().Has(rbac.ContentPublish) {
		c.Status = content.StatusPublished
		c.PublishedAt = &now
		res.Message = "Content published successfully"
		topic = queue.TopicContentPublished
	} else {
		d := s.moderator.AutoModerate(moderation.Input{Title: c.Title, Description: c.Description})
		observeDecision(d)

		c.ModerationScore = d.Moderation.Score
		c.ModerationAction = string(d.Action)
		c.ModerationReasons = d.Moderation.Reasons
		res.Decision = &d

		payload.Score = d.Moderation.Score
		payload.Action = string(d.Action)
		payload.Reasons = d.Moderation.Reasons

		if d.Action == moderation.ActionReject {
			c.Status = content.StatusRejected
			c.ModeratedAt = &now
			res.Message = "Content was rejected by automatic moderation"
			topic = queue.TopicContentRejected
		} else {
			c.Status = content.StatusPendingReview
			res.Message = "Content submitted for review"
		}
	}

	if err := s.db(ctx).Save(c).Error; err != nil {
		return nil, fmt.Errorf("publish content: %w", err)
	}

	metrics.ContentTransitions.WithLabelValues(string(c.Status)).Inc()

	s.audit.record(ctx, actor.UserID, model.AuditContentPublished, "Content", c.ID, map[string]any{
		"status": c.Status,
		"score":  c.ModerationScore,
	})
	s.emitContent(ctx, topic, c, payload)

	return res, nil
}
