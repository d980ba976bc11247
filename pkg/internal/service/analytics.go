package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sloopymg1/ghana-creative-platform/pkg/content"
	"github.com/sloopymg1/ghana-creative-platform/pkg/internal/model"
	"github.com/sloopymg1/ghana-creative-platform/pkg/internal/types"
	"github.com/sloopymg1/ghana-creative-platform/pkg/rbac"
)

// AnalyticsService 管理后台统计.
type AnalyticsService struct {
	base
	now func() time.Time
}

func NewAnalyticsService(c context.Context) *AnalyticsService {
	return &AnalyticsService{base: newBase(c), now: time.Now}
}

// aggRow 分组计数结果行.
type aggRow struct {
	Key string `gorm:"column:k"`
	Cnt int64  `gorm:"column:cnt"`
}

// groupCount 按 column 分组计数，结果按数量降序.
func (s *AnalyticsService) groupCount(ctx context.Context, mdl any, column string) ([]types.Count, error) {
	var rows []aggRow
	if err := s.db(ctx).Model(mdl).
		Select(column + " AS k, COUNT(*) AS cnt").
		Group(column).
		Order("cnt DESC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]types.Count, len(rows))
	for i, r := range rows {
		out[i] = types.Count{Key: r.Key, Count: r.Cnt}
	}

	return out, nil
}

// Dashboard 并发汇总用户与内容统计，需要 analytics.view 或 analytics.view-all.
func (s *AnalyticsService) Dashboard(ctx context.Context, actor *rbac.Subject) (types.DashboardStats, error) {
	var st types.DashboardStats

	if err := rbac.RequireAnyPermission(actor, rbac.AnalyticsView, rbac.AnalyticsViewAll); err != nil {
		return st, err
	}

	now := s.now()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return s.db(gctx).Model(&model.User{}).Count(&st.Users.Total).Error
	})
	g.Go(func() (err error) {
		st.Users.ByType, err = s.groupCount(gctx, &model.User{}, "user_type")
		return err
	})
	g.Go(func() (err error) {
		st.Users.ByStatus, err = s.groupCount(gctx, &model.User{}, "status")
		return err
	})
	g.Go(func() error {
		return s.db(gctx).Model(&model.User{}).Where("created_at >= ?", now.AddDate(0, 0, -7)).Count(&st.Users.New7d).Error
	})
	g.Go(func() error {
		return s.db(gctx).Model(&model.User{}).Where("created_at >= ?", now.AddDate(0, 0, -30)).Count(&st.Users.New30d).Error
	})
	g.Go(func() error {
		return s.db(gctx).Model(&model.Content{}).Count(&st.Content.Total).Error
	})
	g.Go(func() (err error) {
		st.Content.ByType, err = s.groupCount(gctx, &model.Content{}, "type")
		return err
	})
	g.Go(func() (err error) {
		st.Content.ByStatus, err = s.groupCount(gctx, &model.Content{}, "status")
		return err
	})
	g.Go(func() error {
		return s.db(gctx).Model(&model.Content{}).Where("status = ?", content.StatusPublished).Count(&st.Content.Published).Error
	})
	g.Go(func() error {
		return s.db(gctx).Model(&model.Content{}).Where("status = ?", content.StatusPendingReview).Count(&st.Content.PendingReview).Error
	})
	g.Go(func() error {
		return s.db(gctx).Model(&model.Content{}).Select("COALESCE(SUM(view_count), 0)").Scan(&st.Content.TotalViews).Error
	})

	if err := g.Wait(); err != nil {
		return types.DashboardStats{}, err
	}

	return st, nil
}

// 导出类型.
const (
	ExportUsers   = "users"
	ExportContent = "content"
	ExportAudit   = "audit"
)

// maxAuditExport 审计日志导出的最大条数.
const maxAuditExport = 10000

type exportUserRow struct {
	ID, Email, FirstName, LastName, UserType, Status string
	CreatedAt                                        time.Time
	LastLoginAt                                      *time.Time
	LoginCount                                       int
}

type exportContentRow struct {
	ID, Title, Type, Status string
	ViewCount               int64
	Categories              []content.Category `gorm:"serializer:json"`
	CreatedAt               time.Time
	PublishedAt             *time.Time
	Email                   string
	FirstName, LastName     string
}

type exportAuditRow struct {
	ID, Action, Resource, ResourceID, IPAddress string
	CreatedAt                                   time.Time
	Email                                       *string
	FirstName, LastName                         *string
}

func isoOr(t *time.Time, fallback string) string {
	if t == nil {
		return fallback
	}

	return t.UTC().Format(time.RFC3339)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}

	return s
}

// Export 以 CSV 写出用户、内容或审计日志，返回建议的文件名；需要 analytics.export.
func (s *AnalyticsService) Export(ctx context.Context, actor *rbac.Subject, kind string, w io.Writer) (string, error) {
	if err := rbac.RequirePermission(actor, rbac.AnalyticsExport); err != nil {
		return "", err
	}

	cw := csv.NewWriter(w)

	var (
		filename string
		err      error
	)

	switch kind {
	case ExportUsers:
		filename, err = "users-export.csv", s.exportUsers(ctx, cw)
	case ExportContent:
		filename, err = "content-export.csv", s.exportContent(ctx, cw)
	case ExportAudit:
		filename, err = "audit-logs-export.csv", s.exportAudit(ctx, cw)
	default:
		return "", fieldError("type", fmt.Sprintf("must be one of %s, %s, %s", ExportUsers, ExportContent, ExportAudit))
	}

	if err != nil {
		return "", err
	}

	cw.Flush()

	return filename, cw.Error()
}

func (s *AnalyticsService) exportUsers(ctx context.Context, cw *csv.Writer) error {
	var rows []exportUserRow
	if err := s.db(ctx).Model(&model.User{}).Order("created_at DESC").Scan(&rows).Error; err != nil {
		return err
	}

	_ = cw.Write([]string{"ID", "Email", "First Name", "Last Name", "User Type", "Status", "Created At", "Last Login", "Login Count"})

	for _, u := range rows {
		_ = cw.Write([]string{
			u.ID, u.Email, u.FirstName, u.LastName, u.UserType, u.Status,
			isoOr(&u.CreatedAt, ""), isoOr(u.LastLoginAt, "Never"), strconv.Itoa(u.LoginCount),
		})
	}

	return nil
}

func (s *AnalyticsService) exportContent(ctx context.Context, cw *csv.Writer) error {
	var rows []exportContentRow
	if err := s.db(ctx).Model(&model.Content{}).
		Select("contents.id, contents.title, contents.type, contents.status, contents.view_count, contents.categories, " +
			"contents.created_at, contents.published_at, users.email, users.first_name, users.last_name").
		Joins("JOIN users ON users.id = contents.user_id").
		Order("contents.created_at DESC").
		Scan(&rows).Error; err != nil {
		return err
	}

	_ = cw.Write([]string{"ID", "Title", "Type", "Status", "Views", "Categories", "Created At", "Published At", "Creator Email", "Creator Name"})

	for _, c := range rows {
		cats := make([]string, len(c.Categories))
		for i, cat := range c.Categories {
			cats[i] = string(cat)
		}

		_ = cw.Write([]string{
			c.ID, c.Title, c.Type, c.Status, strconv.FormatInt(c.ViewCount, 10), strings.Join(cats, ", "),
			isoOr(&c.CreatedAt, ""), isoOr(c.PublishedAt, "Not published"), c.Email, c.FirstName + " " + c.LastName,
		})
	}

	return nil
}

func (s *AnalyticsService) exportAudit(ctx context.Context, cw *csv.Writer) error {
	var rows []exportAuditRow
	if err := s.db(ctx).Model(&model.AuditLog{}).
		Select("audit_logs.id, audit_logs.action, audit_logs.resource, audit_logs.resource_id, audit_logs.ip_address, " +
			"audit_logs.created_at, users.email, users.first_name, users.last_name").
		Joins("LEFT JOIN users ON users.id = audit_logs.user_id").
		Order("audit_logs.created_at DESC").
		Limit(maxAuditExport).
		Scan(&rows).Error; err != nil {
		return err
	}

	_ = cw.Write([]string{"ID", "Action", "Resource", "Resource ID", "Created At", "IP Address", "User Email", "User Name"})

	for _, l := range rows {
		email, name := "System", "System"
		if l.Email != nil {
			email = *l.Email
			name = deref(l.FirstName) + " " + deref(l.LastName)
		}

		_ = cw.Write([]string{
			l.ID, l.Action, l.Resource, orNA(l.ResourceID), isoOr(&l.CreatedAt, ""), orNA(l.IPAddress), email, name,
		})
	}

	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}
