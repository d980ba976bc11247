package service_test

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sloopymg1/ghana-creative-platform/pkg/content"
	"github.com/sloopymg1/ghana-creative-platform/pkg/internal/model"
	"github.com/sloopymg1/ghana-creative-platform/pkg/internal/service"
	"github.com/sloopymg1/ghana-creative-platform/pkg/internal/types"
	"github.com/sloopymg1/ghana-creative-platform/pkg/rbac"
	"github.com/sloopymg1/ghana-creative-platform/pkg/tagging"
)

func countOf(counts []types.Count, key string) int64 {
	for _, c := range counts {
		if c.Key == key {
			return c.Count
		}
	}

	return 0
}

// TestDashboard 测试概览统计.
func TestDashboard(t *testing.T) {
	e := newEnv(t)
	viewer := e.register(t, "viewer@example.com", rbac.RoleAnalyticsViewer)
	c := newCatalog(t, e)
	submit(t, e, c.a, "Adowa dance tutorial")

	svc := service.NewAnalyticsService(e.ctx)

	_, err := svc.Dashboard(e.ctx, c.a)
	require.ErrorIs(t, err, rbac.ErrForbidden)

	st, err := svc.Dashboard(e.ctx, viewer)
	require.NoError(t, err)

	assert.Equal(t, int64(3), st.Users.Total)
	assert.Equal(t, int64(3), st.Users.New7d)
	assert.Equal(t, int64(3), countOf(st.Users.ByType, string(model.UserTypeArtist)))
	assert.Equal(t, int64(3), countOf(st.Users.ByStatus, string(model.UserStatusPendingVerification)))

	assert.Equal(t, int64(5), st.Content.Total)
	assert.Equal(t, int64(3), st.Content.Published)
	assert.Equal(t, int64(1), st.Content.PendingReview)
	assert.Equal(t, int64(60), st.Content.TotalViews)
	assert.Equal(t, int64(4), countOf(st.Content.ByType, string(content.TypeAudio)))
	assert.Equal(t, int64(1), countOf(st.Content.ByStatus, string(content.StatusDraft)))

	_, err = svc.Dashboard(e.ctx, grant(viewer.UserID, rbac.AnalyticsViewAll))
	require.NoError(t, err)
}

// TestAuditListAndPrune 测试审计日志过滤与清理.
func TestAuditListAndPrune(t *testing.T) {
	e := newEnv(t)
	e.register(t, "a@example.com")
	e.register(t, "b@example.com")

	svc := service.NewAuditService(e.ctx)

	old := &model.AuditLog{Action: model.AuditUserLogin, Resource: "User", CreatedAt: time.Now().AddDate(-2, 0, 0)}
	require.NoError(t, svc.Record(e.ctx, old))

	page, err := svc.List(e.ctx, model.AuditUserCreated, types.Pagination{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)

	page, err = svc.List(e.ctx, "", types.Pagination{PerPage: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.Len(t, page.Items, 1)

	n, err := svc.Prune(e.ctx, time.Now().AddDate(-1, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	page, err = svc.List(e.ctx, model.AuditUserLogin, types.Pagination{})
	require.NoError(t, err)
	assert.Zero(t, page.Total)
}

// TestTaggingService 测试标签建议与情感分析的校验.
func TestTaggingService(t *testing.T) {
	e := newEnv(t)
	svc := service.NewTaggingService(e.ctx)

	got, err := svc.Suggest(e.ctx, types.SuggestTagsRequest{
		Title:      "Amazing Ghanaian Music Video",
		Categories: []string{string(content.CategoryMusic)},
		Type:       string(content.TypeVideo),
	})
	require.NoError(t, err)
	assert.Len(t, got, tagging.MaxSuggestions)

	_, err = svc.Suggest(e.ctx, types.SuggestTagsRequest{Title: "No type"})
	require.ErrorIs(t, err, service.ErrValidation)

	res, err := svc.Sentiment(e.ctx, types.SentimentRequest{Text: "I love this, it is amazing and beautiful"})
	require.NoError(t, err)
	assert.Equal(t, tagging.Positive, res.Sentiment)

	_, err = svc.Sentiment(e.ctx, types.SentimentRequest{})
	require.ErrorIs(t, err, service.ErrValidation)
}

// TestExport 测试 CSV 导出.
func TestExport(t *testing.T) {
	e := newEnv(t)
	c := newCatalog(t, e)
	exporter := grant(c.a.UserID, rbac.AnalyticsExport)

	svc := service.NewAnalyticsService(e.ctx)

	var buf bytes.Buffer

	_, err := svc.Export(e.ctx, c.a, service.ExportUsers, &buf)
	require.ErrorIs(t, err, rbac.ErrForbidden)

	_, err = svc.Export(e.ctx, exporter, "orders", &buf)
	require.ErrorIs(t, err, service.ErrValidation)

	name, err := svc.Export(e.ctx, exporter, service.ExportContent, &buf)
	require.NoError(t, err)
	assert.Equal(t, "content-export.csv", name)

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, "Title", rows[0][1])

	buf.Reset()

	_, err = svc.Export(e.ctx, exporter, service.ExportUsers, &buf)
	require.NoError(t, err)

	rows, err = csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 3)
	assert.Equal(t, "Never", rows[1][7])

	buf.Reset()

	_, err = svc.Export(e.ctx, exporter, service.ExportAudit, &buf)
	require.NoError(t, err)

	rows, err = csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Greater(t, len(rows), 1)
	assert.Equal(t, "User Email", rows[0][6])
}
