package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sloopymg1/ghana-creative-platform/pkg/content"
	"github.com/sloopymg1/ghana-creative-platform/pkg/internal/model"
	"github.com/sloopymg1/ghana-creative-platform/pkg/internal/service"
	"github.com/sloopymg1/ghana-creative-platform/pkg/internal/types"
	"github.com/sloopymg1/ghana-creative-platform/pkg/moderation"
	"github.com/sloopymg1/ghana-creative-platform/pkg/rbac"
)

func createReq(title string, cats ...string) types.CreateContentRequest {
	if len(cats) == 0 {
		cats = []string{string(content.CategoryMusic)}
	}

	return types.CreateContentRequest{
		Title:       title,
		Description: "Recorded live in Kumasi",
		Type:        string(content.TypeAudio),
		Categories:  cats,
		Tags:        []string{" Highlife ", "guitar", "HIGHLIFE"},
	}
}

// publishAs 以持有 content.publish 的身份直接发布.
func publishAs(t *testing.T, e *env, owner *rbac.Subject, req types.CreateContentRequest) *model.Content {
	t.Helper()

	svc := service.NewContentService(e.ctx)

	c, err := svc.Create(e.ctx, owner, req)
	require.NoError(t, err)

	res, err := svc.Publish(e.ctx, grant(owner.UserID, rbac.ContentPublish), c.ID)
	require.NoError(t, err)
	require.Equal(t, content.StatusPublished, res.Content.Status)

	return res.Content
}

// TestCreateContent 测试创建草稿、标签规范化与 slug.
func TestCreateContent(t *testing.T) {
	e := newEnv(t)
	artist := e.register(t, "artist@example.com")
	svc := service.NewContentService(e.ctx)

	c, err := svc.Create(e.ctx, artist, createReq("Highlife Evenings!"))
	require.NoError(t, err)
	assert.Equal(t, content.StatusDraft, c.Status)
	assert.Equal(t, artist.UserID, c.UserID)
	assert.Equal(t, "highlife-evenings", c.Slug)
	assert.Equal(t, []string{"highlife", "guitar"}, c.Tags)
	assert.Equal(t, content.DefaultLicense, c.LicenseType)

	dup, err := svc.Create(e.ctx, artist, createReq("Highlife evenings"))
	require.NoError(t, err)
	assert.Regexp(t, `^highlife-evenings-\d+$`, dup.Slug)

	// 非 ASCII 字符音译而不是丢弃.
	accented, err := svc.Create(e.ctx, artist, createReq("Café Ọdɔ"))
	require.NoError(t, err)
	assert.Equal(t, "cafe-odo", accented.Slug)

	symbols, err := svc.Create(e.ctx, artist, createReq("!!! ???"))
	require.NoError(t, err)
	assert.Equal(t, "content", symbols.Slug)

	_, err = svc.Create(e.ctx, nil, createReq("Anonymous"))
	assert.ErrorIs(t, err, rbac.ErrUnauthenticated)
}

// TestCreateContentValidation 测试字段校验与视频外链.
func TestCreateContentValidation(t *testing.T) {
	e := newEnv(t)
	artist := e.register(t, "artist@example.com")
	svc := service.NewContentService(e.ctx)

	tests := []struct {
		name  string
		req   types.CreateContentRequest
		field string
	}{
		{name: "标题过短", req: createReq("Hi"), field: "title"},
		{name: "未知类别", req: createReq("Kente", "SCULPTURE"), field: "categories[0]"},
		{
			name: "视频缺少外链",
			req: types.CreateContentRequest{
				Title:      "Azonto moves",
				Type:       string(content.TypeVideo),
				Categories: []string{string(content.CategoryDance)},
			},
			field: "externalUrl",
		},
		{
			name: "视频外链不受支持",
			req: types.CreateContentRequest{
				Title:       "Azonto moves",
				Type:        string(content.TypeVideo),
				Categories:  []string{string(content.CategoryDance)},
				ExternalURL: "https://example.com/video.mp4",
			},
			field: "externalUrl",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(e.ctx, artist, tt.req)
			require.ErrorIs(t, err, service.ErrValidation)

			var verr *service.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tt.field)
		})
	}

	c, err := svc.Create(e.ctx, artist, types.CreateContentRequest{
		Title:       "Azonto moves",
		Type:        string(content.TypeVideo),
		Categories:  []string{string(content.CategoryDance)},
		ExternalURL: "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
	})
	require.NoError(t, err)
	assert.Equal(t, content.TypeVideo, c.Type)
}

// TestGetContentVisibility 测试草稿仅作者与审核员可见.
func TestGetContentVisibility(t *testing.T) {
	e := newEnv(t)
	owner := e.register(t, "owner@example.com")
	other := e.register(t, "other@example.com")
	mod := e.register(t, "mod@example.com", rbac.RoleContentModerator)
	svc := service.NewContentService(e.ctx)

	draft, err := svc.Create(e.ctx, owner, createReq("Palm wine music"))
	require.NoError(t, err)

	_, err = svc.Get(e.ctx, owner, draft.ID)
	require.NoError(t, err)

	_, err = svc.Get(e.ctx, mod, draft.ID)
	require.NoError(t, err)

	_, err = svc.Get(e.ctx, other, draft.ID)
	require.ErrorIs(t, err, rbac.ErrForbidden)

	_, err = svc.Get(e.ctx, nil, draft.ID)
	require.ErrorIs(t, err, rbac.ErrForbidden)

	_, err = svc.Get(e.ctx, owner, "missing")
	require.ErrorIs(t, err, service.ErrNotFound)

	published := publishAs(t, e, owner, createReq("Adinkra symbols"))

	got, err := svc.Get(e.ctx, nil, published.ID)
	require.NoError(t, err)
	assert.Equal(t, published.ID, got.ID)
}

// TestUpdateDeleteContent 测试作者与持权用户的修改、删除.
func TestUpdateDeleteContent(t *testing.T) {
	e := newEnv(t)
	owner := e.register(t, "owner@example.com")
	other := e.register(t, "other@example.com")
	mod := e.register(t, "mod@example.com", rbac.RoleContentModerator)
	svc := service.NewContentService(e.ctx)

	c, err := svc.Create(e.ctx, owner, createReq("Talking drums"))
	require.NoError(t, err)

	title := "Talking drums of Ashanti"
	tags := []string{"Fontomfrom", "drums"}

	updated, err := svc.Update(e.ctx, owner, c.ID, types.UpdateContentRequest{Title: &title, Tags: &tags})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)
	assert.Equal(t, []string{"fontomfrom", "drums"}, updated.Tags)
	assert.Equal(t, c.Slug, updated.Slug, "slug 不随标题变化")

	_, err = svc.Update(e.ctx, other, c.ID, types.UpdateContentRequest{Title: &title})
	require.ErrorIs(t, err, rbac.ErrForbidden)

	desc := "Edited by moderator"
	_, err = svc.Update(e.ctx, mod, c.ID, types.UpdateContentRequest{Description: &desc})
	require.NoError(t, err)

	require.ErrorIs(t, svc.Delete(e.ctx, other, c.ID), rbac.ErrForbidden)
	require.NoError(t, svc.Delete(e.ctx, mod, c.ID))

	_, err = svc.Get(e.ctx, owner, c.ID)
	require.ErrorIs(t, err, service.ErrNotFound)

	var n int64
	require.NoError(t, e.db().Unscoped().Model(&model.Content{}).Where("id = ?", c.ID).Count(&n).Error)
	assert.Equal(t, int64(1), n, "软删除保留记录")

	var logs int64
	require.NoError(t, e.db().Model(&model.AuditLog{}).
		Where("action IN ?", []string{model.AuditContentUpdated, model.AuditContentDeleted}).
		Count(&logs).Error)
	assert.Equal(t, int64(3), logs)
}

// TestListContent 测试已发布列表的过滤与分页.
func TestListContent(t *testing.T) {
	e := newEnv(t)
	owner := e.register(t, "owner@example.com")
	svc := service.NewContentService(e.ctx)

	publishAs(t, e, owner, createReq("Highlife classics"))
	publishAs(t, e, owner, createReq("Kente weaving", string(content.CategoryCrafts)))
	publishAs(t, e, owner, createReq("Adowa rehearsal", string(content.CategoryDance), string(content.CategoryMusic)))

	_, err := svc.Create(e.ctx, owner, createReq("Unpublished draft"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		query types.ListContentQuery
		total int64
	}{
		{name: "全部已发布", total: 3},
		{name: "按类别", query: types.ListContentQuery{Category: string(content.CategoryMusic)}, total: 2},
		{name: "按类型", query: types.ListContentQuery{Type: string(content.TypeImage)}, total: 0},
		{name: "标题关键字", query: types.ListContentQuery{Search: "KENTE"}, total: 1},
		{name: "标签关键字", query: types.ListContentQuery{Search: "guitar"}, total: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := svc.List(e.ctx, tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.total, page.Total)

			for _, c := range page.Items {
				assert.Equal(t, content.StatusPublished, c.Status)
			}
		})
	}

	page, err := svc.List(e.ctx, types.ListContentQuery{Pagination: types.Pagination{Page: 2, PerPage: 2}})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, 2, page.TotalPages)

	_, err = svc.List(e.ctx, types.ListContentQuery{Category: "UNKNOWN"})
	require.ErrorIs(t, err, service.ErrValidation)

	mine, err := svc.ListMine(e.ctx, owner, types.Pagination{})
	require.NoError(t, err)
	assert.Equal(t, int64(4), mine.Total)
	assert.Equal(t, "Unpublished draft", mine.Items[0].Title)
}

// TestLiveContent 测试直播列表只含已发布的 LIVE_STREAM，最新在前.
func TestLiveContent(t *testing.T) {
	e := newEnv(t)
	owner := e.register(t, "owner@example.com")
	svc := service.NewContentService(e.ctx)

	live := func(title string) types.CreateContentRequest {
		req := createReq(title)
		req.Type = string(content.TypeLiveStream)

		return req
	}

	older := publishAs(t, e, owner, live("Friday night session"))
	newer := publishAs(t, e, owner, live("Sunday worship live"))
	publishAs(t, e, owner, createReq("Highlife classics"))

	_, err := svc.Create(e.ctx, owner, live("Rehearsal stream"))
	require.NoError(t, err)

	require.NoError(t, e.db().Model(&model.Content{}).Where("id = ?", older.ID).
		UpdateColumn("created_at", time.Now().Add(-time.Hour)).Error)

	page, err := svc.Live(e.ctx, types.Pagination{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	require.Len(t, page.Items, 2)
	assert.Equal(t, newer.ID, page.Items[0].ID)
	assert.Equal(t, older.ID, page.Items[1].ID)

	_, err = svc.Live(e.ctx, types.Pagination{PerPage: 1000})
	require.ErrorIs(t, err, service.ErrValidation)
}

// TestPublishContent 测试发布的三条路径.
func TestPublishContent(t *testing.T) {
	e := newEnv(t)
	owner := e.register(t, "owner@example.com")
	svc := service.NewContentService(e.ctx)

	t.Run("持权直接发布", func(t *testing.T) {
		c, err := svc.Create(e.ctx, owner, createReq("Gome rhythms"))
		require.NoError(t, err)

		res, err := svc.Publish(e.ctx, grant(owner.UserID, rbac.ContentPublish), c.ID)
		require.NoError(t, err)
		assert.Nil(t, res.Decision)
		assert.Equal(t, content.StatusPublished, res.Content.Status)
		assert.NotNil(t, res.Content.PublishedAt)

		_, err = svc.Publish(e.ctx, owner, c.ID)
		assert.ErrorIs(t, err, service.ErrConflict)
	})

	t.Run("自动审核后待复核", func(t *testing.T) {
		c, err := svc.Create(e.ctx, owner, createReq("Adowa dance tutorial"))
		require.NoError(t, err)

		res, err := svc.Publish(e.ctx, owner, c.ID)
		require.NoError(t, err)
		require.NotNil(t, res.Decision)
		assert.Equal(t, moderation.ActionApprove, res.Decision.Action)
		assert.Equal(t, content.StatusPendingReview, res.Content.Status)
		assert.Nil(t, res.Content.PublishedAt)

		_, err = svc.Publish(e.ctx, owner, c.ID)
		assert.ErrorIs(t, err, service.ErrConflict)
	})

	t.Run("自动审核拒绝", func(t *testing.T) {
		c, err := svc.Create(e.ctx, owner, createReq("shit click here!!!!!"))
		require.NoError(t, err)

		res, err := svc.Publish(e.ctx, owner, c.ID)
		require.NoError(t, err)
		assert.Equal(t, moderation.ActionReject, res.Decision.Action)
		assert.Equal(t, content.StatusRejected, res.Content.Status)
		assert.Equal(t, 70, res.Content.ModerationScore)

		var stored model.Content
		require.NoError(t, e.db().First(&stored, "id = ?", c.ID).Error)
		assert.Equal(t, string(moderation.ActionReject), stored.ModerationAction)
		assert.Len(t, stored.ModerationReasons, 2)
	})

	t.Run("非作者不能发布", func(t *testing.T) {
		other := e.register(t, "other@example.com")

		c, err := svc.Create(e.ctx, owner, createReq("Ewe kente"))
		require.NoError(t, err)

		_, err = svc.Publish(e.ctx, grant(other.UserID, rbac.ContentPublish), c.ID)
		assert.ErrorIs(t, err, rbac.ErrForbidden)
	})
}

// TestRecordView 测试浏览计数只作用于已发布内容.
func TestRecordView(t *testing.T) {
	e := newEnv(t)
	owner := e.register(t, "owner@example.com")
	svc := service.NewContentService(e.ctx)

	c := publishAs(t, e, owner, createReq("Fontomfrom"))

	for i := 1; i <= 3; i++ {
		views, err := svc.RecordView(e.ctx, nil, c.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(i), views)
	}

	draft, err := svc.Create(e.ctx, owner, createReq("Draft only"))
	require.NoError(t, err)

	_, err = svc.RecordView(e.ctx, owner, draft.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)
}
