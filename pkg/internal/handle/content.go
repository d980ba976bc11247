package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sloopymg1/ghana-creative-platform/pkg/internal/service"
	"github.com/sloopymg1/ghana-creative-platform/pkg/internal/types"
)

// CreateContent 创建草稿.
//
//	@Summary		创建内容
//	@Tags			内容
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			body	body		types.CreateContentRequest	true	"内容信息"
//	@Success		201		{object}	model.Content
//	@Failure		400		{object}	types.ErrorResponse
//	@Failure		403		{object}	types.ErrorResponse
//	@Router			/api/v1/content [post]
func CreateContent(c *gin.Context) {
	var req types.CreateContentRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()

	item, err := service.NewContentService(ctx).Create(ctx, subject(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, item)
}

// ListContent 已发布内容列表.
//
//	@Summary		内容列表
//	@Tags			内容
//	@Produce		json
//	@Param			page		query		int		false	"页码"
//	@Param			limit		query		int		false	"每页条数"
//	@Param			type		query		string	false	"内容类型"
//	@Param			category	query		string	false	"类别"
//	@Param			search		query		string	false	"标题、描述或标签关键字"
//	@Success		200			{object}	types.Page[model.Content]
//	@Failure		400			{object}	types.ErrorResponse
//	@Router			/api/v1/content [get]
func ListContent(c *gin.Context) {
	var q types.ListContentQuery
	if !bindQuery(c, &q) {
		return
	}

	ctx := c.Request.Context()

	page, err := service.NewContentService(ctx).List(ctx, q)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// ListLive 已发布的直播内容.
//
//	@Summary		直播列表
//	@Tags			内容
//	@Produce		json
//	@Param			page	query		int	false	"页码"
//	@Param			limit	query		int	false	"每页条数"
//	@Success		200		{object}	types.Page[model.Content]
//	@Router			/api/v1/content/live [get]
func ListLive(c *gin.Context) {
	var p types.Pagination
	if !bindQuery(c, &p) {
		return
	}

	ctx := c.Request.Context()

	page, err := service.NewContentService(ctx).Live(ctx, p)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// ListMyContent 当前用户的全部内容.
//
//	@Summary		我的内容
//	@Tags			内容
//	@Produce		json
//	@Security		BearerAuth
//	@Param			page	query		int	false	"页码"
//	@Param			limit	query		int	false	"每页条数"
//	@Success		200		{object}	types.Page[model.Content]
//	@Router			/api/v1/content/my [get]
func ListMyContent(c *gin.Context) {
	var p types.Pagination
	if !bindQuery(c, &p) {
		return
	}

	ctx := c.Request.Context()

	page, err := service.NewContentService(ctx).ListMine(ctx, subject(c), p)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// GetContent 内容详情，未发布内容仅作者与审核员可见.
//
//	@Summary		内容详情
//	@Tags			内容
//	@Produce		json
//	@Param			id	path		string	true	"内容 ID"
//	@Success		200	{object}	model.Content
//	@Failure		404	{object}	types.ErrorResponse
//	@Router			/api/v1/content/{id} [get]
func GetContent(c *gin.Context) {
	ctx := c.Request.Context()

	item, err := service.NewContentService(ctx).Get(ctx, subject(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

// UpdateContent 部分更新内容.
//
//	@Summary		更新内容
//	@Tags			内容
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string						true	"内容 ID"
//	@Param			body	body		types.UpdateContentRequest	true	"需要修改的字段"
//	@Success		200		{object}	model.Content
//	@Failure		403		{object}	types.ErrorResponse
//	@Failure		404		{object}	types.ErrorResponse
//	@Router			/api/v1/content/{id} [put]
func UpdateContent(c *gin.Context) {
	var req types.UpdateContentRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()

	item, err := service.NewContentService(ctx).Update(ctx, subject(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

// DeleteContent 软删除内容.
//
//	@Summary		删除内容
//	@Tags			内容
//	@Security		BearerAuth
//	@Param			id	path	string	true	"内容 ID"
//	@Success		204
//	@Failure		403	{object}	types.ErrorResponse
//	@Failure		404	{object}	types.ErrorResponse
//	@Router			/api/v1/content/{id} [delete]
func DeleteContent(c *gin.Context) {
	ctx := c.Request.Context()

	if err := service.NewContentService(ctx).Delete(ctx, subject(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// PublishContent 提交发布，经过自动审核后直接发布、进入人工审核或被拒绝.
//
//	@Summary		发布内容
//	@Tags			内容
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string	true	"内容 ID"
//	@Success		200	{object}	service.PublishResult
//	@Failure		403	{object}	types.ErrorResponse
//	@Failure		409	{object}	types.ErrorResponse	"当前状态不可发布"
//	@Router			/api/v1/content/{id}/publish [post]
func PublishContent(c *gin.Context) {
	ctx := c.Request.Context()

	res, err := service.NewContentService(ctx).Publish(ctx, subject(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// RecordView 记录一次浏览.
//
//	@Summary		记录浏览
//	@Tags			内容
//	@Produce		json
//	@Param			id	path		string	true	"内容 ID"
//	@Success		200	{object}	map[string]int64
//	@Failure		404	{object}	types.ErrorResponse
//	@Router			/api/v1/content/{id}/view [post]
func RecordView(c *gin.Context) {
	ctx := c.Request.Context()

	views, err := service.NewContentService(ctx).RecordView(ctx, subject(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"viewCount": views})
}

// ModerationQueue 待审核内容，最早提交的在前.
//
//	@Summary		审核队列
//	@Tags			审核
//	@Produce		json
//	@Security		BearerAuth
//	@Param			page	query		int	false	"页码"
//	@Param			limit	query		int	false	"每页条数"
//	@Success		200		{object}	types.Page[model.Content]
//	@Failure		403		{object}	types.ErrorResponse
//	@Router			/api/v1/content/moderation/queue [get]
func ModerationQueue(c *gin.Context) {
	var p types.Pagination
	if !bindQuery(c, &p) {
		return
	}

	ctx := c.Request.Context()

	page, err := service.NewModerationService(ctx).Queue(ctx, subject(c), p)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// ReviewContent 审核员通过或拒绝内容.
//
//	@Summary		审核内容
//	@Tags			审核
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			body	body		types.ReviewRequest	true	"审核结果"
//	@Success		200		{object}	model.Content
//	@Failure		403		{object}	types.ErrorResponse
//	@Failure		409		{object}	types.ErrorResponse	"内容不在待审核状态"
//	@Router			/api/v1/content/moderation/review [post]
func ReviewContent(c *gin.Context) {
	var req types.ReviewRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()

	item, err := service.NewModerationService(ctx).Review(ctx, subject(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}
