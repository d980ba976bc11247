package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sloopymg1/ghana-creative-platform/pkg/internal/service"
	"github.com/sloopymg1/ghana-creative-platform/pkg/internal/types"
	"github.com/sloopymg1/ghana-creative-platform/pkg/recommend"
	"github.com/sloopymg1/ghana-creative-platform/pkg/rule"
)

// recommendQuery 解析并校验 limit 与 timeframe.
func recommendQuery(c *gin.Context) (types.RecommendQuery, bool) {
	var q types.RecommendQuery
	if !bindQuery(c, &q) {
		return q, false
	}

	if err := rule.ValidateStruct(&q); err != nil {
		respondError(c, &service.ValidationError{Fields: rule.Errors(err)})
		return q, false
	}

	return q, true
}

// Moderate 对标题与描述做自动审核打分，不落库.
//
//	@Summary		自动审核
//	@Tags			AI
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			body	body		types.ModerateRequest	true	"待检测文本"
//	@Success		200		{object}	moderation.Decision
//	@Failure		400		{object}	types.ErrorResponse
//	@Router			/api/v1/ai/moderate [post]
func Moderate(c *gin.Context) {
	var req types.ModerateRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()

	d, err := service.NewModerationService(ctx).Check(ctx, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, d)
}

// SuggestTags 根据标题、描述、类别与类型推荐标签.
//
//	@Summary		标签推荐
//	@Tags			AI
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			body	body		types.SuggestTagsRequest	true	"内容信息"
//	@Success		200		{object}	map[string][]tagging.Suggestion
//	@Failure		400		{object}	types.ErrorResponse
//	@Router			/api/v1/ai/suggest-tags [post]
func SuggestTags(c *gin.Context) {
	var req types.SuggestTagsRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()

	tags, err := service.NewTaggingService(ctx).Suggest(ctx, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"suggestions": tags})
}

// Sentiment 文本情感分析.
//
//	@Summary		情感分析
//	@Tags			AI
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			body	body		types.SentimentRequest	true	"文本"
//	@Success		200		{object}	tagging.SentimentResult
//	@Failure		400		{object}	types.ErrorResponse
//	@Router			/api/v1/ai/sentiment [post]
func Sentiment(c *gin.Context) {
	var req types.SentimentRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()

	res, err := service.NewTaggingService(ctx).Sentiment(ctx, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// Similar 与指定内容相似的已发布内容.
//
//	@Summary		相似内容
//	@Tags			AI
//	@Produce		json
//	@Param			id		path		string	true	"内容 ID"
//	@Param			limit	query		int		false	"返回条数"
//	@Success		200		{object}	map[string][]recommend.Scored
//	@Router			/api/v1/ai/similar/{id} [get]
func Similar(c *gin.Context) {
	q, ok := recommendQuery(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()

	items, err := service.NewRecommendService(ctx).Similar(ctx, c.Param("id"), q.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": items})
}

// Recommendations 登录用户返回个性化推荐，匿名用户返回热门内容.
//
//	@Summary		推荐
//	@Tags			AI
//	@Produce		json
//	@Param			limit	query		int	false	"返回条数"
//	@Success		200		{object}	map[string]any
//	@Router			/api/v1/ai/recommendations [get]
func Recommendations(c *gin.Context) {
	q, ok := recommendQuery(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	svc := service.NewRecommendService(ctx)
	sub := subject(c)

	var (
		items any
		err   error
	)

	if sub != nil {
		items, err = svc.ForUser(ctx, sub.UserID, q.Limit)
	} else {
		items, err = svc.Popular(ctx, q.Limit)
	}

	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": items, "personalized": sub != nil})
}

// Trending 窗口内的热门内容，timeframe 取 day、week 或 month，默认 week.
//
//	@Summary		热门趋势
//	@Tags			AI
//	@Produce		json
//	@Param			timeframe	query		string	false	"day | week | month"
//	@Param			limit		query		int		false	"返回条数"
//	@Success		200			{object}	map[string]any
//	@Failure		400			{object}	types.ErrorResponse
//	@Router			/api/v1/ai/trending [get]
func Trending(c *gin.Context) {
	q, ok := recommendQuery(c)
	if !ok {
		return
	}

	tf := recommend.ParseTimeframe(q.Timeframe)
	ctx := c.Request.Context()

	items, err := service.NewRecommendService(ctx).Trending(ctx, tf, q.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": items, "timeframe": tf})
}
