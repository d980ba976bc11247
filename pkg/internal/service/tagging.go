package service

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/sloopymg1/ghana-creative-platform/pkg/content"
	"github.com/sloopymg1/ghana-creative-platform/pkg/internal/types"
	"github.com/sloopymg1/ghana-creative-platform/pkg/tagging"
	"github.com/sloopymg1/ghana-creative-platform/pkg/tracing"
)

// TaggingService 标签建议与情感分析.
type TaggingService struct{}

func NewTaggingService(context.Context) *TaggingService { return &TaggingService{} }

// Suggest 为内容生成标签建议.
func (s *TaggingService) Suggest(ctx context.Context, req types.SuggestTagsRequest) ([]tagging.Suggestion, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	_, span := tracing.StartSpan(ctx, "tagging.Suggest")
	defer span.End()

	out := tagging.SuggestTags(tagging.Input{
		Title:       req.Title,
		Description: req.Description,
		Categories:  toCategories(req.Categories),
		Type:        content.Type(req.Type),
	})
	span.SetAttributes(attribute.Int("tagging.suggestions", len(out)))

	return out, nil
}

// Sentiment 分析文本情感倾向.
func (s *TaggingService) Sentiment(ctx context.Context, req types.SentimentRequest) (tagging.SentimentResult, error) {
	if err := validate(req); err != nil {
		return tagging.SentimentResult{}, err
	}

	_, span := tracing.StartSpan(ctx, "tagging.Sentiment")
	defer span.End()

	res := tagging.AnalyzeSentiment(req.Text)
	span.SetAttributes(
		attribute.String("sentiment", string(res.Sentiment)),
		attribute.Float64("sentiment.score", res.Score),
	)

	return res, nil
}
