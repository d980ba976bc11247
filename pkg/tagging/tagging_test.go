package tagging_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sloopymg1/ghana-creative-platform/pkg/content"
	"github.com/sloopymg1/ghana-creative-platform/pkg/tagging"
)

func tags(s []tagging.Suggestion) []string {
	out := make([]string, len(s))
	for i, x := range s {
		out[i] = x.Tag
	}

	return out
}

// TestSuggestTags 测试典型输入的完整输出.
func TestSuggestTags(t *testing.T) {
	got := tagging.SuggestTags(tagging.Input{
		Title:      "Amazing Ghanaian Music Video",
		Categories: []content.Category{content.CategoryMusic},
		Type:       content.TypeVideo,
	})

	require.Len(t, got, tagging.MaxSuggestions)
	assert.Equal(t, []string{
		"amazing", "ghanaian", "music", "video",
		"audio", "sound", "melody", "rhythm", "song",
		"watch",
	}, tags(got))

	assert.Equal(t, tagging.CategoryConfidence, got[4].Confidence)
	assert.Equal(t, "Related to MUSIC category", got[4].Reason)
	assert.Equal(t, tagging.TypeConfidence, got[9].Confidence)
	assert.Equal(t, "Related to VIDEO content", got[9].Reason)

	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Confidence, got[i].Confidence)
	}
}

// TestSuggestTagsDedup 测试标签去重且保留最高来源.
func TestSuggestTagsDedup(t *testing.T) {
	got := tagging.SuggestTags(tagging.Input{
		Title:      "Sound check",
		Categories: []content.Category{content.CategoryMusic, content.CategoryOther},
		Type:       content.TypeAudio,
	})

	assert.Equal(t, []string{
		"sound", "check",
		"audio", "melody", "rhythm", "song", "track",
		"listen", "hear",
	}, tags(got))
	assert.Equal(t, tagging.KeywordConfidence, got[0].Confidence)
	assert.Equal(t, "Extracted from content", got[0].Reason)
}

// TestSuggestTagsEmpty 测试没有任何来源.
func TestSuggestTagsEmpty(t *testing.T) {
	assert.Empty(t, tagging.SuggestTags(tagging.Input{Title: "art"}))
}

// TestExtractKeywords 测试关键词提取.
func TestExtractKeywords(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{name: "频次排序", text: "Kente kente weaving in Bonwire, the kente capital!", want: []string{"kente", "weaving", "bonwire", "capital"}},
		{name: "短词丢弃", text: "art fun day", want: nil},
		{name: "保留连字符", text: "call-and-response drumming", want: []string{"call-and-response", "drumming"}},
		{name: "停用词", text: "those these would should", want: nil},
		{
			name: "最多五个",
			text: "alpha bravo charlie delta echo foxtrot golf",
			want: []string{"alpha", "bravo", "charlie", "delta", "echo"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tagging.ExtractKeywords(tt.text)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}

			assert.Equal(t, tt.want, got)
		})
	}
}

// TestAnalyzeSentiment 测试情感分析.
func TestAnalyzeSentiment(t *testing.T) {
	tests := []struct {
		name string
		text string
		want tagging.Sentiment
		sc   float64
	}{
		{name: "正面", text: "I love this, it is amazing and beautiful", want: tagging.Positive, sc: 0.3},
		{name: "边界中性", text: "bad and boring", want: tagging.Neutral, sc: -0.2},
		{name: "负面", text: "terrible, awful, horrible", want: tagging.Negative, sc: -0.3},
		{name: "空文本", text: "", want: tagging.Neutral, sc: 0},
		{name: "封顶", text: strings.Repeat("good ", 15), want: tagging.Positive, sc: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := tagging.AnalyzeSentiment(tt.text)
			assert.Equal(t, tt.want, res.Sentiment)
			assert.InDelta(t, tt.sc, res.Score, 0.0001)
		})
	}
}
