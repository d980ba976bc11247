package recommend_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sloopymg1/ghana-creative-platform/pkg/content"
	"github.com/sloopymg1/ghana-creative-platform/pkg/recommend"
)

var now = time.Date(2026, 3, 6, 12, 0, 0, 0, time.UTC)

func item(id, owner string, typ content.Type, views int64, cats []content.Category, tags ...string) content.Item {
	return content.Item{
		ID:         id,
		Title:      id,
		Type:       typ,
		Categories: cats,
		Tags:       tags,
		OwnerID:    owner,
		ViewCount:  views,
		CreatedAt:  now.Add(-time.Hour),
		Status:     content.StatusPublished,
	}
}

func itemIDs(items []content.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}

	return out
}

func scoredIDs(items []recommend.Scored) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}

	return out
}

var music = []content.Category{content.CategoryMusic}

// TestScore 测试相似度公式.
func TestScore(t *testing.T) {
	a := item("a", "u1", content.TypeVideo, 0,
		[]content.Category{content.CategoryMusic, content.CategoryDance}, "afrobeats", "highlife", "accra")

	tests := []struct {
		name string
		b    content.Item
		want int
	}{
		{name: "完全相同", b: a, want: 3*2 + 2*3 + 5 + 4},
		{name: "只有类别", b: item("b", "u2", content.TypeAudio, 0, music), want: 3},
		{name: "只有标签", b: item("b", "u2", content.TypeAudio, 0, nil, "accra"), want: 2},
		{name: "类型与作者", b: item("b", "u1", content.TypeVideo, 0, nil), want: 9},
		{name: "无交集", b: item("b", "u2", content.TypeImage, 0, nil, "kente"), want: 0},
		{name: "重复标签只计一次", b: item("b", "u2", content.TypeAudio, 0, nil, "accra", "accra"), want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, recommend.Score(a, tt.b))
		})
	}
}

// TestSimilar 测试相似内容的过滤与排序.
func TestSimilar(t *testing.T) {
	source := item("src", "owner", content.TypeVideo, 0, music, "afrobeats")
	x := item("x", "other", content.TypeAudio, 500, music)
	y := item("y", "other", content.TypeVideo, 10, nil, "afrobeats")

	got := recommend.Similar(source, []content.Item{x, y, source}, 10)

	require.Len(t, got, 2)
	assert.Equal(t, []string{"y", "x"}, scoredIDs(got))
	assert.Equal(t, 7, got[0].SimilarityScore)
	assert.Equal(t, 3, got[1].SimilarityScore)
}

// TestSimilarFiltering 测试 OR 预过滤和同分顺序.
func TestSimilarFiltering(t *testing.T) {
	source := item("src", "owner", content.TypeVideo, 0, music, "afrobeats")

	unrelated := item("none", "other", content.TypeImage, 9999, nil, "kente")
	draft := item("draft", "other", content.TypeVideo, 9999, music)
	draft.Status = content.StatusDraft

	low := item("low", "other", content.TypeAudio, 5, music)
	high := item("high", "other", content.TypeAudio, 50, music)
	older := item("older", "other", content.TypeAudio, 50, music)
	older.CreatedAt = now.Add(-48 * time.Hour)

	got := recommend.Similar(source, []content.Item{low, unrelated, older, draft, high}, 10)

	assert.Equal(t, []string{"high", "older", "low"}, scoredIDs(got))
	assert.NotContains(t, scoredIDs(got), "src")
}

// TestSimilarLimit 测试截断.
func TestSimilarLimit(t *testing.T) {
	source := item("src", "owner", content.TypeVideo, 0, music)

	var candidates []content.Item
	for i := range 15 {
		candidates = append(candidates, item(string(rune('a'+i)), "o", content.TypeVideo, int64(i), nil))
	}

	assert.Len(t, recommend.Similar(source, candidates, 3), 3)
	assert.Len(t, recommend.Similar(source, candidates, 0), recommend.DefaultLimit)
	assert.Empty(t, recommend.Similar(source, nil, 5))
}

// TestBuildProfile 测试偏好提取.
func TestBuildProfile(t *testing.T) {
	own := []content.Item{
		item("1", "me", content.TypeAudio, 0, []content.Category{content.CategoryFilm}, "t1", "t2"),
		item("2", "me", content.TypeVideo, 0, []content.Category{content.CategoryMusic}, "t2", "t3", "t4", "t5", "t6", "t7"),
		item("3", "me", content.TypeVideo, 0, []content.Category{content.CategoryMusic}, "t2"),
	}

	p := recommend.BuildProfile(own)

	assert.Equal(t, []content.Category{content.CategoryMusic, content.CategoryFilm}, p.Categories)
	assert.Equal(t, []string{"t2", "t1", "t3", "t4", "t5"}, p.Tags)
	assert.Equal(t, []content.Type{content.TypeVideo, content.TypeAudio}, p.Types)
	assert.False(t, p.Empty())
	assert.True(t, recommend.BuildProfile(nil).Empty())
}

// TestPersonalized 测试个性化推荐.
func TestPersonalized(t *testing.T) {
	mine := item("mine", "me", content.TypeAudio, 1000, music, "highlife")
	p := recommend.BuildProfile([]content.Item{mine})

	a := item("a", "u2", content.TypeImage, 10, music)
	b := item("b", "u3", content.TypeImage, 20, nil, "highlife")
	c := item("c", "u4", content.TypeAudio, 30, nil)
	d := item("d", "u5", content.TypeImage, 99, nil, "kente")

	got := recommend.Personalized("me", p, []content.Item{mine, a, b, c, d}, 10)
	assert.Equal(t, []string{"c", "b", "a"}, itemIDs(got))

	assert.Empty(t, recommend.Personalized("me", recommend.Profile{}, []content.Item{a, b, c, d}, 10))
}

// TestPopular 测试热门回退.
func TestPopular(t *testing.T) {
	a := item("a", "u", content.TypeImage, 10, nil)
	b := item("b", "u", content.TypeImage, 30, nil)
	c := item("c", "u", content.TypeImage, 30, nil)
	c.CreatedAt = now
	draft := item("draft", "u", content.TypeImage, 100, nil)
	draft.Status = content.StatusPendingReview

	assert.Equal(t, []string{"c", "b", "a"}, itemIDs(recommend.Popular([]content.Item{a, b, c, draft}, 10)))
	assert.Equal(t, []string{"c"}, itemIDs(recommend.Popular([]content.Item{a, b, c}, 1)))
}

// TestTrendingScore 测试热度公式.
func TestTrendingScore(t *testing.T) {
	assert.InDelta(t, 100.0, recommend.TrendingScore(100, now, now), 0.001)
	assert.InDelta(t, 10.0, recommend.TrendingScore(100, now.Add(-9*24*time.Hour), now), 0.001)
	assert.InDelta(t, 66.67, recommend.TrendingScore(100, now.Add(-12*time.Hour), now), 0.001)
	assert.Zero(t, recommend.TrendingScore(0, now.Add(-time.Hour), now))
}

// TestTrending 测试窗口过滤且保持浏览量顺序.
func TestTrending(t *testing.T) {
	fresh := item("fresh", "u", content.TypeVideo, 50, nil)
	fresh.CreatedAt = now

	old := item("old", "u", content.TypeVideo, 100, nil)
	old.CreatedAt = now.Add(-6 * 24 * time.Hour)

	ancient := item("ancient", "u", content.TypeVideo, 10000, nil)
	ancient.CreatedAt = now.Add(-40 * 24 * time.Hour)

	got := recommend.Trending([]content.Item{fresh, old, ancient}, recommend.Week, now, 10)

	require.Len(t, got, 2)
	assert.Equal(t, "old", got[0].ID)
	assert.Equal(t, "fresh", got[1].ID)
	assert.InDelta(t, 14.29, got[0].TrendingScore, 0.001)
	assert.InDelta(t, 50.0, got[1].TrendingScore, 0.001)

	assert.Len(t, recommend.Trending([]content.Item{fresh, old, ancient}, recommend.Month, now, 10), 2)
	assert.Len(t, recommend.Trending([]content.Item{fresh, old, ancient}, recommend.Day, now, 10), 1)
}

// TestParseTimeframe 测试窗口解析.
func TestParseTimeframe(t *testing.T) {
	tests := []struct {
		in   string
		want recommend.Timeframe
		days int
	}{
		{in: "day", want: recommend.Day, days: 1},
		{in: "WEEK", want: recommend.Week, days: 7},
		{in: "month", want: recommend.Month, days: 30},
		{in: "year", want: recommend.Week, days: 7},
		{in: "", want: recommend.Week, days: 7},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			tf := recommend.ParseTimeframe(tt.in)
			assert.Equal(t, tt.want, tf)
			assert.Equal(t, tt.days, tf.Days())
		})
	}
}

// TestSimilarScoresWholePool 测试先打分再截断，浏览量低但更相近的内容优先.
func TestSimilarScoresWholePool(t *testing.T) {
	source := item("src", "owner", content.TypeVideo, 0, music, "afrobeats", "accra")
	popular := item("popular", "other", content.TypeAudio, 9000, music)
	near := item("near", "other", content.TypeVideo, 3, music, "afrobeats", "accra")

	got := recommend.Similar(source, []content.Item{popular, near}, 1)

	require.Len(t, got, 1)
	assert.Equal(t, "near", got[0].ID)
	assert.Equal(t, 3+2*2+5, got[0].SimilarityScore)
}
