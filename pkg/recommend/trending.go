package recommend

import (
	"math"
	"strings"
	"time"

	"github.com/sloopymg1/ghana-creative-platform/pkg/content"
)

// Timeframe 热度统计窗口.
type Timeframe string

const (
	Day   Timeframe = "day"
	Week  Timeframe = "week"
	Month Timeframe = "month"
)

// Days 窗口对应的天数.
func (t Timeframe) Days() int {
	switch t {
	case Day:
		return 1
	case Month:
		return 30
	default:
		return 7
	}
}

// ParseTimeframe 解析窗口名，未知值回落到 week.
func ParseTimeframe(s string) Timeframe {
	switch tf := Timeframe(strings.ToLower(strings.TrimSpace(s))); tf {
	case Day, Week, Month:
		return tf
	default:
		return Week
	}
}

// Trend 带热度分数的内容.
type Trend struct {
	content.Item
	TrendingScore float64 `json:"trendingScore"`
}

// TrendingScore 浏览量除以 (天龄 + 1)，天龄为实数，结果保留两位小数.
func TrendingScore(views int64, createdAt, now time.Time) float64 {
	age := now.Sub(createdAt).Hours() / 24

	return math.Round(float64(views)/(age+1)*100) / 100
}

// Trending 取窗口内已发布的内容，按浏览量、创建时间降序截断后附上热度分数。
//
// 结果保持浏览量排序，不按热度分数重排.
// TODO: 改为按 TrendingScore 排序，需同时更新 /ai/trending 的客户端约定.
func Trending(candidates []content.Item, tf Timeframe, now time.Time, limit int) []Trend {
	since := now.Add(-time.Duration(tf.Days()) * 24 * time.Hour)

	pool := filter(candidates, func(it content.Item) bool {
		return it.IsPublished() && !it.CreatedAt.Before(since)
	})
	sortByPopularity(pool)
	pool = truncate(pool, limit)

	out := make([]Trend, len(pool))
	for i, it := range pool {
		out[i] = Trend{Item: it, TrendingScore: TrendingScore(it.ViewCount, it.CreatedAt, now)}
	}

	return out
}
