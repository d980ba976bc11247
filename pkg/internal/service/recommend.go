package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/sloopymg1/ghana-creative-platform/pkg/cache"
	"github.com/sloopymg1/ghana-creative-platform/pkg/content"
	"github.com/sloopymg1/ghana-creative-platform/pkg/internal/model"
	"github.com/sloopymg1/ghana-creative-platform/pkg/metrics"
	"github.com/sloopymg1/ghana-creative-platform/pkg/recommend"
)

const recommendNamespace = "recommend"

// RecommendService 从数据库取候选集合，交给 pkg/recommend 排序，结果缓存在 KV 中.
type RecommendService struct {
	base
	cache *cache.Cache
	now   func() time.Time
}

func NewRecommendService(c context.Context) *RecommendService {
	s := &RecommendService{base: newBase(c), now: time.Now}
	if s.kvClient != nil && s.cfg.Recommend.CacheEnabled {
		s.cache = cache.NewCache(s.kvClient, recommendNamespace)
	}

	return s
}

// limit 不为正时取默认值，并限制上限.
func (s *RecommendService) limit(n int) int {
	rc := s.cfg.Recommend
	if n <= 0 {
		n = recommend.DefaultLimit
		if rc.DefaultLimit > 0 {
			n = rc.DefaultLimit
		}
	}

	if rc.MaxLimit > 0 {
		n = min(n, rc.MaxLimit)
	}

	return n
}

// cached 读缓存，未命中时执行 fn 并写回；缓存未启用时直接执行.
func cached[T any](ctx context.Context, s *RecommendService, kind, key string, fn func() (T, error)) (T, error) {
	if s.cache == nil {
		return fn()
	}

	v, hit, err := cache.GetOrSet(ctx, s.cache, key, fn, s.cfg.Recommend.CacheTTL)

	result := "miss"
	if hit {
		result = "hit"
	}

	metrics.RecommendCache.WithLabelValues(kind, result).Inc()

	return v, err
}

// candidates 已发布内容，按浏览量与创建时间降序取候选上限条.
func (s *RecommendService) candidates(ctx context.Context, since *time.Time) ([]content.Item, error) {
	q := s.db(ctx).Model(&model.Content{}).Where("status = ?", content.StatusPublished)
	if since != nil {
		q = q.Where("created_at >= ?", *since)
	}

	return s.fetch(q, 0)
}

// match 候选筛选条件：排除的作者与内容，以及需要命中其一的类别、标签或类型.
type match struct {
	excludeOwner string
	excludeID    string
	categories   []content.Category
	tags         []string
	types        []content.Type
}

// matching 在数据库中完成排除与 OR 筛选后再截取候选上限，
// 热门但不相关的内容不会挤占候选名额.
func (s *RecommendService) matching(ctx context.Context, m match, limit int) ([]content.Item, error) {
	var (
		conds []string
		args  []any
	)

	for _, c := range m.categories {
		conds = append(conds, "categories LIKE ?")
		args = append(args, `%"`+string(c)+`"%`)
	}

	for _, t := range m.tags {
		conds = append(conds, "tags LIKE ?")
		args = append(args, `%"`+t+`"%`)
	}

	if len(m.types) > 0 {
		conds = append(conds, "type IN ?")
		args = append(args, m.types)
	}

	if len(conds) == 0 {
		return []content.Item{}, nil
	}

	q := s.db(ctx).Model(&model.Content{}).
		Where("status = ?", content.StatusPublished).
		Where("("+strings.Join(conds, " OR ")+")", args...)

	if m.excludeOwner != "" {
		q = q.Where("user_id <> ?", m.excludeOwner)
	}

	if m.excludeID != "" {
		q = q.Where("id <> ?", m.excludeID)
	}

	return s.fetch(q, limit)
}

// fetch 按浏览量、创建时间降序取候选，条数不少于 limit.
func (s *RecommendService) fetch(q *gorm.DB, limit int) ([]content.Item, error) {
	pool := s.cfg.Recommend.CandidatePool
	if pool <= 0 {
		pool = 500
	}

	var rows []model.Content
	if err := q.Order("view_count DESC").Order("created_at DESC").Limit(max(pool, limit)).Find(&rows).Error; err != nil {
		return nil, err
	}

	return model.ToItems(rows), nil
}

// Similar 与指定内容相似的已发布内容。
//
// 源内容不要求已发布；不存在时返回空列表，推荐位降级为空而不是报错.
func (s *RecommendService) Similar(ctx context.Context, id string, limit int) ([]recommend.Scored, error) {
	limit = s.limit(limit)

	var src model.Content
	if err := s.db(ctx).First(&src, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []recommend.Scored{}, nil
		}

		return nil, err
	}

	return cached(ctx, s, "similar", cache.Key("similar", id, limit), func() ([]recommend.Scored, error) {
		items, err := s.matching(ctx, match{
			excludeID:  src.ID,
			categories: src.Categories,
			tags:       src.Tags,
			types:      []content.Type{src.Type},
		}, limit)
		if err != nil {
			return nil, err
		}

		return recommend.Similar(src.ToItem(), items, limit), nil
	})
}

// ForUser 根据用户自己发布的内容推断偏好，推荐他人的内容.
func (s *RecommendService) ForUser(ctx context.Context, userID string, limit int) ([]content.Item, error) {
	limit = s.limit(limit)

	return cached(ctx, s, "personal", cache.Key("personal", userID, limit), func() ([]content.Item, error) {
		var own []model.Content
		if err := s.db(ctx).Where("user_id = ? AND status = ?", userID, content.StatusPublished).
			Order("created_at ASC").
			Find(&own).Error; err != nil {
			return nil, err
		}

		profile := recommend.BuildProfile(model.ToItems(own))
		if profile.Empty() {
			return []content.Item{}, nil
		}

		items, err := s.matching(ctx, match{
			excludeOwner: userID,
			categories:   profile.Categories,
			tags:         profile.Tags,
			types:        profile.Types,
		}, limit)
		if err != nil {
			return nil, err
		}

		return recommend.Personalized(userID, profile, items, limit), nil
	})
}

// Popular 浏览量最高的已发布内容.
func (s *RecommendService) Popular(ctx context.Context, limit int) ([]content.Item, error) {
	limit = s.limit(limit)

	return cached(ctx, s, "popular", cache.Key("popular", limit), func() ([]content.Item, error) {
		items, err := s.candidates(ctx, nil)
		if err != nil {
			return nil, err
		}

		return recommend.Popular(items, limit), nil
	})
}

// Trending 窗口内的热门内容.
func (s *RecommendService) Trending(ctx context.Context, tf recommend.Timeframe, limit int) ([]recommend.Trend, error) {
	limit = s.limit(limit)

	return cached(ctx, s, "trending", cache.Key("trending", tf, limit), func() ([]recommend.Trend, error) {
		return s.trending(ctx, tf, limit)
	})
}

func (s *RecommendService) trending(ctx context.Context, tf recommend.Timeframe, limit int) ([]recommend.Trend, error) {
	now := s.now()
	since := now.Add(-time.Duration(tf.Days()) * 24 * time.Hour)

	items, err := s.candidates(ctx, &since)
	if err != nil {
		return nil, err
	}

	return recommend.Trending(items, tf, now, limit), nil
}

// Warm 重新计算各窗口的热门内容与热门榜并覆盖缓存，返回写入的键数.
func (s *RecommendService) Warm(ctx context.Context) (int, error) {
	if s.cache == nil {
		return 0, nil
	}

	limit := s.limit(0)
	ttl := s.cfg.Recommend.CacheTTL
	n := 0

	for _, tf := range []recommend.Timeframe{recommend.Day, recommend.Week, recommend.Month} {
		trends, err := s.trending(ctx, tf, limit)
		if err != nil {
			return n, err
		}

		if err := cache.Set(ctx, s.cache, cache.Key("trending", tf, limit), trends, ttl); err != nil {
			return n, err
		}

		n++
	}

	items, err := s.candidates(ctx, nil)
	if err != nil {
		return n, err
	}

	if err := cache.Set(ctx, s.cache, cache.Key("popular", limit), recommend.Popular(items, limit), ttl); err != nil {
		return n, err
	}

	return n + 1, nil
}

// Invalidate 清空推荐缓存，内容发布或下线后调用.
func (s *RecommendService) Invalidate(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}

	return s.cache.Clear(ctx)
}
