// Package recommend 对已取出的内容集合做相似度、个性化与热度排序.
//
// 包内函数不做任何 I/O，输入切片不会被修改，可并发调用。
package recommend

import (
	"cmp"
	"slices"

	"github.com/sloopymg1/ghana-creative-platform/pkg/content"
)

// DefaultLimit limit 不为正时使用的条数.
const DefaultLimit = 10

// 相似度权重.
const (
	CategoryWeight = 3
	TagWeight      = 2
	TypeWeight     = 5
	OwnerWeight    = 4
)

// Scored 带相似度分数的内容.
type Scored struct {
	content.Item
	SimilarityScore int `json:"similarityScore"`
}

// Score 计算 b 相对 a 的相似度.
func Score(a, b content.Item) int {
	s := CategoryWeight*overlap(a.Categories, b.Categories) + TagWeight*overlap(a.Tags, b.Tags)

	if a.Type == b.Type {
		s += TypeWeight
	}

	if a.OwnerID != "" && a.OwnerID == b.OwnerID {
		s += OwnerWeight
	}

	return s
}

// Similar 返回与 source 相似的内容，按分数降序。
//
// 候选只保留已发布、不是 source 本身、且与 source 共享任一类别、标签或类型的内容；
// 先按浏览量和创建时间排好序再打分，同分时保持该顺序。
func Similar(source content.Item, candidates []content.Item, limit int) []Scored {
	pool := filter(candidates, func(it content.Item) bool {
		return it.ID != source.ID && it.IsPublished() && matchesAny(it, source.Categories, source.Tags, []content.Type{source.Type})
	})
	sortByPopularity(pool)

	scored := make([]Scored, len(pool))
	for i, it := range pool {
		scored[i] = Scored{Item: it, SimilarityScore: Score(source, it)}
	}

	slices.SortStableFunc(scored, func(x, y Scored) int {
		return cmp.Compare(y.SimilarityScore, x.SimilarityScore)
	})

	return truncate(scored, limit)
}

// Popular 匿名用户的回退推荐：已发布内容按浏览量、创建时间降序.
func Popular(candidates []content.Item, limit int) []content.Item {
	pool := filter(candidates, content.Item.IsPublished)
	sortByPopularity(pool)

	return truncate(pool, limit)
}

// sortByPopularity 浏览量降序，其次创建时间降序.
func sortByPopularity(items []content.Item) {
	slices.SortStableFunc(items, func(a, b content.Item) int {
		if c := cmp.Compare(b.ViewCount, a.ViewCount); c != 0 {
			return c
		}

		return b.CreatedAt.Compare(a.CreatedAt)
	})
}

// matchesAny 任一类别、标签或类型命中即为 true.
func matchesAny(it content.Item, categories []content.Category, tags []string, types []content.Type) bool {
	return overlap(it.Categories, categories) > 0 ||
		overlap(it.Tags, tags) > 0 ||
		slices.Contains(types, it.Type)
}

// overlap 交集大小，重复元素只计一次.
func overlap[T comparable](a, b []T) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	set := make(map[T]struct{}, len(a))
	for _, v := range a {
		set[v] = struct{}{}
	}

	n := 0

	for _, v := range b {
		if _, ok := set[v]; ok {
			delete(set, v)
			n++
		}
	}

	return n
}

func filter(items []content.Item, keep func(content.Item) bool) []content.Item {
	out := make([]content.Item, 0, len(items))

	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}

	return out
}

func truncate[T any](s []T, limit int) []T {
	if limit <= 0 {
		limit = DefaultLimit
	}

	if len(s) > limit {
		return s[:limit]
	}

	return s
}
