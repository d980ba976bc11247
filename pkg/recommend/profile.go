package recommend

import (
	"cmp"
	"slices"

	"github.com/sloopymg1/ghana-creative-platform/pkg/content"
)

// ProfileSize 每个维度保留的偏好个数.
const ProfileSize = 5

// Profile 用户偏好：各维度出现最多的值.
type Profile struct {
	Categories []content.Category `json:"categories"`
	Tags       []string           `json:"tags"`
	Types      []content.Type     `json:"types"`
}

// Empty 没有任何偏好.
func (p Profile) Empty() bool {
	return len(p.Categories) == 0 && len(p.Tags) == 0 && len(p.Types) == 0
}

// BuildProfile 由用户自己已发布的内容推导偏好；频次相同按首次出现顺序.
func BuildProfile(own []content.Item) Profile {
	var (
		cats  counter[content.Category]
		tags  counter[string]
		types counter[content.Type]
	)

	for _, it := range own {
		if !it.IsPublished() {
			continue
		}

		for _, c := range it.Categories {
			cats.add(c)
		}

		for _, t := range it.Tags {
			tags.add(t)
		}

		types.add(it.Type)
	}

	return Profile{
		Categories: cats.top(ProfileSize),
		Tags:       tags.top(ProfileSize),
		Types:      types.top(ProfileSize),
	}
}

// Personalized 为 userID 推荐他人发布、且命中任一偏好的内容.
//
// 偏好为空时 OR 条件不命中任何内容，返回空列表。
func Personalized(userID string, p Profile, candidates []content.Item, limit int) []content.Item {
	pool := filter(candidates, func(it content.Item) bool {
		return it.OwnerID != userID && it.IsPublished() && matchesAny(it, p.Categories, p.Tags, p.Types)
	})
	sortByPopularity(pool)

	return truncate(pool, limit)
}

// counter 按首次出现顺序计数.
type counter[T comparable] struct {
	index  map[T]int
	keys   []T
	counts []int
}

func (c *counter[T]) add(v T) {
	if c.index == nil {
		c.index = make(map[T]int)
	}

	i, ok := c.index[v]
	if !ok {
		i = len(c.keys)
		c.index[v] = i
		c.keys = append(c.keys, v)
		c.counts = append(c.counts, 0)
	}

	c.counts[i]++
}

func (c *counter[T]) top(n int) []T {
	order := make([]int, len(c.keys))
	for i := range order {
		order[i] = i
	}

	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(c.counts[b], c.counts[a])
	})

	out := make([]T, 0, min(n, len(order)))
	for _, i := range order[:min(n, len(order))] {
		out = append(out, c.keys[i])
	}

	return out
}
