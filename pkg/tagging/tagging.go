// Package tagging 根据标题、描述、类别与类型生成标签建议.
package tagging

import (
	"cmp"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/sloopymg1/ghana-creative-platform/pkg/content"
)

// 各来源的置信度.
const (
	KeywordConfidence  = 0.7
	CategoryConfidence = 0.6
	TypeConfidence     = 0.5
)

const (
	// MaxSuggestions 返回的建议上限.
	MaxSuggestions = 10
	// MaxKeywords 从正文提取的关键词上限.
	MaxKeywords = 5

	minKeywordLen = 4
)

// Input 待打标签的内容.
type Input struct {
	Title       string             `json:"title"`
	Description string             `json:"description,omitempty"`
	Categories  []content.Category `json:"categories"`
	Type        content.Type       `json:"type"`
}

// Suggestion 一条标签建议.
type Suggestion struct {
	Tag        string  `json:"tag"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
}

var nonWord = regexp.MustCompile(`[^a-z0-9\s-]+`)

// SuggestTags 生成按置信度降序的标签建议，最多 MaxSuggestions 条。
//
// 关键词在前，其次类别相关标签，最后类型相关标签；同一标签只出现一次。
// 截断时若某个置信度档位被整体挤掉，用该档位的第一条替换末尾，保证每个来源至少出现一次。
func SuggestTags(in Input) []Suggestion {
	var (
		out  []Suggestion
		seen = make(map[string]struct{})
	)

	push := func(tag string, conf float64, reason string) {
		if _, ok := seen[tag]; ok {
			return
		}

		seen[tag] = struct{}{}
		out = append(out, Suggestion{Tag: tag, Confidence: conf, Reason: reason})
	}

	for _, kw := range ExtractKeywords(in.Title + " " + in.Description) {
		push(kw, KeywordConfidence, "Extracted from content")
	}

	for _, c := range in.Categories {
		for _, tag := range categoryTags[c] {
			push(tag, CategoryConfidence, fmt.Sprintf("Related to %s category", c))
		}
	}

	for _, tag := range typeTags[in.Type] {
		push(tag, TypeConfidence, fmt.Sprintf("Related to %s content", in.Type))
	}

	slices.SortStableFunc(out, func(a, b Suggestion) int {
		return cmp.Compare(b.Confidence, a.Confidence)
	})

	return capPreservingTiers(out, MaxSuggestions)
}

// capPreservingTiers 截断到 n 条，被截掉的档位各保留一条.
func capPreservingTiers(s []Suggestion, n int) []Suggestion {
	if len(s) <= n {
		return s
	}

	kept := slices.Clone(s[:n])
	present := make(map[float64]bool)

	for _, x := range kept {
		present[x.Confidence] = true
	}

	var missing []Suggestion

	for _, x := range s[n:] {
		if !present[x.Confidence] {
			present[x.Confidence] = true
			missing = append(missing, x)
		}
	}

	if len(missing) > n {
		missing = missing[:n]
	}

	copy(kept[n-len(missing):], missing)

	return kept
}

// ExtractKeywords 提取出现频次最高的关键词，同频按首次出现顺序.
func ExtractKeywords(text string) []string {
	text = nonWord.ReplaceAllString(strings.ToLower(text), "")

	var (
		order []string
		freq  = make(map[string]int)
	)

	for _, w := range strings.Fields(text) {
		if len(w) < minKeywordLen {
			continue
		}

		if _, stop := stopWords[w]; stop {
			continue
		}

		if freq[w] == 0 {
			order = append(order, w)
		}

		freq[w]++
	}

	slices.SortStableFunc(order, func(a, b string) int {
		return cmp.Compare(freq[b], freq[a])
	})

	if len(order) > MaxKeywords {
		order = order[:MaxKeywords]
	}

	return order
}
