// Package moderation 对标题、描述等自由文本做启发式审核打分.
//
// 每个检查项独立地给分数加上固定值，分数只增不减，最终截断到 [0, MaxScore]。
// 包内所有词表在初始化时构建且不可变，函数可被任意并发调用。
package moderation

import "strings"

// 违规类别.
const (
	CategoryProfanity       = "profanity"
	CategorySpam            = "spam"
	CategoryFormatting      = "formatting"
	CategorySuspiciousLinks = "suspicious-links"
	CategoryPrivacy         = "privacy"
)

// 各检查项的分值.
const (
	ProfanityWeight       = 40
	SpamWeight            = 30
	CapsWeight            = 10
	SuspiciousLinksWeight = 25
	PersonalInfoWeight    = 15

	// MaxScore 分数上限.
	MaxScore = 100
)

// 原因文案.
const (
	reasonProfanity       = "Contains inappropriate language"
	reasonSpam            = "Detected spam patterns"
	reasonCaps            = "Excessive capitalization detected"
	reasonSuspiciousLinks = "Contains suspicious links"
	reasonPersonalInfo    = "May contain personal information"
)

// Result 单段文本的审核结果.
type Result struct {
	Flagged     bool     `json:"flagged"`
	Score       int      `json:"score"`
	Reasons     []string `json:"reasons"`
	Categories  []string `json:"categories"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// Policy 可调整的判定阈值.
type Policy struct {
	// SpamSignals 判定为垃圾内容所需的最少信号数.
	SpamSignals int
	// FlagAbove 组合分数严格大于该值时标记.
	FlagAbove int
	// ReviewAt 组合分数达到该值进入人工审核.
	ReviewAt int
	// RejectAt 组合分数达到该值直接拒绝.
	RejectAt int
}

// DefaultPolicy 默认阈值.
var DefaultPolicy = Policy{
	SpamSignals: 2,
	FlagAbove:   30,
	ReviewAt:    30,
	RejectAt:    70,
}

// Moderator 按给定策略执行审核.
type Moderator struct {
	policy Policy
}

// New 创建 Moderator；零值字段回落到默认策略.
func New(p Policy) *Moderator {
	if p.SpamSignals <= 0 {
		p.SpamSignals = DefaultPolicy.SpamSignals
	}

	if p.FlagAbove <= 0 {
		p.FlagAbove = DefaultPolicy.FlagAbove
	}

	if p.ReviewAt <= 0 {
		p.ReviewAt = DefaultPolicy.ReviewAt
	}

	if p.RejectAt <= 0 {
		p.RejectAt = DefaultPolicy.RejectAt
	}

	return &Moderator{policy: p}
}

// Policy 当前生效的策略.
func (m *Moderator) Policy() Policy { return m.policy }

var defaultModerator = New(DefaultPolicy)

// ModerateText 使用默认策略审核一段文本.
func ModerateText(text string) Result {
	return defaultModerator.ModerateText(text)
}

// ModerateText 审核一段文本。空白文本返回零值结果.
func (m *Moderator) ModerateText(text string) Result {
	res := Result{Reasons: []string{}, Categories: []string{}}

	if strings.TrimSpace(text) == "" {
		return res
	}

	lower := strings.ToLower(text)

	if hasProfanity(lower) {
		res.add(ProfanityWeight, true, reasonProfanity, CategoryProfanity)
	}

	if len(spamSignals(lower)) >= m.policy.SpamSignals {
		res.add(SpamWeight, true, reasonSpam, CategorySpam)
	}

	if hasExcessiveCaps(text) {
		res.add(CapsWeight, false, reasonCaps, CategoryFormatting)
	}

	if hasSuspiciousLinks(text) {
		res.add(SuspiciousLinksWeight, true, reasonSuspiciousLinks, CategorySuspiciousLinks)
	}

	if hasPersonalInfo(text) {
		res.add(PersonalInfoWeight, false, reasonPersonalInfo, CategoryPrivacy)
	}

	return res
}

func (r *Result) add(weight int, flag bool, reason, category string) {
	r.Score = min(r.Score+weight, MaxScore)
	r.Flagged = r.Flagged || flag
	r.Reasons = append(r.Reasons, reason)
	r.Categories = append(r.Categories, category)
}
