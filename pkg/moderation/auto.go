package moderation

// Action 自动审核的处置结果.
type Action string

const (
	ActionApprove Action = "approve"
	ActionReview  Action = "review"
	ActionReject  Action = "reject"
)

// Input 待审核的内容字段.
type Input struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// Decision 标题与描述的组合审核结论.
type Decision struct {
	Approved   bool   `json:"approved"`
	Action     Action `json:"action"`
	Moderation Result `json:"moderation"`
}

var suggestionByCategory = []struct {
	category string
	text     string
}{
	{CategoryProfanity, "Remove inappropriate language to comply with community guidelines"},
	{CategorySpam, "Reduce promotional content and focus on authentic descriptions"},
	{CategoryFormatting, "Use normal capitalization for better readability"},
	{CategorySuspiciousLinks, "Remove shortened URLs and use direct, trusted links only"},
	{CategoryPrivacy, "Remove personal information for your safety"},
}

// Suggestions 按类别生成修改建议，顺序与检查顺序一致.
func Suggestions(categories []string) []string {
	present := make(map[string]bool, len(categories))
	for _, c := range categories {
		present[c] = true
	}

	out := []string{}

	for _, s := range suggestionByCategory {
		if present[s.category] {
			out = append(out, s.text)
		}
	}

	return out
}

// AutoModerate 使用默认策略做组合审核.
func AutoModerate(in Input) Decision {
	return defaultModerator.AutoModerate(in)
}

// AutoModerate 分别审核标题和描述，取较高分作为组合分数.
//
// 原因按标题在前、描述在后拼接；类别取并集并保持首次出现顺序。
func (m *Moderator) AutoModerate(in Input) Decision {
	title := m.ModerateText(in.Title)
	desc := m.ModerateText(in.Description)

	combined := Result{
		Score:      max(title.Score, desc.Score),
		Reasons:    append(append([]string{}, title.Reasons...), desc.Reasons...),
		Categories: union(title.Categories, desc.Categories),
	}
	combined.Flagged = combined.Score > m.policy.FlagAbove
	combined.Suggestions = Suggestions(combined.Categories)

	action := m.Decide(combined.Score)

	return Decision{
		Approved:   action == ActionApprove,
		Action:     action,
		Moderation: combined,
	}
}

// Decide 由组合分数得出处置.
func (m *Moderator) Decide(score int) Action {
	switch {
	case score >= m.policy.RejectAt:
		return ActionReject
	case score >= m.policy.ReviewAt:
		return ActionReview
	default:
		return ActionApprove
	}
}

func union(lists ...[]string) []string {
	seen := make(map[string]struct{})
	out := []string{}

	for _, l := range lists {
		for _, s := range l {
			if _, ok := seen[s]; ok {
				continue
			}

			seen[s] = struct{}{}
			out = append(out, s)
		}
	}

	return out
}
