package moderation

import (
	"regexp"
	"strings"
	"unicode"
)

// Signal 垃圾内容信号.
type Signal string

const (
	SignalRepeatedChars  Signal = "repeated-characters"
	SignalExcessiveURLs  Signal = "excessive-urls"
	SignalSpamPhrases    Signal = "spam-phrases"
	SignalExcessiveEmoji Signal = "excessive-emojis"
)

const (
	repeatRun      = 5
	maxURLs        = 3
	maxEmojiRatio  = 0.2
	minCapsLetters = 10
	maxCapsRatio   = 0.7
)

var (
	profanityPattern = regexp.MustCompile(`\b(?:` + strings.Join([]string{
		"fuck", "shit", "ass", "bitch", "damn", "hell", "dick", "cock", "pussy", "bastard",
	}, "|") + `)\b`)

	spamPhrases = []string{
		"click here",
		"buy now",
		"limited time",
		"act now",
		"free money",
		"make money fast",
		"work from home",
		"weight loss",
		"earn cash",
	}

	urlPattern = regexp.MustCompile(`(?i)https?://\S+`)

	emojiPattern = regexp.MustCompile(
		`[\x{1F600}-\x{1F64F}\x{1F300}-\x{1F5FF}\x{1F680}-\x{1F6FF}\x{2600}-\x{26FF}\x{2700}-\x{27BF}]`)

	suspiciousURLPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)bit\.ly`),
		regexp.MustCompile(`(?i)tinyurl`),
		regexp.MustCompile(`(?i)goo\.gl`),
		regexp.MustCompile(`\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}`),
		regexp.MustCompile(`(?i)[a-z0-9]{20,}`),
	}

	personalInfoPatterns = []*regexp.Regexp{
		// email
		regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`),
		// phone
		regexp.MustCompile(`\d{3}[-.]?\d{3}[-.]?\d{4}`),
		regexp.MustCompile(`\(\d{3}\)\s*\d{3}[-.]?\d{4}`),
		regexp.MustCompile(`\+\d{1,3}\s*\d{3,}`),
		// card
		regexp.MustCompile(`\d{4}[\s-]?\d{4}[\s-]?\d{4}[\s-]?\d{4}`),
	}
)

// hasProfanity 按单词边界匹配脏词表，"classic" 不会命中 "ass".
func hasProfanity(lower string) bool {
	return profanityPattern.MatchString(lower)
}

// spamSignals 返回触发的垃圾内容信号.
func spamSignals(lower string) []Signal {
	var signals []Signal

	if hasRepeatedRun(lower, repeatRun) {
		signals = append(signals, SignalRepeatedChars)
	}

	if len(urlPattern.FindAllString(lower, -1)) > maxURLs {
		signals = append(signals, SignalExcessiveURLs)
	}

	for _, p := range spamPhrases {
		if strings.Contains(lower, p) {
			signals = append(signals, SignalSpamPhrases)
			break
		}
	}

	if emojiRatio(lower) > maxEmojiRatio {
		signals = append(signals, SignalExcessiveEmoji)
	}

	return signals
}

// hasRepeatedRun 同一字符（行终止符除外）连续出现 n 次及以上.
func hasRepeatedRun(s string, n int) bool {
	var (
		prev rune = -1
		run  int
	)

	for _, r := range s {
		if r == '\n' || r == '\r' || r == '\u2028' || r == '\u2029' {
			prev, run = -1, 0
			continue
		}

		if r == prev {
			run++
		} else {
			prev, run = r, 1
		}

		if run >= n {
			return true
		}
	}

	return false
}

// emojiRatio emoji 数量占非空白字符数的比例.
func emojiRatio(s string) float64 {
	var total int

	for _, r := range s {
		if !unicode.IsSpace(r) {
			total++
		}
	}

	if total == 0 {
		return 0
	}

	return float64(len(emojiPattern.FindAllStringIndex(s, -1))) / float64(total)
}

// hasExcessiveCaps 至少 minCapsLetters 个 ASCII 字母且大写占比超过 maxCapsRatio.
func hasExcessiveCaps(text string) bool {
	var letters, upper int

	for i := 0; i < len(text); i++ {
		c := text[i]

		switch {
		case c >= 'A' && c <= 'Z':
			upper++
			letters++
		case c >= 'a' && c <= 'z':
			letters++
		}
	}

	if letters < minCapsLetters {
		return false
	}

	return float64(upper)/float64(letters) > maxCapsRatio
}

// extractURLs 提取文本中的全部 http(s) 链接.
func extractURLs(text string) []string {
	return urlPattern.FindAllString(text, -1)
}

// hasSuspiciousLinks 任一链接命中短链域名、裸 IP 或超长随机串.
func hasSuspiciousLinks(text string) bool {
	for _, u := range extractURLs(text) {
		for _, p := range suspiciousURLPatterns {
			if p.MatchString(u) {
				return true
			}
		}
	}

	return false
}

// hasPersonalInfo 检测邮箱、电话、银行卡号样式的片段.
func hasPersonalInfo(text string) bool {
	for _, p := range personalInfoPatterns {
		if p.MatchString(text) {
			return true
		}
	}

	return false
}
