package tagging

import "strings"

// Sentiment 情感倾向.
type Sentiment string

const (
	Positive Sentiment = "positive"
	Neutral  Sentiment = "neutral"
	Negative Sentiment = "negative"
)

const (
	sentimentScale     = 10
	sentimentThreshold = 0.2
)

// SentimentResult 情感分析结果，Score 取值 [-1, 1].
type SentimentResult struct {
	Sentiment Sentiment `json:"sentiment"`
	Score     float64   `json:"score"`
}

// AnalyzeSentiment 统计正负面词出现次数（子串匹配）并归一化.
func AnalyzeSentiment(text string) SentimentResult {
	lower := strings.ToLower(text)

	var raw int
	for _, w := range positiveWords {
		raw += strings.Count(lower, w)
	}

	for _, w := range negativeWords {
		raw -= strings.Count(lower, w)
	}

	score := max(-1, min(1, float64(raw)/sentimentScale))

	res := SentimentResult{Sentiment: Neutral, Score: score}

	switch {
	case score > sentimentThreshold:
		res.Sentiment = Positive
	case score < -sentimentThreshold:
		res.Sentiment = Negative
	}

	return res
}
