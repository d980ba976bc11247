package tagging

import "github.com/sloopymg1/ghana-creative-platform/pkg/content"

var stopWords = toSet(
	"the", "a", "an", "and", "or", "but", "in", "on", "at", "to", "for",
	"of", "with", "by", "from", "as", "is", "was", "are", "were", "been",
	"be", "have", "has", "had", "do", "does", "did", "will", "would",
	"should", "could", "may", "might", "must", "can", "this", "that",
	"these", "those", "i", "you", "he", "she", "it", "we", "they",
)

var categoryTags = map[content.Category][]string{
	content.CategoryMusic:          {"audio", "sound", "melody", "rhythm", "song", "track"},
	content.CategoryVisualArts:     {"artwork", "painting", "drawing", "design", "visual", "creative"},
	content.CategoryPerformingArts: {"performance", "live", "show", "theater", "stage", "act"},
	content.CategoryDigitalArts:    {"digital", "graphic", "design", "illustration", "animation", "cgi"},
	content.CategoryFilm:           {"video", "cinema", "movie", "film", "production", "screening"},
	content.CategoryPhotography:    {"photo", "image", "camera", "capture", "portrait", "landscape"},
	content.CategoryLiterature:     {"writing", "poetry", "prose", "story", "text", "literary"},
	content.CategoryCrafts:         {"handmade", "craft", "artisan", "handcraft", "traditional"},
	content.CategoryFashion:        {"style", "clothing", "design", "wear", "trend", "outfit"},
	content.CategoryCulinaryArts:   {"food", "cooking", "recipe", "culinary", "cuisine", "dish"},
}

var typeTags = map[content.Type][]string{
	content.TypeAudio:      {"listen", "hear", "sound", "audio"},
	content.TypeVideo:      {"watch", "visual", "video", "clip"},
	content.TypeImage:      {"view", "picture", "image", "photo"},
	content.TypeLiveStream: {"live", "streaming", "broadcast", "realtime"},
	content.TypeDocument:   {"read", "document", "text", "pdf"},
}

var (
	positiveWords = []string{
		"love", "great", "excellent", "amazing", "wonderful", "fantastic",
		"beautiful", "good", "best", "perfect", "awesome", "brilliant",
	}

	negativeWords = []string{
		"hate", "bad", "terrible", "awful", "horrible", "worst",
		"poor", "disappointing", "ugly", "useless", "boring",
	}
)

func toSet(words ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}

	return m
}
