package content

import (
	"regexp"
	"strings"
)

// VideoPlatform 外链视频平台.
type VideoPlatform string

const (
	PlatformYouTube  VideoPlatform = "youtube"
	PlatformFacebook VideoPlatform = "facebook"
	PlatformVimeo    VideoPlatform = "vimeo"
	PlatformUnknown  VideoPlatform = "unknown"
)

// VideoRef 解析后的外链视频信息.
type VideoRef struct {
	Platform VideoPlatform `json:"platform"`
	VideoID  string        `json:"video_id,omitempty"`
	Valid    bool          `json:"valid"`
}

var (
	youtubePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/)([a-zA-Z0-9_-]{11})`),
		regexp.MustCompile(`youtube\.com/embed/([a-zA-Z0-9_-]{11})`),
		regexp.MustCompile(`youtube\.com/v/([a-zA-Z0-9_-]{11})`),
	}
	facebookPattern = regexp.MustCompile(`facebook\.com/.*/videos/(\d+)`)
	vimeoPattern    = regexp.MustCompile(`vimeo\.com/(\d+)`)
)

// ParseVideoURL 识别 YouTube / Facebook / Vimeo 链接.
func ParseVideoURL(url string) VideoRef {
	if url == "" {
		return VideoRef{Platform: PlatformUnknown}
	}

	for _, p := range youtubePatterns {
		if m := p.FindStringSubmatch(url); m != nil {
			return VideoRef{Platform: PlatformYouTube, VideoID: m[1], Valid: true}
		}
	}

	// facebook 任意链接都接受，只是不一定能取到 ID
	if m := facebookPattern.FindStringSubmatch(url); m != nil {
		return VideoRef{Platform: PlatformFacebook, VideoID: m[1], Valid: true}
	} else if strings.Contains(url, "facebook.com") {
		return VideoRef{Platform: PlatformFacebook, Valid: true}
	}

	if m := vimeoPattern.FindStringSubmatch(url); m != nil {
		return VideoRef{Platform: PlatformVimeo, VideoID: m[1], Valid: true}
	}

	return VideoRef{Platform: PlatformUnknown}
}

// ValidateExternalURL VIDEO 类型必须提供可识别的外链，其它类型不校验.
func ValidateExternalURL(t Type, url string) bool {
	if t != TypeVideo {
		return true
	}

	return ParseVideoURL(url).Valid
}
