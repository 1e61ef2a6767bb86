package model

import "fmt"

// ThumbnailBaseURL 缩略图基础地址，缩略图地址永远不落库，读取时派生。
const ThumbnailBaseURL = "https://img.youtube.com/vi/"

// thumbnailQualities 质量档位到文件名的映射
var thumbnailQualities = map[string]string{
	"default":  "default.jpg",
	"medium":   "mqdefault.jpg",
	"high":     "hqdefault.jpg",
	"standard": "sddefault.jpg",
	"maximum":  "maxresdefault.jpg",
}

// ThumbnailURL 根据视频 ID 和质量档位派生缩略图地址
func ThumbnailURL(videoID, quality string) (string, error) {
	filename, ok := thumbnailQualities[quality]
	if !ok {
		return "", fmt.Errorf("%w: 未知的缩略图质量 %q", ErrValidation, quality)
	}
	return fmt.Sprintf("%s%s/%s", ThumbnailBaseURL, videoID, filename), nil
}

// ThumbnailURLMap 返回视频在全部质量档位下的缩略图地址
func ThumbnailURLMap(videoID string) map[string]string {
	urls := make(map[string]string, len(thumbnailQualities))
	for quality := range thumbnailQualities {
		url, _ := ThumbnailURL(videoID, quality)
		urls[quality] = url
	}
	return urls
}
