package extractor

import (
	"context"
	"encoding/json"
	"fmt"

	"tube-fusion/app/config"
	"tube-fusion/app/logger"
)

// Info yt-dlp 返回的元数据记录。频道做扁平提取时 Entries 里是分区
// （每个分区的 Entries 才是视频桩），单视频做完整提取时 Entries 为空。
type Info struct {
	ID                   string  `json:"id"`
	Title                string  `json:"title"`
	Description          string  `json:"description"`
	URL                  string  `json:"url"`
	WebpageURL           string  `json:"webpage_url"`
	ChannelURL           string  `json:"channel_url"`
	ChannelID            string  `json:"channel_id"`
	UploaderID           string  `json:"uploader_id"`
	UploaderURL          string  `json:"uploader_url"`
	ChannelFollowerCount *int64  `json:"channel_follower_count"`
	Duration             float64 `json:"duration"`
	ViewCount            *int64  `json:"view_count"`
	Entries              []Info  `json:"entries"`
}

// DecodeInfo 解析 yt-dlp 输出的 JSON
func DecodeInfo(data []byte) (*Info, error) {
	var info Info
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("解析 yt-dlp 输出失败: %w", err)
	}
	return &info, nil
}

// Extractor 元数据提取器。flat 为 true 时做扁平提取：
// 只枚举频道下的视频桩，不逐个解析完整元数据。
type Extractor interface {
	Extract(ctx context.Context, url string, flat bool) (*Info, error)
}

// New 根据配置创建提取器实例
func New(cfg config.ExtractorConfig, log *logger.Logger) (Extractor, error) {
	switch cfg.Mode {
	case "binary":
		return NewBinary(cfg, log), nil
	case "remote":
		return NewRemote(cfg, log), nil
	default:
		return nil, fmt.Errorf("未知的提取器模式: %s", cfg.Mode)
	}
}
