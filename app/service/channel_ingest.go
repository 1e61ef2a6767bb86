package service

import (
	"context"
	"fmt"
	"strings"

	"tube-fusion/app/extractor"
	"tube-fusion/app/logger"
	"tube-fusion/app/model"
)

// ChannelStore 频道抓取任务需要的持久化能力
type ChannelStore interface {
	SaveChannelBatch(channel *model.Channel, videos []model.Video) error
}

// ChannelIngestService 频道抓取任务体：扁平提取频道元数据，
// 定位上传分区，把频道行和视频桩行一次性落库。
type ChannelIngestService struct {
	store     ChannelStore
	extractor extractor.Extractor
	logger    *logger.Logger
}

// NewChannelIngestService 创建频道抓取服务
func NewChannelIngestService(store ChannelStore, ext extractor.Extractor, log *logger.Logger) *ChannelIngestService {
	return &ChannelIngestService{
		store:     store,
		extractor: ext,
		logger:    log,
	}
}

// NormalizeHandle 规范化频道 handle：缺少 @ 前缀时补上
func NormalizeHandle(handle string) string {
	if !strings.HasPrefix(handle, "@") {
		return "@" + handle
	}
	return handle
}

// isUploadsSection 判断分区是否是频道的上传分区。
// 平台靠 "<频道标题> - Videos" 这个命名约定区分上传分区和
// 播放列表、Shorts 等其他分区，没有更可靠的判别字段。
// 标题格式一旦变化这里会同步失效，单独抽出来方便将来替换。
func isUploadsSection(channelTitle, sectionTitle string) bool {
	return sectionTitle == channelTitle+" - Videos"
}

// Ingest 执行一次频道抓取，作为 JobFunc 挂到频道队列上
func (s *ChannelIngestService) Ingest(ctx context.Context, handle string) ([]string, error) {
	handle = NormalizeHandle(handle)
	url := "https://www.youtube.com/" + handle

	info, err := s.extractor.Extract(ctx, url, true)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrExtraction, err)
	}
	if info == nil || info.ID == "" {
		return nil, fmt.Errorf("%w: 提取结果为空", model.ErrExtraction)
	}

	channel := &model.Channel{
		ID:            info.ID,
		Title:         info.Title,
		ChannelURL:    info.ChannelURL,
		ChannelID:     info.ChannelID,
		UploaderID:    info.UploaderID,
		UploaderURL:   info.UploaderURL,
		FollowerCount: info.ChannelFollowerCount,
	}

	videos := s.collectVideos(info)

	if err := s.store.SaveChannelBatch(channel, videos); err != nil {
		return nil, err
	}

	s.logger.Infof("频道收录完成: %s (%s)，视频桩 %d 条", info.Title, handle, len(videos))
	return nil, nil
}

// collectVideos 从扁平提取结果中收集视频桩。
// 常规结构是 频道 -> 分区 -> 视频，只取上传分区下的条目；
// 部分提取结果没有分区层，视频直接挂在频道下，此时照单全收。
// 分区与视频按 entries 字段是否存在区分：JSON 里的空数组解码为非 nil
// 空切片，字段缺失才是 nil，所以空分区仍走分区分支，不会被当成视频插入。
func (s *ChannelIngestService) collectVideos(info *extractor.Info) []model.Video {
	var videos []model.Video
	for _, entry := range info.Entries {
		if entry.Entries != nil {
			if !isUploadsSection(info.Title, entry.Title) {
				continue
			}
			for _, stub := range entry.Entries {
				videos = append(videos, stubVideo(&stub, info.UploaderID))
			}
		} else {
			videos = append(videos, stubVideo(&entry, info.UploaderID))
		}
	}
	return videos
}

// stubVideo 由扁平条目构造视频桩行，缺失的字段保持零值
func stubVideo(entry *extractor.Info, uploaderID string) model.Video {
	return model.Video{
		ID:          entry.ID,
		ChannelID:   uploaderID,
		URL:         entry.URL,
		Title:       entry.Title,
		Description: entry.Description,
		Duration:    int64(entry.Duration),
		ViewCount:   entry.ViewCount,
	}
}
