package service

import (
	"context"
	"errors"
	"fmt"

	"tube-fusion/app/extractor"
	"tube-fusion/app/logger"
	"tube-fusion/app/model"
)

// VideoStore 视频抓取任务需要的持久化能力
type VideoStore interface {
	GetChannelByUploaderID(uploaderID string) (*model.Channel, error)
	GetVideoByID(id string) (*model.Video, error)
	CreateVideoIgnore(video *model.Video) error
}

// VideoIngestService 视频抓取任务体：完整提取单个视频的元数据并落库。
// 发现所属频道未收录时，把频道 handle 作为依赖标识返回，由队列转发，
// 视频本身照常收录——Video.channel_id 与频道行之间是最终一致。
type VideoIngestService struct {
	store     VideoStore
	extractor extractor.Extractor
	logger    *logger.Logger
}

// NewVideoIngestService 创建视频抓取服务
func NewVideoIngestService(store VideoStore, ext extractor.Extractor, log *logger.Logger) *VideoIngestService {
	return &VideoIngestService{
		store:     store,
		extractor: ext,
		logger:    log,
	}
}

// Ingest 执行一次视频抓取，作为 JobFunc 挂到视频队列上
func (s *VideoIngestService) Ingest(ctx context.Context, id string) ([]string, error) {
	url := "https://www.youtube.com/watch?v=" + id

	info, err := s.extractor.Extract(ctx, url, false)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrExtraction, err)
	}
	if info == nil || info.ID == "" {
		return nil, fmt.Errorf("%w: 提取结果为空", model.ErrExtraction)
	}

	// 依赖解析：所属频道未收录时排一个频道抓取任务，不阻塞本任务
	var followUps []string
	if _, err := s.store.GetChannelByUploaderID(info.UploaderID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			s.logger.Infof("频道 %s 尚未收录，排队抓取", info.UploaderID)
			followUps = append(followUps, info.UploaderID)
		} else {
			s.logger.Warnf("查询频道 %s 失败: %v", info.UploaderID, err)
		}
	}

	// 去重：已收录的视频按成功处理，不算失败
	if _, err := s.store.GetVideoByID(id); err == nil {
		s.logger.Infof("视频 %s 已收录，跳过写入", id)
		return followUps, nil
	} else if !errors.Is(err, model.ErrNotFound) {
		return followUps, err
	}

	video := &model.Video{
		ID:          info.ID,
		ChannelID:   info.UploaderID,
		URL:         info.WebpageURL,
		Title:       info.Title,
		Description: info.Description,
		Duration:    int64(info.Duration),
		ViewCount:   info.ViewCount,
	}

	if err := s.store.CreateVideoIgnore(video); err != nil {
		return followUps, err
	}

	s.logger.Infof("视频收录完成: %s (%s)", info.Title, id)
	return followUps, nil
}
