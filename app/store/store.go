package store

import (
	"errors"
	"fmt"

	"tube-fusion/app/model"

	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store 封装频道与视频的持久化操作。
// 所有写入都是 insert-or-ignore 语义：主键已存在时静默跳过，不报唯一约束错误。
type Store struct {
	db *gorm.DB
}

// New 创建 Store 实例
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// SaveChannelBatch 在一个事务中写入频道行及其视频桩行。
// 单个任务产出的所有行要么一起提交，要么一起回滚，避免写入半截的分区。
func (s *Store) SaveChannelBatch(channel *model.Channel, videos []model.Video) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(channel).Error; err != nil {
			return err
		}
		for i := range videos {
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&videos[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrStore, err)
	}
	return nil
}

// CreateVideoIgnore 写入单个视频行，主键冲突时忽略
func (s *Store) CreateVideoIgnore(video *model.Video) error {
	if err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(video).Error; err != nil {
		return fmt.Errorf("%w: %v", model.ErrStore, err)
	}
	return nil
}

// GetChannelByUploaderID 按 uploader_id 查询频道
func (s *Store) GetChannelByUploaderID(uploaderID string) (*model.Channel, error) {
	var channel model.Channel
	if err := s.db.Where("uploader_id = ?", uploaderID).First(&channel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: 频道 %q", model.ErrNotFound, uploaderID)
		}
		return nil, fmt.Errorf("%w: %v", model.ErrStore, err)
	}
	return &channel, nil
}

// GetVideoByID 按主键查询视频
func (s *Store) GetVideoByID(id string) (*model.Video, error) {
	var video model.Video
	if err := s.db.Where("id = ?", id).First(&video).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: 视频 %q", model.ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: %v", model.ErrStore, err)
	}
	return &video, nil
}

// ListChannels 列出全部频道
func (s *Store) ListChannels() ([]model.Channel, error) {
	var channels []model.Channel
	if err := s.db.Find(&channels).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrStore, err)
	}
	return channels, nil
}

// SearchChannels 按标题子串搜索频道，查询词先做 NFC 规范化再匹配
func (s *Store) SearchChannels(q string) ([]model.Channel, error) {
	q = norm.NFC.String(q)

	var channels []model.Channel
	if err := s.db.Where("title LIKE ?", "%"+q+"%").Find(&channels).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrStore, err)
	}
	return channels, nil
}

// ListVideosByChannel 按频道分页列出视频
func (s *Store) ListVideosByChannel(channelID string, limit, page int) ([]model.Video, error) {
	if limit <= 0 {
		limit = 10
	}
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * limit

	var videos []model.Video
	if err := s.db.Where("channel_id = ?", channelID).
		Offset(offset).
		Limit(limit).
		Find(&videos).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrStore, err)
	}
	return videos, nil
}
