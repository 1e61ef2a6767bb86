package model

// Video 视频元数据模型。channel_id 指向所属频道的 uploader_id，
// 该引用不在写入时强制校验：频道行可能尚未收录（最终一致）。
type Video struct {
	ID          string `json:"id" gorm:"primaryKey;column:id"`
	ChannelID   string `json:"channel_id" gorm:"column:channel_id;index"`
	URL         string `json:"url" gorm:"column:url"`
	Title       string `json:"title" gorm:"column:title"`
	Description string `json:"description" gorm:"column:description"`
	Duration    int64  `json:"duration" gorm:"column:duration"` // 秒
	ViewCount   *int64 `json:"view_count" gorm:"column:view_count"`
}

// TableName 指定表名
func (Video) TableName() string {
	return "videos"
}
