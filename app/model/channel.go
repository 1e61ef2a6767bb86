package model

// Channel 频道元数据模型，一行对应一个已收录的 YouTube 频道。
// 只通过成功的抓取任务写入，写入后不再修改，重复收录按主键忽略。
type Channel struct {
	ID            string `json:"id" gorm:"primaryKey;column:id"`
	Title         string `json:"title" gorm:"column:title"`
	ChannelURL    string `json:"channel_url" gorm:"column:channel_url"`
	ChannelID     string `json:"channel_id" gorm:"column:channel_id"`
	UploaderID    string `json:"uploader_id" gorm:"column:uploader_id;index"`
	UploaderURL   string `json:"uploader_url" gorm:"column:uploader_url"`
	FollowerCount *int64 `json:"follower_count" gorm:"column:follower_count"` // 平台上报，可能为空
}

// TableName 指定表名
func (Channel) TableName() string {
	return "channels"
}
