package database

import "tube-fusion/app/model"

func AutoMigrate() error {
	// 自动迁移表结构
	return DB.AutoMigrate(
		&model.Channel{},
		&model.Video{},
	)
}
