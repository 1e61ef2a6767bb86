package model

import "errors"

// 领域错误哨兵。队列任务内部的错误在任务边界被捕获并记入失败列表，
// HTTP 边界上 ErrNotFound/ErrValidation 映射为 4xx，ErrStore 映射为 5xx。
var (
	ErrNotFound   = errors.New("记录不存在")
	ErrValidation = errors.New("无效的请求参数")
	ErrExtraction = errors.New("元数据提取失败")
	ErrStore      = errors.New("存储操作失败")
)
