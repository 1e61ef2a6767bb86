package handler

import (
	"fmt"
	"net/http"
	"time"

	"tube-fusion/app/model"
	"tube-fusion/app/service"
	"tube-fusion/app/store"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
)

// VideoResponse 视频响应结构，thumbnails 由视频 ID 实时派生
type VideoResponse struct {
	ID          string            `json:"id"`
	ChannelID   string            `json:"channel_id"`
	URL         string            `json:"url"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Duration    int64             `json:"duration"`
	ViewCount   *int64            `json:"view_count"`
	Thumbnails  map[string]string `json:"thumbnails"`
}

// VideoHandler 视频相关接口处理器
type VideoHandler struct {
	store *store.Store
	queue *service.IngestQueue
	cache *cache.Cache
}

// NewVideoHandler 创建视频处理器。queue 是视频抓取队列。
func NewVideoHandler(st *store.Store, queue *service.IngestQueue) *VideoHandler {
	return &VideoHandler{
		store: st,
		queue: queue,
		cache: cache.New(5*time.Minute, 10*time.Minute),
	}
}

// videoResponse 由视频行构造响应
func videoResponse(v *model.Video) VideoResponse {
	return VideoResponse{
		ID:          v.ID,
		ChannelID:   v.ChannelID,
		URL:         v.URL,
		Title:       v.Title,
		Description: v.Description,
		Duration:    v.Duration,
		ViewCount:   v.ViewCount,
		Thumbnails:  model.ThumbnailURLMap(v.ID),
	}
}

// GetVideo 按 ID 获取单个视频
func (h *VideoHandler) GetVideo(c *gin.Context) {
	id := c.Param("id")

	if cached, found := h.cache.Get("video:" + id); found {
		success(c, cached, "获取视频成功")
		return
	}

	video, err := h.store.GetVideoByID(id)
	if err != nil {
		failWith(c, err)
		return
	}

	resp := videoResponse(video)
	h.cache.Set("video:"+id, resp, cache.DefaultExpiration)
	success(c, resp, "获取视频成功")
}

// AddVideo 把视频 ID 排入抓取队列，立即返回
func (h *VideoHandler) AddVideo(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		fail(c, http.StatusBadRequest, 400, model.ErrValidation.Error()+": 缺少 id 参数")
		return
	}

	h.queue.Enqueue(id)
	success(c, gin.H{"id": id}, fmt.Sprintf("视频 %s 已加入抓取队列", id))
}

// VideoStatus 返回视频抓取队列的状态快照
func (h *VideoHandler) VideoStatus(c *gin.Context) {
	success(c, h.queue.Snapshot(), "获取队列状态成功")
}
