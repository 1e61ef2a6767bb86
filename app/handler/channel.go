package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"tube-fusion/app/model"
	"tube-fusion/app/service"
	"tube-fusion/app/store"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
)

// ChannelResponse 频道响应结构
type ChannelResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Subscribers *int64 `json:"subscribers"`
}

// ChannelHandler 频道相关接口处理器
type ChannelHandler struct {
	store *store.Store
	queue *service.IngestQueue
	cache *cache.Cache
}

// NewChannelHandler 创建频道处理器。queue 是频道抓取队列。
func NewChannelHandler(st *store.Store, queue *service.IngestQueue) *ChannelHandler {
	return &ChannelHandler{
		store: st,
		queue: queue,
		// 频道行写入后不变，短 TTL 只为限制缓存体积
		cache: cache.New(5*time.Minute, 10*time.Minute),
	}
}

// channelResponse 由频道行构造响应
func channelResponse(ch *model.Channel) ChannelResponse {
	return ChannelResponse{
		ID:          ch.ID,
		Title:       ch.Title,
		URL:         ch.UploaderURL,
		Subscribers: ch.FollowerCount,
	}
}

// ListChannels 列出全部频道
func (h *ChannelHandler) ListChannels(c *gin.Context) {
	channels, err := h.store.ListChannels()
	if err != nil {
		failWith(c, err)
		return
	}

	resp := make([]ChannelResponse, 0, len(channels))
	for i := range channels {
		resp = append(resp, channelResponse(&channels[i]))
	}
	success(c, resp, "获取频道列表成功")
}

// GetChannel 按 ID 获取单个频道
func (h *ChannelHandler) GetChannel(c *gin.Context) {
	id := c.Param("id")

	if cached, found := h.cache.Get("channel:" + id); found {
		success(c, cached, "获取频道成功")
		return
	}

	channel, err := h.store.GetChannelByUploaderID(id)
	if err != nil {
		failWith(c, err)
		return
	}

	resp := channelResponse(channel)
	h.cache.Set("channel:"+id, resp, cache.DefaultExpiration)
	success(c, resp, "获取频道成功")
}

// ListChannelVideos 分页列出频道下的视频
func (h *ChannelHandler) ListChannelVideos(c *gin.Context) {
	id := c.Param("id")

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

	videos, err := h.store.ListVideosByChannel(id, limit, page)
	if err != nil {
		failWith(c, err)
		return
	}

	resp := make([]VideoResponse, 0, len(videos))
	for i := range videos {
		resp = append(resp, videoResponse(&videos[i]))
	}
	success(c, gin.H{
		"videos": resp,
		"limit":  limit,
		"page":   page,
	}, "获取视频列表成功")
}

// SearchChannels 按标题子串搜索频道
func (h *ChannelHandler) SearchChannels(c *gin.Context) {
	q := c.Query("q")

	channels, err := h.store.SearchChannels(q)
	if err != nil {
		failWith(c, err)
		return
	}

	resp := make([]ChannelResponse, 0, len(channels))
	for i := range channels {
		resp = append(resp, channelResponse(&channels[i]))
	}
	success(c, resp, "搜索频道成功")
}

// AddChannel 把频道 handle 排入抓取队列，立即返回
func (h *ChannelHandler) AddChannel(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		fail(c, http.StatusBadRequest, 400, model.ErrValidation.Error()+": 缺少 id 参数")
		return
	}

	h.queue.Enqueue(id)
	success(c, gin.H{"id": id}, fmt.Sprintf("频道 %s 已加入抓取队列", id))
}

// ChannelStatus 返回频道抓取队列的状态快照
func (h *ChannelHandler) ChannelStatus(c *gin.Context) {
	success(c, h.queue.Snapshot(), "获取队列状态成功")
}
