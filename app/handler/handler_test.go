package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"tube-fusion/app/config"
	"tube-fusion/app/logger"
	"tube-fusion/app/model"
	"tube-fusion/app/service"
	"tube-fusion/app/store"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// testRouter 装配一个带内存数据库和未启动队列的路由。
// 队列不启动 worker，入队的任务停留在 waiting，便于断言。
func testRouter(t *testing.T) (*gin.Engine, *store.Store, *service.IngestQueue, *service.IngestQueue) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&model.Channel{}, &model.Video{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	log := logger.New(config.LogConfig{Level: "error", Output: "stdout"})
	st := store.New(db)
	channelQueue := service.NewIngestQueue("channels", nil, nil, log)
	videoQueue := service.NewIngestQueue("videos", nil, nil, log)

	channelHandler := NewChannelHandler(st, channelQueue)
	videoHandler := NewVideoHandler(st, videoQueue)

	router := gin.New()
	router.GET("/channels", channelHandler.ListChannels)
	router.GET("/channels/search", channelHandler.SearchChannels)
	router.GET("/channels/add", channelHandler.AddChannel)
	router.GET("/channels/status", channelHandler.ChannelStatus)
	router.GET("/channel/:id", channelHandler.GetChannel)
	router.GET("/channel/:id/videos", channelHandler.ListChannelVideos)
	router.GET("/video/:id", videoHandler.GetVideo)
	router.GET("/videos/add", videoHandler.AddVideo)
	router.GET("/videos/status", videoHandler.VideoStatus)

	return router, st, channelQueue, videoQueue
}

func doRequest(t *testing.T, router *gin.Engine, path string) (*httptest.ResponseRecorder, ApiResponse) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	router.ServeHTTP(w, req)

	var resp ApiResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return w, resp
}

func TestAddChannel_EnqueuesAndReturnsImmediately(t *testing.T) {
	router, _, channelQueue, _ := testRouter(t)

	w, _ := doRequest(t, router, "/channels/add?id=@example")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	snap := channelQueue.Snapshot()
	if len(snap.Waiting) != 1 || snap.Waiting[0] != "@example" {
		t.Fatalf("expected @example waiting, got %+v", snap)
	}
}

func TestAddChannel_MissingID(t *testing.T) {
	router, _, channelQueue, _ := testRouter(t)

	w, _ := doRequest(t, router, "/channels/add")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if len(channelQueue.Snapshot().Waiting) != 0 {
		t.Fatal("nothing should be enqueued for an invalid request")
	}
}

func TestChannelStatus_SnapshotShape(t *testing.T) {
	router, _, channelQueue, _ := testRouter(t)
	channelQueue.Enqueue("@a")
	channelQueue.Enqueue("@b")

	w, resp := doRequest(t, router, "/channels/status")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	data, err := json.Marshal(resp.Data)
	if err != nil {
		t.Fatalf("marshal data: %v", err)
	}
	var snap service.QueueSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if len(snap.Waiting) != 2 || snap.Processing != nil {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}

func TestGetChannel_NotFound(t *testing.T) {
	router, _, _, _ := testRouter(t)

	w, _ := doRequest(t, router, "/channel/@missing")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestGetVideo_IncludesDerivedThumbnails(t *testing.T) {
	router, st, _, _ := testRouter(t)

	if err := st.CreateVideoIgnore(&model.Video{ID: "abc", ChannelID: "@foo", Title: "t"}); err != nil {
		t.Fatalf("seed video: %v", err)
	}

	w, resp := doRequest(t, router, "/video/abc")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	data, _ := json.Marshal(resp.Data)
	var video VideoResponse
	if err := json.Unmarshal(data, &video); err != nil {
		t.Fatalf("decode video: %v", err)
	}
	if len(video.Thumbnails) != 5 {
		t.Fatalf("expected 5 derived thumbnails, got %d", len(video.Thumbnails))
	}
	if video.Thumbnails["high"] != "https://img.youtube.com/vi/abc/hqdefault.jpg" {
		t.Fatalf("unexpected high thumbnail: %s", video.Thumbnails["high"])
	}
}

func TestGetVideo_NotFound(t *testing.T) {
	router, _, _, _ := testRouter(t)

	w, _ := doRequest(t, router, "/video/zzz")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestSearchChannels(t *testing.T) {
	router, st, _, _ := testRouter(t)

	for _, ch := range []model.Channel{
		{ID: "UC1", Title: "Cooking with Foo", UploaderID: "@foo"},
		{ID: "UC2", Title: "Bar Gaming", UploaderID: "@bar"},
	} {
		if err := st.SaveChannelBatch(&ch, nil); err != nil {
			t.Fatalf("seed channel: %v", err)
		}
	}

	_, resp := doRequest(t, router, "/channels/search?q=Foo")
	data, _ := json.Marshal(resp.Data)
	var channels []ChannelResponse
	if err := json.Unmarshal(data, &channels); err != nil {
		t.Fatalf("decode channels: %v", err)
	}
	if len(channels) != 1 || channels[0].ID != "UC1" {
		t.Fatalf("unexpected search result: %+v", channels)
	}
}

func TestListChannelVideos_Pagination(t *testing.T) {
	router, st, _, _ := testRouter(t)

	for _, id := range []string{"v1", "v2", "v3"} {
		if err := st.CreateVideoIgnore(&model.Video{ID: id, ChannelID: "@foo"}); err != nil {
			t.Fatalf("seed video: %v", err)
		}
	}

	_, resp := doRequest(t, router, "/channel/@foo/videos?limit=2&page=2")
	data, _ := json.Marshal(resp.Data)
	var payload struct {
		Videos []VideoResponse `json:"videos"`
		Limit  int             `json:"limit"`
		Page   int             `json:"page"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload.Limit != 2 || payload.Page != 2 {
		t.Fatalf("unexpected paging echo: %+v", payload)
	}
	if len(payload.Videos) != 1 {
		t.Fatalf("expected 1 video on page 2, got %d", len(payload.Videos))
	}
}
