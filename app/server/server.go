package server

import (
	"context"
	"net/http"

	"tube-fusion/app/config"
	"tube-fusion/app/database"
	"tube-fusion/app/extractor"
	"tube-fusion/app/filewatcher"
	"tube-fusion/app/handler"
	"tube-fusion/app/logger"
	"tube-fusion/app/service"
	"tube-fusion/app/store"

	"github.com/gin-gonic/gin"
)

// Server HTTP 服务器，持有两条抓取队列和相关后台服务
type Server struct {
	Config *config.Config
	Logger *logger.Logger
	gin    *gin.Engine
	http   *http.Server

	channelQueue  *service.IngestQueue
	videoQueue    *service.IngestQueue
	monitor       *service.QueueMonitor
	cookieWatcher *filewatcher.CookieWatcher
}

// New 创建 Server 实例并完成依赖装配
func New(cfg *config.Config, log *logger.Logger) (*Server, error) {
	router := gin.Default()

	st := store.New(database.GetDB())

	ext, err := extractor.New(cfg.Extractor, log)
	if err != nil {
		return nil, err
	}

	channelSvc := service.NewChannelIngestService(st, ext, log)
	videoSvc := service.NewVideoIngestService(st, ext, log)

	// 两条队列相互独立；视频任务发现的频道依赖由视频队列转发到频道队列尾部
	channelQueue := service.NewIngestQueue("channels", channelSvc.Ingest, nil, log)
	videoQueue := service.NewIngestQueue("videos", videoSvc.Ingest, channelQueue, log)

	cookieWatcher, err := filewatcher.New(cfg.Extractor.CookieFile, log)
	if err != nil {
		return nil, err
	}

	s := &Server{
		gin: router,
		http: &http.Server{
			Addr:    ":" + cfg.Server.Port,
			Handler: router,
		},
		Config:        cfg,
		Logger:        log,
		channelQueue:  channelQueue,
		videoQueue:    videoQueue,
		cookieWatcher: cookieWatcher,
	}

	if cfg.Monitor.Enabled {
		monitor, err := service.NewQueueMonitor(cfg.Monitor.CronSpec,
			[]*service.IngestQueue{channelQueue, videoQueue}, log)
		if err != nil {
			return nil, err
		}
		s.monitor = monitor
	}

	// 设置路由
	s.setupRoutes(st)

	return s, nil
}

// Start 启动队列、后台服务和 HTTP 服务器
func (s *Server) Start() error {
	s.Logger.Infof("在端口 %s 启动服务器", s.http.Addr)

	s.channelQueue.Start()
	s.videoQueue.Start()
	if s.monitor != nil {
		s.monitor.Start()
	}
	s.cookieWatcher.Start()

	return s.http.ListenAndServe()
}

// Shutdown 优雅关闭：先停队列（进行中的任务会先完成），再关 HTTP 和数据库
func (s *Server) Shutdown(ctx context.Context) error {
	s.channelQueue.Stop()
	s.videoQueue.Stop()
	if s.monitor != nil {
		s.monitor.Stop()
	}
	s.cookieWatcher.Stop()

	if err := database.Close(); err != nil {
		s.Logger.Errorf("关闭数据库连接失败: %v", err)
	}
	return s.http.Shutdown(ctx)
}

// setupRoutes 设置API路由
func (s *Server) setupRoutes(st *store.Store) {
	channelHandler := handler.NewChannelHandler(st, s.channelQueue)
	videoHandler := handler.NewVideoHandler(st, s.videoQueue)

	// 频道相关路由
	s.gin.GET("/channels", channelHandler.ListChannels)
	s.gin.GET("/channels/search", channelHandler.SearchChannels)
	s.gin.GET("/channels/add", channelHandler.AddChannel)
	s.gin.GET("/channels/status", channelHandler.ChannelStatus)
	s.gin.GET("/channel/:id", channelHandler.GetChannel)
	s.gin.GET("/channel/:id/videos", channelHandler.ListChannelVideos)

	// 视频相关路由
	s.gin.GET("/video/:id", videoHandler.GetVideo)
	s.gin.GET("/videos/add", videoHandler.AddVideo)
	s.gin.GET("/videos/status", videoHandler.VideoStatus)
}
