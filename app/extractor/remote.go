package extractor

import (
	"context"
	"fmt"
	"time"

	"tube-fusion/app/config"
	"tube-fusion/app/logger"

	"resty.dev/v3"
)

// RemoteExtractor 通过 HTTP 网关调用 yt-dlp，
// 适用于把提取工作放在单独进程或机器上的部署方式。
type RemoteExtractor struct {
	client *resty.Client
	logger *logger.Logger
}

// extractRequest 网关请求体
type extractRequest struct {
	URL  string `json:"url"`
	Flat bool   `json:"flat"`
}

// NewRemote 创建远程网关提取器
func NewRemote(cfg config.ExtractorConfig, log *logger.Logger) *RemoteExtractor {
	client := resty.New()
	client.SetBaseURL(cfg.GatewayURL)
	client.SetTimeout(time.Duration(cfg.Timeout) * time.Second)

	return &RemoteExtractor{
		client: client,
		logger: log,
	}
}

// Extract 请求网关的 /extract 接口
func (e *RemoteExtractor) Extract(ctx context.Context, url string, flat bool) (*Info, error) {
	var info Info

	resp, err := e.client.R().
		SetContext(ctx).
		SetBody(extractRequest{URL: url, Flat: flat}).
		SetResult(&info).
		Post("/extract")

	if err != nil {
		return nil, fmt.Errorf("请求提取网关失败: %w", err)
	}

	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("提取网关返回错误，状态码: %d, 响应: %s", resp.StatusCode(), resp.String())
	}

	if info.ID == "" && len(info.Entries) == 0 {
		return nil, fmt.Errorf("提取网关返回空结果")
	}

	return &info, nil
}
