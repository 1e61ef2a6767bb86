package extractor

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"time"

	"tube-fusion/app/config"
	"tube-fusion/app/logger"
)

// BinaryExtractor 调用本地 yt-dlp 可执行文件提取元数据
type BinaryExtractor struct {
	binaryPath string
	cookieFile string
	timeout    time.Duration
	logger     *logger.Logger
}

// NewBinary 创建本地 yt-dlp 提取器
func NewBinary(cfg config.ExtractorConfig, log *logger.Logger) *BinaryExtractor {
	return &BinaryExtractor{
		binaryPath: cfg.BinaryPath,
		cookieFile: cfg.CookieFile,
		timeout:    time.Duration(cfg.Timeout) * time.Second,
		logger:     log,
	}
}

// Extract 执行 yt-dlp -J 并解析输出
func (e *BinaryExtractor) Extract(ctx context.Context, url string, flat bool) (*Info, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	args := []string{"-J", "--skip-download", "--no-warnings"}
	if flat {
		args = append(args, "--flat-playlist")
	}
	if e.cookieFile != "" {
		// yt-dlp 每次调用都重新读取 cookies 文件，文件更新无需重启
		args = append(args, "--cookies", e.cookieFile)
	}
	args = append(args, url)

	cmd := exec.CommandContext(ctx, e.binaryPath, args...)

	var out bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	e.logger.Debugf("执行 yt-dlp: url=%s flat=%v", url, flat)
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("yt-dlp 执行失败: %w, stderr: %s", err, stderr.String())
	}

	if out.Len() == 0 {
		return nil, fmt.Errorf("yt-dlp 未返回任何输出")
	}

	return DecodeInfo(out.Bytes())
}
