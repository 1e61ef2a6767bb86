package config

import (
	"fmt"
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Extractor ExtractorConfig `mapstructure:"extractor"`
	Monitor   MonitorConfig   `mapstructure:"monitor"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`      // json 或 text
	Output     string `mapstructure:"output"`      // stdout 或 file
	MaxSize    int    `mapstructure:"max_size"`    // 兆字节
	MaxBackups int    `mapstructure:"max_backups"` // 备份数量
	MaxAge     int    `mapstructure:"max_age"`     // 天数
	Compress   bool   `mapstructure:"compress"`    // 是否压缩旧文件
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"` // sqlite 数据库文件路径
}

type ExtractorConfig struct {
	Mode       string `mapstructure:"mode"`        // binary 或 remote
	BinaryPath string `mapstructure:"binary_path"` // yt-dlp 可执行文件路径
	GatewayURL string `mapstructure:"gateway_url"` // remote 模式下的 yt-dlp 网关地址
	CookieFile string `mapstructure:"cookie_file"` // cookies 文件路径（可选）
	Timeout    int    `mapstructure:"timeout"`     // 单次提取超时（秒）
}

type MonitorConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	CronSpec string `mapstructure:"cron_spec"` // 队列状态汇总的调度表达式
}

func Load() *Config {
	setDefaults()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		log.Fatalf("无法解码配置: %v", err)
	}

	// 验证配置
	if err := validateConfig(&config); err != nil {
		log.Fatalf("配置验证失败: %v", err)
	}

	return &config
}

// setDefaults 设置默认配置
func setDefaults() {
	viper.SetDefault("server.port", "8000")

	// 日志默认配置
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")
	viper.SetDefault("log.output", "stdout")
	viper.SetDefault("log.max_size", 100)
	viper.SetDefault("log.max_backups", 3)
	viper.SetDefault("log.max_age", 28)
	viper.SetDefault("log.compress", true)

	// 数据库默认配置
	viper.SetDefault("database.path", "data/tube-fusion.db")

	// 提取器默认配置
	viper.SetDefault("extractor.mode", "binary")
	viper.SetDefault("extractor.binary_path", "yt-dlp")
	viper.SetDefault("extractor.timeout", 120)

	// 队列监控默认配置
	viper.SetDefault("monitor.enabled", true)
	viper.SetDefault("monitor.cron_spec", "@every 10m")
}

// validateConfig 验证配置的有效性
func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return fmt.Errorf("服务器端口未设置")
	}
	if config.Database.Path == "" {
		return fmt.Errorf("数据库路径未设置")
	}
	switch config.Extractor.Mode {
	case "binary":
		if config.Extractor.BinaryPath == "" {
			return fmt.Errorf("binary 模式下未设置 yt-dlp 路径")
		}
	case "remote":
		if config.Extractor.GatewayURL == "" {
			return fmt.Errorf("remote 模式下未设置网关地址")
		}
	default:
		return fmt.Errorf("未知的提取器模式: %s", config.Extractor.Mode)
	}
	if config.Extractor.Timeout <= 0 {
		return fmt.Errorf("提取超时必须为正数")
	}
	return nil
}
