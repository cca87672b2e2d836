// Package config 提供基于结构体标签的配置加载
// 加载顺序：默认值 -> yaml文件（可选） -> 环境变量 -> 校验
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config 服务配置
type Config struct {
	App      AppConfig      `yaml:"app"`
	Server   ServerConfig   `yaml:"server"`
	Storage  StorageConfig  `yaml:"storage"`
	Pipeline PipelineConfig `yaml:"pipeline"`
}

// AppConfig 应用配置
type AppConfig struct {
	Name  string `yaml:"name" env:"APP_NAME" default:"inkseal"`
	Debug bool   `yaml:"debug" env:"APP_DEBUG" default:"false"`
}

// ServerConfig HTTP服务配置
type ServerConfig struct {
	Host    string        `yaml:"host" env:"SERVER_HOST" default:"0.0.0.0"`
	Port    int           `yaml:"port" env:"SERVER_PORT" default:"8080" validate:"min=1,max=65535"`
	Mode    string        `yaml:"mode" env:"SERVER_MODE" default:"release" validate:"oneof=debug release test"`
	Timeout time.Duration `yaml:"timeout" env:"SERVER_TIMEOUT" default:"120s"`
}

// StorageConfig MinIO对象存储配置
type StorageConfig struct {
	Endpoint        string `yaml:"endpoint" env:"MINIO_ENDPOINT" default:"localhost:9000"`
	AccessKeyID     string `yaml:"access_key_id" env:"MINIO_ACCESS_KEY_ID" default:"minioadmin"`
	SecretAccessKey string `yaml:"secret_access_key" env:"MINIO_SECRET_ACCESS_KEY" default:"minioadmin"`
	UseSSL          bool   `yaml:"use_ssl" env:"MINIO_USE_SSL" default:"false"`
	BucketName      string `yaml:"bucket_name" env:"MINIO_BUCKET_NAME" default:"inkseal" validate:"required"`
	Region          string `yaml:"region" env:"MINIO_REGION" default:"us-east-1"`
}

// PipelineConfig 合成流水线配置
type PipelineConfig struct {
	// DownloadTimeout 单次源文件下载超时
	DownloadTimeout time.Duration `yaml:"download_timeout" env:"PIPELINE_DOWNLOAD_TIMEOUT" default:"60s"`

	// MaxDownloadBytes 单个文件最大下载字节数，防止资源耗尽
	MaxDownloadBytes int64 `yaml:"max_download_bytes" env:"PIPELINE_MAX_DOWNLOAD_BYTES" default:"52428800" validate:"min=1"`

	// MaxAttachments 单次合并处理的附件数上限
	MaxAttachments int `yaml:"max_attachments" env:"PIPELINE_MAX_ATTACHMENTS" default:"20" validate:"min=0"`

	// DownloadURLTTL 为存储对象生成的预签名URL有效期
	DownloadURLTTL time.Duration `yaml:"download_url_ttl" env:"PIPELINE_DOWNLOAD_URL_TTL" default:"1h"`

	// OutputPrefix 结果文件在存储桶内的前缀
	OutputPrefix string `yaml:"output_prefix" env:"PIPELINE_OUTPUT_PREFIX" default:"signed"`
}

// Load 加载配置，configPath为空或文件不存在时跳过文件加载
func Load(configPath string) (*Config, error) {
	cfg := &Config{}

	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("apply defaults failed: %w", err)
	}

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("unmarshal config file failed: %w", err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config file failed: %w", err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env failed: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate 校验配置
func Validate(cfg *Config) error {
	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("validate config failed: %w", err)
	}

	if cfg.Pipeline.DownloadTimeout <= 0 {
		return fmt.Errorf("invalid DownloadTimeout: %v", cfg.Pipeline.DownloadTimeout)
	}
	if cfg.Pipeline.DownloadURLTTL <= 0 {
		return fmt.Errorf("invalid DownloadURLTTL: %v", cfg.Pipeline.DownloadURLTTL)
	}

	return nil
}
