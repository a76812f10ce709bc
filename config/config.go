package config

import "time"

type Mode string

const (
	ModeDebug   Mode = "debug"
	ModeRelease Mode = "release"
)

type Config struct {
	Host     string `envconfig:"HOST"`
	Port     string `envconfig:"PORT"`
	Prefix   string `envconfig:"PREFIX"`
	Mode     Mode   `envconfig:"MODE"`
	Mysql    Mysql
	Redis    Redis
	JWT      JWT
	Log      Log `mapstructure:"Log"`
	Sentry   Sentry
	S3       S3
	Renderer Renderer
	Kafka    Kafka
	Workflow Workflow
}

type S3 struct {
	Endpoint        string `mapstructure:"endpoint" envconfig:"ENDPOINT"`
	Bucket          string `mapstructure:"bucket" envconfig:"BUCKET"`
	Region          string `mapstructure:"region" envconfig:"REGION"`
	AccessKey       string `mapstructure:"access_key" envconfig:"ACCESS_KEY"`
	SecretAccessKey string `mapstructure:"secret_key" envconfig:"SECRET_KEY"`
	Prefix          string `mapstructure:"prefix" envconfig:"PREFIX"`
	UsePathStyle    bool   `mapstructure:"path_style" envconfig:"PATH_STYLE"`
}

type Mysql struct {
	Host     string `envconfig:"HOST"`
	Port     string `envconfig:"PORT"`
	Username string `envconfig:"USERNAME"`
	Password string `envconfig:"PASSWORD"`
	DBName   string `envconfig:"DB_NAME"`
}

type Redis struct {
	Host     string `mapstructure:"host" envconfig:"HOST"`
	Port     string `mapstructure:"port" envconfig:"PORT"`
	Password string `mapstructure:"password" envconfig:"PASSWORD"`
	DB       int    `mapstructure:"db" envconfig:"DB"`
}

type JWT struct {
	AccessSecret string `envconfig:"ACCESS_SECRET"`
	AccessExpire int64  `envconfig:"ACCESS_EXPIRE"`
}

type Log struct {
	FilePath   string `envconfig:"LOG_FILE_PATH" mapstructure:"file_path"`     // 日志文件路径
	Level      string `envconfig:"LOG_LEVEL" mapstructure:"level"`             // 日志级别：debug, info, warn, error
	MaxSize    int    `envconfig:"LOG_MAX_SIZE" mapstructure:"max_size"`       // 日志文件最大大小（MB）
	MaxBackups int    `envconfig:"LOG_MAX_BACKUPS" mapstructure:"max_backups"` // 保留的旧日志文件数
	MaxAge     int    `envconfig:"LOG_MAX_AGE" mapstructure:"max_age"`         // 日志文件保留天数
	Compress   bool   `envconfig:"LOG_COMPRESS" mapstructure:"compress"`       // 是否压缩旧日志文件
}

type Sentry struct {
	Dsn         string  `mapstructure:"dsn" envconfig:"DSN"`
	Environment string  `mapstructure:"environment" envconfig:"ENVIRONMENT"`
	SampleRate  float64 `mapstructure:"sample_rate" envconfig:"SAMPLE_RATE"`
	Tracing     Tracing `mapstructure:"tracing" envconfig:"TRACING"`
}

// Tracing 数据库、Redis、外部 HTTP 调用的 span 采集
type Tracing struct {
	SlowThreshold  time.Duration `mapstructure:"slow_threshold" envconfig:"SLOW_THRESHOLD"` // 低于该耗时的 span 不上报，0 表示全部上报
	TraceHTTPCalls bool          `mapstructure:"trace_http_calls" envconfig:"TRACE_HTTP_CALLS"`
}

// Renderer PDF 渲染服务
type Renderer struct {
	BaseURL string        `mapstructure:"base_url" envconfig:"BASE_URL"`
	Timeout time.Duration `mapstructure:"timeout" envconfig:"TIMEOUT"`
}

// Kafka 邮件通知投递，Broker 为空时不发送
type Kafka struct {
	Broker   string `mapstructure:"broker" envconfig:"BROKER"`
	Topic    string `mapstructure:"topic" envconfig:"TOPIC"`
	Username string `mapstructure:"username" envconfig:"USERNAME"`
	Password string `mapstructure:"password" envconfig:"PASSWORD"`
}

type Workflow struct {
	PublicBaseURL      string        `mapstructure:"public_base_url" envconfig:"PUBLIC_BASE_URL"`           // 前端地址，用于拼接签名链接
	DownloadURLTTL     time.Duration `mapstructure:"download_url_ttl" envconfig:"DOWNLOAD_URL_TTL"`         // 文件下载链接有效期
	SignatureRateLimit int           `mapstructure:"signature_rate_limit" envconfig:"SIGNATURE_RATE_LIMIT"` // 公开签名接口每分钟请求上限
}
