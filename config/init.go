package config

import (
	"monitoria-system/tools"
	"strings"
	"sync"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

var (
	cfg  *Config
	once sync.Once
)

// Init 读取 config.yaml，再用 MONITORIA_ 前缀的环境变量覆盖
func Init() {
	once.Do(func() {
		c := &Config{}
		setDefaults(c)

		v := viper.New()
		v.SetConfigType("yaml")
		if path := tools.SearchFile("config.yaml"); path != "" {
			v.SetConfigFile(path)
			tools.PanicOnErr(v.ReadInConfig())
			tools.PanicOnErr(v.Unmarshal(c))
		}

		tools.PanicOnErr(envconfig.Process("MONITORIA", c))
		c.Prefix = strings.Trim(c.Prefix, "/")
		cfg = c
	})
}

// Set 直接替换全局配置，测试使用
func Set(c *Config) {
	once.Do(func() {})
	cfg = c
}

func Get() *Config {
	if cfg == nil {
		Init()
	}
	return cfg
}

func setDefaults(c *Config) {
	c.Host = "0.0.0.0"
	c.Port = "8080"
	c.Prefix = "api"
	c.Mode = ModeDebug
	c.Log.Level = "info"
	c.JWT.AccessExpire = 7200
	c.Renderer.Timeout = 30 * time.Second
	c.Workflow.DownloadURLTTL = time.Hour
	c.Workflow.SignatureRateLimit = 30
}
