package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config 项目配置结构体
type Config struct {
	LLM         LLMConfig         `yaml:"llm"`
	Chart       ChartConfig       `yaml:"chart"`
	Assistant   AssistantConfig   `yaml:"assistant"`
	Geocoder    GeocoderConfig    `yaml:"geocoder"`
	Log         LogConfig         `yaml:"log"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	Store       StoreConfig       `yaml:"store"`
}

// LLMConfig 兼容性分析使用的聊天模型配置
type LLMConfig struct {
	BaseURL    string `yaml:"base_url"`
	APIKey     string `yaml:"api_key"`
	Model      string `yaml:"model"`
	MaxTokens  int    `yaml:"max_tokens"`
	MaxRetries int    `yaml:"max_retries"`
	// LexicalTitle 为 true 时，多个候选标题键取字典序最小者而不是报错
	LexicalTitle bool `yaml:"lexical_title"`
}

// ChartConfig 星盘接口 (RapidAPI astrologer) 配置
type ChartConfig struct {
	BaseURL  string `yaml:"base_url"`
	APIKey   string `yaml:"api_key"`
	Host     string `yaml:"host"`
	Timezone string `yaml:"timezone"`
	Timeout  int    `yaml:"timeout"` // 秒
}

// AssistantConfig 对话助手接口配置
type AssistantConfig struct {
	URL     string `yaml:"url"`
	Timeout int    `yaml:"timeout"` // 秒
}

// GeocoderConfig 地理编码配置
type GeocoderConfig struct {
	BaseURL   string `yaml:"base_url"`
	UserAgent string `yaml:"user_agent"`
	Timeout   int    `yaml:"timeout"` // 秒
}

// LogConfig 日志相关配置
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// ConcurrencyConfig 并发控制配置
type ConcurrencyConfig struct {
	QPS int `yaml:"qps"`
	RPM int `yaml:"rpm"`
}

// StoreConfig 本地存储配置，driver 为 sqlite 或 postgres
type StoreConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// LoadConfig 从指定路径加载配置
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.Complete()
	return &cfg, nil
}

// Default 返回仅包含默认值的配置，供测试和无配置文件时使用
func Default() *Config {
	cfg := &Config{}
	cfg.Complete()
	return cfg
}

// Complete 应用环境变量覆盖并补全默认值，其他来源转换得到的配置也需要调用
func (c *Config) Complete() {
	c.applyEnvOverrides()
	c.applyDefaults()
}

// applyEnvOverrides 允许通过环境变量注入密钥，避免写进配置文件
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("ASTRO_LLM_API_KEY"); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("ASTRO_RAPIDAPI_KEY"); v != "" {
		c.Chart.APIKey = v
	}
	if v := os.Getenv("ASTRO_ASSISTANT_URL"); v != "" {
		c.Assistant.URL = v
	}
	if v := os.Getenv("ASTRO_STORE_DSN"); v != "" {
		c.Store.DSN = v
	}
}

func (c *Config) applyDefaults() {
	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = "https://api.openai.com/v1"
	}
	if c.LLM.Model == "" {
		c.LLM.Model = "gpt-4o"
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = 500
	}
	if c.LLM.MaxRetries == 0 {
		c.LLM.MaxRetries = 3
	}
	if c.Chart.BaseURL == "" {
		c.Chart.BaseURL = "https://astrologer.p.rapidapi.com"
	}
	if c.Chart.Host == "" {
		c.Chart.Host = "astrologer.p.rapidapi.com"
	}
	if c.Chart.Timezone == "" {
		c.Chart.Timezone = "America/Anchorage"
	}
	if c.Chart.Timeout == 0 {
		c.Chart.Timeout = 10
	}
	if c.Assistant.Timeout == 0 {
		c.Assistant.Timeout = 30
	}
	if c.Geocoder.BaseURL == "" {
		c.Geocoder.BaseURL = "https://nominatim.openstreetmap.org"
	}
	if c.Geocoder.UserAgent == "" {
		c.Geocoder.UserAgent = "astro_companion/1.0"
	}
	if c.Geocoder.Timeout == 0 {
		c.Geocoder.Timeout = 10
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Concurrency.QPS == 0 {
		c.Concurrency.QPS = 1
	}
	if c.Concurrency.RPM == 0 {
		c.Concurrency.RPM = 60
	}
	if c.Store.Driver == "" {
		c.Store.Driver = "sqlite"
	}
	if c.Store.DSN == "" && c.Store.Driver == "sqlite" {
		c.Store.DSN = "data/astro.db"
	}
}

// Validate 检查调用外部接口所必需的配置项
func (c *Config) Validate() error {
	var errs []error
	if c.LLM.APIKey == "" {
		errs = append(errs, errors.New("llm.api_key is required"))
	}
	if c.Chart.APIKey == "" {
		errs = append(errs, errors.New("chart.api_key is required"))
	}
	if c.Store.Driver != "sqlite" && c.Store.Driver != "postgres" {
		errs = append(errs, fmt.Errorf("unknown store driver: %s", c.Store.Driver))
	}
	if c.Store.DSN == "" {
		errs = append(errs, errors.New("store.dsn is required"))
	}
	return errors.Join(errs...)
}
