package server

import (
	"context"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/astro_companion/app/astro/pkg/config"
	"github.com/iWorld-y/astro_companion/app/astro/pkg/engine"
	astroLogger "github.com/iWorld-y/astro_companion/app/astro/pkg/logger"
	"github.com/iWorld-y/astro_companion/app/astro/pkg/metrics"
	"github.com/iWorld-y/astro_companion/app/astro/pkg/storage"
	"github.com/iWorld-y/astro_companion/app/display/internal/conf"
)

// NewMetrics 创建服务内共享的指标管理器
func NewMetrics() *metrics.Manager {
	return metrics.NewManager()
}

// AstroConfig 将 internal/conf.Astro 转换为 pkg/config.Config 并补全默认值
func AstroConfig(c *conf.Astro) *config.Config {
	cfg := &config.Config{}
	if c == nil {
		cfg.Complete()
		return cfg
	}
	if c.Llm != nil {
		cfg.LLM = config.LLMConfig{
			BaseURL:      c.Llm.BaseUrl,
			APIKey:       c.Llm.ApiKey,
			Model:        c.Llm.Model,
			MaxTokens:    int(c.Llm.MaxTokens),
			MaxRetries:   int(c.Llm.MaxRetries),
			LexicalTitle: c.Llm.LexicalTitle,
		}
	}
	if c.Chart != nil {
		cfg.Chart = config.ChartConfig{
			BaseURL:  c.Chart.BaseUrl,
			APIKey:   c.Chart.ApiKey,
			Host:     c.Chart.Host,
			Timezone: c.Chart.Timezone,
			Timeout:  int(c.Chart.Timeout),
		}
	}
	if c.Assistant != nil {
		cfg.Assistant = config.AssistantConfig{
			URL:     c.Assistant.Url,
			Timeout: int(c.Assistant.Timeout),
		}
	}
	if c.Geocoder != nil {
		cfg.Geocoder = config.GeocoderConfig{
			BaseURL:   c.Geocoder.BaseUrl,
			UserAgent: c.Geocoder.UserAgent,
			Timeout:   int(c.Geocoder.Timeout),
		}
	}
	if c.Log != nil {
		cfg.Log = config.LogConfig{Level: c.Log.Level, File: c.Log.File}
	}
	if c.Concurrency != nil {
		cfg.Concurrency = config.ConcurrencyConfig{
			QPS: int(c.Concurrency.Qps),
			RPM: int(c.Concurrency.Rpm),
		}
	}
	if c.Store != nil {
		cfg.Store = config.StoreConfig{Driver: c.Store.Driver, DSN: c.Store.Dsn}
	}
	cfg.Complete()
	return cfg
}

// NewAstroEngine 初始化 astro 引擎
func NewAstroEngine(c *conf.Astro, m *metrics.Manager, logger log.Logger) (*engine.Engine, func(), error) {
	helper := log.NewHelper(logger)
	cfg := AstroConfig(c)

	// 初始化日志
	if err := astroLogger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		helper.Errorf("Failed to init astro logger: %v", err)
		_ = astroLogger.InitLogger("info", "") // 降级处理
	}
	if err := cfg.Validate(); err != nil {
		helper.Warnf("astro config incomplete: %v", err)
	}

	// 初始化存储层
	store, err := storage.NewStorage(cfg.Store)
	if err != nil {
		helper.Errorf("Failed to init storage for engine: %v", err)
		return nil, nil, err
	}

	// 初始化核心引擎
	eng, err := engine.NewEngine(context.Background(), cfg, store, m)
	if err != nil {
		_ = store.Close()
		helper.Errorf("Failed to init engine: %v", err)
		return nil, nil, err
	}

	cleanup := func() {
		helper.Info("Cleaning up astro engine")
		if err := store.Close(); err != nil {
			helper.Errorf("close storage: %v", err)
		}
	}
	return eng, cleanup, nil
}
