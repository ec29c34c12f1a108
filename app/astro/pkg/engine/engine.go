package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/iWorld-y/astro_companion/app/astro/pkg/assistant"
	"github.com/iWorld-y/astro_companion/app/astro/pkg/chart"
	"github.com/iWorld-y/astro_companion/app/astro/pkg/compat"
	"github.com/iWorld-y/astro_companion/app/astro/pkg/config"
	"github.com/iWorld-y/astro_companion/app/astro/pkg/geocode"
	"github.com/iWorld-y/astro_companion/app/astro/pkg/llm"
	"github.com/iWorld-y/astro_companion/app/astro/pkg/logger"
	"github.com/iWorld-y/astro_companion/app/astro/pkg/metrics"
	dm "github.com/iWorld-y/astro_companion/app/astro/pkg/model"
	"github.com/iWorld-y/astro_companion/app/astro/pkg/storage"
)

var (
	// ErrProfileRequired 还没有保存用户资料
	ErrProfileRequired = errors.New("profile required")
	// ErrUnknownTopic 对话入口编号越界
	ErrUnknownTopic = errors.New("unknown conversation topic")
	// ErrUnknownConversation 对话不存在或已关闭
	ErrUnknownConversation = errors.New("unknown conversation")
)

// Store 用户资料和星盘缓存
type Store interface {
	SaveProfile(ctx context.Context, p *dm.Profile) error
	LoadProfile(ctx context.Context) (*dm.Profile, error)
	IsFirstTimeUser(ctx context.Context) (bool, error)
	SaveChart(ctx context.Context, planets []dm.Planet) error
	LoadChart(ctx context.Context) ([]dm.Planet, error)
}

// Analyzer 生成兼容性报告
type Analyzer interface {
	Compatibility(ctx context.Context, user, partner dm.Person, kind dm.Kind) (*compat.Report, error)
}

// Charter 获取星盘
type Charter interface {
	NewSubject(name, city string, birth time.Time, lat, lng float64) chart.Subject
	BirthChart(ctx context.Context, subject chart.Subject) ([]dm.Planet, error)
}

// Deps 引擎依赖
type Deps struct {
	Store     Store
	Analyzer  Analyzer
	Charter   Charter
	Geocoder  geocode.Geocoder
	Assistant *assistant.Client
	Limiter   *rate.Limiter
	Metrics   *metrics.Manager
}

// Engine 核心处理引擎
type Engine struct {
	store     Store
	analyzer  Analyzer
	charter   Charter
	geocoder  geocode.Geocoder
	assistant *assistant.Client
	limiter   *rate.Limiter
	metrics   *metrics.Manager

	mu       sync.Mutex
	sessions map[string]*assistant.Session
}

// New 由已构造好的依赖创建引擎
func New(d Deps) *Engine {
	limiter := d.Limiter
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 1)
	}
	return &Engine{
		store:     d.Store,
		analyzer:  d.Analyzer,
		charter:   d.Charter,
		geocoder:  d.Geocoder,
		assistant: d.Assistant,
		limiter:   limiter,
		metrics:   d.Metrics,
		sessions:  make(map[string]*assistant.Session),
	}
}

// NewEngine 按配置初始化所有外部客户端
func NewEngine(ctx context.Context, cfg *config.Config, store *storage.Storage, m *metrics.Manager) (*Engine, error) {
	chatModel, err := llm.NewChatModel(ctx, cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("LLM 初始化失败: %w", err)
	}

	// 初始化限流器，LLM 和星盘接口共用
	limit := rate.Limit(float64(cfg.Concurrency.RPM) / 60.0)
	burst := cfg.Concurrency.QPS
	limiter := rate.NewLimiter(limit, burst)
	logger.Log.Infof("限流器已配置: Limit=%.2f req/s, Burst=%d", limit, burst)

	clientOpts := []llm.ClientOption{
		llm.WithMaxRetries(cfg.LLM.MaxRetries),
		llm.WithMetrics(m),
	}
	if cfg.LLM.LexicalTitle {
		clientOpts = append(clientOpts, llm.WithDecodeOptions(compat.WithLexicalTitle()))
	}

	return New(Deps{
		Store:     store,
		Analyzer:  llm.NewClient(chatModel, limiter, clientOpts...),
		Charter:   chart.NewClient(cfg.Chart, m),
		Geocoder:  geocode.NewClient(cfg.Geocoder),
		Assistant: assistant.NewClient(cfg.Assistant, m),
		Limiter:   limiter,
		Metrics:   m,
	}), nil
}
