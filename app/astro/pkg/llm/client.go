// Package llm 调用 OpenAI 兼容的聊天模型生成兼容性分析。
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	acl "github.com/cloudwego/eino-ext/libs/acl/openai"
	"github.com/cloudwego/eino/components/model"
	"golang.org/x/time/rate"

	"github.com/iWorld-y/astro_companion/app/astro/pkg/compat"
	"github.com/iWorld-y/astro_companion/app/astro/pkg/config"
	"github.com/iWorld-y/astro_companion/app/astro/pkg/logger"
	"github.com/iWorld-y/astro_companion/app/astro/pkg/metrics"
	dm "github.com/iWorld-y/astro_companion/app/astro/pkg/model"
)

// NewChatModel 按配置初始化聊天模型，强制 JSON 输出
func NewChatModel(ctx context.Context, cfg config.LLMConfig) (model.BaseChatModel, error) {
	maxTokens := cfg.MaxTokens
	cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL:   cfg.BaseURL,
		APIKey:    cfg.APIKey,
		Model:     cfg.Model,
		MaxTokens: &maxTokens,
		ResponseFormat: &acl.ChatCompletionResponseFormat{
			Type: acl.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("init chat model: %w", err)
	}
	return cm, nil
}

// Client 兼容性分析客户端
type Client struct {
	chatModel  model.BaseChatModel
	limiter    *rate.Limiter
	metrics    *metrics.Manager
	maxRetries int
	baseDelay  time.Duration
	decodeOpts []compat.Option
}

// ClientOption 配置 Client
type ClientOption func(*Client)

// WithMaxRetries 设置限流或解码失败时的最大重试次数
func WithMaxRetries(n int) ClientOption {
	return func(c *Client) { c.maxRetries = n }
}

// WithBaseDelay 设置 429 退避的基础时长
func WithBaseDelay(d time.Duration) ClientOption {
	return func(c *Client) { c.baseDelay = d }
}

// WithMetrics 挂载指标
func WithMetrics(m *metrics.Manager) ClientOption {
	return func(c *Client) { c.metrics = m }
}

// WithDecodeOptions 透传给 compat.Decode
func WithDecodeOptions(opts ...compat.Option) ClientOption {
	return func(c *Client) { c.decodeOpts = append(c.decodeOpts, opts...) }
}

// NewClient 创建客户端
func NewClient(cm model.BaseChatModel, limiter *rate.Limiter, opts ...ClientOption) *Client {
	c := &Client{
		chatModel:  cm,
		limiter:    limiter,
		maxRetries: 3,
		baseDelay:  2 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compatibility 请求模型并把返回内容规整为报告。
// 429 按指数退避重试，内容无法解码时直接重新请求，最多 maxRetries 次。
func (c *Client) Compatibility(ctx context.Context, user, partner dm.Person, kind dm.Kind) (*compat.Report, error) {
	messages := BuildCompatibilityMessages(user, partner, kind)
	var lastErr error

	for i := 0; i <= c.maxRetries; i++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		start := time.Now()
		resp, err := c.chatModel.Generate(ctx, messages)
		c.metrics.ObserveUpstream(metrics.UpstreamLLM, start, err)
		if err != nil {
			if isRateLimited(err) {
				lastErr = err
				if i < c.maxRetries {
					logger.Log.Warnf("模型限流，第 %d 次重试: %v", i+1, err)
					if err := sleep(ctx, c.baseDelay*time.Duration(1<<i)); err != nil {
						return nil, err
					}
					continue
				}
			}
			return nil, fmt.Errorf("generate compatibility: %w", err)
		}

		report, err := compat.Decode(resp.Content, c.decodeOpts...)
		c.metrics.ObserveDecode(err)
		if err != nil {
			lastErr = err
			logger.Log.Warnf("兼容性报告解码失败 (第 %d 次): %v", i+1, err)
			continue
		}
		return report, nil
	}
	return nil, fmt.Errorf("compatibility failed after %d attempts: %w", c.maxRetries+1, lastErr)
}

func isRateLimited(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") || strings.Contains(msg, "too many requests")
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// IsDecodeError 判断错误是否来自报告解码（而不是网络）
func IsDecodeError(err error) bool {
	var de *compat.DecodeError
	return errors.As(err, &de)
}
