// Package assistant 对接基于线程的对话助手接口。
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/iWorld-y/astro_companion/app/astro/pkg/config"
	"github.com/iWorld-y/astro_companion/app/astro/pkg/metrics"
)

const (
	ActionMessage = "message"
	ActionClose   = "close"
)

// ErrNotConfigured 未配置助手地址
var ErrNotConfigured = errors.New("assistant: url not configured")

// Topics 首页各入口的开场白
var Topics = []string{
	"What kind of food do you want to eat?",
	"What tech gadget are you looking for?",
	"Need help with software issues?",
	"Discover places around the world!",
}

// Request 助手请求体
type Request struct {
	UserInput string `json:"user_input"`
	Action    string `json:"action"`
	ThreadID  string `json:"thread_id,omitempty"`
}

// Response 助手响应体
type Response struct {
	Response string `json:"response"`
	ThreadID string `json:"thread_id"`
}

// Client 助手接口客户端
type Client struct {
	url     string
	client  *http.Client
	metrics *metrics.Manager
}

// NewClient 创建助手客户端
func NewClient(cfg config.AssistantConfig, m *metrics.Manager) *Client {
	t := time.Duration(cfg.Timeout) * time.Second
	if t == 0 {
		t = 30 * time.Second
	}
	return &Client{
		url:     cfg.URL,
		client:  &http.Client{Timeout: t},
		metrics: m,
	}
}

// Do 发送一次请求
func (c *Client) Do(ctx context.Context, req Request) (resp *Response, err error) {
	if c == nil || c.url == "" {
		return nil, ErrNotConfigured
	}
	start := time.Now()
	defer func() { c.metrics.ObserveUpstream(metrics.UpstreamAssistant, start, err) }()

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request failed: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	res, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read body failed: %w", err)
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("assistant api error (status %d): %s", res.StatusCode, string(body))
	}

	var out Response
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("unmarshal response failed: %w", err)
	}
	return &out, nil
}

// Session 一段对话，保存线程 ID 和聊天记录
type Session struct {
	client *Client

	mu         sync.Mutex
	threadID   string
	transcript []string
}

// NewSession 以开场白开始一段对话
func NewSession(client *Client, opening string) *Session {
	s := &Session{client: client}
	if opening != "" {
		s.transcript = append(s.transcript, opening)
	}
	return s
}

// Send 发送一条用户消息，空白输入被忽略并返回空字符串
func (s *Session) Send(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.transcript = append(s.transcript, "You: "+text)
	resp, err := s.client.Do(ctx, Request{UserInput: text, Action: ActionMessage, ThreadID: s.threadID})
	if err != nil {
		return "", err
	}
	s.transcript = append(s.transcript, "AI: "+resp.Response)
	s.threadID = resp.ThreadID
	return resp.Response, nil
}

// Close 结束线程；还没有线程时不发请求
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.threadID == "" {
		return nil
	}
	_, err := s.client.Do(ctx, Request{Action: ActionClose, ThreadID: s.threadID})
	s.threadID = ""
	return err
}

// ThreadID 当前线程 ID
func (s *Session) ThreadID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.threadID
}

// Transcript 返回聊天记录副本
func (s *Session) Transcript() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.transcript...)
}
