package chart

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/iWorld-y/astro_companion/app/astro/pkg/config"
	"github.com/iWorld-y/astro_companion/app/astro/pkg/metrics"
	dm "github.com/iWorld-y/astro_companion/app/astro/pkg/model"
)

const birthChartPath = "/api/v4/birth-chart"

// ErrNoPlanetData 响应中没有 data 字段
var ErrNoPlanetData = errors.New("chart: planet data not found in response")

// Client astrologer 星盘接口客户端
type Client struct {
	baseURL  string
	apiKey   string
	host     string
	timezone string
	client   *http.Client
	metrics  *metrics.Manager
}

// NewClient 创建星盘客户端
func NewClient(cfg config.ChartConfig, m *metrics.Manager) *Client {
	t := time.Duration(cfg.Timeout) * time.Second
	if t == 0 {
		t = 10 * time.Second
	}
	return &Client{
		baseURL:  strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:   cfg.APIKey,
		host:     cfg.Host,
		timezone: cfg.Timezone,
		client:   &http.Client{Timeout: t},
		metrics:  m,
	}
}

// Subject 星盘请求中的出生信息
type Subject struct {
	Name       string  `json:"name"`
	Year       int     `json:"year"`
	Month      int     `json:"month"`
	Day        int     `json:"day"`
	Hour       int     `json:"hour"`
	Minute     int     `json:"minute"`
	Longitude  float64 `json:"longitude"`
	Latitude   float64 `json:"latitude"`
	City       string  `json:"city"`
	Timezone   string  `json:"timezone"`
	ZodiacType string  `json:"zodiac_type"`
}

// BirthChartRequest 请求体
type BirthChartRequest struct {
	Subject Subject `json:"subject"`
}

// NewSubject 由出生时刻和坐标构造请求主体，时区使用客户端配置
func (c *Client) NewSubject(name, city string, birth time.Time, lat, lng float64) Subject {
	return Subject{
		Name:       name,
		Year:       birth.Year(),
		Month:      int(birth.Month()),
		Day:        birth.Day(),
		Hour:       birth.Hour(),
		Minute:     birth.Minute(),
		Longitude:  lng,
		Latitude:   lat,
		City:       city,
		Timezone:   c.timezone,
		ZodiacType: "Tropic",
	}
}

// BirthChart 请求星盘并提取行星列表
func (c *Client) BirthChart(ctx context.Context, subject Subject) (planets []dm.Planet, err error) {
	start := time.Now()
	defer func() { c.metrics.ObserveUpstream(metrics.UpstreamChart, start, err) }()

	payload, err := json.Marshal(BirthChartRequest{Subject: subject})
	if err != nil {
		return nil, fmt.Errorf("marshal request failed: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+birthChartPath, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-RapidAPI-Key", c.apiKey)
	httpReq.Header.Set("X-RapidAPI-Host", c.host)

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
		return nil, fmt.Errorf("chart api error (status %d): %s", res.StatusCode, string(body))
	}

	var resp struct {
		Data map[string]json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal response failed: %w", err)
	}
	if resp.Data == nil {
		return nil, ErrNoPlanetData
	}

	return ExtractPlanets(resp.Data), nil
}
