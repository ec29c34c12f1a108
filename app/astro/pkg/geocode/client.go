package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/iWorld-y/astro_companion/app/astro/pkg/config"
)

// ErrNoLocation 地址没有匹配结果
var ErrNoLocation = errors.New("geocode: no location found")

// Location 经纬度
type Location struct {
	Latitude  float64
	Longitude float64
}

// Geocoder 把地址解析为经纬度
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*Location, error)
}

// Client Nominatim 风格的地理编码客户端
type Client struct {
	baseURL   string
	userAgent string
	client    *http.Client
}

// Ensure Client implements Geocoder
var _ Geocoder = (*Client)(nil)

// NewClient 创建地理编码客户端
func NewClient(cfg config.GeocoderConfig) *Client {
	t := time.Duration(cfg.Timeout) * time.Second
	if t == 0 {
		t = 10 * time.Second
	}
	return &Client{
		baseURL:   cfg.BaseURL,
		userAgent: cfg.UserAgent,
		client:    &http.Client{Timeout: t},
	}
}

type searchResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Geocode 取第一个匹配结果
func (c *Client) Geocode(ctx context.Context, address string) (*Location, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	u.Path = "/search"

	q := u.Query()
	q.Set("q", address)
	q.Set("format", "json")
	q.Set("limit", "1")
	u.RawQuery = q.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}
	httpReq.Header.Set("User-Agent", c.userAgent)

	res, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("geocoder error (status %d): %s", res.StatusCode, string(body))
	}

	var results []searchResult
	if err := json.NewDecoder(res.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("decode response failed: %w", err)
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoLocation, address)
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid latitude %q: %w", results[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid longitude %q: %w", results[0].Lon, err)
	}
	return &Location{Latitude: lat, Longitude: lon}, nil
}
