package model

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout 生日的存储格式
const DateLayout = time.DateOnly

// TimeLayout 出生时间的存储格式
const TimeLayout = "15:04"

// Profile 用户资料
type Profile struct {
	Name      string    `json:"name"`
	Birthday  time.Time `json:"birthday"`
	BirthTime string    `json:"birth_time"` // HH:MM，可为空
	City      string    `json:"city"`
	State     string    `json:"state"`
}

// Validate 检查资料是否可用于生成星盘和兼容性分析
func (p *Profile) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if p.Birthday.IsZero() {
		return fmt.Errorf("birthday is required")
	}
	if p.BirthTime != "" {
		if _, err := time.Parse(TimeLayout, p.BirthTime); err != nil {
			return fmt.Errorf("birth time must be HH:MM: %w", err)
		}
	}
	return nil
}

// BirthMoment 合并生日与出生时间，未填出生时间时取 00:00
func (p *Profile) BirthMoment() time.Time {
	y, m, d := p.Birthday.Date()
	hour, minute := 0, 0
	if t, err := time.Parse(TimeLayout, p.BirthTime); err == nil {
		hour, minute = t.Hour(), t.Minute()
	}
	return time.Date(y, m, d, hour, minute, 0, 0, time.UTC)
}

// Location 用于地理编码的地址
func (p *Profile) Location() string {
	return fmt.Sprintf("%s, %s", p.City, p.State)
}

// Person 兼容性分析中的一方
type Person struct {
	Name     string    `json:"name"`
	Birthday time.Time `json:"birthday"`
}

// Kind 兼容性类型
type Kind string

const (
	KindFriendship Kind = "friendship"
	KindPartner    Kind = "partner"
)

// ParseKind 解析兼容性类型
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindFriendship, KindPartner:
		return k, nil
	default:
		return "", fmt.Errorf("unknown compatibility kind: %q", s)
	}
}

// Planet 星盘中的一个行星或点位
type Planet struct {
	Name       string  `json:"name"`
	Quality    string  `json:"quality"`
	Element    string  `json:"element"`
	Sign       string  `json:"sign"`
	SignNum    int     `json:"sign_num"`
	Position   float64 `json:"position"`
	AbsPos     float64 `json:"abs_pos"`
	Emoji      string  `json:"emoji"`
	PointType  string  `json:"point_type"`
	House      string  `json:"house"`
	Retrograde bool    `json:"retrograde"`
}
