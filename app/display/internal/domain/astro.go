package domain

import (
	"fmt"
	"time"

	dm "github.com/iWorld-y/astro_companion/app/astro/pkg/model"
)

// Profile 用户资料的接口表示，日期为 YYYY-MM-DD
type Profile struct {
	Name      string `json:"name"`
	Birthday  string `json:"birthday"`
	BirthTime string `json:"birth_time,omitempty"`
	City      string `json:"city"`
	State     string `json:"state"`
}

// ProfileFromModel 转换为接口表示
func ProfileFromModel(p *dm.Profile) *Profile {
	return &Profile{
		Name:      p.Name,
		Birthday:  p.Birthday.Format(dm.DateLayout),
		BirthTime: p.BirthTime,
		City:      p.City,
		State:     p.State,
	}
}

// Model 转换为领域模型
func (p *Profile) Model() (*dm.Profile, error) {
	birthday, err := time.Parse(dm.DateLayout, p.Birthday)
	if err != nil {
		return nil, fmt.Errorf("birthday must be YYYY-MM-DD")
	}
	return &dm.Profile{
		Name:      p.Name,
		Birthday:  birthday,
		BirthTime: p.BirthTime,
		City:      p.City,
		State:     p.State,
	}, nil
}

// ChartReply 星盘
type ChartReply struct {
	Planets []dm.Planet `json:"planets"`
}

// CompatibilityRequest 兼容性分析请求
type CompatibilityRequest struct {
	Kind     string `json:"kind"`
	Name     string `json:"name"`
	Birthday string `json:"birthday"`
}

// StartConversationRequest 开始对话
type StartConversationRequest struct {
	Topic int `json:"topic"`
}

// StartConversationReply 对话 ID 和开场白
type StartConversationReply struct {
	ID      string `json:"id"`
	Opening string `json:"opening"`
}

// MessageRequest 对话消息
type MessageRequest struct {
	Text string `json:"text"`
}

// MessageReply 助手回复和完整记录
type MessageReply struct {
	Reply      string   `json:"reply"`
	Transcript []string `json:"transcript"`
}
