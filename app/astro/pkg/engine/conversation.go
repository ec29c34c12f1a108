package engine

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/iWorld-y/astro_companion/app/astro/pkg/assistant"
)

// StartConversation 以指定入口的开场白开始一段对话，返回对话 ID
func (e *Engine) StartConversation(topic int) (string, string, error) {
	if topic < 0 || topic >= len(assistant.Topics) {
		return "", "", fmt.Errorf("%w: %d", ErrUnknownTopic, topic)
	}
	opening := assistant.Topics[topic]
	id := uuid.NewString()

	e.mu.Lock()
	e.sessions[id] = assistant.NewSession(e.assistant, opening)
	e.mu.Unlock()
	return id, opening, nil
}

// SendMessage 在对话中发送一条消息
func (e *Engine) SendMessage(ctx context.Context, id, text string) (string, error) {
	s, err := e.session(id)
	if err != nil {
		return "", err
	}
	return s.Send(ctx, text)
}

// Transcript 返回对话记录
func (e *Engine) Transcript(id string) ([]string, error) {
	s, err := e.session(id)
	if err != nil {
		return nil, err
	}
	return s.Transcript(), nil
}

// CloseConversation 关闭对话并通知助手结束线程
func (e *Engine) CloseConversation(ctx context.Context, id string) error {
	e.mu.Lock()
	s, ok := e.sessions[id]
	delete(e.sessions, id)
	e.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownConversation, id)
	}
	return s.Close(ctx)
}

func (e *Engine) session(id string) (*assistant.Session, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, ok := e.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownConversation, id)
	}
	return s, nil
}
