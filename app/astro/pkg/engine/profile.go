package engine

import (
	"context"
	"errors"
	"fmt"

	dm "github.com/iWorld-y/astro_companion/app/astro/pkg/model"
	"github.com/iWorld-y/astro_companion/app/astro/pkg/storage"
)

// Profile 读取用户资料
func (e *Engine) Profile(ctx context.Context) (*dm.Profile, error) {
	p, err := e.store.LoadProfile(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrProfileRequired
	}
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	return p, nil
}

// SaveProfile 校验并保存用户资料
func (e *Engine) SaveProfile(ctx context.Context, p *dm.Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if err := e.store.SaveProfile(ctx, p); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

// IsFirstTimeUser 是否需要先填写资料
func (e *Engine) IsFirstTimeUser(ctx context.Context) (bool, error) {
	return e.store.IsFirstTimeUser(ctx)
}
