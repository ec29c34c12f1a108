package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iWorld-y/astro_companion/app/astro/pkg/logger"
	"github.com/iWorld-y/astro_companion/app/astro/pkg/metrics"
	dm "github.com/iWorld-y/astro_companion/app/astro/pkg/model"
	"github.com/iWorld-y/astro_companion/app/astro/pkg/storage"
)

// Chart 返回用户星盘。优先使用缓存，refresh 为 true 或没有缓存时重新请求并写回缓存。
func (e *Engine) Chart(ctx context.Context, refresh bool) ([]dm.Planet, error) {
	if !refresh {
		planets, err := e.store.LoadChart(ctx)
		if err == nil {
			return planets, nil
		}
		if !errors.Is(err, storage.ErrNotFound) {
			logger.Log.Warnf("读取星盘缓存失败，将重新获取: %v", err)
		}
	}

	p, err := e.Profile(ctx)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	loc, err := e.geocoder.Geocode(ctx, p.Location())
	e.metrics.ObserveUpstream(metrics.UpstreamGeocoder, start, err)
	if err != nil {
		return nil, fmt.Errorf("geocode %q: %w", p.Location(), err)
	}

	if err := e.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	subject := e.charter.NewSubject(p.Name, p.City, p.BirthMoment(), loc.Latitude, loc.Longitude)
	planets, err := e.charter.BirthChart(ctx, subject)
	if err != nil {
		return nil, fmt.Errorf("birth chart: %w", err)
	}

	if err := e.store.SaveChart(ctx, planets); err != nil {
		logger.Log.Errorf("保存星盘缓存失败: %v", err)
	} else {
		logger.Log.Infof("星盘已缓存，共 %d 个点位", len(planets))
	}
	return planets, nil
}
