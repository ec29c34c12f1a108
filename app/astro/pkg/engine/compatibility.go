package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/iWorld-y/astro_companion/app/astro/pkg/compat"
	"github.com/iWorld-y/astro_companion/app/astro/pkg/logger"
	dm "github.com/iWorld-y/astro_companion/app/astro/pkg/model"
)

// Compatibility 为当前用户和对方生成一份兼容性报告。
// 每次调用得到全新的报告，不与之前的结果合并。
func (e *Engine) Compatibility(ctx context.Context, kind dm.Kind, partner dm.Person) (*compat.Report, error) {
	if strings.TrimSpace(partner.Name) == "" {
		return nil, fmt.Errorf("partner name is required")
	}
	p, err := e.Profile(ctx)
	if err != nil {
		return nil, err
	}

	requestID := uuid.NewString()
	log := logger.WithRequest(requestID)
	log.Infof("开始生成 %s 兼容性分析: %s & %s", kind, p.Name, partner.Name)

	user := dm.Person{Name: p.Name, Birthday: p.Birthday}
	report, err := e.analyzer.Compatibility(ctx, user, partner, kind)
	if err != nil {
		log.Errorf("兼容性分析失败: %v", err)
		return nil, err
	}

	log.Infof("兼容性分析完成: %d 项优势, %d 项劣势, %d 条建议",
		len(report.Strengths.Aspects), len(report.Weaknesses.Aspects), len(report.Tips))
	return report, nil
}
