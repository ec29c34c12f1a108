package usecase

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/astro_companion/app/astro/pkg/assistant"
	"github.com/iWorld-y/astro_companion/app/astro/pkg/compat"
	"github.com/iWorld-y/astro_companion/app/astro/pkg/engine"
	dm "github.com/iWorld-y/astro_companion/app/astro/pkg/model"
	"github.com/iWorld-y/astro_companion/app/display/internal/domain"
	"github.com/iWorld-y/astro_companion/app/display/internal/repo"
)

// ReasonReportMalformed 模型返回的报告无法解析
const ReasonReportMalformed = "REPORT_MALFORMED"

// AstroUseCase 资料、星盘、兼容性和对话业务逻辑
type AstroUseCase struct {
	repo repo.AstroRepo
	log  *log.Helper
}

// NewAstroUseCase 创建业务逻辑实例
func NewAstroUseCase(repo repo.AstroRepo, logger log.Logger) *AstroUseCase {
	return &AstroUseCase{repo: repo, log: log.NewHelper(logger)}
}

// GetProfile 获取用户资料
func (uc *AstroUseCase) GetProfile(ctx context.Context) (*domain.Profile, error) {
	p, err := uc.repo.Profile(ctx)
	if err != nil {
		return nil, uc.toError(err)
	}
	return domain.ProfileFromModel(p), nil
}

// SaveProfile 校验并保存用户资料
func (uc *AstroUseCase) SaveProfile(ctx context.Context, in *domain.Profile) (*domain.Profile, error) {
	p, err := in.Model()
	if err != nil {
		return nil, errors.BadRequest("INVALID_PROFILE", err.Error())
	}
	if err := p.Validate(); err != nil {
		return nil, errors.BadRequest("INVALID_PROFILE", err.Error())
	}
	if err := uc.repo.SaveProfile(ctx, p); err != nil {
		return nil, uc.toError(err)
	}
	return domain.ProfileFromModel(p), nil
}

// Chart 获取星盘
func (uc *AstroUseCase) Chart(ctx context.Context, refresh bool) (*domain.ChartReply, error) {
	planets, err := uc.repo.Chart(ctx, refresh)
	if err != nil {
		return nil, uc.toError(err)
	}
	return &domain.ChartReply{Planets: planets}, nil
}

// Compatibility 生成兼容性报告
func (uc *AstroUseCase) Compatibility(ctx context.Context, in *domain.CompatibilityRequest) (*compat.Report, error) {
	kind, err := dm.ParseKind(in.Kind)
	if err != nil {
		return nil, errors.BadRequest("INVALID_KIND", err.Error())
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, errors.BadRequest("INVALID_PARTNER", "name is required")
	}
	birthday, err := time.Parse(dm.DateLayout, in.Birthday)
	if err != nil {
		return nil, errors.BadRequest("INVALID_PARTNER", "birthday must be YYYY-MM-DD")
	}

	report, err := uc.repo.Compatibility(ctx, kind, dm.Person{Name: in.Name, Birthday: birthday})
	if err != nil {
		return nil, uc.toError(err)
	}
	return report, nil
}

// StartConversation 开始对话
func (uc *AstroUseCase) StartConversation(ctx context.Context, in *domain.StartConversationRequest) (*domain.StartConversationReply, error) {
	id, opening, err := uc.repo.StartConversation(in.Topic)
	if err != nil {
		return nil, uc.toError(err)
	}
	return &domain.StartConversationReply{ID: id, Opening: opening}, nil
}

// SendMessage 发送对话消息
func (uc *AstroUseCase) SendMessage(ctx context.Context, id string, in *domain.MessageRequest) (*domain.MessageReply, error) {
	reply, err := uc.repo.SendMessage(ctx, id, in.Text)
	if err != nil {
		return nil, uc.toError(err)
	}
	transcript, err := uc.repo.Transcript(id)
	if err != nil {
		return nil, uc.toError(err)
	}
	return &domain.MessageReply{Reply: reply, Transcript: transcript}, nil
}

// CloseConversation 结束对话
func (uc *AstroUseCase) CloseConversation(ctx context.Context, id string) error {
	if err := uc.repo.CloseConversation(ctx, id); err != nil {
		return uc.toError(err)
	}
	return nil
}

// toError 将引擎错误转换为带状态码的 kratos 错误
func (uc *AstroUseCase) toError(err error) error {
	var decodeErr *compat.DecodeError
	switch {
	case stderrors.Is(err, engine.ErrProfileRequired):
		return errors.NotFound("PROFILE_REQUIRED", "save a profile first")
	case stderrors.Is(err, engine.ErrUnknownTopic):
		return errors.BadRequest("UNKNOWN_TOPIC", err.Error())
	case stderrors.Is(err, engine.ErrUnknownConversation):
		return errors.NotFound("CONVERSATION_NOT_FOUND", err.Error())
	case stderrors.Is(err, assistant.ErrNotConfigured):
		return errors.ServiceUnavailable("ASSISTANT_NOT_CONFIGURED", err.Error())
	case stderrors.As(err, &decodeErr):
		uc.log.Warnf("compatibility report rejected: %v", err)
		return errors.New(422, ReasonReportMalformed, decodeErr.UserMessage()).WithCause(err)
	default:
		uc.log.Errorf("astro request failed: %v", err)
		return errors.InternalServer("INTERNAL", err.Error()).WithCause(err)
	}
}
