package service

import (
	"context"
	"strconv"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/transport/http"

	"github.com/iWorld-y/astro_companion/app/astro/pkg/assistant"
	"github.com/iWorld-y/astro_companion/app/display/internal/domain"
	"github.com/iWorld-y/astro_companion/app/display/internal/usecase"
)

const (
	OperationGetProfile        = "/astro.v1.Astro/GetProfile"
	OperationSaveProfile       = "/astro.v1.Astro/SaveProfile"
	OperationGetChart          = "/astro.v1.Astro/GetChart"
	OperationCompatibility     = "/astro.v1.Astro/Compatibility"
	OperationListTopics        = "/astro.v1.Astro/ListTopics"
	OperationStartConversation = "/astro.v1.Astro/StartConversation"
	OperationSendMessage       = "/astro.v1.Astro/SendMessage"
	OperationCloseConversation = "/astro.v1.Astro/CloseConversation"
)

type AstroService struct {
	uc  *usecase.AstroUseCase
	log *log.Helper
}

func NewAstroService(uc *usecase.AstroUseCase, logger log.Logger) *AstroService {
	return &AstroService{
		uc:  uc,
		log: log.NewHelper(logger),
	}
}

// RegisterHTTPServer 注册 /v1 下的所有路由
func (s *AstroService) RegisterHTTPServer(srv *http.Server) {
	r := srv.Route("/")
	r.GET("/v1/profile", s.getProfile)
	r.PUT("/v1/profile", s.saveProfile)
	r.GET("/v1/chart", s.getChart)
	r.POST("/v1/compatibility", s.compatibility)
	r.GET("/v1/topics", s.listTopics)
	r.POST("/v1/conversations", s.startConversation)
	r.POST("/v1/conversations/{id}/messages", s.sendMessage)
	r.DELETE("/v1/conversations/{id}", s.closeConversation)
}

func (s *AstroService) getProfile(ctx http.Context) error {
	http.SetOperation(ctx, OperationGetProfile)
	h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
		return s.uc.GetProfile(ctx)
	})
	out, err := h(ctx, nil)
	if err != nil {
		return err
	}
	return ctx.Result(200, out)
}

func (s *AstroService) saveProfile(ctx http.Context) error {
	var in domain.Profile
	if err := ctx.Bind(&in); err != nil {
		return err
	}
	http.SetOperation(ctx, OperationSaveProfile)
	h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
		return s.uc.SaveProfile(ctx, req.(*domain.Profile))
	})
	out, err := h(ctx, &in)
	if err != nil {
		return err
	}
	return ctx.Result(200, out)
}

func (s *AstroService) getChart(ctx http.Context) error {
	refresh, _ := strconv.ParseBool(ctx.Query().Get("refresh"))
	http.SetOperation(ctx, OperationGetChart)
	h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
		return s.uc.Chart(ctx, refresh)
	})
	out, err := h(ctx, nil)
	if err != nil {
		return err
	}
	return ctx.Result(200, out)
}

func (s *AstroService) compatibility(ctx http.Context) error {
	var in domain.CompatibilityRequest
	if err := ctx.Bind(&in); err != nil {
		return err
	}
	http.SetOperation(ctx, OperationCompatibility)
	h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
		return s.uc.Compatibility(ctx, req.(*domain.CompatibilityRequest))
	})
	out, err := h(ctx, &in)
	if err != nil {
		return err
	}
	return ctx.Result(200, out)
}

func (s *AstroService) listTopics(ctx http.Context) error {
	http.SetOperation(ctx, OperationListTopics)
	return ctx.Result(200, map[string][]string{"topics": assistant.Topics})
}

func (s *AstroService) startConversation(ctx http.Context) error {
	var in domain.StartConversationRequest
	if err := ctx.Bind(&in); err != nil {
		return err
	}
	http.SetOperation(ctx, OperationStartConversation)
	h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
		return s.uc.StartConversation(ctx, req.(*domain.StartConversationRequest))
	})
	out, err := h(ctx, &in)
	if err != nil {
		return err
	}
	return ctx.Result(200, out)
}

func (s *AstroService) sendMessage(ctx http.Context) error {
	var in domain.MessageRequest
	if err := ctx.Bind(&in); err != nil {
		return err
	}
	id := ctx.Vars().Get("id")
	http.SetOperation(ctx, OperationSendMessage)
	h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
		return s.uc.SendMessage(ctx, id, req.(*domain.MessageRequest))
	})
	out, err := h(ctx, &in)
	if err != nil {
		return err
	}
	return ctx.Result(200, out)
}

func (s *AstroService) closeConversation(ctx http.Context) error {
	id := ctx.Vars().Get("id")
	http.SetOperation(ctx, OperationCloseConversation)
	h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
		return map[string]bool{"closed": true}, s.uc.CloseConversation(ctx, id)
	})
	out, err := h(ctx, nil)
	if err != nil {
		return err
	}
	return ctx.Result(200, out)
}
