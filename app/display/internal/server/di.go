package server

import (
	"github.com/google/wire"

	"github.com/iWorld-y/astro_companion/app/astro/pkg/engine"
	"github.com/iWorld-y/astro_companion/app/display/internal/repo"
	"github.com/iWorld-y/astro_companion/app/display/internal/service"
	"github.com/iWorld-y/astro_companion/app/display/internal/usecase"
)

// ProviderSet 是展示服务的依赖注入 Provider 集合
var ProviderSet = wire.NewSet(
	// Server providers
	NewHTTPServer,

	// Engine providers
	NewMetrics,
	NewAstroEngine,
	wire.Bind(new(repo.AstroRepo), new(*engine.Engine)),

	// UseCase providers
	usecase.NewAstroUseCase,

	// Service providers
	service.NewAstroService,
)
