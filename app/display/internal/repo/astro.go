package repo

import (
	"context"

	"github.com/iWorld-y/astro_companion/app/astro/pkg/compat"
	dm "github.com/iWorld-y/astro_companion/app/astro/pkg/model"
)

// AstroRepo astro 引擎提供的能力
type AstroRepo interface {
	Profile(ctx context.Context) (*dm.Profile, error)
	SaveProfile(ctx context.Context, p *dm.Profile) error
	Chart(ctx context.Context, refresh bool) ([]dm.Planet, error)
	Compatibility(ctx context.Context, kind dm.Kind, partner dm.Person) (*compat.Report, error)
	StartConversation(topic int) (string, string, error)
	SendMessage(ctx context.Context, id, text string) (string, error)
	Transcript(id string) ([]string, error)
	CloseConversation(ctx context.Context, id string) error
}
